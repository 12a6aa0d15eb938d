package instance

import (
	"testing"
	"unsafe"

	"github.com/ebitengine/purego"

	vk "github.com/wippyai/vulkan-runtime"
	"github.com/wippyai/vulkan-runtime/testbed"
)

func TestAllocator_ThunksPopulated(t *testing.T) {
	a := NewAllocator(0x55, AllocationFuncs{
		Allocation: func(userData, size, alignment uintptr, scope AllocationScope) uintptr {
			return 0
		},
		Reallocation: func(userData, original, size, alignment uintptr, scope AllocationScope) uintptr {
			return 0
		},
		Free:               func(userData, memory uintptr) {},
		InternalAllocation: func(userData, size uintptr, allocationType int32, scope AllocationScope) {},
		InternalFree:       func(userData, size uintptr, allocationType int32, scope AllocationScope) {},
	})

	raw := a.raw()
	if raw.PUserData != 0x55 {
		t.Fatalf("PUserData = %#x, want 0x55", raw.PUserData)
	}
	if raw.PfnAllocation == 0 || raw.PfnReallocation == 0 || raw.PfnFree == 0 {
		t.Fatal("Required thunk slots are zero")
	}
	if raw.PfnInternalAllocation == 0 || raw.PfnInternalFree == 0 {
		t.Fatal("Internal notification thunk slots are zero")
	}

	// raw aliases the allocator; repeated calls must pin one record,
	// not mint new ones.
	if a.raw() != raw {
		t.Fatal("raw() is not stable")
	}
}

func TestAllocator_OptionalHooksStayNil(t *testing.T) {
	a := NewAllocator(0, AllocationFuncs{
		Allocation: func(userData, size, alignment uintptr, scope AllocationScope) uintptr {
			return 0
		},
		Free: func(userData, memory uintptr) {},
	})

	raw := a.raw()
	if raw.PfnAllocation == 0 || raw.PfnFree == 0 {
		t.Fatal("Required thunk slots are zero")
	}
	if raw.PfnReallocation != 0 || raw.PfnInternalAllocation != 0 || raw.PfnInternalFree != 0 {
		t.Fatal("Optional thunk slots set without hooks")
	}
}

func TestAllocator_RequiresAllocationAndFree(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("Expected panic for missing Free hook")
		}
	}()
	NewAllocator(0, AllocationFuncs{
		Allocation: func(userData, size, alignment uintptr, scope AllocationScope) uintptr {
			return 0
		},
	})
}

func TestAllocator_NativeInvoke(t *testing.T) {
	type call struct {
		userData, size, alignment uintptr
		scope                     AllocationScope
	}
	var got call
	a := NewAllocator(0x77, AllocationFuncs{
		Allocation: func(userData, size, alignment uintptr, scope AllocationScope) uintptr {
			got = call{userData, size, alignment, scope}
			return 0xCAFE
		},
		Free: func(userData, memory uintptr) {},
	})

	// Drive the thunk the way a driver would: through its native
	// pointer, not as a Go func value.
	var alloc func(userData, size, alignment, scope uintptr) uintptr
	purego.RegisterFunc(&alloc, a.raw().PfnAllocation)

	ret := alloc(0x77, 256, 16, uintptr(AllocationScopeInstance))
	if ret != 0xCAFE {
		t.Fatalf("allocation returned %#x, want 0xCAFE", ret)
	}
	if got.userData != 0x77 || got.size != 256 || got.alignment != 16 {
		t.Fatalf("hook saw %+v", got)
	}
	if got.scope != AllocationScopeInstance {
		t.Fatalf("scope = %d, want %d", got.scope, AllocationScopeInstance)
	}
}

func TestAllocator_InstanceRoundTrip(t *testing.T) {
	drv := testbed.New(testbed.Config{})
	l := newTestLoader(t, drv)

	a := NewAllocator(0, AllocationFuncs{
		Allocation: func(userData, size, alignment uintptr, scope AllocationScope) uintptr {
			return 0
		},
		Free: func(userData, memory uintptr) {},
	})

	inst, err := Create(l, Options{
		EnabledExtensions: []string{DebugReportExtensionName},
		Allocator:         a,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	want := uintptr(unsafe.Pointer(a.raw()))
	if seen := drv.AllocatorSeen("vkCreateInstance"); seen != want {
		t.Fatalf("create saw allocator %#x, want %#x", seen, want)
	}

	if _, err := inst.PhysicalDevices(); err != nil {
		t.Fatalf("PhysicalDevices failed: %v", err)
	}

	// The same pinned record must reach teardown.
	inst.Destroy()
	if seen := drv.AllocatorSeen("vkDestroyInstance"); seen != want {
		t.Fatalf("destroy saw allocator %#x, want %#x", seen, want)
	}
}

func TestAllocator_CallbackAllocator(t *testing.T) {
	drv, _, inst := newTestInstance(t, testbed.Config{})

	a := NewAllocator(0, AllocationFuncs{
		Allocation: func(userData, size, alignment uintptr, scope AllocationScope) uintptr {
			return 0
		},
		Free: func(userData, memory uintptr) {},
	})

	cb, err := inst.RegisterDebugCallback(vk.AllSeverities, func(Event) bool { return false },
		WithCallbackAllocator(a))
	if err != nil {
		t.Fatalf("RegisterDebugCallback failed: %v", err)
	}

	want := uintptr(unsafe.Pointer(a.raw()))
	if seen := drv.AllocatorSeen("vkCreateDebugReportCallbackEXT"); seen != want {
		t.Fatalf("create saw allocator %#x, want %#x", seen, want)
	}

	if err := cb.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if seen := drv.AllocatorSeen("vkDestroyDebugReportCallbackEXT"); seen != want {
		t.Fatalf("destroy saw allocator %#x, want %#x", seen, want)
	}
}

func TestAllocator_DefaultIsNil(t *testing.T) {
	drv, _, inst := newTestInstance(t, testbed.Config{})

	if seen := drv.AllocatorSeen("vkCreateInstance"); seen != 0 {
		t.Fatalf("default create saw allocator %#x, want 0", seen)
	}

	cb, err := inst.RegisterDebugCallback(vk.AllSeverities, func(Event) bool { return false })
	if err != nil {
		t.Fatalf("RegisterDebugCallback failed: %v", err)
	}
	defer cb.Close()
	if seen := drv.AllocatorSeen("vkCreateDebugReportCallbackEXT"); seen != 0 {
		t.Fatalf("default registration saw allocator %#x, want 0", seen)
	}
}