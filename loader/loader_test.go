package loader

import (
	"testing"

	vk "github.com/wippyai/vulkan-runtime"
	vkerrors "github.com/wippyai/vulkan-runtime/errors"
	"github.com/wippyai/vulkan-runtime/testbed"
)

func TestLoader_ResolveGlobal(t *testing.T) {
	drv := testbed.New(testbed.Config{})
	l := New(drv)
	defer l.Close()

	addr, err := l.Resolve(Global(), "vkCreateInstance")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if addr == 0 {
		t.Fatal("Expected non-zero address for vkCreateInstance")
	}
	if drv.ProcAddrCalls() != 1 {
		t.Fatalf("Expected 1 proc-addr call, got %d", drv.ProcAddrCalls())
	}
}

func TestLoader_ResolveUnknownName(t *testing.T) {
	drv := testbed.New(testbed.Config{})
	l := New(drv)
	defer l.Close()

	// Unknown commands are a miss, not an error.
	addr, err := l.Resolve(Global(), "vkDoesNotExist")
	if err != nil {
		t.Fatalf("Resolve returned error for unknown name: %v", err)
	}
	if addr != 0 {
		t.Fatalf("Expected zero address, got %#x", addr)
	}
}

func TestLoader_ResolveEmptyName(t *testing.T) {
	drv := testbed.New(testbed.Config{})
	l := New(drv)
	defer l.Close()

	_, err := l.Resolve(Global(), "")
	if err == nil {
		t.Fatal("Expected error for empty name")
	}
	if !vkerrors.IsKind(err, vkerrors.KindInvalidArgument) {
		t.Fatalf("Expected invalid_argument, got %v", err)
	}
	// Rejected before reaching the driver.
	if drv.ProcAddrCalls() != 0 {
		t.Fatalf("Expected 0 proc-addr calls, got %d", drv.ProcAddrCalls())
	}
}

func TestLoader_InstanceScopeGating(t *testing.T) {
	drv := testbed.New(testbed.Config{})
	l := New(drv)
	defer l.Close()

	// Instance-level commands are not resolvable at global scope.
	addr, err := l.Resolve(Global(), "vkDestroyInstance")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if addr != 0 {
		t.Fatal("Expected vkDestroyInstance to be unresolvable at global scope")
	}
}

func TestLoader_ResolveNeverCaches(t *testing.T) {
	drv := testbed.New(testbed.Config{})
	l := New(drv)
	defer l.Close()

	for i := 0; i < 3; i++ {
		if _, err := l.Resolve(Global(), "vkCreateInstance"); err != nil {
			t.Fatalf("Resolve %d failed: %v", i, err)
		}
	}
	if drv.ProcAddrCalls() != 3 {
		t.Fatalf("Expected 3 proc-addr calls, got %d", drv.ProcAddrCalls())
	}
}

func TestLoader_Closed(t *testing.T) {
	drv := testbed.New(testbed.Config{})
	l := New(drv)

	if err := l.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	// Idempotent.
	if err := l.Close(); err != nil {
		t.Fatalf("Second Close failed: %v", err)
	}

	_, err := l.Resolve(Global(), "vkCreateInstance")
	if !vkerrors.IsKind(err, vkerrors.KindNotInitialized) {
		t.Fatalf("Expected not_initialized after Close, got %v", err)
	}
}

func TestBind_CallThroughNative(t *testing.T) {
	drv := testbed.New(testbed.Config{})
	l := New(drv)
	defer l.Close()

	// Bind the layer enumeration and drive the count phase directly.
	// count is a plain local; the driver's write through the pointer
	// must land in it.
	fn, err := Bind[func(pCount *uint32, pProps *vk.LayerProperties) int32](l, Global(), "vkEnumerateInstanceLayerProperties")
	if err != nil {
		t.Fatalf("Bind failed: %v", err)
	}
	if fn == nil {
		t.Fatal("Expected bound function")
	}

	var count uint32
	r := vk.Result(fn(&count, nil))
	if r != vk.Success {
		t.Fatalf("Expected Success, got %v", r)
	}
	if count != 1 {
		t.Fatalf("Expected 1 default layer, got %d", count)
	}
	if drv.Calls("vkEnumerateInstanceLayerProperties") != 1 {
		t.Fatalf("Expected 1 call, got %d", drv.Calls("vkEnumerateInstanceLayerProperties"))
	}
}

func TestBind_UnknownNameLeavesFuncNil(t *testing.T) {
	drv := testbed.New(testbed.Config{})
	l := New(drv)
	defer l.Close()

	fn, err := Bind[func() int32](l, Global(), "vkNotARealCommand")
	if err != nil {
		t.Fatalf("Bind returned error: %v", err)
	}
	if fn != nil {
		t.Fatal("Expected nil func for unresolvable name")
	}
}

func TestLoader_AsProcSource(t *testing.T) {
	drv := testbed.New(testbed.Config{})
	l := New(drv)
	defer l.Close()

	// A Loader is itself a ProcSource and can back another Loader.
	var src vk.ProcSource = l
	if src.ProcAddr(vk.NullHandle, "vkCreateInstance") == 0 {
		t.Fatal("Expected loader to forward resolution")
	}
}

func TestScope(t *testing.T) {
	g := Global()
	if !g.IsGlobal() {
		t.Fatal("Expected global scope")
	}
	s := Instance(vk.Handle(5))
	if s.IsGlobal() {
		t.Fatal("Expected instance scope")
	}
	if s.Handle() != vk.Handle(5) {
		t.Fatalf("Expected handle 5, got %d", s.Handle())
	}
}
