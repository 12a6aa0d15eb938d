package instance

import (
	"math"
	"sync/atomic"
	"testing"

	vk "github.com/wippyai/vulkan-runtime"
	vkerrors "github.com/wippyai/vulkan-runtime/errors"
	"github.com/wippyai/vulkan-runtime/testbed"
)

func TestDebugCallback_EventDelivery(t *testing.T) {
	_, _, inst := newTestInstance(t, testbed.Config{})

	var got Event
	var calls atomic.Int64
	cb, err := inst.RegisterDebugCallback(vk.AllSeverities, func(ev Event) bool {
		got = ev
		calls.Add(1)
		return false
	})
	if err != nil {
		t.Fatalf("RegisterDebugCallback failed: %v", err)
	}
	defer cb.Close()

	// Field extremes: multi-byte text, full-width object handle, a
	// location beyond 32 bits, a negative message code.
	err = inst.SubmitMessage(vk.Warning, vk.ObjectPhysicalDevice,
		math.MaxUint64, uintptr(1)<<40, -42, "検証", "buffer überlauf 🖥")
	if err != nil {
		t.Fatalf("SubmitMessage failed: %v", err)
	}

	if calls.Load() != 1 {
		t.Fatalf("Expected 1 invocation, got %d", calls.Load())
	}
	if got.Flags != vk.Warning {
		t.Fatalf("Expected Warning flags, got %v", got.Flags)
	}
	if got.ObjectType != vk.ObjectPhysicalDevice {
		t.Fatalf("Expected physical-device object type, got %d", got.ObjectType)
	}
	if got.Object != math.MaxUint64 {
		t.Fatalf("Expected object %#x, got %#x", uint64(math.MaxUint64), got.Object)
	}
	if got.Location != uintptr(1)<<40 {
		t.Fatalf("Expected location %#x, got %#x", uintptr(1)<<40, got.Location)
	}
	if got.MessageCode != -42 {
		t.Fatalf("Expected message code -42, got %d", got.MessageCode)
	}
	if got.LayerPrefix != "検証" {
		t.Fatalf("Expected layer prefix %q, got %q", "検証", got.LayerPrefix)
	}
	if got.Message != "buffer überlauf 🖥" {
		t.Fatalf("Expected message round-trip, got %q", got.Message)
	}
}

func TestDebugCallback_SeverityFilter(t *testing.T) {
	_, _, inst := newTestInstance(t, testbed.Config{})

	var calls atomic.Int64
	cb, err := inst.RegisterDebugCallback(vk.Error, func(Event) bool {
		calls.Add(1)
		return false
	})
	if err != nil {
		t.Fatalf("RegisterDebugCallback failed: %v", err)
	}
	defer cb.Close()

	if err := inst.SubmitMessage(vk.Information, vk.ObjectInstance, 0, 0, 0, "t", "filtered"); err != nil {
		t.Fatalf("SubmitMessage failed: %v", err)
	}
	if calls.Load() != 0 {
		t.Fatal("Information event reached an Error-only callback")
	}

	if err := inst.SubmitMessage(vk.Error, vk.ObjectInstance, 0, 0, 0, "t", "matched"); err != nil {
		t.Fatalf("SubmitMessage failed: %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("Expected 1 invocation, got %d", calls.Load())
	}
}

func TestDebugCallback_UserData(t *testing.T) {
	_, _, inst := newTestInstance(t, testbed.Config{})

	const cookie = uintptr(0xDEADBEEF)
	var got uintptr
	cb, err := inst.RegisterDebugCallback(vk.AllSeverities, func(ev Event) bool {
		got = ev.UserData
		return false
	}, WithUserData(cookie))
	if err != nil {
		t.Fatalf("RegisterDebugCallback failed: %v", err)
	}
	defer cb.Close()

	if err := inst.SubmitMessage(vk.Error, vk.ObjectInstance, 0, 0, 0, "t", "m"); err != nil {
		t.Fatalf("SubmitMessage failed: %v", err)
	}
	if got != cookie {
		t.Fatalf("Expected user data %#x, got %#x", cookie, got)
	}
}

func TestDebugCallback_NoDeliveryAfterClose(t *testing.T) {
	drv, _, inst := newTestInstance(t, testbed.Config{})

	var calls atomic.Int64
	cb, err := inst.RegisterDebugCallback(vk.AllSeverities, func(Event) bool {
		calls.Add(1)
		return false
	})
	if err != nil {
		t.Fatalf("RegisterDebugCallback failed: %v", err)
	}

	if err := cb.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := cb.Close(); err != nil {
		t.Fatalf("Second Close failed: %v", err)
	}
	if drv.Calls("vkDestroyDebugReportCallbackEXT") != 1 {
		t.Fatalf("Expected 1 destroy call, got %d", drv.Calls("vkDestroyDebugReportCallbackEXT"))
	}

	if err := inst.SubmitMessage(vk.Error, vk.ObjectInstance, 0, 0, 0, "t", "late"); err != nil {
		t.Fatalf("SubmitMessage failed: %v", err)
	}
	if calls.Load() != 0 {
		t.Fatal("Event delivered after Close returned")
	}
}

func TestDebugCallback_HandlerPanicRecovered(t *testing.T) {
	_, _, inst := newTestInstance(t, testbed.Config{})

	var calls atomic.Int64
	cb, err := inst.RegisterDebugCallback(vk.AllSeverities, func(ev Event) bool {
		calls.Add(1)
		if ev.Message == "boom" {
			panic("handler exploded")
		}
		return false
	})
	if err != nil {
		t.Fatalf("RegisterDebugCallback failed: %v", err)
	}
	defer cb.Close()

	// The panic must be contained at the native boundary.
	if err := inst.SubmitMessage(vk.Error, vk.ObjectInstance, 0, 0, 0, "t", "boom"); err != nil {
		t.Fatalf("SubmitMessage failed: %v", err)
	}
	if cb.Faults() != 1 {
		t.Fatalf("Expected 1 recorded fault, got %d", cb.Faults())
	}

	// The registration stays usable afterwards.
	if err := inst.SubmitMessage(vk.Error, vk.ObjectInstance, 0, 0, 0, "t", "fine"); err != nil {
		t.Fatalf("SubmitMessage failed: %v", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("Expected 2 invocations, got %d", calls.Load())
	}
	if cb.Faults() != 1 {
		t.Fatalf("Fault count changed unexpectedly: %d", cb.Faults())
	}
}

func TestDebugCallback_ReentrantSubmit(t *testing.T) {
	_, _, inst := newTestInstance(t, testbed.Config{})

	var depth atomic.Int64
	cb, err := inst.RegisterDebugCallback(vk.AllSeverities, func(ev Event) bool {
		if depth.Add(1) == 1 {
			// Re-enter the dispatch path from inside a callback.
			if err := inst.SubmitMessage(vk.Warning, vk.ObjectInstance, 0, 0, 0, "t", "nested"); err != nil {
				t.Errorf("nested SubmitMessage failed: %v", err)
			}
		}
		return false
	})
	if err != nil {
		t.Fatalf("RegisterDebugCallback failed: %v", err)
	}
	defer cb.Close()

	if err := inst.SubmitMessage(vk.Error, vk.ObjectInstance, 0, 0, 0, "t", "outer"); err != nil {
		t.Fatalf("SubmitMessage failed: %v", err)
	}
	if depth.Load() != 2 {
		t.Fatalf("Expected 2 invocations, got %d", depth.Load())
	}
}

func TestDebugCallback_NilHandler(t *testing.T) {
	_, _, inst := newTestInstance(t, testbed.Config{})

	_, err := inst.RegisterDebugCallback(vk.AllSeverities, nil)
	if !vkerrors.IsKind(err, vkerrors.KindInvalidArgument) {
		t.Fatalf("Expected invalid_argument, got %v", err)
	}
}

func TestDebugCallback_MultipleRegistrations(t *testing.T) {
	_, _, inst := newTestInstance(t, testbed.Config{})

	var a, b atomic.Int64
	cbA, err := inst.RegisterDebugCallback(vk.Error, func(Event) bool { a.Add(1); return false })
	if err != nil {
		t.Fatalf("RegisterDebugCallback failed: %v", err)
	}
	defer cbA.Close()
	cbB, err := inst.RegisterDebugCallback(vk.Warning|vk.Error, func(Event) bool { b.Add(1); return false })
	if err != nil {
		t.Fatalf("RegisterDebugCallback failed: %v", err)
	}
	defer cbB.Close()

	if err := inst.SubmitMessage(vk.Warning, vk.ObjectInstance, 0, 0, 0, "t", "w"); err != nil {
		t.Fatalf("SubmitMessage failed: %v", err)
	}
	if err := inst.SubmitMessage(vk.Error, vk.ObjectInstance, 0, 0, 0, "t", "e"); err != nil {
		t.Fatalf("SubmitMessage failed: %v", err)
	}

	if a.Load() != 1 {
		t.Fatalf("Expected 1 invocation for Error-only callback, got %d", a.Load())
	}
	if b.Load() != 2 {
		t.Fatalf("Expected 2 invocations for Warning|Error callback, got %d", b.Load())
	}
}

func TestDebugCallback_LeakDetection(t *testing.T) {
	drv := testbed.New(testbed.Config{})
	l := newTestLoader(t, drv)
	inst, err := Create(l, Options{EnabledExtensions: []string{DebugReportExtensionName}})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	cb, err := inst.RegisterDebugCallback(vk.AllSeverities, func(Event) bool { return false })
	if err != nil {
		t.Fatalf("RegisterDebugCallback failed: %v", err)
	}
	_ = cb

	// Destroying the instance with a live registration is a leak the
	// stub driver records.
	inst.Destroy()
	if drv.LeakedCallbacks() != 1 {
		t.Fatalf("Expected 1 leaked callback, got %d", drv.LeakedCallbacks())
	}
}
