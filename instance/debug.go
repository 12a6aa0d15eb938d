package instance

import (
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/ebitengine/purego"
	"go.uber.org/zap"

	vk "github.com/wippyai/vulkan-runtime"
	"github.com/wippyai/vulkan-runtime/abi"
	"github.com/wippyai/vulkan-runtime/errors"
)

// Event is the decoded payload of one diagnostic callback invocation.
// It is assembled fresh per invocation and not retained by the library;
// handlers may keep it.
type Event struct {
	Flags       vk.DebugReportFlags
	ObjectType  vk.ObjectType
	Object      uint64
	Location    uintptr
	MessageCode int32
	LayerPrefix string
	Message     string
	UserData    uintptr
}

// Handler receives decoded diagnostic events. The returned bool travels
// back to the driver; for validation layers true requests aborting the
// triggering call, false lets it proceed. Handlers run on driver
// threads and must be safe for concurrent and reentrant invocation.
type Handler func(Event) bool

// CallbackOption configures RegisterDebugCallback.
type CallbackOption func(*callbackConfig)

type callbackConfig struct {
	userData uintptr
	alloc    *Allocator
}

// WithUserData attaches an opaque pointer-sized value passed through to
// every event, unchanged.
func WithUserData(p uintptr) CallbackOption {
	return func(c *callbackConfig) { c.userData = p }
}

// WithCallbackAllocator uses a dedicated allocator for the registration
// object instead of the instance's.
func WithCallbackAllocator(a *Allocator) CallbackOption {
	return func(c *callbackConfig) { c.alloc = a }
}

// DebugCallback is a live diagnostic callback registration. The token
// is the sole owner of the handler reference: the handler stays
// reachable from registration until Close, regardless of what the
// caller retains.
type DebugCallback struct {
	inst    *Instance
	handle  uint64
	handler Handler
	thunk   uintptr

	// destroy is bound against the owning instance at registration
	// time, so Close needs no further resolution.
	destroy  func(instance vk.Handle, callback uint64, pAllocator *vk.AllocationCallbacks)
	alloc    *Allocator
	allocRaw *vk.AllocationCallbacks

	faults atomic.Uint64

	mu     sync.Mutex
	closed bool
}

// RegisterDebugCallback registers handler for every event matching
// flags. Requires the debug-report extension to have been enabled at
// instance creation.
//
// The native thunk backing the registration occupies a process-lifetime
// callback slot (purego cannot release them); registrations are meant
// to be few and long-lived, not created per event.
func (i *Instance) RegisterDebugCallback(flags vk.DebugReportFlags, handler Handler, opts ...CallbackOption) (*DebugCallback, error) {
	if err := i.alive(errors.PhaseCreate); err != nil {
		return nil, err
	}
	if handler == nil {
		return nil, errors.InvalidArgument(errors.PhaseCreate, "handler must not be nil")
	}
	if i.d.createDebugCallback == nil || i.d.destroyDebugCallback == nil {
		return nil, errors.Unsupported(errors.PhaseCreate,
			"debug-report entry points unavailable; enable "+DebugReportExtensionName)
	}

	var cfg callbackConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	cb := &DebugCallback{
		inst:    i,
		handler: handler,
		destroy: i.d.destroyDebugCallback,
		alloc:   cfg.alloc,
	}
	if cfg.alloc != nil {
		cb.allocRaw = cfg.alloc.raw()
	} else {
		cb.allocRaw = i.allocRaw
	}
	cb.thunk = purego.NewCallback(cb.invoke)

	createInfo := vk.DebugReportCallbackCreateInfo{
		SType:       vk.StructureTypeDebugReportCallbackCreateInfo,
		Flags:       flags,
		PfnCallback: cb.thunk,
		PUserData:   cfg.userData,
	}

	var handle uint64
	r := vk.Result(i.d.createDebugCallback(i.handle, &createInfo, cb.allocPtr(), &handle))
	runtime.KeepAlive(&createInfo)
	if r != vk.Success {
		return nil, errors.DriverStatus(errors.PhaseCreate, "vkCreateDebugReportCallbackEXT", int32(r))
	}

	cb.handle = handle
	return cb, nil
}

// invoke is the trampoline body. The driver calls it on its own threads
// with the raw native argument list; it decodes them, dispatches to the
// handler, and converts the result back. A panic in the handler is
// recovered here: letting it unwind through native frames would crash
// the process, so it is logged, counted, and replaced by a false
// (do not suppress) result.
func (cb *DebugCallback) invoke(flags, objectType, object, location, messageCode, pLayerPrefix, pMessage, pUserData uintptr) (result uintptr) {
	defer func() {
		if rec := recover(); rec != nil {
			cb.faults.Add(1)
			Logger().Error("debug callback handler panicked",
				zap.Uint64("callback", cb.handle),
				zap.Error(errors.CallbackFault("vkDebugReportCallbackEXT", rec)))
			result = uintptr(vk.False)
		}
	}()

	ev := Event{
		Flags:       vk.DebugReportFlags(flags),
		ObjectType:  vk.ObjectType(int32(objectType)),
		Object:      uint64(object),
		Location:    location,
		MessageCode: int32(messageCode),
		LayerPrefix: abi.GoString(pLayerPrefix),
		Message:     abi.GoString(pMessage),
		UserData:    pUserData,
	}

	if cb.handler(ev) {
		return uintptr(vk.True)
	}
	return uintptr(vk.False)
}

// Faults returns how many handler panics the trampoline has recovered.
// This is the synchronous face of the fault side channel; the
// asynchronous face is the package logger.
func (cb *DebugCallback) Faults() uint64 { return cb.faults.Load() }

// Handle returns the driver's registration identity.
func (cb *DebugCallback) Handle() uint64 { return cb.handle }

func (cb *DebugCallback) allocPtr() *vk.AllocationCallbacks {
	return cb.allocRaw
}

// Close unregisters the callback and releases the handler reference.
// The order is fixed: the driver's destroy entry point returns only
// once no further invocations can occur, and the handler reference is
// dropped strictly after that. Close is idempotent and never errors on
// repeated calls.
//
// The native thunk slot itself is process-lifetime and is not
// reclaimed; see RegisterDebugCallback.
func (cb *DebugCallback) Close() error {
	cb.mu.Lock()
	if cb.closed {
		cb.mu.Unlock()
		return nil
	}
	cb.closed = true
	cb.mu.Unlock()

	cb.destroy(cb.inst.handle, cb.handle, cb.allocPtr())
	runtime.KeepAlive(cb.allocRaw)

	// Safe to release only now: destroy has returned.
	cb.handler = nil
	return nil
}

// SubmitMessage injects a diagnostic message into the instance's
// callback chain, synchronously: every matching registered callback has
// run by the time it returns. Primarily a testing and tooling hook.
func (i *Instance) SubmitMessage(flags vk.DebugReportFlags, objectType vk.ObjectType, object uint64, location uintptr, messageCode int32, layerPrefix, message string) error {
	if err := i.alive(errors.PhaseDispatch); err != nil {
		return err
	}
	if i.d.debugReportMessage == nil {
		return errors.Unsupported(errors.PhaseDispatch,
			"vkDebugReportMessageEXT unavailable; enable "+DebugReportExtensionName)
	}

	prefixPtr, prefixBuf, err := cStringOrNil(layerPrefix)
	if err != nil {
		return err
	}
	msgPtr, msgBuf, err := cStringOrNil(message)
	if err != nil {
		return err
	}

	i.d.debugReportMessage(i.handle, uint32(flags), int32(objectType), object,
		location, messageCode, prefixPtr, msgPtr)
	runtime.KeepAlive(prefixBuf)
	runtime.KeepAlive(msgBuf)
	return nil
}
