package instance

import (
	"runtime"
	"sync"
	"unsafe"

	"go.uber.org/zap"

	vk "github.com/wippyai/vulkan-runtime"
	"github.com/wippyai/vulkan-runtime/abi"
	"github.com/wippyai/vulkan-runtime/errors"
	"github.com/wippyai/vulkan-runtime/loader"
)

// DebugReportExtensionName is the instance extension that enables
// diagnostic callback registration and message injection.
const DebugReportExtensionName = "VK_EXT_debug_report"

// Options configures instance creation. The zero value is valid and
// requests an API 1.0 instance with no layers or extensions.
type Options struct {
	AppName       string
	AppVersion    uint32
	EngineName    string
	EngineVersion uint32
	// APIVersion is the packed API version to request; zero means 1.0.
	APIVersion uint32

	EnabledLayers     []string
	EnabledExtensions []string

	// Allocator supplies host allocation callbacks for this instance and
	// everything created under it. Nil selects the driver default.
	Allocator *Allocator
}

// dispatch is the instance's bound entry-point table. Binding happens
// once at creation; nil entries mean the driver does not expose the
// command (extension not enabled or not present).
//
// Output and struct parameters are declared as real pointer types, not
// uintptr: the compiler must see them as pointers so the pointed-to
// variables escape and native writes through them are visible.
type dispatch struct {
	destroyInstance          func(instance vk.Handle, pAllocator *vk.AllocationCallbacks)
	enumeratePhysicalDevices func(instance vk.Handle, pCount *uint32, pDevices *vk.Handle) int32
	enumerateDeviceGroups    func(instance vk.Handle, pCount *uint32, pProps *vk.PhysicalDeviceGroupProperties) int32
	createDebugCallback      func(instance vk.Handle, pCreateInfo *vk.DebugReportCallbackCreateInfo, pAllocator *vk.AllocationCallbacks, pCallback *uint64) int32
	destroyDebugCallback     func(instance vk.Handle, callback uint64, pAllocator *vk.AllocationCallbacks)
	debugReportMessage       func(instance vk.Handle, flags uint32, objectType int32, object uint64, location uintptr, messageCode int32, pLayerPrefix, pMessage *byte)
}

// Instance owns a driver instance handle. Safe for concurrent use.
// Destroy must not be called while child registrations are live; the
// binding does not cascade teardown across ownership boundaries.
type Instance struct {
	handle vk.Handle
	ld     *loader.Loader
	d      dispatch

	alloc    *Allocator
	allocRaw *vk.AllocationCallbacks

	mu        sync.Mutex
	destroyed bool
}

// Create creates a driver instance. Layer and extension names the
// driver does not provide surface as driver_status errors carrying the
// driver's code.
func Create(l *loader.Loader, opts Options) (*Instance, error) {
	createFn, err := loader.Bind[func(pCreateInfo *vk.InstanceCreateInfo, pAllocator *vk.AllocationCallbacks, pInstance *vk.Handle) int32](
		l, loader.Global(), "vkCreateInstance")
	if err != nil {
		return nil, err
	}
	if createFn == nil {
		return nil, errors.Unsupported(errors.PhaseCreate, "driver exposes no vkCreateInstance")
	}

	appNamePtr, appNameBuf, err := cStringOrNil(opts.AppName)
	if err != nil {
		return nil, err
	}
	engineNamePtr, engineNameBuf, err := cStringOrNil(opts.EngineName)
	if err != nil {
		return nil, err
	}
	layers, err := abi.NewStringArray(opts.EnabledLayers)
	if err != nil {
		return nil, err
	}
	exts, err := abi.NewStringArray(opts.EnabledExtensions)
	if err != nil {
		return nil, err
	}

	apiVersion := opts.APIVersion
	if apiVersion == 0 {
		apiVersion = vk.APIVersion10
	}

	appInfo := vk.ApplicationInfo{
		SType:              vk.StructureTypeApplicationInfo,
		PApplicationName:   uintptr(unsafe.Pointer(appNamePtr)),
		ApplicationVersion: opts.AppVersion,
		PEngineName:        uintptr(unsafe.Pointer(engineNamePtr)),
		EngineVersion:      opts.EngineVersion,
		APIVersion:         apiVersion,
	}
	createInfo := vk.InstanceCreateInfo{
		SType:                   vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo:        uintptr(unsafe.Pointer(&appInfo)),
		EnabledLayerCount:       layers.Len(),
		PPEnabledLayerNames:     layers.Pointer(),
		EnabledExtensionCount:   exts.Len(),
		PPEnabledExtensionNames: exts.Pointer(),
	}

	inst := &Instance{ld: l, alloc: opts.Allocator}
	if opts.Allocator != nil {
		inst.allocRaw = opts.Allocator.raw()
	}

	var handle vk.Handle
	r := vk.Result(createFn(&createInfo, inst.allocPtr(), &handle))
	runtime.KeepAlive(&appInfo)
	runtime.KeepAlive(appNameBuf)
	runtime.KeepAlive(engineNameBuf)
	runtime.KeepAlive(layers)
	runtime.KeepAlive(exts)
	if r != vk.Success {
		return nil, errors.DriverStatus(errors.PhaseCreate, "vkCreateInstance", int32(r))
	}

	inst.handle = handle
	if err := inst.bindDispatch(); err != nil {
		if inst.d.destroyInstance != nil {
			inst.Destroy()
		}
		return nil, err
	}

	Logger().Debug("instance created",
		zap.Uintptr("handle", uintptr(inst.handle)),
		zap.Strings("layers", opts.EnabledLayers),
		zap.Strings("extensions", opts.EnabledExtensions))
	return inst, nil
}

// bindDispatch resolves the instance-level table against the new
// handle. Only destruction is mandatory; everything else may be absent
// and is checked at the call site.
func (i *Instance) bindDispatch() error {
	scope := loader.Instance(i.handle)

	var err error
	if i.d.destroyInstance, err = loader.Bind[func(instance vk.Handle, pAllocator *vk.AllocationCallbacks)](
		i.ld, scope, "vkDestroyInstance"); err != nil {
		return err
	}
	if i.d.destroyInstance == nil {
		return errors.Unsupported(errors.PhaseCreate, "driver exposes no vkDestroyInstance")
	}

	i.d.enumeratePhysicalDevices, _ = loader.Bind[func(instance vk.Handle, pCount *uint32, pDevices *vk.Handle) int32](
		i.ld, scope, "vkEnumeratePhysicalDevices")
	i.d.enumerateDeviceGroups, _ = loader.Bind[func(instance vk.Handle, pCount *uint32, pProps *vk.PhysicalDeviceGroupProperties) int32](
		i.ld, scope, "vkEnumeratePhysicalDeviceGroups")
	i.d.createDebugCallback, _ = loader.Bind[func(instance vk.Handle, pCreateInfo *vk.DebugReportCallbackCreateInfo, pAllocator *vk.AllocationCallbacks, pCallback *uint64) int32](
		i.ld, scope, "vkCreateDebugReportCallbackEXT")
	i.d.destroyDebugCallback, _ = loader.Bind[func(instance vk.Handle, callback uint64, pAllocator *vk.AllocationCallbacks)](
		i.ld, scope, "vkDestroyDebugReportCallbackEXT")
	i.d.debugReportMessage, _ = loader.Bind[func(instance vk.Handle, flags uint32, objectType int32, object uint64, location uintptr, messageCode int32, pLayerPrefix, pMessage *byte)](
		i.ld, scope, "vkDebugReportMessageEXT")
	return nil
}

// Handle returns the raw driver handle.
func (i *Instance) Handle() vk.Handle { return i.handle }

// Loader returns the loader this instance was created through.
func (i *Instance) Loader() *loader.Loader { return i.ld }

// allocPtr returns the pinned allocation-callback record, or nil for
// the driver default allocator.
func (i *Instance) allocPtr() *vk.AllocationCallbacks {
	return i.allocRaw
}

// alive returns an error if the instance has been destroyed.
func (i *Instance) alive(phase errors.Phase) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.destroyed {
		return errors.NotInitialized(phase, "instance")
	}
	return nil
}

// Destroy releases the driver instance. The allocation callbacks, if
// any, stay pinned until the driver's destroy call has returned, since
// the driver frees instance memory through them during teardown.
// Destroy is idempotent; second and later calls are no-ops.
func (i *Instance) Destroy() {
	i.mu.Lock()
	if i.destroyed {
		i.mu.Unlock()
		return
	}
	i.destroyed = true
	i.mu.Unlock()

	i.d.destroyInstance(i.handle, i.allocPtr())
	runtime.KeepAlive(i.allocRaw)
	runtime.KeepAlive(i.alloc)

	Logger().Debug("instance destroyed", zap.Uintptr("handle", uintptr(i.handle)))
}

func cStringOrNil(s string) (*byte, []byte, error) {
	if s == "" {
		return nil, nil, nil
	}
	return abi.CStringPtr(s)
}
