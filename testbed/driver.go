package testbed

import (
	"sync"
	"sync/atomic"

	"github.com/ebitengine/purego"

	vk "github.com/wippyai/vulkan-runtime"
)

// Extension is one entry of the stub's extension table.
type Extension struct {
	Name        string
	SpecVersion uint32
}

// Layer is one entry of the stub's layer table. A layer may carry its
// own extension list, returned when enumeration filters by layer name.
type Layer struct {
	Name                  string
	SpecVersion           uint32
	ImplementationVersion uint32
	Description           string
	Extensions            []Extension
}

// Config shapes the stub driver's reported capabilities. Zero values
// select a small default: one physical device, the debug-report
// extension, one validation-style layer, and all devices in one group.
type Config struct {
	PhysicalDevices int
	Extensions      []Extension
	Layers          []Layer
	// DeviceGroups lists groups as index sets into the physical devices.
	// Empty means one group holding every device.
	DeviceGroups [][]int
}

func (c Config) withDefaults() Config {
	if c.PhysicalDevices == 0 {
		c.PhysicalDevices = 1
	}
	if c.Extensions == nil {
		c.Extensions = []Extension{{Name: "VK_EXT_debug_report", SpecVersion: 10}}
	}
	if c.Layers == nil {
		c.Layers = []Layer{{
			Name:                  "VK_LAYER_TESTBED_validation",
			SpecVersion:           vk.APIVersion13,
			ImplementationVersion: 1,
			Description:           "testbed validation layer",
		}}
	}
	if c.DeviceGroups == nil {
		all := make([]int, c.PhysicalDevices)
		for i := range all {
			all[i] = i
		}
		c.DeviceGroups = [][]int{all}
	}
	return c
}

// Driver is the stub driver. It implements vulkanruntime.ProcSource;
// hand it to loader.New or loader.Open(loader.WithProcSource(d)).
type Driver struct {
	cfg   Config
	procs map[string]uintptr
	// global holds command names resolvable without an instance.
	global map[string]bool

	objects *objectTable

	counters      map[string]*atomic.Uint64
	procAddrCalls atomic.Uint64
	leaked        atomic.Uint64

	// allocSeen records the pAllocator value each create/destroy
	// command last received, keyed by command name.
	allocMu   sync.Mutex
	allocSeen map[string]uintptr

	// enumeration fault injection, consumed by the next data-phase call
	shrinkBy         atomic.Int64
	incompleteBudget atomic.Int64
}

// instanceState is the driver-side record behind an instance handle.
type instanceState struct {
	devices   []vk.Handle
	callbacks map[vk.Handle]*callbackState
	mu        sync.Mutex
}

// callbackState is one registered diagnostic callback. dispatch holds
// the bound native thunk; its RWMutex is the stub's implementation of
// the driver ordering guarantee: destroy takes the write lock and so
// returns only after in-flight invocations drain.
type callbackState struct {
	flags    vk.DebugReportFlags
	userData uintptr
	invoke   func(flags uint32, objectType int32, object uint64, location uintptr,
		messageCode int32, layerPrefix uintptr, message uintptr, userData uintptr) uint32
	mu     sync.RWMutex
	active bool
}

// New builds a stub driver and its native proc table.
func New(cfg Config) *Driver {
	d := &Driver{
		cfg:       cfg.withDefaults(),
		objects:   newObjectTable(),
		counters:  make(map[string]*atomic.Uint64),
		allocSeen: make(map[string]uintptr),
	}

	d.procs = map[string]uintptr{
		"vkCreateInstance":                       purego.NewCallback(d.vkCreateInstance),
		"vkDestroyInstance":                      purego.NewCallback(d.vkDestroyInstance),
		"vkEnumeratePhysicalDevices":             purego.NewCallback(d.vkEnumeratePhysicalDevices),
		"vkEnumerateInstanceExtensionProperties": purego.NewCallback(d.vkEnumerateInstanceExtensionProperties),
		"vkEnumerateInstanceLayerProperties":     purego.NewCallback(d.vkEnumerateInstanceLayerProperties),
		"vkEnumeratePhysicalDeviceGroups":        purego.NewCallback(d.vkEnumeratePhysicalDeviceGroups),
		"vkCreateDebugReportCallbackEXT":         purego.NewCallback(d.vkCreateDebugReportCallbackEXT),
		"vkDestroyDebugReportCallbackEXT":        purego.NewCallback(d.vkDestroyDebugReportCallbackEXT),
		"vkDebugReportMessageEXT":                purego.NewCallback(d.vkDebugReportMessageEXT),
	}
	d.global = map[string]bool{
		"vkCreateInstance":                       true,
		"vkEnumerateInstanceExtensionProperties": true,
		"vkEnumerateInstanceLayerProperties":     true,
	}
	for name := range d.procs {
		d.counters[name] = &atomic.Uint64{}
	}
	return d
}

// ProcAddr implements vulkanruntime.ProcSource. Global commands resolve
// in any scope; instance-level commands require a non-zero instance,
// matching loader semantics.
func (d *Driver) ProcAddr(instance vk.Handle, name string) uintptr {
	d.procAddrCalls.Add(1)

	addr, ok := d.procs[name]
	if !ok {
		return 0
	}
	if instance == vk.NullHandle && !d.global[name] {
		return 0
	}
	return addr
}

// ProcAddrCalls returns how many resolution requests the driver has
// served, including misses.
func (d *Driver) ProcAddrCalls() uint64 { return d.procAddrCalls.Load() }

// Calls returns how many times the named command has been invoked.
func (d *Driver) Calls(name string) uint64 {
	c, ok := d.counters[name]
	if !ok {
		return 0
	}
	return c.Load()
}

// LeakedCallbacks counts callback registrations that were still live
// when their owning instance was destroyed. Destroying an instance with
// live registrations is a caller error the binding does not clean up;
// this counter makes the leak observable in tests.
func (d *Driver) LeakedCallbacks() uint64 { return d.leaked.Load() }

// InjectShrink makes the next enumeration data call report n fewer
// records than the preceding count call promised, simulating driver
// state changing between the two calls.
func (d *Driver) InjectShrink(n int) { d.shrinkBy.Store(int64(n)) }

// InjectIncomplete makes the next times enumeration data calls return
// the incomplete status with a partial fill.
func (d *Driver) InjectIncomplete(times int) { d.incompleteBudget.Store(int64(times)) }

// AllocatorSeen returns the pAllocator value the named command received
// on its most recent invocation. Zero means the command has not run or
// ran with the driver default allocator.
func (d *Driver) AllocatorSeen(name string) uintptr {
	d.allocMu.Lock()
	defer d.allocMu.Unlock()
	return d.allocSeen[name]
}

func (d *Driver) noteAllocator(name string, p uintptr) {
	d.allocMu.Lock()
	d.allocSeen[name] = p
	d.allocMu.Unlock()
}

func (d *Driver) count(name string) { d.counters[name].Add(1) }

func (d *Driver) instanceFor(h vk.Handle) (*instanceState, bool) {
	v, ok := d.objects.get(h, kindInstance)
	if !ok {
		return nil, false
	}
	return v.(*instanceState), true
}
