package testbed

import (
	"unsafe"

	"github.com/ebitengine/purego"

	vk "github.com/wippyai/vulkan-runtime"
	"github.com/wippyai/vulkan-runtime/abi"
)

// status packs a Result for return through a native thunk. Negative
// codes travel as their 32-bit two's-complement image.
func status(r vk.Result) uintptr {
	return uintptr(uint32(int32(r)))
}

func readStringArray(p uintptr, n uint32) []string {
	if p == 0 || n == 0 {
		return nil
	}
	out := make([]string, 0, n)
	step := unsafe.Sizeof(uintptr(0))
	for i := uintptr(0); i < uintptr(n); i++ {
		sp := *(*uintptr)(unsafe.Pointer(p + i*step))
		out = append(out, abi.GoString(sp))
	}
	return out
}

// callerCap reads the buffer capacity the caller declared for the data
// phase. Output slice views are bounded by it, never by the driver's own
// record count.
func callerCap(pCount uintptr) int {
	return int(*(*uint32)(unsafe.Pointer(pCount)))
}

// serveEnum implements the driver side of the two-call idiom over avail
// records, applying any injected shrink or incomplete fault on the data
// phase. write copies record src into output slot dst.
func (d *Driver) serveEnum(pCount, pData uintptr, avail int, write func(dst, src int)) uintptr {
	cnt := (*uint32)(unsafe.Pointer(pCount))

	if pData == 0 {
		*cnt = uint32(avail)
		return status(vk.Success)
	}

	if shrink := d.shrinkBy.Swap(0); shrink > 0 {
		avail -= int(shrink)
		if avail < 0 {
			avail = 0
		}
	}

	m := int(*cnt)
	if avail < m {
		m = avail
	}
	for i := 0; i < m; i++ {
		write(i, i)
	}
	*cnt = uint32(m)

	if d.incompleteBudget.Load() > 0 {
		d.incompleteBudget.Add(-1)
		return status(vk.Incomplete)
	}
	if m < avail {
		return status(vk.Incomplete)
	}
	return status(vk.Success)
}

type physicalDeviceState struct {
	parent vk.Handle
	index  int
}

func (d *Driver) hasLayer(name string) bool {
	for _, l := range d.cfg.Layers {
		if l.Name == name {
			return true
		}
	}
	return false
}

func (d *Driver) hasExtension(name string) bool {
	for _, e := range d.cfg.Extensions {
		if e.Name == name {
			return true
		}
	}
	return false
}

func (d *Driver) vkCreateInstance(pCreateInfo, pAllocator, pInstance uintptr) uintptr {
	d.count("vkCreateInstance")
	d.noteAllocator("vkCreateInstance", pAllocator)

	if pCreateInfo == 0 || pInstance == 0 {
		return status(vk.ErrInitializationFail)
	}
	ci := (*vk.InstanceCreateInfo)(unsafe.Pointer(pCreateInfo))
	if ci.SType != vk.StructureTypeInstanceCreateInfo {
		return status(vk.ErrInitializationFail)
	}

	for _, name := range readStringArray(ci.PPEnabledLayerNames, ci.EnabledLayerCount) {
		if !d.hasLayer(name) {
			return status(vk.ErrLayerNotPresent)
		}
	}
	for _, name := range readStringArray(ci.PPEnabledExtensionNames, ci.EnabledExtensionCount) {
		if !d.hasExtension(name) {
			return status(vk.ErrExtensionNotPresent)
		}
	}

	st := &instanceState{callbacks: make(map[vk.Handle]*callbackState)}
	h := d.objects.create(kindInstance, st)
	for i := 0; i < d.cfg.PhysicalDevices; i++ {
		dev := d.objects.create(kindPhysicalDevice, &physicalDeviceState{parent: h, index: i})
		st.devices = append(st.devices, dev)
	}

	*(*uintptr)(unsafe.Pointer(pInstance)) = uintptr(h)
	return status(vk.Success)
}

func (d *Driver) vkDestroyInstance(instance, pAllocator uintptr) uintptr {
	d.count("vkDestroyInstance")
	d.noteAllocator("vkDestroyInstance", pAllocator)

	v, ok := d.objects.drop(vk.Handle(instance), kindInstance)
	if !ok {
		return 0
	}
	st := v.(*instanceState)

	st.mu.Lock()
	if n := len(st.callbacks); n > 0 {
		d.leaked.Add(uint64(n))
	}
	st.callbacks = nil
	st.mu.Unlock()

	for _, dev := range st.devices {
		d.objects.drop(dev, kindPhysicalDevice)
	}
	return 0
}

func (d *Driver) vkEnumeratePhysicalDevices(instance, pCount, pDevices uintptr) uintptr {
	d.count("vkEnumeratePhysicalDevices")

	st, ok := d.instanceFor(vk.Handle(instance))
	if !ok {
		return status(vk.ErrInitializationFail)
	}

	var out []vk.Handle
	if pDevices != 0 {
		out = unsafe.Slice((*vk.Handle)(unsafe.Pointer(pDevices)), callerCap(pCount))
	}
	return d.serveEnum(pCount, pDevices, len(st.devices), func(dst, src int) {
		out[dst] = st.devices[src]
	})
}

func (d *Driver) vkEnumerateInstanceExtensionProperties(pLayerName, pCount, pProps uintptr) uintptr {
	d.count("vkEnumerateInstanceExtensionProperties")

	exts := d.cfg.Extensions
	if pLayerName != 0 {
		name := abi.GoString(pLayerName)
		found := false
		for _, l := range d.cfg.Layers {
			if l.Name == name {
				exts = l.Extensions
				found = true
				break
			}
		}
		if !found {
			return status(vk.ErrLayerNotPresent)
		}
	}

	var out []vk.ExtensionProperties
	if pProps != 0 {
		out = unsafe.Slice((*vk.ExtensionProperties)(unsafe.Pointer(pProps)), callerCap(pCount))
	}
	return d.serveEnum(pCount, pProps, len(exts), func(dst, src int) {
		rec := &out[dst]
		abi.PutFixedString(rec.ExtensionName[:], exts[src].Name)
		rec.SpecVersion = exts[src].SpecVersion
	})
}

func (d *Driver) vkEnumerateInstanceLayerProperties(pCount, pProps uintptr) uintptr {
	d.count("vkEnumerateInstanceLayerProperties")

	layers := d.cfg.Layers
	var out []vk.LayerProperties
	if pProps != 0 {
		out = unsafe.Slice((*vk.LayerProperties)(unsafe.Pointer(pProps)), callerCap(pCount))
	}
	return d.serveEnum(pCount, pProps, len(layers), func(dst, src int) {
		rec := &out[dst]
		abi.PutFixedString(rec.LayerName[:], layers[src].Name)
		rec.SpecVersion = layers[src].SpecVersion
		rec.ImplementationVersion = layers[src].ImplementationVersion
		abi.PutFixedString(rec.Description[:], layers[src].Description)
	})
}

func (d *Driver) vkEnumeratePhysicalDeviceGroups(instance, pCount, pProps uintptr) uintptr {
	d.count("vkEnumeratePhysicalDeviceGroups")

	st, ok := d.instanceFor(vk.Handle(instance))
	if !ok {
		return status(vk.ErrInitializationFail)
	}

	groups := d.cfg.DeviceGroups
	var out []vk.PhysicalDeviceGroupProperties
	if pProps != 0 {
		out = unsafe.Slice((*vk.PhysicalDeviceGroupProperties)(unsafe.Pointer(pProps)), callerCap(pCount))
	}
	return d.serveEnum(pCount, pProps, len(groups), func(dst, src int) {
		rec := &out[dst]
		rec.PhysicalDeviceCount = 0
		for _, idx := range groups[src] {
			if idx >= 0 && idx < len(st.devices) {
				rec.PhysicalDevices[rec.PhysicalDeviceCount] = st.devices[idx]
				rec.PhysicalDeviceCount++
			}
		}
		rec.SubsetAllocation = vk.False
	})
}

func (d *Driver) vkCreateDebugReportCallbackEXT(instance, pCreateInfo, pAllocator, pCallback uintptr) uintptr {
	d.count("vkCreateDebugReportCallbackEXT")
	d.noteAllocator("vkCreateDebugReportCallbackEXT", pAllocator)

	st, ok := d.instanceFor(vk.Handle(instance))
	if !ok {
		return status(vk.ErrInitializationFail)
	}
	if pCreateInfo == 0 || pCallback == 0 {
		return status(vk.ErrInitializationFail)
	}

	ci := (*vk.DebugReportCallbackCreateInfo)(unsafe.Pointer(pCreateInfo))
	if ci.SType != vk.StructureTypeDebugReportCallbackCreateInfo || ci.PfnCallback == 0 {
		return status(vk.ErrInitializationFail)
	}

	cb := &callbackState{
		flags:    ci.Flags,
		userData: ci.PUserData,
		active:   true,
	}
	purego.RegisterFunc(&cb.invoke, ci.PfnCallback)

	h := d.objects.create(kindCallback, cb)
	st.mu.Lock()
	st.callbacks[h] = cb
	st.mu.Unlock()

	*(*uint64)(unsafe.Pointer(pCallback)) = uint64(h)
	return status(vk.Success)
}

func (d *Driver) vkDestroyDebugReportCallbackEXT(instance, callback, pAllocator uintptr) uintptr {
	d.count("vkDestroyDebugReportCallbackEXT")
	d.noteAllocator("vkDestroyDebugReportCallbackEXT", pAllocator)

	st, ok := d.instanceFor(vk.Handle(instance))
	if ok {
		st.mu.Lock()
		delete(st.callbacks, vk.Handle(callback))
		st.mu.Unlock()
	}

	v, ok := d.objects.drop(vk.Handle(callback), kindCallback)
	if !ok {
		// Redundant destroy is tolerated.
		return 0
	}
	cb := v.(*callbackState)

	// Drain in-flight invocations before returning: the binding relies
	// on destroy-return as the no-further-invocations boundary.
	cb.mu.Lock()
	cb.active = false
	cb.mu.Unlock()
	return 0
}

func (d *Driver) vkDebugReportMessageEXT(instance, flags, objectType, object, location, messageCode, pLayerPrefix, pMessage uintptr) uintptr {
	d.count("vkDebugReportMessageEXT")

	st, ok := d.instanceFor(vk.Handle(instance))
	if !ok {
		return 0
	}

	st.mu.Lock()
	targets := make([]*callbackState, 0, len(st.callbacks))
	for _, cb := range st.callbacks {
		if vk.DebugReportFlags(flags)&cb.flags != 0 {
			targets = append(targets, cb)
		}
	}
	st.mu.Unlock()

	for _, cb := range targets {
		cb.mu.RLock()
		if cb.active {
			cb.invoke(uint32(flags), int32(objectType), uint64(object), location,
				int32(messageCode), pLayerPrefix, pMessage, cb.userData)
		}
		cb.mu.RUnlock()
	}
	return 0
}
