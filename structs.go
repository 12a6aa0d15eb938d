package vulkanruntime

// Fixed-layout structs shared with the driver ABI. Field order, widths,
// and padding mirror the C declarations on 64-bit targets, which is the
// platform set purego's register-based call path supports. Pointer
// fields are uintptr so the structs stay free of Go pointers and can be
// handed to native code directly.

// ApplicationInfo describes the application to the driver at instance
// creation.
type ApplicationInfo struct {
	SType              StructureType
	_                  [4]byte
	PNext              uintptr
	PApplicationName   uintptr
	ApplicationVersion uint32
	_                  [4]byte
	PEngineName        uintptr
	EngineVersion      uint32
	APIVersion         uint32
}

// InstanceCreateInfo is the instance creation request.
type InstanceCreateInfo struct {
	SType                   StructureType
	_                       [4]byte
	PNext                   uintptr
	Flags                   uint32
	_                       [4]byte
	PApplicationInfo        uintptr
	EnabledLayerCount       uint32
	_                       [4]byte
	PPEnabledLayerNames     uintptr
	EnabledExtensionCount   uint32
	_                       [4]byte
	PPEnabledExtensionNames uintptr
}

// AllocationCallbacks is the raw host allocator thunk set. All six
// pointer fields are native function or data pointers; a nil set selects
// the driver's default allocator. The owning handle must keep the struct
// and everything its thunks reference alive until the driver can no
// longer invoke them, including during teardown.
type AllocationCallbacks struct {
	PUserData             uintptr
	PfnAllocation         uintptr
	PfnReallocation       uintptr
	PfnFree               uintptr
	PfnInternalAllocation uintptr
	PfnInternalFree       uintptr
}

// DebugReportCallbackCreateInfo registers a diagnostic callback thunk.
type DebugReportCallbackCreateInfo struct {
	SType       StructureType
	_           [4]byte
	PNext       uintptr
	Flags       DebugReportFlags
	_           [4]byte
	PfnCallback uintptr
	PUserData   uintptr
}

// ExtensionProperties is one record of the extension enumeration.
type ExtensionProperties struct {
	ExtensionName [MaxExtensionNameSize]byte
	SpecVersion   uint32
}

// LayerProperties is one record of the layer enumeration.
type LayerProperties struct {
	LayerName             [MaxExtensionNameSize]byte
	SpecVersion           uint32
	ImplementationVersion uint32
	Description           [MaxDescriptionSize]byte
}

// PhysicalDeviceGroupProperties is one record of the device-group
// enumeration. Callers seed SType before the data call; the driver
// fills the rest.
type PhysicalDeviceGroupProperties struct {
	SType               StructureType
	_                   [4]byte
	PNext               uintptr
	PhysicalDeviceCount uint32
	_                   [4]byte
	PhysicalDevices     [MaxDeviceGroupSize]Handle
	SubsetAllocation    Bool32
	_                   [4]byte
}
