package vulkanruntime

// Handle is an opaque driver object identity. Dispatchable handles
// (instance, physical device) are pointers on every platform;
// non-dispatchable handles (debug-report callbacks) are 64-bit values.
// A Handle is immutable once created.
type Handle uintptr

// NullHandle is the absent handle.
const NullHandle Handle = 0

// Bool32 is the driver's 32-bit boolean.
type Bool32 uint32

const (
	False Bool32 = 0
	True  Bool32 = 1
)

// B32 converts a Go bool to the driver representation.
func B32(b bool) Bool32 {
	if b {
		return True
	}
	return False
}

// Bool converts a driver boolean to a Go bool. Any non-zero value is
// true, matching driver semantics.
func (b Bool32) Bool() bool { return b != 0 }

// Result is a driver status code. Zero is success, positive values are
// non-error statuses, negative values are errors.
type Result int32

const (
	Success    Result = 0
	NotReady   Result = 1
	Timeout    Result = 2
	Incomplete Result = 5

	ErrOutOfHostMemory     Result = -1
	ErrOutOfDeviceMemory   Result = -2
	ErrInitializationFail  Result = -3
	ErrLayerNotPresent     Result = -6
	ErrExtensionNotPresent Result = -7
	ErrIncompatibleDriver  Result = -9
)

// IsError reports whether r is an error status (negative).
func (r Result) IsError() bool { return r < 0 }

func (r Result) String() string {
	switch r {
	case Success:
		return "success"
	case NotReady:
		return "not_ready"
	case Timeout:
		return "timeout"
	case Incomplete:
		return "incomplete"
	case ErrOutOfHostMemory:
		return "error_out_of_host_memory"
	case ErrOutOfDeviceMemory:
		return "error_out_of_device_memory"
	case ErrInitializationFail:
		return "error_initialization_failed"
	case ErrLayerNotPresent:
		return "error_layer_not_present"
	case ErrExtensionNotPresent:
		return "error_extension_not_present"
	case ErrIncompatibleDriver:
		return "error_incompatible_driver"
	}
	if r < 0 {
		return "error_unknown"
	}
	return "status_unknown"
}

// ProcSource yields raw entry-point addresses by name. The real driver
// source wraps vkGetInstanceProcAddr; the testbed driver serves an
// in-process table. A zero instance handle selects the global scope.
//
// ProcAddr returns zero when the source does not expose the named
// command. Addresses returned for a non-zero instance are valid only for
// that instance.
type ProcSource interface {
	ProcAddr(instance Handle, name string) uintptr
}

// MakeVersion packs a semantic version into the driver's 32-bit
// encoding: 10 bits major, 10 bits minor, 12 bits patch.
func MakeVersion(major, minor, patch uint32) uint32 {
	return major<<22 | minor<<12 | patch
}

// Packed API versions accepted at instance creation.
var (
	APIVersion10 = MakeVersion(1, 0, 0)
	APIVersion11 = MakeVersion(1, 1, 0)
	APIVersion12 = MakeVersion(1, 2, 0)
	APIVersion13 = MakeVersion(1, 3, 0)
)

// DebugReportFlags is the severity bitmask carried by diagnostic events.
type DebugReportFlags uint32

const (
	Information        DebugReportFlags = 1 << 0
	Warning            DebugReportFlags = 1 << 1
	PerformanceWarning DebugReportFlags = 1 << 2
	Error              DebugReportFlags = 1 << 3
	Debug              DebugReportFlags = 1 << 4

	// AllSeverities selects every severity bit.
	AllSeverities = Information | Warning | PerformanceWarning | Error | Debug
)

// Has reports whether all bits of mask are set in f.
func (f DebugReportFlags) Has(mask DebugReportFlags) bool { return f&mask == mask }

// ObjectType identifies the source object of a diagnostic event. Only
// the values the binding layer itself produces are named here; the
// driver may report others, which pass through numerically.
type ObjectType int32

const (
	ObjectUnknown             ObjectType = 0
	ObjectInstance            ObjectType = 1
	ObjectPhysicalDevice      ObjectType = 2
	ObjectDebugReportCallback ObjectType = 33
)

// Structure type tags for the create-info structs the binding builds.
type StructureType uint32

const (
	StructureTypeApplicationInfo               StructureType = 0
	StructureTypeInstanceCreateInfo            StructureType = 1
	StructureTypeDebugReportCallbackCreateInfo StructureType = 1000011000
	StructureTypePhysicalDeviceGroupProperties StructureType = 1000070000
)

// Fixed sizes shared with the driver ABI.
const (
	MaxExtensionNameSize = 256
	MaxDescriptionSize   = 256
	MaxDeviceGroupSize   = 32
)
