// Package vulkanruntime provides a dynamic Go binding layer over a
// Vulkan-style C-ABI driver interface.
//
// Driver entry points are not statically linkable: every command is
// reached by resolving its name at runtime through the loader's
// vkGetInstanceProcAddr and binding the returned address to a typed Go
// function. This library implements that resolution and binding
// mechanism, plus the pieces that surround it: instance and callback
// handle ownership, the two-call enumeration idiom, and the marshaling
// of driver-issued diagnostic callbacks onto Go closures.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct
// responsibilities:
//
//	vulkanruntime/       Root package with raw ABI types (Handle, Result,
//	                     Bool32) and the ProcSource interface
//	├── loader/          Library loading, entry-point resolution, and the
//	                     generic typed binder
//	├── instance/        High-level API: instances, physical devices,
//	                     property enumeration, debug-report callbacks
//	├── abi/             NUL-terminated string and buffer codecs for the
//	                     native boundary
//	├── errors/          Structured error types for debugging
//	└── testbed/         In-process stub driver used by tests and the
//	                     vkinfo tool
//
// # Quick Start
//
// Resolve the platform driver and create an instance:
//
//	l, err := loader.Open()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer l.Close()
//
//	inst, err := instance.Create(l, instance.Options{
//	    AppName:           "demo",
//	    EnabledExtensions: []string{instance.DebugReportExtensionName},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer inst.Destroy()
//
//	devices, err := inst.PhysicalDevices()
//
// # Entry-Point Resolution
//
// Resolution is scope-sensitive: loader-level commands resolve against
// the global scope, instance-level commands against one instance, and a
// pointer resolved for one instance must never be called through another.
// A name the driver does not expose resolves to zero; that is an expected
// outcome, not an error. The resolver itself never caches; the dispatch
// tables built by the instance package are caller-side caching.
//
// # Diagnostic Callbacks
//
// A registered callback closure is invoked by the driver on threads the
// driver owns, at any time, possibly reentrantly. The trampoline decodes
// the raw arguments into an Event, recovers any panic before it can
// unwind into native frames, and keeps the closure alive until the
// registration is explicitly closed. Close unregisters with the driver
// first and releases the closure only after the driver has acknowledged
// that no further invocations will occur.
//
// # Thread Safety
//
// Loader and Instance are safe for concurrent use. A DebugCallback's
// handler must itself be safe for concurrent invocation; the library
// adds no locking on the dispatch path because the driver's
// unregister-return is the synchronization point.
package vulkanruntime
