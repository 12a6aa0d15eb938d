// Package loader implements driver library loading, entry-point
// resolution, and typed binding.
//
// A Loader wraps a ProcSource: either the platform driver library
// (opened with Open, which loads the shared library and binds its
// vkGetInstanceProcAddr) or any in-process source such as the testbed
// driver.
//
// Resolution is name-based and scope-sensitive:
//
//	addr, err := l.Resolve(loader.Global(), "vkEnumerateInstanceLayerProperties")
//	addr, err := l.Resolve(loader.Instance(inst), "vkDestroyInstance")
//
// A zero address with a nil error means the driver does not expose the
// command. That outcome is common and expected; only argument validation
// and loader lifecycle produce errors here.
//
// Bind layers a typed Go function over a resolved address:
//
//	destroy, err := loader.Bind[func(uintptr, uintptr)](l, loader.Instance(inst), "vkDestroyInstance")
//
// The resolver never caches. Callers that want stable dispatch build
// their own tables, as the instance package does at creation time.
package loader
