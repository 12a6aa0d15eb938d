//go:build linux || freebsd || darwin

package loader

import (
	"runtime"

	"github.com/ebitengine/purego"

	"github.com/wippyai/vulkan-runtime/errors"
)

// library is a loaded driver shared object.
type library struct {
	handle uintptr
	name   string
}

func defaultLibraryNames() []string {
	switch runtime.GOOS {
	case "darwin":
		return []string{"libvulkan.1.dylib", "libvulkan.dylib", "libMoltenVK.dylib"}
	case "android":
		return []string{"libvulkan.so"}
	default:
		return []string{"libvulkan.so.1", "libvulkan.so"}
	}
}

func openLibrary(path string) (*library, error) {
	candidates := defaultLibraryNames()
	if path != "" {
		candidates = []string{path}
	}

	var lastErr error
	for _, name := range candidates {
		h, err := purego.Dlopen(name, purego.RTLD_LAZY|purego.RTLD_LOCAL)
		if err != nil {
			lastErr = err
			continue
		}
		return &library{handle: h, name: name}, nil
	}
	return nil, errors.NotInstalled("driver library not found", lastErr)
}

func (l *library) symbol(name string) uintptr {
	addr, err := purego.Dlsym(l.handle, name)
	if err != nil {
		return 0
	}
	return addr
}

func (l *library) close() error {
	if l.handle == 0 {
		return nil
	}
	err := purego.Dlclose(l.handle)
	l.handle = 0
	return err
}
