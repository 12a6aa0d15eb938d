//go:build windows

package loader

import (
	"os"
	"path/filepath"

	"golang.org/x/sys/windows"

	"github.com/wippyai/vulkan-runtime/errors"
)

// library is a loaded driver DLL.
type library struct {
	handle windows.Handle
	name   string
}

func defaultLibraryNames() []string {
	names := []string{"vulkan-1.dll"}
	if sdk := os.Getenv("VULKAN_SDK"); sdk != "" {
		names = append(names, filepath.Join(sdk, "Bin", "vulkan-1.dll"))
	}
	return names
}

func openLibrary(path string) (*library, error) {
	candidates := defaultLibraryNames()
	if path != "" {
		candidates = []string{path}
	}

	var lastErr error
	for _, name := range candidates {
		h, err := windows.LoadLibrary(name)
		if err != nil || h == 0 {
			lastErr = err
			continue
		}
		return &library{handle: h, name: name}, nil
	}
	return nil, errors.NotInstalled("driver library not found", lastErr)
}

func (l *library) symbol(name string) uintptr {
	addr, err := windows.GetProcAddress(l.handle, name)
	if err != nil {
		return 0
	}
	return addr
}

func (l *library) close() error {
	if l.handle == 0 {
		return nil
	}
	err := windows.FreeLibrary(l.handle)
	l.handle = 0
	return err
}
