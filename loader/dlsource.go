package loader

import (
	"runtime"

	"github.com/ebitengine/purego"

	vk "github.com/wippyai/vulkan-runtime"
	"github.com/wippyai/vulkan-runtime/abi"
)

// dlSource serves resolution through the driver's own
// vkGetInstanceProcAddr, bound once at library load.
type dlSource struct {
	getProcAddr func(instance vk.Handle, name *byte) uintptr
}

func newDLSource(addr uintptr) *dlSource {
	s := &dlSource{}
	purego.RegisterFunc(&s.getProcAddr, addr)
	return s
}

func (s *dlSource) ProcAddr(instance vk.Handle, name string) uintptr {
	b, err := abi.CString(name)
	if err != nil {
		// Driver names are ASCII identifiers; anything unencodable
		// cannot exist in the driver table.
		return 0
	}
	p := s.getProcAddr(instance, &b[0])
	runtime.KeepAlive(b)
	return p
}
