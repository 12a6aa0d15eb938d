package instance

import (
	vk "github.com/wippyai/vulkan-runtime"
	"github.com/wippyai/vulkan-runtime/errors"
)

// PhysicalDevice is an adapter handle enumerated from an instance. It
// records its parent: a physical device is only meaningful within the
// instance that reported it.
type PhysicalDevice struct {
	handle vk.Handle
	inst   *Instance
}

// Handle returns the raw driver handle.
func (p *PhysicalDevice) Handle() vk.Handle { return p.handle }

// Instance returns the instance this device was enumerated from.
func (p *PhysicalDevice) Instance() *Instance { return p.inst }

// PhysicalDevices enumerates the driver's adapters for this instance.
func (i *Instance) PhysicalDevices() ([]*PhysicalDevice, error) {
	if err := i.alive(errors.PhaseEnumerate); err != nil {
		return nil, err
	}
	if i.d.enumeratePhysicalDevices == nil {
		return nil, errors.Unsupported(errors.PhaseEnumerate, "driver exposes no vkEnumeratePhysicalDevices")
	}

	handles, err := queryAll("vkEnumeratePhysicalDevices", nil,
		func(count *uint32, data *vk.Handle) vk.Result {
			return vk.Result(i.d.enumeratePhysicalDevices(i.handle, count, data))
		})
	if err != nil {
		return nil, err
	}

	devices := make([]*PhysicalDevice, len(handles))
	for idx, h := range handles {
		devices[idx] = &PhysicalDevice{handle: h, inst: i}
	}
	return devices, nil
}

// DeviceGroup is one multi-adapter group reported by the driver.
type DeviceGroup struct {
	Devices []*PhysicalDevice
	// SubsetAllocation reports whether allocations may target a subset
	// of the group's devices.
	SubsetAllocation bool
}

// DeviceGroups enumerates the driver's device groups for this instance.
func (i *Instance) DeviceGroups() ([]DeviceGroup, error) {
	if err := i.alive(errors.PhaseEnumerate); err != nil {
		return nil, err
	}
	if i.d.enumerateDeviceGroups == nil {
		return nil, errors.Unsupported(errors.PhaseEnumerate, "driver exposes no vkEnumeratePhysicalDeviceGroups")
	}

	raw, err := queryAll("vkEnumeratePhysicalDeviceGroups",
		func(rec *vk.PhysicalDeviceGroupProperties) {
			rec.SType = vk.StructureTypePhysicalDeviceGroupProperties
		},
		func(count *uint32, data *vk.PhysicalDeviceGroupProperties) vk.Result {
			return vk.Result(i.d.enumerateDeviceGroups(i.handle, count, data))
		})
	if err != nil {
		return nil, err
	}

	groups := make([]DeviceGroup, len(raw))
	for idx, rec := range raw {
		g := DeviceGroup{SubsetAllocation: rec.SubsetAllocation.Bool()}
		n := rec.PhysicalDeviceCount
		if n > vk.MaxDeviceGroupSize {
			n = vk.MaxDeviceGroupSize
		}
		for j := uint32(0); j < n; j++ {
			g.Devices = append(g.Devices, &PhysicalDevice{handle: rec.PhysicalDevices[j], inst: i})
		}
		groups[idx] = g
	}
	return groups, nil
}
