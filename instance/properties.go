package instance

import (
	"runtime"

	vk "github.com/wippyai/vulkan-runtime"
	"github.com/wippyai/vulkan-runtime/abi"
	"github.com/wippyai/vulkan-runtime/errors"
	"github.com/wippyai/vulkan-runtime/loader"
)

// ExtensionProperties is the decoded view of one extension record.
type ExtensionProperties struct {
	Name        string
	SpecVersion uint32
}

// LayerProperties is the decoded view of one layer record.
type LayerProperties struct {
	Name                  string
	SpecVersion           uint32
	ImplementationVersion uint32
	Description           string
}

// InstanceExtensions enumerates instance extensions from the global
// scope. A non-empty layerName restricts the query to extensions
// provided by that layer.
func InstanceExtensions(l *loader.Loader, layerName string) ([]ExtensionProperties, error) {
	fn, err := loader.Bind[func(pLayerName *byte, pCount *uint32, pProps *vk.ExtensionProperties) int32](
		l, loader.Global(), "vkEnumerateInstanceExtensionProperties")
	if err != nil {
		return nil, err
	}
	if fn == nil {
		return nil, errors.Unsupported(errors.PhaseEnumerate, "driver exposes no vkEnumerateInstanceExtensionProperties")
	}

	layerPtr, layerBuf, err := cStringOrNil(layerName)
	if err != nil {
		return nil, err
	}

	raw, err := queryAll("vkEnumerateInstanceExtensionProperties", nil,
		func(count *uint32, data *vk.ExtensionProperties) vk.Result {
			return vk.Result(fn(layerPtr, count, data))
		})
	runtime.KeepAlive(layerBuf)
	if err != nil {
		return nil, err
	}

	out := make([]ExtensionProperties, len(raw))
	for i, rec := range raw {
		out[i] = ExtensionProperties{
			Name:        abi.FixedString(rec.ExtensionName[:]),
			SpecVersion: rec.SpecVersion,
		}
	}
	return out, nil
}

// InstanceLayers enumerates the driver's layers from the global scope.
func InstanceLayers(l *loader.Loader) ([]LayerProperties, error) {
	fn, err := loader.Bind[func(pCount *uint32, pProps *vk.LayerProperties) int32](
		l, loader.Global(), "vkEnumerateInstanceLayerProperties")
	if err != nil {
		return nil, err
	}
	if fn == nil {
		return nil, errors.Unsupported(errors.PhaseEnumerate, "driver exposes no vkEnumerateInstanceLayerProperties")
	}

	raw, err := queryAll("vkEnumerateInstanceLayerProperties", nil,
		func(count *uint32, data *vk.LayerProperties) vk.Result {
			return vk.Result(fn(count, data))
		})
	if err != nil {
		return nil, err
	}

	out := make([]LayerProperties, len(raw))
	for i, rec := range raw {
		out[i] = LayerProperties{
			Name:                  abi.FixedString(rec.LayerName[:]),
			SpecVersion:           rec.SpecVersion,
			ImplementationVersion: rec.ImplementationVersion,
			Description:           abi.FixedString(rec.Description[:]),
		}
	}
	return out, nil
}
