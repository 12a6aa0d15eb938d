package instance

import (
	"github.com/ebitengine/purego"

	vk "github.com/wippyai/vulkan-runtime"
)

// AllocationScope mirrors the driver's VkSystemAllocationScope.
type AllocationScope int32

const (
	AllocationScopeCommand AllocationScope = iota
	AllocationScopeObject
	AllocationScopeCache
	AllocationScopeDevice
	AllocationScopeInstance
)

// AllocationFuncs holds the host allocation hooks an Allocator exposes
// to the driver. Allocation and Free are required as a pair;
// Reallocation and the internal notification hooks are optional.
//
// The hooks run on driver threads during driver calls and must not call
// back into this library.
type AllocationFuncs struct {
	Allocation   func(userData uintptr, size, alignment uintptr, scope AllocationScope) uintptr
	Reallocation func(userData uintptr, original uintptr, size, alignment uintptr, scope AllocationScope) uintptr
	Free         func(userData, memory uintptr)

	InternalAllocation func(userData uintptr, size uintptr, allocationType int32, scope AllocationScope)
	InternalFree       func(userData uintptr, size uintptr, allocationType int32, scope AllocationScope)
}

// Allocator adapts Go allocation hooks into the driver's host allocator
// ABI. An Allocator is immutable after construction and may be shared
// across instances and callback registrations.
//
// Each hook consumes a process-lifetime native callback slot, so build
// allocators once and reuse them.
type Allocator struct {
	funcs AllocationFuncs
	cbs   vk.AllocationCallbacks
}

// NewAllocator builds an Allocator from the given hooks. Allocation and
// Free must both be set; everything else may be nil.
func NewAllocator(userData uintptr, funcs AllocationFuncs) *Allocator {
	if funcs.Allocation == nil || funcs.Free == nil {
		panic("instance: allocator requires Allocation and Free hooks")
	}

	a := &Allocator{funcs: funcs}
	a.cbs.PUserData = userData
	a.cbs.PfnAllocation = purego.NewCallback(func(userData, size, alignment, scope uintptr) uintptr {
		return funcs.Allocation(userData, size, alignment, AllocationScope(int32(scope)))
	})
	a.cbs.PfnFree = purego.NewCallback(func(userData, memory uintptr) uintptr {
		funcs.Free(userData, memory)
		return 0
	})
	if funcs.Reallocation != nil {
		a.cbs.PfnReallocation = purego.NewCallback(func(userData, original, size, alignment, scope uintptr) uintptr {
			return funcs.Reallocation(userData, original, size, alignment, AllocationScope(int32(scope)))
		})
	}
	if funcs.InternalAllocation != nil {
		a.cbs.PfnInternalAllocation = purego.NewCallback(func(userData, size, allocationType, scope uintptr) uintptr {
			funcs.InternalAllocation(userData, size, int32(allocationType), AllocationScope(int32(scope)))
			return 0
		})
	}
	if funcs.InternalFree != nil {
		a.cbs.PfnInternalFree = purego.NewCallback(func(userData, size, allocationType, scope uintptr) uintptr {
			funcs.InternalFree(userData, size, int32(allocationType), AllocationScope(int32(scope)))
			return 0
		})
	}
	return a
}

// raw exposes the native-layout callback record. The returned pointer
// aliases the Allocator; callers keep the Allocator alive for as long
// as the driver may dereference it.
func (a *Allocator) raw() *vk.AllocationCallbacks {
	return &a.cbs
}
