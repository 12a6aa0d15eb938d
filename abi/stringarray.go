package abi

import "unsafe"

// StringArray is a marshaled C char** block: an array of pointers to
// NUL-terminated strings plus the backing storage that keeps every
// pointer valid. Instance creation passes enabled-layer and
// enabled-extension name lists this way.
type StringArray struct {
	ptrs    []*byte
	backing [][]byte
}

// NewStringArray encodes each element of names. A nil or empty slice
// yields a StringArray whose Pointer is zero, matching the driver's
// "count zero, pointer null" convention.
func NewStringArray(names []string) (*StringArray, error) {
	a := &StringArray{}
	for _, s := range names {
		p, b, err := CStringPtr(s)
		if err != nil {
			return nil, err
		}
		a.ptrs = append(a.ptrs, p)
		a.backing = append(a.backing, b)
	}
	return a, nil
}

// Len returns the element count.
func (a *StringArray) Len() uint32 {
	if a == nil {
		return 0
	}
	return uint32(len(a.ptrs))
}

// Pointer returns the address of the first element, or zero when empty.
// The StringArray itself must stay reachable while the driver reads
// through the returned address.
func (a *StringArray) Pointer() uintptr {
	if a == nil || len(a.ptrs) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(&a.ptrs[0]))
}
