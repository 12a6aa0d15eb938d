package abi

import (
	"bytes"
	"unicode/utf8"
	"unsafe"

	"github.com/wippyai/vulkan-runtime/errors"
)

// MaxCStringLen bounds decoding of driver-supplied strings. A missing
// terminator past this point is treated as corruption rather than
// scanned indefinitely.
const MaxCStringLen = 1 << 20

// CString encodes s as a NUL-terminated UTF-8 byte slice.
func CString(s string) ([]byte, error) {
	if !utf8.ValidString(s) {
		return nil, errors.InvalidUTF8(errors.PhaseDispatch, []byte(s))
	}
	if bytes.IndexByte([]byte(s), 0) >= 0 {
		return nil, errors.InvalidArgument(errors.PhaseDispatch, "string contains embedded NUL")
	}
	b := make([]byte, len(s)+1)
	copy(b, s)
	return b, nil
}

// CStringPtr encodes s and returns a pointer to the first byte together
// with the backing slice. The caller must keep the slice reachable for
// as long as the driver may read through the pointer.
func CStringPtr(s string) (*byte, []byte, error) {
	b, err := CString(s)
	if err != nil {
		return nil, nil, err
	}
	return &b[0], b, nil
}

// GoString decodes a NUL-terminated byte sequence at p into a Go string.
// A zero pointer decodes to the empty string. The bytes are copied, so
// the result stays valid after the driver reclaims its memory.
func GoString(p uintptr) string {
	if p == 0 {
		return ""
	}
	n := 0
	for n < MaxCStringLen && *(*byte)(unsafe.Pointer(p + uintptr(n))) != 0 {
		n++
	}
	if n == 0 {
		return ""
	}
	return string(unsafe.Slice((*byte)(unsafe.Pointer(p)), n))
}

// FixedString decodes a fixed-size char array (driver property records
// embed these) up to its NUL terminator, or the full array if none.
func FixedString(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}

// PutFixedString copies s into the fixed-size char array dst, always
// leaving room for the terminator. Overlong input is truncated at a
// rune boundary so the array never holds a split multi-byte sequence.
func PutFixedString(dst []byte, s string) {
	if len(dst) == 0 {
		return
	}
	limit := len(dst) - 1
	if len(s) > limit {
		cut := limit
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		s = s[:cut]
	}
	n := copy(dst, s)
	for i := n; i < len(dst); i++ {
		dst[i] = 0
	}
}
