// Package abi provides the text and buffer codecs used at the native
// driver boundary.
//
// All strings cross the boundary as NUL-terminated UTF-8 byte sequences.
// Encoding validates UTF-8 and rejects embedded NUL bytes; decoding
// copies up to the terminator and passes multi-byte sequences through
// unchanged, so non-ASCII content round-trips byte-for-byte.
//
// # Key Functions
//
//	CString      - Go string → NUL-terminated byte slice
//	CStringPtr   - Go string → pointer to first byte (with keep-alive)
//	GoString     - raw C-string pointer → Go string
//	FixedString  - fixed-size char array → Go string
//	NewStringArray - []string → C char** block
//
// Pointers produced here refer to Go-managed memory. They stay valid for
// the duration of a native call as long as the caller keeps the backing
// value reachable; use runtime.KeepAlive after the call returns.
package abi
