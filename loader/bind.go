package loader

import (
	"github.com/ebitengine/purego"
)

// Bind resolves name in the given scope and wraps the address in a
// directly invocable function of type F. F must be a function type whose
// parameters and result follow the driver's calling convention (integer
// widths, uintptr for opaque handles, enums as their integer type);
// purego.RegisterFunc panics on anything else. Declare pointer
// parameters as real Go pointer types, never as pre-converted uintptr:
// the compiler must see the pointer so the pointed-to variable escapes,
// stays live for the call, and native writes through it land in memory
// the caller reads back.
//
// Binding is purely a type-level operation over the resolved address: it
// performs no driver interaction of its own. A resolution miss yields
// the zero (nil) function and a nil error, so callers distinguish
// "driver does not expose this" from an actual failure:
//
//	fn, err := loader.Bind[func(uintptr) int32](l, scope, name)
//	if err != nil { ... }        // invalid argument or closed loader
//	if fn == nil { ... }         // command not available
func Bind[F any](l *Loader, scope Scope, name string) (F, error) {
	var fn F

	addr, err := l.Resolve(scope, name)
	if err != nil || addr == 0 {
		return fn, err
	}

	purego.RegisterFunc(&fn, addr)
	return fn, nil
}
