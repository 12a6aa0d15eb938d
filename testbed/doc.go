// Package testbed implements an in-process stub driver for exercising
// the binding layer without a GPU or an installed driver library.
//
// The stub serves every entry point as a genuine native function
// pointer (built with purego.NewCallback), so resolution, typed
// binding, and callback dispatch run through the exact code paths a
// real driver would exercise: addresses resolve by name, bound
// functions make native calls, and diagnostic dispatch re-enters Go
// through the registered callback thunk.
//
//	d := testbed.New(testbed.Config{PhysicalDevices: 2})
//	l := loader.New(d)
//
// The driver counts resolution requests and per-command invocations
// (ProcAddrCalls, Calls), reports callback registrations leaked across
// instance destruction (LeakedCallbacks), and can inject the two
// documented enumeration hazards: a count that shrinks between the
// count call and the data call (InjectShrink) and an explicit
// incomplete status on the data call (InjectIncomplete).
package testbed
