// Package instance provides the high-level driver object API: instance
// creation and teardown, physical device and property enumeration, and
// diagnostic callback registration.
//
// An Instance binds its dispatch table once at creation, against its own
// handle; entry points resolved for one instance are never invoked
// through another. All operations are synchronous: a call blocks its
// goroutine until the driver returns.
//
// Diagnostic callbacks are the one asynchronous surface. The driver
// invokes a registered handler on threads it owns, at any moment between
// registration and Close, including concurrently and reentrantly.
// Handlers must tolerate that; the trampoline guarantees only that a
// panic in the handler never unwinds into native frames.
package instance
