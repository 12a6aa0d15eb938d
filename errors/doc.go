// Package errors provides structured error types for the vulkan-runtime library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type includes rich context: the driver command involved, the raw driver
// status code, and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseCreate, errors.KindDriverStatus).
//		Proc("vkCreateInstance").
//		Status(int32(result)).
//		Detail("instance creation rejected").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.InvalidArgument(errors.PhaseResolve, "name must not be empty")
//	err := errors.DriverStatus(errors.PhaseEnumerate, "vkEnumeratePhysicalDevices", int32(result))
//
// All errors implement the standard error interface and support errors.Is/As.
//
// A resolution miss (the driver does not expose a requested command) is
// deliberately NOT represented here: it is an expected outcome and the
// loader reports it as a zero address with a nil error.
package errors
