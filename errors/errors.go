package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseLoad      Phase = "load"      // driver library loading
	PhaseResolve   Phase = "resolve"   // entry-point resolution
	PhaseBind      Phase = "bind"      // typed binding
	PhaseCreate    Phase = "create"    // object creation
	PhaseEnumerate Phase = "enumerate" // two-call property queries
	PhaseCallback  Phase = "callback"  // diagnostic callback dispatch
	PhaseDispatch  Phase = "dispatch"  // direct command invocation
)

// Kind categorizes the error
type Kind string

const (
	KindInvalidArgument Kind = "invalid_argument"
	KindDriverStatus    Kind = "driver_status"
	KindNotInstalled    Kind = "not_installed"
	KindNotInitialized  Kind = "not_initialized"
	KindCallbackFault   Kind = "callback_fault"
	KindInvalidUTF8     Kind = "invalid_utf8"
	KindUnsupported     Kind = "unsupported"
)

// Error is the structured error type used throughout the library
type Error struct {
	Cause      error
	Phase      Phase
	Kind       Kind
	ProcName   string
	StatusCode int32
	HasStatus  bool
	Detail     string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.ProcName != "" {
		b.WriteString(" in ")
		b.WriteString(e.ProcName)
	}

	if e.HasStatus {
		fmt.Fprintf(&b, " (status %d)", e.StatusCode)
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// IsKind reports whether err is a structured error of the given kind,
// regardless of phase.
func IsKind(err error, kind Kind) bool {
	for err != nil {
		if e, ok := err.(*Error); ok && e.Kind == kind {
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Proc sets the driver command name
func (b *Builder) Proc(name string) *Builder {
	b.err.ProcName = name
	return b
}

// Status sets the raw driver status code
func (b *Builder) Status(code int32) *Builder {
	b.err.StatusCode = code
	b.err.HasStatus = true
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// InvalidArgument creates an argument-validation error. These are raised
// synchronously, before any driver call is attempted.
func InvalidArgument(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidArgument,
		Detail: detail,
	}
}

// DriverStatus creates an error carrying a non-success driver status.
func DriverStatus(phase Phase, proc string, status int32) *Error {
	return &Error{
		Phase:      phase,
		Kind:       KindDriverStatus,
		ProcName:   proc,
		StatusCode: status,
		HasStatus:  true,
	}
}

// NotInstalled creates an error for a missing driver library.
func NotInstalled(detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindNotInstalled,
		Detail: detail,
		Cause:  cause,
	}
}

// NotInitialized creates an error for use of a closed or never-opened
// component.
func NotInitialized(phase Phase, component string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotInitialized,
		Detail: fmt.Sprintf("%s not initialized", component),
	}
}

// CallbackFault wraps a panic recovered at the trampoline boundary.
// It is never returned to the registering caller; it exists so the
// fault side channel has a structured record to log.
func CallbackFault(proc string, recovered any) *Error {
	return &Error{
		Phase:    PhaseCallback,
		Kind:     KindCallbackFault,
		ProcName: proc,
		Detail:   fmt.Sprintf("handler panic: %v", recovered),
	}
}

// InvalidUTF8 creates an invalid UTF-8 error for boundary text.
func InvalidUTF8(phase Phase, data []byte) *Error {
	preview := data
	if len(preview) > 32 {
		preview = preview[:32]
	}
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidUTF8,
		Detail: fmt.Sprintf("invalid UTF-8 sequence: %x", preview),
	}
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}
