package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:      PhaseCreate,
				Kind:       KindDriverStatus,
				ProcName:   "vkCreateInstance",
				StatusCode: -9,
				HasStatus:  true,
				Detail:     "driver rejected create info",
			},
			contains: []string{"[create]", "driver_status", "vkCreateInstance", "status -9", "driver rejected create info"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseResolve,
				Kind:  KindInvalidArgument,
			},
			contains: []string{"[resolve]", "invalid_argument"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseLoad,
				Kind:   KindNotInstalled,
				Detail: "libvulkan not found",
				Cause:  errors.New("underlying error"),
			},
			contains: []string{"[load]", "not_installed", "libvulkan not found", "caused by", "underlying error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &Error{
		Phase: PhaseLoad,
		Kind:  KindNotInstalled,
		Cause: cause,
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is did not find cause")
	}
	if !errors.Is(err.Unwrap(), cause) {
		t.Error("Unwrap did not return cause")
	}
}

func TestError_Is(t *testing.T) {
	a := InvalidArgument(PhaseResolve, "name must not be empty")
	b := &Error{Phase: PhaseResolve, Kind: KindInvalidArgument}
	c := &Error{Phase: PhaseBind, Kind: KindInvalidArgument}

	if !errors.Is(a, b) {
		t.Error("same phase and kind should match")
	}
	if errors.Is(a, c) {
		t.Error("different phase should not match")
	}
}

func TestIsKind(t *testing.T) {
	status := DriverStatus(PhaseEnumerate, "vkEnumeratePhysicalDevices", 5)
	wrapped := Wrap(PhaseCreate, KindDriverStatus, status, "enumerate during create")

	if !IsKind(status, KindDriverStatus) {
		t.Error("direct kind match failed")
	}
	if !IsKind(wrapped, KindDriverStatus) {
		t.Error("wrapped kind match failed")
	}
	if IsKind(status, KindInvalidArgument) {
		t.Error("mismatched kind matched")
	}
	if IsKind(nil, KindDriverStatus) {
		t.Error("nil error matched")
	}
}

func TestBuilder(t *testing.T) {
	err := New(PhaseDispatch, KindDriverStatus).
		Proc("vkDebugReportMessageEXT").
		Status(-1).
		Detail("submit failed after %d attempts", 2).
		Build()

	if err.ProcName != "vkDebugReportMessageEXT" {
		t.Errorf("ProcName = %q", err.ProcName)
	}
	if !err.HasStatus || err.StatusCode != -1 {
		t.Errorf("status = (%v, %d)", err.HasStatus, err.StatusCode)
	}
	if err.Detail != "submit failed after 2 attempts" {
		t.Errorf("Detail = %q", err.Detail)
	}
}

func TestCallbackFault(t *testing.T) {
	err := CallbackFault("vkDebugReportCallbackEXT", "boom")
	if err.Kind != KindCallbackFault {
		t.Errorf("Kind = %q", err.Kind)
	}
	if !strings.Contains(err.Error(), "boom") {
		t.Errorf("fault message %q does not carry recovered value", err.Error())
	}
}
