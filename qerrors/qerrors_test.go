package qerrors

import (
	"errors"
	"testing"
)

func TestKindString(t *testing.T) {
	cases := []struct {
		kind Kind
		want string
	}{
		{Parse, "ParseError"},
		{Lowering, "LoweringError"},
		{Safety, "SafetyError"},
		{UnsupportedDialect, "UnsupportedDialect"},
		{Driver, "DriverError"},
		{Kind(99), "UnknownError"},
	}
	for _, c := range cases {
		if got := c.kind.String(); got != c.want {
			t.Errorf("Kind(%d).String() = %q, want %q", c.kind, got, c.want)
		}
	}
}

func TestNewHasNoCause(t *testing.T) {
	err := New(Safety, MsgUpdateRequiresWhere)
	var qerr *Error
	if !errors.As(err, &qerr) {
		t.Fatalf("error is not a *Error: %v", err)
	}
	if qerr.Kind != Safety {
		t.Fatalf("Kind = %v, want Safety", qerr.Kind)
	}
	if qerr.Error() != MsgUpdateRequiresWhere {
		t.Fatalf("Error() = %q, want %q", qerr.Error(), MsgUpdateRequiresWhere)
	}
	if errors.Unwrap(err) != nil {
		t.Fatal("New should produce an error with no cause")
	}
}

func TestWrapPreservesSurfaceTextAndCause(t *testing.T) {
	cause := errors.New("unique constraint violation")
	err := Wrap(Driver, "driver call failed", cause)

	if err.Error() != "driver call failed" {
		t.Fatalf("Error() = %q, want %q", err.Error(), "driver call failed")
	}
	if !errors.Is(err, cause) {
		t.Fatal("Wrap should unwrap to the original cause")
	}

	var qerr *Error
	if !errors.As(err, &qerr) {
		t.Fatalf("error is not a *Error: %v", err)
	}
	if qerr.Kind != Driver {
		t.Fatalf("Kind = %v, want Driver", qerr.Kind)
	}
}

func TestErrorsAsDistinguishesKind(t *testing.T) {
	err := New(UnsupportedDialect, "missing parameter value for p.minAge")
	var qerr *Error
	if !errors.As(err, &qerr) {
		t.Fatalf("error is not a *Error: %v", err)
	}
	if qerr.Kind != UnsupportedDialect {
		t.Fatalf("Kind = %v, want UnsupportedDialect", qerr.Kind)
	}
}
