package zerr

import "testing"

func TestCategoryByRange(t *testing.T) {
	cases := []struct {
		code Code
		want string
	}{
		{SyntaxError, "syntax"},
		{TypeMismatch, "type"},
		{DivisionByZero, "runtime"},
		{ModuleNotFound, "module"},
		{MacroNotDefined, "macro"},
		{InternalError, "internal"},
		{GCCycleDetectionFailed, "gc"},
	}
	for _, c := range cases {
		if got := c.code.Category(); got != c.want {
			t.Fatalf("Code(%d).Category() = %q, want %q", c.code, got, c.want)
		}
	}
}

func TestNameReturnsCanonicalIdentifier(t *testing.T) {
	if got := DivisionByZero.Name(); got != "DIVISION_BY_ZERO" {
		t.Fatalf("DivisionByZero.Name() = %q, want %q", got, "DIVISION_BY_ZERO")
	}
}

func TestErrorFormatsLineWhenPresent(t *testing.T) {
	err := New(UndefinedVariable, 7, "undefined variable 'x'")
	want := "UNDEFINED_VARIABLE: undefined variable 'x' (line 7)"
	if err.Error() != want {
		t.Fatalf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestErrorOmitsLineWhenZero(t *testing.T) {
	err := New(InternalError, 0, "unexpected state")
	want := "INTERNAL_ERROR: unexpected state"
	if err.Error() != want {
		t.Fatalf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestThrownCarriesOriginalPayload(t *testing.T) {
	err := Thrown(42, 3)
	if err.Payload != 42 {
		t.Fatalf("Thrown(42, 3).Payload = %v, want 42", err.Payload)
	}
	if err.Code != RuntimeError {
		t.Fatalf("Thrown().Code = %v, want RuntimeError", err.Code)
	}
}
