package typesys

import (
	"testing"

	"github.com/3065190005/Zelo/pkg/ast"
	"github.com/3065190005/Zelo/pkg/runtime"
)

func basic(kinds ...ast.TypeKind) *ast.TypeAnnotation {
	return &ast.TypeAnnotation{BasicKinds: kinds}
}

func TestCheckAnyAcceptsEverything(t *testing.T) {
	if !Check(runtime.Int(1), &ast.TypeAnnotation{}) {
		t.Fatalf("Check() against an any annotation rejected a value")
	}
}

func TestCheckIntSatisfiesFloatAnnotation(t *testing.T) {
	if !Check(runtime.Int(3), basic(ast.TypeFloat)) {
		t.Fatalf("Check(Int, float) = false, want true (int widens to float)")
	}
}

func TestCheckRejectsMismatchedBasicKind(t *testing.T) {
	if Check(runtime.String("x"), basic(ast.TypeInt)) {
		t.Fatalf("Check(String, int) = true, want false")
	}
}

func TestCheckArrayRecursesOnElementType(t *testing.T) {
	ann := &ast.TypeAnnotation{IsArray: true, Element: basic(ast.TypeInt)}
	good := runtime.NewArray([]runtime.Value{runtime.Int(1), runtime.Int(2)})
	if !Check(good, ann) {
		t.Fatalf("Check() rejected an array of ints against [int]")
	}
	bad := runtime.NewArray([]runtime.Value{runtime.Int(1), runtime.String("x")})
	if Check(bad, ann) {
		t.Fatalf("Check() accepted a mixed array against [int]")
	}
}

func TestCompatibleBoolWidensToIntAndFloat(t *testing.T) {
	if !Compatible(basic(ast.TypeBool), basic(ast.TypeInt)) {
		t.Fatalf("Compatible(bool, int) = false, want true")
	}
	if !Compatible(basic(ast.TypeBool), basic(ast.TypeFloat)) {
		t.Fatalf("Compatible(bool, float) = false, want true")
	}
}

func TestCompatibleAnythingWidensToString(t *testing.T) {
	if !Compatible(basic(ast.TypeInt), basic(ast.TypeString)) {
		t.Fatalf("Compatible(int, string) = false, want true")
	}
}

func TestCastStringToIntParses(t *testing.T) {
	v, err := Cast(runtime.String("42"), basic(ast.TypeInt))
	if err != nil {
		t.Fatalf("Cast() returned error: %v", err)
	}
	if v != runtime.Int(42) {
		t.Fatalf("Cast(\"42\", int) = %v, want Int(42)", v)
	}
}

func TestCastInvalidStringFails(t *testing.T) {
	if _, err := Cast(runtime.String("abc"), basic(ast.TypeInt)); err == nil {
		t.Fatalf("Cast(\"abc\", int) returned no error")
	}
}

func TestCastNullToString(t *testing.T) {
	v, err := Cast(runtime.NullValue, basic(ast.TypeString))
	if err != nil {
		t.Fatalf("Cast(null, string) returned error: %v", err)
	}
	if v != runtime.String("null") {
		t.Fatalf("Cast(null, string) = %v, want %q", v, "null")
	}
}
