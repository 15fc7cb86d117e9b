package runtime

import "testing"

func TestEnvironmentGetResolvesThroughParentChain(t *testing.T) {
	parent := NewEnvironment(nil)
	parent.Define("x", Int(1))
	child := parent.Extend()

	v, err := child.Get("x")
	if err != nil {
		t.Fatalf("Get(%q) returned error: %v", "x", err)
	}
	if v != Int(1) {
		t.Fatalf("Get(%q) = %v, want Int(1)", "x", v)
	}
}

func TestEnvironmentGetUndefinedFails(t *testing.T) {
	env := NewEnvironment(nil)
	if _, err := env.Get("missing"); err == nil {
		t.Fatalf("Get(%q) on an empty environment returned no error", "missing")
	}
}

func TestEnvironmentDefineShadowsParent(t *testing.T) {
	parent := NewEnvironment(nil)
	parent.Define("x", Int(1))
	child := parent.Extend()
	child.Define("x", Int(2))

	v, _ := child.Get("x")
	if v != Int(2) {
		t.Fatalf("child Get(%q) = %v, want Int(2) (shadowed)", "x", v)
	}
	v, _ = parent.Get("x")
	if v != Int(1) {
		t.Fatalf("parent Get(%q) = %v, want Int(1) (unaffected by shadowing)", "x", v)
	}
}

func TestEnvironmentAssignUpdatesDefiningScope(t *testing.T) {
	parent := NewEnvironment(nil)
	parent.Define("x", Int(1))
	child := parent.Extend()

	if err := child.Assign("x", Int(9)); err != nil {
		t.Fatalf("Assign(%q) returned error: %v", "x", err)
	}
	v, _ := parent.Get("x")
	if v != Int(9) {
		t.Fatalf("parent Get(%q) after child Assign = %v, want Int(9)", "x", v)
	}
}

func TestEnvironmentAssignUndefinedFails(t *testing.T) {
	env := NewEnvironment(nil)
	if err := env.Assign("missing", Int(1)); err == nil {
		t.Fatalf("Assign(%q) on an undefined binding returned no error", "missing")
	}
}

func TestEnvironmentConstRejectsReassignment(t *testing.T) {
	env := NewEnvironment(nil)
	env.DefineConst("pi", Float(3.14))

	if err := env.Assign("pi", Float(3.0)); err == nil {
		t.Fatalf("Assign(%q) on a const binding returned no error", "pi")
	}
	v, _ := env.Get("pi")
	if v != Float(3.14) {
		t.Fatalf("Get(%q) after a rejected const assignment = %v, want unchanged Float(3.14)", "pi", v)
	}
}
