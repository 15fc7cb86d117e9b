package runtime

import (
	"fmt"
	"sort"
)

// Environment provides lexical scoping for Zelo runtime values. It is
// itself a first-class Value so a module's top-level scope can be
// bound to a namespace identifier on import.
type Environment struct {
	values map[string]Value
	consts map[string]bool
	parent *Environment
}

// NewEnvironment creates a new environment, optionally nested under a parent.
func NewEnvironment(parent *Environment) *Environment {
	return &Environment{
		values: make(map[string]Value),
		consts: make(map[string]bool),
		parent: parent,
	}
}

func (*Environment) Kind() Kind       { return KindEnvironment }
func (e *Environment) String() string { return "<environment>" }

// Parent exposes the lexical parent (nil when global).
func (e *Environment) Parent() *Environment {
	return e.parent
}

// Snapshot returns a deterministic copy of the current bindings.
func (e *Environment) Snapshot() map[string]Value {
	out := make(map[string]Value, len(e.values))
	for k, v := range e.values {
		out[k] = v
	}
	return out
}

// Define inserts or shadows a binding in the current scope.
func (e *Environment) Define(name string, value Value) {
	e.values[name] = value
}

// DefineConst inserts a binding that Assign will refuse to update.
func (e *Environment) DefineConst(name string, value Value) {
	e.values[name] = value
	e.consts[name] = true
}

// Assign updates an existing binding in the first scope where it
// appears. Reassigning a const binding is an error, enforced here at
// assignment time rather than at declaration time.
func (e *Environment) Assign(name string, value Value) error {
	if _, ok := e.values[name]; ok {
		if e.consts[name] {
			return fmt.Errorf("cannot assign to const variable '%s'", name)
		}
		e.values[name] = value
		return nil
	}
	if e.parent != nil {
		return e.parent.Assign(name, value)
	}
	return fmt.Errorf("Undefined variable '%s'", name)
}

// Get retrieves a binding, searching outward through the scope chain.
func (e *Environment) Get(name string) (Value, error) {
	if v, ok := e.values[name]; ok {
		return v, nil
	}
	if e.parent != nil {
		return e.parent.Get(name)
	}
	return nil, fmt.Errorf("Undefined variable '%s'", name)
}

// Keys returns the bindings in sorted order (useful for determinism in tests).
func (e *Environment) Keys() []string {
	keys := make([]string, 0, len(e.values))
	for k := range e.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Extend returns a new, empty child scope whose parent is e.
func (e *Environment) Extend() *Environment {
	return NewEnvironment(e)
}
