// Package runtime holds the evaluator's data model: the tagged
// Value sum, Environment scope chain, Class/Instance records, and
// Function closures.
package runtime

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/3065190005/Zelo/pkg/ast"
)

// Kind identifies a Value's runtime variant.
type Kind int

const (
	KindNull Kind = iota
	KindInt
	KindFloat
	KindBool
	KindString
	KindArray
	KindDict
	KindObject
	KindFunction
	KindClass
	KindEnvironment
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindDict:
		return "dict"
	case KindObject:
		return "object"
	case KindFunction:
		return "function"
	case KindClass:
		return "class"
	case KindEnvironment:
		return "environment"
	default:
		return "unknown"
	}
}

// Value is the evaluator's tagged sum. Scalars (Null, Int, Float,
// Bool, String) are Go value types and copy freely; Array, Dict,
// Object, Function, Class, and Environment are reference types shared
// across bindings.
type Value interface {
	Kind() Kind
	String() string
}

type Null struct{}

func (Null) Kind() Kind     { return KindNull }
func (Null) String() string { return "null" }

// NullValue is the single shared null instance.
var NullValue = Null{}

type Int int64

func (Int) Kind() Kind       { return KindInt }
func (i Int) String() string { return strconv.FormatInt(int64(i), 10) }

type Float float64

func (Float) Kind() Kind { return KindFloat }
func (f Float) String() string {
	return strconv.FormatFloat(float64(f), 'g', -1, 64)
}

type Bool bool

func (Bool) Kind() Kind { return KindBool }
func (b Bool) String() string {
	if b {
		return "true"
	}
	return "false"
}

type String string

func (String) Kind() Kind       { return KindString }
func (s String) String() string { return string(s) }

// Array is a shared mutable ordered sequence, boxed so every binding
// of the same array aliases the same backing slice header.
type Array struct {
	Elements []Value
}

func NewArray(elements []Value) *Array {
	return &Array{Elements: elements}
}

func (*Array) Kind() Kind { return KindArray }
func (a *Array) String() string {
	parts := make([]string, len(a.Elements))
	for i, v := range a.Elements {
		parts[i] = Repr(v)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Dict is a shared mutable string-keyed mapping; iteration order is
// not guaranteed.
type Dict struct {
	Entries map[string]Value
}

func NewDict() *Dict {
	return &Dict{Entries: make(map[string]Value)}
}

func (*Dict) Kind() Kind { return KindDict }
func (d *Dict) String() string {
	parts := make([]string, 0, len(d.Entries))
	for k, v := range d.Entries {
		parts = append(parts, fmt.Sprintf("%q: %s", k, Repr(v)))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// Class is a shared reference record: a name, an optional superclass
// link, and an own method table. Method lookup walks own-then-super.
type Class struct {
	Name       string
	Superclass *Class
	Methods    map[string]*Function
}

func NewClass(name string, superclass *Class) *Class {
	return &Class{Name: name, Superclass: superclass, Methods: make(map[string]*Function)}
}

func (*Class) Kind() Kind       { return KindClass }
func (c *Class) String() string { return "<class " + c.Name + ">" }

// FindMethod resolves a method name through the class, then its
// superclass chain.
func (c *Class) FindMethod(name string) (*Function, bool) {
	for cls := c; cls != nil; cls = cls.Superclass {
		if fn, ok := cls.Methods[name]; ok {
			return fn, true
		}
	}
	return nil, false
}

// Arity is the arity of __init__ if present, else 0.
func (c *Class) Arity() int {
	if fn, ok := c.FindMethod("__init__"); ok {
		return fn.Arity()
	}
	return 0
}

// Instance is a shared object: a class reference plus a per-instance
// field map.
type Instance struct {
	Class  *Class
	Fields map[string]Value
}

func NewInstance(class *Class) *Instance {
	return &Instance{Class: class, Fields: make(map[string]Value)}
}

func (*Instance) Kind() Kind       { return KindObject }
func (i *Instance) String() string { return "<" + i.Class.Name + " instance>" }

// NativeFn is the signature of a built-in callable registered by
// pkg/stdlib or the builtins table.
type NativeFn func(args []Value) (Value, error)

// Function is either a user-defined closure (Declaration + Closure
// set) or a built-in (Native set). IsConstructor marks __init__
// methods, whose call protocol always yields `this` regardless of
// body fall-through.
type Function struct {
	Name          string
	Declaration   *ast.FunctionDecl
	Closure       *Environment
	IsConstructor bool
	Native        NativeFn
	NativeArity   int // -1 for variadic
}

func NewUserFunction(decl *ast.FunctionDecl, closure *Environment, isConstructor bool) *Function {
	return &Function{Name: decl.Name, Declaration: decl, Closure: closure, IsConstructor: isConstructor}
}

func NewNativeFunction(name string, arity int, fn NativeFn) *Function {
	return &Function{Name: name, Native: fn, NativeArity: arity}
}

func (*Function) Kind() Kind { return KindFunction }
func (f *Function) String() string {
	if f.Native != nil {
		return "<native fn " + f.Name + ">"
	}
	return "<fn " + f.Name + ">"
}

func (f *Function) Arity() int {
	if f.Native != nil {
		return f.NativeArity
	}
	return len(f.Declaration.Params)
}

// Bind returns a fresh Function whose closure is a child environment
// defining `this`. Binding never aliases the class's method table
// entry — it copies the Function struct and swaps its Closure.
func (f *Function) Bind(instance *Instance) *Function {
	env := NewEnvironment(f.Closure)
	env.Define("this", instance)
	bound := *f
	bound.Closure = env
	return &bound
}

//-----------------------------------------------------------------------------
// Equality, truthiness, stringification
//-----------------------------------------------------------------------------

// Truthy implements the truthiness predicate: null and false are
// false, everything else is true.
func Truthy(v Value) bool {
	switch x := v.(type) {
	case Null:
		return false
	case Bool:
		return bool(x)
	default:
		return true
	}
}

// Equal implements default value equality, consulted before any
// __eq__ overload. Reference types compare by identity.
func Equal(a, b Value) bool {
	switch x := a.(type) {
	case Null:
		_, ok := b.(Null)
		return ok
	case Int:
		switch y := b.(type) {
		case Int:
			return x == y
		case Float:
			return Float(x) == y
		}
		return false
	case Float:
		switch y := b.(type) {
		case Int:
			return x == Float(y)
		case Float:
			return x == y
		}
		return false
	case Bool:
		y, ok := b.(Bool)
		return ok && x == y
	case String:
		y, ok := b.(String)
		return ok && x == y
	case *Array:
		y, ok := b.(*Array)
		return ok && x == y
	case *Dict:
		y, ok := b.(*Dict)
		return ok && x == y
	case *Instance:
		y, ok := b.(*Instance)
		return ok && x == y
	case *Function:
		y, ok := b.(*Function)
		return ok && x == y
	case *Class:
		y, ok := b.(*Class)
		return ok && x == y
	case *Environment:
		y, ok := b.(*Environment)
		return ok && x == y
	default:
		return false
	}
}

// Repr formats a value the way it should appear nested inside an
// array/dict rendering: strings are quoted.
func Repr(v Value) string {
	if s, ok := v.(String); ok {
		return strconv.Quote(string(s))
	}
	return v.String()
}

// TypeName returns the type-predicate name used by the `type`
// builtin and by runtime type-mismatch error messages.
func TypeName(v Value) string {
	if inst, ok := v.(*Instance); ok {
		return inst.Class.Name
	}
	return v.Kind().String()
}
