// Package typesys implements the runtime type checker: §4.5's
// check/cast/compatibility contract over optional type annotations.
// There is no static inference here — annotations are consulted only
// after a value already exists, matching the language's "optional
// type annotations are checked at runtime only" non-goal.
package typesys

import (
	"strconv"

	"github.com/3065190005/Zelo/pkg/ast"
	"github.com/3065190005/Zelo/pkg/runtime"
)

// Check reports whether value's dynamic kind satisfies annotation.
// ELLIPSIS ("any") always passes. int values satisfy a float-only
// annotation (int ⊆ float for assignment purposes).
func Check(value runtime.Value, t *ast.TypeAnnotation) bool {
	if t.IsAny() {
		return true
	}
	if t.IsArray {
		arr, ok := value.(*runtime.Array)
		if !ok {
			return false
		}
		for _, el := range arr.Elements {
			if !Check(el, t.Element) {
				return false
			}
		}
		return true
	}
	if t.IsDict {
		dict, ok := value.(*runtime.Dict)
		if !ok {
			return false
		}
		for _, v := range dict.Entries {
			if !Check(v, t.Element) {
				return false
			}
		}
		return true
	}
	for _, k := range t.BasicKinds {
		if kindMatches(value, k) {
			return true
		}
	}
	return false
}

func kindMatches(value runtime.Value, k ast.TypeKind) bool {
	switch k {
	case ast.TypeInt:
		_, ok := value.(runtime.Int)
		return ok
	case ast.TypeFloat:
		switch value.(type) {
		case runtime.Float, runtime.Int:
			return true
		}
		return false
	case ast.TypeBool:
		_, ok := value.(runtime.Bool)
		return ok
	case ast.TypeString:
		_, ok := value.(runtime.String)
		return ok
	default:
		return false
	}
}

// Compatible reports source <: target, the subtyping relation used
// when widening a value for an annotated slot: ELLIPSIS targets
// accept anything; identical basic kinds match; int <: float; bool <:
// int|float; any kind <: string (uniform stringification). Array/dict
// compatibility recurses on element/value (and key) types.
func Compatible(source, target *ast.TypeAnnotation) bool {
	if target.IsAny() {
		return true
	}
	if target.IsArray {
		return source.IsArray && Compatible(source.Element, target.Element)
	}
	if target.IsDict {
		return source.IsDict && Compatible(source.Key, target.Key) && Compatible(source.Element, target.Element)
	}
	if source.IsArray || source.IsDict {
		return false
	}
	for _, tk := range target.BasicKinds {
		for _, sk := range source.BasicKinds {
			if basicCompatible(sk, tk) {
				return true
			}
		}
	}
	return false
}

func basicCompatible(source, target ast.TypeKind) bool {
	if source == target {
		return true
	}
	switch target {
	case ast.TypeFloat:
		return source == ast.TypeInt || source == ast.TypeBool
	case ast.TypeInt:
		return source == ast.TypeBool
	case ast.TypeString:
		return true
	default:
		return false
	}
}

// Cast tries each basic kind in annotation's union in order, returning
// on first success. Array/dict casts recurse element-wise. Unit
// (null) cast to string yields "null"; bool to int/float uses 0/1;
// strings to numbers parse, failing on invalid text.
func Cast(value runtime.Value, t *ast.TypeAnnotation) (runtime.Value, error) {
	if t.IsAny() {
		return value, nil
	}
	if t.IsArray {
		arr, ok := value.(*runtime.Array)
		if !ok {
			return nil, castError(value, t)
		}
		out := make([]runtime.Value, len(arr.Elements))
		for i, el := range arr.Elements {
			cast, err := Cast(el, t.Element)
			if err != nil {
				return nil, err
			}
			out[i] = cast
		}
		return runtime.NewArray(out), nil
	}
	if t.IsDict {
		dict, ok := value.(*runtime.Dict)
		if !ok {
			return nil, castError(value, t)
		}
		out := runtime.NewDict()
		for k, v := range dict.Entries {
			cast, err := Cast(v, t.Element)
			if err != nil {
				return nil, err
			}
			out.Entries[k] = cast
		}
		return out, nil
	}
	var lastErr error
	for _, k := range t.BasicKinds {
		v, err := castToBasic(value, k)
		if err == nil {
			return v, nil
		}
		lastErr = err
	}
	if lastErr == nil {
		lastErr = castError(value, t)
	}
	return nil, lastErr
}

func castToBasic(value runtime.Value, k ast.TypeKind) (runtime.Value, error) {
	switch k {
	case ast.TypeString:
		return runtime.String(stringify(value)), nil
	case ast.TypeInt:
		switch v := value.(type) {
		case runtime.Int:
			return v, nil
		case runtime.Float:
			return runtime.Int(int64(v)), nil
		case runtime.Bool:
			if v {
				return runtime.Int(1), nil
			}
			return runtime.Int(0), nil
		case runtime.String:
			n, err := strconv.ParseInt(string(v), 10, 64)
			if err != nil {
				return nil, err
			}
			return runtime.Int(n), nil
		}
	case ast.TypeFloat:
		switch v := value.(type) {
		case runtime.Float:
			return v, nil
		case runtime.Int:
			return runtime.Float(float64(v)), nil
		case runtime.Bool:
			if v {
				return runtime.Float(1), nil
			}
			return runtime.Float(0), nil
		case runtime.String:
			f, err := strconv.ParseFloat(string(v), 64)
			if err != nil {
				return nil, err
			}
			return runtime.Float(f), nil
		}
	case ast.TypeBool:
		if v, ok := value.(runtime.Bool); ok {
			return v, nil
		}
	}
	return nil, castError(value, nil)
}

func stringify(v runtime.Value) string {
	if _, ok := v.(runtime.Null); ok {
		return "null"
	}
	return v.String()
}

func castError(value runtime.Value, t *ast.TypeAnnotation) error {
	return &CastError{Value: value}
}

// CastError reports a failed cast; callers wrap it in a *zerr.Error
// with the TYPE_MISMATCH code at the call site, where line info is
// available.
type CastError struct {
	Value runtime.Value
}

func (e *CastError) Error() string {
	return "cannot cast value of kind " + e.Value.Kind().String()
}
