package interpreter

import (
	"fmt"
	"hash/fnv"
	"sort"

	"github.com/3065190005/Zelo/pkg/runtime"
)

// registerBuiltins seeds the global environment with the builtin
// function registry: the core diagnostics (print, panic, assert,
// type) plus the container/object/predicate helpers supplementing
// spec.md's builtin registry, grounded on
// original_source/include/BuiltinFunctions.h.
func registerBuiltins(env *runtime.Environment) {
	define := func(name string, arity int, fn runtime.NativeFn) {
		env.Define(name, runtime.NewNativeFunction(name, arity, fn))
	}

	define("print", -1, func(args []runtime.Value) (runtime.Value, error) {
		parts := make([]string, len(args))
		for i, a := range args {
			parts[i] = Stringify(a)
		}
		for i, p := range parts {
			if i > 0 {
				fmt.Print(" ")
			}
			fmt.Print(p)
		}
		fmt.Println()
		return runtime.NullValue, nil
	})

	define("panic", 1, func(args []runtime.Value) (runtime.Value, error) {
		return nil, fmt.Errorf("%s", Stringify(args[0]))
	})

	define("assert", -1, func(args []runtime.Value) (runtime.Value, error) {
		if len(args) == 0 {
			return nil, fmt.Errorf("assert requires at least one argument")
		}
		if !runtime.Truthy(args[0]) {
			message := "assertion failed"
			if len(args) > 1 {
				message = Stringify(args[1])
			}
			return nil, fmt.Errorf("%s", message)
		}
		return runtime.NullValue, nil
	})

	// `type` is the canonical API name for the dynamic-kind predicate
	// (spec §9 leaves the type/typeof naming open; `type` is chosen to
	// match the original's own `type()` builtin).
	define("type", 1, func(args []runtime.Value) (runtime.Value, error) {
		return runtime.String(runtime.TypeName(args[0])), nil
	})

	define("isinstance", 2, func(args []runtime.Value) (runtime.Value, error) {
		name, ok := args[1].(runtime.String)
		if !ok {
			return nil, fmt.Errorf("isinstance expects a class name string as its second argument")
		}
		inst, ok := args[0].(*runtime.Instance)
		if !ok {
			return runtime.Bool(runtime.TypeName(args[0]) == string(name)), nil
		}
		for cls := inst.Class; cls != nil; cls = cls.Superclass {
			if cls.Name == string(name) {
				return runtime.Bool(true), nil
			}
		}
		return runtime.Bool(false), nil
	})

	define("repr", 1, func(args []runtime.Value) (runtime.Value, error) {
		return runtime.String(runtime.Repr(args[0])), nil
	})

	define("hash", 1, func(args []runtime.Value) (runtime.Value, error) {
		h := fnv.New64a()
		h.Write([]byte(Stringify(args[0])))
		return runtime.Int(int64(h.Sum64())), nil
	})

	define("chr", 1, func(args []runtime.Value) (runtime.Value, error) {
		n, ok := args[0].(runtime.Int)
		if !ok {
			return nil, fmt.Errorf("chr expects an int")
		}
		return runtime.String(string(rune(n))), nil
	})

	define("ord", 1, func(args []runtime.Value) (runtime.Value, error) {
		s, ok := args[0].(runtime.String)
		if !ok || len(s) == 0 {
			return nil, fmt.Errorf("ord expects a non-empty string")
		}
		runes := []rune(string(s))
		return runtime.Int(int64(runes[0])), nil
	})

	define("abs", 1, func(args []runtime.Value) (runtime.Value, error) {
		switch v := args[0].(type) {
		case runtime.Int:
			if v < 0 {
				return -v, nil
			}
			return v, nil
		case runtime.Float:
			if v < 0 {
				return -v, nil
			}
			return v, nil
		default:
			return nil, fmt.Errorf("abs expects a number")
		}
	})

	define("min", -1, func(args []runtime.Value) (runtime.Value, error) { return minMax(args, true) })
	define("max", -1, func(args []runtime.Value) (runtime.Value, error) { return minMax(args, false) })

	define("push", 2, func(args []runtime.Value) (runtime.Value, error) {
		arr, ok := args[0].(*runtime.Array)
		if !ok {
			return nil, fmt.Errorf("push expects an array")
		}
		arr.Elements = append(arr.Elements, args[1])
		return arr, nil
	})

	define("pop", 1, func(args []runtime.Value) (runtime.Value, error) {
		arr, ok := args[0].(*runtime.Array)
		if !ok {
			return nil, fmt.Errorf("pop expects an array")
		}
		if len(arr.Elements) == 0 {
			return nil, fmt.Errorf("pop from an empty array")
		}
		last := arr.Elements[len(arr.Elements)-1]
		arr.Elements = arr.Elements[:len(arr.Elements)-1]
		return last, nil
	})

	define("slice", 3, func(args []runtime.Value) (runtime.Value, error) {
		arr, ok := args[0].(*runtime.Array)
		if !ok {
			return nil, fmt.Errorf("slice expects an array")
		}
		start, ok := args[1].(runtime.Int)
		if !ok {
			return nil, fmt.Errorf("slice expects an int start")
		}
		stop, ok := args[2].(runtime.Int)
		if !ok {
			return nil, fmt.Errorf("slice expects an int stop")
		}
		length := len(arr.Elements)
		s := normalizeSliceIndex(start, length)
		e := normalizeSliceIndex(stop, length)
		if e < s {
			e = s
		}
		out := make([]runtime.Value, e-s)
		copy(out, arr.Elements[s:e])
		return runtime.NewArray(out), nil
	})

	define("keys", 1, func(args []runtime.Value) (runtime.Value, error) {
		dict, ok := args[0].(*runtime.Dict)
		if !ok {
			return nil, fmt.Errorf("keys expects a dict")
		}
		names := make([]string, 0, len(dict.Entries))
		for k := range dict.Entries {
			names = append(names, k)
		}
		sort.Strings(names)
		out := make([]runtime.Value, len(names))
		for i, k := range names {
			out[i] = runtime.String(k)
		}
		return runtime.NewArray(out), nil
	})

	define("values", 1, func(args []runtime.Value) (runtime.Value, error) {
		dict, ok := args[0].(*runtime.Dict)
		if !ok {
			return nil, fmt.Errorf("values expects a dict")
		}
		names := make([]string, 0, len(dict.Entries))
		for k := range dict.Entries {
			names = append(names, k)
		}
		sort.Strings(names)
		out := make([]runtime.Value, len(names))
		for i, k := range names {
			out[i] = dict.Entries[k]
		}
		return runtime.NewArray(out), nil
	})

	define("has_key", 2, func(args []runtime.Value) (runtime.Value, error) {
		dict, ok := args[0].(*runtime.Dict)
		if !ok {
			return nil, fmt.Errorf("has_key expects a dict")
		}
		key, ok := args[1].(runtime.String)
		if !ok {
			return nil, fmt.Errorf("has_key expects a string key")
		}
		_, found := dict.Entries[string(key)]
		return runtime.Bool(found), nil
	})

	define("clone", 1, func(args []runtime.Value) (runtime.Value, error) {
		switch v := args[0].(type) {
		case *runtime.Array:
			out := make([]runtime.Value, len(v.Elements))
			copy(out, v.Elements)
			return runtime.NewArray(out), nil
		case *runtime.Dict:
			out := runtime.NewDict()
			for k, val := range v.Entries {
				out.Entries[k] = val
			}
			return out, nil
		case *runtime.Instance:
			out := runtime.NewInstance(v.Class)
			for k, val := range v.Fields {
				out.Fields[k] = val
			}
			return out, nil
		default:
			return v, nil
		}
	})

	define("fields", 1, func(args []runtime.Value) (runtime.Value, error) {
		inst, ok := args[0].(*runtime.Instance)
		if !ok {
			return nil, fmt.Errorf("fields expects an object")
		}
		names := make([]string, 0, len(inst.Fields))
		for k := range inst.Fields {
			names = append(names, k)
		}
		sort.Strings(names)
		out := make([]runtime.Value, len(names))
		for i, n := range names {
			out[i] = runtime.String(n)
		}
		return runtime.NewArray(out), nil
	})

	define("methods", 1, func(args []runtime.Value) (runtime.Value, error) {
		inst, ok := args[0].(*runtime.Instance)
		if !ok {
			return nil, fmt.Errorf("methods expects an object")
		}
		names := make([]string, 0, len(inst.Class.Methods))
		for cls := inst.Class; cls != nil; cls = cls.Superclass {
			for name := range cls.Methods {
				names = append(names, name)
			}
		}
		sort.Strings(names)
		out := make([]runtime.Value, len(names))
		for i, n := range names {
			out[i] = runtime.String(n)
		}
		return runtime.NewArray(out), nil
	})
}

func minMax(args []runtime.Value, wantMin bool) (runtime.Value, error) {
	values := args
	if len(values) == 1 {
		if arr, ok := values[0].(*runtime.Array); ok {
			values = arr.Elements
		}
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("min/max requires at least one value")
	}
	best := values[0]
	bestF, ok := toFloat64(best)
	if !ok {
		return nil, fmt.Errorf("min/max requires numbers")
	}
	for _, v := range values[1:] {
		f, ok := toFloat64(v)
		if !ok {
			return nil, fmt.Errorf("min/max requires numbers")
		}
		if (wantMin && f < bestF) || (!wantMin && f > bestF) {
			best, bestF = v, f
		}
	}
	return best, nil
}
