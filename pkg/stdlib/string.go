package stdlib

import (
	"strings"

	"github.com/3065190005/Zelo/pkg/runtime"
	"github.com/3065190005/Zelo/pkg/zerr"
)

func stringModule() *runtime.Environment {
	env := newModule()

	define(env, "upper", 1, func(args []runtime.Value) (runtime.Value, error) {
		s, err := argStr(args, 0, "upper")
		if err != nil {
			return nil, err
		}
		return runtime.String(strings.ToUpper(s)), nil
	})
	define(env, "lower", 1, func(args []runtime.Value) (runtime.Value, error) {
		s, err := argStr(args, 0, "lower")
		if err != nil {
			return nil, err
		}
		return runtime.String(strings.ToLower(s)), nil
	})
	define(env, "trim", 1, func(args []runtime.Value) (runtime.Value, error) {
		s, err := argStr(args, 0, "trim")
		if err != nil {
			return nil, err
		}
		return runtime.String(strings.TrimSpace(s)), nil
	})
	define(env, "split", 2, func(args []runtime.Value) (runtime.Value, error) {
		s, err := argStr(args, 0, "split")
		if err != nil {
			return nil, err
		}
		sep, err := argStr(args, 1, "split")
		if err != nil {
			return nil, err
		}
		parts := strings.Split(s, sep)
		elements := make([]runtime.Value, len(parts))
		for i, p := range parts {
			elements[i] = runtime.String(p)
		}
		return runtime.NewArray(elements), nil
	})
	define(env, "join", 2, func(args []runtime.Value) (runtime.Value, error) {
		arr, ok := args[0].(*runtime.Array)
		if !ok {
			return nil, zerr.New(zerr.TypeMismatch, 0, "join expects an array")
		}
		sep, err := argStr(args, 1, "join")
		if err != nil {
			return nil, err
		}
		parts := make([]string, len(arr.Elements))
		for i, v := range arr.Elements {
			parts[i] = argString(v)
		}
		return runtime.String(strings.Join(parts, sep)), nil
	})
	define(env, "contains", 2, func(args []runtime.Value) (runtime.Value, error) {
		s, err := argStr(args, 0, "contains")
		if err != nil {
			return nil, err
		}
		sub, err := argStr(args, 1, "contains")
		if err != nil {
			return nil, err
		}
		return runtime.Bool(strings.Contains(s, sub)), nil
	})
	return env
}

func argStr(args []runtime.Value, i int, name string) (string, error) {
	if i >= len(args) {
		return "", zerr.Newf(zerr.InvalidArgument, 0, "%s expects at least %d argument(s)", name, i+1)
	}
	s, ok := args[i].(runtime.String)
	if !ok {
		return "", zerr.Newf(zerr.TypeMismatch, 0, "%s expects a string, got %s", name, runtime.TypeName(args[i]))
	}
	return string(s), nil
}
