package stdlib

import (
	"math"

	"github.com/3065190005/Zelo/pkg/runtime"
	"github.com/3065190005/Zelo/pkg/zerr"
)

func mathModule() *runtime.Environment {
	env := newModule()
	env.Define("pi", runtime.Float(math.Pi))
	env.Define("e", runtime.Float(math.E))

	define(env, "sqrt", 1, func(args []runtime.Value) (runtime.Value, error) {
		x, err := argFloat(args, 0, "sqrt")
		if err != nil {
			return nil, err
		}
		return runtime.Float(math.Sqrt(x)), nil
	})
	define(env, "floor", 1, func(args []runtime.Value) (runtime.Value, error) {
		x, err := argFloat(args, 0, "floor")
		if err != nil {
			return nil, err
		}
		return runtime.Float(math.Floor(x)), nil
	})
	define(env, "ceil", 1, func(args []runtime.Value) (runtime.Value, error) {
		x, err := argFloat(args, 0, "ceil")
		if err != nil {
			return nil, err
		}
		return runtime.Float(math.Ceil(x)), nil
	})
	define(env, "pow", 2, func(args []runtime.Value) (runtime.Value, error) {
		base, err := argFloat(args, 0, "pow")
		if err != nil {
			return nil, err
		}
		exp, err := argFloat(args, 1, "pow")
		if err != nil {
			return nil, err
		}
		return runtime.Float(math.Pow(base, exp)), nil
	})
	return env
}

func argFloat(args []runtime.Value, i int, name string) (float64, error) {
	if i >= len(args) {
		return 0, zerr.Newf(zerr.InvalidArgument, 0, "%s expects at least %d argument(s)", name, i+1)
	}
	switch v := args[i].(type) {
	case runtime.Int:
		return float64(v), nil
	case runtime.Float:
		return float64(v), nil
	default:
		return 0, zerr.Newf(zerr.TypeMismatch, 0, "%s expects a number, got %s", name, runtime.TypeName(v))
	}
}
