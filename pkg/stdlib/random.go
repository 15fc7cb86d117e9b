package stdlib

import (
	"math/rand"

	"github.com/3065190005/Zelo/pkg/runtime"
)

func randomModule() *runtime.Environment {
	env := newModule()

	define(env, "float", 0, func(args []runtime.Value) (runtime.Value, error) {
		return runtime.Float(rand.Float64()), nil
	})
	define(env, "int", 2, func(args []runtime.Value) (runtime.Value, error) {
		lo, err := argFloat(args, 0, "int")
		if err != nil {
			return nil, err
		}
		hi, err := argFloat(args, 1, "int")
		if err != nil {
			return nil, err
		}
		if hi <= lo {
			return runtime.Int(int64(lo)), nil
		}
		return runtime.Int(int64(lo) + rand.Int63n(int64(hi)-int64(lo))), nil
	})
	define(env, "choice", 1, func(args []runtime.Value) (runtime.Value, error) {
		arr, ok := args[0].(*runtime.Array)
		if !ok || len(arr.Elements) == 0 {
			return runtime.NullValue, nil
		}
		return arr.Elements[rand.Intn(len(arr.Elements))], nil
	})
	return env
}
