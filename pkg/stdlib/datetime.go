package stdlib

import (
	"time"

	"github.com/3065190005/Zelo/pkg/runtime"
)

func datetimeModule() *runtime.Environment {
	env := newModule()

	define(env, "now", 0, func(args []runtime.Value) (runtime.Value, error) {
		return runtime.Int(time.Now().Unix()), nil
	})
	define(env, "format", 2, func(args []runtime.Value) (runtime.Value, error) {
		sec, err := argFloat(args, 0, "format")
		if err != nil {
			return nil, err
		}
		layout, err := argStr(args, 1, "format")
		if err != nil {
			return nil, err
		}
		return runtime.String(time.Unix(int64(sec), 0).UTC().Format(layout)), nil
	})
	return env
}
