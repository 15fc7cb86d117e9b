package stdlib

import (
	"bufio"
	"fmt"
	"os"

	"github.com/3065190005/Zelo/pkg/runtime"
	"github.com/3065190005/Zelo/pkg/zerr"
)

func ioModule() *runtime.Environment {
	env := newModule()

	define(env, "write", 1, func(args []runtime.Value) (runtime.Value, error) {
		fmt.Fprint(os.Stdout, argString(args[0]))
		return runtime.NullValue, nil
	})
	define(env, "writeln", 1, func(args []runtime.Value) (runtime.Value, error) {
		fmt.Fprintln(os.Stdout, argString(args[0]))
		return runtime.NullValue, nil
	})
	define(env, "readline", 0, func(args []runtime.Value) (runtime.Value, error) {
		scanner := bufio.NewScanner(os.Stdin)
		if !scanner.Scan() {
			return nil, zerr.New(zerr.RuntimeError, 0, "readline: end of input")
		}
		return runtime.String(scanner.Text()), nil
	})
	define(env, "read_file", 1, func(args []runtime.Value) (runtime.Value, error) {
		path, ok := args[0].(runtime.String)
		if !ok {
			return nil, zerr.New(zerr.TypeMismatch, 0, "read_file expects a string path")
		}
		contents, err := os.ReadFile(string(path))
		if err != nil {
			return nil, zerr.Newf(zerr.RuntimeError, 0, "read_file: %v", err)
		}
		return runtime.String(contents), nil
	})
	define(env, "write_file", 2, func(args []runtime.Value) (runtime.Value, error) {
		path, ok := args[0].(runtime.String)
		if !ok {
			return nil, zerr.New(zerr.TypeMismatch, 0, "write_file expects a string path")
		}
		if err := os.WriteFile(string(path), []byte(argString(args[1])), 0o644); err != nil {
			return nil, zerr.Newf(zerr.RuntimeError, 0, "write_file: %v", err)
		}
		return runtime.NullValue, nil
	})
	return env
}

func argString(v runtime.Value) string {
	if s, ok := v.(runtime.String); ok {
		return string(s)
	}
	return v.String()
}
