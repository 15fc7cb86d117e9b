// Package stdlib is the loader contract for standard-library modules
// (math, io, string, random, datetime): spec.md §1 puts their module
// bodies out of scope and says "only their loader contract matters",
// so this package defines that contract — a name-keyed registry of
// providers that build a module's exports environment on demand — and
// gives each of the five named modules a minimal native-function
// implementation grounded in registerBuiltins' style in
// pkg/interpreter/builtins.go, not a full library.
package stdlib

import "github.com/3065190005/Zelo/pkg/runtime"

// Provider builds a fresh exports environment for a standard-library
// module. pkg/module.Loader.Require calls it at most once per module
// per Loader, caching the result as it does for file-backed modules;
// Loader.Include calls it again on every include.
type Provider func() *runtime.Environment

var registry = map[string]Provider{
	"math":     mathModule,
	"io":       ioModule,
	"string":   stringModule,
	"random":   randomModule,
	"datetime": datetimeModule,
}

// Lookup returns the provider registered for name, and whether one
// was found.
func Lookup(name string) (Provider, bool) {
	p, ok := registry[name]
	return p, ok
}

// Names returns the registered module names, for diagnostics and
// REPL introspection.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	return names
}

func newModule() *runtime.Environment {
	return runtime.NewEnvironment(nil)
}

func define(env *runtime.Environment, name string, arity int, fn runtime.NativeFn) {
	env.Define(name, runtime.NewNativeFunction(name, arity, fn))
}
