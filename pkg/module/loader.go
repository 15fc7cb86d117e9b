// Package module implements the file-based loader backing
// `import`/`require`/`include`: path resolution against ZELO_PATH,
// the require cache, and uncached include, grounded on
// original_source/src/ModuleSystem.cpp. It satisfies
// interpreter.ModuleLoader by driving a fresh lexer→macro→parser→
// interpreter pipeline over each resolved file.
package module

import (
	"os"
	"path/filepath"

	"github.com/3065190005/Zelo/pkg/interpreter"
	"github.com/3065190005/Zelo/pkg/lexer"
	"github.com/3065190005/Zelo/pkg/macro"
	"github.com/3065190005/Zelo/pkg/parser"
	"github.com/3065190005/Zelo/pkg/runtime"
	"github.com/3065190005/Zelo/pkg/stdlib"
	"github.com/3065190005/Zelo/pkg/zerr"
)

// Loader resolves module paths under ZELO_PATH (falling back to the
// working directory) and caches `require`d environments by resolved
// path; `include` always bypasses the cache.
type Loader struct {
	basePath   string
	extraPaths []string
	cache      map[string]*runtime.Environment
}

// New returns a loader rooted at ZELO_PATH, or the current working
// directory if that variable is unset.
func New() *Loader {
	base := os.Getenv("ZELO_PATH")
	if base == "" {
		if cwd, err := os.Getwd(); err == nil {
			base = cwd
		}
	}
	return &Loader{basePath: base, cache: make(map[string]*runtime.Environment)}
}

// SetExtraSearchPaths installs directories (typically git-fetched
// dependency checkouts resolved from zelo.yaml) to try ahead of
// ZELO_PATH when resolving a module path. resolve tries each of these
// roots in turn after the working directory and before basePath; a
// root's lib subdirectory is not searched.
func (l *Loader) SetExtraSearchPaths(paths []string) {
	l.extraPaths = paths
}

// Require resolves path and returns its cached exports environment,
// loading and caching it on first use. A bare name matching a
// registered pkg/stdlib module (e.g. "math") is served from that
// registry ahead of filesystem resolution, cached the same way a
// file-backed module would be.
func (l *Loader) Require(path string) (*runtime.Environment, error) {
	if env, ok := l.cache[path]; ok {
		return env, nil
	}
	if provider, ok := stdlib.Lookup(path); ok {
		env := provider()
		l.cache[path] = env
		return env, nil
	}

	resolved, err := l.resolve(path)
	if err != nil {
		return nil, err
	}
	if env, ok := l.cache[resolved]; ok {
		return env, nil
	}
	env, err := l.load(resolved)
	if err != nil {
		return nil, err
	}
	l.cache[resolved] = env
	return env, nil
}

// Include resolves path and re-executes it unconditionally, never
// consulting or populating the require cache. A stdlib module is
// exempt from that rule: its provider is always re-invoked, but since
// a module's exports are built fresh from scratch either way, this
// has the same effect as re-running a file-backed module's top level.
func (l *Loader) Include(path string) (*runtime.Environment, error) {
	if provider, ok := stdlib.Lookup(path); ok {
		return provider(), nil
	}

	resolved, err := l.resolve(path)
	if err != nil {
		return nil, err
	}
	return l.load(resolved)
}

// resolve implements spec §6's four-step algorithm: absolute paths
// pass through; an extensionless path gets ".z" appended; the
// working directory is tried first, then any extraPaths (git-fetched
// dependency checkouts), then basePath, then basePath/lib.
func (l *Loader) resolve(modulePath string) (string, error) {
	if filepath.IsAbs(modulePath) {
		return modulePath, nil
	}
	candidate := modulePath
	if filepath.Ext(candidate) == "" {
		candidate += ".z"
	}

	if cwd, err := os.Getwd(); err == nil {
		p := filepath.Join(cwd, candidate)
		if fileExists(p) {
			return p, nil
		}
	}
	for _, extra := range l.extraPaths {
		p := filepath.Join(extra, candidate)
		if fileExists(p) {
			return p, nil
		}
	}
	if l.basePath != "" {
		p := filepath.Join(l.basePath, candidate)
		if fileExists(p) {
			return p, nil
		}
		p = filepath.Join(l.basePath, "lib", candidate)
		if fileExists(p) {
			return p, nil
		}
	}
	return "", zerr.New(zerr.ModuleNotFound, 0, "module not found: "+modulePath)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// load runs a resolved file through the full pipeline in a fresh
// interpreter (sharing this loader, so transitive imports still share
// the require cache) and returns its exports — the `__exports__`
// environment if `export` was used, else the whole module scope, per
// the original's own no-explicit-exports fallback.
func (l *Loader) load(resolvedPath string) (*runtime.Environment, error) {
	source, err := os.ReadFile(resolvedPath)
	if err != nil {
		return nil, zerr.New(zerr.ModuleLoadError, 0, "could not open module: "+resolvedPath)
	}

	tokens := lexer.New(string(source)).Tokenize()

	expanded, err := macro.New().Process(tokens)
	if err != nil {
		return nil, err
	}

	statements, parseErrs := parser.New(expanded).Parse()
	if len(parseErrs) > 0 {
		return nil, parseErrs[0]
	}

	interp := interpreter.New(l)
	if _, err := interp.Run(statements); err != nil {
		return nil, err
	}

	global := interp.Global()
	if exportsVal, err := global.Get("__exports__"); err == nil {
		if exportsEnv, ok := exportsVal.(*runtime.Environment); ok {
			return exportsEnv, nil
		}
	}
	return global, nil
}
