package module

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/3065190005/Zelo/pkg/runtime"
	"github.com/3065190005/Zelo/pkg/zerr"
)

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(strings.TrimSpace(contents)+"\n"), 0o644); err != nil {
		t.Fatalf("write file %s: %v", path, err)
	}
}

func TestResolveFindsModuleUnderBasePath(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "greet.z"), `loc name = "world";`)

	l := &Loader{basePath: root, cache: make(map[string]*runtime.Environment)}
	resolved, err := l.resolve("greet")
	if err != nil {
		t.Fatalf("resolve returned error: %v", err)
	}
	if resolved != filepath.Join(root, "greet.z") {
		t.Fatalf("resolve = %q, want %q", resolved, filepath.Join(root, "greet.z"))
	}
}

func TestResolveFindsModuleUnderBasePathLibSubdir(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "lib", "strings.z"), `loc x = 1;`)

	l := &Loader{basePath: root, cache: make(map[string]*runtime.Environment)}
	resolved, err := l.resolve("strings")
	if err != nil {
		t.Fatalf("resolve returned error: %v", err)
	}
	if resolved != filepath.Join(root, "lib", "strings.z") {
		t.Fatalf("resolve = %q, want %q", resolved, filepath.Join(root, "lib", "strings.z"))
	}
}

func TestResolvePrefersExtraSearchPathsOverBasePath(t *testing.T) {
	base := t.TempDir()
	extra := t.TempDir()
	writeFile(t, filepath.Join(base, "shared.z"), `loc where = "base";`)
	writeFile(t, filepath.Join(extra, "shared.z"), `loc where = "extra";`)

	l := &Loader{basePath: base, cache: make(map[string]*runtime.Environment)}
	l.SetExtraSearchPaths([]string{extra})

	resolved, err := l.resolve("shared")
	if err != nil {
		t.Fatalf("resolve returned error: %v", err)
	}
	if resolved != filepath.Join(extra, "shared.z") {
		t.Fatalf("resolve = %q, want the extraPaths copy %q", resolved, filepath.Join(extra, "shared.z"))
	}
}

func TestResolveAppendsZExtension(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "util.z"), `loc x = 1;`)

	l := &Loader{basePath: root, cache: make(map[string]*runtime.Environment)}
	resolved, err := l.resolve("util")
	if err != nil {
		t.Fatalf("resolve returned error: %v", err)
	}
	if filepath.Ext(resolved) != ".z" {
		t.Fatalf("resolve did not append .z extension: %q", resolved)
	}
}

func TestResolvePassesThroughAbsolutePaths(t *testing.T) {
	root := t.TempDir()
	abs := filepath.Join(root, "exact.z")
	writeFile(t, abs, `loc x = 1;`)

	l := &Loader{cache: make(map[string]*runtime.Environment)}
	resolved, err := l.resolve(abs)
	if err != nil {
		t.Fatalf("resolve returned error: %v", err)
	}
	if resolved != abs {
		t.Fatalf("resolve(%q) = %q, want unchanged", abs, resolved)
	}
}

func TestResolveMissingModuleReturnsModuleNotFound(t *testing.T) {
	l := &Loader{basePath: t.TempDir(), cache: make(map[string]*runtime.Environment)}
	_, err := l.resolve("does_not_exist")
	if err == nil {
		t.Fatalf("resolve of a missing module returned no error")
	}
	zErr, ok := err.(*zerr.Error)
	if !ok {
		t.Fatalf("error %v is not *zerr.Error (%T)", err, err)
	}
	if zErr.Code != zerr.ModuleNotFound {
		t.Fatalf("error code = %v, want ModuleNotFound", zErr.Code)
	}
}

func TestRequireCachesByResolvedPath(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "counter.z"), `
		loc n = 0;
		n = n + 1;
		export { n };
	`)

	l := New()
	l.basePath = root

	first, err := l.Require("counter")
	if err != nil {
		t.Fatalf("Require returned error: %v", err)
	}
	second, err := l.Require("counter")
	if err != nil {
		t.Fatalf("second Require returned error: %v", err)
	}
	if first != second {
		t.Fatalf("Require returned distinct environments on repeated calls, want the cached one reused")
	}
}

func TestIncludeBypassesCache(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "once.z"), `loc n = 1;`)

	l := New()
	l.basePath = root

	first, err := l.Include("once")
	if err != nil {
		t.Fatalf("Include returned error: %v", err)
	}
	second, err := l.Include("once")
	if err != nil {
		t.Fatalf("second Include returned error: %v", err)
	}
	if first == second {
		t.Fatalf("Include returned the same environment twice, want a fresh re-execution each time")
	}
}

func TestRequireServesStdlibModuleAheadOfFilesystem(t *testing.T) {
	root := t.TempDir()
	// A file named math.z exists on disk but must never be consulted:
	// pkg/stdlib's "math" provider takes priority.
	writeFile(t, filepath.Join(root, "math.z"), `loc pi = "wrong";`)

	l := New()
	l.basePath = root

	env, err := l.Require("math")
	if err != nil {
		t.Fatalf("Require(%q) returned error: %v", "math", err)
	}
	pi, err := env.Get("pi")
	if err != nil {
		t.Fatalf("stdlib math module missing expected binding %q: %v", "pi", err)
	}
	if _, ok := pi.(runtime.Float); !ok {
		t.Fatalf("pi = %v (%T), want the stdlib Float, not the on-disk math.z binding", pi, pi)
	}
}
