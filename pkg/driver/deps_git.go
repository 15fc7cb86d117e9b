package driver

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// gitFetcher clones a dependency's git source into a per-dependency
// cache directory and checks out the revision named by its
// Rev/Tag/Branch field, grounded on
// v12/interpreters/go/cmd/able/deps_fetchers.go's gitFetcher —
// reduced to a single checkout directory per dependency, since
// zelo.yaml has no lockfile to record a resolved checksum against.
type gitFetcher struct {
	cacheDir string
}

func newGitFetcher(cacheDir string) *gitFetcher {
	return &gitFetcher{cacheDir: cacheDir}
}

// fetch returns the local directory holding name's checked-out
// sources, cloning and checking out on first use and reusing the
// directory on subsequent calls for the same resolved revision.
func (g *gitFetcher) fetch(name string, spec *DependencySpec) (string, error) {
	url := strings.TrimSpace(spec.Git)
	if url == "" {
		return "", fmt.Errorf("git URL required")
	}
	revision, descriptor, err := gitRevisionFromSpec(spec)
	if err != nil {
		return "", err
	}

	baseDir := filepath.Join(g.cacheDir, "pkg", "src", sanitizeSegment(name))
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return "", err
	}

	targetDir := filepath.Join(baseDir, sanitizePathSegment(descriptor))
	if info, err := os.Stat(targetDir); err == nil && info.IsDir() {
		return targetDir, nil
	}

	tmpDir, err := os.MkdirTemp(baseDir, "git-fetch-*")
	if err != nil {
		return "", err
	}
	repo, err := git.PlainClone(tmpDir, false, &git.CloneOptions{
		URL:               url,
		RecurseSubmodules: git.DefaultSubmoduleRecursionDepth,
	})
	if err != nil {
		os.RemoveAll(tmpDir)
		return "", fmt.Errorf("clone %s: %w", url, err)
	}

	hash, err := repo.ResolveRevision(revision)
	if err != nil {
		os.RemoveAll(tmpDir)
		return "", fmt.Errorf("resolve revision %s: %w", revision, err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		os.RemoveAll(tmpDir)
		return "", err
	}
	if err := worktree.Checkout(&git.CheckoutOptions{Hash: *hash, Force: true}); err != nil {
		os.RemoveAll(tmpDir)
		return "", fmt.Errorf("checkout %s: %w", revision, err)
	}

	if err := os.Rename(tmpDir, targetDir); err != nil {
		os.RemoveAll(tmpDir)
		return "", err
	}
	return targetDir, nil
}

func gitRevisionFromSpec(spec *DependencySpec) (plumbing.Revision, string, error) {
	if rev := strings.TrimSpace(spec.Rev); rev != "" {
		return plumbing.Revision(rev), rev, nil
	}
	if tag := strings.TrimSpace(spec.Tag); tag != "" {
		return plumbing.Revision("refs/tags/" + tag), tag, nil
	}
	if branch := strings.TrimSpace(spec.Branch); branch != "" {
		return plumbing.Revision("refs/heads/" + branch), branch, nil
	}
	return "", "", fmt.Errorf("git dependencies require rev, tag, or branch")
}

func sanitizePathSegment(segment string) string {
	segment = strings.TrimSpace(segment)
	if segment == "" {
		return "head"
	}
	var b strings.Builder
	for _, r := range segment {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return "head"
	}
	return b.String()
}
