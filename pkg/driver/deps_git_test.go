package driver

import "testing"

func TestGitRevisionFromSpecPrefersRev(t *testing.T) {
	rev, descriptor, err := gitRevisionFromSpec(&DependencySpec{Rev: "abc123", Tag: "v1.0.0"})
	if err != nil {
		t.Fatalf("gitRevisionFromSpec returned error: %v", err)
	}
	if string(rev) != "abc123" || descriptor != "abc123" {
		t.Fatalf("gitRevisionFromSpec = (%q, %q), want (abc123, abc123)", rev, descriptor)
	}
}

func TestGitRevisionFromSpecTagFallsBackToRefsTags(t *testing.T) {
	rev, descriptor, err := gitRevisionFromSpec(&DependencySpec{Tag: "v1.0.0"})
	if err != nil {
		t.Fatalf("gitRevisionFromSpec returned error: %v", err)
	}
	if string(rev) != "refs/tags/v1.0.0" || descriptor != "v1.0.0" {
		t.Fatalf("gitRevisionFromSpec = (%q, %q), want refs/tags/v1.0.0", rev, descriptor)
	}
}

func TestGitRevisionFromSpecBranchFallsBackToRefsHeads(t *testing.T) {
	rev, descriptor, err := gitRevisionFromSpec(&DependencySpec{Branch: "main"})
	if err != nil {
		t.Fatalf("gitRevisionFromSpec returned error: %v", err)
	}
	if string(rev) != "refs/heads/main" || descriptor != "main" {
		t.Fatalf("gitRevisionFromSpec = (%q, %q), want refs/heads/main", rev, descriptor)
	}
}

func TestGitRevisionFromSpecRequiresSomeSelector(t *testing.T) {
	if _, _, err := gitRevisionFromSpec(&DependencySpec{}); err == nil {
		t.Fatalf("gitRevisionFromSpec with no rev/tag/branch returned no error")
	}
}

func TestSanitizePathSegmentReplacesUnsafeRunes(t *testing.T) {
	if got := sanitizePathSegment("refs/tags/v1.0.0"); got != "refs_tags_v1.0.0" {
		t.Fatalf("sanitizePathSegment = %q, want %q", got, "refs_tags_v1.0.0")
	}
}

func TestSanitizePathSegmentEmptyDefaultsToHead(t *testing.T) {
	if got := sanitizePathSegment("   "); got != "head" {
		t.Fatalf("sanitizePathSegment(blank) = %q, want %q", got, "head")
	}
}
