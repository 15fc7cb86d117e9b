package driver

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Manifest is the parsed form of a project's zelo.yaml: its
// name/version metadata, its buildable targets, and its dependency
// sets. cmd/zelo consults Dependencies (via ResolveGitSearchPaths) to
// extend pkg/module's filesystem search path with git-fetched sources
// ahead of $ZELO_PATH.
type Manifest struct {
	Path              string
	Name              string
	Version           string
	License           string
	Authors           []string
	Targets           map[string]*TargetSpec
	TargetOrder       []string
	Dependencies      map[string]*DependencySpec
	DevDependencies   map[string]*DependencySpec
	BuildDependencies map[string]*DependencySpec
	Workspace         map[string]any

	orderedTargets []*TargetSpec
}

// TargetSpec describes one buildable target declared under the
// manifest's `targets` key.
type TargetSpec struct {
	Name         string
	OriginalName string
	Type         TargetType
	Main         string
	Dependencies map[string]*DependencySpec
}

// TargetType enumerates the target kinds a manifest may declare.
type TargetType string

const (
	TargetTypeExecutable TargetType = "executable"
	TargetTypeLibrary    TargetType = "library"
	TargetTypeTest       TargetType = "test"
)

var validTargetTypes = map[TargetType]bool{
	TargetTypeExecutable: true,
	TargetTypeLibrary:    true,
	TargetTypeTest:       true,
}

// IsValid reports whether the target type is one zelo.yaml recognizes.
func (t TargetType) IsValid() bool {
	return validTargetTypes[t]
}

// RequiresMain reports whether targets of this type must name a main
// entrypoint file.
func (t TargetType) RequiresMain() bool {
	return t == TargetTypeExecutable || t == TargetTypeTest
}

// DependencySpec describes one dependency entry: a bare version
// constraint, or a version/git/path source plus feature list.
type DependencySpec struct {
	Version  string
	Git      string
	Rev      string
	Tag      string
	Branch   string
	Path     string
	Registry string
	Features []string
	Optional bool
}

// ValidationError aggregates every problem found while validating a
// manifest, rather than stopping at the first one.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "manifest: invalid configuration"
	}
	var b strings.Builder
	b.WriteString("manifest validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

var ErrNoExecutableTarget = errors.New("manifest: no executable targets defined")

// LoadManifest reads and parses zelo.yaml from path, returning a
// fully validated Manifest or a *ValidationError describing every
// problem found.
func LoadManifest(path string) (*Manifest, error) {
	if path == "" {
		return nil, fmt.Errorf("manifest: empty path")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: resolve %s: %w", path, err)
	}
	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("manifest: open %s: %w", absPath, err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)

	var doc manifestDocument
	if err := decoder.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("manifest: %s is empty", absPath)
		}
		return nil, fmt.Errorf("manifest: parse %s: %w", absPath, err)
	}

	manifest := doc.toManifest(absPath)
	if issues := manifest.validate(); len(issues) > 0 {
		return nil, &ValidationError{Issues: issues}
	}
	return manifest, nil
}

// validate runs every manifest-level check and returns the combined
// issue list (empty when the manifest is well-formed).
func (m *Manifest) validate() []string {
	var issues []string
	issues = append(issues, m.metadataIssues()...)
	issues = append(issues, m.targetIssues()...)
	issues = append(issues, m.dependencyGroupIssues()...)
	return issues
}

func (m *Manifest) metadataIssues() []string {
	var issues []string
	if m.Name == "" {
		issues = append(issues, "name must be provided")
	}
	for i, author := range m.Authors {
		if author == "" {
			issues = append(issues, fmt.Sprintf("authors[%d] must be a non-empty string", i))
		}
	}
	return issues
}

func (m *Manifest) targetIssues() []string {
	var issues []string
	sanitizedOwner := make(map[string]string, len(m.orderedTargets))
	for _, target := range m.orderedTargets {
		if target.OriginalName == "" {
			issues = append(issues, "targets must not use empty keys")
			continue
		}
		if owner, collides := sanitizedOwner[target.Name]; collides {
			issues = append(issues, fmt.Sprintf("targets %q and %q collide after sanitization", owner, target.OriginalName))
		} else {
			sanitizedOwner[target.Name] = target.OriginalName
		}
		issues = append(issues, target.issues()...)
	}
	return issues
}

// issues reports this target's own problems: an unrecognized or
// missing type, a missing entrypoint where one is required, and any
// problem in its nested dependency declarations (which, unlike the
// manifest's top-level dependency groups, may omit a source — a
// target-scoped dependency entry can exist purely to pull in extra
// features of an otherwise-inherited dependency).
func (t *TargetSpec) issues() []string {
	var issues []string
	switch {
	case t.Type == "":
		issues = append(issues, fmt.Sprintf("target %q missing type", t.OriginalName))
	case !t.Type.IsValid():
		issues = append(issues, fmt.Sprintf("target %q has unsupported type %q", t.OriginalName, t.Type))
	}
	if t.Type.RequiresMain() && t.Main == "" {
		issues = append(issues, fmt.Sprintf("target %q requires a main entrypoint", t.OriginalName))
	}
	for _, name := range sortedKeys(t.Dependencies) {
		dep := t.Dependencies[name]
		for _, issue := range dep.issues(false) {
			issues = append(issues, fmt.Sprintf("targets.%s.dependencies.%s: %s", t.OriginalName, name, issue))
		}
	}
	return issues
}

type dependencyGroup struct {
	label string
	deps  map[string]*DependencySpec
}

func (m *Manifest) dependencyGroupIssues() []string {
	var issues []string
	for _, group := range []dependencyGroup{
		{"dependencies", m.Dependencies},
		{"dev_dependencies", m.DevDependencies},
		{"build_dependencies", m.BuildDependencies},
	} {
		for _, name := range sortedKeys(group.deps) {
			dep := group.deps[name]
			for _, issue := range dep.issues(true) {
				issues = append(issues, fmt.Sprintf("%s.%s: %s", group.label, name, issue))
			}
		}
	}
	return issues
}

func sortedKeys(m map[string]*DependencySpec) []string {
	keys := make([]string, 0, len(m))
	for name := range m {
		keys = append(keys, name)
	}
	sort.Strings(keys)
	return keys
}

// issues normalizes the spec's feature list and reports every
// conflict between its source fields (version/git/path/registry are
// mutually exclusive in the ways spec.md's dependency grammar
// describes), plus a missing source when requireSource is set.
func (d *DependencySpec) issues(requireSource bool) []string {
	if d == nil {
		return nil
	}
	d.dedupeFeatures()

	var issues []string
	if d.Path != "" && (d.Version != "" || d.Git != "") {
		issues = append(issues, "path overrides cannot specify version or git source")
	}
	if d.Git != "" && d.Version != "" {
		issues = append(issues, "git dependencies cannot also specify version")
	}
	if d.Registry != "" && (d.Git != "" || d.Path != "") {
		issues = append(issues, "registry overrides apply only to registry-based version dependencies")
	}
	if requireSource && d.Version == "" && d.Git == "" && d.Path == "" {
		issues = append(issues, "must specify version, git, or path")
	}
	if d.Version != "" && !isValidVersionConstraint(d.Version) {
		issues = append(issues, fmt.Sprintf("invalid version constraint %q", d.Version))
	}
	return issues
}

func (d *DependencySpec) dedupeFeatures() {
	if len(d.Features) == 0 {
		return
	}
	seen := make(map[string]struct{}, len(d.Features))
	kept := make([]string, 0, len(d.Features))
	for _, raw := range d.Features {
		feature := sanitizeSegment(raw)
		if feature == "" {
			continue
		}
		if _, dup := seen[feature]; dup {
			continue
		}
		seen[feature] = struct{}{}
		kept = append(kept, feature)
	}
	sort.Strings(kept)
	d.Features = kept
}

// versionOperators lists the recognized constraint prefixes, longest
// first so "~>" is not swallowed by a shorter overlapping prefix.
var versionOperators = []string{"~>", ">=", "<=", ">", "<", "=", "^"}

// isValidVersionConstraint accepts "*", or a comma-separated list of
// terms each shaped as [operator] major[.minor[.patch]][suffix],
// where suffix is any run of alphanumerics, '.', '-', or '+'.
func isValidVersionConstraint(input string) bool {
	s := strings.TrimSpace(input)
	if s == "" {
		return false
	}
	if s == "*" {
		return true
	}
	for _, term := range strings.Split(s, ",") {
		if !isValidVersionTerm(strings.TrimSpace(term)) {
			return false
		}
	}
	return true
}

func isValidVersionTerm(term string) bool {
	for _, op := range versionOperators {
		if strings.HasPrefix(term, op) {
			term = strings.TrimSpace(strings.TrimPrefix(term, op))
			break
		}
	}
	rest, ok := consumeDigits(term)
	if !ok {
		return false
	}
	for groups := 0; groups < 2 && strings.HasPrefix(rest, "."); groups++ {
		next, ok := consumeDigits(rest[1:])
		if !ok {
			break
		}
		rest = next
	}
	for _, r := range rest {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '.', r == '-', r == '+':
		default:
			return false
		}
	}
	return true
}

// consumeDigits strips a leading run of ASCII digits from s, reporting
// whether at least one digit was found.
func consumeDigits(s string) (rest string, ok bool) {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	return s[i:], i > 0
}

// DefaultExecutableTarget returns the first target of type
// "executable" in manifest order, for a CLI invocation that names no
// target explicitly.
func (m *Manifest) DefaultExecutableTarget() (*TargetSpec, error) {
	if m == nil {
		return nil, ErrNoExecutableTarget
	}
	for _, target := range m.orderedTargets {
		if target.Type == TargetTypeExecutable {
			return target, nil
		}
	}
	return nil, ErrNoExecutableTarget
}

// FindTarget looks up a target by its sanitized name, its exact
// original name, or a case-insensitive match on the original name.
func (m *Manifest) FindTarget(name string) (*TargetSpec, bool) {
	if m == nil {
		return nil, false
	}
	trimmed := strings.TrimSpace(name)
	if key := sanitizeSegment(trimmed); key != "" {
		if target, ok := m.Targets[key]; ok {
			return target, true
		}
	}
	for _, target := range m.orderedTargets {
		if strings.EqualFold(target.OriginalName, trimmed) {
			return target, true
		}
	}
	return nil, false
}

// ResolveGitSearchPaths fetches every dependency that names a `git`
// source into cacheDir (via the gitFetcher in deps_git.go) and
// returns their checkout directories, in dependency-name order.
// Dependencies without a git source are skipped — only a module
// resolver's filesystem search path is extended here, not a full
// lockfile-tracked install.
func (m *Manifest) ResolveGitSearchPaths(cacheDir string) ([]string, error) {
	if m == nil || len(m.Dependencies) == 0 {
		return nil, nil
	}
	fetcher := newGitFetcher(cacheDir)
	var paths []string
	for _, name := range sortedKeys(m.Dependencies) {
		dep := m.Dependencies[name]
		if dep == nil || dep.Git == "" {
			continue
		}
		dir, err := fetcher.fetch(name, dep)
		if err != nil {
			return nil, fmt.Errorf("manifest: dependency %q: %w", name, err)
		}
		paths = append(paths, dir)
	}
	return paths, nil
}

//-----------------------------------------------------------------------------
// YAML document shape
//-----------------------------------------------------------------------------

// manifestDocument is the raw decode target for zelo.yaml; toManifest
// turns it into the public Manifest shape.
type manifestDocument struct {
	Name              string           `yaml:"name"`
	Version           string           `yaml:"version"`
	License           string           `yaml:"license"`
	Authors           trimmedList      `yaml:"authors"`
	Targets           orderedTargets   `yaml:"targets"`
	Dependencies      dependencySet    `yaml:"dependencies"`
	DevDependencies   dependencySet    `yaml:"dev_dependencies"`
	BuildDependencies dependencySet    `yaml:"build_dependencies"`
	Workspace         map[string]any   `yaml:"workspace"`
}

type targetDocument struct {
	Type         TargetType    `yaml:"type"`
	Main         string        `yaml:"main"`
	Dependencies dependencySet `yaml:"dependencies"`
}

// orderedTargets preserves the file order of the `targets` mapping,
// since that order becomes Manifest.TargetOrder and decides
// DefaultExecutableTarget's tie-break among several executables.
type orderedTargets struct {
	items []struct {
		name string
		doc  *targetDocument
	}
}

// dependencySet is a dependency mapping keyed by dependency name; Go
// map iteration order is not file order, so groups built from it are
// walked through sortedKeys wherever order matters for output.
type dependencySet map[string]*DependencySpec

// trimmedList decodes either a single scalar or a YAML sequence into
// a []string with blanks dropped and each entry trimmed.
type trimmedList []string

// decodeOrderedMapping walks a YAML mapping node in file order,
// calling visit once per key/value pair with the key already trimmed.
// A null or absent node is treated as an empty mapping.
func decodeOrderedMapping(value *yaml.Node, label string, visit func(key string, node *yaml.Node) error) error {
	if value.Kind == 0 || (value.Kind == yaml.ScalarNode && value.Tag == "!!null") {
		return nil
	}
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("manifest: %s must be a mapping", label)
	}
	for i := 0; i < len(value.Content); i += 2 {
		var key string
		if err := value.Content[i].Decode(&key); err != nil {
			return err
		}
		key = strings.TrimSpace(key)
		if key == "" {
			return fmt.Errorf("manifest: %s must not use empty keys", label)
		}
		if err := visit(key, value.Content[i+1]); err != nil {
			return err
		}
	}
	return nil
}

func (ot *orderedTargets) UnmarshalYAML(value *yaml.Node) error {
	var items []struct {
		name string
		doc  *targetDocument
	}
	err := decodeOrderedMapping(value, "targets", func(key string, node *yaml.Node) error {
		doc := new(targetDocument)
		if err := node.Decode(doc); err != nil {
			return fmt.Errorf("manifest: target %q: %w", key, err)
		}
		items = append(items, struct {
			name string
			doc  *targetDocument
		}{name: key, doc: doc})
		return nil
	})
	if err != nil {
		return err
	}
	ot.items = items
	return nil
}

func (ds *dependencySet) UnmarshalYAML(value *yaml.Node) error {
	result := make(dependencySet)
	err := decodeOrderedMapping(value, "dependencies", func(key string, node *yaml.Node) error {
		dep := new(DependencySpec)
		if err := dep.unmarshalYAML(node); err != nil {
			return fmt.Errorf("manifest: dependency %q: %w", key, err)
		}
		result[key] = dep
		return nil
	})
	if err != nil {
		return err
	}
	*ds = result
	return nil
}

func (d *DependencySpec) unmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		if value.Tag == "!!null" || strings.TrimSpace(value.Value) == "" {
			*d = DependencySpec{}
			return nil
		}
		*d = DependencySpec{Version: strings.TrimSpace(value.Value)}
		return nil
	case yaml.MappingNode:
		var raw struct {
			Version  string      `yaml:"version"`
			Git      string      `yaml:"git"`
			Rev      string      `yaml:"rev"`
			Tag      string      `yaml:"tag"`
			Branch   string      `yaml:"branch"`
			Path     string      `yaml:"path"`
			Registry string      `yaml:"registry"`
			Features trimmedList `yaml:"features"`
			Optional bool        `yaml:"optional"`
		}
		if err := value.Decode(&raw); err != nil {
			return err
		}
		*d = DependencySpec{
			Version:  strings.TrimSpace(raw.Version),
			Git:      strings.TrimSpace(raw.Git),
			Rev:      strings.TrimSpace(raw.Rev),
			Tag:      strings.TrimSpace(raw.Tag),
			Branch:   strings.TrimSpace(raw.Branch),
			Path:     strings.TrimSpace(raw.Path),
			Registry: strings.TrimSpace(raw.Registry),
			Features: []string(raw.Features),
			Optional: raw.Optional,
		}
		return nil
	case yaml.AliasNode:
		return d.unmarshalYAML(value.Alias)
	default:
		return fmt.Errorf("manifest: expected string or mapping for dependency, found %s", value.ShortTag())
	}
}

func (l *trimmedList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		if value.Tag == "!!null" || strings.TrimSpace(value.Value) == "" {
			*l = nil
			return nil
		}
		*l = trimmedList{strings.TrimSpace(value.Value)}
		return nil
	case yaml.SequenceNode:
		items := make([]string, 0, len(value.Content))
		for _, node := range value.Content {
			var str string
			if err := node.Decode(&str); err != nil {
				return err
			}
			if str = strings.TrimSpace(str); str != "" {
				items = append(items, str)
			}
		}
		*l = trimmedList(items)
		return nil
	case yaml.AliasNode:
		return l.UnmarshalYAML(value.Alias)
	case 0:
		*l = nil
		return nil
	default:
		return fmt.Errorf("manifest: expected string or sequence for list but found %s", value.ShortTag())
	}
}

// toManifest flattens the decoded document into the public Manifest
// shape: dependency maps are already trimmed and owned by this decode
// (built fresh by UnmarshalYAML above), so they're adopted directly
// rather than copied again; targets get both a lookup map (by
// sanitized name) and an ordered slice (file order, for
// DefaultExecutableTarget/validation/FindTarget).
func (doc manifestDocument) toManifest(path string) *Manifest {
	m := &Manifest{
		Path:              path,
		Name:              sanitizeSegment(strings.TrimSpace(doc.Name)),
		Version:           strings.TrimSpace(doc.Version),
		License:           strings.TrimSpace(doc.License),
		Authors:           []string(doc.Authors),
		Targets:           make(map[string]*TargetSpec, len(doc.Targets.items)),
		TargetOrder:       make([]string, 0, len(doc.Targets.items)),
		Dependencies:      map[string]*DependencySpec(doc.Dependencies),
		DevDependencies:   map[string]*DependencySpec(doc.DevDependencies),
		BuildDependencies: map[string]*DependencySpec(doc.BuildDependencies),
		Workspace:         doc.Workspace,
		orderedTargets:    make([]*TargetSpec, 0, len(doc.Targets.items)),
	}
	if m.Dependencies == nil {
		m.Dependencies = map[string]*DependencySpec{}
	}
	if m.DevDependencies == nil {
		m.DevDependencies = map[string]*DependencySpec{}
	}
	if m.BuildDependencies == nil {
		m.BuildDependencies = map[string]*DependencySpec{}
	}

	seen := make(map[string]struct{}, len(doc.Targets.items))
	for _, item := range doc.Targets.items {
		original := strings.TrimSpace(item.name)
		if original == "" || item.doc == nil {
			continue
		}
		sanitized := sanitizeSegment(original)
		target := &TargetSpec{
			Name:         sanitized,
			OriginalName: original,
			Type:         item.doc.Type,
			Main:         strings.TrimSpace(item.doc.Main),
			Dependencies: map[string]*DependencySpec(item.doc.Dependencies),
		}
		if target.Dependencies == nil {
			target.Dependencies = map[string]*DependencySpec{}
		}
		if _, exists := m.Targets[sanitized]; !exists {
			m.Targets[sanitized] = target
		}
		if _, exists := seen[sanitized]; !exists {
			m.TargetOrder = append(m.TargetOrder, sanitized)
			seen[sanitized] = struct{}{}
		}
		m.orderedTargets = append(m.orderedTargets, target)
	}
	return m
}
