package scope

import (
	"fmt"
	"regexp"
	"strings"
)

// component matches a single path segment of a box or name: lowercase
// alphanumerics separated by single dots, dashes, or underscores.
const component = `[a-z0-9]+(?:[._-][a-z0-9]+)*`

// scopeNameRe matches the optional leading scope of a BitId, e.g.
// "my-org.utils".
var (
	scopeNameRe = regexp.MustCompile(`^` + component + `$`)
	boxNameRe   = regexp.MustCompile(`^` + component + `$`)
	versionRe   = regexp.MustCompile(`^\d+\.\d+\.\d+(?:-[0-9A-Za-z.-]+)?$`)
)

// BitId identifies a component revision: an optional remote scope, a box
// (namespace), a name, and an optional version. Equality ignores version
// unless compared explicitly with EqualsWithVersion.
type BitId struct {
	Scope   string // empty for locally-created, unexported components
	Box     string
	Name    string
	Version string // empty when the id does not pin a specific version
}

// ParseBitId parses the lossless wire form "[scope/]box/name[@version]".
func ParseBitId(s string) (BitId, error) {
	var id BitId

	rest := s
	if at := strings.LastIndex(rest, "@"); at >= 0 {
		id.Version = rest[at+1:]
		rest = rest[:at]
		if id.Version == "" || !versionRe.MatchString(id.Version) {
			return BitId{}, fmt.Errorf("scope: invalid version %q in id %q", id.Version, s)
		}
	}

	parts := strings.Split(rest, "/")
	switch len(parts) {
	case 2:
		id.Box, id.Name = parts[0], parts[1]
	case 3:
		id.Scope, id.Box, id.Name = parts[0], parts[1], parts[2]
	default:
		return BitId{}, fmt.Errorf("scope: malformed id %q, want [scope/]box/name[@version]", s)
	}

	if id.Scope != "" && !scopeNameRe.MatchString(id.Scope) {
		return BitId{}, fmt.Errorf("scope: invalid scope %q in id %q", id.Scope, s)
	}
	if !boxNameRe.MatchString(id.Box) || !boxNameRe.MatchString(id.Name) {
		return BitId{}, fmt.Errorf("scope: invalid box/name in id %q", s)
	}

	return id, nil
}

// String formats the id back to its lossless wire form.
func (id BitId) String() string {
	var b strings.Builder
	if id.Scope != "" {
		b.WriteString(id.Scope)
		b.WriteByte('/')
	}
	b.WriteString(id.Box)
	b.WriteByte('/')
	b.WriteString(id.Name)
	if id.Version != "" {
		b.WriteByte('@')
		b.WriteString(id.Version)
	}
	return b.String()
}

// WithVersion returns a copy of id pinned to version. Per the design notes
// in spec.md §9, resolution never mutates a BitId in place; it always
// returns a new value.
func (id BitId) WithVersion(version string) BitId {
	id.Version = version
	return id
}

// WithoutVersion returns a copy of id with its version cleared, used as the
// stable key for identity comparisons and dependency-graph edges.
func (id BitId) WithoutVersion() BitId {
	id.Version = ""
	return id
}

// WithScope returns a copy of id bound to the given remote scope, used when
// a Symlink redirects a locally-created id to realScope.
func (id BitId) WithScope(scopeName string) BitId {
	id.Scope = scopeName
	return id
}

// Equals compares scope, box, and name, ignoring version.
func (id BitId) Equals(other BitId) bool {
	return id.Scope == other.Scope && id.Box == other.Box && id.Name == other.Name
}

// EqualsWithVersion compares every field, including version.
func (id BitId) EqualsWithVersion(other BitId) bool {
	return id.Equals(other) && id.Version == other.Version
}

// IsLocal reports whether id has no scope, or its scope matches the scope
// currently hosting it (localScopeName).
func (id BitId) IsLocal(localScopeName string) bool {
	return id.Scope == "" || id.Scope == localScopeName
}

// HasVersion reports whether id pins a specific version.
func (id BitId) HasVersion() bool {
	return id.Version != ""
}

// Key returns the id-without-version string used throughout the engine to
// memoize dependency resolution across a batch (spec.md §4.4.1, §4.4.2).
func (id BitId) Key() string {
	return id.WithoutVersion().String()
}
