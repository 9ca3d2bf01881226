package scope

// Symlink redirects a locally-created id (Scope == "") to the remote scope
// it was exported to. It is created in place of a Component at export time
// so that local dependents referencing the old, scope-less id keep
// resolving (spec.md §4.4.3, §8 invariant 5).
type Symlink struct {
	Scope     string `json:"scope"` // always "", mirrors the original local id
	Box       string `json:"box"`
	Name      string `json:"name"`
	RealScope string `json:"realScope"`
}

func (s *Symlink) ObjectTag() Tag { return TagSymlink }

// Id returns the local (scope-less) BitId this symlink was created for.
func (s *Symlink) Id() BitId {
	return BitId{Box: s.Box, Name: s.Name}
}

// Target returns the BitId the symlink redirects to.
func (s *Symlink) Target() BitId {
	return BitId{Scope: s.RealScope, Box: s.Box, Name: s.Name}
}
