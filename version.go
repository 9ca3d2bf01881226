package scope

import "time"

// File ties a logical file name and its working-copy relative path to the
// Source blob holding its content.
type File struct {
	Name         string `json:"name"`
	RelativePath string `json:"relativePath"`
	File         Ref    `json:"file"` // -> Source
}

// Dependency is one edge of the component dependency DAG: a fully
// version-qualified BitId, plus the relative path it was required from.
type Dependency struct {
	Id           BitId  `json:"id"`
	RelativePath string `json:"relativePath,omitempty"`
}

// Log records who committed a Version and when.
type Log struct {
	Message string    `json:"message"`
	Date    time.Time `json:"date"`
	Author  string    `json:"author,omitempty"`
}

// SpecsResult is the outcome of running one test file's specs.
type SpecsResult struct {
	File   string `json:"file"`
	Passed bool   `json:"passed"`
	Output string `json:"output,omitempty"`
}

// Version is one immutable release of a component. Every reference it
// carries (Files, Dependencies) must resolve: a Source ref must exist in
// the object store, and a Dependency's BitId must resolve to an existing
// Component, locally or after remote resolution.
type Version struct {
	MainFile              string            `json:"mainFile"`
	Files                 []File            `json:"files"`
	Dists                 []File            `json:"dists,omitempty"`
	Dependencies          []Dependency      `json:"dependencies"`
	FlattenedDependencies []BitId           `json:"flattenedDependencies"`
	PackageDependencies   map[string]string `json:"packageDependencies,omitempty"`
	Compiler              string            `json:"compiler,omitempty"`
	Tester                string            `json:"tester,omitempty"`
	Log                   Log               `json:"log"`
	SpecsResults          []SpecsResult     `json:"specsResults,omitempty"`
}

func (v *Version) ObjectTag() Tag { return TagVersion }

// DependencyKeys returns the id-without-version key of every direct
// dependency, the same key engine.PutMany's intra-batch topological sort
// uses (that sort reads ConsumerComponent.DependencyKeys, not this method).
func (v *Version) DependencyKeys() []string {
	keys := make([]string, len(v.Dependencies))
	for i, d := range v.Dependencies {
		keys[i] = d.Id.Key()
	}
	return keys
}
