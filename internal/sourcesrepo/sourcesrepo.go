// Package sourcesrepo implements the Sources Repository (spec.md §4.3):
// higher-level CRUD over logical components, layered on top of
// internal/objectstore's content-addressed blobs and named-link index.
//
// Grounded on the teacher's registry/storage package: tagstore.go's
// name -> current-digest link (here, BitId -> current Component ref),
// manifeststore.go/revisionstore.go's get/put over that link, and
// registry.go's repository-scoped construction.
package sourcesrepo

import (
	"github.com/scopeengine/core"
	"github.com/scopeengine/core/internal/objectstore"
)

// Repository is the Sources Repository for one scope.
type Repository struct {
	objects    *objectstore.Repository
	localScope string
}

// New constructs a Repository over objects. localScope is this scope's own
// name (possibly "" for a scope that has never been named). It is recorded
// on the Repository but no lookup reads it: link keys come from the id's
// own scope field alone.
func New(objects *objectstore.Repository, localScope string) *Repository {
	return &Repository{objects: objects, localScope: localScope}
}

// Objects returns the underlying object repository, for callers (engine's
// putMany/exportMany) that need to stage raw blobs alongside a
// sources-repository write in the same persist() batch.
func (r *Repository) Objects() *objectstore.Repository {
	return r.objects
}

// linkKey returns the named-link key for id's (scope, box, name), ignoring
// any version. Locally-created ids (no scope) and exported ids (scope set)
// live in disjoint key spaces so a Component and the Symlink left behind
// for it after export never collide.
func linkKey(id scope.BitId) string {
	base := id.WithoutVersion()
	if base.Scope == "" {
		return "local/" + base.Box + "/" + base.Name
	}
	return "scopes/" + base.Scope + "/" + base.Box + "/" + base.Name
}

// ComponentObjects is a Component plus every Version it lists and every
// Source those versions reference — the transitive closure restricted to
// blobs (spec.md §4.3 getObjects). BitId dependencies are never inlined.
type ComponentObjects struct {
	Component *scope.Component
	Versions  map[scope.Ref]*scope.Version
	Sources   map[scope.Ref]*scope.Source
}
