package sourcesrepo

import (
	"context"

	"github.com/scopeengine/core"
)

// DropVersion removes version from id's Component — staging the Version's
// own ref, and every Source it referenced, for removal — and stages the
// updated Component in its place; the caller persists. Used by engine.Reset's multi-version
// branch (spec.md §4.4.4); the single-version branch calls Clean instead,
// since dropping the last version deletes the whole component.
func (r *Repository) DropVersion(ctx context.Context, id scope.BitId, version string) (*scope.Component, error) {
	comp, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	verRef, ok := comp.Versions[version]
	if !ok {
		return nil, scope.ErrDependencyNotFound(id.WithVersion(version))
	}

	r.removeVersionAndSources(ctx, verRef)

	next := comp.Clone()
	delete(next.Versions, version)

	compRef, err := r.objects.Add(next)
	if err != nil {
		return nil, err
	}
	r.objects.PutLink(linkKey(id), compRef)
	return next, nil
}

// Deprecate sets id's Component.Deprecated to true (spec.md §4.4.4).
func (r *Repository) Deprecate(ctx context.Context, id scope.BitId) (*scope.Component, error) {
	comp, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	next := comp.Clone()
	next.Deprecated = true

	ref, err := r.objects.Add(next)
	if err != nil {
		return nil, err
	}
	r.objects.PutLink(linkKey(id), ref)
	return next, nil
}
