package sourcesrepo

import (
	"context"
	"fmt"

	"github.com/scopeengine/core"
)

// maxSymlinkHops bounds the scope-rewrite chase in Get. A Symlink always
// points at a realScope distinct from its own (export never targets the
// scope-less local namespace), so a healthy store resolves in one hop;
// this only guards a corrupted or maliciously circular store from an
// infinite retry.
const maxSymlinkHops = 8

// Get resolves id's (scope, box, name) to its current Component, following
// a Symlink (by replacing scope with realScope and retrying) when export
// has redirected it. Returns scope.ErrComponentNotFound if nothing is
// bound under id's key.
func (r *Repository) Get(ctx context.Context, id scope.BitId) (*scope.Component, error) {
	return r.get(ctx, id, 0)
}

func (r *Repository) get(ctx context.Context, id scope.BitId, hops int) (*scope.Component, error) {
	if hops >= maxSymlinkHops {
		return nil, scope.ErrCorruptedObject("", fmt.Errorf("sourcesrepo: symlink chain for %s exceeds %d hops", id, maxSymlinkHops))
	}

	ref, ok, err := r.objects.ResolveLink(ctx, linkKey(id))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, scope.ErrComponentNotFound(id)
	}

	obj, err := r.objects.Load(ctx, ref)
	if err != nil {
		return nil, err
	}

	switch v := obj.(type) {
	case *scope.Component:
		return v, nil
	case *scope.Symlink:
		return r.get(ctx, id.WithScope(v.RealScope), hops+1)
	default:
		return nil, scope.ErrCorruptedObject(ref, fmt.Errorf("sourcesrepo: expected component or symlink at %s, got %s", id, obj.ObjectTag()))
	}
}

// GetResult pairs a requested id with its resolved Component, or nil if
// none was found. It is not an error for a GetMany entry to miss; callers
// that require every id to resolve check each result's Component themselves (spec.md
// §4.4.2 treats a local miss in importMany as ComponentNotFound, but
// GetMany itself is a pure batched lookup).
type GetResult struct {
	Id        scope.BitId
	Component *scope.Component
}

// GetMany resolves every id in ids, preserving input order.
func (r *Repository) GetMany(ctx context.Context, ids []scope.BitId) ([]GetResult, error) {
	results := make([]GetResult, len(ids))
	for i, id := range ids {
		comp, err := r.Get(ctx, id)
		if err != nil {
			if serr, ok := asScopeError(err); ok && serr.Code == scope.CodeComponentNotFound {
				results[i] = GetResult{Id: id}
				continue
			}
			return nil, err
		}
		results[i] = GetResult{Id: id, Component: comp}
	}
	return results, nil
}

// GetObjects returns id's Component plus every Version it lists plus every
// Source those versions reference.
func (r *Repository) GetObjects(ctx context.Context, id scope.BitId) (ComponentObjects, error) {
	comp, err := r.Get(ctx, id)
	if err != nil {
		return ComponentObjects{}, err
	}

	out := ComponentObjects{
		Component: comp,
		Versions:  map[scope.Ref]*scope.Version{},
		Sources:   map[scope.Ref]*scope.Source{},
	}

	for _, verRef := range comp.Versions {
		obj, err := r.objects.Load(ctx, verRef)
		if err != nil {
			return ComponentObjects{}, err
		}
		ver, ok := obj.(*scope.Version)
		if !ok {
			return ComponentObjects{}, scope.ErrCorruptedObject(verRef, fmt.Errorf("sourcesrepo: expected version, got %s", obj.ObjectTag()))
		}
		out.Versions[verRef] = ver

		for _, f := range append(append([]scope.File{}, ver.Files...), ver.Dists...) {
			if _, done := out.Sources[f.File]; done {
				continue
			}
			srcObj, err := r.objects.Load(ctx, f.File)
			if err != nil {
				return ComponentObjects{}, err
			}
			src, ok := srcObj.(*scope.Source)
			if !ok {
				return ComponentObjects{}, scope.ErrCorruptedObject(f.File, fmt.Errorf("sourcesrepo: expected source, got %s", srcObj.ObjectTag()))
			}
			out.Sources[f.File] = src
		}
	}

	return out, nil
}

func asScopeError(err error) (*scope.Error, bool) {
	serr, ok := err.(*scope.Error)
	return serr, ok
}
