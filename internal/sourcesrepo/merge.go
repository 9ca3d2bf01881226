package sourcesrepo

import (
	"context"

	"github.com/scopeengine/core"
)

// Merge merges an incoming object bundle into this repository (spec.md
// §4.3 merge): every Source and Version is staged as-is (adding identical
// content is idempotent by digest, so this also covers the "already
// present with an identical ref" case without a separate check). The
// Component is handled specially: if none exists yet at bundle.Component's
// id, it is staged whole; otherwise the two versions maps are unioned,
// and a version key present on both sides must agree on its ref or the
// merge fails with MergeConflict.
//
// ignoreMissingObjects relaxes the post-union check that every resulting
// version ref is backed by an object this call can see (either already in
// the store or present in bundle.Versions); set it when merging a partial
// bundle (e.g. a fetched head-only version) that deliberately omits older
// history.
func (r *Repository) Merge(ctx context.Context, bundle ComponentObjects, ignoreMissingObjects bool) error {
	for ref, src := range bundle.Sources {
		actual, err := r.objects.Add(src)
		if err != nil {
			return err
		}
		if actual != ref {
			return scope.ErrCorruptedObject(ref, errRefMismatch(ref, actual))
		}
	}
	for ref, ver := range bundle.Versions {
		actual, err := r.objects.Add(ver)
		if err != nil {
			return err
		}
		if actual != ref {
			return scope.ErrCorruptedObject(ref, errRefMismatch(ref, actual))
		}
	}

	if bundle.Component == nil {
		return nil
	}

	id := bundle.Component.Id()
	existing, err := r.Get(ctx, id)
	if err != nil {
		if serr, ok := asScopeError(err); ok && serr.Code == scope.CodeComponentNotFound {
			merged := bundle.Component.Clone()
			if !ignoreMissingObjects {
				if err := r.verifyVersionsResolve(ctx, merged, bundle); err != nil {
					return err
				}
			}
			compRef, err := r.objects.Add(merged)
			if err != nil {
				return err
			}
			r.objects.PutLink(linkKey(id), compRef)
			return nil
		}
		return err
	}

	merged := existing.Clone()
	for version, incomingRef := range bundle.Component.Versions {
		if currentRef, ok := merged.Versions[version]; ok {
			if currentRef != incomingRef {
				return scope.ErrMergeConflict(id, version)
			}
			continue
		}
		merged.Versions[version] = incomingRef
	}
	if bundle.Component.Deprecated {
		merged.Deprecated = true
	}

	if !ignoreMissingObjects {
		if err := r.verifyVersionsResolve(ctx, merged, bundle); err != nil {
			return err
		}
	}

	compRef, err := r.objects.Add(merged)
	if err != nil {
		return err
	}
	r.objects.PutLink(linkKey(id), compRef)
	return nil
}

// verifyVersionsResolve confirms every ref in merged.Versions is backed by
// an object either already durable in the store or present in bundle.
func (r *Repository) verifyVersionsResolve(ctx context.Context, merged *scope.Component, bundle ComponentObjects) error {
	for version, ref := range merged.Versions {
		if _, ok := bundle.Versions[ref]; ok {
			continue
		}
		if _, err := r.objects.Load(ctx, ref); err != nil {
			return scope.ErrDependencyNotFound(merged.Id().WithVersion(version))
		}
	}
	return nil
}

func errRefMismatch(want, got scope.Ref) error {
	return &refMismatchError{want: want, got: got}
}

type refMismatchError struct {
	want, got scope.Ref
}

func (e *refMismatchError) Error() string {
	return "sourcesrepo: declared ref " + e.want.String() + " does not match recomputed digest " + e.got.String()
}
