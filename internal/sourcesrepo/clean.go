package sourcesrepo

import (
	"context"
	"fmt"

	"github.com/scopeengine/core"
)

// Clean removes whatever is bound under id's key — a Component or a
// Symlink left behind by export — and is a no-op if nothing is bound.
//
// deleteAllVersions controls the depth of a Component removal: false
// removes only the Component blob and its named link, leaving the
// Version/Source blobs it referenced in place (orphaned: nothing still
// names them, and nothing in the engine reclaims them);
// true additionally stages removal of every one of those Version and
// Source refs. engine.RemoveMany uses the deep form since a force-removed
// id has already been confirmed to have no dependents; engine.ExportMany
// uses the shallow form, since the objects it just cleaned were already
// merged into the remote bundle moments earlier and remain reachable
// there.
func (r *Repository) Clean(ctx context.Context, id scope.BitId, deleteAllVersions bool) error {
	key := linkKey(id)
	ref, ok, err := r.objects.ResolveLink(ctx, key)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	obj, err := r.objects.Load(ctx, ref)
	if err != nil {
		return err
	}

	switch v := obj.(type) {
	case *scope.Symlink:
		r.objects.DeleteLink(key)
		r.objects.Remove(ref)
		return nil

	case *scope.Component:
		if deleteAllVersions {
			for _, verRef := range v.Versions {
				r.removeVersionAndSources(ctx, verRef)
			}
		}
		r.objects.DeleteLink(key)
		r.objects.Remove(ref)
		return nil

	default:
		return scope.ErrCorruptedObject(ref, fmt.Errorf("sourcesrepo: expected component or symlink at %s, got %s", id, obj.ObjectTag()))
	}
}

// removeVersionAndSources stages removal of verRef and every Source it
// references. A Load failure here means the Version is already gone or
// corrupt; either way there is nothing further to clean up under it, so
// the error is not propagated — deep clean is best-effort on history that
// is, by construction, about to become unreachable.
func (r *Repository) removeVersionAndSources(ctx context.Context, verRef scope.Ref) {
	obj, err := r.objects.Load(ctx, verRef)
	if err == nil {
		if ver, ok := obj.(*scope.Version); ok {
			for _, f := range append(append([]scope.File{}, ver.Files...), ver.Dists...) {
				r.objects.Remove(f.File)
			}
		}
	}
	r.objects.Remove(verRef)
}
