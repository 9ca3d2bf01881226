package sourcesrepo

import (
	"context"

	"github.com/scopeengine/core"
)

// PutSymlink stages a Symlink redirecting id (local, Scope=="") to
// realScope, replacing whatever Component or Symlink was bound at id's key
// (spec.md §4.4.3 step 4).
func (r *Repository) PutSymlink(id scope.BitId, realScope string) error {
	sym := &scope.Symlink{Box: id.Box, Name: id.Name, RealScope: realScope}
	ref, err := r.objects.Add(sym)
	if err != nil {
		return err
	}
	r.objects.PutLink(linkKey(id), ref)
	return nil
}

// ResolveSymlinkScope peeks at whatever is bound under id's key without
// chasing a Symlink to its target Component, the way Get does. It reports
// ok=true only when a Symlink is bound there, returning its realScope —
// used by exportMany to redirect a null-scope dependency id to a realScope
// an earlier export already established (spec.md §4.4.3 step 2), rather
// than the current export's own destination.
func (r *Repository) ResolveSymlinkScope(ctx context.Context, id scope.BitId) (string, bool, error) {
	ref, ok, err := r.objects.ResolveLink(ctx, linkKey(id))
	if err != nil {
		return "", false, err
	}
	if !ok {
		return "", false, nil
	}
	obj, err := r.objects.Load(ctx, ref)
	if err != nil {
		return "", false, err
	}
	sym, ok := obj.(*scope.Symlink)
	if !ok {
		return "", false, nil
	}
	return sym.RealScope, true, nil
}
