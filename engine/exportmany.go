package engine

import (
	"context"
	"fmt"

	"github.com/scopeengine/core"
	"github.com/scopeengine/core/enginemetrics"
	"github.com/scopeengine/core/internal/sourcesrepo"
)

// ExportMany publishes local components to a named remote (spec.md
// §4.4.3). On success, each id's local Component is replaced by a Symlink
// so existing dependents keep resolving; on a push failure, no local
// state is mutated.
func (s *Scope) ExportMany(ctx context.Context, ids []scope.BitId, remoteName string) ([]scope.BitId, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	remote, err := s.Remotes.Resolve(remoteName)
	if err != nil {
		return nil, err
	}

	remoteBundles := make([]sourcesrepo.ComponentObjects, len(ids))
	exported := make([]scope.BitId, len(ids))

	// rewriteNullScopeDeps stages a rewritten Version (via Objects.Add)
	// whenever a dependency id changes; those stage before PushMany is even
	// called, so track them to unwind on any failure up to and including
	// the push itself (nothing should be left behind to surface in a later,
	// unrelated Persist).
	var stagedRefs []scope.Ref
	discardStaged := func() {
		for _, ref := range stagedRefs {
			s.Objects.DiscardPendingAdd(ref)
		}
	}

	for i, id := range ids {
		localId := scope.BitId{Box: id.Box, Name: id.Name}

		bundle, err := s.Sources.GetObjects(ctx, localId)
		if err != nil {
			discardStaged()
			enginemetrics.ObserveExportMany("push_failed")
			return nil, err
		}
		staged, err := s.rewriteNullScopeDeps(ctx, &bundle, remoteName)
		stagedRefs = append(stagedRefs, staged...)
		if err != nil {
			discardStaged()
			enginemetrics.ObserveExportMany("push_failed")
			return nil, err
		}

		remoteComp := bundle.Component.Clone()
		remoteComp.Scope = remoteName
		remoteBundles[i] = sourcesrepo.ComponentObjects{
			Component: remoteComp,
			Versions:  bundle.Versions,
			Sources:   bundle.Sources,
		}
		exported[i] = scope.BitId{Scope: remoteName, Box: id.Box, Name: id.Name}
	}

	// Push first; on a push failure every rewrite staged above is unwound,
	// so the scope is left untouched (spec.md §4.4.3 step 5).
	if _, err := remote.PushMany(ctx, remoteBundles); err != nil {
		discardStaged()
		enginemetrics.ObserveExportMany("push_failed")
		return nil, fmt.Errorf("engine: export to %s: %w", remoteName, err)
	}

	for i, id := range ids {
		localId := scope.BitId{Box: id.Box, Name: id.Name}
		if err := s.Sources.Clean(ctx, localId, false); err != nil {
			enginemetrics.ObserveExportMany("push_failed")
			return nil, err
		}
		if err := s.Sources.PutSymlink(localId, remoteName); err != nil {
			enginemetrics.ObserveExportMany("push_failed")
			return nil, err
		}
		// Merge back the bundle just pushed, now under its remoteName
		// identity — the "authoritative objects" spec.md §4.4.3 step 4
		// describes. This Remotes abstraction confirms acceptance but
		// does not hand back a server-rewritten bundle, so the locally
		// computed (already rewritten, already canonical) bundle is
		// authoritative; merging it back is a no-op per §8's merge
		// idempotence invariant.
		if err := s.Sources.Merge(ctx, remoteBundles[i], false); err != nil {
			enginemetrics.ObserveExportMany("push_failed")
			return nil, err
		}
	}

	if err := s.Persist(ctx); err != nil {
		enginemetrics.ObserveExportMany("push_failed")
		return nil, err
	}

	s.Hooks.PostExport(ctx, exported, remoteName)
	enginemetrics.ObserveExportMany("ok")
	return exported, nil
}

// rewriteNullScopeDeps rewrites every null-scope (locally-created)
// dependency id found in bundle's Versions to either an earlier export's
// realScope (if a local Symlink already redirects it) or remoteName
// (spec.md §4.4.3 step 2). A Version whose canonical encoding changes as a
// result is re-added under its new Ref, and bundle.Component's versions
// map is repointed at it. The refs staged by that re-add are returned (on
// an error, those staged before it) so the caller can unwind them if the
// export is abandoned before they are ever persisted.
func (s *Scope) rewriteNullScopeDeps(ctx context.Context, bundle *sourcesrepo.ComponentObjects, remoteName string) ([]scope.Ref, error) {
	type rewritten struct {
		oldRef scope.Ref
		newRef scope.Ref
		newVer *scope.Version
	}
	var changes []rewritten
	stagedSoFar := func() []scope.Ref {
		refs := make([]scope.Ref, 0, len(changes))
		for _, c := range changes {
			refs = append(refs, c.newRef)
		}
		return refs
	}

	for oldRef, ver := range bundle.Versions {
		changed := false

		newDeps := make([]scope.Dependency, len(ver.Dependencies))
		for i, d := range ver.Dependencies {
			id, did, err := s.rewriteDepId(ctx, d.Id, remoteName)
			if err != nil {
				return stagedSoFar(), err
			}
			newDeps[i] = scope.Dependency{Id: id, RelativePath: d.RelativePath}
			changed = changed || did
		}

		newFlat := make([]scope.BitId, len(ver.FlattenedDependencies))
		for i, id := range ver.FlattenedDependencies {
			rewrittenId, did, err := s.rewriteDepId(ctx, id, remoteName)
			if err != nil {
				return stagedSoFar(), err
			}
			newFlat[i] = rewrittenId
			changed = changed || did
		}

		if !changed {
			continue
		}

		newVer := *ver
		newVer.Dependencies = newDeps
		newVer.FlattenedDependencies = newFlat

		newRef, err := s.Objects.Add(&newVer)
		if err != nil {
			return stagedSoFar(), err
		}
		if newRef == oldRef {
			continue
		}
		changes = append(changes, rewritten{oldRef: oldRef, newRef: newRef, newVer: &newVer})
	}

	staged := make([]scope.Ref, 0, len(changes))
	for _, c := range changes {
		delete(bundle.Versions, c.oldRef)
		bundle.Versions[c.newRef] = c.newVer
		for v, ref := range bundle.Component.Versions {
			if ref == c.oldRef {
				bundle.Component.Versions[v] = c.newRef
			}
		}
		staged = append(staged, c.newRef)
	}
	return staged, nil
}

// rewriteDepId rewrites id if it is null-scope (locally-created); a
// scoped id is left untouched.
func (s *Scope) rewriteDepId(ctx context.Context, id scope.BitId, remoteName string) (scope.BitId, bool, error) {
	if id.Scope != "" {
		return id, false, nil
	}
	realScope, ok, err := s.Sources.ResolveSymlinkScope(ctx, id.WithoutVersion())
	if err != nil {
		return scope.BitId{}, false, err
	}
	if ok {
		return id.WithScope(realScope), true, nil
	}
	return id.WithScope(remoteName), true, nil
}
