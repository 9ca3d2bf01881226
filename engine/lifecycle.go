package engine

import (
	"context"
	"fmt"

	"github.com/scopeengine/core"
	"github.com/scopeengine/core/enginemetrics"
)

// DeprecateMany marks each id's Component deprecated and persists
// (spec.md §4.4.4).
func (s *Scope) DeprecateMany(ctx context.Context, ids []scope.BitId) error {
	if len(ids) == 0 {
		return nil
	}
	for _, id := range ids {
		if _, err := s.Sources.Deprecate(ctx, id); err != nil {
			return err
		}
	}
	if err := s.Persist(ctx); err != nil {
		return err
	}
	s.Hooks.PostDeprecate(ctx, ids)
	return nil
}

// RemoveMany removes ids, or reports the dependents blocking removal
// (spec.md §4.4.4). Without force, the whole call is all-or-nothing: if
// any candidate has a dependent, nothing is removed.
func (s *Scope) RemoveMany(ctx context.Context, ids []scope.BitId, force bool) (RemoveResult, error) {
	if len(ids) == 0 {
		return RemoveResult{}, nil
	}

	var found, missing []scope.BitId
	for _, id := range ids {
		if _, err := s.Sources.Get(ctx, id); err != nil {
			if serr, ok := asScopeError(err); ok && serr.Code == scope.CodeComponentNotFound {
				missing = append(missing, id)
				continue
			}
			return RemoveResult{}, err
		}
		found = append(found, id)
	}

	if !force {
		dependents, err := s.findDependents(ctx, found)
		if err != nil {
			return RemoveResult{}, err
		}
		if len(dependents) > 0 {
			enginemetrics.ObserveRemoveMany("has_dependents")
			return RemoveResult{Missing: missing, Dependents: dependents}, nil
		}
	}

	for _, id := range found {
		if err := s.Sources.Clean(ctx, id, true); err != nil {
			enginemetrics.ObserveRemoveMany("error")
			return RemoveResult{}, err
		}
	}
	if err := s.Persist(ctx); err != nil {
		enginemetrics.ObserveRemoveMany("error")
		return RemoveResult{}, err
	}

	s.Hooks.PostRemove(ctx, found)
	enginemetrics.ObserveRemoveMany("removed")
	return RemoveResult{Removed: found, Missing: missing}, nil
}

// findDependents scans every local component's latest version for a
// flattened dependency matching one of candidates (ignoring version), per
// spec.md §4.4.4's "compute dependents by scanning every local component's
// flattened deps".
func (s *Scope) findDependents(ctx context.Context, candidates []scope.BitId) (map[string][]scope.BitId, error) {
	if len(candidates) == 0 {
		return nil, nil
	}

	locals, err := s.localComponents(ctx)
	if err != nil {
		return nil, err
	}

	dependents := map[string][]scope.BitId{}
	for _, comp := range locals {
		latest, err := latestVersionKey(comp)
		if err != nil {
			continue // a component with no versions yet has no dependents to report
		}
		obj, err := s.Objects.Load(ctx, comp.Versions[latest])
		if err != nil {
			return nil, err
		}
		ver, ok := obj.(*scope.Version)
		if !ok {
			continue
		}

		for _, candidate := range candidates {
			for _, dep := range ver.FlattenedDependencies {
				if dep.Equals(candidate) {
					dependents[candidate.Key()] = append(dependents[candidate.Key()], comp.Id())
					break
				}
			}
		}
	}
	return dependents, nil
}

// localComponents returns every Component currently bound under the
// "local/" link namespace (exported Symlinks are skipped: they no longer
// name a locally-held component).
func (s *Scope) localComponents(ctx context.Context) ([]*scope.Component, error) {
	links, err := s.Objects.ListLinks(ctx)
	if err != nil {
		return nil, err
	}

	var comps []*scope.Component
	for name, ref := range links {
		if !isLocalLinkName(name) {
			continue
		}
		obj, err := s.Objects.Load(ctx, ref)
		if err != nil {
			return nil, err
		}
		if comp, ok := obj.(*scope.Component); ok {
			comps = append(comps, comp)
		}
	}
	return comps, nil
}

func isLocalLinkName(name string) bool {
	return len(name) >= 6 && name[:6] == "local/"
}

// Reset drops id's latest version, or deletes the whole component if it
// has only one (spec.md §4.4.4). id must be local.
func (s *Scope) Reset(ctx context.Context, id scope.BitId) (ResetResult, error) {
	if !id.IsLocal(s.Config.Name) {
		return ResetResult{}, fmt.Errorf("engine: reset requires a local id, got %s", id)
	}
	localId := id.WithoutVersion()

	comp, err := s.Sources.Get(ctx, localId)
	if err != nil {
		return ResetResult{}, err
	}

	if len(comp.Versions) <= 1 {
		if err := s.Sources.Clean(ctx, localId, true); err != nil {
			return ResetResult{}, err
		}
		if err := s.Persist(ctx); err != nil {
			return ResetResult{}, err
		}
		return ResetResult{ComponentDeleted: true}, nil
	}

	latest, err := latestVersionKey(comp)
	if err != nil {
		return ResetResult{}, err
	}
	if _, err := s.Sources.DropVersion(ctx, localId, latest); err != nil {
		return ResetResult{}, err
	}
	if err := s.Persist(ctx); err != nil {
		return ResetResult{}, err
	}

	return ResetResult{DroppedVersion: latest}, nil
}
