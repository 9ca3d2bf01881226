package engine

import (
	"context"
	"fmt"

	"github.com/Masterminds/semver/v3"

	"github.com/scopeengine/core"
)

// BumpUpdate is one candidate's outcome from BumpDependenciesVersions: the
// committed dependency version it reacted to, and — when persist is true —
// the new candidate Component actually staged.
type BumpUpdate struct {
	Candidate scope.BitId
	DependsOn scope.BitId // the just-committed id this update reacted to
	Updated   *scope.Component
}

// BumpDependenciesVersions implements spec.md §4.4.5: for each candidate,
// compare its latest Version's dependency on a just-committed id against
// that id's new version. With persist=true, a strictly newer committed
// version stages a new candidate version (message "bump dependencies
// versions"). With persist=false, a newer-or-equal committed version is
// only reported, so callers can warn that an edit will cascade; no store
// mutation happens either way until this call's own s.Persist if persist
// is true and at least one update occurred.
func (s *Scope) BumpDependenciesVersions(ctx context.Context, candidates []scope.BitId, justCommitted []scope.BitId, persist bool) ([]BumpUpdate, error) {
	if len(candidates) == 0 || len(justCommitted) == 0 {
		return nil, nil
	}

	committedByKey := make(map[string]scope.BitId, len(justCommitted))
	for _, id := range justCommitted {
		committedByKey[id.Key()] = id
	}

	var updates []BumpUpdate
	for _, candId := range candidates {
		comp, err := s.Sources.Get(ctx, candId)
		if err != nil {
			return nil, err
		}
		latestKey, err := latestVersionKey(comp)
		if err != nil {
			return nil, err
		}
		obj, err := s.Objects.Load(ctx, comp.Versions[latestKey])
		if err != nil {
			return nil, err
		}
		ver, ok := obj.(*scope.Version)
		if !ok {
			return nil, fmt.Errorf("engine: %s latest ref is not a Version", candId)
		}

		for i, dep := range ver.Dependencies {
			committed, ok := committedByKey[dep.Id.Key()]
			if !ok {
				continue
			}

			cmp, err := compareVersions(committed.Version, dep.Id.Version)
			if err != nil {
				return nil, err
			}

			if persist {
				if cmp <= 0 {
					continue
				}
				updated, err := s.stageBump(ctx, comp, ver, i, committed)
				if err != nil {
					return nil, err
				}
				updates = append(updates, BumpUpdate{Candidate: candId, DependsOn: committed, Updated: updated})
			} else {
				if cmp < 0 {
					continue
				}
				updates = append(updates, BumpUpdate{Candidate: candId, DependsOn: committed})
			}
		}
	}

	if persist && len(updates) > 0 {
		if err := s.Persist(ctx); err != nil {
			return nil, err
		}
	}
	return updates, nil
}

// stageBump rewrites dep i in ver to committed and its matching
// flattened-dependency entry, then stages the result as a new version of
// comp via PutAdditionalVersion.
func (s *Scope) stageBump(ctx context.Context, comp *scope.Component, ver *scope.Version, depIndex int, committed scope.BitId) (*scope.Component, error) {
	next := *ver
	next.Dependencies = append([]scope.Dependency(nil), ver.Dependencies...)
	next.Dependencies[depIndex] = scope.Dependency{Id: committed, RelativePath: ver.Dependencies[depIndex].RelativePath}

	next.FlattenedDependencies = append([]scope.BitId(nil), ver.FlattenedDependencies...)
	oldKey := ver.Dependencies[depIndex].Id.Key()
	for i, flat := range next.FlattenedDependencies {
		if flat.Key() == oldKey {
			next.FlattenedDependencies[i] = committed
		}
	}

	return s.Sources.PutAdditionalVersion(ctx, comp, &next, "bump dependencies versions")
}

// compareVersions parses a and b as semver and returns a.Compare(b)'s
// result (-1, 0, 1).
func compareVersions(a, b string) (int, error) {
	av, err := semver.NewVersion(a)
	if err != nil {
		return 0, fmt.Errorf("engine: parse version %q: %w", a, err)
	}
	bv, err := semver.NewVersion(b)
	if err != nil {
		return 0, fmt.Errorf("engine: parse version %q: %w", b, err)
	}
	return av.Compare(bv), nil
}
