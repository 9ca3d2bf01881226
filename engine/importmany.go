package engine

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/scopeengine/core"
	"github.com/scopeengine/core/enginemetrics"
)

// ImportMany resolves a batch of ids (some local, some external) to their
// full dependency closure, fetching remotes as needed (spec.md §4.4.2).
//
// withEnvironments additionally loads each resolved id's environment via
// the Scope's ComponentResolver, if one was supplied at Open. useCache
// controls whether a remote fetch may be satisfied from s.Cache instead of
// a fresh round trip. persistAfter flushes the object repository once
// resolution completes, so a caller that wants to batch the persist with
// other writes can defer it by passing false.
func (s *Scope) ImportMany(ctx context.Context, ids []scope.BitId, withEnvironments, useCache, persistAfter bool) ([]VersionDependencies, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	type slot struct {
		idx int
		id  scope.BitId
	}
	var localSlots, externalSlots []slot
	for i, id := range ids {
		if id.IsLocal(s.Config.Name) {
			localSlots = append(localSlots, slot{i, id})
		} else {
			externalSlots = append(externalSlots, slot{i, id})
		}
	}

	results := make([]VersionDependencies, len(ids))

	// Local and external resolution run in parallel (spec.md §5); within
	// each group, resolution is sequential since later ids in the same
	// group may share — and so benefit from — the earlier ones' cache
	// warm-up.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		for _, sl := range localSlots {
			vd, err := s.materialize(gctx, sl.id, withEnvironments, useCache)
			if err != nil {
				return err
			}
			results[sl.idx] = vd
		}
		return nil
	})
	g.Go(func() error {
		for _, sl := range externalSlots {
			vd, err := s.materialize(gctx, sl.id, withEnvironments, useCache)
			if err != nil {
				return err
			}
			results[sl.idx] = vd
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if persistAfter {
		if err := s.Persist(ctx); err != nil {
			return nil, err
		}
	}

	resolvedIds := make([]scope.BitId, len(results))
	for i, vd := range results {
		resolvedIds[i] = vd.Id
	}
	s.Hooks.PostImport(ctx, resolvedIds)

	enginemetrics.ObserveImportMany("local", len(localSlots))
	enginemetrics.ObserveImportMany("remote", len(externalSlots))

	return results, nil
}

// materialize resolves id to its Version plus the Version of every entry
// in its flattenedDependencies.
func (s *Scope) materialize(ctx context.Context, id scope.BitId, withEnvironments, useCache bool) (VersionDependencies, error) {
	resolved, err := s.resolveDependency(ctx, id, useCache)
	if err != nil {
		return VersionDependencies{}, err
	}

	flattened := make(map[string]*scope.Version, len(resolved.Version.FlattenedDependencies))
	for _, depId := range resolved.Version.FlattenedDependencies {
		depResolved, err := s.resolveDependency(ctx, depId, useCache)
		if err != nil {
			return VersionDependencies{}, err
		}
		flattened[depResolved.Id.String()] = depResolved.Version
	}

	vd := VersionDependencies{
		Id:                resolved.Id,
		Component:         resolved.Component,
		Version:           resolved.Version,
		FlattenedVersions: flattened,
	}

	if withEnvironments && s.Resolver != nil {
		env, err := s.Resolver.Resolve(ctx, resolved.Id, resolved.Version.MainFile, s.WorkingDir)
		if err != nil {
			return VersionDependencies{}, scope.ErrResolutionException(resolved.Id, err)
		}
		vd.Environment = env
	}

	return vd, nil
}

// ImportManyHeads is the head-only variant (spec.md §4.4.2's
// getExternalOnes/importManyOnes): each id's own Version, without
// recursing into its flattened dependencies.
func (s *Scope) ImportManyHeads(ctx context.Context, ids []scope.BitId, useCache bool) ([]HeadVersion, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	out := make([]HeadVersion, len(ids))
	for i, id := range ids {
		resolved, err := s.resolveDependency(ctx, id, useCache)
		if err != nil {
			return nil, err
		}
		out[i] = HeadVersion{Id: resolved.Id, Version: resolved.Version}
	}
	return out, nil
}
