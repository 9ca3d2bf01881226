package engine

import (
	"context"
	"fmt"

	"github.com/Masterminds/semver/v3"

	"github.com/scopeengine/core"
	"github.com/scopeengine/core/internal/sourcesrepo"
)

// resolvedDependency is one fully-qualified id resolved to its Component
// and the particular Version it named (or its latest, if the request came
// in unversioned).
type resolvedDependency struct {
	Id        scope.BitId // always version-qualified
	Component *scope.Component
	Version   *scope.Version
}

// latestVersionKey returns the greatest semver key in comp.Versions, or ""
// if comp has none. Mirrors internal/sourcesrepo's unexported
// latestSemver, duplicated here rather than exported across the package
// boundary since engine needs only the key, not the parsed semver.Version.
func latestVersionKey(comp *scope.Component) (string, error) {
	var latest *semver.Version
	var latestKey string
	for k := range comp.Versions {
		v, err := semver.NewVersion(k)
		if err != nil {
			continue
		}
		if latest == nil || v.GreaterThan(latest) {
			latest = v
			latestKey = k
		}
	}
	if latest == nil {
		return "", fmt.Errorf("engine: component %s has no versions", comp.Id())
	}
	return latestKey, nil
}

// getLocalOrFetch resolves id's (scope,box,name) to its Component,
// consulting local sources first and, for a non-local id, falling back to
// one round of Remotes.fetch + merge per spec.md §4.4.2 ("query sources
// locally first... recurse once"). useCache controls whether a prior
// sourcescache entry for this id may satisfy the fetch instead of a fresh
// remote round trip.
func (s *Scope) getLocalOrFetch(ctx context.Context, id scope.BitId, useCache bool) (*scope.Component, error) {
	comp, err := s.Sources.Get(ctx, id)
	if err == nil {
		return comp, nil
	}
	serr, ok := asScopeError(err)
	if !ok || serr.Code != scope.CodeComponentNotFound {
		return nil, err
	}
	if id.IsLocal(s.Config.Name) {
		return nil, err
	}

	bundle, err := s.fetchOne(ctx, id, useCache)
	if err != nil {
		return nil, err
	}
	if err := s.Sources.Merge(ctx, bundle, false); err != nil {
		return nil, err
	}

	comp, err = s.Sources.Get(ctx, id)
	if err != nil {
		return nil, scope.ErrDependencyNotFound(id)
	}
	return comp, nil
}

// fetchOne fetches the full object closure for a single external id,
// consulting s.Cache first when useCache is set and populating it on a
// cache miss — the memoization layer SPEC_FULL.md's domain stack wires
// sourcescache.Cache to.
func (s *Scope) fetchOne(ctx context.Context, id scope.BitId, useCache bool) (sourcesrepo.ComponentObjects, error) {
	key := id.Key()
	if useCache {
		if cached, ok, err := s.Cache.Get(ctx, key); err == nil && ok {
			return cached, nil
		}
	}

	remote, err := s.Remotes.Resolve(id.Scope)
	if err != nil {
		return sourcesrepo.ComponentObjects{}, err
	}
	bundles, err := remote.Fetch(ctx, []scope.BitId{id}, false)
	if err != nil {
		return sourcesrepo.ComponentObjects{}, scope.ErrResolutionException(id, err)
	}
	if len(bundles) == 0 {
		return sourcesrepo.ComponentObjects{}, scope.ErrDependencyNotFound(id)
	}
	bundle := bundles[0]

	if useCache {
		_ = s.Cache.Set(ctx, key, bundle)
	}
	return bundle, nil
}

// resolveDependency resolves id to its Component, the Version it names (or
// its latest, if unversioned), and returns id rewritten to carry that
// version — spec.md §9's "prefer returning new id values from resolution
// rather than mutating inputs".
func (s *Scope) resolveDependency(ctx context.Context, id scope.BitId, useCache bool) (resolvedDependency, error) {
	comp, err := s.getLocalOrFetch(ctx, id.WithoutVersion(), useCache)
	if err != nil {
		return resolvedDependency{}, err
	}

	version := id.Version
	if version == "" {
		version, err = latestVersionKey(comp)
		if err != nil {
			return resolvedDependency{}, scope.ErrDependencyNotFound(id)
		}
	}

	ref, ok := comp.Versions[version]
	if !ok {
		return resolvedDependency{}, scope.ErrDependencyNotFound(id.WithVersion(version))
	}

	obj, err := s.Objects.Load(ctx, ref)
	if err != nil {
		return resolvedDependency{}, err
	}
	ver, ok := obj.(*scope.Version)
	if !ok {
		return resolvedDependency{}, scope.ErrCorruptedObject(ref, fmt.Errorf("engine: expected version at %s, got %s", id, obj.ObjectTag()))
	}

	return resolvedDependency{Id: id.WithVersion(version), Component: comp, Version: ver}, nil
}

func asScopeError(err error) (*scope.Error, bool) {
	serr, ok := err.(*scope.Error)
	return serr, ok
}
