package engine

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/scopeengine/core"
)

// LoadEnvironmentOptions mirrors spec.md §6's loadEnvironment(id,
// {pathOnly?, bareScope?}).
type LoadEnvironmentOptions struct {
	// PathOnly returns the absolute path to id's main file without
	// invoking the ComponentResolver.
	PathOnly bool
	// BareScope resolves id from the local store only: no remote fetch is
	// attempted if id is missing locally.
	BareScope bool
}

// LoadEnvironment resolves id to either the absolute path of its main
// file (PathOnly) or the loaded module the configured ComponentResolver
// returns. Without BareScope, a local miss falls back to a remote fetch
// the way ImportMany does.
func (s *Scope) LoadEnvironment(ctx context.Context, id scope.BitId, opts LoadEnvironmentOptions) (any, error) {
	comp, err := s.resolveForEnvironment(ctx, id, opts.BareScope)
	if err != nil {
		return nil, err
	}

	latest, err := latestVersionKey(comp)
	if err != nil {
		return nil, err
	}
	obj, err := s.Objects.Load(ctx, comp.Versions[latest])
	if err != nil {
		return nil, err
	}
	ver, ok := obj.(*scope.Version)
	if !ok {
		return nil, fmt.Errorf("engine: %s latest ref is not a Version", id)
	}

	mainFilePath := filepath.Join(s.WorkingDir, componentDir(comp.Id()), ver.MainFile)
	if opts.PathOnly {
		return mainFilePath, nil
	}

	if s.Resolver == nil {
		return nil, scope.ErrResolutionException(id, fmt.Errorf("no ComponentResolver configured"))
	}
	env, err := s.Resolver.Resolve(ctx, comp.Id(), ver.MainFile, s.WorkingDir)
	if err != nil {
		return nil, scope.ErrResolutionException(id, err)
	}
	return env, nil
}

func (s *Scope) resolveForEnvironment(ctx context.Context, id scope.BitId, bareScope bool) (*scope.Component, error) {
	if bareScope {
		return s.Sources.Get(ctx, id)
	}
	return s.getLocalOrFetch(ctx, id, true)
}

// componentDir is the conventional working-copy layout for one component:
// <box>/<name>, matching spec.md §6's on-disk scope layout.
func componentDir(id scope.BitId) string {
	return filepath.Join(id.Box, id.Name)
}
