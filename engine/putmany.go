package engine

import (
	"context"
	"fmt"
	"sort"

	"github.com/scopeengine/core"
	"github.com/scopeengine/core/enginemetrics"
	"github.com/scopeengine/core/internal/sourcesrepo"
)

// PutMany ingests a batch of already-built-or-buildable working-copy
// components, assigning each a new version (spec.md §4.4.1).
//
// exactVersion, when non-empty, pins every component's new version
// (it must be greater than the component's existing latest); otherwise
// each is bumped by releaseType ("major"|"minor"|"patch") relative to its
// own latest.
func (s *Scope) PutMany(ctx context.Context, comps []ConsumerComponent, message, exactVersion, releaseType string, force, verbose bool) ([]*scope.Component, error) {
	if len(comps) == 0 {
		return nil, nil
	}

	ordered, err := topoSortConsumers(comps)
	if err != nil {
		enginemetrics.ObservePutMany("error")
		return nil, err
	}

	log := s.logEntry()

	// Phase 1: sequential build.
	for _, c := range ordered {
		log.WithField("id", c.Id().String()).Debug("engine: putMany: build")
		if err := c.Build(ctx, s.WorkingDir); err != nil {
			enginemetrics.ObservePutMany("error")
			return nil, fmt.Errorf("engine: build %s: %w", c.Id(), err)
		}
	}

	// Phase 2: sequential test. A component's specs failing aborts the
	// whole batch before anything is staged, unless force is set.
	for _, c := range ordered {
		results, err := c.RunSpecs(ctx, s.WorkingDir, !force)
		if err != nil {
			if !force {
				enginemetrics.ObservePutMany("specs_failed")
				return nil, scope.ErrSpecsFailed(c.Id(), err)
			}
			log.WithField("id", c.Id().String()).WithError(err).Warn("engine: putMany: specs failed, continuing (force)")
		}
		for _, r := range results {
			if !r.Passed && !force {
				enginemetrics.ObservePutMany("specs_failed")
				return nil, scope.ErrSpecsFailed(c.Id(), fmt.Errorf("engine: spec %s failed", r.File))
			}
		}
	}

	// Phase 3: sequential persist, in the same topological order so a
	// later component's dependency resolution observes the version just
	// assigned to an earlier one.
	memo := map[string]resolvedDependency{}
	assigned := make([]*scope.Component, len(ordered))

	for i, c := range ordered {
		files, err := c.Pack(ctx, s.WorkingDir)
		if err != nil {
			enginemetrics.ObservePutMany("error")
			return nil, fmt.Errorf("engine: pack %s: %w", c.Id(), err)
		}

		depIds, flattened, err := s.resolveBatchDependencies(ctx, files.DepIds, memo)
		if err != nil {
			enginemetrics.ObservePutMany("error")
			return nil, err
		}

		comp, err := s.Sources.AddSource(ctx, sourcesrepo.NewVersionInput{
			Id:                    c.Id(),
			MainFile:              files.MainFile,
			Files:                 toRepoFiles(files.Files),
			Dists:                 toRepoFiles(files.Dists),
			DepIds:                depIds,
			FlattenedDependencies: flattened,
			Message:               message,
			ExactVersion:          exactVersion,
			ReleaseType:           releaseType,
		})
		if err != nil {
			enginemetrics.ObservePutMany("error")
			return nil, err
		}
		assigned[i] = comp

		// Later components in this batch resolving an unversioned
		// dependency on c.Id() must observe the version just assigned,
		// not whatever was latest before this call.
		delete(memo, c.Id().String())
	}

	if err := s.Persist(ctx); err != nil {
		enginemetrics.ObservePutMany("error")
		return nil, err
	}

	enginemetrics.ObservePutMany("ok")
	return assigned, nil
}

// resolveBatchDependencies resolves each requested dep id to a fully
// version-qualified id (filling an unversioned one from its latest) and
// computes the union of every resolved id plus its own flattened
// dependencies — the new Version's flattenedDependencies set (spec.md
// §4.4.1 step 4). memo is keyed by the literal requested id string and
// shared across the whole batch's persist phase.
func (s *Scope) resolveBatchDependencies(ctx context.Context, depIds []scope.BitId, memo map[string]resolvedDependency) ([]scope.BitId, []scope.BitId, error) {
	resolvedIds := make([]scope.BitId, len(depIds))
	flattenedSet := map[string]scope.BitId{}

	for i, depId := range depIds {
		key := depId.String()
		resolved, ok := memo[key]
		if !ok {
			var err error
			resolved, err = s.resolveDependency(ctx, depId, true)
			if err != nil {
				return nil, nil, err
			}
			memo[key] = resolved
		}

		resolvedIds[i] = resolved.Id
		flattenedSet[resolved.Id.String()] = resolved.Id
		for _, transitive := range resolved.Version.FlattenedDependencies {
			flattenedSet[transitive.String()] = transitive
		}
	}

	flattened := make([]scope.BitId, 0, len(flattenedSet))
	for _, id := range flattenedSet {
		flattened = append(flattened, id)
	}
	// Map iteration order is randomized; the canonical encoder hashes this
	// slice verbatim, so it must be sorted for the digest to be stable
	// across runs (spec.md §4.1, §6).
	sort.Slice(flattened, func(i, j int) bool {
		return flattened[i].String() < flattened[j].String()
	})
	return resolvedIds, flattened, nil
}

func toRepoFiles(files []WorkingFile) []sourcesrepo.WorkingFile {
	out := make([]sourcesrepo.WorkingFile, len(files))
	for i, f := range files {
		out[i] = sourcesrepo.WorkingFile{Name: f.Name, RelativePath: f.RelativePath, Content: f.Content}
	}
	return out
}
