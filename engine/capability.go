package engine

import (
	"context"

	"github.com/scopeengine/core"
)

// ConsumerComponent is a working-copy component the caller has already
// loaded from disk and wants ingested. The Scope invokes Build/RunSpecs/
// Pack/Write at the right point in PutMany's pipeline but never
// implements them itself (spec.md §6 "Build/test capability").
type ConsumerComponent interface {
	// Id returns the version-less BitId this working copy will be
	// committed under.
	Id() scope.BitId

	// DependencyKeys returns the id-without-version key of every
	// dependency already known from the working copy (e.g. a manifest
	// file), used to build PutMany's intra-batch topological order
	// before any dependency has been resolved.
	DependencyKeys() []string

	// Build invokes the component's build step, with scope as isolation
	// context (a working directory, environment, or similar the caller
	// controls). Build output becomes Dists via SourceFiles' Dists
	// field.
	Build(ctx context.Context, scopeRoot string) error

	// RunSpecs executes the component's test suite. rejectOnFailure
	// mirrors spec.md §6's runSpecs({rejectOnFailure}); PutMany passes
	// !force.
	RunSpecs(ctx context.Context, scopeRoot string, rejectOnFailure bool) ([]scope.SpecsResult, error)

	// Pack materializes the artifact set PutMany will stage: the main
	// file, every source file, and every dist produced by Build.
	Pack(ctx context.Context, scopeRoot string) (SourceFiles, error)

	// Write materializes a resolved Version back into the working
	// copy's directory. The Scope never calls Write itself: neither
	// ImportMany nor Reset invokes it, so a Reset leaves the working copy
	// untouched.
	Write(ctx context.Context, bitDir string, ver *scope.Version) error
}

// SourceFiles is what ConsumerComponent.Pack returns: everything
// AddSource needs to stage a new Version, short of dependency
// resolution (which PutMany fills in from the batch and the store).
type SourceFiles struct {
	MainFile string
	Files    []WorkingFile
	Dists    []WorkingFile
	DepIds   []scope.BitId // may be partially unversioned; PutMany fills latest
}

// WorkingFile mirrors sourcesrepo.WorkingFile at the engine boundary, so
// ConsumerComponent implementations don't need to import internal/
// packages.
type WorkingFile struct {
	Name         string
	RelativePath string
	Content      []byte
}

// ComponentResolver locates an id's environment on disk or in memory, the
// external capability spec.md §6 calls componentResolver(id, mainFile,
// scopePath).
type ComponentResolver interface {
	Resolve(ctx context.Context, id scope.BitId, mainFile, scopePath string) (any, error)
}
