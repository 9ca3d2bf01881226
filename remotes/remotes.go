// Package remotes implements the Remotes binding (spec.md §4.5): an
// abstract fetch/pushMany capability, and a Resolver that composes
// process-wide global remotes with scope-local overrides, local winning on
// a name collision.
//
// Grounded on the teacher's registry/proxy package (a local store backed
// by a remote one, consulted on miss) for the local-first resolution
// shape, and registry/storage/driver/factory for the compose-by-name
// registry pattern.
package remotes

import (
	"context"

	"github.com/scopeengine/core"
	"github.com/scopeengine/core/internal/sourcesrepo"
)

// Remote is the capability every remote binding (HTTP, or a future
// alternative transport) implements.
type Remote interface {
	// Name is the remote's configured name, used as the Resolver key and
	// as the realScope a Symlink is created with after export.
	Name() string

	// Fetch returns the requested components. onlyHead restricts each
	// bundle to its head Version (getExternalOnes / importManyOnes in
	// spec.md §4.4.2); otherwise the full objects closure is returned.
	Fetch(ctx context.Context, ids []scope.BitId, onlyHead bool) ([]sourcesrepo.ComponentObjects, error)

	// PushMany publishes bundles, atomically on the remote side, and
	// returns the id strings it accepted.
	PushMany(ctx context.Context, bundles []sourcesrepo.ComponentObjects) ([]string, error)
}

// Resolver looks a Remote up by name.
type Resolver struct {
	byName map[string]Remote
}

// NewResolver constructs an empty Resolver.
func NewResolver() *Resolver {
	return &Resolver{byName: map[string]Remote{}}
}

// Register adds remote, keyed by its Name.
func (r *Resolver) Register(remote Remote) {
	r.byName[remote.Name()] = remote
}

// Resolve looks up name, failing with RemoteScopeNotFound if unregistered.
func (r *Resolver) Resolve(name string) (Remote, error) {
	remote, ok := r.byName[name]
	if !ok {
		return nil, scope.ErrRemoteScopeNotFound(name)
	}
	return remote, nil
}

// Compose returns a Resolver backed by global, with every remote in local
// overriding global's by name (spec.md §4.5: "local wins on name
// collision").
func Compose(global, local *Resolver) *Resolver {
	merged := NewResolver()
	if global != nil {
		for name, remote := range global.byName {
			merged.byName[name] = remote
		}
	}
	if local != nil {
		for name, remote := range local.byName {
			merged.byName[name] = remote
		}
	}
	return merged
}
