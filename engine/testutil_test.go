package engine

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/scopeengine/core"
	"github.com/scopeengine/core/config"
	"github.com/scopeengine/core/internal/sourcesrepo"
)

func mustId(t *testing.T, s string) scope.BitId {
	t.Helper()
	id, err := scope.ParseBitId(s)
	if err != nil {
		t.Fatalf("ParseBitId(%q): %v", s, err)
	}
	return id
}

// newTestScope builds a fully-wired Scope over a fresh temp directory,
// bypassing Init/Open's disk-detection so tests can register a fakeRemote
// via WithGlobalRemotes before the first call.
func newTestScope(t *testing.T, name string, opts ...Option) *Scope {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default(name)
	logger := logrus.NewEntry(logrus.New())
	opts = append(opts, WithLogger(logger))
	s, err := newScope(dir, dir, cfg, opts...)
	if err != nil {
		t.Fatalf("newScope: %v", err)
	}
	return s
}

// fakeComponent is a minimal engine.ConsumerComponent: its file content
// and dependency ids are fixed at construction, Build/RunSpecs are
// scriptable for testing PutMany's build/test phases.
type fakeComponent struct {
	id      scope.BitId
	mainLog string
	content string
	depIds  []scope.BitId

	buildErr   error
	specsErr   error
	specsFail  bool
}

func (c *fakeComponent) Id() scope.BitId { return c.id }

func (c *fakeComponent) DependencyKeys() []string {
	keys := make([]string, len(c.depIds))
	for i, d := range c.depIds {
		keys[i] = d.Key()
	}
	return keys
}

func (c *fakeComponent) Build(ctx context.Context, scopeRoot string) error { return c.buildErr }

func (c *fakeComponent) RunSpecs(ctx context.Context, scopeRoot string, rejectOnFailure bool) ([]scope.SpecsResult, error) {
	if c.specsErr != nil {
		return nil, c.specsErr
	}
	if c.specsFail {
		return []scope.SpecsResult{{File: "spec.js", Passed: false}}, nil
	}
	return []scope.SpecsResult{{File: "spec.js", Passed: true}}, nil
}

func (c *fakeComponent) Pack(ctx context.Context, scopeRoot string) (SourceFiles, error) {
	return SourceFiles{
		MainFile: "index.js",
		Files:    []WorkingFile{{Name: "index.js", RelativePath: "index.js", Content: []byte(c.content)}},
		DepIds:   c.depIds,
	}, nil
}

func (c *fakeComponent) Write(ctx context.Context, bitDir string, ver *scope.Version) error { return nil }

// fakeRemote is an in-memory remotes.Remote backed by a Sources
// Repository belonging to whichever Scope it was built from, letting
// export/import tests exercise a real push/fetch round trip without a
// network.
type fakeRemote struct {
	name    string
	sources *sourcesrepo.Repository
}

func newFakeRemote(name string, sources *sourcesrepo.Repository) *fakeRemote {
	return &fakeRemote{name: name, sources: sources}
}

func (r *fakeRemote) Name() string { return r.name }

func (r *fakeRemote) Fetch(ctx context.Context, ids []scope.BitId, onlyHead bool) ([]sourcesrepo.ComponentObjects, error) {
	out := make([]sourcesrepo.ComponentObjects, 0, len(ids))
	for _, id := range ids {
		bundle, err := r.sources.GetObjects(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, bundle)
	}
	return out, nil
}

func (r *fakeRemote) PushMany(ctx context.Context, bundles []sourcesrepo.ComponentObjects) ([]string, error) {
	ids := make([]string, 0, len(bundles))
	for _, b := range bundles {
		if err := r.sources.Merge(ctx, b, false); err != nil {
			return nil, err
		}
		ids = append(ids, b.Component.Id().String())
	}
	return ids, nil
}
