package engine

import (
	"context"
	"testing"

	"github.com/scopeengine/core"
	"github.com/scopeengine/core/remotes"
)

// TestExportThenImportRoundTrip is spec.md §8 scenario S1: ingest into
// scope A, export to remote1, then import into a fresh scope B.
func TestExportThenImportRoundTrip(t *testing.T) {
	ctx := context.Background()

	remoteBacking := newTestScope(t, "remote1")
	remote := newFakeRemote("remote1", remoteBacking.Sources)

	resolver := remotes.NewResolver()
	resolver.Register(remote)

	scopeA := newTestScope(t, "a", WithGlobalRemotes(resolver))

	button := &fakeComponent{id: mustId(t, "ui/button"), content: "hello"}
	updated, err := scopeA.PutMany(ctx, []ConsumerComponent{button}, "initial", "", "patch", false, false)
	if err != nil {
		t.Fatalf("PutMany: %v", err)
	}
	if _, ok := updated[0].Versions["0.0.1"]; !ok {
		t.Fatalf("expected 0.0.1, got %+v", updated[0].Versions)
	}

	exported, err := scopeA.ExportMany(ctx, []scope.BitId{mustId(t, "ui/button")}, "remote1")
	if err != nil {
		t.Fatalf("ExportMany: %v", err)
	}
	if len(exported) != 1 || exported[0].Scope != "remote1" {
		t.Fatalf("expected ui/button exported under remote1, got %+v", exported)
	}

	// The local Component is now a Symlink to remote1: a bare local Get
	// follows it to the remote1-scoped Component that ExportMany merged
	// back into this scope, so it still resolves.
	if _, err := scopeA.Sources.Get(ctx, mustId(t, "ui/button")); err != nil {
		t.Fatalf("expected Get to still resolve via the Symlink's local entry, got error: %v", err)
	}

	scopeB := newTestScope(t, "b", WithGlobalRemotes(resolver))
	materialized, err := scopeB.ImportMany(ctx, []scope.BitId{mustId(t, "remote1/ui/button@0.0.1")}, false, true, true)
	if err != nil {
		t.Fatalf("ImportMany: %v", err)
	}
	if len(materialized) != 1 {
		t.Fatalf("expected 1 materialized component, got %d", len(materialized))
	}
	if len(materialized[0].Version.FlattenedDependencies) != 0 {
		t.Fatalf("expected no flattened dependencies, got %+v", materialized[0].Version.FlattenedDependencies)
	}

	comp, err := scopeB.Sources.Get(ctx, scope.BitId{Scope: "remote1", Box: "ui", Name: "button"})
	if err != nil {
		t.Fatalf("expected ui/button materialized in scope B: %v", err)
	}
	if _, ok := comp.Versions["0.0.1"]; !ok {
		t.Fatalf("expected version 0.0.1 materialized, got %+v", comp.Versions)
	}
}

func TestImportManyEmptyReturnsImmediately(t *testing.T) {
	s := newTestScope(t, "a")
	result, err := s.ImportMany(context.Background(), nil, false, true, true)
	if err != nil {
		t.Fatalf("ImportMany(nil): %v", err)
	}
	if result != nil {
		t.Fatalf("expected nil result for empty input, got %+v", result)
	}
}
