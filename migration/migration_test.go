package migration

import (
	"context"
	"testing"

	"github.com/scopeengine/core"
	"github.com/scopeengine/core/internal/objectstore"
	"github.com/scopeengine/core/internal/objectstore/driver/inmemory"
	"github.com/scopeengine/core/version"
)

func TestApplyNoopWhenAlreadyCurrent(t *testing.T) {
	ctx := context.Background()
	repo := objectstore.New(inmemory.New())

	got, err := Apply(ctx, repo, version.Version, false, nil)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got != version.Version {
		t.Fatalf("expected no-op to return %q, got %q", version.Version, got)
	}
}

func TestApplyBackfillsComponentLangAndRelinks(t *testing.T) {
	ctx := context.Background()
	repo := objectstore.New(inmemory.New())

	verRef, err := repo.Add(&scope.Version{MainFile: "index.js", Files: []scope.File{}, Dependencies: []scope.Dependency{}, FlattenedDependencies: []scope.BitId{}})
	if err != nil {
		t.Fatalf("Add version: %v", err)
	}

	comp := &scope.Component{Box: "utils", Name: "str-pad", Versions: map[string]scope.Ref{"0.0.1": verRef}}
	compRef, err := repo.Add(comp)
	if err != nil {
		t.Fatalf("Add component: %v", err)
	}
	repo.PutLink("local/utils/str-pad", compRef)

	if err := repo.Persist(ctx); err != nil {
		t.Fatalf("Persist: %v", err)
	}

	got, err := Apply(ctx, repo, "0.1.0", false, nil)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got != version.Version {
		t.Fatalf("expected Apply to reach version %q, got %q", version.Version, got)
	}
	if err := repo.Persist(ctx); err != nil {
		t.Fatalf("Persist after Apply: %v", err)
	}

	newRef, ok, err := repo.ResolveLink(ctx, "local/utils/str-pad")
	if err != nil || !ok {
		t.Fatalf("expected link to still resolve after migration, ok=%v err=%v", ok, err)
	}
	if newRef == compRef {
		t.Fatal("expected the component's ref to change once Lang was backfilled")
	}

	obj, err := repo.Load(ctx, newRef)
	if err != nil {
		t.Fatalf("Load migrated component: %v", err)
	}
	migrated := obj.(*scope.Component)
	if migrated.Lang != "javascript" {
		t.Fatalf("expected Lang to be backfilled to javascript, got %q", migrated.Lang)
	}
	if migrated.Versions["0.0.1"] != verRef {
		t.Fatalf("expected the untouched version ref to survive migration, got %s", migrated.Versions["0.0.1"])
	}

	if _, err := repo.Load(ctx, compRef); err == nil {
		t.Fatal("expected the pre-migration component ref to be removed")
	}
}

func TestApplySecondCallIsNoop(t *testing.T) {
	ctx := context.Background()
	repo := objectstore.New(inmemory.New())

	compRef, err := repo.Add(&scope.Component{Box: "utils", Name: "str-pad", Versions: map[string]scope.Ref{}})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	repo.PutLink("local/utils/str-pad", compRef)
	if err := repo.Persist(ctx); err != nil {
		t.Fatalf("Persist: %v", err)
	}

	first, err := Apply(ctx, repo, "0.1.0", false, nil)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if err := repo.Persist(ctx); err != nil {
		t.Fatalf("Persist: %v", err)
	}

	second, err := Apply(ctx, repo, first, false, nil)
	if err != nil {
		t.Fatalf("second Apply: %v", err)
	}
	if second != first {
		t.Fatalf("expected the second call to be a no-op returning %q, got %q", first, second)
	}
}
