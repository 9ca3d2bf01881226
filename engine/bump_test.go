package engine

import (
	"context"
	"testing"

	"github.com/scopeengine/core"
)

// TestBumpDependenciesVersionsCascade is spec.md §8 scenario S2: B bumps
// to 0.1.0, and bumping A (persist=true) must produce A@0.0.2 whose
// dependency on B, and whose flattened-dependency entry for B, both read
// 0.1.0.
func TestBumpDependenciesVersionsCascade(t *testing.T) {
	ctx := context.Background()
	s := newTestScope(t, "a")

	b := &fakeComponent{id: mustId(t, "ui/b"), content: "b-v1"}
	if _, err := s.PutMany(ctx, []ConsumerComponent{b}, "b v1", "", "patch", false, false); err != nil {
		t.Fatalf("PutMany(b): %v", err)
	}

	a := &fakeComponent{id: mustId(t, "ui/a"), content: "a-v1", depIds: []scope.BitId{mustId(t, "ui/b")}}
	if _, err := s.PutMany(ctx, []ConsumerComponent{a}, "a v1", "", "patch", false, false); err != nil {
		t.Fatalf("PutMany(a): %v", err)
	}

	bv2 := &fakeComponent{id: mustId(t, "ui/b"), content: "b-v2"}
	if _, err := s.PutMany(ctx, []ConsumerComponent{bv2}, "b v2", "", "minor", false, false); err != nil {
		t.Fatalf("PutMany(b v2): %v", err)
	}

	updates, err := s.BumpDependenciesVersions(ctx, []scope.BitId{mustId(t, "ui/a")}, []scope.BitId{mustId(t, "ui/b@0.1.0")}, true)
	if err != nil {
		t.Fatalf("BumpDependenciesVersions: %v", err)
	}
	if len(updates) != 1 {
		t.Fatalf("expected 1 update, got %d", len(updates))
	}
	if updates[0].Updated == nil {
		t.Fatalf("expected a staged update")
	}
	if _, ok := updates[0].Updated.Versions["0.0.2"]; !ok {
		t.Fatalf("expected A bumped to 0.0.2, got %+v", updates[0].Updated.Versions)
	}

	obj, err := s.Objects.Load(ctx, updates[0].Updated.Versions["0.0.2"])
	if err != nil {
		t.Fatalf("Load A@0.0.2: %v", err)
	}
	ver := obj.(*scope.Version)
	if len(ver.Dependencies) != 1 || ver.Dependencies[0].Id.Version != "0.1.0" {
		t.Fatalf("expected A's dependency on B to read 0.1.0, got %+v", ver.Dependencies)
	}
	foundFlat := false
	for _, f := range ver.FlattenedDependencies {
		if f.Key() == mustId(t, "ui/b").Key() && f.Version == "0.1.0" {
			foundFlat = true
		}
	}
	if !foundFlat {
		t.Fatalf("expected flattened dependency on B to read 0.1.0, got %+v", ver.FlattenedDependencies)
	}
}

func TestBumpDependenciesVersionsReportOnlyWithoutPersist(t *testing.T) {
	ctx := context.Background()
	s := newTestScope(t, "a")

	b := &fakeComponent{id: mustId(t, "ui/b"), content: "b-v1"}
	if _, err := s.PutMany(ctx, []ConsumerComponent{b}, "b v1", "", "patch", false, false); err != nil {
		t.Fatalf("PutMany(b): %v", err)
	}
	a := &fakeComponent{id: mustId(t, "ui/a"), content: "a-v1", depIds: []scope.BitId{mustId(t, "ui/b")}}
	if _, err := s.PutMany(ctx, []ConsumerComponent{a}, "a v1", "", "patch", false, false); err != nil {
		t.Fatalf("PutMany(a): %v", err)
	}

	updates, err := s.BumpDependenciesVersions(ctx, []scope.BitId{mustId(t, "ui/a")}, []scope.BitId{mustId(t, "ui/b@0.0.1")}, false)
	if err != nil {
		t.Fatalf("BumpDependenciesVersions: %v", err)
	}
	if len(updates) != 1 || updates[0].Updated != nil {
		t.Fatalf("expected a pending-only report with no staged component, got %+v", updates)
	}

	comp, err := s.Sources.Get(ctx, mustId(t, "ui/a"))
	if err != nil {
		t.Fatalf("Get a: %v", err)
	}
	if len(comp.Versions) != 1 {
		t.Fatalf("expected no new version staged, got %+v", comp.Versions)
	}
}
