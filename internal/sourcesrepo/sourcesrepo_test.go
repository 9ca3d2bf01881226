package sourcesrepo

import (
	"context"
	"testing"

	"github.com/scopeengine/core"
	"github.com/scopeengine/core/internal/objectstore"
	"github.com/scopeengine/core/internal/objectstore/driver/inmemory"
)

func newTestRepo(t *testing.T) (*Repository, *objectstore.Repository) {
	t.Helper()
	objs := objectstore.New(inmemory.New())
	return New(objs, ""), objs
}

func mustId(t *testing.T, s string) scope.BitId {
	t.Helper()
	id, err := scope.ParseBitId(s)
	if err != nil {
		t.Fatalf("ParseBitId(%q): %v", s, err)
	}
	return id
}

func TestAddSourceCreatesComponentAtFirstVersion(t *testing.T) {
	ctx := context.Background()
	repo, objs := newTestRepo(t)
	id := mustId(t, "utils/str-pad")

	comp, err := repo.AddSource(ctx, NewVersionInput{
		Id:          id,
		MainFile:    "index.js",
		Files:       []WorkingFile{{Name: "index.js", RelativePath: "index.js", Content: []byte("module.exports = {}")}},
		ReleaseType: "patch",
		Message:     "initial commit",
	})
	if err != nil {
		t.Fatalf("AddSource: %v", err)
	}
	if _, ok := comp.Versions["0.0.1"]; !ok {
		t.Fatalf("expected first version to be 0.0.1, got %+v", comp.Versions)
	}

	if err := objs.Persist(ctx); err != nil {
		t.Fatalf("Persist: %v", err)
	}

	got, err := repo.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get after persist: %v", err)
	}
	if !got.HasVersion("0.0.1") {
		t.Fatalf("expected persisted component to have version 0.0.1")
	}
}

func TestAddSourceBumpsByReleaseType(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(t)
	id := mustId(t, "utils/str-pad")

	in := NewVersionInput{Id: id, MainFile: "index.js", ReleaseType: "patch", Message: "v1"}
	if _, err := repo.AddSource(ctx, in); err != nil {
		t.Fatalf("AddSource 1: %v", err)
	}

	in.ReleaseType = "minor"
	in.Message = "v2"
	comp, err := repo.AddSource(ctx, in)
	if err != nil {
		t.Fatalf("AddSource 2: %v", err)
	}
	if !comp.HasVersion("0.1.0") {
		t.Fatalf("expected a minor bump to 0.1.0, got %+v", comp.Versions)
	}
}

func TestAddSourceExactVersionMustExceedLatest(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(t)
	id := mustId(t, "utils/str-pad")

	if _, err := repo.AddSource(ctx, NewVersionInput{Id: id, ExactVersion: "1.0.0", Message: "v1"}); err != nil {
		t.Fatalf("AddSource: %v", err)
	}

	if _, err := repo.AddSource(ctx, NewVersionInput{Id: id, ExactVersion: "1.0.0", Message: "dup"}); err == nil {
		t.Fatal("expected a repeated exact version to be rejected")
	}
	if _, err := repo.AddSource(ctx, NewVersionInput{Id: id, ExactVersion: "0.5.0", Message: "backwards"}); err == nil {
		t.Fatal("expected an exact version lower than latest to be rejected")
	}
}

func TestGetComponentNotFound(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(t)
	_, err := repo.Get(ctx, mustId(t, "utils/does-not-exist"))
	if err == nil {
		t.Fatal("expected ComponentNotFound")
	}
	serr, ok := asScopeError(err)
	if !ok || serr.Code != scope.CodeComponentNotFound {
		t.Fatalf("expected CodeComponentNotFound, got %v", err)
	}
}

func TestCleanRemovesComponentAndLink(t *testing.T) {
	ctx := context.Background()
	repo, objs := newTestRepo(t)
	id := mustId(t, "utils/str-pad")

	if _, err := repo.AddSource(ctx, NewVersionInput{Id: id, ExactVersion: "1.0.0", Message: "v1"}); err != nil {
		t.Fatalf("AddSource: %v", err)
	}
	if err := objs.Persist(ctx); err != nil {
		t.Fatalf("Persist: %v", err)
	}

	if err := repo.Clean(ctx, id, true); err != nil {
		t.Fatalf("Clean: %v", err)
	}
	if err := objs.Persist(ctx); err != nil {
		t.Fatalf("Persist: %v", err)
	}

	if _, err := repo.Get(ctx, id); err == nil {
		t.Fatal("expected the component to be gone after Clean")
	}
}

func TestCleanOnUnboundIdIsNoop(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(t)
	if err := repo.Clean(ctx, mustId(t, "utils/never-existed"), true); err != nil {
		t.Fatalf("Clean on an unbound id should be a no-op, got %v", err)
	}
}

func TestMergeUnionsVersionsAndDetectsConflict(t *testing.T) {
	ctx := context.Background()
	repo, objs := newTestRepo(t)
	id := mustId(t, "utils/str-pad")

	if _, err := repo.AddSource(ctx, NewVersionInput{Id: id, ExactVersion: "1.0.0", Message: "v1"}); err != nil {
		t.Fatalf("AddSource: %v", err)
	}
	if err := objs.Persist(ctx); err != nil {
		t.Fatalf("Persist: %v", err)
	}
	existing, err := repo.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}

	// An incoming bundle that adds a disjoint version must merge cleanly.
	ver := &scope.Version{MainFile: "index.js", Log: scope.Log{Message: "incoming"}}
	verRef, err := objs.Add(ver)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	incoming := existing.Clone()
	incoming.Versions["2.0.0"] = verRef

	if err := repo.Merge(ctx, ComponentObjects{
		Component: incoming,
		Versions:  map[scope.Ref]*scope.Version{verRef: ver},
	}, false); err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if err := objs.Persist(ctx); err != nil {
		t.Fatalf("Persist: %v", err)
	}

	merged, err := repo.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get after merge: %v", err)
	}
	if !merged.HasVersion("1.0.0") || !merged.HasVersion("2.0.0") {
		t.Fatalf("expected both versions present, got %+v", merged.Versions)
	}

	// A conflicting ref for an existing version key must fail.
	conflictVer := &scope.Version{MainFile: "other.js"}
	conflictRef, err := objs.Add(conflictVer)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	conflicting := merged.Clone()
	conflicting.Versions["1.0.0"] = conflictRef

	err = repo.Merge(ctx, ComponentObjects{
		Component: conflicting,
		Versions:  map[scope.Ref]*scope.Version{conflictRef: conflictVer},
	}, true)
	if err == nil {
		t.Fatal("expected MergeConflict for a version key with two different refs")
	}
	serr, ok := asScopeError(err)
	if !ok || serr.Code != scope.CodeMergeConflict {
		t.Fatalf("expected CodeMergeConflict, got %v", err)
	}
}
