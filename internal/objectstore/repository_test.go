package objectstore

import (
	"context"
	"testing"

	"github.com/scopeengine/core"
	"github.com/scopeengine/core/internal/objectstore/driver/inmemory"
)

func TestAddLoadPersistRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := New(inmemory.New())

	src := &scope.Source{Content: []byte("console.log('hi')")}
	ref, err := repo.Add(src)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	// visible before persist, via the staging buffer
	obj, err := repo.Load(ctx, ref)
	if err != nil {
		t.Fatalf("Load before persist: %v", err)
	}
	if got := obj.(*scope.Source); string(got.Content) != string(src.Content) {
		t.Fatalf("Load mismatch: got %q", got.Content)
	}

	if err := repo.Persist(ctx); err != nil {
		t.Fatalf("Persist: %v", err)
	}

	// after persist the staging buffer is empty, so this load reads it back
	// from the backing store
	obj2, err := repo.Load(ctx, ref)
	if err != nil {
		t.Fatalf("Load after persist: %v", err)
	}
	if got := obj2.(*scope.Source); string(got.Content) != string(src.Content) {
		t.Fatalf("Load after persist mismatch: got %q", got.Content)
	}
}

func TestAddIsIdempotentByDigest(t *testing.T) {
	repo := New(inmemory.New())
	src := &scope.Source{Content: []byte("same bytes")}

	ref1, err := repo.Add(src)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	ref2, err := repo.Add(&scope.Source{Content: []byte("same bytes")})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if ref1 != ref2 {
		t.Fatalf("expected identical refs for identical content, got %s and %s", ref1, ref2)
	}
}

func TestRemoveThenLoadNotFound(t *testing.T) {
	ctx := context.Background()
	repo := New(inmemory.New())

	ref, err := repo.Add(&scope.Source{Content: []byte("ephemeral")})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := repo.Persist(ctx); err != nil {
		t.Fatalf("Persist: %v", err)
	}

	repo.Remove(ref)
	if _, err := repo.Load(ctx, ref); err == nil {
		t.Fatal("expected Load of a staged-removed ref to fail before Persist")
	}

	if err := repo.Persist(ctx); err != nil {
		t.Fatalf("Persist: %v", err)
	}
	if _, err := repo.Load(ctx, ref); err == nil {
		t.Fatal("expected Load to fail after the remove was persisted")
	}
}

func TestListRawObjectsAfterPersist(t *testing.T) {
	ctx := context.Background()
	repo := New(inmemory.New())

	refs, err := repo.AddMany([]scope.Object{
		&scope.Source{Content: []byte("a")},
		&scope.Source{Content: []byte("b")},
		&scope.Source{Content: []byte("c")},
	})
	if err != nil {
		t.Fatalf("AddMany: %v", err)
	}
	if err := repo.Persist(ctx); err != nil {
		t.Fatalf("Persist: %v", err)
	}

	listed, err := repo.ListRawObjects(ctx)
	if err != nil {
		t.Fatalf("ListRawObjects: %v", err)
	}
	if len(listed) != len(refs) {
		t.Fatalf("expected %d objects, got %d", len(refs), len(listed))
	}

	want := map[scope.Ref]bool{}
	for _, r := range refs {
		want[r] = true
	}
	for _, r := range listed {
		if !want[r] {
			t.Fatalf("unexpected ref in listing: %s", r)
		}
	}
}

func TestLoadRawObjectReturnsTagWithoutDecoding(t *testing.T) {
	ctx := context.Background()
	repo := New(inmemory.New())

	ref, err := repo.Add(&scope.Component{Box: "utils", Name: "str-pad", Versions: map[string]scope.Ref{}})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	raw, err := repo.LoadRawObject(ctx, ref)
	if err != nil {
		t.Fatalf("LoadRawObject: %v", err)
	}
	if raw.Tag != scope.TagComponent {
		t.Fatalf("expected tag %q, got %q", scope.TagComponent, raw.Tag)
	}
	if raw.Ref != ref {
		t.Fatalf("expected ref %s, got %s", ref, raw.Ref)
	}
}

func TestLinkRoundTripAndDeleteAcrossPersist(t *testing.T) {
	ctx := context.Background()
	repo := New(inmemory.New())

	ref, err := repo.Add(&scope.Component{Box: "utils", Name: "str-pad", Versions: map[string]scope.Ref{}})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	repo.PutLink("local/utils/str-pad", ref)

	got, ok, err := repo.ResolveLink(ctx, "local/utils/str-pad")
	if err != nil {
		t.Fatalf("ResolveLink before persist: %v", err)
	}
	if !ok || got != ref {
		t.Fatalf("expected staged link to resolve to %s, got %s (ok=%v)", ref, got, ok)
	}

	if err := repo.Persist(ctx); err != nil {
		t.Fatalf("Persist: %v", err)
	}

	got, ok, err = repo.ResolveLink(ctx, "local/utils/str-pad")
	if err != nil {
		t.Fatalf("ResolveLink after persist: %v", err)
	}
	if !ok || got != ref {
		t.Fatalf("expected persisted link to resolve to %s, got %s (ok=%v)", ref, got, ok)
	}

	repo.DeleteLink("local/utils/str-pad")
	if err := repo.Persist(ctx); err != nil {
		t.Fatalf("Persist: %v", err)
	}
	if _, ok, err := repo.ResolveLink(ctx, "local/utils/str-pad"); err != nil || ok {
		t.Fatalf("expected link to be gone after delete+persist, ok=%v err=%v", ok, err)
	}
}

func TestPersistPublishesLinkBatchAsOneIndex(t *testing.T) {
	ctx := context.Background()
	repo := New(inmemory.New())

	refA, err := repo.Add(&scope.Component{Box: "ui", Name: "a", Versions: map[string]scope.Ref{}})
	if err != nil {
		t.Fatalf("Add a: %v", err)
	}
	refB, err := repo.Add(&scope.Component{Box: "ui", Name: "b", Versions: map[string]scope.Ref{}})
	if err != nil {
		t.Fatalf("Add b: %v", err)
	}
	repo.PutLink("local/ui/a", refA)
	repo.PutLink("local/ui/b", refB)

	if err := repo.Persist(ctx); err != nil {
		t.Fatalf("Persist: %v", err)
	}

	// A fresh Repository over the same backing store reads both links from
	// a single published index: either both are visible or neither is.
	other := New(repo.driver)
	links, err := other.ListLinks(ctx)
	if err != nil {
		t.Fatalf("ListLinks: %v", err)
	}
	if links["local/ui/a"] != refA || links["local/ui/b"] != refB {
		t.Fatalf("expected both links published together, got %+v", links)
	}
}

func TestResolveLinkMissingIsNotAnError(t *testing.T) {
	ctx := context.Background()
	repo := New(inmemory.New())
	_, ok, err := repo.ResolveLink(ctx, "local/utils/does-not-exist")
	if err != nil {
		t.Fatalf("expected no error for a missing link, got %v", err)
	}
	if ok {
		t.Fatal("expected ok=false for a missing link")
	}
}
