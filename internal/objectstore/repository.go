// Package objectstore implements the Object Repository (spec.md §4.1): a
// content-addressed, append-mostly store of scope.Object blobs, plus a
// small named-link index used by internal/sourcesrepo to give a mutable
// Component a stable address (the digest of a Component's canonical
// encoding changes every edit; the link does not).
//
// Grounded on the teacher's registry/storage/blobstore.go (get/put/link
// over a driver) and registry/storage/paths.go (digest sharding layout).
package objectstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/scopeengine/core"
	"github.com/scopeengine/core/internal/codec"
	"github.com/scopeengine/core/internal/objectstore/driver"
)

// Repository is the object store of one Scope. It is owned exclusively by
// one engine.Scope instance for the process's lifetime (spec.md §5); it is
// not safe to share across Scope instances pointed at the same directory.
type Repository struct {
	driver driver.StorageDriver

	mu             sync.Mutex
	pendingAdds    map[scope.Ref][]byte // ref -> compressed bytes, staged
	pendingRemoves map[scope.Ref]struct{}
	pendingLinks   map[string]scope.Ref // name -> ref, staged; zero Ref means "delete this link"
}

// New constructs a Repository over the given backend.
func New(d driver.StorageDriver) *Repository {
	return &Repository{
		driver:         d,
		pendingAdds:    map[scope.Ref][]byte{},
		pendingRemoves: map[scope.Ref]struct{}{},
		pendingLinks:   map[string]scope.Ref{},
	}
}

// Add stages obj for the next Persist and returns its Ref. Digest is
// computed from the canonical encoding; adding the same content twice is
// idempotent and returns the same Ref both times.
func (r *Repository) Add(obj scope.Object) (scope.Ref, error) {
	raw, err := codec.Marshal(obj)
	if err != nil {
		return "", err
	}
	ref := scope.NewRef(raw)

	compressed, err := codec.Compress(raw)
	if err != nil {
		return "", err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.pendingAdds[ref] = compressed
	delete(r.pendingRemoves, ref)
	return ref, nil
}

// AddMany stages every object in objs, returning refs in the same order.
func (r *Repository) AddMany(objs []scope.Object) ([]scope.Ref, error) {
	refs := make([]scope.Ref, len(objs))
	for i, obj := range objs {
		ref, err := r.Add(obj)
		if err != nil {
			return nil, err
		}
		refs[i] = ref
	}
	return refs, nil
}

// DiscardPendingAdd undoes a staged, not-yet-persisted Add/AddMany for ref.
// It is a no-op if ref was never staged or was already persisted. Used to
// unwind speculative writes an operation made while preparing work it then
// abandoned before anything else observed or persisted them.
func (r *Repository) DiscardPendingAdd(ref scope.Ref) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.pendingAdds, ref)
}

// Remove stages ref for deletion on the next Persist.
func (r *Repository) Remove(ref scope.Ref) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.pendingAdds, ref)
	r.pendingRemoves[ref] = struct{}{}
}

// RemoveMany stages every ref in refs for deletion.
func (r *Repository) RemoveMany(refs []scope.Ref) {
	for _, ref := range refs {
		r.Remove(ref)
	}
}

// PutLink stages name to point at ref, replacing whatever it pointed at
// before. This is the mutable pointer internal/sourcesrepo uses to give a
// BitId a current Component (or Symlink) despite every edit changing that
// object's digest (spec.md §3). The rewrite is flushed by the same Persist
// call as the blobs it points to, and always after them, so a reader never
// observes a link pointing at a ref that is not yet durable.
func (r *Repository) PutLink(name string, ref scope.Ref) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pendingLinks[name] = ref
}

// DeleteLink stages name's link for removal.
func (r *Repository) DeleteLink(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pendingLinks[name] = ""
}

// ResolveLink returns the ref name currently points at. A staged-but-
// unpersisted PutLink/DeleteLink is visible immediately.
func (r *Repository) ResolveLink(ctx context.Context, name string) (scope.Ref, bool, error) {
	r.mu.Lock()
	if ref, ok := r.pendingLinks[name]; ok {
		r.mu.Unlock()
		if ref == "" {
			return "", false, nil
		}
		return ref, true, nil
	}
	r.mu.Unlock()

	index, err := r.readIndex(ctx)
	if err != nil {
		return "", false, fmt.Errorf("objectstore: resolve link %s: %w", name, err)
	}
	ref, ok := index[name]
	return ref, ok, nil
}

// ListLinks returns every persisted named link, keyed by link name. Staged-
// but-unpersisted PutLink/DeleteLink calls are overlaid on top, matching
// ResolveLink's read-through-the-buffer semantics. Used by migration to find
// every live Component so a rewritten Version or Source ref can be chased
// up to the Component that names it.
func (r *Repository) ListLinks(ctx context.Context) (map[string]scope.Ref, error) {
	links, err := r.readIndex(ctx)
	if err != nil {
		return nil, fmt.Errorf("objectstore: list links: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for name, ref := range r.pendingLinks {
		if ref == "" {
			delete(links, name)
			continue
		}
		links[name] = ref
	}
	return links, nil
}

// readIndex loads the single persisted index file (name -> ref) that
// Persist atomically replaces on every commit touching links. A missing
// index (nothing ever persisted) is an empty map, not an error.
func (r *Repository) readIndex(ctx context.Context) (map[string]scope.Ref, error) {
	content, err := r.driver.GetContent(ctx, indexPath())
	if err != nil {
		if _, ok := err.(driver.PathNotFoundError); ok {
			return map[string]scope.Ref{}, nil
		}
		return nil, err
	}
	var raw map[string]string
	if err := json.Unmarshal(content, &raw); err != nil {
		return nil, fmt.Errorf("corrupt link index: %w", err)
	}
	links := make(map[string]scope.Ref, len(raw))
	for name, refStr := range raw {
		ref, err := scope.ParseRef(refStr)
		if err != nil {
			return nil, fmt.Errorf("corrupt link index entry %s: %w", name, err)
		}
		links[name] = ref
	}
	return links, nil
}

// RewriteLinksTo repoints every live link currently resolving to oldRef at
// newRef. Used by migration after a Component is rewritten in place: the
// named index must follow it to its new digest.
func (r *Repository) RewriteLinksTo(ctx context.Context, oldRef, newRef scope.Ref) error {
	links, err := r.ListLinks(ctx)
	if err != nil {
		return err
	}
	for name, ref := range links {
		if ref == oldRef {
			r.PutLink(name, newRef)
		}
	}
	return nil
}

// Load reads ref through, decoding it into its typed variant. A staged-but-
// unpersisted addition is visible immediately (read-through-the-buffer), so
// a single putMany batch can reference objects it just staged.
func (r *Repository) Load(ctx context.Context, ref scope.Ref) (scope.Object, error) {
	raw, err := r.loadRawDecompressed(ctx, ref)
	if err != nil {
		return nil, err
	}
	obj, err := codec.Unmarshal(raw)
	if err != nil {
		return nil, scope.ErrCorruptedObject(ref, err)
	}
	return obj, nil
}

// LoadSync is an alias for Load. The spec names both a load and a
// loadSync; in a synchronous Go implementation they are the same
// operation (spec.md §4.1's async/sync split is a JS-runtime concern that
// does not exist once every call here blocks the calling goroutine).
func (r *Repository) LoadSync(ctx context.Context, ref scope.Ref) (scope.Object, error) {
	return r.Load(ctx, ref)
}

func (r *Repository) loadRawDecompressed(ctx context.Context, ref scope.Ref) ([]byte, error) {
	r.mu.Lock()
	if compressed, ok := r.pendingAdds[ref]; ok {
		r.mu.Unlock()
		return codec.Decompress(compressed)
	}
	if _, removed := r.pendingRemoves[ref]; removed {
		r.mu.Unlock()
		return nil, scope.ErrObjectNotFound(ref)
	}
	r.mu.Unlock()

	compressed, err := r.driver.GetContent(ctx, refPath(ref))
	if err != nil {
		if _, ok := err.(driver.PathNotFoundError); ok {
			return nil, scope.ErrObjectNotFound(ref)
		}
		return nil, fmt.Errorf("objectstore: load %s: %w", ref, err)
	}
	return codec.Decompress(compressed)
}

// RawObject is the undecoded form of a stored object, used by migration
// which transforms objects without going through the typed registry.
type RawObject struct {
	Ref          scope.Ref
	Tag          scope.Tag
	Uncompressed []byte
}

// LoadRawObject returns ref's tag and uncompressed bytes without decoding
// into a typed variant (spec.md §4.1).
func (r *Repository) LoadRawObject(ctx context.Context, ref scope.Ref) (RawObject, error) {
	raw, err := r.loadRawDecompressed(ctx, ref)
	if err != nil {
		return RawObject{}, err
	}
	tag, err := codec.PeekTag(raw)
	if err != nil {
		return RawObject{}, scope.ErrCorruptedObject(ref, err)
	}
	return RawObject{Ref: ref, Tag: tag, Uncompressed: raw}, nil
}

// ListRawObjects walks the backing store and returns every persisted
// object's ref. Staged-but-unpersisted objects are not included, matching
// the teacher's directory-scan semantics for listRawObjects.
func (r *Repository) ListRawObjects(ctx context.Context) ([]scope.Ref, error) {
	var refs []scope.Ref
	algDirs, err := r.driver.List(ctx, "objects")
	if err != nil {
		if _, ok := err.(driver.PathNotFoundError); ok {
			return nil, nil
		}
		return nil, err
	}

	for _, algDir := range algDirs {
		prefixDirs, err := r.driver.List(ctx, algDir)
		if err != nil {
			return nil, err
		}
		for _, prefixDir := range prefixDirs {
			files, err := r.driver.List(ctx, prefixDir)
			if err != nil {
				return nil, err
			}
			for _, f := range files {
				if ref, ok := refFromPath(f); ok {
					refs = append(refs, ref)
				}
			}
		}
	}
	return refs, nil
}

// Persist flushes every staged addition, removal, and link rewrite to
// disk. It is the atomicity boundary named throughout spec.md §5. Blobs are
// always written before the links that make them reachable. The links
// themselves are published as a single atomically-renamed index file
// (persistLinks), so a crash mid-Persist leaves either every staged link
// rewrite visible or none of them — a multi-component putMany batch never
// shows some new versions live and others not (spec.md §4.4.1 step 5, §8
// invariant 6). Removed blobs are deleted last and are harmless to leave
// orphaned if Persist fails before reaching them: content-addressed, and no
// longer reachable from any link.
func (r *Repository) Persist(ctx context.Context) error {
	r.mu.Lock()
	adds := r.pendingAdds
	removes := r.pendingRemoves
	links := r.pendingLinks
	r.pendingAdds = map[scope.Ref][]byte{}
	r.pendingRemoves = map[scope.Ref]struct{}{}
	r.pendingLinks = map[string]scope.Ref{}
	r.mu.Unlock()

	for ref, compressed := range adds {
		if err := r.driver.PutContent(ctx, refPath(ref), compressed); err != nil {
			return fmt.Errorf("objectstore: persist %s: %w", ref, err)
		}
	}

	if len(links) > 0 {
		if err := r.persistLinks(ctx, links); err != nil {
			return err
		}
	}

	for ref := range removes {
		if err := r.driver.Delete(ctx, refPath(ref)); err != nil {
			return fmt.Errorf("objectstore: persist remove %s: %w", ref, err)
		}
	}

	return nil
}

// persistLinks merges the given name->ref rewrites (a zero ref means
// delete) into the current on-disk index and publishes the result with a
// single write-temp-then-Move, so the whole batch of link rewrites commits
// or fails as one unit instead of one PutContent per name.
func (r *Repository) persistLinks(ctx context.Context, links map[string]scope.Ref) error {
	current, err := r.readIndex(ctx)
	if err != nil {
		return fmt.Errorf("objectstore: persist links: read index: %w", err)
	}
	for name, ref := range links {
		if ref == "" {
			delete(current, name)
			continue
		}
		current[name] = ref
	}

	raw := make(map[string]string, len(current))
	for name, ref := range current {
		raw[name] = ref.String()
	}
	encoded, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("objectstore: persist links: encode index: %w", err)
	}

	if err := r.driver.PutContent(ctx, indexTempPath(), encoded); err != nil {
		return fmt.Errorf("objectstore: persist links: write temp index: %w", err)
	}
	if err := r.driver.Move(ctx, indexTempPath(), indexPath()); err != nil {
		return fmt.Errorf("objectstore: persist links: publish index: %w", err)
	}
	return nil
}
