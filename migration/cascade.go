package migration

import (
	"context"
	"fmt"

	"github.com/scopeengine/core"
	"github.com/scopeengine/core/internal/codec"
	"github.com/scopeengine/core/internal/objectstore"
)

// cascadeVersionFileRefs re-points every Version's File.File refs that were
// rewritten by the main transform loop (Sources changing shape, in
// practice), so a Version never ends up pointing at a Source ref that no
// longer exists. refs is the pre-migration snapshot from Apply; a Version
// that was itself a direct transform subject is reloaded at its rewritten
// ref via resolveLatest before its Files/Dists are inspected.
func cascadeVersionFileRefs(ctx context.Context, repo *objectstore.Repository, refs []scope.Ref, rewrites map[scope.Ref]scope.Ref) error {
	if len(rewrites) == 0 {
		return nil
	}
	for _, ref := range refs {
		cur := resolveLatest(rewrites, ref)
		raw, err := repo.LoadRawObject(ctx, cur)
		if err != nil {
			return fmt.Errorf("migration: cascade versions: load %s: %w", cur, err)
		}
		if raw.Tag != scope.TagVersion {
			continue
		}
		obj, err := codec.Unmarshal(raw.Uncompressed)
		if err != nil {
			return fmt.Errorf("migration: cascade versions: decode %s: %w", cur, err)
		}
		ver := obj.(*scope.Version)

		changed := false
		files := make([]scope.File, len(ver.Files))
		for i, f := range ver.Files {
			files[i] = f
			if nr := resolveLatest(rewrites, f.File); nr != f.File {
				files[i].File = nr
				changed = true
			}
		}
		dists := make([]scope.File, len(ver.Dists))
		for i, f := range ver.Dists {
			dists[i] = f
			if nr := resolveLatest(rewrites, f.File); nr != f.File {
				dists[i].File = nr
				changed = true
			}
		}
		if !changed {
			continue
		}
		ver.Files = files
		ver.Dists = dists

		newRef, err := repo.Add(ver)
		if err != nil {
			return err
		}
		repo.Remove(cur)
		rewrites[cur] = newRef
	}
	return nil
}

// cascadeComponentVersionRefs re-points every live Component's Versions map
// entries that were rewritten (by the transform loop or by
// cascadeVersionFileRefs), and repoints that Component's own named link at
// the result. Only live components (reachable through ListLinks) are
// patched — orphaned history that nothing points at is left alone, since
// spec.md's dangling-reference invariant binds reachable state, not garbage.
func cascadeComponentVersionRefs(ctx context.Context, repo *objectstore.Repository, rewrites map[scope.Ref]scope.Ref) error {
	if len(rewrites) == 0 {
		return nil
	}
	links, err := repo.ListLinks(ctx)
	if err != nil {
		return fmt.Errorf("migration: cascade components: list links: %w", err)
	}
	for name, ref := range links {
		cur := resolveLatest(rewrites, ref)
		raw, err := repo.LoadRawObject(ctx, cur)
		if err != nil {
			return fmt.Errorf("migration: cascade components: load %s: %w", cur, err)
		}
		if raw.Tag != scope.TagComponent {
			continue
		}
		obj, err := codec.Unmarshal(raw.Uncompressed)
		if err != nil {
			return fmt.Errorf("migration: cascade components: decode %s: %w", cur, err)
		}
		comp := obj.(*scope.Component)
		next := comp.Clone()

		changed := false
		for v, vref := range next.Versions {
			if nr := resolveLatest(rewrites, vref); nr != vref {
				next.Versions[v] = nr
				changed = true
			}
		}
		if !changed {
			continue
		}

		newRef, err := repo.Add(next)
		if err != nil {
			return err
		}
		repo.Remove(cur)
		repo.PutLink(name, newRef)
		rewrites[cur] = newRef
	}
	return nil
}
