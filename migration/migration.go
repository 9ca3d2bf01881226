// Package migration implements the ordered schema-migration manifest
// (spec.md §4.4.6): a ladder of per-type raw-object transformations,
// applied once when a scope's recorded version trails the engine's own
// release version.
//
// Grounded on the teacher's configuration.VersionedParseInfo (a version ->
// conversion-function mapping, applied in ascending version order) and the
// manifest/schema1 -> manifest/schema2 conversion path (a versioned wire
// format progressively upgraded, with every referencing object repointed
// at the upgraded one). Scope versions are the same semver strings
// scope.json and version.Version use, compared with Masterminds/semver —
// the same library internal/sourcesrepo already uses for Component version
// ordering — rather than the teacher's own bespoke Major.Minor
// configuration.Version, since the engine's release version already is a
// semver and introducing a second version type would be redundant.
package migration

import (
	"context"
	"fmt"
	"sort"

	"github.com/Masterminds/semver/v3"
	"github.com/sirupsen/logrus"

	"github.com/scopeengine/core"
	"github.com/scopeengine/core/internal/codec"
	"github.com/scopeengine/core/internal/objectstore"
	"github.com/scopeengine/core/version"
)

// TypeTransform rewrites one object of a known tag into its next-version
// shape. changed=false (with obj returned unmodified) lets Apply skip
// re-staging objects the transform left untouched.
type TypeTransform func(obj scope.Object) (rewritten scope.Object, changed bool, err error)

// Migration is the set of per-tag transforms a scope needs applied if its
// recorded version is older than FromVersion — the release that introduced
// the shape change Transforms performs.
type Migration struct {
	FromVersion string // semver
	Transforms  map[scope.Tag]TypeTransform
}

// registered is the manifest. See manifest.go for the migrations
// themselves; Apply sorts a copy by FromVersion before running it, so
// registration order here does not matter.
var registered = []Migration{
	backfillComponentLang,
}

func sortedManifest() ([]Migration, error) {
	out := make([]Migration, len(registered))
	copy(out, registered)

	parsed := make([]*semver.Version, len(out))
	for i, m := range out {
		v, err := semver.NewVersion(m.FromVersion)
		if err != nil {
			return nil, fmt.Errorf("migration: invalid FromVersion %q: %w", m.FromVersion, err)
		}
		parsed[i] = v
	}
	sort.SliceStable(out, func(i, j int) bool { return parsed[i].LessThan(parsed[j]) })
	return out, nil
}

// Apply runs every registered migration whose FromVersion is newer than
// recordedVersion, in ascending order, against repo — staging rewritten
// objects, removals, and link repoints (the caller flushes with a single
// Persist, per spec.md §4.4.6). If recordedVersion is already at or past
// version.Version, Apply is a no-op and returns recordedVersion unchanged.
func Apply(ctx context.Context, repo *objectstore.Repository, recordedVersion string, verbose bool, logger *logrus.Entry) (string, error) {
	recorded, err := semver.NewVersion(recordedVersion)
	if err != nil {
		return recordedVersion, fmt.Errorf("migration: invalid recorded version %q: %w", recordedVersion, err)
	}
	current, err := semver.NewVersion(version.Version)
	if err != nil {
		return recordedVersion, fmt.Errorf("migration: invalid engine version %q: %w", version.Version, err)
	}
	if !recorded.LessThan(current) {
		return recordedVersion, nil
	}
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}

	manifest, err := sortedManifest()
	if err != nil {
		return recordedVersion, err
	}

	refs, err := repo.ListRawObjects(ctx)
	if err != nil {
		return recordedVersion, fmt.Errorf("migration: list raw objects: %w", err)
	}

	rewrites := map[scope.Ref]scope.Ref{}

	for _, mig := range manifest {
		threshold, err := semver.NewVersion(mig.FromVersion)
		if err != nil {
			return recordedVersion, fmt.Errorf("migration: invalid FromVersion %q: %w", mig.FromVersion, err)
		}
		if !recorded.LessThan(threshold) {
			continue // scope is already at or past this migration's threshold
		}

		for _, ref := range refs {
			cur := resolveLatest(rewrites, ref)
			raw, err := repo.LoadRawObject(ctx, cur)
			if err != nil {
				return recordedVersion, fmt.Errorf("migration: load %s: %w", cur, err)
			}
			transform, ok := mig.Transforms[raw.Tag]
			if !ok {
				continue
			}
			obj, err := codec.Unmarshal(raw.Uncompressed)
			if err != nil {
				return recordedVersion, fmt.Errorf("migration: decode %s: %w", cur, err)
			}
			rewritten, changed, err := transform(obj)
			if err != nil {
				return recordedVersion, fmt.Errorf("migration: transform %s %s: %w", raw.Tag, cur, err)
			}
			if !changed {
				continue
			}
			newRef, err := repo.Add(rewritten)
			if err != nil {
				return recordedVersion, err
			}
			repo.Remove(cur)
			rewrites[cur] = newRef
			if verbose {
				logger.WithFields(logrus.Fields{"tag": raw.Tag, "from": cur, "to": newRef}).Info("migration: rewrote object")
			}
		}
	}

	for oldRef, newRef := range rewrites {
		if err := repo.RewriteLinksTo(ctx, oldRef, newRef); err != nil {
			return recordedVersion, fmt.Errorf("migration: relink %s -> %s: %w", oldRef, newRef, err)
		}
	}

	if err := cascadeVersionFileRefs(ctx, repo, refs, rewrites); err != nil {
		return recordedVersion, err
	}
	if err := cascadeComponentVersionRefs(ctx, repo, rewrites); err != nil {
		return recordedVersion, err
	}

	return version.Version, nil
}

// resolveLatest follows a chain of rewrites to the newest ref a given ref
// was replaced by, or returns ref unchanged if it was never rewritten.
func resolveLatest(rewrites map[scope.Ref]scope.Ref, ref scope.Ref) scope.Ref {
	seen := map[scope.Ref]bool{}
	for {
		next, ok := rewrites[ref]
		if !ok || seen[ref] {
			return ref
		}
		seen[ref] = true
		ref = next
	}
}
