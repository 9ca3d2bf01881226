package objectstore

import (
	"strings"

	"github.com/scopeengine/core"
)

// refPath splits a Ref's hex digest into a 2-char prefix subdirectory and
// the remaining characters as the file name, matching the teacher's
// registry/storage/paths.go sharding scheme. This keeps any one directory
// from accumulating an unbounded number of entries.
func refPath(ref scope.Ref) string {
	alg := ref.Algorithm().String()
	hex := ref.Encoded()
	if len(hex) < 2 {
		return "objects/" + alg + "/" + hex
	}
	return "objects/" + alg + "/" + hex[:2] + "/" + hex[2:]
}

// indexPath is the single file holding every named link, kept in a
// directory tree separate from objects/ so a link scan never collides
// with a digest-shard scan. It is always replaced as a whole (write a
// temp file, then Move over it) so a batch of link rewrites commits
// atomically: no reader ever observes some of a putMany's new versions
// linked and the rest not (spec.md §4.4.1 step 5, §8 invariant 6).
func indexPath() string {
	return "names/index"
}

// indexTempPath is the staging location the new index is written to
// before the atomic rename that publishes it.
func indexTempPath() string {
	return "names/.index.tmp"
}

// refFromPath is the inverse of refPath, used by listRawObjects.
func refFromPath(path string) (scope.Ref, bool) {
	rest := strings.TrimPrefix(path, "objects/")
	if rest == path {
		return "", false
	}
	parts := strings.Split(rest, "/")
	if len(parts) != 3 {
		return "", false
	}
	ref, err := scope.ParseRef(parts[0] + ":" + parts[1] + parts[2])
	if err != nil {
		return "", false
	}
	return ref, true
}
