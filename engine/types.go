package engine

import "github.com/scopeengine/core"

// VersionDependencies is one id's materialized form: its Version plus
// every flattened dependency's Version, keyed by dependency id string
// (spec.md §4.4.2).
type VersionDependencies struct {
	Id                scope.BitId
	Component         *scope.Component
	Version           *scope.Version
	FlattenedVersions map[string]*scope.Version
	Environment       any // populated only when ImportMany was called withEnvironments
}

// HeadVersion is the version-only materialization ImportManyHeads returns
// (spec.md §4.4.2's getExternalOnes/importManyOnes): no flattened-
// dependency recursion.
type HeadVersion struct {
	Id      scope.BitId
	Version *scope.Version
}

// RemoveResult is RemoveMany's outcome (spec.md §4.4.4): either the set
// actually removed, or — when force is false and at least one candidate
// has dependents — the blocking dependents, with no store mutation.
type RemoveResult struct {
	Removed    []scope.BitId
	Missing    []scope.BitId
	Dependents map[string][]scope.BitId // candidate id.Key() -> dependent ids; set only when blocked
}

// ResetResult is Reset's outcome (spec.md §4.4.4).
type ResetResult struct {
	ComponentDeleted bool
	DroppedVersion   string // set when ComponentDeleted is false
}
