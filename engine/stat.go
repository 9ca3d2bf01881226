package engine

import (
	"context"
	"fmt"

	"github.com/scopeengine/core"
)

// ObjectSummary is Stat's result: enough to render a status line without
// paying for ImportMany's full flattened-dependency materialization.
type ObjectSummary struct {
	Id        scope.BitId
	Ref       scope.Ref
	Size      int
	Log       scope.Log
	Deprecated bool
}

// Stat resolves id locally and returns a size/digest/log summary of its
// latest (or explicitly versioned) Version, without recursing into
// dependencies. Additive to spec.md's façade (SPEC_FULL.md §4.4): useful
// anywhere only a summary is needed, e.g. the scopectl get subcommand.
func (s *Scope) Stat(ctx context.Context, id scope.BitId) (ObjectSummary, error) {
	comp, err := s.Sources.Get(ctx, id)
	if err != nil {
		return ObjectSummary{}, err
	}

	versionKey := id.Version
	if versionKey == "" {
		versionKey, err = latestVersionKey(comp)
		if err != nil {
			return ObjectSummary{}, err
		}
	}
	ref, ok := comp.Versions[versionKey]
	if !ok {
		return ObjectSummary{}, scope.ErrDependencyNotFound(id.WithVersion(versionKey))
	}

	raw, err := s.Objects.LoadRawObject(ctx, ref)
	if err != nil {
		return ObjectSummary{}, err
	}
	obj, err := s.Objects.Load(ctx, ref)
	if err != nil {
		return ObjectSummary{}, err
	}
	ver, ok := obj.(*scope.Version)
	if !ok {
		return ObjectSummary{}, fmt.Errorf("engine: %s ref is not a Version", id)
	}

	return ObjectSummary{
		Id:         comp.Id().WithVersion(versionKey),
		Ref:        ref,
		Size:       len(raw.Uncompressed),
		Log:        ver.Log,
		Deprecated: comp.Deprecated,
	}, nil
}
