package sourcescache

import (
	"encoding/json"
	"fmt"

	"github.com/scopeengine/core"
	"github.com/scopeengine/core/internal/sourcesrepo"
)

// wireBundle gives sourcesrepo.ComponentObjects a JSON shape for the redis
// cache entry. Duplicated from remotes/httpremote's wireBundle rather than
// shared, so sourcescache never depends on the remotes package.
type wireBundle struct {
	Component *scope.Component             `json:"component"`
	Versions  map[scope.Ref]*scope.Version `json:"versions"`
	Sources   map[scope.Ref]*scope.Source  `json:"sources"`
}

func encodeBundle(b sourcesrepo.ComponentObjects) ([]byte, error) {
	return json.Marshal(wireBundle{Component: b.Component, Versions: b.Versions, Sources: b.Sources})
}

func decodeBundle(raw []byte) (sourcesrepo.ComponentObjects, error) {
	var w wireBundle
	if err := json.Unmarshal(raw, &w); err != nil {
		return sourcesrepo.ComponentObjects{}, fmt.Errorf("sourcescache: decode cache entry: %w", err)
	}
	if w.Component == nil {
		return sourcesrepo.ComponentObjects{}, fmt.Errorf("sourcescache: cache entry missing component")
	}
	versions := w.Versions
	if versions == nil {
		versions = map[scope.Ref]*scope.Version{}
	}
	sources := w.Sources
	if sources == nil {
		sources = map[scope.Ref]*scope.Source{}
	}
	return sourcesrepo.ComponentObjects{Component: w.Component, Versions: versions, Sources: sources}, nil
}
