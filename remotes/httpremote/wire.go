package httpremote

import (
	"fmt"

	"github.com/scopeengine/core"
	"github.com/scopeengine/core/internal/sourcesrepo"
)

// wireBundle is sourcesrepo.ComponentObjects reshaped for JSON transport:
// scope.Ref is a digest string and serializes fine as a map key in Go, but
// encoding/json requires string map keys on the wire too, which scope.Ref
// already satisfies. toComponentObjects rejects a received bundle with no
// component and fills in empty Versions and Sources maps when absent.
type wireBundle struct {
	Component *scope.Component           `json:"component"`
	Versions  map[scope.Ref]*scope.Version `json:"versions"`
	Sources   map[scope.Ref]*scope.Source  `json:"sources"`
}

func toWireBundle(b sourcesrepo.ComponentObjects) wireBundle {
	return wireBundle{Component: b.Component, Versions: b.Versions, Sources: b.Sources}
}

func (w wireBundle) toComponentObjects() (sourcesrepo.ComponentObjects, error) {
	if w.Component == nil {
		return sourcesrepo.ComponentObjects{}, fmt.Errorf("httpremote: bundle missing component")
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
