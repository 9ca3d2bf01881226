package httpremote

import (
	"encoding/json"
	"testing"

	"github.com/scopeengine/core"
	"github.com/scopeengine/core/internal/sourcesrepo"
)

func TestWireBundleRoundTripsThroughJSON(t *testing.T) {
	ver := &scope.Version{MainFile: "index.js"}
	verRef := scope.NewRef([]byte("version bytes"))
	src := &scope.Source{Content: []byte("console.log(1)")}
	srcRef := scope.NewRef([]byte("source bytes"))

	bundle := sourcesrepo.ComponentObjects{
		Component: &scope.Component{Box: "utils", Name: "str-pad", Versions: map[string]scope.Ref{"1.0.0": verRef}},
		Versions:  map[scope.Ref]*scope.Version{verRef: ver},
		Sources:   map[scope.Ref]*scope.Source{srcRef: src},
	}

	encoded, err := json.Marshal(toWireBundle(bundle))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var decoded wireBundle
	if err := json.Unmarshal(encoded, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	out, err := decoded.toComponentObjects()
	if err != nil {
		t.Fatalf("toComponentObjects: %v", err)
	}
	if out.Component.Box != "utils" || out.Component.Name != "str-pad" {
		t.Fatalf("component mismatch: %+v", out.Component)
	}
	if out.Versions[verRef].MainFile != "index.js" {
		t.Fatalf("version mismatch: %+v", out.Versions[verRef])
	}
	if string(out.Sources[srcRef].Content) != "console.log(1)" {
		t.Fatalf("source mismatch: %+v", out.Sources[srcRef])
	}
}

func TestWireBundleRejectsMissingComponent(t *testing.T) {
	var empty wireBundle
	if _, err := empty.toComponentObjects(); err == nil {
		t.Fatal("expected an error for a bundle with no component")
	}
}
