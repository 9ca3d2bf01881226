package sourcescache

import (
	"context"
	"testing"

	"github.com/scopeengine/core"
	"github.com/scopeengine/core/internal/sourcesrepo"
)

func TestMemoryCacheMissThenHit(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	if _, ok, err := c.Get(ctx, "utils/str-pad"); err != nil || ok {
		t.Fatalf("expected a miss on an empty cache, got ok=%v err=%v", ok, err)
	}

	bundle := sourcesrepo.ComponentObjects{
		Component: &scope.Component{Box: "utils", Name: "str-pad", Versions: map[string]scope.Ref{}},
		Versions:  map[scope.Ref]*scope.Version{},
		Sources:   map[scope.Ref]*scope.Source{},
	}
	if err := c.Set(ctx, "utils/str-pad", bundle); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, ok, err := c.Get(ctx, "utils/str-pad")
	if err != nil || !ok {
		t.Fatalf("expected a hit after Set, got ok=%v err=%v", ok, err)
	}
	if got.Component.Name != "str-pad" {
		t.Fatalf("unexpected cached value: %+v", got.Component)
	}
}
