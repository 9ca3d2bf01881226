package remotes

import (
	"context"
	"testing"

	"github.com/scopeengine/core"
	"github.com/scopeengine/core/internal/sourcesrepo"
)

type stubRemote struct{ name string }

func (s stubRemote) Name() string { return s.name }
func (s stubRemote) Fetch(context.Context, []scope.BitId, bool) ([]sourcesrepo.ComponentObjects, error) {
	return nil, nil
}
func (s stubRemote) PushMany(context.Context, []sourcesrepo.ComponentObjects) ([]string, error) {
	return nil, nil
}

func TestResolveUnknownRemote(t *testing.T) {
	r := NewResolver()
	_, err := r.Resolve("acme")
	if err == nil {
		t.Fatal("expected RemoteScopeNotFound for an unregistered remote")
	}
}

func TestComposeLocalOverridesGlobal(t *testing.T) {
	global := NewResolver()
	global.Register(stubRemote{name: "acme"})

	local := NewResolver()
	localAcme := stubRemote{name: "acme"}
	local.Register(localAcme)
	local.Register(stubRemote{name: "only-local"})

	merged := Compose(global, local)

	got, err := merged.Resolve("acme")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != Remote(localAcme) {
		t.Fatal("expected the local registration to win the name collision")
	}

	if _, err := merged.Resolve("only-local"); err != nil {
		t.Fatalf("expected only-local to resolve from the local resolver: %v", err)
	}
}
