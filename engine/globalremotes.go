package engine

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/scopeengine/core/remotes"
	"github.com/scopeengine/core/remotes/httpremote"
)

// globalRemotesEnvVar lists process-wide remotes as a comma-separated
// "name=url" list, the SCOPE_REMOTE_* idea from SPEC_FULL.md's ambient
// configuration section collapsed to a single variable since the global
// set is small and loaded once per process, not per scope.
const globalRemotesEnvVar = "SCOPE_GLOBAL_REMOTES"

// GlobalRemotesFromEnv reads SCOPE_GLOBAL_REMOTES and builds a Resolver
// from it, for callers (cmd/scopectl) that want the process-wide remotes
// spec.md §4.5 composes scope-local overrides on top of. Per the design
// notes (§9, "inject rather than read from module state"), this is called
// once at process startup and passed to Open via WithGlobalRemotes — Scope
// itself never reads the environment directly.
func GlobalRemotesFromEnv(logger *logrus.Entry) *remotes.Resolver {
	resolver := remotes.NewResolver()
	raw := os.Getenv(globalRemotesEnvVar)
	if raw == "" {
		return resolver
	}
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		name, url, ok := strings.Cut(entry, "=")
		if !ok || name == "" || url == "" {
			continue
		}
		resolver.Register(httpremote.New(name, strings.TrimSuffix(url, "/"), logger))
	}
	return resolver
}
