// Package version holds the engine's own release version: the value
// scope.json's recorded version is compared against by migration.Apply, and
// the string cmd/scopectl prints for `scopectl version`.
//
// Grounded on the teacher's version/version.go: a hand-maintained default,
// overridable at link time with -ldflags, plus a build revision filled in
// the same way.
package version

// Version is the semver of the engine build. Replaced at link time with
// -ldflags "-X github.com/scopeengine/core/version.Version=...". The value
// here is used for a `go get`-style source build.
var Version = "0.2.0+unknown"

// Revision is the VCS commit the binary was built from, filled at link
// time the same way as Version. Empty for a source build.
var Revision = ""
