// Package scope defines the core data model of the Scope engine: the
// content-addressed object identity (Ref), the component identifier
// (BitId), and the four tagged object variants persisted by the object
// repository (Component, Version, Source, Symlink).
//
// Nothing in this package touches disk, the network, or any third-party
// store. It exists so that internal/objectstore, internal/sourcesrepo,
// remotes, and engine can all speak the same vocabulary without importing
// each other.
package scope
