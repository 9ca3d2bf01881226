package scope

import (
	"github.com/opencontainers/go-digest"
)

// Ref is the content digest identity of a stored object. Two objects with
// the same canonical encoding always produce the same Ref; mutating an
// object's content means producing a new object with a new Ref.
type Ref = digest.Digest

// NewRef computes the Ref of the given canonical, uncompressed bytes.
// Compression happens after this call, never before, so that a change to
// the compression algorithm never changes object identity.
func NewRef(canonical []byte) Ref {
	return digest.FromBytes(canonical)
}

// ParseRef validates and returns s as a Ref.
func ParseRef(s string) (Ref, error) {
	return digest.Parse(s)
}
