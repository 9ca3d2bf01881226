package scope

// Tag is the short ASCII discriminator recorded as the first field of
// every encoded object. internal/codec dispatches on it to decode raw
// bytes into one of the variants below.
type Tag string

const (
	TagComponent Tag = "component"
	TagVersion   Tag = "version"
	TagSource    Tag = "source"
	TagSymlink   Tag = "symlink"
)

// Object is implemented by every stored variant. Ref is computed by the
// object repository from the variant's canonical encoding; it is not
// carried as a field on the variant itself, since a value's Ref depends on
// its content, and storing it inline would make mutation-without-new-Ref
// possible by accident.
type Object interface {
	// ObjectTag returns the variant's on-disk discriminator.
	ObjectTag() Tag
}
