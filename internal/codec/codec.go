// Package codec implements the Typed Object Registry (spec.md §4.2): a
// tag-dispatched encode/decode for the four scope.Object variants, plus
// the compression layer the object repository applies after the digest is
// computed.
//
// The dispatch table is built the way the teacher's registry/api/errcode
// package registers error descriptors: each variant registers itself in an
// init(), keyed by its scope.Tag, and decode fails closed on an unknown
// tag.
package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/scopeengine/core"
)

// envelope is the on-disk shape: a short tag and the field payload. No
// length is recorded; the JSON framing delimits the payload. encoding/json already sorts map keys and preserves declared
// struct field order, so marshalling the payload with the stdlib encoder
// is already canonical — no hand-rolled sorting pass is needed.
type envelope struct {
	Tag     scope.Tag       `json:"tag"`
	Payload json.RawMessage `json:"payload"`
}

type constructor func() scope.Object

var (
	mu           sync.RWMutex
	constructors = map[scope.Tag]constructor{}
)

func register(tag scope.Tag, ctor constructor) {
	mu.Lock()
	defer mu.Unlock()
	if _, exists := constructors[tag]; exists {
		panic(fmt.Sprintf("codec: tag %q already registered", tag))
	}
	constructors[tag] = ctor
}

func init() {
	register(scope.TagComponent, func() scope.Object { return &scope.Component{} })
	register(scope.TagVersion, func() scope.Object { return &scope.Version{} })
	register(scope.TagSource, func() scope.Object { return &scope.Source{} })
	register(scope.TagSymlink, func() scope.Object { return &scope.Symlink{} })
}

// Marshal returns the canonical, uncompressed bytes of obj. The object
// repository computes the Ref over this output before compressing it.
func Marshal(obj scope.Object) ([]byte, error) {
	payload, err := json.Marshal(obj)
	if err != nil {
		return nil, fmt.Errorf("codec: marshal %s: %w", obj.ObjectTag(), err)
	}

	env := envelope{Tag: obj.ObjectTag(), Payload: payload}
	// Re-marshal through a fixed field order (Tag then Payload) so the
	// envelope itself never varies across runs.
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(env); err != nil {
		return nil, fmt.Errorf("codec: marshal envelope: %w", err)
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes canonical bytes into the concrete scope.Object variant
// named by the envelope's tag, rejecting unknown tags per spec.md §4.2.
func Unmarshal(raw []byte) (scope.Object, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("codec: decode envelope: %w", err)
	}

	mu.RLock()
	ctor, ok := constructors[env.Tag]
	mu.RUnlock()
	if !ok {
		return nil, scope.ErrUnknownObjectType(string(env.Tag))
	}

	obj := ctor()
	if err := json.Unmarshal(env.Payload, obj); err != nil {
		return nil, fmt.Errorf("codec: decode %s payload: %w", env.Tag, err)
	}
	return obj, nil
}

// PeekTag reads just the tag from raw canonical bytes, without decoding
// the payload. Used by migration, which works on raw objects one type at a
// time (spec.md §4.1 loadRawObject).
func PeekTag(raw []byte) (scope.Tag, error) {
	var env struct {
		Tag scope.Tag `json:"tag"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return "", fmt.Errorf("codec: peek tag: %w", err)
	}
	return env.Tag, nil
}
