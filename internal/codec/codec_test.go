package codec

import (
	"testing"

	"github.com/scopeengine/core"
)

func TestMarshalUnmarshalRoundTrip(t *testing.T) {
	src := &scope.Source{Content: []byte("hello")}

	raw, err := Marshal(src)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	decoded, err := Unmarshal(raw)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	got, ok := decoded.(*scope.Source)
	if !ok {
		t.Fatalf("decoded to %T, want *scope.Source", decoded)
	}
	if string(got.Content) != "hello" {
		t.Fatalf("got content %q, want %q", got.Content, "hello")
	}
}

func TestMarshalIsDeterministic(t *testing.T) {
	v := &scope.Version{
		MainFile: "index.js",
		PackageDependencies: map[string]string{
			"z-pkg": "1.0.0",
			"a-pkg": "2.0.0",
		},
	}

	a, err := Marshal(v)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	b, err := Marshal(v)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(a) != string(b) {
		t.Fatalf("Marshal is not deterministic across calls")
	}
}

func TestUnmarshalUnknownTag(t *testing.T) {
	_, err := Unmarshal([]byte(`{"tag":"bogus","payload":{}}`))
	if err == nil {
		t.Fatalf("expected an error for an unknown tag")
	}
}

func TestCompressDecompressRoundTrip(t *testing.T) {
	raw := []byte("the quick brown fox jumps over the lazy dog")

	compressed, err := Compress(raw)
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	decompressed, err := Decompress(compressed)
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if string(decompressed) != string(raw) {
		t.Fatalf("round trip mismatch: got %q, want %q", decompressed, raw)
	}
}
