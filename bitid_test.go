package scope

import "testing"

func TestParseBitIdRoundTrip(t *testing.T) {
	cases := []string{
		"ui/button",
		"ui/button@0.0.1",
		"remote1/ui/button@0.0.1",
		"my-org.core/utils/is-string@1.2.3-rc.1",
	}

	for _, s := range cases {
		id, err := ParseBitId(s)
		if err != nil {
			t.Fatalf("ParseBitId(%q): %v", s, err)
		}
		if got := id.String(); got != s {
			t.Fatalf("round trip: parsed %q, formatted back %q", s, got)
		}
	}
}

func TestParseBitIdInvalid(t *testing.T) {
	cases := []string{
		"",
		"button",
		"a/b/c/d",
		"ui/Button",
		"ui/button@not-a-version",
	}

	for _, s := range cases {
		if _, err := ParseBitId(s); err == nil {
			t.Fatalf("ParseBitId(%q): expected error, got nil", s)
		}
	}
}

func TestBitIdEqualsIgnoresVersion(t *testing.T) {
	a, _ := ParseBitId("ui/button@0.0.1")
	b, _ := ParseBitId("ui/button@0.0.2")

	if !a.Equals(b) {
		t.Fatalf("Equals should ignore version")
	}
	if a.EqualsWithVersion(b) {
		t.Fatalf("EqualsWithVersion should not ignore version")
	}
}

func TestBitIdWithVersionDoesNotMutateReceiver(t *testing.T) {
	a, _ := ParseBitId("ui/button")
	b := a.WithVersion("1.0.0")

	if a.Version != "" {
		t.Fatalf("WithVersion mutated the receiver: %+v", a)
	}
	if b.Version != "1.0.0" {
		t.Fatalf("WithVersion did not set the new value: %+v", b)
	}
}

func TestBitIdIsLocal(t *testing.T) {
	local, _ := ParseBitId("ui/button")
	if !local.IsLocal("myscope") {
		t.Fatalf("scope-less id should be local")
	}

	sameScope, _ := ParseBitId("myscope/ui/button")
	if !sameScope.IsLocal("myscope") {
		t.Fatalf("id matching the current scope should be local")
	}

	remote, _ := ParseBitId("otherscope/ui/button")
	if remote.IsLocal("myscope") {
		t.Fatalf("id from a different scope should not be local")
	}
}

func TestBitIdKey(t *testing.T) {
	id, _ := ParseBitId("ui/button@0.0.1")
	if got, want := id.Key(), "ui/button"; got != want {
		t.Fatalf("Key() = %q, want %q", got, want)
	}
}
