package scope

import (
	"errors"
	"testing"
)

func TestErrorAsAndCode(t *testing.T) {
	id, _ := ParseBitId("ui/button")
	err := ErrComponentNotFound(id)

	var serr *Error
	if !errors.As(err, &serr) {
		t.Fatalf("errors.As failed for %v", err)
	}
	if serr.ErrorCode() != CodeComponentNotFound {
		t.Fatalf("got code %v, want %v", serr.ErrorCode(), CodeComponentNotFound)
	}
	if serr.Subject != id.String() {
		t.Fatalf("got subject %q, want %q", serr.Subject, id.String())
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")
	id, _ := ParseBitId("ui/button")
	err := ErrResolutionException(id, cause)

	if !errors.Is(err, cause) {
		t.Fatalf("errors.Is should find the wrapped cause")
	}
}
