package hooks

import (
	"context"
	"sync"
	"testing"

	events "github.com/docker/go-events"

	"github.com/scopeengine/core"
)

type recordingSink struct {
	mu     sync.Mutex
	events []Event
}

func (s *recordingSink) Write(event events.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event.(Event))
	return nil
}

func (s *recordingSink) Close() error { return nil }

func (s *recordingSink) snapshot() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}

func TestPostImportReachesAllSinks(t *testing.T) {
	sinkA, sinkB := &recordingSink{}, &recordingSink{}
	h := New(nil, sinkA, sinkB)
	defer h.Close()

	id, err := scope.ParseBitId("utils/str-pad@1.0.0")
	if err != nil {
		t.Fatalf("ParseBitId: %v", err)
	}
	h.PostImport(context.Background(), []scope.BitId{id})

	for _, s := range []*recordingSink{sinkA, sinkB} {
		events := s.snapshot()
		if len(events) != 1 {
			t.Fatalf("expected 1 event, got %d", len(events))
		}
		if events[0].Kind != KindPostImport {
			t.Fatalf("expected KindPostImport, got %s", events[0].Kind)
		}
	}
}

func TestPostExportCarriesRemoteName(t *testing.T) {
	sink := &recordingSink{}
	h := New(nil, sink)
	defer h.Close()

	id, err := scope.ParseBitId("utils/str-pad@1.0.0")
	if err != nil {
		t.Fatalf("ParseBitId: %v", err)
	}
	h.PostExport(context.Background(), []scope.BitId{id}, "acme.remote")

	events := sink.snapshot()
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].Extra["remote"] != "acme.remote" {
		t.Fatalf("expected remote name in Extra, got %+v", events[0].Extra)
	}
}

func TestFailingSinkDoesNotPanic(t *testing.T) {
	h := New(nil, failingSink{})
	defer h.Close()
	id, _ := scope.ParseBitId("utils/str-pad@1.0.0")
	h.PostRemove(context.Background(), []scope.BitId{id})
}

type failingSink struct{}

func (failingSink) Write(events.Event) error { return errAlways }
func (failingSink) Close() error             { return nil }

var errAlways = &alwaysErr{}

type alwaysErr struct{}

func (*alwaysErr) Error() string { return "sink always fails" }
