// Package hooks implements the engine's event fan-out: postImport,
// postExport, postDeprecate, and postRemove notifications, broadcast to
// every registered sink. A sink failure is logged and never surfaces to
// the caller of the operation that fired the event (spec.md §6) — hooks
// are an observation point, not part of any operation's success contract.
//
// Grounded on the teacher's notifications package: events.Broadcaster
// fans one Write out to every registered events.Sink, the same shape used
// here for postImport/postExport/postDeprecate/postRemove.
package hooks

import (
	"context"

	events "github.com/docker/go-events"
	"github.com/sirupsen/logrus"

	"github.com/scopeengine/core"
)

// Kind names which lifecycle point an Event was fired from.
type Kind string

const (
	KindPostImport    Kind = "postImport"
	KindPostExport    Kind = "postExport"
	KindPostDeprecate Kind = "postDeprecate"
	KindPostRemove    Kind = "postRemove"
)

// Event is the value delivered to every sink. Extra carries operation-
// specific detail that doesn't fit Ids, e.g. the destination remote name
// on a postExport event.
type Event struct {
	Kind  Kind
	Ids   []scope.BitId
	Extra map[string]string
}

// Hooks fans lifecycle notifications out to every registered sink via a
// docker/go-events Broadcaster.
type Hooks struct {
	broadcaster *events.Broadcaster
	logger      *logrus.Entry
}

// New constructs Hooks with the given initial sinks. More can be added
// later with AddSink (e.g. once configuration has loaded a remote
// webhook sink).
func New(logger *logrus.Entry, sinks ...events.Sink) *Hooks {
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Hooks{broadcaster: events.NewBroadcaster(sinks...), logger: logger}
}

// AddSink registers an additional sink.
func (h *Hooks) AddSink(sink events.Sink) error {
	return h.broadcaster.Add(sink)
}

// Close shuts down every registered sink.
func (h *Hooks) Close() error {
	return h.broadcaster.Close()
}

func (h *Hooks) fire(ctx context.Context, kind Kind, ids []scope.BitId, extra map[string]string) {
	if err := h.broadcaster.Write(Event{Kind: kind, Ids: ids, Extra: extra}); err != nil {
		h.logger.WithContext(ctx).WithError(err).WithField("hook", kind).Warn("hooks: sink write failed")
	}
}

// PostImport fires after importMany resolves ids, whether served from the
// local store or freshly fetched from a remote.
func (h *Hooks) PostImport(ctx context.Context, ids []scope.BitId) {
	h.fire(ctx, KindPostImport, ids, nil)
}

// PostExport fires after exportMany successfully pushes ids to remoteName.
func (h *Hooks) PostExport(ctx context.Context, ids []scope.BitId, remoteName string) {
	h.fire(ctx, KindPostExport, ids, map[string]string{"remote": remoteName})
}

// PostDeprecate fires after deprecateMany marks ids deprecated.
func (h *Hooks) PostDeprecate(ctx context.Context, ids []scope.BitId) {
	h.fire(ctx, KindPostDeprecate, ids, nil)
}

// PostRemove fires after removeMany actually removes ids (not when it
// reports dependents without modifying state).
func (h *Hooks) PostRemove(ctx context.Context, ids []scope.BitId) {
	h.fire(ctx, KindPostRemove, ids, nil)
}
