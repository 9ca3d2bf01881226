package hooks

import (
	"fmt"

	events "github.com/docker/go-events"
	"github.com/sirupsen/logrus"
)

// LoggingSink is the default sink wired in when no other sink is
// configured: it writes every event as a structured log line, grounded on
// the teacher's notifications package logging every dispatch failure
// through logrus.
type LoggingSink struct {
	logger *logrus.Entry
}

// NewLoggingSink constructs a LoggingSink. A nil logger falls back to
// logrus's standard logger.
func NewLoggingSink(logger *logrus.Entry) *LoggingSink {
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	return &LoggingSink{logger: logger}
}

// Write implements events.Sink.
func (s *LoggingSink) Write(event events.Event) error {
	e, ok := event.(Event)
	if !ok {
		return fmt.Errorf("hooks: logging sink received unexpected event type %T", event)
	}

	ids := make([]string, len(e.Ids))
	for i, id := range e.Ids {
		ids[i] = id.String()
	}

	entry := s.logger.WithField("ids", ids)
	for k, v := range e.Extra {
		entry = entry.WithField(k, v)
	}
	entry.Info(string(e.Kind))
	return nil
}

// Close implements events.Sink.
func (s *LoggingSink) Close() error { return nil }
