// Package notify holds notification sinks that don't need a transport.
package notify

import (
	"go.uber.org/zap"

	"github.com/Manoj-V-348/well-remind/internal/domain"
)

// Sink presents a notification to the user. Implementations must not block
// the caller and must not panic.
type Sink interface {
	Present(title, body string)
}

// ReminderSink is implemented by sinks that can attach a reminder-specific
// action, such as a button starting the matching activity.
type ReminderSink interface {
	PresentReminder(r domain.Reminder, title, body string)
}

// Log writes notifications to the structured log. Used when no chat transport
// is configured.
type Log struct {
	log *zap.Logger
}

func NewLog(log *zap.Logger) *Log {
	return &Log{log: log}
}

func (l *Log) Present(title, body string) {
	l.log.Info("notification", zap.String("title", title), zap.String("body", body))
}

// Multi fans a notification out to every sink, skipping nil ones.
type Multi []Sink

func (m Multi) Present(title, body string) {
	for _, s := range m {
		if s != nil {
			s.Present(title, body)
		}
	}
}

// PresentReminder forwards to sinks that understand reminders and falls back
// to Present for the rest.
func (m Multi) PresentReminder(r domain.Reminder, title, body string) {
	for _, s := range m {
		switch s := s.(type) {
		case nil:
		case ReminderSink:
			s.PresentReminder(r, title, body)
		default:
			s.Present(title, body)
		}
	}
}
