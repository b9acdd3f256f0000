// Package notify delivers user-facing outcome messages and expires them
// after a delay.
package notify

import (
	"context"
	"log/slog"
	"time"
)

// Kind classifies a notification.
type Kind string

const (
	KindSuccess Kind = "success"
	KindInfo    Kind = "info"
	KindWarning Kind = "warning"
	KindError   Kind = "error"
)

// Notification is one user-facing message.
type Notification struct {
	ID        string    `json:"id"`
	Kind      Kind      `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// Sink receives notifications. Delivery is fire-and-forget.
type Sink interface {
	Notify(kind Kind, title, message string)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(kind Kind, title, message string)

func (f SinkFunc) Notify(kind Kind, title, message string) { f(kind, title, message) }

// Multi fans out to every sink in call order.
func Multi(sinks ...Sink) Sink {
	return SinkFunc(func(kind Kind, title, message string) {
		for _, s := range sinks {
			s.Notify(kind, title, message)
		}
	})
}

// LogSink records notifications through slog. Errors and warnings log at
// info, everything else at debug.
func LogSink(l *slog.Logger) Sink {
	return SinkFunc(func(kind Kind, title, message string) {
		level := slog.LevelDebug
		if kind == KindError || kind == KindWarning {
			level = slog.LevelInfo
		}
		l.Log(context.Background(), level, "notification", "kind", string(kind), "title", title, "message", message)
	})
}
