// Package notify delivers operator notifications raised by the tracking
// loop, either as structured log records or as an interactive prompt
// with a bounded pause.
package notify

import (
	"context"
	"io"
	"log/slog"
)

// Severity grades a notification.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

// String returns a human-readable severity name.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// Notification is one operator-facing message.
type Notification struct {
	Title    string
	Message  string
	Severity Severity
}

// Notifier delivers a notification. Implementations must respect ctx
// and return once the notification is delivered or abandoned; the
// tracking loop treats the call as its pause between retry rounds.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// LogNotifier writes notifications to a structured logger.
type LogNotifier struct {
	logger *slog.Logger
}

var _ Notifier = (*LogNotifier)(nil)

// NewLog returns a Notifier backed by logger.
func NewLog(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &LogNotifier{logger: logger}
}

// Notify logs the notification at a level matching its severity.
func (l *LogNotifier) Notify(ctx context.Context, n Notification) error {
	level := slog.LevelInfo
	switch n.Severity {
	case SeverityWarning:
		level = slog.LevelWarn
	case SeverityError:
		level = slog.LevelError
	}
	l.logger.Log(ctx, level, n.Message, slog.String("title", n.Title))
	return nil
}
