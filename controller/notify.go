package controller

import (
	"context"
	"log/slog"
)

// Level of a Notification.
type Level int

const (
	LevelInfo Level = iota
	LevelError
)

func (l Level) String() string {
	if l == LevelError {
		return "error"
	}
	return "info"
}

// Notification is a message for the end user.
type Notification struct {
	Table   string
	Level   Level
	Message string
}

// Notifier shows notifications to the end user.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// NotifierFunc implements Notifier for a function.
type NotifierFunc func(ctx context.Context, n Notification)

func (f NotifierFunc) Notify(ctx context.Context, n Notification) { f(ctx, n) }

// LogNotifier returns a Notifier that logs notifications.
func LogNotifier(logger *slog.Logger) Notifier {
	return NotifierFunc(func(ctx context.Context, n Notification) {
		level := slog.LevelInfo
		if n.Level == LevelError {
			level = slog.LevelWarn
		}
		logger.Log(ctx, level, n.Message, "table", n.Table)
	})
}
