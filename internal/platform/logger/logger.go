// Package logger provides structured logging for the simulator.
// Every applied action should be traceable through this.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger provides structured logging with context.
type Logger struct {
	base *slog.Logger
}

// NewLogger creates a logger writing text records to stderr at info level.
func NewLogger() *Logger {
	return New(os.Stderr, "info")
}

// New creates a logger writing to w at the given level name
// ("debug", "info", "warn", "error"). Unknown names fall back to info.
func New(w io.Writer, level string) *Logger {
	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: parseLevel(level)})
	return &Logger{base: slog.New(h).With("app", "lifesim")}
}

// Discard returns a logger that drops everything. Handy in tests.
func Discard() *Logger {
	return New(io.Discard, "error")
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// With returns a logger that adds the given attributes to every record.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{base: l.base.With(args...)}
}

// Debug logs diagnostic messages.
func (l *Logger) Debug(msg string, args ...any) {
	l.base.Debug(msg, args...)
}

// Info logs informational messages.
func (l *Logger) Info(msg string, args ...any) {
	l.base.Info(msg, args...)
}

// Warn logs warning messages.
func (l *Logger) Warn(msg string, args ...any) {
	l.base.Warn(msg, args...)
}

// Error logs error messages.
func (l *Logger) Error(msg string, args ...any) {
	l.base.Error(msg, args...)
}

// Event logs a simulation event for a given actor.
func (l *Logger) Event(eventType string, actorID string, details string) {
	l.base.Info("event", "type", eventType, "actor", actorID, "details", details)
}
