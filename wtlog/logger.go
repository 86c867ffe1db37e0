// Package wtlog provides structured logging for the walker.
//
// The interface follows log/slog's calling convention (alternating
// key/value pairs) so a caller's own slog.Logger, wrapped with [New], is a
// drop-in Logger. This mirrors theanswer42-bt-go's internal/bt.Logger,
// which wraps *slog.Logger the same way for the same reason: the domain
// code should depend on a small interface, not directly on *slog.Logger,
// so tests and library consumers can supply a no-op.
package wtlog

import (
	"log/slog"
	"os"
)

// Logger receives diagnostic events from a walk. Args follow slog
// conventions: alternating key/value pairs.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// New wraps an *slog.Logger as a Logger. Pass slog.Default() to use the
// process-wide default logger.
func New(l *slog.Logger) Logger {
	return &slogLogger{l: l}
}

// NewText builds a Logger that writes leveled text lines to w (os.Stderr
// by default via [Default]).
func NewText(w *os.File, level slog.Level) Logger {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})

	return New(slog.New(handler))
}

// Default returns a Logger writing INFO and above to stderr.
func Default() Logger {
	return NewText(os.Stderr, slog.LevelInfo)
}

type slogLogger struct {
	l *slog.Logger
}

func (s *slogLogger) Debug(msg string, args ...any) { s.l.Debug(msg, args...) }
func (s *slogLogger) Info(msg string, args ...any)  { s.l.Info(msg, args...) }
func (s *slogLogger) Warn(msg string, args ...any)  { s.l.Warn(msg, args...) }
func (s *slogLogger) Error(msg string, args ...any) { s.l.Error(msg, args...) }

// nopLogger discards everything. Used as the default when no [Logger] is
// configured, so callers never pay for logging they didn't ask for.
type nopLogger struct{}

// Nop returns a Logger that discards all output.
func Nop() Logger { return nopLogger{} }

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}
