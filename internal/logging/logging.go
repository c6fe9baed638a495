// Package logging provides the structured logger shared by the overlay
// binaries. It wraps log/slog behind a small interface so packages can
// accept a logger without depending on a concrete handler.
package logging

import (
	"io"
	"log"
	"log/slog"
	"os"
)

// Logger is a slog-style leveled logger.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// SlogAdapter wraps a *slog.Logger to implement Logger.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a Logger from a *slog.Logger.
// If logger is nil, slog.Default() is used.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogAdapter{logger: logger}
}

func (s *SlogAdapter) Debug(msg string, args ...any) { s.logger.Debug(msg, args...) }
func (s *SlogAdapter) Info(msg string, args ...any)  { s.logger.Info(msg, args...) }
func (s *SlogAdapter) Warn(msg string, args ...any)  { s.logger.Warn(msg, args...) }
func (s *SlogAdapter) Error(msg string, args ...any) { s.logger.Error(msg, args...) }

// With returns an adapter that adds the given attributes to every record.
func (s *SlogAdapter) With(args ...any) *SlogAdapter {
	return &SlogAdapter{logger: s.logger.With(args...)}
}

// Slog returns the wrapped *slog.Logger.
func (s *SlogAdapter) Slog() *slog.Logger {
	return s.logger
}

// New returns a text logger writing to w. Debug enables debug level
// records with source locations.
func New(w io.Writer, debug bool) *SlogAdapter {
	if w == nil {
		w = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if debug {
		opts.Level = slog.LevelDebug
		opts.AddSource = true
	}
	return &SlogAdapter{logger: slog.New(slog.NewTextHandler(w, opts))}
}

// Default returns an Info level text logger on stderr.
func Default() *SlogAdapter {
	return New(os.Stderr, false)
}

// StdLogger returns a *log.Logger that forwards each line to l at the
// given level. It is used for libraries that only accept the log package,
// such as the X11 client's package logger.
func StdLogger(l *SlogAdapter, level slog.Level, prefix string) *log.Logger {
	return slog.NewLogLogger(l.logger.With("component", prefix).Handler(), level)
}

// Nop returns a Logger that discards all messages.
func Nop() Logger {
	return nopLogger{}
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

// OrNop returns l, or a discarding logger when l is nil.
func OrNop(l Logger) Logger {
	if l == nil {
		return nopLogger{}
	}
	return l
}
