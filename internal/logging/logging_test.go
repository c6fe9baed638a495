package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestSlogAdapter(t *testing.T) {
	var buf bytes.Buffer
	handler := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	adapter := NewSlogAdapter(slog.New(handler))

	tests := []struct {
		log  func(string, ...any)
		msg  string
		args []any
		want string
	}{
		{adapter.Debug, "debug message", []any{"key", "value"}, "key=value"},
		{adapter.Info, "info message", []any{"count", 42}, "count=42"},
		{adapter.Warn, "warn message", nil, "level=WARN"},
		{adapter.Error, "error message", []any{"code", 3}, "code=3"},
	}

	for _, tt := range tests {
		buf.Reset()
		tt.log(tt.msg, tt.args...)
		out := buf.String()
		if !strings.Contains(out, tt.msg) {
			t.Errorf("missing message %q in %q", tt.msg, out)
		}
		if !strings.Contains(out, tt.want) {
			t.Errorf("missing %q in %q", tt.want, out)
		}
	}
}

func TestNewSlogAdapterNil(t *testing.T) {
	if NewSlogAdapter(nil) == nil {
		t.Fatal("NewSlogAdapter(nil) returned nil")
	}
}

func TestNewDebugLevel(t *testing.T) {
	var buf bytes.Buffer

	New(&buf, false).Debug("hidden")
	if buf.Len() != 0 {
		t.Errorf("info logger wrote debug record: %q", buf.String())
	}

	New(&buf, true).Debug("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Errorf("debug logger dropped debug record: %q", buf.String())
	}
}

func TestWith(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, false).With("window", "panel")
	l.Info("mapped")
	if !strings.Contains(buf.String(), "window=panel") {
		t.Errorf("With attributes missing: %q", buf.String())
	}
}

func TestStdLogger(t *testing.T) {
	var buf bytes.Buffer
	std := StdLogger(New(&buf, false), slog.LevelWarn, "x11")
	std.Print("connection reset")
	out := buf.String()
	if !strings.Contains(out, "connection reset") || !strings.Contains(out, "component=x11") {
		t.Errorf("StdLogger output = %q", out)
	}
}

func TestNop(t *testing.T) {
	l := Nop()
	l.Debug("a")
	l.Info("b")
	l.Warn("c")
	l.Error("d")

	if OrNop(nil) == nil {
		t.Error("OrNop(nil) returned nil")
	}
}
