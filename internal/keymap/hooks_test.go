package keymap

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	rt "github.com/arnodel/golua/runtime"

	"github.com/opd-ai/go-overlay/internal/input"
)

type recordingLogger struct {
	mu    sync.Mutex
	warns []string
}

func (l *recordingLogger) Debug(string, ...any) {}
func (l *recordingLogger) Info(string, ...any)  {}
func (l *recordingLogger) Error(string, ...any) {}
func (l *recordingLogger) Warn(msg string, _ ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warns = append(l.warns, msg)
}

const script = `
panel.config = { fps = 30 }

count = 0
function on_key(name, keycode)
    count = count + 1
    return name .. ":" .. keycode .. ":" .. count
end
`

func TestHooksCall(t *testing.T) {
	h, err := Load("test", []byte(script), DefaultLimits(), nil, nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	defer h.Close()

	if !h.Defined() {
		t.Fatal("on_key not found")
	}
	for i, want := range []string{"Escape:9:1", "Escape:9:2"} {
		v, err := h.Call(input.KeyPress{Keycode: 9, Keysym: 0xff1b, Name: "Escape"})
		if err != nil {
			t.Fatalf("Call %d failed: %v", i, err)
		}
		got, ok := v.TryString()
		if !ok || got != want {
			t.Errorf("Call %d = %v, want %q", i, v, want)
		}
	}
}

func TestHooksUndefined(t *testing.T) {
	h, err := Load("test", []byte("panel.config = {}"), DefaultLimits(), nil, nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	defer h.Close()

	if h.Defined() {
		t.Error("Defined = true without on_key")
	}
	if _, err := h.Call(input.KeyPress{Name: "a"}); err != nil {
		t.Errorf("Call without hook = %v", err)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name, content, want string
	}{
		{"syntax", "function on_key(", "compile"},
		{"runtime", "error('nope')", "execute"},
		{"not a function", "on_key = 5", "not a function"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load("test", []byte(tt.content), DefaultLimits(), nil, nil)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Load error = %v, want mention of %q", err, tt.want)
			}
		})
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.lua"), DefaultLimits(), nil, nil); err == nil {
		t.Error("LoadFile of a missing file succeeded")
	}
}

func TestHandleKeyLogsFailures(t *testing.T) {
	logger := &recordingLogger{}
	h, err := Load("test", []byte(`
function on_key(name, keycode)
    if name == "q" then error("bad key") end
end
`), Limits{CPU: 100_000}, nil, logger)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	defer h.Close()

	h.HandleKey(input.KeyPress{Name: "a"})
	if len(logger.warns) != 0 {
		t.Fatalf("unexpected warnings: %v", logger.warns)
	}
	h.HandleKey(input.KeyPress{Name: "q"})
	if len(logger.warns) != 1 {
		t.Fatalf("warnings = %v, want one for the failing hook", logger.warns)
	}
}

func TestHandleKeySuspendsFailingHook(t *testing.T) {
	logger := &recordingLogger{}
	h, err := Load("test", []byte(`
calls = 0
function on_key() calls = calls + 1; error("always") end
`), DefaultLimits(), nil, logger)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	defer h.Close()

	for i := 0; i < suspendAfter*2; i++ {
		h.HandleKey(input.KeyPress{Name: "a"})
	}
	if got := h.breaker.State(); got != BreakerOpen {
		t.Fatalf("breaker state = %v, want open", got)
	}
	// One warning per failure plus the suspension notice.
	if len(logger.warns) != suspendAfter+1 {
		t.Errorf("warnings = %d, want %d: %v", len(logger.warns), suspendAfter+1, logger.warns)
	}
	calls, _ := h.runtime.GlobalEnv().Get(rt.StringValue("calls")).TryInt()
	if calls != suspendAfter {
		t.Errorf("hook ran %d times, want %d", calls, suspendAfter)
	}
}

func TestHooksRunawayHook(t *testing.T) {
	h, err := Load("test", []byte(`function on_key() while true do end end`), Limits{CPU: 100_000}, nil, nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	defer h.Close()

	if _, err := h.Call(input.KeyPress{Name: "w"}); err == nil {
		t.Error("runaway hook returned no error")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "panel.lua")
	if err := os.WriteFile(path, []byte(script), 0o644); err != nil {
		t.Fatal(err)
	}
	h, err := LoadFile(path, DefaultLimits(), nil, nil)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if !h.Defined() {
		t.Error("on_key not found")
	}
	h.Close()

	if _, err := h.Call(input.KeyPress{Name: "a"}); err != nil {
		t.Errorf("Call after Close = %v", err)
	}
}
