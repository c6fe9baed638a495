package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/opd-ai/go-overlay/internal/logging"
	"github.com/opd-ai/go-overlay/internal/panel"
)

func TestVersion(t *testing.T) {
	if Version == "" {
		t.Error("Version should not be empty")
	}
	var stdout bytes.Buffer
	if code := run([]string{"-v"}, &stdout, io.Discard); code != 0 {
		t.Fatalf("run -v = %d", code)
	}
	if !strings.Contains(stdout.String(), Version) {
		t.Errorf("version output = %q", stdout.String())
	}
}

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr bool
		check   func(*options) bool
	}{
		{"defaults", nil, false, func(o *options) bool {
			return o.configPath == "" && !o.watch && !o.profile.Enabled()
		}},
		{"all", []string{"-c", "p.lua", "-watch", "-debug", "-display", ":1", "-metrics", "localhost:0", "-cpuprofile", "cpu.prof"}, false, func(o *options) bool {
			return o.configPath == "p.lua" && o.watch && o.debug && o.display == ":1" &&
				o.metricsAddr == "localhost:0" && o.profile.CPUProfilePath == "cpu.prof"
		}},
		{"watch without config", []string{"-watch"}, true, nil},
		{"extra args", []string{"extra"}, true, nil},
		{"unknown flag", []string{"-nope"}, true, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, err := parseFlags(tt.args, io.Discard)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseFlags error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.check != nil && !tt.check(o) {
				t.Errorf("parseFlags = %+v", o)
			}
		})
	}
}

func TestRunRejectsBadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "panel.yaml")
	if err := os.WriteFile(path, []byte("fps: 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	var stderr bytes.Buffer
	if code := run([]string{"-c", path}, io.Discard, &stderr); code != 1 {
		t.Errorf("run = %d, want 1", code)
	}
	if !strings.Contains(stderr.String(), "fps") {
		t.Errorf("stderr = %q, want mention of fps", stderr.String())
	}
}

func TestLoadHooks(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		return path
	}
	logger := logging.Nop()

	tests := []struct {
		name    string
		path    string
		want    bool
		wantErr bool
	}{
		{"no config", "", false, false},
		{"yaml", write("panel.yaml", "fps: 30\n"), false, false},
		{"lua without hook", write("plain.lua", "panel.config = {}"), false, false},
		{"lua with hook", write("hook.lua", "function on_key(name, code) end"), true, false},
		{"broken lua", write("broken.lua", "function on_key("), false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := loadHooks(tt.path, logger)
			if (err != nil) != tt.wantErr {
				t.Fatalf("loadHooks error = %v, wantErr %v", err, tt.wantErr)
			}
			if (h != nil) != tt.want {
				t.Errorf("loadHooks hooks = %v, want %v", h != nil, tt.want)
			}
			if h != nil {
				h.Close()
			}
		})
	}
}

func TestOfferReplacesPending(t *testing.T) {
	ch := make(chan panel.Settings, 1)
	first := panel.Settings{Format: panel.ClockFormat{Time: "%H"}}
	second := panel.Settings{Format: panel.ClockFormat{Time: "%M"}}

	offer(ch, first)
	offer(ch, second)
	select {
	case got := <-ch:
		if got.Format.Time != "%M" {
			t.Errorf("pending settings = %+v, want the newest", got)
		}
	default:
		t.Fatal("no settings pending")
	}
}

func TestStartWatcher(t *testing.T) {
	path := filepath.Join(t.TempDir(), "panel.yaml")
	if err := os.WriteFile(path, []byte("time_format: \"%H\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	ch := make(chan panel.Settings, 1)
	w, err := startWatcher(path, ch, logging.Nop())
	if err != nil {
		t.Fatalf("startWatcher failed: %v", err)
	}
	defer w.Stop()

	if err := os.WriteFile(path, []byte("time_format: \"%M\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	select {
	case s := <-ch:
		if s.Format.Time != "%M" {
			t.Errorf("reloaded time format = %q", s.Format.Time)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no reload delivered")
	}
}

func TestServeMetrics(t *testing.T) {
	srv, err := serveMetrics("127.0.0.1:0", logging.Nop())
	if err != nil {
		t.Fatalf("serveMetrics failed: %v", err)
	}
	srv.Close()
}
