package config

import (
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/opd-ai/go-overlay/internal/panel"
	"github.com/opd-ai/go-overlay/internal/render"
)

func TestDefaultConfigMatchesPanelDefaults(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Window.Width != 672 || cfg.Window.Height != 240 {
		t.Errorf("window = %dx%d, want 672x240", cfg.Window.Width, cfg.Window.Height)
	}
	if got := cfg.FrameInterval(); got != panel.DefaultFrameInterval {
		t.Errorf("FrameInterval = %v, want %v", got, panel.DefaultFrameInterval)
	}
	if got := cfg.Theme(); got != panel.DefaultTheme() {
		t.Errorf("Theme = %+v, want the default theme", got)
	}
	style, err := cfg.Style()
	if err != nil {
		t.Fatalf("Style failed: %v", err)
	}
	if style != render.DefaultStyle() {
		t.Errorf("Style = %+v, want %+v", style, render.DefaultStyle())
	}
	if got := cfg.Layout(); got != panel.NewLayout(672, 240, panel.DefaultInset) {
		t.Errorf("Layout = %+v", got)
	}
	if err := Validate(&cfg).Err(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    color.NRGBA
		wantErr bool
	}{
		{"#4d4d4dff", color.NRGBA{R: 0x4d, G: 0x4d, B: 0x4d, A: 0xff}, false},
		{"#ff4d4d99", color.NRGBA{R: 0xff, G: 0x4d, B: 0x4d, A: 0x99}, false},
		{"FFFFFF", color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}, false},
		{" White ", color.NRGBA{R: 255, G: 255, B: 255, A: 255}, false},
		{"transparent", color.NRGBA{}, false},
		{"#fff", color.NRGBA{}, true},
		{"#gg0000", color.NRGBA{}, true},
		{"", color.NRGBA{}, true},
	}
	for _, tt := range tests {
		got, err := ParseColor(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseColor(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseColor(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	if got := FormatColor(color.NRGBA{R: 0xe6, G: 0x33, B: 0x33, A: 0xff}); got != "#e63333ff" {
		t.Errorf("FormatColor = %q", got)
	}
}

func TestExpandEnv(t *testing.T) {
	env := map[string]string{"FONT": "go mono", "EMPTY": ""}
	getenv := func(k string) string { return env[k] }

	tests := []struct {
		in, want string
	}{
		{"${FONT}", "go mono"},
		{"$FONT", "go mono"},
		{"${MISSING:-roboto}", "roboto"},
		{"${EMPTY:-roboto}", "roboto"},
		{"${FONT:-roboto}", "go mono"},
		{"%H:%M", "%H:%M"},
		{"x${MISSING}y", "xy"},
	}
	for _, tt := range tests {
		if got := expandEnv(tt.in, getenv); got != tt.want {
			t.Errorf("expandEnv(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestExpandEnvConfig(t *testing.T) {
	t.Setenv("OVERLAY_TEST_FONT", "go")
	cfg := DefaultConfig()
	cfg.Font.Family = "${OVERLAY_TEST_FONT}"
	cfg.Clock.TimeFormat = "${OVERLAY_TEST_TIME:-%H:%M:%S}"

	ExpandEnvConfig(&cfg)
	if cfg.Font.Family != "go" {
		t.Errorf("Font.Family = %q", cfg.Font.Family)
	}
	if cfg.Clock.TimeFormat != "%H:%M:%S" {
		t.Errorf("Clock.TimeFormat = %q", cfg.Clock.TimeFormat)
	}
	ExpandEnvConfig(nil)
}

const luaConfig = `
panel.config = {
    width = 800,
    height = 320,
    fps = 30,
    clock_interval = 0.5,
    time_format = "%H:%M:%S",
    font = "go mono",
    time_size = 42.5,
    padding = 2,
    volume_color = "#10203040",
    text_color = "black",
}

function on_key(name, keycode)
end
`

func TestLuaParser(t *testing.T) {
	cfg, err := NewLuaParser(nil).Parse([]byte(luaConfig))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if cfg.Window.Width != 800 || cfg.Window.Height != 320 || cfg.Window.FPS != 30 {
		t.Errorf("Window = %+v", cfg.Window)
	}
	if cfg.Window.BottomMargin != DefaultBottomMargin {
		t.Errorf("BottomMargin = %d, want default", cfg.Window.BottomMargin)
	}
	if cfg.Clock.Interval != 500*time.Millisecond {
		t.Errorf("Interval = %v", cfg.Clock.Interval)
	}
	if cfg.Clock.TimeFormat != "%H:%M:%S" || cfg.Clock.DateFormat != panel.DefaultDateFormat {
		t.Errorf("Clock = %+v", cfg.Clock)
	}
	if cfg.Font.Family != "go mono" || cfg.Font.TimeSize != 42.5 {
		t.Errorf("Font = %+v", cfg.Font)
	}
	if cfg.Shape.Padding != 2 {
		t.Errorf("Padding = %v", cfg.Shape.Padding)
	}
	if want := (color.NRGBA{R: 0x10, G: 0x20, B: 0x30, A: 0x40}); cfg.Colors.Volume.Neutral != want {
		t.Errorf("Volume.Neutral = %v, want %v", cfg.Colors.Volume.Neutral, want)
	}
	if cfg.Colors.Text != (color.NRGBA{A: 255}) {
		t.Errorf("Text = %v", cfg.Colors.Text)
	}
}

func TestLuaParserErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"syntax", "panel.config = {", "compile"},
		{"runtime", "error('boom')", "execute"},
		{"bad color", `panel.config = { panel_color = "#zz" }`, "panel_color"},
		{"wrong type", `panel.config = { width = "wide" }`, "width"},
		{"fractional int", `panel.config = { fps = 29.97 }`, "fps"},
		{"panel not table", `panel = 3`, "panel is not a table"},
		{"config not table", `panel.config = "x"`, "panel.config is not a table"},
		{"runaway", "while true do end", "execute"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLuaParser(nil).Parse([]byte(tt.content))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestLuaParserWithoutConfig(t *testing.T) {
	cfg, err := NewLuaParser(nil).Parse([]byte("panel.config = nil"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if *cfg != DefaultConfig() {
		t.Error("missing panel.config did not yield defaults")
	}
}

func TestParseYAML(t *testing.T) {
	cfg, err := ParseYAML([]byte(`
width: 900
bottom_margin: 0
clock_interval: 250ms
date_format: "Mon 02 Jan"
brightness_pressed_color: "#010203"
inset: 10.5
`))
	if err != nil {
		t.Fatalf("ParseYAML failed: %v", err)
	}
	if cfg.Window.Width != 900 || cfg.Window.BottomMargin != 0 {
		t.Errorf("Window = %+v", cfg.Window)
	}
	if cfg.Clock.Interval != 250*time.Millisecond {
		t.Errorf("Interval = %v", cfg.Clock.Interval)
	}
	if cfg.Clock.DateFormat != "Mon 02 Jan" {
		t.Errorf("DateFormat = %q", cfg.Clock.DateFormat)
	}
	if want := (color.NRGBA{R: 1, G: 2, B: 3, A: 255}); cfg.Colors.Brightness.Pressed != want {
		t.Errorf("Brightness.Pressed = %v", cfg.Colors.Brightness.Pressed)
	}
	if cfg.Shape.Inset != 10.5 {
		t.Errorf("Inset = %v", cfg.Shape.Inset)
	}
}

func TestParseYAMLErrors(t *testing.T) {
	tests := []struct {
		name, content, want string
	}{
		{"unknown keys", "widht: 10\nhieght: 3\n", "unknown configuration keys: hieght, widht"},
		{"syntax", "width: [", "parse YAML"},
		{"bad duration", "clock_interval: soon", "clock_interval"},
		{"string number", "fps: sixty", "fps"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseYAML([]byte(tt.content))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}

	cfg, err := ParseYAML(nil)
	if err != nil || *cfg != DefaultConfig() {
		t.Errorf("empty YAML = %+v, %v; want defaults", cfg, err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"zero width", func(c *Config) { c.Window.Width = 0 }, "width"},
		{"huge height", func(c *Config) { c.Window.Height = 70000 }, "height"},
		{"negative margin", func(c *Config) { c.Window.BottomMargin = -1 }, "bottom_margin"},
		{"fps low", func(c *Config) { c.Window.FPS = 0 }, "fps"},
		{"fps high", func(c *Config) { c.Window.FPS = 241 }, "fps"},
		{"interval", func(c *Config) { c.Clock.Interval = 0 }, "clock_interval"},
		{"empty time format", func(c *Config) { c.Clock.TimeFormat = "" }, "time_format"},
		{"empty date format", func(c *Config) { c.Clock.DateFormat = " " }, "date_format"},
		{"font", func(c *Config) { c.Font.Family = "Papyrus" }, "font"},
		{"weight", func(c *Config) { c.Font.Weight = "thin" }, "font_weight"},
		{"time size", func(c *Config) { c.Font.TimeSize = 0 }, "time_size"},
		{"date size", func(c *Config) { c.Font.DateSize = -3 }, "date_size"},
		{"inset too large", func(c *Config) { c.Shape.Inset = 31 }, "inset"},
		{"inset negative", func(c *Config) { c.Shape.Inset = -1 }, "inset"},
		{"padding", func(c *Config) { c.Shape.Padding = -1 }, "padding"},
		{"radius", func(c *Config) { c.Shape.Radius = -1 }, "radius"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			vr := Validate(&cfg)
			if vr.IsValid() {
				t.Fatal("expected a validation error")
			}
			if vr.Errors[0].Field != tt.field {
				t.Errorf("field = %q, want %q (%v)", vr.Errors[0].Field, tt.field, vr.Err())
			}
		})
	}

	cfg := DefaultConfig()
	cfg.Shape.Inset = 30
	if err := Validate(&cfg).Err(); err != nil {
		t.Errorf("inset at half the track height rejected: %v", err)
	}
}

func TestDetectFormat(t *testing.T) {
	tests := map[string]Format{
		"panel.yaml":      FormatYAML,
		"panel.YML":       FormatYAML,
		"panel.lua":       FormatLua,
		"overlayrc":       FormatLua,
		"dir.yaml/config": FormatLua,
	}
	for path, want := range tests {
		if got := DetectFormat(path); got != want {
			t.Errorf("DetectFormat(%q) = %v, want %v", path, got, want)
		}
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load("")
	if err != nil || *cfg != DefaultConfig() {
		t.Errorf("Load(\"\") = %+v, %v", cfg, err)
	}

	cfg, err = Load(writeFile(t, dir, "panel.yml", "fps: 120\n"))
	if err != nil {
		t.Fatalf("Load yaml failed: %v", err)
	}
	if cfg.Window.FPS != 120 {
		t.Errorf("FPS = %d, want 120", cfg.Window.FPS)
	}

	cfg, err = Load(writeFile(t, dir, "panel.lua", `panel.config = { font = "${OVERLAY_LOAD_FONT:-monospace}" }`))
	if err != nil {
		t.Fatalf("Load lua failed: %v", err)
	}
	if cfg.Font.Family != "monospace" {
		t.Errorf("Font.Family = %q, want monospace", cfg.Font.Family)
	}

	if _, err := Load(writeFile(t, dir, "bad.yaml", "fps: 500\n")); err == nil || !strings.Contains(err.Error(), "fps") {
		t.Errorf("invalid fps error = %v", err)
	}
	if _, err := Load(filepath.Join(dir, "missing.lua")); err == nil {
		t.Error("missing file loaded")
	}
}

func TestSettings(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Clock.TimeFormat = "15:04"
	s, err := cfg.Settings()
	if err != nil {
		t.Fatalf("Settings failed: %v", err)
	}
	if s.Format.Time != "15:04" || s.Theme != cfg.Theme() {
		t.Errorf("Settings = %+v", s)
	}

	cfg.Clock.TimeFormat = ""
	if _, err := cfg.Settings(); err == nil {
		t.Error("empty time format accepted")
	}
}

func TestWatcherReloads(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "panel.yaml", "fps: 30\n")

	var reloads atomic.Int32
	var lastFPS atomic.Int32
	var errs atomic.Int32
	w, err := NewWatcher(path, 50*time.Millisecond,
		func(c *Config) {
			lastFPS.Store(int32(c.Window.FPS))
			reloads.Add(1)
		},
		func(error) { errs.Add(1) },
	)
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	w.Start()
	defer w.Stop()

	time.Sleep(100 * time.Millisecond)
	for i := 0; i < 3; i++ {
		writeFile(t, dir, "panel.yaml", "fps: 90\n")
		time.Sleep(10 * time.Millisecond)
	}
	time.Sleep(300 * time.Millisecond)

	if got := reloads.Load(); got != 1 {
		t.Errorf("reloads = %d, want 1 after debounced writes", got)
	}
	if got := lastFPS.Load(); got != 90 {
		t.Errorf("fps = %d, want 90", got)
	}

	writeFile(t, dir, "other.yaml", "fps: 1\n")
	writeFile(t, dir, "panel.yaml", "fps: 0\n")
	time.Sleep(300 * time.Millisecond)
	if errs.Load() == 0 {
		t.Error("invalid reload did not report an error")
	}
	if got := reloads.Load(); got != 1 {
		t.Errorf("reloads = %d after invalid write, want 1", got)
	}
}

func TestWatcherStopWithoutStart(t *testing.T) {
	w, err := NewWatcher(filepath.Join(t.TempDir(), "panel.lua"), 0, nil, nil)
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	w.Stop()
}
