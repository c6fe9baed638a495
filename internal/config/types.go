// Package config loads the overlay panel configuration. Every setting
// has a built-in default; a Lua (panel.config = { ... }) or YAML file may
// override any of them.
package config

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
	"time"

	"github.com/opd-ai/go-overlay/internal/panel"
	"github.com/opd-ai/go-overlay/internal/render"
)

// Config is the complete panel configuration.
type Config struct {
	Window WindowConfig
	Clock  ClockConfig
	Font   FontConfig
	Shape  ShapeConfig
	Colors ColorConfig
}

// WindowConfig holds window geometry and frame rate.
type WindowConfig struct {
	Width        int
	Height       int
	BottomMargin int
	FPS          int
}

// ClockConfig holds the clock formats and refresh cadence.
type ClockConfig struct {
	// TimeFormat and DateFormat are strftime formats, or Go layouts when
	// they contain no '%'.
	TimeFormat string
	DateFormat string
	Interval   time.Duration
}

// FontConfig selects the clock and date faces.
type FontConfig struct {
	Family   string
	Weight   string
	TimeSize float64
	DateSize float64
}

// ShapeConfig holds the panel geometry parameters in pixels.
type ShapeConfig struct {
	// Inset shrinks each slider track into its interaction region.
	Inset float64
	// Padding is the gap around each background panel.
	Padding float64
	Radius  float64
}

// SliderColorConfig holds the fill colors of one slider.
type SliderColorConfig struct {
	Neutral color.NRGBA
	Hovered color.NRGBA
	Pressed color.NRGBA
}

// ColorConfig holds every color the panel paints with.
type ColorConfig struct {
	Panel      color.NRGBA
	Text       color.NRGBA
	Volume     SliderColorConfig
	Brightness SliderColorConfig
}

// FrameInterval returns the loop period for the configured frame rate.
func (c *Config) FrameInterval() time.Duration {
	if c.Window.FPS <= 0 {
		return panel.DefaultFrameInterval
	}
	return time.Second / time.Duration(c.Window.FPS)
}

// Layout returns the panel geometry.
func (c *Config) Layout() panel.Layout {
	return panel.NewLayout(float64(c.Window.Width), float64(c.Window.Height), c.Shape.Inset)
}

// Theme returns the colors as a panel theme.
func (c *Config) Theme() panel.Theme {
	return panel.Theme{
		Panel:      c.Colors.Panel,
		Text:       c.Colors.Text,
		Volume:     panel.SliderColors(c.Colors.Volume),
		Brightness: panel.SliderColors(c.Colors.Brightness),
	}
}

// ClockFormat returns the validated time and date formats.
func (c *Config) ClockFormat() (panel.ClockFormat, error) {
	return panel.NewClockFormat(c.Clock.TimeFormat, c.Clock.DateFormat)
}

// Style returns the renderer style.
func (c *Config) Style() (render.Style, error) {
	w, err := render.ParseWeight(c.Font.Weight)
	if err != nil {
		return render.Style{}, err
	}
	return render.Style{
		Font:         c.Font.Family,
		Weight:       w,
		TimeSize:     c.Font.TimeSize,
		DateSize:     c.Font.DateSize,
		CornerRadius: c.Shape.Radius,
		PanelPadding: c.Shape.Padding,
	}, nil
}

// Settings returns the parts of the configuration that can be reloaded
// while the panel runs.
func (c *Config) Settings() (panel.Settings, error) {
	f, err := c.ClockFormat()
	if err != nil {
		return panel.Settings{}, err
	}
	return panel.Settings{Format: f, Theme: c.Theme()}, nil
}

// colorNames maps a few common color names to opaque colors.
var colorNames = map[string]color.NRGBA{
	"white":       {R: 255, G: 255, B: 255, A: 255},
	"black":       {R: 0, G: 0, B: 0, A: 255},
	"red":         {R: 255, G: 0, B: 0, A: 255},
	"green":       {R: 0, G: 255, B: 0, A: 255},
	"blue":        {R: 0, G: 0, B: 255, A: 255},
	"yellow":      {R: 255, G: 255, B: 0, A: 255},
	"grey":        {R: 128, G: 128, B: 128, A: 255},
	"gray":        {R: 128, G: 128, B: 128, A: 255},
	"transparent": {},
}

// ParseColor parses a color name, "#rrggbb" or "#rrggbbaa". The leading
// '#' is optional.
func ParseColor(s string) (color.NRGBA, error) {
	s = strings.TrimSpace(strings.ToLower(s))

	if c, ok := colorNames[s]; ok {
		return c, nil
	}

	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 && len(hex) != 8 {
		return color.NRGBA{}, fmt.Errorf("invalid color format: %s", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid color format: %s", s)
	}
	if len(hex) == 6 {
		v = v<<8 | 0xff
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// FormatColor formats c as "#rrggbbaa".
func FormatColor(c color.NRGBA) string {
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}
