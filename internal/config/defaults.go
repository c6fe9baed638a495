package config

import (
	"time"

	"github.com/opd-ai/go-overlay/internal/panel"
)

// Default values for configuration options. The window is 35% by 20% of
// a 1920x1200 screen.
const (
	DefaultWidth        = 672
	DefaultHeight       = 240
	DefaultBottomMargin = 20
	DefaultFPS          = 60

	DefaultClockInterval = time.Second

	DefaultFontFamily = "roboto"
	DefaultFontWeight = "bold"
	DefaultTimeSize   = 50.0
	DefaultDateSize   = 14.0

	DefaultPadding = 4.0
	DefaultRadius  = 6.0
)

// DefaultConfig returns a Config with the stock panel settings.
func DefaultConfig() Config {
	theme := panel.DefaultTheme()
	return Config{
		Window: WindowConfig{
			Width:        DefaultWidth,
			Height:       DefaultHeight,
			BottomMargin: DefaultBottomMargin,
			FPS:          DefaultFPS,
		},
		Clock: ClockConfig{
			TimeFormat: panel.DefaultTimeFormat,
			DateFormat: panel.DefaultDateFormat,
			Interval:   DefaultClockInterval,
		},
		Font: FontConfig{
			Family:   DefaultFontFamily,
			Weight:   DefaultFontWeight,
			TimeSize: DefaultTimeSize,
			DateSize: DefaultDateSize,
		},
		Shape: ShapeConfig{
			Inset:   panel.DefaultInset,
			Padding: DefaultPadding,
			Radius:  DefaultRadius,
		},
		Colors: ColorConfig{
			Panel:      theme.Panel,
			Text:       theme.Text,
			Volume:     SliderColorConfig(theme.Volume),
			Brightness: SliderColorConfig(theme.Brightness),
		},
	}
}
