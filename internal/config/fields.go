package config

import (
	"fmt"
	"image/color"
	"math"
	"sort"
	"time"
)

// source yields raw values by setting key. Values are string, bool,
// int64, int or float64.
type source interface {
	lookup(key string) (any, bool)
}

type field struct {
	key string
	set func(cfg *Config, v any) error
}

// fields lists every setting key accepted by both file formats.
var fields = []field{
	intField("width", func(c *Config) *int { return &c.Window.Width }),
	intField("height", func(c *Config) *int { return &c.Window.Height }),
	intField("bottom_margin", func(c *Config) *int { return &c.Window.BottomMargin }),
	intField("fps", func(c *Config) *int { return &c.Window.FPS }),

	stringField("time_format", func(c *Config) *string { return &c.Clock.TimeFormat }),
	stringField("date_format", func(c *Config) *string { return &c.Clock.DateFormat }),
	durationField("clock_interval", func(c *Config) *time.Duration { return &c.Clock.Interval }),

	stringField("font", func(c *Config) *string { return &c.Font.Family }),
	stringField("font_weight", func(c *Config) *string { return &c.Font.Weight }),
	floatField("time_size", func(c *Config) *float64 { return &c.Font.TimeSize }),
	floatField("date_size", func(c *Config) *float64 { return &c.Font.DateSize }),

	floatField("inset", func(c *Config) *float64 { return &c.Shape.Inset }),
	floatField("padding", func(c *Config) *float64 { return &c.Shape.Padding }),
	floatField("radius", func(c *Config) *float64 { return &c.Shape.Radius }),

	colorField("panel_color", func(c *Config) *color.NRGBA { return &c.Colors.Panel }),
	colorField("text_color", func(c *Config) *color.NRGBA { return &c.Colors.Text }),
	colorField("volume_color", func(c *Config) *color.NRGBA { return &c.Colors.Volume.Neutral }),
	colorField("volume_hovered_color", func(c *Config) *color.NRGBA { return &c.Colors.Volume.Hovered }),
	colorField("volume_pressed_color", func(c *Config) *color.NRGBA { return &c.Colors.Volume.Pressed }),
	colorField("brightness_color", func(c *Config) *color.NRGBA { return &c.Colors.Brightness.Neutral }),
	colorField("brightness_hovered_color", func(c *Config) *color.NRGBA { return &c.Colors.Brightness.Hovered }),
	colorField("brightness_pressed_color", func(c *Config) *color.NRGBA { return &c.Colors.Brightness.Pressed }),
}

var fieldsByKey = func() map[string]field {
	m := make(map[string]field, len(fields))
	for _, f := range fields {
		m[f.key] = f
	}
	return m
}()

// Keys returns the accepted setting keys in sorted order.
func Keys() []string {
	keys := make([]string, 0, len(fields))
	for _, f := range fields {
		keys = append(keys, f.key)
	}
	sort.Strings(keys)
	return keys
}

// apply overrides cfg with every key src defines.
func apply(cfg *Config, src source) error {
	for _, f := range fields {
		v, ok := src.lookup(f.key)
		if !ok || v == nil {
			continue
		}
		if err := f.set(cfg, v); err != nil {
			return fmt.Errorf("invalid %s: %w", f.key, err)
		}
	}
	return nil
}

func intField(key string, target func(*Config) *int) field {
	return field{key: key, set: func(c *Config, v any) error {
		n, err := toFloat(v)
		if err != nil {
			return err
		}
		if n != math.Trunc(n) {
			return fmt.Errorf("expected an integer, got %v", n)
		}
		*target(c) = int(n)
		return nil
	}}
}

func floatField(key string, target func(*Config) *float64) field {
	return field{key: key, set: func(c *Config, v any) error {
		n, err := toFloat(v)
		if err != nil {
			return err
		}
		*target(c) = n
		return nil
	}}
}

func stringField(key string, target func(*Config) *string) field {
	return field{key: key, set: func(c *Config, v any) error {
		s, ok := v.(string)
		if !ok {
			return fmt.Errorf("expected a string, got %T", v)
		}
		*target(c) = s
		return nil
	}}
}

// durationField accepts seconds as a number or a duration string such as
// "500ms".
func durationField(key string, target func(*Config) *time.Duration) field {
	return field{key: key, set: func(c *Config, v any) error {
		if s, ok := v.(string); ok {
			d, err := time.ParseDuration(s)
			if err != nil {
				return err
			}
			*target(c) = d
			return nil
		}
		n, err := toFloat(v)
		if err != nil {
			return err
		}
		*target(c) = time.Duration(n * float64(time.Second))
		return nil
	}}
}

func colorField(key string, target func(*Config) *color.NRGBA) field {
	return field{key: key, set: func(c *Config, v any) error {
		s, ok := v.(string)
		if !ok {
			return fmt.Errorf("expected a color string, got %T", v)
		}
		clr, err := ParseColor(s)
		if err != nil {
			return err
		}
		*target(c) = clr
		return nil
	}}
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	case float64:
		return n, nil
	default:
		return 0, fmt.Errorf("expected a number, got %T", v)
	}
}
