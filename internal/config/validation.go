package config

import (
	"fmt"
	"strings"

	"github.com/opd-ai/go-overlay/internal/panel"
	"github.com/opd-ai/go-overlay/internal/render"
)

// Frame rate bounds accepted by Validate.
const (
	MinFPS = 1
	MaxFPS = 240
)

// maxWindowSize is the largest X11 window dimension.
const maxWindowSize = 0xffff

// ValidationError is one invalid field.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (ve ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ve.Field, ve.Message)
}

// ValidationResult collects every validation error of a configuration.
type ValidationResult struct {
	Errors []ValidationError
}

// IsValid reports whether no errors were found.
func (vr *ValidationResult) IsValid() bool {
	return len(vr.Errors) == 0
}

// Err returns the combined errors, or nil.
func (vr *ValidationResult) Err() error {
	if len(vr.Errors) == 0 {
		return nil
	}
	messages := make([]string, 0, len(vr.Errors))
	for _, e := range vr.Errors {
		messages = append(messages, e.Error())
	}
	return fmt.Errorf("validation failed: %s", strings.Join(messages, "; "))
}

// AddError records an error for field.
func (vr *ValidationResult) AddError(field, format string, args ...any) {
	vr.Errors = append(vr.Errors, ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
}

// Validate checks cfg and returns every problem found.
func Validate(cfg *Config) *ValidationResult {
	vr := &ValidationResult{}

	w := cfg.Window
	if w.Width <= 0 || w.Width > maxWindowSize {
		vr.AddError("width", "must be in [1, %d], got %d", maxWindowSize, w.Width)
	}
	if w.Height <= 0 || w.Height > maxWindowSize {
		vr.AddError("height", "must be in [1, %d], got %d", maxWindowSize, w.Height)
	}
	if w.BottomMargin < 0 {
		vr.AddError("bottom_margin", "must not be negative, got %d", w.BottomMargin)
	}
	if w.FPS < MinFPS || w.FPS > MaxFPS {
		vr.AddError("fps", "must be in [%d, %d], got %d", MinFPS, MaxFPS, w.FPS)
	}

	if cfg.Clock.Interval <= 0 {
		vr.AddError("clock_interval", "must be positive, got %v", cfg.Clock.Interval)
	}
	if err := panel.CheckFormat(cfg.Clock.TimeFormat); err != nil {
		vr.AddError("time_format", "%v", err)
	}
	if err := panel.CheckFormat(cfg.Clock.DateFormat); err != nil {
		vr.AddError("date_format", "%v", err)
	}

	if _, err := render.ResolveFamily(cfg.Font.Family); err != nil {
		vr.AddError("font", "%v", err)
	}
	if _, err := render.ParseWeight(cfg.Font.Weight); err != nil {
		vr.AddError("font_weight", "%v", err)
	}
	if cfg.Font.TimeSize <= 0 {
		vr.AddError("time_size", "must be positive, got %v", cfg.Font.TimeSize)
	}
	if cfg.Font.DateSize <= 0 {
		vr.AddError("date_size", "must be positive, got %v", cfg.Font.DateSize)
	}

	// Slider tracks are a quarter of the window height.
	trackHeight := float64(w.Height) / 4
	switch s := cfg.Shape; {
	case s.Inset < 0:
		vr.AddError("inset", "must not be negative, got %v", s.Inset)
	case s.Inset > trackHeight/2:
		vr.AddError("inset", "must be at most half the slider track height (%v), got %v", trackHeight/2, s.Inset)
	}
	if cfg.Shape.Padding < 0 {
		vr.AddError("padding", "must not be negative, got %v", cfg.Shape.Padding)
	}
	if cfg.Shape.Radius < 0 {
		vr.AddError("radius", "must not be negative, got %v", cfg.Shape.Radius)
	}

	return vr
}
