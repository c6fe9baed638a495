// Package panel implements the status/control panel core: the UI state
// record, slider hit testing, event dispatch, and the frame-paced loop
// that reconciles input with redraws.
package panel

// Layout is the static geometry of the panel, derived once from the window
// size. The window is split into a top row of two decorative panels and a
// bottom half holding the clock on the left and two stacked slider tracks
// on the right.
type Layout struct {
	Width, Height float64
	// Inset is the gap between a slider track and its interaction region.
	Inset float64

	Clock           Rect
	TopLeft         Rect
	TopRight        Rect
	BrightnessTrack Rect
	VolumeTrack     Rect

	// Brightness and Volume are the slider interaction regions. They
	// never overlap.
	Brightness Rect
	Volume     Rect

	TimeX, TimeY float64
	DateX, DateY float64
}

// DefaultInset is the track-to-region gap used by the stock panel.
const DefaultInset = 14

// NewLayout computes the panel geometry for a width x height window.
func NewLayout(width, height, inset float64) Layout {
	third := width / 3
	l := Layout{
		Width:  width,
		Height: height,
		Inset:  inset,

		Clock:           Rect{X: 0, Y: height * 0.5, Width: third, Height: height * 0.5},
		TopLeft:         Rect{X: 0, Y: 0, Width: width * 0.5, Height: height * 0.5},
		TopRight:        Rect{X: width * 0.5, Y: 0, Width: width * 0.5, Height: height * 0.5},
		BrightnessTrack: Rect{X: third, Y: height * 0.5, Width: width - third, Height: height * 0.25},
		VolumeTrack:     Rect{X: third, Y: height * 0.75, Width: width - third, Height: height * 0.25},

		TimeX: third * 0.5,
		TimeY: height*0.75 - 10,
		DateX: third * 0.5,
		DateY: height*0.75 + 30,
	}
	l.Brightness = l.BrightnessTrack.Inset(inset)
	l.Volume = l.VolumeTrack.Inset(inset)
	return l
}

// Region returns the interaction region of s.
func (l Layout) Region(s Slider) (Rect, bool) {
	switch s {
	case SliderVolume:
		return l.Volume, true
	case SliderBrightness:
		return l.Brightness, true
	default:
		return Rect{}, false
	}
}

// HitTest returns the slider whose region contains (px, py), or
// SliderNone.
func (l Layout) HitTest(px, py float64) Slider {
	switch {
	case l.Volume.Contains(px, py):
		return SliderVolume
	case l.Brightness.Contains(px, py):
		return SliderBrightness
	default:
		return SliderNone
	}
}
