package render

import (
	"fmt"
	"image"

	"golang.org/x/image/font"

	"github.com/opd-ai/go-overlay/internal/panel"
)

// Presenter shows a finished frame, for example by uploading it to a
// window.
type Presenter interface {
	Present(img *image.RGBA) error
}

// Style holds the non-color drawing parameters of the scene.
type Style struct {
	Font   string
	Weight Weight
	// TimeSize and DateSize are font sizes in pixels.
	TimeSize float64
	DateSize float64
	// CornerRadius rounds every panel and fill.
	CornerRadius float64
	// PanelPadding is the gap around each background panel.
	PanelPadding float64
}

// DefaultStyle returns the stock bold 50/14 pixel text with 6 pixel
// corners and 4 pixel panel gaps.
func DefaultStyle() Style {
	return Style{
		Font:         "roboto",
		Weight:       WeightBold,
		TimeSize:     50,
		DateSize:     14,
		CornerRadius: 6,
		PanelPadding: 4,
	}
}

// Scene renders the panel for a layout. It implements panel.Renderer and
// panel.ThemeSetter.
type Scene struct {
	layout panel.Layout
	theme  panel.Theme
	style  Style
	canvas *Canvas
	out    Presenter

	timeFace font.Face
	dateFace font.Face
}

// NewScene prepares a scene drawing into a canvas sized to layout. The
// presenter may be nil, in which case Render only draws.
func NewScene(layout panel.Layout, theme panel.Theme, style Style, fonts *Fonts, out Presenter) (*Scene, error) {
	w, h := int(layout.Width), int(layout.Height)
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("invalid scene size %dx%d", w, h)
	}
	timeFace, err := fonts.Face(style.Font, style.Weight, style.TimeSize)
	if err != nil {
		return nil, fmt.Errorf("time font: %w", err)
	}
	dateFace, err := fonts.Face(style.Font, style.Weight, style.DateSize)
	if err != nil {
		return nil, fmt.Errorf("date font: %w", err)
	}
	return &Scene{
		layout:   layout,
		theme:    theme,
		style:    style,
		canvas:   NewCanvas(w, h),
		out:      out,
		timeFace: timeFace,
		dateFace: dateFace,
	}, nil
}

// SetTheme replaces the colors used by subsequent frames.
func (s *Scene) SetTheme(t panel.Theme) {
	s.theme = t
}

// Render draws st and presents the frame.
func (s *Scene) Render(st panel.State) error {
	img := s.Draw(st)
	if s.out == nil {
		return nil
	}
	if err := s.out.Present(img); err != nil {
		return fmt.Errorf("present frame: %w", err)
	}
	return nil
}

// Draw repaints the whole scene from st and returns the frame. The
// returned image is reused by the next call.
func (s *Scene) Draw(st panel.State) *image.RGBA {
	c, l, th := s.canvas, s.layout, s.theme
	radius, pad := s.style.CornerRadius, s.style.PanelPadding

	c.Clear()

	c.FillRoundedRect(l.Clock, radius, pad, th.Panel)

	c.FillRoundedRect(l.VolumeTrack, radius, pad, th.Panel)
	c.FillRoundedRect(sliderFill(l.Volume, st.Volume.Value), radius, 0, th.Volume.For(st.Volume))

	c.FillRoundedRect(l.BrightnessTrack, radius, pad, th.Panel)
	c.FillRoundedRect(sliderFill(l.Brightness, st.Brightness.Value), radius, 0, th.Brightness.For(st.Brightness))

	c.FillRoundedRect(l.TopLeft, radius, pad, th.Panel)
	c.FillRoundedRect(l.TopRight, radius, pad, th.Panel)

	c.DrawTextCentered(s.timeFace, l.TimeX, l.TimeY, st.Time, th.Text)
	c.DrawTextCentered(s.dateFace, l.DateX, l.DateY, st.Date, th.Text)

	return c.Image()
}

// sliderFill returns the filled part of a slider region: the full height
// and value percent of the width, anchored on the left.
func sliderFill(region panel.Rect, value int) panel.Rect {
	region.Width = region.Width * float64(value) / 100
	return region
}
