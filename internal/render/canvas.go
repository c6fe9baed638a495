// Package render draws the panel scene into an in-memory RGBA surface.
// Paths are filled with golang.org/x/image/vector and text is laid out
// with golang.org/x/image/font, so a frame depends only on its inputs and
// can be compared byte for byte.
package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/opd-ai/go-overlay/internal/panel"
)

// Canvas is a drawing surface with cairo-style path construction.
// It is not safe for concurrent use.
type Canvas struct {
	img *image.RGBA
	ras *vector.Rasterizer

	hasPoint bool
}

// NewCanvas allocates a transparent width x height surface.
func NewCanvas(width, height int) *Canvas {
	return &Canvas{
		img: image.NewRGBA(image.Rect(0, 0, width, height)),
		ras: vector.NewRasterizer(width, height),
	}
}

// Image returns the backing image. Its pixels are premultiplied RGBA.
func (c *Canvas) Image() *image.RGBA {
	return c.img
}

// Bounds returns the surface bounds.
func (c *Canvas) Bounds() image.Rectangle {
	return c.img.Bounds()
}

// Clear resets every pixel to transparent black.
func (c *Canvas) Clear() {
	clear(c.img.Pix)
}

// NewPath discards the current path.
func (c *Canvas) NewPath() {
	b := c.img.Bounds()
	c.ras.Reset(b.Dx(), b.Dy())
	c.hasPoint = false
}

// MoveTo begins a new sub-path at (x, y).
func (c *Canvas) MoveTo(x, y float64) {
	c.ras.MoveTo(float32(x), float32(y))
	c.hasPoint = true
}

// LineTo adds a straight segment to (x, y).
func (c *Canvas) LineTo(x, y float64) {
	if !c.hasPoint {
		c.MoveTo(x, y)
		return
	}
	c.ras.LineTo(float32(x), float32(y))
}

// Arc adds a clockwise (in screen space) circular arc centered at
// (cx, cy) from angle a0 to a1, in radians. Like cairo_arc, a line joins
// the current point to the arc start when a path is open.
func (c *Canvas) Arc(cx, cy, r, a0, a1 float64) {
	for a1 < a0 {
		a1 += 2 * math.Pi
	}

	x0, y0 := cx+r*math.Cos(a0), cy+r*math.Sin(a0)
	if c.hasPoint {
		c.LineTo(x0, y0)
	} else {
		c.MoveTo(x0, y0)
	}

	if r <= 0 || a1 == a0 {
		return
	}

	// Split into segments of at most a quarter turn; each is
	// approximated by one cubic Bezier.
	n := int(math.Ceil((a1 - a0) / (math.Pi / 2)))
	step := (a1 - a0) / float64(n)
	k := 4.0 / 3.0 * math.Tan(step/4)

	for i := 0; i < n; i++ {
		s := a0 + float64(i)*step
		e := s + step
		sx, sy := math.Cos(s), math.Sin(s)
		ex, ey := math.Cos(e), math.Sin(e)

		c.ras.CubeTo(
			float32(cx+r*(sx-k*sy)), float32(cy+r*(sy+k*sx)),
			float32(cx+r*(ex+k*ey)), float32(cy+r*(ey-k*ex)),
			float32(cx+r*ex), float32(cy+r*ey),
		)
	}
}

// ClosePath closes the current sub-path.
func (c *Canvas) ClosePath() {
	if !c.hasPoint {
		return
	}
	c.ras.ClosePath()
}

// Fill paints the current path with clr using source-over compositing,
// then clears the path.
func (c *Canvas) Fill(clr color.Color) {
	if c.hasPoint {
		c.ras.DrawOp = draw.Over
		c.ras.Draw(c.img, c.img.Bounds(), image.NewUniform(clr), image.Point{})
	}
	c.NewPath()
}

// FillRoundedRect fills r shrunk by padding on each side, with corners of
// the given radius. The radius is clamped to half the padded width and
// height so narrow fills stay convex; an empty padded rect draws nothing.
func (c *Canvas) FillRoundedRect(r panel.Rect, radius, padding float64, clr color.Color) {
	r = r.Inset(padding)
	if r.Width <= 0 || r.Height <= 0 {
		return
	}
	radius = math.Max(0, math.Min(radius, math.Min(r.Width, r.Height)/2))

	x, y, w, h := r.X, r.Y, r.Width, r.Height
	c.NewPath()
	c.Arc(x+w-radius, y+radius, radius, -math.Pi/2, 0)
	c.Arc(x+w-radius, y+h-radius, radius, 0, math.Pi/2)
	c.Arc(x+radius, y+h-radius, radius, math.Pi/2, math.Pi)
	c.Arc(x+radius, y+radius, radius, math.Pi, 3*math.Pi/2)
	c.ClosePath()
	c.Fill(clr)
}

// TextExtents returns the ink width and height of s in face.
func TextExtents(face font.Face, s string) (width, height float64) {
	b, _ := font.BoundString(face, s)
	return fixedToFloat(b.Max.X - b.Min.X), fixedToFloat(b.Max.Y - b.Min.Y)
}

// DrawTextCentered draws s so that its ink box is centered horizontally on
// x, with the baseline at y plus half the ink height.
func (c *Canvas) DrawTextCentered(face font.Face, x, y float64, s string, clr color.Color) {
	w, h := TextExtents(face, s)
	d := font.Drawer{
		Dst:  c.img,
		Src:  image.NewUniform(clr),
		Face: face,
		Dot:  fixed.Point26_6{X: floatToFixed(x - w/2), Y: floatToFixed(y + h/2)},
	}
	d.DrawString(s)
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}

func floatToFixed(v float64) fixed.Int26_6 {
	return fixed.Int26_6(math.Round(v * 64))
}
