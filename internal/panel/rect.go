package panel

import "math"

// Rect is an axis-aligned rectangle in window-local coordinates.
// Slider rects double as the interaction regions used for hit testing.
type Rect struct {
	X, Y          float64
	Width, Height float64
}

// Contains reports whether (px, py) lies inside r. All four edges are
// inclusive.
func (r Rect) Contains(px, py float64) bool {
	return px >= r.X && px <= r.X+r.Width &&
		py >= r.Y && py <= r.Y+r.Height
}

// Value maps a pointer x coordinate onto a slider percentage in [0, 100].
// The result is absolute: it depends only on px, never on a previous
// value. Positions left of the region yield 0, right of it 100.
func (r Rect) Value(px float64) int {
	if r.Width <= 0 {
		return 0
	}
	v := (px - r.X) * 100 / r.Width
	switch {
	case v <= 0 || math.IsNaN(v):
		return 0
	case v >= 100:
		return 100
	default:
		return int(v)
	}
}

// Inset shrinks r by d on every side.
func (r Rect) Inset(d float64) Rect {
	return Rect{
		X:      r.X + d,
		Y:      r.Y + d,
		Width:  r.Width - 2*d,
		Height: r.Height - 2*d,
	}
}
