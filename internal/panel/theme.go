package panel

import "image/color"

// SliderColors holds the three fill variants of a slider.
type SliderColors struct {
	Neutral color.NRGBA
	Hovered color.NRGBA
	Pressed color.NRGBA
}

// For picks the fill for s. Pressed wins over hovered, hovered over
// neutral.
func (c SliderColors) For(s SliderState) color.NRGBA {
	switch {
	case s.Pressed:
		return c.Pressed
	case s.Hovered:
		return c.Hovered
	default:
		return c.Neutral
	}
}

// Theme is the set of fixed colors the renderer paints with.
type Theme struct {
	Panel      color.NRGBA
	Text       color.NRGBA
	Volume     SliderColors
	Brightness SliderColors
}

// DefaultTheme returns the stock grey panel with red volume and yellow
// brightness fills.
func DefaultTheme() Theme {
	return Theme{
		Panel: color.NRGBA{R: 0x4d, G: 0x4d, B: 0x4d, A: 0xff},
		Text:  color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
		Volume: SliderColors{
			Neutral: color.NRGBA{R: 0xff, G: 0x4d, B: 0x4d, A: 0x99},
			Hovered: color.NRGBA{R: 0xff, G: 0x4d, B: 0x4d, A: 0xff},
			Pressed: color.NRGBA{R: 0xe6, G: 0x33, B: 0x33, A: 0xff},
		},
		Brightness: SliderColors{
			Neutral: color.NRGBA{R: 0xff, G: 0xff, B: 0x4d, A: 0x99},
			Hovered: color.NRGBA{R: 0xff, G: 0xff, B: 0x4d, A: 0xff},
			Pressed: color.NRGBA{R: 0xe6, G: 0xe6, B: 0x33, A: 0xff},
		},
	}
}
