package panel

import (
	"github.com/opd-ai/go-overlay/internal/input"
)

// DefaultSliderValue is the value both sliders start at.
const DefaultSliderValue = 50

// Slider identifies one of the two panel sliders.
type Slider int

const (
	// SliderNone means no slider.
	SliderNone Slider = iota
	// SliderVolume is the volume slider.
	SliderVolume
	// SliderBrightness is the brightness slider.
	SliderBrightness
)

// String returns the slider name.
func (s Slider) String() string {
	switch s {
	case SliderVolume:
		return "volume"
	case SliderBrightness:
		return "brightness"
	default:
		return "none"
	}
}

// SliderState is the per-slider part of the UI state.
type SliderState struct {
	// Value is a percentage in [0, 100].
	Value   int
	Hovered bool
	Pressed bool
}

// State is the UI state record read by the renderer.
type State struct {
	Time string
	Date string

	Volume     SliderState
	Brightness SliderState
}

// Model owns the UI state and the drag session. It is mutated only by
// Apply and SetClock, from the loop's goroutine.
type Model struct {
	state    State
	layout   Layout
	dragging Slider
}

// NewModel returns a model with both sliders at DefaultSliderValue and the
// given clock strings.
func NewModel(layout Layout, timeText, dateText string) *Model {
	return &Model{
		layout: layout,
		state: State{
			Time:       timeText,
			Date:       dateText,
			Volume:     SliderState{Value: DefaultSliderValue},
			Brightness: SliderState{Value: DefaultSliderValue},
		},
	}
}

// State returns a snapshot of the current UI state.
func (m *Model) State() State {
	return m.state
}

// Dragging returns the slider being dragged, or SliderNone.
func (m *Model) Dragging() Slider {
	return m.dragging
}

// Layout returns the layout the model hit-tests against.
func (m *Model) Layout() Layout {
	return m.layout
}

// SetClock replaces the time and date strings.
func (m *Model) SetClock(timeText, dateText string) {
	m.state.Time = timeText
	m.state.Date = dateText
}

// Apply routes one event to its handler and reports whether the scene
// must be redrawn.
func (m *Model) Apply(ev input.Event) bool {
	switch ev := ev.(type) {
	case input.Expose:
		return true
	case input.ButtonPress:
		return m.press(ev.Button, ev.X, ev.Y)
	case input.ButtonRelease:
		m.release(ev.Button)
		return false
	case input.Motion:
		return m.move(ev.X, ev.Y)
	default:
		// Key presses are observed by the loop's key handler; they never
		// change the state.
		return false
	}
}

// press starts a drag when the primary button goes down inside a slider.
func (m *Model) press(button uint8, px, py float64) bool {
	if button != input.ButtonPrimary {
		return false
	}
	hit := m.layout.HitTest(px, py)
	if hit == SliderNone {
		return false
	}

	m.state.Volume.Pressed = false
	m.state.Brightness.Pressed = false
	m.state.Volume.Hovered = false
	m.state.Brightness.Hovered = false
	m.dragging = hit

	s := m.slider(hit)
	region, _ := m.layout.Region(hit)
	s.Pressed = true
	s.Value = region.Value(px)
	return true
}

// release ends any drag. Calling it with nothing pressed is a no-op.
func (m *Model) release(button uint8) {
	if button != input.ButtonPrimary {
		return
	}
	m.dragging = SliderNone
	m.state.Volume.Pressed = false
	m.state.Brightness.Pressed = false
}

// move updates hover flags, or the dragged slider's value while dragging.
func (m *Model) move(px, py float64) bool {
	m.state.Volume.Hovered = false
	m.state.Brightness.Hovered = false

	if m.dragging == SliderNone {
		switch m.layout.HitTest(px, py) {
		case SliderVolume:
			m.state.Volume.Hovered = true
		case SliderBrightness:
			m.state.Brightness.Hovered = true
		}
		return true
	}

	region, _ := m.layout.Region(m.dragging)
	m.slider(m.dragging).Value = region.Value(px)
	return true
}

func (m *Model) slider(s Slider) *SliderState {
	if s == SliderVolume {
		return &m.state.Volume
	}
	return &m.state.Brightness
}
