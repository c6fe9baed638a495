// Package input defines the window events consumed by the panel loop.
// Raw display-server events are decoded into these variants once, at the
// poller boundary, so the dispatcher never inspects protocol payloads.
package input

import "fmt"

// ButtonPrimary is the pointer button number of the primary (left) button.
const ButtonPrimary uint8 = 1

// Event is one decoded window event. The concrete type is one of
// Expose, ButtonPress, ButtonRelease, Motion or KeyPress.
type Event interface {
	// Kind returns a short, stable name used in logs and metrics.
	Kind() Kind
	isEvent()
}

// Kind names an event variant.
type Kind int

const (
	// KindExpose is a damaged or newly visible window.
	KindExpose Kind = iota
	// KindButtonPress is a pointer button going down.
	KindButtonPress
	// KindButtonRelease is a pointer button going up.
	KindButtonRelease
	// KindMotion is pointer movement.
	KindMotion
	// KindKeyPress is a keyboard key going down.
	KindKeyPress
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case KindExpose:
		return "expose"
	case KindButtonPress:
		return "button_press"
	case KindButtonRelease:
		return "button_release"
	case KindMotion:
		return "motion"
	case KindKeyPress:
		return "key_press"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Expose reports that the window must be repainted.
type Expose struct{}

// ButtonPress is a button press at window-local coordinates.
type ButtonPress struct {
	Button uint8
	X, Y   float64
}

// ButtonRelease is a button release.
type ButtonRelease struct {
	Button uint8
}

// Motion is a pointer move to window-local coordinates.
type Motion struct {
	X, Y float64
}

// KeyPress is a key press resolved to a keysym.
type KeyPress struct {
	// Keycode is the hardware keycode reported by the server.
	Keycode uint8
	// Keysym is the unshifted keysym for Keycode, or 0 if unmapped.
	Keysym uint32
	// Name is the symbolic keysym name ("a", "Escape", "F1"), or a hex
	// fallback like "0x1008ff13" for keysyms without a known name.
	Name string
}

func (Expose) Kind() Kind        { return KindExpose }
func (ButtonPress) Kind() Kind   { return KindButtonPress }
func (ButtonRelease) Kind() Kind { return KindButtonRelease }
func (Motion) Kind() Kind        { return KindMotion }
func (KeyPress) Kind() Kind      { return KindKeyPress }

func (Expose) isEvent()        {}
func (ButtonPress) isEvent()   {}
func (ButtonRelease) isEvent() {}
func (Motion) isEvent()        {}
func (KeyPress) isEvent()      {}

// Poller retrieves pending events without blocking.
type Poller interface {
	// Poll returns the next queued event, or ok == false when the queue
	// is empty. A non-nil error reports a protocol error the server sent
	// in place of an event; the queue may still hold more events.
	Poll() (ev Event, ok bool, err error)
}
