package xconn

import (
	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"

	"github.com/opd-ai/go-overlay/internal/input"
)

// Decode converts a server event into an input event. Event types the
// panel does not handle report ok == false.
func Decode(ev xgb.Event, keys *Keymap) (e input.Event, ok bool) {
	switch ev := ev.(type) {
	case xproto.ExposeEvent:
		return input.Expose{}, true
	case xproto.ButtonPressEvent:
		return input.ButtonPress{
			Button: uint8(ev.Detail),
			X:      float64(ev.EventX),
			Y:      float64(ev.EventY),
		}, true
	case xproto.ButtonReleaseEvent:
		return input.ButtonRelease{Button: uint8(ev.Detail)}, true
	case xproto.MotionNotifyEvent:
		return input.Motion{X: float64(ev.EventX), Y: float64(ev.EventY)}, true
	case xproto.KeyPressEvent:
		sym := keys.Lookup(ev.Detail)
		return input.KeyPress{
			Keycode: uint8(ev.Detail),
			Keysym:  uint32(sym),
			Name:    KeysymName(sym),
		}, true
	default:
		return nil, false
	}
}

// Poller drains the connection's event queue without blocking. It
// implements input.Poller.
type Poller struct {
	conn *Conn
	keys *Keymap
}

// NewPoller returns a poller on c. keys may be nil, in which case key
// presses carry no keysym.
func NewPoller(c *Conn, keys *Keymap) *Poller {
	return &Poller{conn: c, keys: keys}
}

// Poll returns the next decodable event. Unhandled event types are
// skipped.
func (p *Poller) Poll() (input.Event, bool, error) {
	for {
		ev, xerr := p.conn.X.PollForEvent()
		if xerr != nil {
			return nil, false, xerr
		}
		if ev == nil {
			return nil, false, nil
		}
		if e, ok := Decode(ev, p.keys); ok {
			return e, true, nil
		}
	}
}
