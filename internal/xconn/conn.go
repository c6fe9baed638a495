// Package xconn is the X11 side of the overlay: it opens the display
// connection, creates the translucent override-redirect window, decodes
// server events into input events and uploads rendered frames.
package xconn

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"

	"github.com/opd-ai/go-overlay/internal/logging"
)

var (
	// ErrNoScreen is returned when the server reports no screens.
	ErrNoScreen = errors.New("x11 server has no screens")
	// ErrNoARGBVisual is returned when the screen offers no 32-bit
	// TrueColor visual, usually because no compositor-capable depth is
	// configured.
	ErrNoARGBVisual = errors.New("no 32-bit TrueColor visual")
)

// RequestError records a failed best-effort request.
type RequestError struct {
	Request string
	Err     error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("x11 %s: %v", e.Request, e.Err)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// Conn is a connection to an X server with its default screen resolved.
type Conn struct {
	X      *xgb.Conn
	Setup  *xproto.SetupInfo
	Screen *xproto.ScreenInfo

	logger logging.Logger

	mu    sync.Mutex
	atoms map[string]xproto.Atom
}

// Connect opens display (empty for $DISPLAY). The xgb package logger is
// redirected into logger at warn level.
func Connect(display string, logger *logging.SlogAdapter) (*Conn, error) {
	if logger == nil {
		logger = logging.Default()
	}
	xgb.Logger = logging.StdLogger(logger, slog.LevelWarn, "xgb")

	x, err := xgb.NewConnDisplay(display)
	if err != nil {
		return nil, fmt.Errorf("connect to display %q: %w", display, err)
	}

	setup := xproto.Setup(x)
	if setup == nil || len(setup.Roots) == 0 {
		x.Close()
		return nil, ErrNoScreen
	}

	c := &Conn{
		X:      x,
		Setup:  setup,
		Screen: setup.DefaultScreen(x),
		logger: logger,
		atoms:  make(map[string]xproto.Atom),
	}
	logger.Debug("connected to x11",
		"display", display,
		"screen_width", c.Screen.WidthInPixels,
		"screen_height", c.Screen.HeightInPixels,
		"root_depth", c.Screen.RootDepth,
	)
	return c, nil
}

// Close closes the connection.
func (c *Conn) Close() {
	c.X.Close()
}

// Atom interns name, caching the result.
func (c *Conn) Atom(name string) (xproto.Atom, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if atom, ok := c.atoms[name]; ok {
		return atom, nil
	}
	reply, err := xproto.InternAtom(c.X, false, uint16(len(name)), name).Reply()
	if err != nil {
		return xproto.AtomNone, &RequestError{Request: "InternAtom " + name, Err: err}
	}
	c.atoms[name] = reply.Atom
	return reply.Atom, nil
}

// SetAtoms replaces property on window with a list of atoms, written
// with format 32 as EWMH requires.
func (c *Conn) SetAtoms(window xproto.Window, property string, values ...string) error {
	prop, err := c.Atom(property)
	if err != nil {
		return err
	}
	atoms := make([]xproto.Atom, 0, len(values))
	for _, v := range values {
		a, err := c.Atom(v)
		if err != nil {
			return err
		}
		atoms = append(atoms, a)
	}
	data := encodeAtoms(atoms)
	err = xproto.ChangePropertyChecked(c.X, xproto.PropModeReplace, window,
		prop, xproto.AtomAtom, 32, uint32(len(atoms)), data).Check()
	if err != nil {
		return &RequestError{Request: "ChangeProperty " + property, Err: err}
	}
	return nil
}

func encodeAtoms(atoms []xproto.Atom) []byte {
	data := make([]byte, len(atoms)*4)
	for i, a := range atoms {
		xgb.Put32(data[i*4:], uint32(a))
	}
	return data
}

func decodeAtoms(data []byte) []xproto.Atom {
	atoms := make([]xproto.Atom, 0, len(data)/4)
	for i := 0; i+4 <= len(data); i += 4 {
		atoms = append(atoms, xproto.Atom(xgb.Get32(data[i:])))
	}
	return atoms
}
