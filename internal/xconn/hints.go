package xconn

import (
	"errors"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

// _NET_WM_STATE client message actions.
const (
	StateRemove uint32 = 0
	StateAdd    uint32 = 1
	StateToggle uint32 = 2

	// sourceApplication marks a request as coming from a normal client.
	sourceApplication uint32 = 1
)

// ErrWindowNotFound is returned when no managed client matches a lookup.
var ErrWindowNotFound = errors.New("no matching client window")

// Client identifies a managed top-level window.
type Client struct {
	Window xproto.Window
	PID    int
	Name   string
}

// Clients lists the windows in the root _NET_CLIENT_LIST with their
// _NET_WM_PID and _NET_WM_NAME. Unreadable properties are left empty.
func (c *Conn) Clients() ([]Client, error) {
	list, err := c.Atom("_NET_CLIENT_LIST")
	if err != nil {
		return nil, err
	}
	reply, err := xproto.GetProperty(c.X, false, c.Screen.Root, list,
		xproto.AtomWindow, 0, 1024).Reply()
	if err != nil {
		return nil, &RequestError{Request: "GetProperty _NET_CLIENT_LIST", Err: err}
	}
	if reply == nil {
		return nil, nil
	}

	pidAtom, err := c.Atom("_NET_WM_PID")
	if err != nil {
		return nil, err
	}
	nameAtom, err := c.Atom("_NET_WM_NAME")
	if err != nil {
		return nil, err
	}

	var clients []Client
	for _, a := range decodeAtoms(reply.Value) {
		w := xproto.Window(a)
		cl := Client{Window: w}
		if r, err := xproto.GetProperty(c.X, false, w, pidAtom, xproto.AtomCardinal, 0, 1).Reply(); err == nil && r != nil && len(r.Value) >= 4 {
			cl.PID = int(xgb.Get32(r.Value))
		}
		if r, err := xproto.GetProperty(c.X, false, w, nameAtom, xproto.GetPropertyTypeAny, 0, 256).Reply(); err == nil && r != nil {
			cl.Name = string(r.Value)
		}
		clients = append(clients, cl)
	}
	return clients, nil
}

// FindClient returns the managed window owned by pid, or failing that the
// one titled name.
func (c *Conn) FindClient(pid int, name string) (xproto.Window, error) {
	clients, err := c.Clients()
	if err != nil {
		return xproto.WindowNone, err
	}
	return matchClient(clients, pid, name)
}

func matchClient(clients []Client, pid int, name string) (xproto.Window, error) {
	for _, cl := range clients {
		if pid > 0 && cl.PID == pid {
			return cl.Window, nil
		}
	}
	for _, cl := range clients {
		if name != "" && cl.Name == name {
			return cl.Window, nil
		}
	}
	return xproto.WindowNone, ErrWindowNotFound
}

// RequestWindowState asks the window manager to change the _NET_WM_STATE
// of a mapped window, as EWMH requires: a client message to the root
// window, at most two states per message.
func (c *Conn) RequestWindowState(window xproto.Window, action uint32, states ...string) error {
	prop, err := c.Atom("_NET_WM_STATE")
	if err != nil {
		return err
	}
	atoms := make([]xproto.Atom, 0, len(states))
	for _, s := range states {
		a, err := c.Atom(s)
		if err != nil {
			return err
		}
		atoms = append(atoms, a)
	}

	const mask = xproto.EventMaskSubstructureRedirect | xproto.EventMaskSubstructureNotify
	for i := 0; i < len(atoms); i += 2 {
		second := xproto.Atom(xproto.AtomNone)
		if i+1 < len(atoms) {
			second = atoms[i+1]
		}
		msg := stateMessage(window, prop, action, atoms[i], second)
		err := xproto.SendEventChecked(c.X, false, c.Screen.Root, mask, string(msg)).Check()
		if err != nil {
			return &RequestError{Request: "SendEvent _NET_WM_STATE", Err: err}
		}
	}
	return nil
}

// stateMessage encodes a _NET_WM_STATE client message for window.
func stateMessage(window xproto.Window, prop xproto.Atom, action uint32, first, second xproto.Atom) []byte {
	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: window,
		Type:   prop,
		Data: xproto.ClientMessageDataUnionData32New([]uint32{
			action, uint32(first), uint32(second), sourceApplication, 0,
		}),
	}
	return ev.Bytes()
}
