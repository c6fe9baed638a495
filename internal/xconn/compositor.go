package xconn

import (
	"fmt"

	"github.com/jezek/xgb/xproto"
)

// compositorSelection names the EWMH selection a compositing manager
// owns on screen n.
func compositorSelection(n int) string {
	return fmt.Sprintf("_NET_WM_CM_S%d", n)
}

// CompositorRunning reports whether a compositing manager owns the
// selection for the default screen. Without one, the ARGB window shows
// its pixels opaque.
func (c *Conn) CompositorRunning() (bool, error) {
	name := compositorSelection(c.X.DefaultScreen)
	atom, err := c.Atom(name)
	if err != nil {
		return false, err
	}
	owner, err := xproto.GetSelectionOwner(c.X, atom).Reply()
	if err != nil {
		return false, &RequestError{Request: "GetSelectionOwner", Err: err}
	}
	return owner.Owner != xproto.WindowNone, nil
}
