package xconn

import (
	"fmt"
	"image"

	"github.com/jezek/xgb/xproto"
)

// argbDepth is the depth of a visual with an alpha channel.
const argbDepth = 32

// FindARGBVisual returns the first 32-bit TrueColor visual of screen.
func FindARGBVisual(screen *xproto.ScreenInfo) (xproto.Visualid, error) {
	for _, d := range screen.AllowedDepths {
		if d.Depth != argbDepth {
			continue
		}
		for _, v := range d.Visuals {
			if v.Class == xproto.VisualClassTrueColor {
				return v.VisualId, nil
			}
		}
	}
	return 0, ErrNoARGBVisual
}

// Placement centers a width x height window horizontally on the screen
// with its bottom edge margin pixels above the screen bottom.
func Placement(screenW, screenH, width, height, margin int) (x, y int) {
	return (screenW - width) / 2, screenH - height - margin
}

// WindowOptions describes the overlay window.
type WindowOptions struct {
	Width, Height int
	// BottomMargin is the gap between the window and the screen bottom.
	BottomMargin int
}

// Window is a mapped 32-bit override-redirect window with its graphics
// context.
type Window struct {
	conn *Conn

	ID       xproto.Window
	GC       xproto.Gcontext
	Colormap xproto.Colormap
	Width    int
	Height   int

	// put replaces the PutImage request in tests.
	put func(r image.Rectangle, data []byte)
}

// overlayEventMask selects the events decoded by Poller.
const overlayEventMask = xproto.EventMaskExposure |
	xproto.EventMaskKeyPress |
	xproto.EventMaskButtonPress |
	xproto.EventMaskButtonRelease |
	xproto.EventMaskPointerMotion

// CreateOverlay creates, marks as a dock and maps the panel window.
// Running out of resource ids or finding no ARGB visual is fatal. Errors
// acknowledged by the server for the colormap, window and property
// requests are logged and creation continues.
func (c *Conn) CreateOverlay(opts WindowOptions) (*Window, error) {
	if opts.Width <= 0 || opts.Height <= 0 || opts.Width > 0xffff || opts.Height > 0xffff {
		return nil, fmt.Errorf("invalid window size %dx%d", opts.Width, opts.Height)
	}
	screen := c.Screen

	visual, err := FindARGBVisual(screen)
	if err != nil {
		return nil, err
	}

	cmap, err := xproto.NewColormapId(c.X)
	if err != nil {
		return nil, fmt.Errorf("allocate colormap id: %w", err)
	}
	err = xproto.CreateColormapChecked(c.X, xproto.ColormapAllocNone, cmap, screen.Root, visual).Check()
	if err != nil {
		c.logger.Warn("create colormap failed", "error", &RequestError{Request: "CreateColormap", Err: err})
	}

	wid, err := xproto.NewWindowId(c.X)
	if err != nil {
		return nil, fmt.Errorf("allocate window id: %w", err)
	}

	x, y := Placement(int(screen.WidthInPixels), int(screen.HeightInPixels), opts.Width, opts.Height, opts.BottomMargin)

	// Value list order follows the mask bits, lowest first.
	err = xproto.CreateWindowChecked(c.X, argbDepth, wid, screen.Root,
		int16(x), int16(y), uint16(opts.Width), uint16(opts.Height), 0,
		xproto.WindowClassInputOutput, visual,
		xproto.CwBackPixel|xproto.CwBorderPixel|xproto.CwOverrideRedirect|xproto.CwEventMask|xproto.CwColormap,
		[]uint32{
			0,
			0,
			1,
			overlayEventMask,
			uint32(cmap),
		}).Check()
	if err != nil {
		c.logger.Warn("create window failed", "error", &RequestError{Request: "CreateWindow", Err: err})
	}

	if err := c.SetAtoms(wid, "_NET_WM_WINDOW_TYPE", "_NET_WM_WINDOW_TYPE_DOCK"); err != nil {
		c.logger.Warn("set window type failed", "error", err)
	}

	if err := xproto.MapWindowChecked(c.X, wid).Check(); err != nil {
		return nil, &RequestError{Request: "MapWindow", Err: err}
	}

	gc, err := xproto.NewGcontextId(c.X)
	if err != nil {
		return nil, fmt.Errorf("allocate gc id: %w", err)
	}
	if err := xproto.CreateGCChecked(c.X, gc, xproto.Drawable(wid), 0, nil).Check(); err != nil {
		return nil, &RequestError{Request: "CreateGC", Err: err}
	}

	c.logger.Info("overlay window mapped",
		"window", uint32(wid),
		"x", x, "y", y,
		"width", opts.Width, "height", opts.Height,
	)
	return &Window{
		conn:     c,
		ID:       wid,
		GC:       gc,
		Colormap: cmap,
		Width:    opts.Width,
		Height:   opts.Height,
	}, nil
}

// Destroy frees the window and its server resources.
func (w *Window) Destroy() {
	xproto.FreeGC(w.conn.X, w.GC)
	xproto.DestroyWindow(w.conn.X, w.ID)
	xproto.FreeColormap(w.conn.X, w.Colormap)
	// Round trip so the requests are flushed before the connection closes.
	xproto.GetInputFocus(w.conn.X).Reply()
}
