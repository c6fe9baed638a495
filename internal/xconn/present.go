package xconn

import (
	"fmt"
	"image"

	"github.com/jezek/xgb/xproto"
)

// putImageHeader is the fixed size of a PutImage request in bytes.
const putImageHeader = 24

// Present uploads img to the window as a 32-bit ZPixmap. img must be
// premultiplied, as image.RGBA is; compositors read ARGB windows that
// way. Rows are sent in as many requests as the server's maximum request
// length requires. The requests are unchecked; server errors surface
// through Poller.Poll.
func (w *Window) Present(img *image.RGBA) error {
	b := img.Bounds().Intersect(image.Rect(0, 0, w.Width, w.Height))
	if b.Empty() {
		return nil
	}
	setup := w.conn.Setup
	rows := RowsPerRequest(b.Dx(), int(setup.MaximumRequestLength))
	if rows == 0 {
		return fmt.Errorf("row of %d pixels exceeds the maximum request length", b.Dx())
	}

	put := w.put
	if put == nil {
		put = w.putImage
	}
	buf := make([]byte, b.Dx()*rows*4)
	for y := b.Min.Y; y < b.Max.Y; y += rows {
		chunk := image.Rect(b.Min.X, y, b.Max.X, min(y+rows, b.Max.Y))
		data := PackPixels(buf, img, chunk, setup.ImageByteOrder)
		put(chunk, data)
	}
	return nil
}

// putImage queues one ZPixmap request without waiting for a reply.
func (w *Window) putImage(r image.Rectangle, data []byte) {
	xproto.PutImage(w.conn.X, xproto.ImageFormatZPixmap,
		xproto.Drawable(w.ID), w.GC,
		uint16(r.Dx()), uint16(r.Dy()),
		int16(r.Min.X), int16(r.Min.Y),
		0, argbDepth, data)
}

// RowsPerRequest returns how many rows of width 32-bit pixels fit in one
// PutImage request when the server accepts at most maxRequestLength
// 4-byte units.
func RowsPerRequest(width, maxRequestLength int) int {
	if width <= 0 {
		return 0
	}
	return (maxRequestLength*4 - putImageHeader) / (width * 4)
}

// PackPixels converts the r part of img into 32-bit pixels in the given
// image byte order, reusing buf when it is large enough. LSB-first
// servers take B, G, R, A per pixel; MSB-first servers take A, R, G, B.
func PackPixels(buf []byte, img *image.RGBA, r image.Rectangle, byteOrder byte) []byte {
	n := r.Dx() * r.Dy() * 4
	if cap(buf) < n {
		buf = make([]byte, n)
	}
	buf = buf[:n]

	i := 0
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := img.Pix[img.PixOffset(r.Min.X, y):img.PixOffset(r.Max.X, y)]
		for p := 0; p < len(row); p += 4 {
			cr, cg, cb, ca := row[p], row[p+1], row[p+2], row[p+3]
			if byteOrder == xproto.ImageOrderMSBFirst {
				buf[i], buf[i+1], buf[i+2], buf[i+3] = ca, cr, cg, cb
			} else {
				buf[i], buf[i+1], buf[i+2], buf[i+3] = cb, cg, cr, ca
			}
			i += 4
		}
	}
	return buf
}
