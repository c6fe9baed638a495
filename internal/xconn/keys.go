package xconn

import (
	"fmt"

	"github.com/jezek/xgb/xproto"
)

// Keymap resolves keycodes to keysyms using the server's keyboard
// mapping, fetched once.
type Keymap struct {
	minKeycode xproto.Keycode
	perKeycode int
	keysyms    []xproto.Keysym
}

// LoadKeymap fetches the keyboard mapping for every keycode the server
// reports.
func (c *Conn) LoadKeymap() (*Keymap, error) {
	first, last := c.Setup.MinKeycode, c.Setup.MaxKeycode
	count := byte(last - first + 1)
	reply, err := xproto.GetKeyboardMapping(c.X, first, count).Reply()
	if err != nil {
		return nil, &RequestError{Request: "GetKeyboardMapping", Err: err}
	}
	return NewKeymap(first, int(reply.KeysymsPerKeycode), reply.Keysyms), nil
}

// NewKeymap builds a keymap from a GetKeyboardMapping result starting at
// minKeycode with perKeycode keysyms for each keycode.
func NewKeymap(minKeycode xproto.Keycode, perKeycode int, keysyms []xproto.Keysym) *Keymap {
	return &Keymap{minKeycode: minKeycode, perKeycode: perKeycode, keysyms: keysyms}
}

// Lookup returns the first (unshifted) keysym of code, or 0 when the
// keycode is outside the mapping.
func (k *Keymap) Lookup(code xproto.Keycode) xproto.Keysym {
	if k == nil || k.perKeycode <= 0 || code < k.minKeycode {
		return 0
	}
	i := int(code-k.minKeycode) * k.perKeycode
	if i >= len(k.keysyms) {
		return 0
	}
	return k.keysyms[i]
}

// KeysymName returns the X keysym name of sym, e.g. "a", "Escape" or
// "XF86AudioRaiseVolume". Unknown keysyms are formatted in hex.
func KeysymName(sym xproto.Keysym) string {
	switch {
	case sym == 0:
		return "NoSymbol"
	case sym >= 'a' && sym <= 'z', sym >= 'A' && sym <= 'Z', sym >= '0' && sym <= '9':
		return string(rune(sym))
	case sym >= 0xffbe && sym <= 0xffc9:
		return fmt.Sprintf("F%d", sym-0xffbe+1)
	}
	if name, ok := keysymNames[sym]; ok {
		return name
	}
	return fmt.Sprintf("0x%x", uint32(sym))
}

var keysymNames = map[xproto.Keysym]string{
	0x0020: "space",
	0x0027: "apostrophe",
	0x002c: "comma",
	0x002d: "minus",
	0x002e: "period",
	0x002f: "slash",
	0x003b: "semicolon",
	0x003d: "equal",
	0x005b: "bracketleft",
	0x005c: "backslash",
	0x005d: "bracketright",
	0x0060: "grave",

	0xff08: "BackSpace",
	0xff09: "Tab",
	0xff0d: "Return",
	0xff13: "Pause",
	0xff1b: "Escape",
	0xff50: "Home",
	0xff51: "Left",
	0xff52: "Up",
	0xff53: "Right",
	0xff54: "Down",
	0xff55: "Prior",
	0xff56: "Next",
	0xff57: "End",
	0xff61: "Print",
	0xff63: "Insert",
	0xff67: "Menu",
	0xff7f: "Num_Lock",
	0xff8d: "KP_Enter",
	0xffab: "KP_Add",
	0xffad: "KP_Subtract",
	0xffe1: "Shift_L",
	0xffe2: "Shift_R",
	0xffe3: "Control_L",
	0xffe4: "Control_R",
	0xffe5: "Caps_Lock",
	0xffe9: "Alt_L",
	0xffea: "Alt_R",
	0xffeb: "Super_L",
	0xffec: "Super_R",
	0xffff: "Delete",

	0x1008ff02: "XF86MonBrightnessUp",
	0x1008ff03: "XF86MonBrightnessDown",
	0x1008ff11: "XF86AudioLowerVolume",
	0x1008ff12: "XF86AudioMute",
	0x1008ff13: "XF86AudioRaiseVolume",
	0x1008ff14: "XF86AudioPlay",
	0x1008ff15: "XF86AudioStop",
	0x1008ff16: "XF86AudioPrev",
	0x1008ff17: "XF86AudioNext",
	0x1008ffb2: "XF86AudioMicMute",
}
