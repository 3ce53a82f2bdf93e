package tape

import (
	"fmt"
	"unicode/utf8"

	"github.com/charmbracelet/x/ansi"
)

// namedKeys holds what a VT220 style keyboard sends for each named key
// in normal cursor key mode.
var namedKeys = map[string]string{
	"Enter":     "\r",
	"Space":     " ",
	"Backspace": string(rune(ansi.DEL)),
	"Delete":    "\x1b[3~",
	"Tab":       "\t",
	"Escape":    string(rune(ansi.ESC)),
	"Up":        "\x1b[A",
	"Down":      "\x1b[B",
	"Right":     "\x1b[C",
	"Left":      "\x1b[D",
	"Home":      "\x1b[H",
	"End":       "\x1b[F",
	"PageUp":    "\x1b[5~",
	"PageDown":  "\x1b[6~",
}

// KeyBytes returns the bytes a keyboard sends for a named key.
func KeyBytes(name string) ([]byte, error) {
	seq, ok := namedKeys[name]
	if !ok {
		return nil, fmt.Errorf("unknown key: %s", name)
	}
	return []byte(seq), nil
}

// Bytes encodes the combo. Ctrl maps a letter or one of @[\]^_ to its C0
// control; Alt prefixes ESC.
func (kc KeyCombo) Bytes() ([]byte, error) {
	var key []byte
	if seq, ok := namedKeys[kc.Key]; ok {
		key = []byte(seq)
	} else {
		r, size := utf8.DecodeRuneInString(kc.Key)
		if r == utf8.RuneError || size != len(kc.Key) {
			return nil, fmt.Errorf("invalid key: %q", kc.Key)
		}
		key = []byte(kc.Key)
	}

	if kc.Ctrl {
		c, ok := controlFor(kc.Key)
		if !ok {
			return nil, fmt.Errorf("no control code for %s", kc)
		}
		key = []byte{c}
	}
	if kc.Alt {
		key = append([]byte{ansi.ESC}, key...)
	}
	return key, nil
}

func controlFor(key string) (byte, bool) {
	if key == "Space" {
		return ansi.NUL, true
	}
	if len(key) != 1 {
		return 0, false
	}
	c := key[0]
	switch {
	case c >= 'a' && c <= 'z':
		return c - 'a' + 1, true
	case c >= '@' && c <= '_':
		return c - '@', true
	case c == '?':
		return ansi.DEL, true
	}
	return 0, false
}
