package grid

import (
	"fmt"

	"github.com/charmbracelet/x/ansi"
	"github.com/lucasb-eyer/go-colorful"
)

// RGB8 is a resolved 8-bit per channel colour.
type RGB8 struct {
	R, G, B uint8
}

// Palette resolves cell colours to RGB. Entries 0-15 are configurable;
// 16-255 follow the xterm colour cube and grey ramp.
type Palette struct {
	ANSI       [16]RGB8
	Foreground RGB8
	Background RGB8
	Cursor     RGB8
}

// DefaultPalette returns the built-in colour scheme.
func DefaultPalette() Palette {
	p := Palette{
		Foreground: RGB8{0xef, 0xf0, 0xeb},
		Background: RGB8{0x15, 0x17, 0x28},
		Cursor:     RGB8{0xef, 0xf0, 0xeb},
	}
	for i, hex := range defaultANSI {
		p.ANSI[i] = mustHex(hex)
	}
	return p
}

var defaultANSI = [16]string{
	"#000000", "#cc0000", "#00cc00", "#cccc00",
	"#0000cc", "#cc00cc", "#00cccc", "#cccccc",
	"#555555", "#ff5555", "#55ff55", "#ffff55",
	"#5555ff", "#ff55ff", "#55ffff", "#ffffff",
}

// ParseHex parses a "#rrggbb" colour.
func ParseHex(s string) (RGB8, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return RGB8{}, fmt.Errorf("invalid colour %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return RGB8{r, g, b}, nil
}

func mustHex(s string) RGB8 {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Hex formats c as "#rrggbb".
func (c RGB8) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Indexed resolves palette entry i.
func (p *Palette) Indexed(i uint8) RGB8 {
	if i < 16 {
		return p.ANSI[i]
	}
	r, g, b, _ := ansi.IndexedColor(i).RGBA()
	return RGB8{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8)}
}

// Resolve maps c to RGB, using def for the default colour.
func (p *Palette) Resolve(c Color, def RGB8) RGB8 {
	if r, g, b, ok := c.Components(); ok {
		return RGB8{r, g, b}
	}
	if i, ok := c.Index(); ok {
		return p.Indexed(i)
	}
	return def
}
