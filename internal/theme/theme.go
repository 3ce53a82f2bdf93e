// Package theme resolves named colour themes into engine palettes.
package theme

import (
	"fmt"
	"image/color"
	"sync"

	tint "github.com/lrstanley/bubbletint/v2"

	"github.com/Gaurav-Gosain/termcore/internal/grid"
)

var (
	// The tint registry keeps a single current theme, so lookups are
	// serialised.
	mu       sync.Mutex
	initOnce sync.Once
)

// Palette returns the palette of the named theme. Colours a theme leaves
// unset keep the built-in defaults.
func Palette(name string) (grid.Palette, error) {
	mu.Lock()
	defer mu.Unlock()

	initOnce.Do(func() { tint.NewDefaultRegistry() })

	p := grid.DefaultPalette()
	if !tint.SetTintID(name) {
		return p, fmt.Errorf("unknown theme %q", name)
	}
	t := tint.Current()
	if t == nil {
		return p, fmt.Errorf("unknown theme %q", name)
	}

	p.Foreground = toRGB(t.Fg, p.Foreground)
	p.Background = toRGB(t.Bg, p.Background)
	p.Cursor = toRGB(t.Cursor, p.Foreground)

	ansi := [16]color.Color{
		t.Black, t.Red, t.Green, t.Yellow,
		t.Blue, t.Purple, t.Cyan, t.White,
		t.BrightBlack, t.BrightRed, t.BrightGreen, t.BrightYellow,
		t.BrightBlue, t.BrightPurple, t.BrightCyan, t.BrightWhite,
	}
	for i, c := range ansi {
		p.ANSI[i] = toRGB(c, p.ANSI[i])
	}
	return p, nil
}

func toRGB(c color.Color, fallback grid.RGB8) grid.RGB8 {
	if c == nil {
		return fallback
	}
	r, g, b, _ := c.RGBA()
	return grid.RGB8{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8)}
}
