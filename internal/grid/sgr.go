package grid

import "github.com/Gaurav-Gosain/termcore/internal/vt"

// SetGraphics applies Select Graphic Rendition parameters to the pen.
// An empty parameter list resets it.
func (g *Grid) SetGraphics(params vt.Params) {
	pen := &g.pen
	if len(params) == 0 {
		*pen = Cell{}
		return
	}

	for i := 0; i < len(params); i++ {
		if params[i].Sub {
			// Stray sub-parameter of something already handled.
			continue
		}
		param := params.Get(i, 0)
		switch param {
		case 0: // Reset
			*pen = Cell{}
		case 1: // Bold
			pen.Flags |= FlagBold
		case 2: // Dim/Faint
			pen.Flags |= FlagDim
		case 3: // Italic
			pen.Flags |= FlagItalic
		case 4: // Underline, 4:0 turns it off
			if i+1 < len(params) && params[i+1].Sub {
				i++
				if params.Get(i, 1) == 0 {
					pen.Flags &^= FlagUnderline
					continue
				}
			}
			pen.Flags |= FlagUnderline
		case 7: // Reverse
			pen.Flags |= FlagInverse
		case 8: // Conceal
			pen.Flags |= FlagHidden
		case 9: // Crossed-out
			pen.Flags |= FlagStrikeout
		case 21: // Double underline
			pen.Flags |= FlagUnderline
		case 22: // Normal intensity
			pen.Flags &^= FlagBold | FlagDim
		case 23: // Not italic
			pen.Flags &^= FlagItalic
		case 24: // Not underlined
			pen.Flags &^= FlagUnderline
		case 27: // Not reversed
			pen.Flags &^= FlagInverse
		case 28: // Reveal
			pen.Flags &^= FlagHidden
		case 29: // Not crossed out
			pen.Flags &^= FlagStrikeout
		case 30, 31, 32, 33, 34, 35, 36, 37:
			pen.Fg = Indexed(uint8(param - 30))
		case 38:
			c, n, ok := readColor(params, i)
			if ok {
				pen.Fg = c
			}
			i += n - 1
		case 39:
			pen.Fg = DefaultColor
		case 40, 41, 42, 43, 44, 45, 46, 47:
			pen.Bg = Indexed(uint8(param - 40))
		case 48:
			c, n, ok := readColor(params, i)
			if ok {
				pen.Bg = c
			}
			i += n - 1
		case 49:
			pen.Bg = DefaultColor
		case 58: // Underline colour is not tracked; skip its arguments.
			_, n, _ := readColor(params, i)
			i += n - 1
		case 90, 91, 92, 93, 94, 95, 96, 97:
			pen.Fg = Indexed(uint8(param - 90 + 8))
		case 100, 101, 102, 103, 104, 105, 106, 107:
			pen.Bg = Indexed(uint8(param - 100 + 8))
		}
	}
}

// readColor decodes an extended colour starting at params[i] (38, 48 or
// 58). It accepts both "38;5;n" / "38;2;r;g;b" and the colon forms
// "38:5:n" / "38:2:[cs]:r:g:b". n is the number of parameters consumed,
// including params[i].
func readColor(params vt.Params, i int) (c Color, n int, ok bool) {
	if i+1 >= len(params) {
		return 0, 1, false
	}

	if params[i+1].Sub {
		j := i + 1
		for j < len(params) && params[j].Sub {
			j++
		}
		sub := params[i+1 : j]
		n = j - i
		switch sub.Get(0, -1) {
		case 5:
			if len(sub) >= 2 {
				return Indexed(channel(sub.Get(1, 0))), n, true
			}
		case 2:
			// An optional colour space id precedes the channels.
			if len(sub) >= 4 {
				k := len(sub) - 3
				return RGB(channel(sub.Get(k, 0)), channel(sub.Get(k+1, 0)), channel(sub.Get(k+2, 0))), n, true
			}
		}
		return 0, n, false
	}

	switch params.Get(i+1, -1) {
	case 5:
		if i+2 < len(params) {
			return Indexed(channel(params.Get(i+2, 0))), 3, true
		}
	case 2:
		if i+4 < len(params) {
			return RGB(channel(params.Get(i+2, 0)), channel(params.Get(i+3, 0)), channel(params.Get(i+4, 0))), 5, true
		}
	}
	return 0, len(params) - i, false
}

func channel(v int) uint8 {
	return uint8(min(max(v, 0), 255))
}
