package grid

// Mode is the bit set of terminal modes exported in snapshots. The bit
// layout is shared with hosts.
type Mode uint32

const (
	ModeShowCursor Mode = 1 << iota
	ModeAppCursor
	ModeAppKeypad
	ModeMouseReportClick
	ModeBracketedPaste
	ModeSGRMouse
	ModeMouseMotion
	ModeLineWrap
	ModeLineFeedNewLine
	ModeOrigin
	ModeInsert
	ModeFocusInOut
	ModeAltScreen
	ModeMouseDrag
	ModeUTF8Mouse
	ModeAlternateScroll
)

// ModeMouseAny is set when any mouse reporting mode is active.
const ModeMouseAny = ModeMouseReportClick | ModeMouseMotion | ModeMouseDrag

const defaultModes = ModeShowCursor | ModeLineWrap | ModeAlternateScroll

// SetMode turns an ANSI (private=false) or DEC private mode on or off.
// Unknown modes are ignored and reported as false.
func (g *Grid) SetMode(n int, private, on bool) bool {
	if !private {
		switch n {
		case 4:
			g.setFlag(ModeInsert, on)
		case 20:
			g.setFlag(ModeLineFeedNewLine, on)
		default:
			return false
		}
		return true
	}

	switch n {
	case 1:
		g.setFlag(ModeAppCursor, on)
	case 6:
		g.setFlag(ModeOrigin, on)
		g.moveTo(0, 0)
	case 7:
		g.setFlag(ModeLineWrap, on)
	case 12:
		// Cursor blink is left to the host.
	case 25:
		g.setFlag(ModeShowCursor, on)
	case 47, 1047:
		g.switchScreen(on, false)
	case 1048:
		if on {
			g.SaveCursor()
		} else {
			g.RestoreCursor()
		}
	case 1049:
		if on {
			g.SaveCursor()
			g.switchScreen(true, true)
		} else {
			g.switchScreen(false, false)
			g.RestoreCursor()
		}
	case 1000:
		g.setMouse(ModeMouseReportClick, on)
	case 1002:
		g.setMouse(ModeMouseDrag, on)
	case 1003:
		g.setMouse(ModeMouseMotion, on)
	case 1004:
		g.setFlag(ModeFocusInOut, on)
	case 1005:
		g.setFlag(ModeUTF8Mouse, on)
	case 1006:
		g.setFlag(ModeSGRMouse, on)
	case 1007:
		g.setFlag(ModeAlternateScroll, on)
	case 2004:
		g.setFlag(ModeBracketedPaste, on)
	default:
		return false
	}
	return true
}

func (g *Grid) setFlag(m Mode, on bool) {
	if on {
		g.modes |= m
	} else {
		g.modes &^= m
	}
}

// Mouse tracking modes are mutually exclusive.
func (g *Grid) setMouse(m Mode, on bool) {
	if on {
		g.modes &^= ModeMouseAny
	}
	g.setFlag(m, on)
}

// SetKeypadApplication toggles DECKPAM/DECKPNM.
func (g *Grid) SetKeypadApplication(on bool) {
	g.setFlag(ModeAppKeypad, on)
}

// SetCursorStyle applies a DECSCUSR style. Blinking and steady variants
// map to the same shape.
func (g *Grid) SetCursorStyle(style int) {
	switch style {
	case 0, 1, 2:
		g.cursor.Shape = CursorBlock
	case 3, 4:
		g.cursor.Shape = CursorUnderline
	case 5, 6:
		g.cursor.Shape = CursorBeam
	}
}

func (g *Grid) switchScreen(alt, clear bool) {
	if alt == g.alt() {
		return
	}
	g.cursor.WrapPending = false
	if alt {
		g.screen = g.alternate
		g.modes |= ModeAltScreen
		g.displayOffset = 0
		if clear {
			for i := range g.screen {
				g.screen[i].fill(g.blank())
			}
		}
	} else {
		g.screen = g.primary
		g.modes &^= ModeAltScreen
	}
	g.regionDirty = true
}

func (g *Grid) alt() bool {
	return g.modes&ModeAltScreen != 0
}
