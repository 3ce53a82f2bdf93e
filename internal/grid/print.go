package grid

// Print writes r at the cursor using the current pen and advances the
// cursor, wrapping when autowrap is on.
func (g *Grid) Print(r rune) {
	r = g.translate(r)
	w := width.RuneWidth(r)
	if w == 0 {
		// Combining marks are not composed onto the previous cell.
		return
	}
	if w > 2 {
		w = 2
	}
	if w == 2 && g.cols < 2 {
		return
	}
	g.lastRune = r
	g.put(r, w)
}

// Repeat implements REP: the last printed glyph is written n more times.
func (g *Grid) Repeat(n int) {
	if g.lastRune == 0 {
		return
	}
	w := min(width.RuneWidth(g.lastRune), 2)
	if w == 2 && g.cols < 2 {
		return
	}
	n = min(n, g.rows*g.cols)
	for ; n > 0; n-- {
		g.put(g.lastRune, w)
	}
}

func (g *Grid) put(r rune, w int) {
	autowrap := g.modes&ModeLineWrap != 0
	if g.cursor.WrapPending {
		g.wrap()
	}
	if w == 2 && g.cursor.Col == g.cols-1 {
		if !autowrap {
			return
		}
		g.eraseCells(g.cursor.Row, g.cursor.Col, g.cols)
		g.wrap()
	}

	row, col := g.cursor.Row, g.cursor.Col
	line := g.screen[row].Cells

	g.splitWide(line, col)
	if g.modes&ModeInsert != 0 {
		g.shiftRight(line, col, w)
	} else if w == 2 {
		g.splitWide(line, col+1)
	}

	cell := g.pen
	cell.Rune = r
	if w == 2 {
		cell.Flags |= FlagWideLead
		spacer := g.pen
		spacer.Flags |= FlagWideSpacer
		line[col+1] = spacer
	}
	line[col] = cell

	if next := col + w; next < g.cols {
		g.cursor.Col = next
	} else {
		g.cursor.Col = g.cols - 1
		g.cursor.WrapPending = autowrap
	}
}

func (g *Grid) wrap() {
	g.screen[g.cursor.Row].Wrapped = true
	g.cursor.Col = 0
	g.cursor.WrapPending = false
	g.Index()
}

// splitWide blanks the other half of a wide glyph that overlaps col, so
// overwriting one half never leaves a lead without its spacer or a
// spacer without its lead.
func (g *Grid) splitWide(line []Cell, col int) {
	c := line[col]
	switch {
	case c.Flags&FlagWideSpacer != 0 && col > 0:
		lead := &line[col-1]
		lead.Rune = 0
		lead.Flags &^= FlagWideLead
		line[col].Flags &^= FlagWideSpacer
	case c.Flags&FlagWideLead != 0 && col+1 < len(line):
		sp := &line[col+1]
		sp.Flags &^= FlagWideSpacer
		line[col].Flags &^= FlagWideLead
		line[col].Rune = 0
	}
}

// DesignateCharset assigns charset c to slot (0..3 for G0..G3).
func (g *Grid) DesignateCharset(slot int, c rune) {
	if slot < 0 || slot > 3 {
		return
	}
	switch Charset(c) {
	case CharsetDECGraphics:
		g.charsets[slot] = CharsetDECGraphics
	default:
		g.charsets[slot] = CharsetASCII
	}
}

// ShiftOut invokes G1 into GL.
func (g *Grid) ShiftOut() { g.gl = 1 }

// ShiftIn invokes G0 into GL.
func (g *Grid) ShiftIn() { g.gl = 0 }

func (g *Grid) translate(r rune) rune {
	if g.charsets[g.gl] != CharsetDECGraphics || r < 0x5f || r > 0x7e {
		return r
	}
	return decGraphics[r-0x5f]
}

var decGraphics = [...]rune{
	' ', '◆', '▒', '␉', '␌', '␍', '␊', '°', '±', '␤', '␋', '┘', '┐', '┌', '└', '┼',
	'⎺', '⎻', '─', '⎼', '⎽', '├', '┤', '┴', '┬', '│', '≤', '≥', 'π', '≠', '£', '·',
}
