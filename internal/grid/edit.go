package grid

// Index moves the cursor down one row, scrolling the region up when the
// cursor is on the bottom margin (IND).
func (g *Grid) Index() {
	g.cursor.WrapPending = false
	switch {
	case g.cursor.Row == g.bottom-1:
		g.scrollUp(g.top, g.bottom, 1, true)
	case g.cursor.Row < g.rows-1:
		g.cursor.Row++
	}
}

// LineFeed is Index plus a carriage return in linefeed/newline mode.
func (g *Grid) LineFeed() {
	g.Index()
	if g.modes&ModeLineFeedNewLine != 0 {
		g.cursor.Col = 0
	}
}

// NextLine implements NEL.
func (g *Grid) NextLine() {
	g.Index()
	g.cursor.Col = 0
}

// ReverseIndex moves the cursor up one row, scrolling the region down when
// the cursor is on the top margin (RI).
func (g *Grid) ReverseIndex() {
	g.cursor.WrapPending = false
	switch {
	case g.cursor.Row == g.top:
		g.scrollDown(g.top, g.bottom, 1)
	case g.cursor.Row > 0:
		g.cursor.Row--
	}
}

// ScrollUp implements SU.
func (g *Grid) ScrollUp(n int) {
	g.scrollUp(g.top, g.bottom, n, true)
}

// ScrollDown implements SD.
func (g *Grid) ScrollDown(n int) {
	g.scrollDown(g.top, g.bottom, n)
}

// InsertLines implements IL. It has no effect outside the scroll region.
func (g *Grid) InsertLines(n int) {
	if g.cursor.Row < g.top || g.cursor.Row >= g.bottom {
		return
	}
	g.scrollDown(g.cursor.Row, g.bottom, n)
	g.cursor.Col = 0
	g.cursor.WrapPending = false
}

// DeleteLines implements DL. It has no effect outside the scroll region.
func (g *Grid) DeleteLines(n int) {
	if g.cursor.Row < g.top || g.cursor.Row >= g.bottom {
		return
	}
	g.scrollUp(g.cursor.Row, g.bottom, n, false)
	g.cursor.Col = 0
	g.cursor.WrapPending = false
}

// scrollUp moves rows [top, bottom) up by n, blanking the rows that enter
// at the bottom. Rows leaving a full-screen region of the primary screen
// go to scrollback when toHistory is set.
func (g *Grid) scrollUp(top, bottom, n int, toHistory bool) {
	n = min(n, bottom-top)
	if n <= 0 {
		return
	}
	if toHistory && top == 0 && bottom == g.rows && !g.alt() {
		for i := 0; i < n; i++ {
			g.pushHistory(g.screen[i])
		}
	} else {
		g.regionDirty = true
	}

	lines := g.screen[top:bottom]
	out := make([]Line, n)
	copy(out, lines[:n])
	copy(lines, lines[n:])
	copy(lines[len(lines)-n:], out)
	for i := len(lines) - n; i < len(lines); i++ {
		lines[i].fill(g.blank())
	}
}

// scrollDown moves rows [top, bottom) down by n, blanking the rows that
// enter at the top.
func (g *Grid) scrollDown(top, bottom, n int) {
	n = min(n, bottom-top)
	if n <= 0 {
		return
	}
	g.regionDirty = true

	lines := g.screen[top:bottom]
	out := make([]Line, n)
	copy(out, lines[len(lines)-n:])
	copy(lines[n:], lines[:len(lines)-n])
	copy(lines, out)
	for i := 0; i < n; i++ {
		lines[i].fill(g.blank())
	}
}

// SetScrollRegion implements DECSTBM with 1-based margins; zero selects
// the default. Invalid regions are ignored. The cursor moves home.
func (g *Grid) SetScrollRegion(top, bottom int) {
	if top <= 0 {
		top = 1
	}
	if bottom <= 0 || bottom > g.rows {
		bottom = g.rows
	}
	if top >= bottom {
		return
	}
	g.top, g.bottom = top-1, bottom
	g.moveTo(0, 0)
}

// ScrollRegion returns the 0-based scroll margins [top, bottom).
func (g *Grid) ScrollRegion() (top, bottom int) {
	return g.top, g.bottom
}

// eraseCells blanks cells [from, to) of row, splitting wide glyphs that
// straddle either edge.
func (g *Grid) eraseCells(row, from, to int) {
	line := g.screen[row].Cells
	from, to = max(from, 0), min(to, len(line))
	if from >= to {
		return
	}
	g.splitWide(line, from)
	g.splitWide(line, to-1)
	blank := g.blank()
	for i := from; i < to; i++ {
		line[i] = blank
	}
}

// EraseDisplay implements ED: 0 below, 1 above, 2 all, 3 scrollback.
func (g *Grid) EraseDisplay(mode int) {
	row, col := g.cursor.Row, g.cursor.Col
	switch mode {
	case 0:
		g.eraseCells(row, col, g.cols)
		g.screen[row].Wrapped = false
		for r := row + 1; r < g.rows; r++ {
			g.screen[r].fill(g.blank())
		}
	case 1:
		for r := 0; r < row; r++ {
			g.screen[r].fill(g.blank())
		}
		g.eraseCells(row, 0, col+1)
	case 2:
		for r := range g.screen {
			g.screen[r].fill(g.blank())
		}
	case 3:
		g.ClearHistory()
	default:
		return
	}
	g.cursor.WrapPending = false
}

// EraseLine implements EL: 0 right of cursor, 1 left, 2 whole line.
func (g *Grid) EraseLine(mode int) {
	row, col := g.cursor.Row, g.cursor.Col
	switch mode {
	case 0:
		g.eraseCells(row, col, g.cols)
		g.screen[row].Wrapped = false
	case 1:
		g.eraseCells(row, 0, col+1)
	case 2:
		g.screen[row].fill(g.blank())
	default:
		return
	}
	g.cursor.WrapPending = false
}

// EraseChars implements ECH.
func (g *Grid) EraseChars(n int) {
	g.eraseCells(g.cursor.Row, g.cursor.Col, g.cursor.Col+n)
	g.cursor.WrapPending = false
}

// InsertChars implements ICH.
func (g *Grid) InsertChars(n int) {
	line := g.screen[g.cursor.Row].Cells
	g.splitWide(line, g.cursor.Col)
	g.shiftRight(line, g.cursor.Col, n)
	blank := g.blank()
	for i := g.cursor.Col; i < min(g.cursor.Col+n, g.cols); i++ {
		line[i] = blank
	}
	g.cursor.WrapPending = false
}

// DeleteChars implements DCH.
func (g *Grid) DeleteChars(n int) {
	line := g.screen[g.cursor.Row].Cells
	col := g.cursor.Col
	n = min(n, g.cols-col)
	g.splitWide(line, col)
	g.splitWide(line, col+n-1)
	copy(line[col:], line[col+n:])
	blank := g.blank()
	for i := g.cols - n; i < g.cols; i++ {
		line[i] = blank
	}
	g.cursor.WrapPending = false
}

// shiftRight moves cells [col, cols-n) right by n. A wide glyph cut at the
// right edge is blanked.
func (g *Grid) shiftRight(line []Cell, col, n int) {
	if n <= 0 || col >= len(line) {
		return
	}
	if n < len(line)-col {
		copy(line[col+n:], line[col:len(line)-n])
	}
	if last := &line[len(line)-1]; last.Flags&FlagWideLead != 0 {
		*last = g.blank()
	}
}

// AlignmentTest implements DECALN: fill the screen with 'E'.
func (g *Grid) AlignmentTest() {
	g.top, g.bottom = 0, g.rows
	for r := range g.screen {
		line := &g.screen[r]
		line.Wrapped = false
		for c := range line.Cells {
			line.Cells[c] = Cell{Rune: 'E'}
		}
	}
	g.moveTo(0, 0)
	g.regionDirty = true
}
