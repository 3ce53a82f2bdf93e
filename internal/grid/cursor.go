package grid

// moveTo positions the cursor at a 0-based row and column, relative to the
// scroll region in origin mode, clamping into bounds.
func (g *Grid) moveTo(row, col int) {
	minRow, maxRow := 0, g.rows-1
	if g.modes&ModeOrigin != 0 {
		row += g.top
		minRow, maxRow = g.top, g.bottom-1
	}
	g.cursor.Row = min(max(row, minRow), maxRow)
	g.cursor.Col = min(max(col, 0), g.cols-1)
	g.cursor.WrapPending = false
}

// Goto implements CUP: row and col are 1-based.
func (g *Grid) Goto(row, col int) {
	g.moveTo(row-1, col-1)
}

// GotoColumn implements CHA: col is 1-based.
func (g *Grid) GotoColumn(col int) {
	g.cursor.Col = min(max(col-1, 0), g.cols-1)
	g.cursor.WrapPending = false
}

// GotoRow implements VPA: row is 1-based.
func (g *Grid) GotoRow(row int) {
	g.moveTo(row-1, g.cursor.Col)
}

// MoveUp moves the cursor up n rows, stopping at the top margin when the
// cursor starts inside the scroll region.
func (g *Grid) MoveUp(n int) {
	limit := 0
	if g.cursor.Row >= g.top {
		limit = g.top
	}
	g.cursor.Row = max(g.cursor.Row-n, limit)
	g.cursor.WrapPending = false
}

// MoveDown moves the cursor down n rows, stopping at the bottom margin when
// the cursor starts inside the scroll region.
func (g *Grid) MoveDown(n int) {
	limit := g.rows - 1
	if g.cursor.Row < g.bottom {
		limit = g.bottom - 1
	}
	g.cursor.Row = min(g.cursor.Row+n, limit)
	g.cursor.WrapPending = false
}

// MoveForward moves the cursor right n columns.
func (g *Grid) MoveForward(n int) {
	g.cursor.Col = min(g.cursor.Col+n, g.cols-1)
	g.cursor.WrapPending = false
}

// MoveBackward moves the cursor left n columns.
func (g *Grid) MoveBackward(n int) {
	g.cursor.Col = max(g.cursor.Col-n, 0)
	g.cursor.WrapPending = false
}

// Backspace moves the cursor one column left.
func (g *Grid) Backspace() {
	g.MoveBackward(1)
}

// CarriageReturn moves the cursor to column 0.
func (g *Grid) CarriageReturn() {
	g.cursor.Col = 0
	g.cursor.WrapPending = false
}

// SaveCursor implements DECSC for the active screen.
func (g *Grid) SaveCursor() {
	g.saved[g.screenIndex()] = savedCursor{
		row:         g.cursor.Row,
		col:         g.cursor.Col,
		pen:         g.pen,
		origin:      g.modes&ModeOrigin != 0,
		wrapPending: g.cursor.WrapPending,
		charsets:    g.charsets,
		gl:          g.gl,
		valid:       true,
	}
}

// RestoreCursor implements DECRC. Without a saved state the cursor goes
// home with default attributes.
func (g *Grid) RestoreCursor() {
	s := g.saved[g.screenIndex()]
	if !s.valid {
		s = savedCursor{charsets: [4]Charset{CharsetASCII, CharsetASCII, CharsetASCII, CharsetASCII}}
	}
	g.pen = s.pen
	g.setFlag(ModeOrigin, s.origin)
	g.charsets = s.charsets
	g.gl = s.gl
	g.cursor.Row = min(max(s.row, 0), g.rows-1)
	g.cursor.Col = min(max(s.col, 0), g.cols-1)
	g.cursor.WrapPending = s.wrapPending && g.cursor.Col == g.cols-1
}

func (g *Grid) resetTabs() {
	g.tabs = make([]bool, g.cols)
	for i := 8; i < g.cols; i += 8 {
		g.tabs[i] = true
	}
}

// Tab advances the cursor to the n-th next tab stop or the last column.
func (g *Grid) Tab(n int) {
	col := g.cursor.Col
	for ; n > 0 && col < g.cols-1; n-- {
		col++
		for col < g.cols-1 && !g.tabs[col] {
			col++
		}
	}
	g.cursor.Col = col
	g.cursor.WrapPending = false
}

// BackTab moves the cursor to the n-th previous tab stop or column 0.
func (g *Grid) BackTab(n int) {
	col := g.cursor.Col
	for ; n > 0 && col > 0; n-- {
		col--
		for col > 0 && !g.tabs[col] {
			col--
		}
	}
	g.cursor.Col = col
	g.cursor.WrapPending = false
}

// SetTabStop sets a tab stop at the cursor column.
func (g *Grid) SetTabStop() {
	g.tabs[g.cursor.Col] = true
}

// ClearTabStop implements TBC: 0 clears the stop at the cursor, 3 clears all.
func (g *Grid) ClearTabStop(mode int) {
	switch mode {
	case 0:
		g.tabs[g.cursor.Col] = false
	case 3:
		clear(g.tabs)
	}
}
