package grid

// Resize changes the grid to cols×rows without reflowing text.
//
// Columns are truncated or padded per row. When rows shrink, rows above
// the cursor that no longer fit are pushed into scrollback (primary screen
// only) and rows below the cursor are dropped. The cursor, saved cursors
// and the viewport offset are clamped and the scroll region is reset.
func (g *Grid) Resize(cols, rows int) {
	cols, rows = max(cols, 1), max(rows, 1)
	if cols == g.cols && rows == g.rows {
		return
	}

	primaryRow, altRow := g.cursor.Row, g.cursor.Row
	if g.alt() {
		primaryRow = g.saved[0].row
	} else if g.saved[1].valid {
		altRow = g.saved[1].row
	}

	shift := 0
	g.primary, shift = g.resizeScreen(g.primary, cols, rows, primaryRow, !g.alt(), true)
	if !g.alt() {
		g.cursor.Row -= shift
	} else {
		g.saved[0].row -= shift
	}
	g.alternate, shift = g.resizeScreen(g.alternate, cols, rows, altRow, g.alt(), false)
	if g.alt() {
		g.cursor.Row -= shift
	}
	if g.alt() {
		g.screen = g.alternate
	} else {
		g.screen = g.primary
	}

	oldCols := g.cols
	g.cols, g.rows = cols, rows

	g.cursor.Row = min(max(g.cursor.Row, 0), rows-1)
	g.cursor.Col = min(max(g.cursor.Col, 0), cols-1)
	g.cursor.WrapPending = false
	for i := range g.saved {
		g.saved[i].row = min(max(g.saved[i].row, 0), rows-1)
		g.saved[i].col = min(max(g.saved[i].col, 0), cols-1)
	}

	g.top, g.bottom = 0, rows

	tabs := make([]bool, cols)
	copy(tabs, g.tabs)
	for i := oldCols; i < cols; i++ {
		tabs[i] = i > 0 && i%8 == 0
	}
	g.tabs = tabs

	g.displayOffset = min(g.displayOffset, g.HistoryLen())
}

// resizeScreen resizes one screen. cursorRow is the row of the cursor on
// that screen; shift reports how many rows were removed from the top.
func (g *Grid) resizeScreen(lines []Line, cols, rows, cursorRow int, active, primary bool) ([]Line, int) {
	shift := 0
	if rows < len(lines) {
		shift = max(0, cursorRow-(rows-1))
		for i := 0; i < shift; i++ {
			if primary {
				g.history.PushLine(lines[i])
				if active {
					g.scrolled++
				}
			}
		}
		lines = lines[shift : shift+rows]
		lines = append([]Line(nil), lines...)
	}
	for i := range lines {
		lines[i].resize(cols)
	}
	for len(lines) < rows {
		lines = append(lines, newLine(cols, Cell{}))
	}
	return lines, shift
}
