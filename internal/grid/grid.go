package grid

import (
	"github.com/mattn/go-runewidth"
)

// width measures glyphs with a fixed condition so results do not depend on
// the locale of the process.
var width = func() *runewidth.Condition {
	c := runewidth.NewCondition()
	c.EastAsianWidth = false
	return c
}()

// Charset is a designated character set. Only ASCII and DEC special
// graphics are translated.
type Charset byte

const (
	CharsetASCII       Charset = 'B'
	CharsetDECGraphics Charset = '0'
)

type savedCursor struct {
	row, col    int
	pen         Cell
	origin      bool
	wrapPending bool
	charsets    [4]Charset
	gl          int
	valid       bool
}

// Grid is the screen model mutated by decoded terminal actions.
type Grid struct {
	rows, cols int

	primary   []Line
	alternate []Line
	screen    []Line
	history   *Scrollback

	cursor Cursor
	saved  [2]savedCursor
	pen    Cell
	modes  Mode

	// Scroll region rows [top, bottom).
	top, bottom int

	tabs     []bool
	charsets [4]Charset
	gl       int
	lastRune rune

	displayOffset int

	// Scroll bookkeeping consumed by TakeScroll.
	scrolled    int
	regionDirty bool
}

// New creates a cols×rows grid with a scrollback ring of the given
// capacity. Dimensions below one are raised to one.
func New(cols, rows, scrollback int) *Grid {
	cols, rows = max(cols, 1), max(rows, 1)
	g := &Grid{
		rows:    rows,
		cols:    cols,
		history: NewScrollback(scrollback),
	}
	g.primary = makeScreen(rows, cols)
	g.alternate = makeScreen(rows, cols)
	g.reset()
	return g
}

func makeScreen(rows, cols int) []Line {
	lines := make([]Line, rows)
	for i := range lines {
		lines[i] = newLine(cols, Cell{})
	}
	return lines
}

func (g *Grid) reset() {
	g.screen = g.primary
	for i := range g.primary {
		g.primary[i].fill(Cell{})
		g.alternate[i].fill(Cell{})
	}
	g.cursor = Cursor{}
	g.saved = [2]savedCursor{}
	g.pen = Cell{}
	g.modes = defaultModes
	g.top, g.bottom = 0, g.rows
	g.resetCharsets()
	g.resetTabs()
	g.lastRune = 0
	g.displayOffset = 0
	g.regionDirty = true
}

func (g *Grid) resetCharsets() {
	g.charsets = [4]Charset{CharsetASCII, CharsetASCII, CharsetASCII, CharsetASCII}
	g.gl = 0
}

// Rows returns the number of visible rows.
func (g *Grid) Rows() int { return g.rows }

// Cols returns the number of columns.
func (g *Grid) Cols() int { return g.cols }

// Cursor returns the cursor state.
func (g *Grid) Cursor() Cursor { return g.cursor }

// Modes returns the active mode bits.
func (g *Grid) Modes() Mode { return g.modes }

// Pen returns the template cell used for newly written glyphs.
func (g *Grid) Pen() Cell { return g.pen }

// History returns the scrollback ring.
func (g *Grid) History() *Scrollback { return g.history }

// HistoryLen returns the number of scrollback rows reachable from the
// active screen. The alternate screen has no history.
func (g *Grid) HistoryLen() int {
	if g.alt() {
		return 0
	}
	return g.history.Len()
}

// Line returns grid row i of the active screen. Rows 0..Rows()-1 are the
// live screen; negative rows address scrollback, -1 being the newest.
// History rows keep the width they had when they scrolled off.
func (g *Grid) Line(i int) Line {
	if i >= 0 {
		if i < g.rows {
			return g.screen[i]
		}
		return Line{}
	}
	n := g.HistoryLen()
	if -i > n {
		return Line{}
	}
	return g.history.Line(n + i)
}

// Cell returns the live cell at row, col or the zero Cell when out of range.
func (g *Grid) Cell(row, col int) Cell {
	if row < 0 || row >= g.rows || col < 0 || col >= g.cols {
		return Cell{}
	}
	return g.screen[row].Cells[col]
}

// DisplayOffset returns how many rows the viewport is scrolled back.
func (g *Grid) DisplayOffset() int { return g.displayOffset }

// ScrollDisplay moves the viewport by delta rows; positive scrolls back
// into history. The offset is clamped to the available history.
func (g *Grid) ScrollDisplay(delta int) {
	g.displayOffset = min(max(g.displayOffset+delta, 0), g.HistoryLen())
}

// ResetDisplay returns the viewport to the live screen.
func (g *Grid) ResetDisplay() {
	g.displayOffset = 0
}

// ViewLine returns viewport row i, taking the display offset into account.
func (g *Grid) ViewLine(i int) Line {
	return g.Line(i - g.displayOffset)
}

// TakeScroll reports how many rows of the active screen were pushed into
// scrollback since the last call, and whether content moved in any other
// way (a partial scroll region, a screen switch or a reset). Both
// counters are reset.
func (g *Grid) TakeScroll() (pushed int, disturbed bool) {
	pushed, disturbed = g.scrolled, g.regionDirty
	g.scrolled, g.regionDirty = 0, false
	return pushed, disturbed
}

func (g *Grid) blank() Cell {
	return Cell{Bg: g.pen.Bg}
}

func (g *Grid) pushHistory(l Line) {
	g.history.PushLine(l)
	g.scrolled++
	if g.displayOffset > 0 {
		g.displayOffset = min(g.displayOffset+1, g.history.Len())
	}
}

// ClearHistory drops all scrollback.
func (g *Grid) ClearHistory() {
	g.history.Clear()
	g.displayOffset = 0
	g.regionDirty = true
}

// SetScrollbackLimit changes the scrollback capacity.
func (g *Grid) SetScrollbackLimit(n int) {
	g.history.SetMaxLines(n)
	g.displayOffset = min(g.displayOffset, g.HistoryLen())
}

// Reset performs a full terminal reset (RIS), including scrollback.
func (g *Grid) Reset() {
	g.history.Clear()
	g.reset()
}

// SoftReset performs DECSTR.
func (g *Grid) SoftReset() {
	g.modes = (g.modes &^ (ModeOrigin | ModeInsert | ModeAppCursor | ModeAppKeypad)) |
		ModeShowCursor | ModeLineWrap
	g.pen = Cell{}
	g.top, g.bottom = 0, g.rows
	g.resetCharsets()
	g.saved[g.screenIndex()] = savedCursor{}
	g.cursor.WrapPending = false
}

func (g *Grid) screenIndex() int {
	if g.alt() {
		return 1
	}
	return 0
}
