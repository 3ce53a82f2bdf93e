package terminal

import (
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/Gaurav-Gosain/termcore/internal/grid"
	"github.com/Gaurav-Gosain/termcore/internal/selection"
	"github.com/Gaurav-Gosain/termcore/internal/vt"
)

// maxTitleStack bounds the XTWINOPS 22/23 title stack.
const maxTitleStack = 4096

// Emulator is the screen model of one terminal: parser, grid and
// selection behind a single lock. It has no process attached and can be
// driven directly, which the replay command and the tests do.
type Emulator struct {
	mu sync.Mutex

	parser  *vt.Parser
	grid    *grid.Grid
	sel     selection.Selection
	palette grid.Palette
	logger  *log.Logger

	cellWidth, cellHeight int

	title  string
	titles []string
	cwd    string

	// Filled by dispatch while mu is held, drained by Feed.
	events  []Event
	replies []byte
}

// NewEmulator returns an emulator with a blank grid of cols×rows and room
// for scrollback rows of history.
func NewEmulator(cols, rows, scrollback int, logger *log.Logger) (*Emulator, error) {
	if cols < 1 || rows < 1 {
		return nil, ErrInvalidSize
	}
	if logger == nil {
		logger = discardLogger()
	}
	e := &Emulator{
		grid:    grid.New(cols, rows, scrollback),
		palette: grid.DefaultPalette(),
		logger:  logger,
	}
	e.parser = vt.NewParser(e.dispatch)
	e.parser.OnUnknown = func(seq string) {
		e.logger.Debug("unsupported sequence", "seq", seq)
	}
	return e, nil
}

// Feed parses data and applies it to the grid. It returns the events the
// data raised and the bytes that must be written back to the PTY, both in
// order. The caller delivers them after Feed has released the lock.
func (e *Emulator) Feed(data []byte) ([]Event, []byte) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.parser.Advance(data)
	e.syncSelection()

	events, replies := e.events, e.replies
	e.events, e.replies = nil, nil
	return events, replies
}

// syncSelection moves the selection along with content that scrolled into
// history, or drops it when content moved in a way it cannot follow.
func (e *Emulator) syncSelection() {
	pushed, disturbed := e.grid.TakeScroll()
	if e.sel.State() == selection.Idle {
		return
	}
	if disturbed {
		e.sel.Clear()
		return
	}
	e.sel.Rotate(-pushed, -e.grid.HistoryLen())
}

// Resize changes the grid geometry. The selection survives when it still
// fits the new grid.
func (e *Emulator) Resize(cols, rows int) error {
	if cols < 1 || rows < 1 {
		return ErrInvalidSize
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	e.grid.Resize(cols, rows)
	pushed, _ := e.grid.TakeScroll()
	if e.sel.State() == selection.Idle {
		return nil
	}
	e.sel.Rotate(-pushed, -e.grid.HistoryLen())
	if !e.sel.Fits(rows, cols, e.grid.HistoryLen()) {
		e.sel.Clear()
	}
	return nil
}

// Size returns the grid geometry.
func (e *Emulator) Size() (cols, rows int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.grid.Cols(), e.grid.Rows()
}

// SetCellSize records the pixel size of a cell, used to answer XTWINOPS
// size queries.
func (e *Emulator) SetCellSize(width, height int) {
	e.mu.Lock()
	e.cellWidth, e.cellHeight = max(width, 0), max(height, 0)
	e.mu.Unlock()
}

// SetPalette replaces the colour palette used by snapshots.
func (e *Emulator) SetPalette(p grid.Palette) {
	e.mu.Lock()
	e.palette = p
	e.mu.Unlock()
}

// SetSeparators sets the characters that bound semantic selections.
func (e *Emulator) SetSeparators(seps string) {
	e.mu.Lock()
	e.sel.Separators = seps
	e.mu.Unlock()
}

// SetScrollback changes the scrollback capacity.
func (e *Emulator) SetScrollback(lines int) {
	e.mu.Lock()
	e.grid.SetScrollbackLimit(lines)
	e.mu.Unlock()
}

// ScrollDisplay moves the viewport; positive delta scrolls back.
func (e *Emulator) ScrollDisplay(delta int) {
	e.mu.Lock()
	e.grid.ScrollDisplay(delta)
	e.mu.Unlock()
}

// DisplayOffset returns how far the viewport is scrolled back.
func (e *Emulator) DisplayOffset() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.grid.DisplayOffset()
}

// HistoryLen returns the number of scrollback rows.
func (e *Emulator) HistoryLen() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.grid.HistoryLen()
}

// Title returns the last title set by the child.
func (e *Emulator) Title() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.title
}

// WorkingDirectory returns the last OSC 7 payload.
func (e *Emulator) WorkingDirectory() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cwd
}

// SelectionStart begins a selection at a viewport position.
func (e *Emulator) SelectionStart(row, col int, side selection.Side, t selection.Type) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sel.Start(e.point(row, col, side), t)
}

// SelectionUpdate moves the head of the selection to a viewport position.
func (e *Emulator) SelectionUpdate(row, col int, side selection.Side) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sel.Update(e.point(row, col, side))
}

// SelectionClear drops the selection.
func (e *Emulator) SelectionClear() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sel.Clear()
}

// SelectionText returns the selected text, or false when nothing is
// selected.
func (e *Emulator) SelectionText() (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sel.Text(e.grid)
}

// point converts a viewport position into grid coordinates, clamped to
// the viewport.
func (e *Emulator) point(row, col int, side selection.Side) selection.Point {
	row = min(max(row, 0), e.grid.Rows()-1)
	col = min(max(col, 0), e.grid.Cols()-1)
	return selection.Point{Row: row - e.grid.DisplayOffset(), Col: col, Side: side}
}

// ScreenText renders the live screen as text, one line per row with
// trailing blanks removed.
func (e *Emulator) ScreenText() string {
	e.mu.Lock()
	defer e.mu.Unlock()

	var sb strings.Builder
	for row := range e.grid.Rows() {
		if row > 0 {
			sb.WriteByte('\n')
		}
		var line strings.Builder
		for _, c := range e.grid.Line(row).Cells {
			switch {
			case c.Flags&grid.FlagWideSpacer != 0:
			case c.Rune == 0:
				line.WriteByte(' ')
			default:
				line.WriteRune(c.Rune)
			}
		}
		sb.WriteString(strings.TrimRight(line.String(), " "))
	}
	return sb.String()
}

// Cursor returns the cursor in grid coordinates.
func (e *Emulator) Cursor() grid.Cursor {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.grid.Cursor()
}

// Modes returns the mode word.
func (e *Emulator) Modes() grid.Mode {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.grid.Modes()
}

// Cell returns the cell at a live-screen position.
func (e *Emulator) Cell(row, col int) grid.Cell {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.grid.Cell(row, col)
}

func (e *Emulator) queue(ev Event) {
	e.events = append(e.events, ev)
}
