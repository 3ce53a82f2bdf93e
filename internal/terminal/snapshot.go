package terminal

import (
	"github.com/Gaurav-Gosain/termcore/internal/grid"
	"github.com/Gaurav-Gosain/termcore/internal/pool"
)

// FlagSelected marks a snapshot cell that lies inside the selection.
const FlagSelected = uint16(grid.FlagSelected)

// CellData is one exported cell with colours resolved to RGB.
type CellData struct {
	Codepoint uint32
	Fg, Bg    grid.RGB8
	Flags     uint16
}

// SnapshotCursor is the cursor as seen in the viewport.
type SnapshotCursor struct {
	Row, Col int
	Shape    grid.CursorShape
	Visible  bool
}

// Snapshot is an independent copy of the viewport. Cells is row-major,
// Rows*Cols long. Call Release when done so the cell array can be reused.
type Snapshot struct {
	Cells  []CellData
	Rows   int
	Cols   int
	Cursor SnapshotCursor
	Mode   uint32
}

var cellPool pool.Slice[CellData]

// Release returns the cell array to the pool. It is safe on a nil
// snapshot and when called more than once.
func (s *Snapshot) Release() {
	if s == nil || s.Cells == nil {
		return
	}
	cellPool.Put(s.Cells)
	s.Cells = nil
}

// At returns the cell at a viewport position.
func (s *Snapshot) At(row, col int) CellData {
	return s.Cells[row*s.Cols+col]
}

// Snapshot copies the viewport, honouring the display offset.
func (e *Emulator) Snapshot() *Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	g := e.grid
	rows, cols, offset := g.Rows(), g.Cols(), g.DisplayOffset()
	snap := &Snapshot{
		Cells: cellPool.Get(rows * cols),
		Rows:  rows,
		Cols:  cols,
		Mode:  uint32(g.Modes()),
	}

	sel, hasSel := e.sel.Range(g)
	for row := range rows {
		line := g.ViewLine(row)
		gridRow := row - offset
		out := snap.Cells[row*cols : (row+1)*cols]
		for col := range out {
			var c grid.Cell
			if col < len(line.Cells) {
				c = line.Cells[col]
			}
			out[col] = e.exportCell(c)
			if hasSel && sel.Contains(gridRow, col) {
				out[col].Flags |= FlagSelected
			}
		}
	}

	cur := g.Cursor()
	snap.Cursor = SnapshotCursor{
		Row:     cur.Row + offset,
		Col:     cur.Col,
		Shape:   cur.Shape,
		Visible: cur.Row+offset < rows,
	}
	if g.Modes()&grid.ModeShowCursor == 0 {
		snap.Cursor.Shape = grid.CursorHidden
	}
	if snap.Cursor.Shape == grid.CursorHidden {
		snap.Cursor.Visible = false
	}
	return snap
}

func (e *Emulator) exportCell(c grid.Cell) CellData {
	fg := e.palette.Resolve(c.Fg, e.palette.Foreground)
	bg := e.palette.Resolve(c.Bg, e.palette.Background)
	if c.Flags&grid.FlagInverse != 0 {
		fg, bg = bg, fg
	}
	if c.Flags&grid.FlagDim != 0 {
		fg = grid.RGB8{R: fg.R / 2, G: fg.G / 2, B: fg.B / 2}
	}
	return CellData{
		Codepoint: uint32(c.Rune),
		Fg:        fg,
		Bg:        bg,
		Flags:     uint16(c.Flags) &^ FlagSelected,
	}
}

