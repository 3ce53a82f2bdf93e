// Package selection implements text selection over a terminal grid.
//
// Selection points are grid coordinates: row 0 is the top of the live
// screen and negative rows reach into scrollback. Callers translate from
// viewport rows before calling in.
package selection

import (
	"strings"

	"github.com/Gaurav-Gosain/termcore/internal/grid"
)

// Type is the selection granularity.
type Type uint8

const (
	// Simple selects a character stream between two points.
	Simple Type = iota
	// Block selects a rectangle.
	Block
	// Semantic selects whole words.
	Semantic
	// Lines selects whole rows.
	Lines
)

// Side is the half of a cell a point falls on.
type Side uint8

const (
	Left Side = iota
	Right
)

// State is the lifecycle of a selection.
type State uint8

const (
	Idle State = iota
	// Selecting: started, head still on the anchor cell.
	Selecting
	// Active: the head has moved away from the anchor.
	Active
)

// DefaultSeparators delimit words for Semantic selections, in addition to
// blank cells.
const DefaultSeparators = ",│`|:\"' ()[]{}<>\t"

// Point is a selection endpoint.
type Point struct {
	Row, Col int
	Side     Side
}

// less orders points by row, then column, then side.
func less(a, b Point) bool {
	if a.Row != b.Row {
		return a.Row < b.Row
	}
	if a.Col != b.Col {
		return a.Col < b.Col
	}
	return a.Side < b.Side
}

func samePos(a, b Point) bool {
	return a.Row == b.Row && a.Col == b.Col
}

// Source is the grid content a selection reads from.
type Source interface {
	Rows() int
	Cols() int
	HistoryLen() int
	Line(row int) grid.Line
}

// Selection is the selection state of one terminal.
type Selection struct {
	// Separators overrides DefaultSeparators when non-empty.
	Separators string

	typ    Type
	anchor Point
	head   Point
	state  State
}

// Start begins a new selection at p, replacing any existing one.
func (s *Selection) Start(p Point, t Type) {
	s.typ = t
	s.anchor = p
	s.head = p
	s.state = Selecting
}

// Update moves the head. It has no effect when no selection is in progress.
func (s *Selection) Update(p Point) {
	if s.state == Idle {
		return
	}
	s.head = p
	if !samePos(s.anchor, p) {
		s.state = Active
	}
}

// Clear returns to Idle.
func (s *Selection) Clear() {
	*s = Selection{Separators: s.Separators}
}

// State returns the lifecycle state.
func (s *Selection) State() State { return s.state }

// Type returns the selection type.
func (s *Selection) Type() Type { return s.typ }

// Endpoints returns the anchor and head.
func (s *Selection) Endpoints() (anchor, head Point) { return s.anchor, s.head }

// Rotate shifts the selection by delta rows as content scrolls. A
// selection pushed entirely above minRow is cleared; one pushed partly
// above is clipped to minRow.
func (s *Selection) Rotate(delta, minRow int) {
	if s.state == Idle || delta == 0 {
		return
	}
	s.anchor.Row += delta
	s.head.Row += delta
	if s.anchor.Row < minRow && s.head.Row < minRow {
		s.Clear()
		return
	}
	for _, p := range []*Point{&s.anchor, &s.head} {
		if p.Row < minRow {
			*p = Point{Row: minRow, Col: 0, Side: Left}
		}
	}
}

// Fits reports whether both endpoints lie inside a grid of the given
// geometry.
func (s *Selection) Fits(rows, cols, history int) bool {
	for _, p := range []Point{s.anchor, s.head} {
		if p.Row < -history || p.Row >= rows || p.Col < 0 || p.Col >= cols {
			return false
		}
	}
	return true
}

// Range is a resolved selection. Start and End are inclusive cells in
// grid coordinates with Start ordered before End.
type Range struct {
	StartRow, StartCol int
	EndRow, EndCol     int
	Block              bool
}

// Contains reports whether the cell at row, col is selected.
func (r Range) Contains(row, col int) bool {
	if row < r.StartRow || row > r.EndRow {
		return false
	}
	if r.Block {
		return col >= r.StartCol && col <= r.EndCol
	}
	if row == r.StartRow && col < r.StartCol {
		return false
	}
	if row == r.EndRow && col > r.EndCol {
		return false
	}
	return true
}

// Range resolves the selection against src. It reports false when the
// selection is Idle or covers no cell.
func (s *Selection) Range(src Source) (Range, bool) {
	if s.state == Idle {
		return Range{}, false
	}
	start, end := s.anchor, s.head
	if less(end, start) {
		start, end = end, start
	}
	cols := src.Cols()

	switch s.typ {
	case Block:
		return s.rangeBlock(start, end)
	case Semantic:
		seps := s.Separators
		if seps == "" {
			seps = DefaultSeparators
		}
		sc := wordStart(src.Line(start.Row), start.Col, seps)
		ec := wordEnd(src.Line(end.Row), end.Col, seps)
		return Range{StartRow: start.Row, StartCol: sc, EndRow: end.Row, EndCol: ec}, true
	case Lines:
		return Range{StartRow: start.Row, StartCol: 0, EndRow: end.Row, EndCol: cols - 1}, true
	default:
		return rangeSimple(start, end, cols)
	}
}

func rangeSimple(start, end Point, cols int) (Range, bool) {
	if start == end {
		return Range{}, false
	}
	if start.Side == Right && end.Side == Left && start.Row == end.Row && start.Col+1 == end.Col {
		return Range{}, false
	}
	if end.Side == Left && !samePos(start, end) {
		if end.Col == 0 {
			end.Row--
			end.Col = cols - 1
		} else {
			end.Col--
		}
	}
	if start.Side == Right && !samePos(start, end) {
		start.Col++
		if start.Col >= cols {
			start.Col = 0
			start.Row++
		}
	}
	if start.Row > end.Row || (start.Row == end.Row && start.Col > end.Col) {
		return Range{}, false
	}
	return Range{StartRow: start.Row, StartCol: start.Col, EndRow: end.Row, EndCol: end.Col}, true
}

func (s *Selection) rangeBlock(start, end Point) (Range, bool) {
	a, h := start, end
	if a.Col == h.Col && a.Side == h.Side {
		return Range{}, false
	}
	if a.Col > h.Col {
		a.Col, h.Col = h.Col, a.Col
		a.Side, h.Side = h.Side, a.Side
	}
	if a.Col+1 == h.Col && a.Side == Right && h.Side == Left {
		return Range{}, false
	}
	if h.Side == Left && h.Col > a.Col {
		h.Col--
	}
	if a.Side == Right && a.Col < h.Col {
		a.Col++
	}
	return Range{StartRow: a.Row, StartCol: a.Col, EndRow: h.Row, EndCol: h.Col, Block: true}, true
}

func isSeparator(c grid.Cell, seps string) bool {
	return c.Rune == 0 || c.Rune == ' ' || strings.ContainsRune(seps, c.Rune)
}

// wordStart returns the first column of the word containing col. A
// separator cell is a word of its own.
func wordStart(l grid.Line, col int, seps string) int {
	cells := l.Cells
	if col >= len(cells) {
		return col
	}
	col = leadOf(cells, col)
	if isSeparator(cells[col], seps) {
		return col
	}
	for col > 0 {
		prev := leadOf(cells, col-1)
		if isSeparator(cells[prev], seps) {
			break
		}
		col = prev
	}
	return col
}

// wordEnd returns the last column of the word containing col.
func wordEnd(l grid.Line, col int, seps string) int {
	cells := l.Cells
	if col >= len(cells) {
		return col
	}
	col = leadOf(cells, col)
	if isSeparator(cells[col], seps) {
		return trailOf(cells, col)
	}
	col = trailOf(cells, col)
	for col+1 < len(cells) && !isSeparator(cells[col+1], seps) {
		col = trailOf(cells, col+1)
	}
	return col
}

func leadOf(cells []grid.Cell, col int) int {
	if col > 0 && cells[col].Flags&grid.FlagWideSpacer != 0 {
		return col - 1
	}
	return col
}

func trailOf(cells []grid.Cell, col int) int {
	if cells[col].Flags&grid.FlagWideLead != 0 && col+1 < len(cells) {
		return col + 1
	}
	return col
}
