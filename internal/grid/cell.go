// Package grid holds the live screen model of a terminal: the cell matrix,
// cursor, modes, scroll region and the scrollback ring. A Grid is not safe
// for concurrent use; its owner serialises access.
package grid

// Flags are per-cell attribute bits. The values are part of the snapshot
// contract with hosts and must not change.
type Flags uint16

const (
	FlagBold Flags = 1 << iota
	FlagItalic
	FlagUnderline
	FlagStrikeout
	FlagDim
	FlagInverse
	FlagWideLead
	FlagWideSpacer
	FlagHidden
	FlagSelected
)

// styleFlags are the bits carried by the pen into printed cells.
const styleFlags = FlagBold | FlagItalic | FlagUnderline | FlagStrikeout |
	FlagDim | FlagInverse | FlagHidden

// Color is a cell colour: the terminal default, an index into the 256
// colour palette, or a direct RGB value.
type Color uint32

const (
	colorIndexed Color = 1 << 24
	colorRGB     Color = 2 << 24
	colorTagMask Color = 0xFF << 24
)

// DefaultColor is the zero Color. It resolves to the palette's default
// foreground or background depending on where it is used.
const DefaultColor Color = 0

// Indexed returns palette colour i.
func Indexed(i uint8) Color {
	return colorIndexed | Color(i)
}

// RGB returns a direct colour.
func RGB(r, g, b uint8) Color {
	return colorRGB | Color(r)<<16 | Color(g)<<8 | Color(b)
}

// IsDefault reports whether c is the default colour.
func (c Color) IsDefault() bool {
	return c&colorTagMask == 0
}

// Index returns the palette index of an indexed colour.
func (c Color) Index() (uint8, bool) {
	if c&colorTagMask != colorIndexed {
		return 0, false
	}
	return uint8(c), true
}

// Components returns the channels of a direct colour.
func (c Color) Components() (r, g, b uint8, ok bool) {
	if c&colorTagMask != colorRGB {
		return 0, 0, 0, false
	}
	return uint8(c >> 16), uint8(c >> 8), uint8(c), true
}

// Cell is one character position. Rune 0 means the cell is empty.
type Cell struct {
	Rune  rune
	Fg    Color
	Bg    Color
	Flags Flags
}

// IsEmpty reports whether the cell holds no glyph.
func (c Cell) IsEmpty() bool {
	return c.Rune == 0
}

// Line is one row of cells. Wrapped is set when output continued onto the
// next row because the row filled up, as opposed to an explicit newline.
type Line struct {
	Cells   []Cell
	Wrapped bool
}

func newLine(cols int, blank Cell) Line {
	l := Line{Cells: make([]Cell, cols)}
	if blank != (Cell{}) {
		for i := range l.Cells {
			l.Cells[i] = blank
		}
	}
	return l
}

func (l *Line) fill(blank Cell) {
	for i := range l.Cells {
		l.Cells[i] = blank
	}
	l.Wrapped = false
}

// resize truncates or pads the line to cols. A wide glyph whose spacer
// falls off the end loses its wide flag so no lead is left without a
// spacer.
func (l *Line) resize(cols int) {
	switch {
	case cols < len(l.Cells):
		l.Cells = l.Cells[:cols:cols]
		if last := &l.Cells[cols-1]; last.Flags&FlagWideLead != 0 {
			last.Flags &^= FlagWideLead
		}
	case cols > len(l.Cells):
		grown := make([]Cell, cols)
		copy(grown, l.Cells)
		l.Cells = grown
	}
}

// CursorShape is how the host should draw the cursor.
type CursorShape uint8

const (
	CursorBlock CursorShape = iota
	CursorUnderline
	CursorBeam
	CursorHidden
)

func (s CursorShape) String() string {
	switch s {
	case CursorBlock:
		return "block"
	case CursorUnderline:
		return "underline"
	case CursorBeam:
		return "beam"
	case CursorHidden:
		return "hidden"
	}
	return "unknown"
}

// Cursor is the write position. Row and Col are always inside the grid.
// WrapPending is set after a glyph was written to the last column while
// autowrap is on; the next glyph wraps first.
type Cursor struct {
	Row, Col    int
	Shape       CursorShape
	WrapPending bool
}
