package grid

// DefaultScrollback is the history capacity used when none is configured.
const DefaultScrollback = 10000

// Scrollback holds rows that scrolled off the top of the primary screen.
// It is a fixed-capacity ring: pushing into a full ring evicts the oldest
// row in O(1).
type Scrollback struct {
	lines    []Line
	maxLines int
	// head is the oldest row, tail the slot for the next push.
	head int
	tail int
	full bool
}

// NewScrollback creates a ring holding at most maxLines rows. A
// non-positive maxLines selects DefaultScrollback.
func NewScrollback(maxLines int) *Scrollback {
	if maxLines <= 0 {
		maxLines = DefaultScrollback
	}
	return &Scrollback{
		lines:    make([]Line, maxLines),
		maxLines: maxLines,
	}
}

// PushLine appends a copy of line as the newest row, evicting the oldest
// row when the ring is full. The evicted row's storage is reused.
func (sb *Scrollback) PushLine(line Line) {
	slot := &sb.lines[sb.tail]
	cells := slot.Cells[:0]
	slot.Cells = append(cells, line.Cells...)
	slot.Wrapped = line.Wrapped

	sb.tail = (sb.tail + 1) % sb.maxLines
	if sb.full {
		sb.head = (sb.head + 1) % sb.maxLines
	}
	if sb.tail == sb.head {
		sb.full = true
	}
}

// Len returns the number of stored rows.
func (sb *Scrollback) Len() int {
	if sb.full {
		return sb.maxLines
	}
	if sb.tail >= sb.head {
		return sb.tail - sb.head
	}
	return sb.maxLines - sb.head + sb.tail
}

// Line returns row index, where 0 is the oldest and Len()-1 the newest.
// The zero Line is returned for out of range indices.
func (sb *Scrollback) Line(index int) Line {
	if index < 0 || index >= sb.Len() {
		return Line{}
	}
	return sb.lines[(sb.head+index)%sb.maxLines]
}

// Clear drops every stored row.
func (sb *Scrollback) Clear() {
	sb.head = 0
	sb.tail = 0
	sb.full = false
	for i := range sb.lines {
		sb.lines[i] = Line{}
	}
}

// MaxLines returns the capacity.
func (sb *Scrollback) MaxLines() int {
	return sb.maxLines
}

// SetMaxLines changes the capacity, keeping the newest rows when shrinking.
func (sb *Scrollback) SetMaxLines(maxLines int) {
	if maxLines <= 0 {
		maxLines = DefaultScrollback
	}
	if maxLines == sb.maxLines {
		return
	}

	oldLen := sb.Len()
	newLen := min(oldLen, maxLines)
	lines := make([]Line, maxLines)
	skip := oldLen - newLen
	for i := 0; i < newLen; i++ {
		lines[i] = sb.lines[(sb.head+skip+i)%sb.maxLines]
	}

	sb.lines = lines
	sb.maxLines = maxLines
	sb.head = 0
	sb.tail = newLen % maxLines
	sb.full = newLen == maxLines
}
