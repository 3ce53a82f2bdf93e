package grid

import (
	"fmt"
	"math/rand/v2"
	"testing"
)

func TestResizeShrinkRowsPushesHistory(t *testing.T) {
	g := New(80, 24, 1000)
	for i := 0; i < 20; i++ {
		if i > 0 {
			feed(g, "\r\n")
		}
		feed(g, fmt.Sprintf("line%d", i))
	}
	if g.Cursor().Row != 19 {
		t.Fatalf("cursor row = %d, want 19", g.Cursor().Row)
	}

	g.Resize(80, 10)

	if g.Rows() != 10 {
		t.Fatalf("rows = %d, want 10", g.Rows())
	}
	if c := g.Cursor(); c.Row < 0 || c.Row >= 10 {
		t.Fatalf("cursor row %d out of [0,10)", c.Row)
	}
	if g.HistoryLen() != 10 {
		t.Errorf("history = %d, want 10", g.HistoryLen())
	}
	if got := rowText(g, -1); got != "line9" {
		t.Errorf("newest history row = %q, want \"line9\"", got)
	}
	if got := rowText(g, 0); got != "line10" {
		t.Errorf("top row = %q, want \"line10\"", got)
	}
	if got := rowText(g, g.Cursor().Row); got != "line19" {
		t.Errorf("cursor row = %q, want \"line19\"", got)
	}
}

func TestResizeShrinkRowsDropsBelowCursor(t *testing.T) {
	g := New(10, 10, 100)
	feed(g, "top")
	g.Resize(10, 3)
	if g.HistoryLen() != 0 {
		t.Errorf("history = %d, want 0 when the cursor fits", g.HistoryLen())
	}
	if rowText(g, 0) != "top" {
		t.Errorf("row 0 = %q, want \"top\"", rowText(g, 0))
	}
}

func TestResizeGrow(t *testing.T) {
	g := New(5, 2, 100)
	feed(g, "abcde")
	g.Resize(8, 4)
	if g.Cols() != 8 || g.Rows() != 4 {
		t.Fatalf("size = %dx%d, want 8x4", g.Cols(), g.Rows())
	}
	if rowText(g, 0) != "abcde" {
		t.Errorf("row 0 = %q", rowText(g, 0))
	}
	for c := 5; c < 8; c++ {
		if cell := g.Cell(0, c); cell != (Cell{}) {
			t.Errorf("new cell (0,%d) = %+v, want empty", c, cell)
		}
	}
	if line := g.Line(3); len(line.Cells) != 8 {
		t.Errorf("new row has %d cells, want 8", len(line.Cells))
	}
}

func TestResizeShrinkColsClearsOrphanedLead(t *testing.T) {
	g := New(10, 2, 100)
	feed(g, "ab中")
	g.Resize(3, 2)

	lead := g.Cell(0, 2)
	if lead.Flags&FlagWideLead != 0 {
		t.Error("lead whose spacer was truncated must lose its wide flag")
	}
	checkWide(t, g)
}

func TestResizeClampsCursor(t *testing.T) {
	g := New(20, 20, 100)
	g.Goto(15, 18)
	g.Resize(5, 20)
	if c := g.Cursor(); c.Col != 4 {
		t.Errorf("cursor col = %d, want 4", c.Col)
	}
}

func TestResizeMinimum(t *testing.T) {
	g := New(10, 10, 100)
	g.Resize(0, -3)
	if g.Cols() != 1 || g.Rows() != 1 {
		t.Errorf("size = %dx%d, want 1x1", g.Cols(), g.Rows())
	}
}

func TestResizeAltScreen(t *testing.T) {
	g := New(10, 10, 100)
	feed(g, "\x1b[?1049h\x1b[9;1Halt")
	g.Resize(10, 4)
	if g.HistoryLen() != 0 {
		t.Error("alt screen rows must not reach history")
	}
	if rowText(g, g.Cursor().Row) != "alt" {
		t.Errorf("cursor row = %q, want \"alt\"", rowText(g, g.Cursor().Row))
	}
	feed(g, "\x1b[?1049l")
	if g.Rows() != 4 || len(g.Line(3).Cells) != 10 {
		t.Error("primary screen should have been resized too")
	}
}

// TestResizeInvariants resizes randomly and checks the cursor bounds and
// the wide glyph pairing after every step.
func TestResizeInvariants(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	g := New(40, 12, 50)
	for i := 0; i < 300; i++ {
		g.Goto(1+rng.IntN(g.Rows()), 1+rng.IntN(g.Cols()))
		feed(g, "x中文y")
		cols, rows := 1+rng.IntN(60), 1+rng.IntN(30)
		g.Resize(cols, rows)

		c := g.Cursor()
		if c.Row < 0 || c.Row >= rows || c.Col < 0 || c.Col >= cols {
			t.Fatalf("step %d: cursor (%d,%d) outside %dx%d", i, c.Row, c.Col, cols, rows)
		}
		if g.HistoryLen() > 50 {
			t.Fatalf("step %d: history %d exceeds capacity", i, g.HistoryLen())
		}
		checkWide(t, g)
		if t.Failed() {
			t.Fatalf("step %d: wide invariant broken at %dx%d", i, cols, rows)
		}
	}
}
