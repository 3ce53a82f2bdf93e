package terminal

import (
	"testing"

	"github.com/Gaurav-Gosain/termcore/internal/grid"
	"github.com/Gaurav-Gosain/termcore/internal/selection"
)

func TestSnapshotHello(t *testing.T) {
	e := newTestEmulator(t, 80, 24)
	feedString(e, "hello\r\n")

	snap := e.Snapshot()
	defer snap.Release()

	if snap.Rows != 24 || snap.Cols != 80 || len(snap.Cells) != 80*24 {
		t.Fatalf("snapshot geometry %dx%d with %d cells", snap.Cols, snap.Rows, len(snap.Cells))
	}
	for i, r := range "hello" {
		if got := snap.At(0, i).Codepoint; got != uint32(r) {
			t.Errorf("cell (0,%d) = %q, want %q", i, rune(got), r)
		}
	}
	if snap.At(0, 5).Codepoint != 0 {
		t.Error("cell (0,5) should be empty")
	}
	if c := snap.Cursor; c.Row != 1 || c.Col != 0 || !c.Visible || c.Shape != grid.CursorBlock {
		t.Errorf("cursor = %+v, want visible block at (1,0)", c)
	}
	if snap.Mode&uint32(grid.ModeShowCursor) == 0 {
		t.Error("mode word should include show-cursor")
	}
}

func TestSnapshotColors(t *testing.T) {
	pal := grid.DefaultPalette()
	tests := []struct {
		name   string
		input  string
		fg, bg grid.RGB8
		flags  grid.Flags
	}{
		{"default", "X", pal.Foreground, pal.Background, 0},
		{"bold red", "\x1b[1;31mX", pal.ANSI[1], pal.Background, grid.FlagBold},
		{"bright bg", "\x1b[102mX", pal.Foreground, pal.ANSI[10], 0},
		{"indexed", "\x1b[38;5;196mX", grid.RGB8{R: 0xff}, pal.Background, 0},
		{"truecolor", "\x1b[38;2;1;2;3mX", grid.RGB8{R: 1, G: 2, B: 3}, pal.Background, 0},
		{"inverse", "\x1b[7mX", pal.Background, pal.Foreground, grid.FlagInverse},
		{
			"dim",
			"\x1b[2;38;2;200;100;50mX",
			grid.RGB8{R: 100, G: 50, B: 25},
			pal.Background,
			grid.FlagDim,
		},
		{
			"dim inverse",
			"\x1b[2;7;38;2;200;100;50;48;2;10;20;30mX",
			grid.RGB8{R: 5, G: 10, B: 15},
			grid.RGB8{R: 200, G: 100, B: 50},
			grid.FlagDim | grid.FlagInverse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEmulator(t, 10, 2)
			feedString(e, tt.input)
			snap := e.Snapshot()
			defer snap.Release()

			c := snap.At(0, 0)
			if c.Codepoint != 'X' {
				t.Fatalf("codepoint = %q", rune(c.Codepoint))
			}
			if c.Fg != tt.fg || c.Bg != tt.bg {
				t.Errorf("fg/bg = %v/%v, want %v/%v", c.Fg, c.Bg, tt.fg, tt.bg)
			}
			if c.Flags != uint16(tt.flags) {
				t.Errorf("flags = %b, want %b", c.Flags, tt.flags)
			}
		})
	}
}

func TestSnapshotCustomPalette(t *testing.T) {
	e := newTestEmulator(t, 10, 2)
	pal := grid.DefaultPalette()
	pal.ANSI[1] = grid.RGB8{R: 1, G: 2, B: 3}
	e.SetPalette(pal)
	feedString(e, "\x1b[31mX")

	snap := e.Snapshot()
	defer snap.Release()
	if got := snap.At(0, 0).Fg; got != pal.ANSI[1] {
		t.Errorf("fg = %v, want configured red %v", got, pal.ANSI[1])
	}
}

func TestSnapshotWide(t *testing.T) {
	e := newTestEmulator(t, 10, 2)
	feedString(e, "中")

	snap := e.Snapshot()
	defer snap.Release()
	lead, spacer := snap.At(0, 0), snap.At(0, 1)
	if lead.Codepoint != '中' || lead.Flags&uint16(grid.FlagWideLead) == 0 {
		t.Errorf("lead = %+v", lead)
	}
	if spacer.Codepoint != 0 || spacer.Flags&uint16(grid.FlagWideSpacer) == 0 {
		t.Errorf("spacer = %+v", spacer)
	}
}

func TestSnapshotSelection(t *testing.T) {
	e := newTestEmulator(t, 10, 2)
	feedString(e, "hello")
	e.SelectionStart(0, 1, selection.Left, selection.Simple)
	e.SelectionUpdate(0, 3, selection.Right)

	snap := e.Snapshot()
	defer snap.Release()
	for col := range 6 {
		selected := snap.At(0, col).Flags&FlagSelected != 0
		if want := col >= 1 && col <= 3; selected != want {
			t.Errorf("col %d selected = %v, want %v", col, selected, want)
		}
	}
}

func TestSnapshotCursor(t *testing.T) {
	t.Run("hidden", func(t *testing.T) {
		e := newTestEmulator(t, 10, 2)
		feedString(e, "\x1b[?25l")
		snap := e.Snapshot()
		defer snap.Release()
		if snap.Cursor.Shape != grid.CursorHidden {
			t.Errorf("shape = %v, want hidden", snap.Cursor.Shape)
		}
		if snap.Cursor.Visible {
			t.Error("hidden cursor reported visible")
		}
	})

	t.Run("style", func(t *testing.T) {
		e := newTestEmulator(t, 10, 2)
		feedString(e, "\x1b[5 q")
		snap := e.Snapshot()
		defer snap.Release()
		if snap.Cursor.Shape != grid.CursorBeam {
			t.Errorf("shape = %v, want beam", snap.Cursor.Shape)
		}
	})

	t.Run("scrolled out of view", func(t *testing.T) {
		e := newTestEmulator(t, 10, 2)
		feedString(e, "a\r\nb\r\nc\r\nd")
		e.ScrollDisplay(2)
		snap := e.Snapshot()
		defer snap.Release()
		if snap.Cursor.Visible {
			t.Errorf("cursor %+v should not be visible", snap.Cursor)
		}
		if got := snap.At(0, 0).Codepoint; got != 'a' {
			t.Errorf("viewport row 0 = %q, want 'a'", rune(got))
		}
	})
}

func TestSnapshotIndependent(t *testing.T) {
	e := newTestEmulator(t, 10, 2)
	feedString(e, "a")
	snap := e.Snapshot()
	defer snap.Release()

	feedString(e, "\rb")
	if snap.At(0, 0).Codepoint != 'a' {
		t.Error("snapshot changed after further output")
	}
}

func TestSnapshotRelease(t *testing.T) {
	var nilSnap *Snapshot
	nilSnap.Release()

	e := newTestEmulator(t, 10, 2)
	snap := e.Snapshot()
	snap.Release()
	snap.Release()
	if snap.Cells != nil {
		t.Error("Release should drop the cell array")
	}
}
