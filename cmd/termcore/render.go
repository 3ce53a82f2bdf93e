package main

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/Gaurav-Gosain/termcore"
)

// styleFlags are the cell flags that change how text is drawn. Dim and
// inverse are already folded into the snapshot colours.
const styleFlags = termcore.FlagBold | termcore.FlagItalic | termcore.FlagUnderline |
	termcore.FlagStrikeout | termcore.FlagHidden | termcore.FlagSelected

type runStyle struct {
	fg, bg termcore.RGB
	flags  uint16
}

// renderer turns snapshots into ANSI text with lipgloss styles. Styles are
// cached per attribute combination.
type renderer struct {
	styles map[runStyle]lipgloss.Style
}

func newRenderer() *renderer {
	return &renderer{styles: make(map[runStyle]lipgloss.Style)}
}

func (r *renderer) style(rs runStyle) lipgloss.Style {
	if s, ok := r.styles[rs]; ok {
		return s
	}
	fg, bg := rs.fg, rs.bg
	if rs.flags&termcore.FlagSelected != 0 {
		fg, bg = bg, fg
	}
	s := lipgloss.NewStyle().
		Foreground(lipgloss.Color(fg.Hex())).
		Background(lipgloss.Color(bg.Hex())).
		Bold(rs.flags&termcore.FlagBold != 0).
		Italic(rs.flags&termcore.FlagItalic != 0).
		Underline(rs.flags&termcore.FlagUnderline != 0).
		Strikethrough(rs.flags&termcore.FlagStrikeout != 0)
	if len(r.styles) > 4096 {
		clear(r.styles)
	}
	r.styles[rs] = s
	return s
}

// Row renders one snapshot row.
func (r *renderer) Row(snap *termcore.GridSnapshot, row int) string {
	var (
		out  strings.Builder
		text strings.Builder
		cur  runStyle
	)
	flush := func() {
		if text.Len() > 0 {
			out.WriteString(r.style(cur).Render(text.String()))
			text.Reset()
		}
	}

	cells := snap.Cells[row*snap.Cols : (row+1)*snap.Cols]
	for i, c := range cells {
		if c.Flags&termcore.FlagWideSpacer != 0 {
			continue
		}
		rs := runStyle{fg: c.Fg, bg: c.Bg, flags: c.Flags & styleFlags}
		if i == 0 || rs != cur {
			flush()
			cur = rs
		}
		switch {
		case c.Codepoint == 0 || c.Flags&termcore.FlagHidden != 0:
			text.WriteByte(' ')
			if c.Flags&termcore.FlagWideLead != 0 {
				text.WriteByte(' ')
			}
		default:
			text.WriteRune(rune(c.Codepoint))
		}
	}
	flush()
	return out.String()
}

// Frame renders a whole snapshot, including cursor placement, for a host
// terminal of the same size.
func (r *renderer) Frame(snap *termcore.GridSnapshot) string {
	var sb strings.Builder
	sb.WriteString("\x1b[?25l")
	for row := range snap.Rows {
		fmt.Fprintf(&sb, "\x1b[%d;1H", row+1)
		sb.WriteString(r.Row(snap, row))
	}

	c := snap.Cursor
	if c.Visible && c.Shape != termcore.CursorHidden {
		fmt.Fprintf(&sb, "\x1b[%d;%dH\x1b[%d q\x1b[?25h", c.Row+1, c.Col+1, cursorStyle(c.Shape))
	}
	return sb.String()
}

// cursorStyle maps a cursor shape to its steady DECSCUSR style.
func cursorStyle(shape termcore.CursorShape) int {
	switch shape {
	case termcore.CursorUnderline:
		return 4
	case termcore.CursorBeam:
		return 6
	}
	return 2
}
