package selection

import (
	"strings"

	"github.com/Gaurav-Gosain/termcore/internal/grid"
)

// Text extracts the selected text. It reports false when there is no
// selection. Rows are joined with '\n' except where a row soft-wrapped
// into the next; Block rows are concatenated. Trailing blanks of each row
// are dropped and wide glyph spacers are skipped.
func (s *Selection) Text(src Source) (string, bool) {
	r, ok := s.Range(src)
	if !ok {
		return "", false
	}

	var sb strings.Builder
	for row := r.StartRow; row <= r.EndRow; row++ {
		line := src.Line(row)
		last := len(line.Cells) - 1

		from, to := 0, last
		if r.Block || row == r.StartRow {
			from = r.StartCol
		}
		if r.Block || row == r.EndRow {
			to = min(r.EndCol, last)
		}

		continued := !r.Block && line.Wrapped && to == last && row < r.EndRow
		text := cellText(line.Cells, from, to)
		if !continued {
			text = strings.TrimRight(text, " ")
		}
		sb.WriteString(text)

		if row < r.EndRow && !r.Block && !continued {
			sb.WriteByte('\n')
		}
	}
	return sb.String(), true
}

func cellText(cells []grid.Cell, from, to int) string {
	if from > to || from >= len(cells) {
		return ""
	}
	var sb strings.Builder
	for _, c := range cells[max(from, 0) : to+1] {
		switch {
		case c.Flags&grid.FlagWideSpacer != 0:
		case c.Rune == 0:
			sb.WriteByte(' ')
		default:
			sb.WriteRune(c.Rune)
		}
	}
	return sb.String()
}
