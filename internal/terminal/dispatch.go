package terminal

import (
	"fmt"

	"github.com/Gaurav-Gosain/termcore/internal/grid"
	"github.com/Gaurav-Gosain/termcore/internal/vt"
)

// dispatch applies one parser action. It is the only place actions reach
// the grid and runs with e.mu held.
func (e *Emulator) dispatch(a vt.Action) {
	g := e.grid
	switch a.Kind {
	case vt.KindPrint:
		g.Print(a.Rune)
	case vt.KindRepeat:
		g.Repeat(a.N)
	case vt.KindBell:
		e.queue(Event{Kind: EventBell})
	case vt.KindBackspace:
		g.Backspace()
	case vt.KindTab, vt.KindCursorForwardTab:
		g.Tab(a.N)
	case vt.KindCursorBackwardTab:
		g.BackTab(a.N)
	case vt.KindLineFeed:
		g.LineFeed()
	case vt.KindCarriageReturn:
		g.CarriageReturn()
	case vt.KindShiftOut:
		g.ShiftOut()
	case vt.KindShiftIn:
		g.ShiftIn()

	case vt.KindCursorUp:
		g.MoveUp(a.N)
	case vt.KindCursorDown:
		g.MoveDown(a.N)
	case vt.KindCursorForward:
		g.MoveForward(a.N)
	case vt.KindCursorBackward:
		g.MoveBackward(a.N)
	case vt.KindCursorNextLine:
		g.MoveDown(a.N)
		g.CarriageReturn()
	case vt.KindCursorPrevLine:
		g.MoveUp(a.N)
		g.CarriageReturn()
	case vt.KindCursorColumn:
		g.GotoColumn(a.N)
	case vt.KindCursorRow:
		g.GotoRow(a.N)
	case vt.KindCursorPosition:
		g.Goto(a.N, a.M)

	case vt.KindEraseDisplay:
		g.EraseDisplay(a.N)
	case vt.KindEraseLine:
		g.EraseLine(a.N)
	case vt.KindEraseChars:
		g.EraseChars(a.N)
	case vt.KindInsertChars:
		g.InsertChars(a.N)
	case vt.KindDeleteChars:
		g.DeleteChars(a.N)
	case vt.KindInsertLines:
		g.InsertLines(a.N)
	case vt.KindDeleteLines:
		g.DeleteLines(a.N)
	case vt.KindScrollUp:
		g.ScrollUp(a.N)
	case vt.KindScrollDown:
		g.ScrollDown(a.N)
	case vt.KindSetScrollRegion:
		g.SetScrollRegion(a.N, a.M)

	case vt.KindIndex:
		g.Index()
	case vt.KindReverseIndex:
		g.ReverseIndex()
	case vt.KindNextLine:
		g.NextLine()
	case vt.KindSaveCursor:
		g.SaveCursor()
	case vt.KindRestoreCursor:
		g.RestoreCursor()
	case vt.KindTabSet:
		g.SetTabStop()
	case vt.KindTabClear:
		g.ClearTabStop(a.N)

	case vt.KindSetGraphics:
		g.SetGraphics(a.Params)
	case vt.KindSetMode, vt.KindResetMode:
		on := a.Kind == vt.KindSetMode
		for _, p := range a.Params {
			if !g.SetMode(p.Value, a.Private, on) {
				e.logger.Debug("unsupported mode", "mode", p.Value, "private", a.Private, "set", on)
			}
		}
	case vt.KindSetCursorStyle:
		g.SetCursorStyle(a.N)
	case vt.KindKeypadApplication:
		g.SetKeypadApplication(true)
	case vt.KindKeypadNumeric:
		g.SetKeypadApplication(false)
	case vt.KindDesignateCharset:
		g.DesignateCharset(a.N, a.Rune)

	case vt.KindSetTitle:
		e.title = a.Text
		e.queue(Event{Kind: EventTitle, Text: a.Text})
	case vt.KindSetWorkingDirectory:
		e.cwd = a.Text
		e.queue(Event{Kind: EventDirectoryChange, Text: a.Text})

	case vt.KindDeviceStatus:
		e.deviceStatus(a.N)
	case vt.KindDeviceAttributes:
		if a.Private {
			e.reply("\x1b[>0;%d;1c", VersionNumber())
		} else {
			e.reply("\x1b[?6c")
		}
	case vt.KindWindowOp:
		e.windowOp(a.N)

	case vt.KindFullReset:
		g.Reset()
		e.title, e.titles = "", nil
	case vt.KindSoftReset:
		g.SoftReset()
	case vt.KindAlignmentTest:
		g.AlignmentTest()
	}
}

func (e *Emulator) reply(format string, args ...any) {
	e.replies = fmt.Appendf(e.replies, format, args...)
}

// deviceStatus answers DSR 5 (status) and 6 (cursor position).
func (e *Emulator) deviceStatus(n int) {
	switch n {
	case 5:
		e.reply("\x1b[0n")
	case 6:
		c := e.grid.Cursor()
		row := c.Row
		if e.grid.Modes()&grid.ModeOrigin != 0 {
			top, _ := e.grid.ScrollRegion()
			row -= top
		}
		e.reply("\x1b[%d;%dR", row+1, c.Col+1)
	default:
		e.logger.Debug("unsupported device status request", "n", n)
	}
}

// windowOp answers the XTWINOPS size reports and keeps the title stack.
func (e *Emulator) windowOp(op int) {
	cols, rows := e.grid.Cols(), e.grid.Rows()
	switch op {
	case 14:
		e.reply("\x1b[4;%d;%dt", rows*e.cellHeight, cols*e.cellWidth)
	case 16:
		e.reply("\x1b[6;%d;%dt", e.cellHeight, e.cellWidth)
	case 18:
		e.reply("\x1b[8;%d;%dt", rows, cols)
	case 22:
		if len(e.titles) >= maxTitleStack {
			e.titles = e.titles[1:]
		}
		e.titles = append(e.titles, e.title)
	case 23:
		if len(e.titles) == 0 {
			return
		}
		e.title = e.titles[len(e.titles)-1]
		e.titles = e.titles[:len(e.titles)-1]
		e.queue(Event{Kind: EventTitle, Text: e.title})
	default:
		e.logger.Debug("unsupported window operation", "op", op)
	}
}
