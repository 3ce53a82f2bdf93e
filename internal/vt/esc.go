package vt

import "github.com/charmbracelet/x/ansi"

func (p *Parser) execute(b byte) {
	switch b {
	case ansi.BEL:
		p.emit(Action{Kind: KindBell})
	case ansi.BS:
		p.emit(Action{Kind: KindBackspace})
	case ansi.HT:
		p.emit(Action{Kind: KindTab, N: 1})
	case ansi.LF, ansi.VT, ansi.FF:
		p.emit(Action{Kind: KindLineFeed})
	case ansi.CR:
		p.emit(Action{Kind: KindCarriageReturn})
	case ansi.SO:
		p.emit(Action{Kind: KindShiftOut})
	case ansi.SI:
		p.emit(Action{Kind: KindShiftIn})
	}
}

func (p *Parser) handleEsc(cmd ansi.Cmd) {
	final, inter := cmd.Final(), cmd.Intermediate()

	switch inter {
	case 0:
	case '(', ')', '*', '+':
		p.emit(Action{Kind: KindDesignateCharset, N: int(inter - '('), Rune: rune(final)})
		return
	case '#':
		if final == '8' {
			p.emit(Action{Kind: KindAlignmentTest})
			return
		}
		p.unknown("ESC # " + string(rune(final)))
		return
	default:
		p.unknown("ESC " + string(rune(inter)) + " " + string(rune(final)))
		return
	}

	switch final {
	case '7':
		p.emit(Action{Kind: KindSaveCursor})
	case '8':
		p.emit(Action{Kind: KindRestoreCursor})
	case 'D':
		p.emit(Action{Kind: KindIndex})
	case 'E':
		p.emit(Action{Kind: KindNextLine})
	case 'H':
		p.emit(Action{Kind: KindTabSet})
	case 'M':
		p.emit(Action{Kind: KindReverseIndex})
	case 'c':
		p.emit(Action{Kind: KindFullReset})
	case '=':
		p.emit(Action{Kind: KindKeypadApplication})
	case '>':
		p.emit(Action{Kind: KindKeypadNumeric})
	case '\\':
		// String terminator after an OSC or a dropped string.
	default:
		p.unknown("ESC " + string(rune(final)))
	}
}
