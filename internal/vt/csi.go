package vt

import (
	"strconv"

	"github.com/charmbracelet/x/ansi"
)

// convertParams copies the machine's packed parameters into p.params,
// saturating values and marking sub-parameters.
func (p *Parser) convertParams(in ansi.Params) Params {
	n := min(len(in), maxParams)
	for i := range n {
		v := in[i].Param(-1)
		if v > maxParamVal {
			v = maxParamVal
		}
		p.params[i] = Param{Value: v, Sub: i > 0 && in[i-1].HasMore()}
	}
	return Params(p.params[:n])
}

func (p *Parser) handleCsi(cmd ansi.Cmd, raw ansi.Params) {
	params := p.convertParams(raw)
	final, private, inter := cmd.Final(), cmd.Prefix(), cmd.Intermediate()

	switch {
	case private == 0 && inter == 0:
		p.csiStandard(final, params)

	case private == '?' && inter == 0:
		switch final {
		case 'h':
			p.emit(Action{Kind: KindSetMode, Params: params, Private: true})
		case 'l':
			p.emit(Action{Kind: KindResetMode, Params: params, Private: true})
		case 'J':
			// DECSED: protected attributes are not tracked, so this is ED.
			p.emit(Action{Kind: KindEraseDisplay, N: params.Get(0, 0)})
		case 'K':
			p.emit(Action{Kind: KindEraseLine, N: params.Get(0, 0)})
		default:
			p.unknownCSI(cmd, params)
		}

	case private == '>' && inter == 0 && final == 'c':
		if params.Get(0, 0) == 0 {
			p.emit(Action{Kind: KindDeviceAttributes, Private: true})
		}

	case private == 0 && inter == ' ' && final == 'q':
		p.emit(Action{Kind: KindSetCursorStyle, N: params.Get(0, 0)})

	case private == 0 && inter == '!' && final == 'p':
		p.emit(Action{Kind: KindSoftReset})

	default:
		p.unknownCSI(cmd, params)
	}
}

func (p *Parser) csiStandard(final byte, params Params) {
	switch final {
	case '@':
		p.emit(Action{Kind: KindInsertChars, N: params.Count(0)})
	case 'A':
		p.emit(Action{Kind: KindCursorUp, N: params.Count(0)})
	case 'B', 'e':
		p.emit(Action{Kind: KindCursorDown, N: params.Count(0)})
	case 'C', 'a':
		p.emit(Action{Kind: KindCursorForward, N: params.Count(0)})
	case 'D':
		p.emit(Action{Kind: KindCursorBackward, N: params.Count(0)})
	case 'E':
		p.emit(Action{Kind: KindCursorNextLine, N: params.Count(0)})
	case 'F':
		p.emit(Action{Kind: KindCursorPrevLine, N: params.Count(0)})
	case 'G', '`':
		p.emit(Action{Kind: KindCursorColumn, N: params.Count(0)})
	case 'H', 'f':
		p.emit(Action{Kind: KindCursorPosition, N: params.Count(0), M: params.Count(1)})
	case 'I':
		p.emit(Action{Kind: KindCursorForwardTab, N: params.Count(0)})
	case 'Z':
		p.emit(Action{Kind: KindCursorBackwardTab, N: params.Count(0)})
	case 'J':
		p.emit(Action{Kind: KindEraseDisplay, N: params.Get(0, 0)})
	case 'K':
		p.emit(Action{Kind: KindEraseLine, N: params.Get(0, 0)})
	case 'L':
		p.emit(Action{Kind: KindInsertLines, N: params.Count(0)})
	case 'M':
		p.emit(Action{Kind: KindDeleteLines, N: params.Count(0)})
	case 'P':
		p.emit(Action{Kind: KindDeleteChars, N: params.Count(0)})
	case 'S':
		p.emit(Action{Kind: KindScrollUp, N: params.Count(0)})
	case 'T':
		// The five parameter form is xterm's mouse highlight tracking.
		if len(params) > 1 {
			p.unknownCSI(ansi.Cmd(final), params)
			return
		}
		p.emit(Action{Kind: KindScrollDown, N: params.Count(0)})
	case 'X':
		p.emit(Action{Kind: KindEraseChars, N: params.Count(0)})
	case 'b':
		p.emit(Action{Kind: KindRepeat, N: params.Count(0)})
	case 'c':
		if params.Get(0, 0) == 0 {
			p.emit(Action{Kind: KindDeviceAttributes})
		}
	case 'd':
		p.emit(Action{Kind: KindCursorRow, N: params.Count(0)})
	case 'g':
		p.emit(Action{Kind: KindTabClear, N: params.Get(0, 0)})
	case 'h':
		p.emit(Action{Kind: KindSetMode, Params: params})
	case 'l':
		p.emit(Action{Kind: KindResetMode, Params: params})
	case 'm':
		p.emit(Action{Kind: KindSetGraphics, Params: params})
	case 'n':
		p.emit(Action{Kind: KindDeviceStatus, N: params.Get(0, 0)})
	case 'r':
		p.emit(Action{Kind: KindSetScrollRegion, N: params.Get(0, 0), M: params.Get(1, 0)})
	case 's':
		p.emit(Action{Kind: KindSaveCursor})
	case 't':
		p.emit(Action{Kind: KindWindowOp, N: params.Get(0, 0)})
	case 'u':
		p.emit(Action{Kind: KindRestoreCursor})
	default:
		p.unknownCSI(ansi.Cmd(final), params)
	}
}

func (p *Parser) unknownCSI(cmd ansi.Cmd, params Params) {
	if p.OnUnknown == nil {
		return
	}
	seq := "CSI "
	if pre := cmd.Prefix(); pre != 0 {
		seq += string(rune(pre))
	}
	for i, prm := range params {
		if i > 0 {
			if prm.Sub {
				seq += ":"
			} else {
				seq += ";"
			}
		}
		if prm.Value >= 0 {
			seq += strconv.Itoa(prm.Value)
		}
	}
	if inter := cmd.Intermediate(); inter != 0 {
		seq += string(rune(inter))
	}
	p.OnUnknown(seq + string(rune(cmd.Final())))
}
