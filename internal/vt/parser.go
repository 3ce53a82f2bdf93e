// Package vt decodes the byte stream written by a child process into
// terminal actions.
//
// Sequence recognition is done by the DEC ANSI state machine from
// charmbracelet/x/ansi. The Parser sits in front of it: it decodes UTF-8
// text itself, replacing malformed input with U+FFFD, and turns the
// machine's callbacks into Actions. All state lives in the Parser value,
// so a stream can be fed in arbitrary chunks and produces the same actions
// as when fed whole.
package vt

import (
	"unicode/utf8"

	"github.com/charmbracelet/x/ansi"
	"github.com/charmbracelet/x/ansi/parser"
)

const (
	maxParams   = parser.MaxParamsSize
	maxParamVal = parser.MaxParam
	maxOSCLen   = 8 * 1024

	// stSubstitute stands in for a 0x9C byte inside an OSC payload, where
	// it is a UTF-8 continuation byte rather than a string terminator.
	stSubstitute = 0xFF
)

// Handler receives every action the parser produces, in stream order.
type Handler func(Action)

// Parser turns terminal output into Actions. The zero value is not
// usable; create one with NewParser.
type Parser struct {
	handler Handler

	// OnUnknown, when set, is called with a short description of every
	// sequence that was recognised syntactically but is not supported.
	OnUnknown func(seq string)

	seq *ansi.Parser

	params [maxParams]Param

	// UTF-8 decoding in the ground state.
	cp      rune
	need    int
	minRune rune

	// ignoreCSI swallows the rest of a control sequence that was broken by
	// a byte outside 7-bit range.
	ignoreCSI bool

	// stOffsets records payload offsets where 0x9C was substituted.
	stOffsets []int
}

// NewParser returns a parser delivering actions to h.
func NewParser(h Handler) *Parser {
	p := &Parser{handler: h, seq: ansi.NewParser()}
	p.seq.SetParamsSize(maxParams)
	// One byte over the cap marks a payload that overflowed.
	p.seq.SetDataSize(maxOSCLen + 1)
	p.seq.SetHandler(ansi.Handler{
		Print:     p.print,
		Execute:   p.execute,
		HandleCsi: p.handleCsi,
		HandleEsc: p.handleEsc,
		HandleOsc: p.handleOsc,
	})
	return p
}

// Reset drops any partially parsed sequence and returns to the ground state.
func (p *Parser) Reset() {
	p.seq.Reset()
	p.need = 0
	p.ignoreCSI = false
	p.stOffsets = p.stOffsets[:0]
}

// Advance feeds data through the state machine.
func (p *Parser) Advance(data []byte) {
	for _, b := range data {
		p.step(b)
	}
}

func (p *Parser) step(b byte) {
	if p.need > 0 {
		if b&0xC0 == 0x80 {
			p.continueUTF8(b)
			return
		}
		// Truncated sequence; the interrupting byte is processed normally.
		p.need = 0
		p.print(utf8.RuneError)
	}

	if p.ignoreCSI {
		switch {
		case b >= 0x40 && b <= 0x7E:
			p.ignoreCSI = false
			return
		case b == ansi.ESC, b == ansi.CAN, b == ansi.SUB:
			p.ignoreCSI = false
		case b < 0x20:
		default:
			return
		}
	}

	if b < 0x80 {
		p.feed(b)
		return
	}

	// Bytes above 0x7F are never C1 controls here: in UTF-8 they belong to
	// multi-byte characters.
	switch p.seq.State() {
	case parser.GroundState:
		p.startUTF8(b)
	case parser.OscStringState:
		if b == 0x9C {
			if n := len(p.seq.Data()); n <= maxOSCLen {
				p.stOffsets = append(p.stOffsets, n)
			}
			b = stSubstitute
		}
		p.seq.Advance(b)
	case parser.CsiEntryState, parser.CsiParamState, parser.CsiIntermediateState:
		p.seq.Reset()
		p.ignoreCSI = true
		p.unknown("CSI interrupted by non-ASCII byte")
	case parser.EscapeState, parser.EscapeIntermediateState, parser.Utf8State:
		p.seq.Reset()
		p.startUTF8(b)
	default:
		// DCS, SOS, PM and APC payloads are dropped anyway.
	}
}

// feed passes a 7-bit byte to the sequence machine.
func (p *Parser) feed(b byte) {
	prev := p.seq.State()
	p.seq.Advance(b)
	if prev != parser.OscStringState && p.seq.State() == parser.OscStringState {
		p.stOffsets = p.stOffsets[:0]
	}
}

func (p *Parser) startUTF8(b byte) {
	switch {
	case b >= 0xC2 && b <= 0xDF:
		p.cp, p.need, p.minRune = rune(b&0x1F), 1, 0x80
	case b >= 0xE0 && b <= 0xEF:
		p.cp, p.need, p.minRune = rune(b&0x0F), 2, 0x800
	case b >= 0xF0 && b <= 0xF4:
		p.cp, p.need, p.minRune = rune(b&0x07), 3, 0x10000
	default:
		// Stray continuation bytes and lead bytes that can never start a
		// valid sequence.
		p.print(utf8.RuneError)
	}
}

func (p *Parser) continueUTF8(b byte) {
	p.cp = p.cp<<6 | rune(b&0x3F)
	p.need--
	if p.need > 0 {
		return
	}
	if p.cp < p.minRune || p.cp > utf8.MaxRune || (p.cp >= 0xD800 && p.cp <= 0xDFFF) {
		p.print(utf8.RuneError)
		return
	}
	p.print(p.cp)
}

func (p *Parser) emit(a Action) {
	p.handler(a)
}

func (p *Parser) print(r rune) {
	p.emit(Action{Kind: KindPrint, Rune: r})
}

func (p *Parser) unknown(seq string) {
	if p.OnUnknown != nil {
		p.OnUnknown(seq)
	}
}
