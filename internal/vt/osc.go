package vt

import (
	"bytes"
	"strings"
	"unicode/utf8"
)

func (p *Parser) handleOsc(_ int, data []byte) {
	if len(data) > maxOSCLen {
		p.unknown("OSC payload too long")
		return
	}
	for _, off := range p.stOffsets {
		if off < len(data) {
			data[off] = 0x9C
		}
	}
	p.stOffsets = p.stOffsets[:0]

	cmd, rest, ok := bytes.Cut(data, []byte{';'})
	if !ok {
		if len(data) > 0 {
			p.unknown("OSC " + string(data))
		}
		return
	}

	switch string(cmd) {
	case "0", "2":
		p.emit(Action{Kind: KindSetTitle, Text: oscText(rest)})
	case "1":
		// Icon name only.
	case "7":
		p.emit(Action{Kind: KindSetWorkingDirectory, Text: oscText(rest)})
	default:
		p.unknown("OSC " + string(cmd))
	}
}

func oscText(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	return strings.ToValidUTF8(string(b), string(utf8.RuneError))
}
