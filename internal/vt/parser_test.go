package vt

import (
	"reflect"
	"testing"
	"unicode/utf8"
)

// recorder collects actions, copying Params since they alias parser memory.
type recorder struct {
	actions []Action
}

func (r *recorder) handle(a Action) {
	if a.Params != nil {
		a.Params = append(Params(nil), a.Params...)
	}
	r.actions = append(r.actions, a)
}

func parse(t *testing.T, input string) []Action {
	t.Helper()
	var r recorder
	p := NewParser(r.handle)
	p.Advance([]byte(input))
	return r.actions
}

func printed(actions []Action) string {
	var out []rune
	for _, a := range actions {
		if a.Kind == KindPrint {
			out = append(out, a.Rune)
		}
	}
	return string(out)
}

// TestParserPrint tests plain ASCII and UTF-8 text
func TestParserPrint(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"ascii", "hello", "hello"},
		{"two byte", "caf\xc3\xa9", "café"},
		{"three byte", "\xe4\xb8\xad", "中"},
		{"four byte", "\xf0\x9f\x98\x80", "😀"},
		{"del ignored", "a\x7fb", "ab"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := printed(parse(t, tt.input)); got != tt.want {
				t.Errorf("printed %q, want %q", got, tt.want)
			}
		})
	}
}

// TestParserInvalidUTF8 tests that malformed sequences become U+FFFD
func TestParserInvalidUTF8(t *testing.T) {
	r := string(utf8.RuneError)
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"stray continuation", "a\x80b", "a" + r + "b"},
		{"invalid lead", "a\xffb", "a" + r + "b"},
		{"overlong", "\xc0\xaf", r + r},
		{"overlong three byte", "\xe0\x80\xaf", r},
		{"surrogate", "\xed\xa0\x80", r},
		{"truncated by ascii", "\xe4\xb8x", r + "x"},
		{"truncated by escape", "\xe4\x1b[Ax", r + "x"},
		{"c1 csi is text", "a\x9b2Jb", "a" + r + "2Jb"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := printed(parse(t, tt.input)); got != tt.want {
				t.Errorf("printed %q, want %q", got, tt.want)
			}
		})
	}
}

// TestParserC0 tests control character execution
func TestParserC0(t *testing.T) {
	got := parse(t, "\a\b\t\n\v\f\r\x0e\x0f")
	want := []Kind{KindBell, KindBackspace, KindTab, KindLineFeed, KindLineFeed,
		KindLineFeed, KindCarriageReturn, KindShiftOut, KindShiftIn}
	if len(got) != len(want) {
		t.Fatalf("got %d actions, want %d", len(got), len(want))
	}
	for i, k := range want {
		if got[i].Kind != k {
			t.Errorf("action %d: got %v, want %v", i, got[i].Kind, k)
		}
	}
}

// TestParserCSI tests CSI sequences and their defaults
func TestParserCSI(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Action
	}{
		{"cursor up default", "\x1b[A", Action{Kind: KindCursorUp, N: 1}},
		{"cursor up zero", "\x1b[0A", Action{Kind: KindCursorUp, N: 1}},
		{"cursor down", "\x1b[5B", Action{Kind: KindCursorDown, N: 5}},
		{"cursor forward", "\x1b[3C", Action{Kind: KindCursorForward, N: 3}},
		{"cursor back", "\x1b[2D", Action{Kind: KindCursorBackward, N: 2}},
		{"cup", "\x1b[10;20H", Action{Kind: KindCursorPosition, N: 10, M: 20}},
		{"cup default", "\x1b[H", Action{Kind: KindCursorPosition, N: 1, M: 1}},
		{"cup empty row", "\x1b[;5H", Action{Kind: KindCursorPosition, N: 1, M: 5}},
		{"hvp", "\x1b[2;3f", Action{Kind: KindCursorPosition, N: 2, M: 3}},
		{"cha", "\x1b[7G", Action{Kind: KindCursorColumn, N: 7}},
		{"vpa", "\x1b[4d", Action{Kind: KindCursorRow, N: 4}},
		{"ed", "\x1b[2J", Action{Kind: KindEraseDisplay, N: 2}},
		{"ed default", "\x1b[J", Action{Kind: KindEraseDisplay, N: 0}},
		{"el", "\x1b[1K", Action{Kind: KindEraseLine, N: 1}},
		{"il", "\x1b[3L", Action{Kind: KindInsertLines, N: 3}},
		{"dl", "\x1b[M", Action{Kind: KindDeleteLines, N: 1}},
		{"ich", "\x1b[4@", Action{Kind: KindInsertChars, N: 4}},
		{"dch", "\x1b[2P", Action{Kind: KindDeleteChars, N: 2}},
		{"ech", "\x1b[6X", Action{Kind: KindEraseChars, N: 6}},
		{"su", "\x1b[2S", Action{Kind: KindScrollUp, N: 2}},
		{"sd", "\x1b[T", Action{Kind: KindScrollDown, N: 1}},
		{"decstbm", "\x1b[5;20r", Action{Kind: KindSetScrollRegion, N: 5, M: 20}},
		{"decstbm reset", "\x1b[r", Action{Kind: KindSetScrollRegion}},
		{"dsr", "\x1b[6n", Action{Kind: KindDeviceStatus, N: 6}},
		{"da", "\x1b[c", Action{Kind: KindDeviceAttributes}},
		{"da2", "\x1b[>c", Action{Kind: KindDeviceAttributes, Private: true}},
		{"decscusr", "\x1b[5 q", Action{Kind: KindSetCursorStyle, N: 5}},
		{"decstr", "\x1b[!p", Action{Kind: KindSoftReset}},
		{"rep", "\x1b[3b", Action{Kind: KindRepeat, N: 3}},
		{"scosc", "\x1b[s", Action{Kind: KindSaveCursor}},
		{"scorc", "\x1b[u", Action{Kind: KindRestoreCursor}},
		{"tbc", "\x1b[3g", Action{Kind: KindTabClear, N: 3}},
		{"xtwinops", "\x1b[18t", Action{Kind: KindWindowOp, N: 18}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parse(t, tt.input)
			if len(got) != 1 {
				t.Fatalf("got %d actions, want 1: %+v", len(got), got)
			}
			if !reflect.DeepEqual(got[0], tt.want) {
				t.Errorf("got %+v, want %+v", got[0], tt.want)
			}
		})
	}
}

// TestParserModes tests ANSI and DEC private mode sequences
func TestParserModes(t *testing.T) {
	got := parse(t, "\x1b[?1049;25h\x1b[4l")
	if len(got) != 2 {
		t.Fatalf("got %d actions, want 2", len(got))
	}
	if got[0].Kind != KindSetMode || !got[0].Private {
		t.Errorf("first action = %+v, want private SetMode", got[0])
	}
	if got[0].Params.Get(0, 0) != 1049 || got[0].Params.Get(1, 0) != 25 {
		t.Errorf("params = %+v", got[0].Params)
	}
	if got[1].Kind != KindResetMode || got[1].Private || got[1].Params.Get(0, 0) != 4 {
		t.Errorf("second action = %+v, want ANSI ResetMode 4", got[1])
	}
}

// TestParserSGRParams tests semicolon and colon separated SGR parameters
func TestParserSGRParams(t *testing.T) {
	got := parse(t, "\x1b[1;38:2::255:0:10m")
	if len(got) != 1 || got[0].Kind != KindSetGraphics {
		t.Fatalf("got %+v, want one SetGraphics", got)
	}
	want := Params{
		{Value: 1},
		{Value: 38},
		{Value: 2, Sub: true},
		{Value: -1, Sub: true},
		{Value: 255, Sub: true},
		{Value: 0, Sub: true},
		{Value: 10, Sub: true},
	}
	if !reflect.DeepEqual(got[0].Params, want) {
		t.Errorf("params = %+v, want %+v", got[0].Params, want)
	}
}

// TestParserParamLimits tests parameter saturation and count limits
func TestParserParamLimits(t *testing.T) {
	got := parse(t, "\x1b[99999999A")
	if len(got) != 1 || got[0].N != maxParamVal {
		t.Errorf("got %+v, want saturated count %d", got, maxParamVal)
	}

	long := "\x1b["
	for i := 0; i < 100; i++ {
		long += "1;"
	}
	got = parse(t, long+"m")
	if len(got) != 1 || len(got[0].Params) != maxParams {
		t.Errorf("got %d params, want %d", len(got[0].Params), maxParams)
	}
}

// TestParserEscape tests two and three byte escape sequences
func TestParserEscape(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Action
	}{
		{"decsc", "\x1b7", Action{Kind: KindSaveCursor}},
		{"decrc", "\x1b8", Action{Kind: KindRestoreCursor}},
		{"ind", "\x1bD", Action{Kind: KindIndex}},
		{"nel", "\x1bE", Action{Kind: KindNextLine}},
		{"hts", "\x1bH", Action{Kind: KindTabSet}},
		{"ri", "\x1bM", Action{Kind: KindReverseIndex}},
		{"ris", "\x1bc", Action{Kind: KindFullReset}},
		{"deckpam", "\x1b=", Action{Kind: KindKeypadApplication}},
		{"deckpnm", "\x1b>", Action{Kind: KindKeypadNumeric}},
		{"g0 line drawing", "\x1b(0", Action{Kind: KindDesignateCharset, N: 0, Rune: '0'}},
		{"g1 ascii", "\x1b)B", Action{Kind: KindDesignateCharset, N: 1, Rune: 'B'}},
		{"decaln", "\x1b#8", Action{Kind: KindAlignmentTest}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parse(t, tt.input)
			if len(got) != 1 || !reflect.DeepEqual(got[0], tt.want) {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

// TestParserOSC tests title and working directory sequences
func TestParserOSC(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Action
	}{
		{"title bel", "\x1b]0;my title\a", []Action{{Kind: KindSetTitle, Text: "my title"}}},
		{"title st", "\x1b]2;other\x1b\\", []Action{{Kind: KindSetTitle, Text: "other"}}},
		{"title with semicolon", "\x1b]2;a;b\a", []Action{{Kind: KindSetTitle, Text: "a;b"}}},
		{"empty title", "\x1b]0;\a", []Action{{Kind: KindSetTitle, Text: ""}}},
		{"utf8 title", "\x1b]0;h\xc3\xa9\a", []Action{{Kind: KindSetTitle, Text: "hé"}}},
		{"quoted title", "\x1b]2;\xe2\x80\x9cq\xe2\x80\x9d\a", []Action{{Kind: KindSetTitle, Text: "\u201cq\u201d"}}},
		{"invalid utf8 title", "\x1b]0;a\xffb\a", []Action{{Kind: KindSetTitle, Text: "a\ufffdb"}}},
		{"cwd", "\x1b]7;file:///tmp\a", []Action{{Kind: KindSetWorkingDirectory, Text: "file:///tmp"}}},
		{"icon only", "\x1b]1;icon\a", nil},
		{"unsupported", "\x1b]52;c;aGk=\a", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parse(t, tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

// TestParserOSCInterruptedByEscape tests that ESC inside OSC ends it
func TestParserOSCInterruptedByEscape(t *testing.T) {
	got := parse(t, "\x1b]0;abc\x1b[2Jx")
	want := []Action{
		{Kind: KindSetTitle, Text: "abc"},
		{Kind: KindEraseDisplay, N: 2},
		{Kind: KindPrint, Rune: 'x'},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

// TestParserOSCOverflow tests that oversized payloads are consumed and dropped
func TestParserOSCOverflow(t *testing.T) {
	big := make([]byte, maxOSCLen+100)
	for i := range big {
		big[i] = 'a'
	}
	got := parse(t, "\x1b]0;"+string(big)+"\aok")
	if printed(got) != "ok" {
		t.Errorf("printed %q, want \"ok\"", printed(got))
	}
	for _, a := range got {
		if a.Kind == KindSetTitle {
			t.Error("oversized title should be dropped")
		}
	}
}

// TestParserMalformed tests that broken sequences are discarded
func TestParserMalformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"unknown csi final", "a\x1b[5yb", "ab"},
		{"private marker mid params", "a\x1b[1?2Hb", "ab"},
		{"cancelled csi", "a\x1b[12\x18b", "ab"},
		{"substituted osc", "a\x1b]0;x\x1ab", "ab"},
		{"dcs swallowed", "a\x1bP1$r0m\x1b\\b", "ab"},
		{"apc swallowed", "a\x1b_Gf=100;AAAA\x1b\\b", "ab"},
		{"unknown escape", "a\x1bQb", "ab"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := printed(parse(t, tt.input)); got != tt.want {
				t.Errorf("printed %q, want %q", got, tt.want)
			}
		})
	}
}

// TestParserCSIBrokenByHighByte tests that a non-ASCII byte inside a
// control sequence discards the rest of it
func TestParserCSIBrokenByHighByte(t *testing.T) {
	var seen []string
	var r recorder
	p := NewParser(r.handle)
	p.OnUnknown = func(seq string) { seen = append(seen, seq) }
	p.Advance([]byte("a\x1b[1\xc3;2\rHb"))

	want := []Action{
		{Kind: KindPrint, Rune: 'a'},
		{Kind: KindCarriageReturn},
		{Kind: KindPrint, Rune: 'b'},
	}
	if !reflect.DeepEqual(r.actions, want) {
		t.Errorf("got %+v, want %+v", r.actions, want)
	}
	if len(seen) != 1 {
		t.Errorf("OnUnknown saw %q, want one report", seen)
	}
}

// TestParserControlInsideCSI tests that C0 controls execute mid-sequence
func TestParserControlInsideCSI(t *testing.T) {
	got := parse(t, "\x1b[1\r;2H")
	want := []Action{
		{Kind: KindCarriageReturn},
		{Kind: KindCursorPosition, N: 1, M: 2},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

// TestParserOnUnknown tests the unsupported sequence hook
func TestParserOnUnknown(t *testing.T) {
	var seen []string
	p := NewParser(func(Action) {})
	p.OnUnknown = func(seq string) { seen = append(seen, seq) }
	p.Advance([]byte("\x1b[?1;2y"))
	if len(seen) != 1 || seen[0] != "CSI ?1;2y" {
		t.Errorf("OnUnknown saw %q", seen)
	}
}

// TestParserReset tests that Reset drops partial sequences
func TestParserReset(t *testing.T) {
	var r recorder
	p := NewParser(r.handle)
	p.Advance([]byte("\x1b[12"))
	p.Reset()
	p.Advance([]byte("A"))
	if len(r.actions) != 1 || r.actions[0].Kind != KindPrint || r.actions[0].Rune != 'A' {
		t.Errorf("got %+v, want a single print of 'A'", r.actions)
	}
}
