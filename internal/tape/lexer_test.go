package tape

import (
	"slices"
	"testing"
)

func tokenTypes(input string) []TokenType {
	var out []TokenType
	for _, tok := range Tokenize(input) {
		out = append(out, tok.Type)
	}
	return out
}

func TestTokenizeCommands(t *testing.T) {
	tests := []struct {
		input string
		want  []TokenType
	}{
		{`Type@50ms "ls -la"`, []TokenType{TOKEN_TYPE, TOKEN_AT, TOKEN_DURATION, TOKEN_STRING, TOKEN_EOF}},
		{`Ctrl+C`, []TokenType{TOKEN_CTRL, TOKEN_PLUS, TOKEN_IDENTIFIER, TOKEN_EOF}},
		{`Alt+Enter`, []TokenType{TOKEN_ALT, TOKEN_PLUS, TOKEN_ENTER, TOKEN_EOF}},
		{`Ctrl+[`, []TokenType{TOKEN_CTRL, TOKEN_PLUS, TOKEN_ILLEGAL, TOKEN_EOF}},
		{`Up 3`, []TokenType{TOKEN_UP, TOKEN_NUMBER, TOKEN_EOF}},
		{`Scroll -5`, []TokenType{TOKEN_SCROLL, TOKEN_MINUS, TOKEN_NUMBER, TOKEN_EOF}},
		{`Resize 100 30`, []TokenType{TOKEN_RESIZE, TOKEN_NUMBER, TOKEN_NUMBER, TOKEN_EOF}},
		{`Set TypingSpeed 20ms`, []TokenType{TOKEN_SET, TOKEN_IDENTIFIER, TOKEN_DURATION, TOKEN_EOF}},
		{`Output out/run.txt`, []TokenType{TOKEN_OUTPUT, TOKEN_IDENTIFIER, TOKEN_EOF}},
		{`Screenshot`, []TokenType{TOKEN_SCREENSHOT, TOKEN_EOF}},
		{`WaitUntilRegex '\d+ files' 3s`, []TokenType{TOKEN_WAIT_UNTIL_REGEX, TOKEN_STRING, TOKEN_DURATION, TOKEN_EOF}},
		{`Hyper`, []TokenType{TOKEN_IDENTIFIER, TOKEN_EOF}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := tokenTypes(tt.input); !slices.Equal(got, tt.want) {
				t.Errorf("tokens = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTokenizeQuoting(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"escape sequence", `"\e[31mred"`, "\x1b[31mred"},
		{"control escapes", `"a\tb\r\n"`, "a\tb\r\n"},
		{"escaped quote", `"say \"hi\""`, `say "hi"`},
		{"single quotes are raw", `'\d+ files'`, `\d+ files`},
		{"backticks are raw", "`C:\\n`", `C:\n`},
		{"unterminated", `"echo`, "echo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tok := New(tt.input).NextToken()
			if tok.Type != TOKEN_STRING {
				t.Fatalf("type = %v, want STRING", tok.Type)
			}
			if tok.Literal != tt.want {
				t.Errorf("literal = %q, want %q", tok.Literal, tt.want)
			}
		})
	}
}

func TestTokenizeNumbers(t *testing.T) {
	tests := []struct {
		input string
		typ   TokenType
	}{
		{"30", TOKEN_NUMBER},
		{"500ms", TOKEN_DURATION},
		{"1.5s", TOKEN_DURATION},
		{"2m", TOKEN_DURATION},
	}

	for _, tt := range tests {
		tok := New(tt.input).NextToken()
		if tok.Type != tt.typ || tok.Literal != tt.input {
			t.Errorf("%q: got %v %q, want %v", tt.input, tok.Type, tok.Literal, tt.typ)
		}
	}
}

func TestTokenizePositions(t *testing.T) {
	tokens := Tokenize("Resize 100 30\n  Enter")

	want := []struct {
		typ       TokenType
		line, col int
	}{
		{TOKEN_RESIZE, 1, 1},
		{TOKEN_NUMBER, 1, 8},
		{TOKEN_NUMBER, 1, 12},
		{TOKEN_NEWLINE, 1, 14},
		{TOKEN_ENTER, 2, 3},
		{TOKEN_EOF, 2, 8},
	}
	if len(tokens) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(tokens), len(want))
	}
	for i, w := range want {
		tok := tokens[i]
		if tok.Type != w.typ || tok.Line != w.line || tok.Column != w.col {
			t.Errorf("token %d = %v at %d:%d, want %v at %d:%d",
				i, tok.Type, tok.Line, tok.Column, w.typ, w.line, w.col)
		}
	}
}

func TestTokenizeComments(t *testing.T) {
	got := tokenTypes("Enter # submit\n# whole line\nTab")
	want := []TokenType{TOKEN_ENTER, TOKEN_NEWLINE, TOKEN_NEWLINE, TOKEN_TAB, TOKEN_EOF}
	if !slices.Equal(got, want) {
		t.Errorf("tokens = %v, want %v", got, want)
	}
}

func TestNamedKeyTokensHaveEncodings(t *testing.T) {
	for word, tt := range keywords {
		if !tt.IsNamedKey() {
			continue
		}
		if _, err := KeyBytes(word); err != nil {
			t.Errorf("named key %s has no encoding: %v", word, err)
		}
		if tt.IsModifier() {
			t.Errorf("%s is both a key and a modifier", word)
		}
	}
	for _, tt := range []TokenType{TOKEN_CTRL, TOKEN_ALT} {
		if !tt.IsModifier() || tt.IsNamedKey() {
			t.Errorf("%s should be a modifier only", tt)
		}
	}
}
