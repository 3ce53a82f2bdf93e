package tape

// TokenType identifies a lexical token in a tape script.
type TokenType string

const (
	TOKEN_EOF        TokenType = "EOF"
	TOKEN_ILLEGAL    TokenType = "ILLEGAL"
	TOKEN_NEWLINE    TokenType = "NEWLINE"
	TOKEN_IDENTIFIER TokenType = "IDENTIFIER"
	TOKEN_STRING     TokenType = "STRING"
	TOKEN_NUMBER     TokenType = "NUMBER"
	TOKEN_DURATION   TokenType = "DURATION"
	TOKEN_PLUS       TokenType = "+"
	TOKEN_AT         TokenType = "@"
	TOKEN_MINUS      TokenType = "-"

	// Input
	TOKEN_TYPE      TokenType = "Type"
	TOKEN_ENTER     TokenType = "Enter"
	TOKEN_SPACE     TokenType = "Space"
	TOKEN_BACKSPACE TokenType = "Backspace"
	TOKEN_DELETE    TokenType = "Delete"
	TOKEN_TAB       TokenType = "Tab"
	TOKEN_ESCAPE    TokenType = "Escape"
	TOKEN_UP        TokenType = "Up"
	TOKEN_DOWN      TokenType = "Down"
	TOKEN_LEFT      TokenType = "Left"
	TOKEN_RIGHT     TokenType = "Right"
	TOKEN_HOME      TokenType = "Home"
	TOKEN_END       TokenType = "End"
	TOKEN_PAGE_UP   TokenType = "PageUp"
	TOKEN_PAGE_DOWN TokenType = "PageDown"

	// Modifiers
	TOKEN_CTRL TokenType = "Ctrl"
	TOKEN_ALT  TokenType = "Alt"

	// Timing and synchronization
	TOKEN_SLEEP            TokenType = "Sleep"
	TOKEN_WAIT             TokenType = "Wait"
	TOKEN_WAIT_UNTIL_REGEX TokenType = "WaitUntilRegex"

	// Terminal control
	TOKEN_RESIZE     TokenType = "Resize"
	TOKEN_SCROLL     TokenType = "Scroll"
	TOKEN_SCREENSHOT TokenType = "Screenshot"

	// Settings
	TOKEN_SET    TokenType = "Set"
	TOKEN_OUTPUT TokenType = "Output"
)

// Token is a lexical token with its source position.
type Token struct {
	Type    TokenType
	Literal string
	Line    int
	Column  int
}

// IsNamedKey reports whether the token names a key that can follow a
// modifier or stand alone as a command.
func (tt TokenType) IsNamedKey() bool {
	switch tt {
	case TOKEN_ENTER, TOKEN_SPACE, TOKEN_BACKSPACE, TOKEN_DELETE, TOKEN_TAB,
		TOKEN_ESCAPE, TOKEN_UP, TOKEN_DOWN, TOKEN_LEFT, TOKEN_RIGHT,
		TOKEN_HOME, TOKEN_END, TOKEN_PAGE_UP, TOKEN_PAGE_DOWN:
		return true
	}
	return false
}

// IsModifier reports whether the token is a modifier key.
func (tt TokenType) IsModifier() bool {
	return tt == TOKEN_CTRL || tt == TOKEN_ALT
}

var keywords = map[string]TokenType{
	"Type":      TOKEN_TYPE,
	"Enter":     TOKEN_ENTER,
	"Space":     TOKEN_SPACE,
	"Backspace": TOKEN_BACKSPACE,
	"Delete":    TOKEN_DELETE,
	"Tab":       TOKEN_TAB,
	"Escape":    TOKEN_ESCAPE,
	"Up":        TOKEN_UP,
	"Down":      TOKEN_DOWN,
	"Left":      TOKEN_LEFT,
	"Right":     TOKEN_RIGHT,
	"Home":      TOKEN_HOME,
	"End":       TOKEN_END,
	"PageUp":    TOKEN_PAGE_UP,
	"PageDown":  TOKEN_PAGE_DOWN,

	"Ctrl": TOKEN_CTRL,
	"Alt":  TOKEN_ALT,

	"Sleep":          TOKEN_SLEEP,
	"Wait":           TOKEN_WAIT,
	"WaitUntilRegex": TOKEN_WAIT_UNTIL_REGEX,

	"Resize":     TOKEN_RESIZE,
	"Scroll":     TOKEN_SCROLL,
	"Screenshot": TOKEN_SCREENSHOT,

	"Set":    TOKEN_SET,
	"Output": TOKEN_OUTPUT,
}

// LookupKeyword returns the keyword token for ident, or TOKEN_IDENTIFIER.
func LookupKeyword(ident string) TokenType {
	if tt, ok := keywords[ident]; ok {
		return tt
	}
	return TOKEN_IDENTIFIER
}
