package tape

import (
	"fmt"
	"strconv"
	"time"
)

// Parser turns tape tokens into commands.
type Parser struct {
	lexer   *Lexer
	curTok  Token
	peekTok Token
	errors  []string
}

// NewParser creates a parser reading from l.
func NewParser(l *Lexer) *Parser {
	p := &Parser{lexer: l}
	p.nextToken()
	p.nextToken()
	return p
}

func (p *Parser) nextToken() {
	p.curTok = p.peekTok
	p.peekTok = p.lexer.NextToken()
}

// Parse parses the whole script. Lines that fail to parse are recorded in
// Errors and skipped.
func (p *Parser) Parse() []Command {
	var commands []Command
	for p.curTok.Type != TOKEN_EOF {
		if p.curTok.Type == TOKEN_NEWLINE {
			p.nextToken()
			continue
		}
		cmd, ok := p.parseCommand()
		if !ok {
			p.skipLine()
			continue
		}
		commands = append(commands, cmd)
		p.endLine()
	}
	return commands
}

func (p *Parser) parseCommand() (Command, bool) {
	cmd := Command{Line: p.curTok.Line, Column: p.curTok.Column}
	tt := p.curTok.Type

	switch {
	case tt == TOKEN_TYPE:
		return p.parseType(cmd)
	case tt == TOKEN_SLEEP:
		return p.parseSleep(cmd)
	case tt.IsNamedKey():
		cmd.Type = CommandType_Key
		cmd.Args = []string{p.curTok.Literal}
		p.nextToken()
		return p.parseRepeat(cmd)
	case tt.IsModifier():
		return p.parseKeyCombo(cmd)
	case tt == TOKEN_WAIT:
		return p.parseWait(cmd, CommandType_Wait)
	case tt == TOKEN_WAIT_UNTIL_REGEX:
		return p.parseWait(cmd, CommandType_WaitUntilRegex)
	case tt == TOKEN_RESIZE:
		return p.parseResize(cmd)
	case tt == TOKEN_SCROLL:
		return p.parseScroll(cmd)
	case tt == TOKEN_SCREENSHOT:
		return p.parseOptionalFile(cmd, CommandType_Screenshot)
	case tt == TOKEN_OUTPUT:
		cmd, ok := p.parseOptionalFile(cmd, CommandType_Output)
		if ok && len(cmd.Args) == 0 {
			p.addError("Output expects a file name")
			return cmd, false
		}
		return cmd, ok
	case tt == TOKEN_SET:
		return p.parseSet(cmd)
	default:
		p.addError(fmt.Sprintf("unexpected token: %v", p.curTok.Type))
		return cmd, false
	}
}

// parseDelay reads an optional @<duration> modifier.
func (p *Parser) parseDelay(cmd *Command) bool {
	if p.curTok.Type != TOKEN_AT {
		return true
	}
	p.nextToken()
	if p.curTok.Type != TOKEN_DURATION {
		p.addError("expected duration after @")
		return false
	}
	d, err := time.ParseDuration(p.curTok.Literal)
	if err != nil {
		p.addError(fmt.Sprintf("invalid duration: %s", p.curTok.Literal))
		return false
	}
	cmd.Delay = d
	p.nextToken()
	return true
}

// parseRepeat reads the optional @delay and repeat count that may follow
// a key.
func (p *Parser) parseRepeat(cmd Command) (Command, bool) {
	if !p.parseDelay(&cmd) {
		return cmd, false
	}
	if p.curTok.Type == TOKEN_NUMBER {
		n, err := strconv.Atoi(p.curTok.Literal)
		if err != nil || n < 1 {
			p.addError(fmt.Sprintf("invalid repeat count: %s", p.curTok.Literal))
			return cmd, false
		}
		cmd.Repeat = n
		p.nextToken()
	}
	return cmd, true
}

func (p *Parser) parseType(cmd Command) (Command, bool) {
	cmd.Type = CommandType_Type
	p.nextToken()

	if !p.parseDelay(&cmd) {
		return cmd, false
	}
	if p.curTok.Type != TOKEN_STRING {
		p.addError(fmt.Sprintf("Type expects a string, got %v", p.curTok.Type))
		return cmd, false
	}
	cmd.Args = []string{p.curTok.Literal}
	p.nextToken()
	return cmd, true
}

func (p *Parser) parseSleep(cmd Command) (Command, bool) {
	cmd.Type = CommandType_Sleep
	p.nextToken()

	if p.curTok.Type != TOKEN_DURATION {
		p.addError(fmt.Sprintf("Sleep expects a duration, got %v", p.curTok.Type))
		return cmd, false
	}
	d, err := time.ParseDuration(p.curTok.Literal)
	if err != nil {
		p.addError(fmt.Sprintf("invalid duration: %s", p.curTok.Literal))
		return cmd, false
	}
	cmd.Args = []string{p.curTok.Literal}
	cmd.Delay = d
	p.nextToken()
	return cmd, true
}

// parseKeyCombo parses Ctrl+X, Alt+X and Ctrl+Alt+X.
func (p *Parser) parseKeyCombo(cmd Command) (Command, bool) {
	cmd.Type = CommandType_KeyCombo

	var combo string
	for p.curTok.Type.IsModifier() {
		combo += p.curTok.Literal + "+"
		p.nextToken()
		if p.curTok.Type != TOKEN_PLUS {
			p.addError("expected + after modifier")
			return cmd, false
		}
		p.nextToken()
	}

	switch tt := p.curTok.Type; {
	case tt == TOKEN_IDENTIFIER, tt == TOKEN_NUMBER, tt.IsNamedKey():
		combo += p.curTok.Literal
	case tt == TOKEN_ILLEGAL, tt == TOKEN_AT, tt == TOKEN_MINUS:
		// Punctuation such as Ctrl+[ lexes as a single character token.
		combo += p.curTok.Literal
	default:
		p.addError(fmt.Sprintf("expected key after modifier, got %v", tt))
		return cmd, false
	}
	if _, err := ParseKeyCombo(combo); err != nil {
		p.addError(err.Error())
		return cmd, false
	}
	cmd.Args = []string{combo}
	p.nextToken()
	return p.parseRepeat(cmd)
}

// parseWait parses Wait "text" [timeout] and WaitUntilRegex "pattern" [timeout].
func (p *Parser) parseWait(cmd Command, typ CommandType) (Command, bool) {
	cmd.Type = typ
	p.nextToken()

	if p.curTok.Type != TOKEN_STRING {
		p.addError(fmt.Sprintf("%s expects a string", typ))
		return cmd, false
	}
	cmd.Args = []string{p.curTok.Literal}
	p.nextToken()

	if p.curTok.Type == TOKEN_DURATION {
		if _, err := time.ParseDuration(p.curTok.Literal); err != nil {
			p.addError(fmt.Sprintf("invalid timeout: %s", p.curTok.Literal))
			return cmd, false
		}
		cmd.Args = append(cmd.Args, p.curTok.Literal)
		p.nextToken()
	}
	return cmd, true
}

func (p *Parser) parseResize(cmd Command) (Command, bool) {
	cmd.Type = CommandType_Resize
	p.nextToken()

	for range 2 {
		if p.curTok.Type != TOKEN_NUMBER {
			p.addError("Resize expects columns and rows")
			return cmd, false
		}
		cmd.Args = append(cmd.Args, p.curTok.Literal)
		p.nextToken()
	}
	return cmd, true
}

// parseScroll parses Scroll <n>; positive values move into history.
func (p *Parser) parseScroll(cmd Command) (Command, bool) {
	cmd.Type = CommandType_Scroll
	p.nextToken()

	sign := ""
	if p.curTok.Type == TOKEN_MINUS {
		sign = "-"
		p.nextToken()
	}
	if p.curTok.Type != TOKEN_NUMBER {
		p.addError("Scroll expects a line count")
		return cmd, false
	}
	cmd.Args = []string{sign + p.curTok.Literal}
	p.nextToken()
	return cmd, true
}

func (p *Parser) parseOptionalFile(cmd Command, typ CommandType) (Command, bool) {
	cmd.Type = typ
	p.nextToken()

	if p.curTok.Type == TOKEN_STRING || p.curTok.Type == TOKEN_IDENTIFIER {
		cmd.Args = []string{p.curTok.Literal}
		p.nextToken()
	}
	return cmd, true
}

// parseSet parses Set <key> <value>.
func (p *Parser) parseSet(cmd Command) (Command, bool) {
	cmd.Type = CommandType_Set
	p.nextToken()

	if p.curTok.Type != TOKEN_IDENTIFIER {
		p.addError("Set expects a setting name")
		return cmd, false
	}
	key := p.curTok.Literal
	p.nextToken()

	switch p.curTok.Type {
	case TOKEN_IDENTIFIER, TOKEN_STRING, TOKEN_NUMBER, TOKEN_DURATION:
	default:
		p.addError(fmt.Sprintf("Set %s expects a value", key))
		return cmd, false
	}
	cmd.Args = []string{key, p.curTok.Literal}
	p.nextToken()
	return cmd, true
}

// endLine requires the rest of the line to be empty and skips past it.
func (p *Parser) endLine() {
	if p.curTok.Type != TOKEN_NEWLINE && p.curTok.Type != TOKEN_EOF {
		p.addError(fmt.Sprintf("unexpected %q at end of command", p.curTok.Literal))
	}
	p.skipLine()
}

func (p *Parser) skipLine() {
	for p.curTok.Type != TOKEN_NEWLINE && p.curTok.Type != TOKEN_EOF {
		p.nextToken()
	}
}

func (p *Parser) addError(msg string) {
	p.errors = append(p.errors, fmt.Sprintf("line %d: %s", p.curTok.Line, msg))
}

// Errors returns the errors collected while parsing.
func (p *Parser) Errors() []string {
	return p.errors
}

// ParseFile parses a script held in content.
func ParseFile(content string) ([]Command, []string) {
	p := NewParser(New(content))
	commands := p.Parse()
	return commands, p.Errors()
}
