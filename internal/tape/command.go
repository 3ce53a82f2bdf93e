package tape

import (
	"fmt"
	"strings"
	"time"
)

// CommandType is the kind of a parsed tape command.
type CommandType string

const (
	CommandType_Type     CommandType = "Type"
	CommandType_Key      CommandType = "Key"
	CommandType_KeyCombo CommandType = "KeyCombo"

	CommandType_Sleep          CommandType = "Sleep"
	CommandType_Wait           CommandType = "Wait"
	CommandType_WaitUntilRegex CommandType = "WaitUntilRegex"

	CommandType_Resize     CommandType = "Resize"
	CommandType_Scroll     CommandType = "Scroll"
	CommandType_Screenshot CommandType = "Screenshot"

	CommandType_Set    CommandType = "Set"
	CommandType_Output CommandType = "Output"
)

// Command is one parsed tape command.
type Command struct {
	Type   CommandType
	Args   []string
	Delay  time.Duration // per-key delay for Type and repeated keys, length for Sleep
	Repeat int           // how many times a key is pressed; 0 means once
	Line   int
	Column int
}

// String renders the command the way it would be written in a script.
func (c *Command) String() string {
	switch c.Type {
	case CommandType_Type, CommandType_Wait, CommandType_WaitUntilRegex:
		parts := []string{string(c.Type), fmt.Sprintf("%q", c.Args[0])}
		return strings.Join(append(parts, c.Args[1:]...), " ")
	case CommandType_Key, CommandType_KeyCombo:
		s := c.Args[0]
		if c.Repeat > 1 {
			s += fmt.Sprintf(" %d", c.Repeat)
		}
		return s
	case CommandType_Sleep:
		return "Sleep " + c.Delay.String()
	default:
		return strings.TrimSpace(fmt.Sprintf("%s %s", c.Type, strings.Join(c.Args, " ")))
	}
}

// KeyCombo is a key with modifiers, such as Ctrl+C or Alt+Enter.
type KeyCombo struct {
	Ctrl bool
	Alt  bool
	Key  string
}

// String returns the combo in script notation.
func (kc KeyCombo) String() string {
	var sb strings.Builder
	if kc.Ctrl {
		sb.WriteString("Ctrl+")
	}
	if kc.Alt {
		sb.WriteString("Alt+")
	}
	sb.WriteString(kc.Key)
	return sb.String()
}

// ParseKeyCombo parses "Ctrl+C", "Alt+b" or "Ctrl+Alt+x".
func ParseKeyCombo(s string) (KeyCombo, error) {
	var kc KeyCombo
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == '+' })
	if len(parts) == 0 {
		return kc, fmt.Errorf("empty key combo")
	}

	kc.Key = parts[len(parts)-1]
	for _, mod := range parts[:len(parts)-1] {
		switch mod {
		case "Ctrl":
			kc.Ctrl = true
		case "Alt":
			kc.Alt = true
		default:
			return kc, fmt.Errorf("unknown modifier: %s", mod)
		}
	}
	return kc, nil
}
