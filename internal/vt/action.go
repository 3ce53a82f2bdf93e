package vt

// Kind identifies the variant of an Action.
type Kind uint8

// Action kinds. Each kind documents which Action fields it uses; fields not
// listed are zero.
const (
	KindNone Kind = iota

	// KindPrint draws Rune at the cursor.
	KindPrint

	// C0 controls.
	KindBell
	KindBackspace
	KindTab // N tab stops forward
	KindLineFeed
	KindCarriageReturn
	KindShiftOut // invoke G1 into GL
	KindShiftIn  // invoke G0 into GL

	// Cursor movement. Counts are in N and are at least 1.
	KindCursorUp
	KindCursorDown
	KindCursorForward
	KindCursorBackward
	KindCursorNextLine
	KindCursorPrevLine
	KindCursorColumn   // N is the 1-based column
	KindCursorRow      // N is the 1-based row
	KindCursorPosition // N row, M column, both 1-based
	KindCursorForwardTab
	KindCursorBackwardTab

	// Editing. N is a count or, for erase kinds, the selector.
	KindEraseDisplay
	KindEraseLine
	KindEraseChars
	KindInsertChars
	KindDeleteChars
	KindInsertLines
	KindDeleteLines
	KindScrollUp
	KindScrollDown
	KindRepeat

	// KindSetScrollRegion sets the margins to rows N..M (1-based, 0 for default).
	KindSetScrollRegion

	KindIndex
	KindReverseIndex
	KindNextLine
	KindSaveCursor
	KindRestoreCursor
	KindTabSet
	KindTabClear // N selector

	// KindSetGraphics carries the SGR parameters in Params.
	KindSetGraphics

	// KindSetMode and KindResetMode carry mode numbers in Params. Private
	// is set for DEC private modes (CSI ? ... h).
	KindSetMode
	KindResetMode

	KindSetCursorStyle // N is the DECSCUSR style
	KindKeypadApplication
	KindKeypadNumeric

	// KindDesignateCharset selects charset Rune into slot N (0..3 for G0..G3).
	KindDesignateCharset

	KindSetTitle            // Text
	KindSetWorkingDirectory // Text, the raw OSC 7 payload

	// Reports the host answers by writing back to the child.
	KindDeviceStatus     // N selector
	KindDeviceAttributes // Private for the secondary form
	KindWindowOp         // N is the XTWINOPS operation

	KindFullReset
	KindSoftReset
	KindAlignmentTest
)

var kindNames = [...]string{
	KindNone:                "None",
	KindPrint:               "Print",
	KindBell:                "Bell",
	KindBackspace:           "Backspace",
	KindTab:                 "Tab",
	KindLineFeed:            "LineFeed",
	KindCarriageReturn:      "CarriageReturn",
	KindShiftOut:            "ShiftOut",
	KindShiftIn:             "ShiftIn",
	KindCursorUp:            "CursorUp",
	KindCursorDown:          "CursorDown",
	KindCursorForward:       "CursorForward",
	KindCursorBackward:      "CursorBackward",
	KindCursorNextLine:      "CursorNextLine",
	KindCursorPrevLine:      "CursorPrevLine",
	KindCursorColumn:        "CursorColumn",
	KindCursorRow:           "CursorRow",
	KindCursorPosition:      "CursorPosition",
	KindCursorForwardTab:    "CursorForwardTab",
	KindCursorBackwardTab:   "CursorBackwardTab",
	KindEraseDisplay:        "EraseDisplay",
	KindEraseLine:           "EraseLine",
	KindEraseChars:          "EraseChars",
	KindInsertChars:         "InsertChars",
	KindDeleteChars:         "DeleteChars",
	KindInsertLines:         "InsertLines",
	KindDeleteLines:         "DeleteLines",
	KindScrollUp:            "ScrollUp",
	KindScrollDown:          "ScrollDown",
	KindRepeat:              "Repeat",
	KindSetScrollRegion:     "SetScrollRegion",
	KindIndex:               "Index",
	KindReverseIndex:        "ReverseIndex",
	KindNextLine:            "NextLine",
	KindSaveCursor:          "SaveCursor",
	KindRestoreCursor:       "RestoreCursor",
	KindTabSet:              "TabSet",
	KindTabClear:            "TabClear",
	KindSetGraphics:         "SetGraphics",
	KindSetMode:             "SetMode",
	KindResetMode:           "ResetMode",
	KindSetCursorStyle:      "SetCursorStyle",
	KindKeypadApplication:   "KeypadApplication",
	KindKeypadNumeric:       "KeypadNumeric",
	KindDesignateCharset:    "DesignateCharset",
	KindSetTitle:            "SetTitle",
	KindSetWorkingDirectory: "SetWorkingDirectory",
	KindDeviceStatus:        "DeviceStatus",
	KindDeviceAttributes:    "DeviceAttributes",
	KindWindowOp:            "WindowOp",
	KindFullReset:           "FullReset",
	KindSoftReset:           "SoftReset",
	KindAlignmentTest:       "AlignmentTest",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "Unknown"
}

// Action is a single decoded terminal operation. It is a tagged value: Kind
// selects the variant and determines which of the other fields are
// meaningful.
//
// Params aliases parser memory and is only valid for the duration of the
// handler call that receives the Action.
type Action struct {
	Kind    Kind
	Rune    rune
	N, M    int
	Params  Params
	Private bool
	Text    string
}

// Param is one numeric parameter of a control sequence. Value is -1 when
// the parameter was left empty. Sub marks a parameter that followed a ':'
// rather than a ';', i.e. a sub-parameter of the one before it.
type Param struct {
	Value int
	Sub   bool
}

// Params is the parameter list of a control sequence.
type Params []Param

// Get returns parameter i, or def when it is absent or empty.
func (p Params) Get(i, def int) int {
	if i < 0 || i >= len(p) || p[i].Value < 0 {
		return def
	}
	return p[i].Value
}

// Count returns parameter i as a repeat count: absent, empty and zero all
// mean one.
func (p Params) Count(i int) int {
	return max(1, p.Get(i, 1))
}
