package termcore

import (
	"github.com/Gaurav-Gosain/termcore/internal/config"
	"github.com/Gaurav-Gosain/termcore/internal/grid"
	"github.com/Gaurav-Gosain/termcore/internal/selection"
	"github.com/Gaurav-Gosain/termcore/internal/terminal"
)

type (
	// Options configures a terminal. Cols and Rows must be at least 1.
	Options = terminal.Options
	// Event is a notification delivered to the EventSink.
	Event = terminal.Event
	// EventKind identifies an Event.
	EventKind = terminal.EventKind
	// EventSink receives events on the terminal's read goroutine. It must
	// not call Destroy for its own terminal.
	EventSink = terminal.EventSink
	// GridSnapshot is a copy of the viewport. Release it when done.
	GridSnapshot = terminal.Snapshot
	// CellData is one snapshot cell.
	CellData = terminal.CellData
	// ProcessInfo describes the shell and its foreground process.
	ProcessInfo = terminal.ProcessInfo
	// Side is the half of a cell a selection point falls on.
	Side = selection.Side
	// SelectionType is the selection granularity.
	SelectionType = selection.Type
	// CursorShape is how the host should draw the cursor.
	CursorShape = grid.CursorShape
	// RGB is a resolved colour.
	RGB = grid.RGB8
	// Config holds the engine settings loaded from config.toml.
	Config = config.Config
)

const (
	EventWakeup          = terminal.EventWakeup
	EventTitle           = terminal.EventTitle
	EventBell            = terminal.EventBell
	EventChildExit       = terminal.EventChildExit
	EventDirectoryChange = terminal.EventDirectoryChange
)

const (
	SideLeft  = selection.Left
	SideRight = selection.Right
)

const (
	SelectionSimple   = selection.Simple
	SelectionBlock    = selection.Block
	SelectionSemantic = selection.Semantic
	SelectionLines    = selection.Lines
)

const (
	CursorBlock     = grid.CursorBlock
	CursorUnderline = grid.CursorUnderline
	CursorBeam      = grid.CursorBeam
	CursorHidden    = grid.CursorHidden
)

// Cell flag bits in CellData.Flags.
const (
	FlagBold       = uint16(grid.FlagBold)
	FlagItalic     = uint16(grid.FlagItalic)
	FlagUnderline  = uint16(grid.FlagUnderline)
	FlagStrikeout  = uint16(grid.FlagStrikeout)
	FlagDim        = uint16(grid.FlagDim)
	FlagInverse    = uint16(grid.FlagInverse)
	FlagWideLead   = uint16(grid.FlagWideLead)
	FlagWideSpacer = uint16(grid.FlagWideSpacer)
	FlagHidden     = uint16(grid.FlagHidden)
	FlagSelected   = terminal.FlagSelected
)

// Mode bits in GridSnapshot.Mode.
const (
	ModeShowCursor       = uint32(grid.ModeShowCursor)
	ModeAppCursor        = uint32(grid.ModeAppCursor)
	ModeAppKeypad        = uint32(grid.ModeAppKeypad)
	ModeMouseReportClick = uint32(grid.ModeMouseReportClick)
	ModeBracketedPaste   = uint32(grid.ModeBracketedPaste)
	ModeSGRMouse         = uint32(grid.ModeSGRMouse)
	ModeMouseMotion      = uint32(grid.ModeMouseMotion)
	ModeLineWrap         = uint32(grid.ModeLineWrap)
	ModeLineFeedNewLine  = uint32(grid.ModeLineFeedNewLine)
	ModeOrigin           = uint32(grid.ModeOrigin)
	ModeInsert           = uint32(grid.ModeInsert)
	ModeFocusInOut       = uint32(grid.ModeFocusInOut)
	ModeAltScreen        = uint32(grid.ModeAltScreen)
	ModeMouseDrag        = uint32(grid.ModeMouseDrag)
	ModeUTF8Mouse        = uint32(grid.ModeUTF8Mouse)
	ModeAlternateScroll  = uint32(grid.ModeAlternateScroll)
)

var (
	ErrInvalidHandle = terminal.ErrInvalidHandle
	ErrInvalidSize   = terminal.ErrInvalidSize
	ErrNoExecutable  = terminal.ErrNoExecutable
)

// Version returns the engine version as major*10000 + minor*100 + patch.
func Version() uint32 {
	return terminal.VersionNumber()
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return config.DefaultConfig()
}

// LoadConfig reads a configuration file. A missing file yields the
// defaults.
func LoadConfig(path string) (*Config, error) {
	return config.Load(path)
}
