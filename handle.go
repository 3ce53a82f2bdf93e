package termcore

import (
	"sync"
	"sync/atomic"

	"github.com/Gaurav-Gosain/termcore/internal/terminal"
)

// Handle identifies a terminal created by Create. The zero Handle is never
// valid. Functions given an unknown Handle do nothing.
type Handle uint64

var registry = struct {
	sync.RWMutex
	next      atomic.Uint64
	terminals map[Handle]*terminal.Terminal
}{terminals: make(map[Handle]*terminal.Terminal)}

func lookup(h Handle) (*terminal.Terminal, bool) {
	registry.RLock()
	defer registry.RUnlock()
	t, ok := registry.terminals[h]
	return t, ok
}

// Create starts a shell on a new pseudo-terminal. On failure it returns
// the zero Handle and nothing is left running.
func Create(opts Options, sink EventSink) (Handle, error) {
	t, err := terminal.New(opts, sink)
	if err != nil {
		return 0, err
	}
	h := Handle(registry.next.Add(1))

	registry.Lock()
	registry.terminals[h] = t
	registry.Unlock()
	return h, nil
}

// Destroy terminates the shell and releases the terminal. No event is
// delivered for h once Destroy returns.
func Destroy(h Handle) error {
	registry.Lock()
	t, ok := registry.terminals[h]
	delete(registry.terminals, h)
	registry.Unlock()
	if !ok {
		return ErrInvalidHandle
	}
	return t.Close()
}

// Write sends input bytes to the shell. Input after the shell exited is
// dropped.
func Write(h Handle, p []byte) error {
	t, ok := lookup(h)
	if !ok {
		return ErrInvalidHandle
	}
	return t.Write(p)
}

// WriteString is Write for a string.
func WriteString(h Handle, s string) error {
	return Write(h, []byte(s))
}

// Resize changes the grid and the pseudo-terminal size. cellWidth and
// cellHeight are the cell size in pixels, reported to the shell.
func Resize(h Handle, cols, rows, cellWidth, cellHeight int) error {
	t, ok := lookup(h)
	if !ok {
		return ErrInvalidHandle
	}
	return t.Resize(cols, rows, cellWidth, cellHeight)
}

// ResizeGrid changes only the grid, leaving the pseudo-terminal alone.
func ResizeGrid(h Handle, cols, rows int) error {
	t, ok := lookup(h)
	if !ok {
		return ErrInvalidHandle
	}
	return t.ResizeGrid(cols, rows)
}

// NotifyPTYSize sets the pseudo-terminal size and signals the foreground
// process, without touching the grid.
func NotifyPTYSize(h Handle, cols, rows, cellWidth, cellHeight int) error {
	t, ok := lookup(h)
	if !ok {
		return ErrInvalidHandle
	}
	return t.NotifyPTYSize(cols, rows, cellWidth, cellHeight)
}

// Snapshot copies the visible screen. It returns nil for an unknown
// handle. Release the snapshot when done; Release is nil-safe.
func Snapshot(h Handle) *GridSnapshot {
	t, ok := lookup(h)
	if !ok {
		return nil
	}
	return t.Snapshot()
}

// ShellPID returns the shell's process id, or 0 for an unknown handle.
func ShellPID(h Handle) int {
	t, ok := lookup(h)
	if !ok {
		return 0
	}
	return t.PID()
}

// ShellInfo describes the shell and the process in the foreground of its
// terminal.
func ShellInfo(h Handle) (ProcessInfo, bool) {
	t, ok := lookup(h)
	if !ok {
		return ProcessInfo{}, false
	}
	info, err := t.Info()
	if err != nil {
		return info, false
	}
	return info, true
}

// SelectionStart begins a selection at a viewport cell.
func SelectionStart(h Handle, row, col int, side Side, typ SelectionType) {
	if t, ok := lookup(h); ok {
		t.SelectionStart(row, col, side, typ)
	}
}

// SelectionUpdate moves the selection head to a viewport cell.
func SelectionUpdate(h Handle, row, col int, side Side) {
	if t, ok := lookup(h); ok {
		t.SelectionUpdate(row, col, side)
	}
}

// SelectionClear drops the selection.
func SelectionClear(h Handle) {
	if t, ok := lookup(h); ok {
		t.SelectionClear()
	}
}

// SelectionText returns the selected text. It reports false when there is
// no selection.
func SelectionText(h Handle) (string, bool) {
	t, ok := lookup(h)
	if !ok {
		return "", false
	}
	return t.SelectionText()
}

// ScrollDisplay scrolls the viewport by delta rows; positive values move
// back into scrollback.
func ScrollDisplay(h Handle, delta int) {
	if t, ok := lookup(h); ok {
		t.ScrollDisplay(delta)
	}
}

// SetConfig applies the reloadable settings of cfg to a running terminal:
// colours, scrollback capacity and semantic selection separators.
func SetConfig(h Handle, cfg *Config) error {
	t, ok := lookup(h)
	if !ok {
		return ErrInvalidHandle
	}
	return t.SetConfig(cfg)
}
