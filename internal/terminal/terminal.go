// Package terminal ties a child process on a pseudo-terminal to a screen
// model. A Terminal owns the process, the emulator and the goroutine that
// moves output from one to the other.
package terminal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/Gaurav-Gosain/termcore/internal/config"
	"github.com/Gaurav-Gosain/termcore/internal/grid"
	"github.com/Gaurav-Gosain/termcore/internal/pool"
	"github.com/Gaurav-Gosain/termcore/internal/selection"
)

// pollInterval bounds how long the read loop goes without checking for
// shutdown.
const pollInterval = 50 * time.Millisecond

// closeGrace is how long Close waits for the read loop before forcing it.
const closeGrace = time.Second

// Options configures a new Terminal.
type Options struct {
	Executable string
	Args       []string
	Env        []string
	WorkingDir string

	Cols, Rows            int
	CellWidth, CellHeight int

	// Config supplies scrollback, colours and buffer sizes. Nil means
	// config.DefaultConfig().
	Config *config.Config
	// Logger receives diagnostics. Nil discards them.
	Logger *log.Logger
}

// Terminal is a running child process and its screen model.
type Terminal struct {
	ID string

	emu    *Emulator
	proc   *Process
	events *dispatcher
	logger *log.Logger

	readSize   int
	batchLimit int

	cancel    context.CancelFunc
	loopDone  chan struct{}
	closeOnce sync.Once
	closed    atomic.Bool
	closeErr  error
}

func discardLogger() *log.Logger {
	return log.New(io.Discard)
}

// New starts the child described by opts and begins processing its
// output. Events are delivered to sink, which may be nil.
func New(opts Options, sink EventSink) (*Terminal, error) {
	if opts.Cols < 1 || opts.Rows < 1 {
		return nil, ErrInvalidSize
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	palette, err := cfg.Palette()
	if err != nil {
		return nil, fmt.Errorf("invalid palette: %w", err)
	}

	id := uuid.NewString()
	logger := opts.Logger
	if logger == nil {
		logger = discardLogger()
	}
	logger = logger.With("id", id)

	emu, err := NewEmulator(opts.Cols, opts.Rows, cfg.ScrollbackLines, logger)
	if err != nil {
		return nil, err
	}
	emu.SetPalette(palette)
	emu.SetSeparators(cfg.SemanticEscapeChars)
	emu.SetCellSize(opts.CellWidth, opts.CellHeight)

	proc, err := StartProcess(ProcessOptions{
		Executable: opts.Executable,
		Args:       opts.Args,
		Env:        opts.Env,
		WorkingDir: opts.WorkingDir,
		Term:       cfg.Term,
		ColorTerm:  cfg.ColorTerm,
		Cols:       opts.Cols,
		Rows:       opts.Rows,
		CellWidth:  opts.CellWidth,
		CellHeight: opts.CellHeight,
	})
	if err != nil {
		logger.Error("failed to start process", "err", err)
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	t := &Terminal{
		ID:         id,
		emu:        emu,
		proc:       proc,
		events:     newDispatcher(sink),
		logger:     logger,
		readSize:   min(max(cfg.ReadBufferSize, 1), pool.ReadBufferSize),
		batchLimit: max(cfg.BatchLimit, cfg.ReadBufferSize),
		cancel:     cancel,
		loopDone:   make(chan struct{}),
	}
	logger.Info("terminal started", "pid", proc.PID(), "cols", opts.Cols, "rows", opts.Rows)

	go t.readLoop(ctx)
	return t, nil
}

func (t *Terminal) readLoop(ctx context.Context) {
	defer close(t.loopDone)
	defer func() {
		if r := recover(); r != nil {
			t.logger.Error("read loop panicked", "err", r)
		}
	}()

	bufPtr := pool.GetByteSlice()
	defer pool.PutByteSlice(bufPtr)
	buf := (*bufPtr)[:t.readSize]

	batchPtr := pool.GetBatch()
	defer func() { pool.PutBatch(batchPtr, 2*t.batchLimit) }()

	for ctx.Err() == nil {
		ready, err := t.proc.waitReadable(pollInterval)
		if err != nil {
			t.logger.Debug("poll failed", "err", err)
			t.childExited(ctx)
			return
		}
		if !ready {
			if t.proc.Exited() {
				t.childExited(ctx)
				return
			}
			continue
		}

		batch := (*batchPtr)[:0]
		var readErr error
		for len(batch) < t.batchLimit {
			n, err := t.proc.Read(buf)
			batch = append(batch, buf[:n]...)
			if err != nil {
				readErr = err
				break
			}
			if more, err := t.proc.waitReadable(0); err != nil || !more {
				break
			}
		}
		*batchPtr = batch

		if len(batch) > 0 && ctx.Err() == nil {
			t.process(batch)
		}
		if readErr != nil {
			if !errors.Is(readErr, io.EOF) && !t.proc.Exited() {
				t.logger.Debug("pty read ended", "err", readErr)
			}
			t.childExited(ctx)
			return
		}
	}
}

// process feeds one batch to the emulator and delivers what it produced
// once the emulator lock is released.
func (t *Terminal) process(batch []byte) {
	events, replies := t.emu.Feed(batch)
	t.events.deliver(events...)
	if len(replies) > 0 {
		if err := t.proc.Write(replies); err != nil {
			t.logger.Debug("failed to write reply", "err", err, "bytes", len(replies))
		}
	}
	t.events.deliver(Event{Kind: EventWakeup})
}

// childExited waits for the child's exit status and reports it. It gives
// up silently when the terminal is being closed.
func (t *Terminal) childExited(ctx context.Context) {
	select {
	case <-t.proc.Done():
	case <-ctx.Done():
		return
	}
	code := t.proc.ExitCode()
	t.logger.Info("child exited", "pid", t.proc.PID(), "code", code)
	t.events.deliver(Event{Kind: EventChildExit, Code: code})
}

// Write sends input to the child. Input after the child exited is dropped.
func (t *Terminal) Write(p []byte) error {
	if t.closed.Load() {
		return ErrClosed
	}
	if err := t.proc.Write(p); err != nil {
		t.logger.Debug("write failed", "err", err, "bytes", len(p))
		return err
	}
	return nil
}

// Resize changes the grid and the PTY size together.
func (t *Terminal) Resize(cols, rows, cellWidth, cellHeight int) error {
	if t.closed.Load() {
		return ErrClosed
	}
	if err := t.ResizeGrid(cols, rows); err != nil {
		return err
	}
	t.emu.SetCellSize(cellWidth, cellHeight)
	if err := t.proc.SetSize(cols, rows, cellWidth, cellHeight); err != nil {
		t.logger.Debug("pty resize failed", "err", err)
		return fmt.Errorf("failed to resize pty: %w", err)
	}
	return nil
}

// ResizeGrid changes only the grid geometry.
func (t *Terminal) ResizeGrid(cols, rows int) error {
	return t.emu.Resize(cols, rows)
}

// NotifyPTYSize updates the PTY size and signals the foreground process
// without touching the grid.
func (t *Terminal) NotifyPTYSize(cols, rows, cellWidth, cellHeight int) error {
	if t.closed.Load() {
		return ErrClosed
	}
	t.emu.SetCellSize(cellWidth, cellHeight)
	if err := t.proc.NotifySize(cols, rows, cellWidth, cellHeight); err != nil {
		t.logger.Debug("pty size notification failed", "err", err)
		return fmt.Errorf("failed to notify pty size: %w", err)
	}
	return nil
}

// Snapshot copies the viewport.
func (t *Terminal) Snapshot() *Snapshot { return t.emu.Snapshot() }

// ScreenText renders the live screen as text.
func (t *Terminal) ScreenText() string { return t.emu.ScreenText() }

// PID returns the child's process id.
func (t *Terminal) PID() int { return t.proc.PID() }

// Info describes the shell and its foreground process.
func (t *Terminal) Info() (ProcessInfo, error) { return t.proc.Info() }

// Emulator exposes the screen model.
func (t *Terminal) Emulator() *Emulator { return t.emu }

// SetConfig applies the reloadable parts of cfg: colours, scrollback
// capacity and semantic separators.
func (t *Terminal) SetConfig(cfg *config.Config) error {
	palette, err := cfg.Palette()
	if err != nil {
		return err
	}
	t.emu.SetPalette(palette)
	t.emu.SetScrollback(cfg.ScrollbackLines)
	t.emu.SetSeparators(cfg.SemanticEscapeChars)
	return nil
}

// SetPalette replaces the colour palette.
func (t *Terminal) SetPalette(p grid.Palette) { t.emu.SetPalette(p) }

// ScrollDisplay moves the viewport; positive delta scrolls back.
func (t *Terminal) ScrollDisplay(delta int) { t.emu.ScrollDisplay(delta) }

// SelectionStart begins a selection at a viewport position.
func (t *Terminal) SelectionStart(row, col int, side selection.Side, typ selection.Type) {
	t.emu.SelectionStart(row, col, side, typ)
}

// SelectionUpdate extends the selection to a viewport position.
func (t *Terminal) SelectionUpdate(row, col int, side selection.Side) {
	t.emu.SelectionUpdate(row, col, side)
}

// SelectionClear drops the selection.
func (t *Terminal) SelectionClear() { t.emu.SelectionClear() }

// SelectionText returns the selected text.
func (t *Terminal) SelectionText() (string, bool) { return t.emu.SelectionText() }

// Close stops the read loop, terminates the child and releases the PTY.
// No event is delivered after Close returns. Close must not be called
// from the event sink.
func (t *Terminal) Close() error {
	t.closeOnce.Do(func() {
		t.closed.Store(true)
		t.cancel()
		select {
		case <-t.loopDone:
			t.closeErr = t.proc.Close()
		case <-time.After(closeGrace):
			// The loop is stuck in a read that cannot be polled; closing
			// the PTY unblocks it.
			t.closeErr = t.proc.Close()
			<-t.loopDone
		}
		t.events.disable()
		t.logger.Info("terminal closed", "pid", t.proc.PID())
	})
	return t.closeErr
}
