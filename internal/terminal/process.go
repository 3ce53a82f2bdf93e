package terminal

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/x/xpty"
	"github.com/shirou/gopsutil/v4/process"
)

// terminateWait is how long Close waits after each signal for the child
// to exit.
const terminateWait = 500 * time.Millisecond

// ProcessOptions describes the child to start.
type ProcessOptions struct {
	// Executable defaults to the user's shell.
	Executable string
	Args       []string
	// Env entries are appended to the inherited environment and win over
	// it, including over Term and ColorTerm.
	Env        []string
	WorkingDir string
	Term       string
	ColorTerm  string

	Cols, Rows            int
	CellWidth, CellHeight int
}

// Process is a child process attached to a pseudo-terminal.
type Process struct {
	pty xpty.Pty
	cmd *exec.Cmd

	wmu    sync.Mutex
	closed atomic.Bool

	done     chan struct{}
	exitCode int
}

// ProcessInfo describes the shell and the process currently in the
// foreground of its terminal.
type ProcessInfo struct {
	PID     int
	Name    string
	Cwd     string
	Running bool

	ForegroundPID  int
	ForegroundName string
}

// StartProcess allocates a PTY of the requested size and starts the child
// on it as a session leader. On failure everything opened is released.
func StartProcess(opts ProcessOptions) (*Process, error) {
	if opts.Cols < 1 || opts.Rows < 1 {
		return nil, ErrInvalidSize
	}

	path, err := resolveExecutable(opts.Executable)
	if err != nil {
		return nil, err
	}

	// #nosec G204 - the executable is chosen by the host on purpose
	cmd := exec.Command(path, opts.Args...)
	cmd.Dir = opts.WorkingDir
	cmd.Env = buildEnv(opts)
	cmd.SysProcAttr = sysProcAttr()

	pty, err := xpty.NewPty(opts.Cols, opts.Rows)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate pty: %w", err)
	}
	if err := setWinsize(pty, opts.Cols, opts.Rows, opts.CellWidth, opts.CellHeight); err != nil {
		_ = pty.Close()
		return nil, fmt.Errorf("failed to size pty: %w", err)
	}
	if err := pty.Start(cmd); err != nil {
		_ = pty.Close()
		return nil, fmt.Errorf("failed to start %s: %w", path, err)
	}

	p := &Process{
		pty:      pty,
		cmd:      cmd,
		done:     make(chan struct{}),
		exitCode: -1,
	}
	go p.wait()
	return p, nil
}

// resolveExecutable returns the path of the program to run, falling back
// to the user's shell.
func resolveExecutable(name string) (string, error) {
	if name == "" {
		name = detectShell()
	}
	if name == "" {
		return "", ErrNoExecutable
	}
	path, err := exec.LookPath(name)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrNoExecutable, name, err)
	}
	return path, nil
}

func detectShell() string {
	if shell := os.Getenv("SHELL"); shell != "" {
		return shell
	}
	if runtime.GOOS == "windows" {
		for _, shell := range []string{"pwsh.exe", "powershell.exe", "cmd.exe"} {
			if _, err := exec.LookPath(shell); err == nil {
				return shell
			}
		}
		return ""
	}
	for _, shell := range []string{"/bin/bash", "/bin/zsh", "/bin/sh"} {
		if _, err := os.Stat(shell); err == nil {
			return shell
		}
	}
	return ""
}

func buildEnv(opts ProcessOptions) []string {
	term, colorTerm := opts.Term, opts.ColorTerm
	if term == "" {
		term = "xterm-256color"
	}
	env := append(os.Environ(), "TERM="+term)
	if colorTerm != "" {
		env = append(env, "COLORTERM="+colorTerm)
	}
	return append(env, opts.Env...)
}

func (p *Process) wait() {
	// WaitProcess ignores cancellation on unix; the PTY closing in Close is
	// what unblocks a stuck child.
	err := xpty.WaitProcess(context.Background(), p.cmd)
	p.exitCode = exitStatus(p.cmd, err)
	close(p.done)
}

// PID returns the child's process id.
func (p *Process) PID() int {
	if p.cmd.Process == nil {
		return 0
	}
	return p.cmd.Process.Pid
}

// Done is closed once the child has exited.
func (p *Process) Done() <-chan struct{} {
	return p.done
}

// Exited reports whether the child has exited.
func (p *Process) Exited() bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}

// ExitCode returns the exit status, or -1 while the child runs. A child
// killed by a signal reports 128 plus the signal number.
func (p *Process) ExitCode() int {
	if !p.Exited() {
		return -1
	}
	return p.exitCode
}

// Read reads output from the PTY master.
func (p *Process) Read(b []byte) (int, error) {
	return p.pty.Read(b)
}

// waitReadable waits up to timeout for output to become readable.
func (p *Process) waitReadable(timeout time.Duration) (bool, error) {
	return waitReadable(p.pty, timeout)
}

// Write sends input to the child. Writes after the child exited or the
// process was closed are dropped.
func (p *Process) Write(b []byte) error {
	if len(b) == 0 || p.closed.Load() || p.Exited() {
		return nil
	}
	p.wmu.Lock()
	defer p.wmu.Unlock()
	if p.closed.Load() {
		return nil
	}
	for len(b) > 0 {
		n, err := p.pty.Write(b)
		if err != nil {
			if p.Exited() {
				return nil
			}
			return fmt.Errorf("failed to write to pty: %w", err)
		}
		b = b[n:]
	}
	return nil
}

// SetSize updates the PTY window size. The kernel signals the foreground
// process group when the size changes.
func (p *Process) SetSize(cols, rows, cellWidth, cellHeight int) error {
	if cols < 1 || rows < 1 {
		return ErrInvalidSize
	}
	if p.closed.Load() || p.Exited() {
		return nil
	}
	return setWinsize(p.pty, cols, rows, cellWidth, cellHeight)
}

// NotifySize sets the window size and signals the foreground process
// group even when the size did not change, prompting a redraw.
func (p *Process) NotifySize(cols, rows, cellWidth, cellHeight int) error {
	if err := p.SetSize(cols, rows, cellWidth, cellHeight); err != nil {
		return err
	}
	if p.closed.Load() || p.Exited() {
		return nil
	}
	return signalWinch(p.pty, p.PID())
}

// Info reports the shell and the foreground process of its terminal.
func (p *Process) Info() (ProcessInfo, error) {
	info := ProcessInfo{PID: p.PID(), Running: !p.Exited()}
	if info.PID == 0 {
		return info, errors.New("process not started")
	}
	if info.Running {
		proc, err := process.NewProcess(int32(info.PID))
		if err != nil {
			return info, fmt.Errorf("failed to inspect process %d: %w", info.PID, err)
		}
		info.Name, _ = proc.Name()
		info.Cwd, _ = proc.Cwd()
	}
	if p.closed.Load() || !info.Running {
		return info, nil
	}
	if pgid, err := foregroundPGID(p.pty); err == nil && pgid > 0 {
		info.ForegroundPID = pgid
		if proc, err := process.NewProcess(int32(pgid)); err == nil {
			info.ForegroundName, _ = proc.Name()
		}
	}
	return info, nil
}

// Close terminates the child, hanging it up first and killing it if it
// lingers, then releases the PTY.
func (p *Process) Close() error {
	if !p.closed.CompareAndSwap(false, true) {
		return nil
	}
	if !p.Exited() && p.cmd.Process != nil {
		_ = hangup(p.cmd.Process)
		select {
		case <-p.done:
		case <-time.After(terminateWait):
			_ = p.cmd.Process.Kill()
			select {
			case <-p.done:
			case <-time.After(terminateWait):
			}
		}
	}
	p.wmu.Lock()
	defer p.wmu.Unlock()
	if err := p.pty.Close(); err != nil {
		return fmt.Errorf("failed to close pty: %w", err)
	}
	return nil
}
