//go:build unix

package terminal

import (
	"errors"
	"os"
	"os/exec"
	"syscall"
	"time"

	"github.com/charmbracelet/x/xpty"
	"golang.org/x/sys/unix"
)

func sysProcAttr() *syscall.SysProcAttr {
	// Ctty is the child's fd 0, which Start points at the PTY slave.
	return &syscall.SysProcAttr{
		Setsid:  true,
		Setctty: true,
		Ctty:    0,
	}
}

func setWinsize(pty xpty.Pty, cols, rows, cellWidth, cellHeight int) error {
	ws := &unix.Winsize{
		Row:    uint16(rows),
		Col:    uint16(cols),
		Xpixel: uint16(max(cols*cellWidth, 0)),
		Ypixel: uint16(max(rows*cellHeight, 0)),
	}
	return unix.IoctlSetWinsize(int(pty.Fd()), unix.TIOCSWINSZ, ws)
}

func foregroundPGID(pty xpty.Pty) (int, error) {
	return unix.IoctlGetInt(int(pty.Fd()), unix.TIOCGPGRP)
}

// signalWinch sends SIGWINCH to the PTY's foreground process group, or to
// the child when the group cannot be determined.
func signalWinch(pty xpty.Pty, pid int) error {
	if pgid, err := foregroundPGID(pty); err == nil && pgid > 0 {
		if err := unix.Kill(-pgid, unix.SIGWINCH); err == nil {
			return nil
		}
	}
	if pid <= 0 {
		return nil
	}
	if err := unix.Kill(pid, unix.SIGWINCH); err != nil && !errors.Is(err, unix.ESRCH) {
		return err
	}
	return nil
}

func hangup(p *os.Process) error {
	return p.Signal(syscall.SIGHUP)
}

func exitStatus(cmd *exec.Cmd, err error) int {
	state := cmd.ProcessState
	if state == nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return -1
		}
		state = exitErr.ProcessState
	}
	if ws, ok := state.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return 128 + int(ws.Signal())
	}
	return state.ExitCode()
}

// waitReadable polls the PTY master for output. It reports true when a
// read will not block, which includes hang-up and error conditions so the
// read can surface them.
func waitReadable(pty xpty.Pty, timeout time.Duration) (bool, error) {
	fds := []unix.PollFd{{Fd: int32(pty.Fd()), Events: unix.POLLIN}}
	for {
		n, err := unix.Poll(fds, int(timeout/time.Millisecond))
		if errors.Is(err, unix.EINTR) {
			continue
		}
		if err != nil {
			return false, err
		}
		if n == 0 {
			return false, nil
		}
		if fds[0].Revents&unix.POLLNVAL != 0 {
			return false, os.ErrClosed
		}
		return true, nil
	}
}
