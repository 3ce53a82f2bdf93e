//go:build !unix

package terminal

import (
	"errors"
	"os"
	"os/exec"
	"syscall"
	"time"

	"github.com/charmbracelet/x/xpty"
)

var errUnsupported = errors.New("not supported on this platform")

func sysProcAttr() *syscall.SysProcAttr { return nil }

// setWinsize has no pixel size on ConPTY.
func setWinsize(pty xpty.Pty, cols, rows, _, _ int) error {
	return pty.Resize(cols, rows)
}

func foregroundPGID(xpty.Pty) (int, error) { return 0, errUnsupported }

// signalWinch is a no-op; ConPTY delivers resize events itself.
func signalWinch(xpty.Pty, int) error { return nil }

func hangup(p *os.Process) error { return p.Kill() }

func exitStatus(cmd *exec.Cmd, _ error) int {
	if cmd.ProcessState == nil {
		return -1
	}
	return cmd.ProcessState.ExitCode()
}

// waitReadable cannot poll a ConPTY pipe; reads block instead.
func waitReadable(xpty.Pty, time.Duration) (bool, error) { return true, nil }
