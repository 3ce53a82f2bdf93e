//go:build unix

package terminal

import (
	"errors"
	"os"
	"strings"
	"testing"
	"time"
)

func requireShell(t *testing.T) {
	t.Helper()
	if _, err := os.Stat("/bin/sh"); err != nil {
		t.Skip("/bin/sh not available")
	}
}

// readUntil collects PTY output until it contains want or the deadline
// passes.
func readUntil(t *testing.T, p *Process, want string) string {
	t.Helper()
	var out strings.Builder
	buf := make([]byte, 4096)
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		ready, err := p.waitReadable(pollInterval)
		if err != nil {
			break
		}
		if !ready {
			continue
		}
		n, err := p.Read(buf)
		out.Write(buf[:n])
		if strings.Contains(out.String(), want) {
			return out.String()
		}
		if err != nil {
			break
		}
	}
	t.Fatalf("output %q does not contain %q", out.String(), want)
	return ""
}

func TestStartProcessInvalidSize(t *testing.T) {
	if _, err := StartProcess(ProcessOptions{Executable: "/bin/sh", Cols: 0, Rows: 24}); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("error = %v, want ErrInvalidSize", err)
	}
}

func TestStartProcessMissingExecutable(t *testing.T) {
	_, err := StartProcess(ProcessOptions{Executable: "/nonexistent/termcore-shell", Cols: 80, Rows: 24})
	if !errors.Is(err, ErrNoExecutable) {
		t.Errorf("error = %v, want ErrNoExecutable", err)
	}
}

func TestProcessEnvAndSize(t *testing.T) {
	requireShell(t)
	p, err := StartProcess(ProcessOptions{
		Executable: "/bin/sh",
		Args:       []string{"-c", `echo "T=$TERM C=$COLORTERM X=$TERMCORE_TEST"; stty size; sleep 1`},
		Env:        []string{"TERMCORE_TEST=yes"},
		Term:       "xterm-256color",
		ColorTerm:  "truecolor",
		Cols:       91,
		Rows:       27,
	})
	if err != nil {
		t.Fatalf("StartProcess: %v", err)
	}
	defer p.Close()

	out := readUntil(t, p, "27 91")
	if !strings.Contains(out, "T=xterm-256color C=truecolor X=yes") {
		t.Errorf("environment not passed through: %q", out)
	}
}

func TestProcessWorkingDir(t *testing.T) {
	requireShell(t)
	dir := t.TempDir()
	p, err := StartProcess(ProcessOptions{
		Executable: "/bin/sh",
		Args:       []string{"-c", "pwd; sleep 1"},
		WorkingDir: dir,
		Cols:       200,
		Rows:       5,
	})
	if err != nil {
		t.Fatalf("StartProcess: %v", err)
	}
	defer p.Close()
	readUntil(t, p, dir)
}

func TestProcessExitCode(t *testing.T) {
	requireShell(t)
	p, err := StartProcess(ProcessOptions{
		Executable: "/bin/sh",
		Args:       []string{"-c", "exit 3"},
		Cols:       80,
		Rows:       24,
	})
	if err != nil {
		t.Fatalf("StartProcess: %v", err)
	}
	defer p.Close()

	select {
	case <-p.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("child did not exit")
	}
	if code := p.ExitCode(); code != 3 {
		t.Errorf("exit code = %d, want 3", code)
	}
	if err := p.Write([]byte("ignored\n")); err != nil {
		t.Errorf("write after exit = %v, want nil", err)
	}
}

func TestProcessWriteEcho(t *testing.T) {
	requireShell(t)
	p, err := StartProcess(ProcessOptions{Executable: "/bin/sh", Cols: 80, Rows: 24})
	if err != nil {
		t.Fatalf("StartProcess: %v", err)
	}
	defer p.Close()

	if err := p.Write([]byte("echo ab$((1+2))cd\n")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	readUntil(t, p, "ab3cd")
}

func TestProcessResizeAndInfo(t *testing.T) {
	requireShell(t)
	p, err := StartProcess(ProcessOptions{Executable: "/bin/sh", Cols: 80, Rows: 24})
	if err != nil {
		t.Fatalf("StartProcess: %v", err)
	}
	defer p.Close()

	if err := p.SetSize(0, 10, 0, 0); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("SetSize(0, 10) = %v, want ErrInvalidSize", err)
	}
	if err := p.NotifySize(100, 30, 8, 16); err != nil {
		t.Errorf("NotifySize: %v", err)
	}
	if err := p.Write([]byte("stty size\n")); err != nil {
		t.Fatal(err)
	}
	readUntil(t, p, "30 100")

	info, err := p.Info()
	if err != nil {
		t.Fatalf("Info: %v", err)
	}
	if info.PID != p.PID() || !info.Running {
		t.Errorf("info = %+v, want running pid %d", info, p.PID())
	}
}

func TestProcessCloseTerminates(t *testing.T) {
	requireShell(t)
	p, err := StartProcess(ProcessOptions{
		Executable: "/bin/sh",
		Args:       []string{"-c", "trap '' HUP; sleep 30"},
		Cols:       80,
		Rows:       24,
	})
	if err != nil {
		t.Fatalf("StartProcess: %v", err)
	}

	start := time.Now()
	if err := p.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
	if !p.Exited() {
		t.Error("child still running after Close")
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("Close took %v", elapsed)
	}
	if err := p.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
}
