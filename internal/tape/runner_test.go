package tape

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

type fakeTarget struct {
	mu      sync.Mutex
	written bytes.Buffer
	writes  int
	screen  string
	size    [4]int
	scroll  int
}

func (f *fakeTarget) Write(p []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.written.Write(p)
	f.writes++
	return nil
}

func (f *fakeTarget) Resize(cols, rows, cellWidth, cellHeight int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.size = [4]int{cols, rows, cellWidth, cellHeight}
	return nil
}

func (f *fakeTarget) ScrollDisplay(delta int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scroll += delta
}

func (f *fakeTarget) ScreenText() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.screen
}

func (f *fakeTarget) setScreen(s string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.screen = s
}

func runScript(t *testing.T, target Target, script string) (string, error) {
	t.Helper()
	commands, errs := ParseFile(script)
	if len(errs) != 0 {
		t.Fatalf("parse errors: %v", errs)
	}
	var out bytes.Buffer
	err := NewRunner(target, &out, nil).Run(context.Background(), commands)
	return out.String(), err
}

func TestRunnerInput(t *testing.T) {
	target := &fakeTarget{}
	_, err := runScript(t, target, `Type "ls"
Enter
Tab 2
Ctrl+C
Alt+f
Up`)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := "ls\r\t\t\x03\x1bf\x1b[A"
	if got := target.written.String(); got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestRunnerTypingSpeed(t *testing.T) {
	target := &fakeTarget{}
	start := time.Now()
	_, err := runScript(t, target, "Set TypingSpeed 5ms\nType \"abcd\"")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if target.writes != 4 {
		t.Errorf("Expected one write per rune, got %d", target.writes)
	}
	if elapsed := time.Since(start); elapsed < 20*time.Millisecond {
		t.Errorf("Expected typing to take at least 20ms, took %v", elapsed)
	}
}

func TestRunnerWait(t *testing.T) {
	target := &fakeTarget{}
	go func() {
		time.Sleep(50 * time.Millisecond)
		target.setScreen("$ make\n12 files built")
	}()

	_, err := runScript(t, target, `Wait "files" 2s
WaitUntilRegex '^\$ make' 2s`)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
}

func TestRunnerWaitTimeout(t *testing.T) {
	target := &fakeTarget{screen: "nothing here"}
	_, err := runScript(t, target, `Enter
Wait "never" 50ms`)
	if err == nil {
		t.Fatal("Expected a timeout")
	}
	if !strings.Contains(err.Error(), "line 2") || !strings.Contains(err.Error(), "timed out") {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestRunnerCancel(t *testing.T) {
	commands, _ := ParseFile("Sleep 10s")
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := NewRunner(&fakeTarget{}, &bytes.Buffer{}, nil).Run(ctx, commands)
	if err == nil {
		t.Fatal("Expected cancellation error")
	}
}

func TestRunnerTerminalControl(t *testing.T) {
	target := &fakeTarget{}
	_, err := runScript(t, target, `Set CellWidth 8
Set CellHeight 16
Resize 100 30
Scroll 5
Scroll -2`)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if target.size != [4]int{100, 30, 8, 16} {
		t.Errorf("Unexpected size %v", target.size)
	}
	if target.scroll != 3 {
		t.Errorf("Expected scroll 3, got %d", target.scroll)
	}
}

func TestRunnerScreenshots(t *testing.T) {
	dir := t.TempDir()
	target := &fakeTarget{screen: "first"}

	out, err := runScript(t, target, `Screenshot
Screenshot "`+filepath.Join(dir, "one.txt")+`"
Output "`+filepath.Join(dir, "all.txt")+`"
Screenshot
Screenshot`)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if out != "first\n" {
		t.Errorf("Expected stdout screenshot, got %q", out)
	}
	one, err := os.ReadFile(filepath.Join(dir, "one.txt"))
	if err != nil || string(one) != "first\n" {
		t.Errorf("one.txt: %q, %v", one, err)
	}
	all, err := os.ReadFile(filepath.Join(dir, "all.txt"))
	if err != nil || string(all) != "first\nfirst\n" {
		t.Errorf("all.txt: %q, %v", all, err)
	}
}

func TestRunnerUnknownSetting(t *testing.T) {
	_, err := runScript(t, &fakeTarget{}, "Set Theme dracula")
	if err == nil || !strings.Contains(err.Error(), "unknown setting") {
		t.Errorf("Expected unknown setting error, got %v", err)
	}
}
