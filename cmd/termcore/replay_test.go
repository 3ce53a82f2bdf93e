package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Gaurav-Gosain/termcore/internal/terminal"
)

func writeCapture(t *testing.T, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "capture.log")
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReplayChunking(t *testing.T) {
	configFile = filepath.Join(t.TempDir(), "missing.toml")
	t.Cleanup(func() { configFile = "" })

	path := writeCapture(t, "\x1b[1;31mred\x1b[0m plain\r\n中文 wide\r\n\x1b[3;3Hx")

	var want bytes.Buffer
	if err := replay(&want, path, replayOptions{cols: 20, rows: 4}); err != nil {
		t.Fatalf("replay: %v", err)
	}
	if !strings.HasPrefix(want.String(), "red plain\n中文 wide") {
		t.Errorf("unexpected screen:\n%s", want.String())
	}

	for _, chunk := range []int{1, 2, 3, 7} {
		var got bytes.Buffer
		if err := replay(&got, path, replayOptions{cols: 20, rows: 4, chunk: chunk}); err != nil {
			t.Fatalf("replay chunk %d: %v", chunk, err)
		}
		if got.String() != want.String() {
			t.Errorf("chunk %d:\n%s\nwant:\n%s", chunk, got.String(), want.String())
		}
	}
}

func TestReplayEvents(t *testing.T) {
	configFile = filepath.Join(t.TempDir(), "missing.toml")
	t.Cleanup(func() { configFile = "" })

	path := writeCapture(t, "\x1b]2;title\a\a")
	var out bytes.Buffer
	if err := replay(&out, path, replayOptions{cols: 10, rows: 2, events: true}); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out.String(), "title \"title\"\nbell\n") {
		t.Errorf("output = %q", out.String())
	}
}

func TestRendererRow(t *testing.T) {
	emu, err := terminal.NewEmulator(10, 1, 0, nil)
	if err != nil {
		t.Fatal(err)
	}
	emu.Feed([]byte("ab中\x1b[8mhid"))
	snap := emu.Snapshot()
	defer snap.Release()

	row := newRenderer().Row(snap, 0)
	plain := stripANSI(row)
	if plain != "ab中      " {
		t.Errorf("row text = %q", plain)
	}
}

func TestCursorStyle(t *testing.T) {
	emu, err := terminal.NewEmulator(10, 2, 0, nil)
	if err != nil {
		t.Fatal(err)
	}
	emu.Feed([]byte("\x1b[2;3H\x1b[3 q"))
	snap := emu.Snapshot()
	defer snap.Release()

	frame := newRenderer().Frame(snap)
	if !strings.HasSuffix(frame, "\x1b[2;3H\x1b[4 q\x1b[?25h") {
		t.Errorf("frame should end with cursor placement, got %q", frame[max(len(frame)-30, 0):])
	}
}

// stripANSI removes CSI sequences, which is all lipgloss emits here.
func stripANSI(s string) string {
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == 0x1b && i+1 < len(s) && s[i+1] == '[' {
			i += 2
			for i < len(s) && (s[i] < 0x40 || s[i] > 0x7e) {
				i++
			}
			continue
		}
		sb.WriteByte(s[i])
	}
	return sb.String()
}
