package server

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/ssh"
)

func TestHostKeyPath(t *testing.T) {
	path, err := HostKeyPath(&SSHServerConfig{KeyPath: "/tmp/key"})
	if err != nil || path != "/tmp/key" {
		t.Errorf("Expected explicit key path, got %q, %v", path, err)
	}

	path, err = HostKeyPath(&SSHServerConfig{})
	if err != nil {
		t.Fatalf("HostKeyPath failed: %v", err)
	}
	if !strings.HasSuffix(path, filepath.Join("termcore", "ssh_host_key")) {
		t.Errorf("Unexpected default key path %q", path)
	}
}

func TestStartSSHServerStopsOnCancel(t *testing.T) {
	cfg := &SSHServerConfig{
		Host:    "127.0.0.1",
		Port:    "0",
		KeyPath: filepath.Join(t.TempDir(), "host_key"),
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- StartSSHServer(ctx, cfg, func(ssh.Session, ssh.Pty, <-chan ssh.Window) int { return 0 })
	}()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Expected clean shutdown, got %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("server did not stop")
	}
}
