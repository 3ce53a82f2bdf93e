// Package server runs the SSH listener that hands interactive sessions to
// a termcore host.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"path/filepath"
	"time"

	"charm.land/wish/v2"
	"charm.land/wish/v2/logging"
	"github.com/adrg/xdg"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
)

const shutdownTimeout = 5 * time.Second

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	Host    string
	Port    string
	KeyPath string // defaults to the XDG data directory
	Logger  *log.Logger
}

// SessionHandler serves one SSH session that requested a PTY. It returns
// the exit status reported to the client.
type SessionHandler func(sess ssh.Session, pty ssh.Pty, windows <-chan ssh.Window) int

// HostKeyPath returns the host key location used when cfg names none.
func HostKeyPath(cfg *SSHServerConfig) (string, error) {
	if cfg.KeyPath != "" {
		return cfg.KeyPath, nil
	}
	path, err := xdg.DataFile(filepath.Join("termcore", "ssh_host_key"))
	if err != nil {
		return "", fmt.Errorf("could not determine host key path: %w", err)
	}
	return path, nil
}

// StartSSHServer serves SSH sessions until ctx is cancelled.
func StartSSHServer(ctx context.Context, cfg *SSHServerConfig, handler SessionHandler) error {
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	hostKeyPath, err := HostKeyPath(cfg)
	if err != nil {
		return err
	}

	server, err := wish.NewServer(
		wish.WithAddress(net.JoinHostPort(cfg.Host, cfg.Port)),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithMiddleware(
			ptyMiddleware(handler),
			logging.Middleware(),
		),
	)
	if err != nil {
		return fmt.Errorf("failed to create SSH server: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting SSH server", "addr", server.Addr, "host_key", hostKeyPath)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, ssh.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("SSH server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down SSH server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
		return fmt.Errorf("SSH shutdown failed: %w", err)
	}
	return nil
}

// ptyMiddleware rejects sessions without a PTY and runs handler for the
// rest.
func ptyMiddleware(handler SessionHandler) wish.Middleware {
	return func(next ssh.Handler) ssh.Handler {
		return func(sess ssh.Session) {
			pty, windows, ok := sess.Pty()
			if !ok {
				wish.Fatalln(sess, "termcore needs an interactive session, connect with ssh -t")
				return
			}
			_ = sess.Exit(handler(sess, pty, windows))
			next(sess)
		}
	}
}
