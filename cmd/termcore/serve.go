package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/x/ansi"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Gaurav-Gosain/termcore"
	"github.com/Gaurav-Gosain/termcore/internal/config"
	"github.com/Gaurav-Gosain/termcore/internal/server"
)

func newServeCmd() *cobra.Command {
	var cfg server.SSHServerConfig

	cmd := &cobra.Command{
		Use:   "serve [-- command [args...]]",
		Short: "Serve termcore terminals over SSH",
		Long: `Start an SSH server that gives every client its own shell, or the given
command, running inside termcore

Clients must request a PTY. The host key is created on first use.`,
		Example: `  # Listen on the default port
  termcore serve

  # Connect from another terminal
  ssh -p 2222 localhost

  # Serve htop on all interfaces
  termcore serve --host 0.0.0.0 -- htop`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), &cfg, args)
		},
	}
	cmd.Flags().StringVar(&cfg.Host, "host", "localhost", "Address to listen on")
	cmd.Flags().StringVar(&cfg.Port, "port", "2222", "Port to listen on")
	cmd.Flags().StringVar(&cfg.KeyPath, "key-path", "", "Path to the SSH host key")
	return cmd
}

func serve(ctx context.Context, srvCfg *server.SSHServerConfig, command []string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}
	logger, closer, err := newLogger(cfg, io.Discard)
	if err != nil {
		return err
	}
	defer closer.Close()
	srvCfg.Logger = logger

	return server.StartSSHServer(ctx, srvCfg, func(sess ssh.Session, pty ssh.Pty, windows <-chan ssh.Window) int {
		return serveSession(sess, pty, windows, cfg, command, logger)
	})
}

// serveSession hosts one terminal for an SSH client and returns the
// child's exit code.
func serveSession(sess ssh.Session, pty ssh.Pty, windows <-chan ssh.Window, base *config.Config, command []string, logger *log.Logger) int {
	logger = logger.With("user", sess.User(), "remote", sess.RemoteAddr().String())

	env := append(sess.Environ(), "TERM="+pty.Term)
	profile := colorprofile.Detect(sess, env)
	cfg := *base
	cfg.ColorTerm = colorTermFor(profile, cfg.ColorTerm)

	h := &host{
		out: colorprofile.NewWriter(sess, env),
		r:   newRenderer(),
	}

	ctx, cancel := context.WithCancel(sess.Context())
	defer cancel()

	wake := make(chan struct{}, 1)
	exited := make(chan int, 1)

	opts := termcore.Options{
		Cols:   pty.Window.Width,
		Rows:   pty.Window.Height,
		Config: &cfg,
		Logger: logger,
	}
	if len(command) > 0 {
		opts.Executable, opts.Args = command[0], command[1:]
	}
	handle, err := termcore.Create(opts, h.sink(wake, exited, logger))
	if err != nil {
		logger.Error("failed to start terminal", "err", err)
		fmt.Fprintf(sess.Stderr(), "failed to start terminal: %v\n", err)
		return 1
	}
	defer termcore.Destroy(handle)
	logger.Info("session started", "cols", opts.Cols, "rows", opts.Rows)

	h.write(ansi.SetMode(ansi.ModeAltScreenSaveCursor) + ansi.EraseEntireScreen)
	defer h.write(ansi.ResetMode(ansi.ModeAltScreenSaveCursor) + ansi.SetModeTextCursorEnable)

	inputErr := make(chan error, 1)
	go func() {
		inputErr <- pumpInput(handle, sess)
	}()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return redrawLoop(gctx, h, handle, wake)
	})
	g.Go(func() error {
		return windowLoop(gctx, h, handle, windows)
	})

	code := 0
	select {
	case code = <-exited:
		logger.Info("session ended", "code", code)
	case err := <-inputErr:
		if err != nil {
			logger.Debug("client input ended", "err", err)
		}
	case <-gctx.Done():
	}
	cancel()
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Warn("session failed", "err", err)
	}
	return code
}

// windowLoop follows the client's window size.
func windowLoop(ctx context.Context, h *host, handle termcore.Handle, windows <-chan ssh.Window) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case w, ok := <-windows:
			if !ok {
				return nil
			}
			if err := termcore.Resize(handle, w.Width, w.Height, 0, 0); err != nil {
				return fmt.Errorf("resize failed: %w", err)
			}
			h.write(ansi.EraseEntireScreen)
			h.draw(handle)
		}
	}
}
