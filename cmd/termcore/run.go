package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/x/ansi"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/Gaurav-Gosain/termcore"
	"github.com/Gaurav-Gosain/termcore/internal/config"
)

// frameInterval caps the redraw rate.
const frameInterval = time.Second / 60

func newRunCmd() *cobra.Command {
	var watchConfig bool

	cmd := &cobra.Command{
		Use:   "run [-- command [args...]]",
		Short: "Run a shell inside termcore",
		Long: `Run a shell, or the given command, inside termcore

termcore takes over the current terminal, forwards keyboard input to the
child and redraws the screen from engine snapshots. It exits when the
child exits.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInteractive(cmd.Context(), args, watchConfig)
		},
	}
	cmd.Flags().BoolVar(&watchConfig, "watch-config", false, "Reload colours when the config file changes")
	return cmd
}

// host owns the real terminal termcore draws on.
type host struct {
	mu  sync.Mutex
	out io.Writer
	r   *renderer
}

func (h *host) write(s string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, _ = io.WriteString(h.out, s)
}

func (h *host) draw(handle termcore.Handle) {
	snap := termcore.Snapshot(handle)
	if snap == nil {
		return
	}
	defer snap.Release()
	h.mu.Lock()
	frame := h.r.Frame(snap)
	h.mu.Unlock()
	h.write(frame)
}

// sink forwards titles and bells to the host terminal, coalesces wakeups
// into wake and reports the child's exit code on exited.
func (h *host) sink(wake chan<- struct{}, exited chan<- int, logger *log.Logger) termcore.EventSink {
	return func(ev termcore.Event) {
		switch ev.Kind {
		case termcore.EventWakeup:
			select {
			case wake <- struct{}{}:
			default:
			}
		case termcore.EventTitle:
			h.write(ansi.SetWindowTitle(ev.Text))
		case termcore.EventBell:
			h.write("\a")
		case termcore.EventChildExit:
			select {
			case exited <- ev.Code:
			default:
			}
		case termcore.EventDirectoryChange:
			logger.Debug("directory changed", "uri", ev.Text)
		}
	}
}

func runInteractive(ctx context.Context, args []string, watchConfig bool) error {
	stdin, stdout := int(os.Stdin.Fd()), int(os.Stdout.Fd())
	if !term.IsTerminal(stdin) || !term.IsTerminal(stdout) {
		return errors.New("run needs an interactive terminal")
	}

	cfg, cfgPath, err := loadConfig()
	if err != nil {
		return err
	}
	logger, closer, err := newLogger(cfg, io.Discard)
	if err != nil {
		return err
	}
	defer closer.Close()

	profile := colorprofile.Detect(os.Stdout, os.Environ())
	cfg.ColorTerm = colorTermFor(profile, cfg.ColorTerm)
	logger.Debug("detected colour profile", "profile", profile, "colorterm", cfg.ColorTerm)

	cols, rows, err := term.GetSize(stdout)
	if err != nil {
		cols, rows = 80, 24
	}

	h := &host{
		out: colorprofile.NewWriter(os.Stdout, os.Environ()),
		r:   newRenderer(),
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	wake := make(chan struct{}, 1)
	exited := make(chan int, 1)
	sink := h.sink(wake, exited, logger)

	opts := termcore.Options{
		Cols:   cols,
		Rows:   rows,
		Config: cfg,
		Logger: logger,
	}
	if len(args) > 0 {
		opts.Executable, opts.Args = args[0], args[1:]
	}
	handle, err := termcore.Create(opts, sink)
	if err != nil {
		return fmt.Errorf("failed to start terminal: %w", err)
	}
	defer termcore.Destroy(handle)

	oldState, err := term.MakeRaw(stdin)
	if err != nil {
		return fmt.Errorf("failed to enter raw mode: %w", err)
	}
	defer term.Restore(stdin, oldState)

	h.write(ansi.SetMode(ansi.ModeAltScreenSaveCursor) + ansi.EraseEntireScreen)
	defer h.write(ansi.ResetMode(ansi.ModeAltScreenSaveCursor) + ansi.SetModeTextCursorEnable)

	// Stdin cannot be interrupted, so the input pump lives outside the
	// group and reports through inputErr.
	inputErr := make(chan error, 1)
	go func() {
		inputErr <- pumpInput(handle, os.Stdin)
	}()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return redrawLoop(gctx, h, handle, wake)
	})
	g.Go(func() error {
		return resizeLoop(gctx, h, handle, stdout)
	})
	if watchConfig {
		g.Go(func() error {
			return config.Watch(gctx, cfgPath, func(c *config.Config) {
				reloadConfig(handle, c, logger)
				h.draw(handle)
			}, func(err error) {
				logger.Warn("config reload failed", "err", err)
			})
		})
	}

	var code int
	select {
	case code = <-exited:
		logger.Info("shell exited", "code", code)
	case err = <-inputErr:
		if err != nil {
			logger.Error("input failed", "err", err)
		}
	case <-gctx.Done():
	}
	cancel()
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func pumpInput(handle termcore.Handle, in io.Reader) error {
	buf := make([]byte, 4096)
	for {
		n, err := in.Read(buf)
		if n > 0 {
			if werr := termcore.Write(handle, buf[:n]); werr != nil {
				return werr
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
}

// redrawLoop redraws after output, at most once per frame interval.
func redrawLoop(ctx context.Context, h *host, handle termcore.Handle, wake <-chan struct{}) error {
	h.draw(handle)
	var last time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-wake:
		}
		if wait := frameInterval - time.Since(last); wait > 0 {
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(wait):
			}
		}
		last = time.Now()
		h.draw(handle)
	}
}

// resizeLoop follows the host terminal's size.
func resizeLoop(ctx context.Context, h *host, handle termcore.Handle, fd int) error {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGWINCH)
	defer signal.Stop(sig)

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-sig:
		}
		cols, rows, err := term.GetSize(fd)
		if err != nil {
			continue
		}
		if err := termcore.Resize(handle, cols, rows, 0, 0); err != nil {
			return fmt.Errorf("resize failed: %w", err)
		}
		h.write(ansi.EraseEntireScreen)
		h.draw(handle)
	}
}

func reloadConfig(handle termcore.Handle, cfg *config.Config, logger *log.Logger) {
	if err := termcore.SetConfig(handle, cfg); err != nil {
		logger.Warn("config not applied", "err", err)
		return
	}
	logger.Info("config reloaded")
}
