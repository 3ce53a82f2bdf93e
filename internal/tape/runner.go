package tape

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

const (
	defaultWaitTimeout = 10 * time.Second
	waitPollInterval   = 20 * time.Millisecond
)

// Target is the terminal a script drives.
type Target interface {
	Write(p []byte) error
	Resize(cols, rows, cellWidth, cellHeight int) error
	ScrollDisplay(delta int)
	ScreenText() string
}

// Runner executes tape commands against a Target.
type Runner struct {
	target Target
	logger *log.Logger

	out    io.Writer
	output *os.File

	typingSpeed time.Duration
	waitTimeout time.Duration
	cellWidth   int
	cellHeight  int
}

// NewRunner creates a runner that writes screenshots to out until an
// Output command redirects them.
func NewRunner(target Target, out io.Writer, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Runner{
		target:      target,
		logger:      logger,
		out:         out,
		waitTimeout: defaultWaitTimeout,
	}
}

// Run executes commands in order and stops at the first failure.
func (r *Runner) Run(ctx context.Context, commands []Command) error {
	defer r.closeOutput()

	start := time.Now()
	for i := range commands {
		cmd := &commands[i]
		r.logger.Debug("tape command", "line", cmd.Line, "cmd", cmd.String())
		if err := r.exec(ctx, cmd); err != nil {
			return fmt.Errorf("line %d: %s: %w", cmd.Line, cmd, err)
		}
	}
	r.logger.Info("tape finished", "commands", len(commands), "elapsed", time.Since(start).Round(time.Millisecond))
	return nil
}

func (r *Runner) exec(ctx context.Context, cmd *Command) error {
	switch cmd.Type {
	case CommandType_Type:
		return r.typeText(ctx, cmd.Args[0], cmd.Delay)

	case CommandType_Key:
		seq, err := KeyBytes(cmd.Args[0])
		if err != nil {
			return err
		}
		return r.press(ctx, seq, cmd)

	case CommandType_KeyCombo:
		kc, err := ParseKeyCombo(cmd.Args[0])
		if err != nil {
			return err
		}
		seq, err := kc.Bytes()
		if err != nil {
			return err
		}
		return r.press(ctx, seq, cmd)

	case CommandType_Sleep:
		return sleep(ctx, cmd.Delay)

	case CommandType_Wait:
		want := cmd.Args[0]
		return r.waitFor(ctx, cmd, func(screen string) bool {
			return strings.Contains(screen, want)
		})

	case CommandType_WaitUntilRegex:
		re, err := regexp.Compile(cmd.Args[0])
		if err != nil {
			return fmt.Errorf("invalid pattern: %w", err)
		}
		return r.waitFor(ctx, cmd, re.MatchString)

	case CommandType_Resize:
		cols, _ := strconv.Atoi(cmd.Args[0])
		rows, _ := strconv.Atoi(cmd.Args[1])
		return r.target.Resize(cols, rows, r.cellWidth, r.cellHeight)

	case CommandType_Scroll:
		n, err := strconv.Atoi(cmd.Args[0])
		if err != nil {
			return err
		}
		r.target.ScrollDisplay(n)
		return nil

	case CommandType_Screenshot:
		return r.screenshot(cmd.Args)

	case CommandType_Output:
		return r.openOutput(cmd.Args[0])

	case CommandType_Set:
		return r.set(cmd.Args[0], cmd.Args[1])

	default:
		return fmt.Errorf("unsupported command %s", cmd.Type)
	}
}

// typeText writes text one rune at a time, pausing between runes when a
// typing speed is in effect.
func (r *Runner) typeText(ctx context.Context, text string, delay time.Duration) error {
	if delay == 0 {
		delay = r.typingSpeed
	}
	if delay == 0 {
		return r.target.Write([]byte(text))
	}
	for _, ch := range text {
		if err := r.target.Write([]byte(string(ch))); err != nil {
			return err
		}
		if err := sleep(ctx, delay); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) press(ctx context.Context, seq []byte, cmd *Command) error {
	for i := range max(cmd.Repeat, 1) {
		if i > 0 {
			if err := sleep(ctx, cmd.Delay); err != nil {
				return err
			}
		}
		if err := r.target.Write(seq); err != nil {
			return err
		}
	}
	return nil
}

// waitFor polls the screen until match accepts it or the timeout passes.
func (r *Runner) waitFor(ctx context.Context, cmd *Command, match func(string) bool) error {
	timeout := r.waitTimeout
	if len(cmd.Args) > 1 {
		d, err := time.ParseDuration(cmd.Args[1])
		if err != nil {
			return err
		}
		timeout = d
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(waitPollInterval)
	defer ticker.Stop()
	for {
		if match(r.target.ScreenText()) {
			return nil
		}
		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return fmt.Errorf("timed out after %s", timeout)
			}
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (r *Runner) screenshot(args []string) error {
	screen := r.target.ScreenText() + "\n"
	if len(args) > 0 {
		if err := os.WriteFile(args[0], []byte(screen), 0o644); err != nil {
			return fmt.Errorf("failed to write screenshot: %w", err)
		}
		return nil
	}
	_, err := io.WriteString(r.out, screen)
	return err
}

func (r *Runner) openOutput(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to open output: %w", err)
	}
	r.closeOutput()
	r.output = f
	r.out = f
	return nil
}

func (r *Runner) closeOutput() {
	if r.output != nil {
		if err := r.output.Close(); err != nil {
			r.logger.Warn("failed to close output", "err", err)
		}
		r.output = nil
	}
}

// set applies a Set command. Known settings are TypingSpeed, WaitTimeout,
// CellWidth and CellHeight.
func (r *Runner) set(key, value string) error {
	switch key {
	case "TypingSpeed", "WaitTimeout":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", key, err)
		}
		if key == "TypingSpeed" {
			r.typingSpeed = d
		} else {
			r.waitTimeout = d
		}
	case "CellWidth", "CellHeight":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("invalid %s: %s", key, value)
		}
		if key == "CellWidth" {
			r.cellWidth = n
		} else {
			r.cellHeight = n
		}
	default:
		return fmt.Errorf("unknown setting %s", key)
	}
	return nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Validate parses content and reports every syntax error at once.
func Validate(content string) error {
	_, errs := ParseFile(content)
	if len(errs) == 0 {
		return nil
	}
	joined := make([]error, len(errs))
	for i, e := range errs {
		joined[i] = errors.New(e)
	}
	return errors.Join(joined...)
}
