package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Gaurav-Gosain/termcore/internal/tape"
	"github.com/Gaurav-Gosain/termcore/internal/terminal"
)

type tapeOptions struct {
	cols, rows int
	check      bool
}

func newTapeCmd() *cobra.Command {
	var opts tapeOptions

	cmd := &cobra.Command{
		Use:   "tape FILE [-- command [args...]]",
		Short: "Drive a terminal from a tape script",
		Long: `Run a shell, or the given command, headless and drive it from a tape
script

A tape script types text, presses keys, waits for the screen to show
something and takes text screenshots. Screenshots go to standard output
unless the script names an Output file.

Commands:
  Type[@delay] "text"         Type text, optionally one rune per delay
  Enter, Tab, Up, ... [n]     Press a named key n times
  Ctrl+c, Alt+b [n]           Press a key combination
  Sleep 500ms                 Pause
  Wait "text" [timeout]       Wait until the screen contains text
  WaitUntilRegex 're' [timeout]
  Resize cols rows            Resize the terminal
  Scroll n                    Scroll the view n lines into history
  Screenshot [file]           Print or save the screen text
  Output file                 Send later screenshots to file
  Set TypingSpeed|WaitTimeout|CellWidth|CellHeight value`,
		Example: `  # Check a script without running it
  termcore tape demo.tape --check

  # Drive a specific program
  termcore tape demo.tape -- bash --norc`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTape(cmd.Context(), args[0], args[1:], opts)
		},
	}
	cmd.Flags().IntVar(&opts.cols, "cols", 80, "Terminal width")
	cmd.Flags().IntVar(&opts.rows, "rows", 24, "Terminal height")
	cmd.Flags().BoolVar(&opts.check, "check", false, "Only check the script for errors")
	return cmd
}

func runTape(ctx context.Context, path string, command []string, opts tapeOptions) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read tape: %w", err)
	}
	if err := tape.Validate(string(content)); err != nil {
		return fmt.Errorf("invalid tape %s:\n%w", path, err)
	}
	if opts.check {
		fmt.Fprintln(os.Stderr, "tape OK")
		return nil
	}
	commands, _ := tape.ParseFile(string(content))

	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}
	logger, closer, err := newLogger(cfg, os.Stderr)
	if err != nil {
		return err
	}
	defer closer.Close()

	termOpts := terminal.Options{
		Cols:   opts.cols,
		Rows:   opts.rows,
		Config: cfg,
		Logger: logger,
	}
	if len(command) > 0 {
		termOpts.Executable, termOpts.Args = command[0], command[1:]
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	t, err := terminal.New(termOpts, func(ev terminal.Event) {
		if ev.Kind == terminal.EventChildExit {
			logger.Info("child exited", "code", ev.Code)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to start terminal: %w", err)
	}
	defer t.Close()

	return tape.NewRunner(t, os.Stdout, logger).Run(ctx, commands)
}
