package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Gaurav-Gosain/termcore/internal/terminal"
)

type replayOptions struct {
	cols, rows int
	chunk      int
	styled     bool
	events     bool
}

func newReplayCmd() *cobra.Command {
	var opts replayOptions

	cmd := &cobra.Command{
		Use:   "replay FILE",
		Short: "Feed captured output through the engine",
		Long: `Feed a captured byte stream through a headless emulator and print the
resulting screen

FILE may be "-" for standard input. Splitting the input into small chunks
with --chunk must not change the result.`,
		Example: `  # Capture a session with script(1), then replay it
  script -q session.log
  termcore replay session.log --cols 120 --rows 40

  # Replay with colours and the events the stream raised
  termcore replay session.log --styled --events`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return replay(cmd.OutOrStdout(), args[0], opts)
		},
	}
	cmd.Flags().IntVar(&opts.cols, "cols", 80, "Grid width")
	cmd.Flags().IntVar(&opts.rows, "rows", 24, "Grid height")
	cmd.Flags().IntVar(&opts.chunk, "chunk", 0, "Feed the input in chunks of this many bytes")
	cmd.Flags().BoolVar(&opts.styled, "styled", false, "Print the screen with colours and attributes")
	cmd.Flags().BoolVar(&opts.events, "events", false, "Print the events raised by the input")
	return cmd
}

func replay(out io.Writer, path string, opts replayOptions) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}
	logger, closer, err := newLogger(cfg, os.Stderr)
	if err != nil {
		return err
	}
	defer closer.Close()

	var data []byte
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	emu, err := terminal.NewEmulator(opts.cols, opts.rows, cfg.ScrollbackLines, logger)
	if err != nil {
		return err
	}
	palette, err := cfg.Palette()
	if err != nil {
		return err
	}
	emu.SetPalette(palette)

	chunk := opts.chunk
	if chunk <= 0 {
		chunk = len(data)
	}
	var events []terminal.Event
	for len(data) > 0 {
		n := min(chunk, len(data))
		evs, _ := emu.Feed(data[:n])
		events = append(events, evs...)
		data = data[n:]
	}
	logger.Debug("replay finished", "events", len(events), "history", emu.HistoryLen())

	if opts.events {
		for _, ev := range events {
			switch ev.Kind {
			case terminal.EventTitle, terminal.EventDirectoryChange:
				fmt.Fprintf(out, "%s %q\n", ev.Kind, ev.Text)
			default:
				fmt.Fprintln(out, ev.Kind)
			}
		}
	}

	if !opts.styled {
		_, err := fmt.Fprintln(out, emu.ScreenText())
		return err
	}
	snap := emu.Snapshot()
	defer snap.Release()
	r := newRenderer()
	for row := range snap.Rows {
		if _, err := fmt.Fprintln(out, r.Row(snap, row)); err != nil {
			return err
		}
	}
	return nil
}
