// Package main implements the termcore command, a small host for the
// termcore engine used to try it out interactively and to replay captured
// output.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

// Version information (set by goreleaser)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
	builtBy = "unknown"
)

// Global flags
var (
	debugMode  bool
	logFile    string
	configFile string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "termcore",
		Short: "Terminal emulation engine",
		Long: `termcore - a terminal emulation engine

Runs a shell on a pseudo-terminal, interprets its output and keeps a model
of the screen that hosts read through snapshots. This command is a small
host for trying the engine out.`,
		Example: `  # Run your shell inside termcore
  termcore run

  # Run a specific program
  termcore run -- htop

  # Replay captured output in 7 byte chunks
  termcore replay session.log --chunk 7

  # Drive a shell from a script
  termcore tape demo.tape

  # Serve terminals over SSH
  termcore serve --port 2222

  # Show the effective configuration
  termcore config show`,
		Version:      version,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write logs to this file")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to the configuration file")

	rootCmd.AddCommand(newRunCmd(), newReplayCmd(), newTapeCmd(), newServeCmd(), newConfigCmd())

	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(fmt.Sprintf("%s\nCommit: %s\nBuilt: %s\nBy: %s", version, commit, date, builtBy)),
	); err != nil {
		os.Exit(1)
	}
}
