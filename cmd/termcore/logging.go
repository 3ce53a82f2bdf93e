package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/Gaurav-Gosain/termcore/internal/config"
)

// loadConfig loads the file named by --config, or the user config.
func loadConfig() (*config.Config, string, error) {
	path := configFile
	if path == "" {
		p, err := config.GetConfigPath()
		if err != nil {
			return nil, "", fmt.Errorf("could not determine config path: %w", err)
		}
		path = p
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, path, err
	}
	return cfg, path, nil
}

// newLogger builds the logger from the config and the global flags.
// Without a log file, logs go to fallback. The returned closer releases
// the log file.
func newLogger(cfg *config.Config, fallback io.Writer) (*log.Logger, io.Closer, error) {
	level := log.InfoLevel
	if cfg.Log.Level != "" {
		l, err := log.ParseLevel(cfg.Log.Level)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid log level %q: %w", cfg.Log.Level, err)
		}
		level = l
	}
	if debugMode {
		level = log.DebugLevel
	}

	path := logFile
	if path == "" {
		path = cfg.Log.File
	}
	out, closer := fallback, io.Closer(io.NopCloser(nil))
	if path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		out, closer = f, f
	}

	logger := log.NewWithOptions(out, log.Options{
		ReportTimestamp: true,
		Prefix:          "termcore",
		Level:           level,
	})
	return logger, closer, nil
}
