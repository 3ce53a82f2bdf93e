// Package config loads termcore settings from a TOML file in the user's
// XDG config directory.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/adrg/xdg"
	"github.com/pelletier/go-toml/v2"

	"github.com/Gaurav-Gosain/termcore/internal/grid"
	"github.com/Gaurav-Gosain/termcore/internal/selection"
	"github.com/Gaurav-Gosain/termcore/internal/theme"
)

const (
	appName        = "termcore"
	configFileName = "config.toml"

	// Limits applied by Validate.
	maxScrollback   = 1_000_000
	minReadBuffer   = 4 * 1024
	maxReadBuffer   = 1024 * 1024
	minBatchLimit   = 64 * 1024
	maxBatchLimit   = 64 * 1024 * 1024
	defaultBatch    = 1024 * 1024
	defaultReadSize = 64 * 1024
)

// Config is the user configuration.
type Config struct {
	ScrollbackLines     int    `toml:"scrollback_lines"`
	Term                string `toml:"term"`
	ColorTerm           string `toml:"color_term"`
	ReadBufferSize      int    `toml:"read_buffer_size"`
	BatchLimit          int    `toml:"batch_limit"`
	SemanticEscapeChars string `toml:"semantic_escape_chars"`
	Theme               string `toml:"theme,omitempty"`
	Colors              Colors `toml:"colors"`
	Log                 Log    `toml:"log"`
}

// Colors is the palette section. Values are "#rrggbb".
type Colors struct {
	Foreground string   `toml:"foreground"`
	Background string   `toml:"background"`
	Cursor     string   `toml:"cursor"`
	ANSI       []string `toml:"ansi"`
}

// Log configures diagnostics.
type Log struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		ScrollbackLines:     grid.DefaultScrollback,
		Term:                "xterm-256color",
		ColorTerm:           "truecolor",
		ReadBufferSize:      defaultReadSize,
		BatchLimit:          defaultBatch,
		SemanticEscapeChars: selection.DefaultSeparators,
		Colors:              colorsFrom(grid.DefaultPalette()),
		Log:                 Log{Level: "info"},
	}
}

// GetConfigPath returns the path of the user config file.
func GetConfigPath() (string, error) {
	return xdg.ConfigFile(filepath.Join(appName, configFileName))
}

// LoadUserConfig loads the config file from the default path. A missing
// file yields the defaults.
func LoadUserConfig() (*Config, error) {
	path, err := GetConfigPath()
	if err != nil {
		return nil, fmt.Errorf("could not determine config path: %w", err)
	}
	return Load(path)
}

// Load reads a config file, filling unset fields from the defaults. A
// missing file yields the defaults. When the file names a theme, colours
// it sets explicitly override the theme's.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if cfg.Theme != "" {
		themed := DefaultConfig()
		if err := themed.ApplyTheme(cfg.Theme); err != nil {
			return nil, fmt.Errorf("invalid config %s: %w", path, err)
		}
		base := slices.Clone(themed.Colors.ANSI)
		if err := toml.Unmarshal(data, themed); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
		themed.Colors.ANSI = overlayANSI(base, themed.Colors.ANSI)
		cfg = themed
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate clamps numeric settings into range and checks colours.
func (c *Config) Validate() error {
	if c.ScrollbackLines <= 0 {
		c.ScrollbackLines = grid.DefaultScrollback
	}
	c.ScrollbackLines = min(c.ScrollbackLines, maxScrollback)
	if c.ReadBufferSize <= 0 {
		c.ReadBufferSize = defaultReadSize
	}
	c.ReadBufferSize = min(max(c.ReadBufferSize, minReadBuffer), maxReadBuffer)
	if c.BatchLimit <= 0 {
		c.BatchLimit = defaultBatch
	}
	c.BatchLimit = min(max(c.BatchLimit, minBatchLimit), maxBatchLimit)
	if strings.TrimSpace(c.Term) == "" {
		c.Term = "xterm-256color"
	}
	if len(c.Colors.ANSI) > 16 {
		return fmt.Errorf("colors.ansi has %d entries, at most 16 allowed", len(c.Colors.ANSI))
	}
	_, err := c.Palette()
	return err
}

// ApplyTheme replaces the colour section with the named theme.
func (c *Config) ApplyTheme(name string) error {
	p, err := theme.Palette(name)
	if err != nil {
		return err
	}
	c.Theme = name
	c.Colors = colorsFrom(p)
	return nil
}

// overlayANSI returns base with its leading entries replaced by set. A
// shorter set only overrides the indices it names.
func overlayANSI(base, set []string) []string {
	if len(set) >= len(base) {
		return set
	}
	out := slices.Clone(base)
	copy(out, set)
	return out
}

func colorsFrom(p grid.Palette) Colors {
	ansi := make([]string, len(p.ANSI))
	for i, c := range p.ANSI {
		ansi[i] = c.Hex()
	}
	return Colors{
		Foreground: p.Foreground.Hex(),
		Background: p.Background.Hex(),
		Cursor:     p.Cursor.Hex(),
		ANSI:       ansi,
	}
}

// Palette converts the colour section into a grid palette. Missing
// entries keep their defaults.
func (c *Config) Palette() (grid.Palette, error) {
	p := grid.DefaultPalette()
	set := func(dst *grid.RGB8, name, hex string) error {
		if hex == "" {
			return nil
		}
		v, err := grid.ParseHex(hex)
		if err != nil {
			return fmt.Errorf("colors.%s: %w", name, err)
		}
		*dst = v
		return nil
	}
	if err := set(&p.Foreground, "foreground", c.Colors.Foreground); err != nil {
		return p, err
	}
	if err := set(&p.Background, "background", c.Colors.Background); err != nil {
		return p, err
	}
	if err := set(&p.Cursor, "cursor", c.Colors.Cursor); err != nil {
		return p, err
	}
	for i, hex := range c.Colors.ANSI {
		if i >= len(p.ANSI) {
			break
		}
		if err := set(&p.ANSI[i], fmt.Sprintf("ansi[%d]", i), hex); err != nil {
			return p, err
		}
	}
	return p, nil
}

// Marshal renders the config as TOML.
func (c *Config) Marshal() ([]byte, error) {
	data, err := toml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}
