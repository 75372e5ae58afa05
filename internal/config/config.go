// Package config provides configuration management for markbar.
package config

import (
	"errors"
	"slices"
	"time"

	"github.com/flashingpumpkin/markbar/internal/markbar"
)

// Config holds the configuration for a markbar session.
type Config struct {
	// MaxProgress is the upper bound of the progress scale (default: 100).
	MaxProgress int

	// MinMask is the position of the minimum mark (default: 0).
	MinMask int

	// ConfirmDelete makes delete-back a two-step operation (default: true).
	ConfirmDelete bool

	// Style holds the track colours and mark width.
	Style markbar.Style

	// Step is how far progress moves per recording tick or arrow key (default: 1).
	Step int

	// Interval is the recording tick period (default: 100ms).
	Interval time.Duration

	// Theme is the colour theme for the TUI: "auto", "dark", or "light".
	// "auto" detects the terminal background colour automatically.
	// Default: "auto".
	Theme string

	// WorkingDir is the directory holding .markbar (default: ".").
	WorkingDir string

	// SessionID identifies the session in saved state.
	SessionID string

	// ScriptPath is a script to replay into the bar at start-up.
	ScriptPath string

	// Resume restores the saved session before starting.
	Resume bool

	// Minimal plays without the full-screen UI.
	Minimal bool

	// Debug enables debug logging.
	Debug bool

	// LogDir enables file logging into the given directory.
	LogDir string

	// LogMaxSizeMB, LogMaxAgeDays and LogMaxBackups control log rotation.
	LogMaxSizeMB  int
	LogMaxAgeDays int
	LogMaxBackups int
}

// Themes lists the accepted Theme values.
var Themes = []string{"auto", "dark", "light"}

// NewConfig returns a new Config with default values.
func NewConfig() *Config {
	return &Config{
		MaxProgress:   markbar.DefaultMaxProgress,
		ConfirmDelete: true,
		Style:         markbar.DefaultStyle(),
		Step:          1,
		Interval:      100 * time.Millisecond,
		Theme:         "auto",
		WorkingDir:    ".",
	}
}

// Validate checks that the configuration is valid.
// Returns an error if validation fails.
func (c *Config) Validate() error {
	if c.MaxProgress <= 0 {
		return errors.New("max progress must be positive")
	}
	if c.Style.SplitWidth <= 0 {
		return errors.New("split width must be positive")
	}
	if c.Step <= 0 {
		return errors.New("step must be positive")
	}
	if c.Interval <= 0 {
		return errors.New("interval must be positive")
	}
	if !slices.Contains(Themes, c.Theme) {
		return errors.New("theme must be one of auto, dark, light")
	}
	return nil
}

// ApplyTo configures b with the bar settings: scale, minimum mark and style.
func (c *Config) ApplyTo(b *markbar.Bar) {
	b.SetMaxProgress(c.MaxProgress)
	b.SetMinMask(c.MinMask)
	b.SetStyle(c.Style)
}
