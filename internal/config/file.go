package config

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/flashingpumpkin/markbar/internal/canvas"
	"github.com/flashingpumpkin/markbar/internal/logging"
)

// DirName is the per-project directory holding config, state and logs.
const DirName = ".markbar"

// FileConfig represents the configuration loaded from .markbar/config.toml.
type FileConfig struct {
	// Theme is "auto", "dark" or "light".
	Theme string `toml:"theme"`

	Bar    *BarConfig    `toml:"bar"`
	Colors *ColorsConfig `toml:"colors"`
	Record *RecordConfig `toml:"record"`
	Log    *LogConfig    `toml:"log"`
}

// BarConfig is the [bar] section.
type BarConfig struct {
	Max           int   `toml:"max"`
	SplitWidth    int   `toml:"split_width"`
	MinMask       *int  `toml:"min_mask"`
	ConfirmDelete *bool `toml:"confirm_delete"`
}

// ColorsConfig is the [colors] section. Values are "#RRGGBB", "#RRGGBBAA"
// or "transparent".
type ColorsConfig struct {
	Background string `toml:"background"`
	Progress   string `toml:"progress"`
	Split      string `toml:"split"`
	MinMask    string `toml:"min_mask"`
	Confirm    string `toml:"confirm"`
}

// RecordConfig is the [record] section.
type RecordConfig struct {
	Step     int    `toml:"step"`
	Interval string `toml:"interval"`
}

// LogConfig is the [log] section.
type LogConfig struct {
	// Enabled turns file logging on. When unset, a non-empty Dir enables it.
	Enabled    *bool  `toml:"enabled"`
	Dir        string `toml:"dir"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxAgeDays int    `toml:"max_age_days"`
	MaxBackups int    `toml:"max_backups"`
}

// Dir returns the .markbar directory for a working directory.
func Dir(workingDir string) string {
	return filepath.Join(workingDir, DirName)
}

// FilePath returns the config file path for a working directory.
func FilePath(workingDir string) string {
	return filepath.Join(Dir(workingDir), "config.toml")
}

// LoadFileConfig reads configuration from .markbar/config.toml in the working directory.
// Returns nil if the file doesn't exist (not an error).
func LoadFileConfig(workingDir string) (*FileConfig, error) {
	return LoadFileConfigFrom(FilePath(workingDir))
}

// LoadFileConfigFrom reads configuration from a specific file path.
// Returns nil if the file doesn't exist (not an error).
func LoadFileConfigFrom(configPath string) (*FileConfig, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var cfg FileConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", configPath, err)
	}

	return &cfg, nil
}

// Apply copies every value set in the file onto cfg. Zero values leave the
// existing setting alone.
func (fc *FileConfig) Apply(cfg *Config) error {
	if fc.Theme != "" {
		cfg.Theme = fc.Theme
	}

	if b := fc.Bar; b != nil {
		if b.Max != 0 {
			cfg.MaxProgress = b.Max
		}
		if b.SplitWidth != 0 {
			cfg.Style.SplitWidth = b.SplitWidth
		}
		if b.MinMask != nil {
			cfg.MinMask = *b.MinMask
		}
		if b.ConfirmDelete != nil {
			cfg.ConfirmDelete = *b.ConfirmDelete
		}
	}

	if c := fc.Colors; c != nil {
		fields := []struct {
			name  string
			value string
			dst   *color.RGBA
		}{
			{"background", c.Background, &cfg.Style.Background},
			{"progress", c.Progress, &cfg.Style.Progress},
			{"split", c.Split, &cfg.Style.Split},
			{"min_mask", c.MinMask, &cfg.Style.MinMask},
			{"confirm", c.Confirm, &cfg.Style.Confirm},
		}
		for _, f := range fields {
			if f.value == "" {
				continue
			}
			parsed, err := canvas.ParseColor(f.value)
			if err != nil {
				return fmt.Errorf("colors.%s: %w", f.name, err)
			}
			*f.dst = parsed
		}
	}

	if r := fc.Record; r != nil {
		if r.Step != 0 {
			cfg.Step = r.Step
		}
		if r.Interval != "" {
			d, err := time.ParseDuration(r.Interval)
			if err != nil {
				return fmt.Errorf("record.interval: %w", err)
			}
			cfg.Interval = d
		}
	}

	if l := fc.Log; l != nil {
		enabled := l.Dir != ""
		if l.Enabled != nil {
			enabled = *l.Enabled
		}
		if enabled {
			cfg.LogDir = l.Dir
			if cfg.LogDir == "" {
				cfg.LogDir = filepath.Join(Dir(cfg.WorkingDir), "logs")
			}
		}
		cfg.LogMaxSizeMB = l.MaxSizeMB
		cfg.LogMaxAgeDays = l.MaxAgeDays
		cfg.LogMaxBackups = l.MaxBackups
	}
	return nil
}

// LoggingConfig returns the file logging settings for logging.InitWithFile.
func (c *Config) LoggingConfig() *logging.Config {
	return &logging.Config{
		MaxSizeMB:  c.LogMaxSizeMB,
		MaxAgeDays: c.LogMaxAgeDays,
		MaxBackups: c.LogMaxBackups,
	}
}
