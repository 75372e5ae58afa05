package config

import (
	"testing"
	"time"

	"github.com/flashingpumpkin/markbar/internal/markbar"
)

func TestNewConfig_ReturnsConfigWithDefaults(t *testing.T) {
	cfg := NewConfig()

	if cfg == nil {
		t.Fatal("NewConfig() returned nil")
	}

	if cfg.MaxProgress != 100 {
		t.Errorf("MaxProgress = %d; want 100", cfg.MaxProgress)
	}

	if cfg.MinMask != 0 {
		t.Errorf("MinMask = %d; want 0", cfg.MinMask)
	}

	if !cfg.ConfirmDelete {
		t.Error("ConfirmDelete = false; want true")
	}

	if cfg.Style != markbar.DefaultStyle() {
		t.Errorf("Style = %+v; want default style", cfg.Style)
	}

	if cfg.Step != 1 {
		t.Errorf("Step = %d; want 1", cfg.Step)
	}

	if cfg.Interval != 100*time.Millisecond {
		t.Errorf("Interval = %v; want %v", cfg.Interval, 100*time.Millisecond)
	}

	if cfg.Theme != "auto" {
		t.Errorf("Theme = %q; want %q", cfg.Theme, "auto")
	}

	if cfg.WorkingDir != "." {
		t.Errorf("WorkingDir = %q; want %q", cfg.WorkingDir, ".")
	}

	if cfg.Resume || cfg.Minimal || cfg.Debug {
		t.Error("Resume, Minimal and Debug should default to false")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"zero max", func(c *Config) { c.MaxProgress = 0 }, "max progress must be positive"},
		{"negative max", func(c *Config) { c.MaxProgress = -5 }, "max progress must be positive"},
		{"zero split width", func(c *Config) { c.Style.SplitWidth = 0 }, "split width must be positive"},
		{"zero step", func(c *Config) { c.Step = 0 }, "step must be positive"},
		{"zero interval", func(c *Config) { c.Interval = 0 }, "interval must be positive"},
		{"unknown theme", func(c *Config) { c.Theme = "neon" }, "theme must be one of auto, dark, light"},
		{"light theme", func(c *Config) { c.Theme = "light" }, ""},
		{"negative min mask is allowed", func(c *Config) { c.MinMask = -3 }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			tt.mutate(cfg)

			err := cfg.Validate()

			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() returned error %v; want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() returned nil; want %q", tt.wantErr)
			}
			if err.Error() != tt.wantErr {
				t.Errorf("error message = %q; want %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestConfig_ApplyTo(t *testing.T) {
	cfg := NewConfig()
	cfg.MaxProgress = 40
	cfg.MinMask = 8
	cfg.Style.SplitWidth = 5
	cfg.Style.Progress = markbar.ColorRed

	b := markbar.New()
	b.SetProgress(90)
	cfg.ApplyTo(b)

	if b.MaxProgress() != 40 {
		t.Errorf("MaxProgress() = %d; want 40", b.MaxProgress())
	}
	if b.Progress() != 40 {
		t.Errorf("Progress() = %d; want 40 after re-clamp", b.Progress())
	}
	if b.MinMask() != 8 {
		t.Errorf("MinMask() = %d; want 8", b.MinMask())
	}
	if b.SplitWidth() != 5 {
		t.Errorf("SplitWidth() = %d; want 5", b.SplitWidth())
	}
	if b.ProgressColor() != markbar.ColorRed {
		t.Errorf("ProgressColor() = %v; want red", b.ProgressColor())
	}
}
