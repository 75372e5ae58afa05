package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/flashingpumpkin/markbar/internal/config"
)

// DefaultConfigTemplate is the commented template written by markbar init.
const DefaultConfigTemplate = `# Markbar Configuration
# Every setting is optional. Command line flags override this file.

# Colour theme for the interactive UI: "auto", "dark" or "light".
# theme = "auto"

[bar]
# Upper bound of the progress scale.
# max = 100

# Width of split and minimum marks, in track units (cells or pixels).
# split_width = 2

# Position of the fixed minimum mark.
# min_mask = 0

# Require a second delete before a segment is removed.
# confirm_delete = true

[colors]
# "#RGB", "#RRGGBB", "#RRGGBBAA" or "transparent".
# background = "transparent"
# progress = "#06d285"
# split = "#ff0000"
# min_mask = "#06d285"
# confirm = "#ff0000"

[record]
# Progress added per recording tick or arrow key.
# step = 1

# Time between recording ticks.
# interval = "100ms"

[log]
# Write a rotating JSON log. Defaults to .markbar/logs when enabled without a dir.
# enabled = false
# dir = ".markbar/logs"
# max_size_mb = 10
# max_age_days = 7
# max_backups = 3
`

var forceInit bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default configuration file",
	Long: `Create a default .markbar/config.toml configuration file.

The configuration file contains commented examples for:
- Bar scale, mark width and delete confirmation
- Track colours
- Recording step and interval
- File logging

If the configuration file already exists, the command will fail unless --force is used.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVarP(&forceInit, "force", "f", false, "Overwrite existing configuration file")
}

// newInitCmd creates a new init command for testing.
func newInitCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInitWithOptions(cmd, force)
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing configuration file")
	return cmd
}

func runInit(cmd *cobra.Command, args []string) error {
	return runInitWithOptions(cmd, forceInit)
}

func runInitWithOptions(cmd *cobra.Command, force bool) error {
	markbarDir := config.Dir(workingDir)
	configPath := config.FilePath(workingDir)

	// Check if config already exists
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}

	// Create .markbar directory if it doesn't exist
	if err := os.MkdirAll(markbarDir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", markbarDir, err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", configPath)
	return nil
}
