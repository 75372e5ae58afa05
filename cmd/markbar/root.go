// Package main provides the CLI entry point for markbar.
package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/flashingpumpkin/markbar/internal/config"
	"github.com/flashingpumpkin/markbar/internal/logging"
	"github.com/flashingpumpkin/markbar/internal/markbar"
	"github.com/flashingpumpkin/markbar/internal/script"
	"github.com/flashingpumpkin/markbar/internal/state"
	"github.com/flashingpumpkin/markbar/internal/tui"
)

var (
	// Flag variables
	workingDir string
	configFile string
	debug      bool
	logDir     string
	maxFlag    int
	confirm    bool
	step       int
	interval   time.Duration
	theme      string
	resume     bool
	scriptPath string
	minimal    bool
)

var rootCmd = &cobra.Command{
	Use:   "markbar",
	Short: "Record a progress track and rewind it split by split",
	Long: `Markbar drives a segmented progress bar from the terminal.

Hold a recording to advance progress, stop to drop a split mark, and delete
back to rewind to the previous split. With confirmation on, the first delete
only highlights the segment that would go and a second delete removes it.

The session is saved to .markbar/state on exit and can be picked up again
with --resume.

CONFIGURATION FILE

Markbar can be configured via a TOML file. By default, it looks for
.markbar/config.toml in the working directory. Use --config to specify a
different path, or run 'markbar init' to write a commented template.`,
	Args:    cobra.NoArgs,
	Version: "0.1.0",
	RunE:    runMarkbar,
}

func init() {
	// Register subcommands
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(statusCmd)

	// Persistent flags are shared with render and status
	rootCmd.PersistentFlags().StringVarP(&workingDir, "working-dir", "d", ".", "Working directory holding .markbar")
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Path to config file (default: .markbar/config.toml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logDir, "log-dir", "", "Write a rotating log file into this directory")

	rootCmd.Flags().IntVarP(&maxFlag, "max", "m", markbar.DefaultMaxProgress, "Maximum progress")
	rootCmd.Flags().BoolVar(&confirm, "confirm", true, "Require a second delete to remove a segment")
	rootCmd.Flags().IntVar(&step, "step", 1, "Progress added per recording tick or arrow key")
	rootCmd.Flags().DurationVar(&interval, "interval", 100*time.Millisecond, "Recording tick interval")
	rootCmd.Flags().StringVar(&theme, "theme", "auto", "Colour theme: auto, dark, light")
	rootCmd.Flags().BoolVarP(&resume, "resume", "r", false, "Resume the saved session")
	rootCmd.Flags().StringVarP(&scriptPath, "script", "s", "", "Replay a script into the bar at start-up")
	rootCmd.Flags().BoolVar(&minimal, "minimal", false, "Use minimal output mode (no TUI)")
}

func runMarkbar(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	var cmds []script.Command
	if cfg.ScriptPath != "" {
		cmds, err = loadScript(cfg.ScriptPath)
		if err != nil {
			return err
		}
	}

	useTUI := shouldUseTUI(cfg)

	// Loggers bind to their destination when created, so the TUI switch
	// has to happen first.
	if err := setupLogging(cfg); err != nil {
		return err
	}
	defer func() { _ = logging.CloseFileWriter() }()
	logging.SetInteractiveMode(useTUI)
	defer logging.SetInteractiveMode(false)
	log := logging.Component("cli")

	bar := markbar.New()
	bar.SetLogger(logging.Component("bar"))
	cfg.ApplyTo(bar)

	resumed, err := prepareSession(cfg, bar)
	if err != nil {
		return err
	}
	log.Info().
		Str("session", cfg.SessionID).
		Bool("resumed", resumed).
		Int("max", bar.MaxProgress()).
		Int("scripted", len(cmds)).
		Msg("starting")

	// Create context with signal handling for graceful shutdown
	ctx, cancel := setupSignalHandler()
	defer cancel()

	if useTUI {
		err = runTUI(ctx, cfg, bar, cmds, resumed)
	} else {
		err = runMinimal(ctx, cmd.OutOrStdout(), cmd.ErrOrStderr(), cfg, bar, cmds)
	}

	if saveErr := saveSession(cfg, bar); saveErr != nil {
		log.Error().Err(saveErr).Msg("failed to save session")
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: failed to save session: %v\n", saveErr)
	}

	if errors.Is(err, context.Canceled) {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "\nInterrupted by user")
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Session saved. Run 'markbar --resume' to continue.")
		return nil
	}
	return err
}

// buildConfig layers defaults, the config file and explicitly set flags.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.WorkingDir = workingDir

	fileConfig, err := loadFileConfig()
	if err != nil {
		return nil, err
	}
	if fileConfig != nil {
		if err := fileConfig.Apply(cfg); err != nil {
			return nil, fmt.Errorf("invalid config file: %w", err)
		}
	}

	// Flags only override the file when given on the command line
	flags := cmd.Flags()
	if flags.Changed("max") {
		cfg.MaxProgress = maxFlag
	}
	if flags.Changed("confirm") {
		cfg.ConfirmDelete = confirm
	}
	if flags.Changed("step") {
		cfg.Step = step
	}
	if flags.Changed("interval") {
		cfg.Interval = interval
	}
	if flags.Changed("theme") {
		cfg.Theme = theme
	}
	if logDir != "" {
		cfg.LogDir = logDir
	}
	cfg.Debug = debug
	cfg.Resume = resume
	cfg.ScriptPath = scriptPath
	cfg.Minimal = minimal

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	return cfg, nil
}

// loadFileConfig reads --config, or .markbar/config.toml when it exists.
func loadFileConfig() (*config.FileConfig, error) {
	if configFile == "" {
		fileConfig, err := config.LoadFileConfig(workingDir)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
		return fileConfig, nil
	}

	fileConfig, err := config.LoadFileConfigFrom(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file %s: %w", configFile, err)
	}
	if fileConfig == nil {
		return nil, fmt.Errorf("config file not found: %s", configFile)
	}
	return fileConfig, nil
}

func setupLogging(cfg *config.Config) error {
	if cfg.LogDir == "" {
		logging.Init(cfg.Debug)
		return nil
	}
	if err := logging.InitWithFile(cfg.Debug, cfg.LogDir, cfg.LoggingConfig()); err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	return nil
}

// loadScript parses the script file at path.
func loadScript(path string) ([]script.Command, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open script: %w", err)
	}
	defer func() { _ = f.Close() }()

	cmds, err := script.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cmds, nil
}

// prepareSession restores the saved session when resuming and assigns the
// session ID. It reports whether a session was restored.
func prepareSession(cfg *config.Config, bar *markbar.Bar) (bool, error) {
	if !cfg.Resume {
		cfg.SessionID = generateSessionID()
		return false, nil
	}

	saved, err := state.Load(cfg.WorkingDir)
	if err != nil {
		return false, fmt.Errorf("failed to load session: %w", err)
	}
	if saved == nil {
		return false, errors.New("no saved session to resume (start one with 'markbar')")
	}

	saved.Restore(bar)
	cfg.SessionID = saved.SessionID
	return true, nil
}

// saveSession captures the bar into the state directory.
func saveSession(cfg *config.Config, bar *markbar.Bar) error {
	return state.Capture(cfg.SessionID, cfg.WorkingDir, bar.Snapshot()).Save()
}

func runTUI(ctx context.Context, cfg *config.Config, bar *markbar.Bar, cmds []script.Command, resumed bool) error {
	th, err := tui.ParseTheme(cfg.Theme)
	if err != nil {
		return err
	}

	prog := tui.New(bar, tui.Options{
		Step:          cfg.Step,
		Interval:      cfg.Interval,
		ConfirmDelete: cfg.ConfirmDelete,
		Theme:         th,
		LogLines:      tui.DefaultMaxLogLines,
		Logger:        logging.Component("tui"),
	})

	scriptCtx, stopScript := context.WithCancel(ctx)
	defer stopScript()

	go func() {
		if resumed {
			prog.Note("resumed session " + cfg.SessionID)
		}
		if len(cmds) > 0 {
			prog.PlayScript(scriptCtx, cmds)
		}
	}()

	// A signal quits the program the same way the q key does
	go func() {
		<-scriptCtx.Done()
		prog.Quit()
	}()

	if err := prog.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return ctx.Err()
}

// generateSessionID generates a unique session ID.
func generateSessionID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		panic(fmt.Sprintf("failed to generate session ID: crypto/rand.Read failed: %v", err))
	}
	return hex.EncodeToString(bytes)
}

// shouldUseTUI determines whether to use the TUI based on flags and environment.
func shouldUseTUI(cfg *config.Config) bool {
	// Explicit minimal flag disables TUI
	if cfg.Minimal {
		return false
	}

	// CI environment disables TUI
	if os.Getenv("CI") != "" {
		return false
	}

	// Non-interactive terminal disables TUI
	return term.IsTerminal(int(os.Stdout.Fd()))
}
