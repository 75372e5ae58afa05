// Package logging holds the process-wide zerolog logger.
//
// Console output goes to stderr in a human-readable format. Optional file
// output is JSON with size-based rotation. While a full-screen UI owns the
// terminal, interactive mode keeps log lines off the console; file logging
// carries on regardless.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// FileName is the name of the log file inside the logs directory.
const FileName = "markbar.log"

var (
	// Log is the global logger instance.
	Log = zerolog.Nop()

	fileWriter  *lumberjack.Logger
	fileOnlyLog = zerolog.Nop()

	interactiveMode bool
	interactiveMu   sync.RWMutex

	consoleOut io.Writer = os.Stderr
)

// Config holds the file logging settings.
type Config struct {
	FileEnabled *bool
	MaxSizeMB   int
	MaxAgeDays  int
	MaxBackups  int
}

// IsFileEnabled defaults to true when unset.
func (c *Config) IsFileEnabled() bool {
	if c.FileEnabled == nil {
		return true
	}
	return *c.FileEnabled
}

// GetMaxSizeMB returns the rotation size, defaulting to 10.
func (c *Config) GetMaxSizeMB() int {
	if c.MaxSizeMB <= 0 {
		return 10
	}
	return c.MaxSizeMB
}

// GetMaxAgeDays returns how long rotated files are kept, defaulting to 7.
func (c *Config) GetMaxAgeDays() int {
	if c.MaxAgeDays <= 0 {
		return 7
	}
	return c.MaxAgeDays
}

// GetMaxBackups returns the number of rotated files kept, defaulting to 3.
func (c *Config) GetMaxBackups() int {
	if c.MaxBackups <= 0 {
		return 3
	}
	return c.MaxBackups
}

// SetInteractiveMode suppresses console output while enabled.
func SetInteractiveMode(enabled bool) {
	interactiveMu.Lock()
	defer interactiveMu.Unlock()
	interactiveMode = enabled
}

func isInteractive() bool {
	interactiveMu.RLock()
	defer interactiveMu.RUnlock()
	return interactiveMode
}

func level(debug bool) zerolog.Level {
	if debug {
		return zerolog.DebugLevel
	}
	return zerolog.InfoLevel
}

func consoleWriter() zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{
		Out:        consoleOut,
		TimeFormat: time.RFC3339,
	}
}

// Init sets up console-only logging.
func Init(debug bool) {
	Log = zerolog.New(consoleWriter()).
		Level(level(debug)).
		With().
		Timestamp().
		Logger()
	fileOnlyLog = zerolog.Nop()
}

// InitWithFile sets up console logging plus a rotating file in logsDir.
// An empty logsDir, a nil cfg or disabled file logging fall back to Init.
func InitWithFile(debug bool, logsDir string, cfg *Config) error {
	if logsDir == "" || cfg == nil || !cfg.IsFileEnabled() {
		Init(debug)
		return nil
	}

	if err := os.MkdirAll(logsDir, 0755); err != nil {
		return fmt.Errorf("failed to create logs directory: %w", err)
	}

	fileWriter = &lumberjack.Logger{
		Filename:   filepath.Join(logsDir, FileName),
		MaxSize:    cfg.GetMaxSizeMB(),
		MaxAge:     cfg.GetMaxAgeDays(),
		MaxBackups: cfg.GetMaxBackups(),
		LocalTime:  true,
	}

	fileOnlyLog = zerolog.New(fileWriter).
		Level(level(debug)).
		With().
		Timestamp().
		Logger()

	Log = zerolog.New(io.MultiWriter(consoleWriter(), fileWriter)).
		Level(level(debug)).
		With().
		Timestamp().
		Logger()
	return nil
}

// CloseFileWriter closes the log file, if any.
func CloseFileWriter() error {
	if fileWriter == nil {
		return nil
	}
	err := fileWriter.Close()
	fileWriter = nil
	fileOnlyLog = zerolog.Nop()
	return err
}

// FilePath returns the current log file, or "" without file logging.
func FilePath() string {
	if fileWriter != nil {
		return fileWriter.Filename
	}
	return ""
}

// current returns the logger to write through right now.
func current() *zerolog.Logger {
	if isInteractive() {
		return &fileOnlyLog
	}
	return &Log
}

// Debug starts a debug-level event.
func Debug() *zerolog.Event { return current().Debug() }

// Info starts an info-level event.
func Info() *zerolog.Event { return current().Info() }

// Warn starts a warn-level event.
func Warn() *zerolog.Event { return current().Warn() }

// Error starts an error-level event.
func Error() *zerolog.Event { return current().Error() }

// Component returns a child logger tagged with the component name. It binds
// to the destination in effect when called, so set interactive mode first.
func Component(name string) zerolog.Logger {
	return current().With().Str("component", name).Logger()
}
