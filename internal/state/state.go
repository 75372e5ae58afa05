// Package state persists markbar sessions so they can be resumed.
package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"github.com/flashingpumpkin/markbar/internal/markbar"
	"github.com/flashingpumpkin/markbar/internal/util"
)

const (
	stateFile = "state.json"
	lockFile  = "state.lock"
)

// Session is the saved part of a bar. Confirm state is never saved: a
// pending delete does not survive a restart.
type Session struct {
	SessionID   string    `json:"session_id"`
	WorkingDir  string    `json:"-"`
	MaxProgress int       `json:"max_progress"`
	Progress    int       `json:"progress"`
	Splits      []int     `json:"splits"`
	MinMask     int       `json:"min_mask"`
	SavedAt     time.Time `json:"saved_at"`
}

// StateDir returns the path to the state directory for the given working directory.
func StateDir(workingDir string) string {
	workingDir = strings.TrimSuffix(workingDir, "/")
	return filepath.Join(workingDir, ".markbar", "state")
}

// Capture builds a session from a bar snapshot.
func Capture(sessionID, workingDir string, s markbar.State) *Session {
	splits := slices.Clone(s.Splits)
	if splits == nil {
		splits = []int{}
	}
	return &Session{
		SessionID:   sessionID,
		WorkingDir:  workingDir,
		MaxProgress: s.MaxProgress,
		Progress:    s.Progress,
		Splits:      splits,
		MinMask:     s.MinMask,
	}
}

// Restore replays the session into b: scale, minimum mark, splits in their
// original order, then progress.
func (s *Session) Restore(b *markbar.Bar) {
	b.ClearConfirm()
	b.SetMaxProgress(s.MaxProgress)
	b.SetMinMask(s.MinMask)
	b.ClearSplits()
	for _, v := range s.Splits {
		b.PushSplit(v)
	}
	b.SetProgress(s.Progress)
}

// Summary describes the session in one line.
func (s *Session) Summary() string {
	var sb strings.Builder
	sb.WriteString("progress ")
	sb.WriteString(util.FormatFraction(s.Progress, s.MaxProgress))
	switch len(s.Splits) {
	case 0:
		sb.WriteString(", no splits")
	case 1:
		sb.WriteString(", 1 split (")
		sb.WriteString(util.FormatInts(s.Splits, ", "))
		sb.WriteString(")")
	default:
		sb.WriteString(", ")
		sb.WriteString(util.IntToString(len(s.Splits)))
		sb.WriteString(" splits (")
		sb.WriteString(util.FormatInts(s.Splits, ", "))
		sb.WriteString(")")
	}
	return sb.String()
}

func lock(stateDir string) *flock.Flock {
	return flock.New(filepath.Join(stateDir, lockFile))
}

// Save persists the session to state.json in the state directory.
func (s *Session) Save() error {
	stateDir := StateDir(s.WorkingDir)

	if err := os.MkdirAll(stateDir, 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	fl := lock(stateDir)
	if err := fl.Lock(); err != nil {
		return fmt.Errorf("failed to acquire lock: %w", err)
	}
	defer func() { _ = fl.Unlock() }()

	s.SavedAt = time.Now()
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	statePath := filepath.Join(stateDir, stateFile)

	// Write to temp file and rename for atomicity
	tempPath := statePath + ".tmp"
	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}

	if err := os.Rename(tempPath, statePath); err != nil {
		return fmt.Errorf("failed to rename state file: %w", err)
	}

	return nil
}

// Load reads the session saved in the working directory.
// Returns nil if no session has been saved (not an error).
func Load(workingDir string) (*Session, error) {
	if !Exists(workingDir) {
		return nil, nil
	}
	stateDir := StateDir(workingDir)

	fl := lock(stateDir)
	if err := fl.RLock(); err != nil {
		return nil, fmt.Errorf("failed to acquire lock: %w", err)
	}
	defer func() { _ = fl.Unlock() }()

	data, err := os.ReadFile(filepath.Join(stateDir, stateFile))
	if err != nil {
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal state: %w", err)
	}
	s.WorkingDir = workingDir
	return &s, nil
}

// Exists returns true if a state file exists in the working directory.
func Exists(workingDir string) bool {
	_, err := os.Stat(filepath.Join(StateDir(workingDir), stateFile))
	return err == nil
}

// Cleanup removes the state directory and its contents.
func (s *Session) Cleanup() error {
	if err := os.RemoveAll(StateDir(s.WorkingDir)); err != nil {
		return fmt.Errorf("failed to remove state directory: %w", err)
	}
	return nil
}
