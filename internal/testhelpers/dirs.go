// Package testhelpers provides common utilities for tests across packages.
package testhelpers

import (
	"os"
	"path/filepath"
	"testing"
)

// StateDir creates a temporary directory with the .markbar/state structure.
// Returns the temp dir root and the state dir path.
// The temp dir is automatically cleaned up when the test completes.
func StateDir(t *testing.T) (tempDir, stateDir string) {
	t.Helper()
	tempDir = t.TempDir()
	stateDir = filepath.Join(tempDir, ".markbar", "state")
	if err := os.MkdirAll(stateDir, 0755); err != nil {
		t.Fatalf("failed to create state dir: %v", err)
	}
	return tempDir, stateDir
}

// MarkbarDir creates a temporary directory with the .markbar structure.
// Returns the temp dir root and the .markbar dir path.
func MarkbarDir(t *testing.T) (tempDir, markbarDir string) {
	t.Helper()
	tempDir = t.TempDir()
	markbarDir = filepath.Join(tempDir, ".markbar")
	if err := os.MkdirAll(markbarDir, 0755); err != nil {
		t.Fatalf("failed to create markbar dir: %v", err)
	}
	return tempDir, markbarDir
}

// WorkingDir creates a temporary directory suitable for use as a working directory.
// Returns the temp dir path.
// The temp dir is automatically cleaned up when the test completes.
func WorkingDir(t *testing.T) string {
	t.Helper()
	return t.TempDir()
}

// WriteFile writes content to name inside dir and returns the full path.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create parent dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}
