package state

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/flashingpumpkin/markbar/internal/markbar"
	"github.com/flashingpumpkin/markbar/internal/script"
	"github.com/flashingpumpkin/markbar/internal/testhelpers"
)

func TestStateDir_ReturnsCorrectPath(t *testing.T) {
	dir := StateDir("/some/project")

	want := "/some/project/.markbar/state"
	if dir != want {
		t.Errorf("StateDir() = %q; want %q", dir, want)
	}
}

func TestStateDir_HandlesTrailingSlash(t *testing.T) {
	dir := StateDir("/some/project/")

	want := "/some/project/.markbar/state"
	if dir != want {
		t.Errorf("StateDir() = %q; want %q", dir, want)
	}
}

func newBar(t *testing.T) *markbar.Bar {
	t.Helper()
	b := markbar.New()
	b.SetMaxProgress(200)
	b.SetMinMask(15)
	b.SetProgress(120)
	b.PushSplit(40)
	b.PushSplit(90)
	return b
}

func TestCapture_CopiesSnapshot(t *testing.T) {
	b := newBar(t)
	snap := b.Snapshot()

	s := Capture("session-1", "/work", snap)

	if s.SessionID != "session-1" || s.WorkingDir != "/work" {
		t.Errorf("identity = %q %q; want session-1 /work", s.SessionID, s.WorkingDir)
	}
	if s.MaxProgress != 200 || s.Progress != 120 || s.MinMask != 15 {
		t.Errorf("values = %d %d %d; want 200 120 15", s.MaxProgress, s.Progress, s.MinMask)
	}
	if len(s.Splits) != 2 || s.Splits[0] != 40 || s.Splits[1] != 90 {
		t.Errorf("Splits = %v; want [40 90]", s.Splits)
	}

	s.Splits[0] = 1
	if snap.Splits[0] != 40 {
		t.Error("Capture should copy the split slice")
	}
}

func TestCapture_EmptySplitsEncodeAsArray(t *testing.T) {
	s := Capture("s", "/work", markbar.New().Snapshot())

	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatal(err)
	}
	if _, ok := raw["splits"].([]any); !ok {
		t.Errorf("splits = %v; want empty array", raw["splits"])
	}
	if _, ok := raw["working_dir"]; ok {
		t.Error("working dir should not be persisted")
	}
}

func TestSession_SaveAndLoad_RoundTrip(t *testing.T) {
	tempDir := testhelpers.WorkingDir(t)
	original := Capture("round-trip", tempDir, newBar(t).Snapshot())

	if err := original.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if original.SavedAt.IsZero() {
		t.Error("Save() should stamp SavedAt")
	}

	loaded, err := Load(tempDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded == nil {
		t.Fatal("Load() = nil; want session")
	}

	if loaded.SessionID != "round-trip" {
		t.Errorf("SessionID = %q; want round-trip", loaded.SessionID)
	}
	if loaded.WorkingDir != tempDir {
		t.Errorf("WorkingDir = %q; want %q", loaded.WorkingDir, tempDir)
	}
	if loaded.Progress != 120 || loaded.MaxProgress != 200 || loaded.MinMask != 15 {
		t.Errorf("values = %+v", loaded)
	}
	if len(loaded.Splits) != 2 || loaded.Splits[1] != 90 {
		t.Errorf("Splits = %v; want [40 90]", loaded.Splits)
	}
	if !loaded.SavedAt.Equal(original.SavedAt) {
		t.Errorf("SavedAt = %v; want %v", loaded.SavedAt, original.SavedAt)
	}

	if _, err := os.Stat(filepath.Join(StateDir(tempDir), "state.json.tmp")); !os.IsNotExist(err) {
		t.Error("temp file should be renamed away")
	}
}

func TestLoad_ReturnsNilWhenNoStateFile(t *testing.T) {
	s, err := Load(testhelpers.WorkingDir(t))
	if err != nil {
		t.Fatalf("Load() error = %v; want nil", err)
	}
	if s != nil {
		t.Errorf("Load() = %+v; want nil", s)
	}
}

func TestLoad_ReturnsErrorForCorruptFile(t *testing.T) {
	tempDir, stateDir := testhelpers.StateDir(t)
	testhelpers.WriteFile(t, stateDir, "state.json", "{not json")

	if _, err := Load(tempDir); err == nil {
		t.Error("Load() error = nil; want unmarshal error")
	}
}

func TestSession_Restore(t *testing.T) {
	s := &Session{MaxProgress: 50, Progress: 35, Splits: []int{30, 10, 20}, MinMask: 4}

	b := markbar.New()
	b.SetProgress(90)
	b.PushSplit(70)
	b.DeleteBack(true)
	s.Restore(b)

	if b.MaxProgress() != 50 {
		t.Errorf("MaxProgress() = %d; want 50", b.MaxProgress())
	}
	if b.Progress() != 35 {
		t.Errorf("Progress() = %d; want 35", b.Progress())
	}
	if b.MinMask() != 4 {
		t.Errorf("MinMask() = %d; want 4", b.MinMask())
	}
	got := b.Splits()
	want := []int{30, 10, 20}
	if len(got) != len(want) {
		t.Fatalf("Splits() = %v; want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Splits()[%d] = %d; want %d", i, got[i], want[i])
		}
	}
	if b.Confirming() {
		t.Error("Restore should leave confirm mode")
	}
}

func TestSession_Summary(t *testing.T) {
	tests := []struct {
		splits []int
		want   string
	}{
		{nil, "progress 30/100, no splits"},
		{[]int{10}, "progress 30/100, 1 split (10)"},
		{[]int{10, 20}, "progress 30/100, 2 splits (10, 20)"},
		{[]int{math.MinInt}, "progress 30/100, 1 split (-9223372036854775808)"},
	}

	for _, tt := range tests {
		s := &Session{MaxProgress: 100, Progress: 30, Splits: tt.splits}
		if got := s.Summary(); got != tt.want {
			t.Errorf("Summary() = %q; want %q", got, tt.want)
		}
	}
}

func TestCapture_SummaryOfScriptedExtremeSplit(t *testing.T) {
	cmds, err := script.ParseString("split -9223372036854775808\n")
	if err != nil {
		t.Fatalf("ParseString() error = %v", err)
	}
	bar := markbar.New()
	script.Apply(bar, cmds)

	got := Capture("s", t.TempDir(), bar.Snapshot()).Summary()
	if want := "progress 0/100, 1 split (-9223372036854775808)"; got != want {
		t.Errorf("Summary() = %q; want %q", got, want)
	}
}

func TestExists(t *testing.T) {
	tempDir := testhelpers.WorkingDir(t)
	if Exists(tempDir) {
		t.Error("Exists() = true before save")
	}

	if err := Capture("s", tempDir, markbar.New().Snapshot()).Save(); err != nil {
		t.Fatal(err)
	}
	if !Exists(tempDir) {
		t.Error("Exists() = false after save")
	}
}

func TestSession_Cleanup_RemovesStateDirectory(t *testing.T) {
	tempDir := testhelpers.WorkingDir(t)
	s := Capture("s", tempDir, markbar.New().Snapshot())
	if err := s.Save(); err != nil {
		t.Fatal(err)
	}

	if err := s.Cleanup(); err != nil {
		t.Fatalf("Cleanup() error = %v", err)
	}
	if _, err := os.Stat(StateDir(tempDir)); !os.IsNotExist(err) {
		t.Error("state directory should be removed")
	}
}

func TestSession_ConcurrentSaves(t *testing.T) {
	tempDir := testhelpers.WorkingDir(t)

	var wg sync.WaitGroup
	for i := 1; i <= 8; i++ {
		wg.Add(1)
		go func(progress int) {
			defer wg.Done()
			s := &Session{SessionID: "c", WorkingDir: tempDir, MaxProgress: 100, Progress: progress, Splits: []int{}}
			if err := s.Save(); err != nil {
				t.Errorf("Save() error = %v", err)
			}
		}(i * 10)
	}
	wg.Wait()

	loaded, err := Load(tempDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Progress%10 != 0 || loaded.Progress == 0 {
		t.Errorf("Progress = %d; want one of the saved values", loaded.Progress)
	}
}
