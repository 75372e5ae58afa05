package tui

import (
	"errors"
	"slices"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/flashingpumpkin/markbar/internal/markbar"
	"github.com/flashingpumpkin/markbar/internal/script"
)

func testOptions() Options {
	opts := DefaultOptions()
	opts.Step = 5
	return opts
}

func newSizedModel(t *testing.T, opts Options) (Model, *markbar.Bar) {
	t.Helper()
	bar := markbar.New()
	m := NewModel(bar, opts)
	return send(t, m, tea.WindowSizeMsg{Width: 80, Height: 24}), bar
}

func send(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	updated, _ := m.Update(msg)
	return updated.(Model)
}

func sendCmd(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(msg)
	return updated.(Model), cmd
}

func press(t *testing.T, m Model, k tea.KeyMsg) Model {
	t.Helper()
	return send(t, m, k)
}

var (
	keySpace     = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{' '}}
	keyBackspace = tea.KeyMsg{Type: tea.KeyBackspace}
	keyEsc       = tea.KeyMsg{Type: tea.KeyEsc}
	keyRight     = tea.KeyMsg{Type: tea.KeyRight}
	keyLeft      = tea.KeyMsg{Type: tea.KeyLeft}
)

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func view(m Model) string {
	return ansi.Strip(m.View())
}

func TestNewModel(t *testing.T) {
	bar := markbar.New()
	m := NewModel(bar, DefaultOptions())

	if m.ready {
		t.Error("expected model not to be ready initially")
	}
	if m.Recording() {
		t.Error("expected model not to be recording initially")
	}
	if m.Bar() != bar {
		t.Error("expected Bar() to return the driven bar")
	}
	if m.Init() != nil {
		t.Error("expected Init() to return nil")
	}
}

func TestNewModel_FixesNonPositiveOptions(t *testing.T) {
	m := NewModel(markbar.New(), Options{Step: 0, Interval: -1})

	if m.opts.Step != 1 {
		t.Errorf("expected step 1, got %d", m.opts.Step)
	}
	if m.opts.Interval != DefaultOptions().Interval {
		t.Errorf("expected default interval, got %v", m.opts.Interval)
	}
}

func TestModelUpdateWindowSize(t *testing.T) {
	m := NewModel(markbar.New(), DefaultOptions())

	updated, cmd := sendCmd(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})

	if cmd != nil {
		t.Error("expected no command from window size update")
	}
	if !updated.ready {
		t.Error("expected model to be ready after window size message")
	}
	if updated.layout.Width != 120 || updated.layout.Height != 40 {
		t.Errorf("expected layout 120x40, got %dx%d", updated.layout.Width, updated.layout.Height)
	}
	if len(updated.track) != TrackPanelHeight {
		t.Errorf("expected %d track rows, got %d", TrackPanelHeight, len(updated.track))
	}
	if got := ansi.StringWidth(updated.track[0]); got != updated.layout.TrackWidth() {
		t.Errorf("expected track row width %d, got %d", updated.layout.TrackWidth(), got)
	}
}

func TestModelRecording(t *testing.T) {
	m, bar := newSizedModel(t, testOptions())

	m, cmd := sendCmd(t, m, keySpace)
	if !m.Recording() {
		t.Fatal("expected recording after space")
	}
	if cmd == nil {
		t.Error("expected tick command when recording starts")
	}

	m = send(t, m, recordTickMsg{id: m.recordID})
	m = send(t, m, recordTickMsg{id: m.recordID})
	if bar.Progress() != 10 {
		t.Errorf("expected progress 10 after two ticks, got %d", bar.Progress())
	}

	m = press(t, m, keySpace)
	if m.Recording() {
		t.Error("expected recording to stop on second space")
	}
	if !slices.Equal(bar.Splits(), []int{10}) {
		t.Errorf("expected split at 10, got %v", bar.Splits())
	}
	if !strings.Contains(view(m), "split at 10") {
		t.Error("expected split to be logged")
	}
}

func TestModelRecording_StaleTickIgnored(t *testing.T) {
	m, bar := newSizedModel(t, testOptions())

	m = press(t, m, keySpace)
	stale := m.recordID
	m = press(t, m, keySpace)
	m = press(t, m, keySpace)

	m, cmd := sendCmd(t, m, recordTickMsg{id: stale})
	if cmd != nil {
		t.Error("expected stale tick to schedule nothing")
	}
	if bar.Progress() != 0 {
		t.Errorf("expected stale tick to be ignored, progress %d", bar.Progress())
	}

	send(t, m, recordTickMsg{id: m.recordID})
	if bar.Progress() != 5 {
		t.Errorf("expected current tick to advance, progress %d", bar.Progress())
	}
}

func TestModelRecording_StopsAtMax(t *testing.T) {
	m, bar := newSizedModel(t, testOptions())
	bar.SetMaxProgress(8)

	m = press(t, m, keySpace)
	m = send(t, m, recordTickMsg{id: m.recordID})
	m, cmd := sendCmd(t, m, recordTickMsg{id: m.recordID})

	if bar.Progress() != 8 {
		t.Errorf("expected progress clamped to 8, got %d", bar.Progress())
	}
	if m.Recording() {
		t.Error("expected recording to stop at max")
	}
	if cmd != nil {
		t.Error("expected no further tick at max")
	}
	if len(bar.Splits()) != 0 {
		t.Errorf("expected no split at max, got %v", bar.Splits())
	}

	m = press(t, m, keySpace)
	if m.Recording() {
		t.Error("expected full track to refuse recording")
	}
}

func TestModelStepKeys(t *testing.T) {
	m, bar := newSizedModel(t, testOptions())

	m = press(t, m, keyRight)
	m = press(t, m, runeKey('l'))
	if bar.Progress() != 10 {
		t.Errorf("expected progress 10, got %d", bar.Progress())
	}

	m = press(t, m, keyLeft)
	if bar.Progress() != 5 {
		t.Errorf("expected progress 5, got %d", bar.Progress())
	}

	m = press(t, m, keySpace)
	press(t, m, keyRight)
	if bar.Progress() != 5 {
		t.Errorf("expected step keys to be ignored while recording, got %d", bar.Progress())
	}
}

func withSegments(bar *markbar.Bar) {
	bar.SetProgress(10)
	bar.PushSplit(10)
	bar.SetProgress(30)
	bar.PushSplit(30)
}

func TestModelDeleteBack_Confirm(t *testing.T) {
	m, bar := newSizedModel(t, testOptions())
	withSegments(bar)

	m = press(t, m, keyBackspace)
	if !bar.Confirming() {
		t.Fatal("expected a pending delete after first backspace")
	}
	if bar.Progress() != 30 {
		t.Errorf("expected progress unchanged while confirming, got %d", bar.Progress())
	}
	out := view(m)
	if !strings.Contains(out, "CONFIRM") {
		t.Error("expected header to show CONFIRM")
	}
	if !strings.Contains(out, "confirm delete 10 ← 30") {
		t.Error("expected pending delete to be logged")
	}

	m = press(t, m, keyBackspace)
	if bar.Confirming() {
		t.Error("expected confirm to clear after second backspace")
	}
	if bar.Progress() != 10 {
		t.Errorf("expected progress 10, got %d", bar.Progress())
	}
	if !slices.Equal(bar.Splits(), []int{10}) {
		t.Errorf("expected splits [10], got %v", bar.Splits())
	}
	if !strings.Contains(view(m), "deleted 10 ← 30") {
		t.Error("expected delete to be logged")
	}
}

func TestModelDeleteBack_Cancel(t *testing.T) {
	m, bar := newSizedModel(t, testOptions())
	withSegments(bar)

	m = press(t, m, keyBackspace)
	m = press(t, m, keyEsc)

	if bar.Confirming() {
		t.Error("expected esc to cancel the pending delete")
	}
	if bar.Progress() != 30 || !slices.Equal(bar.Splits(), []int{10, 30}) {
		t.Errorf("expected bar untouched, got progress %d splits %v", bar.Progress(), bar.Splits())
	}
	if !strings.Contains(view(m), "kept the last segment") {
		t.Error("expected cancel to be logged")
	}
}

func TestModelDeleteBack_Immediate(t *testing.T) {
	m, bar := newSizedModel(t, testOptions())
	withSegments(bar)

	press(t, m, runeKey('x'))

	if bar.Confirming() {
		t.Error("expected x to skip confirmation")
	}
	if bar.Progress() != 10 {
		t.Errorf("expected progress 10, got %d", bar.Progress())
	}
}

func TestModelDeleteBack_ConfirmDisabled(t *testing.T) {
	opts := testOptions()
	opts.ConfirmDelete = false
	m, bar := newSizedModel(t, opts)
	withSegments(bar)

	press(t, m, keyBackspace)

	if bar.Confirming() || bar.Progress() != 10 {
		t.Errorf("expected immediate delete, got progress %d confirming %v", bar.Progress(), bar.Confirming())
	}
}

func TestModelDeleteBack_WhileRecording(t *testing.T) {
	m, bar := newSizedModel(t, testOptions())
	bar.SetProgress(10)
	bar.PushSplit(10)

	m = press(t, m, keySpace)
	m = send(t, m, recordTickMsg{id: m.recordID})
	m = press(t, m, keyBackspace)

	if m.Recording() {
		t.Error("expected delete to stop recording")
	}
	if !bar.Confirming() {
		t.Fatal("expected pending delete")
	}
	last, _ := bar.LastSplit().Value()
	if last != 10 {
		t.Errorf("expected pending delete back to 10, got %d", last)
	}
	if !slices.Equal(bar.Splits(), []int{10, 15}) {
		t.Errorf("expected recorded segment to be split, got %v", bar.Splits())
	}
}

func TestModelReset(t *testing.T) {
	m, bar := newSizedModel(t, testOptions())
	withSegments(bar)

	press(t, m, runeKey('0'))

	if bar.Progress() != 0 || len(bar.Splits()) != 0 {
		t.Errorf("expected empty bar, got progress %d splits %v", bar.Progress(), bar.Splits())
	}
}

func TestModelHelpToggle(t *testing.T) {
	m, _ := newSizedModel(t, testOptions())
	before := m.layout.LogPanelHeight

	m = press(t, m, runeKey('?'))

	if !m.help.ShowAll {
		t.Error("expected full help after ?")
	}
	if m.layout.LogPanelHeight >= before {
		t.Errorf("expected full help to take log rows, got %d (was %d)", m.layout.LogPanelHeight, before)
	}
	if !strings.Contains(view(m), "delete now") {
		t.Error("expected full help to list every binding")
	}
}

func TestModelQuit(t *testing.T) {
	m, _ := newSizedModel(t, testOptions())
	m = press(t, m, keySpace)

	m, cmd := sendCmd(t, m, runeKey('q'))

	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
	if !m.quitting || m.Recording() {
		t.Error("expected quitting to stop recording")
	}
}

func TestModelScriptMessages(t *testing.T) {
	m, bar := newSizedModel(t, testOptions())

	cmds, err := script.ParseString("max 50\nprogress 20\nsplit\nadvance 5\n")
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	for _, c := range cmds {
		m = send(t, m, ScriptCommandMsg(c))
	}

	if bar.MaxProgress() != 50 || bar.Progress() != 25 {
		t.Errorf("expected 25/50, got %d/%d", bar.Progress(), bar.MaxProgress())
	}
	if !slices.Equal(bar.Splits(), []int{20}) {
		t.Errorf("expected splits [20], got %v", bar.Splits())
	}

	m = send(t, m, ScriptDoneMsg{})
	out := view(m)
	if !strings.Contains(out, "▸ advance 5") {
		t.Error("expected replayed commands to be logged")
	}
	if !strings.Contains(out, "script finished") {
		t.Error("expected script completion to be logged")
	}

	m = send(t, m, ScriptDoneMsg{Err: errors.New("boom")})
	if !strings.Contains(view(m), "script failed: boom") {
		t.Error("expected script failure to be logged")
	}
}

func TestModelNoteMsg(t *testing.T) {
	m, _ := newSizedModel(t, testOptions())
	m = send(t, m, NoteMsg("resumed session"))

	if !strings.Contains(view(m), "resumed session") {
		t.Error("expected note in event log")
	}
}

func TestModelRepaintOnlyWhenDirty(t *testing.T) {
	m, bar := newSizedModel(t, testOptions())
	first := m.track[0]

	m = send(t, m, NoteMsg("nothing changed"))
	if m.track[0] != first {
		t.Error("expected track to stay the same without a repaint request")
	}

	bar.SetProgress(50)
	m = send(t, m, NoteMsg("bar changed"))
	if m.track[0] == first {
		t.Error("expected track to repaint after the bar changed")
	}
	if m.dirty.IsDirty() {
		t.Error("expected repaint to consume the dirty flag")
	}
}

func TestModelView(t *testing.T) {
	t.Run("not ready", func(t *testing.T) {
		m := NewModel(markbar.New(), DefaultOptions())
		if m.View() != "Initializing..." {
			t.Errorf("unexpected view %q", m.View())
		}
	})

	t.Run("too small", func(t *testing.T) {
		m := NewModel(markbar.New(), DefaultOptions())
		m = send(t, m, tea.WindowSizeMsg{Width: 30, Height: 24})
		if !strings.Contains(view(m), "Terminal too narrow") {
			t.Errorf("expected too narrow message, got %q", view(m))
		}
	})

	t.Run("render error", func(t *testing.T) {
		m, bar := newSizedModel(t, testOptions())
		bar.SetMaxProgress(0)
		m = send(t, m, NoteMsg("zeroed"))
		if !strings.Contains(view(m), "max progress must be positive") {
			t.Error("expected render error in track panel")
		}
	})

	t.Run("frame lines fit", func(t *testing.T) {
		m, bar := newSizedModel(t, testOptions())
		withSegments(bar)
		m = send(t, m, NoteMsg(strings.Repeat("long ", 40)))

		lines := strings.Split(view(m), "\n")
		for i, line := range lines[:len(lines)-1] {
			if w := ansi.StringWidth(line); w != 80 {
				t.Errorf("line %d width %d, want 80: %q", i, w, line)
			}
		}
	})
}
