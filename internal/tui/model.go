package tui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/rs/zerolog"

	"github.com/flashingpumpkin/markbar/internal/canvas"
	"github.com/flashingpumpkin/markbar/internal/markbar"
	"github.com/flashingpumpkin/markbar/internal/script"
	"github.com/flashingpumpkin/markbar/internal/util"
)

// Options configures the interactive host.
type Options struct {
	// Step is how far progress moves per tick or arrow key.
	Step int

	// Interval is the recording tick period.
	Interval time.Duration

	// ConfirmDelete makes backspace a two-step delete.
	ConfirmDelete bool

	Theme Theme

	// LogLines caps the event log.
	LogLines int

	Logger zerolog.Logger
}

// DefaultOptions returns the options used when none are configured.
func DefaultOptions() Options {
	return Options{
		Step:          1,
		Interval:      100 * time.Millisecond,
		ConfirmDelete: true,
		Theme:         ThemeDark,
		LogLines:      DefaultMaxLogLines,
		Logger:        zerolog.Nop(),
	}
}

// Model is the bubbletea model driving a bar.
//
// The bar repaints through a DirtyFlag host: mutations made while handling
// a message mark it dirty and Update re-renders the track once before
// returning.
type Model struct {
	bar    *markbar.Bar
	dirty  *markbar.DirtyFlag
	bridge *Bridge
	opts   Options

	layout Layout
	grid   *canvas.Grid
	track  []string
	// trackErr is the last render error, shown in place of the track.
	trackErr error
	stale    bool

	recording bool
	recordID  int

	spinner spinner.Model
	help    help.Model
	keys    keyMap
	styles  Styles
	glyphs  canvas.Glyphs

	ready    bool
	quitting bool
}

// NewModel creates a model that takes over bar's host and delete listener.
func NewModel(bar *markbar.Bar, opts Options) Model {
	if opts.Step <= 0 {
		opts.Step = 1
	}
	if opts.Interval <= 0 {
		opts.Interval = DefaultOptions().Interval
	}

	styles := GetStyles(opts.Theme)

	dirty := &markbar.DirtyFlag{}
	bar.SetHost(dirty)
	bridge := NewBridge(NewRingBuffer(opts.LogLines), opts.Logger)
	bar.SetDeleteListener(bridge)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.Success

	h := help.New()
	h.Styles.ShortKey = styles.HelpKey
	h.Styles.ShortDesc = styles.HelpBar
	h.Styles.ShortSeparator = styles.HelpBar
	h.Styles.FullKey = styles.HelpKey
	h.Styles.FullDesc = styles.HelpBar
	h.Styles.FullSeparator = styles.HelpBar

	return Model{
		bar:     bar,
		dirty:   dirty,
		bridge:  bridge,
		opts:    opts,
		spinner: s,
		help:    h,
		keys:    defaultKeyMap,
		styles:  styles,
		glyphs:  canvas.DefaultGlyphs(),
		stale:   true,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Bar returns the bar the model drives.
func (m Model) Bar() *markbar.Bar {
	return m.bar
}

// Recording reports whether progress is advancing on a tick.
func (m Model) Recording() bool {
	return m.recording
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := m.handle(msg)
	m.repaint()
	return m, cmd
}

func (m *Model) handle(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		m.layout = CalculateLayout(msg.Width, msg.Height, m.helpHeight())
		m.ready = true
		m.stale = true
		return nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case recordTickMsg:
		if !m.recording || msg.id != m.recordID {
			return nil
		}
		m.bar.SetProgress(m.bar.Progress() + m.opts.Step)
		if m.bar.Progress() >= m.bar.MaxProgress() {
			m.recording = false
			m.bridge.Note(IconIdle + " reached the end of the track")
			return nil
		}
		return m.tick()

	case spinner.TickMsg:
		if !m.recording {
			return nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return cmd

	case ScriptCommandMsg:
		c := script.Command(msg)
		c.Apply(m.bar)
		if c.Op == script.OpMax || c.Op == script.OpWidth {
			m.stale = true
		}
		m.bridge.Note("▸ " + c.String())
		return nil

	case ScriptDoneMsg:
		switch {
		case msg.Err == nil:
			m.bridge.Note("script finished")
		case errors.Is(msg.Err, context.Canceled):
			m.bridge.Note("script cancelled")
		default:
			m.bridge.Note("script failed: " + msg.Err.Error())
		}
		return nil

	case NoteMsg:
		m.bridge.Note(string(msg))
		return nil
	}
	return nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		m.recording = false
		return tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		if m.ready {
			m.layout = CalculateLayout(m.layout.Width, m.layout.Height, m.helpHeight())
			m.stale = true
		}

	case key.Matches(msg, m.keys.Record):
		return m.toggleRecording()

	case key.Matches(msg, m.keys.Forward):
		m.stepBy(m.opts.Step)

	case key.Matches(msg, m.keys.Back):
		m.stepBy(-m.opts.Step)

	case key.Matches(msg, m.keys.Delete):
		m.deleteBack(m.opts.ConfirmDelete)

	case key.Matches(msg, m.keys.DeleteNow):
		m.deleteBack(false)

	case key.Matches(msg, m.keys.Cancel):
		if m.bar.Confirming() {
			m.bar.ClearConfirm()
			m.bridge.Note("kept the last segment")
		}

	case key.Matches(msg, m.keys.Reset):
		m.recording = false
		m.bar.ClearConfirm()
		m.bar.SetProgress(0)
		m.bridge.Note("reset")
	}
	return nil
}

func (m *Model) toggleRecording() tea.Cmd {
	if m.recording {
		m.stopRecording()
		return nil
	}
	if m.bar.Progress() >= m.bar.MaxProgress() {
		m.bridge.Note("track is full")
		return nil
	}
	m.bar.ClearConfirm()
	m.recording = true
	m.recordID++
	m.bridge.Note(IconRecording + " recording from " + util.IntToString(m.bar.Progress()))
	return tea.Batch(m.spinner.Tick, m.tick())
}

// stopRecording ends a recording run and marks where it stopped.
func (m *Model) stopRecording() {
	if !m.recording {
		return
	}
	m.recording = false

	p := m.bar.Progress()
	before := len(m.bar.Splits())
	m.bar.PushSplit(p)
	if len(m.bar.Splits()) > before {
		m.bridge.Split(p)
	}
}

func (m *Model) stepBy(delta int) {
	if m.recording {
		return
	}
	m.bar.SetProgress(m.bar.Progress() + delta)
}

func (m *Model) deleteBack(confirm bool) {
	m.stopRecording()
	m.bar.DeleteBack(confirm)
}

func (m Model) tick() tea.Cmd {
	id := m.recordID
	return tea.Tick(m.opts.Interval, func(t time.Time) tea.Msg {
		return recordTickMsg{id: id, time: t}
	})
}

func (m Model) helpHeight() int {
	return lipgloss.Height(m.help.View(m.keys))
}

// repaint re-renders the track when the bar asked for it or the geometry changed.
func (m *Model) repaint() {
	if !m.ready || m.layout.TooSmall {
		return
	}
	dirty := m.dirty.TakeDirty()
	if !dirty && !m.stale {
		return
	}

	w := m.layout.TrackWidth()
	if m.grid == nil || m.grid.Cols() != w || m.grid.Rows() != m.layout.TrackPanelHeight {
		m.grid = canvas.NewGrid(w, m.layout.TrackPanelHeight)
	} else {
		m.grid.Reset()
	}

	cmds, err := m.bar.Render(m.grid.Bounds())
	m.trackErr = err
	if err == nil {
		canvas.Paint(m.grid, cmds)
	}
	m.track = strings.Split(m.grid.Render(m.glyphs, m.styles.TrackEmpty), "\n")
	m.stale = false
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	if m.layout.TooSmall {
		return m.styles.TooSmallMessage.Render(m.layout.TooSmallMessage)
	}

	return m.renderFull()
}

func (m Model) renderFull() string {
	width := m.layout.Width
	var sections []string

	sections = append(sections, RenderTopBorder(width, m.styles.Border))
	sections = append(sections, m.renderHeader())
	sections = append(sections, RenderDoubleBorder(width, m.styles.Border))
	sections = append(sections, m.renderTrack()...)
	sections = append(sections, RenderDoubleBorder(width, m.styles.Border))
	sections = append(sections, m.renderStats()...)
	sections = append(sections, RenderDoubleBorder(width, m.styles.Border))
	sections = append(sections, m.renderLog()...)
	sections = append(sections, RenderBottomBorder(width, m.styles.Border))
	sections = append(sections, m.help.View(m.keys))

	return strings.Join(sections, "\n")
}

// frameLine pads or truncates content to the frame and adds the side borders.
func (m Model) frameLine(content string) string {
	width := m.layout.ContentWidth()
	if ansi.StringWidth(content) > width {
		content = ansi.Truncate(content, width, "…")
	}
	padding := max(width-ansi.StringWidth(content), 0)
	border := m.styles.Border.Render(BoxVertical)
	return border + content + strings.Repeat(" ", padding) + border
}

func (m Model) renderHeader() string {
	width := m.layout.ContentWidth()
	brand := " " + m.styles.Brand.Render(IconBrand+" MARKBAR")

	var state string
	switch {
	case m.recording:
		state = m.spinner.View() + m.styles.Success.Render(" REC")
	case m.bar.Confirming():
		state = m.styles.Warning.Render(IconConfirm + " CONFIRM")
	default:
		state = m.styles.Label.Render(IconIdle + " IDLE")
	}
	fraction := m.styles.Value.Render(util.FormatFraction(m.bar.Progress(), m.bar.MaxProgress()))
	right := state + m.styles.Label.Render("  "+InnerVertical+"  ") + fraction + " "

	padding := max(width-ansi.StringWidth(brand)-ansi.StringWidth(right), 1)
	return m.frameLine(brand + strings.Repeat(" ", padding) + right)
}

func (m Model) renderTrack() []string {
	lines := make([]string, m.layout.TrackPanelHeight)
	for i := range lines {
		row := ""
		if i < len(m.track) {
			row = m.track[i]
		}
		if m.trackErr != nil {
			row = ""
			if i == m.layout.TrackPanelHeight/2 {
				row = m.styles.Error.Render(m.trackErr.Error())
			}
		}
		lines[i] = m.frameLine(" " + row + " ")
	}
	return lines
}

func (m Model) renderStats() []string {
	sep := m.styles.Label.Render("  " + InnerVertical + "  ")
	splits := m.bar.Splits()

	first := " " + m.styles.Label.Render("Progress ") + m.styles.Value.Render(util.FormatFraction(m.bar.Progress(), m.bar.MaxProgress())) +
		sep + m.styles.Label.Render("Splits ") + m.styles.Value.Render(util.IntToString(len(splits))) +
		sep + m.styles.Label.Render("Min ") + m.styles.Value.Render(util.IntToString(m.bar.MinMask())) +
		sep + m.styles.Label.Render("Step ") + m.styles.Value.Render(util.IntToString(m.opts.Step))

	var second string
	switch {
	case m.bar.Confirming():
		last, _ := m.bar.LastSplit().Value()
		second = " " + m.styles.Warning.Render(IconConfirm+" delete back to "+util.IntToString(last)+"?") +
			m.styles.Label.Render("  backspace deletes, esc keeps")
	case len(splits) > 0:
		second = " " + m.styles.Label.Render("At ") + m.styles.Value.Render(util.FormatInts(splits, " "+IconSplit+" "))
	default:
		second = " " + m.styles.Label.Render("No splits yet. Press space to record.")
	}

	return []string{m.frameLine(first), m.frameLine(second)}
}

func (m Model) renderLog() []string {
	height := m.layout.LogPanelHeight
	if height <= 0 {
		return nil
	}

	entries := m.bridge.Lines(height)
	lines := make([]string, 0, height)
	if len(entries) == 0 {
		lines = append(lines, m.frameLine(" "+m.styles.Label.Render("Waiting for events...")))
	}
	for _, e := range entries {
		lines = append(lines, m.frameLine(" "+e))
	}
	for len(lines) < height {
		lines = append(lines, m.frameLine(""))
	}
	return lines
}
