package tui

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/flashingpumpkin/markbar/internal/markbar"
	"github.com/flashingpumpkin/markbar/internal/script"
)

// Program wraps the tea.Program for lifecycle management.
type Program struct {
	program *tea.Program
	bar     *markbar.Bar
}

// New creates a TUI program driving bar. Extra tea options are appended
// after the defaults, so tests can swap input and output.
func New(bar *markbar.Bar, opts Options, teaOpts ...tea.ProgramOption) *Program {
	// Handle NO_COLOR environment variable
	if os.Getenv("NO_COLOR") != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	opts.Theme = ResolveTheme(opts.Theme)
	model := NewModel(bar, opts)

	programOpts := append([]tea.ProgramOption{tea.WithAltScreen()}, teaOpts...)
	return &Program{
		program: tea.NewProgram(model, programOpts...),
		bar:     bar,
	}
}

// Run starts the TUI program. This blocks until the program exits.
func (p *Program) Run() error {
	_, err := p.program.Run()
	return err
}

// Bar returns the bar the program drives.
func (p *Program) Bar() *markbar.Bar {
	return p.bar
}

// Send sends a message to the program.
func (p *Program) Send(msg tea.Msg) {
	p.program.Send(msg)
}

// Note appends a line to the event log.
func (p *Program) Note(msg string) {
	p.program.Send(NoteMsg(msg))
}

// Quit sends a quit message to the program.
func (p *Program) Quit() {
	p.program.Quit()
}

// Kill stops the program immediately without restoring the terminal.
func (p *Program) Kill() {
	p.program.Kill()
}

// Wait blocks until the program has finished shutting down.
func (p *Program) Wait() {
	p.program.Wait()
}

// PlayScript replays cmds through the event loop and reports completion with
// a ScriptDoneMsg. It blocks until the script ends or ctx is cancelled.
func (p *Program) PlayScript(ctx context.Context, cmds []script.Command) {
	err := script.NewPlayer(cmds).Play(ctx, func(c script.Command) {
		p.program.Send(ScriptCommandMsg(c))
	})
	p.program.Send(ScriptDoneMsg{Err: err})
}
