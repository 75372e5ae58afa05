package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/flashingpumpkin/markbar/internal/canvas"
	"github.com/flashingpumpkin/markbar/internal/config"
	"github.com/flashingpumpkin/markbar/internal/markbar"
	"github.com/flashingpumpkin/markbar/internal/script"
	"github.com/flashingpumpkin/markbar/internal/util"
)

// defaultTrackWidth is used when the terminal width is unknown.
const defaultTrackWidth = 60

var (
	dimColor    = color.New(color.Faint)
	yellowColor = color.New(color.FgYellow, color.Bold)
	redColor    = color.New(color.FgRed)
	greenColor  = color.New(color.FgGreen)
	boldColor   = color.New(color.Bold)
)

// eventPrinter writes bar delete events as plain lines.
type eventPrinter struct {
	out io.Writer
}

func (p *eventPrinter) OnConfirm(lastProgress, progress int) {
	_, _ = fmt.Fprintf(p.out, "%s %d ← %d\n", yellowColor.Sprint("⚠ confirm delete"), lastProgress, progress)
}

func (p *eventPrinter) OnDelete(lastProgress, progress int) {
	_, _ = fmt.Fprintf(p.out, "%s %d ← %d\n", redColor.Sprint("✗ deleted"), lastProgress, progress)
}

// runMinimal plays the session without the full-screen UI. A script is
// replayed with its waits; without one, progress records from where it is
// to the end of the track.
func runMinimal(ctx context.Context, out, errOut io.Writer, cfg *config.Config, bar *markbar.Bar, cmds []script.Command) error {
	printBanner(out, cfg, bar)
	bar.SetDeleteListener(&eventPrinter{out: out})

	var err error
	if len(cmds) > 0 {
		err = script.NewPlayer(cmds).Play(ctx, func(c script.Command) {
			c.Apply(bar)
			_, _ = fmt.Fprintf(out, "%s %s\n", dimColor.Sprint("▸"), c)
		})
	} else {
		err = record(ctx, out, errOut, cfg, bar)
	}

	printTrack(out, bar, terminalWidth(defaultTrackWidth))
	printSummary(out, bar)
	return err
}

// record advances progress one step per interval until the track is full
// or ctx is cancelled. An interrupted recording leaves a split where it
// stopped.
func record(ctx context.Context, out, errOut io.Writer, cfg *config.Config, bar *markbar.Bar) error {
	if bar.Progress() >= bar.MaxProgress() {
		_, _ = fmt.Fprintln(out, dimColor.Sprint("track is full"))
		return nil
	}

	sp := spinner.New(spinner.CharSets[11], 120*time.Millisecond,
		spinner.WithWriter(errOut),
		spinner.WithColor("fgGreen"))
	setSuffix(sp, bar)
	sp.Start()
	defer sp.Stop()

	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()

	for bar.Progress() < bar.MaxProgress() {
		select {
		case <-ctx.Done():
			sp.Stop()
			p := bar.Progress()
			bar.PushSplit(p)
			_, _ = fmt.Fprintf(out, "%s %d\n", greenColor.Sprint("┃ split at"), p)
			return ctx.Err()
		case <-ticker.C:
			bar.SetProgress(bar.Progress() + cfg.Step)
			setSuffix(sp, bar)
		}
	}
	return nil
}

func setSuffix(sp *spinner.Spinner, bar *markbar.Bar) {
	sp.Lock()
	sp.Suffix = " recording " + util.FormatFraction(bar.Progress(), bar.MaxProgress())
	sp.Unlock()
}

// terminalWidth returns the stdout width, or fallback when it is not a terminal.
func terminalWidth(fallback int) int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return fallback
	}
	width, _, err := term.GetSize(fd)
	if err != nil || width <= 0 {
		return fallback
	}
	return width
}

// printTrack draws the bar as one row of cells.
func printTrack(out io.Writer, bar *markbar.Bar, width int) {
	grid := canvas.NewGrid(width, 1)
	cmds, err := bar.Render(grid.Bounds())
	if err != nil {
		_, _ = fmt.Fprintf(out, "%s %v\n", redColor.Sprint("cannot draw track:"), err)
		return
	}
	canvas.Paint(grid, cmds)
	_, _ = fmt.Fprintln(out)
	_, _ = fmt.Fprintln(out, grid.Render(canvas.DefaultGlyphs(), lipgloss.NewStyle().Faint(true)))
}

func printBanner(out io.Writer, cfg *config.Config, bar *markbar.Bar) {
	_, _ = fmt.Fprintln(out, boldColor.Sprint("markbar"))
	_, _ = fmt.Fprintf(out, "  Session:     %s\n", cfg.SessionID)
	_, _ = fmt.Fprintf(out, "  Progress:    %s\n", util.FormatFraction(bar.Progress(), bar.MaxProgress()))
	_, _ = fmt.Fprintf(out, "  Step:        %d every %v\n", cfg.Step, cfg.Interval)
	if cfg.ScriptPath != "" {
		_, _ = fmt.Fprintf(out, "  Script:      %s\n", cfg.ScriptPath)
	}
	_, _ = fmt.Fprintln(out)
}

func printSummary(out io.Writer, bar *markbar.Bar) {
	splits := bar.Splits()
	_, _ = fmt.Fprintf(out, "  Progress:    %s\n", util.FormatFraction(bar.Progress(), bar.MaxProgress()))
	if len(splits) == 0 {
		_, _ = fmt.Fprintln(out, "  Splits:      (none)")
	} else {
		_, _ = fmt.Fprintf(out, "  Splits:      %s\n", util.FormatInts(splits, ", "))
	}
	if bar.Confirming() {
		_, _ = fmt.Fprintln(out, "  Pending:     delete not confirmed, it will be dropped")
	}
}
