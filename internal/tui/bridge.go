package tui

import (
	"github.com/fatih/color"
	"github.com/rs/zerolog"

	"github.com/flashingpumpkin/markbar/internal/util"
)

// Bridge turns bar listener callbacks and model actions into event log
// lines. It implements markbar.DeleteListener.
//
// The bar calls it from inside Model.Update, so the log is only ever
// touched from the program's event loop.
type Bridge struct {
	lines *RingBuffer
	log   zerolog.Logger

	dim    *color.Color
	yellow *color.Color
	red    *color.Color
	green  *color.Color
}

// NewBridge creates a bridge writing into lines.
func NewBridge(lines *RingBuffer, log zerolog.Logger) *Bridge {
	return &Bridge{
		lines:  lines,
		log:    log,
		dim:    color.New(color.Faint),
		yellow: color.New(color.FgYellow, color.Bold),
		red:    color.New(color.FgRed),
		green:  color.New(color.FgGreen),
	}
}

// OnConfirm records that a delete back is waiting for confirmation.
func (b *Bridge) OnConfirm(lastProgress, progress int) {
	b.log.Info().Int("from", progress).Int("to", lastProgress).Msg("delete back pending")
	b.lines.Push(b.yellow.Sprint(IconConfirm+" confirm delete ") +
		b.segment(lastProgress, progress) +
		b.dim.Sprint("  (backspace again to delete, esc to keep)"))
}

// OnDelete records a completed delete back.
func (b *Bridge) OnDelete(lastProgress, progress int) {
	b.log.Info().Int("from", progress).Int("to", lastProgress).Msg("deleted back")
	b.lines.Push(b.red.Sprint(IconDelete+" deleted ") + b.segment(lastProgress, progress))
}

// Split records a split placed at v.
func (b *Bridge) Split(v int) {
	b.log.Debug().Int("at", v).Msg("split")
	b.lines.Push(b.green.Sprint(IconSplit+" split at ") + util.IntToString(v))
}

// Note records a plain message.
func (b *Bridge) Note(msg string) {
	b.lines.Push(b.dim.Sprint(msg))
}

// Lines returns up to n of the newest log lines.
func (b *Bridge) Lines(n int) []string {
	return b.lines.Tail(n)
}

func (b *Bridge) segment(from, to int) string {
	return util.IntToString(from) + " ← " + util.IntToString(to)
}
