package tui

import (
	"time"

	"github.com/flashingpumpkin/markbar/internal/script"
)

// ScriptCommandMsg applies one replayed script command to the bar.
type ScriptCommandMsg script.Command

// ScriptDoneMsg reports the end of a script replay.
type ScriptDoneMsg struct {
	Err error
}

// NoteMsg appends a line to the event log.
type NoteMsg string

// recordTickMsg advances progress while recording. Ticks from an earlier
// recording run carry a stale id and are dropped.
type recordTickMsg struct {
	id   int
	time time.Time
}
