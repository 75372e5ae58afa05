// Package markbar implements a progress track with a stack of split marks
// and a two-step "delete back to the last split" protocol.
//
// A Bar holds the mutable state. Render turns a snapshot of that state into
// an ordered list of rectangles for a host surface to fill.
package markbar

import (
	"image/color"
	"slices"
	"sync"

	"github.com/rs/zerolog"

	"github.com/flashingpumpkin/markbar/internal/util"
)

// DefaultMaxProgress is the upper bound of a new bar's progress scale.
const DefaultMaxProgress = 100

// Bar is the progress state: current progress, the split stack and the
// delete-confirm state machine. It is safe for concurrent use; every
// mutator runs as one critical section over the whole state.
type Bar struct {
	mu sync.Mutex

	maxProgress int
	progress    int
	splits      []int
	minMask     int
	confirming  bool
	lastSplit   Boundary
	style       Style

	listener DeleteListener
	host     Host
	log      zerolog.Logger
}

// New creates a bar with max progress 100, no progress, no splits and the
// default style.
func New() *Bar {
	return &Bar{
		maxProgress: DefaultMaxProgress,
		lastSplit:   NoBoundary,
		style:       DefaultStyle(),
		log:         zerolog.Nop(),
	}
}

// effects collects what a mutation owes the outside world. They are applied
// after the lock is released so callbacks may read the bar.
type effects struct {
	host    Host
	repaint bool
	events  []notification
}

func (fx *effects) notify(kind eventKind, l DeleteListener, lastProgress, progress int) {
	if l == nil {
		return
	}
	fx.events = append(fx.events, notification{kind: kind, listener: l, lastProgress: lastProgress, progress: progress})
}

func (b *Bar) mutate(fn func(fx *effects)) {
	b.mu.Lock()
	fx := effects{host: b.host}
	fn(&fx)
	b.mu.Unlock()

	for _, n := range fx.events {
		n.deliver()
	}
	if fx.repaint && fx.host != nil && fx.host.OwnsRenderContext() {
		fx.host.RequestRepaint()
	}
}

// SetHost installs the repaint host. A nil host disables repaint requests.
func (b *Bar) SetHost(h Host) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.host = h
}

// SetLogger installs a logger for state-machine transitions.
func (b *Bar) SetLogger(l zerolog.Logger) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.log = l
}

// SetDeleteListener installs the listener notified by DeleteBack.
func (b *Bar) SetDeleteListener(l DeleteListener) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listener = l
}

// SetMaxProgress sets the upper bound of the scale and re-clamps the
// current progress to it.
func (b *Bar) SetMaxProgress(m int) {
	b.mutate(func(fx *effects) {
		b.maxProgress = m
		b.setProgressLocked(b.progress, fx)
		fx.repaint = true
	})
}

// MaxProgress returns the upper bound of the scale.
func (b *Bar) MaxProgress() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.maxProgress
}

// SetProgress clamps v to [0, max] and stores it. Returning to 0 clears
// every split.
func (b *Bar) SetProgress(v int) {
	b.mutate(func(fx *effects) {
		b.setProgressLocked(v, fx)
	})
}

// Progress returns the current progress.
func (b *Bar) Progress() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.progress
}

func (b *Bar) setProgressLocked(v int, fx *effects) {
	v = util.Clamp(v, 0, b.maxProgress)
	if v == b.progress {
		return
	}
	b.progress = v
	if v == 0 {
		b.clearSplitsLocked(fx)
		return
	}
	fx.repaint = true
}

// PushSplit places a split mark at v. Zero and duplicates are ignored.
func (b *Bar) PushSplit(v int) {
	b.mutate(func(fx *effects) {
		b.pushSplitLocked(v, fx)
	})
}

func (b *Bar) pushSplitLocked(v int, fx *effects) {
	if v == 0 || slices.Contains(b.splits, v) {
		return
	}
	b.splits = append(b.splits, v)
	fx.repaint = true
}

// PopSplit removes and returns the most recent split, or 0 when there is none.
func (b *Bar) PopSplit() int {
	var v int
	b.mutate(func(fx *effects) {
		v = b.popSplitLocked(fx)
	})
	return v
}

func (b *Bar) popSplitLocked(fx *effects) int {
	n := len(b.splits)
	if n == 0 {
		return 0
	}
	v := b.splits[n-1]
	b.splits = b.splits[:n-1]
	fx.repaint = true
	return v
}

// PeekSplit returns the most recent split, or 0 when there is none.
func (b *Bar) PeekSplit() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.peekSplitLocked()
}

func (b *Bar) peekSplitLocked() int {
	if len(b.splits) == 0 {
		return 0
	}
	return b.splits[len(b.splits)-1]
}

// Splits returns a copy of the split stack, oldest first.
func (b *Bar) Splits() []int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.splits)
}

// ClearSplits empties the split stack.
func (b *Bar) ClearSplits() {
	b.mutate(func(fx *effects) {
		b.clearSplitsLocked(fx)
	})
}

func (b *Bar) clearSplitsLocked(fx *effects) {
	b.splits = b.splits[:0]
	fx.repaint = true
}

// Confirming reports whether a delete is waiting for confirmation.
func (b *Bar) Confirming() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.confirming
}

// LastSplit returns the boundary of the pending delete.
func (b *Bar) LastSplit() Boundary {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastSplit
}

// ClearConfirm cancels a pending confirm-mode delete without notifying the
// listener. It does nothing when no delete is pending.
func (b *Bar) ClearConfirm() {
	b.mutate(func(fx *effects) {
		if !b.confirming {
			return
		}
		b.lastSplit = NoBoundary
		b.confirming = false
		fx.repaint = true
		b.log.Debug().Int("progress", b.progress).Msg("delete confirmation cancelled")
	})
}

// DeleteBack rewinds progress to the previous split.
//
// With confirm false the rewind happens at once. With confirm true the
// first call only previews the segment that would be removed and the
// second call commits it; ClearConfirm cancels the preview.
func (b *Bar) DeleteBack(confirm bool) {
	b.mutate(func(fx *effects) {
		b.deleteBackLocked(confirm, fx)
	})
}

// DeleteBackWith installs l as the active listener, then calls DeleteBack.
func (b *Bar) DeleteBackWith(confirm bool, l DeleteListener) {
	b.mutate(func(fx *effects) {
		b.listener = l
		b.deleteBackLocked(confirm, fx)
	})
}

func (b *Bar) deleteBackLocked(confirm bool, fx *effects) {
	if !confirm {
		if b.progress < b.maxProgress {
			b.popSplitLocked(fx)
		}
		target := b.peekSplitLocked()
		fx.notify(eventDelete, b.listener, target, b.progress)
		b.log.Debug().Int("from", b.progress).Int("to", target).Msg("deleted back")
		b.setProgressLocked(target, fx)
		return
	}

	if b.confirming {
		if b.progress < b.maxProgress {
			b.popSplitLocked(fx)
		}
		last, _ := b.lastSplit.Value()
		fx.notify(eventDelete, b.listener, last, b.progress)
		b.log.Debug().Int("from", b.progress).Int("to", last).Msg("confirmed delete back")
		b.setProgressLocked(last, fx)
		b.lastSplit = NoBoundary
		b.confirming = false
		return
	}

	// Look one below the top split without changing the stack.
	latest := NoBoundary
	if b.progress < b.maxProgress {
		latest = BoundaryAt(b.popSplitLocked(fx))
	}
	b.lastSplit = BoundaryAt(b.peekSplitLocked())
	if v, ok := latest.Value(); ok {
		b.pushSplitLocked(v, fx)
	}
	last, _ := b.lastSplit.Value()
	fx.notify(eventConfirm, b.listener, last, b.progress)
	fx.repaint = true
	b.confirming = true
	b.log.Debug().Int("progress", b.progress).Int("boundary", last).Msg("delete back awaiting confirmation")
}

// SetMinMask sets the progress value of the fixed minimum marker.
func (b *Bar) SetMinMask(v int) {
	b.mutate(func(fx *effects) {
		b.minMask = v
		fx.repaint = true
	})
}

// MinMask returns the progress value of the minimum marker.
func (b *Bar) MinMask() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.minMask
}

// SetSplitWidth sets the pixel width of split and minimum marks.
func (b *Bar) SetSplitWidth(w int) {
	b.mutate(func(fx *effects) {
		b.style.SplitWidth = w
		fx.repaint = true
	})
}

// SplitWidth returns the pixel width of split and minimum marks.
func (b *Bar) SplitWidth() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.style.SplitWidth
}

func (b *Bar) setColor(dst *color.RGBA, c color.RGBA) {
	b.mutate(func(fx *effects) {
		*dst = c
		fx.repaint = true
	})
}

func (b *Bar) color(src *color.RGBA) color.RGBA {
	b.mu.Lock()
	defer b.mu.Unlock()
	return *src
}

// SetBackgroundColor sets the track background colour.
func (b *Bar) SetBackgroundColor(c color.RGBA) { b.setColor(&b.style.Background, c) }

// BackgroundColor returns the track background colour.
func (b *Bar) BackgroundColor() color.RGBA { return b.color(&b.style.Background) }

// SetProgressColor sets the progress fill colour.
func (b *Bar) SetProgressColor(c color.RGBA) { b.setColor(&b.style.Progress, c) }

// ProgressColor returns the progress fill colour.
func (b *Bar) ProgressColor() color.RGBA { return b.color(&b.style.Progress) }

// SetSplitColor sets the split mark colour.
func (b *Bar) SetSplitColor(c color.RGBA) { b.setColor(&b.style.Split, c) }

// SplitColor returns the split mark colour.
func (b *Bar) SplitColor() color.RGBA { return b.color(&b.style.Split) }

// SetMinMaskColor sets the minimum marker colour.
func (b *Bar) SetMinMaskColor(c color.RGBA) { b.setColor(&b.style.MinMask, c) }

// MinMaskColor returns the minimum marker colour.
func (b *Bar) MinMaskColor() color.RGBA { return b.color(&b.style.MinMask) }

// SetConfirmColor sets the colour of the segment pending deletion.
func (b *Bar) SetConfirmColor(c color.RGBA) { b.setColor(&b.style.Confirm, c) }

// ConfirmColor returns the colour of the segment pending deletion.
func (b *Bar) ConfirmColor() color.RGBA { return b.color(&b.style.Confirm) }

// SetStyle replaces every style value at once.
func (b *Bar) SetStyle(s Style) {
	b.mutate(func(fx *effects) {
		b.style = s
		fx.repaint = true
	})
}

// Snapshot returns a copy of the whole state.
func (b *Bar) Snapshot() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return State{
		MaxProgress: b.maxProgress,
		Progress:    b.progress,
		Splits:      slices.Clone(b.splits),
		MinMask:     b.minMask,
		Confirming:  b.confirming,
		LastSplit:   b.lastSplit,
		Style:       b.style,
	}
}

// Render draws a snapshot of the bar onto the given track.
func (b *Bar) Render(track Bounds) ([]DrawCommand, error) {
	return Render(b.Snapshot(), track)
}
