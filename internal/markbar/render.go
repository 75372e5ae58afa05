package markbar

import (
	"image/color"

	errs "github.com/flashingpumpkin/markbar/internal/errors"
)

// Layer names the rendering pass that produced a DrawCommand.
type Layer int

// Layers, in paint order.
const (
	LayerBackground Layer = iota
	LayerMinMask
	LayerProgress
	LayerConfirm
	LayerSplit
)

func (l Layer) String() string {
	switch l {
	case LayerBackground:
		return "background"
	case LayerMinMask:
		return "min_mask"
	case LayerProgress:
		return "progress"
	case LayerConfirm:
		return "confirm"
	case LayerSplit:
		return "split"
	default:
		return "unknown"
	}
}

// Bounds is the pixel rectangle of the track.
type Bounds struct {
	Left, Top, Right, Bottom int
}

// Width returns the horizontal extent of the track.
func (b Bounds) Width() int {
	return b.Right - b.Left
}

// Height returns the vertical extent of the track.
func (b Bounds) Height() int {
	return b.Bottom - b.Top
}

// Rect is an axis-aligned rectangle in pixel space. Right and Bottom are exclusive.
type Rect struct {
	Left, Top, Right, Bottom float64
}

// Width returns Right - Left.
func (r Rect) Width() float64 {
	return r.Right - r.Left
}

// Empty reports whether the rectangle covers no area.
func (r Rect) Empty() bool {
	return r.Right <= r.Left || r.Bottom <= r.Top
}

// DrawCommand is one rectangle fill. Later commands paint over earlier ones.
type DrawCommand struct {
	Rect  Rect
	Color color.RGBA
	Layer Layer
}

// Render maps a snapshot onto the track and returns the fills in paint
// order: background, minimum mark, progress (split into a kept segment and
// a pending-delete segment while a confirm is active), then one mark per
// split, oldest first.
//
// A maximum progress of zero or less has no geometry; Render returns
// ErrNonPositiveMax and no commands.
func Render(s State, track Bounds) ([]DrawCommand, error) {
	if s.MaxProgress <= 0 {
		return nil, errs.ErrNonPositiveMax
	}

	r := trackRenderer{state: s, track: track}
	style := s.Style
	left := float64(track.Left)

	cmds := make([]DrawCommand, 0, 4+len(s.Splits))
	cmds = append(cmds, DrawCommand{Rect: r.span(left, float64(track.Right)), Color: style.Background, Layer: LayerBackground})
	cmds = append(cmds, DrawCommand{Rect: r.mark(s.MinMask), Color: style.MinMask, Layer: LayerMinMask})

	if last, ok := s.LastSplit.Value(); ok {
		if last > 0 {
			cmds = append(cmds, DrawCommand{Rect: r.span(left, r.x(last)), Color: style.Progress, Layer: LayerProgress})
		}
		cmds = append(cmds, DrawCommand{Rect: r.span(r.x(last), r.x(s.Progress)), Color: style.Confirm, Layer: LayerConfirm})
	} else {
		cmds = append(cmds, DrawCommand{Rect: r.span(left, r.x(s.Progress)), Color: style.Progress, Layer: LayerProgress})
	}

	for _, split := range s.Splits {
		cmds = append(cmds, DrawCommand{Rect: r.mark(split), Color: style.Split, Layer: LayerSplit})
	}
	return cmds, nil
}

type trackRenderer struct {
	state State
	track Bounds
}

// x interpolates a progress value onto the track.
func (r trackRenderer) x(v int) float64 {
	return float64(r.track.Left) + float64(v)*float64(r.track.Width())/float64(r.state.MaxProgress)
}

func (r trackRenderer) span(left, right float64) Rect {
	return Rect{Left: left, Top: float64(r.track.Top), Right: right, Bottom: float64(r.track.Bottom)}
}

// mark places a split-width mark ending at v. Marks too close to the origin
// are pinned to the left edge instead of running off the track.
func (r trackRenderer) mark(v int) Rect {
	w := float64(r.state.Style.SplitWidth)
	if v < r.state.Style.SplitWidth {
		left := float64(r.track.Left)
		return r.span(left, left+w)
	}
	right := r.x(v)
	return r.span(right-w, right)
}
