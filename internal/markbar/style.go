package markbar

import "image/color"

// MinSplitWidth is the default pixel width of split and minimum marks.
const MinSplitWidth = 2

// Default colours.
var (
	ColorTransparent = color.RGBA{}
	ColorGreen       = color.RGBA{R: 0x06, G: 0xD2, B: 0x85, A: 0xFF}
	ColorRed         = color.RGBA{R: 0xFF, A: 0xFF}
)

// Style holds the colours and mark width used to render a track.
type Style struct {
	Background color.RGBA
	Progress   color.RGBA
	Split      color.RGBA
	MinMask    color.RGBA
	Confirm    color.RGBA
	SplitWidth int
}

// DefaultStyle returns a transparent track with a green fill, red split
// marks and a red pending-delete segment.
func DefaultStyle() Style {
	return Style{
		Background: ColorTransparent,
		Progress:   ColorGreen,
		Split:      ColorRed,
		MinMask:    ColorGreen,
		Confirm:    ColorRed,
		SplitWidth: MinSplitWidth,
	}
}

// State is an immutable copy of a Bar taken by Snapshot.
type State struct {
	MaxProgress int
	Progress    int
	Splits      []int
	MinMask     int
	Confirming  bool
	LastSplit   Boundary
	Style       Style
}
