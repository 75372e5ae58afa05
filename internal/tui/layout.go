package tui

// MinTerminalWidth is the minimum supported terminal width.
const MinTerminalWidth = 40

// MinTerminalHeight is the minimum supported terminal height.
const MinTerminalHeight = 14

// Panel heights (number of lines)
const (
	// HeaderPanelHeight is the brand and recording state line.
	HeaderPanelHeight = 1

	// TrackPanelHeight is the number of grid rows the bar is drawn on.
	TrackPanelHeight = 3

	// StatsPanelHeight holds progress, split and confirm details.
	StatsPanelHeight = 2

	// BorderHeight counts the top border, the three dividers and the bottom border.
	BorderHeight = 5

	// MinLogHeight is the smallest event log worth drawing.
	MinLogHeight = 2
)

// Layout represents the calculated dimensions for each UI region.
type Layout struct {
	Width  int
	Height int

	HeaderPanelHeight int
	TrackPanelHeight  int
	StatsPanelHeight  int
	LogPanelHeight    int
	HelpBarHeight     int

	// TooSmall indicates the terminal is below minimum size
	TooSmall bool

	// TooSmallMessage is shown when terminal is too small
	TooSmallMessage string
}

// CalculateLayout computes the layout for the terminal size. helpHeight is
// the number of lines the help bar needs below the frame.
func CalculateLayout(width, height, helpHeight int) Layout {
	layout := Layout{
		Width:             width,
		Height:            height,
		HeaderPanelHeight: HeaderPanelHeight,
		TrackPanelHeight:  TrackPanelHeight,
		StatsPanelHeight:  StatsPanelHeight,
		HelpBarHeight:     max(helpHeight, 1),
	}

	if width < MinTerminalWidth {
		layout.TooSmall = true
		layout.TooSmallMessage = "Terminal too narrow. Minimum width: 40 columns."
		return layout
	}

	if height < MinTerminalHeight {
		layout.TooSmall = true
		layout.TooSmallMessage = "Terminal too short. Minimum height: 14 rows."
		return layout
	}

	fixed := layout.HeaderPanelHeight + layout.TrackPanelHeight + layout.StatsPanelHeight + layout.HelpBarHeight + BorderHeight
	layout.LogPanelHeight = height - fixed

	if layout.LogPanelHeight < MinLogHeight {
		layout.TooSmall = true
		layout.TooSmallMessage = "Terminal too short to display UI."
		return layout
	}

	return layout
}

// ContentWidth returns the usable width inside the frame.
func (l Layout) ContentWidth() int {
	return l.Width - 2
}

// TrackWidth returns the number of grid columns for the bar, leaving one
// column of padding on each side.
func (l Layout) TrackWidth() int {
	return max(l.ContentWidth()-2, 0)
}
