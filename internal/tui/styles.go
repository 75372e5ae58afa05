// Package tui provides the interactive terminal host for a markbar using bubbletea.
package tui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Frame characters.
const (
	BoxTopLeft     = "╔"
	BoxTopRight    = "╗"
	BoxBottomLeft  = "╚"
	BoxBottomRight = "╝"
	BoxHorizontal  = "═"
	BoxVertical    = "║"
	BoxLeftT       = "╠"
	BoxRightT      = "╣"

	InnerVertical = "│"
)

// Status icons.
const (
	IconIdle      = "○"
	IconRecording = "●"
	IconConfirm   = "⚠"
	IconDelete    = "✗"
	IconSplit     = "┃"
	IconBrand     = "◆"
)

// Theme selects the palette.
type Theme string

const (
	// ThemeAuto picks dark or light from the terminal background.
	ThemeAuto  Theme = "auto"
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// ParseTheme converts a config value into a Theme. Empty means auto.
func ParseTheme(s string) (Theme, error) {
	switch Theme(s) {
	case ThemeAuto, ThemeDark, ThemeLight:
		return Theme(s), nil
	case "":
		return ThemeAuto, nil
	default:
		return "", fmt.Errorf("unknown theme %q", s)
	}
}

// ResolveTheme replaces ThemeAuto with whatever the terminal background
// suggests. Terminals that do not answer count as dark.
func ResolveTheme(t Theme) Theme {
	if t != ThemeAuto {
		return t
	}
	if termenv.NewOutput(os.Stdout).HasDarkBackground() {
		return ThemeDark
	}
	return ThemeLight
}

// palette is the set of ANSI 256 colours a theme is built from.
type palette struct {
	frame   lipgloss.Color // borders, brand
	muted   lipgloss.Color // labels, key hints
	faint   lipgloss.Color // help separators
	text    lipgloss.Color // values
	empty   lipgloss.Color // unpainted track cells
	record  lipgloss.Color
	pending lipgloss.Color
	deleted lipgloss.Color
}

var (
	darkPalette = palette{
		frame:   "37",  // teal
		muted:   "109", // grey-blue
		faint:   "240",
		text:    "254",
		empty:   "238",
		record:  "42", // close to the default progress green
		pending: "214",
		deleted: "203",
	}
	lightPalette = palette{
		frame:   "30",
		muted:   "66",
		faint:   "250",
		text:    "235",
		empty:   "252",
		record:  "28",
		pending: "130",
		deleted: "160",
	}
)

// Styles contains all lipgloss styles for the UI.
type Styles struct {
	Border lipgloss.Style
	Brand  lipgloss.Style
	Label  lipgloss.Style
	Value  lipgloss.Style

	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style

	// TrackEmpty styles track cells no layer has painted.
	TrackEmpty lipgloss.Style

	TooSmallMessage lipgloss.Style

	HelpBar lipgloss.Style
	HelpKey lipgloss.Style
}

func (p palette) styles() Styles {
	fg := func(c lipgloss.Color) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }
	return Styles{
		Border:          fg(p.frame),
		Brand:           fg(p.frame).Bold(true),
		Label:           fg(p.muted),
		Value:           fg(p.text),
		Success:         fg(p.record),
		Warning:         fg(p.pending).Bold(true),
		Error:           fg(p.deleted),
		TrackEmpty:      fg(p.empty),
		TooSmallMessage: fg(p.pending).Bold(true),
		HelpBar:         fg(p.faint),
		HelpKey:         fg(p.muted),
	}
}

// GetStyles returns the Styles for the given theme. Anything but
// ThemeLight gets the dark palette.
func GetStyles(theme Theme) Styles {
	if theme == ThemeLight {
		return lightPalette.styles()
	}
	return darkPalette.styles()
}

// RenderDoubleBorder renders a horizontal double-line divider of the given width.
func RenderDoubleBorder(width int, style lipgloss.Style) string {
	return style.Render(hline(BoxLeftT, BoxRightT, width))
}

// RenderTopBorder renders the top border of the frame.
func RenderTopBorder(width int, style lipgloss.Style) string {
	return style.Render(hline(BoxTopLeft, BoxTopRight, width))
}

// RenderBottomBorder renders the bottom border of the frame.
func RenderBottomBorder(width int, style lipgloss.Style) string {
	return style.Render(hline(BoxBottomLeft, BoxBottomRight, width))
}

func hline(left, right string, width int) string {
	return left + strings.Repeat(BoxHorizontal, max(width-2, 0)) + right
}
