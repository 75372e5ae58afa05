package canvas

import (
	"image/color"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/flashingpumpkin/markbar/internal/markbar"
)

// Surface receives draw commands in paint order.
type Surface interface {
	Draw(cmd markbar.DrawCommand)
}

// Paint applies cmds to s in order; later commands cover earlier ones.
func Paint(s Surface, cmds []markbar.DrawCommand) {
	for _, cmd := range cmds {
		s.Draw(cmd)
	}
}

// Cell is one grid position. Set is false until some opaque command covers it.
type Cell struct {
	Color color.RGBA
	Layer markbar.Layer
	Set   bool
}

// Grid is a terminal surface with one cell per track unit.
type Grid struct {
	cols, rows int
	cells      []Cell
}

// NewGrid creates an empty grid. Negative sizes are treated as zero.
func NewGrid(cols, rows int) *Grid {
	cols = max(cols, 0)
	rows = max(rows, 0)
	return &Grid{cols: cols, rows: rows, cells: make([]Cell, cols*rows)}
}

// Bounds returns the track bounds covering the whole grid.
func (g *Grid) Bounds() markbar.Bounds {
	return markbar.Bounds{Left: 0, Top: 0, Right: g.cols, Bottom: g.rows}
}

// Cols returns the grid width.
func (g *Grid) Cols() int { return g.cols }

// Rows returns the grid height.
func (g *Grid) Rows() int { return g.rows }

// Reset clears every cell.
func (g *Grid) Reset() {
	clear(g.cells)
}

// At returns the cell at (col, row). Out of range positions return an unset cell.
func (g *Grid) At(col, row int) Cell {
	if col < 0 || col >= g.cols || row < 0 || row >= g.rows {
		return Cell{}
	}
	return g.cells[row*g.cols+col]
}

// Draw fills the cells whose centres fall inside the command's rectangle.
func (g *Grid) Draw(cmd markbar.DrawCommand) {
	if cmd.Color.A == 0 || cmd.Rect.Empty() {
		return
	}
	c0, c1 := sample(cmd.Rect.Left, cmd.Rect.Right, g.cols)
	r0, r1 := sample(cmd.Rect.Top, cmd.Rect.Bottom, g.rows)
	for row := r0; row < r1; row++ {
		for col := c0; col < c1; col++ {
			g.cells[row*g.cols+col] = Cell{Color: cmd.Color, Layer: cmd.Layer, Set: true}
		}
	}
}

// sample maps [lo, hi) to the half-open index range of cells whose centres it
// covers, clipped to [0, n). A non-empty interval that covers no centre
// yields the cell containing lo.
func sample(lo, hi float64, n int) (int, int) {
	start := int(math.Ceil(lo - 0.5))
	end := int(math.Ceil(hi - 0.5))
	if start >= end {
		start = int(math.Floor(lo))
		end = start + 1
	}
	start = max(start, 0)
	end = min(end, n)
	if start >= end {
		return 0, 0
	}
	return start, end
}

// Glyphs maps each layer to the character drawn for it.
type Glyphs struct {
	Empty      string
	Background string
	MinMask    string
	Progress   string
	Confirm    string
	Split      string
}

// DefaultGlyphs returns block glyphs for a colour terminal.
func DefaultGlyphs() Glyphs {
	return Glyphs{
		Empty:      "░",
		Background: "░",
		MinMask:    "▏",
		Progress:   "█",
		Confirm:    "▓",
		Split:      "┃",
	}
}

// ASCIIGlyphs returns glyphs that stay readable without colour.
func ASCIIGlyphs() Glyphs {
	return Glyphs{
		Empty:      ".",
		Background: ".",
		MinMask:    "|",
		Progress:   "#",
		Confirm:    "x",
		Split:      "|",
	}
}

func (gl Glyphs) forLayer(l markbar.Layer) string {
	switch l {
	case markbar.LayerBackground:
		return gl.Background
	case markbar.LayerMinMask:
		return gl.MinMask
	case markbar.LayerProgress:
		return gl.Progress
	case markbar.LayerConfirm:
		return gl.Confirm
	case markbar.LayerSplit:
		return gl.Split
	default:
		return gl.Empty
	}
}

// Render returns the grid as terminal text, one line per row. Runs of
// identical cells share one lipgloss style. Unset cells use empty.
func (g *Grid) Render(glyphs Glyphs, empty lipgloss.Style) string {
	var sb strings.Builder
	for row := 0; row < g.rows; row++ {
		if row > 0 {
			sb.WriteByte('\n')
		}
		line := g.cells[row*g.cols : (row+1)*g.cols]
		for i := 0; i < len(line); {
			j := i + 1
			for j < len(line) && line[j] == line[i] {
				j++
			}
			sb.WriteString(g.renderRun(line[i], j-i, glyphs, empty))
			i = j
		}
	}
	return sb.String()
}

func (g *Grid) renderRun(c Cell, n int, glyphs Glyphs, empty lipgloss.Style) string {
	if !c.Set {
		return empty.Render(strings.Repeat(glyphs.Empty, n))
	}
	fg, _ := opaqueHex(c.Color)
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
	return style.Render(strings.Repeat(glyphs.forLayer(c.Layer), n))
}

// String renders the grid with ASCII glyphs and no styling.
func (g *Grid) String() string {
	return g.Render(ASCIIGlyphs(), lipgloss.NewStyle())
}
