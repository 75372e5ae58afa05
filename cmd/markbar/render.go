package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/flashingpumpkin/markbar/internal/canvas"
	"github.com/flashingpumpkin/markbar/internal/markbar"
	"github.com/flashingpumpkin/markbar/internal/script"
)

// Output formats for render.
const (
	formatText     = "text"
	formatCommands = "commands"
	formatJSON     = "json"
)

// defaultPNGWidth is the image width used when --width is not set.
const defaultPNGWidth = 400

var (
	renderWidth  int
	renderHeight int
	renderFormat string
	renderPNG    string
	renderASCII  bool
)

var renderCmd = &cobra.Command{
	Use:   "render [script]",
	Short: "Apply a script to a fresh bar and draw the result",
	Long: `Apply a script to a fresh bar and draw the resulting track.

The script is read from the given file, or from stdin when no file (or "-")
is given. Colours and mark width come from the config file.

Formats:
  text      one row of track cells (default)
  commands  the draw commands in paint order
  json      the bar state and draw commands

With --png the track is also written to an image file.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRender,
}

func init() {
	renderCmd.Flags().IntVarP(&renderWidth, "width", "w", 0, "Track width in cells, or pixels for --png (default: terminal width)")
	renderCmd.Flags().IntVar(&renderHeight, "height", 1, "Track height in cells, or pixels for --png")
	renderCmd.Flags().StringVarP(&renderFormat, "format", "f", formatText, "Output format: text, commands, json")
	renderCmd.Flags().StringVar(&renderPNG, "png", "", "Also write the track to this PNG file")
	renderCmd.Flags().BoolVar(&renderASCII, "ascii", false, "Draw text output with ASCII characters")
}

func runRender(cmd *cobra.Command, args []string) error {
	switch renderFormat {
	case formatText, formatCommands, formatJSON:
	default:
		return fmt.Errorf("invalid format %q, valid options: text, commands, json", renderFormat)
	}
	if renderHeight <= 0 {
		return errors.New("height must be positive")
	}

	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	cmds, err := readScript(cmd, args)
	if err != nil {
		return err
	}

	bar := markbar.New()
	cfg.ApplyTo(bar)
	script.Apply(bar, cmds)

	if renderPNG != "" {
		if err := writePNG(bar, renderPNG); err != nil {
			return err
		}
	}

	width := renderWidth
	if width <= 0 {
		width = terminalWidth(defaultTrackWidth)
	}
	return renderBar(cmd.OutOrStdout(), bar, width, renderHeight, renderFormat, renderASCII)
}

// readScript parses the script named by args, or stdin.
func readScript(cmd *cobra.Command, args []string) ([]script.Command, error) {
	if len(args) == 0 || args[0] == "-" {
		cmds, err := script.Parse(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("stdin: %w", err)
		}
		return cmds, nil
	}
	return loadScript(args[0])
}

// renderBar writes the bar drawn on a width x height track in the given format.
func renderBar(out io.Writer, bar *markbar.Bar, width, height int, format string, ascii bool) error {
	grid := canvas.NewGrid(width, height)
	cmds, err := bar.Render(grid.Bounds())
	if err != nil {
		return fmt.Errorf("failed to render: %w", err)
	}

	switch format {
	case formatCommands:
		for _, c := range cmds {
			_, _ = fmt.Fprintf(out, "%-10s [%.2f, %.2f) x [%.0f, %.0f)  %s\n",
				c.Layer, c.Rect.Left, c.Rect.Right, c.Rect.Top, c.Rect.Bottom, canvas.Hex(c.Color))
		}
		return nil

	case formatJSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(newRenderOutput(bar.Snapshot(), width, height, cmds)); err != nil {
			return fmt.Errorf("failed to encode json: %w", err)
		}
		return nil

	default:
		canvas.Paint(grid, cmds)
		glyphs := canvas.DefaultGlyphs()
		if ascii {
			glyphs = canvas.ASCIIGlyphs()
		}
		_, _ = fmt.Fprintln(out, grid.Render(glyphs, lipgloss.NewStyle().Faint(true)))
		return nil
	}
}

// renderOutput is the JSON shape of render --format json.
type renderOutput struct {
	MaxProgress int             `json:"max_progress"`
	Progress    int             `json:"progress"`
	Splits      []int           `json:"splits"`
	MinMask     int             `json:"min_mask"`
	Confirming  bool            `json:"confirming"`
	LastSplit   *int            `json:"last_split"`
	Width       int             `json:"width"`
	Height      int             `json:"height"`
	Commands    []renderCommand `json:"commands"`
}

type renderCommand struct {
	Layer  string  `json:"layer"`
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Color  string  `json:"color"`
}

func newRenderOutput(s markbar.State, width, height int, cmds []markbar.DrawCommand) renderOutput {
	o := renderOutput{
		MaxProgress: s.MaxProgress,
		Progress:    s.Progress,
		Splits:      s.Splits,
		MinMask:     s.MinMask,
		Confirming:  s.Confirming,
		Width:       width,
		Height:      height,
		Commands:    make([]renderCommand, len(cmds)),
	}
	if o.Splits == nil {
		o.Splits = []int{}
	}
	if v, ok := s.LastSplit.Value(); ok {
		o.LastSplit = &v
	}
	for i, c := range cmds {
		o.Commands[i] = renderCommand{
			Layer:  c.Layer.String(),
			Left:   c.Rect.Left,
			Top:    c.Rect.Top,
			Right:  c.Rect.Right,
			Bottom: c.Rect.Bottom,
			Color:  canvas.Hex(c.Color),
		}
	}
	return o
}

// writePNG draws the bar on an image and writes it to path.
func writePNG(bar *markbar.Bar, path string) error {
	width := renderWidth
	if width <= 0 {
		width = defaultPNGWidth
	}
	height := renderHeight
	if height <= 1 {
		height = 16
	}

	img := canvas.NewImage(width, height)
	cmds, err := bar.Render(img.Bounds())
	if err != nil {
		return fmt.Errorf("failed to render: %w", err)
	}
	canvas.Paint(img, cmds)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := img.WritePNG(f); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	return nil
}
