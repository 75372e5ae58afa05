// Package script parses and plays line-oriented scripts that drive a bar.
//
// One command per line. Lines starting with '#' are comments, as is
// anything after a free-standing '#':
//
//	max 100
//	progress 30
//	split
//	advance 20
//	delete confirm
//	wait 250ms
//	delete confirm
package script

import (
	"bufio"
	"errors"
	"fmt"
	"image/color"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/flashingpumpkin/markbar/internal/canvas"
	errs "github.com/flashingpumpkin/markbar/internal/errors"
	"github.com/flashingpumpkin/markbar/internal/markbar"
)

// Op identifies a script command.
type Op string

const (
	OpMax      Op = "max"
	OpProgress Op = "progress"
	OpAdvance  Op = "advance"
	OpSplit    Op = "split"
	OpPop      Op = "pop"
	OpClear    Op = "clear"
	OpDelete   Op = "delete"
	OpCancel   Op = "cancel"
	OpMinMask  Op = "minmask"
	OpWidth    Op = "width"
	OpColor    Op = "color"
	OpWait     Op = "wait"
)

// Command is one parsed script line.
type Command struct {
	Line int
	Op   Op

	// N is the integer argument. HasN is false for "split" without a value.
	N    int
	HasN bool

	Confirm bool
	Layer   markbar.Layer
	Color   color.RGBA
	Delay   time.Duration
}

// String formats the command the way it would be written in a script.
func (c Command) String() string {
	switch c.Op {
	case OpMax, OpProgress, OpAdvance, OpMinMask, OpWidth:
		return fmt.Sprintf("%s %d", c.Op, c.N)
	case OpSplit:
		if c.HasN {
			return fmt.Sprintf("%s %d", c.Op, c.N)
		}
		return string(c.Op)
	case OpDelete:
		if c.Confirm {
			return "delete confirm"
		}
		return "delete"
	case OpColor:
		return fmt.Sprintf("%s %s %s", c.Op, c.Layer, canvas.Hex(c.Color))
	case OpWait:
		return fmt.Sprintf("%s %s", c.Op, c.Delay)
	default:
		return string(c.Op)
	}
}

// Apply runs the command against b. Waits are no-ops.
func (c Command) Apply(b *markbar.Bar) {
	switch c.Op {
	case OpMax:
		b.SetMaxProgress(c.N)
	case OpProgress:
		b.SetProgress(c.N)
	case OpAdvance:
		b.SetProgress(b.Progress() + c.N)
	case OpSplit:
		if c.HasN {
			b.PushSplit(c.N)
		} else {
			b.PushSplit(b.Progress())
		}
	case OpPop:
		b.PopSplit()
	case OpClear:
		b.ClearSplits()
	case OpDelete:
		b.DeleteBack(c.Confirm)
	case OpCancel:
		b.ClearConfirm()
	case OpMinMask:
		b.SetMinMask(c.N)
	case OpWidth:
		b.SetSplitWidth(c.N)
	case OpColor:
		setLayerColor(b, c.Layer, c.Color)
	}
}

func setLayerColor(b *markbar.Bar, l markbar.Layer, c color.RGBA) {
	switch l {
	case markbar.LayerBackground:
		b.SetBackgroundColor(c)
	case markbar.LayerMinMask:
		b.SetMinMaskColor(c)
	case markbar.LayerProgress:
		b.SetProgressColor(c)
	case markbar.LayerConfirm:
		b.SetConfirmColor(c)
	case markbar.LayerSplit:
		b.SetSplitColor(c)
	}
}

// Apply runs cmds against b in order, skipping waits.
func Apply(b *markbar.Bar, cmds []Command) {
	for _, c := range cmds {
		c.Apply(b)
	}
}

// Parse reads a script. Errors name the offending line.
func Parse(r io.Reader) ([]Command, error) {
	var cmds []Command
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(stripComment(scanner.Text()))
		if len(fields) == 0 {
			continue
		}

		cmd, err := parseFields(fields)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		cmd.Line = line
		cmds = append(cmds, cmd)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}
	return cmds, nil
}

// ParseString parses a script held in memory.
func ParseString(s string) ([]Command, error) {
	return Parse(strings.NewReader(s))
}

// stripComment drops a whole-line comment or a trailing " # ..." comment.
// A '#' glued to a word is a colour, not a comment.
func stripComment(s string) string {
	if strings.HasPrefix(strings.TrimSpace(s), "#") {
		return ""
	}
	for i := 1; i < len(s); i++ {
		if s[i] == '#' && isSpace(s[i-1]) && (i+1 == len(s) || isSpace(s[i+1])) {
			return s[:i]
		}
	}
	return s
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t'
}

func parseFields(fields []string) (Command, error) {
	op := Op(strings.ToLower(fields[0]))
	args := fields[1:]
	cmd := Command{Op: op}

	switch op {
	case OpMax, OpProgress, OpAdvance, OpMinMask, OpWidth:
		n, err := intArg(op, args)
		if err != nil {
			return Command{}, err
		}
		cmd.N, cmd.HasN = n, true

	case OpSplit:
		if len(args) == 0 {
			return cmd, nil
		}
		n, err := intArg(op, args)
		if err != nil {
			return Command{}, err
		}
		cmd.N, cmd.HasN = n, true

	case OpPop, OpClear, OpCancel:
		if len(args) != 0 {
			return Command{}, fmt.Errorf("%s takes no arguments", op)
		}

	case OpDelete:
		switch {
		case len(args) == 0:
		case len(args) == 1 && strings.EqualFold(args[0], "confirm"):
			cmd.Confirm = true
		default:
			return Command{}, errors.New("delete takes an optional \"confirm\"")
		}

	case OpColor:
		if len(args) != 2 {
			return Command{}, errors.New("color expects a layer and a colour")
		}
		l, err := parseLayer(args[0])
		if err != nil {
			return Command{}, err
		}
		c, err := canvas.ParseColor(args[1])
		if err != nil {
			return Command{}, err
		}
		cmd.Layer, cmd.Color = l, c

	case OpWait:
		if len(args) != 1 {
			return Command{}, errors.New("wait expects a duration")
		}
		d, err := time.ParseDuration(args[0])
		if err != nil {
			return Command{}, fmt.Errorf("invalid wait duration %q: %w", args[0], err)
		}
		if d < 0 {
			return Command{}, errors.New("wait duration must not be negative")
		}
		cmd.Delay = d

	default:
		return Command{}, fmt.Errorf("%w: %q", errs.ErrUnknownCommand, fields[0])
	}
	return cmd, nil
}

func intArg(op Op, args []string) (int, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("%s expects one integer argument", op)
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("%s: invalid integer %q", op, args[0])
	}
	return n, nil
}

var layerNames = map[string]markbar.Layer{
	"background": markbar.LayerBackground,
	"bg":         markbar.LayerBackground,
	"minmask":    markbar.LayerMinMask,
	"min_mask":   markbar.LayerMinMask,
	"progress":   markbar.LayerProgress,
	"confirm":    markbar.LayerConfirm,
	"split":      markbar.LayerSplit,
}

func parseLayer(s string) (markbar.Layer, error) {
	l, ok := layerNames[strings.ToLower(s)]
	if !ok {
		return 0, fmt.Errorf("unknown layer %q", s)
	}
	return l, nil
}
