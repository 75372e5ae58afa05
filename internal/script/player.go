package script

import (
	"context"
	"time"
)

// Player replays commands, honouring waits. It does not touch a bar itself:
// each non-wait command is handed to the step callback, so the caller can
// route it into whichever context owns the bar.
type Player struct {
	cmds  []Command
	sleep func(ctx context.Context, d time.Duration) error
}

// NewPlayer creates a player for cmds.
func NewPlayer(cmds []Command) *Player {
	return &Player{cmds: cmds, sleep: sleepContext}
}

// Len returns the number of commands, waits included.
func (p *Player) Len() int {
	return len(p.cmds)
}

// Play runs the script to completion or until ctx is done.
func (p *Player) Play(ctx context.Context, step func(Command)) error {
	for _, c := range p.cmds {
		if err := ctx.Err(); err != nil {
			return err
		}
		if c.Op == OpWait {
			if err := p.sleep(ctx, c.Delay); err != nil {
				return err
			}
			continue
		}
		step(c)
	}
	return nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
