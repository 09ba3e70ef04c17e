package render

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/opd-ai/go-snake/pkg/engine"
	"github.com/opd-ai/go-snake/pkg/grid"
	"github.com/opd-ai/go-snake/pkg/logging"
)

// Command is a player intent decoded from a front-end's input events.
type Command int

const (
	CommandNone Command = iota
	CommandUp
	CommandDown
	CommandLeft
	CommandRight
	CommandPause
	CommandRestart
	CommandQuit
)

// Direction returns the heading for a steering command.
func (c Command) Direction() (grid.Direction, bool) {
	switch c {
	case CommandUp:
		return grid.Up, true
	case CommandDown:
		return grid.Down, true
	case CommandLeft:
		return grid.Left, true
	case CommandRight:
		return grid.Right, true
	default:
		return 0, false
	}
}

// CommandForRune maps the letter keys shared by every front-end: WASD to
// steer, p to pause and r to restart.
func CommandForRune(ch rune) Command {
	switch ch {
	case 'w', 'W':
		return CommandUp
	case 's', 'S':
		return CommandDown
	case 'a', 'A':
		return CommandLeft
	case 'd', 'D':
		return CommandRight
	case 'p', 'P':
		return CommandPause
	case 'r', 'R':
		return CommandRestart
	default:
		return CommandNone
	}
}

// Driver runs a session on behalf of a front-end: it turns commands into
// session calls, paces ticks from frame deltas and swaps in a new session
// on restart.
type Driver struct {
	session *engine.Session
	logger  *logging.Logger
	elapsed time.Duration
}

// NewDriver wraps session.
func NewDriver(session *engine.Session, logger *logging.Logger) *Driver {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Driver{
		session: session,
		logger:  logger.WithComponent("driver"),
	}
}

// Session returns the current session.
func (d *Driver) Session() *engine.Session {
	return d.session
}

// Handle applies cmd. Steering starts a new session; restart only works
// once the session has ended. CommandQuit is left to the front-end.
func (d *Driver) Handle(ctx context.Context, cmd Command) error {
	if dir, ok := cmd.Direction(); ok {
		d.session.SetDirection(dir)
		if d.session.State() == engine.StateNew {
			return d.session.Start(ctx)
		}
		return nil
	}

	switch cmd {
	case CommandPause:
		err := d.session.TogglePause(ctx)
		if errors.Is(err, engine.ErrNotPlaying) {
			return nil
		}
		return err
	case CommandRestart:
		if d.session.State() != engine.StateEnded {
			return nil
		}
		next, err := d.session.Restart(ctx)
		if err != nil {
			return err
		}
		d.session = next
		d.elapsed = 0
		return d.session.Start(ctx)
	}
	return nil
}

// Advance adds dt to the time since the last tick and steps the session
// once for every full tick interval that has passed.
func (d *Driver) Advance(ctx context.Context, dt time.Duration) (int, error) {
	if d.session.State() != engine.StatePlaying {
		d.elapsed = 0
		return 0, nil
	}

	d.elapsed += dt
	steps := 0
	for d.session.State() == engine.StatePlaying && d.elapsed >= d.session.TickInterval() {
		d.elapsed -= d.session.TickInterval()
		res, err := d.session.Step(ctx)
		if err != nil {
			d.logger.Error(ctx, "Step failed", err)
			return steps, err
		}
		steps++
		if res.Ended {
			d.logger.Info(ctx, "Session ended",
				"reason", string(res.Reason),
				"score", d.session.Score())
		}
	}
	return steps, nil
}

// Status is a one-line summary for HUDs.
func (d *Driver) Status() string {
	s := d.session
	switch s.State() {
	case engine.StateNew:
		return "Score: 0 | steer to start"
	case engine.StatePaused:
		return fmtStatus(s, "paused, p to resume")
	case engine.StateEnded:
		return fmtStatus(s, "game over ("+string(s.EndReason())+"), r to restart")
	default:
		return fmtStatus(s, "playing")
	}
}

func fmtStatus(s *engine.Session, state string) string {
	return fmt.Sprintf("Score: %d | Length: %d | %s", s.Score(), s.Game().Len(), state)
}
