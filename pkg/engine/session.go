// pkg/engine/session.go
package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/samber/oops"

	"github.com/opd-ai/go-snake/pkg/config"
	"github.com/opd-ai/go-snake/pkg/entity"
	"github.com/opd-ai/go-snake/pkg/event"
	"github.com/opd-ai/go-snake/pkg/grid"
	"github.com/opd-ai/go-snake/pkg/logging"
)

var (
	// ErrInvalidTransition is returned by SetState for a forbidden state change.
	ErrInvalidTransition = errors.New("invalid state transition")
	// ErrGameOver is returned by an entity handler to end the session.
	ErrGameOver = errors.New("game over")
	// ErrNotPlaying is returned by Step outside the Playing state.
	ErrNotPlaying = errors.New("session is not playing")
)

// State is the lifecycle state of a session
type State int

const (
	StateNew State = iota
	StatePlaying
	StatePaused
	StateEnded
)

func (s State) String() string {
	switch s {
	case StateNew:
		return "new"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateEnded:
		return "ended"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// StepResult describes one tick.
type StepResult struct {
	Head     grid.Position
	Consumed entity.Entity // nil when nothing was eaten
	Ended    bool
	Reason   event.EndReason
}

type sessionOptions struct {
	logger *logging.Logger
	bus    *event.Bus
	rng    grid.Rand
}

// SessionOption configures NewSession
type SessionOption func(*sessionOptions)

// WithSessionLogger sets the session logger.
func WithSessionLogger(l *logging.Logger) SessionOption {
	return func(o *sessionOptions) { o.logger = l }
}

// WithEventBus publishes session events on bus. Restart keeps the same bus.
func WithEventBus(bus *event.Bus) SessionOption {
	return func(o *sessionOptions) { o.bus = bus }
}

// WithSessionRand overrides the random source derived from the config seed.
func WithSessionRand(r grid.Rand) SessionOption {
	return func(o *sessionOptions) { o.rng = r }
}

// Session drives a Game through one playthrough: it owns the score, the
// tick interval and the reaction to each entity kind. Front-ends call Step
// every TickInterval while the session is Playing.
type Session struct {
	id         string
	config     *config.GameConfig
	opts       sessionOptions
	game       *Game
	dispatcher *entity.Dispatcher
	bus        *event.Bus
	logger     *logging.Logger

	state     State
	score     int
	interval  time.Duration
	endReason event.EndReason
	steps     uint64
}

// NewSession builds a session from cfg and fills the board with apples.
func NewSession(ctx context.Context, cfg *config.GameConfig, opts ...SessionOption) (*Session, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := sessionOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = logging.NewNop()
	}
	if o.bus == nil {
		o.bus = event.NewEventBus()
	}

	if o.rng == nil {
		if cfg.Seed != 0 {
			o.rng = grid.NewRand(cfg.Seed)
		} else {
			o.rng = grid.DefaultRand()
		}
	}
	rng := o.rng

	id := uuid.NewString()
	logger := o.logger.WithComponent("session").With("session_id", id)

	gameOpts := []Option{
		WithDirection(cfg.Direction()),
		WithRand(rng),
		WithLogger(o.logger),
	}
	if start, ok := cfg.StartPosition(); ok {
		gameOpts = append(gameOpts, WithStart(start))
	}
	game, err := NewGame(cfg.Grid.Cols, cfg.Grid.Rows, gameOpts...)
	if err != nil {
		return nil, err
	}

	s := &Session{
		id:         id,
		config:     cfg,
		opts:       o,
		game:       game,
		dispatcher: entity.NewDispatcher(),
		bus:        o.bus,
		logger:     logger,
		state:      StateNew,
		interval:   cfg.Speed.Initial,
	}
	s.dispatcher.Register(entity.KindApple, s.eatApple)

	if err := s.refill(ctx); err != nil && !errors.Is(err, grid.ErrGridFull) {
		return nil, err
	}

	s.logger.Info(ctx, "Session created",
		"cols", cfg.Grid.Cols,
		"rows", cfg.Grid.Rows,
		"head", game.Head().String(),
		"direction", game.Direction().String())
	return s, nil
}

// ID returns the session's unique identifier.
func (s *Session) ID() string { return s.id }

// Game returns the underlying game.
func (s *Session) Game() *Game { return s.game }

// State returns the current state.
func (s *Session) State() State { return s.state }

// Score returns the points collected so far.
func (s *Session) Score() int { return s.score }

// TickInterval returns how long a front-end should wait between steps.
func (s *Session) TickInterval() time.Duration { return s.interval }

// EndReason returns why the session ended, or "" while it is still running.
func (s *Session) EndReason() event.EndReason { return s.endReason }

// Steps returns the number of ticks played.
func (s *Session) Steps() uint64 { return s.steps }

// Bus returns the event bus the session publishes on.
func (s *Session) Bus() *event.Bus { return s.bus }

// Snapshot copies the board for rendering.
func (s *Session) Snapshot() Snapshot { return s.game.Snapshot() }

// RegisterHandler sets the behavior applied when the snake eats an entity
// of the given kind. A handler returning ErrGameOver ends the session.
// Registering KindApple replaces the default scoring.
func (s *Session) RegisterHandler(kind entity.Kind, h entity.Handler) {
	s.dispatcher.Register(kind, h)
}

// AddScore adds delta points and publishes a ScoreChanged event. Handlers
// for custom entities use it to award points.
func (s *Session) AddScore(delta int) {
	s.score += delta
	s.bus.Publish(event.NewScoreEvent(s, s.score, delta))
}

// SetDirection forwards a steering request to the game.
func (s *Session) SetDirection(d grid.Direction) {
	s.game.SetDirection(d)
}

// SetState moves the session to next. Returning to New, leaving Ended and
// setting the current state again are rejected with ErrInvalidTransition.
func (s *Session) SetState(ctx context.Context, next State) error {
	if next == StateNew || s.state == StateEnded || next == s.state {
		return oops.
			Code("invalid_transition").
			In("engine").
			With("session_id", s.id, "from", s.state.String(), "to", next.String()).
			Wrap(ErrInvalidTransition)
	}
	if next == StateEnded {
		s.end(ctx, event.EndStopped)
		return nil
	}

	prev := s.state
	s.state = next

	switch {
	case next == StatePlaying && prev == StateNew:
		s.bus.Publish(&event.BaseEvent{EventType: event.GameStarted, Source: s})
	case next == StatePlaying:
		s.bus.Publish(&event.BaseEvent{EventType: event.GameResumed, Source: s})
	case next == StatePaused:
		s.bus.Publish(&event.BaseEvent{EventType: event.GamePaused, Source: s})
	}

	s.logger.Debug(ctx, "State changed", "from", prev.String(), "to", next.String())
	return nil
}

// Start begins play from the New state.
func (s *Session) Start(ctx context.Context) error {
	if s.state != StateNew {
		return oops.
			Code("invalid_transition").
			In("engine").
			With("session_id", s.id, "from", s.state.String()).
			Wrapf(ErrInvalidTransition, "session already started")
	}
	return s.SetState(ctx, StatePlaying)
}

// TogglePause switches between Playing and Paused.
func (s *Session) TogglePause(ctx context.Context) error {
	switch s.state {
	case StatePlaying:
		return s.SetState(ctx, StatePaused)
	case StatePaused:
		return s.SetState(ctx, StatePlaying)
	default:
		return s.notPlaying()
	}
}

// Stop ends the session without a collision.
func (s *Session) Stop(ctx context.Context) error {
	return s.SetState(ctx, StateEnded)
}

// Step plays one tick: advance, wall and self collision, entity collision,
// then refills the board with apples. A collision, a handler returning
// ErrGameOver or a board with no room left ends the session.
//
// Any other handler error is returned after the refill. The consumed entity
// is not restored, the snake still grows and the session keeps Playing.
func (s *Session) Step(ctx context.Context) (StepResult, error) {
	if s.state != StatePlaying {
		return StepResult{}, s.notPlaying()
	}

	s.steps++
	res := StepResult{Head: s.game.Advance()}
	var handlerErr error

	if s.game.CheckCollisions() {
		reason := event.EndSelf
		if s.game.OutOfBounds() {
			reason = event.EndWall
		}
		s.end(ctx, reason)
		res.Ended, res.Reason = true, reason
		return res, nil
	}

	if e, ok := s.game.CheckEntityCollision(); ok {
		res.Consumed = e
		s.bus.Publish(event.NewEntityEvent(event.EntityConsumed, s, e.ID(), string(e.Kind()), e.Position()))

		err := s.dispatcher.Dispatch(e)
		switch {
		case err == nil:
		case errors.Is(err, ErrGameOver):
			s.end(ctx, event.EndEntity)
			res.Ended, res.Reason = true, event.EndEntity
			return res, nil
		case errors.Is(err, entity.ErrNoHandler):
			s.logger.Warn(ctx, "No handler for entity", "kind", string(e.Kind()), "entity_id", e.ID())
		default:
			handlerErr = oops.
				In("engine").
				With("session_id", s.id, "kind", string(e.Kind()), "entity_id", e.ID()).
				Wrapf(err, "entity handler failed")
		}
	}

	if err := s.refill(ctx); err != nil {
		if !errors.Is(err, grid.ErrGridFull) {
			return res, errors.Join(handlerErr, err)
		}
		if s.apples() == 0 {
			s.end(ctx, event.EndBoard)
			res.Ended, res.Reason = true, event.EndBoard
		}
	}
	return res, handlerErr
}

// Restart returns a fresh session with the same configuration, options and
// event bus. The random source carries over, so a seeded game continues its
// sequence instead of replaying the first board. Handlers registered on s are
// not carried over.
func (s *Session) Restart(ctx context.Context) (*Session, error) {
	next, err := NewSession(ctx, s.config,
		WithSessionLogger(s.opts.logger),
		WithEventBus(s.opts.bus),
		WithSessionRand(s.opts.rng))
	if err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "Session restarted", "next_session_id", next.id, "final_score", s.score)
	return next, nil
}

func (s *Session) eatApple(entity.Entity) error {
	s.AddScore(s.config.Rules.AppleScore)
	if faster := s.interval - s.config.Speed.Step; faster >= s.config.Speed.Min {
		s.interval = faster
	} else {
		s.interval = s.config.Speed.Min
	}
	return nil
}

// refill tops the board up to the configured number of apples.
func (s *Session) refill(ctx context.Context) error {
	for n := s.apples(); n < s.config.Rules.Apples; n++ {
		e, err := s.game.GenerateEntity(entity.NewApple)
		if err != nil {
			return err
		}
		s.bus.Publish(event.NewEntityEvent(event.EntitySpawned, s, e.ID(), string(e.Kind()), e.Position()))
		s.logger.Debug(ctx, "Apple spawned", "position", e.Position().String())
	}
	return nil
}

func (s *Session) apples() int {
	n := 0
	for _, e := range s.game.Entities() {
		if e.Kind() == entity.KindApple {
			n++
		}
	}
	return n
}

func (s *Session) end(ctx context.Context, reason event.EndReason) {
	s.state = StateEnded
	s.endReason = reason
	s.bus.Publish(event.NewGameEndedEvent(s, s.score, reason, s.game.Head()))
	s.logger.Info(ctx, "Game over",
		"reason", string(reason),
		"score", s.score,
		"length", s.game.Len(),
		"steps", s.steps)
}

func (s *Session) notPlaying() error {
	return oops.
		Code("not_playing").
		In("engine").
		With("session_id", s.id, "state", s.state.String()).
		Wrap(ErrNotPlaying)
}
