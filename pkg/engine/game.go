// pkg/engine/game.go
package engine

import (
	"context"
	"errors"

	"github.com/samber/oops"

	"github.com/opd-ai/go-snake/pkg/entity"
	"github.com/opd-ai/go-snake/pkg/grid"
	"github.com/opd-ai/go-snake/pkg/logging"
	"github.com/opd-ai/go-snake/pkg/snake"
)

// ErrStartOutOfBounds is returned when the snake would start outside the grid.
var ErrStartOutOfBounds = errors.New("start position out of bounds")

// Game composes the grid, the snake and the entity registry. It exposes one
// tick as separate calls (Advance, CheckCollisions, CheckEntityCollision) so
// the caller can render between them and decide when the game is over; Game
// itself never stops.
type Game struct {
	grid     grid.Grid
	snake    *snake.Snake
	entities *entity.Registry
	logger   *logging.Logger
}

type gameOptions struct {
	direction grid.Direction
	start     *grid.Position
	rng       grid.Rand
	logger    *logging.Logger
}

// Option configures NewGame
type Option func(*gameOptions)

// WithDirection sets the initial heading. The default is Right.
func WithDirection(d grid.Direction) Option {
	return func(o *gameOptions) { o.direction = d }
}

// WithStart sets the initial head cell. The default is the grid center.
func WithStart(p grid.Position) Option {
	return func(o *gameOptions) { o.start = &p }
}

// WithRand sets the source used for entity placement.
func WithRand(r grid.Rand) Option {
	return func(o *gameOptions) { o.rng = r }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *logging.Logger) Option {
	return func(o *gameOptions) { o.logger = l }
}

// NewGame creates a game on a cols x rows grid with a one-cell snake.
func NewGame(cols, rows int, opts ...Option) (*Game, error) {
	o := gameOptions{direction: grid.Right}
	for _, opt := range opts {
		opt(&o)
	}
	if o.rng == nil {
		o.rng = grid.DefaultRand()
	}
	if o.logger == nil {
		o.logger = logging.NewNop()
	}

	g, err := grid.New(cols, rows)
	if err != nil {
		return nil, oops.In("engine").Wrapf(err, "create game")
	}

	start := g.Center()
	if o.start != nil {
		start = *o.start
	}
	if !g.Contains(start) {
		return nil, oops.
			Code("start_out_of_bounds").
			In("engine").
			With("start", start.String(), "cols", cols, "rows", rows).
			Wrap(ErrStartOutOfBounds)
	}
	if !o.direction.Valid() {
		o.direction = grid.Right
	}

	return &Game{
		grid:     g,
		snake:    snake.New(start, o.direction),
		entities: entity.NewRegistry(g, o.rng),
		logger:   o.logger.WithComponent("game"),
	}, nil
}

// SetDirection requests a heading for the next Advance. A direct reversal of
// a snake longer than one cell is ignored.
func (g *Game) SetDirection(d grid.Direction) {
	g.snake.SetDirection(d)
}

// Advance moves the snake one cell and returns the new head. The head may
// leave the grid; CheckCollisions reports it.
func (g *Game) Advance() grid.Position {
	return g.snake.Advance()
}

// CheckCollisions reports whether the head is outside the grid or on the
// snake's own body.
func (g *Game) CheckCollisions() bool {
	return !g.grid.Contains(g.snake.Head()) || g.snake.HitsItself()
}

// OutOfBounds reports whether the head has left the grid.
func (g *Game) OutOfBounds() bool {
	return !g.grid.Contains(g.snake.Head())
}

// CheckEntityCollision removes and returns the entity under the head, if any,
// and makes the snake grow on its next advance.
func (g *Game) CheckEntityCollision() (entity.Entity, bool) {
	e, ok := g.entities.At(g.snake.Head())
	if !ok {
		return nil, false
	}
	g.entities.Remove(e.ID())
	g.snake.Grow()

	g.logger.Debug(context.Background(), "Entity consumed",
		"entity_id", e.ID(),
		"kind", string(e.Kind()),
		"position", e.Position().String(),
		"length", g.snake.Len())
	return e, true
}

// GenerateEntity builds an entity with ctor on a random free cell. It returns
// an error wrapping grid.ErrGridFull when the snake and the existing entities
// cover the whole grid.
func (g *Game) GenerateEntity(ctor entity.Constructor) (entity.Entity, error) {
	e, err := g.entities.Generate(ctor, g.snake.Body())
	if err != nil {
		return nil, err
	}
	g.logger.Debug(context.Background(), "Entity generated",
		"entity_id", e.ID(),
		"kind", string(e.Kind()),
		"position", e.Position().String())
	return e, nil
}

// PlaceEntity adds e at its own position, which must be inside the grid and
// free of both the snake and other entities.
func (g *Game) PlaceEntity(e entity.Entity) error {
	if g.snake.Occupies(e.Position()) {
		return oops.
			Code("cell_occupied").
			In("engine").
			With("entity_id", e.ID(), "position", e.Position().String()).
			Wrapf(entity.ErrCellOccupied, "cell is under the snake")
	}
	return g.entities.Place(e)
}

// RemoveEntity deletes an entity without the snake touching it.
func (g *Game) RemoveEntity(id uint64) (entity.Entity, bool) {
	return g.entities.Remove(id)
}

// Dimensions returns the grid size.
func (g *Game) Dimensions() (cols, rows int) {
	return g.grid.Cols(), g.grid.Rows()
}

// Grid returns the board.
func (g *Game) Grid() grid.Grid {
	return g.grid
}

// Head returns the snake's head cell.
func (g *Game) Head() grid.Position {
	return g.snake.Head()
}

// Body returns a copy of the snake body, head first.
func (g *Game) Body() []grid.Position {
	return g.snake.Body()
}

// Direction returns the heading used by the last advance.
func (g *Game) Direction() grid.Direction {
	return g.snake.Direction()
}

// Len returns the snake length.
func (g *Game) Len() int {
	return g.snake.Len()
}

// Entities returns the entities on the board in placement order.
func (g *Game) Entities() []entity.Entity {
	return g.entities.All()
}

// FreeCells returns how many cells are covered by neither the snake nor an entity.
func (g *Game) FreeCells() int {
	taken := g.entities.Occupied()
	for _, p := range g.snake.Body() {
		if g.grid.Contains(p) {
			taken.Put(p)
		}
	}
	return g.grid.Size() - taken.Size()
}

// Snapshot is a read-only copy of the board for renderers.
type Snapshot struct {
	Cols      int
	Rows      int
	Body      []grid.Position
	Direction grid.Direction
	Entities  []entity.Entity
}

// Snapshot copies the current board state.
func (g *Game) Snapshot() Snapshot {
	return Snapshot{
		Cols:      g.grid.Cols(),
		Rows:      g.grid.Rows(),
		Body:      g.snake.Body(),
		Direction: g.snake.Direction(),
		Entities:  g.entities.All(),
	}
}
