// Package snake holds the player's body and its movement and growth rules.
package snake

import (
	"github.com/zyedidia/generic/mapset"

	"github.com/opd-ai/go-snake/pkg/grid"
)

// Snake is an ordered body of cells, head first.
type Snake struct {
	body      []grid.Position
	direction grid.Direction
	pending   grid.Direction
	grow      bool
}

// New creates a one-cell snake at start heading in dir.
func New(start grid.Position, dir grid.Direction) *Snake {
	return &Snake{
		body:      []grid.Position{start},
		direction: dir,
		pending:   dir,
	}
}

// Direction returns the direction used by the last advance.
func (s *Snake) Direction() grid.Direction {
	return s.direction
}

// PendingDirection returns the direction the next advance will use.
func (s *Snake) PendingDirection() grid.Direction {
	return s.pending
}

// SetDirection requests a new heading for the next advance. Reversing onto
// the body is silently ignored once the snake is longer than one cell.
func (s *Snake) SetDirection(d grid.Direction) {
	if !d.Valid() {
		return
	}
	if len(s.body) > 1 && d.IsOpposite(s.direction) {
		return
	}
	s.pending = d
}

// Advance moves the head one cell along the pending direction and returns
// the new head. The tail is kept when Grow was called since the last advance.
// Bounds are not checked here.
func (s *Snake) Advance() grid.Position {
	s.direction = s.pending
	head := s.body[0].Step(s.direction)

	if s.grow {
		s.body = append(s.body, grid.Position{})
		s.grow = false
	}
	copy(s.body[1:], s.body[:len(s.body)-1])
	s.body[0] = head
	return head
}

// Grow keeps the tail on the next advance. Calling it twice before an
// advance has the same effect as once.
func (s *Snake) Grow() {
	s.grow = true
}

// Growing reports whether the next advance will keep the tail.
func (s *Snake) Growing() bool {
	return s.grow
}

// Head returns the front cell.
func (s *Snake) Head() grid.Position {
	return s.body[0]
}

// Tail returns the back cell.
func (s *Snake) Tail() grid.Position {
	return s.body[len(s.body)-1]
}

// Len returns the number of body cells.
func (s *Snake) Len() int {
	return len(s.body)
}

// Body returns a copy of the body, head first.
func (s *Snake) Body() []grid.Position {
	body := make([]grid.Position, len(s.body))
	copy(body, s.body)
	return body
}

// Occupies reports whether any body cell equals p.
func (s *Snake) Occupies(p grid.Position) bool {
	for _, cell := range s.body {
		if cell == p {
			return true
		}
	}
	return false
}

// HitsItself reports whether the head shares a cell with the rest of the body.
func (s *Snake) HitsItself() bool {
	head := s.body[0]
	for _, cell := range s.body[1:] {
		if cell == head {
			return true
		}
	}
	return false
}

// Cells returns the body as a set.
func (s *Snake) Cells() mapset.Set[grid.Position] {
	return mapset.Of(s.body...)
}
