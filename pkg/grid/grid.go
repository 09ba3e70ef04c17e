// Package grid defines the fixed-size board every snake and entity lives on,
// along with the Position and Direction value types used throughout the engine.
package grid

import (
	"errors"

	"github.com/samber/oops"
	"github.com/zyedidia/generic/mapset"
)

var (
	// ErrGridFull is returned when no unoccupied cell is left for placement.
	ErrGridFull = errors.New("grid full")
	// ErrInvalidSize is returned for grids that cannot hold a game.
	ErrInvalidSize = errors.New("invalid grid size")
)

// Grid bounds the coordinate space [0, Cols) x [0, Rows).
type Grid struct {
	cols int
	rows int
}

// New creates a grid. Both dimensions must be positive and the grid must have
// at least two cells.
func New(cols, rows int) (Grid, error) {
	if cols <= 0 || rows <= 0 || cols*rows < 2 {
		return Grid{}, oops.
			Code("invalid_grid_size").
			In("grid").
			With("cols", cols, "rows", rows).
			Wrapf(ErrInvalidSize, "grid %dx%d", cols, rows)
	}
	return Grid{cols: cols, rows: rows}, nil
}

// Cols returns the number of columns.
func (g Grid) Cols() int { return g.cols }

// Rows returns the number of rows.
func (g Grid) Rows() int { return g.rows }

// Size returns the total number of cells.
func (g Grid) Size() int { return g.cols * g.rows }

// Contains reports whether p lies inside the grid.
func (g Grid) Contains(p Position) bool {
	return p.X >= 0 && p.X < g.cols && p.Y >= 0 && p.Y < g.rows
}

// Center returns the middle cell, rounding down.
func (g Grid) Center() Position {
	return Position{X: g.cols / 2, Y: g.rows / 2}
}

// Cells returns every cell in row-major order.
func (g Grid) Cells() []Position {
	cells := make([]Position, 0, g.Size())
	for y := 0; y < g.rows; y++ {
		for x := 0; x < g.cols; x++ {
			cells = append(cells, Position{X: x, Y: y})
		}
	}
	return cells
}

// FreeCells returns the cells not present in exclude, in row-major order.
func (g Grid) FreeCells(exclude mapset.Set[Position]) []Position {
	free := make([]Position, 0, g.Size())
	for _, p := range g.Cells() {
		if exclude.Has(p) {
			continue
		}
		free = append(free, p)
	}
	return free
}

// RandomPosition picks a uniformly random cell that is not in exclude.
// The free cells are computed up front so a full grid is reported with
// ErrGridFull instead of retrying forever.
func (g Grid) RandomPosition(rng Rand, exclude mapset.Set[Position]) (Position, error) {
	free := g.FreeCells(exclude)
	if len(free) == 0 {
		return Position{}, oops.
			Code("grid_full").
			In("grid").
			With("cols", g.cols, "rows", g.rows, "excluded", exclude.Size()).
			Wrap(ErrGridFull)
	}
	return free[rng.IntN(len(free))], nil
}
