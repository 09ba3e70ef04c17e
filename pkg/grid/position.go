// pkg/grid/position.go
package grid

import "fmt"

// Position is a cell on the grid: X is the column, Y is the row.
// Positions outside the grid are valid values; Grid.Contains tells them apart.
type Position struct {
	X int
	Y int
}

// Pos is a shorthand constructor for Position.
func Pos(x, y int) Position {
	return Position{X: x, Y: y}
}

// Add returns the sum of two positions
func (p Position) Add(other Position) Position {
	return Position{
		X: p.X + other.X,
		Y: p.Y + other.Y,
	}
}

// Step returns the neighbouring position one cell along d.
func (p Position) Step(d Direction) Position {
	dx, dy := d.Delta()
	return Position{X: p.X + dx, Y: p.Y + dy}
}

// Manhattan returns the taxicab distance between two positions
func (p Position) Manhattan(other Position) int {
	dx := p.X - other.X
	dy := p.Y - other.Y
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

// String returns the position as "(x,y)".
func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}
