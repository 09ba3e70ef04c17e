package snake

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opd-ai/go-snake/pkg/grid"
)

// grown returns a snake heading dir whose body is exactly cells (head first).
func grown(t *testing.T, dir grid.Direction, cells ...grid.Position) *Snake {
	t.Helper()
	require.NotEmpty(t, cells)
	s := New(cells[0], dir)
	s.body = append([]grid.Position(nil), cells...)
	return s
}

func TestNew_SingleCellBody(t *testing.T) {
	for _, size := range []int{3, 5, 10, 42} {
		g, err := grid.New(size, size)
		require.NoError(t, err)

		s := New(g.Center(), grid.Right)
		assert.Equal(t, 1, s.Len())
		assert.True(t, g.Contains(s.Head()))
		assert.Equal(t, s.Head(), s.Tail())
		assert.Equal(t, grid.Right, s.Direction())
		assert.Equal(t, grid.Right, s.PendingDirection())
	}
}

func TestSnake_Advance_MovesHeadOneCell(t *testing.T) {
	tests := []struct {
		dir  grid.Direction
		want grid.Position
	}{
		{grid.Up, grid.Pos(10, 9)},
		{grid.Down, grid.Pos(10, 11)},
		{grid.Left, grid.Pos(9, 10)},
		{grid.Right, grid.Pos(11, 10)},
	}

	for _, tt := range tests {
		t.Run(tt.dir.String(), func(t *testing.T) {
			s := New(grid.Pos(10, 10), tt.dir)
			head := s.Advance()
			assert.Equal(t, tt.want, head)
			assert.Equal(t, tt.want, s.Head())
			assert.Equal(t, 1, s.Len())
		})
	}
}

func TestSnake_Advance_KeepsLengthAndFollowsHead(t *testing.T) {
	s := grown(t, grid.Right, grid.Pos(5, 5), grid.Pos(4, 5), grid.Pos(3, 5))

	s.SetDirection(grid.Down)
	s.Advance()

	assert.Equal(t, []grid.Position{grid.Pos(5, 6), grid.Pos(5, 5), grid.Pos(4, 5)}, s.Body())
	assert.Equal(t, grid.Down, s.Direction())
}

func TestSnake_SetDirection_ReversalIgnoredWhenLong(t *testing.T) {
	s := grown(t, grid.Right, grid.Pos(5, 5), grid.Pos(4, 5))

	s.SetDirection(grid.Left)
	assert.Equal(t, grid.Right, s.PendingDirection())

	s.Advance()
	assert.Equal(t, grid.Pos(6, 5), s.Head())
}

func TestSnake_SetDirection_ReversalAcceptedWhenSingleCell(t *testing.T) {
	s := New(grid.Pos(5, 5), grid.Right)

	s.SetDirection(grid.Left)
	assert.Equal(t, grid.Left, s.PendingDirection())
	assert.Equal(t, grid.Pos(4, 5), s.Advance())
}

func TestSnake_SetDirection_ChecksAgainstAppliedDirection(t *testing.T) {
	s := grown(t, grid.Right, grid.Pos(5, 5), grid.Pos(4, 5))

	// Up then Left within one tick must not turn the snake back onto itself.
	s.SetDirection(grid.Up)
	s.SetDirection(grid.Left)
	assert.Equal(t, grid.Up, s.PendingDirection())

	s.Advance()
	assert.Equal(t, grid.Pos(5, 4), s.Head())

	s.SetDirection(grid.Left)
	assert.Equal(t, grid.Left, s.PendingDirection())
}

func TestSnake_SetDirection_PerpendicularAndSameAlwaysLegal(t *testing.T) {
	s := grown(t, grid.Up, grid.Pos(5, 5), grid.Pos(5, 6))

	for _, d := range []grid.Direction{grid.Left, grid.Right, grid.Up} {
		s.SetDirection(d)
		assert.Equal(t, d, s.PendingDirection())
	}
	s.SetDirection(grid.Direction(99))
	assert.Equal(t, grid.Up, s.PendingDirection())
}

func TestSnake_Grow_RetainsTailForOneAdvance(t *testing.T) {
	s := grown(t, grid.Right, grid.Pos(5, 5), grid.Pos(4, 5))
	before := s.Body()

	s.Grow()
	s.Grow()
	require.True(t, s.Growing())
	s.Advance()

	assert.Equal(t, 3, s.Len())
	assert.Equal(t, before, s.Body()[1:], "no existing cell is lost")
	assert.False(t, s.Growing())

	s.Advance()
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, []grid.Position{grid.Pos(7, 5), grid.Pos(6, 5), grid.Pos(5, 5)}, s.Body())
}

func TestSnake_Grow_SingleCell(t *testing.T) {
	s := New(grid.Pos(3, 2), grid.Right)
	s.Grow()
	s.Advance()
	assert.Equal(t, []grid.Position{grid.Pos(4, 2), grid.Pos(3, 2)}, s.Body())
}

func TestSnake_HitsItself(t *testing.T) {
	// A hook shape: moving Up from (2,2) lands on (2,1), which is body.
	s := grown(t, grid.Left,
		grid.Pos(2, 2), grid.Pos(3, 2), grid.Pos(3, 1), grid.Pos(2, 1), grid.Pos(1, 1))
	assert.False(t, s.HitsItself())

	s.SetDirection(grid.Up)
	s.Advance()
	assert.True(t, s.HitsItself())
}

func TestSnake_HitsItself_TailVacatesCell(t *testing.T) {
	// A 2x2 loop: the head enters the cell the tail is leaving in the same advance.
	s := grown(t, grid.Up, grid.Pos(1, 1), grid.Pos(1, 2), grid.Pos(2, 2), grid.Pos(2, 1))
	s.SetDirection(grid.Right)
	s.Advance()
	assert.Equal(t, grid.Pos(2, 1), s.Head())
	assert.False(t, s.HitsItself())
}

func TestSnake_Body_IsACopy(t *testing.T) {
	s := New(grid.Pos(1, 1), grid.Right)
	body := s.Body()
	body[0] = grid.Pos(9, 9)
	assert.Equal(t, grid.Pos(1, 1), s.Head())
}

func TestSnake_OccupiesAndCells(t *testing.T) {
	s := grown(t, grid.Right, grid.Pos(2, 0), grid.Pos(1, 0), grid.Pos(0, 0))
	assert.True(t, s.Occupies(grid.Pos(1, 0)))
	assert.False(t, s.Occupies(grid.Pos(3, 0)))

	cells := s.Cells()
	assert.Equal(t, 3, cells.Size())
	assert.True(t, cells.Has(grid.Pos(0, 0)))
}
