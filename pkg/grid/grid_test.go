package grid

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zyedidia/generic/mapset"

	"github.com/opd-ai/go-snake/pkg/grid/gridtest"
)

func TestNew_ValidatesDimensions(t *testing.T) {
	tests := []struct {
		name    string
		cols    int
		rows    int
		wantErr bool
	}{
		{name: "regular", cols: 10, rows: 8},
		{name: "two cells", cols: 2, rows: 1},
		{name: "single column", cols: 1, rows: 5},
		{name: "single cell", cols: 1, rows: 1, wantErr: true},
		{name: "zero cols", cols: 0, rows: 5, wantErr: true},
		{name: "negative rows", cols: 5, rows: -1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := New(tt.cols, tt.rows)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidSize))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.cols, g.Cols())
			assert.Equal(t, tt.rows, g.Rows())
			assert.Equal(t, tt.cols*tt.rows, g.Size())
		})
	}
}

func TestGrid_Contains_HalfOpenBounds(t *testing.T) {
	g, err := New(5, 4)
	require.NoError(t, err)

	tests := []struct {
		pos  Position
		want bool
	}{
		{Pos(0, 0), true},
		{Pos(4, 3), true},
		{Pos(2, 2), true},
		{Pos(5, 0), false},
		{Pos(0, 4), false},
		{Pos(-1, 0), false},
		{Pos(0, -1), false},
	}

	for _, tt := range tests {
		t.Run(tt.pos.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, g.Contains(tt.pos))
		})
	}
}

func TestGrid_Center(t *testing.T) {
	g, err := New(5, 5)
	require.NoError(t, err)
	assert.Equal(t, Pos(2, 2), g.Center())

	g, err = New(42, 24)
	require.NoError(t, err)
	assert.Equal(t, Pos(21, 12), g.Center())
}

func TestGrid_Cells_RowMajor(t *testing.T) {
	g, err := New(2, 2)
	require.NoError(t, err)
	assert.Equal(t, []Position{Pos(0, 0), Pos(1, 0), Pos(0, 1), Pos(1, 1)}, g.Cells())
}

func TestGrid_RandomPosition_SkipsExcludedCells(t *testing.T) {
	g, err := New(3, 3)
	require.NoError(t, err)

	exclude := mapset.Of(g.Cells()[:8]...)
	for i := 0; i < 5; i++ {
		p, err := g.RandomPosition(NewRand(uint64(i)), exclude)
		require.NoError(t, err)
		assert.Equal(t, Pos(2, 2), p)
	}
}

func TestGrid_RandomPosition_UsesInjectedSource(t *testing.T) {
	g, err := New(3, 2)
	require.NoError(t, err)

	rng := gridtest.NewSequence(4)
	p, err := g.RandomPosition(rng, mapset.New[Position]())
	require.NoError(t, err)
	assert.Equal(t, Pos(1, 1), p)
	assert.Equal(t, 1, rng.Calls())
}

func TestGrid_RandomPosition_GridFull(t *testing.T) {
	g, err := New(2, 2)
	require.NoError(t, err)

	rng := gridtest.NewSequence()
	_, err = g.RandomPosition(rng, mapset.Of(g.Cells()...))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrGridFull))
	assert.Zero(t, rng.Calls(), "a full grid must not consult the random source")
}

func TestGrid_RandomPosition_NilExcludeSet(t *testing.T) {
	g, err := New(4, 4)
	require.NoError(t, err)

	var exclude mapset.Set[Position]
	p, err := g.RandomPosition(gridtest.Last{}, exclude)
	require.NoError(t, err)
	assert.Equal(t, Pos(3, 3), p)
}
