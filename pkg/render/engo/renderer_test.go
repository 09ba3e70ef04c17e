// pkg/render/engo/renderer_test.go
package engo

import (
	"context"
	"image/color"
	"testing"

	"github.com/opd-ai/go-snake/pkg/config"
	"github.com/opd-ai/go-snake/pkg/engine"
	"github.com/opd-ai/go-snake/pkg/entity"
	"github.com/opd-ai/go-snake/pkg/grid"
	"github.com/opd-ai/go-snake/pkg/grid/gridtest"
	"github.com/opd-ai/go-snake/pkg/render"
)

type wall struct {
	entity.Base
}

func (w *wall) Kind() entity.Kind { return "wall" }

func TestNewEngoRenderer_CellLayout(t *testing.T) {
	r := NewEngoRenderer(4, 3, 10, DefaultPalette())

	if len(r.cells) != 3 || len(r.cells[0]) != 4 {
		t.Fatalf("expected 3 rows of 4 cells, got %d rows", len(r.cells))
	}
	c := r.cells[2][3]
	if c.SpaceComponent.Position.X != 30 || c.SpaceComponent.Position.Y != 20 {
		t.Errorf("expected cell (3,2) at (30,20), got %v", c.SpaceComponent.Position)
	}
	if w, h := r.Size(); w != 40 || h != 30 {
		t.Errorf("expected 40x30 pixels, got %vx%v", w, h)
	}
}

func TestEngoRenderer_Frame(t *testing.T) {
	p := DefaultPalette()
	r := NewEngoRenderer(5, 5, 10, p)

	render.Frame(r, engine.Snapshot{
		Cols:      5,
		Rows:      5,
		Body:      []grid.Position{{X: 2, Y: 2}, {X: 1, Y: 2}, {X: -1, Y: 2}},
		Direction: grid.Right,
		Entities: []entity.Entity{
			entity.NewApple(grid.Pos(4, 4)),
			&wall{Base: entity.NewBase(grid.Pos(0, 0))},
		},
	})

	tests := []struct {
		name string
		x, y int
		want color.Color
	}{
		{"head", 2, 2, p.Head},
		{"body", 1, 2, p.Body},
		{"apple", 4, 4, p.Entities[entity.KindApple]},
		{"unknown kind", 0, 0, p.Unknown},
		{"empty", 3, 3, p.Background},
		{"outside", 7, 7, p.Background},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Color(tt.x, tt.y); got != tt.want {
				t.Errorf("cell (%d,%d): expected %v, got %v", tt.x, tt.y, tt.want, got)
			}
		})
	}
}

func TestEngoRenderer_PresentIsRequired(t *testing.T) {
	p := DefaultPalette()
	r := NewEngoRenderer(2, 2, 10, p)

	r.RenderSnake([]grid.Position{{X: 0, Y: 0}}, grid.Up)
	if got := r.Color(0, 0); got != p.Background {
		t.Errorf("cells should keep the old color until Present, got %v", got)
	}
	r.Present()
	if got := r.Color(0, 0); got != p.Head {
		t.Errorf("expected head color after Present, got %v", got)
	}
}

func newTestDriver(t *testing.T) *render.Driver {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Grid = config.GridConfig{Cols: 5, Rows: 5}
	s, err := engine.NewSession(context.Background(), cfg, engine.WithSessionRand(gridtest.Last{}))
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}
	return render.NewDriver(s, nil)
}

func TestGameScene_Type(t *testing.T) {
	scene := NewGameScene(context.Background(), newTestDriver(t), nil, DefaultCellSize)
	if scene.Type() != "GameScene" {
		t.Errorf("expected GameScene, got %q", scene.Type())
	}
}

func TestGameScene_UpdateDrawsBoard(t *testing.T) {
	scene := NewGameScene(context.Background(), newTestDriver(t), nil, DefaultCellSize)
	scene.update(0)

	p := DefaultPalette()
	if got := scene.renderer.Color(2, 2); got != p.Head {
		t.Errorf("expected head at the center, got %v", got)
	}
	if got := scene.renderer.Color(4, 4); got != p.Entities[entity.KindApple] {
		t.Errorf("expected apple in the last cell, got %v", got)
	}
}
