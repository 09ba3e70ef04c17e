// pkg/render/engo/renderer.go
package engo

import (
	"image/color"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-snake/pkg/entity"
	"github.com/opd-ai/go-snake/pkg/grid"
)

// Palette holds the colors of each kind of cell.
type Palette struct {
	Background color.Color
	Head       color.Color
	Body       color.Color
	Unknown    color.Color
	Entities   map[entity.Kind]color.Color
}

// DefaultPalette returns green snake, red apples on black.
func DefaultPalette() Palette {
	return Palette{
		Background: color.RGBA{16, 16, 16, 255},
		Head:       color.RGBA{120, 255, 120, 255},
		Body:       color.RGBA{0, 180, 0, 255},
		Unknown:    color.RGBA{255, 255, 0, 255},
		Entities: map[entity.Kind]color.Color{
			entity.KindApple: color.RGBA{220, 30, 30, 255},
		},
	}
}

// cellEntity is one grid cell drawn as a filled rectangle.
type cellEntity struct {
	ecs.BasicEntity
	common.RenderComponent
	common.SpaceComponent
}

// EngoRenderer implements render.Renderer with one rectangle per grid
// cell. Drawing only changes colors; Present pushes them to the cells.
type EngoRenderer struct {
	cols     int
	rows     int
	cellSize float32
	palette  Palette
	colors   [][]color.Color
	cells    [][]*cellEntity
}

// NewEngoRenderer creates the cell entities for a cols x rows board.
func NewEngoRenderer(cols, rows int, cellSize float32, palette Palette) *EngoRenderer {
	r := &EngoRenderer{
		cols:     cols,
		rows:     rows,
		cellSize: cellSize,
		palette:  palette,
		colors:   make([][]color.Color, rows),
		cells:    make([][]*cellEntity, rows),
	}

	for y := 0; y < rows; y++ {
		r.colors[y] = make([]color.Color, cols)
		r.cells[y] = make([]*cellEntity, cols)
		for x := 0; x < cols; x++ {
			r.cells[y][x] = &cellEntity{
				BasicEntity: ecs.NewBasic(),
				RenderComponent: common.RenderComponent{
					Drawable: common.Rectangle{},
					Color:    palette.Background,
				},
				SpaceComponent: common.SpaceComponent{
					Position: engo.Point{X: float32(x) * cellSize, Y: float32(y) * cellSize},
					Width:    cellSize - 1,
					Height:   cellSize - 1,
				},
			}
		}
	}
	r.Clear()
	return r
}

// AddTo registers every cell with the render system.
func (r *EngoRenderer) AddTo(rs *common.RenderSystem) {
	for _, row := range r.cells {
		for _, c := range row {
			rs.Add(&c.BasicEntity, &c.RenderComponent, &c.SpaceComponent)
		}
	}
}

// Clear implements render.Renderer
func (r *EngoRenderer) Clear() {
	for y := range r.colors {
		for x := range r.colors[y] {
			r.colors[y][x] = r.palette.Background
		}
	}
}

// RenderSnake implements render.Renderer
func (r *EngoRenderer) RenderSnake(body []grid.Position, _ grid.Direction) {
	for i := len(body) - 1; i > 0; i-- {
		r.set(body[i], r.palette.Body)
	}
	if len(body) > 0 {
		r.set(body[0], r.palette.Head)
	}
}

// RenderEntity implements render.Renderer
func (r *EngoRenderer) RenderEntity(e entity.Entity) {
	c, ok := r.palette.Entities[e.Kind()]
	if !ok {
		c = r.palette.Unknown
	}
	r.set(e.Position(), c)
}

// Present implements render.Renderer
func (r *EngoRenderer) Present() {
	for y, row := range r.cells {
		for x, c := range row {
			c.RenderComponent.Color = r.colors[y][x]
		}
	}
}

// Color returns the color drawn at (x, y) by the last frame.
func (r *EngoRenderer) Color(x, y int) color.Color {
	if x < 0 || x >= r.cols || y < 0 || y >= r.rows {
		return r.palette.Background
	}
	return r.cells[y][x].RenderComponent.Color
}

// Size returns the board size in pixels.
func (r *EngoRenderer) Size() (width, height float32) {
	return float32(r.cols) * r.cellSize, float32(r.rows) * r.cellSize
}

func (r *EngoRenderer) set(p grid.Position, c color.Color) {
	if p.X >= 0 && p.X < r.cols && p.Y >= 0 && p.Y < r.rows {
		r.colors[p.Y][p.X] = c
	}
}
