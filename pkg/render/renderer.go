// pkg/render/renderer.go
package render

import (
	"context"

	"github.com/opd-ai/go-snake/pkg/engine"
	"github.com/opd-ai/go-snake/pkg/entity"
	"github.com/opd-ai/go-snake/pkg/grid"
	"github.com/opd-ai/go-snake/pkg/logging"
)

// Renderer draws one frame of the board. Calls arrive in the order Clear,
// RenderEntity for each entity, RenderSnake, Present.
type Renderer interface {
	Clear()
	RenderSnake(body []grid.Position, dir grid.Direction)
	RenderEntity(e entity.Entity)
	Present()
}

// Frame draws snap with r. The snake is drawn last so it covers an entity
// it is about to eat.
func Frame(r Renderer, snap engine.Snapshot) {
	r.Clear()
	for _, e := range snap.Entities {
		r.RenderEntity(e)
	}
	r.RenderSnake(snap.Body, snap.Direction)
	r.Present()
}

// NullRenderer is a simple implementation of Renderer that only logs.
type NullRenderer struct {
	logger *logging.Logger
}

// NewNullRenderer creates a new NullRenderer with structured logging.
func NewNullRenderer(logger *logging.Logger) *NullRenderer {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &NullRenderer{
		logger: logger.WithComponent("null_renderer"),
	}
}

// Clear implements Renderer.
func (d *NullRenderer) Clear() {
	ctx := context.Background()
	d.logger.Debug(ctx, "Clear called")
}

// Present implements Renderer.
func (d *NullRenderer) Present() {
	ctx := context.Background()
	d.logger.Debug(ctx, "Present called")
}

// RenderSnake implements Renderer.
func (d *NullRenderer) RenderSnake(body []grid.Position, dir grid.Direction) {
	ctx := context.Background()
	if len(body) == 0 {
		d.logger.Debug(ctx, "RenderSnake called with empty body")
		return
	}
	d.logger.Debug(ctx, "RenderSnake called",
		"head", body[0].String(),
		"length", len(body),
		"direction", dir.String(),
	)
}

// RenderEntity implements Renderer.
func (d *NullRenderer) RenderEntity(e entity.Entity) {
	ctx := context.Background()
	if e == nil {
		d.logger.Debug(ctx, "RenderEntity called with nil entity")
		return
	}
	d.logger.Debug(ctx, "RenderEntity called",
		"entity_id", e.ID(),
		"kind", string(e.Kind()),
		"position", e.Position().String(),
	)
}
