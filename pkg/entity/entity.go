// pkg/entity/entity.go
package entity

import (
	"github.com/EngoEngine/ecs"

	"github.com/opd-ai/go-snake/pkg/grid"
)

// Kind tags the concrete type of an entity so callers can dispatch on it
// without knowing every type up front.
type Kind string

// Entity is anything other than the snake that occupies a grid cell.
type Entity interface {
	ID() uint64
	Position() grid.Position
	Kind() Kind
}

// Constructor builds an entity at the position chosen by the registry.
type Constructor func(pos grid.Position) Entity

// Base carries the identity and position shared by all entities. Custom
// entity types embed it and add a Kind method.
type Base struct {
	ecs.BasicEntity
	Pos grid.Position
}

// NewBase allocates a fresh identity at pos.
func NewBase(pos grid.Position) Base {
	return Base{
		BasicEntity: ecs.NewBasic(),
		Pos:         pos,
	}
}

// Position returns the entity's cell
func (b *Base) Position() grid.Position {
	return b.Pos
}

// As recovers the concrete type of e.
func As[T Entity](e Entity) (T, bool) {
	t, ok := e.(T)
	return t, ok
}
