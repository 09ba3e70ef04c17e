// pkg/entity/registry.go
package entity

import (
	"errors"
	"slices"

	"github.com/samber/oops"
	"github.com/zyedidia/generic/mapset"

	"github.com/opd-ai/go-snake/pkg/grid"
)

var (
	// ErrOutOfBounds is returned when placing an entity outside the grid.
	ErrOutOfBounds = errors.New("position out of bounds")
	// ErrCellOccupied is returned when placing an entity on a taken cell.
	ErrCellOccupied = errors.New("cell occupied")
	// ErrDuplicateID is returned when the same entity is placed twice.
	ErrDuplicateID = errors.New("duplicate entity id")
	// ErrBadConstructor is returned when a constructor returns nil or an
	// entity away from the cell it was given.
	ErrBadConstructor = errors.New("constructor did not build an entity on the chosen cell")
)

// Registry owns every entity on the board and indexes them by position.
// Entities are stationary once placed; moving one means removing it and
// placing it again.
type Registry struct {
	grid  grid.Grid
	rng   grid.Rand
	byID  map[uint64]Entity
	byPos map[grid.Position]uint64
	order []uint64
}

// NewRegistry creates an empty registry bounded by g.
func NewRegistry(g grid.Grid, rng grid.Rand) *Registry {
	if rng == nil {
		rng = grid.DefaultRand()
	}
	return &Registry{
		grid:  g,
		rng:   rng,
		byID:  make(map[uint64]Entity),
		byPos: make(map[grid.Position]uint64),
	}
}

// Generate builds an entity on a random cell that is neither blocked nor
// under another entity. It fails with grid.ErrGridFull when no such cell
// exists and with ErrBadConstructor when ctor ignores the cell it is given.
func (r *Registry) Generate(ctor Constructor, blocked []grid.Position) (Entity, error) {
	exclude := r.Occupied()
	for _, p := range blocked {
		exclude.Put(p)
	}

	pos, err := r.grid.RandomPosition(r.rng, exclude)
	if err != nil {
		return nil, oops.
			In("entity").
			With("entities", len(r.byID), "blocked", len(blocked)).
			Wrapf(err, "generate entity")
	}

	e := ctor(pos)
	if e == nil || e.Position() != pos {
		builder := oops.Code("bad_constructor").In("entity").With("position", pos.String())
		if e != nil {
			builder = builder.With("entity_id", e.ID(), "kind", e.Kind(), "got", e.Position().String())
		}
		return nil, builder.Wrap(ErrBadConstructor)
	}
	if err := r.Place(e); err != nil {
		return nil, err
	}
	return e, nil
}

// Place adds e at its own position.
func (r *Registry) Place(e Entity) error {
	pos := e.Position()
	builder := oops.
		In("entity").
		With("entity_id", e.ID(), "kind", e.Kind(), "position", pos.String())

	if !r.grid.Contains(pos) {
		return builder.Code("out_of_bounds").Wrap(ErrOutOfBounds)
	}
	if _, exists := r.byID[e.ID()]; exists {
		return builder.Code("duplicate_id").Wrap(ErrDuplicateID)
	}
	if other, taken := r.byPos[pos]; taken {
		return builder.Code("cell_occupied").With("occupant_id", other).Wrap(ErrCellOccupied)
	}

	r.byID[e.ID()] = e
	r.byPos[pos] = e.ID()
	r.order = append(r.order, e.ID())
	return nil
}

// At returns the entity on p, if any.
func (r *Registry) At(p grid.Position) (Entity, bool) {
	id, ok := r.byPos[p]
	if !ok {
		return nil, false
	}
	return r.byID[id], true
}

// Get returns the entity with the given identity.
func (r *Registry) Get(id uint64) (Entity, bool) {
	e, ok := r.byID[id]
	return e, ok
}

// Remove deletes the entity with the given identity and returns it.
func (r *Registry) Remove(id uint64) (Entity, bool) {
	e, ok := r.byID[id]
	if !ok {
		return nil, false
	}
	delete(r.byID, id)
	if r.byPos[e.Position()] == id {
		delete(r.byPos, e.Position())
	}
	if i := slices.Index(r.order, id); i >= 0 {
		r.order = slices.Delete(r.order, i, i+1)
	}
	return e, true
}

// All returns the live entities in insertion order.
func (r *Registry) All() []Entity {
	all := make([]Entity, 0, len(r.order))
	for _, id := range r.order {
		all = append(all, r.byID[id])
	}
	return all
}

// Len returns the number of live entities.
func (r *Registry) Len() int {
	return len(r.byID)
}

// Occupied returns the cells currently under an entity.
func (r *Registry) Occupied() mapset.Set[grid.Position] {
	cells := mapset.New[grid.Position]()
	for p := range r.byPos {
		cells.Put(p)
	}
	return cells
}
