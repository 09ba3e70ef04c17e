package entity

import (
	"errors"

	"github.com/samber/oops"
)

// ErrNoHandler is returned when dispatching an entity whose kind has no handler.
var ErrNoHandler = errors.New("no handler for entity kind")

// Handler applies the effect of colliding with an entity.
type Handler func(e Entity) error

// Dispatcher maps entity kinds to handlers on the caller's side, so the
// engine never has to know about concrete entity types.
type Dispatcher struct {
	handlers map[Kind]Handler
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{handlers: make(map[Kind]Handler)}
}

// Register sets the handler for kind, replacing any previous one.
func (d *Dispatcher) Register(kind Kind, h Handler) {
	d.handlers[kind] = h
}

// Handles reports whether kind has a handler.
func (d *Dispatcher) Handles(kind Kind) bool {
	_, ok := d.handlers[kind]
	return ok
}

// Dispatch runs the handler registered for e's kind.
func (d *Dispatcher) Dispatch(e Entity) error {
	h, ok := d.handlers[e.Kind()]
	if !ok {
		return oops.
			Code("no_handler").
			In("entity").
			With("kind", e.Kind(), "entity_id", e.ID()).
			Wrap(ErrNoHandler)
	}
	return h(e)
}
