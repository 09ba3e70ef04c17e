// pkg/event/event.go
package event

import (
	"github.com/opd-ai/go-snake/pkg/grid"
)

// Type represents the type of event
type Type string

// Session lifecycle and board events
const (
	GameStarted    Type = "game_started"
	GamePaused     Type = "game_paused"
	GameResumed    Type = "game_resumed"
	GameEnded      Type = "game_ended"
	EntitySpawned  Type = "entity_spawned"
	EntityConsumed Type = "entity_consumed"
	ScoreChanged   Type = "score_changed"
)

// Event is the base interface for all events
type Event interface {
	GetType() Type
	GetSource() interface{}
}

// BaseEvent provides common functionality for all events
type BaseEvent struct {
	EventType Type
	Source    interface{}
}

// GetType returns the event type
func (e *BaseEvent) GetType() Type {
	return e.EventType
}

// GetSource returns the event source
func (e *BaseEvent) GetSource() interface{} {
	return e.Source
}

// Handler is a function that handles events
type Handler func(Event)

// Subscription identifies a registered handler and removes it on Cancel.
type Subscription struct {
	ID     uint64
	Cancel func()
}

type subscriber struct {
	id      uint64
	handler Handler
}

// Bus dispatches events synchronously, in subscription order, on the
// caller's goroutine. It is not safe for concurrent use.
type Bus struct {
	handlers map[Type][]subscriber
	nextID   uint64
}

// NewEventBus creates a new event bus
func NewEventBus() *Bus {
	return &Bus{
		handlers: make(map[Type][]subscriber),
		nextID:   1,
	}
}

// Subscribe registers a handler for a specific event type
func (b *Bus) Subscribe(eventType Type, handler Handler) *Subscription {
	id := b.nextID
	b.nextID++
	b.handlers[eventType] = append(b.handlers[eventType], subscriber{id: id, handler: handler})

	return &Subscription{
		ID:     id,
		Cancel: func() { b.unsubscribe(eventType, id) },
	}
}

// SubscribeAll registers one handler for every type in types.
func (b *Bus) SubscribeAll(types []Type, handler Handler) []*Subscription {
	subs := make([]*Subscription, 0, len(types))
	for _, t := range types {
		subs = append(subs, b.Subscribe(t, handler))
	}
	return subs
}

func (b *Bus) unsubscribe(eventType Type, id uint64) {
	subs := b.handlers[eventType]
	for i, s := range subs {
		if s.id == id {
			b.handlers[eventType] = append(subs[:i:i], subs[i+1:]...)
			return
		}
	}
}

// Publish sends an event to all subscribed handlers
func (b *Bus) Publish(event Event) {
	// Copy so handlers may cancel their own subscription while running.
	subs := append([]subscriber(nil), b.handlers[event.GetType()]...)
	for _, s := range subs {
		s.handler(event)
	}
}

// AllTypes lists every event type published by the engine.
var AllTypes = []Type{
	GameStarted, GamePaused, GameResumed, GameEnded,
	EntitySpawned, EntityConsumed, ScoreChanged,
}

// Specific event implementations

// EntityEvent describes an entity appearing on or leaving the board.
type EntityEvent struct {
	BaseEvent
	EntityID uint64
	Kind     string
	Position grid.Position
}

// NewEntityEvent creates a new entity event
func NewEntityEvent(eventType Type, source interface{}, entityID uint64, kind string, pos grid.Position) *EntityEvent {
	return &EntityEvent{
		BaseEvent: BaseEvent{
			EventType: eventType,
			Source:    source,
		},
		EntityID: entityID,
		Kind:     kind,
		Position: pos,
	}
}

// ScoreEvent carries the score after a change.
type ScoreEvent struct {
	BaseEvent
	Score int
	Delta int
}

// NewScoreEvent creates a new score event
func NewScoreEvent(source interface{}, score, delta int) *ScoreEvent {
	return &ScoreEvent{
		BaseEvent: BaseEvent{
			EventType: ScoreChanged,
			Source:    source,
		},
		Score: score,
		Delta: delta,
	}
}

// EndReason explains why a session ended.
type EndReason string

const (
	EndWall    EndReason = "wall"
	EndSelf    EndReason = "self"
	EndEntity  EndReason = "entity"
	EndBoard   EndReason = "board_full"
	EndStopped EndReason = "stopped"
)

// GameEndedEvent carries the final score and the reason the session ended.
type GameEndedEvent struct {
	BaseEvent
	Score  int
	Reason EndReason
	Head   grid.Position
}

// NewGameEndedEvent creates a new game ended event
func NewGameEndedEvent(source interface{}, score int, reason EndReason, head grid.Position) *GameEndedEvent {
	return &GameEndedEvent{
		BaseEvent: BaseEvent{
			EventType: GameEnded,
			Source:    source,
		},
		Score:  score,
		Reason: reason,
		Head:   head,
	}
}
