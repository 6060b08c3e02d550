package game

import (
	"slices"
	"time"

	"github.com/lox/partycards/internal/packs"
)

// EventType represents a session event type with type safety
type EventType string

const (
	EventTypePromptChanged EventType = "prompt_changed"
	EventTypeHandChanged   EventType = "hand_changed"
)

// String returns the string representation of the event type
func (et EventType) String() string {
	return string(et)
}

// GameEvent represents any event that occurs during a session
type GameEvent interface {
	EventType() EventType
	Timestamp() time.Time
}

// PromptChangedEvent is published when a new black card is drawn
type PromptChangedEvent struct {
	Prompt    packs.BlackCard
	Drawn     int // black cards drawn so far, including this one
	timestamp time.Time
}

func (e PromptChangedEvent) EventType() EventType { return EventTypePromptChanged }
func (e PromptChangedEvent) Timestamp() time.Time { return e.timestamp }

// NewPromptChangedEvent creates a new prompt changed event stamped with at
func NewPromptChangedEvent(prompt packs.BlackCard, drawn int, at time.Time) PromptChangedEvent {
	return PromptChangedEvent{Prompt: prompt, Drawn: drawn, timestamp: at}
}

// HandChangedEvent is published after cards are submitted and the hand refilled
type HandChangedEvent struct {
	Hand      []string
	Submitted []string
	Dealt     []string
	timestamp time.Time
}

func (e HandChangedEvent) EventType() EventType { return EventTypeHandChanged }
func (e HandChangedEvent) Timestamp() time.Time { return e.timestamp }

// NewHandChangedEvent creates a new hand changed event stamped with at
func NewHandChangedEvent(hand, submitted, dealt []string, at time.Time) HandChangedEvent {
	return HandChangedEvent{
		Hand:      slices.Clone(hand),
		Submitted: slices.Clone(submitted),
		Dealt:     slices.Clone(dealt),
		timestamp: at,
	}
}

// EventSubscriber can subscribe to session events
type EventSubscriber interface {
	OnEvent(event GameEvent)
}

// EventSubscriberFunc adapts a function to EventSubscriber
type EventSubscriberFunc func(event GameEvent)

func (f EventSubscriberFunc) OnEvent(event GameEvent) { f(event) }

// EventBus manages event publishing and subscription
type EventBus interface {
	Subscribe(subscriber EventSubscriber) (unsubscribe func())
	Publish(event GameEvent)
}

// SimpleEventBus is a basic in-memory event bus. Like the session it
// belongs to, it expects a single owner.
type SimpleEventBus struct {
	subscribers []*subscription
}

type subscription struct {
	EventSubscriber
}

// NewEventBus creates a new event bus
func NewEventBus() *SimpleEventBus {
	return &SimpleEventBus{}
}

// Subscribe adds a subscriber and returns a function removing it again
func (bus *SimpleEventBus) Subscribe(subscriber EventSubscriber) func() {
	sub := &subscription{subscriber}
	bus.subscribers = append(bus.subscribers, sub)
	return func() {
		for i, s := range bus.subscribers {
			if s == sub {
				bus.subscribers = append(bus.subscribers[:i], bus.subscribers[i+1:]...)
				return
			}
		}
	}
}

// Publish sends an event to all subscribers
func (bus *SimpleEventBus) Publish(event GameEvent) {
	for _, s := range slices.Clone(bus.subscribers) {
		s.OnEvent(event)
	}
}
