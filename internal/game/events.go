package game

import (
	"time"
)

// EventType represents a game event type with type safety
type EventType string

// EventType constants for game domain events
const (
	EventTypeGameStart     EventType = "game_start"
	EventTypeThrow         EventType = "throw"
	EventTypeRoundCommit   EventType = "round_commit"
	EventTypeRoundReset    EventType = "round_reset"
	EventTypeTurnChange    EventType = "turn_change"
	EventTypeGameWon       EventType = "game_won"
	EventTypeScoreOverride EventType = "score_override"
	EventTypeSetupChange   EventType = "setup_change"
)

// String returns the string representation of the event type
func (et EventType) String() string {
	return string(et)
}

// GameEvent represents anything that happens during a session
type GameEvent interface {
	EventType() EventType
	Timestamp() time.Time
}

// GameStartEvent is published when a game is started or restarted
type GameStartEvent struct {
	GameID    string
	Mode      Mode
	Players   []Player
	timestamp time.Time
}

func (e GameStartEvent) EventType() EventType { return EventTypeGameStart }
func (e GameStartEvent) Timestamp() time.Time { return e.timestamp }

// ThrowEvent is published after every recorded dart with the provisional
// outcome of the round so far
type ThrowEvent struct {
	Player          Player
	Throw           Throw
	Round           int
	ThrowsRemaining int
	Projected       int
	Outcome         Outcome
	timestamp       time.Time
}

func (e ThrowEvent) EventType() EventType { return EventTypeThrow }
func (e ThrowEvent) Timestamp() time.Time { return e.timestamp }

// RoundCommitEvent is published when a round is committed to the ledger
type RoundCommitEvent struct {
	Player      Player
	Round       int
	Throws      []Throw
	Outcome     Outcome
	ScoreBefore int
	ScoreAfter  int
	timestamp   time.Time
}

func (e RoundCommitEvent) EventType() EventType { return EventTypeRoundCommit }
func (e RoundCommitEvent) Timestamp() time.Time { return e.timestamp }

// RoundResetEvent is published when pending throws are discarded
type RoundResetEvent struct {
	Player    Player
	Discarded []Throw
	timestamp time.Time
}

func (e RoundResetEvent) EventType() EventType { return EventTypeRoundReset }
func (e RoundResetEvent) Timestamp() time.Time { return e.timestamp }

// TurnChangeEvent is published when the next player is up
type TurnChangeEvent struct {
	Player    Player
	Round     int
	Skipped   bool // previous player passed without throwing
	timestamp time.Time
}

func (e TurnChangeEvent) EventType() EventType { return EventTypeTurnChange }
func (e TurnChangeEvent) Timestamp() time.Time { return e.timestamp }

// GameWonEvent is published when a player checks out
type GameWonEvent struct {
	GameID    string
	Winner    Player
	Round     int
	timestamp time.Time
}

func (e GameWonEvent) EventType() EventType { return EventTypeGameWon }
func (e GameWonEvent) Timestamp() time.Time { return e.timestamp }

// ScoreOverrideEvent is published when a score is corrected by hand
type ScoreOverrideEvent struct {
	Player    Player
	From      int
	To        int
	timestamp time.Time
}

func (e ScoreOverrideEvent) EventType() EventType { return EventTypeScoreOverride }
func (e ScoreOverrideEvent) Timestamp() time.Time { return e.timestamp }

// SetupChangeEvent is published when the roster, mode or colors change
type SetupChangeEvent struct {
	Description string
	timestamp   time.Time
}

func (e SetupChangeEvent) EventType() EventType { return EventTypeSetupChange }
func (e SetupChangeEvent) Timestamp() time.Time { return e.timestamp }

// EventSubscriber can subscribe to game events
type EventSubscriber interface {
	OnEvent(event GameEvent)
}

// EventSubscriberFunc adapts a function to EventSubscriber
type EventSubscriberFunc func(event GameEvent)

// OnEvent calls f(event)
func (f EventSubscriberFunc) OnEvent(event GameEvent) { f(event) }

// EventBus manages event publishing and subscription
type EventBus interface {
	Subscribe(subscriber EventSubscriber)
	Unsubscribe(subscriber EventSubscriber)
	Publish(event GameEvent)
}

// SimpleEventBus is a synchronous in-memory event bus. Subscribers run on
// the publisher's goroutine, in subscription order.
type SimpleEventBus struct {
	subscribers []EventSubscriber
}

// NewEventBus creates a new event bus
func NewEventBus() EventBus {
	return &SimpleEventBus{
		subscribers: make([]EventSubscriber, 0),
	}
}

// Subscribe adds a subscriber to receive events
func (bus *SimpleEventBus) Subscribe(subscriber EventSubscriber) {
	bus.subscribers = append(bus.subscribers, subscriber)
}

// Unsubscribe removes a subscriber from receiving events. Function
// subscribers cannot be compared and are never removed.
func (bus *SimpleEventBus) Unsubscribe(subscriber EventSubscriber) {
	if _, ok := subscriber.(EventSubscriberFunc); ok {
		return
	}
	for i, sub := range bus.subscribers {
		if _, ok := sub.(EventSubscriberFunc); ok {
			continue
		}
		if sub == subscriber {
			bus.subscribers = append(bus.subscribers[:i], bus.subscribers[i+1:]...)
			break
		}
	}
}

// Publish sends an event to all subscribers
func (bus *SimpleEventBus) Publish(event GameEvent) {
	for _, subscriber := range bus.subscribers {
		subscriber.OnEvent(event)
	}
}
