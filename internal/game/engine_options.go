package game

import (
	"context"
	"time"

	"github.com/coder/quartz"
)

// Persister receives the setup after every successful change to the roster,
// mode, colors or scores. Failures are logged and never block play.
type Persister interface {
	Save(ctx context.Context, setup Setup) error
}

// EngineOption configures an Engine during creation.
type EngineOption func(*engineConfig)

type engineConfig struct {
	persister   Persister
	eventBus    EventBus
	clock       quartz.Clock
	playerIDs   IDSource
	gameIDs     IDSource
	saveTimeout time.Duration
	setup       *Setup
}

// WithPersister saves the setup through p after state changes.
func WithPersister(p Persister) EngineOption {
	return func(c *engineConfig) { c.persister = p }
}

// WithEventBus publishes events on bus instead of a private bus.
func WithEventBus(bus EventBus) EngineOption {
	return func(c *engineConfig) { c.eventBus = bus }
}

// WithClock stamps events using clock. Tests pass quartz.NewMock(t).
func WithClock(clock quartz.Clock) EngineOption {
	return func(c *engineConfig) { c.clock = clock }
}

// WithIDSource uses ids for both player and game identifiers.
func WithIDSource(ids IDSource) EngineOption {
	return func(c *engineConfig) {
		c.playerIDs = ids
		c.gameIDs = ids
	}
}

// WithSaveTimeout bounds each persistence call. Default: 2s.
func WithSaveTimeout(d time.Duration) EngineOption {
	return func(c *engineConfig) { c.saveTimeout = d }
}

// WithSetup restores a previously saved roster, mode and colors. The setup
// is sanitized first.
func WithSetup(setup Setup) EngineOption {
	return func(c *engineConfig) { c.setup = &setup }
}
