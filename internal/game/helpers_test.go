package game

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
)

// sequentialIDs hands out p1, p2, ... so tests can refer to players by ID.
type sequentialIDs struct {
	prefix string
	n      int
}

func (s *sequentialIDs) Generate() string {
	s.n++
	return fmt.Sprintf("%s%d", s.prefix, s.n)
}

// recordingPersister keeps every saved setup and can be told to fail.
type recordingPersister struct {
	saves []Setup
	err   error
}

func (r *recordingPersister) Save(_ context.Context, setup Setup) error {
	if r.err != nil {
		return r.err
	}
	r.saves = append(r.saves, setup)
	return nil
}

func (r *recordingPersister) last() Setup {
	if len(r.saves) == 0 {
		return Setup{}
	}
	return r.saves[len(r.saves)-1]
}

var errStoreDown = errors.New("store down")

// eventRecorder collects published events.
type eventRecorder struct {
	events []GameEvent
}

func (r *eventRecorder) OnEvent(event GameEvent) { r.events = append(r.events, event) }

func (r *eventRecorder) types() []EventType {
	out := make([]EventType, len(r.events))
	for i, e := range r.events {
		out[i] = e.EventType()
	}
	return out
}

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

type testEngineOption func(*testEngineBuilder)

type testEngineBuilder struct {
	mode    Mode
	players []string
	opts    []EngineOption
}

func withMode(m Mode) testEngineOption {
	return func(b *testEngineBuilder) { b.mode = m }
}

func withPlayers(names ...string) testEngineOption {
	return func(b *testEngineBuilder) { b.players = names }
}

func withEngineOptions(opts ...EngineOption) testEngineOption {
	return func(b *testEngineBuilder) { b.opts = append(b.opts, opts...) }
}

// newTestEngine creates an engine with sequential IDs and a mock clock,
// adds the players and starts the game.
func newTestEngine(t *testing.T, opts ...testEngineOption) *Engine {
	t.Helper()

	b := &testEngineBuilder{mode: Mode501, players: []string{"Alex"}}
	for _, opt := range opts {
		opt(b)
	}

	engineOpts := append([]EngineOption{
		WithIDSource(&sequentialIDs{prefix: "p"}),
		WithClock(quartz.NewMock(t)),
	}, b.opts...)
	e := NewEngine(quietLogger(), engineOpts...)

	for _, name := range b.players {
		if _, ok := e.AddPlayer(name); !ok {
			t.Fatalf("failed to add player %q", name)
		}
	}
	if !e.SetMode(b.mode) {
		t.Fatalf("failed to set mode %v", b.mode)
	}
	if !e.StartGame() {
		t.Fatalf("failed to start game")
	}
	return e
}

// throwAll records each throw and fails the test if one is ignored.
func throwAll(t *testing.T, e *Engine, throws ...Throw) {
	t.Helper()
	for _, th := range throws {
		if !e.RecordThrow(th.Base, th.Multiplier) {
			t.Fatalf("throw %s was ignored", th)
		}
	}
}

func mustThrow(base int, m Multiplier) Throw {
	t, err := NewThrow(base, m)
	if err != nil {
		panic(err)
	}
	return t
}

func s(base int) Throw { return mustThrow(base, Single) }
func d(base int) Throw { return mustThrow(base, Double) }
func tr(base int) Throw { return mustThrow(base, Triple) }
