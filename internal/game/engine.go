package game

import (
	"context"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/doubleout/internal/gameid"
	"github.com/lox/doubleout/internal/palette"
)

const defaultSaveTimeout = 2 * time.Second

// session is the complete mutable state of one game. It is only changed by
// the Engine's named transitions.
type session struct {
	mode   Mode
	colors palette.MultiplierColors
	state  State
	gameID string

	current         int
	round           int
	throwsRemaining int
	pending         []Throw
	bust            bool
	bustReason      string
	winnerID        string
}

// Engine is the session controller: it owns the roster, ledger and session
// state and drives the turn and round life cycle. Every operation either
// applies completely and returns true, or is ignored and returns false.
//
// Engine is not safe for concurrent use. Events are delivered synchronously
// and subscribers must not call back into the engine.
type Engine struct {
	roster *Roster
	ledger *Ledger
	s      session

	logger      *log.Logger
	eventBus    EventBus
	clock       quartz.Clock
	persister   Persister
	saveTimeout time.Duration
	gameIDs     IDSource

	busy bool
}

// NewEngine creates an engine with an empty roster playing 501, unless a
// setup is restored with WithSetup.
func NewEngine(logger *log.Logger, opts ...EngineOption) *Engine {
	cfg := &engineConfig{saveTimeout: defaultSaveTimeout}
	for _, opt := range opts {
		opt(cfg)
	}

	if logger == nil {
		logger = log.New(io.Discard)
	}
	if cfg.eventBus == nil {
		cfg.eventBus = NewEventBus()
	}
	if cfg.clock == nil {
		cfg.clock = quartz.NewReal()
	}
	if cfg.gameIDs == nil {
		cfg.gameIDs = gameid.NewGenerator(nil)
	}

	roster := NewRoster(cfg.playerIDs)
	e := &Engine{
		roster:      roster,
		ledger:      NewLedger(roster),
		logger:      logger.WithPrefix("engine"),
		eventBus:    cfg.eventBus,
		clock:       cfg.clock,
		persister:   cfg.persister,
		saveTimeout: cfg.saveTimeout,
		gameIDs:     cfg.gameIDs,
	}

	setup := DefaultSetup()
	if cfg.setup != nil {
		setup = cfg.setup.Sanitize()
	}
	roster.Restore(setup.Players)
	e.s = session{
		mode:            setup.Mode,
		colors:          setup.Colors,
		state:           NotStarted,
		round:           1,
		throwsRemaining: 3,
	}

	return e
}

// GetEventBus returns the event bus for subscribing to game events
func (e *Engine) GetEventBus() EventBus {
	return e.eventBus
}

// State returns the session life cycle state.
func (e *Engine) State() State {
	return e.s.state
}

// begin guards against re-entrant calls from event subscribers.
func (e *Engine) begin(op string) bool {
	if e.busy {
		e.logger.Warn("Ignoring re-entrant call", "op", op)
		return false
	}
	e.busy = true
	return true
}

func (e *Engine) end() { e.busy = false }

func (e *Engine) ignore(op string, reason string, keyvals ...any) bool {
	e.logger.Debug("Ignoring action", append([]any{"op", op, "reason", reason}, keyvals...)...)
	return false
}

func (e *Engine) setupLocked(op string) bool {
	if e.s.state == InProgress {
		e.ignore(op, "game in progress")
		return true
	}
	return false
}

// AddPlayer normalizes rawName and appends a new player. It is ignored for
// blank names and while a game is in progress.
func (e *Engine) AddPlayer(rawName string) (Player, bool) {
	if !e.begin("add_player") {
		return Player{}, false
	}
	defer e.end()

	if e.setupLocked("add_player") {
		return Player{}, false
	}
	p := e.roster.AddPlayer(rawName)
	if p == nil {
		return Player{}, e.ignore("add_player", "blank name")
	}

	e.logger.Debug("Player added", "id", p.ID, "name", p.Name)
	e.publish(SetupChangeEvent{Description: fmt.Sprintf("%s joined", p.Name)})
	e.save()
	return p.Clone(), true
}

// RemovePlayer removes a player. It is ignored for unknown IDs and while a
// game is in progress.
func (e *Engine) RemovePlayer(id string) bool {
	if !e.begin("remove_player") {
		return false
	}
	defer e.end()

	if e.setupLocked("remove_player") {
		return false
	}
	p := e.roster.Find(id)
	if p == nil {
		return e.ignore("remove_player", "unknown player", "id", id)
	}
	name := p.Name
	e.roster.RemovePlayer(id)
	if e.s.current >= e.roster.Len() {
		e.s.current = 0
	}

	e.publish(SetupChangeEvent{Description: fmt.Sprintf("%s left", name)})
	e.save()
	return true
}

// SetMode selects the starting total for the next game.
func (e *Engine) SetMode(m Mode) bool {
	if !e.begin("set_mode") {
		return false
	}
	defer e.end()

	if e.setupLocked("set_mode") {
		return false
	}
	if !m.Valid() {
		return e.ignore("set_mode", "invalid mode", "mode", int(m))
	}
	e.s.mode = m

	e.publish(SetupChangeEvent{Description: fmt.Sprintf("Mode set to %s", m)})
	e.save()
	return true
}

// SetMultiplierColor changes the display color of a multiplier.
func (e *Engine) SetMultiplierColor(m Multiplier, c palette.Color) bool {
	if !e.begin("set_color") {
		return false
	}
	defer e.end()

	if e.setupLocked("set_color") {
		return false
	}
	colors, ok := e.s.colors.With(int(m), c)
	if !ok {
		return e.ignore("set_color", "invalid color", "multiplier", int(m), "color", c)
	}
	e.s.colors = colors

	e.publish(SetupChangeEvent{Description: fmt.Sprintf("%s color set to %s", m, c)})
	e.save()
	return true
}

// ResetColors restores the default multiplier colors.
func (e *Engine) ResetColors() bool {
	if !e.begin("reset_colors") {
		return false
	}
	defer e.end()

	if e.setupLocked("reset_colors") {
		return false
	}
	e.s.colors = palette.Default()

	e.publish(SetupChangeEvent{Description: "Colors reset to defaults"})
	e.save()
	return true
}

// StartGame resets every player to the mode's starting score with an empty
// history and begins round 1 with the first player. Ignored for an empty
// roster.
func (e *Engine) StartGame() bool {
	if !e.begin("start_game") {
		return false
	}
	defer e.end()

	if e.roster.Len() < 1 {
		return e.ignore("start_game", "no players")
	}

	start := e.s.mode.StartingScore()
	for _, p := range e.roster.players {
		p.Score = start
		p.ThrowHistory = []PlayerThrow{}
	}

	e.s.state = InProgress
	e.s.gameID = e.gameIDs.Generate()
	e.s.current = 0
	e.s.round = 1
	e.s.winnerID = ""
	e.clearRound()

	e.logger.Info("Game started", "game", e.s.gameID, "mode", e.s.mode, "players", e.roster.Len())
	e.publish(GameStartEvent{GameID: e.s.gameID, Mode: e.s.mode, Players: e.roster.Players()})
	e.save()
	return true
}

// QuickReset restarts the game with the same roster and mode.
func (e *Engine) QuickReset() bool {
	return e.StartGame()
}

// RecordThrow adds a dart to the current round and evaluates the round so
// far. A bust freezes further throws until the round is committed or reset;
// nothing advances automatically.
func (e *Engine) RecordThrow(base int, multiplier Multiplier) bool {
	if !e.begin("record_throw") {
		return false
	}
	defer e.end()

	switch {
	case e.s.state != InProgress:
		return e.ignore("record_throw", "game not in progress")
	case e.s.throwsRemaining <= 0:
		return e.ignore("record_throw", "no throws remaining")
	case e.s.bust:
		return e.ignore("record_throw", "round is bust")
	}

	t, err := NewThrow(base, multiplier)
	if err != nil {
		return e.ignore("record_throw", err.Error())
	}

	p := e.currentPlayer()
	e.s.pending = append(e.s.pending, t)
	e.s.throwsRemaining--

	outcome := Evaluate(p.Score, e.s.pending)
	if outcome.IsBust() {
		e.s.bust = true
		e.s.bustReason = outcome.Reason
	}

	e.logger.Debug("Throw recorded", "player", p.Name, "throw", t, "outcome", outcome.Kind)
	e.publish(ThrowEvent{
		Player:          p.Clone(),
		Throw:           t,
		Round:           e.s.round,
		ThrowsRemaining: e.s.throwsRemaining,
		Projected:       Projected(p.Score, e.s.pending),
		Outcome:         outcome,
	})
	return true
}

// CommitRound ends the current player's round. The round is re-evaluated:
// a bust records the attempt without scoring and passes the turn, a finish
// scores, records and wins the game, anything else scores, records and
// passes the turn. Ignored with no pending throws.
func (e *Engine) CommitRound() bool {
	if !e.begin("commit_round") {
		return false
	}
	defer e.end()

	switch {
	case e.s.state != InProgress:
		return e.ignore("commit_round", "game not in progress")
	case len(e.s.pending) == 0:
		return e.ignore("commit_round", "no throws this round")
	}

	p := e.currentPlayer()
	throws := slices.Clone(e.s.pending)
	before := p.Score
	outcome := Evaluate(before, throws)

	switch outcome.Kind {
	case Bust:
		e.ledger.Record(p.ID, throws, e.s.round, before, false)
	case Finish, Continue:
		e.ledger.Record(p.ID, throws, e.s.round, before, true)
		p.Score = Projected(before, throws)
	}

	e.publish(RoundCommitEvent{
		Player:      p.Clone(),
		Round:       e.s.round,
		Throws:      throws,
		Outcome:     outcome,
		ScoreBefore: before,
		ScoreAfter:  p.Score,
	})

	if outcome.IsFinish() {
		e.s.state = Won
		e.s.winnerID = p.ID
		e.clearRound()
		e.logger.Info("Game won", "game", e.s.gameID, "winner", p.Name, "round", e.s.round)
		e.publish(GameWonEvent{GameID: e.s.gameID, Winner: p.Clone(), Round: e.s.round})
	} else {
		e.advance(false)
	}

	e.save()
	return true
}

// ResetRound discards the pending throws and any bust so the current
// player can re-enter the round. Committed scores and history are untouched.
func (e *Engine) ResetRound() bool {
	if !e.begin("reset_round") {
		return false
	}
	defer e.end()

	if e.s.state != InProgress {
		return e.ignore("reset_round", "game not in progress")
	}

	discarded := slices.Clone(e.s.pending)
	e.clearRound()
	if len(discarded) > 0 {
		e.publish(RoundResetEvent{Player: e.currentPlayer().Clone(), Discarded: discarded})
	}
	return true
}

// SkipToNextPlayer passes the turn without recording anything. Only valid
// before the current player has thrown.
func (e *Engine) SkipToNextPlayer() bool {
	if !e.begin("skip") {
		return false
	}
	defer e.end()

	switch {
	case e.s.state != InProgress:
		return e.ignore("skip", "game not in progress")
	case len(e.s.pending) > 0:
		return e.ignore("skip", "throws pending")
	}

	e.advance(true)
	return true
}

// OverrideScore sets a player's score directly, bypassing the rules and
// the ledger. Negative scores and unknown players are ignored.
func (e *Engine) OverrideScore(playerID string, newScore int) bool {
	if !e.begin("override_score") {
		return false
	}
	defer e.end()

	if newScore < 0 {
		return e.ignore("override_score", "negative score", "score", newScore)
	}
	p := e.roster.Find(playerID)
	if p == nil {
		return e.ignore("override_score", "unknown player", "id", playerID)
	}

	from := p.Score
	p.Score = newScore

	e.logger.Info("Score overridden", "player", p.Name, "from", from, "to", newScore)
	e.publish(ScoreOverrideEvent{Player: p.Clone(), From: from, To: newScore})
	e.save()
	return true
}

// Snapshot returns a copy of the session for display.
func (e *Engine) Snapshot() Snapshot {
	snap := Snapshot{
		GameID:          e.s.gameID,
		State:           e.s.state,
		Mode:            e.s.mode,
		Colors:          e.s.colors,
		Players:         e.roster.Players(),
		CurrentIndex:    e.s.current,
		Round:           e.s.round,
		ThrowsRemaining: e.s.throwsRemaining,
		Pending:         slices.Clone(e.s.pending),
		RoundTotal:      RoundTotal(e.s.pending),
		Bust:            e.s.bust,
		BustReason:      e.s.bustReason,
	}
	if snap.Pending == nil {
		snap.Pending = []Throw{}
	}

	if p := e.roster.At(e.s.current); p != nil {
		snap.PotentialRemaining = Projected(p.Score, e.s.pending)
		if len(e.s.pending) > 0 {
			snap.PotentialOutcome = Evaluate(p.Score, e.s.pending)
		}
	}
	if e.s.winnerID != "" {
		for i := range snap.Players {
			if snap.Players[i].ID == e.s.winnerID {
				snap.Winner = &snap.Players[i]
				break
			}
		}
	}
	return snap
}

// History returns a player's throws grouped by round with round totals.
func (e *Engine) History(playerID string) ([]RoundGroup, bool) {
	if e.roster.Find(playerID) == nil {
		return nil, false
	}
	return e.ledger.Rounds(playerID), true
}

// FindPlayer resolves a player by ID or, failing that, by name.
func (e *Engine) FindPlayer(idOrName string) (Player, bool) {
	p := e.roster.Find(idOrName)
	if p == nil {
		p = e.roster.FindByName(idOrName)
	}
	if p == nil {
		return Player{}, false
	}
	return p.Clone(), true
}

// Setup returns the persisted part of the session.
func (e *Engine) Setup() Setup {
	return Setup{
		Players: e.roster.Players(),
		Mode:    e.s.mode,
		Colors:  e.s.colors,
	}
}

func (e *Engine) currentPlayer() *Player {
	return e.roster.At(e.s.current)
}

// advance passes the turn, starting a new round after the last player.
func (e *Engine) advance(skipped bool) {
	if e.s.current == e.roster.Len()-1 {
		e.s.round++
	}
	e.s.current = (e.s.current + 1) % e.roster.Len()
	e.clearRound()

	e.publish(TurnChangeEvent{
		Player:  e.currentPlayer().Clone(),
		Round:   e.s.round,
		Skipped: skipped,
	})
}

func (e *Engine) clearRound() {
	e.s.pending = nil
	e.s.throwsRemaining = 3
	e.s.bust = false
	e.s.bustReason = ""
}

func (e *Engine) publish(event GameEvent) {
	e.eventBus.Publish(stamp(event, e.clock.Now()))
}

// stamp sets the timestamp on the events the engine publishes.
func stamp(event GameEvent, at time.Time) GameEvent {
	switch ev := event.(type) {
	case GameStartEvent:
		ev.timestamp = at
		return ev
	case ThrowEvent:
		ev.timestamp = at
		return ev
	case RoundCommitEvent:
		ev.timestamp = at
		return ev
	case RoundResetEvent:
		ev.timestamp = at
		return ev
	case TurnChangeEvent:
		ev.timestamp = at
		return ev
	case GameWonEvent:
		ev.timestamp = at
		return ev
	case ScoreOverrideEvent:
		ev.timestamp = at
		return ev
	case SetupChangeEvent:
		ev.timestamp = at
		return ev
	}
	return event
}

// save hands the setup to the persister. Errors are logged, never returned.
func (e *Engine) save() {
	if e.persister == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), e.saveTimeout)
	defer cancel()

	if err := e.persister.Save(ctx, e.Setup()); err != nil {
		e.logger.Error("Failed to save game setup", "error", err)
	}
}
