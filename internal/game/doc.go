// Package game implements the scoring engine for 301/501/701 double-out darts.
//
// The main type is Engine, which owns the roster, the per-player throw
// ledger and the session state, and drives each player's turn through
// recording throws, committing the round and passing to the next player.
//
// # Basic Usage
//
//	e := game.NewEngine(logger)
//	alex, _ := e.AddPlayer("alex")
//	e.SetMode(game.Mode301)
//	e.StartGame()
//
//	e.RecordThrow(20, game.Triple)
//	e.RecordThrow(19, game.Triple)
//	e.CommitRound() // 301 - 117 = 184, next player's turn
//
//	snap := e.Snapshot()
//	rounds, _ := e.History(alex.ID)
//
// # Rules
//
// Evaluate is a pure function over a player's committed score and the
// throws of the current round. A round busts when it would leave the player
// below zero or on exactly one, or on zero without a double as its last
// dart. A bust blocks further throws until the round is either committed
// (the attempt is recorded in the ledger with no effect on the score and
// the turn passes) or reset (the attempt is discarded and the player throws
// again). Nothing resolves a bust automatically.
//
// # Architecture
//
// Engine delegates responsibilities to small components:
//   - Roster: ordered players, name normalization and IDs
//   - Evaluate: the double-out rules, with no state
//   - Ledger: append-only per-player history grouped by round
//   - EventBus: synchronous notifications for presentation layers
//   - Persister: best-effort storage of the roster, mode and colors
//
// Engine operations never fail loudly. Each returns true when applied and
// false when the action is not valid in the current state.
package game
