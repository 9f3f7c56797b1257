package game

import (
	"maps"
	"slices"
)

// Ledger appends committed and busted rounds to each player's throw
// history. Entries are never edited or removed.
type Ledger struct {
	roster *Roster
}

// NewLedger creates a ledger over the players of roster.
func NewLedger(roster *Roster) *Ledger {
	return &Ledger{roster: roster}
}

// RoundGroup is one round of a player's history.
type RoundGroup struct {
	Round  int           `json:"round" yaml:"round"`
	Throws []PlayerThrow `json:"throws" yaml:"throws"`
	Total  int           `json:"total" yaml:"total"`
}

// Record appends throws for playerID as round round. For a committed round
// each throw carries the score before it was thrown; for a busted round
// every throw carries startScore because the round had no effect. Unknown
// players are ignored.
func (l *Ledger) Record(playerID string, throws []Throw, round, startScore int, committed bool) {
	p := l.roster.Find(playerID)
	if p == nil {
		return
	}

	prior := 0
	for _, t := range throws {
		remaining := startScore
		if committed {
			remaining = startScore - prior
		}
		p.ThrowHistory = append(p.ThrowHistory, PlayerThrow{
			Throw:     t,
			Round:     round,
			Remaining: remaining,
		})
		prior += t.Total
	}
}

// RoundsFor groups a player's history by round number.
func (l *Ledger) RoundsFor(playerID string) map[int][]PlayerThrow {
	rounds := make(map[int][]PlayerThrow)
	p := l.roster.Find(playerID)
	if p == nil {
		return rounds
	}
	for _, t := range p.ThrowHistory {
		rounds[t.Round] = append(rounds[t.Round], t)
	}
	return rounds
}

// Rounds returns a player's history grouped by round in ascending order,
// with round totals.
func (l *Ledger) Rounds(playerID string) []RoundGroup {
	return GroupRounds(l.RoundsFor(playerID))
}

// GroupRounds orders grouped throws by round and totals each group.
func GroupRounds(rounds map[int][]PlayerThrow) []RoundGroup {
	keys := slices.Sorted(maps.Keys(rounds))
	groups := make([]RoundGroup, 0, len(keys))
	for _, k := range keys {
		groups = append(groups, RoundGroup{
			Round:  k,
			Throws: rounds[k],
			Total:  TotalFor(rounds[k]),
		})
	}
	return groups
}

// GroupHistory groups an arbitrary history slice, e.g. one loaded from a
// store, without needing a roster.
func GroupHistory(history []PlayerThrow) []RoundGroup {
	rounds := make(map[int][]PlayerThrow)
	for _, t := range history {
		rounds[t.Round] = append(rounds[t.Round], t)
	}
	return GroupRounds(rounds)
}

// TotalFor sums the points of a group of recorded throws.
func TotalFor(throws []PlayerThrow) int {
	total := 0
	for _, t := range throws {
		total += t.Total
	}
	return total
}
