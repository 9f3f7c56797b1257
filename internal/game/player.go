package game

import "slices"

// Player is a participant in the roster. ThrowHistory is append-only and in
// chronological order.
type Player struct {
	ID           string        `json:"id" yaml:"id"`
	Name         string        `json:"name" yaml:"name"`
	Score        int           `json:"score" yaml:"score"`
	ThrowHistory []PlayerThrow `json:"throwHistory" yaml:"throwHistory"`
}

// Clone returns a deep copy so snapshots cannot alias engine state.
func (p *Player) Clone() Player {
	c := *p
	c.ThrowHistory = slices.Clone(p.ThrowHistory)
	if c.ThrowHistory == nil {
		c.ThrowHistory = []PlayerThrow{}
	}
	return c
}
