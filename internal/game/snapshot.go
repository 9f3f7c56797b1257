package game

import (
	"fmt"

	"github.com/lox/doubleout/internal/palette"
)

// State is the life cycle of a session.
type State int

const (
	NotStarted State = iota
	InProgress
	Won
)

var stateNames = [...]string{"not_started", "in_progress", "won"}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("State(%d)", int(s))
	}
	return stateNames[s]
}

// Setup is the persisted part of a session: the roster (with histories),
// the selected mode and the multiplier colors.
type Setup struct {
	Players []Player                 `json:"players" yaml:"players"`
	Mode    Mode                     `json:"mode" yaml:"mode"`
	Colors  palette.MultiplierColors `json:"colors" yaml:"colors"`
}

// DefaultSetup is an empty roster playing 501 with default colors.
func DefaultSetup() Setup {
	return Setup{
		Players: []Player{},
		Mode:    DefaultMode,
		Colors:  palette.Default(),
	}
}

// Sanitize repairs data read from outside the engine: invalid modes fall
// back to 501, unknown colors to their defaults and missing histories to
// empty ones.
func (s Setup) Sanitize() Setup {
	out := Setup{
		Players: make([]Player, 0, len(s.Players)),
		Mode:    s.Mode,
		Colors:  s.Colors.Normalize(),
	}
	if !out.Mode.Valid() {
		out.Mode = DefaultMode
	}
	for _, p := range s.Players {
		c := p.Clone()
		if c.Score < 0 {
			c.Score = 0
		}
		out.Players = append(out.Players, c)
	}
	return out
}

// Snapshot is a read-only view of the session for presentation layers.
type Snapshot struct {
	GameID          string
	State           State
	Mode            Mode
	Colors          palette.MultiplierColors
	Players         []Player
	CurrentIndex    int
	Round           int
	ThrowsRemaining int
	Pending         []Throw
	RoundTotal      int
	Bust            bool
	BustReason      string

	// PotentialRemaining is the current player's score minus the pending
	// round total; PotentialOutcome is Evaluate over the pending throws.
	PotentialRemaining int
	PotentialOutcome   Outcome

	Winner *Player
}

// Current returns the player whose turn it is, or nil when the roster is
// empty.
func (s Snapshot) Current() *Player {
	if s.CurrentIndex < 0 || s.CurrentIndex >= len(s.Players) {
		return nil
	}
	return &s.Players[s.CurrentIndex]
}

// WouldBust reports whether committing now would bust. This drives the
// commit control's bust styling.
func (s Snapshot) WouldBust() bool {
	return s.Bust || (len(s.Pending) > 0 && s.PotentialOutcome.IsBust())
}
