package game

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/lox/doubleout/internal/gameid"
)

// IDSource hands out unique player identifiers.
type IDSource interface {
	Generate() string
}

// Roster is the ordered list of participants. Insertion order is turn order.
type Roster struct {
	players []*Player
	ids     IDSource
}

// NewRoster creates an empty roster. A nil ids uses gameid.
func NewRoster(ids IDSource) *Roster {
	if ids == nil {
		ids = gameid.NewGenerator(nil)
	}
	return &Roster{ids: ids}
}

// NormalizeName trims raw and capitalizes the first letter of every
// whitespace separated word, lowercasing the rest.
func NormalizeName(raw string) string {
	// Casers keep state, so each call gets its own pair
	upper := cases.Upper(language.Und)
	lower := cases.Lower(language.Und)

	words := strings.Fields(raw)
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = upper.String(string(r)) + lower.String(w[size:])
	}
	return strings.Join(words, " ")
}

// AddPlayer appends a new player with score 0. Blank names are ignored and
// reported with a nil player.
func (r *Roster) AddPlayer(rawName string) *Player {
	name := NormalizeName(rawName)
	if name == "" {
		return nil
	}
	p := &Player{
		ID:           r.ids.Generate(),
		Name:         name,
		ThrowHistory: []PlayerThrow{},
	}
	r.players = append(r.players, p)
	return p
}

// RemovePlayer removes the player with id, reporting whether one was found.
func (r *Roster) RemovePlayer(id string) bool {
	for i, p := range r.players {
		if p.ID == id {
			r.players = append(r.players[:i], r.players[i+1:]...)
			return true
		}
	}
	return false
}

// Restore replaces the roster with previously saved players. Players without
// an ID, or repeating an earlier player's ID, get a fresh one.
func (r *Roster) Restore(players []Player) {
	r.players = make([]*Player, 0, len(players))
	seen := make(map[string]bool, len(players))
	for _, saved := range players {
		p := saved.Clone()
		for strings.TrimSpace(p.ID) == "" || seen[p.ID] {
			p.ID = r.ids.Generate()
		}
		seen[p.ID] = true
		r.players = append(r.players, &p)
	}
}

// Find returns the player with id, or nil.
func (r *Roster) Find(id string) *Player {
	for _, p := range r.players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// FindByName returns the first player whose name matches case-insensitively.
func (r *Roster) FindByName(name string) *Player {
	name = NormalizeName(name)
	for _, p := range r.players {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// At returns the player at turn position i, or nil when out of range.
func (r *Roster) At(i int) *Player {
	if i < 0 || i >= len(r.players) {
		return nil
	}
	return r.players[i]
}

// Len returns the number of players.
func (r *Roster) Len() int { return len(r.players) }

// Players returns copies of all players in turn order.
func (r *Roster) Players() []Player {
	out := make([]Player, len(r.players))
	for i, p := range r.players {
		out[i] = p.Clone()
	}
	return out
}
