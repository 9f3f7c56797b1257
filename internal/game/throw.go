package game

import (
	"errors"
	"fmt"
)

// Bull is the base value of the bullseye. The inner bull is Bull doubled.
const Bull = 25

// Multiplier is the ring a dart landed in.
type Multiplier int

const (
	Single Multiplier = 1
	Double Multiplier = 2
	Triple Multiplier = 3
)

func (m Multiplier) String() string {
	switch m {
	case Single:
		return "Single"
	case Double:
		return "Double"
	case Triple:
		return "Triple"
	default:
		return fmt.Sprintf("Multiplier(%d)", int(m))
	}
}

// Prefix returns the short board notation: s, d or t.
func (m Multiplier) Prefix() string {
	switch m {
	case Double:
		return "d"
	case Triple:
		return "t"
	default:
		return "s"
	}
}

// Valid reports whether m is 1, 2 or 3.
func (m Multiplier) Valid() bool {
	return m >= Single && m <= Triple
}

var (
	ErrInvalidSegment    = errors.New("segment must be 1-20 or 25")
	ErrInvalidMultiplier = errors.New("multiplier must be 1, 2 or 3")
	ErrTripleBull        = errors.New("bull cannot be trebled")
)

// Throw is a single dart: the segment hit, its ring and the points scored.
type Throw struct {
	Base       int        `json:"baseScore" yaml:"base"`
	Multiplier Multiplier `json:"multiplier" yaml:"multiplier"`
	Total      int        `json:"totalScore" yaml:"total"`
}

// NewThrow validates a segment/multiplier pair and computes its total.
func NewThrow(base int, multiplier Multiplier) (Throw, error) {
	if (base < 1 || base > 20) && base != Bull {
		return Throw{}, fmt.Errorf("%w: got %d", ErrInvalidSegment, base)
	}
	if !multiplier.Valid() {
		return Throw{}, fmt.Errorf("%w: got %d", ErrInvalidMultiplier, int(multiplier))
	}
	if base == Bull && multiplier == Triple {
		return Throw{}, ErrTripleBull
	}
	return Throw{Base: base, Multiplier: multiplier, Total: base * int(multiplier)}, nil
}

// String renders the throw in board notation, e.g. t20, d16 or bull.
func (t Throw) String() string {
	if t.Base == Bull {
		if t.Multiplier == Double {
			return "bull"
		}
		return "25"
	}
	return fmt.Sprintf("%s%d", t.Multiplier.Prefix(), t.Base)
}

// PlayerThrow is a recorded throw tagged with the round it belonged to and
// the player's remaining score at that point.
type PlayerThrow struct {
	Throw     `yaml:",inline"`
	Round     int `json:"roundNumber" yaml:"round"`
	Remaining int `json:"remainingScore" yaml:"remaining"`
}
