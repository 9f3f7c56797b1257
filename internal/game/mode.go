package game

import (
	"fmt"
	"strconv"
	"strings"
)

// Mode is the starting total of a leg.
type Mode int

const (
	Mode301 Mode = 301
	Mode501 Mode = 501
	Mode701 Mode = 701
)

// DefaultMode is used when no mode has been chosen or a saved one is invalid.
const DefaultMode = Mode501

// Modes lists the supported modes in display order.
func Modes() []Mode {
	return []Mode{Mode301, Mode501, Mode701}
}

// Valid reports whether m is one of the supported starting totals.
func (m Mode) Valid() bool {
	switch m {
	case Mode301, Mode501, Mode701:
		return true
	}
	return false
}

// StartingScore is the score every player counts down from.
func (m Mode) StartingScore() int {
	return int(m)
}

func (m Mode) String() string {
	return strconv.Itoa(int(m))
}

// ParseMode parses "301", "501" or "701".
func ParseMode(s string) (Mode, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid mode %q: %w", s, err)
	}
	m := Mode(n)
	if !m.Valid() {
		return 0, fmt.Errorf("invalid mode %q: must be 301, 501 or 701", s)
	}
	return m, nil
}
