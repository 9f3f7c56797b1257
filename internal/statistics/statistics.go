// Package statistics summarises a player's recorded rounds: averages,
// spread, high scores, busts and checkouts.
package statistics

import (
	"fmt"
	"math"
	"sort"

	"github.com/lox/doubleout/internal/game"
)

// RoundResult is the outcome of one recorded round
type RoundResult struct {
	Points   int  // Points that counted; 0 for a bust
	Darts    int  // Darts thrown in the round
	Bust     bool // Round was discarded
	Checkout bool // Round finished the leg on a double
}

// Statistics accumulates round results for one player
type Statistics struct {
	Rounds    int       `json:"rounds" yaml:"rounds"`
	Darts     int       `json:"darts" yaml:"darts"`
	Points    int       `json:"points" yaml:"points"`
	SumSq     float64   `json:"-" yaml:"-"` // Sum of squared round points for variance
	Values    []float64 `json:"-" yaml:"-"` // Round points, for median/percentile
	Busts     int       `json:"busts" yaml:"busts"`
	HighRound int       `json:"highRound" yaml:"highRound"`

	// Scoring bands
	Tons       int `json:"tons" yaml:"tons"`             // 100-139
	TonForties int `json:"tonForties" yaml:"tonForties"` // 140-179
	Maximums   int `json:"maximums" yaml:"maximums"`     // 180

	Checkouts    int `json:"checkouts" yaml:"checkouts"`
	HighCheckout int `json:"highCheckout" yaml:"highCheckout"`
}

// FromHistory replays a recorded throw history round by round. The score a
// round started from is the remaining score on its first dart.
func FromHistory(history []game.PlayerThrow) *Statistics {
	s := &Statistics{}
	for _, g := range game.GroupHistory(history) {
		if len(g.Throws) == 0 {
			continue
		}
		throws := make([]game.Throw, len(g.Throws))
		for i, t := range g.Throws {
			throws[i] = t.Throw
		}
		outcome := game.Evaluate(g.Throws[0].Remaining, throws)

		result := RoundResult{
			Points:   g.Total,
			Darts:    len(throws),
			Bust:     outcome.IsBust(),
			Checkout: outcome.IsFinish(),
		}
		if result.Bust {
			result.Points = 0
		}
		s.Add(result)
	}
	return s
}

// Add incorporates a round result into the statistics
func (s *Statistics) Add(result RoundResult) {
	points := result.Points
	s.Rounds++
	s.Darts += result.Darts
	s.Points += points
	s.SumSq += float64(points * points)
	s.Values = append(s.Values, float64(points))

	if result.Bust {
		s.Busts++
	}
	if points > s.HighRound {
		s.HighRound = points
	}

	switch {
	case points == 180:
		s.Maximums++
	case points >= 140:
		s.TonForties++
	case points >= 100:
		s.Tons++
	}

	if result.Checkout {
		s.Checkouts++
		if points > s.HighCheckout {
			s.HighCheckout = points
		}
	}
}

// Mean returns the average points per round
func (s *Statistics) Mean() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return float64(s.Points) / float64(s.Rounds)
}

// ThreeDartAverage returns points per dart scaled to a full visit, so short
// checkout rounds are not penalised
func (s *Statistics) ThreeDartAverage() float64 {
	if s.Darts == 0 {
		return 0
	}
	return float64(s.Points) * 3 / float64(s.Darts)
}

// Variance returns the sample variance of round points
func (s *Statistics) Variance() float64 {
	if s.Rounds < 2 {
		return 0
	}
	mean := s.Mean()
	return (s.SumSq - float64(s.Rounds)*mean*mean) / float64(s.Rounds-1)
}

// StdDev returns the sample standard deviation of round points
func (s *Statistics) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// Median returns the median round score
func (s *Statistics) Median() float64 {
	return s.Percentile(0.5)
}

// Percentile returns the round score at p (0.0 to 1.0), interpolating
// between neighbours
func (s *Statistics) Percentile(p float64) float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1

	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// BustRate returns the share of rounds that bust
func (s *Statistics) BustRate() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return float64(s.Busts) / float64(s.Rounds)
}

// Validate checks the counters agree with each other
func (s *Statistics) Validate() error {
	if len(s.Values) != s.Rounds {
		return fmt.Errorf("values length (%d) does not match rounds (%d)", len(s.Values), s.Rounds)
	}
	if s.Busts+s.Checkouts > s.Rounds {
		return fmt.Errorf("busts (%d) and checkouts (%d) exceed rounds (%d)", s.Busts, s.Checkouts, s.Rounds)
	}
	if s.Darts > 3*s.Rounds {
		return fmt.Errorf("darts (%d) exceed three per round (%d rounds)", s.Darts, s.Rounds)
	}
	sum := 0.0
	for _, v := range s.Values {
		sum += v
	}
	if math.Abs(sum-float64(s.Points)) > 1e-9 {
		return fmt.Errorf("points mismatch: total=%d, values=%.0f", s.Points, sum)
	}
	return nil
}
