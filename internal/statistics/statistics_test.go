package statistics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/doubleout/internal/game"
)

func dart(t *testing.T, base int, m game.Multiplier, round, remaining int) game.PlayerThrow {
	t.Helper()
	th, err := game.NewThrow(base, m)
	require.NoError(t, err)
	return game.PlayerThrow{Throw: th, Round: round, Remaining: remaining}
}

func TestStatistics_Empty(t *testing.T) {
	stats := &Statistics{}

	assert.Zero(t, stats.Mean())
	assert.Zero(t, stats.ThreeDartAverage())
	assert.Zero(t, stats.Variance())
	assert.Zero(t, stats.StdDev())
	assert.Zero(t, stats.Median())
	assert.Zero(t, stats.Percentile(0.9))
	assert.Zero(t, stats.BustRate())
	assert.NoError(t, stats.Validate())
}

func TestStatistics_SingleRound(t *testing.T) {
	stats := &Statistics{}
	stats.Add(RoundResult{Points: 140, Darts: 3})

	assert.Equal(t, 1, stats.Rounds)
	assert.Equal(t, 140.0, stats.Mean())
	assert.Equal(t, 140.0, stats.ThreeDartAverage())
	assert.Zero(t, stats.Variance(), "variance needs two rounds")
	assert.Equal(t, 140.0, stats.Median())
	assert.Equal(t, 1, stats.TonForties)
	assert.Equal(t, 140, stats.HighRound)
	assert.NoError(t, stats.Validate())
}

func TestStatistics_Bands(t *testing.T) {
	stats := &Statistics{}
	for _, points := range []int{99, 100, 139, 140, 179, 180, 180} {
		stats.Add(RoundResult{Points: points, Darts: 3})
	}

	assert.Equal(t, 2, stats.Tons)
	assert.Equal(t, 2, stats.TonForties)
	assert.Equal(t, 2, stats.Maximums)
	assert.Equal(t, 180, stats.HighRound)
}

func TestStatistics_Spread(t *testing.T) {
	stats := &Statistics{}
	for _, points := range []int{20, 40, 60, 80} {
		stats.Add(RoundResult{Points: points, Darts: 3})
	}

	assert.Equal(t, 50.0, stats.Mean())
	assert.InDelta(t, 666.6667, stats.Variance(), 1e-3)
	assert.InDelta(t, math.Sqrt(666.6667), stats.StdDev(), 1e-3)
	assert.Equal(t, 50.0, stats.Median())
	assert.Equal(t, 20.0, stats.Percentile(0))
	assert.Equal(t, 80.0, stats.Percentile(1))
	assert.InDelta(t, 35.0, stats.Percentile(0.25), 1e-9)
}

func TestStatistics_ThreeDartAverageUsesDarts(t *testing.T) {
	stats := &Statistics{}
	stats.Add(RoundResult{Points: 60, Darts: 3})
	stats.Add(RoundResult{Points: 40, Darts: 1, Checkout: true})

	assert.Equal(t, 50.0, stats.Mean())
	assert.Equal(t, 75.0, stats.ThreeDartAverage())
	assert.Equal(t, 1, stats.Checkouts)
	assert.Equal(t, 40, stats.HighCheckout)
}

func TestStatistics_Validate(t *testing.T) {
	stats := &Statistics{}
	stats.Add(RoundResult{Points: 60, Darts: 3})
	require.NoError(t, stats.Validate())

	broken := *stats
	broken.Points = 61
	assert.ErrorContains(t, broken.Validate(), "points mismatch")

	broken = *stats
	broken.Darts = 4
	assert.ErrorContains(t, broken.Validate(), "exceed three per round")

	broken = *stats
	broken.Rounds = 2
	assert.ErrorContains(t, broken.Validate(), "does not match rounds")

	broken = *stats
	broken.Busts = 1
	broken.Checkouts = 1
	assert.ErrorContains(t, broken.Validate(), "exceed rounds")
}

func TestFromHistory(t *testing.T) {
	history := []game.PlayerThrow{
		// 501 → 321
		dart(t, 20, game.Triple, 1, 501),
		dart(t, 20, game.Triple, 1, 441),
		dart(t, 20, game.Triple, 1, 381),
		// 321 → 221
		dart(t, 20, game.Triple, 2, 321),
		dart(t, 20, game.Single, 2, 261),
		dart(t, 20, game.Single, 2, 241),
		// bust from 40: every dart keeps the start score
		dart(t, 20, game.Triple, 3, 40),
		// checkout from 40 with one dart
		dart(t, 20, game.Double, 4, 40),
	}

	stats := FromHistory(history)
	require.NoError(t, stats.Validate())

	assert.Equal(t, 4, stats.Rounds)
	assert.Equal(t, 8, stats.Darts)
	assert.Equal(t, 180+100+0+40, stats.Points)
	assert.Equal(t, 1, stats.Maximums)
	assert.Equal(t, 1, stats.Tons)
	assert.Equal(t, 1, stats.Busts)
	assert.Equal(t, 1, stats.Checkouts)
	assert.Equal(t, 40, stats.HighCheckout)
	assert.Equal(t, 0.25, stats.BustRate())
	assert.Equal(t, 120.0, stats.ThreeDartAverage())
}

func TestFromHistoryNeedDoubleBust(t *testing.T) {
	stats := FromHistory([]game.PlayerThrow{
		dart(t, 20, game.Single, 1, 20),
	})

	assert.Equal(t, 1, stats.Busts)
	assert.Zero(t, stats.Points)
	assert.Zero(t, stats.Checkouts)
}
