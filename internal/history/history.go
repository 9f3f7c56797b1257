// Package history turns the throw histories stored with the roster into
// reports, newest round first, and renders them as text, JSON or YAML.
package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"gopkg.in/yaml.v3"

	"github.com/lox/doubleout/internal/game"
	"github.com/lox/doubleout/internal/statistics"
)

var (
	ErrPlayerNotFound = errors.New("player not found")
	ErrUnknownFormat  = errors.New("unknown format")
)

// Formats accepted by Write.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Report is the history of every player, or of one.
type Report struct {
	Mode    game.Mode       `json:"mode" yaml:"mode"`
	Players []PlayerHistory `json:"players" yaml:"players"`
}

// PlayerHistory is one player's rounds, newest first.
type PlayerHistory struct {
	ID     string  `json:"id" yaml:"id"`
	Name   string  `json:"name" yaml:"name"`
	Score  int     `json:"score" yaml:"score"`
	Stats  Stats   `json:"stats" yaml:"stats"`
	Rounds []Round `json:"rounds" yaml:"rounds"`
}

// Stats summarises a player's rounds. Average is the three-dart average,
// with busts counting as zero; Mean, Median, P90 and StdDev are points per
// round.
type Stats struct {
	Average      float64 `json:"average" yaml:"average"`
	Mean         float64 `json:"mean" yaml:"mean"`
	Median       float64 `json:"median" yaml:"median"`
	P90          float64 `json:"p90" yaml:"p90"`
	StdDev       float64 `json:"stdDev" yaml:"stdDev"`
	BustRate     float64 `json:"bustRate" yaml:"bustRate"`
	Rounds       int     `json:"rounds" yaml:"rounds"`
	Darts        int     `json:"darts" yaml:"darts"`
	HighRound    int     `json:"highRound" yaml:"highRound"`
	Tons         int     `json:"tons" yaml:"tons"`
	TonForties   int     `json:"tonForties" yaml:"tonForties"`
	Maximums     int     `json:"maximums" yaml:"maximums"`
	Busts        int     `json:"busts" yaml:"busts"`
	Checkouts    int     `json:"checkouts" yaml:"checkouts"`
	HighCheckout int     `json:"highCheckout" yaml:"highCheckout"`
}

// Round is one visit to the board.
type Round struct {
	Round int    `json:"round" yaml:"round"`
	Total int    `json:"total" yaml:"total"`
	Darts []Dart `json:"darts" yaml:"darts"`
}

// Dart is one recorded throw. Remaining is the score before it was thrown.
type Dart struct {
	Label      string `json:"label" yaml:"label"`
	Base       int    `json:"base" yaml:"base"`
	Multiplier int    `json:"multiplier" yaml:"multiplier"`
	Points     int    `json:"points" yaml:"points"`
	Remaining  int    `json:"remaining" yaml:"remaining"`
}

// Label names a throw the way players call it: "Triple 20", "Double Bull".
func Label(t game.Throw) string {
	target := strconv.Itoa(t.Base)
	if t.Base == game.Bull {
		target = "Bull"
	}
	return t.Multiplier.String() + " " + target
}

// Build collects the history of every player in setup. A non-empty player
// restricts the report to the player with that ID or name.
func Build(setup game.Setup, player string) (Report, error) {
	report := Report{Mode: setup.Mode, Players: []PlayerHistory{}}
	want := game.NormalizeName(player)

	for _, p := range setup.Players {
		if player != "" && p.ID != player && p.Name != want {
			continue
		}
		ph, err := buildPlayer(p)
		if err != nil {
			return Report{}, err
		}
		report.Players = append(report.Players, ph)
	}

	if player != "" && len(report.Players) == 0 {
		return Report{}, fmt.Errorf("%w: %s", ErrPlayerNotFound, player)
	}
	return report, nil
}

func buildPlayer(p game.Player) (PlayerHistory, error) {
	stats := statistics.FromHistory(p.ThrowHistory)
	if err := stats.Validate(); err != nil {
		return PlayerHistory{}, fmt.Errorf("history of %s: %w", p.Name, err)
	}

	groups := game.GroupHistory(p.ThrowHistory)
	slices.Reverse(groups)

	ph := PlayerHistory{
		ID:     p.ID,
		Name:   p.Name,
		Score:  p.Score,
		Stats:  summarise(stats),
		Rounds: make([]Round, 0, len(groups)),
	}
	for _, g := range groups {
		r := Round{Round: g.Round, Total: g.Total, Darts: make([]Dart, 0, len(g.Throws))}
		for _, t := range g.Throws {
			r.Darts = append(r.Darts, Dart{
				Label:      Label(t.Throw),
				Base:       t.Base,
				Multiplier: int(t.Multiplier),
				Points:     t.Total,
				Remaining:  t.Remaining,
			})
		}
		ph.Rounds = append(ph.Rounds, r)
	}
	return ph, nil
}

func summarise(s *statistics.Statistics) Stats {
	return Stats{
		Average:      round2(s.ThreeDartAverage()),
		Mean:         round2(s.Mean()),
		Median:       round2(s.Median()),
		P90:          round2(s.Percentile(0.9)),
		StdDev:       round2(s.StdDev()),
		BustRate:     round2(s.BustRate()),
		Rounds:       s.Rounds,
		Darts:        s.Darts,
		HighRound:    s.HighRound,
		Tons:         s.Tons,
		TonForties:   s.TonForties,
		Maximums:     s.Maximums,
		Busts:        s.Busts,
		Checkouts:    s.Checkouts,
		HighCheckout: s.HighCheckout,
	}
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

// Write renders report to w in format.
func Write(w io.Writer, report Report, format string) error {
	switch strings.ToLower(format) {
	case "", FormatText:
		_, err := io.WriteString(w, Text(report))
		return err
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(report); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
}

var nameStyle = lipgloss.NewStyle().Bold(true)

// Text renders one table per player.
func Text(report Report) string {
	if len(report.Players) == 0 {
		return "No players.\n"
	}

	var b strings.Builder
	for i, p := range report.Players {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(nameStyle.Render(fmt.Sprintf("%s (%s) • %d left", p.Name, p.ID, p.Score)))
		b.WriteString("\n")

		if len(p.Rounds) == 0 {
			b.WriteString("  No throws yet.\n")
			continue
		}
		fmt.Fprintf(&b, "  3-dart avg %.2f • best %d • 180s %d • busts %d\n",
			p.Stats.Average, p.Stats.HighRound, p.Stats.Maximums, p.Stats.Busts)
		fmt.Fprintf(&b, "  per round: mean %.2f • median %.2f • p90 %.2f • sd %.2f • bust rate %.0f%%\n",
			p.Stats.Mean, p.Stats.Median, p.Stats.P90, p.Stats.StdDev, p.Stats.BustRate*100)

		t := table.New().
			Border(lipgloss.NormalBorder()).
			Headers("Round", "Darts", "Total", "From")
		for _, r := range p.Rounds {
			labels := make([]string, len(r.Darts))
			for j, d := range r.Darts {
				labels[j] = d.Label
			}
			from := ""
			if len(r.Darts) > 0 {
				from = strconv.Itoa(r.Darts[0].Remaining)
			}
			t.Row(strconv.Itoa(r.Round), strings.Join(labels, ", "), strconv.Itoa(r.Total), from)
		}
		b.WriteString(t.String())
		b.WriteString("\n")
	}
	return b.String()
}
