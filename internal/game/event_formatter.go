package game

import (
	"fmt"
	"strings"
)

// FormattingOptions controls how events are formatted for different contexts
type FormattingOptions struct {
	ShowTimestamps bool // Prefix lines with the event time (for log panes)
	TimeFormat     string
}

// EventFormatter provides centralized formatting for all game events
type EventFormatter struct {
	opts FormattingOptions
}

// NewEventFormatter creates a new event formatter with the given options
func NewEventFormatter(opts FormattingOptions) *EventFormatter {
	if opts.TimeFormat == "" {
		opts.TimeFormat = "15:04:05"
	}
	return &EventFormatter{opts: opts}
}

// Format renders any event as one or more human-readable lines. Unknown
// events render as their type name.
func (ef *EventFormatter) Format(event GameEvent) string {
	var text string
	switch e := event.(type) {
	case GameStartEvent:
		text = ef.FormatGameStart(e)
	case ThrowEvent:
		text = ef.FormatThrow(e)
	case RoundCommitEvent:
		text = ef.FormatRoundCommit(e)
	case RoundResetEvent:
		text = fmt.Sprintf("%s: round reset (%s)", e.Player.Name, pluralThrows(len(e.Discarded), "discarded"))
	case TurnChangeEvent:
		text = ef.FormatTurnChange(e)
	case GameWonEvent:
		text = fmt.Sprintf("*** %s wins in round %d! ***", e.Winner.Name, e.Round)
	case ScoreOverrideEvent:
		text = fmt.Sprintf("%s: score corrected %d → %d", e.Player.Name, e.From, e.To)
	case SetupChangeEvent:
		text = e.Description
	default:
		text = event.EventType().String()
	}

	if ef.opts.ShowTimestamps && !event.Timestamp().IsZero() {
		return event.Timestamp().Format(ef.opts.TimeFormat) + " " + text
	}
	return text
}

// FormatGameStart formats a game start event
func (ef *EventFormatter) FormatGameStart(e GameStartEvent) string {
	names := make([]string, len(e.Players))
	for i, p := range e.Players {
		names[i] = p.Name
	}
	return fmt.Sprintf("=== Game %s • %s double-out ===\nPlayers: %s", e.GameID, e.Mode, strings.Join(names, ", "))
}

// FormatThrow formats a single dart with the provisional round outcome
func (ef *EventFormatter) FormatThrow(e ThrowEvent) string {
	line := fmt.Sprintf("%s: %s (%d)", e.Player.Name, e.Throw, e.Throw.Total)
	switch e.Outcome.Kind {
	case Bust:
		return line + " → BUST: " + e.Outcome.Reason
	case Finish:
		return line + " → checkout!"
	default:
		return fmt.Sprintf("%s → %d left", line, e.Projected)
	}
}

// FormatRoundCommit formats the end of a player's round
func (ef *EventFormatter) FormatRoundCommit(e RoundCommitEvent) string {
	throws := make([]string, len(e.Throws))
	for i, t := range e.Throws {
		throws[i] = t.String()
	}
	darts := strings.Join(throws, " ")

	switch e.Outcome.Kind {
	case Bust:
		return fmt.Sprintf("%s busts in round %d [%s]: %s (stays on %d)", e.Player.Name, e.Round, darts, e.Outcome.Reason, e.ScoreBefore)
	case Finish:
		return fmt.Sprintf("%s checks out in round %d [%s]", e.Player.Name, e.Round, darts)
	default:
		return fmt.Sprintf("%s scores %d in round %d [%s] (%d → %d)", e.Player.Name, e.ScoreBefore-e.ScoreAfter, e.Round, darts, e.ScoreBefore, e.ScoreAfter)
	}
}

// FormatTurnChange formats the hand-over to the next player
func (ef *EventFormatter) FormatTurnChange(e TurnChangeEvent) string {
	text := fmt.Sprintf("Round %d • %s to throw (%d)", e.Round, e.Player.Name, e.Player.Score)
	if e.Skipped {
		text += " after a skipped turn"
	}
	return text
}

func pluralThrows(n int, verb string) string {
	if n == 1 {
		return "1 throw " + verb
	}
	return fmt.Sprintf("%d throws %s", n, verb)
}
