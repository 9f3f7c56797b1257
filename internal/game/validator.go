package game

import "fmt"

// OutcomeKind classifies the state of a round after its latest throw.
type OutcomeKind int

const (
	// Continue means the round is still live.
	Continue OutcomeKind = iota
	// Bust means the round's points will be discarded.
	Bust
	// Finish means the round checks out on a double.
	Finish
)

var outcomeNames = [...]string{"continue", "bust", "finish"}

func (k OutcomeKind) String() string {
	if k < 0 || int(k) >= len(outcomeNames) {
		return fmt.Sprintf("OutcomeKind(%d)", int(k))
	}
	return outcomeNames[k]
}

// Bust reasons shown to players.
const (
	ReasonBelowZeroOrOne = "Score cannot go below 0 or be exactly 1"
	ReasonNeedDouble     = "Must finish with a double"
)

// Outcome is the result of evaluating a round. Reason is set for busts.
type Outcome struct {
	Kind   OutcomeKind
	Reason string
}

func (o Outcome) IsBust() bool   { return o.Kind == Bust }
func (o Outcome) IsFinish() bool { return o.Kind == Finish }

// RoundTotal sums the points of throws.
func RoundTotal(throws []Throw) int {
	total := 0
	for _, t := range throws {
		total += t.Base * int(t.Multiplier)
	}
	return total
}

// Projected is the score left if the round were committed now.
func Projected(startScore int, throws []Throw) int {
	return startScore - RoundTotal(throws)
}

// Evaluate applies the double-out rules to the throws of a round starting
// from startScore. It has no side effects and is safe to call repeatedly.
func Evaluate(startScore int, throws []Throw) Outcome {
	projected := Projected(startScore, throws)

	switch {
	case projected < 0 || projected == 1:
		return Outcome{Kind: Bust, Reason: ReasonBelowZeroOrOne}
	case projected == 0:
		if len(throws) > 0 && throws[len(throws)-1].Multiplier == Double {
			return Outcome{Kind: Finish}
		}
		return Outcome{Kind: Bust, Reason: ReasonNeedDouble}
	default:
		return Outcome{Kind: Continue}
	}
}
