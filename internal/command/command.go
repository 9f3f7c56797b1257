// Package command parses the text commands typed into the terminal UI or
// listed in a replay script, and applies them to a game engine.
package command

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lox/doubleout/internal/game"
	"github.com/lox/doubleout/internal/palette"
)

var (
	ErrEmpty   = errors.New("empty command")
	ErrUnknown = errors.New("unknown command")
	ErrUsage   = errors.New("invalid arguments")
)

// Kind identifies what a command does.
type Kind int

const (
	AddPlayer Kind = iota
	RemovePlayer
	SetMode
	SetColor
	ResetColors
	Start
	Restart
	Throw
	Commit
	Reset
	Next
	Score
)

var kindNames = [...]string{
	"add", "rm", "mode", "color", "colors reset", "start", "restart",
	"throw", "commit", "reset", "next", "score",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Command is a parsed command. Only the fields relevant to Kind are set.
type Command struct {
	Kind Kind

	// Player is a raw name for AddPlayer, and an ID or name for RemovePlayer
	// and Score.
	Player     string
	Mode       game.Mode
	Multiplier game.Multiplier
	Color      palette.Color
	Throw      game.Throw
	Score      int
}

// Usage lists every command.
const Usage = `add NAME            add a player
rm ID|NAME          remove a player
mode 301|501|701    choose the starting score
color single|double|triple COLOR
colors reset        restore the default colors
start, restart      start a new game
s20 d20 t20 20      record a dart (25 = outer bull, bull/50 = inner bull)
commit, ok          end the round
reset               clear this round's darts
next                skip to the next player
score ID|NAME N     correct a player's score`

// Parse turns one line of input into a Command.
func Parse(input string) (Command, error) {
	fields := strings.Fields(input)
	if len(fields) == 0 {
		return Command{}, ErrEmpty
	}
	verb := strings.ToLower(fields[0])
	args := fields[1:]

	switch verb {
	case "add":
		if len(args) == 0 {
			return Command{}, usage("add NAME")
		}
		return Command{Kind: AddPlayer, Player: strings.Join(args, " ")}, nil

	case "rm", "remove":
		if len(args) == 0 {
			return Command{}, usage("rm ID|NAME")
		}
		return Command{Kind: RemovePlayer, Player: strings.Join(args, " ")}, nil

	case "mode":
		if len(args) != 1 {
			return Command{}, usage("mode 301|501|701")
		}
		m, err := game.ParseMode(args[0])
		if err != nil {
			return Command{}, fmt.Errorf("%w: %v", ErrUsage, err)
		}
		return Command{Kind: SetMode, Mode: m}, nil

	case "color", "colour":
		return parseColor(args)

	case "colors", "colours":
		if len(args) != 1 || strings.ToLower(args[0]) != "reset" {
			return Command{}, usage("colors reset")
		}
		return Command{Kind: ResetColors}, nil

	case "start":
		return noArgs(Command{Kind: Start}, args)
	case "restart":
		return noArgs(Command{Kind: Restart}, args)
	case "commit", "ok":
		return noArgs(Command{Kind: Commit}, args)
	case "reset":
		return noArgs(Command{Kind: Reset}, args)
	case "next", "skip":
		return noArgs(Command{Kind: Next}, args)

	case "score":
		if len(args) < 2 {
			return Command{}, usage("score ID|NAME N")
		}
		n, err := strconv.Atoi(args[len(args)-1])
		if err != nil || n < 0 {
			return Command{}, usage("score ID|NAME N")
		}
		return Command{Kind: Score, Player: strings.Join(args[:len(args)-1], " "), Score: n}, nil
	}

	if len(args) == 0 {
		if t, ok, err := parseThrow(verb); ok {
			if err != nil {
				return Command{}, fmt.Errorf("%w: %v", ErrUsage, err)
			}
			return Command{Kind: Throw, Throw: t}, nil
		}
	}
	return Command{}, fmt.Errorf("%w: %q", ErrUnknown, fields[0])
}

func usage(form string) error {
	return fmt.Errorf("%w: usage: %s", ErrUsage, form)
}

func noArgs(cmd Command, args []string) (Command, error) {
	if len(args) > 0 {
		return Command{}, usage(cmd.Kind.String())
	}
	return cmd, nil
}

func parseColor(args []string) (Command, error) {
	if len(args) != 2 {
		return Command{}, usage("color single|double|triple COLOR")
	}
	var m game.Multiplier
	switch strings.ToLower(args[0]) {
	case "single", "s", "1":
		m = game.Single
	case "double", "d", "2":
		m = game.Double
	case "triple", "t", "3":
		m = game.Triple
	default:
		return Command{}, usage("color single|double|triple COLOR")
	}
	c, ok := palette.Parse(args[1])
	if !ok {
		return Command{}, fmt.Errorf("%w: unknown color %q", ErrUsage, args[1])
	}
	return Command{Kind: SetColor, Multiplier: m, Color: c}, nil
}

// parseThrow reads s20, d20, t20, 20, 25, bull and 50. ok reports whether
// the token looks like a dart at all; err whether it is a legal one.
func parseThrow(token string) (game.Throw, bool, error) {
	switch token {
	case "bull", "50", "db":
		t, err := game.NewThrow(game.Bull, game.Double)
		return t, true, err
	}

	m := game.Single
	switch token[0] {
	case 's':
		token = token[1:]
	case 'd':
		m = game.Double
		token = token[1:]
	case 't':
		m = game.Triple
		token = token[1:]
	}
	base, err := strconv.Atoi(token)
	if err != nil {
		return game.Throw{}, false, nil
	}
	t, err := game.NewThrow(base, m)
	return t, true, err
}

// Engine is the part of *game.Engine that commands drive.
type Engine interface {
	AddPlayer(rawName string) (game.Player, bool)
	RemovePlayer(id string) bool
	SetMode(m game.Mode) bool
	SetMultiplierColor(m game.Multiplier, c palette.Color) bool
	ResetColors() bool
	StartGame() bool
	QuickReset() bool
	RecordThrow(base int, m game.Multiplier) bool
	CommitRound() bool
	ResetRound() bool
	SkipToNextPlayer() bool
	OverrideScore(playerID string, score int) bool
	FindPlayer(idOrName string) (game.Player, bool)
}

// Apply runs cmd against e and reports whether the engine accepted it.
func Apply(e Engine, cmd Command) bool {
	switch cmd.Kind {
	case AddPlayer:
		_, ok := e.AddPlayer(cmd.Player)
		return ok
	case RemovePlayer:
		p, ok := e.FindPlayer(cmd.Player)
		return ok && e.RemovePlayer(p.ID)
	case SetMode:
		return e.SetMode(cmd.Mode)
	case SetColor:
		return e.SetMultiplierColor(cmd.Multiplier, cmd.Color)
	case ResetColors:
		return e.ResetColors()
	case Start:
		return e.StartGame()
	case Restart:
		return e.QuickReset()
	case Throw:
		return e.RecordThrow(cmd.Throw.Base, cmd.Throw.Multiplier)
	case Commit:
		return e.CommitRound()
	case Reset:
		return e.ResetRound()
	case Next:
		return e.SkipToNextPlayer()
	case Score:
		p, ok := e.FindPlayer(cmd.Player)
		return ok && e.OverrideScore(p.ID, cmd.Score)
	}
	return false
}

// Run parses and applies one line.
func Run(e Engine, input string) (Command, bool, error) {
	cmd, err := Parse(input)
	if err != nil {
		return Command{}, false, err
	}
	return cmd, Apply(e, cmd), nil
}
