package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// PlayersCommand manages the saved roster
type PlayersCommand struct {
	Add PlayersAddCommand `cmd:"" help:"Add players to the roster"`
	Rm  PlayersRmCommand  `cmd:"" help:"Remove a player by ID or name"`
	Ls  PlayersLsCommand  `cmd:"" default:"1" help:"List the roster"`
}

// PlayersAddCommand adds one player per argument
type PlayersAddCommand struct {
	Names []string `arg:"" name:"name" help:"Player names (quote names with spaces)"`
}

func (cmd *PlayersAddCommand) Run(flags *GlobalFlags, out io.Writer) error {
	session, err := Setup(flags, os.Stderr)
	if err != nil {
		return err
	}
	defer session.Close()

	engine := session.NewEngine(context.Background())
	for _, name := range cmd.Names {
		p, ok := engine.AddPlayer(name)
		if !ok {
			return fmt.Errorf("cannot add player %q", name)
		}
		fmt.Fprintf(out, "Added %s (%s)\n", p.Name, p.ID)
	}
	return nil
}

// PlayersRmCommand removes a player
type PlayersRmCommand struct {
	Player string `arg:"" name:"player" help:"Player ID or name"`
}

func (cmd *PlayersRmCommand) Run(flags *GlobalFlags, out io.Writer) error {
	session, err := Setup(flags, os.Stderr)
	if err != nil {
		return err
	}
	defer session.Close()

	engine := session.NewEngine(context.Background())
	p, ok := engine.FindPlayer(cmd.Player)
	if !ok || !engine.RemovePlayer(p.ID) {
		return fmt.Errorf("no player %q", cmd.Player)
	}
	fmt.Fprintf(out, "Removed %s (%s)\n", p.Name, p.ID)
	return nil
}

// PlayersLsCommand prints the roster
type PlayersLsCommand struct{}

func (cmd *PlayersLsCommand) Run(flags *GlobalFlags, out io.Writer) error {
	session, err := Setup(flags, os.Stderr)
	if err != nil {
		return err
	}
	defer session.Close()

	snap := session.NewEngine(context.Background()).Snapshot()
	if len(snap.Players) == 0 {
		fmt.Fprintln(out, "No players")
		return nil
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "Name", "Score", "Darts")
	for _, p := range snap.Players {
		t.Row(p.ID, p.Name, strconv.Itoa(p.Score), strconv.Itoa(len(p.ThrowHistory)))
	}
	fmt.Fprintf(out, "Mode %s\n%s\n", snap.Mode, t.String())
	return nil
}
