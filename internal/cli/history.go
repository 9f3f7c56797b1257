package cli

import (
	"context"
	"io"
	"os"

	"github.com/lox/doubleout/internal/history"
	"github.com/lox/doubleout/internal/store"
)

// HistoryCommand prints saved throw histories grouped by round
type HistoryCommand struct {
	Player string `arg:"" optional:"" help:"Only this player (ID or name)"`
	Format string `short:"f" default:"text" enum:"text,json,yaml" help:"Output format (text, json, yaml)"`
}

func (cmd *HistoryCommand) Run(flags *GlobalFlags, out io.Writer) error {
	session, err := Setup(flags, os.Stderr)
	if err != nil {
		return err
	}
	defer session.Close()

	setup := store.LoadOr(context.Background(), session.Store, session.Config.DefaultSetup(), session.Logger)
	report, err := history.Build(setup, cmd.Player)
	if err != nil {
		return err
	}
	return history.Write(out, report, cmd.Format)
}
