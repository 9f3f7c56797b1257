package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lox/doubleout/internal/tui"
)

// PlayCommand runs an interactive scoring session in the terminal
type PlayCommand struct {
	Start bool `help:"Start a game immediately with the saved roster"`
}

func (cmd *PlayCommand) Run(flags *GlobalFlags) error {
	session, err := SetupWithFileLogging(flags)
	if err != nil {
		return err
	}
	defer session.Close()

	engine := session.NewEngine(context.Background())
	model := tui.NewTUIModel(engine, session.Logger)

	if cmd.Start && !engine.StartGame() {
		model.AddLogEntry(tui.WarningStyle.Render("Add a player before starting"))
	}

	session.Logger.Info("Starting session", "players", len(engine.Snapshot().Players), "mode", engine.Snapshot().Mode)
	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("terminal UI failed: %w", err)
	}
	session.Logger.Info("Session ended")
	return nil
}
