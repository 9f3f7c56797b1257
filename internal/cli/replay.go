package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/lox/doubleout/internal/command"
	"github.com/lox/doubleout/internal/game"
)

// ReplayCommand feeds a script of interpreter commands through a fresh engine
// and prints every event. Lines starting with # are comments.
type ReplayCommand struct {
	File   string `arg:"" help:"Script file, or - for stdin"`
	Save   bool   `help:"Save the resulting setup to the configured store"`
	Fresh  bool   `help:"Start from the configured defaults instead of the saved roster"`
	Strict bool   `help:"Fail when a command is not allowed in the current state"`
}

func (cmd *ReplayCommand) Run(flags *GlobalFlags, out io.Writer) error {
	session, err := Setup(flags, os.Stderr)
	if err != nil {
		return err
	}
	defer session.Close()

	var in io.Reader = os.Stdin
	if cmd.File != "-" {
		f, err := os.Open(cmd.File)
		if err != nil {
			return fmt.Errorf("failed to open script: %w", err)
		}
		defer f.Close()
		in = f
	}

	var opts []game.EngineOption
	if cmd.Fresh {
		opts = append(opts, game.WithSetup(session.Config.DefaultSetup()))
	}
	if !cmd.Save {
		// Dry run: changes stay in memory
		opts = append(opts, game.WithPersister(nil))
	}
	engine := session.NewEngine(context.Background(), opts...)

	return Replay(engine, in, out, cmd.Strict, session.Logger.Warn)
}

// Replay runs each script line through the interpreter, writing formatted
// events and the final standings to out. Ignored commands are passed to warn
// unless strict is set, in which case they stop the replay.
func Replay(engine *game.Engine, in io.Reader, out io.Writer, strict bool, warn func(msg any, keyvals ...any)) error {
	printer := &eventPrinter{out: out, formatter: game.NewEventFormatter(game.FormattingOptions{})}
	engine.GetEventBus().Subscribe(printer)
	defer engine.GetEventBus().Unsubscribe(printer)

	scanner := bufio.NewScanner(in)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parsed, applied, err := command.Run(engine, line)
		if err != nil {
			return fmt.Errorf("line %d: %w", lineNo, err)
		}
		if !applied {
			if strict {
				return fmt.Errorf("line %d: can't %s in state %s", lineNo, parsed.Kind, engine.State())
			}
			warn("Command ignored", "line", lineNo, "command", line)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read script: %w", err)
	}

	writeStandings(out, engine.Snapshot())
	return nil
}

// eventPrinter writes each event as formatted text
type eventPrinter struct {
	out       io.Writer
	formatter *game.EventFormatter
}

func (p *eventPrinter) OnEvent(event game.GameEvent) {
	fmt.Fprintln(p.out, p.formatter.Format(event))
}

func writeStandings(out io.Writer, snap game.Snapshot) {
	fmt.Fprintf(out, "\n%s • %s\n", snap.Mode, snap.State)
	for i, p := range snap.Players {
		marker := " "
		switch {
		case snap.Winner != nil && snap.Winner.ID == p.ID:
			marker = "*"
		case snap.State == game.InProgress && i == snap.CurrentIndex:
			marker = ">"
		}
		fmt.Fprintf(out, "%s %-12s %4d\n", marker, p.Name, p.Score)
	}
}
