package main

import (
	"io"
	"os"

	"github.com/alecthomas/kong"

	"github.com/lox/doubleout/internal/cli"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	cli.GlobalFlags `embed:""`

	Version kong.VersionFlag   `short:"v" help:"Show version"`
	Play    cli.PlayCommand    `cmd:"" default:"1" help:"Keep score interactively (default)"`
	Players cli.PlayersCommand `cmd:"" help:"Manage the saved roster"`
	History cli.HistoryCommand `cmd:"" help:"Show throw histories by round"`
	Replay  cli.ReplayCommand  `cmd:"" help:"Run a script of scoring commands"`
}

func main() {
	var c CLI
	ctx := kong.Parse(&c,
		kong.Name("darts"),
		kong.Description("Scorekeeper for 301, 501 and 701 double-out darts"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
		kong.BindTo(os.Stdout, (*io.Writer)(nil)),
	)
	err := ctx.Run(&c.GlobalFlags)
	ctx.FatalIfErrorf(err)
}
