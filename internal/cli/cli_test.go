package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/doubleout/internal/command"
	"github.com/lox/doubleout/internal/game"
)

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

// tempFlags points the config and the file store into a fresh directory.
func tempFlags(t *testing.T) *GlobalFlags {
	t.Helper()
	dir := t.TempDir()
	return &GlobalFlags{
		Config:    filepath.Join(dir, "darts.hcl"),
		Store:     "file",
		StorePath: filepath.Join(dir, "state.json"),
		LogLevel:  "error",
	}
}

func writeScript(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "game.darts")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644))
	return path
}

func TestLoadConfigFlagsOverride(t *testing.T) {
	flags := tempFlags(t)
	flags.Mode = 301
	flags.LogFile = "play.log"

	cfg, err := LoadConfig(flags)
	require.NoError(t, err)
	assert.Equal(t, 301, cfg.Game.Mode)
	assert.Equal(t, "file", cfg.Store.Backend)
	assert.Equal(t, flags.StorePath, cfg.Store.Path)
	assert.Equal(t, "error", cfg.Log.Level)
	assert.Equal(t, "play.log", cfg.Log.File)

	flags.Store = "floppy"
	_, err = LoadConfig(flags)
	assert.Error(t, err)

	flags = tempFlags(t)
	flags.Mode = 401
	_, err = LoadConfig(flags)
	assert.Error(t, err)
}

func TestLoadConfigBadFile(t *testing.T) {
	flags := tempFlags(t)
	require.NoError(t, os.WriteFile(flags.Config, []byte("game {\n  mode = \n"), 0o644))

	_, err := LoadConfig(flags)
	assert.ErrorContains(t, err, "error loading config")
}

func TestSessionEngineUsesConfiguredMode(t *testing.T) {
	flags := tempFlags(t)
	flags.Mode = 701

	session, err := Setup(flags, io.Discard)
	require.NoError(t, err)
	defer session.Close()

	e := session.NewEngine(t.Context())
	assert.Equal(t, game.Mode701, e.Snapshot().Mode)

	_, ok := e.AddPlayer("alex")
	require.True(t, ok)
	_, err = os.Stat(flags.StorePath)
	assert.NoError(t, err, "adding a player saves the setup")
}

func TestPlayersCommands(t *testing.T) {
	flags := tempFlags(t)

	var out bytes.Buffer
	add := &PlayersAddCommand{Names: []string{"alex", "bea"}}
	require.NoError(t, add.Run(flags, &out))
	assert.Contains(t, out.String(), "Added Alex (")
	assert.Contains(t, out.String(), "Added Bea (")

	out.Reset()
	require.NoError(t, (&PlayersLsCommand{}).Run(flags, &out))
	assert.Contains(t, out.String(), "Mode 501")
	assert.Contains(t, out.String(), "Alex")
	assert.Contains(t, out.String(), "Bea")

	out.Reset()
	require.NoError(t, (&PlayersRmCommand{Player: "alex"}).Run(flags, &out))
	assert.Contains(t, out.String(), "Removed Alex")

	out.Reset()
	require.NoError(t, (&PlayersLsCommand{}).Run(flags, &out))
	assert.NotContains(t, out.String(), "Alex")
	assert.Contains(t, out.String(), "Bea")

	err := (&PlayersRmCommand{Player: "nobody"}).Run(flags, &out)
	assert.ErrorContains(t, err, `no player "nobody"`)

	err = (&PlayersAddCommand{Names: []string{"   "}}).Run(flags, &out)
	assert.Error(t, err)
}

func TestPlayersLsEmpty(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, (&PlayersLsCommand{}).Run(tempFlags(t), &out))
	assert.Equal(t, "No players\n", out.String())
}

func TestReplay(t *testing.T) {
	e := game.NewEngine(quietLogger())
	script := strings.Join([]string{
		"# two players, 301",
		"add alex",
		"add bea",
		"mode 301",
		"",
		"start",
		"t20",
		"t20",
		"t20",
		"commit",
		"next",
	}, "\n")

	var out bytes.Buffer
	var warnings []string
	warn := func(msg any, keyvals ...any) { warnings = append(warnings, fmt.Sprint(msg)) }

	require.NoError(t, Replay(e, strings.NewReader(script), &out, false, warn))

	text := out.String()
	assert.Contains(t, text, "Alex joined")
	assert.Contains(t, text, "Mode set to 301")
	assert.Contains(t, text, "Alex scores 180 in round 1 [t20 t20 t20] (301 → 121)")
	assert.Contains(t, text, "301 • in_progress")
	assert.Empty(t, warnings)

	snap := e.Snapshot()
	assert.Equal(t, 121, snap.Players[0].Score)
	assert.Equal(t, 0, snap.CurrentIndex, "next skips Bea back to Alex")
}

func TestReplayStopsPrintingAfterReturn(t *testing.T) {
	e := game.NewEngine(quietLogger())

	var out bytes.Buffer
	require.NoError(t, Replay(e, strings.NewReader("add alex\n"), &out, true, func(any, ...any) {}))
	printed := out.String()

	_, ok := e.AddPlayer("bea")
	require.True(t, ok)
	assert.Equal(t, printed, out.String())
	assert.NotContains(t, out.String(), "Bea joined")
}

func TestReplayIgnoredCommands(t *testing.T) {
	var warnings []string
	warn := func(msg any, keyvals ...any) { warnings = append(warnings, fmt.Sprint(msg)) }

	err := Replay(game.NewEngine(quietLogger()), strings.NewReader("commit\nadd alex\n"), io.Discard, false, warn)
	require.NoError(t, err)
	assert.Equal(t, []string{"Command ignored"}, warnings)

	err = Replay(game.NewEngine(quietLogger()), strings.NewReader("add alex\ncommit\n"), io.Discard, true, warn)
	assert.EqualError(t, err, "line 2: can't commit in state not_started")
}

func TestReplayParseError(t *testing.T) {
	err := Replay(game.NewEngine(quietLogger()), strings.NewReader("add alex\n\njuggle\n"), io.Discard, false, func(any, ...any) {})
	require.Error(t, err)
	assert.ErrorIs(t, err, command.ErrUnknown)
	assert.Contains(t, err.Error(), "line 3:")
}

func TestReplayWinnerStandings(t *testing.T) {
	e := game.NewEngine(quietLogger())
	script := "add alex\nstart\nscore alex 40\nd20\ncommit\n"

	var out bytes.Buffer
	require.NoError(t, Replay(e, strings.NewReader(script), &out, true, func(any, ...any) {}))
	assert.Contains(t, out.String(), "*** Alex wins in round 1! ***")
	assert.Contains(t, out.String(), "501 • won")
	assert.Contains(t, out.String(), "* Alex")
}

func TestReplayCommandDryRunAndSave(t *testing.T) {
	flags := tempFlags(t)
	script := writeScript(t, "add alex", "start", "t20", "commit")

	var out bytes.Buffer
	require.NoError(t, (&ReplayCommand{File: script}).Run(flags, &out))
	assert.Contains(t, out.String(), "Alex joined")
	_, err := os.Stat(flags.StorePath)
	assert.ErrorIs(t, err, os.ErrNotExist, "dry run leaves the store alone")

	out.Reset()
	require.NoError(t, (&ReplayCommand{File: script, Save: true}).Run(flags, &out))
	_, err = os.Stat(flags.StorePath)
	require.NoError(t, err)

	out.Reset()
	require.NoError(t, (&HistoryCommand{Player: "Alex", Format: "json"}).Run(flags, &out))

	var report struct {
		Mode    int `json:"mode"`
		Players []struct {
			Name   string `json:"name"`
			Score  int    `json:"score"`
			Rounds []struct {
				Total int `json:"total"`
				Darts []struct {
					Label string `json:"label"`
				} `json:"darts"`
			} `json:"rounds"`
		} `json:"players"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))
	assert.Equal(t, 501, report.Mode)
	require.Len(t, report.Players, 1)
	assert.Equal(t, 441, report.Players[0].Score)
	require.Len(t, report.Players[0].Rounds, 1)
	assert.Equal(t, 60, report.Players[0].Rounds[0].Total)
	assert.Equal(t, "Triple 20", report.Players[0].Rounds[0].Darts[0].Label)
}

func TestReplayCommandFresh(t *testing.T) {
	flags := tempFlags(t)

	var out bytes.Buffer
	require.NoError(t, (&PlayersAddCommand{Names: []string{"alex"}}).Run(flags, &out))

	out.Reset()
	script := writeScript(t, "add bea", "start")
	require.NoError(t, (&ReplayCommand{File: script, Fresh: true}).Run(flags, &out))
	assert.Contains(t, out.String(), "Players: Bea")
	assert.NotContains(t, out.String(), "Alex")
}

func TestReplayCommandMissingFile(t *testing.T) {
	err := (&ReplayCommand{File: filepath.Join(t.TempDir(), "nope")}).Run(tempFlags(t), io.Discard)
	assert.ErrorContains(t, err, "failed to open script")
}

func TestHistoryCommandText(t *testing.T) {
	flags := tempFlags(t)

	var out bytes.Buffer
	require.NoError(t, (&HistoryCommand{Format: "text"}).Run(flags, &out))
	assert.Equal(t, "No players.\n", out.String())

	err := (&HistoryCommand{Player: "ghost", Format: "text"}).Run(flags, &out)
	assert.ErrorContains(t, err, "player not found")
}
