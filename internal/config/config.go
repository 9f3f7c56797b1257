// Package config loads darts.hcl and applies DARTS_* environment overrides.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/doubleout/internal/game"
	"github.com/lox/doubleout/internal/palette"
	"github.com/lox/doubleout/internal/store"
)

// DefaultFile is the config file read when no path is given.
const DefaultFile = "darts.hcl"

// Config represents the complete configuration
type Config struct {
	Game   GameSettings
	Store  StoreSettings
	Colors ColorSettings
	Log    LogSettings
}

// GameSettings contains defaults for new games
type GameSettings struct {
	Mode          int `hcl:"mode,optional"`
	SaveTimeoutMS int `hcl:"save_timeout_ms,optional"`
}

// StoreSettings selects where the roster is saved
type StoreSettings struct {
	Backend    string `hcl:"backend,optional"`
	Path       string `hcl:"path,optional"`
	RedisURL   string `hcl:"redis_url,optional"`
	RedisKey   string `hcl:"redis_key,optional"`
	SQLitePath string `hcl:"sqlite_path,optional"`
}

// ColorSettings are the multiplier colors used until the player picks others
type ColorSettings struct {
	Single string `hcl:"single,optional"`
	Double string `hcl:"double,optional"`
	Triple string `hcl:"triple,optional"`
}

// LogSettings contains logging settings
type LogSettings struct {
	Level string `hcl:"level,optional"`
	File  string `hcl:"file,optional"`
}

// fileConfig mirrors Config with optional blocks for decoding.
type fileConfig struct {
	Game   *GameSettings  `hcl:"game,block"`
	Store  *StoreSettings `hcl:"store,block"`
	Colors *ColorSettings `hcl:"colors,block"`
	Log    *LogSettings   `hcl:"log,block"`
}

// envOverrides are read from DARTS_* variables. Unset variables leave the
// file values alone.
type envOverrides struct {
	Mode         int    `env:"MODE"`
	StoreBackend string `env:"STORE_BACKEND"`
	StorePath    string `env:"STORE_PATH"`
	RedisURL     string `env:"REDIS_URL"`
	SQLitePath   string `env:"SQLITE_PATH"`
	LogLevel     string `env:"LOG_LEVEL"`
	LogFile      string `env:"LOG_FILE"`
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	defaults := palette.Default()
	return &Config{
		Game: GameSettings{
			Mode:          int(game.DefaultMode),
			SaveTimeoutMS: 2000,
		},
		Store: StoreSettings{
			Backend:  store.BackendFile,
			Path:     store.DefaultPath,
			RedisKey: store.DefaultRedisKey,
		},
		Colors: ColorSettings{
			Single: defaults.Single.String(),
			Double: defaults.Double.String(),
			Triple: defaults.Triple.String(),
		},
		Log: LogSettings{
			Level: "info",
			File:  "darts.log",
		},
	}
}

// Load loads configuration from an HCL file. A missing file gives the
// defaults.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var raw fileConfig
	diags = gohcl.DecodeBody(file.Body, nil, &raw)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	config := DefaultConfig()
	if raw.Game != nil {
		config.Game = *raw.Game
	}
	if raw.Store != nil {
		config.Store = *raw.Store
	}
	if raw.Colors != nil {
		config.Colors = *raw.Colors
	}
	if raw.Log != nil {
		config.Log = *raw.Log
	}
	config.applyDefaults()
	return config, nil
}

// applyDefaults fills in values left out of a partial block.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()

	if c.Game.Mode == 0 {
		c.Game.Mode = defaults.Game.Mode
	}
	if c.Game.SaveTimeoutMS == 0 {
		c.Game.SaveTimeoutMS = defaults.Game.SaveTimeoutMS
	}

	if c.Store.Backend == "" {
		c.Store.Backend = defaults.Store.Backend
	}
	if c.Store.Path == "" {
		c.Store.Path = defaults.Store.Path
	}
	if c.Store.RedisKey == "" {
		c.Store.RedisKey = defaults.Store.RedisKey
	}

	if c.Colors.Single == "" {
		c.Colors.Single = defaults.Colors.Single
	}
	if c.Colors.Double == "" {
		c.Colors.Double = defaults.Colors.Double
	}
	if c.Colors.Triple == "" {
		c.Colors.Triple = defaults.Colors.Triple
	}

	if c.Log.Level == "" {
		c.Log.Level = defaults.Log.Level
	}
	if c.Log.File == "" {
		c.Log.File = defaults.Log.File
	}
}

// ApplyEnv overrides settings from DARTS_* environment variables.
func (c *Config) ApplyEnv() error {
	var o envOverrides
	if err := env.ParseWithOptions(&o, env.Options{Prefix: "DARTS_"}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	if o.Mode != 0 {
		c.Game.Mode = o.Mode
	}
	if o.StoreBackend != "" {
		c.Store.Backend = o.StoreBackend
	}
	if o.StorePath != "" {
		c.Store.Path = o.StorePath
	}
	if o.RedisURL != "" {
		c.Store.RedisURL = o.RedisURL
	}
	if o.SQLitePath != "" {
		c.Store.SQLitePath = o.SQLitePath
	}
	if o.LogLevel != "" {
		c.Log.Level = o.LogLevel
	}
	if o.LogFile != "" {
		c.Log.File = o.LogFile
	}
	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if !game.Mode(c.Game.Mode).Valid() {
		return fmt.Errorf("invalid game mode: %d", c.Game.Mode)
	}
	if c.Game.SaveTimeoutMS <= 0 {
		return fmt.Errorf("save timeout must be positive")
	}

	switch strings.ToLower(c.Store.Backend) {
	case store.BackendFile, store.BackendMemory:
	case store.BackendRedis:
		if c.Store.RedisURL == "" {
			return fmt.Errorf("redis backend requires redis_url")
		}
	case store.BackendSQLite:
		if c.Store.SQLitePath == "" {
			return fmt.Errorf("sqlite backend requires sqlite_path")
		}
	default:
		return fmt.Errorf("invalid store backend: %s", c.Store.Backend)
	}

	for name, value := range map[string]string{
		"single": c.Colors.Single,
		"double": c.Colors.Double,
		"triple": c.Colors.Triple,
	} {
		if _, ok := palette.Parse(value); !ok {
			return fmt.Errorf("invalid %s color: %s", name, value)
		}
	}

	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", c.Log.Level)
	}
	return nil
}

// Mode returns the configured mode, falling back to 501.
func (c *Config) Mode() game.Mode {
	m := game.Mode(c.Game.Mode)
	if !m.Valid() {
		return game.DefaultMode
	}
	return m
}

// MultiplierColors returns the configured colors. Unknown names fall back to
// the defaults.
func (c *Config) MultiplierColors() palette.MultiplierColors {
	single, _ := palette.Parse(c.Colors.Single)
	double, _ := palette.Parse(c.Colors.Double)
	triple, _ := palette.Parse(c.Colors.Triple)
	return palette.MultiplierColors{Single: single, Double: double, Triple: triple}.Normalize()
}

// DefaultSetup is the setup used when nothing has been saved yet.
func (c *Config) DefaultSetup() game.Setup {
	return game.Setup{
		Players: []game.Player{},
		Mode:    c.Mode(),
		Colors:  c.MultiplierColors(),
	}
}

// SaveTimeout bounds each save to the store.
func (c *Config) SaveTimeout() time.Duration {
	return time.Duration(c.Game.SaveTimeoutMS) * time.Millisecond
}

// StoreOptions returns the options for store.Open.
func (c *Config) StoreOptions() store.Options {
	return store.Options{
		Backend:    c.Store.Backend,
		Path:       c.Store.Path,
		RedisURL:   c.Store.RedisURL,
		RedisKey:   c.Store.RedisKey,
		SQLitePath: c.Store.SQLitePath,
	}
}

// LogLevel returns the configured level, or info when it cannot be parsed.
func (c *Config) LogLevel() log.Level {
	level, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel
	}
	return level
}
