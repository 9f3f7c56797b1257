// Package cli implements the darts subcommands.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/lox/doubleout/internal/config"
	"github.com/lox/doubleout/internal/game"
	"github.com/lox/doubleout/internal/store"
)

// GlobalFlags holds common configuration for all commands
type GlobalFlags struct {
	Config     string `short:"c" long:"config" default:"darts.hcl" help:"Path to HCL configuration file"`
	Mode       int    `short:"m" long:"mode" help:"Starting score for a fresh roster: 301, 501 or 701 (overrides config)"`
	Store      string `long:"store" help:"Store backend: file, redis, sqlite or memory (overrides config)"`
	StorePath  string `long:"store-path" help:"JSON file for the file store (overrides config)"`
	RedisURL   string `long:"redis-url" help:"Redis URL for the redis store (overrides config)"`
	SQLitePath string `long:"sqlite-path" help:"Database file for the sqlite store (overrides config)"`
	LogLevel   string `short:"l" long:"log-level" help:"Log level (overrides config)"`
	LogFile    string `long:"log-file" help:"Log file path (overrides config)"`
}

// Session is the configuration, logger and store shared by a command run.
type Session struct {
	Config *config.Config
	Logger *log.Logger
	Store  store.Store

	closers []func() error
}

// LoadConfig reads the config file, then the environment, then the flags.
func LoadConfig(flags *GlobalFlags) (*config.Config, error) {
	cfg, err := config.Load(flags.Config)
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}

	// Apply command line overrides
	if flags.Mode != 0 {
		cfg.Game.Mode = flags.Mode
	}
	if flags.Store != "" {
		cfg.Store.Backend = flags.Store
	}
	if flags.StorePath != "" {
		cfg.Store.Path = flags.StorePath
	}
	if flags.RedisURL != "" {
		cfg.Store.RedisURL = flags.RedisURL
	}
	if flags.SQLitePath != "" {
		cfg.Store.SQLitePath = flags.SQLitePath
	}
	if flags.LogLevel != "" {
		cfg.Log.Level = flags.LogLevel
	}
	if flags.LogFile != "" {
		cfg.Log.File = flags.LogFile
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Setup loads the configuration and opens the store, logging to logWriter
func Setup(flags *GlobalFlags, logWriter io.Writer) (*Session, error) {
	cfg, err := LoadConfig(flags)
	if err != nil {
		return nil, err
	}
	return setupConfigured(cfg, logWriter)
}

// SetupWithFileLogging is Setup with logs written to the configured log file,
// truncated on every run, so they stay out of the terminal UI
func SetupWithFileLogging(flags *GlobalFlags) (*Session, error) {
	cfg, err := LoadConfig(flags)
	if err != nil {
		return nil, err
	}

	logFile, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o666)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	s, err := setupConfigured(cfg, logFile)
	if err != nil {
		_ = logFile.Close()
		return nil, err
	}
	s.closers = append(s.closers, logFile.Close)
	return s, nil
}

func setupConfigured(cfg *config.Config, logWriter io.Writer) (*Session, error) {
	logger := log.NewWithOptions(logWriter, log.Options{
		Level:           cfg.LogLevel(),
		ReportTimestamp: true,
	})

	st, err := store.Open(cfg.StoreOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	logger.Debug("Store opened", "backend", cfg.Store.Backend)

	return &Session{
		Config:  cfg,
		Logger:  logger,
		Store:   st,
		closers: []func() error{st.Close},
	}, nil
}

// NewEngine restores the saved setup (or the configured defaults) into a new
// engine that saves back to the session's store.
func (s *Session) NewEngine(ctx context.Context, opts ...game.EngineOption) *game.Engine {
	setup := store.LoadOr(ctx, s.Store, s.Config.DefaultSetup(), s.Logger)
	base := []game.EngineOption{
		game.WithSetup(setup),
		game.WithPersister(s.Store),
		game.WithSaveTimeout(s.Config.SaveTimeout()),
	}
	return game.NewEngine(s.Logger, append(base, opts...)...)
}

// Close releases the store and the log file
func (s *Session) Close() {
	for _, closer := range s.closers {
		if err := closer(); err != nil {
			s.Logger.Warn("Cleanup failed", "error", err)
		}
	}
}
