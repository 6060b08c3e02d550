package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lox/partycards/internal/config"
	"github.com/lox/partycards/internal/packs"
	"github.com/lox/partycards/internal/sessionid"
	"github.com/lox/partycards/internal/storage"
	"github.com/lox/partycards/internal/tui"
)

const fetchTimeout = 60 * time.Second

// app holds what every command needs after startup
type app struct {
	cfg     *config.Config
	env     *config.Env
	logger  *log.Logger
	store   storage.Store
	fetcher *packs.DirFetcher
	manager *packs.Manager
}

// loadConfig reads the .env file, the HCL file and the environment, in
// that order, then applies flag overrides
func loadConfig(g *Globals) (*config.Config, *config.Env, error) {
	if err := config.LoadDotEnv(g.EnvFile); err != nil {
		return nil, nil, err
	}
	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}
	env, err := config.FromEnv(cfg)
	if err != nil {
		return nil, nil, err
	}
	if g.LogLevel != "" {
		cfg.Server.LogLevel = strings.ToLower(g.LogLevel)
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if g.NoColor {
		tui.DisableColor()
	}
	return cfg, env, nil
}

// newLogger creates the process logger at the configured level
func newLogger(level string) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})
	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}
	logger.SetLevel(lvl)
	return logger
}

// setup loads configuration, opens the pack store and loads every cached
// collection into a manager
func setup(ctx context.Context, g *Globals) (*app, error) {
	cfg, env, err := loadConfig(g)
	if err != nil {
		return nil, err
	}
	logger := newLogger(cfg.Server.LogLevel)

	store, err := storage.Open(ctx, cfg.StorageOptions())
	if err != nil {
		return nil, fmt.Errorf("opening %s storage: %w", cfg.Storage.Backend, err)
	}

	// Relative source URLs name files in the static directory
	fetcher := &packs.DirFetcher{
		Dir:  cfg.Server.StaticDir,
		Next: packs.NewHTTPFetcher(cfg.Server.BaseURL, fetchTimeout),
	}
	manager := packs.NewManager(store,
		packs.WithFetcher(fetcher),
		packs.WithLogger(logger),
	)
	if err := manager.Refresh(ctx); err != nil {
		// Malformed entries are skipped; the rest stay usable
		logger.Warn("Some cached packs could not be loaded", "error", err)
	}

	return &app{cfg: cfg, env: env, logger: logger, store: store, fetcher: fetcher, manager: manager}, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.logger.Warn("Failed to close storage", "error", err)
	}
}

// SessionFlags are the parameters that pick a player's deal
type SessionFlags struct {
	Seed    string `short:"s" help:"Shared session seed (default: $PARTYCARDS_SEED or a generated code)"`
	Players int    `short:"p" help:"Number of players sharing the seed (default from config)"`
	Index   int    `short:"i" default:"0" help:"This player's index, starting at 0"`
	Cards   int    `short:"n" help:"Cards per hand (default from config)"`
	Packs   string `short:"k" help:"Comma separated collection:pack selections (default from config)"`
}

// resolve fills unset flags from the environment and config
func (f SessionFlags) resolve(a *app) (SessionFlags, []packs.RawSelection, error) {
	if f.Seed == "" {
		f.Seed = a.env.Seed
	}
	if f.Seed == "" {
		f.Seed = sessionid.Generate()
	}
	if f.Players == 0 {
		f.Players = a.cfg.Game.Players
	}
	if f.Cards == 0 {
		f.Cards = a.cfg.Game.CardsPerPlayer
	}

	sels := a.cfg.DefaultSelections()
	if f.Packs != "" {
		parsed, err := packs.ParseRawSelections(f.Packs)
		if err != nil {
			return f, nil, err
		}
		sels = parsed
	}
	if len(sels) == 0 {
		return f, nil, fmt.Errorf("no packs selected: pass --packs collection:pack or set game.packs")
	}
	return f, sels, nil
}
