package main

import (
	"context"

	"github.com/lox/partycards/internal/packs"
	"github.com/lox/partycards/internal/server"
)

// ServeCmd runs the HTTP and WebSocket server
type ServeCmd struct {
	Addr      string `short:"a" help:"Address to bind to (overrides config)"`
	StaticDir string `help:"Directory of static pack files (overrides config)"`
	Download  bool   `help:"Download every configured source before serving"`
}

func (c *ServeCmd) Run(g *Globals) error {
	a, err := setup(context.Background(), g)
	if err != nil {
		return err
	}
	defer a.Close()

	addr := a.cfg.GetServerAddress()
	if c.Addr != "" {
		addr = c.Addr
	}
	staticDir := a.cfg.Server.StaticDir
	if c.StaticDir != "" {
		staticDir = c.StaticDir
		a.fetcher.Dir = staticDir
	}

	ctx := setupSignalHandler(a.logger)

	if c.Download {
		if err := a.manager.DownloadAll(ctx, a.cfg.PackSources()); err != nil {
			return err
		}
	}

	srv := server.NewServer(addr, a.manager, a.logger,
		server.WithSources(a.cfg.PackSources()),
		server.WithStaticDir(staticDir),
		server.WithIdleTimeout(a.cfg.GetIdleTimeout()),
		server.WithGameDefaults(server.GameDefaults{
			CardsPerPlayer: a.cfg.Game.CardsPerPlayer,
			Players:        a.cfg.Game.Players,
			Packs:          a.cfg.DefaultSelections(),
		}),
	)

	a.logger.Info("Starting partycards server",
		"addr", addr,
		"storage", a.cfg.Storage.Backend,
		"collections", len(a.manager.Names()),
		"static_dir", staticDir,
		"sources", len(a.cfg.Sources))

	return srv.Start(ctx)
}

// sourceNames lists the names of sources for error messages
func sourceNames(sources []packs.Source) []string {
	names := make([]string, len(sources))
	for i, src := range sources {
		names[i] = src.Name
	}
	return names
}
