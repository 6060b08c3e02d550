package main

import (
	"context"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/lox/partycards/internal/deck"
	"github.com/lox/partycards/internal/game"
	"github.com/lox/partycards/internal/tui"
)

// PlayCmd runs an interactive session in the terminal
type PlayCmd struct {
	SessionFlags

	LogFile string `help:"Write logs to this file while the UI is running"`
}

func (c *PlayCmd) Run(g *Globals) error {
	a, err := setup(context.Background(), g)
	if err != nil {
		return err
	}
	defer a.Close()

	session, flags, err := deal(a, c.SessionFlags)
	if err != nil {
		return err
	}

	// The terminal belongs to the UI
	a.logger.SetOutput(io.Discard)
	if c.LogFile != "" {
		f, err := tea.LogToFile(c.LogFile, "partycards")
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		defer func() { _ = f.Close() }()
		a.logger.SetOutput(f)
	}

	title := fmt.Sprintf("seed %s · player %d of %d", flags.Seed, flags.Index+1, flags.Players)
	model := tui.NewModel(session, title, a.logger)
	defer model.Close()

	_, err = tea.NewProgram(model, tea.WithAltScreen()).Run()
	return err
}

// deal resolves the selected packs and deals this player's session
func deal(a *app, f SessionFlags) (*game.Session, SessionFlags, error) {
	flags, sels, err := f.resolve(a)
	if err != nil {
		return nil, flags, err
	}

	cards, err := a.manager.ResolveRaw(sels)
	if err != nil {
		return nil, flags, err
	}
	d, err := deck.NewFromCards(cards, flags.Seed, flags.Players, flags.Index)
	if err != nil {
		return nil, flags, err
	}
	session, err := game.NewSession(d, flags.Cards)
	if err != nil {
		return nil, flags, err
	}

	a.logger.Debug("Dealt session",
		"seed", flags.Seed,
		"players", flags.Players,
		"index", flags.Index,
		"white", len(cards.White),
		"black", len(cards.Black))
	return session, flags, nil
}
