package main

import (
	"context"
	"fmt"

	"github.com/lox/partycards/internal/tui"
)

// DealCmd prints a deal without starting the UI
type DealCmd struct {
	SessionFlags

	Rounds int `short:"r" default:"1" help:"Number of prompts to show"`
}

func (c *DealCmd) Run(g *Globals) error {
	a, err := setup(context.Background(), g)
	if err != nil {
		return err
	}
	defer a.Close()

	session, flags, err := deal(a, c.SessionFlags)
	if err != nil {
		return err
	}

	fmt.Println(tui.HeaderStyle.Render(fmt.Sprintf("seed %s · player %d of %d", flags.Seed, flags.Index+1, flags.Players)))
	for round := 0; round < c.Rounds; round++ {
		if round > 0 {
			if err := session.AdvancePrompt(); err != nil {
				return err
			}
		}
		fmt.Println()
		fmt.Println(tui.RenderPrompt(session.Prompt()))
	}
	fmt.Println()
	fmt.Println(tui.RenderHand(session.Hand(), -1, nil))
	return nil
}
