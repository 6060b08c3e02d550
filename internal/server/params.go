package server

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/coder/quartz"
	"github.com/lox/partycards/internal/deck"
	"github.com/lox/partycards/internal/game"
	"github.com/lox/partycards/internal/packs"
	"github.com/lox/partycards/internal/sessionid"
)

// GameDefaults fill in parameters a request leaves out
type GameDefaults struct {
	CardsPerPlayer int
	Players        int
	Packs          []packs.RawSelection
}

// GameParams describes the session a request asks for
type GameParams struct {
	Seed           string
	Players        int
	Index          int
	CardsPerPlayer int
	Packs          []packs.RawSelection
}

// parseGameParams reads seed, players, index, cards and packs from the query
func parseGameParams(q url.Values, defaults GameDefaults) (GameParams, error) {
	p := GameParams{
		Seed:           q.Get("seed"),
		Players:        defaults.Players,
		CardsPerPlayer: defaults.CardsPerPlayer,
		Packs:          defaults.Packs,
	}

	ints := []struct {
		name string
		dst  *int
	}{
		{"players", &p.Players},
		{"index", &p.Index},
		{"cards", &p.CardsPerPlayer},
	}
	for _, f := range ints {
		v := q.Get(f.name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return GameParams{}, fmt.Errorf("%w: %s must be an integer", ErrBadParams, f.name)
		}
		*f.dst = n
	}

	if v := q.Get("packs"); v != "" {
		sels, err := packs.ParseRawSelections(v)
		if err != nil {
			return GameParams{}, fmt.Errorf("%w: %v", ErrBadParams, err)
		}
		p.Packs = sels
	}
	if len(p.Packs) == 0 {
		return GameParams{}, fmt.Errorf("%w: no packs selected", ErrBadParams)
	}

	if p.Seed == "" {
		p.Seed = sessionid.Generate()
	}
	return p, nil
}

// packNames renders the selections back into collection:pack form
func (p GameParams) packNames() []string {
	out := make([]string, len(p.Packs))
	for i, s := range p.Packs {
		out[i] = s.String()
	}
	return out
}

// newSession resolves the selected packs and deals a session for the player
func newSession(m *packs.Manager, p GameParams, clock quartz.Clock) (*game.Session, error) {
	cards, err := m.ResolveRaw(p.Packs)
	if err != nil {
		return nil, err
	}
	d, err := deck.NewFromCards(cards, p.Seed, p.Players, p.Index)
	if err != nil {
		return nil, err
	}
	return game.NewSession(d, p.CardsPerPlayer, game.WithClock(clock))
}

// snapshot captures the session state for the wire
func snapshot(p GameParams, s *game.Session) SnapshotData {
	d := s.Deck()
	return SnapshotData{
		Seed:            p.Seed,
		Players:         p.Players,
		Index:           p.Index,
		CardsPerPlayer:  s.CardsPerPlayer(),
		Packs:           p.packNames(),
		Prompt:          s.Prompt(),
		Hand:            nonNil(s.Hand()),
		RemainingBlacks: d.RemainingBlacks(),
		RemainingWhites: d.RemainingWhites(),
	}
}
