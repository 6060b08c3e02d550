// Package deck deals prompt and answer cards from a seeded shuffle.
//
// Every client in a game builds its own Deck from the same cards, seed and
// roster. Because the shuffle is deterministic they all agree on the card
// order, and each player draws answers from its own contiguous region of the
// shuffled white cards, so hands never overlap without any coordination.
package deck

import (
	"errors"
	"fmt"
	"slices"

	"github.com/lox/partycards/internal/packs"
	"github.com/lox/partycards/internal/randutil"
)

var (
	// ErrExhausted is returned when a draw would read past the end of the
	// shuffled cards.
	ErrExhausted = errors.New("deck exhausted")

	// ErrInvalidRoster is returned for a non-positive player count or a
	// player index outside [0, totalPlayers).
	ErrInvalidRoster = errors.New("invalid player roster")
)

// Deck holds the shuffled cards for one player's view of a game.
//
// A Deck is not safe for concurrent use; it is owned by a single session.
type Deck struct {
	blacks []packs.BlackCard
	whites []string

	blackIndex int
	whiteIndex int

	seed         int32
	perPlayer    int
	playerIndex  int
	totalPlayers int
}

// New shuffles copies of blacks and whites with the seed derived from
// sessionSeed and positions the white cursor at the start of playerIndex's
// region.
func New(blacks []packs.BlackCard, whites []string, sessionSeed string, totalPlayers, playerIndex int) (*Deck, error) {
	if totalPlayers < 1 {
		return nil, fmt.Errorf("%w: %d players", ErrInvalidRoster, totalPlayers)
	}
	if playerIndex < 0 || playerIndex >= totalPlayers {
		return nil, fmt.Errorf("%w: player index %d of %d", ErrInvalidRoster, playerIndex, totalPlayers)
	}

	seed := randutil.SeedFromString(sessionSeed)
	d := &Deck{
		blacks:       slices.Clone(blacks),
		whites:       slices.Clone(whites),
		seed:         seed,
		perPlayer:    len(whites) / totalPlayers,
		playerIndex:  playerIndex,
		totalPlayers: totalPlayers,
	}
	randutil.Shuffle(d.blacks, seed)
	randutil.Shuffle(d.whites, seed)
	d.whiteIndex = d.perPlayer * playerIndex

	return d, nil
}

// NewFromCards is New for a resolved pack selection.
func NewFromCards(cards packs.Cards, sessionSeed string, totalPlayers, playerIndex int) (*Deck, error) {
	return New(cards.Black, cards.White, sessionSeed, totalPlayers, playerIndex)
}

// DrawBlack returns the next prompt card. The black cursor is shared by all
// players: whoever advances prompts advances them for everyone.
func (d *Deck) DrawBlack() (packs.BlackCard, error) {
	if d.blackIndex >= len(d.blacks) {
		return packs.BlackCard{}, fmt.Errorf("%w: all %d black cards drawn", ErrExhausted, len(d.blacks))
	}
	card := d.blacks[d.blackIndex]
	d.blackIndex++
	return card, nil
}

// DrawWhite returns the next answer card from this player's cursor.
//
// The cursor is not clamped to the player's region; a long game runs into
// the next player's cards before it runs out of cards altogether.
func (d *Deck) DrawWhite() (string, error) {
	if d.whiteIndex >= len(d.whites) {
		return "", fmt.Errorf("%w: all %d white cards drawn", ErrExhausted, len(d.whites))
	}
	card := d.whites[d.whiteIndex]
	d.whiteIndex++
	return card, nil
}

// DrawWhites draws n answer cards. On exhaustion it returns the cards drawn
// so far along with the error. A non-positive n draws nothing.
func (d *Deck) DrawWhites(n int) ([]string, error) {
	cards := make([]string, 0, min(max(n, 0), d.RemainingWhites()))
	for range n {
		card, err := d.DrawWhite()
		if err != nil {
			return cards, err
		}
		cards = append(cards, card)
	}
	return cards, nil
}

// BlackCursor returns the index of the next black card.
func (d *Deck) BlackCursor() int { return d.blackIndex }

// WhiteCursor returns the index of the next white card.
func (d *Deck) WhiteCursor() int { return d.whiteIndex }

// RemainingBlacks returns how many black cards can still be drawn.
func (d *Deck) RemainingBlacks() int { return len(d.blacks) - d.blackIndex }

// RemainingWhites returns how many white cards can still be drawn from the
// current cursor.
func (d *Deck) RemainingWhites() int { return len(d.whites) - d.whiteIndex }

// Region returns the half-open range [start, end) of shuffled white cards
// reserved for this player. Cards past the last full region are never
// assigned to anyone.
func (d *Deck) Region() (start, end int) {
	start = d.perPlayer * d.playerIndex
	return start, start + d.perPlayer
}

// PerPlayer returns the size of each player's white card region.
func (d *Deck) PerPlayer() int { return d.perPlayer }

// Seed returns the integer seed derived from the session seed.
func (d *Deck) Seed() int32 { return d.seed }

// PlayerIndex returns the zero-based index of the player owning this deck.
func (d *Deck) PlayerIndex() int { return d.playerIndex }

// TotalPlayers returns the roster size the deck was partitioned for.
func (d *Deck) TotalPlayers() int { return d.totalPlayers }
