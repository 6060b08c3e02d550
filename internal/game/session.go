// Package game holds one player's view of a running game: the prompt on the
// table and the answer cards in hand.
//
// Session state is exposed as observable cells so a UI can bind to it, and
// every change is also published as an event. Sessions are single-owner:
// only the local client mutates its Session and Deck.
package game

import (
	"errors"
	"fmt"
	"slices"

	"github.com/coder/quartz"
	"github.com/lox/partycards/internal/deck"
	"github.com/lox/partycards/internal/packs"
)

// ErrInvalidHandSize is returned when a session is created with fewer than
// one card per player.
var ErrInvalidHandSize = errors.New("invalid hand size")

// Session tracks the current prompt and hand for one player.
type Session struct {
	deck           *deck.Deck
	cardsPerPlayer int

	prompt *Cell[packs.BlackCard]
	hand   *Cell[[]string]
	events *SimpleEventBus
	clock  quartz.Clock
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithClock sets the clock used to stamp published events.
func WithClock(c quartz.Clock) SessionOption {
	return func(s *Session) { s.clock = c }
}

// NewSession draws the first prompt and then a full hand from d.
func NewSession(d *deck.Deck, cardsPerPlayer int, opts ...SessionOption) (*Session, error) {
	if cardsPerPlayer < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidHandSize, cardsPerPlayer)
	}

	prompt, err := d.DrawBlack()
	if err != nil {
		return nil, fmt.Errorf("draw first prompt: %w", err)
	}
	hand, err := d.DrawWhites(cardsPerPlayer)
	if err != nil {
		return nil, fmt.Errorf("deal opening hand: %w", err)
	}

	s := &Session{
		deck:           d,
		cardsPerPlayer: cardsPerPlayer,
		prompt:         NewCell(prompt),
		hand:           NewCell(hand),
		events:         NewEventBus(),
		clock:          quartz.NewReal(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Prompt returns the black card currently in play.
func (s *Session) Prompt() packs.BlackCard { return s.prompt.Get() }

// Hand returns a copy of the current hand.
func (s *Session) Hand() []string { return slices.Clone(s.hand.Get()) }

// PromptCell exposes the prompt for UI binding.
func (s *Session) PromptCell() *Cell[packs.BlackCard] { return s.prompt }

// HandCell exposes the hand for UI binding. Published slices are never
// modified after Set; subscribers must not modify them either.
func (s *Session) HandCell() *Cell[[]string] { return s.hand }

// Events returns the bus on which prompt and hand changes are published.
func (s *Session) Events() EventBus { return s.events }

// CardsPerPlayer returns the hand size the session refills to.
func (s *Session) CardsPerPlayer() int { return s.cardsPerPlayer }

// Deck returns the deck the session draws from.
func (s *Session) Deck() *deck.Deck { return s.deck }

// AdvancePrompt replaces the prompt with the next black card. The hand is
// untouched. On error the current prompt stays in play.
func (s *Session) AdvancePrompt() error {
	prompt, err := s.deck.DrawBlack()
	if err != nil {
		return err
	}
	s.prompt.Set(prompt)
	s.events.Publish(NewPromptChangedEvent(prompt, s.deck.BlackCursor(), s.clock.Now()))
	return nil
}

// SubmitCards removes the cards at the given hand positions and refills the
// hand from the deck, appending new cards after the ones that were kept.
// Positions outside the hand are ignored and repeated positions count once.
// It returns the removed cards in hand order.
//
// If the deck runs out while refilling, the hand is published short by the
// cards that could not be drawn and the exhaustion error is returned.
func (s *Session) SubmitCards(indices ...int) ([]string, error) {
	current := s.hand.Get()

	remove := make([]bool, len(current))
	for _, i := range indices {
		if i >= 0 && i < len(current) {
			remove[i] = true
		}
	}

	kept := make([]string, 0, len(current))
	var submitted []string
	for i, card := range current {
		if remove[i] {
			submitted = append(submitted, card)
			continue
		}
		kept = append(kept, card)
	}

	if len(kept) >= s.cardsPerPlayer && len(submitted) == 0 {
		return nil, nil
	}

	dealt, err := s.deck.DrawWhites(max(0, s.cardsPerPlayer-len(kept)))
	next := append(kept, dealt...)
	s.hand.Set(next)
	s.events.Publish(NewHandChangedEvent(next, submitted, dealt, s.clock.Now()))

	return submitted, err
}
