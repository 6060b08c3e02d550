package game

import (
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/lox/partycards/internal/deck"
	"github.com/lox/partycards/internal/packs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// orderedDeck returns a deck whose shuffled order equals the given order.
// Seed "" derives integer seed 0, which leaves the generator stuck at zero;
// that rotates the input left by one, so rotating right first undoes it.
func orderedDeck(t *testing.T, blacks []packs.BlackCard, whites []string) *deck.Deck {
	t.Helper()
	d, err := deck.New(rotateRight(blacks), rotateRight(whites), "", 1, 0)
	require.NoError(t, err)
	return d
}

func rotateRight[T any](s []T) []T {
	if len(s) == 0 {
		return s
	}
	out := make([]T, 0, len(s))
	out = append(out, s[len(s)-1])
	return append(out, s[:len(s)-1]...)
}

func prompts(texts ...string) []packs.BlackCard {
	out := make([]packs.BlackCard, len(texts))
	for i, text := range texts {
		out[i] = packs.BlackCard{Text: text, Pick: 1}
	}
	return out
}

func TestOrderedDeckHelper(t *testing.T) {
	d := orderedDeck(t, prompts("p1", "p2"), []string{"w1", "w2", "w3"})

	b, err := d.DrawBlack()
	require.NoError(t, err)
	assert.Equal(t, "p1", b.Text)

	w, err := d.DrawWhites(3)
	require.NoError(t, err)
	assert.Equal(t, []string{"w1", "w2", "w3"}, w)
}

func TestNewSessionDrawsPromptThenHand(t *testing.T) {
	d := orderedDeck(t, prompts("p1", "p2"), []string{"w1", "w2", "w3", "w4"})

	s, err := NewSession(d, 3)
	require.NoError(t, err)

	assert.Equal(t, "p1", s.Prompt().Text)
	assert.Equal(t, []string{"w1", "w2", "w3"}, s.Hand())
	assert.Equal(t, 1, d.BlackCursor())
	assert.Equal(t, 3, d.WhiteCursor())
	assert.Equal(t, 3, s.CardsPerPlayer())
}

func TestNewSessionErrors(t *testing.T) {
	_, err := NewSession(orderedDeck(t, prompts("p1"), []string{"w1"}), 0)
	assert.ErrorIs(t, err, ErrInvalidHandSize)

	_, err = NewSession(orderedDeck(t, nil, []string{"w1"}), 1)
	assert.ErrorIs(t, err, deck.ErrExhausted, "no prompt to draw")

	_, err = NewSession(orderedDeck(t, prompts("p1"), []string{"w1", "w2"}), 3)
	assert.ErrorIs(t, err, deck.ErrExhausted, "not enough answers for a hand")
}

func TestSubmitCardsPreservesOrderAndAppendsRefill(t *testing.T) {
	d := orderedDeck(t, prompts("p1"), []string{"w1", "w2", "w3", "w4"})
	s, err := NewSession(d, 3)
	require.NoError(t, err)

	submitted, err := s.SubmitCards(1)
	require.NoError(t, err)

	assert.Equal(t, []string{"w2"}, submitted)
	assert.Equal(t, []string{"w1", "w3", "w4"}, s.Hand())
}

func TestSubmitCardsEmptySelectionIsNoop(t *testing.T) {
	d := orderedDeck(t, prompts("p1"), []string{"w1", "w2", "w3", "w4"})
	s, err := NewSession(d, 3)
	require.NoError(t, err)

	var notified int
	s.HandCell().Subscribe(func([]string) { notified++ })

	submitted, err := s.SubmitCards()
	require.NoError(t, err)

	assert.Empty(t, submitted)
	assert.Equal(t, []string{"w1", "w2", "w3"}, s.Hand())
	assert.Equal(t, 3, d.WhiteCursor(), "white cursor must not move")
	assert.Zero(t, notified)
}

func TestSubmitCardsIgnoresDuplicateAndAbsentPositions(t *testing.T) {
	d := orderedDeck(t, prompts("p1"), []string{"w1", "w2", "w3", "w4", "w5", "w6"})
	s, err := NewSession(d, 4)
	require.NoError(t, err)

	submitted, err := s.SubmitCards(3, 0, 0, 9, -1)
	require.NoError(t, err)

	assert.Equal(t, []string{"w1", "w4"}, submitted)
	assert.Equal(t, []string{"w2", "w3", "w5", "w6"}, s.Hand())
}

func TestSubmitCardsExhaustionLeavesShortHand(t *testing.T) {
	d := orderedDeck(t, prompts("p1"), []string{"w1", "w2", "w3", "w4"})
	s, err := NewSession(d, 3)
	require.NoError(t, err)

	_, err = s.SubmitCards(0, 1)
	require.ErrorIs(t, err, deck.ErrExhausted)
	assert.Equal(t, []string{"w3", "w4"}, s.Hand())

	// An empty submission now tries to top the hand up again.
	_, err = s.SubmitCards()
	require.ErrorIs(t, err, deck.ErrExhausted)
	assert.Equal(t, []string{"w3", "w4"}, s.Hand())
}

func TestAdvancePrompt(t *testing.T) {
	d := orderedDeck(t, prompts("p1", "p2"), []string{"w1", "w2"})
	s, err := NewSession(d, 2)
	require.NoError(t, err)

	var seen []string
	s.PromptCell().Subscribe(func(b packs.BlackCard) { seen = append(seen, b.Text) })

	require.NoError(t, s.AdvancePrompt())
	assert.Equal(t, "p2", s.Prompt().Text)
	assert.Equal(t, []string{"w1", "w2"}, s.Hand(), "hand is untouched")

	err = s.AdvancePrompt()
	require.ErrorIs(t, err, deck.ErrExhausted)
	assert.Equal(t, "p2", s.Prompt().Text, "prompt stays on failure")
	assert.Equal(t, []string{"p2"}, seen)
}

func TestSessionPublishesEvents(t *testing.T) {
	d := orderedDeck(t, prompts("p1", "p2"), []string{"w1", "w2", "w3"})
	s, err := NewSession(d, 2)
	require.NoError(t, err)

	var events []GameEvent
	unsubscribe := s.Events().Subscribe(EventSubscriberFunc(func(e GameEvent) {
		events = append(events, e)
	}))

	require.NoError(t, s.AdvancePrompt())
	_, err = s.SubmitCards(0)
	require.NoError(t, err)

	require.Len(t, events, 2)
	prompt, ok := events[0].(PromptChangedEvent)
	require.True(t, ok)
	assert.Equal(t, "p2", prompt.Prompt.Text)
	assert.Equal(t, 2, prompt.Drawn)

	hand, ok := events[1].(HandChangedEvent)
	require.True(t, ok)
	assert.Equal(t, EventTypeHandChanged, hand.EventType())
	assert.Equal(t, []string{"w2", "w3"}, hand.Hand)
	assert.Equal(t, []string{"w1"}, hand.Submitted)
	assert.Equal(t, []string{"w3"}, hand.Dealt)
	assert.False(t, hand.Timestamp().IsZero())

	unsubscribe()
	_, err = s.SubmitCards(5)
	require.NoError(t, err)
	assert.Len(t, events, 2, "no events after unsubscribing")
}

func TestHandReturnsCopy(t *testing.T) {
	d := orderedDeck(t, prompts("p1"), []string{"w1", "w2"})
	s, err := NewSession(d, 2)
	require.NoError(t, err)

	hand := s.Hand()
	hand[0] = "tampered"
	assert.Equal(t, []string{"w1", "w2"}, s.Hand())
}

func TestEventsAreStampedWithSessionClock(t *testing.T) {
	clock := quartz.NewMock(t)
	start := clock.Now()

	d := orderedDeck(t, prompts("p1", "p2"), []string{"w1", "w2", "w3"})
	s, err := NewSession(d, 2, WithClock(clock))
	require.NoError(t, err)

	var events []GameEvent
	s.Events().Subscribe(EventSubscriberFunc(func(e GameEvent) {
		events = append(events, e)
	}))

	clock.Advance(time.Minute)
	require.NoError(t, s.AdvancePrompt())
	clock.Advance(time.Minute)
	_, err = s.SubmitCards(0)
	require.NoError(t, err)

	require.Len(t, events, 2)
	assert.Equal(t, start.Add(time.Minute), events[0].Timestamp())
	assert.Equal(t, start.Add(2*time.Minute), events[1].Timestamp())
}
