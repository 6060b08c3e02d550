package tui

import (
	"fmt"
	"strings"

	"github.com/lox/partycards/internal/packs"
)

// RenderPrompt renders a black card with its pick count
func RenderPrompt(card packs.BlackCard) string {
	text := card.Text
	if card.Pick > 1 {
		text += fmt.Sprintf("\n\nPick %d", card.Pick)
	}
	return PromptCardStyle.Render(text)
}

// RenderHand renders the hand as a numbered list. The card at cursor is
// marked and selected cards are highlighted. Pass cursor -1 for no cursor.
func RenderHand(hand []string, cursor int, selected map[int]bool) string {
	if len(hand) == 0 {
		return InfoStyle.Render("(no cards in hand)")
	}

	var b strings.Builder
	for i, card := range hand {
		marker := "  "
		if i == cursor {
			marker = CursorStyle.Render("> ")
		}
		line := fmt.Sprintf("%d. %s", i+1, card)
		if selected[i] {
			line = SelectedStyle.Render("[x] " + line)
		} else {
			line = WhiteCardStyle.Render(line)
		}
		b.WriteString(marker)
		b.WriteString(line)
		if i < len(hand)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
