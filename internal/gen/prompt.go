package gen

import (
	"fmt"

	"github.com/jmhart/cardforge/internal/deck"
)

// BuildPrompt renders the completion prompt for a deck description. The
// requested card count is clamped to [1, deck.MaxCards].
func BuildPrompt(description string, cardCount int) string {
	if cardCount < 1 {
		cardCount = 1
	}
	if cardCount > deck.MaxCards {
		cardCount = deck.MaxCards
	}

	return fmt.Sprintf(`You are a flashcard author. Create a study deck of exactly %d flashcards for the topic below.

Respond with a single JSON object and nothing else, in this exact shape:
{
  "id": "kebab-case-deck-id",
  "title": "Deck title (max %d characters)",
  "description": "One-line summary (max %d characters)",
  "cards": [
    {"id": "c1", "front": "Question or term (max %d characters)", "back": "Answer or definition (max %d characters)"},
    {"id": "c2", "front": "...", "back": "..."}
  ]
}

Rules:
- Card ids are "c1", "c2", ... in order.
- Fronts are questions, terms, or prompts; backs are concise answers.
- No markdown, no commentary, no code fences.

Topic: %s`,
		cardCount, deck.MaxTitleChars, deck.MaxDescChars,
		deck.MaxCardFieldChars, deck.MaxCardFieldChars, description)
}
