package ops

import (
	"time"

	"github.com/jmhart/cardforge/internal/deck"
	"github.com/jmhart/cardforge/internal/errors"
	"github.com/jmhart/cardforge/internal/index"
	"github.com/jmhart/cardforge/internal/store"
)

// CardInput is a loosely typed card supplied by an update. The id is
// optional; normalization recomputes positional ids regardless.
type CardInput struct {
	ID    string `json:"id,omitempty"`
	Front string `json:"front"`
	Back  string `json:"back"`
}

// UpdateInput contains parameters for the Update operation. Nil fields are
// left unchanged.
type UpdateInput struct {
	ID          string
	Title       *string
	Description *string
	Cards       *[]CardInput
}

// UpdateOutput contains the result of the Update operation.
type UpdateOutput struct {
	Deck     *deck.Deck `json:"deck"`
	Warnings []string   `json:"warnings"`
}

// Update rewrites a deck in place with the supplied fields. The merged
// record goes back through the normalizer, so the stored file always
// satisfies every invariant; fatal errors reject the update and nothing is
// written.
func Update(st *store.Store, idx *index.Index, input UpdateInput) (*UpdateOutput, error) {
	existing, err := st.Get(input.ID)
	if err != nil {
		return nil, err
	}

	if input.Title == nil && input.Description == nil && input.Cards == nil {
		return nil, errors.NewInvalidRequest("nothing to update: provide title, description, or cards")
	}

	merged := existing.Clone()
	if input.Title != nil {
		merged.Title = *input.Title
	}
	if input.Description != nil {
		merged.Description = *input.Description
	}
	if input.Cards != nil {
		cards := make([]deck.Card, len(*input.Cards))
		for i, c := range *input.Cards {
			id := c.ID
			if id == "" {
				// Placeholder; renumbering assigns the real one.
				id = "c0"
			}
			cards[i] = deck.Card{ID: id, Front: c.Front, Back: c.Back}
		}
		merged.Cards = cards
	}

	normalized, warnings, errs := deck.Normalize(toRaw(merged), time.Now())
	if len(errs) > 0 {
		return nil, errors.NewValidationFailed(errs, warnings)
	}
	// Update never renames the file; the id stays bound to it.
	normalized.ID = existing.ID

	if _, err := st.Update(normalized); err != nil {
		return nil, err
	}
	reindex(idx, normalized)

	return &UpdateOutput{Deck: withUIDs(normalized), Warnings: warnings}, nil
}

// toRaw converts a typed deck back into the loose mapping the normalizer
// accepts, so repaired and merged records share one rule table.
func toRaw(d *deck.Deck) map[string]any {
	cards := make([]any, len(d.Cards))
	for i, c := range d.Cards {
		cards[i] = map[string]any{"id": c.ID, "front": c.Front, "back": c.Back}
	}
	raw := map[string]any{
		"id":           d.ID,
		"title":        d.Title,
		"description":  d.Description,
		"source":       d.Source,
		"generated_at": d.GeneratedAt,
		"cards":        cards,
	}
	if d.Prompt != nil {
		raw["prompt"] = *d.Prompt
	}
	return raw
}
