package ops

import (
	"fmt"

	"github.com/jmhart/cardforge/internal/deck"
	"github.com/jmhart/cardforge/internal/errors"
	"github.com/jmhart/cardforge/internal/index"
	"github.com/jmhart/cardforge/internal/store"
)

// ReorderInput contains parameters for the Reorder operation. CardIDs must
// be a permutation of the deck's current card ids.
type ReorderInput struct {
	ID      string
	CardIDs []string
}

// ReorderOutput contains the result of the Reorder operation.
type ReorderOutput struct {
	Deck *deck.Deck `json:"deck"`
}

// Reorder rearranges a deck's cards into the given order and renumbers them
// c1..cN. The whole file is rewritten atomically.
func Reorder(st *store.Store, idx *index.Index, input ReorderInput) (*ReorderOutput, error) {
	d, err := st.Get(input.ID)
	if err != nil {
		return nil, err
	}

	if len(input.CardIDs) != len(d.Cards) {
		return nil, errors.NewInvalidRequest(fmt.Sprintf("order lists %d card ids, deck has %d cards", len(input.CardIDs), len(d.Cards)))
	}

	byID := make(map[string]deck.Card, len(d.Cards))
	for _, c := range d.Cards {
		byID[c.ID] = c
	}

	reordered := make([]deck.Card, 0, len(d.Cards))
	for _, id := range input.CardIDs {
		c, ok := byID[id]
		if !ok {
			return nil, errors.NewInvalidRequest(fmt.Sprintf("unknown card id %q", id))
		}
		delete(byID, id)
		reordered = append(reordered, c)
	}

	// Card ids are positional; a new order means new ids.
	for i := range reordered {
		reordered[i].ID = fmt.Sprintf("c%d", i+1)
	}
	d.Cards = reordered

	if _, err := st.Update(d); err != nil {
		return nil, err
	}
	reindex(idx, d)

	return &ReorderOutput{Deck: withUIDs(d)}, nil
}
