package ops

import (
	"github.com/jmhart/cardforge/internal/deck"
	"github.com/jmhart/cardforge/internal/store"
)

// ListOutput contains the result of the List operation.
type ListOutput struct {
	Decks []deck.Summary `json:"decks"`
	Count int            `json:"count"`
}

// List returns summaries for every readable deck. Unreadable files are
// skipped by the store so one corrupt deck never hides the rest.
func List(st *store.Store) (*ListOutput, error) {
	summaries, err := st.List()
	if err != nil {
		return nil, err
	}
	return &ListOutput{Decks: summaries, Count: len(summaries)}, nil
}
