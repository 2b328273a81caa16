package ops

import (
	"github.com/jmhart/cardforge/internal/deck"
	"github.com/jmhart/cardforge/internal/index"
	"github.com/jmhart/cardforge/internal/store"
)

// DeleteInput contains parameters for the Delete operation.
type DeleteInput struct {
	ID string
}

// DeleteOutput contains the result of the Delete operation.
type DeleteOutput struct {
	Deleted bool   `json:"deleted"`
	ID      string `json:"id"`
}

// Delete removes a deck file. Built-in decks are refused with
// PROTECTED_DECK.
func Delete(st *store.Store, idx *index.Index, input DeleteInput) (*DeleteOutput, error) {
	id := deck.NormalizeID(input.ID)
	if err := st.Delete(id); err != nil {
		return nil, err
	}
	unindex(idx, id)
	return &DeleteOutput{Deleted: true, ID: id}, nil
}
