package ops

import (
	"github.com/jmhart/cardforge/internal/deck"
	"github.com/jmhart/cardforge/internal/store"
)

// GetInput contains parameters for the Get operation.
type GetInput struct {
	ID string
}

// GetOutput contains the result of the Get operation.
type GetOutput struct {
	Deck *deck.Deck `json:"deck"`
}

// Get loads a full deck by id. The store binds the id to the filename stem,
// and card uids are injected for the consumer.
func Get(st *store.Store, input GetInput) (*GetOutput, error) {
	d, err := st.Get(input.ID)
	if err != nil {
		return nil, err
	}
	return &GetOutput{Deck: withUIDs(d)}, nil
}
