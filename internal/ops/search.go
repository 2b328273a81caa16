package ops

import (
	"github.com/jmhart/cardforge/internal/index"
)

// SearchInput contains parameters for the Search operation.
type SearchInput struct {
	Query string
	Limit int
}

// SearchOutput contains the result of the Search operation.
type SearchOutput struct {
	Hits  []index.Hit `json:"hits"`
	Count int         `json:"count"`
}

// Search runs a full-text query over card fronts and backs across all
// indexed decks.
func Search(idx *index.Index, input SearchInput) (*SearchOutput, error) {
	hits, err := idx.Search(input.Query, input.Limit)
	if err != nil {
		return nil, err
	}
	return &SearchOutput{Hits: hits, Count: len(hits)}, nil
}
