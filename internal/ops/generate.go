package ops

import (
	"context"

	"github.com/jmhart/cardforge/internal/deck"
	"github.com/jmhart/cardforge/internal/gen"
	"github.com/jmhart/cardforge/internal/index"
	"github.com/jmhart/cardforge/internal/store"
)

// GenerateInput contains parameters for the Generate operation.
type GenerateInput struct {
	Description string
	CardCount   int // 0 means the configured default
}

// GenerateOutput contains the result of the Generate operation.
type GenerateOutput struct {
	Deck     *deck.Deck `json:"deck"`
	Path     string     `json:"path"`
	Warnings []string   `json:"warnings"`
	RunID    string     `json:"run_id"`
}

// Generate turns a free-text description into a persisted deck: the
// orchestrator produces a normalized deck, the collision-safe writer picks
// its final id, and the search index is refreshed.
func Generate(ctx context.Context, st *store.Store, idx *index.Index, orch *gen.Orchestrator, defaultCardCount int, input GenerateInput) (*GenerateOutput, error) {
	cardCount := input.CardCount
	if cardCount <= 0 {
		cardCount = defaultCardCount
	}

	res, err := orch.Generate(ctx, input.Description, cardCount)
	if err != nil {
		return nil, err
	}

	path, err := st.Write(res.Deck)
	if err != nil {
		return nil, err
	}
	reindex(idx, res.Deck)

	return &GenerateOutput{
		Deck:     withUIDs(res.Deck),
		Path:     path,
		Warnings: res.Warnings,
		RunID:    res.RunID,
	}, nil
}

// RegenerateInput contains parameters for the Regenerate operation.
type RegenerateInput struct {
	ID          string
	Description string
}

// Regenerate replaces an existing deck's cards (and prompt) with freshly
// generated ones, preserving id, title, description, source, and
// generated_at. The stored file is rewritten only after the whole pipeline
// succeeds; any failure leaves it untouched.
func Regenerate(ctx context.Context, st *store.Store, idx *index.Index, orch *gen.Orchestrator, input RegenerateInput) (*GenerateOutput, error) {
	existing, err := st.Get(input.ID)
	if err != nil {
		return nil, err
	}

	res, err := orch.Regenerate(ctx, existing, input.Description)
	if err != nil {
		return nil, err
	}

	path, err := st.Update(res.Deck)
	if err != nil {
		return nil, err
	}
	reindex(idx, res.Deck)

	return &GenerateOutput{
		Deck:     withUIDs(res.Deck),
		Path:     path,
		Warnings: res.Warnings,
		RunID:    res.RunID,
	}, nil
}
