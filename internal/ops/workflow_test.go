package ops

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jmhart/cardforge/internal/index"
)

// TestDeckLifecycle walks a deck through the whole surface: generate,
// inspect, edit, reorder, export, reimport, search, delete.
func TestDeckLifecycle(t *testing.T) {
	st := newTestStore(t)
	ix, err := index.Open(filepath.Join(t.TempDir(), "index.db"))
	require.NoError(t, err)
	defer ix.Close()

	orch := fakeOrchestrator(generatedDeckJSON)
	ctx := context.Background()

	// Generate
	genOut, err := Generate(ctx, st, ix, orch, 15, GenerateInput{Description: "teach me go"})
	require.NoError(t, err)
	require.Equal(t, "go-basics", genOut.Deck.ID)
	id := genOut.Deck.ID

	// Get
	getOut, err := Get(st, GetInput{ID: id})
	require.NoError(t, err)
	require.Len(t, getOut.Deck.Cards, 2)

	// Update the title
	updOut, err := Update(st, ix, UpdateInput{ID: id, Title: strPtr("Go, Properly")})
	require.NoError(t, err)
	require.Equal(t, "Go, Properly", updOut.Deck.Title)

	// Reorder
	reOut, err := Reorder(st, ix, ReorderInput{ID: id, CardIDs: []string{"c2", "c1"}})
	require.NoError(t, err)
	require.Equal(t, "What starts a goroutine?", reOut.Deck.Cards[0].Front)

	// Export then reimport as a fresh deck
	sheet := filepath.Join(t.TempDir(), "sheet.md")
	expOut, err := Export(st, ExportInput{ID: id, Path: sheet})
	require.NoError(t, err)
	require.Equal(t, 2, expOut.Cards)

	impOut, err := Import(st, ix, ImportInput{Path: sheet})
	require.NoError(t, err)
	require.Equal(t, "go-properly", impOut.Deck.ID)

	// Both decks are searchable
	searchOut, err := Search(ix, SearchInput{Query: "goroutine"})
	require.NoError(t, err)
	require.Equal(t, 2, searchOut.Count)

	// Delete the import, the original stays
	delOut, err := Delete(st, ix, DeleteInput{ID: impOut.Deck.ID})
	require.NoError(t, err)
	require.True(t, delOut.Deleted)

	listOut, err := List(st)
	require.NoError(t, err)
	require.Equal(t, 1, listOut.Count)
	require.Equal(t, id, listOut.Decks[0].ID)

	// The deleted deck's cards are gone from the index too
	searchOut, err = Search(ix, SearchInput{Query: "goroutine"})
	require.NoError(t, err)
	require.Equal(t, 1, searchOut.Count)
}
