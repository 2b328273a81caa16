// Package ops implements the deck operations shared by every transport
// (CLI, HTTP API, MCP). Handlers stay thin; policy lives here and in the
// deck package.
package ops

import (
	"log"

	"github.com/jmhart/cardforge/internal/deck"
	"github.com/jmhart/cardforge/internal/index"
)

// reindex refreshes the search index rows for a deck. The index is derived
// data rebuilt from the deck files, so a failure here is logged, not
// propagated: the write already succeeded.
func reindex(idx *index.Index, d *deck.Deck) {
	if err := idx.IndexDeck(d); err != nil {
		log.Printf("warning: failed to index deck %s: %v", d.ID, err)
	}
}

// unindex drops a deck's index rows, logging on failure for the same reason.
func unindex(idx *index.Index, deckID string) {
	if err := idx.RemoveDeck(deckID); err != nil {
		log.Printf("warning: failed to unindex deck %s: %v", deckID, err)
	}
}

// withUIDs returns a copy of d with card uids injected for API consumers.
// The uid is a read-time projection ("<deckId>:<cardId>"), never persisted.
func withUIDs(d *deck.Deck) *deck.Deck {
	out := d.Clone()
	for i := range out.Cards {
		out.Cards[i].UID = deck.CardUID(out.ID, out.Cards[i].ID)
	}
	return out
}
