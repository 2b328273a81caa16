package index

import (
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jmhart/cardforge/internal/deck"
	"github.com/jmhart/cardforge/internal/errors"
)

func openTestIndex(t *testing.T) *Index {
	t.Helper()
	ix, err := Open(filepath.Join(t.TempDir(), "index.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { ix.Close() })
	return ix
}

func indexedDeck(id string, cards ...deck.Card) *deck.Deck {
	return &deck.Deck{ID: id, Title: id, Source: "manual", GeneratedAt: "2026-01-02", Cards: cards}
}

func TestSearch(t *testing.T) {
	ix := openTestIndex(t)

	decks := []*deck.Deck{
		indexedDeck("spanish",
			deck.Card{ID: "c1", Front: "hola", Back: "hello"},
			deck.Card{ID: "c2", Front: "gato", Back: "cat"},
		),
		indexedDeck("animals",
			deck.Card{ID: "c1", Front: "feline", Back: "a cat"},
		),
	}
	if err := ix.Rebuild(decks); err != nil {
		t.Fatalf("Rebuild failed: %v", err)
	}

	hits, err := ix.Search("cat", 0)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("len(hits) = %d, want 2", len(hits))
	}
	for _, h := range hits {
		if h.UID != h.DeckID+":"+h.CardID {
			t.Errorf("UID = %q, want %q", h.UID, h.DeckID+":"+h.CardID)
		}
	}
}

func TestSearchPrefixMatch(t *testing.T) {
	ix := openTestIndex(t)

	if err := ix.Rebuild([]*deck.Deck{
		indexedDeck("go", deck.Card{ID: "c1", Front: "goroutine", Back: "lightweight thread"}),
	}); err != nil {
		t.Fatalf("Rebuild failed: %v", err)
	}

	hits, err := ix.Search("gorout", 0)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(hits) != 1 {
		t.Errorf("len(hits) = %d, want prefix match", len(hits))
	}
}

func TestSearchQuotesAreEscaped(t *testing.T) {
	ix := openTestIndex(t)

	if err := ix.Rebuild([]*deck.Deck{
		indexedDeck("q", deck.Card{ID: "c1", Front: "plain", Back: "text"}),
	}); err != nil {
		t.Fatalf("Rebuild failed: %v", err)
	}

	// FTS syntax in user input must not reach the query parser.
	if _, err := ix.Search(`"cat" OR NEAR(`, 0); err != nil {
		t.Errorf("Search with FTS syntax failed: %v", err)
	}
}

func TestSearchEmptyQuery(t *testing.T) {
	ix := openTestIndex(t)

	_, err := ix.Search("   ", 0)
	if !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("err = %v, want INVALID_REQUEST", err)
	}
}

func TestSearchQueryTooLong(t *testing.T) {
	ix := openTestIndex(t)

	_, err := ix.Search(strings.Repeat("a", MaxQueryChars+1), 0)
	if !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("err = %v, want INVALID_REQUEST", err)
	}
}

func TestSearchLimitClamped(t *testing.T) {
	ix := openTestIndex(t)

	cards := make([]deck.Card, 0, MaxSearchLimit+20)
	for i := 0; i < MaxSearchLimit+20; i++ {
		cards = append(cards, deck.Card{ID: fmt.Sprintf("c%d", i+1), Front: "common term", Back: "x"})
	}
	if err := ix.Rebuild([]*deck.Deck{indexedDeck("big", cards...)}); err != nil {
		t.Fatalf("Rebuild failed: %v", err)
	}

	hits, err := ix.Search("common", 1000)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(hits) > MaxSearchLimit {
		t.Errorf("len(hits) = %d, exceeds max %d", len(hits), MaxSearchLimit)
	}
}

func TestIndexDeckReplacesRows(t *testing.T) {
	ix := openTestIndex(t)

	d := indexedDeck("langs", deck.Card{ID: "c1", Front: "python", Back: "snake"})
	if err := ix.IndexDeck(d); err != nil {
		t.Fatalf("IndexDeck failed: %v", err)
	}

	d.Cards = []deck.Card{{ID: "c1", Front: "golang", Back: "gopher"}}
	if err := ix.IndexDeck(d); err != nil {
		t.Fatalf("IndexDeck failed: %v", err)
	}

	if hits, _ := ix.Search("python", 0); len(hits) != 0 {
		t.Error("stale rows survived reindex")
	}
	if hits, _ := ix.Search("golang", 0); len(hits) != 1 {
		t.Error("fresh rows missing after reindex")
	}
}

func TestRemoveDeck(t *testing.T) {
	ix := openTestIndex(t)

	if err := ix.IndexDeck(indexedDeck("gone", deck.Card{ID: "c1", Front: "target", Back: "x"})); err != nil {
		t.Fatalf("IndexDeck failed: %v", err)
	}
	if err := ix.RemoveDeck("gone"); err != nil {
		t.Fatalf("RemoveDeck failed: %v", err)
	}

	if hits, _ := ix.Search("target", 0); len(hits) != 0 {
		t.Error("rows survived RemoveDeck")
	}
}

func TestNilIndexIsSafe(t *testing.T) {
	var ix *Index

	if err := ix.IndexDeck(indexedDeck("x")); err != nil {
		t.Errorf("nil IndexDeck returned %v", err)
	}
	if err := ix.RemoveDeck("x"); err != nil {
		t.Errorf("nil RemoveDeck returned %v", err)
	}
	if err := ix.Rebuild(nil); err != nil {
		t.Errorf("nil Rebuild returned %v", err)
	}
	if err := ix.Close(); err != nil {
		t.Errorf("nil Close returned %v", err)
	}
	if _, err := ix.Search("x", 0); err == nil {
		t.Error("nil Search should error")
	}
}
