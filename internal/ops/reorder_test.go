package ops

import (
	"testing"

	"github.com/jmhart/cardforge/internal/errors"
)

func TestReorder(t *testing.T) {
	st := newTestStore(t)
	seedDeck(t, st, "ordered")

	out, err := Reorder(st, nil, ReorderInput{ID: "ordered", CardIDs: []string{"c3", "c1", "c2"}})
	if err != nil {
		t.Fatalf("Reorder failed: %v", err)
	}

	fronts := []string{out.Deck.Cards[0].Front, out.Deck.Cards[1].Front, out.Deck.Cards[2].Front}
	want := []string{"front three", "front one", "front two"}
	for i := range want {
		if fronts[i] != want[i] {
			t.Errorf("card %d front = %q, want %q", i, fronts[i], want[i])
		}
	}

	// Ids are positional after the move.
	for i, c := range out.Deck.Cards {
		if want := "c" + string(rune('1'+i)); c.ID != want {
			t.Errorf("card %d id = %q, want %q", i, c.ID, want)
		}
	}

	stored, err := st.Get("ordered")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if stored.Cards[0].Front != "front three" {
		t.Error("reorder not persisted")
	}
}

func TestReorder_WrongLength(t *testing.T) {
	st := newTestStore(t)
	seedDeck(t, st, "ordered")

	_, err := Reorder(st, nil, ReorderInput{ID: "ordered", CardIDs: []string{"c1", "c2"}})
	if !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("err = %v, want INVALID_REQUEST", err)
	}
}

func TestReorder_UnknownID(t *testing.T) {
	st := newTestStore(t)
	seedDeck(t, st, "ordered")

	_, err := Reorder(st, nil, ReorderInput{ID: "ordered", CardIDs: []string{"c1", "c2", "c9"}})
	if !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("err = %v, want INVALID_REQUEST", err)
	}
}

func TestReorder_DuplicateID(t *testing.T) {
	st := newTestStore(t)
	seedDeck(t, st, "ordered")

	// A duplicate consumes the id on first use; the second lookup fails.
	_, err := Reorder(st, nil, ReorderInput{ID: "ordered", CardIDs: []string{"c1", "c1", "c2"}})
	if !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("err = %v, want INVALID_REQUEST", err)
	}
}
