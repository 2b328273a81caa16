package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jmhart/cardforge/internal/deck"
	"github.com/jmhart/cardforge/internal/errors"
)

func testDeck(id string) *deck.Deck {
	return &deck.Deck{
		ID:          id,
		Title:       "Test Deck",
		Description: "A deck for tests",
		Source:      "manual",
		GeneratedAt: "2026-01-02",
		Cards: []deck.Card{
			{ID: "c1", Front: "front one", Back: "back one"},
			{ID: "c2", Front: "front two", Back: "back two"},
		},
	}
}

func TestWriteAndGet(t *testing.T) {
	st := New(t.TempDir())

	path, err := st.Write(testDeck("spanish-basics"))
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if filepath.Base(path) != "spanish-basics.json" {
		t.Errorf("path = %q, want spanish-basics.json", path)
	}

	d, err := st.Get("spanish-basics")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if d.Title != "Test Deck" || len(d.Cards) != 2 {
		t.Errorf("round-trip mismatch: %+v", d)
	}
}

func TestWriteCollisionSuffixes(t *testing.T) {
	st := New(t.TempDir())

	first := testDeck("spanish-basics")
	if _, err := st.Write(first); err != nil {
		t.Fatalf("first Write failed: %v", err)
	}

	second := testDeck("spanish-basics")
	if _, err := st.Write(second); err != nil {
		t.Fatalf("second Write failed: %v", err)
	}
	if second.ID != "spanish-basics-2" {
		t.Errorf("second ID = %q, want spanish-basics-2", second.ID)
	}

	third := testDeck("spanish-basics")
	if _, err := st.Write(third); err != nil {
		t.Fatalf("third Write failed: %v", err)
	}
	if third.ID != "spanish-basics-3" {
		t.Errorf("third ID = %q, want spanish-basics-3", third.ID)
	}

	// The stored id field matches the resolved filename.
	d, err := st.Get("spanish-basics-2")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if d.ID != "spanish-basics-2" {
		t.Errorf("stored ID = %q, want spanish-basics-2", d.ID)
	}
}

func TestWriteFallbackID(t *testing.T) {
	st := New(t.TempDir())

	d := testDeck("!!!")
	if _, err := st.Write(d); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if d.ID != "unknown-deck" {
		t.Errorf("ID = %q, want unknown-deck", d.ID)
	}
}

func TestWriteLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)

	if _, err := st.Write(testDeck("clean")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}
}

func TestWriteNeverPersistsUIDs(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)

	d := testDeck("uid-check")
	d.Cards[0].UID = "uid-check:c1"
	if _, err := st.Write(d); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "uid-check.json"))
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if strings.Contains(string(data), `"uid"`) {
		t.Error("uid field persisted to disk")
	}
}

func TestGetNotFound(t *testing.T) {
	st := New(t.TempDir())

	_, err := st.Get("nope")
	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("err = %v, want NOT_FOUND", err)
	}
}

func TestGetFilenameIsGroundTruth(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)

	// Hand-edited file whose id field disagrees with the filename.
	d := testDeck("whatever")
	data, _ := json.Marshal(d)
	if err := os.WriteFile(filepath.Join(dir, "actual-name.json"), data, 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	got, err := st.Get("actual-name")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.ID != "actual-name" {
		t.Errorf("ID = %q, want actual-name", got.ID)
	}
}

func TestGetDuplicateCardIDsCorrupt(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)

	raw := `{"id":"dupes","title":"T","description":"","source":"manual","generated_at":"2026-01-02","prompt":null,"cards":[{"id":"c1","front":"a","back":"b"},{"id":"c1","front":"c","back":"d"}]}`
	if err := os.WriteFile(filepath.Join(dir, "dupes.json"), []byte(raw), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	_, err := st.Get("dupes")
	if !errors.Is(err, errors.ErrCorruptDeck) {
		t.Errorf("err = %v, want CORRUPT_DECK", err)
	}
}

func TestGetMalformedJSONCorrupt(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)

	if err := os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	_, err := st.Get("broken")
	if !errors.Is(err, errors.ErrCorruptDeck) {
		t.Errorf("err = %v, want CORRUPT_DECK", err)
	}
}

func TestListSkipsUnreadableFiles(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)

	if _, err := st.Write(testDeck("good")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "bad.json"), []byte("{broken"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	// Non-deck files are ignored entirely.
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hi"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	summaries, err := st.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(summaries) != 1 || summaries[0].ID != "good" {
		t.Errorf("summaries = %+v, want only good", summaries)
	}
	if summaries[0].CardCount != 2 {
		t.Errorf("CardCount = %d, want 2", summaries[0].CardCount)
	}
}

func TestListEmptyDirectory(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "does-not-exist"))

	summaries, err := st.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(summaries) != 0 {
		t.Errorf("summaries = %+v, want empty", summaries)
	}
}

func TestDelete(t *testing.T) {
	st := New(t.TempDir())

	if _, err := st.Write(testDeck("doomed")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := st.Delete("doomed"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	_, err := st.Get("doomed")
	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("err = %v, want NOT_FOUND after delete", err)
	}
}

func TestDeleteProtectsBuiltinDecks(t *testing.T) {
	st := New(t.TempDir())

	d := testDeck("shipped")
	d.Source = deck.SourceBuiltin
	if _, err := st.Write(d); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	err := st.Delete("shipped")
	if !errors.Is(err, errors.ErrProtectedDeck) {
		t.Errorf("err = %v, want PROTECTED_DECK", err)
	}

	// Still there.
	if _, err := st.Get("shipped"); err != nil {
		t.Errorf("protected deck was removed: %v", err)
	}
}

func TestDeleteMissingDeck(t *testing.T) {
	st := New(t.TempDir())

	err := st.Delete("ghost")
	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("err = %v, want NOT_FOUND", err)
	}
}

func TestUpdateRejectsInvalidID(t *testing.T) {
	st := New(t.TempDir())

	d := testDeck("Bad ID")
	_, err := st.Update(d)
	if !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("err = %v, want INVALID_REQUEST", err)
	}
}
