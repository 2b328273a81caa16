// Package store persists decks as individual JSON files, one per deck, with
// the filename stem as the deck id. The files are the only durable record;
// anything derived from them (the search index, card uids) is rebuilt at
// read time.
package store

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jmhart/cardforge/internal/deck"
	"github.com/jmhart/cardforge/internal/errors"
)

// Store reads and writes deck files under a single directory.
type Store struct {
	dir string
}

// New creates a Store rooted at dir. The directory is created on first
// write, not here, so read-only use of an empty store needs no setup.
func New(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the storage root.
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the file path a deck id is stored under.
func (s *Store) Path(id string) string {
	return filepath.Join(s.dir, id+".json")
}

// List returns summaries for every readable deck file, sorted by filename.
// Unreadable or corrupt files are logged and skipped so one bad deck never
// hides the rest.
func (s *Store) List() ([]deck.Summary, error) {
	decks, err := s.All()
	if err != nil {
		return nil, err
	}
	summaries := make([]deck.Summary, 0, len(decks))
	for _, d := range decks {
		summaries = append(summaries, d.Summary())
	}
	return summaries, nil
}

// All loads every readable deck in full, sorted by filename. Like List,
// unreadable files are logged and skipped.
func (s *Store) All() ([]*deck.Deck, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []*deck.Deck{}, nil
		}
		return nil, errors.NewInternal(fmt.Errorf("failed to read decks directory: %w", err))
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	decks := make([]*deck.Deck, 0, len(names))
	for _, name := range names {
		id := deck.NormalizeID(strings.TrimSuffix(name, ".json"))
		d, err := s.load(filepath.Join(s.dir, name), id)
		if err != nil {
			log.Printf("warning: skipping deck file %s: %v", name, err)
			continue
		}
		decks = append(decks, d)
	}
	return decks, nil
}

// Get loads a single deck by id. The filename is ground truth: the stored id
// field is unconditionally overwritten with the id the file is stored under,
// so a hand-edited mismatch is corrected on every load.
func (s *Store) Get(id string) (*deck.Deck, error) {
	id = deck.NormalizeID(id)
	if id == "" {
		return nil, errors.NewInvalidRequest("deck id is required")
	}

	path := s.Path(id)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNotFound(id)
		}
		return nil, errors.NewInternal(err)
	}
	return s.load(path, id)
}

// load reads and decodes one deck file, binding its id to the filename stem
// and rejecting duplicate card ids.
func (s *Store) load(path, id string) (*deck.Deck, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewCorruptDeck(id, err)
	}

	var d deck.Deck
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, errors.NewCorruptDeck(id, err)
	}

	// Filename is ground truth for the deck id.
	d.ID = id

	seen := make(map[string]bool, len(d.Cards))
	for _, c := range d.Cards {
		if seen[c.ID] {
			return nil, errors.NewCorruptDeck(id, fmt.Errorf("duplicate card id %q", c.ID))
		}
		seen[c.ID] = true
	}

	return &d, nil
}

// Write persists a new deck with collision-safe id resolution: the base id
// is derived from d.ID, and if its file exists, -2, -3, ... suffixes are
// probed until a free slot is found. d.ID is rebound to the resolved id
// before writing so the stored id and the filename always match.
//
// The exists-then-write probe is not atomic; two writers racing on the same
// base id can collide. The deployment model is single-writer, so this is a
// documented caveat rather than a guaranteed contract.
func (s *Store) Write(d *deck.Deck) (string, error) {
	base := deck.NormalizeID(d.ID)
	if base == "" {
		// Should not occur after normalization; kept as a fallback.
		base = "unknown-deck"
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", errors.NewPersistence(fmt.Errorf("failed to create decks directory: %w", err))
	}

	resolved := base
	path := s.Path(resolved)
	for suffix := 2; ; suffix++ {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			break
		}
		resolved = fmt.Sprintf("%s-%d", base, suffix)
		path = s.Path(resolved)
	}

	d.ID = resolved
	if err := s.writeAtomic(path, d); err != nil {
		return "", err
	}
	return path, nil
}

// Update rewrites an existing deck in place (no collision probe; the id is
// already bound to its file).
func (s *Store) Update(d *deck.Deck) (string, error) {
	if !deck.ValidID(d.ID) {
		return "", errors.NewInvalidRequest(fmt.Sprintf("invalid deck id %q", d.ID))
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", errors.NewPersistence(fmt.Errorf("failed to create decks directory: %w", err))
	}
	path := s.Path(d.ID)
	if err := s.writeAtomic(path, d); err != nil {
		return "", err
	}
	return path, nil
}

// Delete removes a deck file. Built-in decks are refused.
func (s *Store) Delete(id string) error {
	d, err := s.Get(id)
	if err != nil {
		return err
	}
	if d.Protected() {
		return errors.NewProtectedDeck(d.ID)
	}
	if err := os.Remove(s.Path(d.ID)); err != nil {
		return errors.NewPersistence(err)
	}
	return nil
}

// writeAtomic writes the deck to a fresh temp file in the same directory and
// renames it over the final path, so no reader ever observes a partial file.
// The temp file is removed on any failure.
func (s *Store) writeAtomic(path string, d *deck.Deck) error {
	// uid is a read-time projection, never persisted.
	clean := d.Clone()
	for i := range clean.Cards {
		clean.Cards[i].UID = ""
	}

	data, err := json.MarshalIndent(clean, "", "  ")
	if err != nil {
		return errors.NewPersistence(err)
	}
	data = append(data, '\n')

	randBytes := make([]byte, 8)
	if _, err := rand.Read(randBytes); err != nil {
		return errors.NewPersistence(fmt.Errorf("failed to generate temp file name: %w", err))
	}
	tempPath := filepath.Join(s.dir, ".deck-"+hex.EncodeToString(randBytes)+".tmp")

	file, err := os.OpenFile(tempPath, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o644)
	if err != nil {
		return errors.NewPersistence(fmt.Errorf("failed to create temp file: %w", err))
	}

	success := false
	defer func() {
		if file != nil {
			file.Close()
		}
		if !success {
			os.Remove(tempPath)
		}
	}()

	if _, err := file.Write(data); err != nil {
		return errors.NewPersistence(err)
	}
	if err := file.Sync(); err != nil {
		return errors.NewPersistence(err)
	}
	if err := file.Close(); err != nil {
		return errors.NewPersistence(err)
	}
	file = nil

	if err := os.Rename(tempPath, path); err != nil {
		return errors.NewPersistence(fmt.Errorf("failed to finalize deck file: %w", err))
	}

	success = true
	return nil
}
