// Package index maintains a derived SQLite FTS5 index over card text. The
// deck files remain the only durable store; the index can be dropped and
// rebuilt from them at any time.
package index

import (
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/jmhart/cardforge/internal/deck"
	"github.com/jmhart/cardforge/internal/errors"
)

// Search limits.
const (
	DefaultSearchLimit = 20
	MaxSearchLimit     = 100
	MaxQueryChars      = 200
)

// Index wraps the FTS database handle.
type Index struct {
	db *sql.DB
}

// Hit is one matching card.
type Hit struct {
	DeckID string `json:"deck_id"`
	CardID string `json:"card_id"`
	UID    string `json:"uid"`
	Front  string `json:"front"`
	Back   string `json:"back"`
}

// Open opens (creating if needed) the index database at path.
func Open(path string) (*Index, error) {
	dsn := path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open index: %w", err)
	}

	schema := `
	CREATE VIRTUAL TABLE IF NOT EXISTS cards_fts USING fts5(
	  deck_id UNINDEXED,
	  card_id UNINDEXED,
	  front,
	  back
	);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create index schema: %w", err)
	}

	return &Index{db: db}, nil
}

// Close releases the database handle.
func (ix *Index) Close() error {
	if ix == nil {
		return nil
	}
	return ix.db.Close()
}

// Rebuild replaces the entire index with the given decks.
func (ix *Index) Rebuild(decks []*deck.Deck) error {
	if ix == nil {
		return nil
	}
	tx, err := ix.db.Begin()
	if err != nil {
		return errors.NewInternal(err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM cards_fts`); err != nil {
		return errors.NewInternal(err)
	}
	for _, d := range decks {
		if err := insertDeck(tx, d); err != nil {
			return errors.NewInternal(err)
		}
	}
	if err := tx.Commit(); err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

// IndexDeck replaces the index rows for one deck.
func (ix *Index) IndexDeck(d *deck.Deck) error {
	if ix == nil {
		return nil
	}
	tx, err := ix.db.Begin()
	if err != nil {
		return errors.NewInternal(err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM cards_fts WHERE deck_id = ?`, d.ID); err != nil {
		return errors.NewInternal(err)
	}
	if err := insertDeck(tx, d); err != nil {
		return errors.NewInternal(err)
	}
	if err := tx.Commit(); err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

// RemoveDeck drops one deck's rows from the index.
func (ix *Index) RemoveDeck(deckID string) error {
	if ix == nil {
		return nil
	}
	if _, err := ix.db.Exec(`DELETE FROM cards_fts WHERE deck_id = ?`, deckID); err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

// Search runs a full-text query over card fronts and backs, ranked by BM25.
func (ix *Index) Search(query string, limit int) ([]Hit, error) {
	if ix == nil {
		return nil, errors.NewInternal(fmt.Errorf("search index not available"))
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.NewInvalidRequest("query is required")
	}
	if len([]rune(query)) > MaxQueryChars {
		return nil, errors.NewInvalidRequest(fmt.Sprintf("query exceeds maximum length of %d characters", MaxQueryChars))
	}

	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	if limit > MaxSearchLimit {
		limit = MaxSearchLimit
	}

	rows, err := ix.db.Query(`
		SELECT deck_id, card_id, front, back
		FROM cards_fts
		WHERE cards_fts MATCH ?
		ORDER BY rank
		LIMIT ?`, ftsQuery(query), limit)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	hits := make([]Hit, 0, limit)
	for rows.Next() {
		var h Hit
		if err := rows.Scan(&h.DeckID, &h.CardID, &h.Front, &h.Back); err != nil {
			return nil, errors.NewInternal(err)
		}
		h.UID = deck.CardUID(h.DeckID, h.CardID)
		hits = append(hits, h)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}
	return hits, nil
}

func insertDeck(tx *sql.Tx, d *deck.Deck) error {
	for _, c := range d.Cards {
		if _, err := tx.Exec(
			`INSERT INTO cards_fts (deck_id, card_id, front, back) VALUES (?, ?, ?, ?)`,
			d.ID, c.ID, c.Front, c.Back,
		); err != nil {
			return err
		}
	}
	return nil
}

// ftsQuery turns free text into an FTS5 query: each term becomes a quoted
// prefix match, so user input never reaches the FTS query parser as syntax.
func ftsQuery(query string) string {
	terms := strings.Fields(query)
	quoted := make([]string, 0, len(terms))
	for _, t := range terms {
		t = strings.ReplaceAll(t, `"`, `""`)
		quoted = append(quoted, `"`+t+`"*`)
	}
	return strings.Join(quoted, " ")
}
