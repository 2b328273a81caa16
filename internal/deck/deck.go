package deck

// Limits applied during validation and repair.
const (
	MaxCards          = 50
	MaxTitleChars     = 80
	MaxDescChars      = 120
	MaxCardFieldChars = 120
)

// Source values with reserved meaning.
const (
	// SourceUnknown is the default provenance for decks that carry none.
	SourceUnknown = "unknown"

	// SourceBuiltin marks decks shipped with the content set.
	// Built-in decks cannot be deleted through the API.
	SourceBuiltin = "builtin"
)

// Card is a front/back pair within a deck. ID is positional ("c1".."cN") and
// is always recomputed during normalization; input ids are never trusted.
type Card struct {
	ID    string `json:"id"`
	Front string `json:"front"`
	Back  string `json:"back"`

	// UID is "<deckId>:<cardId>", injected by the read-side ops for API
	// consumers. It is never persisted.
	UID string `json:"uid,omitempty"`
}

// Deck is the normalized form, the only form allowed on disk or across the
// API boundary. ID must equal the filename stem it is stored under; the
// loader treats the filename as ground truth.
type Deck struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Source      string  `json:"source"`
	GeneratedAt string  `json:"generated_at"`
	Prompt      *string `json:"prompt"`
	Cards       []Card  `json:"cards"`
}

// Summary is the listing view of a deck.
type Summary struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Source      string `json:"source"`
	CardCount   int    `json:"card_count"`
}

// Summary returns the listing view of d.
func (d *Deck) Summary() Summary {
	return Summary{
		ID:          d.ID,
		Title:       d.Title,
		Description: d.Description,
		Source:      d.Source,
		CardCount:   len(d.Cards),
	}
}

// Clone returns a deep copy of d.
func (d *Deck) Clone() *Deck {
	out := *d
	if d.Prompt != nil {
		p := *d.Prompt
		out.Prompt = &p
	}
	out.Cards = make([]Card, len(d.Cards))
	copy(out.Cards, d.Cards)
	return &out
}

// Protected reports whether the deck's provenance forbids deletion.
func (d *Deck) Protected() bool {
	return d.Source == SourceBuiltin
}
