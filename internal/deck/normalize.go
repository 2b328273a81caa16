package deck

import (
	"fmt"
	"strings"
	"time"
)

// DateFormat is the ISO calendar date layout used by generated_at.
const DateFormat = "2006-01-02"

// Normalize converts a loosely structured mapping (typically the output of
// json.Unmarshal into map[string]any) into a schema-conformant Deck.
//
// It returns the repaired deck, a list of non-fatal warnings describing every
// auto-correction, and a list of fatal errors. A non-empty error list means
// the deck is invalid and the returned value must be discarded; warnings alone
// never block persistence.
//
// now supplies "today" for generated_at defaults so callers and tests control
// the clock.
func Normalize(raw map[string]any, now time.Time) (*Deck, []string, []string) {
	var warnings, errs []string
	d := &Deck{}

	// Unrepairable-key check: a deck without id or title cannot be repaired.
	id := NormalizeID(stringField(raw, "id"))
	if id == "" {
		errs = append(errs, `missing required field "id"`)
	}
	title := strings.TrimSpace(stringField(raw, "title"))
	if title == "" {
		errs = append(errs, `missing required field "title"`)
	}

	rawCards, cardsPresent := raw["cards"]
	if !cardsPresent {
		errs = append(errs, `missing required field "cards"`)
	}

	if len(errs) > 0 && (id == "" || title == "") {
		// Partial copy only; callers must discard it.
		d.ID = id
		d.Title = title
		return d, warnings, errs
	}
	d.ID = id
	d.Title = title
	if orig := stringField(raw, "id"); orig != id {
		warnings = append(warnings, fmt.Sprintf("deck id %q normalized to %q", orig, id))
	}

	// Defaultable keys.
	d.Description = strings.TrimSpace(stringField(raw, "description"))

	d.Source = strings.TrimSpace(stringField(raw, "source"))
	if d.Source == "" {
		d.Source = SourceUnknown
		warnings = append(warnings, fmt.Sprintf("source missing or blank; defaulted to %q", SourceUnknown))
	}

	today := now.Format(DateFormat)
	genAt := strings.TrimSpace(stringField(raw, "generated_at"))
	if genAt == "" {
		d.GeneratedAt = today
		warnings = append(warnings, fmt.Sprintf("generated_at missing; defaulted to %s", today))
	} else if _, err := time.Parse(DateFormat, genAt); err != nil {
		d.GeneratedAt = today
		warnings = append(warnings, fmt.Sprintf("generated_at %q is not an ISO date; reset to %s", genAt, today))
	} else {
		d.GeneratedAt = genAt
	}

	if p, ok := raw["prompt"].(string); ok && strings.TrimSpace(p) != "" {
		prompt := p
		d.Prompt = &prompt
	}

	// Structural check on cards. The missing-cards fatal error was already
	// recorded above; an empty default keeps the remaining steps from
	// crashing and still fails the non-empty check here.
	var cardList []any
	if cardsPresent {
		var ok bool
		cardList, ok = rawCards.([]any)
		if !ok {
			errs = append(errs, `"cards" must be a list`)
			return d, warnings, errs
		}
	}
	if len(cardList) == 0 {
		errs = append(errs, "deck has no cards")
		return d, warnings, errs
	}

	// Count cap: keep the first MaxCards, oldest first.
	if len(cardList) > MaxCards {
		warnings = append(warnings, fmt.Sprintf("deck has %d cards; keeping the first %d", len(cardList), MaxCards))
		cardList = cardList[:MaxCards]
	}

	// Field-length repair on title and description.
	if truncated, did := truncateRunes(d.Title, MaxTitleChars); did {
		d.Title = truncated
		warnings = append(warnings, fmt.Sprintf("title truncated to %d characters", MaxTitleChars))
	}
	if truncated, did := truncateRunes(d.Description, MaxDescChars); did {
		d.Description = truncated
		warnings = append(warnings, fmt.Sprintf("description truncated to %d characters", MaxDescChars))
	}

	// Per-card processing. Rejection is localized: a bad card is dropped
	// without aborting the deck.
	cards := make([]Card, 0, len(cardList))
	for i, rawCard := range cardList {
		pos := i + 1
		m, ok := rawCard.(map[string]any)
		if !ok {
			errs = append(errs, fmt.Sprintf("card %d: not an object; dropped", pos))
			continue
		}

		var missing []string
		for _, key := range []string{"id", "front", "back"} {
			if stringField(m, key) == "" {
				missing = append(missing, key)
			}
		}
		if len(missing) > 0 {
			errs = append(errs, fmt.Sprintf("card %d: missing required field(s) %s; dropped", pos, strings.Join(missing, ", ")))
			continue
		}

		front := Sanitize(strings.TrimSpace(stringField(m, "front")))
		back := Sanitize(strings.TrimSpace(stringField(m, "back")))
		if front == "" || back == "" {
			errs = append(errs, fmt.Sprintf("card %d: empty after sanitization; dropped", pos))
			continue
		}

		if truncated, did := truncateRunes(front, MaxCardFieldChars); did {
			front = truncated
			warnings = append(warnings, fmt.Sprintf("card %d: front truncated to %d characters", pos, MaxCardFieldChars))
		}
		if truncated, did := truncateRunes(back, MaxCardFieldChars); did {
			back = truncated
			warnings = append(warnings, fmt.Sprintf("card %d: back truncated to %d characters", pos, MaxCardFieldChars))
		}

		// Original id kept until renumbering so the warning can name it.
		cards = append(cards, Card{ID: stringField(m, "id"), Front: front, Back: back})
	}

	// ID renumbering: surviving cards are always c1..cN in list order. The
	// expected id is unique per position, so this single pass also corrects
	// duplicates and gaps left by the input.
	for i := range cards {
		want := fmt.Sprintf("c%d", i+1)
		if cards[i].ID != want {
			warnings = append(warnings, fmt.Sprintf("card id %q reassigned to %q", cards[i].ID, want))
			cards[i].ID = want
		}
	}
	d.Cards = cards

	// Card-level rejection can still empty the deck.
	if len(d.Cards) == 0 {
		errs = append(errs, "no valid cards after validation and repair")
	}

	return d, warnings, errs
}

// stringField returns raw[key] when it is a string, else "".
func stringField(raw map[string]any, key string) string {
	s, _ := raw[key].(string)
	return s
}

// truncateRunes hard-truncates s to max runes. The second return reports
// whether anything was cut.
func truncateRunes(s string, max int) (string, bool) {
	runes := []rune(s)
	if len(runes) <= max {
		return s, false
	}
	return string(runes[:max]), true
}
