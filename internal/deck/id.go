package deck

import (
	"regexp"
	"strings"
)

// The canonical kebab-case id rule. Every collaborator that derives or checks
// a deck id (normalizer, writer, loader, CLI resolver) goes through
// NormalizeID; there is deliberately no second implementation.
var (
	idDisallowed = regexp.MustCompile(`[^a-z0-9-]`)
	idHyphenRuns = regexp.MustCompile(`-+`)
)

// NormalizeID converts s to a kebab-case deck id: lowercase, any rune outside
// [a-z0-9-] replaced with a hyphen, hyphen runs collapsed, leading/trailing
// hyphens trimmed. Returns "" when nothing usable remains.
func NormalizeID(s string) string {
	s = strings.ToLower(s)
	s = idDisallowed.ReplaceAllString(s, "-")
	s = idHyphenRuns.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// ValidID reports whether s already satisfies the kebab-case rule.
func ValidID(s string) bool {
	return s != "" && s == NormalizeID(s)
}

// CardUID builds the globally unique read-only card identifier
// "<deckId>:<cardId>". Not persisted; injected at the read boundary.
func CardUID(deckID, cardID string) string {
	return deckID + ":" + cardID
}
