package deck

import (
	"regexp"
	"strings"
	"unicode"
)

// allowedPunct is the fixed punctuation set permitted in card text.
var allowedPunct = map[rune]bool{
	'.': true, ',': true, ';': true, ':': true, '!': true, '?': true,
	'\'': true, '"': true, '(': true, ')': true, '[': true, ']': true,
	'{': true, '}': true, '-': true, '–': true, '—': true, '/': true,
	'\\': true, '+': true, '&': true, '%': true, '@': true, '#': true,
	'*': true,
}

// whitespaceRegex matches one or more whitespace characters.
var whitespaceRegex = regexp.MustCompile(`\s+`)

// Sanitize filters text down to the allowed character set: letters, marks,
// digits, underscore, whitespace, and a fixed punctuation set. A disallowed
// rune becomes a single space rather than being deleted, so adjacent words
// never join ("café☕latte" → "café latte"). Runs of whitespace collapse to
// one space and the result is trimmed.
//
// Sanitize is total and idempotent.
func Sanitize(text string) string {
	if text == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if allowedRune(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte(' ')
		}
	}

	return strings.TrimSpace(whitespaceRegex.ReplaceAllString(b.String(), " "))
}

func allowedRune(r rune) bool {
	switch {
	case unicode.IsLetter(r), unicode.IsMark(r), unicode.IsDigit(r):
		return true
	case unicode.IsSpace(r):
		return true
	case r == '_':
		return true
	}
	return allowedPunct[r]
}
