package gen

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/jmhart/cardforge/internal/deck"
	"github.com/jmhart/cardforge/internal/errors"
)

// previewLimit bounds the raw-completion excerpt carried in malformed-output
// errors so error payloads stay small.
const previewLimit = 160

// Orchestrator drives the generation pipeline:
// BuildPrompt -> Invoke -> StripFencing -> ParseJSON -> StampMetadata ->
// Normalize -> reject or hand off to the writer.
//
// The orchestrator is stateless; the regeneration rollback contract (restore
// cached cards/prompt on failure) belongs to the caller.
type Orchestrator struct {
	completer Completer
	model     string
	now       func() time.Time
}

// New creates an Orchestrator. model is the provenance tag suffix (the deck
// source becomes "ai:<model>").
func New(completer Completer, model string) *Orchestrator {
	return &Orchestrator{
		completer: completer,
		model:     model,
		now:       time.Now,
	}
}

// WithClock overrides the clock; tests pin generated_at with it.
func (o *Orchestrator) WithClock(now func() time.Time) *Orchestrator {
	o.now = now
	return o
}

// Result is a successfully generated, normalized, not-yet-persisted deck.
type Result struct {
	Deck     *deck.Deck
	Warnings []string
	RunID    string
}

// Generate runs the full pipeline for a free-text description and returns a
// normalized deck ready for the collision-safe writer. Provider failures,
// empty completions, malformed JSON, and validation failures come back as
// distinct error codes so callers can choose retry policy.
func (o *Orchestrator) Generate(ctx context.Context, description string, cardCount int) (*Result, error) {
	runID := newRunID(o.now())

	description = strings.TrimSpace(description)
	if description == "" {
		return nil, errors.NewInvalidRequest("description is required")
	}
	// The description doubles as the stored prompt; keep it within the
	// description length bound.
	if runes := []rune(description); len(runes) > deck.MaxDescChars {
		description = string(runes[:deck.MaxDescChars])
	}

	raw, err := o.completer.Complete(ctx, BuildPrompt(description, cardCount))
	if err != nil {
		return nil, errors.NewCompletionFailed(err)
	}
	if strings.TrimSpace(raw) == "" {
		return nil, errors.NewEmptyCompletion()
	}

	text := StripFences(raw)

	var parsed map[string]any
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return nil, errors.NewMalformedCompletion(err, preview(text))
	}

	o.stamp(parsed, description)

	d, warnings, errs := deck.Normalize(parsed, o.now())
	if len(errs) > 0 {
		return nil, errors.NewValidationFailed(errs, warnings)
	}

	return &Result{Deck: d, Warnings: warnings, RunID: runID}, nil
}

// Regenerate runs the full pipeline for a new description, then splices only
// the fresh cards and prompt into a copy of the existing deck. Identity and
// metadata (id, title, description, source, generated_at) are preserved. On
// any error the existing deck is untouched.
func (o *Orchestrator) Regenerate(ctx context.Context, existing *deck.Deck, description string) (*Result, error) {
	res, err := o.Generate(ctx, description, len(existing.Cards))
	if err != nil {
		return nil, err
	}

	updated := existing.Clone()
	updated.Cards = res.Deck.Cards
	updated.Prompt = res.Deck.Prompt

	return &Result{Deck: updated, Warnings: res.Warnings, RunID: res.RunID}, nil
}

// stamp overwrites the provenance fields regardless of what the model put in
// its JSON; these are orchestrator-controlled, never model-controlled. A
// missing or unusable id is derived from the title so normalization doesn't
// reject an otherwise good completion.
func (o *Orchestrator) stamp(parsed map[string]any, description string) {
	parsed["source"] = "ai:" + o.model
	parsed["generated_at"] = o.now().Format(deck.DateFormat)
	parsed["prompt"] = description

	id, _ := parsed["id"].(string)
	if deck.NormalizeID(id) == "" {
		if title, ok := parsed["title"].(string); ok {
			parsed["id"] = deck.NormalizeID(title)
		}
	}
}

// StripFences removes at most one leading and one trailing markdown code
// fence, independent of any language tag. Models routinely wrap JSON output
// this way.
func StripFences(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```") {
		rest := text[3:]
		// A language tag ("json", "JSON", ...) may follow the fence on the
		// same line; drop it, but never drop actual content.
		if idx := strings.IndexByte(rest, '\n'); idx >= 0 && isFenceTag(rest[:idx]) {
			rest = rest[idx+1:]
		} else if isFenceTag(rest) {
			rest = ""
		} else {
			rest = strings.TrimPrefix(rest, "json")
		}
		text = rest
	}

	text = strings.TrimSpace(text)
	if strings.HasSuffix(text, "```") {
		text = strings.TrimSpace(text[:len(text)-3])
	}
	return text
}

// isFenceTag reports whether s looks like a bare code-fence language tag.
func isFenceTag(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return true
	}
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return true
}

func preview(text string) string {
	runes := []rune(text)
	if len(runes) <= previewLimit {
		return text
	}
	return string(runes[:previewLimit]) + "..."
}

func newRunID(now time.Time) string {
	return ulid.MustNew(ulid.Timestamp(now), rand.Reader).String()
}
