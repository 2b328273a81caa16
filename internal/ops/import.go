package ops

import (
	"fmt"
	"os"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/jmhart/cardforge/internal/deck"
	"github.com/jmhart/cardforge/internal/errors"
	"github.com/jmhart/cardforge/internal/index"
	"github.com/jmhart/cardforge/internal/store"
)

// ImportInput contains parameters for the Import operation. Path names a
// markdown study sheet: an H1 title, an optional description paragraph, then
// one H2 front + paragraph back per card (the shape Export writes).
type ImportInput struct {
	Path   string
	Source string // provenance tag; defaults to "manual"
}

// ImportOutput contains the result of the Import operation.
type ImportOutput struct {
	Deck     *deck.Deck `json:"deck"`
	Path     string     `json:"path"`
	Warnings []string   `json:"warnings"`
}

// Import parses a markdown study sheet into deck data, runs it through the
// normalizer, and persists it with a collision-safe id derived from the
// title.
func Import(st *store.Store, idx *index.Index, input ImportInput) (*ImportOutput, error) {
	source, err := os.ReadFile(input.Path)
	if err != nil {
		return nil, errors.NewInvalidRequest(fmt.Sprintf("cannot read %s: %v", input.Path, err))
	}

	raw := parseStudySheet(source)

	provenance := input.Source
	if provenance == "" {
		provenance = "manual"
	}
	raw["source"] = provenance
	raw["generated_at"] = time.Now().Format(deck.DateFormat)

	d, warnings, errs := deck.Normalize(raw, time.Now())
	if len(errs) > 0 {
		return nil, errors.NewValidationFailed(errs, warnings)
	}

	path, err := st.Write(d)
	if err != nil {
		return nil, err
	}
	reindex(idx, d)

	return &ImportOutput{Deck: withUIDs(d), Path: path, Warnings: warnings}, nil
}

// parseStudySheet walks the markdown AST into the loose mapping the
// normalizer accepts. The first H1 is the title (and seeds the deck id),
// paragraphs before the first H2 form the description, and each H2 opens a
// card whose first following paragraph is the back.
func parseStudySheet(source []byte) map[string]any {
	doc := goldmark.New().Parser().Parse(text.NewReader(source))

	var (
		title       string
		description string
		cards       []any
		current     map[string]any
	)

	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			content := nodeText(node, source)
			switch {
			case node.Level == 1 && title == "":
				title = content
			case node.Level >= 2:
				current = map[string]any{"id": fmt.Sprintf("c%d", len(cards)+1), "front": content, "back": ""}
				cards = append(cards, current)
			}
		case *ast.Paragraph:
			content := nodeText(node, source)
			switch {
			case current != nil && current["back"] == "":
				current["back"] = content
			case current == nil && description == "":
				description = content
			}
		}
	}

	return map[string]any{
		"id":          deck.NormalizeID(title),
		"title":       title,
		"description": description,
		"cards":       cards,
	}
}

// nodeText collects the plain text under a node.
func nodeText(n ast.Node, source []byte) string {
	var out []byte
	ast.Walk(n, func(child ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if t, ok := child.(*ast.Text); ok {
			out = append(out, t.Segment.Value(source)...)
			if t.SoftLineBreak() || t.HardLineBreak() {
				out = append(out, ' ')
			}
		}
		return ast.WalkContinue, nil
	})
	return string(out)
}
