package ops

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/jmhart/cardforge/internal/deck"
	"github.com/jmhart/cardforge/internal/errors"
	"github.com/jmhart/cardforge/internal/store"
)

// ValidateInput contains parameters for the Validate operation. Exactly one
// of Path (a JSON file), ID (a stored deck), or JSON (raw bytes) is used, in
// that precedence.
type ValidateInput struct {
	Path string
	ID   string
	JSON string
}

// ValidateOutput contains the result of the Validate operation. Valid is
// true when the error list is empty; Deck is only meaningful then.
type ValidateOutput struct {
	Valid    bool       `json:"valid"`
	Deck     *deck.Deck `json:"deck,omitempty"`
	Warnings []string   `json:"warnings"`
	Errors   []string   `json:"errors"`
}

// Validate runs the normalizer against deck data and reports the repaired
// form with its warnings and fatal errors, without persisting anything.
func Validate(st *store.Store, input ValidateInput) (*ValidateOutput, error) {
	var data []byte
	switch {
	case input.Path != "":
		b, err := os.ReadFile(input.Path)
		if err != nil {
			return nil, errors.NewInvalidRequest(fmt.Sprintf("cannot read %s: %v", input.Path, err))
		}
		data = b
	case input.ID != "":
		id := deck.NormalizeID(input.ID)
		b, err := os.ReadFile(st.Path(id))
		if err != nil {
			if os.IsNotExist(err) {
				return nil, errors.NewNotFound(id)
			}
			return nil, errors.NewInternal(err)
		}
		data = b
	case input.JSON != "":
		data = []byte(input.JSON)
	default:
		return nil, errors.NewInvalidRequest("provide a path, a deck id, or raw JSON")
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.NewInvalidRequest(fmt.Sprintf("not a JSON object: %v", err))
	}

	d, warnings, errs := deck.Normalize(raw, time.Now())
	out := &ValidateOutput{
		Valid:    len(errs) == 0,
		Warnings: emptyIfNil(warnings),
		Errors:   emptyIfNil(errs),
	}
	if out.Valid {
		out.Deck = d
	}
	return out, nil
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
