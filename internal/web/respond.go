package web

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/jmhart/cardforge/internal/errors"
)

// errorBody is the JSON error envelope.
type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Status  int            `json:"status"`
	Details map[string]any `json:"details,omitempty"`
}

// writeJSON renders data as a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("warning: failed to encode response: %v", err)
	}
}

// writeError renders err using its DeckError code and status. Internal
// details are suppressed so file paths and driver errors never leak.
func writeError(w http.ResponseWriter, err error) {
	detail := errorDetail{
		Code:    string(errors.ErrInternal),
		Message: "an internal error occurred",
		Status:  500,
	}

	if dErr, ok := err.(*errors.DeckError); ok {
		detail.Code = string(dErr.Code)
		detail.Message = dErr.Message
		detail.Status = dErr.Status
		if dErr.Code != errors.ErrInternal && dErr.Code != errors.ErrCorruptDeck {
			detail.Details = dErr.Details
		}
	} else {
		log.Printf("internal error: %v", err)
	}

	writeJSON(w, detail.Status, errorBody{Error: detail})
}
