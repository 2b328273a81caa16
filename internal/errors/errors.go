package errors

import "fmt"

// Code identifies a cardforge error class. Callers branch on Code, never on
// message content.
type Code string

const (
	ErrInvalidRequest      Code = "INVALID_REQUEST"      // 400
	ErrProtectedDeck       Code = "PROTECTED_DECK"       // 403
	ErrNotFound            Code = "NOT_FOUND"            // 404
	ErrValidationFailed    Code = "VALIDATION_FAILED"    // 422: normalizer returned fatal errors
	ErrCorruptDeck         Code = "CORRUPT_DECK"         // 500: on-disk deck file unusable
	ErrPersistence         Code = "PERSISTENCE"          // 500: I/O failure writing a deck
	ErrCompletionFailed    Code = "COMPLETION_FAILED"    // 502: provider failure or empty completion (retryable)
	ErrMalformedCompletion Code = "MALFORMED_COMPLETION" // 502: completion text is not valid deck JSON
	ErrInternal            Code = "INTERNAL"             // 500
)

// DeckError is a structured error with a machine-distinguishable code, an
// HTTP status, and optional details.
type DeckError struct {
	Code    Code
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *DeckError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewInvalidRequest creates a 400 error for invalid parameters.
func NewInvalidRequest(msg string) *DeckError {
	return &DeckError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewProtectedDeck creates a 403 error for deletion of a protected deck.
func NewProtectedDeck(deckID string) *DeckError {
	return &DeckError{
		Code:    ErrProtectedDeck,
		Status:  403,
		Message: fmt.Sprintf("deck %q is built-in and cannot be deleted", deckID),
		Details: map[string]any{"deck_id": deckID},
	}
}

// NewNotFound creates a 404 error for a missing deck.
func NewNotFound(deckID string) *DeckError {
	return &DeckError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("deck not found: %s", deckID),
		Details: map[string]any{"deck_id": deckID},
	}
}

// NewValidationFailed creates a 422 error carrying the normalizer's fatal
// errors and its warnings as parallel lists.
func NewValidationFailed(errs, warnings []string) *DeckError {
	return &DeckError{
		Code:    ErrValidationFailed,
		Status:  422,
		Message: "deck failed validation and repair",
		Details: map[string]any{"errors": errs, "warnings": warnings},
	}
}

// NewCorruptDeck creates a 500 error for an unusable on-disk deck file.
func NewCorruptDeck(deckID string, err error) *DeckError {
	return &DeckError{
		Code:    ErrCorruptDeck,
		Status:  500,
		Message: fmt.Sprintf("deck file %q is corrupt: %v", deckID, err),
		Details: map[string]any{"deck_id": deckID},
	}
}

// NewPersistence creates a 500 error for a failed deck write.
func NewPersistence(err error) *DeckError {
	return &DeckError{
		Code:    ErrPersistence,
		Status:  500,
		Message: fmt.Sprintf("failed to persist deck: %v", err),
	}
}

// NewCompletionFailed creates a 502 error for a provider failure. This class
// is retryable by the caller, unlike validation failures.
func NewCompletionFailed(err error) *DeckError {
	return &DeckError{
		Code:    ErrCompletionFailed,
		Status:  502,
		Message: fmt.Sprintf("completion call failed: %v", err),
	}
}

// NewEmptyCompletion creates a 502 error for an empty completion, same class
// as a provider failure.
func NewEmptyCompletion() *DeckError {
	return &DeckError{
		Code:    ErrCompletionFailed,
		Status:  502,
		Message: "completion returned empty text",
	}
}

// NewMalformedCompletion creates a 502 error for completion text that does
// not parse as JSON. preview must already be bounded by the caller.
func NewMalformedCompletion(err error, preview string) *DeckError {
	return &DeckError{
		Code:    ErrMalformedCompletion,
		Status:  502,
		Message: fmt.Sprintf("completion is not valid JSON: %v", err),
		Details: map[string]any{"preview": preview},
	}
}

// NewInternal creates a 500 error for unexpected internal failures.
func NewInternal(err error) *DeckError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &DeckError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
	}
}

// Is checks whether err is a DeckError with the given code.
func Is(err error, code Code) bool {
	if dErr, ok := err.(*DeckError); ok {
		return dErr.Code == code
	}
	return false
}

// StatusOf returns the HTTP status for err, defaulting to 500.
func StatusOf(err error) int {
	if dErr, ok := err.(*DeckError); ok {
		return dErr.Status
	}
	return 500
}
