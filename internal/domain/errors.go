package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when an item id does not exist in the catalog.
	ErrNotFound = errors.New("item not found")

	// ErrAlreadySold is returned when a settlement targets an item that has
	// already reached the sold state. Exactly one settlement can win.
	ErrAlreadySold = errors.New("item already sold")

	// ErrPriceMismatch is returned when the submitted price differs from the
	// listed price.
	ErrPriceMismatch = errors.New("submitted price does not match asking price")

	// ErrInsufficientBalance is returned when a wallet cannot cover the
	// purchase price.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrUpstreamUnavailable wraps failures of the external chain balance
	// lookup. Callers may fall back to a default balance but must be able to
	// observe that the lookup failed.
	ErrUpstreamUnavailable = errors.New("chain balance lookup unavailable")
)

// ValidationError reports a missing or malformed request field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%s is required", e.Field)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// NewValidationError builds a ValidationError for a missing field.
func NewValidationError(field string) *ValidationError {
	return &ValidationError{Field: field}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
