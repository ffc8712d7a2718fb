package models

import (
	"errors"
	"fmt"

	"github.com/rentdesk/rentdesk/maintenance"
)

// ErrForbidden is returned when the actor's role may not perform an action.
var ErrForbidden = errors.New("forbidden")

// ErrUnknownAPIKey is returned by actor lookups when no user holds the key.
var ErrUnknownAPIKey = errors.New("unknown api key")

// ErrFieldTooLong returns a validation error for a field that exceeds maxLen bytes.
func ErrFieldTooLong(field string, maxLen int) error {
	return maintenance.Invalid(field, fmt.Sprintf("exceeds maximum length of %d", maxLen))
}

// ErrRequired returns a validation error for a missing field.
func ErrRequired(field string) error {
	return maintenance.Invalid(field, "is required")
}
