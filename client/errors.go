package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/rentdesk/rentdesk/maintenance"
)

// ErrForbidden is matched by API errors for actions the caller's role may not take.
var ErrForbidden = errors.New("forbidden")

// ErrUnauthorized is matched by API errors for a missing or unknown API key.
var ErrUnauthorized = errors.New("unauthorized")

// APIError represents a structured error response from the rentdesk API.
// errors.Is matches it against the maintenance error kinds the server
// reported, so callers branch the same way on either side of the wire.
type APIError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"message"`
	RequestID  string `json:"request_id,omitempty"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.RequestID != "" {
		return fmt.Sprintf("rentdesk: %d %s: %s (request_id=%s)", e.StatusCode, e.Code, e.Message, e.RequestID)
	}
	return fmt.Sprintf("rentdesk: %d %s: %s", e.StatusCode, e.Code, e.Message)
}

// Unwrap returns the error kind behind the response code, or nil.
func (e *APIError) Unwrap() error {
	switch e.Code {
	case "validation_error", "invalid_request":
		return maintenance.ErrValidation
	case "not_found":
		return maintenance.ErrNotFound
	case "invalid_transition":
		return maintenance.ErrInvalidTransition
	case "transport_error":
		return maintenance.ErrTransport
	case "forbidden":
		return ErrForbidden
	case "unauthorized":
		return ErrUnauthorized
	}

	if e.StatusCode == http.StatusServiceUnavailable {
		return maintenance.ErrTransport
	}
	return nil
}

// IsNotFound returns true if the error is a 404 not found.
func IsNotFound(err error) bool {
	return errors.Is(err, maintenance.ErrNotFound)
}

// IsRateLimited returns true if the error is a 429 rate limit.
func IsRateLimited(err error) bool {
	var e *APIError
	return errors.As(err, &e) && e.StatusCode == http.StatusTooManyRequests
}

// parseAPIError attempts to decode a JSON error body; falls back to raw text.
func parseAPIError(statusCode int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: statusCode}
	if err := json.Unmarshal(body, apiErr); err != nil || apiErr.Code == "" {
		apiErr.Code = "unknown"
		apiErr.Message = string(body)
	}
	return apiErr
}
