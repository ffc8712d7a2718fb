package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/rentdesk/rentdesk/internal/httputil"
	"github.com/rentdesk/rentdesk/internal/metrics"
	"github.com/rentdesk/rentdesk/internal/models"
	"github.com/rentdesk/rentdesk/maintenance"
)

// Error code constants for standardized API responses.
const (
	ErrCodeInvalidRequest    = "invalid_request"
	ErrCodeValidationError   = "validation_error"
	ErrCodeNotFound          = "not_found"
	ErrCodeInvalidTransition = "invalid_transition"
	ErrCodeForbidden         = "forbidden"
	ErrCodeTransportError    = "transport_error"
	ErrCodeInternalError     = "internal_error"
	ErrCodeUnauthorized      = "unauthorized"
	ErrCodePayloadTooLarge   = "payload_too_large"
)

// bindBody decodes the JSON body into dst. On failure it writes the error
// response, 413 when the body ran past the size cap, and returns false.
func bindBody(c *gin.Context, dst any) bool {
	err := c.ShouldBindJSON(dst)
	if err == nil {
		return true
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		respondError(c, http.StatusRequestEntityTooLarge, ErrCodePayloadTooLarge, "request body too large")
		return false
	}

	respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body")
	return false
}

// respondError writes a standardized JSON error response, pulling the request
// ID from the Gin context (set by the request ID middleware).
func respondError(c *gin.Context, status int, code, message string) {
	metrics.ErrorsTotal.WithLabelValues(code).Inc()
	httputil.RespondError(c, status, code, message)
}

// respondServiceError maps a service error onto its HTTP status and code.
// Only unexpected failures are logged; their detail never reaches the client.
func respondServiceError(c *gin.Context, log *logrus.Logger, err error, op string) {
	switch {
	case errors.Is(err, maintenance.ErrValidation):
		respondError(c, http.StatusBadRequest, ErrCodeValidationError, err.Error())
	case errors.Is(err, maintenance.ErrNotFound):
		respondError(c, http.StatusNotFound, ErrCodeNotFound, "request not found")
	case errors.Is(err, maintenance.ErrInvalidTransition):
		respondError(c, http.StatusConflict, ErrCodeInvalidTransition, err.Error())
	case errors.Is(err, models.ErrForbidden):
		respondError(c, http.StatusForbidden, ErrCodeForbidden, err.Error())
	case errors.Is(err, maintenance.ErrTransport):
		log.WithError(err).WithField("request_id", c.GetString("request_id")).Error(op)
		respondError(c, http.StatusServiceUnavailable, ErrCodeTransportError, "storage unavailable, retry later")
	default:
		log.WithError(err).WithField("request_id", c.GetString("request_id")).Error(op)
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")
	}
}
