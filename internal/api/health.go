// Package api provides HTTP handlers for the rentdesk maintenance API.
package api

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// HealthChecker is anything that can report its own reachability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// CheckFunc adapts a function to HealthChecker.
type CheckFunc func(ctx context.Context) error

// HealthCheck calls f.
func (f CheckFunc) HealthCheck(ctx context.Context) error { return f(ctx) }

// HealthHandler serves health check endpoints.
type HealthHandler struct {
	checks        map[string]HealthChecker
	log           *logrus.Logger
	version       string
	schemaVersion int
	startTime     time.Time
}

// NewHealthHandler creates a HealthHandler. The "store" check gates readiness;
// any other check only degrades it.
func NewHealthHandler(checks map[string]HealthChecker, log *logrus.Logger, version string, schemaVersion int) *HealthHandler {
	return &HealthHandler{
		checks:        checks,
		log:           log,
		version:       version,
		schemaVersion: schemaVersion,
		startTime:     time.Now(),
	}
}

// readinessResponse is the JSON payload returned by the readiness endpoint.
type readinessResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// healthResponse is the JSON payload returned by the health/liveness endpoint.
type healthResponse struct {
	Status        string  `json:"status"`
	Version       string  `json:"version"`
	SchemaVersion int     `json:"schema_version"`
	Store         string  `json:"store"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

// Liveness handles GET /api/v1/health. It always answers 200.
func (h *HealthHandler) Liveness(c *gin.Context) {
	resp := healthResponse{
		Status:        "ok",
		Version:       h.version,
		SchemaVersion: h.schemaVersion,
		Store:         "not_configured",
		UptimeSeconds: time.Since(h.startTime).Seconds(),
	}

	if store, ok := h.checks["store"]; ok {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		resp.Store = "connected"
		if err := store.HealthCheck(ctx); err != nil {
			resp.Store = "disconnected"
		}
	}

	c.JSON(http.StatusOK, resp)
}

// Readiness handles GET /api/v1/ready.
func (h *HealthHandler) Readiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	checks := make(map[string]string, len(names))
	status := "ready"
	statusCode := http.StatusOK

	for _, name := range names {
		err := h.checks[name].HealthCheck(ctx)
		switch {
		case err == nil:
			checks[name] = "ok"
		case name == "store":
			h.log.WithError(err).Error("readiness: store health check failed")
			checks[name] = "error"
			status = "not_ready"
			statusCode = http.StatusServiceUnavailable
		default:
			h.log.WithError(err).WithField("check", name).Warn("readiness: dependency degraded")
			checks[name] = "degraded"
		}
	}

	c.JSON(statusCode, readinessResponse{
		Status: status,
		Checks: checks,
	})
}
