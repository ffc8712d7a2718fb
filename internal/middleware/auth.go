package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/rentdesk/rentdesk/internal/models"
	"github.com/rentdesk/rentdesk/maintenance"
)

// Gin context keys set by AuthMiddleware.
const (
	ActorKey  = "actor"
	UserIDKey = "user_id"
	RoleKey   = "role"
)

// authTimingFloor is the minimum response time for rejected credentials so
// valid and invalid keys cannot be told apart by latency.
const authTimingFloor = 50 * time.Millisecond

// ActorLookup resolves an API key to the user behind it.
type ActorLookup interface {
	GetActorByAPIKey(ctx context.Context, apiKey string) (models.Actor, error)
}

// truncateKey returns at most the first 4 characters of key followed by "...".
func truncateKey(key string) string {
	if len(key) > 4 {
		return key[:4] + "..."
	}
	return key
}

// enforceTimingFloor sleeps if needed so the response takes at least authTimingFloor.
func enforceTimingFloor(start time.Time) {
	if elapsed := time.Since(start); elapsed < authTimingFloor {
		time.Sleep(authTimingFloor - elapsed)
	}
}

// AuthMiddleware authenticates requests via Bearer token and stores the
// resolved actor in the Gin context. If a BruteForceGuard is provided,
// failed attempts are tracked per key hash.
func AuthMiddleware(lookup ActorLookup, log *logrus.Logger, guards ...*BruteForceGuard) gin.HandlerFunc {
	var guard *BruteForceGuard
	if len(guards) > 0 {
		guard = guards[0]
	}

	return func(c *gin.Context) {
		start := time.Now()
		defer func() {
			if c.Writer.Status() == http.StatusUnauthorized {
				enforceTimingFloor(start)
			}
		}()

		apiKey := ExtractBearerToken(c)
		if apiKey == "" {
			respondError(c, http.StatusUnauthorized, "unauthorized", "missing or invalid authorization header")
			return
		}

		actor, err := lookup.GetActorByAPIKey(c.Request.Context(), apiKey)
		if err != nil || !actor.Role.Valid() {
			logAuthFailure(log, c, apiKey, err)

			if guard != nil {
				guard.RecordFailure(apiKey)
			}

			respondError(c, http.StatusUnauthorized, "unauthorized", "invalid api key")
			return
		}

		if guard != nil {
			guard.ResetKey(apiKey)
		}

		c.Set(ActorKey, actor)
		c.Set(UserIDKey, actor.UserID)
		c.Set(RoleKey, string(actor.Role))
		c.Next()
	}
}

// ActorFrom returns the actor stored by AuthMiddleware.
func ActorFrom(c *gin.Context) (models.Actor, bool) {
	v, ok := c.Get(ActorKey)
	if !ok {
		return models.Actor{}, false
	}

	actor, ok := v.(models.Actor)

	return actor, ok
}

// RequireRole rejects authenticated actors whose role is not role.
func RequireRole(role maintenance.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := ActorFrom(c)
		if !ok {
			respondError(c, http.StatusUnauthorized, "unauthorized", "authentication required")
			return
		}

		if actor.Role != role {
			respondError(c, http.StatusForbidden, "forbidden", "requires "+string(role)+" role")
			return
		}

		c.Next()
	}
}

// ExtractBearerToken extracts the API key from the Authorization header.
func ExtractBearerToken(c *gin.Context) string {
	token, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
	if !ok {
		return ""
	}

	return strings.TrimSpace(token)
}

// logAuthFailure logs a failed authentication attempt.
func logAuthFailure(log *logrus.Logger, c *gin.Context, apiKey string, err error) {
	entry := log.WithFields(logrus.Fields{
		"client_ip":  c.ClientIP(),
		"method":     c.Request.Method,
		"path":       c.Request.URL.Path,
		"user_agent": c.Request.UserAgent(),
		"request_id": c.GetString(RequestIDKey),
		"key_prefix": truncateKey(apiKey),
	})
	if err != nil {
		entry = entry.WithError(err)
	}

	entry.Warn("authentication failed")
}
