package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/ulule/limiter/v3"

	"github.com/rentdesk/rentdesk/internal/domain"
	"github.com/rentdesk/rentdesk/internal/middleware"
	"github.com/rentdesk/rentdesk/maintenance"
)

// RouterDeps holds all dependencies needed by the router.
type RouterDeps struct {
	Log            *logrus.Logger
	Requests       domain.RequestService
	Notes          domain.NoteService
	Views          domain.ViewService
	Audit          domain.AuditService
	ActorLookup    middleware.ActorLookup
	RateLimitStore limiter.Store
	HealthChecks   map[string]HealthChecker
	CORSOrigins    []string
	Version        string
	SchemaVersion  int
}

// Router-level limits.
const (
	maxBodySize = 1 << 20 // 1 MB
	rateLimit   = 100     // requests per second per IP
)

// setupMiddleware configures all middleware on the Gin engine.
func setupMiddleware(r *gin.Engine, deps *RouterDeps) {
	r.SetTrustedProxies(nil) //nolint:errcheck // nil always succeeds.
	r.Use(middleware.RequestID(deps.Log))
	r.Use(ginLogger(deps.Log))
	r.Use(gin.Recovery())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.MaxBodySize(maxBodySize))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     deps.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		MaxAge:           1 * time.Hour,
		AllowCredentials: false,
	}))
	if deps.RateLimitStore != nil {
		r.Use(middleware.RateLimit(deps.RateLimitStore, rateLimit, deps.Log))
	}
	r.Use(middleware.PrometheusMiddleware())
}

// registerRoutes sets up all API route handlers on the given router group.
func registerRoutes(ctx context.Context, api *gin.RouterGroup, deps *RouterDeps) {
	log := deps.Log

	health := NewHealthHandler(deps.HealthChecks, log, deps.Version, deps.SchemaVersion)
	requests := NewRequestHandler(deps.Requests, log)
	notes := NewNoteHandler(deps.Notes, log)
	views := NewViewHandler(deps.Views, log)
	audit := NewAuditHandler(deps.Audit, log)

	// Health and readiness are unauthenticated.
	api.GET("/health", health.Liveness)
	api.GET("/ready", health.Readiness)

	// All other API routes require authentication.
	bfGuard := middleware.NewBruteForceGuard(ctx, log)
	api.Use(middleware.BruteForceMiddleware(bfGuard))
	api.Use(middleware.AuthMiddleware(middleware.NewCachedActorLookup(ctx, deps.ActorLookup), log, bfGuard))

	// Requests by property.
	api.GET("/properties/:propertyId/requests", requests.List)
	api.POST("/properties/:propertyId/requests", requests.Create)
	api.GET("/properties/:propertyId/calendar", views.Calendar)

	// Single requests.
	api.GET("/requests/:id", requests.Get)
	api.PATCH("/requests/:id", requests.Patch)
	api.DELETE("/requests/:id", requests.Delete)
	api.POST("/requests/:id/transition", requests.Transition)

	// Notes.
	api.GET("/requests/:id/notes", notes.List)
	api.POST("/requests/:id/notes", notes.Create)

	// Dashboard.
	api.GET("/stats", views.Stats)

	// Audit (landlords only).
	landlord := api.Group("", middleware.RequireRole(maintenance.RoleLandlord))
	landlord.GET("/audit", audit.Query)
	landlord.DELETE("/audit", audit.Purge)
}

// NewRouter creates and configures the Gin engine with all middleware and routes.
func NewRouter(ctx context.Context, deps *RouterDeps) http.Handler {
	r := gin.New()
	setupMiddleware(r, deps)
	registerRoutes(ctx, r.Group("/api/v1"), deps)

	return r
}
