// Package domain defines the canonical store and service interfaces shared
// across layers (REST handlers, services, storage backends). Consumers should
// depend on these interfaces rather than re-declaring equivalent ones.
package domain

import (
	"context"
	"time"

	"github.com/rentdesk/rentdesk/internal/models"
	"github.com/rentdesk/rentdesk/maintenance"
)

// RequestStore persists maintenance requests. Implementations return errors
// wrapping maintenance.ErrNotFound for unknown ids.
type RequestStore interface {
	ListRequestsByProperty(ctx context.Context, propertyID string) ([]maintenance.Request, error)
	GetRequest(ctx context.Context, id string) (*maintenance.Request, error)
	// CreateRequest assigns id and timestamps and forces status pending.
	CreateRequest(ctx context.Context, draft maintenance.Request) (*maintenance.Request, error)
	// PatchRequest merges patch into the stored request and refreshes updated_at.
	PatchRequest(ctx context.Context, id string, patch maintenance.Patch) (*maintenance.Request, error)
	// TransitionRequest applies maintenance.Transition to the stored request
	// atomically with the write. It returns the request as stored afterwards
	// and the status it held before; from == to means nothing was written.
	TransitionRequest(ctx context.Context, id string, to maintenance.Status, now time.Time) (req *maintenance.Request, from maintenance.Status, err error)
	DeleteRequest(ctx context.Context, id string) error
}

// NoteStore persists the note thread of each request.
type NoteStore interface {
	// ListNotes returns notes in insertion order.
	ListNotes(ctx context.Context, requestID string) ([]maintenance.Note, error)
	CreateNote(ctx context.Context, note maintenance.Note) (*maintenance.Note, error)
}

// ActorLookup resolves an API key to the user behind it.
type ActorLookup interface {
	GetActorByAPIKey(ctx context.Context, apiKey string) (models.Actor, error)
}

// Auditor is the minimal interface for recording audit entries.
// Used by services for fire-and-forget audit logging.
type Auditor interface {
	RecordAudit(ctx context.Context, action, entityType, entityID, actor string, detail map[string]any) error
}

// AuditStore records and queries the audit log.
type AuditStore interface {
	Auditor
	QueryAudit(ctx context.Context, opts models.AuditQueryOpts) ([]models.AuditEntry, bool, error)
	PurgeOldEntries(ctx context.Context, retentionDays int) (int, error)
}

// RequestService defines all request operations exposed over the API.
type RequestService interface {
	ListRequests(ctx context.Context, propertyID string, q maintenance.Query) ([]maintenance.Request, error)
	GetRequest(ctx context.Context, id string) (*maintenance.Request, error)
	CreateRequest(ctx context.Context, actor models.Actor, propertyID string, in models.CreateRequestInput) (*maintenance.Request, error)
	PatchRequest(ctx context.Context, actor models.Actor, id string, in models.PatchRequestInput) (*maintenance.Request, error)
	TransitionRequest(ctx context.Context, actor models.Actor, id string, to maintenance.Status) (*maintenance.Request, error)
	DeleteRequest(ctx context.Context, actor models.Actor, id string) error
}

// NoteService defines note thread operations.
type NoteService interface {
	ListNotes(ctx context.Context, requestID string) ([]maintenance.Note, error)
	AddNote(ctx context.Context, actor models.Actor, requestID string, in models.CreateNoteInput) (*maintenance.Note, error)
}

// ViewService defines the read-only projections: calendar and dashboard.
type ViewService interface {
	Calendar(ctx context.Context, propertyID string, month maintenance.Month) ([maintenance.GridCells]maintenance.DayCell, error)
	Stats(ctx context.Context, propertyIDs []string) (maintenance.Stats, error)
	Location() *time.Location
}

// AuditService defines audit log query and maintenance operations.
type AuditService interface {
	QueryAudit(ctx context.Context, opts models.AuditQueryOpts) ([]models.AuditEntry, bool, error)
	PurgeOldEntries(ctx context.Context, retentionDays int) (int, error)
}
