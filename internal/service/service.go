// Package service provides business logic between API handlers and data stores.
package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/rentdesk/rentdesk/internal/domain"
	"github.com/rentdesk/rentdesk/internal/models"
	"github.com/rentdesk/rentdesk/maintenance"
)

// Auditor is an alias for the canonical domain.Auditor interface.
type Auditor = domain.Auditor

// AuditEnqueuer accepts audit jobs for asynchronous recording.
type AuditEnqueuer interface {
	Enqueue(job *AuditJob)
}

// Clock returns the current time. Services take one so tests can pin "now".
type Clock func() time.Time

func utcNow() time.Time { return time.Now().UTC() }

// auditAsync enqueues an audit entry via the AuditWorker (best-effort, non-blocking).
func auditAsync(w AuditEnqueuer, actor models.Actor, action, entityType, entityID string, detail map[string]any) {
	if w == nil {
		return
	}

	w.Enqueue(&AuditJob{
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Actor:      actor.UserID,
		Detail:     detail,
	})
}

// storeErr passes domain errors through untouched and marks anything else
// as a transport failure.
func storeErr(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, maintenance.ErrNotFound),
		errors.Is(err, maintenance.ErrValidation),
		errors.Is(err, maintenance.ErrInvalidTransition),
		errors.Is(err, maintenance.ErrTransport),
		errors.Is(err, models.ErrForbidden):
		return err
	default:
		return fmt.Errorf("%s: %w: %w", op, maintenance.ErrTransport, err)
	}
}

func forbidden(action string) error {
	return fmt.Errorf("%w: only a landlord may %s", models.ErrForbidden, action)
}
