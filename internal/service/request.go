package service

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/rentdesk/rentdesk/internal/domain"
	"github.com/rentdesk/rentdesk/internal/metrics"
	"github.com/rentdesk/rentdesk/internal/models"
	"github.com/rentdesk/rentdesk/maintenance"
)

var _ domain.RequestService = (*RequestService)(nil)

// RequestService applies role checks and the status lifecycle on top of a
// RequestStore.
type RequestService struct {
	store       domain.RequestStore
	auditWorker AuditEnqueuer
	log         *logrus.Logger
	now         Clock
}

// NewRequestService creates a RequestService. A nil clock uses the wall clock.
func NewRequestService(store domain.RequestStore, auditWorker AuditEnqueuer, log *logrus.Logger, now Clock) *RequestService {
	if now == nil {
		now = utcNow
	}
	return &RequestService{store: store, auditWorker: auditWorker, log: log, now: now}
}

// ListRequests returns the property's requests filtered and sorted by q.
func (s *RequestService) ListRequests(ctx context.Context, propertyID string, q maintenance.Query) ([]maintenance.Request, error) {
	if propertyID == "" {
		return nil, models.ErrRequired("property_id")
	}

	reqs, err := s.store.ListRequestsByProperty(ctx, propertyID)
	if err != nil {
		return nil, storeErr("listing requests", err)
	}

	return maintenance.Apply(reqs, q, s.now()), nil
}

// GetRequest returns a single request by id.
func (s *RequestService) GetRequest(ctx context.Context, id string) (*maintenance.Request, error) {
	req, err := s.store.GetRequest(ctx, id)
	return req, storeErr("getting request", err)
}

// CreateRequest files a new pending request. Tenants always file for
// themselves; a landlord may name the tenant and defaults to themselves.
func (s *RequestService) CreateRequest(
	ctx context.Context, actor models.Actor, propertyID string, in models.CreateRequestInput,
) (*maintenance.Request, error) {
	if propertyID == "" {
		return nil, models.ErrRequired("property_id")
	}

	if err := in.Validate(); err != nil {
		return nil, err
	}

	if in.LandlordOnly() && !actor.IsLandlord() {
		return nil, forbidden("set costs or assignment")
	}

	switch {
	case !actor.IsLandlord() && in.TenantID != "" && in.TenantID != actor.UserID:
		return nil, forbidden("file a request for another tenant")
	case in.TenantID == "":
		in.TenantID = actor.UserID
	}

	req, err := s.store.CreateRequest(ctx, in.Draft(propertyID))
	if err != nil {
		return nil, storeErr("creating request", err)
	}

	auditAsync(s.auditWorker, actor, "request.create", "request", req.ID, map[string]any{
		"property_id": req.PropertyID,
		"priority":    req.Priority,
		"category":    req.Category,
	})

	return req, nil
}

// PatchRequest edits the non-status fields of a request.
func (s *RequestService) PatchRequest(
	ctx context.Context, actor models.Actor, id string, in models.PatchRequestInput,
) (*maintenance.Request, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	if in.LandlordOnly() && !actor.IsLandlord() {
		return nil, forbidden("set costs or assignment")
	}

	req, err := s.store.PatchRequest(ctx, id, in.ToPatch())
	if err != nil {
		return nil, storeErr("patching request", err)
	}

	auditAsync(s.auditWorker, actor, "request.update", "request", req.ID, nil)

	return req, nil
}

// TransitionRequest moves a request to status to. The lifecycle rules are
// checked by the store against the row it is about to write, so a concurrent
// transition can never be overwritten by one that became illegal meanwhile.
// Resubmitting the current status returns the stored record without writing.
func (s *RequestService) TransitionRequest(
	ctx context.Context, actor models.Actor, id string, to maintenance.Status,
) (*maintenance.Request, error) {
	if !to.Valid() {
		return nil, maintenance.Invalid("status", "must be one of pending, in_progress, completed, cancelled")
	}

	req, from, err := s.store.TransitionRequest(ctx, id, to, s.now())
	if err != nil {
		var te *maintenance.TransitionError
		if errors.As(err, &te) {
			metrics.TransitionsTotal.WithLabelValues(string(te.From), string(to), "rejected").Inc()
		}

		return nil, storeErr("transitioning request", err)
	}

	if from == to {
		metrics.TransitionsTotal.WithLabelValues(string(from), string(to), "noop").Inc()
		return req, nil
	}

	metrics.TransitionsTotal.WithLabelValues(string(from), string(to), "applied").Inc()

	s.log.WithFields(logrus.Fields{
		"request_id": id,
		"from":       from,
		"to":         to,
		"user_id":    actor.UserID,
	}).Debug("request.transition")

	auditAsync(s.auditWorker, actor, "request.transition", "request", id, map[string]any{"from": string(from), "to": string(to)})

	return req, nil
}

// DeleteRequest removes a request and its notes. Landlords only.
func (s *RequestService) DeleteRequest(ctx context.Context, actor models.Actor, id string) error {
	if !actor.IsLandlord() {
		return forbidden("delete requests")
	}

	if err := s.store.DeleteRequest(ctx, id); err != nil {
		return storeErr("deleting request", err)
	}

	auditAsync(s.auditWorker, actor, "request.delete", "request", id, nil)

	return nil
}
