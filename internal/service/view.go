package service

import (
	"context"
	"slices"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/rentdesk/rentdesk/internal/domain"
	"github.com/rentdesk/rentdesk/internal/models"
	"github.com/rentdesk/rentdesk/maintenance"
)

var _ domain.ViewService = (*ViewService)(nil)

// ViewService builds the calendar and dashboard projections.
type ViewService struct {
	store  domain.RequestStore
	loc    *time.Location
	fanout int
	log    *logrus.Logger
	now    Clock
}

// NewViewService creates a ViewService. Calendar days are bucketed in loc;
// fanout bounds concurrent property fetches for multi-property dashboards.
func NewViewService(store domain.RequestStore, loc *time.Location, fanout int, log *logrus.Logger, now Clock) *ViewService {
	if loc == nil {
		loc = time.UTC
	}
	if fanout < 1 {
		fanout = 1
	}
	if now == nil {
		now = utcNow
	}
	return &ViewService{store: store, loc: loc, fanout: fanout, log: log, now: now}
}

// Location returns the calendar time zone.
func (s *ViewService) Location() *time.Location {
	return s.loc
}

// Calendar returns the 42-cell month grid for a property.
func (s *ViewService) Calendar(
	ctx context.Context, propertyID string, month maintenance.Month,
) ([maintenance.GridCells]maintenance.DayCell, error) {
	var grid [maintenance.GridCells]maintenance.DayCell

	if propertyID == "" {
		return grid, models.ErrRequired("property_id")
	}

	if !month.Valid() {
		return grid, maintenance.Invalid("month", "must be between 1 and 12")
	}

	reqs, err := s.store.ListRequestsByProperty(ctx, propertyID)
	if err != nil {
		return grid, storeErr("listing requests", err)
	}

	return maintenance.Project(reqs, month, s.loc), nil
}

// Stats aggregates dashboard counts over one or more properties. Properties
// are fetched concurrently; any failure fails the whole dashboard.
func (s *ViewService) Stats(ctx context.Context, propertyIDs []string) (maintenance.Stats, error) {
	ids := dedupe(propertyIDs)
	if len(ids) == 0 {
		return maintenance.Stats{}, models.ErrRequired("property_id")
	}

	sets := make([][]maintenance.Request, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.fanout)

	for i, id := range ids {
		g.Go(func() error {
			reqs, err := s.store.ListRequestsByProperty(gctx, id)
			if err != nil {
				return storeErr("listing requests for "+id, err)
			}
			sets[i] = reqs
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return maintenance.Stats{}, err
	}

	return maintenance.ComputeStats(slices.Concat(sets...), s.now()), nil
}

// dedupe drops blanks and repeats while keeping first-seen order.
func dedupe(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != "" && !slices.Contains(out, id) {
			out = append(out, id)
		}
	}

	return out
}
