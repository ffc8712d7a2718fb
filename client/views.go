package client

import (
	"context"
	"net/url"
	"strconv"

	"github.com/rentdesk/rentdesk/maintenance"
)

// ViewService fetches the calendar and dashboard projections.
type ViewService struct {
	c *Client
}

// Calendar returns the month grid for a property. A zero month asks the
// server for its current month.
func (s *ViewService) Calendar(ctx context.Context, propertyID string, month maintenance.Month) (*Calendar, error) {
	params := url.Values{}
	if month.Year != 0 {
		params.Set("year", strconv.Itoa(month.Year))
	}
	if month.Month != 0 {
		params.Set("month", strconv.Itoa(int(month.Month)))
	}

	var cal Calendar
	if err := s.c.get(ctx, "/api/v1/properties/"+url.PathEscape(propertyID)+"/calendar", params, &cal); err != nil {
		return nil, err
	}
	return &cal, nil
}

// Stats returns dashboard counters over the union of the given properties.
func (s *ViewService) Stats(ctx context.Context, propertyIDs ...string) (maintenance.Stats, error) {
	params := url.Values{}
	for _, id := range propertyIDs {
		params.Add("property_id", id)
	}

	var stats maintenance.Stats
	if err := s.c.get(ctx, "/api/v1/stats", params, &stats); err != nil {
		return maintenance.Stats{}, err
	}
	return stats, nil
}
