package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"slices"
	"testing"
	"time"

	"github.com/rentdesk/rentdesk/internal/api"
	"github.com/rentdesk/rentdesk/maintenance"
)

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func TestCalendar_ExplicitMonth(t *testing.T) {
	t.Parallel()

	var gotMonth maintenance.Month
	svc := &mockViewService{
		calendarFn: func(_ context.Context, _ string, month maintenance.Month) ([maintenance.GridCells]maintenance.DayCell, error) {
			gotMonth = month
			return maintenance.Project(nil, month, time.UTC), nil
		},
	}

	r := newTestRouter(testTenant)
	h := api.NewViewHandler(svc, testLogger())
	r.GET("/properties/:propertyId/calendar", h.Calendar)

	w := doRequest(r, http.MethodGet, "/properties/p1/calendar?year=2026&month=12", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if gotMonth != (maintenance.Month{Year: 2026, Month: time.December}) {
		t.Errorf("month = %v", gotMonth)
	}

	var body struct {
		Month    string                `json:"month"`
		Previous string                `json:"previous"`
		Next     string                `json:"next"`
		Cells    []maintenance.DayCell `json:"cells"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body.Month != "2026-12" || body.Previous != "2026-11" || body.Next != "2027-01" {
		t.Errorf("navigation = %s/%s/%s", body.Previous, body.Month, body.Next)
	}
	if len(body.Cells) != maintenance.GridCells {
		t.Errorf("cells = %d, want %d", len(body.Cells), maintenance.GridCells)
	}
}

func TestCalendar_BadParams(t *testing.T) {
	t.Parallel()

	svc := &mockViewService{
		calendarFn: func(_ context.Context, _ string, month maintenance.Month) ([maintenance.GridCells]maintenance.DayCell, error) {
			var grid [maintenance.GridCells]maintenance.DayCell
			if !month.Valid() {
				return grid, maintenance.Invalid("month", "must be between 1 and 12")
			}
			return grid, nil
		},
	}

	r := newTestRouter(testTenant)
	h := api.NewViewHandler(svc, testLogger())
	r.GET("/properties/:propertyId/calendar", h.Calendar)

	for _, q := range []string{"year=abc", "month=x", "month=13", "year=0"} {
		if w := doRequest(r, http.MethodGet, "/properties/p1/calendar?"+q, ""); w.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", q, w.Code)
		}
	}
}

func TestStats_ParsesPropertyIDs(t *testing.T) {
	t.Parallel()

	var got []string
	svc := &mockViewService{
		statsFn: func(_ context.Context, ids []string) (maintenance.Stats, error) {
			got = ids
			return maintenance.Stats{TotalRequests: 3}, nil
		},
	}

	r := newTestRouter(testLandlord)
	h := api.NewViewHandler(svc, testLogger())
	r.GET("/stats", h.Stats)

	w := doRequest(r, http.MethodGet, "/stats?property_id=p1,p2&property_id=p3", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if !slices.Equal(got, []string{"p1", "p2", "p3"}) {
		t.Errorf("ids = %v", got)
	}

	if w := doRequest(r, http.MethodGet, "/stats", ""); w.Code != http.StatusBadRequest {
		t.Errorf("missing property_id: expected 400, got %d", w.Code)
	}
}
