package client

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rentdesk/rentdesk/maintenance"
)

var boardNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func boardFixture() []maintenance.Request {
	return []maintenance.Request{
		{ID: "r1", PropertyID: "p1", Title: "Leak", Status: maintenance.StatusPending, Priority: maintenance.PriorityHigh, CreatedAt: boardNow.Add(-time.Hour)},
		{ID: "r2", PropertyID: "p1", Title: "Fan", Status: maintenance.StatusInProgress, Priority: maintenance.PriorityLow, CreatedAt: boardNow.Add(-48 * time.Hour)},
		{ID: "r3", PropertyID: "p1", Title: "Door", Status: maintenance.StatusCompleted, Priority: maintenance.PriorityMedium, CreatedAt: boardNow.Add(-72 * time.Hour)},
	}
}

// newTestBoard loads a board from a server serving boardFixture plus routes.
func newTestBoard(t *testing.T, routes map[string]http.HandlerFunc) *Board {
	t.Helper()
	routes["GET /api/v1/properties/p1/requests"] = func(w http.ResponseWriter, _ *http.Request) {
		jsonResponse(w, 200, map[string]any{"requests": boardFixture(), "count": 3})
	}
	_, c := newTestServer(t, routes)

	b := NewBoard(c, "p1")
	b.now = func() time.Time { return boardNow }
	if err := b.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	return b
}

func statusOf(b *Board, id string) maintenance.Status {
	for _, r := range b.Requests() {
		if r.ID == id {
			return r.Status
		}
	}
	return ""
}

func TestBoard_TransitionConfirmed(t *testing.T) {
	serverDone := boardNow.Add(time.Minute)
	b := newTestBoard(t, map[string]http.HandlerFunc{
		"POST /api/v1/requests/r2/transition": func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, 200, maintenance.Request{ID: "r2", PropertyID: "p1", Status: maintenance.StatusCompleted, CompletedAt: &serverDone})
		},
	})

	got, err := b.Transition(context.Background(), "r2", maintenance.StatusCompleted)
	if err != nil {
		t.Fatalf("Transition: %v", err)
	}
	if got.Status != maintenance.StatusCompleted {
		t.Errorf("status = %s", got.Status)
	}

	for _, r := range b.Requests() {
		if r.ID == "r2" && (r.CompletedAt == nil || !r.CompletedAt.Equal(serverDone)) {
			t.Errorf("snapshot CompletedAt = %v, want server value", r.CompletedAt)
		}
	}
}

func TestBoard_TransitionRollsBack(t *testing.T) {
	applied := make(chan maintenance.Status, 1)
	var b *Board
	b = newTestBoard(t, map[string]http.HandlerFunc{
		"POST /api/v1/requests/r1/transition": func(w http.ResponseWriter, _ *http.Request) {
			applied <- statusOf(b, "r1")
			jsonResponse(w, 503, map[string]string{"code": "transport_error", "message": "store unavailable"})
		},
	})

	_, err := b.Transition(context.Background(), "r1", maintenance.StatusInProgress)
	if !errors.Is(err, maintenance.ErrTransport) {
		t.Fatalf("expected ErrTransport, got %v", err)
	}

	if got := <-applied; got != maintenance.StatusInProgress {
		t.Errorf("status while in flight = %s, want in_progress", got)
	}
	if got := statusOf(b, "r1"); got != maintenance.StatusPending {
		t.Errorf("status after rollback = %s, want pending", got)
	}
}

func TestBoard_InvalidTransitionStaysLocal(t *testing.T) {
	var calls atomic.Int32
	b := newTestBoard(t, map[string]http.HandlerFunc{
		"POST /api/v1/requests/r3/transition": func(w http.ResponseWriter, _ *http.Request) {
			calls.Add(1)
			jsonResponse(w, 200, maintenance.Request{ID: "r3"})
		},
	})

	_, err := b.Transition(context.Background(), "r3", maintenance.StatusPending)
	if !errors.Is(err, maintenance.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	if calls.Load() != 0 {
		t.Errorf("server called %d times", calls.Load())
	}
	if got := statusOf(b, "r3"); got != maintenance.StatusCompleted {
		t.Errorf("status = %s, want completed", got)
	}
}

func TestBoard_UnknownRequest(t *testing.T) {
	b := newTestBoard(t, map[string]http.HandlerFunc{})

	if _, err := b.Transition(context.Background(), "missing", maintenance.StatusInProgress); !errors.Is(err, maintenance.ErrNotFound) {
		t.Errorf("Transition: expected ErrNotFound, got %v", err)
	}
	if err := b.Delete(context.Background(), "missing"); !errors.Is(err, maintenance.ErrNotFound) {
		t.Errorf("Delete: expected ErrNotFound, got %v", err)
	}
}

func TestBoard_PatchRollsBack(t *testing.T) {
	b := newTestBoard(t, map[string]http.HandlerFunc{
		"PATCH /api/v1/requests/r1": func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, 403, map[string]string{"code": "forbidden", "message": "landlord only"})
		},
	})

	assignee := "plumber-co"
	_, err := b.Patch(context.Background(), "r1", &PatchRequest{AssignedTo: &assignee})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	for _, r := range b.Requests() {
		if r.ID == "r1" && r.AssignedTo != nil {
			t.Errorf("AssignedTo = %q after rollback", *r.AssignedTo)
		}
	}
}

func TestBoard_DeleteRollsBackInPlace(t *testing.T) {
	b := newTestBoard(t, map[string]http.HandlerFunc{
		"DELETE /api/v1/requests/r2": func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, 503, map[string]string{"code": "transport_error", "message": "down"})
		},
		"DELETE /api/v1/requests/r3": func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		},
	})

	ctx := context.Background()

	if err := b.Delete(ctx, "r2"); err == nil {
		t.Fatal("expected error")
	}
	if got := ids(b.Requests()); !slices.Equal(got, []string{"r1", "r2", "r3"}) {
		t.Errorf("after failed delete = %v", got)
	}

	if err := b.Delete(ctx, "r3"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if got := ids(b.Requests()); !slices.Equal(got, []string{"r1", "r2"}) {
		t.Errorf("after delete = %v", got)
	}
}

func TestBoard_CreatePrepends(t *testing.T) {
	b := newTestBoard(t, map[string]http.HandlerFunc{
		"POST /api/v1/properties/p1/requests": func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, 201, maintenance.Request{ID: "r4", PropertyID: "p1", Status: maintenance.StatusPending, CreatedAt: boardNow})
		},
	})

	if _, err := b.Create(context.Background(), &CreateRequest{Title: "Mold"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if got := ids(b.Requests()); !slices.Equal(got, []string{"r4", "r1", "r2", "r3"}) {
		t.Errorf("after create = %v", got)
	}
}

func TestBoard_LocalViews(t *testing.T) {
	b := newTestBoard(t, map[string]http.HandlerFunc{})

	got := ids(b.View(maintenance.Query{SortBy: maintenance.SortSeverity}))
	if !slices.Equal(got, []string{"r1", "r3", "r2"}) {
		t.Errorf("View(severity) = %v", got)
	}

	stats := b.Stats()
	if stats.TotalRequests != 3 || stats.PendingRequests != 1 || stats.CompletedRequests != 1 {
		t.Errorf("Stats = %+v", stats)
	}

	grid := b.Calendar(maintenance.Month{Year: 2026, Month: time.March}, time.UTC)
	n := 0
	for _, cell := range grid {
		n += len(cell.Requests)
	}
	if n != 3 {
		t.Errorf("calendar holds %d requests, want 3", n)
	}
}

func ids(rs []maintenance.Request) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.ID
	}
	return out
}
