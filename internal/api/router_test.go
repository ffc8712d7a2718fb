package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/rentdesk/rentdesk/internal/api"
	"github.com/rentdesk/rentdesk/internal/memstore"
	"github.com/rentdesk/rentdesk/internal/middleware"
	"github.com/rentdesk/rentdesk/internal/service"
	"github.com/rentdesk/rentdesk/maintenance"
)

// newStack wires the real router, services and in-memory store.
func newStack(t *testing.T) http.Handler {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	log := testLogger()
	store := memstore.New(log)

	if err := store.UpsertUser(ctx, testTenant, "Tess Tenant", "tenant-key"); err != nil {
		t.Fatalf("seeding tenant: %v", err)
	}
	if err := store.UpsertUser(ctx, testLandlord, "Lee Landlord", "landlord-key"); err != nil {
		t.Fatalf("seeding landlord: %v", err)
	}

	aw := service.NewAuditWorker(store, log, 100)
	go aw.Run(ctx)

	rl, err := middleware.NewRateLimitStore(nil)
	if err != nil {
		t.Fatalf("rate limit store: %v", err)
	}

	return api.NewRouter(ctx, &api.RouterDeps{
		Log:            log,
		Requests:       service.NewRequestService(store, aw, log, nil),
		Notes:          service.NewNoteService(store, store, aw, log, nil),
		Views:          service.NewViewService(store, time.UTC, 2, log, nil),
		Audit:          service.NewAuditService(store, log),
		ActorLookup:    store,
		RateLimitStore: rl,
		HealthChecks:   map[string]api.HealthChecker{"store": store},
		CORSOrigins:    []string{"http://localhost:3000"},
		Version:        "test",
		SchemaVersion:  3,
	})
}

func as(key string) []string {
	return []string{"Authorization", "Bearer " + key}
}

func TestRouter_Lifecycle(t *testing.T) {
	h := newStack(t)

	if w := doRequest(h, http.MethodGet, "/api/v1/properties/p1/requests", ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("unauthenticated list: expected 401, got %d", w.Code)
	}

	w := doRequest(h, http.MethodPost, "/api/v1/properties/p1/requests",
		`{"title":"No hot water","description":"Boiler light off","priority":"emergency","category":"hvac"}`,
		as("tenant-key")...)
	if w.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var created maintenance.Request
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if created.Status != maintenance.StatusPending || created.TenantID != testTenant.UserID {
		t.Fatalf("created = %+v", created)
	}

	path := "/api/v1/requests/" + created.ID

	if w := doRequest(h, http.MethodPost, path+"/transition", `{"status":"in_progress"}`, as("landlord-key")...); w.Code != http.StatusOK {
		t.Fatalf("start: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if w := doRequest(h, http.MethodPost, path+"/transition", `{"status":"pending"}`, as("landlord-key")...); w.Code != http.StatusConflict {
		t.Fatalf("backwards: expected 409, got %d", w.Code)
	}

	w = doRequest(h, http.MethodPost, path+"/transition", `{"status":"completed"}`, as("tenant-key")...)
	if w.Code != http.StatusOK {
		t.Fatalf("complete: expected 200, got %d", w.Code)
	}
	var done maintenance.Request
	_ = json.Unmarshal(w.Body.Bytes(), &done)
	if done.CompletedAt == nil {
		t.Fatal("completed request has no completed_at")
	}

	if w := doRequest(h, http.MethodPost, path+"/transition", `{"status":"completed"}`, as("tenant-key")...); w.Code != http.StatusOK {
		t.Fatalf("resubmit: expected 200, got %d", w.Code)
	}

	if w := doRequest(h, http.MethodPost, path+"/notes", `{"content":"Fixed, thanks"}`, as("tenant-key")...); w.Code != http.StatusCreated {
		t.Fatalf("note: expected 201, got %d", w.Code)
	}

	w = doRequest(h, http.MethodGet, "/api/v1/stats?property_id=p1", "", as("landlord-key")...)
	var stats maintenance.Stats
	if err := json.Unmarshal(w.Body.Bytes(), &stats); err != nil || stats.CompletedRequests != 1 || stats.HighPriorityRequests != 1 {
		t.Fatalf("stats = %+v (%v)", stats, err)
	}

	if w := doRequest(h, http.MethodDelete, path, "", as("tenant-key")...); w.Code != http.StatusForbidden {
		t.Fatalf("tenant delete: expected 403, got %d", w.Code)
	}
	if w := doRequest(h, http.MethodDelete, path, "", as("landlord-key")...); w.Code != http.StatusNoContent {
		t.Fatalf("landlord delete: expected 204, got %d", w.Code)
	}
	if w := doRequest(h, http.MethodGet, path+"/notes", "", as("tenant-key")...); w.Code != http.StatusNotFound {
		t.Fatalf("notes after delete: expected 404, got %d", w.Code)
	}
}

func TestRouter_AuditIsLandlordOnly(t *testing.T) {
	h := newStack(t)

	if w := doRequest(h, http.MethodGet, "/api/v1/audit", "", as("tenant-key")...); w.Code != http.StatusForbidden {
		t.Fatalf("tenant: expected 403, got %d", w.Code)
	}
	if w := doRequest(h, http.MethodGet, "/api/v1/audit", "", as("landlord-key")...); w.Code != http.StatusOK {
		t.Fatalf("landlord: expected 200, got %d", w.Code)
	}
}

func TestRouter_HealthIsPublic(t *testing.T) {
	h := newStack(t)

	if w := doRequest(h, http.MethodGet, "/api/v1/ready", ""); w.Code != http.StatusOK {
		t.Fatalf("ready: expected 200, got %d: %s", w.Code, w.Body.String())
	}
}
