package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/rentdesk/rentdesk/internal/api"
)

func TestLiveness_ReturnsOK(t *testing.T) {
	t.Parallel()

	h := api.NewHealthHandler(nil, testLogger(), "test-v1", 3)

	r := gin.New()
	r.GET("/health", h.Liveness)

	w := doRequest(r, http.MethodGet, "/health", "")

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if body["status"] != "ok" || body["version"] != "test-v1" {
		t.Errorf("body = %v", body)
	}
	if body["store"] != "not_configured" {
		t.Errorf("store = %v", body["store"])
	}
	if body["schema_version"] != float64(3) {
		t.Errorf("schema_version = %v", body["schema_version"])
	}
}

func TestReadiness(t *testing.T) {
	t.Parallel()

	ok := api.CheckFunc(func(context.Context) error { return nil })
	down := api.CheckFunc(func(context.Context) error { return errors.New("down") })

	tests := []struct {
		name     string
		checks   map[string]api.HealthChecker
		wantCode int
		wantRes  map[string]string
	}{
		{"all ok", map[string]api.HealthChecker{"store": ok, "cache": ok}, http.StatusOK, map[string]string{"store": "ok", "cache": "ok"}},
		{"cache degraded", map[string]api.HealthChecker{"store": ok, "cache": down}, http.StatusOK, map[string]string{"store": "ok", "cache": "degraded"}},
		{"store down", map[string]api.HealthChecker{"store": down}, http.StatusServiceUnavailable, map[string]string{"store": "error"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := api.NewHealthHandler(tt.checks, testLogger(), "v", 3)
			r := gin.New()
			r.GET("/ready", h.Readiness)

			w := doRequest(r, http.MethodGet, "/ready", "")
			if w.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d", tt.wantCode, w.Code)
			}

			var body struct {
				Checks map[string]string `json:"checks"`
			}
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid JSON: %v", err)
			}
			for k, v := range tt.wantRes {
				if body.Checks[k] != v {
					t.Errorf("check %s = %q, want %q", k, body.Checks[k], v)
				}
			}
		})
	}
}
