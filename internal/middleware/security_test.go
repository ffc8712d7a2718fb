package middleware_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/rentdesk/rentdesk/internal/middleware"
)

// hardenedRouter mounts the request-hardening middleware the way the API
// router does, in front of a request-creation route.
func hardenedRouter(maxBody int64) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(quietLogger()), middleware.SecurityHeaders(), middleware.MaxBodySize(maxBody))
	r.POST("/api/v1/properties/:propertyId/requests", func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.AbortWithStatus(http.StatusRequestEntityTooLarge)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"property_id": c.Param("propertyId"), "bytes": len(body)})
	})
	return r
}

func TestSecurityHeaders_OnEveryResponse(t *testing.T) {
	r := hardenedRouter(64)

	tests := []struct {
		name string
		req  *http.Request
		want int
	}{
		{
			name: "created request",
			req:  httptest.NewRequest(http.MethodPost, "/api/v1/properties/p1/requests", strings.NewReader(`{"title":"Leak"}`)),
			want: http.StatusCreated,
		},
		{
			name: "oversized body",
			req:  httptest.NewRequest(http.MethodPost, "/api/v1/properties/p1/requests", strings.NewReader(strings.Repeat("x", 65))),
			want: http.StatusRequestEntityTooLarge,
		},
		{
			name: "unknown route",
			req:  httptest.NewRequest(http.MethodGet, "/api/v1/leases", http.NoBody),
			want: http.StatusNotFound,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, tc.req)

			if w.Code != tc.want {
				t.Fatalf("status = %d, want %d", w.Code, tc.want)
			}
			for _, h := range []string{"Content-Security-Policy", "Strict-Transport-Security", "X-Content-Type-Options"} {
				if w.Header().Get(h) == "" {
					t.Errorf("%s missing", h)
				}
			}
			if w.Header().Get("Cache-Control") != "no-store" {
				t.Errorf("Cache-Control = %q, want no-store", w.Header().Get("Cache-Control"))
			}
		})
	}
}

func TestMaxBodySize_DeclaredLengthRejectedUpFront(t *testing.T) {
	r := hardenedRouter(64)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/properties/p1/requests", strings.NewReader(strings.Repeat("x", 65)))
	r.ServeHTTP(w, req)

	var body struct {
		Code      string `json:"code"`
		RequestID string `json:"request_id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding error body: %v", err)
	}
	if body.Code != "payload_too_large" {
		t.Errorf("code = %q, want payload_too_large", body.Code)
	}
	if body.RequestID == "" || body.RequestID != w.Header().Get(middleware.RequestIDHeader) {
		t.Errorf("request_id = %q, header = %q", body.RequestID, w.Header().Get(middleware.RequestIDHeader))
	}
}

func TestMaxBodySize_ChunkedBodyCappedOnRead(t *testing.T) {
	r := hardenedRouter(64)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/properties/p1/requests", strings.NewReader(strings.Repeat("x", 65)))
	req.ContentLength = -1
	r.ServeHTTP(w, req)

	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status = %d, want 413", w.Code)
	}
}

func TestRequestID_ServerIDWinsOverClientID(t *testing.T) {
	r := hardenedRouter(1024)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/properties/p1/requests", strings.NewReader(`{}`))
	req.Header.Set(middleware.RequestIDHeader, strings.Repeat("c", 500))
	r.ServeHTTP(w, req)

	got := w.Header().Get(middleware.RequestIDHeader)
	if got == "" || strings.HasPrefix(got, "ccc") {
		t.Errorf("X-Request-ID = %q, want a server-generated id", got)
	}
}
