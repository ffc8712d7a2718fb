package middleware

import (
	"context"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	bruteForceMaxAttempts = 5
	bruteForceWindow      = 15 * time.Minute
	bruteForceLockout     = 5 * time.Minute
	bruteForceCleanup     = 60 * time.Second
	bruteForceMaxRecords  = 10000
)

type failureRecord struct {
	attempts  int
	firstFail time.Time
	lockedAt  time.Time
}

func (r *failureRecord) locked(now time.Time) bool {
	return !r.lockedAt.IsZero() && now.Sub(r.lockedAt) < bruteForceLockout
}

func (r *failureRecord) stale(now time.Time) bool {
	if !r.lockedAt.IsZero() {
		return now.Sub(r.lockedAt) >= bruteForceLockout
	}

	return now.Sub(r.firstFail) >= bruteForceWindow
}

// BruteForceGuard tracks authentication failures per API key hash and locks
// out keys that fail too often within the tracking window.
type BruteForceGuard struct {
	mu      sync.Mutex
	records map[string]*failureRecord
	now     func() time.Time
	log     *logrus.Logger
}

// NewBruteForceGuard creates a guard whose background cleanup stops when ctx
// is cancelled.
func NewBruteForceGuard(ctx context.Context, log *logrus.Logger) *BruteForceGuard {
	g := &BruteForceGuard{
		records: make(map[string]*failureRecord),
		now:     time.Now,
		log:     log,
	}
	go g.cleanupLoop(ctx)
	return g
}

// IsBlocked reports whether apiKey is currently locked out.
func (g *BruteForceGuard) IsBlocked(apiKey string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	rec, ok := g.records[hashKey(apiKey)]

	return ok && rec.locked(g.now())
}

// RecordFailure records a failed authentication attempt for apiKey.
func (g *BruteForceGuard) RecordFailure(apiKey string) {
	kh := hashKey(apiKey)
	now := g.now()

	g.mu.Lock()
	defer g.mu.Unlock()

	rec, ok := g.records[kh]
	if !ok || now.Sub(rec.firstFail) > bruteForceWindow {
		g.records[kh] = &failureRecord{attempts: 1, firstFail: now}
		return
	}

	rec.attempts++
	if rec.attempts >= bruteForceMaxAttempts && rec.lockedAt.IsZero() {
		rec.lockedAt = now
		g.log.WithField("key_hash", kh[:16]+"...").Warn("api key locked out after repeated auth failures")
	}
}

// ResetKey clears failure tracking for a key after a successful login.
func (g *BruteForceGuard) ResetKey(apiKey string) {
	g.mu.Lock()
	delete(g.records, hashKey(apiKey))
	g.mu.Unlock()
}

func (g *BruteForceGuard) cleanupLoop(ctx context.Context) {
	ticker := time.NewTicker(bruteForceCleanup)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			g.sweep()
		}
	}
}

// sweep drops stale records and trims the table to bruteForceMaxRecords,
// oldest first.
func (g *BruteForceGuard) sweep() {
	now := g.now()

	g.mu.Lock()
	defer g.mu.Unlock()

	for k, rec := range g.records {
		if rec.stale(now) {
			delete(g.records, k)
		}
	}

	excess := len(g.records) - bruteForceMaxRecords
	if excess <= 0 {
		return
	}

	keys := make([]string, 0, len(g.records))
	for k := range g.records {
		keys = append(keys, k)
	}

	slices.SortFunc(keys, func(a, b string) int {
		return g.records[a].firstFail.Compare(g.records[b].firstFail)
	})

	for _, k := range keys[:excess] {
		delete(g.records, k)
	}
}

// BruteForceMiddleware blocks requests carrying a locked-out API key.
func BruteForceMiddleware(guard *BruteForceGuard) gin.HandlerFunc {
	return func(c *gin.Context) {
		if apiKey := ExtractBearerToken(c); apiKey != "" && guard.IsBlocked(apiKey) {
			respondError(c, http.StatusTooManyRequests, "rate_limited", "too many failed authentication attempts")
			return
		}

		c.Next()
	}
}
