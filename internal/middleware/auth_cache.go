package middleware

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"sync"
	"time"

	"github.com/rentdesk/rentdesk/internal/models"
)

const (
	actorCacheTTL      = 5 * time.Minute
	negativeCacheTTL   = 30 * time.Second
	maxCacheEntries    = 10000
	cacheCleanupPeriod = 60 * time.Second
)

// errCachedNotFound is returned for negative cache hits.
var errCachedNotFound = errors.New("api key not found (cached)")

type cachedActor struct {
	actor     models.Actor
	negative  bool
	fetchedAt time.Time
}

func (ca cachedActor) expired(now time.Time) bool {
	ttl := actorCacheTTL
	if ca.negative {
		ttl = negativeCacheTTL
	}

	return now.Sub(ca.fetchedAt) >= ttl
}

// hashKey returns a hex-encoded SHA-256 hash of the API key so raw keys
// are never held in memory.
func hashKey(apiKey string) string {
	h := sha256.Sum256([]byte(apiKey))
	return hex.EncodeToString(h[:])
}

// CachedActorLookup wraps an ActorLookup with a bounded in-memory cache.
// Failed lookups are cached briefly so repeated bad keys do not reach the store.
type CachedActorLookup struct {
	inner ActorLookup
	now   func() time.Time
	mu    sync.RWMutex
	cache map[string]cachedActor
}

// NewCachedActorLookup creates a caching wrapper around inner. ctx bounds
// the lifetime of the background eviction goroutine.
func NewCachedActorLookup(ctx context.Context, inner ActorLookup) *CachedActorLookup {
	c := &CachedActorLookup{
		inner: inner,
		now:   time.Now,
		cache: make(map[string]cachedActor),
	}
	go c.evictLoop(ctx)
	return c
}

func (c *CachedActorLookup) evictLoop(ctx context.Context) {
	ticker := time.NewTicker(cacheCleanupPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.mu.Lock()
			c.evictExpired(c.now())
			c.mu.Unlock()
		}
	}
}

// evictExpired drops stale entries. Caller must hold c.mu.
func (c *CachedActorLookup) evictExpired(now time.Time) {
	for k, v := range c.cache {
		if v.expired(now) {
			delete(c.cache, k)
		}
	}
}

// GetActorByAPIKey returns a cached actor or delegates to the inner lookup.
func (c *CachedActorLookup) GetActorByAPIKey(ctx context.Context, apiKey string) (models.Actor, error) {
	hk := hashKey(apiKey)

	c.mu.RLock()
	entry, ok := c.cache[hk]
	c.mu.RUnlock()

	if ok && !entry.expired(c.now()) {
		if entry.negative {
			return models.Actor{}, errCachedNotFound
		}
		return entry.actor, nil
	}

	actor, err := c.inner.GetActorByAPIKey(ctx, apiKey)

	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.cache) >= maxCacheEntries {
		c.evictExpired(c.now())
		for k := range c.cache {
			if len(c.cache) < maxCacheEntries {
				break
			}
			delete(c.cache, k)
		}
	}

	if err != nil {
		// Only a definite miss is cached; store outages are retried.
		if errors.Is(err, models.ErrUnknownAPIKey) {
			c.cache[hk] = cachedActor{negative: true, fetchedAt: c.now()}
		}
		return models.Actor{}, err
	}

	c.cache[hk] = cachedActor{actor: actor, fetchedAt: c.now()}

	return actor, nil
}
