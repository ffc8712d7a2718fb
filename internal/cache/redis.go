// Package cache provides a Redis read-through layer in front of the
// request store. Per-property request sets are cached as JSON and dropped
// whenever a request in that property changes.
//
// Every invalidation also bumps a per-property version counter. A fill only
// lands if the counter still holds the value read before the inner fetch, so
// a set loaded before a concurrent write is never cached after it.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/rentdesk/rentdesk/internal/domain"
	"github.com/rentdesk/rentdesk/internal/metrics"
	"github.com/rentdesk/rentdesk/maintenance"
)

// errStaleFill aborts a fill that raced an invalidation.
var errStaleFill = errors.New("request set changed during fill")

const (
	keyPrefix        = "rentdesk:requests:property:"
	versionKeyPrefix = "rentdesk:requests:version:"
	pingTimeout      = 5 * time.Second
)

// Connect parses a redis:// or rediss:// URL and verifies the server answers.
func Connect(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}

	rdb := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}

	return rdb, nil
}

// RequestCache wraps a RequestStore and caches ListRequestsByProperty.
// Redis failures are logged and fall through to the inner store.
type RequestCache struct {
	domain.RequestStore

	rdb *redis.Client
	ttl time.Duration
	log *logrus.Logger
}

var _ domain.RequestStore = (*RequestCache)(nil)

// NewRequestCache returns a caching decorator around inner.
func NewRequestCache(inner domain.RequestStore, rdb *redis.Client, ttl time.Duration, log *logrus.Logger) *RequestCache {
	return &RequestCache{RequestStore: inner, rdb: rdb, ttl: ttl, log: log}
}

func propertyKey(propertyID string) string {
	return keyPrefix + propertyID
}

func versionKey(propertyID string) string {
	return versionKeyPrefix + propertyID
}

// ListRequestsByProperty serves the request set from Redis when present.
func (c *RequestCache) ListRequestsByProperty(ctx context.Context, propertyID string) ([]maintenance.Request, error) {
	key := propertyKey(propertyID)

	raw, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var reqs []maintenance.Request
		if jsonErr := json.Unmarshal(raw, &reqs); jsonErr == nil {
			metrics.CacheRequestsTotal.WithLabelValues("hit").Inc()
			return reqs, nil
		}
		c.log.WithField("key", key).Warn("discarding undecodable cache entry")
		metrics.CacheRequestsTotal.WithLabelValues("error").Inc()
	case errors.Is(err, redis.Nil):
		metrics.CacheRequestsTotal.WithLabelValues("miss").Inc()
	default:
		c.log.WithError(err).Warn("request cache read failed")
		metrics.CacheRequestsTotal.WithLabelValues("error").Inc()
	}

	seen, vErr := c.rdb.Get(ctx, versionKey(propertyID)).Int64()
	canFill := vErr == nil || errors.Is(vErr, redis.Nil)

	reqs, err := c.RequestStore.ListRequestsByProperty(ctx, propertyID)
	if err != nil {
		return nil, err
	}

	if canFill {
		c.fill(ctx, propertyID, seen, reqs)
	}

	return reqs, nil
}

// fill caches reqs unless the property's version moved past seen.
func (c *RequestCache) fill(ctx context.Context, propertyID string, seen int64, reqs []maintenance.Request) {
	data, err := json.Marshal(reqs)
	if err != nil {
		return
	}

	vkey := versionKey(propertyID)

	err = c.rdb.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, vkey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != seen {
			return errStaleFill
		}

		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.Set(ctx, propertyKey(propertyID), data, c.ttl)
			return nil
		})
		return err
	}, vkey)

	switch {
	case err == nil:
	case errors.Is(err, errStaleFill), errors.Is(err, redis.TxFailedErr):
		metrics.CacheRequestsTotal.WithLabelValues("stale").Inc()
	default:
		c.log.WithError(err).Warn("request cache write failed")
	}
}

// CreateRequest creates through the inner store and invalidates the property.
func (c *RequestCache) CreateRequest(ctx context.Context, draft maintenance.Request) (*maintenance.Request, error) {
	req, err := c.RequestStore.CreateRequest(ctx, draft)
	if err != nil {
		return nil, err
	}

	c.invalidate(ctx, req.PropertyID)

	return req, nil
}

// PatchRequest patches through the inner store and invalidates the property.
func (c *RequestCache) PatchRequest(ctx context.Context, id string, patch maintenance.Patch) (*maintenance.Request, error) {
	req, err := c.RequestStore.PatchRequest(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	c.invalidate(ctx, req.PropertyID)

	return req, nil
}

// TransitionRequest transitions through the inner store and invalidates the
// property when the status changed.
func (c *RequestCache) TransitionRequest(
	ctx context.Context, id string, to maintenance.Status, now time.Time,
) (*maintenance.Request, maintenance.Status, error) {
	req, from, err := c.RequestStore.TransitionRequest(ctx, id, to, now)
	if err != nil {
		return nil, from, err
	}

	if from != req.Status {
		c.invalidate(ctx, req.PropertyID)
	}

	return req, from, nil
}

// DeleteRequest deletes through the inner store and invalidates the property.
func (c *RequestCache) DeleteRequest(ctx context.Context, id string) error {
	existing, err := c.RequestStore.GetRequest(ctx, id)
	if err != nil {
		return err
	}

	if err := c.RequestStore.DeleteRequest(ctx, id); err != nil {
		return err
	}

	c.invalidate(ctx, existing.PropertyID)

	return nil
}

func (c *RequestCache) invalidate(ctx context.Context, propertyID string) {
	_, err := c.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Incr(ctx, versionKey(propertyID))
		p.Del(ctx, propertyKey(propertyID))
		return nil
	})
	if err != nil {
		c.log.WithError(err).WithField("property_id", propertyID).Warn("request cache invalidation failed")
	}
}
