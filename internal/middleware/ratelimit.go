// Package middleware provides HTTP middleware for the rentdesk API.
package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/ulule/limiter/v3"
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"
)

const rateLimitPrefix = "rentdesk:ratelimit"

// NewRateLimitStore returns a Redis-backed limiter store when rdb is set, so
// limits hold across replicas, and an in-process store otherwise.
func NewRateLimitStore(rdb *redis.Client) (limiter.Store, error) {
	opts := limiter.StoreOptions{Prefix: rateLimitPrefix, CleanUpInterval: 5 * time.Minute}

	if rdb == nil {
		return memory.NewStoreWithOptions(opts), nil
	}

	store, err := sredis.NewStoreWithOptions(rdb, opts)
	if err != nil {
		return nil, fmt.Errorf("creating redis rate limit store: %w", err)
	}

	return store, nil
}

// RateLimit returns Gin middleware allowing perSecond requests per client IP.
// Store failures let the request through rather than failing the API.
func RateLimit(store limiter.Store, perSecond int64, log *logrus.Logger) gin.HandlerFunc {
	instance := limiter.New(store, limiter.Rate{Period: time.Second, Limit: perSecond})

	return mgin.NewMiddleware(instance,
		mgin.WithLimitReachedHandler(func(c *gin.Context) {
			respondError(c, http.StatusTooManyRequests, "rate_limited", "rate limit exceeded")
		}),
		mgin.WithErrorHandler(func(c *gin.Context, err error) {
			log.WithError(err).Warn("rate limiter unavailable")
			c.Next()
		}),
	)
}
