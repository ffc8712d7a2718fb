// Command rentdesk-server runs the rentdesk maintenance request API.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata" // TIMEZONE must resolve on hosts without zoneinfo.

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/errgroup"

	"github.com/rentdesk/rentdesk/internal/api"
	"github.com/rentdesk/rentdesk/internal/cache"
	"github.com/rentdesk/rentdesk/internal/config"
	"github.com/rentdesk/rentdesk/internal/db"
	"github.com/rentdesk/rentdesk/internal/domain"
	"github.com/rentdesk/rentdesk/internal/middleware"
	"github.com/rentdesk/rentdesk/internal/service"
	"github.com/rentdesk/rentdesk/internal/tracing"
)

const (
	shutdownTimeout = 15 * time.Second
	auditQueueSize  = 1000
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "rentdesk-server:", err)
		os.Exit(1)
	}
}

func newLogger(level string) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)

	return log
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := newLogger(cfg.LogLevel)
	log.WithFields(logrus.Fields{
		"version":     config.Version,
		"store":       cfg.StoreDriver,
		"timezone":    cfg.Location().String(),
		"environment": cfg.Environment,
	}).Info("starting rentdesk")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init(ctx, log, cfg.OTLPEndpoint, "rentdesk", config.Version, cfg.Environment)
	if err != nil {
		return fmt.Errorf("initializing tracing: %w", err)
	}

	be, err := openBackend(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer be.close()

	if err := seedUsers(ctx, be.users, cfg.BootstrapUsers, log); err != nil {
		return err
	}

	checks := map[string]api.HealthChecker{"store": be.health}

	var (
		requests domain.RequestStore = be.requests
		rdb      *redis.Client
	)

	if cfg.CacheEnabled() {
		rdb, err = cache.Connect(ctx, cfg.RedisURL.Value())
		if err != nil {
			return fmt.Errorf("connecting to redis: %w", err)
		}
		defer rdb.Close()

		requests = cache.NewRequestCache(be.requests, rdb, cfg.CacheTTL, log)
		checks["cache"] = api.CheckFunc(func(ctx context.Context) error { return rdb.Ping(ctx).Err() })
		log.WithField("ttl", cfg.CacheTTL).Info("request cache enabled")
	}

	rlStore, err := middleware.NewRateLimitStore(rdb)
	if err != nil {
		return err
	}

	auditWorker := service.NewAuditWorker(be.audit, log, auditQueueSize)
	workerCtx, stopWorker := context.WithCancel(context.Background())
	workerDone := make(chan struct{})
	go func() {
		auditWorker.Run(workerCtx)
		close(workerDone)
	}()

	router := api.NewRouter(ctx, &api.RouterDeps{
		Log:            log,
		Requests:       service.NewRequestService(requests, auditWorker, log, nil),
		Notes:          service.NewNoteService(requests, be.notes, auditWorker, log, nil),
		Views:          service.NewViewService(requests, cfg.Location(), cfg.DashboardFanout, log, nil),
		Audit:          service.NewAuditService(be.audit, log),
		ActorLookup:    be.users,
		RateLimitStore: rlStore,
		HealthChecks:   checks,
		CORSOrigins:    cfg.CORSOrigins,
		Version:        config.Version,
		SchemaVersion:  db.SchemaVersion(),
	})

	apiSrv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           otelhttp.NewHandler(router, "rentdesk"),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())
	metricsSrv := &http.Server{
		Addr:              cfg.MetricsAddr(),
		Handler:           metricsMux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error { return serve(apiSrv, log, "api") })
	g.Go(func() error { return serve(metricsSrv, log, "metrics") })
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		return errors.Join(apiSrv.Shutdown(shutdownCtx), metricsSrv.Shutdown(shutdownCtx))
	})

	err = g.Wait()

	stopWorker()
	<-workerDone

	flushCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if tErr := shutdownTracing(flushCtx); tErr != nil {
		log.WithError(tErr).Warn("flushing traces")
	}

	log.Info("stopped")

	return err
}

// serve runs srv until it is shut down. A clean shutdown is not an error.
func serve(srv *http.Server, log *logrus.Logger, name string) error {
	log.WithFields(logrus.Fields{"listener": name, "addr": srv.Addr}).Info("listening")

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("%s listener: %w", name, err)
	}

	return nil
}
