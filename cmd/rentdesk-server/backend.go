package main

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/rentdesk/rentdesk/internal/api"
	"github.com/rentdesk/rentdesk/internal/config"
	"github.com/rentdesk/rentdesk/internal/db"
	"github.com/rentdesk/rentdesk/internal/db/migrations"
	"github.com/rentdesk/rentdesk/internal/dbpool"
	"github.com/rentdesk/rentdesk/internal/domain"
	"github.com/rentdesk/rentdesk/internal/memstore"
	"github.com/rentdesk/rentdesk/internal/models"
	"github.com/rentdesk/rentdesk/internal/store"
)

// userRegistry resolves API keys and registers bootstrap users.
type userRegistry interface {
	domain.ActorLookup
	UpsertUser(ctx context.Context, actor models.Actor, name, apiKey string) error
}

// backend is the storage selected by STORE_DRIVER.
type backend struct {
	requests domain.RequestStore
	notes    domain.NoteStore
	users    userRegistry
	audit    domain.AuditStore
	health   api.HealthChecker
	close    func()
}

func openBackend(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*backend, error) {
	if cfg.StoreDriver == config.DriverMemory {
		return openMemory(cfg, log)
	}

	return openPostgres(ctx, cfg, log)
}

func openPostgres(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*backend, error) {
	pool, err := dbpool.NewPool(ctx, cfg.DatabaseURL.Value(), cfg.DBMaxConns)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	if err := db.RunMigrations(ctx, pool, log, migrations.FS); err != nil {
		pool.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	base := store.Base{Pool: pool, Log: log}

	log.WithField("max_conns", cfg.DBMaxConns).Info("using postgres store")

	return &backend{
		requests: store.NewRequestStore(base),
		notes:    store.NewNoteStore(base),
		users:    store.NewUserStore(base),
		audit:    store.NewAuditStore(base),
		health:   pool,
		close:    pool.Close,
	}, nil
}

func openMemory(cfg *config.Config, log *logrus.Logger) (*backend, error) {
	var (
		mem *memstore.Store
		err error
	)

	if cfg.SnapshotPath != "" {
		mem, err = memstore.Open(cfg.SnapshotPath, log)
		if err != nil {
			return nil, fmt.Errorf("opening snapshot: %w", err)
		}
	} else {
		mem = memstore.New(log)
		log.Warn("memory store has no SNAPSHOT_PATH; data is lost on restart")
	}

	log.WithField("snapshot", cfg.SnapshotPath).Info("using memory store")

	return &backend{
		requests: mem,
		notes:    mem,
		users:    mem,
		audit:    mem,
		health:   mem,
		close: func() {
			if err := mem.Close(); err != nil {
				log.WithError(err).Warn("closing snapshot")
			}
		},
	}, nil
}

// seedUsers registers BOOTSTRAP_USERS, rotating keys of users that exist.
func seedUsers(ctx context.Context, users userRegistry, boot []config.BootstrapUser, log *logrus.Logger) error {
	for _, u := range boot {
		actor := models.Actor{UserID: u.UserID, Role: u.Role}
		if err := users.UpsertUser(ctx, actor, u.UserID, u.APIKey.Value()); err != nil {
			return fmt.Errorf("registering user %s: %w", u.UserID, err)
		}
	}

	if len(boot) > 0 {
		log.WithField("count", len(boot)).Info("bootstrap users registered")
	}

	return nil
}
