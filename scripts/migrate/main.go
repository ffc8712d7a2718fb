// Command migrate copies a memory-store snapshot into PostgreSQL so a
// deployment that started on STORE_DRIVER=memory can move to postgres
// without losing requests, notes, users or audit history.
//
// Usage:
//
//	SNAPSHOT_PATH=/var/lib/rentdesk/snapshot.db DATABASE_URL=postgres://... go run ./scripts/migrate
//
// Rows whose id already exists in PostgreSQL are left untouched, so the
// migration can be re-run.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"

	"github.com/rentdesk/rentdesk/internal/db"
	"github.com/rentdesk/rentdesk/internal/db/migrations"
	"github.com/rentdesk/rentdesk/internal/dbpool"
)

// config holds environment-driven migration settings.
type config struct {
	SnapshotPath string
	DatabaseURL  string
	DryRun       bool
}

// report holds the final migration summary.
type report struct {
	Source   string
	Target   string
	Read     counts
	Inserted counts
	Verified counts
	Orphans  []string
	Duration time.Duration
	DryRun   bool
	Err      error
}

// counts tallies rows per table.
type counts struct {
	Users, Requests, Notes, Audit int
}

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg := loadConfig()
	if cfg.DatabaseURL == "" && !cfg.DryRun {
		log.Error("DATABASE_URL is required")
		os.Exit(1)
	}
	if cfg.SnapshotPath == "" {
		log.Error("SNAPSHOT_PATH is required")
		os.Exit(1)
	}

	log.WithFields(logrus.Fields{"snapshot": cfg.SnapshotPath, "dry_run": cfg.DryRun}).Info("starting migration")

	start := time.Now()
	r, err := runMigration(context.Background(), cfg, log)
	r.Duration = time.Since(start)
	if err != nil {
		r.Err = err
		log.WithError(err).Error("migration failed")
	}
	printReport(os.Stdout, &r)
	if err != nil {
		os.Exit(1)
	}
}

// loadConfig reads configuration from environment variables.
func loadConfig() config {
	return config{
		SnapshotPath: envOr("SNAPSHOT_PATH", ""),
		DatabaseURL:  envOr("DATABASE_URL", ""),
		DryRun:       os.Getenv("DRY_RUN") == "true" || os.Getenv("DRY_RUN") == "1",
	}
}

// runMigration reads the snapshot and writes it in one transaction.
func runMigration(ctx context.Context, cfg config, log *logrus.Logger) (report, error) {
	r := report{
		Source: cfg.SnapshotPath,
		Target: sanitizeURL(cfg.DatabaseURL),
		DryRun: cfg.DryRun,
	}

	snap, err := readSnapshot(ctx, cfg.SnapshotPath)
	if err != nil {
		return r, fmt.Errorf("read snapshot: %w", err)
	}
	r.Read = counts{Users: len(snap.Users), Requests: len(snap.Requests), Notes: len(snap.Notes), Audit: len(snap.Audit)}
	r.Orphans = snap.orphanNotes()
	log.WithFields(logrus.Fields{
		"users": r.Read.Users, "requests": r.Read.Requests, "notes": r.Read.Notes, "audit": r.Read.Audit,
	}).Info("read snapshot")

	if cfg.DryRun {
		log.Info("dry run, skipping PostgreSQL writes")
		r.Inserted = r.Read
		r.Inserted.Notes -= len(r.Orphans)
		return r, nil
	}

	// Make sure the schema exists before writing into it.
	pool, err := dbpool.NewPool(ctx, cfg.DatabaseURL, 2)
	if err != nil {
		return r, fmt.Errorf("connect postgres: %w", err)
	}
	err = db.RunMigrations(ctx, pool, log, migrations.FS)
	pool.Close()
	if err != nil {
		return r, fmt.Errorf("apply schema: %w", err)
	}

	conn, err := pgx.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return r, fmt.Errorf("connect postgres: %w", err)
	}
	defer conn.Close(ctx)

	tx, err := conn.Begin(ctx)
	if err != nil {
		return r, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit.

	if r.Inserted, err = insertAll(ctx, tx, snap); err != nil {
		return r, err
	}
	log.WithFields(logrus.Fields{
		"users": r.Inserted.Users, "requests": r.Inserted.Requests, "notes": r.Inserted.Notes, "audit": r.Inserted.Audit,
	}).Info("inserted rows")

	if r.Verified, err = verify(ctx, tx, snap); err != nil {
		return r, fmt.Errorf("verify: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return r, fmt.Errorf("commit: %w", err)
	}
	log.Info("transaction committed")
	return r, nil
}
