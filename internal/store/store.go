// Package store provides focused, single-concern PostgreSQL stores for
// rentdesk.
//
// Each store owns one table family (requests, notes, users, audit) and
// embeds shared helpers via the Base struct. Stores never import each other;
// shared logic lives in this file or in scan.go.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"

	"github.com/rentdesk/rentdesk/internal/dbpool"
	"github.com/rentdesk/rentdesk/maintenance"
)

const defaultQueryTimeout = 30 * time.Second

// foreignKeyViolation is the PostgreSQL SQLSTATE for a missing referenced row.
const foreignKeyViolation = "23503"

// Base contains shared dependencies for all stores.
// Embed this in each store struct.
type Base struct {
	Pool *dbpool.Pool
	Log  *logrus.Logger
}

// withTimeout creates a context with the default query timeout.
func withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, defaultQueryTimeout)
}

// beginTx starts a read-write transaction.
func (b *Base) beginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := b.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}

	return tx, nil
}

// beginReadTx starts a read-only transaction.
func (b *Base) beginReadTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := b.Pool.BeginTx(ctx, pgx.TxOptions{AccessMode: pgx.ReadOnly})
	if err != nil {
		return nil, fmt.Errorf("beginning read transaction: %w", err)
	}

	return tx, nil
}

// validRequestID reports whether id can name a row in maintenance_requests.
// Malformed ids are treated as missing rather than sent to the database.
func validRequestID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func requestNotFound(id string) error {
	return fmt.Errorf("request %s: %w", id, maintenance.ErrNotFound)
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation
}
