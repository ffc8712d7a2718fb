package store_test

import (
	"context"
	"os"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/rentdesk/rentdesk/internal/db"
	"github.com/rentdesk/rentdesk/internal/db/migrations"
	"github.com/rentdesk/rentdesk/internal/dbpool"
	"github.com/rentdesk/rentdesk/internal/store"
)

// testEnv holds shared test infrastructure (single pool across all tests).
type testEnv struct {
	pool *dbpool.Pool
	log  *logrus.Logger
}

var (
	sharedEnv *testEnv
	envOnce   sync.Once
	envErr    error
)

func getTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	envOnce.Do(func() {
		ctx := context.Background()

		pool, err := dbpool.NewPool(ctx, dbURL, 4)
		if err != nil {
			envErr = err
			return
		}

		log := logrus.New()
		log.SetLevel(logrus.ErrorLevel)

		if err := db.RunMigrations(ctx, pool, log, migrations.FS); err != nil {
			envErr = err
			return
		}

		sharedEnv = &testEnv{pool: pool, log: log}
	})

	if envErr != nil {
		t.Fatalf("preparing test DB: %v", envErr)
	}

	return sharedEnv
}

// setupTestBase returns a Base and a fresh property id whose requests are
// removed after the test.
func setupTestBase(t *testing.T) (_ store.Base, propertyID string) {
	t.Helper()

	env := getTestEnv(t)
	propertyID = "test-property-" + uuid.New().String()

	t.Cleanup(func() {
		ctx := context.Background()
		// Notes cascade with their request.
		env.pool.Exec(ctx, "DELETE FROM maintenance_requests WHERE property_id = $1", propertyID) //nolint:errcheck // best-effort cleanup
	})

	return store.Base{Pool: env.pool, Log: env.log}, propertyID
}
