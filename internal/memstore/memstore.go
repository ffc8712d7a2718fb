// Package memstore provides an in-memory implementation of the rentdesk
// stores for tests and single-node deployments. State can optionally be
// snapshotted to a SQLite file after every mutation and reloaded on start.
package memstore

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/rentdesk/rentdesk/internal/domain"
	"github.com/rentdesk/rentdesk/internal/models"
	"github.com/rentdesk/rentdesk/maintenance"
)

// Compile-time contract assertions.
var (
	_ domain.RequestStore = (*Store)(nil)
	_ domain.NoteStore    = (*Store)(nil)
	_ domain.ActorLookup  = (*Store)(nil)
	_ domain.AuditStore   = (*Store)(nil)
)

// state is everything the store holds. It is also the snapshot format.
type state struct {
	Requests []maintenance.Request   `json:"requests"`
	Notes    []maintenance.Note      `json:"notes"`
	Users    map[string]models.Actor `json:"users"` // keyed by API key hash
	Audit    []models.AuditEntry     `json:"audit"`
	NoteSeq  int64                   `json:"note_seq"`
	AuditSeq int64                   `json:"audit_seq"`
}

// Store is a mutex-guarded in-memory store. The zero value is not usable;
// construct one with New or Open.
type Store struct {
	mu    sync.RWMutex
	log   *logrus.Logger
	now   func() time.Time
	snap  *snapshot
	state state
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New returns an empty, non-persistent store.
func New(log *logrus.Logger, opts ...Option) *Store {
	s := &Store{
		log: log,
		now: func() time.Time { return time.Now().UTC() },
		state: state{
			Users: map[string]models.Actor{},
		},
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Open returns a store backed by a SQLite snapshot at path, loading any
// state already saved there.
func Open(path string, log *logrus.Logger, opts ...Option) (*Store, error) {
	s := New(log, opts...)

	snap, err := openSnapshot(path)
	if err != nil {
		return nil, err
	}

	loaded, err := snap.load()
	if err != nil {
		snap.close() //nolint:errcheck // already failing.

		return nil, err
	}

	if loaded != nil {
		if loaded.Users == nil {
			loaded.Users = map[string]models.Actor{}
		}

		s.state = *loaded
		log.WithFields(logrus.Fields{
			"path":     path,
			"requests": len(loaded.Requests),
			"notes":    len(loaded.Notes),
		}).Info("memstore snapshot loaded")
	}

	s.snap = snap

	return s, nil
}

// Close releases the snapshot file, if any.
func (s *Store) Close() error {
	if s.snap == nil {
		return nil
	}

	return s.snap.close()
}

// HealthCheck reports whether the snapshot file, if any, is reachable.
func (s *Store) HealthCheck(ctx context.Context) error {
	if s.snap == nil {
		return nil
	}

	return s.snap.ping(ctx)
}

// commit persists the current state after a mutation. Callers hold s.mu.
func (s *Store) commit() error {
	if s.snap == nil {
		return nil
	}

	if err := s.snap.save(&s.state); err != nil {
		return fmt.Errorf("saving snapshot: %w: %w", maintenance.ErrTransport, err)
	}

	return nil
}

// indexOf returns the position of request id, or -1. Callers hold s.mu.
func (s *Store) indexOf(id string) int {
	for i := range s.state.Requests {
		if s.state.Requests[i].ID == id {
			return i
		}
	}

	return -1
}

func requestNotFound(id string) error {
	return fmt.Errorf("request %s: %w", id, maintenance.ErrNotFound)
}
