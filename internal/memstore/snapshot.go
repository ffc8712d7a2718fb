package memstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // pure go sqlite driver
)

// snapshot persists the whole store state to a single SQLite table, one JSON
// blob per bucket, replacing every bucket on each save.
type snapshot struct {
	db   *sql.DB
	path string
}

var snapshotBuckets = []string{"requests", "notes", "users", "audit", "sequences"}

type sequences struct {
	Note  int64 `json:"note"`
	Audit int64 `json:"audit"`
}

func openSnapshot(path string) (*snapshot, error) {
	if path == "" {
		return nil, errors.New("snapshot path is required")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create snapshot dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// One writer at a time; sqlite serialises anyway.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS state (
		bucket TEXT PRIMARY KEY,
		payload BLOB NOT NULL
	)`); err != nil {
		db.Close() //nolint:errcheck // already failing.

		return nil, fmt.Errorf("create state table: %w", err)
	}

	return &snapshot{db: db, path: path}, nil
}

// load returns the saved state, or nil when the file holds none yet.
func (s *snapshot) load() (*state, error) {
	rows, err := s.db.Query(`SELECT bucket, payload FROM state`)
	if err != nil {
		return nil, fmt.Errorf("select state: %w", err)
	}
	defer rows.Close()

	var (
		st    state
		seqs  sequences
		found bool
	)

	for rows.Next() {
		var (
			bucket  string
			payload []byte
		)

		if err := rows.Scan(&bucket, &payload); err != nil {
			return nil, fmt.Errorf("scan state: %w", err)
		}

		var target any
		switch bucket {
		case "requests":
			target = &st.Requests
		case "notes":
			target = &st.Notes
		case "users":
			target = &st.Users
		case "audit":
			target = &st.Audit
		case "sequences":
			target = &seqs
		default:
			continue
		}

		if err := json.Unmarshal(payload, target); err != nil {
			return nil, fmt.Errorf("decode %s: %w", bucket, err)
		}

		found = true
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate state: %w", err)
	}

	if !found {
		return nil, nil
	}

	st.NoteSeq, st.AuditSeq = seqs.Note, seqs.Audit

	// Note.Seq is not part of the JSON form; rebuild it from stored order.
	for i := range st.Notes {
		st.Notes[i].Seq = int64(i + 1)
	}

	st.NoteSeq = max(st.NoteSeq, int64(len(st.Notes)))

	return &st, nil
}

func (s *snapshot) save(st *state) (retErr error) {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}

	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	for _, bucket := range snapshotBuckets {
		var data []byte

		switch bucket {
		case "requests":
			data, err = json.Marshal(st.Requests)
		case "notes":
			data, err = json.Marshal(st.Notes)
		case "users":
			data, err = json.Marshal(st.Users)
		case "audit":
			data, err = json.Marshal(st.Audit)
		case "sequences":
			data, err = json.Marshal(sequences{Note: st.NoteSeq, Audit: st.AuditSeq})
		}

		if err != nil {
			return fmt.Errorf("encode %s: %w", bucket, err)
		}

		if _, err := tx.Exec(
			`INSERT INTO state(bucket, payload) VALUES(?, ?) ON CONFLICT(bucket) DO UPDATE SET payload = excluded.payload`,
			bucket, data,
		); err != nil {
			return fmt.Errorf("upsert %s: %w", bucket, err)
		}
	}

	return tx.Commit()
}

func (s *snapshot) ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *snapshot) close() error {
	return s.db.Close()
}
