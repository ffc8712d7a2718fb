package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"github.com/rentdesk/rentdesk/internal/models"
	"github.com/rentdesk/rentdesk/maintenance"
)

// snapshotData is the decoded content of a memory-store snapshot file.
type snapshotData struct {
	Requests []maintenance.Request
	Notes    []maintenance.Note
	Users    map[string]models.Actor // keyed by API key hash
	Audit    []models.AuditEntry
}

// readSnapshot opens the snapshot read-only and decodes each bucket of its
// state table. Unknown buckets are ignored.
func readSnapshot(ctx context.Context, path string) (*snapshotData, error) {
	lite, err := sql.Open("sqlite", path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	defer lite.Close()

	rows, err := lite.QueryContext(ctx, `SELECT bucket, payload FROM state`)
	if err != nil {
		return nil, fmt.Errorf("select state: %w", err)
	}
	defer rows.Close()

	var snap snapshotData
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
			target = &snap.Requests
		case "notes":
			target = &snap.Notes
		case "users":
			target = &snap.Users
		case "audit":
			target = &snap.Audit
		default:
			continue
		}
		if err := json.Unmarshal(payload, target); err != nil {
			return nil, fmt.Errorf("decode %s: %w", bucket, err)
		}
	}
	return &snap, rows.Err()
}

// orphanNotes returns ids of notes whose request is missing from the snapshot.
func (s *snapshotData) orphanNotes() []string {
	known := make(map[string]struct{}, len(s.Requests))
	for _, r := range s.Requests {
		known[r.ID] = struct{}{}
	}

	var out []string
	for _, n := range s.Notes {
		if _, ok := known[n.RequestID]; !ok {
			out = append(out, n.ID)
		}
	}
	return out
}
