package store

import (
	"context"
	"fmt"

	"github.com/rentdesk/rentdesk/maintenance"
)

// NoteStore handles the note thread of each request.
type NoteStore struct {
	Base
}

// NewNoteStore creates a new NoteStore.
func NewNoteStore(base Base) *NoteStore {
	return &NoteStore{Base: base}
}

// ListNotes returns the notes on a request in insertion order.
func (s *NoteStore) ListNotes(ctx context.Context, requestID string) ([]maintenance.Note, error) {
	if !validRequestID(requestID) {
		return []maintenance.Note{}, nil
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	rows, err := s.Pool.Query(ctx,
		`SELECT `+noteColumns+` FROM maintenance_notes WHERE request_id = $1 ORDER BY seq`,
		requestID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing notes: %w", err)
	}
	defer rows.Close()

	notes := []maintenance.Note{}

	for rows.Next() {
		n, err := scanNote(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning note: %w", err)
		}

		notes = append(notes, *n)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating notes: %w", err)
	}

	return notes, nil
}

// CreateNote appends a note. Notes are never updated or deleted on their own;
// they go away with their request.
func (s *NoteStore) CreateNote(ctx context.Context, note maintenance.Note) (*maintenance.Note, error) {
	if !validRequestID(note.RequestID) {
		return nil, requestNotFound(note.RequestID)
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	row := s.Pool.QueryRow(ctx,
		`INSERT INTO maintenance_notes (id, request_id, user_id, user_role, content, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+noteColumns,
		note.ID, note.RequestID, note.UserID, note.UserRole, note.Content, note.CreatedAt,
	)

	created, err := scanNote(row.Scan)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, requestNotFound(note.RequestID)
		}

		return nil, fmt.Errorf("creating note: %w", err)
	}

	return created, nil
}
