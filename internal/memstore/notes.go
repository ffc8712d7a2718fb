package memstore

import (
	"context"

	"github.com/rentdesk/rentdesk/maintenance"
)

// ListNotes returns the notes on a request in insertion order.
func (s *Store) ListNotes(_ context.Context, requestID string) ([]maintenance.Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []maintenance.Note{}
	for _, n := range s.state.Notes {
		if n.RequestID == requestID {
			out = append(out, n)
		}
	}

	return out, nil
}

// CreateNote appends a note to an existing request.
func (s *Store) CreateNote(_ context.Context, note maintenance.Note) (*maintenance.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(note.RequestID) < 0 {
		return nil, requestNotFound(note.RequestID)
	}

	s.state.NoteSeq++
	note.Seq = s.state.NoteSeq
	s.state.Notes = append(s.state.Notes, note)

	if err := s.commit(); err != nil {
		s.state.Notes = s.state.Notes[:len(s.state.Notes)-1]
		s.state.NoteSeq--

		return nil, err
	}

	return &note, nil
}
