package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/rentdesk/rentdesk/internal/domain"
	"github.com/rentdesk/rentdesk/internal/metrics"
	"github.com/rentdesk/rentdesk/internal/models"
	"github.com/rentdesk/rentdesk/maintenance"
)

var _ domain.NoteService = (*NoteService)(nil)

// NoteService manages the note thread of each request.
type NoteService struct {
	requests    domain.RequestStore
	notes       domain.NoteStore
	auditWorker AuditEnqueuer
	log         *logrus.Logger
	now         Clock
}

// NewNoteService creates a NoteService. A nil clock uses the wall clock.
func NewNoteService(
	requests domain.RequestStore, notes domain.NoteStore, auditWorker AuditEnqueuer, log *logrus.Logger, now Clock,
) *NoteService {
	if now == nil {
		now = utcNow
	}
	return &NoteService{requests: requests, notes: notes, auditWorker: auditWorker, log: log, now: now}
}

// ListNotes returns the thread newest first. Unknown requests are not found
// rather than an empty thread.
func (s *NoteService) ListNotes(ctx context.Context, requestID string) ([]maintenance.Note, error) {
	if _, err := s.requests.GetRequest(ctx, requestID); err != nil {
		return nil, storeErr("loading request", err)
	}

	notes, err := s.notes.ListNotes(ctx, requestID)
	if err != nil {
		return nil, storeErr("listing notes", err)
	}

	return maintenance.OrderNotes(notes), nil
}

// AddNote appends a note authored by actor.
func (s *NoteService) AddNote(
	ctx context.Context, actor models.Actor, requestID string, in models.CreateNoteInput,
) (*maintenance.Note, error) {
	note, err := maintenance.NewNote(requestID, actor.UserID, actor.Role, in.Content, s.now())
	if err != nil {
		return nil, err
	}

	created, err := s.notes.CreateNote(ctx, note)
	if err != nil {
		return nil, storeErr("creating note", err)
	}

	metrics.NotesCreatedTotal.Inc()
	auditAsync(s.auditWorker, actor, "note.create", "request", requestID, map[string]any{"note_id": created.ID})

	return created, nil
}
