package client

import (
	"context"

	"github.com/rentdesk/rentdesk/maintenance"
)

// NoteService handles the note thread of a request.
type NoteService struct {
	c *Client
}

// List returns the thread of a request, newest first.
func (s *NoteService) List(ctx context.Context, requestID string) ([]maintenance.Note, error) {
	var resp struct {
		Notes []maintenance.Note `json:"notes"`
	}
	if err := s.c.get(ctx, requestPath(requestID)+"/notes", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Notes, nil
}

// Add appends a note authored by the caller.
func (s *NoteService) Add(ctx context.Context, requestID, content string) (*maintenance.Note, error) {
	var note maintenance.Note
	body := map[string]string{"content": content}
	if err := s.c.post(ctx, requestPath(requestID)+"/notes", body, &note); err != nil {
		return nil, err
	}
	return &note, nil
}
