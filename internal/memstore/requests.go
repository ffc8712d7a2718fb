package memstore

import (
	"context"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/rentdesk/rentdesk/maintenance"
)

// ListRequestsByProperty returns every request filed against a property,
// newest first.
func (s *Store) ListRequestsByProperty(_ context.Context, propertyID string) ([]maintenance.Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []maintenance.Request{}
	for i := len(s.state.Requests) - 1; i >= 0; i-- {
		if r := s.state.Requests[i]; r.PropertyID == propertyID {
			out = append(out, r.Clone())
		}
	}

	slices.SortStableFunc(out, func(a, b maintenance.Request) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	return out, nil
}

// GetRequest returns a single request by id.
func (s *Store) GetRequest(_ context.Context, id string) (*maintenance.Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil, requestNotFound(id)
	}

	r := s.state.Requests[i].Clone()

	return &r, nil
}

// CreateRequest stores a new request with a fresh id, pending status and
// current timestamps.
func (s *Store) CreateRequest(_ context.Context, draft maintenance.Request) (*maintenance.Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := draft.Clone()
	r.ID = uuid.New().String()
	r.Status = maintenance.StatusPending
	r.CreatedAt = s.now()
	r.UpdatedAt = r.CreatedAt
	r.CompletedAt = nil

	if r.Tags == nil {
		r.Tags = []maintenance.Tag{}
	}

	if r.Images == nil {
		r.Images = []string{}
	}

	s.state.Requests = append(s.state.Requests, r)

	if err := s.commit(); err != nil {
		s.state.Requests = s.state.Requests[:len(s.state.Requests)-1]

		return nil, err
	}

	out := r.Clone()

	return &out, nil
}

// PatchRequest merges patch into the stored request and refreshes updated_at.
func (s *Store) PatchRequest(_ context.Context, id string, patch maintenance.Patch) (*maintenance.Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.replaceLocked(id, func(current maintenance.Request) (maintenance.Request, bool, error) {
		return patch.ApplyTo(current, s.now()), true, nil
	})
}

// TransitionRequest checks the lifecycle rules against the stored request
// while holding the write lock and records the move. Resubmitting the current
// status writes nothing.
func (s *Store) TransitionRequest(
	_ context.Context, id string, to maintenance.Status, now time.Time,
) (*maintenance.Request, maintenance.Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var from maintenance.Status

	req, err := s.replaceLocked(id, func(current maintenance.Request) (maintenance.Request, bool, error) {
		from = current.Status

		next, err := maintenance.Transition(current, to, now)
		if err != nil {
			return current, false, err
		}

		return next, current.Status != to, nil
	})

	return req, from, err
}

// replaceLocked swaps the request for the version change derives from it and
// commits. s.mu must be held for writing.
func (s *Store) replaceLocked(
	id string, change func(maintenance.Request) (maintenance.Request, bool, error),
) (*maintenance.Request, error) {
	i := s.indexOf(id)
	if i < 0 {
		return nil, requestNotFound(id)
	}

	prev := s.state.Requests[i]

	next, write, err := change(prev.Clone())
	if err != nil {
		return nil, err
	}
	if write {
		s.state.Requests[i] = next

		if err := s.commit(); err != nil {
			s.state.Requests[i] = prev

			return nil, err
		}
	}

	out := s.state.Requests[i].Clone()

	return &out, nil
}

// DeleteRequest removes a request together with its notes.
func (s *Store) DeleteRequest(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return requestNotFound(id)
	}

	prevRequests, prevNotes := s.state.Requests, s.state.Notes

	s.state.Requests = slices.Delete(slices.Clone(prevRequests), i, i+1)
	s.state.Notes = slices.DeleteFunc(slices.Clone(prevNotes), func(n maintenance.Note) bool {
		return n.RequestID == id
	})

	if err := s.commit(); err != nil {
		s.state.Requests, s.state.Notes = prevRequests, prevNotes

		return err
	}

	return nil
}
