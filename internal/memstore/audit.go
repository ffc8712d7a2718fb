package memstore

import (
	"context"
	"maps"

	"github.com/rentdesk/rentdesk/internal/models"
)

const defaultAuditLimit = 50

// RecordAudit appends an audit entry.
func (s *Store) RecordAudit(_ context.Context, action, entityType, entityID, actor string, detail map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.AuditSeq++
	s.state.Audit = append(s.state.Audit, models.AuditEntry{
		ID:         s.state.AuditSeq,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Actor:      actor,
		Detail:     maps.Clone(detail),
		CreatedAt:  s.now(),
	})

	if err := s.commit(); err != nil {
		s.state.Audit = s.state.Audit[:len(s.state.Audit)-1]
		s.state.AuditSeq--

		return err
	}

	return nil
}

// QueryAudit returns entries matching opts, newest first.
func (s *Store) QueryAudit(_ context.Context, opts models.AuditQueryOpts) ([]models.AuditEntry, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	limit := opts.Limit
	if limit <= 0 {
		limit = defaultAuditLimit
	}

	var (
		out     = []models.AuditEntry{}
		skipped int
		hasMore bool
	)

	for i := len(s.state.Audit) - 1; i >= 0; i-- {
		e := s.state.Audit[i]
		if !auditMatches(e, opts) {
			continue
		}

		if skipped < opts.Offset {
			skipped++
			continue
		}

		if len(out) == limit {
			hasMore = true
			break
		}

		out = append(out, e)
	}

	return out, hasMore, nil
}

// PurgeOldEntries drops entries older than retentionDays.
func (s *Store) PurgeOldEntries(_ context.Context, retentionDays int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().AddDate(0, 0, -retentionDays)
	prev := s.state.Audit

	kept := make([]models.AuditEntry, 0, len(prev))
	for _, e := range prev {
		if !e.CreatedAt.Before(cutoff) {
			kept = append(kept, e)
		}
	}

	s.state.Audit = kept

	if err := s.commit(); err != nil {
		s.state.Audit = prev

		return 0, err
	}

	return len(prev) - len(kept), nil
}

func auditMatches(e models.AuditEntry, opts models.AuditQueryOpts) bool {
	switch {
	case opts.EntityType != "" && e.EntityType != opts.EntityType:
		return false
	case opts.EntityID != "" && e.EntityID != opts.EntityID:
		return false
	case opts.Action != "" && e.Action != opts.Action:
		return false
	case opts.Since != nil && e.CreatedAt.Before(*opts.Since):
		return false
	}

	return true
}
