package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/rentdesk/rentdesk/internal/models"
)

const (
	defaultAuditPage = 50
	maxAuditPage     = 1000

	// purgeChunk bounds each DELETE so a large backlog never locks audit_log
	// for the whole purge.
	purgeChunk = 5000
)

const auditColumns = "id, action, entity_type, entity_id, COALESCE(actor, ''), detail, created_at"

// AuditStore appends to and reads the audit_log table. Entries are never
// updated; the only removal path is the retention purge.
type AuditStore struct {
	Base
}

// NewAuditStore creates an AuditStore.
func NewAuditStore(base Base) *AuditStore {
	return &AuditStore{Base: base}
}

// RecordAudit appends one entry. An empty actor is stored as NULL.
func (s *AuditStore) RecordAudit(
	ctx context.Context,
	action, entityType, entityID, actor string,
	detail map[string]any,
) error {
	var raw []byte
	if len(detail) > 0 {
		b, err := json.Marshal(detail)
		if err != nil {
			return fmt.Errorf("encoding detail for %s: %w", action, err)
		}
		raw = b
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	if _, err := s.Pool.Exec(ctx,
		`INSERT INTO audit_log (action, entity_type, entity_id, actor, detail)
		 VALUES ($1, $2, $3, NULLIF($4, ''), $5)`,
		action, entityType, entityID, actor, raw,
	); err != nil {
		return fmt.Errorf("appending audit %s on %s %s: %w", action, entityType, entityID, err)
	}

	return nil
}

// conds accumulates AND-ed predicates with positional placeholders.
type conds struct {
	parts []string
	args  []any
}

// eq adds "col = $n" unless v is empty.
func (c *conds) eq(col, v string) {
	if v == "" {
		return
	}
	c.add(col+" = ", v)
}

func (c *conds) add(prefix string, v any) {
	c.args = append(c.args, v)
	c.parts = append(c.parts, fmt.Sprintf("%s$%d", prefix, len(c.args)))
}

func (c *conds) where() string {
	if len(c.parts) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(c.parts, " AND ")
}

// placeholder reserves the next argument slot for v and returns "$n".
func (c *conds) placeholder(v any) string {
	c.args = append(c.args, v)
	return fmt.Sprintf("$%d", len(c.args))
}

func auditConds(opts models.AuditQueryOpts) *conds {
	c := &conds{}
	c.eq("entity_type", opts.EntityType)
	c.eq("entity_id", opts.EntityID)
	c.eq("action", opts.Action)
	if opts.Since != nil {
		c.add("created_at >= ", *opts.Since)
	}
	return c
}

func pageSize(requested int) int {
	switch {
	case requested <= 0:
		return defaultAuditPage
	case requested > maxAuditPage:
		return maxAuditPage
	default:
		return requested
	}
}

// QueryAudit returns one page of matching entries, newest first, and whether
// another page follows.
func (s *AuditStore) QueryAudit(
	ctx context.Context, opts models.AuditQueryOpts,
) ([]models.AuditEntry, bool, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	size := pageSize(opts.Limit)
	c := auditConds(opts)
	sql := "SELECT " + auditColumns + " FROM audit_log" + c.where() +
		" ORDER BY created_at DESC, id DESC" +
		" LIMIT " + c.placeholder(size+1) +
		" OFFSET " + c.placeholder(max(opts.Offset, 0))

	rows, err := s.Pool.Query(ctx, sql, c.args...)
	if err != nil {
		return nil, false, fmt.Errorf("querying audit log: %w", err)
	}

	entries, err := pgx.CollectRows(rows, s.scanAuditEntry)
	if err != nil {
		return nil, false, fmt.Errorf("reading audit log: %w", err)
	}

	if len(entries) > size {
		return entries[:size], true, nil
	}
	if entries == nil {
		entries = []models.AuditEntry{}
	}

	return entries, false, nil
}

// scanAuditEntry decodes one row. A corrupt detail blob is logged and dropped
// so one bad entry does not hide the rest of the page.
func (s *AuditStore) scanAuditEntry(row pgx.CollectableRow) (models.AuditEntry, error) {
	var (
		e   models.AuditEntry
		raw []byte
	)
	if err := row.Scan(&e.ID, &e.Action, &e.EntityType, &e.EntityID, &e.Actor, &raw, &e.CreatedAt); err != nil {
		return e, err
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &e.Detail); err != nil {
			s.Log.WithError(err).WithField("audit_id", e.ID).Warn("dropping unreadable audit detail")
		}
	}
	return e, nil
}

// PurgeOldEntries removes entries older than retentionDays, oldest first, in
// bounded chunks. It returns how many rows were removed, including those
// removed before an error.
func (s *AuditStore) PurgeOldEntries(ctx context.Context, retentionDays int) (int, error) {
	total := 0
	for {
		n, err := s.purgeChunk(ctx, retentionDays)
		total += n
		if err != nil {
			return total, err
		}
		if n < purgeChunk {
			return total, nil
		}
	}
}

func (s *AuditStore) purgeChunk(ctx context.Context, retentionDays int) (int, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tag, err := s.Pool.Exec(ctx,
		`DELETE FROM audit_log WHERE id IN (
			SELECT id FROM audit_log
			WHERE created_at < NOW() - make_interval(days => $1)
			ORDER BY id
			LIMIT $2
		)`,
		retentionDays, purgeChunk,
	)
	if err != nil {
		return 0, fmt.Errorf("purging audit entries older than %d days: %w", retentionDays, err)
	}

	return int(tag.RowsAffected()), nil
}
