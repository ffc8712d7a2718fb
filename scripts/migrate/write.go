package main

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// insertAll writes every bucket in dependency order: users, requests, notes,
// then audit. Orphaned notes are skipped.
func insertAll(ctx context.Context, tx pgx.Tx, snap *snapshotData) (counts, error) {
	var (
		c   counts
		err error
	)
	if c.Users, err = insertUsers(ctx, tx, snap); err != nil {
		return c, fmt.Errorf("insert users: %w", err)
	}
	if c.Requests, err = insertRequests(ctx, tx, snap); err != nil {
		return c, fmt.Errorf("insert requests: %w", err)
	}
	if c.Notes, err = insertNotes(ctx, tx, snap); err != nil {
		return c, fmt.Errorf("insert notes: %w", err)
	}
	if c.Audit, err = insertAudit(ctx, tx, snap); err != nil {
		return c, fmt.Errorf("insert audit: %w", err)
	}
	return c, nil
}

func insertUsers(ctx context.Context, tx pgx.Tx, snap *snapshotData) (int, error) {
	n := 0
	for hash, actor := range snap.Users {
		tag, err := tx.Exec(ctx,
			`INSERT INTO users (id, name, role, api_key_hash)
			 VALUES ($1, $1, $2, $3)
			 ON CONFLICT (id) DO NOTHING`,
			actor.UserID, actor.Role, hash)
		if err != nil {
			return n, fmt.Errorf("user %s: %w", actor.UserID, err)
		}
		n += int(tag.RowsAffected())
	}
	return n, nil
}

func insertRequests(ctx context.Context, tx pgx.Tx, snap *snapshotData) (int, error) {
	n := 0
	for _, r := range snap.Requests {
		tags, err := json.Marshal(nonNil(r.Tags))
		if err != nil {
			return n, err
		}
		images, err := json.Marshal(nonNil(r.Images))
		if err != nil {
			return n, err
		}

		tag, err := tx.Exec(ctx,
			`INSERT INTO maintenance_requests
				(id, property_id, tenant_id, title, description, status, priority, category,
				 tags, images, estimated_cost, actual_cost, assigned_to, created_at, updated_at, completed_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
			 ON CONFLICT (id) DO NOTHING`,
			r.ID, r.PropertyID, r.TenantID, r.Title, r.Description, r.Status, r.Priority, r.Category,
			tags, images, nullDecimal(r.EstimatedCost), nullDecimal(r.ActualCost), r.AssignedTo,
			r.CreatedAt, r.UpdatedAt, r.CompletedAt)
		if err != nil {
			return n, fmt.Errorf("request %s: %w", r.ID, err)
		}
		n += int(tag.RowsAffected())
	}
	return n, nil
}

// insertNotes keeps snapshot order so the serial seq column preserves the
// tiebreak between notes created in the same instant.
func insertNotes(ctx context.Context, tx pgx.Tx, snap *snapshotData) (int, error) {
	orphans := snap.orphanNotes()
	n := 0
	for _, note := range snap.Notes {
		if slices.Contains(orphans, note.ID) {
			continue
		}
		tag, err := tx.Exec(ctx,
			`INSERT INTO maintenance_notes (id, request_id, user_id, user_role, content, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 ON CONFLICT (id) DO NOTHING`,
			note.ID, note.RequestID, note.UserID, note.UserRole, note.Content, note.CreatedAt)
		if err != nil {
			return n, fmt.Errorf("note %s: %w", note.ID, err)
		}
		n += int(tag.RowsAffected())
	}
	return n, nil
}

// insertAudit appends audit entries. Their ids are reassigned by the
// audit_log sequence; re-running the migration duplicates them.
func insertAudit(ctx context.Context, tx pgx.Tx, snap *snapshotData) (int, error) {
	n := 0
	for _, e := range snap.Audit {
		var detail []byte
		if e.Detail != nil {
			var err error
			if detail, err = json.Marshal(e.Detail); err != nil {
				return n, err
			}
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO audit_log (action, entity_type, entity_id, actor, detail, created_at)
			 VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6)`,
			e.Action, e.EntityType, e.EntityID, e.Actor, detail, e.CreatedAt); err != nil {
			return n, fmt.Errorf("audit %d: %w", e.ID, err)
		}
		n++
	}
	return n, nil
}

// verify counts the snapshot's ids that are now present in PostgreSQL.
func verify(ctx context.Context, tx pgx.Tx, snap *snapshotData) (counts, error) {
	var c counts

	userIDs := make([]string, 0, len(snap.Users))
	for _, a := range snap.Users {
		userIDs = append(userIDs, a.UserID)
	}
	requestIDs := make([]string, len(snap.Requests))
	for i, r := range snap.Requests {
		requestIDs[i] = r.ID
	}
	noteIDs := make([]string, len(snap.Notes))
	for i, n := range snap.Notes {
		noteIDs[i] = n.ID
	}

	checks := []struct {
		sql  string
		ids  []string
		dest *int
	}{
		{`SELECT count(*) FROM users WHERE id = ANY($1)`, userIDs, &c.Users},
		{`SELECT count(*) FROM maintenance_requests WHERE id::text = ANY($1)`, requestIDs, &c.Requests},
		{`SELECT count(*) FROM maintenance_notes WHERE id::text = ANY($1)`, noteIDs, &c.Notes},
	}
	for _, chk := range checks {
		if err := tx.QueryRow(ctx, chk.sql, chk.ids).Scan(chk.dest); err != nil {
			return c, err
		}
	}

	if err := tx.QueryRow(ctx, `SELECT count(*) FROM audit_log`).Scan(&c.Audit); err != nil {
		return c, err
	}
	return c, nil
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}

func nonNil[T any](v []T) []T {
	if v == nil {
		return []T{}
	}
	return v
}
