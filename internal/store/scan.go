package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rentdesk/rentdesk/maintenance"
)

// requestColumns lists the columns selected for request queries.
const requestColumns = `id::text, property_id, tenant_id, title, description,
	status, priority, category, tags, images,
	estimated_cost, actual_cost, assigned_to,
	created_at, updated_at, completed_at`

// noteColumns lists the columns selected for note queries.
const noteColumns = `seq, id::text, request_id::text, user_id, user_role, content, created_at`

// scanRequest scans a single row into a maintenance.Request.
func scanRequest(scan func(dest ...any) error) (*maintenance.Request, error) {
	var (
		r                 maintenance.Request
		tags, images      []byte
		estimated, actual decimal.NullDecimal
		assignedTo        *string
		completedAt       *time.Time
	)

	err := scan(
		&r.ID,
		&r.PropertyID,
		&r.TenantID,
		&r.Title,
		&r.Description,
		&r.Status,
		&r.Priority,
		&r.Category,
		&tags,
		&images,
		&estimated,
		&actual,
		&assignedTo,
		&r.CreatedAt,
		&r.UpdatedAt,
		&completedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(tags, &r.Tags); err != nil {
		return nil, fmt.Errorf("unmarshalling request tags: %w", err)
	}

	if err := json.Unmarshal(images, &r.Images); err != nil {
		return nil, fmt.Errorf("unmarshalling request images: %w", err)
	}

	r.EstimatedCost = decimalPtr(estimated)
	r.ActualCost = decimalPtr(actual)
	r.AssignedTo = assignedTo
	r.CompletedAt = completedAt

	return &r, nil
}

// scanNote scans a single row into a maintenance.Note.
func scanNote(scan func(dest ...any) error) (*maintenance.Note, error) {
	var n maintenance.Note

	if err := scan(&n.Seq, &n.ID, &n.RequestID, &n.UserID, &n.UserRole, &n.Content, &n.CreatedAt); err != nil {
		return nil, err
	}

	return &n, nil
}

func decimalPtr(d decimal.NullDecimal) *decimal.Decimal {
	if !d.Valid {
		return nil
	}

	v := d.Decimal

	return &v
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}

	return decimal.NullDecimal{Decimal: *d, Valid: true}
}

// marshalList encodes a slice column, writing an empty JSON array for nil.
func marshalList[T any](v []T) ([]byte, error) {
	if v == nil {
		v = []T{}
	}

	return json.Marshal(v)
}
