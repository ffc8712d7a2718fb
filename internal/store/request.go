package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/rentdesk/rentdesk/maintenance"
)

// RequestStore handles maintenance request persistence.
type RequestStore struct {
	Base
}

// NewRequestStore creates a new RequestStore.
func NewRequestStore(base Base) *RequestStore {
	return &RequestStore{Base: base}
}

// ListRequestsByProperty returns every request filed against a property,
// newest first.
func (s *RequestStore) ListRequestsByProperty(ctx context.Context, propertyID string) ([]maintenance.Request, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.beginReadTx(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck // read-only transaction.

	rows, err := tx.Query(ctx,
		`SELECT `+requestColumns+` FROM maintenance_requests
		WHERE property_id = $1
		ORDER BY created_at DESC`,
		propertyID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing requests: %w", err)
	}
	defer rows.Close()

	requests := []maintenance.Request{}

	for rows.Next() {
		r, err := scanRequest(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning request: %w", err)
		}

		requests = append(requests, *r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating requests: %w", err)
	}

	return requests, nil
}

// GetRequest returns a single request by id.
func (s *RequestStore) GetRequest(ctx context.Context, id string) (*maintenance.Request, error) {
	if !validRequestID(id) {
		return nil, requestNotFound(id)
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	row := s.Pool.QueryRow(ctx, `SELECT `+requestColumns+` FROM maintenance_requests WHERE id = $1`, id)

	r, err := scanRequest(row.Scan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, requestNotFound(id)
		}

		return nil, fmt.Errorf("getting request: %w", err)
	}

	return r, nil
}

// CreateRequest inserts a new request. The id, timestamps and pending status
// are assigned here regardless of what the draft carries.
func (s *RequestStore) CreateRequest(ctx context.Context, draft maintenance.Request) (*maintenance.Request, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tags, err := marshalList(draft.Tags)
	if err != nil {
		return nil, fmt.Errorf("marshalling tags: %w", err)
	}

	images, err := marshalList(draft.Images)
	if err != nil {
		return nil, fmt.Errorf("marshalling images: %w", err)
	}

	row := s.Pool.QueryRow(ctx,
		`INSERT INTO maintenance_requests
			(id, property_id, tenant_id, title, description, status, priority, category,
			 tags, images, estimated_cost, actual_cost, assigned_to)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING `+requestColumns,
		uuid.New().String(), draft.PropertyID, draft.TenantID, draft.Title, draft.Description,
		maintenance.StatusPending, draft.Priority, draft.Category,
		tags, images, nullDecimal(draft.EstimatedCost), nullDecimal(draft.ActualCost), draft.AssignedTo,
	)

	r, err := scanRequest(row.Scan)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	return r, nil
}

// PatchRequest merges patch into the stored request under a row lock and
// refreshes updated_at.
func (s *RequestStore) PatchRequest(ctx context.Context, id string, patch maintenance.Patch) (*maintenance.Request, error) {
	return s.updateLocked(ctx, id, func(current maintenance.Request) (maintenance.Request, bool, error) {
		return patch.ApplyTo(current, time.Now().UTC()), true, nil
	})
}

// TransitionRequest checks the lifecycle rules against the locked row and
// writes the move. It returns the stored request and the status it held
// before. Resubmitting the current status writes nothing.
func (s *RequestStore) TransitionRequest(
	ctx context.Context, id string, to maintenance.Status, now time.Time,
) (*maintenance.Request, maintenance.Status, error) {
	var from maintenance.Status

	req, err := s.updateLocked(ctx, id, func(current maintenance.Request) (maintenance.Request, bool, error) {
		from = current.Status

		next, err := maintenance.Transition(current, to, now)
		if err != nil {
			return current, false, err
		}

		return next, current.Status != to, nil
	})
	if err != nil {
		return nil, from, err
	}

	return req, from, nil
}

// updateLocked loads the row FOR UPDATE and hands it to change, which returns
// the next version and whether to write it. The row stays locked until the
// write commits, so change always sees the latest committed state.
func (s *RequestStore) updateLocked(
	ctx context.Context, id string,
	change func(maintenance.Request) (maintenance.Request, bool, error),
) (*maintenance.Request, error) {
	if !validRequestID(id) {
		return nil, requestNotFound(id)
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.beginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck // best-effort rollback after commit.

	current, err := scanRequest(tx.QueryRow(ctx,
		`SELECT `+requestColumns+` FROM maintenance_requests WHERE id = $1 FOR UPDATE`, id,
	).Scan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, requestNotFound(id)
		}

		return nil, fmt.Errorf("locking request: %w", err)
	}

	next, write, err := change(*current)
	if err != nil {
		return nil, err
	}
	if !write {
		return current, nil
	}

	tags, err := marshalList(next.Tags)
	if err != nil {
		return nil, fmt.Errorf("marshalling tags: %w", err)
	}

	images, err := marshalList(next.Images)
	if err != nil {
		return nil, fmt.Errorf("marshalling images: %w", err)
	}

	row := tx.QueryRow(ctx,
		`UPDATE maintenance_requests SET
			title = $2, description = $3, status = $4, priority = $5, category = $6,
			tags = $7, images = $8, estimated_cost = $9, actual_cost = $10,
			assigned_to = $11, updated_at = $12, completed_at = $13
		WHERE id = $1
		RETURNING `+requestColumns,
		id, next.Title, next.Description, next.Status, next.Priority, next.Category,
		tags, images, nullDecimal(next.EstimatedCost), nullDecimal(next.ActualCost),
		next.AssignedTo, next.UpdatedAt, next.CompletedAt,
	)

	updated, err := scanRequest(row.Scan)
	if err != nil {
		return nil, fmt.Errorf("updating request: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing request update: %w", err)
	}

	return updated, nil
}

// DeleteRequest removes a request together with its notes.
func (s *RequestStore) DeleteRequest(ctx context.Context, id string) error {
	if !validRequestID(id) {
		return requestNotFound(id)
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tag, err := s.Pool.Exec(ctx, `DELETE FROM maintenance_requests WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting request: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return requestNotFound(id)
	}

	return nil
}
