package service

import (
	"context"
	"sync"
	"time"

	"github.com/rentdesk/rentdesk/maintenance"
)

// mockRequestStore records calls and returns configured responses.
type mockRequestStore struct {
	mu    sync.Mutex
	calls []string

	listRequests  func(ctx context.Context, propertyID string) ([]maintenance.Request, error)
	getRequest    func(ctx context.Context, id string) (*maintenance.Request, error)
	createRequest func(ctx context.Context, draft maintenance.Request) (*maintenance.Request, error)
	patchRequest  func(ctx context.Context, id string, patch maintenance.Patch) (*maintenance.Request, error)
	deleteRequest func(ctx context.Context, id string) error

	transitionRequest func(ctx context.Context, id string, to maintenance.Status, now time.Time) (*maintenance.Request, maintenance.Status, error)
}

func (m *mockRequestStore) record(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, name)
}

func (m *mockRequestStore) called(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		if c == name {
			n++
		}
	}
	return n
}

func (m *mockRequestStore) ListRequestsByProperty(ctx context.Context, propertyID string) ([]maintenance.Request, error) {
	m.record("ListRequestsByProperty")
	return m.listRequests(ctx, propertyID)
}

func (m *mockRequestStore) GetRequest(ctx context.Context, id string) (*maintenance.Request, error) {
	m.record("GetRequest")
	return m.getRequest(ctx, id)
}

func (m *mockRequestStore) CreateRequest(ctx context.Context, draft maintenance.Request) (*maintenance.Request, error) {
	m.record("CreateRequest")
	return m.createRequest(ctx, draft)
}

func (m *mockRequestStore) PatchRequest(ctx context.Context, id string, patch maintenance.Patch) (*maintenance.Request, error) {
	m.record("PatchRequest")
	return m.patchRequest(ctx, id, patch)
}

func (m *mockRequestStore) TransitionRequest(ctx context.Context, id string, to maintenance.Status, now time.Time) (*maintenance.Request, maintenance.Status, error) {
	m.record("TransitionRequest")
	return m.transitionRequest(ctx, id, to, now)
}

func (m *mockRequestStore) DeleteRequest(ctx context.Context, id string) error {
	m.record("DeleteRequest")
	return m.deleteRequest(ctx, id)
}

// mockNoteStore returns configured responses.
type mockNoteStore struct {
	listNotes  func(ctx context.Context, requestID string) ([]maintenance.Note, error)
	createNote func(ctx context.Context, note maintenance.Note) (*maintenance.Note, error)
}

func (m *mockNoteStore) ListNotes(ctx context.Context, requestID string) ([]maintenance.Note, error) {
	return m.listNotes(ctx, requestID)
}

func (m *mockNoteStore) CreateNote(ctx context.Context, note maintenance.Note) (*maintenance.Note, error) {
	return m.createNote(ctx, note)
}

// mockAuditor records audit calls.
type mockAuditor struct {
	mu    sync.Mutex
	calls []AuditJob

	err error
}

func (m *mockAuditor) RecordAudit(_ context.Context, action, entityType, entityID, actor string, detail map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, AuditJob{
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Actor:      actor,
		Detail:     detail,
	})
	return m.err
}

func (m *mockAuditor) getCalls() []AuditJob {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]AuditJob, len(m.calls))
	copy(cp, m.calls)
	return cp
}

// mockEnqueuer captures audit jobs synchronously.
type mockEnqueuer struct {
	mu   sync.Mutex
	jobs []*AuditJob
}

func (m *mockEnqueuer) Enqueue(job *AuditJob) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jobs = append(m.jobs, job)
}

func (m *mockEnqueuer) actions() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.jobs))
	for i, j := range m.jobs {
		out[i] = j.Action
	}
	return out
}
