package api_test

import (
	"context"
	"time"

	"github.com/rentdesk/rentdesk/internal/models"
	"github.com/rentdesk/rentdesk/maintenance"
)

type mockRequestService struct {
	listFn       func(ctx context.Context, propertyID string, q maintenance.Query) ([]maintenance.Request, error)
	getFn        func(ctx context.Context, id string) (*maintenance.Request, error)
	createFn     func(ctx context.Context, actor models.Actor, propertyID string, in models.CreateRequestInput) (*maintenance.Request, error)
	patchFn      func(ctx context.Context, actor models.Actor, id string, in models.PatchRequestInput) (*maintenance.Request, error)
	transitionFn func(ctx context.Context, actor models.Actor, id string, to maintenance.Status) (*maintenance.Request, error)
	deleteFn     func(ctx context.Context, actor models.Actor, id string) error
}

func (m *mockRequestService) ListRequests(ctx context.Context, propertyID string, q maintenance.Query) ([]maintenance.Request, error) {
	return m.listFn(ctx, propertyID, q)
}

func (m *mockRequestService) GetRequest(ctx context.Context, id string) (*maintenance.Request, error) {
	return m.getFn(ctx, id)
}

func (m *mockRequestService) CreateRequest(ctx context.Context, actor models.Actor, propertyID string, in models.CreateRequestInput) (*maintenance.Request, error) {
	return m.createFn(ctx, actor, propertyID, in)
}

func (m *mockRequestService) PatchRequest(ctx context.Context, actor models.Actor, id string, in models.PatchRequestInput) (*maintenance.Request, error) {
	return m.patchFn(ctx, actor, id, in)
}

func (m *mockRequestService) TransitionRequest(ctx context.Context, actor models.Actor, id string, to maintenance.Status) (*maintenance.Request, error) {
	return m.transitionFn(ctx, actor, id, to)
}

func (m *mockRequestService) DeleteRequest(ctx context.Context, actor models.Actor, id string) error {
	return m.deleteFn(ctx, actor, id)
}

type mockNoteService struct {
	listFn func(ctx context.Context, requestID string) ([]maintenance.Note, error)
	addFn  func(ctx context.Context, actor models.Actor, requestID string, in models.CreateNoteInput) (*maintenance.Note, error)
}

func (m *mockNoteService) ListNotes(ctx context.Context, requestID string) ([]maintenance.Note, error) {
	return m.listFn(ctx, requestID)
}

func (m *mockNoteService) AddNote(ctx context.Context, actor models.Actor, requestID string, in models.CreateNoteInput) (*maintenance.Note, error) {
	return m.addFn(ctx, actor, requestID, in)
}

type mockViewService struct {
	calendarFn func(ctx context.Context, propertyID string, month maintenance.Month) ([maintenance.GridCells]maintenance.DayCell, error)
	statsFn    func(ctx context.Context, propertyIDs []string) (maintenance.Stats, error)
}

func (m *mockViewService) Calendar(ctx context.Context, propertyID string, month maintenance.Month) ([maintenance.GridCells]maintenance.DayCell, error) {
	return m.calendarFn(ctx, propertyID, month)
}

func (m *mockViewService) Stats(ctx context.Context, propertyIDs []string) (maintenance.Stats, error) {
	return m.statsFn(ctx, propertyIDs)
}

func (m *mockViewService) Location() *time.Location { return time.UTC }
