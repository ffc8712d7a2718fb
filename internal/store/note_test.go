package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/rentdesk/rentdesk/internal/store"
	"github.com/rentdesk/rentdesk/maintenance"
)

func TestNoteStore_CreateAndList(t *testing.T) {
	base, propertyID := setupTestBase(t)
	rs := store.NewRequestStore(base)
	ns := store.NewNoteStore(base)
	ctx := context.Background()

	req, err := rs.CreateRequest(ctx, draft(propertyID, "Leaking tap"))
	if err != nil {
		t.Fatalf("CreateRequest: %v", err)
	}

	now := time.Now().UTC().Truncate(time.Microsecond)
	for _, content := range []string{"first", "second"} {
		n, err := maintenance.NewNote(req.ID, "user-1", maintenance.RoleTenant, content, now)
		if err != nil {
			t.Fatalf("NewNote: %v", err)
		}
		if _, err := ns.CreateNote(ctx, n); err != nil {
			t.Fatalf("CreateNote: %v", err)
		}
	}

	notes, err := ns.ListNotes(ctx, req.ID)
	if err != nil {
		t.Fatalf("ListNotes: %v", err)
	}
	if len(notes) != 2 {
		t.Fatalf("got %d notes, want 2", len(notes))
	}
	if notes[0].Content != "first" || notes[0].Seq >= notes[1].Seq {
		t.Errorf("notes not in insertion order: %+v", notes)
	}

	ordered := maintenance.OrderNotes(notes)
	if ordered[0].Content != "first" {
		t.Errorf("equal timestamps should keep insertion order, got %q first", ordered[0].Content)
	}

	if err := rs.DeleteRequest(ctx, req.ID); err != nil {
		t.Fatalf("DeleteRequest: %v", err)
	}

	after, err := ns.ListNotes(ctx, req.ID)
	if err != nil {
		t.Fatalf("ListNotes after delete: %v", err)
	}
	if len(after) != 0 {
		t.Errorf("notes survived request deletion: %d", len(after))
	}
}

func TestNoteStore_UnknownRequest(t *testing.T) {
	base, _ := setupTestBase(t)
	ns := store.NewNoteStore(base)

	n, err := maintenance.NewNote(uuid.New().String(), "user-1", maintenance.RoleLandlord, "hello", time.Now())
	if err != nil {
		t.Fatalf("NewNote: %v", err)
	}

	if _, err := ns.CreateNote(context.Background(), n); !errors.Is(err, maintenance.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
