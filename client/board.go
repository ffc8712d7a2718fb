package client

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/rentdesk/rentdesk/maintenance"
)

// Board is a local snapshot of one property's requests. Mutations land on
// the snapshot before the API call returns and are rolled back if the server
// rejects them, so a UI bound to the board never waits on the network.
type Board struct {
	c          *Client
	propertyID string
	now        func() time.Time

	mu       sync.RWMutex
	requests []maintenance.Request
}

// NewBoard creates an empty board for propertyID. Call Refresh to load it.
func NewBoard(c *Client, propertyID string) *Board {
	return &Board{c: c, propertyID: propertyID, now: time.Now}
}

// Refresh replaces the snapshot with the server's current request set.
func (b *Board) Refresh(ctx context.Context) error {
	reqs, err := b.c.Requests.List(ctx, b.propertyID, maintenance.Query{})
	if err != nil {
		return err
	}

	b.mu.Lock()
	b.requests = reqs
	b.mu.Unlock()
	return nil
}

// Requests returns a copy of the snapshot in server order.
func (b *Board) Requests() []maintenance.Request {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]maintenance.Request, len(b.requests))
	for i, r := range b.requests {
		out[i] = r.Clone()
	}
	return out
}

// View filters and sorts the snapshot.
func (b *Board) View(q maintenance.Query) []maintenance.Request {
	return maintenance.Apply(b.Requests(), q, b.now())
}

// Calendar projects the snapshot onto a month grid.
func (b *Board) Calendar(m maintenance.Month, loc *time.Location) [maintenance.GridCells]maintenance.DayCell {
	return maintenance.Project(b.Requests(), m, loc)
}

// Stats computes dashboard counters over the snapshot.
func (b *Board) Stats() maintenance.Stats {
	return maintenance.ComputeStats(b.Requests(), b.now())
}

// Create files a request and prepends the server's copy to the snapshot.
// The server assigns the id, so nothing is shown before it answers.
func (b *Board) Create(ctx context.Context, in *CreateRequest) (*maintenance.Request, error) {
	req, err := b.c.Requests.Create(ctx, b.propertyID, in)
	if err != nil {
		return nil, err
	}

	b.mu.Lock()
	b.requests = slices.Insert(b.requests, 0, req.Clone())
	b.mu.Unlock()
	return req, nil
}

// Transition moves a request to another status. Transitions the lifecycle
// forbids fail locally without a round trip.
func (b *Board) Transition(ctx context.Context, id string, to maintenance.Status) (*maintenance.Request, error) {
	return b.mutate(ctx, id, func(prev maintenance.Request, now time.Time) (maintenance.Request, error) {
		return maintenance.Transition(prev, to, now)
	}, func(ctx context.Context) (*maintenance.Request, error) {
		return b.c.Requests.Transition(ctx, id, to)
	})
}

// Patch edits a request's non-status fields.
func (b *Board) Patch(ctx context.Context, id string, in *PatchRequest) (*maintenance.Request, error) {
	patch := in.domainPatch()
	return b.mutate(ctx, id, func(prev maintenance.Request, now time.Time) (maintenance.Request, error) {
		return patch.ApplyTo(prev, now), nil
	}, func(ctx context.Context) (*maintenance.Request, error) {
		return b.c.Requests.Patch(ctx, id, in)
	})
}

// Delete removes a request from the snapshot and the server. On failure the
// request is put back where it was.
func (b *Board) Delete(ctx context.Context, id string) error {
	b.mu.Lock()
	i := b.indexOf(id)
	if i < 0 {
		b.mu.Unlock()
		return fmt.Errorf("request %s: %w", id, maintenance.ErrNotFound)
	}
	prev := b.requests[i]
	b.requests = slices.Delete(b.requests, i, i+1)
	b.mu.Unlock()

	if err := b.c.Requests.Delete(ctx, id); err != nil {
		b.mu.Lock()
		if b.indexOf(id) < 0 {
			b.requests = slices.Insert(b.requests, min(i, len(b.requests)), prev)
		}
		b.mu.Unlock()
		return err
	}
	return nil
}

// mutate applies local to the snapshot, then confirms with remote. The
// server's answer replaces the optimistic record; an error restores the
// record as it was before the call.
func (b *Board) mutate(
	ctx context.Context,
	id string,
	local func(prev maintenance.Request, now time.Time) (maintenance.Request, error),
	remote func(ctx context.Context) (*maintenance.Request, error),
) (*maintenance.Request, error) {
	b.mu.Lock()
	i := b.indexOf(id)
	if i < 0 {
		b.mu.Unlock()
		return nil, fmt.Errorf("request %s: %w", id, maintenance.ErrNotFound)
	}
	prev := b.requests[i]
	next, err := local(prev.Clone(), b.now().UTC())
	if err != nil {
		b.mu.Unlock()
		return nil, err
	}
	b.requests[i] = next
	b.mu.Unlock()

	got, err := remote(ctx)

	b.mu.Lock()
	defer b.mu.Unlock()

	if j := b.indexOf(id); j >= 0 {
		if err != nil {
			b.requests[j] = prev
		} else {
			b.requests[j] = got.Clone()
		}
	}
	return got, err
}

func (b *Board) indexOf(id string) int {
	return slices.IndexFunc(b.requests, func(r maintenance.Request) bool { return r.ID == id })
}
