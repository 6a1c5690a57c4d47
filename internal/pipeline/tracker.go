package pipeline

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
)

// ErrSuperseded is the cancellation cause of a request replaced by a newer one.
var ErrSuperseded = errors.New("superseded by a newer request")

// Tracker keeps at most one in-flight generation per session key. Beginning a
// new request cancels the previous one, and stale results can be detected with
// IsCurrent after the fact.
type Tracker struct {
	seq    atomic.Uint64
	mu     sync.Mutex
	active map[string]*inflight
}

type inflight struct {
	id     uint64
	cancel context.CancelCauseFunc
}

// Ticket identifies one tracked request
type Ticket struct {
	Key string
	ID  uint64

	cancel context.CancelCauseFunc
}

// NewTracker creates an empty Tracker
func NewTracker() *Tracker {
	return &Tracker{active: make(map[string]*inflight)}
}

// Begin registers a request for key and returns its context and ticket.
// Ids grow monotonically across all keys. An empty key is never superseded.
func (t *Tracker) Begin(parent context.Context, key string) (context.Context, Ticket) {
	ctx, cancel := context.WithCancelCause(parent)
	ticket := Ticket{Key: key, ID: t.seq.Add(1), cancel: cancel}
	if key == "" {
		return ctx, ticket
	}

	t.mu.Lock()
	prev := t.active[key]
	t.active[key] = &inflight{id: ticket.ID, cancel: cancel}
	t.mu.Unlock()

	if prev != nil {
		prev.cancel(ErrSuperseded)
	}
	return ctx, ticket
}

// IsCurrent reports whether ticket is still the latest request for its key.
func (t *Tracker) IsCurrent(ticket Ticket) bool {
	if ticket.Key == "" {
		return true
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	cur, ok := t.active[ticket.Key]
	return ok && cur.id == ticket.ID
}

// End releases ticket's context and forgets it unless a newer request replaced it.
func (t *Tracker) End(ticket Ticket) {
	if ticket.cancel != nil {
		defer ticket.cancel(context.Canceled)
	}
	if ticket.Key == "" {
		return
	}
	t.mu.Lock()
	if cur, ok := t.active[ticket.Key]; ok && cur.id == ticket.ID {
		delete(t.active, ticket.Key)
	}
	t.mu.Unlock()
}

// Latest returns the id of the in-flight request for key, or 0.
func (t *Tracker) Latest(key string) uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	if cur, ok := t.active[key]; ok {
		return cur.id
	}
	return 0
}
