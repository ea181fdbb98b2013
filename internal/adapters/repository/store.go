// Package repository keeps live sessions in memory.
package repository

import (
	"context"
	"sync"
	"time"

	"github.com/okian/detetive/internal/domain/session"
)

// Entry is one stored session. The controller is reached only through Read
// and Update, which serialize access so each session has a single writer.
type Entry struct {
	ID        string
	CreatedAt time.Time

	mu        sync.Mutex
	ctrl      *session.Controller
	updatedAt time.Time
	lastSeen  time.Time
	now       func() time.Time
}

// Read runs fn with the controller locked. fn must not keep the pointer.
func (e *Entry) Read(fn func(c *session.Controller, updatedAt time.Time)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.lastSeen = e.now()
	fn(e.ctrl, e.updatedAt)
}

// Update runs fn with the controller locked. fn receives the time the entry
// is stamped with if it succeeds; on error the stamp is left as it was.
func (e *Entry) Update(fn func(c *session.Controller, updatedAt time.Time) error) error {
	return e.Apply(func(c *session.Controller, _, now time.Time) (bool, error) {
		return true, fn(c, now)
	})
}

// Apply runs fn with the controller locked and lets it decide whether it
// changed anything. fn gets the current stamp and the one the entry moves to
// when fn reports a change without error.
func (e *Entry) Apply(fn func(c *session.Controller, updatedAt, now time.Time) (bool, error)) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	now := e.now()
	e.lastSeen = now
	changed, err := fn(e.ctrl, e.updatedAt, now)
	if err != nil {
		return err
	}
	if changed {
		e.updatedAt = now
	}
	return nil
}

func (e *Entry) idleSince() time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastSeen
}

// Store provides access to live sessions.
type Store interface {
	// Create stores a controller under a fresh id.
	// Returns ErrCapacity when the store is full.
	Create(ctx context.Context, ctrl *session.Controller) (*Entry, error)

	// Get returns the entry for id or ErrNotFound.
	Get(ctx context.Context, id string) (*Entry, error)

	// Delete removes id. Returns ErrNotFound if it was not there.
	Delete(ctx context.Context, id string) error

	// Sweep evicts sessions idle for longer than the configured TTL and
	// returns their ids.
	Sweep(ctx context.Context) []string

	// Count returns the number of stored sessions.
	Count(ctx context.Context) int
}
