package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/detetive/internal/domain/session"
	"github.com/okian/detetive/pkg/metrics"
)

// Default store configuration constants.
const (
	defaultMaxSessions = 1_000
)

// MemoryStore is a bounded map of sessions keyed by uuid.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Entry

	maxSessions int
	idleTTL     time.Duration
	now         func() time.Time
	newID       func() string
}

// NewMemoryStore creates an empty store with configuration options.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{
		sessions:    make(map[string]*Entry),
		maxSessions: defaultMaxSessions,
		now:         time.Now,
		newID:       uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	metrics.UpdateActiveSessions(0)
	return s
}

// Create implements Store.
func (s *MemoryStore) Create(_ context.Context, ctrl *session.Controller) (*Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.sessions) >= s.maxSessions {
		metrics.RecordErrorByComponent("repository", "capacity")
		return nil, fmt.Errorf("%w: %d sessions", ErrCapacity, s.maxSessions)
	}

	id := s.newID()
	for _, taken := s.sessions[id]; taken; _, taken = s.sessions[id] {
		id = s.newID()
	}

	now := s.now()
	e := &Entry{
		ID:        id,
		CreatedAt: now,
		ctrl:      ctrl,
		updatedAt: now,
		lastSeen:  now,
		now:       s.now,
	}
	s.sessions[id] = e
	metrics.UpdateActiveSessions(len(s.sessions))
	return e, nil
}

// Get implements Store.
func (s *MemoryStore) Get(_ context.Context, id string) (*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return e, nil
}

// Delete implements Store.
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	delete(s.sessions, id)
	metrics.UpdateActiveSessions(len(s.sessions))
	return nil
}

// Sweep implements Store. It is a no-op when no idle TTL is configured.
func (s *MemoryStore) Sweep(_ context.Context) []string {
	if s.idleTTL <= 0 {
		return nil
	}
	cutoff := s.now().Add(-s.idleTTL)

	s.mu.Lock()
	defer s.mu.Unlock()

	var evicted []string
	for id, e := range s.sessions {
		if e.idleSince().Before(cutoff) {
			delete(s.sessions, id)
			evicted = append(evicted, id)
		}
	}
	if len(evicted) > 0 {
		metrics.RecordSessionsEvicted(len(evicted))
		metrics.UpdateActiveSessions(len(s.sessions))
	}
	return evicted
}

// Count implements Store.
func (s *MemoryStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
