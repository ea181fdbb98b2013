// Package feed fans session changes out to subscribers.
//
// Publishing never blocks: a subscriber whose buffer is full misses the
// change and the drop is counted. Subscribers re-read the session to resync.
package feed

import (
	"context"
	"sync"

	"github.com/okian/detetive/internal/domain/model"
	"github.com/okian/detetive/pkg/metrics"
)

// Default feed configuration constants.
const (
	defaultBufferSize = 16
)

// Feed provides non-blocking publish and channel-based subscribe semantics.
type Feed interface {
	// Publish delivers c to every subscriber of c.SessionID.
	// Returns the number of subscribers that received it.
	Publish(ctx context.Context, c model.Change) int

	// Subscribe returns a channel of changes for sessionID and a cancel
	// func that unsubscribes and closes the channel.
	Subscribe(ctx context.Context, sessionID string) (<-chan model.Change, func())

	// CloseSession closes every subscription of sessionID.
	CloseSession(sessionID string)

	// Subscribers returns the number of open subscriptions.
	Subscribers() int

	// Close closes all subscriptions. Later subscriptions get a closed channel.
	Close() error
}

type subscriber struct {
	ch   chan model.Change
	once sync.Once
}

func (s *subscriber) close() { s.once.Do(func() { close(s.ch) }) }

// InMemoryFeed implements Feed with one buffered channel per subscriber.
type InMemoryFeed struct {
	bufferSize int

	mu     sync.RWMutex
	subs   map[string]map[*subscriber]struct{}
	count  int
	closed bool
}

// NewInMemoryFeed creates a new in-memory feed with configuration options.
func NewInMemoryFeed(opts ...Option) *InMemoryFeed {
	f := &InMemoryFeed{
		bufferSize: defaultBufferSize,
		subs:       make(map[string]map[*subscriber]struct{}),
	}
	for _, opt := range opts {
		opt(f)
	}
	metrics.UpdateFeedSubscribers(0)
	return f
}

// Publish implements Feed.
func (f *InMemoryFeed) Publish(_ context.Context, c model.Change) int { //nolint:gocritic // hugeParam: Change is copied onto each channel anyway
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.closed {
		metrics.RecordErrorByComponent("feed", "closed")
		return 0
	}

	delivered := 0
	for s := range f.subs[c.SessionID] {
		select {
		case s.ch <- c:
			delivered++
			metrics.RecordFeedPublished()
		default:
			metrics.RecordFeedDropped()
		}
	}
	return delivered
}

// Subscribe implements Feed. The subscription also ends when ctx is done.
func (f *InMemoryFeed) Subscribe(ctx context.Context, sessionID string) (<-chan model.Change, func()) {
	s := &subscriber{ch: make(chan model.Change, f.bufferSize)}

	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		s.close()
		return s.ch, func() {}
	}
	set, ok := f.subs[sessionID]
	if !ok {
		set = make(map[*subscriber]struct{})
		f.subs[sessionID] = set
	}
	set[s] = struct{}{}
	f.count++
	metrics.UpdateFeedSubscribers(f.count)
	f.mu.Unlock()

	done := make(chan struct{})
	var once sync.Once
	cancel := func() {
		once.Do(func() {
			close(done)
			f.remove(sessionID, s)
		})
	}
	go func() {
		select {
		case <-ctx.Done():
			cancel()
		case <-done:
		}
	}()
	return s.ch, cancel
}

func (f *InMemoryFeed) remove(sessionID string, s *subscriber) {
	f.mu.Lock()
	defer f.mu.Unlock()

	set := f.subs[sessionID]
	if _, ok := set[s]; ok {
		delete(set, s)
		f.count--
		if len(set) == 0 {
			delete(f.subs, sessionID)
		}
		metrics.UpdateFeedSubscribers(f.count)
	}
	s.close()
}

// CloseSession implements Feed.
func (f *InMemoryFeed) CloseSession(sessionID string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for s := range f.subs[sessionID] {
		s.close()
		f.count--
	}
	delete(f.subs, sessionID)
	metrics.UpdateFeedSubscribers(f.count)
}

// Subscribers implements Feed.
func (f *InMemoryFeed) Subscribers() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.count
}

// Close implements Feed.
func (f *InMemoryFeed) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return nil
	}
	for _, set := range f.subs {
		for s := range set {
			s.close()
		}
	}
	f.subs = make(map[string]map[*subscriber]struct{})
	f.count = 0
	f.closed = true
	metrics.UpdateFeedSubscribers(0)
	return nil
}
