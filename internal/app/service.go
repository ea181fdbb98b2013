// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"sync"
	"time"

	"github.com/okian/detetive/internal/adapters/mq/feed"
	"github.com/okian/detetive/internal/adapters/repository"
	"github.com/okian/detetive/internal/domain/catalog"
	"github.com/okian/detetive/internal/domain/dedupe"
	"github.com/okian/detetive/internal/domain/session"
	"github.com/okian/detetive/pkg/logger"
)

// Service implements the API dependencies for the companion.
type Service struct {
	mu sync.RWMutex

	// Core components
	sessions repository.Store
	deduper  dedupe.Deduper
	changes  feed.Feed
	catalog  catalog.Catalog

	// Configuration
	maxSessions        int
	idleTTL            time.Duration
	sweepInterval      time.Duration
	dedupeSize         int
	feedBuffer         int
	palette            []string
	defaultPlayerCount int
	now                func() time.Time

	// State
	started bool
	stopCh  chan struct{}
	wg      sync.WaitGroup

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMaxSessions caps the number of live sessions.
func WithMaxSessions(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxSessions = n
		}
	}
}

// WithIdleTTL sets how long an untouched session survives. Zero disables
// eviction.
func WithIdleTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl >= 0 {
			s.idleTTL = ttl
		}
	}
}

// WithSweepInterval sets how often idle sessions are evicted.
func WithSweepInterval(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.sweepInterval = d
		}
	}
}

// WithDedupeSize sets the size of the request id cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithFeedBuffer sets the per-subscriber change buffer.
func WithFeedBuffer(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.feedBuffer = size
		}
	}
}

// WithPalette sets the player color palette.
func WithPalette(colors []string) Option {
	return func(s *Service) {
		if len(colors) > 0 {
			s.palette = append([]string(nil), colors...)
		}
	}
}

// WithDefaultPlayerCount sets the player count used when a request omits it.
func WithDefaultPlayerCount(n int) Option {
	return func(s *Service) {
		if n >= session.MinPlayers && n <= session.MaxPlayers {
			s.defaultPlayerCount = n
		}
	}
}

// WithCatalog replaces the Detetive card set.
func WithCatalog(cat catalog.Catalog) Option {
	return func(s *Service) {
		if cat.Len() > 0 {
			s.catalog = cat
		}
	}
}

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		catalog:            catalog.Default(),
		maxSessions:        1_000,
		idleTTL:            6 * time.Hour,
		sweepInterval:      time.Minute,
		dedupeSize:         50_000,
		feedBuffer:         16,
		palette:            append([]string(nil), session.DefaultPalette...),
		defaultPlayerCount: session.DefaultPlayerCount,
		now:                time.Now,
		stopCh:             make(chan struct{}),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes the components and the idle sweep loop.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting detetive service...")

	s.sessions = repository.NewMemoryStore(
		repository.WithMaxSessions(s.maxSessions),
		repository.WithIdleTTL(s.idleTTL),
		repository.WithClock(s.now),
	)
	s.deduper = dedupe.NewInMemoryDeduper(
		dedupe.WithMaxSize(s.dedupeSize),
	)
	s.changes = feed.NewInMemoryFeed(
		feed.WithBufferSize(s.feedBuffer),
	)
	s.stopCh = make(chan struct{})

	s.wg.Add(1)
	go s.sweepLoop(s.stopCh)

	s.started = true
	s.logger.Info(ctx, "detetive service started",
		logger.Int("maxSessions", s.maxSessions),
		logger.Duration("idleTTL", s.idleTTL),
		logger.Int("dedupeSize", s.dedupeSize),
		logger.Int("catalogItems", s.catalog.Len()),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.logger.Info(context.Background(), "stopping detetive service...")
	close(s.stopCh)
	_ = s.changes.Close()
	s.started = false
	s.mu.Unlock()

	s.wg.Wait()
	s.logger.Info(context.Background(), "detetive service stopped")
}

func (s *Service) sweepLoop(stop <-chan struct{}) {
	defer s.wg.Done()
	ticker := time.NewTicker(s.sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			s.Sweep(context.Background())
		}
	}
}

// Sweep evicts idle sessions and closes their change streams.
func (s *Service) Sweep(ctx context.Context) int {
	if err := s.ready(); err != nil {
		return 0
	}
	evicted := s.sessions.Sweep(ctx)
	for _, id := range evicted {
		s.changes.CloseSession(id)
		s.logger.Info(ctx, "evicted idle session", logger.String("sessionID", id))
	}
	return len(evicted)
}

func (s *Service) ready() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return ErrNotStarted
	}
	return nil
}
