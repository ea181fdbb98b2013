package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/okian/detetive/internal/domain/session"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestMemoryStore_BasicOperations(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	if count := store.Count(ctx); count != 0 {
		t.Errorf("expected count 0, got %d", count)
	}

	e, err := store.Create(ctx, session.NewController())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.ID == "" {
		t.Fatal("expected a generated id")
	}
	if count := store.Count(ctx); count != 1 {
		t.Errorf("expected count 1, got %d", count)
	}

	got, err := store.Get(ctx, e.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != e {
		t.Error("expected Get to return the created entry")
	}

	if err := store.Delete(ctx, e.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := store.Get(ctx, e.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := store.Delete(ctx, e.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestMemoryStore_Capacity(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(WithMaxSessions(2))

	for i := 0; i < 2; i++ {
		if _, err := store.Create(ctx, session.NewController()); err != nil {
			t.Fatalf("create %d: unexpected error: %v", i, err)
		}
	}
	if _, err := store.Create(ctx, session.NewController()); !errors.Is(err, ErrCapacity) {
		t.Errorf("expected ErrCapacity, got %v", err)
	}
}

func TestMemoryStore_IDCollision(t *testing.T) {
	ctx := context.Background()
	ids := []string{"a", "a", "b"}
	i := 0
	store := NewMemoryStore(WithIDGenerator(func() string {
		id := ids[i]
		i++
		return id
	}))

	first, _ := store.Create(ctx, session.NewController())
	second, err := store.Create(ctx, session.NewController())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.ID != "a" || second.ID != "b" {
		t.Errorf("expected ids a and b, got %s and %s", first.ID, second.ID)
	}
}

func TestMemoryStore_Update(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Unix(1_000, 0)}
	store := NewMemoryStore(WithClock(clock.Now))

	e, _ := store.Create(ctx, session.NewController())
	clock.Advance(time.Minute)

	if err := e.Update(func(c *session.Controller, _ time.Time) error { return c.StartNewGame() }); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	e.Read(func(c *session.Controller, updatedAt time.Time) {
		if c.Screen() != session.ScreenSetup {
			t.Errorf("expected SETUP, got %s", c.Screen())
		}
		if !updatedAt.Equal(clock.Now()) {
			t.Errorf("expected updatedAt %v, got %v", clock.Now(), updatedAt)
		}
	})

	clock.Advance(time.Minute)
	boom := errors.New("boom")
	if err := e.Update(func(*session.Controller, time.Time) error { return boom }); !errors.Is(err, boom) {
		t.Errorf("expected fn error to surface, got %v", err)
	}
	e.Read(func(_ *session.Controller, updatedAt time.Time) {
		if updatedAt.Equal(clock.Now()) {
			t.Error("failed update must not stamp updatedAt")
		}
	})
}

func TestMemoryStore_Apply(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Unix(1_000, 0)}
	store := NewMemoryStore(WithClock(clock.Now))

	e, _ := store.Create(ctx, session.NewController())
	created := clock.Now()
	clock.Advance(time.Minute)

	err := e.Apply(func(_ *session.Controller, updatedAt, now time.Time) (bool, error) {
		if !updatedAt.Equal(created) {
			t.Errorf("expected current stamp %v, got %v", created, updatedAt)
		}
		if !now.Equal(clock.Now()) {
			t.Errorf("expected next stamp %v, got %v", clock.Now(), now)
		}
		return false, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	e.Read(func(_ *session.Controller, updatedAt time.Time) {
		if !updatedAt.Equal(created) {
			t.Error("unchanged apply must not stamp updatedAt")
		}
	})

	_ = e.Apply(func(*session.Controller, time.Time, time.Time) (bool, error) { return true, nil })
	e.Read(func(_ *session.Controller, updatedAt time.Time) {
		if !updatedAt.Equal(clock.Now()) {
			t.Errorf("expected updatedAt %v, got %v", clock.Now(), updatedAt)
		}
	})
}

func TestMemoryStore_Sweep(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Unix(1_000, 0)}
	store := NewMemoryStore(WithClock(clock.Now), WithIdleTTL(10*time.Minute))

	idle, _ := store.Create(ctx, session.NewController())
	active, _ := store.Create(ctx, session.NewController())

	clock.Advance(8 * time.Minute)
	active.Read(func(*session.Controller, time.Time) {})
	clock.Advance(5 * time.Minute)

	evicted := store.Sweep(ctx)
	if len(evicted) != 1 || evicted[0] != idle.ID {
		t.Fatalf("expected only %s evicted, got %v", idle.ID, evicted)
	}
	if _, err := store.Get(ctx, active.ID); err != nil {
		t.Errorf("expected active session to survive, got %v", err)
	}
	if count := store.Count(ctx); count != 1 {
		t.Errorf("expected count 1, got %d", count)
	}
}

func TestMemoryStore_SweepWithoutTTL(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Unix(1_000, 0)}
	store := NewMemoryStore(WithClock(clock.Now))

	_, _ = store.Create(ctx, session.NewController())
	clock.Advance(1000 * time.Hour)

	if evicted := store.Sweep(ctx); len(evicted) != 0 {
		t.Errorf("expected nothing evicted without a TTL, got %v", evicted)
	}
}

func TestMemoryStore_Concurrency(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(WithMaxSessions(100))

	e, _ := store.Create(ctx, session.NewController())
	_ = e.Update(func(c *session.Controller, _ time.Time) error {
		if err := c.StartNewGame(); err != nil {
			return err
		}
		return c.SubmitSetup()
	})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := store.Create(ctx, session.NewController()); err != nil {
				t.Errorf("create: %v", err)
			}
			_ = e.Update(func(c *session.Controller, _ time.Time) error {
				_, err := c.Cycle("s1", fmt.Sprintf("p%d", i%3))
				return err
			})
		}(i)
	}
	wg.Wait()

	if count := store.Count(ctx); count != 21 {
		t.Errorf("expected count 21, got %d", count)
	}
	e.Read(func(c *session.Controller, _ time.Time) {
		if c.Version() < 20 {
			t.Errorf("expected at least 20 versions, got %d", c.Version())
		}
	})
}
