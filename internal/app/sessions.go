package service

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/detetive/internal/domain/catalog"
	"github.com/okian/detetive/internal/domain/cycle"
	"github.com/okian/detetive/internal/domain/model"
	"github.com/okian/detetive/internal/domain/session"
	"github.com/okian/detetive/internal/domain/types"
	"github.com/okian/detetive/pkg/logger"
	"github.com/okian/detetive/pkg/metrics"
)

// Catalog returns the card set every session plays with.
func (s *Service) Catalog() catalog.Catalog {
	return s.catalog
}

// CreateSession starts a session already on the GAME screen.
// playerCount 0 means the configured default.
func (s *Service) CreateSession(ctx context.Context, playerCount int) (types.Session, error) {
	if err := s.ready(); err != nil {
		return types.Session{}, err
	}
	if playerCount == 0 {
		playerCount = s.defaultPlayerCount
	}

	ctrl := s.newController()
	if err := ctrl.NewGame(playerCount); err != nil {
		return types.Session{}, err
	}

	e, err := s.sessions.Create(ctx, ctrl)
	if err != nil {
		s.logger.Warn(ctx, "session rejected", logger.Error(err))
		return types.Session{}, err
	}

	var snap types.Session
	e.Read(func(c *session.Controller, updatedAt time.Time) {
		snap = types.NewSession(e.ID, c, e.CreatedAt, updatedAt)
	})

	metrics.RecordSessionCreated()
	s.logger.Info(ctx, "session created",
		logger.String("sessionID", e.ID),
		logger.Int("players", playerCount),
	)
	s.publish(ctx, model.ChangeCreated, snap)
	return snap, nil
}

func (s *Service) newController() *session.Controller {
	return session.NewController(
		session.WithCatalog(s.catalog),
		session.WithPalette(s.palette),
		session.WithDefaultPlayerCount(s.defaultPlayerCount),
	)
}

// GetSession returns the current snapshot of a session.
func (s *Service) GetSession(ctx context.Context, id string) (types.Session, error) {
	if err := s.ready(); err != nil {
		return types.Session{}, err
	}
	e, err := s.sessions.Get(ctx, id)
	if err != nil {
		return types.Session{}, err
	}
	var snap types.Session
	e.Read(func(c *session.Controller, updatedAt time.Time) {
		snap = types.NewSession(e.ID, c, e.CreatedAt, updatedAt)
	})
	return snap, nil
}

// DeleteSession drops a session and ends its change stream.
func (s *Service) DeleteSession(ctx context.Context, id string) error {
	if err := s.ready(); err != nil {
		return err
	}
	if err := s.sessions.Delete(ctx, id); err != nil {
		return err
	}
	s.changes.Publish(ctx, model.Change{
		SessionID: id,
		Kind:      model.ChangeDeleted,
		At:        s.now(),
	})
	s.changes.CloseSession(id)
	metrics.RecordSessionDeleted()
	s.logger.Info(ctx, "session deleted", logger.String("sessionID", id))
	return nil
}

// NewGame discards the session's game and deals a fresh roster and grid.
func (s *Service) NewGame(ctx context.Context, id string, playerCount int) (types.Session, error) {
	if playerCount == 0 {
		playerCount = s.defaultPlayerCount
	}
	snap, err := s.update(ctx, id, func(c *session.Controller) error {
		return c.NewGame(playerCount)
	})
	if err != nil {
		return types.Session{}, err
	}
	s.logger.Info(ctx, "new game",
		logger.String("sessionID", id),
		logger.Int("players", playerCount),
	)
	s.publish(ctx, model.ChangeNewGame, snap)
	return snap, nil
}

// Home returns a session to HOME, dropping the game in progress.
func (s *Service) Home(ctx context.Context, id string) (types.Session, error) {
	return s.screenChange(ctx, id, func(c *session.Controller) error {
		c.Home()
		return nil
	})
}

// Setup moves a session from HOME to SETUP.
func (s *Service) Setup(ctx context.Context, id string) (types.Session, error) {
	return s.screenChange(ctx, id, func(c *session.Controller) error {
		return c.StartNewGame()
	})
}

// SelectPlayerCount picks the seat count while on SETUP.
func (s *Service) SelectPlayerCount(ctx context.Context, id string, n int) (types.Session, error) {
	return s.screenChange(ctx, id, func(c *session.Controller) error {
		return c.SelectPlayerCount(n)
	})
}

// StartGame submits SETUP and enters GAME with a fresh grid.
func (s *Service) StartGame(ctx context.Context, id string) (types.Session, error) {
	return s.screenChange(ctx, id, func(c *session.Controller) error {
		return c.SubmitSetup()
	})
}

func (s *Service) screenChange(ctx context.Context, id string, fn func(c *session.Controller) error) (types.Session, error) {
	snap, err := s.update(ctx, id, fn)
	if err != nil {
		return types.Session{}, err
	}
	s.logger.Debug(ctx, "screen changed",
		logger.String("sessionID", id),
		logger.String("screen", string(snap.Screen)),
	)
	s.publish(ctx, model.ChangeScreen, snap)
	return snap, nil
}

// Cycle advances one cell of a session's grid. A non-empty requestID that
// was already applied to this session returns the current snapshot with
// Duplicate set and leaves the grid untouched.
func (s *Service) Cycle(ctx context.Context, id, itemID, playerID, requestID string) (types.CycleResult, error) {
	start := time.Now()
	if err := s.ready(); err != nil {
		return types.CycleResult{}, err
	}
	e, err := s.sessions.Get(ctx, id)
	if err != nil {
		return types.CycleResult{}, err
	}

	dedupeKey := ""
	if requestID != "" {
		dedupeKey = id + "/" + requestID
	}

	var (
		out       cycle.Outcome
		snap      types.Session
		duplicate bool
	)
	// Request ids are checked, recorded and unrecorded under the session lock.
	err = e.Apply(func(c *session.Controller, updatedAt, now time.Time) (bool, error) {
		if dedupeKey != "" && s.deduper.SeenAndRecord(ctx, dedupeKey) {
			duplicate = true
			snap = types.NewSession(e.ID, c, e.CreatedAt, updatedAt)
			return false, nil
		}
		var err error
		out, err = c.Cycle(itemID, playerID)
		if err != nil {
			if dedupeKey != "" {
				s.deduper.Unrecord(ctx, dedupeKey)
			}
			return false, err
		}
		snap = types.NewSession(e.ID, c, e.CreatedAt, now)
		return true, nil
	})
	if err != nil {
		metrics.RecordErrorByComponent("service", "cycle")
		return types.CycleResult{}, fmt.Errorf("cycle %s/%s: %w", itemID, playerID, err)
	}
	if duplicate {
		metrics.RecordCycleDuplicate()
		s.logger.Debug(ctx, "duplicate cycle request, skipping",
			logger.String("sessionID", id),
			logger.String("requestID", requestID),
		)
		return types.CycleResult{Duplicate: true, Session: snap}, nil
	}

	metrics.RecordCycle(out.Next.String(), len(out.Exclusions))
	metrics.RecordCycleLatency(float64(time.Since(start).Microseconds()) / 1000)
	s.logger.Info(ctx, "cell cycled",
		logger.String("sessionID", id),
		logger.String("itemID", itemID),
		logger.String("playerID", playerID),
		logger.String("from", out.Previous.String()),
		logger.String("to", out.Next.String()),
		logger.Int("exclusions", len(out.Exclusions)),
	)
	if snap.Deduction.Solved {
		metrics.RecordSolution()
		s.logger.Info(ctx, "envelope solved",
			logger.String("sessionID", id),
			logger.String("suspect", snap.Deduction.Solution.Suspect.Name),
			logger.String("weapon", snap.Deduction.Solution.Weapon.Name),
			logger.String("location", snap.Deduction.Solution.Location.Name),
		)
	}
	s.publish(ctx, model.ChangeCycle, snap)

	return types.CycleResult{Outcome: &out, Session: snap}, nil
}

// Deduction recomputes the candidate panel for a session.
func (s *Service) Deduction(ctx context.Context, id string) (types.Deduction, error) {
	if err := s.ready(); err != nil {
		return types.Deduction{}, err
	}
	e, err := s.sessions.Get(ctx, id)
	if err != nil {
		return types.Deduction{}, err
	}
	var d types.Deduction
	e.Read(func(c *session.Controller, _ time.Time) {
		d = types.NewDeduction(c)
	})
	metrics.RecordDeduction()
	return d, nil
}

// Subscribe opens a change stream for an existing session.
func (s *Service) Subscribe(ctx context.Context, id string) (<-chan model.Change, func(), error) {
	if err := s.ready(); err != nil {
		return nil, nil, err
	}
	if _, err := s.sessions.Get(ctx, id); err != nil {
		return nil, nil, err
	}
	ch, cancel := s.changes.Subscribe(ctx, id)
	return ch, cancel, nil
}

func (s *Service) update(ctx context.Context, id string, fn func(c *session.Controller) error) (types.Session, error) {
	if err := s.ready(); err != nil {
		return types.Session{}, err
	}
	e, err := s.sessions.Get(ctx, id)
	if err != nil {
		return types.Session{}, err
	}
	var snap types.Session
	err = e.Update(func(c *session.Controller, updatedAt time.Time) error {
		if err := fn(c); err != nil {
			return err
		}
		snap = types.NewSession(e.ID, c, e.CreatedAt, updatedAt)
		return nil
	})
	if err != nil {
		return types.Session{}, err
	}
	return snap, nil
}

func (s *Service) publish(ctx context.Context, kind string, snap types.Session) {
	s.changes.Publish(ctx, model.Change{
		SessionID: snap.ID,
		Kind:      kind,
		Version:   snap.Version,
		At:        snap.UpdatedAt,
		Data:      snap,
	})
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":        s.started,
		"maxSessions":    s.maxSessions,
		"idleTTL":        s.idleTTL.String(),
		"dedupeSize":     s.dedupeSize,
		"catalogItems":   s.catalog.Len(),
		"defaultPlayers": s.defaultPlayerCount,
	}

	if s.started {
		active := s.sessions.Count(context.Background())
		stats["activeSessions"] = active
		stats["subscribers"] = s.changes.Subscribers()
		stats["dedupeEntries"] = s.deduper.Size()

		metrics.UpdateActiveSessions(active)
	}

	return stats
}
