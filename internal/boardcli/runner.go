package boardcli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/okian/detetive/pkg/logger"
)

// Run creates a session, applies the configured moves in order and prints
// the grid and the deduction to out.
func Run(ctx context.Context, config *Config, out io.Writer) error {
	stats := &Stats{
		StartTime: time.Now(),
	}
	log := logger.Get().Named("boardcli")

	log.Info(ctx, "starting detetive client",
		logger.String("baseURL", config.BaseURL),
		logger.Int("players", config.Players),
		logger.Int("moves", len(config.Moves)),
		logger.Duration("timeout", config.Timeout),
		logger.Bool("verbose", config.Verbose))

	client := NewHTTPClient(config.BaseURL, config.Timeout)

	if err := client.Health(ctx); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	snap, err := client.CreateSession(ctx, config.Players)
	if err != nil {
		return fmt.Errorf("session creation failed: %w", err)
	}
	log.Info(ctx, "session created",
		logger.String("sessionID", snap.ID),
		logger.Int("players", len(snap.Players)))

	if !config.Keep {
		defer func() {
			if err := client.DeleteSession(context.Background(), snap.ID); err != nil {
				log.Warn(ctx, "failed to delete session", logger.Error(err))
			}
		}()
	}

	for _, m := range config.Moves {
		res, err := client.Cycle(ctx, snap.ID, m)
		if err != nil {
			return fmt.Errorf("move %s failed: %w", m, err)
		}
		snap = res.Session
		if res.Duplicate {
			stats.MovesDuplicate++
			continue
		}
		stats.MovesApplied++
		if res.Outcome != nil {
			stats.Exclusions += len(res.Outcome.Exclusions)
			log.Debug(ctx, "cell cycled",
				logger.String("move", m.String()),
				logger.String("from", res.Outcome.Previous.String()),
				logger.String("to", res.Outcome.Next.String()),
				logger.Int("exclusions", len(res.Outcome.Exclusions)))
		}
	}

	d, err := client.Deduction(ctx, snap.ID)
	if err != nil {
		return fmt.Errorf("deduction failed: %w", err)
	}

	if _, err := fmt.Fprintf(out, "%s\n\n%s\n", RenderGrid(snap), RenderDeduction(d)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, stats, snap.ID, d.Solved)
	return nil
}

func displayFinalStats(ctx context.Context, stats *Stats, sessionID string, solved bool) {
	logger.Get().Info(ctx, "final statistics",
		logger.String("sessionID", sessionID),
		logger.Int("movesApplied", stats.MovesApplied),
		logger.Int("movesDuplicate", stats.MovesDuplicate),
		logger.Int("exclusions", stats.Exclusions),
		logger.Bool("solved", solved),
		logger.Duration("duration", stats.Duration))
}
