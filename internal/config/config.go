// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - New builds a Config holding every default.
// - Load layers an optional YAML file and DETETIVE_* env vars on top.
// - Errors are wrapped with this package's sentinel kinds.
package config

import (
	"fmt"
	"slices"
	"time"

	"github.com/okian/detetive/internal/domain/session"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the slog handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// MaxSessions caps how many sessions are held in memory at once.
	MaxSessions int `koanf:"max_sessions"`

	// SessionIdleTTL evicts sessions untouched for this long. Zero disables eviction.
	SessionIdleTTL time.Duration `koanf:"session_idle_ttl"`

	// SweepInterval is how often idle sessions are looked for.
	SweepInterval time.Duration `koanf:"sweep_interval"`

	// DedupeSize bounds the remembered cycle request ids.
	DedupeSize int `koanf:"dedupe_size"`

	// FeedBuffer is the per-subscriber buffer of the change feed.
	FeedBuffer int `koanf:"feed_buffer"`

	// DefaultPlayerCount is preselected on the setup screen.
	DefaultPlayerCount int `koanf:"default_player_count"`

	// PlayerColors is the palette seats cycle through by index.
	PlayerColors []string `koanf:"player_colors"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:           "info",
		LogFormat:          "text",
		Addr:               ":9080",
		MaxSessions:        1_000,
		SessionIdleTTL:     6 * time.Hour,
		SweepInterval:      time.Minute,
		DedupeSize:         50_000,
		FeedBuffer:         16,
		DefaultPlayerCount: session.DefaultPlayerCount,
		PlayerColors:       slices.Clone(session.DefaultPalette),
	}
}

// Validate checks ranges and required fields.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.MaxSessions <= 0:
		return fmt.Errorf("%w: max_sessions must be positive", ErrInvalidConfig)
	case c.SessionIdleTTL < 0:
		return fmt.Errorf("%w: session_idle_ttl must not be negative", ErrInvalidConfig)
	case c.SessionIdleTTL > 0 && c.SweepInterval <= 0:
		return fmt.Errorf("%w: sweep_interval must be positive when session_idle_ttl is set", ErrInvalidConfig)
	case c.FeedBuffer <= 0:
		return fmt.Errorf("%w: feed_buffer must be positive", ErrInvalidConfig)
	case c.DefaultPlayerCount < session.MinPlayers || c.DefaultPlayerCount > session.MaxPlayers:
		return fmt.Errorf("%w: default_player_count must be in [%d, %d]", ErrInvalidConfig, session.MinPlayers, session.MaxPlayers)
	case len(c.PlayerColors) == 0:
		return fmt.Errorf("%w: player_colors must not be empty", ErrInvalidConfig)
	case c.LogFormat != "text" && c.LogFormat != "json":
		return fmt.Errorf("%w: log_format must be text or json", ErrInvalidConfig)
	}
	return nil
}
