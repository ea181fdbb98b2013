package boardcli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/okian/detetive/pkg/logger"
)

// SetupLogging sends logs to stderr, and to logFile as well when set.
// stdout is left for the rendered tables.
func SetupLogging(logFile string, verbose bool) error {
	var w io.Writer = os.Stderr
	if logFile != "" {
		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
		if err != nil {
			return fmt.Errorf("failed to create log file: %w", err)
		}
		w = io.MultiWriter(os.Stderr, file)
	}

	if err := logger.InitWithWriter(w, logger.FormatText); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	level := "warn"
	if verbose {
		level = "debug"
	}
	if err := logger.SetLevelString(level); err != nil {
		return fmt.Errorf("failed to set log level: %w", err)
	}
	if logFile != "" {
		logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	}
	return nil
}

// ShowHelp prints usage information for the client.
func ShowHelp(w io.Writer) {
	_, _ = io.WriteString(w, `Detetive terminal client
========================

Creates a session on a running companion service, cycles the given cells in
order and prints the notepad and the remaining envelope candidates.

Usage:
  detetive-cli [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9080")
  -players int
        Number of players, 3 to 6 (default: server default)
  -move item:player
        Cell to cycle; repeat the flag or separate with commas
  -timeout duration
        HTTP request timeout (default 10s)
  -keep
        Keep the session on the server after printing
  -log string
        Also write logs to this file
  -verbose
        Enable debug logging
  -help
        Show this help message

Each -move advances the cell one step:
  EMPTY -> NO -> YES -> MAYBE -> STRONG -> REVEALED -> EMPTY
Two moves on an empty cell therefore confirm the card for that player.

Examples:
  # Player p1 holds the Espingarda
  detetive-cli -players 4 -move w2:p1 -move w2:p1

  # Mark a few cards as not held
  detetive-cli -move s1:p0,s2:p0,s3:p2
`)
}
