package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/detetive/internal/boardcli"
)

// Default configuration constants.
const (
	defaultTimeout    = 10 * time.Second
	defaultRunTimeout = 2 * time.Minute
)

func main() {
	var moves boardcli.MoveList
	var (
		baseURL = flag.String("url", "http://localhost:9080", "Base URL of the service")
		players = flag.Int("players", 0, "Number of players, 3 to 6 (0 uses the server default)")
		timeout = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		keep    = flag.Bool("keep", false, "Keep the session on the server after printing")
		logFile = flag.String("log", "", "Also write logs to this file")
		verbose = flag.Bool("verbose", false, "Enable debug logging")
		help    = flag.Bool("help", false, "Show help")
	)
	flag.Var(&moves, "move", "Cell to cycle as item:player (repeatable)")
	flag.Parse()

	if *help {
		boardcli.ShowHelp(os.Stdout)
		return
	}

	if err := boardcli.SetupLogging(*logFile, *verbose); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, defaultRunTimeout)
	defer cancel()

	config := &boardcli.Config{
		BaseURL: *baseURL,
		Players: *players,
		Moves:   moves,
		Timeout: *timeout,
		LogFile: *logFile,
		Verbose: *verbose,
		Keep:    *keep,
	}

	if err := boardcli.Run(ctx, config, os.Stdout); err != nil {
		os.Stderr.WriteString("detetive-cli: " + err.Error() + "\n")
		cancel()
		stop()
		os.Exit(1) //nolint:gocritic // deferred cancels already ran
	}
}
