package boardcli

import (
	"fmt"
	"strings"
	"time"
)

// Config holds configuration for one CLI run.
type Config struct {
	BaseURL string        // Base URL of the service
	Players int           // Seats at the table, 0 for the server default
	Moves   []Move        // Cells to cycle, in order
	Timeout time.Duration // HTTP request timeout
	LogFile string        // Optional log file, logs always go to stderr too
	Verbose bool          // Enable debug logging
	Keep    bool          // Leave the session on the server when done
}

// Move names one grid cell to cycle.
type Move struct {
	ItemID   string
	PlayerID string
}

func (m Move) String() string { return m.ItemID + ":" + m.PlayerID }

// ParseMove reads "item:player", e.g. "w2:p1".
func ParseMove(s string) (Move, error) {
	item, player, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok || item == "" || player == "" || strings.Contains(player, ":") {
		return Move{}, fmt.Errorf("%w: %q (want item:player)", ErrInvalidMove, s)
	}
	return Move{ItemID: item, PlayerID: player}, nil
}

// MoveList is a repeatable -move flag.
type MoveList []Move

// String implements flag.Value.
func (l *MoveList) String() string {
	parts := make([]string, len(*l))
	for i, m := range *l {
		parts[i] = m.String()
	}
	return strings.Join(parts, ",")
}

// Set implements flag.Value. A comma separated value adds several moves.
func (l *MoveList) Set(v string) error {
	for _, part := range strings.Split(v, ",") {
		m, err := ParseMove(part)
		if err != nil {
			return err
		}
		*l = append(*l, m)
	}
	return nil
}

// Stats holds run statistics.
type Stats struct {
	MovesApplied   int
	MovesDuplicate int
	Exclusions     int
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
}
