package model

import "time"

// Change kinds published on the session feed.
const (
	ChangeCreated = "created"
	ChangeScreen  = "screen"
	ChangeNewGame = "new_game"
	ChangeCycle   = "cycle"
	ChangeDeleted = "deleted"
)

// Change announces that a session moved to a new version.
type Change struct {
	SessionID string    `json:"session_id"`     // session the change belongs to
	Kind      string    `json:"kind"`           // one of the Change* constants
	Version   uint64    `json:"version"`        // session version after the change
	At        time.Time `json:"at"`             // when the change was applied
	Data      any       `json:"data,omitempty"` // read-only view of the session after the change
}
