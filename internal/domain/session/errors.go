package session

import "errors"

// Sentinel kinds for session errors.
var (
	ErrInvalidPlayerCount = errors.New("player count out of range")
	ErrWrongScreen        = errors.New("operation not allowed on current screen")
	ErrNotInGame          = errors.New("no game in progress")
	ErrUnknownItem        = errors.New("unknown item")
	ErrUnknownPlayer      = errors.New("unknown player")
)
