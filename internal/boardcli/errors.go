package boardcli

import "errors"

// Sentinel kinds for CLI errors.
var (
	ErrInvalidMove      = errors.New("invalid move")
	ErrUnexpectedStatus = errors.New("unexpected status")
)
