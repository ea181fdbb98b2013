package boardcli

// HTTP status code constants.
const (
	StatusOK        = 200
	StatusCreated   = 201
	StatusNoContent = 204
)

// File permission constants.
const (
	logFilePermission = 0600
)
