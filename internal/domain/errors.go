package domain

import "errors"

// Sentinel errors shared by configuration, database and HTTP layers.
var (
	// Configuration errors
	ErrInvalidPort = errors.New("invalid port")

	// Database errors
	ErrUnsupportedScheme   = errors.New("unsupported database URL scheme")
	ErrDatabaseUnavailable = errors.New("database unavailable")
)
