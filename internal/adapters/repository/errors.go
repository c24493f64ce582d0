package repository

import "errors"

// Sentinel kinds for vote log errors.
var (
	ErrClosed    = errors.New("vote log closed")
	ErrCorrupted = errors.New("vote log line corrupted")
)
