package session

import "errors"

// Sentinel kinds for session errors.
var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionEnded    = errors.New("session already ended")
)
