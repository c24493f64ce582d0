package registry

import "errors"

// Sentinel kinds for registry errors.
var (
	ErrEmptyRegistry = errors.New("paper registry is empty")
	ErrOutOfBounds   = errors.New("paper position out of bounds")
	ErrPaperNotFound = errors.New("paper not found")
	ErrCorrupted     = errors.New("paper registry line corrupted")
)
