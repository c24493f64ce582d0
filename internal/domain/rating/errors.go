package rating

import "errors"

// Sentinel kinds for rating engine errors.
var (
	// ErrInvalidWeights marks malformed category weights at construction.
	ErrInvalidWeights = errors.New("invalid category weights")

	// ErrNoPairFound is the not-found sentinel for fair-pair search. It is
	// a normal, recoverable outcome, not a failure: the caller decides the
	// fallback (widen the pool, try another paper).
	ErrNoPairFound = errors.New("no fair pair found")
)
