package session

import "time"

// Option applies a configuration option to the Registry.
type Option func(*Registry)

// WithMaxSize caps the number of tracked sessions.
func WithMaxSize(size int) Option {
	return func(r *Registry) {
		if size > 0 {
			r.maxSize = size
		}
	}
}

// WithClock injects the time source, so tests can control timestamps.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) {
		if now != nil {
			r.now = now
		}
	}
}
