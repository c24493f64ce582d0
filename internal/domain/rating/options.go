package rating

import "math/rand"

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithWeights sets the category weights. Validation happens in New.
func WithWeights(w Weights) Option {
	return func(e *Engine) {
		e.weights = w
	}
}

// WithKFactor sets the maximum rating swing per comparison.
func WithKFactor(k float64) Option {
	return func(e *Engine) {
		if k > 0 {
			e.kFactor = k
		}
	}
}

// WithInitialRating sets the rating assigned on first reference.
func WithInitialRating(r float64) Option {
	return func(e *Engine) {
		if r > 0 {
			e.initialRating = r
		}
	}
}

// WithPairStep sets the default fairness window widening step.
func WithPairStep(step float64) Option {
	return func(e *Engine) {
		if step > 0 {
			e.pairStep = step
		}
	}
}

// WithMaxAttempts bounds the fair-pair search outer loop.
func WithMaxAttempts(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxAttempts = n
		}
	}
}

// WithRand injects the entropy source used for pair selection, so tests
// can supply a deterministic sequence.
func WithRand(rng *rand.Rand) Option {
	return func(e *Engine) {
		if rng != nil {
			e.rng = rng
		}
	}
}
