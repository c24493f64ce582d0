package rating

import (
	"context"
	"math"

	"github.com/okian/arena/pkg/metrics"
)

// Pair is an ordered reviewer pair as presented to a voter. Exclusion
// checks treat it as unordered.
type Pair struct {
	A string
	B string
}

// PairSet is a set of unordered excluded pairs.
type PairSet map[Pair]struct{}

// Contains reports whether the pair (a, b) is present in either order.
func (s PairSet) Contains(a, b string) bool {
	if _, ok := s[Pair{A: a, B: b}]; ok {
		return true
	}
	_, ok := s[Pair{A: b, B: a}]
	return ok
}

// Add inserts the pair as given. Lookups are order-insensitive.
func (s PairSet) Add(a, b string) {
	s[Pair{A: a, B: b}] = struct{}{}
}

// FindFairPair selects a closely matched pair with a randomized widening
// window search: pick a random A-side, then grow a fairness window from
// width zero by step until some B-side candidate falls inside it. The
// smallest window that yields any candidate wins; this is a greedy
// nearest-fairness policy, not a global optimum.
//
// The search is bounded by the engine's attempt budget and returns
// ErrNoPairFound on exhaustion, a legitimate steady state when the pools
// are small or heavily excluded. A non-positive step falls back to the
// engine's configured step.
func (e *Engine) FindFairPair(ctx context.Context, poolA, poolB []string, exclude PairSet, step float64) (Pair, error) {
	if len(poolA) == 0 || len(poolB) == 0 {
		return Pair{}, ErrNoPairFound
	}
	if step <= 0 {
		step = e.pairStep
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	// Cold start: with no ratings at all, fairness is vacuous.
	if len(e.ratings) == 0 {
		return e.randomPairLocked(poolA, poolB)
	}

	minRating, maxRating := e.ratingBoundsLocked()

	for attempt := 1; attempt <= e.maxAttempts; attempt++ {
		a := poolA[e.rng.Intn(len(poolA))]
		base := e.ratingLocked(a)

		// The window never needs to widen past the farthest rating,
		// rounded up to a step multiple so the loop terminates exactly.
		maxDiff := math.Max(maxRating-base, base-minRating)
		maxDiff = math.Ceil(maxDiff/step) * step

		// Width zero first: many reviewers share identical ratings.
		for window := 0.0; window <= maxDiff; window += step {
			eligible := make([]string, 0, len(poolB))
			for _, b := range poolB {
				if b == a {
					continue
				}
				if math.Abs(e.ratingLocked(b)-base) > window {
					continue
				}
				if exclude.Contains(a, b) {
					continue
				}
				eligible = append(eligible, b)
			}
			if len(eligible) > 0 {
				b := eligible[e.rng.Intn(len(eligible))]
				metrics.RecordPairSearchAttempts(attempt)
				metrics.RecordPairSelected()
				return Pair{A: a, B: b}, nil
			}
		}
	}

	metrics.RecordPairSearchAttempts(e.maxAttempts)
	metrics.RecordPairNotFound()
	return Pair{}, ErrNoPairFound
}

// randomPairLocked picks a uniformly random pair for the cold-start case.
// Caller must hold e.mu.
func (e *Engine) randomPairLocked(poolA, poolB []string) (Pair, error) {
	a := poolA[e.rng.Intn(len(poolA))]

	candidates := make([]string, 0, len(poolB))
	for _, b := range poolB {
		if b != a {
			candidates = append(candidates, b)
		}
	}
	if len(candidates) == 0 {
		return Pair{}, ErrNoPairFound
	}

	b := candidates[e.rng.Intn(len(candidates))]
	metrics.RecordPairSelected()
	return Pair{A: a, B: b}, nil
}

// ratingBoundsLocked returns the current global min and max ratings.
// Caller must hold e.mu and must have checked the map is non-empty.
func (e *Engine) ratingBoundsLocked() (minRating, maxRating float64) {
	first := true
	for _, r := range e.ratings {
		if first {
			minRating, maxRating = r, r
			first = false
			continue
		}
		if r < minRating {
			minRating = r
		}
		if r > maxRating {
			maxRating = r
		}
	}
	return minRating, maxRating
}
