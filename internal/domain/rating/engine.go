// Package rating implements the Elo-style rating engine and fair-pair
// matchmaking for the arena. See https://en.wikipedia.org/wiki/Elo_rating_system.
package rating

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/okian/arena/internal/domain/model"
	"github.com/okian/arena/pkg/metrics"
)

// Default engine configuration constants.
const (
	defaultKFactor       = 32.0
	defaultInitialRating = 1500.0
	defaultPairStep      = 10.0
	defaultMaxAttempts   = 100
	defaultRandomSeed    = 42
)

// Engine maintains per-reviewer ratings and cumulative vote mass, updated
// one pairwise comparison at a time. State is in-memory only; durability is
// the vote log's responsibility and the engine is rebuilt via Replay.
//
// A single mutex covers every mutating or reading operation as an atomic
// unit: interleaving two updates to the same reviewer without isolation
// loses one of them.
type Engine struct {
	mu sync.Mutex

	kFactor       float64
	initialRating float64
	weights       Weights
	pairStep      float64
	maxAttempts   int
	rng           *rand.Rand

	ratings  map[string]float64
	voteMass map[string]float64
}

// New constructs an Engine with default configuration. It fails with
// ErrInvalidWeights when the configured category weights are malformed;
// weights are never clamped or renormalized.
func New(opts ...Option) (*Engine, error) {
	e := &Engine{
		kFactor:       defaultKFactor,
		initialRating: defaultInitialRating,
		weights:       DefaultWeights(),
		pairStep:      defaultPairStep,
		maxAttempts:   defaultMaxAttempts,
		rng:           rand.New(rand.NewSource(defaultRandomSeed)), //nolint:gosec // deterministic seed for reproducible matchmaking
		ratings:       make(map[string]float64),
		voteMass:      make(map[string]float64),
	}

	// Apply all options
	for _, opt := range opts {
		opt(e)
	}

	if err := e.weights.Validate(); err != nil {
		return nil, err
	}

	return e, nil
}

// ExpectedScore returns the logistic expected score of the first side
// against the second: 1 / (1 + 10^((rb-ra)/400)).
func ExpectedScore(ratingA, ratingB float64) float64 {
	return 1 / (1 + math.Pow(10, (ratingB-ratingA)/400))
}

// Replay resets all ratings and vote masses, then applies every vote in
// the given chronological order. Ratings are path-dependent, so the order
// must match the durable log's order; the result is deterministic for
// identical input order and weights.
func (e *Engine) Replay(ctx context.Context, history []model.Vote) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.ratings = make(map[string]float64)
	e.voteMass = make(map[string]float64)

	for i, v := range history {
		if err := e.updateLocked(v); err != nil {
			return fmt.Errorf("replay vote %d: %w", i, err)
		}
	}

	metrics.UpdateReplayVotes(len(history))
	return nil
}

// Update applies a single comparison outcome to both sides' ratings and
// vote masses. Malformed votes fail fast with no partial update.
func (e *Engine) Update(ctx context.Context, v model.Vote) error {
	start := time.Now()
	defer func() {
		metrics.RecordRatingUpdateLatency(float64(time.Since(start).Milliseconds()))
	}()

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.updateLocked(v)
}

// updateLocked applies the update rule. Caller must hold e.mu.
func (e *Engine) updateLocked(v model.Vote) error {
	if err := v.Validate(); err != nil {
		return err
	}

	score := e.weights.NormalizedScore(v.Judgements())

	ratingA := e.ratingLocked(v.ReviewerA)
	ratingB := e.ratingLocked(v.ReviewerB)

	expectedA := ExpectedScore(ratingA, ratingB)
	expectedB := 1 - expectedA

	e.ratings[v.ReviewerA] = ratingA + e.kFactor*(score-expectedA)
	e.ratings[v.ReviewerB] = ratingB + e.kFactor*((1-score)-expectedB)

	e.voteMass[v.ReviewerA] += score
	e.voteMass[v.ReviewerB] += 1 - score

	return nil
}

// Rating returns the current rating for id, creating it at the initial
// rating on first reference.
func (e *Engine) Rating(id string) float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ratingLocked(id)
}

// ratingLocked is the get-or-insert-default accessor. Caller must hold e.mu.
func (e *Engine) ratingLocked(id string) float64 {
	r, ok := e.ratings[id]
	if !ok {
		r = e.initialRating
		e.ratings[id] = r
	}
	return r
}

// Count returns the number of reviewers with a rating on record.
func (e *Engine) Count() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.ratings)
}
