package rating

import (
	"fmt"

	"github.com/okian/arena/internal/domain/model"
)

// weightSumTolerance allows for small floating-point drift in the sum check.
const weightSumTolerance = 1e-6

// Weights holds the per-category weights applied to the four judgements.
// Each weight must lie in the open interval (0,1) and the four must sum to
// 1 within tolerance. Immutable for the lifetime of an Engine.
type Weights struct {
	TechnicalQuality float64 `koanf:"technical_quality"`
	Constructiveness float64 `koanf:"constructiveness"`
	Clarity          float64 `koanf:"clarity"`
	OverallQuality   float64 `koanf:"overall_quality"`
}

// DefaultWeights returns the asymmetric default favoring overall quality.
func DefaultWeights() Weights {
	return Weights{
		TechnicalQuality: 0.2,
		Constructiveness: 0.2,
		Clarity:          0.2,
		OverallQuality:   0.4,
	}
}

// values returns the weights in judgement order.
func (w Weights) values() [4]float64 {
	return [4]float64{w.TechnicalQuality, w.Constructiveness, w.Clarity, w.OverallQuality}
}

// Sum returns the total of the four weights.
func (w Weights) Sum() float64 {
	var total float64
	for _, v := range w.values() {
		total += v
	}
	return total
}

// Validate checks every weight is inside (0,1) and the sum is 1 within
// tolerance. Invalid weights are a construction-time failure; they are
// never clamped or renormalized.
func (w Weights) Validate() error {
	for _, v := range w.values() {
		if v <= 0 || v >= 1 {
			return fmt.Errorf("%w: weight %v outside (0,1)", ErrInvalidWeights, v)
		}
	}
	if sum := w.Sum(); sum < 1-weightSumTolerance || sum > 1+weightSumTolerance {
		return fmt.Errorf("%w: weights sum to %v, want 1", ErrInvalidWeights, sum)
	}
	return nil
}

// NormalizedScore collapses the four judgements into a single fractional
// win in [0,1] from the A-side's perspective. Division is by the actual
// weight sum rather than an assumed 1 to stay robust to floating drift.
func (w Weights) NormalizedScore(judgements [4]model.Judgement) float64 {
	weights := w.values()
	var total float64
	for i, j := range judgements {
		total += weights[i] * j.Score()
	}
	return total / w.Sum()
}
