package rating

import "math"

// ci95Z is the normal z-score for a 95% confidence interval.
const ci95Z = 1.96

// Stat is the leaderboard view of one reviewer: current rating, a 95%
// confidence interval, and cumulative vote mass. The interval is a
// heuristic approximation (k / sqrt(mass) as the standard deviation), not
// a rigorously derived Elo bound.
type Stat struct {
	Rating  float64 `json:"rating"`
	CILower float64 `json:"ci_lower"`
	CIUpper float64 `json:"ci_upper"`
	Votes   float64 `json:"votes"`
}

// Entry is a ranked leaderboard row.
type Entry struct {
	Rank       int     `json:"rank"`
	ReviewerID string  `json:"reviewer_id"`
	Rating     float64 `json:"rating"`
	CILower    float64 `json:"ci_lower"`
	CIUpper    float64 `json:"ci_upper"`
	Votes      float64 `json:"votes"`
}

// Stats returns the stat triple for every reviewer with a rating on record.
func (e *Engine) Stats() map[string]Stat {
	e.mu.Lock()
	defer e.mu.Unlock()

	stats := make(map[string]Stat, len(e.ratings))
	for id, r := range e.ratings {
		lower, upper := e.confidenceInterval(r, e.voteMass[id])
		stats[id] = Stat{
			Rating:  r,
			CILower: lower,
			CIUpper: upper,
			Votes:   e.voteMass[id],
		}
	}
	return stats
}

// confidenceInterval computes the 95% CI for a rating given its vote mass.
// Zero mass collapses the interval to the rating itself.
func (e *Engine) confidenceInterval(rating, voteMass float64) (lower, upper float64) {
	if voteMass == 0 {
		return rating, rating
	}
	stdDev := e.kFactor / math.Sqrt(voteMass)
	margin := ci95Z * stdDev
	return rating - margin, rating + margin
}
