package simulate

import (
	"context"
	"fmt"
	"net/http"

	"github.com/okian/arena/pkg/logger"
)

// newDeleteRequest builds a DELETE request for session teardown.
func newDeleteRequest(ctx context.Context, url string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return req, nil
}

// verifyLeaderboard checks the structural invariants of the returned
// leaderboard: ratings descend, ranks never decrease, equal ratings share
// a rank, and every confidence interval brackets its rating.
func verifyLeaderboard(ctx context.Context, entries []Entry) error {
	for i, e := range entries {
		if e.CILower > e.Rating || e.CIUpper < e.Rating {
			return fmt.Errorf("entry %d (%s): interval [%f, %f] does not bracket rating %f",
				i, e.ReviewerID, e.CILower, e.CIUpper, e.Rating)
		}
		if i == 0 {
			continue
		}
		prev := entries[i-1]
		if e.Rating > prev.Rating {
			return fmt.Errorf("entry %d (%s): rating %f exceeds predecessor %f",
				i, e.ReviewerID, e.Rating, prev.Rating)
		}
		if e.Rank < prev.Rank {
			return fmt.Errorf("entry %d (%s): rank %d below predecessor %d",
				i, e.ReviewerID, e.Rank, prev.Rank)
		}
		if e.Rating == prev.Rating && e.Rank != prev.Rank {
			return fmt.Errorf("entry %d (%s): tied rating %f but rank %d != %d",
				i, e.ReviewerID, e.Rating, e.Rank, prev.Rank)
		}
	}

	logger.Get().Info(ctx, "leaderboard verified", logger.Int("entries", len(entries)))
	return nil
}
