// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/okian/arena/internal/domain/rating"
	"github.com/okian/arena/internal/domain/registry"
)

// PairDependencies defines the interface for fair-pair selection.
type PairDependencies interface {
	NextPair(ctx context.Context, sessionID, paperID string) (rating.Pair, error)
	ReviewerRating(ctx context.Context, reviewerID string) float64
}

// PairHandler handles fair-pair requests.
type PairHandler struct {
	deps PairDependencies
}

// NewPairHandler creates a new pair handler.
func NewPairHandler(deps PairDependencies) *PairHandler {
	return &PairHandler{deps: deps}
}

// HandleGetPair handles GET /pair?paper_id=X&session_id=Y requests.
// A 404 with code "no_pair" means the search budget ran out for this
// paper; clients should try a different paper rather than retry.
func (h *PairHandler) HandleGetPair(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_pair"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	paperID := r.URL.Query().Get("paper_id")
	if paperID == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	sessionID := r.URL.Query().Get("session_id")

	pair, err := h.deps.NextPair(r.Context(), sessionID, paperID)
	if err != nil {
		switch {
		case errors.Is(err, rating.ErrNoPairFound):
			writeError(w, http.StatusNotFound, "no_pair", err)
		case errors.Is(err, registry.ErrPaperNotFound):
			writeError(w, http.StatusNotFound, "not_found", err)
		default:
			writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		}
		return
	}
	writeJSON(w, http.StatusOK, pairResponse{
		PaperID:   paperID,
		ReviewerA: pair.A,
		ReviewerB: pair.B,
		RatingA:   h.deps.ReviewerRating(r.Context(), pair.A),
		RatingB:   h.deps.ReviewerRating(r.Context(), pair.B),
	})
}
