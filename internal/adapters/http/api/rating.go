// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strings"
)

// RatingDependencies defines the interface for rating lookups.
type RatingDependencies interface {
	ReviewerRating(ctx context.Context, reviewerID string) float64
}

// RatingHandler handles rating lookup requests.
type RatingHandler struct {
	deps RatingDependencies
}

// NewRatingHandler creates a new rating handler.
func NewRatingHandler(deps RatingDependencies) *RatingHandler {
	return &RatingHandler{deps: deps}
}

// HandleGetRating handles GET /rating/{reviewer_id} requests.
// An unknown reviewer answers with the initial rating; first reference
// creates the entry.
func (h *RatingHandler) HandleGetRating(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	// Extract path parameter after /rating/
	id := strings.TrimPrefix(r.URL.Path, "/rating/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, ratingResponse{
		ReviewerID: id,
		Rating:     h.deps.ReviewerRating(r.Context(), id),
	})
}
