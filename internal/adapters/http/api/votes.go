// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/arena/internal/domain/model"
)

// VoteDependencies defines the interface for vote submission.
type VoteDependencies interface {
	SubmitVote(ctx context.Context, voteID string, v model.Vote) (bool, error)
}

// VotesHandler handles vote requests.
type VotesHandler struct {
	deps VoteDependencies
}

// NewVotesHandler creates a new votes handler.
func NewVotesHandler(deps VoteDependencies) *VotesHandler {
	return &VotesHandler{deps: deps}
}

// HandlePostVote handles POST /votes requests.
func (h *VotesHandler) HandlePostVote(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_vote"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req voteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	duplicate, err := h.deps.SubmitVote(r.Context(), req.VoteID, req.toVote())
	if err != nil {
		if errors.Is(err, model.ErrMissingField) ||
			errors.Is(err, model.ErrSelfComparison) ||
			errors.Is(err, model.ErrInvalidJudgement) {
			writeError(w, http.StatusBadRequest, "bad_request", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	if duplicate {
		writeJSON(w, http.StatusOK, ackResponse{Status: "duplicate", Duplicate: true})
		return
	}
	writeJSON(w, http.StatusCreated, ackResponse{Status: "recorded", Duplicate: false})
}
