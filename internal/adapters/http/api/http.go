// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/okian/arena/internal/domain/model"
	"github.com/okian/arena/internal/domain/rating"
	"github.com/okian/arena/internal/domain/registry"
	"github.com/okian/arena/internal/domain/session"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// SubmitVote records a vote. The bool result reports a duplicate.
	SubmitVote(ctx context.Context, voteID string, v model.Vote) (bool, error)

	// NextPair returns a fair matchup for the paper, excluding pairs
	// the session has already voted on.
	NextPair(ctx context.Context, sessionID, paperID string) (rating.Pair, error)

	// Read operations expose leaderboard data.
	Leaderboard(ctx context.Context, n int) ([]Entry, error)
	ReviewerRating(ctx context.Context, reviewerID string) float64

	// Session lifecycle.
	StartSession(ctx context.Context, ipAddress, userAgent string) *session.Session
	EndSession(ctx context.Context, id string) error

	// Papers exposes the paper registry for navigation.
	Papers() *registry.Registry
}

// Entry mirrors the read shape returned by leaderboard queries.
type Entry = rating.Entry

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	sessionsHandler    *SessionsHandler
	pairHandler        *PairHandler
	votesHandler       *VotesHandler
	leaderboardHandler *LeaderboardHandler
	ratingHandler      *RatingHandler
	papersHandler      *PapersHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxLeaderboardLimit int) *Server {
	return &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(statsProvider),
		sessionsHandler:    NewSessionsHandler(deps),
		pairHandler:        NewPairHandler(deps),
		votesHandler:       NewVotesHandler(deps),
		leaderboardHandler: NewLeaderboardHandler(deps, maxLeaderboardLimit),
		ratingHandler:      NewRatingHandler(deps),
		papersHandler:      NewPapersHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/sessions", MetricsMiddleware(s.sessionsHandler.HandlePostSession, "sessions"))
	mux.HandleFunc("/sessions/", MetricsMiddleware(s.sessionsHandler.HandleDeleteSession, "sessions"))
	mux.HandleFunc("/pair", MetricsMiddleware(s.pairHandler.HandleGetPair, "pair"))
	mux.HandleFunc("/votes", MetricsMiddleware(s.votesHandler.HandlePostVote, "votes"))
	mux.HandleFunc("/leaderboard", MetricsMiddleware(s.leaderboardHandler.HandleGetLeaderboard, "leaderboard"))
	mux.HandleFunc("/rating/", MetricsMiddleware(s.ratingHandler.HandleGetRating, "rating"))
	mux.HandleFunc("/papers/next", MetricsMiddleware(s.papersHandler.HandleGetNext, "papers"))
	mux.HandleFunc("/papers/", MetricsMiddleware(s.papersHandler.HandleGetPaper, "papers"))
}

// voteRequest mirrors the JSON schema for POST /votes.
type voteRequest struct {
	VoteID           string `json:"vote_id,omitempty"`
	SessionID        string `json:"session_id"`
	PaperID          string `json:"paper_id"`
	ReviewerA        string `json:"reviewer_a"`
	ReviewerB        string `json:"reviewer_b"`
	TechnicalQuality string `json:"technical_quality"`
	Constructiveness string `json:"constructiveness"`
	Clarity          string `json:"clarity"`
	OverallQuality   string `json:"overall_quality"`
	ReviewA          string `json:"review_a,omitempty"`
	ReviewB          string `json:"review_b,omitempty"`
	TS               string `json:"ts,omitempty"`
}

func (v voteRequest) validate() error {
	switch {
	case strings.TrimSpace(v.PaperID) == "":
		return errors.New("missing paper_id")
	case strings.TrimSpace(v.ReviewerA) == "":
		return errors.New("missing reviewer_a")
	case strings.TrimSpace(v.ReviewerB) == "":
		return errors.New("missing reviewer_b")
	case strings.TrimSpace(v.OverallQuality) == "":
		return errors.New("missing overall_quality")
	}
	if v.TS != "" {
		if _, err := time.Parse(time.RFC3339, v.TS); err != nil {
			return errors.New("invalid ts; must be RFC3339")
		}
	}
	return nil
}

// toVote converts the wire shape into the domain vote.
func (v voteRequest) toVote() model.Vote {
	ts := time.Now().UTC()
	if v.TS != "" {
		if parsed, err := time.Parse(time.RFC3339, v.TS); err == nil {
			ts = parsed
		}
	}
	return model.Vote{
		SessionID:        v.SessionID,
		PaperID:          v.PaperID,
		ReviewerA:        v.ReviewerA,
		ReviewerB:        v.ReviewerB,
		TechnicalQuality: model.Judgement(v.TechnicalQuality),
		Constructiveness: model.Judgement(v.Constructiveness),
		Clarity:          model.Judgement(v.Clarity),
		OverallQuality:   model.Judgement(v.OverallQuality),
		ReviewA:          v.ReviewA,
		ReviewB:          v.ReviewB,
		VoteTime:         ts,
	}
}

type ackResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

type pairResponse struct {
	PaperID   string  `json:"paper_id"`
	ReviewerA string  `json:"reviewer_a"`
	ReviewerB string  `json:"reviewer_b"`
	RatingA   float64 `json:"rating_a"`
	RatingB   float64 `json:"rating_b"`
}

type sessionResponse struct {
	SessionID string `json:"session_id"`
	StartTime string `json:"start_time"`
}

type ratingResponse struct {
	ReviewerID string  `json:"reviewer_id"`
	Rating     float64 `json:"rating"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
