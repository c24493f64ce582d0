// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"sync"

	repository "github.com/okian/arena/internal/adapters/repository"
	"github.com/okian/arena/internal/domain/dedupe"
	"github.com/okian/arena/internal/domain/model"
	"github.com/okian/arena/internal/domain/rating"
	"github.com/okian/arena/internal/domain/registry"
	"github.com/okian/arena/internal/domain/session"
	"github.com/okian/arena/pkg/logger"
	"github.com/okian/arena/pkg/metrics"
)

// Service implements the API dependencies for the arena rating system.
type Service struct {
	mu sync.RWMutex

	// Core components
	engine   *rating.Engine
	voteLog  repository.Log
	papers   *registry.Registry
	sessions *session.Registry
	deduper  dedupe.Deduper

	// Configuration
	kFactor       float64
	initialRating float64
	weights       rating.Weights
	pairStep      float64
	maxAttempts   int
	votesPath     string
	papersPath    string
	dedupeSize    int
	sessionCap    int
	syncOnAppend  bool
	rng           *rand.Rand

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithKFactor sets the maximum rating swing per comparison.
func WithKFactor(k float64) Option {
	return func(s *Service) {
		if k > 0 {
			s.kFactor = k
		}
	}
}

// WithInitialRating sets the rating assigned on first reference.
func WithInitialRating(r float64) Option {
	return func(s *Service) {
		if r > 0 {
			s.initialRating = r
		}
	}
}

// WithWeights sets the category weights for the rating engine.
func WithWeights(w rating.Weights) Option {
	return func(s *Service) {
		s.weights = w
	}
}

// WithPairStep sets the fairness window widening step.
func WithPairStep(step float64) Option {
	return func(s *Service) {
		if step > 0 {
			s.pairStep = step
		}
	}
}

// WithPairMaxAttempts bounds the fair-pair search outer loop.
func WithPairMaxAttempts(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxAttempts = n
		}
	}
}

// WithVotesPath locates the JSONL vote log file.
func WithVotesPath(path string) Option {
	return func(s *Service) {
		if path != "" {
			s.votesPath = path
		}
	}
}

// WithPapersPath locates the JSONL paper registry file.
func WithPapersPath(path string) Option {
	return func(s *Service) {
		s.papersPath = path
	}
}

// WithVoteLog injects a vote log, bypassing votes_path. Used by tests.
func WithVoteLog(l repository.Log) Option {
	return func(s *Service) {
		if l != nil {
			s.voteLog = l
		}
	}
}

// WithRegistry injects a paper registry, bypassing papers_path.
func WithRegistry(r *registry.Registry) Option {
	return func(s *Service) {
		if r != nil {
			s.papers = r
		}
	}
}

// WithDedupeSize bounds the vote idempotency cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithSessionCap bounds the number of tracked sessions.
func WithSessionCap(cap int) Option {
	return func(s *Service) {
		if cap > 0 {
			s.sessionCap = cap
		}
	}
}

// WithSyncOnAppend controls vote log fsync behavior.
func WithSyncOnAppend(sync bool) Option {
	return func(s *Service) {
		s.syncOnAppend = sync
	}
}

// WithRand injects the entropy source used for matchmaking.
func WithRand(rng *rand.Rand) Option {
	return func(s *Service) {
		if rng != nil {
			s.rng = rng
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		kFactor:       32.0,
		initialRating: 1500.0,
		weights:       rating.DefaultWeights(),
		pairStep:      10.0,
		maxAttempts:   100,
		votesPath:     "arena_votes.jsonl",
		dedupeSize:    50_000,
		sessionCap:    10_000,
		syncOnAppend:  true,
		logger:        nil, // Will be replaced when service starts
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes the service: it opens the vote log, loads the paper
// registry, builds the rating engine, and replays the full vote history.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting arena service...")

	engineOpts := []rating.Option{
		rating.WithWeights(s.weights),
		rating.WithKFactor(s.kFactor),
		rating.WithInitialRating(s.initialRating),
		rating.WithPairStep(s.pairStep),
		rating.WithMaxAttempts(s.maxAttempts),
	}
	if s.rng != nil {
		engineOpts = append(engineOpts, rating.WithRand(s.rng))
	}
	engine, err := rating.New(engineOpts...)
	if err != nil {
		return fmt.Errorf("build rating engine: %w", err)
	}
	s.engine = engine

	if s.voteLog == nil {
		voteLog, err := repository.NewJSONLLog(s.votesPath, repository.WithSyncOnAppend(s.syncOnAppend))
		if err != nil {
			return fmt.Errorf("open vote log: %w", err)
		}
		s.voteLog = voteLog
	}

	if s.papers == nil {
		if s.papersPath != "" {
			papers, err := registry.FromJSONL(s.papersPath)
			if err != nil {
				return fmt.Errorf("load paper registry: %w", err)
			}
			s.papers = papers
		} else {
			s.papers = registry.New()
		}
	}

	s.sessions = session.NewRegistry(session.WithMaxSize(s.sessionCap))
	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))

	history, err := s.voteLog.All(ctx)
	if err != nil {
		return fmt.Errorf("read vote history: %w", err)
	}
	if err := s.engine.Replay(ctx, history); err != nil {
		return fmt.Errorf("replay vote history: %w", err)
	}

	s.started = true
	metrics.UpdateTotalReviewers(s.engine.Count())
	s.logger.Info(ctx, "arena service started",
		logger.Int("votesReplayed", len(history)),
		logger.Int("papers", s.papers.Count()),
		logger.Int("reviewers", s.engine.Count()),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping arena service...")

	if s.voteLog != nil {
		if err := s.voteLog.Close(); err != nil {
			s.logger.Error(ctx, "closing vote log", logger.Error(err))
		}
	}

	s.started = false
	s.logger.Info(ctx, "arena service stopped")
}

// SubmitVote validates the vote, records it durably, applies it to the
// ratings, and marks the pair as voted for the submitting session.
// Returns true when the vote ID was already seen (no state change).
//
// Write order matters: the durable append happens before the in-memory
// update, so a crash between the two loses nothing; the vote is
// recovered by replay on the next start.
func (s *Service) SubmitVote(ctx context.Context, voteID string, v model.Vote) (bool, error) {
	if err := v.Validate(); err != nil {
		metrics.RecordVoteRejected()
		metrics.RecordErrorByComponent("service", "invalid_vote")
		return false, err
	}

	if voteID == "" {
		// Deterministic fallback ID so blind client retries still dedupe.
		voteID = fmt.Sprintf("%s_%s_%s_%s_%s", v.SessionID, v.PaperID, v.ReviewerA, v.ReviewerB, v.VoteTime.Format("20060102T150405.000000000"))
	}
	if s.deduper.SeenAndRecord(ctx, voteID) {
		metrics.RecordVoteDuplicate()
		s.logger.Debug(ctx, "duplicate vote ignored", logger.String("voteID", voteID))
		return true, nil
	}

	if err := s.voteLog.Append(ctx, v); err != nil {
		// Roll back the seen mark so the client can retry.
		s.deduper.Unrecord(ctx, voteID)
		metrics.RecordErrorByComponent("service", "append_failed")
		return false, fmt.Errorf("record vote: %w", err)
	}

	if err := s.engine.Update(ctx, v); err != nil {
		// The vote is already durable; replay on restart will apply it.
		metrics.RecordErrorByComponent("service", "update_failed")
		return false, fmt.Errorf("update ratings: %w", err)
	}

	if v.SessionID != "" {
		if err := s.sessions.RecordVoted(ctx, v.SessionID, v.PaperID, v.ReviewerA, v.ReviewerB); err != nil {
			// An expired or unknown session does not invalidate the vote.
			s.logger.Debug(ctx, "vote recorded for untracked session",
				logger.String("sessionID", v.SessionID), logger.Error(err))
		}
	}

	metrics.RecordVoteRecorded()
	metrics.UpdateTotalReviewers(s.engine.Count())
	s.logger.Info(ctx, "vote recorded",
		logger.String("paperID", v.PaperID),
		logger.String("reviewerA", v.ReviewerA),
		logger.String("reviewerB", v.ReviewerB),
	)
	return false, nil
}

// NextPair returns a fair pair among the reviewers eligible for the given
// paper, excluding pairs the session has already voted on for it. Returns
// rating.ErrNoPairFound when the search exhausts its budget; the caller
// decides the fallback (typically another paper).
func (s *Service) NextPair(ctx context.Context, sessionID, paperID string) (rating.Pair, error) {
	paper, err := s.papers.ByID(paperID)
	if err != nil {
		return rating.Pair{}, err
	}

	// Anonymous and expired-session requests get no exclusions rather
	// than an error; the vote itself does not require a live session.
	var exclude rating.PairSet
	if sessionID != "" {
		pairs, err := s.sessions.VotedPairs(ctx, sessionID, paperID)
		if err == nil {
			exclude = pairs
		} else if !errors.Is(err, session.ErrSessionNotFound) {
			return rating.Pair{}, err
		}
	}

	pool := paper.ValidReviewerIDs()
	pair, err := s.engine.FindFairPair(ctx, pool, pool, exclude, 0)
	if err != nil {
		if errors.Is(err, rating.ErrNoPairFound) {
			s.logger.Debug(ctx, "no fair pair available",
				logger.String("paperID", paperID),
				logger.Int("poolSize", len(pool)),
			)
		}
		return rating.Pair{}, err
	}

	s.logger.Info(ctx, "selected fair pair",
		logger.String("paperID", paperID),
		logger.String("reviewerA", pair.A),
		logger.String("reviewerB", pair.B),
	)
	return pair, nil
}

// Leaderboard returns up to n ranked entries ordered by rating descending,
// reviewer ID ascending on ties. Tied ratings share a rank.
func (s *Service) Leaderboard(ctx context.Context, n int) ([]rating.Entry, error) {
	if n < 1 {
		return nil, ErrInvalidLimit
	}

	stats := s.engine.Stats()
	entries := make([]rating.Entry, 0, len(stats))
	for id, st := range stats {
		entries = append(entries, rating.Entry{
			ReviewerID: id,
			Rating:     st.Rating,
			CILower:    st.CILower,
			CIUpper:    st.CIUpper,
			Votes:      st.Votes,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Rating != entries[j].Rating {
			return entries[i].Rating > entries[j].Rating
		}
		return entries[i].ReviewerID < entries[j].ReviewerID
	})
	assignRanksWithTies(entries)

	if n < len(entries) {
		entries = entries[:n]
	}
	return entries, nil
}

// assignRanksWithTies assigns ranks so entries with equal ratings share a
// rank, with consecutive rank numbering.
func assignRanksWithTies(entries []rating.Entry) {
	currentRank := 0
	for i := range entries {
		if i == 0 || entries[i].Rating != entries[i-1].Rating {
			currentRank++
		}
		entries[i].Rank = currentRank
	}
}

// ReviewerRating returns the current rating for a reviewer, creating it at
// the initial rating on first reference.
func (s *Service) ReviewerRating(ctx context.Context, reviewerID string) float64 {
	return s.engine.Rating(reviewerID)
}

// StartSession opens a new arena session.
func (s *Service) StartSession(ctx context.Context, ipAddress, userAgent string) *session.Session {
	sess := s.sessions.Start(ctx, ipAddress, userAgent)
	s.logger.Info(ctx, "session started", logger.String("sessionID", sess.ID))
	return sess
}

// EndSession closes an arena session.
func (s *Service) EndSession(ctx context.Context, id string) error {
	if err := s.sessions.End(ctx, id); err != nil {
		return err
	}
	s.logger.Info(ctx, "session ended", logger.String("sessionID", id))
	return nil
}

// Papers exposes the paper registry for navigation handlers.
func (s *Service) Papers() *registry.Registry {
	return s.papers
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":    s.started,
		"kFactor":    s.kFactor,
		"pairStep":   s.pairStep,
		"dedupeSize": s.dedupeSize,
	}

	if s.started {
		stats["totalVotes"] = s.voteLog.Count(ctx)
		stats["totalReviewers"] = s.engine.Count()
		stats["totalPapers"] = s.papers.Count()
		stats["activeSessions"] = s.sessions.ActiveCount()

		metrics.UpdateTotalReviewers(s.engine.Count())
		metrics.UpdateVoteLogSize(s.voteLog.Count(ctx))
	}

	return stats
}
