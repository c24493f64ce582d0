// Package session tracks per-visitor arena sessions: identity, lifetime,
// and which reviewer pairs have already been voted on for each paper.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/okian/arena/internal/domain/rating"
	"github.com/okian/arena/pkg/metrics"
)

// Session is the transient per-visitor state. Voted pairs feed the
// exclusion set of fair-pair search so one visitor is not offered a
// matchup they already judged for the same paper.
type Session struct {
	ID        string     `json:"session_id"`
	StartTime time.Time  `json:"start_time"`
	EndTime   *time.Time `json:"end_time,omitempty"`
	IPAddress string     `json:"ip_address,omitempty"`
	UserAgent string     `json:"user_agent,omitempty"`

	// voted maps paper ID to the unordered pairs already voted on.
	voted map[string]rating.PairSet
}

// Ended reports whether the session has been closed.
func (s *Session) Ended() bool {
	return s.EndTime != nil
}

// Registry is an in-memory session store bounded by a configurable cap.
// Ended sessions are evicted first when the cap is reached.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
	maxSize  int
	now      func() time.Time
}

// NewRegistry creates a session registry with configuration options.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		sessions: make(map[string]*Session),
		maxSize:  10000, // default cap
		now:      time.Now,
	}

	// Apply all options
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Start creates a new session and returns it.
func (r *Registry) Start(ctx context.Context, ipAddress, userAgent string) *Session {
	s := &Session{
		ID:        uuid.NewString(),
		StartTime: r.now(),
		IPAddress: ipAddress,
		UserAgent: userAgent,
		voted:     make(map[string]rating.PairSet),
	}

	r.mu.Lock()
	if len(r.sessions) >= r.maxSize {
		r.evictLocked()
	}
	r.sessions[s.ID] = s
	active := r.activeCountLocked()
	r.mu.Unlock()

	metrics.UpdateActiveSessions(active)
	return s
}

// Get returns the session with the given ID.
func (r *Registry) Get(ctx context.Context, id string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// End closes the session, stamping its end time.
func (r *Registry) End(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}
	if s.EndTime == nil {
		t := r.now()
		s.EndTime = &t
	}
	metrics.UpdateActiveSessions(r.activeCountLocked())
	return nil
}

// RecordVoted marks the pair as compared-and-voted by this session for the paper.
func (r *Registry) RecordVoted(ctx context.Context, id, paperID, reviewerA, reviewerB string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}
	if s.Ended() {
		return ErrSessionEnded
	}

	set, ok := s.voted[paperID]
	if !ok {
		set = make(rating.PairSet)
		s.voted[paperID] = set
	}
	set.Add(reviewerA, reviewerB)
	return nil
}

// VotedPairs returns a copy of the pairs this session has already voted on
// usable as a fair-pair exclusion set.
func (r *Registry) VotedPairs(ctx context.Context, id, paperID string) (rating.PairSet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}

	out := make(rating.PairSet, len(s.voted[paperID]))
	for p := range s.voted[paperID] {
		out[p] = struct{}{}
	}
	return out, nil
}

// ActiveCount returns the number of sessions not yet ended.
func (r *Registry) ActiveCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.activeCountLocked()
}

// activeCountLocked counts open sessions. Caller must hold r.mu.
func (r *Registry) activeCountLocked() int {
	n := 0
	for _, s := range r.sessions {
		if !s.Ended() {
			n++
		}
	}
	return n
}

// evictLocked removes one session to make room, preferring the oldest
// ended session and falling back to the oldest active one. Caller must
// hold r.mu.
func (r *Registry) evictLocked() {
	var victim *Session
	for _, s := range r.sessions {
		if victim == nil {
			victim = s
			continue
		}
		if s.Ended() != victim.Ended() {
			if s.Ended() {
				victim = s
			}
			continue
		}
		if s.StartTime.Before(victim.StartTime) {
			victim = s
		}
	}
	if victim != nil {
		delete(r.sessions, victim.ID)
	}
}
