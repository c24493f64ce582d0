package repository

import (
	"context"
	"sync"

	"github.com/okian/arena/internal/domain/model"
)

// MemoryLog implements Log in memory, for tests and ephemeral deployments.
type MemoryLog struct {
	mu     sync.RWMutex
	votes  []model.Vote
	closed bool
}

// NewMemoryLog creates an empty in-memory vote log.
func NewMemoryLog() *MemoryLog {
	return &MemoryLog{}
}

// Append implements Log.Append.
func (l *MemoryLog) Append(ctx context.Context, v model.Vote) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return ErrClosed
	}
	l.votes = append(l.votes, v)
	return nil
}

// All implements Log.All.
func (l *MemoryLog) All(ctx context.Context) ([]model.Vote, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]model.Vote, len(l.votes))
	copy(out, l.votes)
	return out, nil
}

// Count implements Log.Count.
func (l *MemoryLog) Count(ctx context.Context) int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.votes)
}

// Close implements Log.Close.
func (l *MemoryLog) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
	return nil
}
