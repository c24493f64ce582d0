// Package repository defines the durable vote log interface and its
// implementations. The log is the system of record: engine state is always
// rebuilt from it by replay and never persisted on its own.
package repository

import (
	"context"

	"github.com/okian/arena/internal/domain/model"
)

// Log provides append-only write access and ordered read access to the
// vote history.
type Log interface {
	// Append durably records one vote at the end of the log.
	Append(ctx context.Context, v model.Vote) error

	// All returns the full history in chronological (append) order.
	All(ctx context.Context) ([]model.Vote, error)

	// Count returns the number of votes in the log.
	Count(ctx context.Context) int

	// Close releases underlying resources.
	Close() error
}
