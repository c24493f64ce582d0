package repository

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/okian/arena/internal/domain/model"
	"github.com/okian/arena/pkg/metrics"
)

// JSONLLog implements Log on an append-only JSON-lines file, one vote per
// line. File order is the chronological order used for replay.
type JSONLLog struct {
	mu    sync.Mutex
	path  string
	file  *os.File
	sync  bool
	count int
}

// NewJSONLLog opens (or creates) the log file at path and counts the
// existing history.
func NewJSONLLog(path string, opts ...JSONLOption) (*JSONLLog, error) {
	l := &JSONLLog{
		path: path,
		sync: true, // durable by default; the engine trusts the log
	}

	// Apply all options
	for _, opt := range opts {
		opt(l)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open vote log %s: %w", path, err)
	}
	l.file = f

	votes, err := l.readAll()
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	l.count = len(votes)
	metrics.UpdateVoteLogSize(l.count)

	return l, nil
}

// Append implements Log.Append.
func (l *JSONLLog) Append(ctx context.Context, v model.Vote) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode vote: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return ErrClosed
	}
	if _, err := l.file.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("append vote: %w", err)
	}
	if l.sync {
		if err := l.file.Sync(); err != nil {
			return fmt.Errorf("sync vote log: %w", err)
		}
	}

	l.count++
	metrics.UpdateVoteLogSize(l.count)
	return nil
}

// All implements Log.All.
func (l *JSONLLog) All(ctx context.Context) ([]model.Vote, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.readAll()
}

// readAll reads the file front to back. Caller must hold l.mu (or be the
// constructor before the log is shared).
func (l *JSONLLog) readAll() ([]model.Vote, error) {
	f, err := os.Open(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read vote log %s: %w", l.path, err)
	}
	defer f.Close()

	var votes []model.Vote
	scanner := bufio.NewScanner(f)
	// Review texts ride along on each line; allow long lines.
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		if len(scanner.Bytes()) == 0 {
			continue
		}
		var v model.Vote
		if err := json.Unmarshal(scanner.Bytes(), &v); err != nil {
			return nil, fmt.Errorf("%w: %s line %d: %v", ErrCorrupted, l.path, line, err)
		}
		votes = append(votes, v)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan vote log %s: %w", l.path, err)
	}
	return votes, nil
}

// Count implements Log.Count.
func (l *JSONLLog) Count(ctx context.Context) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.count
}

// Close implements Log.Close.
func (l *JSONLLog) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	if err != nil {
		return fmt.Errorf("close vote log: %w", err)
	}
	return nil
}
