// Package registry holds the papers under comparison and the reviewer
// systems eligible for each of them.
package registry

import (
	"bufio"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"sort"
	"strings"
	"sync"
)

// Paper is one item under comparison, with the candidate review texts
// produced by each reviewer system.
type Paper struct {
	PaperID string              `json:"paper_id"`
	Title   string              `json:"title"`
	PDFPath string              `json:"pdf_path"`
	Reviews map[string][]string `json:"reviews"`
}

// ValidReviewerIDs returns the reviewers that produced at least one
// non-blank review for this paper, sorted for deterministic pool order.
// This is the candidate pool handed to fair-pair search.
func (p Paper) ValidReviewerIDs() []string {
	ids := make([]string, 0, len(p.Reviews))
	for id, reviews := range p.Reviews {
		for _, r := range reviews {
			if strings.TrimSpace(r) != "" {
				ids = append(ids, id)
				break
			}
		}
	}
	sort.Strings(ids)
	return ids
}

// Review returns the first non-blank review text by the given reviewer,
// or the empty string.
func (p Paper) Review(reviewerID string) string {
	for _, r := range p.Reviews[reviewerID] {
		if strings.TrimSpace(r) != "" {
			return r
		}
	}
	return ""
}

// Registry is an ordered collection of papers with position-based
// navigation, so a session can walk the corpus in a stable cycle.
type Registry struct {
	mu     sync.RWMutex
	papers []Paper
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{}
}

// FromJSONL loads a registry from a JSON-lines file, one paper per line.
func FromJSONL(path string) (*Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open paper registry %s: %w", path, err)
	}
	defer f.Close()

	r := New()
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		if len(scanner.Bytes()) == 0 {
			continue
		}
		var p Paper
		if err := json.Unmarshal(scanner.Bytes(), &p); err != nil {
			return nil, fmt.Errorf("%w: %s line %d: %v", ErrCorrupted, path, line, err)
		}
		r.papers = append(r.papers, p)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan paper registry %s: %w", path, err)
	}
	return r, nil
}

// Add appends a paper to the registry.
func (r *Registry) Add(p Paper) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.papers = append(r.papers, p)
}

// Count returns the number of papers.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.papers)
}

// At returns the paper at position pos.
func (r *Registry) At(pos int) (Paper, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.papers) == 0 {
		return Paper{}, ErrEmptyRegistry
	}
	if pos < 0 || pos >= len(r.papers) {
		return Paper{}, fmt.Errorf("%w: %d", ErrOutOfBounds, pos)
	}
	return r.papers[pos], nil
}

// ByID returns the paper with the given ID.
func (r *Registry) ByID(paperID string) (Paper, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.papers {
		if p.PaperID == paperID {
			return p, nil
		}
	}
	return Paper{}, fmt.Errorf("%w: %s", ErrPaperNotFound, paperID)
}

// SamplePosition returns a uniformly random paper position.
func (r *Registry) SamplePosition(rng *rand.Rand) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.papers) == 0 {
		return 0, ErrEmptyRegistry
	}
	return rng.Intn(len(r.papers)), nil
}

// NextPosition returns the position after cur, wrapping to the start.
func (r *Registry) NextPosition(cur int) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.papers) == 0 {
		return 0, ErrEmptyRegistry
	}
	if cur+1 < len(r.papers) {
		return cur + 1, nil
	}
	return 0, nil
}

// PreviousPosition returns the position before cur, wrapping to the end.
func (r *Registry) PreviousPosition(cur int) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.papers) == 0 {
		return 0, ErrEmptyRegistry
	}
	if cur > 0 {
		return cur - 1, nil
	}
	return len(r.papers) - 1, nil
}
