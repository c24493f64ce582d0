// Package model contains domain models passed between layers.
package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Judgement is a single categorical comparison outcome.
type Judgement string

// The four allowed judgement values. Any other value is a contract
// violation and must be rejected before it reaches the rating engine.
const (
	AIsBetter Judgement = "a_is_better"
	BIsBetter Judgement = "b_is_better"
	Tie       Judgement = "tie"
	BothBad   Judgement = "both_bad"
)

// Valid reports whether j is one of the four allowed judgements.
func (j Judgement) Valid() bool {
	switch j {
	case AIsBetter, BIsBetter, Tie, BothBad:
		return true
	}
	return false
}

// Score maps the judgement to a raw score from the A-side's perspective.
// "Both bad" is deliberately collapsed onto a tie.
func (j Judgement) Score() float64 {
	switch j {
	case AIsBetter:
		return 1.0
	case BIsBetter:
		return 0.0
	default:
		return 0.5
	}
}

// Sentinel kinds for vote validation errors.
var (
	ErrMissingField     = errors.New("missing required vote field")
	ErrSelfComparison   = errors.New("vote compares a reviewer against itself")
	ErrInvalidJudgement = errors.New("judgement outside the allowed enumeration")
)

// Vote is an immutable record of one pairwise comparison across the four
// rating categories. Field order mirrors the durable log schema.
type Vote struct {
	SessionID        string    `json:"session_id"`
	PaperID          string    `json:"paper_id"`
	ReviewerA        string    `json:"reviewer_a"`
	ReviewerB        string    `json:"reviewer_b"`
	TechnicalQuality Judgement `json:"technical_quality"`
	Constructiveness Judgement `json:"constructiveness"`
	Clarity          Judgement `json:"clarity"`
	OverallQuality   Judgement `json:"overall_quality"`
	ReviewA          string    `json:"review_a"`
	ReviewB          string    `json:"review_b"`
	VoteTime         time.Time `json:"vote_time"`
}

// Judgements returns the four category judgements in weight order.
func (v Vote) Judgements() [4]Judgement {
	return [4]Judgement{v.TechnicalQuality, v.Constructiveness, v.Clarity, v.OverallQuality}
}

// Validate checks the structural preconditions the rating engine relies on.
func (v Vote) Validate() error {
	switch {
	case strings.TrimSpace(v.ReviewerA) == "":
		return fmt.Errorf("%w: reviewer_a", ErrMissingField)
	case strings.TrimSpace(v.ReviewerB) == "":
		return fmt.Errorf("%w: reviewer_b", ErrMissingField)
	}
	if v.ReviewerA == v.ReviewerB {
		return fmt.Errorf("%w: %s", ErrSelfComparison, v.ReviewerA)
	}
	for _, j := range v.Judgements() {
		if !j.Valid() {
			return fmt.Errorf("%w: %q", ErrInvalidJudgement, string(j))
		}
	}
	return nil
}
