// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Defaults come from New; file and env layers override them in Load.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"github.com/okian/arena/internal/domain/rating"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// KFactor is the maximum rating swing per comparison.
	KFactor float64 `koanf:"k_factor"`

	// InitialRating is assigned to a reviewer on first reference.
	InitialRating float64 `koanf:"initial_rating"`

	// WeightTechnical..WeightOverall are the category weights. They must
	// lie in (0,1) and sum to 1; the engine rejects anything else.
	WeightTechnical        float64 `koanf:"weight_technical"`
	WeightConstructiveness float64 `koanf:"weight_constructiveness"`
	WeightClarity          float64 `koanf:"weight_clarity"`
	WeightOverall          float64 `koanf:"weight_overall"`

	// PairStep is the fairness window widening step in rating points.
	PairStep float64 `koanf:"pair_step"`

	// PairMaxAttempts bounds the fair-pair search outer loop.
	PairMaxAttempts int `koanf:"pair_max_attempts"`

	// MaxLeaderboardLimit caps GET /leaderboard?limit.
	MaxLeaderboardLimit int `koanf:"max_leaderboard_limit"`

	// VotesPath locates the append-only JSONL vote log.
	VotesPath string `koanf:"votes_path"`

	// PapersPath locates the JSONL paper registry. Empty means an empty
	// registry (useful for tests and API-only deployments).
	PapersPath string `koanf:"papers_path"`

	// DedupeSize bounds the vote idempotency cache.
	DedupeSize int `koanf:"dedupe_size"`

	// SessionCap bounds the number of tracked sessions.
	SessionCap int `koanf:"session_cap"`

	// SyncOnAppend fsyncs the vote log on every append.
	SyncOnAppend bool `koanf:"sync_on_append"`
}

// Weights assembles the engine weights from the flat config fields.
func (c *Config) Weights() rating.Weights {
	return rating.Weights{
		TechnicalQuality: c.WeightTechnical,
		Constructiveness: c.WeightConstructiveness,
		Clarity:          c.WeightClarity,
		OverallQuality:   c.WeightOverall,
	}
}

// New creates a Config with defaults.
func New() *Config {
	w := rating.DefaultWeights()
	return &Config{
		LogLevel:               "info",
		Addr:                   ":9080",
		KFactor:                32.0,
		InitialRating:          1500.0,
		WeightTechnical:        w.TechnicalQuality,
		WeightConstructiveness: w.Constructiveness,
		WeightClarity:          w.Clarity,
		WeightOverall:          w.OverallQuality,
		PairStep:               10.0,
		PairMaxAttempts:        100,
		MaxLeaderboardLimit:    100,
		VotesPath:              "arena_votes.jsonl",
		PapersPath:             "",
		DedupeSize:             50_000,
		SessionCap:             10_000,
		SyncOnAppend:           true,
	}
}
