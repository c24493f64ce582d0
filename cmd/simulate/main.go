package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/okian/arena/internal/simulate"
	"github.com/okian/arena/pkg/logger"
)

// Default configuration constants.
const (
	defaultNumVotes    = 1000
	defaultSessions    = 4
	defaultTopN        = 50
	defaultTimeout     = 30 * time.Second
	defaultRunDeadline = 10 * time.Minute
)

func main() {
	var (
		baseURL  = flag.String("url", "http://localhost:9080", "Base URL of the service")
		numVotes = flag.Int("votes", defaultNumVotes, "Number of votes to generate and submit")
		sessions = flag.Int("sessions", defaultSessions, "Number of concurrent voting sessions")
		topN     = flag.Int("top", defaultTopN, "Number of top entries to fetch from leaderboard")
		timeout  = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		verbose  = flag.Bool("verbose", false, "Enable verbose logging")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	if *verbose {
		_ = logger.SetLevelString("debug")
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunDeadline)
	defer cancel()

	config := &simulate.Config{
		BaseURL:  *baseURL,
		NumVotes: *numVotes,
		Sessions: *sessions,
		TopN:     *topN,
		Timeout:  *timeout,
		Verbose:  *verbose,
	}

	if err := simulate.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Simulation failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
