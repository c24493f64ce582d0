package simulate

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/arena/pkg/logger"
)

// HTTP status code constants.
const (
	statusOK       = 200
	statusCreated  = 201
	statusNotFound = 404
)

// Run executes the complete vote simulation: it opens sessions, drives the
// pair and vote endpoints until the vote budget is spent, then fetches the
// leaderboard and verifies its ordering.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{
		StartTime: time.Now(),
	}

	logger.Get().Info(ctx, "starting arena vote simulation",
		logger.String("baseURL", config.BaseURL),
		logger.Int("votes", config.NumVotes),
		logger.Int("sessions", config.Sessions),
		logger.Int("topN", config.TopN),
		logger.String("timeout", config.Timeout.String()))

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, config); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Drive votes through concurrent sessions
	if err := runSessions(ctx, config, stats); err != nil {
		return fmt.Errorf("vote submission failed: %w", err)
	}

	// Step 3: Get leaderboard
	leaderboard, err := getLeaderboard(ctx, config, stats)
	if err != nil {
		return fmt.Errorf("leaderboard retrieval failed: %w", err)
	}

	// Step 4: Verify results
	if err := verifyLeaderboard(ctx, leaderboard); err != nil {
		return fmt.Errorf("result verification failed: %w", err)
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(stats)

	logger.Get().Info(ctx, "simulation completed successfully")
	return nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, config *Config) error {
	logger.Get().Info(ctx, "checking service health")

	client := newHTTPClient(config.Timeout)
	resp, err := client.Get(ctx, config.BaseURL+"/healthz")
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer resp.Body.Close()

	// Any 200 counts as healthy (the endpoint serves Prometheus metrics)
	if resp.StatusCode != statusOK {
		return fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}

	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// runSessions spreads the vote budget over concurrent voting sessions.
func runSessions(ctx context.Context, config *Config, stats *Stats) error {
	var (
		submitted  int64
		successful int64
		duplicate  int64
		failed     int64
		exhausted  int64
	)

	votesPerSession := config.NumVotes / config.Sessions
	if votesPerSession == 0 {
		votesPerSession = 1
	}

	var wg sync.WaitGroup
	for i := 0; i < config.Sessions; i++ {
		wg.Add(1)
		go func(sessionIdx int) {
			defer wg.Done()

			client := newHTTPClient(config.Timeout)
			table := newSkillTable(int64(sessionIdx) + time.Now().UnixNano())

			var sess SessionBody
			if _, err := client.postJSON(ctx, config.BaseURL+"/sessions", struct{}{}, &sess); err != nil {
				logger.Get().Warn(ctx, "failed to open session", logger.Error(err))
				return
			}

			for v := 0; v < votesPerSession; v++ {
				select {
				case <-ctx.Done():
					return
				default:
				}

				// Pick a random paper, then ask for a fair matchup on it.
				var paper PaperBody
				if _, err := client.getJSON(ctx, config.BaseURL+"/papers/next", &paper); err != nil {
					atomic.AddInt64(&failed, 1)
					continue
				}

				var pair PairBody
				pairURL := config.BaseURL + "/pair?paper_id=" + paper.PaperID + "&session_id=" + sess.SessionID
				status, err := client.getJSON(ctx, pairURL, &pair)
				if err != nil {
					if status == statusNotFound {
						// Exhausted matchups on this paper; move on.
						atomic.AddInt64(&exhausted, 1)
						continue
					}
					atomic.AddInt64(&failed, 1)
					continue
				}

				vote := table.buildVote(sessionIdx*votesPerSession+v, sess.SessionID, pair)
				var ack AckResponse
				status, err = client.postJSON(ctx, config.BaseURL+"/votes", vote, &ack)
				atomic.AddInt64(&submitted, 1)
				switch {
				case err != nil:
					atomic.AddInt64(&failed, 1)
				case ack.Duplicate:
					atomic.AddInt64(&duplicate, 1)
				case status == statusCreated:
					atomic.AddInt64(&successful, 1)
				default:
					atomic.AddInt64(&successful, 1)
				}

				if config.Verbose {
					logger.Get().Debug(ctx, "vote submitted",
						logger.String("paperID", pair.PaperID),
						logger.String("reviewerA", pair.ReviewerA),
						logger.String("reviewerB", pair.ReviewerB))
				}
			}

			// Close the session so the server can evict it early.
			req, err := newDeleteRequest(ctx, config.BaseURL+"/sessions/"+sess.SessionID)
			if err == nil {
				if resp, err := client.client.Do(req); err == nil {
					resp.Body.Close()
				}
			}
		}(i)
	}
	wg.Wait()

	stats.VotesSubmitted = int(atomic.LoadInt64(&submitted))
	stats.VotesSuccessful = int(atomic.LoadInt64(&successful))
	stats.VotesDuplicate = int(atomic.LoadInt64(&duplicate))
	stats.VotesFailed = int(atomic.LoadInt64(&failed))
	stats.PairsExhausted = int(atomic.LoadInt64(&exhausted))

	logger.Get().Info(ctx, "vote submission completed",
		logger.Int("successful", stats.VotesSuccessful),
		logger.Int("duplicate", stats.VotesDuplicate),
		logger.Int("failed", stats.VotesFailed),
		logger.Int("pairsExhausted", stats.PairsExhausted))
	return nil
}

// getLeaderboard fetches the top N entries.
func getLeaderboard(ctx context.Context, config *Config, stats *Stats) ([]Entry, error) {
	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/leaderboard?limit=" + strconv.Itoa(config.TopN)

	var entries []Entry
	if _, err := client.getJSON(ctx, url, &entries); err != nil {
		return nil, err
	}

	stats.LeaderboardEntries = len(entries)
	logger.Get().Info(ctx, "leaderboard retrieved", logger.Int("entries", len(entries)))
	return entries, nil
}

// displayFinalStats prints the final simulation statistics.
func displayFinalStats(stats *Stats) {
	var successRate, votesPerSecond float64

	if stats.VotesSubmitted > 0 {
		successRate = float64(stats.VotesSuccessful) / float64(stats.VotesSubmitted) * 100
	}
	if stats.Duration > 0 {
		votesPerSecond = float64(stats.VotesSubmitted) / stats.Duration.Seconds()
	}

	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("votesSubmitted", stats.VotesSubmitted),
		logger.Int("votesSuccessful", stats.VotesSuccessful),
		logger.Int("votesDuplicate", stats.VotesDuplicate),
		logger.Int("votesFailed", stats.VotesFailed),
		logger.Int("pairsExhausted", stats.PairsExhausted),
		logger.Int("leaderboardEntries", stats.LeaderboardEntries),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("successRate", successRate),
		logger.Float64("votesPerSecond", votesPerSecond))
}
