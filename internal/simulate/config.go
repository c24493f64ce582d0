package simulate

import "time"

// Config holds configuration for the vote simulation.
type Config struct {
	BaseURL  string        // Base URL of the service
	NumVotes int           // Number of votes to generate
	Sessions int           // Number of concurrent voting sessions
	TopN     int           // Number of leaderboard entries to fetch
	Timeout  time.Duration // HTTP request timeout
	Verbose  bool          // Enable verbose logging
}

// VoteBody is the wire shape submitted to POST /votes.
type VoteBody struct {
	VoteID           string `json:"vote_id"`
	SessionID        string `json:"session_id"`
	PaperID          string `json:"paper_id"`
	ReviewerA        string `json:"reviewer_a"`
	ReviewerB        string `json:"reviewer_b"`
	TechnicalQuality string `json:"technical_quality"`
	Constructiveness string `json:"constructiveness"`
	Clarity          string `json:"clarity"`
	OverallQuality   string `json:"overall_quality"`
	TS               string `json:"ts"`
}

// PairBody is the wire shape returned by GET /pair.
type PairBody struct {
	PaperID   string  `json:"paper_id"`
	ReviewerA string  `json:"reviewer_a"`
	ReviewerB string  `json:"reviewer_b"`
	RatingA   float64 `json:"rating_a"`
	RatingB   float64 `json:"rating_b"`
}

// PaperBody is the wire shape returned by paper navigation.
type PaperBody struct {
	Position  int      `json:"position"`
	Total     int      `json:"total"`
	PaperID   string   `json:"paper_id"`
	Reviewers []string `json:"reviewers"`
}

// SessionBody is the wire shape returned by POST /sessions.
type SessionBody struct {
	SessionID string `json:"session_id"`
}

// Entry is the wire shape of one leaderboard row.
type Entry struct {
	Rank       int     `json:"rank"`
	ReviewerID string  `json:"reviewer_id"`
	Rating     float64 `json:"rating"`
	CILower    float64 `json:"ci_lower"`
	CIUpper    float64 `json:"ci_upper"`
	Votes      float64 `json:"votes"`
}

// AckResponse is the wire shape returned by vote submission.
type AckResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

// Stats holds simulation statistics.
type Stats struct {
	VotesSubmitted     int
	VotesSuccessful    int
	VotesDuplicate     int
	VotesFailed        int
	PairsExhausted     int
	LeaderboardEntries int
	StartTime          time.Time
	EndTime            time.Time
	Duration           time.Duration
}
