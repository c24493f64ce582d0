package simulate

import (
	"math"
	"math/rand"
	"strconv"
	"time"
)

// Judgement wire values accepted by the vote endpoint.
const (
	judgementA       = "a_is_better"
	judgementB       = "b_is_better"
	judgementTie     = "tie"
	judgementBothBad = "both_bad"
)

// Probability knobs for synthetic judgements.
const (
	tieProbability     = 0.10
	bothBadProbability = 0.05
	skillScale         = 0.15
)

// skillTable assigns a hidden per-reviewer quality used to bias judgements.
// Reviewers with higher hidden skill win more comparisons, so a long enough
// run should rank them above low-skill reviewers.
type skillTable struct {
	rng    *rand.Rand
	skills map[string]float64
}

func newSkillTable(seed int64) *skillTable {
	return &skillTable{
		rng:    rand.New(rand.NewSource(seed)),
		skills: make(map[string]float64),
	}
}

// skill returns the hidden skill for a reviewer, sampling it on first use.
func (t *skillTable) skill(reviewerID string) float64 {
	if s, ok := t.skills[reviewerID]; ok {
		return s
	}
	s := t.rng.Float64()
	t.skills[reviewerID] = s
	return s
}

// judge produces one category judgement for the matchup, biased by the
// hidden skill difference.
func (t *skillTable) judge(reviewerA, reviewerB string) string {
	r := t.rng.Float64()
	switch {
	case r < bothBadProbability:
		return judgementBothBad
	case r < bothBadProbability+tieProbability:
		return judgementTie
	}

	diff := t.skill(reviewerA) - t.skill(reviewerB)
	// Logistic squash keeps the win probability in (0,1).
	pA := 1.0 / (1.0 + math.Pow(10, -diff/skillScale))
	if t.rng.Float64() < pA {
		return judgementA
	}
	return judgementB
}

// buildVote assembles a full vote body for the matchup.
func (t *skillTable) buildVote(index int, sessionID string, pair PairBody) VoteBody {
	return VoteBody{
		VoteID:           "sim_" + strconv.Itoa(index) + "_" + strconv.FormatInt(time.Now().UnixNano(), 10),
		SessionID:        sessionID,
		PaperID:          pair.PaperID,
		ReviewerA:        pair.ReviewerA,
		ReviewerB:        pair.ReviewerB,
		TechnicalQuality: t.judge(pair.ReviewerA, pair.ReviewerB),
		Constructiveness: t.judge(pair.ReviewerA, pair.ReviewerB),
		Clarity:          t.judge(pair.ReviewerA, pair.ReviewerB),
		OverallQuality:   t.judge(pair.ReviewerA, pair.ReviewerB),
		TS:               time.Now().UTC().Format(time.RFC3339),
	}
}
