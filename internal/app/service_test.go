package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	repository "github.com/okian/arena/internal/adapters/repository"
	service "github.com/okian/arena/internal/app"
	"github.com/okian/arena/internal/domain/model"
	"github.com/okian/arena/internal/domain/rating"
	"github.com/okian/arena/internal/domain/registry"
	"github.com/okian/arena/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func arenaPaper(id string, reviewers ...string) registry.Paper {
	reviews := make(map[string][]string, len(reviewers))
	for _, r := range reviewers {
		reviews[r] = []string{"review text by " + r}
	}
	return registry.Paper{PaperID: id, Title: "Paper " + id, Reviews: reviews}
}

func startedService(papers *registry.Registry, opts ...service.Option) *service.Service {
	base := []service.Option{
		service.WithVoteLog(repository.NewMemoryLog()),
		service.WithRegistry(papers),
	}
	svc := service.New(append(base, opts...)...)
	if err := svc.Start(context.Background()); err != nil {
		panic(err)
	}
	return svc
}

func arenaVote(sessionID, paperID, a, b string, j model.Judgement) model.Vote {
	return model.Vote{
		SessionID:        sessionID,
		PaperID:          paperID,
		ReviewerA:        a,
		ReviewerB:        b,
		TechnicalQuality: j,
		Constructiveness: j,
		Clarity:          j,
		OverallQuality:   j,
		VoteTime:         time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestServiceLifecycle(t *testing.T) {
	ctx := context.Background()

	Convey("Given a service over an in-memory log", t, func() {
		papers := registry.New()
		papers.Add(arenaPaper("paper-1", "rev-a", "rev-b", "rev-c"))

		Convey("When the log already holds history", func() {
			log := repository.NewMemoryLog()
			So(log.Append(ctx, arenaVote("s", "paper-1", "rev-a", "rev-b", model.AIsBetter)), ShouldBeNil)

			svc := service.New(
				service.WithVoteLog(log),
				service.WithRegistry(papers),
			)
			So(svc.Start(ctx), ShouldBeNil)
			defer svc.Stop()

			Convey("Then the history is replayed into the ratings", func() {
				So(svc.ReviewerRating(ctx, "rev-a"), ShouldAlmostEqual, 1516.0, 1e-9)
				So(svc.ReviewerRating(ctx, "rev-b"), ShouldAlmostEqual, 1484.0, 1e-9)
			})
		})

		Convey("When Start is called twice", func() {
			svc := startedService(papers)
			defer svc.Stop()

			Convey("Then the second call is a no-op", func() {
				So(svc.Start(ctx), ShouldBeNil)
			})
		})

		Convey("When the configured weights are invalid", func() {
			svc := service.New(
				service.WithVoteLog(repository.NewMemoryLog()),
				service.WithRegistry(papers),
				service.WithWeights(rating.Weights{
					TechnicalQuality: 0.9,
					Constructiveness: 0.9,
					Clarity:          0.9,
					OverallQuality:   0.9,
				}),
			)
			err := svc.Start(ctx)

			Convey("Then startup fails fast", func() {
				So(err, ShouldNotBeNil)
				So(errors.Is(err, rating.ErrInvalidWeights), ShouldBeTrue)
			})
		})
	})
}

func TestSubmitVote(t *testing.T) {
	ctx := context.Background()

	Convey("Given a started service", t, func() {
		papers := registry.New()
		papers.Add(arenaPaper("paper-1", "rev-a", "rev-b"))
		log := repository.NewMemoryLog()
		svc := service.New(
			service.WithVoteLog(log),
			service.WithRegistry(papers),
		)
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		Convey("When a valid vote is submitted", func() {
			dup, err := svc.SubmitVote(ctx, "vote-1", arenaVote("s", "paper-1", "rev-a", "rev-b", model.AIsBetter))
			So(err, ShouldBeNil)

			Convey("Then it is durable and applied", func() {
				So(dup, ShouldBeFalse)
				So(log.Count(ctx), ShouldEqual, 1)
				So(svc.ReviewerRating(ctx, "rev-a"), ShouldAlmostEqual, 1516.0, 1e-9)
			})

			Convey("And a retry with the same vote ID is absorbed", func() {
				dup, err := svc.SubmitVote(ctx, "vote-1", arenaVote("s", "paper-1", "rev-a", "rev-b", model.AIsBetter))
				So(err, ShouldBeNil)
				So(dup, ShouldBeTrue)
				So(log.Count(ctx), ShouldEqual, 1)
				So(svc.ReviewerRating(ctx, "rev-a"), ShouldAlmostEqual, 1516.0, 1e-9)
			})
		})

		Convey("When the client omits the vote ID", func() {
			v := arenaVote("s", "paper-1", "rev-a", "rev-b", model.Tie)
			dup, err := svc.SubmitVote(ctx, "", v)
			So(err, ShouldBeNil)
			So(dup, ShouldBeFalse)

			Convey("Then an identical resubmission still dedupes", func() {
				dup, err := svc.SubmitVote(ctx, "", v)
				So(err, ShouldBeNil)
				So(dup, ShouldBeTrue)
				So(log.Count(ctx), ShouldEqual, 1)
			})
		})

		Convey("When the vote is malformed", func() {
			_, err := svc.SubmitVote(ctx, "vote-x", arenaVote("s", "paper-1", "rev-a", "rev-a", model.Tie))

			Convey("Then it is rejected before touching the log", func() {
				So(errors.Is(err, model.ErrSelfComparison), ShouldBeTrue)
				So(log.Count(ctx), ShouldEqual, 0)
			})
		})

		Convey("When the durable append fails", func() {
			So(log.Close(), ShouldBeNil)
			_, err := svc.SubmitVote(ctx, "vote-2", arenaVote("s", "paper-1", "rev-a", "rev-b", model.AIsBetter))

			Convey("Then the error surfaces and the ID stays retryable", func() {
				So(errors.Is(err, repository.ErrClosed), ShouldBeTrue)
				So(svc.ReviewerRating(ctx, "rev-a"), ShouldAlmostEqual, 1500.0, 1e-9)
			})
		})
	})
}

func TestNextPair(t *testing.T) {
	ctx := context.Background()

	Convey("Given a service with a three-reviewer paper", t, func() {
		papers := registry.New()
		papers.Add(arenaPaper("paper-1", "rev-a", "rev-b", "rev-c"))
		svc := startedService(papers)
		defer svc.Stop()

		sess := svc.StartSession(ctx, "", "")

		Convey("When a pair is requested", func() {
			pair, err := svc.NextPair(ctx, sess.ID, "paper-1")
			So(err, ShouldBeNil)

			Convey("Then both sides come from the paper's pool", func() {
				pool := []string{"rev-a", "rev-b", "rev-c"}
				So(pool, ShouldContain, pair.A)
				So(pool, ShouldContain, pair.B)
				So(pair.A, ShouldNotEqual, pair.B)
			})
		})

		Convey("When the paper does not exist", func() {
			_, err := svc.NextPair(ctx, sess.ID, "paper-404")

			Convey("Then the registry error surfaces", func() {
				So(errors.Is(err, registry.ErrPaperNotFound), ShouldBeTrue)
			})
		})

		Convey("When the session has voted every pair", func() {
			all := [][2]string{{"rev-a", "rev-b"}, {"rev-a", "rev-c"}, {"rev-b", "rev-c"}}
			for i, p := range all {
				v := arenaVote(sess.ID, "paper-1", p[0], p[1], model.Tie)
				v.VoteTime = v.VoteTime.Add(time.Duration(i) * time.Second)
				_, err := svc.SubmitVote(ctx, "", v)
				So(err, ShouldBeNil)
			}

			_, err := svc.NextPair(ctx, sess.ID, "paper-1")

			Convey("Then the search exhausts into ErrNoPairFound", func() {
				So(errors.Is(err, rating.ErrNoPairFound), ShouldBeTrue)
			})
		})

		Convey("When one session has voted a pair", func() {
			_, err := svc.SubmitVote(ctx, "", arenaVote(sess.ID, "paper-1", "rev-a", "rev-b", model.Tie))
			So(err, ShouldBeNil)

			other := svc.StartSession(ctx, "", "")
			_, err = svc.NextPair(ctx, other.ID, "paper-1")

			Convey("Then exclusions do not leak across sessions", func() {
				So(err, ShouldBeNil)
			})
		})
	})
}

func TestLeaderboard(t *testing.T) {
	ctx := context.Background()

	Convey("Given a service with recorded votes", t, func() {
		papers := registry.New()
		papers.Add(arenaPaper("paper-1", "rev-a", "rev-b", "rev-c", "rev-d"))
		svc := startedService(papers)
		defer svc.Stop()

		submit := func(a, b string, j model.Judgement) {
			_, err := svc.SubmitVote(ctx, "", arenaVote("s", "paper-1", a, b, j))
			So(err, ShouldBeNil)
		}
		submit("rev-a", "rev-b", model.AIsBetter)
		submit("rev-c", "rev-d", model.Tie)

		Convey("When the leaderboard is requested", func() {
			entries, err := svc.Leaderboard(ctx, 10)
			So(err, ShouldBeNil)

			Convey("Then entries are sorted by rating descending", func() {
				So(entries, ShouldHaveLength, 4)
				So(entries[0].ReviewerID, ShouldEqual, "rev-a")
				So(entries[len(entries)-1].ReviewerID, ShouldEqual, "rev-b")
				for i := 1; i < len(entries); i++ {
					So(entries[i].Rating, ShouldBeLessThanOrEqualTo, entries[i-1].Rating)
				}
			})

			Convey("Then tied ratings share a rank and break ties by ID", func() {
				// rev-c and rev-d tied at 1500.
				So(entries[1].ReviewerID, ShouldEqual, "rev-c")
				So(entries[2].ReviewerID, ShouldEqual, "rev-d")
				So(entries[1].Rank, ShouldEqual, entries[2].Rank)
				So(entries[3].Rank, ShouldEqual, entries[1].Rank+1)
				So(entries[0].Rank, ShouldEqual, 1)
			})
		})

		Convey("When a limit truncates the board", func() {
			entries, err := svc.Leaderboard(ctx, 2)
			So(err, ShouldBeNil)

			Convey("Then only the top entries return", func() {
				So(entries, ShouldHaveLength, 2)
				So(entries[0].ReviewerID, ShouldEqual, "rev-a")
			})
		})

		Convey("When the limit is invalid", func() {
			_, err := svc.Leaderboard(ctx, 0)

			Convey("Then it is rejected", func() {
				So(errors.Is(err, service.ErrInvalidLimit), ShouldBeTrue)
			})
		})
	})
}

func TestServiceStats(t *testing.T) {
	ctx := context.Background()

	Convey("Given a started service", t, func() {
		papers := registry.New()
		papers.Add(arenaPaper("paper-1", "rev-a", "rev-b"))
		svc := startedService(papers)
		defer svc.Stop()

		_, err := svc.SubmitVote(ctx, "", arenaVote("s", "paper-1", "rev-a", "rev-b", model.Tie))
		So(err, ShouldBeNil)
		_ = svc.StartSession(ctx, "", "")

		Convey("When stats are requested", func() {
			stats := svc.GetStats()

			Convey("Then the counters reflect the state", func() {
				So(stats["started"], ShouldBeTrue)
				So(stats["totalVotes"], ShouldEqual, 1)
				So(stats["totalReviewers"], ShouldEqual, 2)
				So(stats["totalPapers"], ShouldEqual, 1)
				So(stats["activeSessions"], ShouldEqual, 1)
			})
		})
	})
}
