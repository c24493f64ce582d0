package session_test

import (
	"context"
	"errors"
	"testing"
	"time"

	session "github.com/okian/arena/internal/domain/session"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSessionRegistry(t *testing.T) {
	ctx := context.Background()

	Convey("Given a session registry", t, func() {
		r := session.NewRegistry()

		Convey("When a session starts", func() {
			s := r.Start(ctx, "203.0.113.7", "arena-test/1.0")

			Convey("Then it gets a unique ID and is retrievable", func() {
				So(s.ID, ShouldNotBeEmpty)
				So(s.Ended(), ShouldBeFalse)
				So(s.IPAddress, ShouldEqual, "203.0.113.7")

				got, err := r.Get(ctx, s.ID)
				So(err, ShouldBeNil)
				So(got.ID, ShouldEqual, s.ID)

				other := r.Start(ctx, "", "")
				So(other.ID, ShouldNotEqual, s.ID)
			})

			Convey("And the session ends", func() {
				So(r.End(ctx, s.ID), ShouldBeNil)

				Convey("Then it is stamped and no longer active", func() {
					got, err := r.Get(ctx, s.ID)
					So(err, ShouldBeNil)
					So(got.Ended(), ShouldBeTrue)
					So(r.ActiveCount(), ShouldEqual, 0)
				})

				Convey("Then ending again is idempotent", func() {
					got, _ := r.Get(ctx, s.ID)
					first := *got.EndTime
					So(r.End(ctx, s.ID), ShouldBeNil)
					So(got.EndTime.Equal(first), ShouldBeTrue)
				})

				Convey("Then recording votes on it is rejected", func() {
					err := r.RecordVoted(ctx, s.ID, "paper-1", "alice", "bob")
					So(errors.Is(err, session.ErrSessionEnded), ShouldBeTrue)
				})
			})
		})

		Convey("When operating on an unknown session", func() {
			Convey("Then every operation fails with ErrSessionNotFound", func() {
				_, err := r.Get(ctx, "nope")
				So(errors.Is(err, session.ErrSessionNotFound), ShouldBeTrue)

				err = r.End(ctx, "nope")
				So(errors.Is(err, session.ErrSessionNotFound), ShouldBeTrue)

				err = r.RecordVoted(ctx, "nope", "paper-1", "alice", "bob")
				So(errors.Is(err, session.ErrSessionNotFound), ShouldBeTrue)

				_, err = r.VotedPairs(ctx, "nope", "paper-1")
				So(errors.Is(err, session.ErrSessionNotFound), ShouldBeTrue)
			})
		})

		Convey("When voted pairs are recorded", func() {
			s := r.Start(ctx, "", "")
			So(r.RecordVoted(ctx, s.ID, "paper-1", "alice", "bob"), ShouldBeNil)
			So(r.RecordVoted(ctx, s.ID, "paper-2", "carol", "dave"), ShouldBeNil)

			Convey("Then they are scoped per paper", func() {
				pairs, err := r.VotedPairs(ctx, s.ID, "paper-1")
				So(err, ShouldBeNil)
				So(pairs.Contains("alice", "bob"), ShouldBeTrue)
				So(pairs.Contains("bob", "alice"), ShouldBeTrue)
				So(pairs.Contains("carol", "dave"), ShouldBeFalse)
			})

			Convey("Then the returned set is a copy", func() {
				pairs, err := r.VotedPairs(ctx, s.ID, "paper-1")
				So(err, ShouldBeNil)
				pairs.Add("eve", "frank")

				again, err := r.VotedPairs(ctx, s.ID, "paper-1")
				So(err, ShouldBeNil)
				So(again.Contains("eve", "frank"), ShouldBeFalse)
			})
		})

		Convey("When the registry reaches its cap", func() {
			now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
			clock := func() time.Time {
				now = now.Add(time.Second)
				return now
			}
			capped := session.NewRegistry(session.WithMaxSize(2), session.WithClock(clock))

			first := capped.Start(ctx, "", "")
			second := capped.Start(ctx, "", "")
			So(capped.End(ctx, second.ID), ShouldBeNil)

			third := capped.Start(ctx, "", "")

			Convey("Then an ended session is evicted before an active one", func() {
				_, err := capped.Get(ctx, second.ID)
				So(errors.Is(err, session.ErrSessionNotFound), ShouldBeTrue)

				_, err = capped.Get(ctx, first.ID)
				So(err, ShouldBeNil)
				_, err = capped.Get(ctx, third.ID)
				So(err, ShouldBeNil)
			})

			Convey("And with only active sessions the oldest goes", func() {
				fourth := capped.Start(ctx, "", "")

				_, err := capped.Get(ctx, first.ID)
				So(errors.Is(err, session.ErrSessionNotFound), ShouldBeTrue)
				_, err = capped.Get(ctx, fourth.ID)
				So(err, ShouldBeNil)
			})
		})
	})
}
