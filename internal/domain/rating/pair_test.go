package rating_test

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/okian/arena/internal/domain/model"
	rating "github.com/okian/arena/internal/domain/rating"
	. "github.com/smartystreets/goconvey/convey"
)

func TestPairSet(t *testing.T) {
	Convey("Given an exclusion set", t, func() {
		s := make(rating.PairSet)
		s.Add("alice", "bob")

		Convey("Then membership is order insensitive", func() {
			So(s.Contains("alice", "bob"), ShouldBeTrue)
			So(s.Contains("bob", "alice"), ShouldBeTrue)
			So(s.Contains("alice", "carol"), ShouldBeFalse)
		})
	})
}

func TestFindFairPair(t *testing.T) {
	ctx := context.Background()

	Convey("Given a rating engine", t, func() {
		e, err := rating.New(rating.WithRand(rand.New(rand.NewSource(7))))
		So(err, ShouldBeNil)

		Convey("When a pool is empty", func() {
			_, err := e.FindFairPair(ctx, nil, []string{"bob"}, nil, 0)

			Convey("Then the search reports no pair immediately", func() {
				So(errors.Is(err, rating.ErrNoPairFound), ShouldBeTrue)
			})
		})

		Convey("When no ratings exist yet", func() {
			pool := []string{"alice", "bob", "carol"}
			pair, err := e.FindFairPair(ctx, pool, pool, nil, 0)

			Convey("Then a uniform random pair is returned", func() {
				So(err, ShouldBeNil)
				So(pair.A, ShouldNotEqual, pair.B)
				So(pool, ShouldContain, pair.A)
				So(pool, ShouldContain, pair.B)
			})
		})

		Convey("When the only candidate equals the chosen A-side", func() {
			pool := []string{"alice"}
			_, err := e.FindFairPair(ctx, pool, pool, nil, 0)

			Convey("Then no self-pair is ever produced", func() {
				So(errors.Is(err, rating.ErrNoPairFound), ShouldBeTrue)
			})
		})

		Convey("When ratings exist and candidates sit at different distances", func() {
			// One sweep drops carol to 1484; three more against dave push
			// bob well past 1550 while carol stays put.
			So(e.Update(ctx, makeVote("bob", "carol", model.AIsBetter)), ShouldBeNil)
			for i := 0; i < 3; i++ {
				So(e.Update(ctx, makeVote("bob", "dave", model.AIsBetter)), ShouldBeNil)
			}
			So(e.Rating("bob"), ShouldBeGreaterThan, e.Rating("alice"))
			So(e.Rating("carol"), ShouldBeLessThan, e.Rating("alice"))

			Convey("And the A pool is pinned to one reviewer", func() {
				poolA := []string{"alice"}
				poolB := []string{"bob", "carol"}

				gapBob := e.Rating("bob") - e.Rating("alice")
				gapCarol := e.Rating("alice") - e.Rating("carol")
				So(gapCarol, ShouldBeLessThan, gapBob)

				pair, err := e.FindFairPair(ctx, poolA, poolB, nil, 0)
				So(err, ShouldBeNil)

				Convey("Then the nearest-rated candidate wins", func() {
					So(pair.A, ShouldEqual, "alice")
					So(pair.B, ShouldEqual, "carol")
				})
			})

			Convey("And the nearest candidate is excluded", func() {
				poolA := []string{"alice"}
				poolB := []string{"bob", "carol"}
				exclude := make(rating.PairSet)
				exclude.Add("carol", "alice") // reversed order on purpose

				pair, err := e.FindFairPair(ctx, poolA, poolB, exclude, 0)
				So(err, ShouldBeNil)

				Convey("Then the window widens to the remaining candidate", func() {
					So(pair.B, ShouldEqual, "bob")
				})
			})

			Convey("And every pair is excluded", func() {
				poolA := []string{"alice"}
				poolB := []string{"bob", "carol"}
				exclude := make(rating.PairSet)
				exclude.Add("alice", "bob")
				exclude.Add("alice", "carol")

				_, err := e.FindFairPair(ctx, poolA, poolB, exclude, 0)

				Convey("Then the budget exhausts into ErrNoPairFound", func() {
					So(errors.Is(err, rating.ErrNoPairFound), ShouldBeTrue)
				})
			})
		})

		Convey("When pairs are selected repeatedly", func() {
			pool := []string{"alice", "bob", "carol", "dave"}
			So(e.Update(ctx, makeVote("alice", "bob", model.AIsBetter)), ShouldBeNil)
			So(e.Update(ctx, makeVote("carol", "dave", model.BIsBetter)), ShouldBeNil)

			Convey("Then no selection ever pairs a reviewer with itself", func() {
				for i := 0; i < 50; i++ {
					pair, err := e.FindFairPair(ctx, pool, pool, nil, 0)
					So(err, ShouldBeNil)
					So(pair.A, ShouldNotEqual, pair.B)
				}
			})
		})
	})
}
