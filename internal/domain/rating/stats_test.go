package rating_test

import (
	"context"
	"testing"

	"github.com/okian/arena/internal/domain/model"
	rating "github.com/okian/arena/internal/domain/rating"
	. "github.com/smartystreets/goconvey/convey"
)

func TestStats(t *testing.T) {
	ctx := context.Background()

	Convey("Given an engine with recorded votes", t, func() {
		e, err := rating.New()
		So(err, ShouldBeNil)

		Convey("When a reviewer exists with zero vote mass", func() {
			// Rating lookup creates the entry without any mass.
			_ = e.Rating("alice")
			stats := e.Stats()

			Convey("Then the interval collapses to the rating", func() {
				So(stats["alice"].CILower, ShouldEqual, stats["alice"].Rating)
				So(stats["alice"].CIUpper, ShouldEqual, stats["alice"].Rating)
				So(stats["alice"].Votes, ShouldEqual, 0)
			})
		})

		Convey("When vote mass accumulates", func() {
			So(e.Update(ctx, makeVote("alice", "bob", model.Tie)), ShouldBeNil)
			widthOne := width(e.Stats()["alice"])

			for i := 0; i < 7; i++ {
				So(e.Update(ctx, makeVote("alice", "bob", model.Tie)), ShouldBeNil)
			}
			widthMany := width(e.Stats()["alice"])

			Convey("Then the interval shrinks monotonically with mass", func() {
				So(widthMany, ShouldBeLessThan, widthOne)
				So(widthMany, ShouldBeGreaterThan, 0)
			})

			Convey("Then the interval brackets the rating symmetrically", func() {
				s := e.Stats()["alice"]
				So(s.Rating-s.CILower, ShouldAlmostEqual, s.CIUpper-s.Rating, 1e-9)
			})
		})

		Convey("When a decisive vote splits the mass", func() {
			So(e.Update(ctx, makeVote("alice", "bob", model.AIsBetter)), ShouldBeNil)
			stats := e.Stats()

			Convey("Then the winner takes the full unit and the loser none", func() {
				So(stats["alice"].Votes, ShouldAlmostEqual, 1.0, 1e-9)
				So(stats["bob"].Votes, ShouldAlmostEqual, 0.0, 1e-9)
			})
		})
	})
}

func width(s rating.Stat) float64 {
	return s.CIUpper - s.CILower
}
