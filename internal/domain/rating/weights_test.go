package rating_test

import (
	"testing"

	"github.com/okian/arena/internal/domain/model"
	rating "github.com/okian/arena/internal/domain/rating"
	. "github.com/smartystreets/goconvey/convey"
)

func TestWeights(t *testing.T) {
	Convey("Given the default weights", t, func() {
		w := rating.DefaultWeights()

		Convey("Then they validate and sum to one", func() {
			So(w.Validate(), ShouldBeNil)
			So(w.Sum(), ShouldAlmostEqual, 1.0, 1e-12)
		})

		Convey("Then overall quality carries double weight", func() {
			So(w.OverallQuality, ShouldEqual, 0.4)
			So(w.TechnicalQuality, ShouldEqual, 0.2)
		})
	})

	Convey("Given malformed weights", t, func() {
		Convey("When a weight is negative", func() {
			w := rating.Weights{TechnicalQuality: -0.2, Constructiveness: 0.4, Clarity: 0.4, OverallQuality: 0.4}

			Convey("Then validation fails", func() {
				So(w.Validate(), ShouldWrap, rating.ErrInvalidWeights)
			})
		})

		Convey("When the sum is off beyond tolerance", func() {
			w := rating.Weights{TechnicalQuality: 0.2, Constructiveness: 0.2, Clarity: 0.2, OverallQuality: 0.5}

			Convey("Then validation fails", func() {
				So(w.Validate(), ShouldWrap, rating.ErrInvalidWeights)
			})
		})

		Convey("When the sum drifts within tolerance", func() {
			w := rating.Weights{TechnicalQuality: 0.2, Constructiveness: 0.2, Clarity: 0.2, OverallQuality: 0.4 + 1e-9}

			Convey("Then validation accepts the drift", func() {
				So(w.Validate(), ShouldBeNil)
			})
		})
	})
}

func TestNormalizedScore(t *testing.T) {
	Convey("Given the default weights", t, func() {
		w := rating.DefaultWeights()

		Convey("When A sweeps all categories", func() {
			score := w.NormalizedScore([4]model.Judgement{
				model.AIsBetter, model.AIsBetter, model.AIsBetter, model.AIsBetter,
			})

			Convey("Then the score is a full win", func() {
				So(score, ShouldAlmostEqual, 1.0, 1e-12)
			})
		})

		Convey("When every category ties", func() {
			score := w.NormalizedScore([4]model.Judgement{
				model.Tie, model.Tie, model.Tie, model.Tie,
			})

			Convey("Then the score is exactly half", func() {
				So(score, ShouldAlmostEqual, 0.5, 1e-12)
			})
		})

		Convey("When only overall quality goes to A", func() {
			score := w.NormalizedScore([4]model.Judgement{
				model.BIsBetter, model.BIsBetter, model.BIsBetter, model.AIsBetter,
			})

			Convey("Then the score equals the overall weight", func() {
				So(score, ShouldAlmostEqual, 0.4, 1e-12)
			})
		})

		Convey("When both-bad appears in a category", func() {
			withBothBad := w.NormalizedScore([4]model.Judgement{
				model.BothBad, model.AIsBetter, model.AIsBetter, model.AIsBetter,
			})
			withTie := w.NormalizedScore([4]model.Judgement{
				model.Tie, model.AIsBetter, model.AIsBetter, model.AIsBetter,
			})

			Convey("Then it scores identically to a tie", func() {
				So(withBothBad, ShouldAlmostEqual, withTie, 1e-12)
			})
		})
	})
}
