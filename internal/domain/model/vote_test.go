package model_test

import (
	"errors"
	"testing"
	"time"

	model "github.com/okian/arena/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func validVote() model.Vote {
	return model.Vote{
		SessionID:        "session-1",
		PaperID:          "paper-1",
		ReviewerA:        "alice",
		ReviewerB:        "bob",
		TechnicalQuality: model.AIsBetter,
		Constructiveness: model.Tie,
		Clarity:          model.BIsBetter,
		OverallQuality:   model.BothBad,
		VoteTime:         time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestJudgement(t *testing.T) {
	Convey("Given the judgement enumeration", t, func() {
		Convey("Then the four allowed values validate", func() {
			So(model.AIsBetter.Valid(), ShouldBeTrue)
			So(model.BIsBetter.Valid(), ShouldBeTrue)
			So(model.Tie.Valid(), ShouldBeTrue)
			So(model.BothBad.Valid(), ShouldBeTrue)
		})

		Convey("Then anything else is rejected", func() {
			So(model.Judgement("").Valid(), ShouldBeFalse)
			So(model.Judgement("a_wins").Valid(), ShouldBeFalse)
			So(model.Judgement("A_IS_BETTER").Valid(), ShouldBeFalse)
		})

		Convey("Then scores map wins, losses and ties correctly", func() {
			So(model.AIsBetter.Score(), ShouldEqual, 1.0)
			So(model.BIsBetter.Score(), ShouldEqual, 0.0)
			So(model.Tie.Score(), ShouldEqual, 0.5)
			So(model.BothBad.Score(), ShouldEqual, 0.5)
		})
	})
}

func TestVoteValidate(t *testing.T) {
	Convey("Given a structurally valid vote", t, func() {
		v := validVote()

		Convey("Then validation passes", func() {
			So(v.Validate(), ShouldBeNil)
		})

		Convey("When a reviewer ID is blank", func() {
			v.ReviewerA = "   "
			err := v.Validate()

			Convey("Then it fails with ErrMissingField", func() {
				So(errors.Is(err, model.ErrMissingField), ShouldBeTrue)
			})
		})

		Convey("When both sides are the same reviewer", func() {
			v.ReviewerB = v.ReviewerA
			err := v.Validate()

			Convey("Then it fails with ErrSelfComparison", func() {
				So(errors.Is(err, model.ErrSelfComparison), ShouldBeTrue)
			})
		})

		Convey("When any category carries an unknown judgement", func() {
			v.Constructiveness = "maybe"
			err := v.Validate()

			Convey("Then it fails with ErrInvalidJudgement", func() {
				So(errors.Is(err, model.ErrInvalidJudgement), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "maybe")
			})
		})
	})
}

func TestJudgementsOrder(t *testing.T) {
	Convey("Given a vote", t, func() {
		v := validVote()

		Convey("Then Judgements returns the categories in weight order", func() {
			j := v.Judgements()
			So(j[0], ShouldEqual, v.TechnicalQuality)
			So(j[1], ShouldEqual, v.Constructiveness)
			So(j[2], ShouldEqual, v.Clarity)
			So(j[3], ShouldEqual, v.OverallQuality)
		})
	})
}
