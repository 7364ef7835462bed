package model_test

import (
	"testing"

	model "github.com/Telokis/cg-selfarena/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestMatchResult(t *testing.T) {
	convey.Convey("Given a task seating agents 2 and 0", t, func() {
		task := model.Task{ID: 4, Participants: []int{2, 0}, Seed: 77}

		convey.Convey("When a result is started from it", func() {
			r := model.NewResult(task)

			convey.Convey("Then it copies the task identity and is void", func() {
				convey.So(r.TaskID, convey.ShouldEqual, 4)
				convey.So(r.Participants, convey.ShouldResemble, []int{2, 0})
				convey.So(r.Seed, convey.ShouldEqual, 77)
				convey.So(r.Void(), convey.ShouldBeTrue)
				convey.So(task.Seats(), convey.ShouldEqual, 2)
			})
		})

		convey.Convey("When scores are filled in", func() {
			r := model.NewResult(task)
			r.Scores = map[int]int{0: 5, 2: 9}

			convey.Convey("Then seat scores follow seating order", func() {
				scores, ok := r.SeatScores()
				convey.So(ok, convey.ShouldBeTrue)
				convey.So(scores, convey.ShouldResemble, []int{9, 5})
				convey.So(r.Void(), convey.ShouldBeFalse)
			})
		})

		convey.Convey("When a participant score is missing", func() {
			r := model.NewResult(task)
			r.Scores = map[int]int{2: 1}

			convey.Convey("Then seat scores are rejected", func() {
				_, ok := r.SeatScores()
				convey.So(ok, convey.ShouldBeFalse)
			})
		})
	})
}
