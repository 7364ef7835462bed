package scoring_test

import (
	"errors"
	"testing"

	scoring "github.com/Telokis/cg-selfarena/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func TestParse(t *testing.T) {
	Convey("Given a two-seat match between agents 3 and 1", t, func() {
		participants := []int{3, 1}

		Convey("When the referee prints two scores", func() {
			scores, err := scoring.Parse("12 7\n", participants)

			Convey("Then scores are keyed by agent in seat order", func() {
				So(err, ShouldBeNil)
				So(scores, ShouldResemble, map[int]int{3: 12, 1: 7})
			})
		})

		Convey("When the output has warnings and CRLF line endings", func() {
			out := "WARNING: player 1 timeout\r\n5\r\nwarning: slow\r\n-2\r\n"
			scores, err := scoring.Parse(out, participants)

			Convey("Then warnings are skipped", func() {
				So(err, ShouldBeNil)
				So(scores, ShouldResemble, map[int]int{3: 5, 1: -2})
			})
		})

		Convey("When the output carries extra tokens", func() {
			scores, err := scoring.Parse("1 0 trailing data", participants)

			Convey("Then only the first k are used", func() {
				So(err, ShouldBeNil)
				So(scores, ShouldResemble, map[int]int{3: 1, 1: 0})
			})
		})

		Convey("When too few tokens are printed", func() {
			_, err := scoring.Parse("WARNING: crash\n4", participants)

			Convey("Then it is malformed", func() {
				So(errors.Is(err, scoring.ErrMalformedOutput), ShouldBeTrue)
			})
		})

		Convey("When a token is not an integer", func() {
			_, err := scoring.Parse("4 2.5", participants)

			Convey("Then it is malformed", func() {
				So(errors.Is(err, scoring.ErrMalformedOutput), ShouldBeTrue)
			})
		})

		Convey("When the output is empty", func() {
			_, err := scoring.Parse("", participants)

			Convey("Then it is malformed", func() {
				So(errors.Is(err, scoring.ErrMalformedOutput), ShouldBeTrue)
			})
		})
	})
}

func TestClean(t *testing.T) {
	Convey("Given output mixing warnings and scores", t, func() {
		So(scoring.Clean("WARNING: a\r\n1 2\r\nWARNING: b"), ShouldEqual, "1 2\n")
		So(scoring.Clean("no warnings here"), ShouldEqual, "no warnings here")
		So(scoring.Clean("score WARNING: inline"), ShouldEqual, "score WARNING: inline")
	})
}
