package stats

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/Telokis/cg-selfarena/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func result(id int, participants []int, scores ...int) model.MatchResult {
	r := model.MatchResult{TaskID: id, Participants: participants}
	if len(scores) > 0 {
		r.Scores = make(map[int]int, len(scores))
		for i, agent := range participants {
			r.Scores[agent] = scores[i]
		}
	}
	return r
}

func byAgent(standings []model.Standing) map[int]model.AgentScore {
	out := make(map[int]model.AgentScore, len(standings))
	for _, s := range standings {
		out[s.Agent] = s.AgentScore
	}
	return out
}

func TestIngestPairwise(t *testing.T) {
	convey.Convey("Given a two-player match that ends level", t, func() {
		agg := New(2, 1)
		convey.So(agg.Ingest(result(0, []int{0, 1}, 10, 10)), convey.ShouldBeNil)
		agg.Finalize()
		got := byAgent(agg.Standings())

		convey.Convey("Then each side gets exactly one draw", func() {
			convey.So(got[0], convey.ShouldResemble, model.AgentScore{Draws: 1, Total: 1, WinRate: 50})
			convey.So(got[1], convey.ShouldResemble, model.AgentScore{Draws: 1, Total: 1, WinRate: 50})
		})
	})

	convey.Convey("Given a three-player match scored 5, 3, 3", t, func() {
		agg := New(3, 1)
		convey.So(agg.Ingest(result(0, []int{0, 1, 2}, 5, 3, 3)), convey.ShouldBeNil)
		got := byAgent(agg.Standings())

		convey.Convey("Then every seat is compared with every other seat", func() {
			convey.So(got[0].Wins, convey.ShouldEqual, 2)
			convey.So(got[0].Total, convey.ShouldEqual, 2)
			convey.So(got[1].Losses, convey.ShouldEqual, 1)
			convey.So(got[1].Draws, convey.ShouldEqual, 1)
			convey.So(got[1].Total, convey.ShouldEqual, 2)
			convey.So(got[2].Losses, convey.ShouldEqual, 1)
			convey.So(got[2].Draws, convey.ShouldEqual, 1)
			convey.So(got[2].Total, convey.ShouldEqual, 2)
		})
	})

	convey.Convey("Given seats listed out of agent order", t, func() {
		agg := New(3, 1)
		convey.So(agg.Ingest(result(0, []int{2, 0}, 1, 4)), convey.ShouldBeNil)
		got := byAgent(agg.Standings())

		convey.Convey("Then scores follow the agents, not the seats", func() {
			convey.So(got[0].Wins, convey.ShouldEqual, 1)
			convey.So(got[2].Losses, convey.ShouldEqual, 1)
		})
	})
}

func TestIngestOrderIndependence(t *testing.T) {
	convey.Convey("Given a batch of four-player results", t, func() {
		rng := rand.New(rand.NewSource(7))
		var results []model.MatchResult
		for id := 0; id < 60; id++ {
			participants := rng.Perm(6)[:4]
			scores := make([]int, 4)
			for i := range scores {
				scores[i] = rng.Intn(4)
			}
			if id%9 == 0 {
				results = append(results, result(id, participants))
				continue
			}
			results = append(results, result(id, participants, scores...))
		}

		baseline := New(6, len(results))
		for _, r := range results {
			convey.So(baseline.Ingest(r), convey.ShouldBeNil)
		}
		baseline.Finalize()
		want := baseline.Standings()

		convey.Convey("When they are ingested in shuffled orders", func() {
			for trial := 0; trial < 5; trial++ {
				shuffled := append([]model.MatchResult(nil), results...)
				rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

				agg := New(6, len(results))
				for _, r := range shuffled {
					convey.So(agg.Ingest(r), convey.ShouldBeNil)
				}
				agg.Finalize()

				convey.So(agg.Standings(), convey.ShouldResemble, want)
			}
		})
	})
}

func TestIngestVoid(t *testing.T) {
	convey.Convey("Given a scored match and a failed match", t, func() {
		agg := New(3, 2)
		convey.So(agg.Ingest(result(0, []int{0, 1}, 2, 1)), convey.ShouldBeNil)
		convey.So(agg.Ingest(result(1, []int{1, 2})), convey.ShouldBeNil)
		agg.Finalize()
		got := byAgent(agg.Standings())

		convey.Convey("Then the failed match is stored but tallies nothing", func() {
			convey.So(agg.Count(), convey.ShouldEqual, 2)
			stored, ok := agg.Result(1)
			convey.So(ok, convey.ShouldBeTrue)
			convey.So(stored.Void(), convey.ShouldBeTrue)
			convey.So(got[1], convey.ShouldResemble, model.AgentScore{Losses: 1, Total: 1})
			_, played := got[2]
			convey.So(played, convey.ShouldBeFalse)
		})
	})
}

func TestIngestViolations(t *testing.T) {
	convey.Convey("Given an aggregator for two agents and two tasks", t, func() {
		agg := New(2, 2)

		convey.Convey("When a task id is out of range", func() {
			err := agg.Ingest(result(2, []int{0, 1}, 1, 0))
			convey.So(errors.Is(err, ErrInvariantViolation), convey.ShouldBeTrue)
		})

		convey.Convey("When a task is ingested twice", func() {
			convey.So(agg.Ingest(result(0, []int{0, 1}, 1, 0)), convey.ShouldBeNil)
			err := agg.Ingest(result(0, []int{0, 1}, 1, 0))
			convey.So(errors.Is(err, ErrInvariantViolation), convey.ShouldBeTrue)
			convey.So(agg.Count(), convey.ShouldEqual, 1)
		})

		convey.Convey("When an agent index is unknown", func() {
			err := agg.Ingest(result(1, []int{0, 5}, 1, 0))
			convey.So(errors.Is(err, ErrInvariantViolation), convey.ShouldBeTrue)
		})

		convey.Convey("When a participant has no score", func() {
			r := model.MatchResult{TaskID: 1, Participants: []int{0, 1}, Scores: map[int]int{0: 3}}
			err := agg.Ingest(r)
			convey.So(errors.Is(err, ErrInvariantViolation), convey.ShouldBeTrue)
			convey.So(agg.Count(), convey.ShouldEqual, 0)
		})
	})
}

func TestFinalize(t *testing.T) {
	convey.Convey("Given results with wins, losses and draws", t, func() {
		agg := New(2, 4)
		convey.So(agg.Ingest(result(0, []int{0, 1}, 3, 1)), convey.ShouldBeNil)
		convey.So(agg.Ingest(result(1, []int{1, 0}, 3, 1)), convey.ShouldBeNil)
		convey.So(agg.Ingest(result(2, []int{0, 1}, 2, 2)), convey.ShouldBeNil)
		convey.So(agg.Ingest(result(3, []int{0, 1}, 9, 0)), convey.ShouldBeNil)

		convey.Convey("When finalized twice", func() {
			agg.Finalize()
			first := agg.Standings()
			agg.Finalize()

			convey.Convey("Then win rates are computed once and stay put", func() {
				convey.So(first[0].WinRate, convey.ShouldAlmostEqual, 62.5)
				convey.So(first[1].WinRate, convey.ShouldAlmostEqual, 37.5)
				convey.So(agg.Standings(), convey.ShouldResemble, first)
			})
		})
	})
}
