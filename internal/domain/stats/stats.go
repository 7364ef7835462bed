// Package stats aggregates pairwise win, loss and draw tallies from match
// results that arrive in any order.
package stats

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Telokis/cg-selfarena/internal/domain/model"
	"github.com/Telokis/cg-selfarena/pkg/metrics"
)

// ErrInvariantViolation marks a result that cannot belong to the
// schedule: an unknown task, an unknown agent, or a task seen twice.
var ErrInvariantViolation = errors.New("aggregation invariant violated")

// Aggregator owns every agent tally of a run. It is safe for concurrent
// use, although the tournament feeds it from a single consumer.
type Aggregator struct {
	mu        sync.Mutex
	agents    int
	results   []*model.MatchResult
	ingested  int
	scores    map[int]*model.AgentScore
	finalized bool
}

// New creates an aggregator for a run of agents agents and tasks tasks.
func New(agents, tasks int) *Aggregator {
	return &Aggregator{
		agents:  agents,
		results: make([]*model.MatchResult, tasks),
		scores:  make(map[int]*model.AgentScore, agents),
	}
}

// Ingest records one result. Every pair of seats i<j is compared once:
// the higher score wins, equal scores draw, and both agents' totals grow
// by one. A void result is stored but tallies nothing.
func (a *Aggregator) Ingest(r model.MatchResult) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if r.TaskID < 0 || r.TaskID >= len(a.results) {
		return fmt.Errorf("%w: task %d outside [0, %d)", ErrInvariantViolation, r.TaskID, len(a.results))
	}
	if a.results[r.TaskID] != nil {
		return fmt.Errorf("%w: task %d ingested twice", ErrInvariantViolation, r.TaskID)
	}
	for _, agent := range r.Participants {
		if agent < 0 || agent >= a.agents {
			return fmt.Errorf("%w: task %d references agent %d of %d", ErrInvariantViolation, r.TaskID, agent, a.agents)
		}
	}

	var seat []int
	if !r.Void() {
		var ok bool
		if seat, ok = r.SeatScores(); !ok {
			return fmt.Errorf("%w: task %d lacks a score for some participant", ErrInvariantViolation, r.TaskID)
		}
	}

	stored := r
	a.results[r.TaskID] = &stored
	a.ingested++

	if seat == nil {
		metrics.RecordVoidResult()
		return nil
	}

	for i := 0; i < len(seat); i++ {
		for j := i + 1; j < len(seat); j++ {
			a.compare(r.Participants[i], seat[i], r.Participants[j], seat[j])
		}
	}
	a.finalized = false
	return nil
}

func (a *Aggregator) compare(p, ps, q, qs int) {
	sp, sq := a.tally(p), a.tally(q)
	sp.Total++
	sq.Total++

	switch {
	case ps > qs:
		sp.Wins++
		sq.Losses++
		metrics.RecordPairwise(metrics.OutcomeDecisive)
	case ps < qs:
		sq.Wins++
		sp.Losses++
		metrics.RecordPairwise(metrics.OutcomeDecisive)
	default:
		sp.Draws++
		sq.Draws++
		metrics.RecordPairwise(metrics.OutcomeDraw)
	}
}

func (a *Aggregator) tally(agent int) *model.AgentScore {
	s, ok := a.scores[agent]
	if !ok {
		s = &model.AgentScore{}
		a.scores[agent] = s
	}
	return s
}

// Count returns how many results have been ingested.
func (a *Aggregator) Count() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.ingested
}

// Result returns the stored result for taskID.
func (a *Aggregator) Result(taskID int) (model.MatchResult, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if taskID < 0 || taskID >= len(a.results) || a.results[taskID] == nil {
		return model.MatchResult{}, false
	}
	return *a.results[taskID], true
}

// Finalize computes every win rate as 100 x (wins + draws/2) / total.
// Calling it again without new results changes nothing.
func (a *Aggregator) Finalize() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.finalized {
		return
	}
	for _, s := range a.scores {
		if s.Total > 0 {
			s.WinRate = 100 * (float64(s.Wins) + 0.5*float64(s.Draws)) / float64(s.Total)
		}
	}
	a.finalized = true
}

// Standings returns the tally of every agent that took part in at least
// one scored comparison, ordered by agent index.
func (a *Aggregator) Standings() []model.Standing {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]model.Standing, 0, len(a.scores))
	for agent := 0; agent < a.agents; agent++ {
		if s, ok := a.scores[agent]; ok {
			out = append(out, model.Standing{Agent: agent, AgentScore: *s})
		}
	}
	return out
}
