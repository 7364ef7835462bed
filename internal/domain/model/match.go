// Package model contains domain models passed between layers.
package model

// Task is one scheduled match: an ordered seating of agent indices and
// the seed handed to the referee.
type Task struct {
	ID           int   // dense, zero based, unique within a run
	Participants []int // agent indices in seat order
	Seed         int64 // value of the referee's seed parameter
}

// Seats returns the number of seats in the match.
func (t Task) Seats() int {
	return len(t.Participants)
}

// MatchResult is the outcome of running one Task.
//
// Scores maps agent index to score. An empty map marks a failed (void)
// match that contributes nothing to the statistics.
type MatchResult struct {
	TaskID       int
	Participants []int
	Seed         int64
	Scores       map[int]int
}

// NewResult starts a result for task with no scores yet.
func NewResult(t Task) MatchResult {
	return MatchResult{
		TaskID:       t.ID,
		Participants: t.Participants,
		Seed:         t.Seed,
	}
}

// Void reports whether the match produced no scores.
func (r MatchResult) Void() bool {
	return len(r.Scores) == 0
}

// SeatScores returns the scores in seat order. ok is false for a void
// result or when a participant has no score.
func (r MatchResult) SeatScores() (scores []int, ok bool) {
	if r.Void() {
		return nil, false
	}
	scores = make([]int, len(r.Participants))
	for i, agent := range r.Participants {
		s, found := r.Scores[agent]
		if !found {
			return nil, false
		}
		scores[i] = s
	}
	return scores, true
}

// AgentScore is the running tally of one agent.
type AgentScore struct {
	Wins    int
	Losses  int
	Draws   int
	Total   int
	WinRate float64 // percentage in [0, 100], set on finalization
}

// Standing pairs an agent index with its final tally.
type Standing struct {
	Agent int
	AgentScore
}
