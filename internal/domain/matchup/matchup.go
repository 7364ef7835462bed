// Package matchup expands agent combinations into the ordered task list
// of a tournament.
package matchup

import (
	"github.com/Telokis/cg-selfarena/internal/domain/combination"
	"github.com/Telokis/cg-selfarena/internal/domain/model"
)

// SeedSource draws random 32-bit seeds. *math/rand.Rand satisfies it.
type SeedSource interface {
	Uint32() uint32
}

// Plan describes the shape of a tournament schedule.
type Plan struct {
	Agents          int   // n
	PlayersPerGame  int   // k
	GamesPerMatchup int   // g
	Swap            bool  // add one seating per non-leading seat
	Seed            int64 // 0 draws a random seed per repetition
}

// Count returns C(n,k) x (k if swap) x g.
func (p Plan) Count() int {
	seatings := 1
	if p.Swap {
		seatings = p.PlayersPerGame
	}
	return combination.Binomial(p.Agents, p.PlayersPerGame) * seatings * p.GamesPerMatchup
}

// Expand builds every task of the plan with dense sequential IDs.
//
// For each combination and repetition the base seating comes first,
// followed, in swap mode, by the seating with seat 0 and seat j
// exchanged for j = 1..k-1. All seatings of one repetition share its
// seed. src is only consulted when p.Seed is 0.
func Expand(p Plan, src SeedSource) []model.Task {
	tasks := make([]model.Task, 0, p.Count())
	e := combination.New(p.Agents, p.PlayersPerGame)

	for combo, ok := e.Next(); ok; combo, ok = e.Next() {
		for rep := 0; rep < p.GamesPerMatchup; rep++ {
			seed := p.Seed
			if seed == 0 {
				seed = int64(src.Uint32())
			}

			tasks = append(tasks, model.Task{ID: len(tasks), Participants: combo, Seed: seed})
			if !p.Swap {
				continue
			}
			for j := 1; j < len(combo); j++ {
				seating := make([]int, len(combo))
				copy(seating, combo)
				seating[0], seating[j] = seating[j], seating[0]
				tasks = append(tasks, model.Task{ID: len(tasks), Participants: seating, Seed: seed})
			}
		}
	}
	return tasks
}
