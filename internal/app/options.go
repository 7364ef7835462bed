package service

import (
	"time"

	"github.com/Telokis/cg-selfarena/internal/config"
	"github.com/Telokis/cg-selfarena/internal/domain/matchup"
	"github.com/Telokis/cg-selfarena/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithAgents sets the number of competing agents.
func WithAgents(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.plan.Agents = n
		}
	}
}

// WithPlayersPerGame sets the number of seats per match.
func WithPlayersPerGame(k int) Option {
	return func(s *Service) {
		if k > 0 {
			s.plan.PlayersPerGame = k
		}
	}
}

// WithGamesPerMatchup sets how many times each seating is repeated.
func WithGamesPerMatchup(g int) Option {
	return func(s *Service) {
		if g > 0 {
			s.plan.GamesPerMatchup = g
		}
	}
}

// WithSwap enables the extra seatings that rotate each agent into seat 0.
func WithSwap(swap bool) Option {
	return func(s *Service) {
		s.plan.Swap = swap
	}
}

// WithSeed sets the referee seed. 0 draws a random seed per repetition.
func WithSeed(seed int64) Option {
	return func(s *Service) {
		s.plan.Seed = seed
	}
}

// WithBatches sets the number of matches run concurrently.
func WithBatches(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.batches = n
		}
	}
}

// WithPause sets the pause a worker takes between two matches.
func WithPause(d time.Duration) Option {
	return func(s *Service) {
		if d >= 0 {
			s.pause = d
		}
	}
}

// WithRunner sets the match runner.
func WithRunner(r MatchRunner) Option {
	return func(s *Service) {
		if r != nil {
			s.runner = r
		}
	}
}

// WithReporter sets the progress and summary sink.
func WithReporter(r Reporter) Option {
	return func(s *Service) {
		if r != nil {
			s.reporter = r
		}
	}
}

// WithSeedSource sets where random seeds come from.
func WithSeedSource(src matchup.SeedSource) Option {
	return func(s *Service) {
		if src != nil {
			s.seeds = src
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// FromConfig maps a validated config onto service options.
func FromConfig(cfg *config.Config) []Option {
	return []Option{
		WithAgents(len(cfg.Players)),
		WithPlayersPerGame(cfg.Game.PlayersPerGame),
		WithGamesPerMatchup(cfg.Game.GamesPerMatchup),
		WithSwap(cfg.Game.SwapPositions),
		WithSeed(cfg.Game.Seed),
		WithBatches(cfg.Execution.Batches),
		WithPause(cfg.Execution.Pause),
	}
}
