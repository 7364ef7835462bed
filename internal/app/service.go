// Package service runs one tournament: it expands the schedule, drives
// every match through the worker pool and aggregates the results.
package service

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/Telokis/cg-selfarena/internal/adapters/mq/queue"
	"github.com/Telokis/cg-selfarena/internal/adapters/mq/worker"
	"github.com/Telokis/cg-selfarena/internal/adapters/report"
	"github.com/Telokis/cg-selfarena/internal/config"
	"github.com/Telokis/cg-selfarena/internal/domain/matchup"
	"github.com/Telokis/cg-selfarena/internal/domain/model"
	"github.com/Telokis/cg-selfarena/internal/domain/stats"
	"github.com/Telokis/cg-selfarena/pkg/logger"
	"github.com/Telokis/cg-selfarena/pkg/metrics"
)

// Default service configuration constants.
const (
	defaultBatches = 20
	defaultPause   = 100 * time.Millisecond
)

// MatchRunner plays one task. It reports failure as a result with no
// scores and never returns an error.
type MatchRunner interface {
	Run(ctx context.Context, task model.Task) model.MatchResult
}

// Reporter receives progress and the final standings.
type Reporter interface {
	Start(total, workers int)
	MatchCompleted(p report.Progress)
	Summary(standings []model.Standing)
	Finish()
}

// Summary is the outcome of a completed run.
type Summary struct {
	RunID     string
	Tasks     int
	Void      int
	Standings []model.Standing
}

// Service holds the plan of one tournament and its collaborators.
type Service struct {
	plan    matchup.Plan
	batches int
	pause   time.Duration

	runner   MatchRunner
	reporter Reporter
	seeds    matchup.SeedSource

	logger logger.Logger
}

// New constructs a Service. A runner must be supplied with WithRunner.
func New(opts ...Option) *Service {
	s := &Service{
		plan: matchup.Plan{
			PlayersPerGame:  config.MinPlayersPerGame,
			GamesPerMatchup: 1,
		},
		batches: defaultBatches,
		pause:   defaultPause,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.seeds == nil {
		s.seeds = rand.New(rand.NewSource(time.Now().UnixNano())) //nolint:gosec // referee seeds, not secrets
	}
	if s.reporter == nil {
		s.reporter = report.New(nil)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("tournament")
	}

	return s
}

// Plan returns the schedule shape of the service.
func (s *Service) Plan() matchup.Plan {
	return s.plan
}

// Run plays the whole tournament. Workers publish each result to a
// stream drained by one consumer that ingests it and reports progress,
// so progress lines never interleave and arrive in completion order.
//
// Run returns an error wrapping worker.ErrStopped when ctx is canceled
// and stats.ErrInvariantViolation when a result does not fit the
// schedule. No summary is reported in either case.
func (s *Service) Run(ctx context.Context) (*Summary, error) {
	if s.runner == nil {
		return nil, ErrNoRunner
	}
	if s.plan.Agents < s.plan.PlayersPerGame {
		return nil, fmt.Errorf("%w: %d agents cannot fill %d seats", ErrInvalidPlan, s.plan.Agents, s.plan.PlayersPerGame)
	}

	runID := uuid.NewString()
	log := s.logger.With(logger.String("run_id", runID))

	tasks := matchup.Expand(s.plan, s.seeds)
	metrics.UpdateTasksTotal(len(tasks))
	log.Info(ctx, "tournament starting",
		logger.Int("agents", s.plan.Agents),
		logger.Int("players_per_game", s.plan.PlayersPerGame),
		logger.Int("games_per_matchup", s.plan.GamesPerMatchup),
		logger.Bool("swap", s.plan.Swap),
		logger.Int64("seed", s.plan.Seed),
		logger.Int("tasks", len(tasks)),
		logger.Int("batches", s.batches),
	)
	s.reporter.Start(len(tasks), s.batches)

	stream := queue.NewStream(queue.WithCapacity(len(tasks)))
	agg := stats.New(s.plan.Agents, len(tasks))
	pool := worker.NewPool(s.batches,
		worker.WithPause(s.pause),
		worker.WithLogger(log.Named("pool")),
	)

	var slots []model.MatchResult
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer func() { _ = stream.Close() }()

		var err error
		slots, err = pool.Run(gctx, tasks, func(ctx context.Context, w int, task model.Task) model.MatchResult {
			r := s.runner.Run(ctx, task)
			// The stream holds every task, so this never waits.
			if perr := stream.Publish(context.WithoutCancel(ctx), r); perr != nil {
				log.Error(ctx, "result dropped", logger.Int("task_id", task.ID), logger.Error(perr))
			}
			return r
		})
		return err
	})

	g.Go(func() error {
		done := 0
		// Drain until close even if ctx ends, so the pool never blocks on us.
		return stream.Consume(context.WithoutCancel(gctx), func(r model.MatchResult) error {
			if err := agg.Ingest(r); err != nil {
				return err
			}
			done++
			s.reporter.MatchCompleted(report.Progress{Result: r, Done: done, Total: len(tasks)})
			return nil
		})
	})

	if err := g.Wait(); err != nil {
		log.Error(ctx, "tournament aborted", logger.Int("ingested", agg.Count()), logger.Error(err))
		return nil, err
	}

	if got := agg.Count(); got != len(tasks) {
		return nil, fmt.Errorf("%w: ingested %d of %d results", stats.ErrInvariantViolation, got, len(tasks))
	}

	void := 0
	for i, r := range slots {
		if r.TaskID != i {
			return nil, fmt.Errorf("%w: slot %d holds task %d", stats.ErrInvariantViolation, i, r.TaskID)
		}
		if r.Void() {
			void++
		}
	}

	agg.Finalize()
	standings := agg.Standings()
	s.reporter.Summary(standings)
	s.reporter.Finish()

	log.Info(ctx, "tournament finished", logger.Int("tasks", len(tasks)), logger.Int("void", void))
	return &Summary{
		RunID:     runID,
		Tasks:     len(tasks),
		Void:      void,
		Standings: standings,
	}, nil
}
