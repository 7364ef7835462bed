// Package worker runs match tasks on a fixed-size pool of goroutines.
package worker

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Telokis/cg-selfarena/internal/domain/model"
	"github.com/Telokis/cg-selfarena/pkg/logger"
	"github.com/Telokis/cg-selfarena/pkg/metrics"
)

// Default pool configuration constants.
const (
	defaultPoolSize = 1
	defaultName     = "worker-pool"
)

// Handler drives one task to completion. worker is the index of the pool
// goroutine running it. A Handler must not panic; failures belong in the
// returned result.
type Handler func(ctx context.Context, worker int, task model.Task) model.MatchResult

// Pool claims tasks from a shared cursor with a fixed number of workers.
type Pool struct {
	size   int
	name   string
	pause  time.Duration
	logger logger.Logger
}

// NewPool creates a pool of size workers. Sizes below one fall back to a
// single worker.
func NewPool(size int, opts ...Option) *Pool {
	if size < 1 {
		size = defaultPoolSize
	}

	p := &Pool{
		size: size,
		name: defaultName,
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.logger == nil {
		p.logger = logger.Get().Named(p.name)
	}

	return p
}

// Size returns the configured number of workers.
func (p *Pool) Size() int {
	return p.size
}

// Run executes every task once and returns the results indexed by
// position in tasks. Exactly min(size, len(tasks)) workers are started;
// each claims the next index with a single atomic increment, runs it,
// stores the result in that index's slot and pauses before claiming
// again.
//
// If ctx is canceled workers stop claiming; the returned error then
// wraps ErrStopped and results holds only the slots that were run.
func (p *Pool) Run(ctx context.Context, tasks []model.Task, handle Handler) ([]model.MatchResult, error) {
	results := make([]model.MatchResult, len(tasks))
	workers := min(p.size, len(tasks))
	if workers == 0 {
		return results, nil
	}

	var (
		cursor    atomic.Int64
		attempted atomic.Int64
		wg        sync.WaitGroup
	)

	metrics.UpdateWorkersStarted(workers)
	p.logger.Debug(ctx, "starting workers",
		logger.Int("workers", workers),
		logger.Int("tasks", len(tasks)),
		logger.Duration("pause", p.pause),
	)

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for {
				if ctx.Err() != nil {
					return
				}
				idx := int(cursor.Add(1) - 1)
				if idx >= len(tasks) {
					return
				}

				metrics.WorkerBusy()
				results[idx] = handle(ctx, w, tasks[idx])
				metrics.WorkerIdle()
				attempted.Add(1)

				if !p.sleep(ctx) {
					return
				}
			}
		}(w)
	}

	wg.Wait()

	if done := int(attempted.Load()); done < len(tasks) {
		p.logger.Warn(ctx, "pool stopped early",
			logger.Int("attempted", done),
			logger.Int("tasks", len(tasks)),
		)
		return results, fmt.Errorf("%w after %d of %d tasks: %w", ErrStopped, done, len(tasks), ctx.Err())
	}
	return results, nil
}

// sleep waits for the configured pause. It returns false if ctx ended.
func (p *Pool) sleep(ctx context.Context) bool {
	if p.pause <= 0 {
		return true
	}
	timer := time.NewTimer(p.pause)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}
