// Package referee runs one judged match as an external referee process
// and turns its output into a MatchResult.
package referee

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/Telokis/cg-selfarena/internal/domain/model"
	"github.com/Telokis/cg-selfarena/internal/domain/scoring"
	"github.com/Telokis/cg-selfarena/pkg/logger"
	"github.com/Telokis/cg-selfarena/pkg/metrics"
)

// Sentinel kinds for referee errors.
var (
	ErrExec      = errors.New("referee execution failed")
	ErrNoCommand = errors.New("referee command is empty")
)

const (
	// maxLoggedOutput bounds how much stdout/stderr goes into a diagnostic.
	maxLoggedOutput = 2048
	// waitDelay caps how long a killed referee's children may hold its pipes.
	waitDelay = 2 * time.Second
)

// Runner launches the referee once per task. It never fails past its own
// boundary: any problem yields a void result and a logged diagnostic.
type Runner struct {
	command []string
	players []string
	timeout time.Duration
	logger  logger.Logger
}

// New creates a runner for the referee argv command and one command
// string per agent, indexed by agent.
func New(command []string, players []string, opts ...Option) (*Runner, error) {
	if len(command) == 0 || command[0] == "" {
		return nil, ErrNoCommand
	}

	r := &Runner{
		command: append([]string(nil), command...),
		players: append([]string(nil), players...),
	}

	for _, opt := range opts {
		opt(r)
	}

	if r.logger == nil {
		r.logger = logger.Get().Named("referee")
	}

	return r, nil
}

// Args returns the full argv for task:
// referee... -d seed=S -p1 <cmd> -p2 <cmd> ...
func (r *Runner) Args(task model.Task) []string {
	args := make([]string, 0, len(r.command)+2+2*len(task.Participants))
	args = append(args, r.command...)
	args = append(args, "-d", "seed="+strconv.FormatInt(task.Seed, 10))
	for seat, agent := range task.Participants {
		args = append(args, "-p"+strconv.Itoa(seat+1), r.players[agent])
	}
	return args
}

// Run executes task and parses its scores.
func (r *Runner) Run(ctx context.Context, task model.Task) model.MatchResult {
	result := model.NewResult(task)
	start := time.Now()
	defer func() {
		metrics.RecordMatchCompleted(time.Since(start))
	}()

	for _, agent := range task.Participants {
		if agent < 0 || agent >= len(r.players) {
			r.fail(ctx, task, metrics.ReasonExec, fmt.Errorf("%w: unknown agent %d", ErrExec, agent), "", "")
			return result
		}
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	stdout, stderr, err := r.exec(ctx, r.Args(task))
	if err != nil {
		reason := metrics.ReasonExec
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			reason = metrics.ReasonTimeout
		}
		r.fail(ctx, task, reason, err, stdout, stderr)
		return result
	}

	scores, err := scoring.Parse(stdout, task.Participants)
	if err != nil {
		r.fail(ctx, task, metrics.ReasonParse, err, stdout, stderr)
		return result
	}

	result.Scores = scores
	r.logger.Debug(ctx, "match scored",
		logger.Int("task_id", task.ID),
		logger.Ints("participants", task.Participants),
		logger.Duration("elapsed", time.Since(start)),
	)
	return result
}

func (r *Runner) exec(ctx context.Context, argv []string) (stdout, stderr string, err error) {
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.WaitDelay = waitDelay

	var out, errOut bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errOut

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return out.String(), errOut.String(), fmt.Errorf("%w: exit code %d", ErrExec, exitErr.ExitCode())
		}
		return out.String(), errOut.String(), fmt.Errorf("%w: %w", ErrExec, err)
	}
	return out.String(), errOut.String(), nil
}

func (r *Runner) fail(ctx context.Context, task model.Task, reason string, err error, stdout, stderr string) {
	metrics.RecordMatchFailure(reason)
	r.logger.Error(ctx, "match failed",
		logger.Int("task_id", task.ID),
		logger.Int64("seed", task.Seed),
		logger.Ints("participants", task.Participants),
		logger.String("reason", reason),
		logger.String("stdout", truncate(stdout)),
		logger.String("stderr", truncate(stderr)),
		logger.Error(err),
	)
}

func truncate(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > maxLoggedOutput {
		return s[:maxLoggedOutput] + "..."
	}
	return s
}
