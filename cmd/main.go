package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/Telokis/cg-selfarena/internal/adapters/referee"
	"github.com/Telokis/cg-selfarena/internal/adapters/report"
	service "github.com/Telokis/cg-selfarena/internal/app"
	"github.com/Telokis/cg-selfarena/internal/config"
	"github.com/Telokis/cg-selfarena/pkg/logger"
	"github.com/Telokis/cg-selfarena/pkg/metrics"
)

// HTTP server timeout constants for the metrics endpoint.
const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 5 * time.Second
)

// cliFlags holds the raw flag values; only flags the user set become
// config overrides.
type cliFlags struct {
	seed        int64
	games       int
	swap        bool
	batches     int
	quiet       bool
	logLevel    string
	metricsAddr string
}

func (f *cliFlags) overrides(fs *pflag.FlagSet) config.Overrides {
	var ov config.Overrides
	if fs.Changed("seed") {
		ov.Seed = &f.seed
	}
	if fs.Changed("games") {
		ov.GamesPerMatchup = &f.games
	}
	if fs.Changed("swap") {
		ov.Swap = &f.swap
	}
	if fs.Changed("batches") {
		ov.Batches = &f.batches
	}
	if fs.Changed("quiet") {
		ov.Quiet = &f.quiet
	}
	if fs.Changed("log-level") {
		ov.LogLevel = &f.logLevel
	}
	if fs.Changed("metrics-addr") {
		ov.MetricsAddr = &f.metricsAddr
	}
	return ov
}

func newRootCmd() *cobra.Command {
	f := &cliFlags{}

	cmd := &cobra.Command{
		Use:   "selfarena <config-file> [flags]",
		Short: "SelfArena - Tournament runner for competitive games",
		Long: `SelfArena plays every matchup of a set of bots through a referee,
runs the matches concurrently and prints each bot's win rate.`,
		Example: `  selfarena config.yml --seed 33 --games 10
  selfarena tournament.yml --swap -n 5`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("%w: config file is required", config.ErrInvalidConfig)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cmd, args[0], f.overrides(cmd.Flags()))
		},
	}

	fs := cmd.Flags()
	fs.Int64Var(&f.seed, "seed", 0, "override the seed (0 draws a random seed per game)")
	fs.IntVarP(&f.games, "games", "n", 0, "override the number of games per matchup")
	fs.BoolVar(&f.swap, "swap", false, "play every seating with each player in the first seat")
	fs.IntVarP(&f.batches, "batches", "b", 0, "override the number of matches run simultaneously")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "hide the per-match output")
	fs.StringVar(&f.logLevel, "log-level", "", "log level: debug, info, warn, error")
	fs.StringVar(&f.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address during the run")
	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		if name == "batch" {
			name = "batches"
		}
		return pflag.NormalizedName(name)
	})

	return cmd
}

func run(ctx context.Context, cmd *cobra.Command, path string, ov config.Overrides) error {
	cfg, err := config.Load(ctx, path, ov)
	if err != nil {
		return err
	}

	log := logger.Get()

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	if cfg.MetricsAddr != "" {
		stop := serveMetrics(ctx, cfg.MetricsAddr, log)
		defer stop()
	}

	runner, err := referee.New(cfg.RefereeArgs, cfg.PlayerCommands(),
		referee.WithTimeout(cfg.Execution.MatchTimeout),
		referee.WithLogger(log.Named("referee")),
	)
	if err != nil {
		return fmt.Errorf("%w: %w", config.ErrInvalidConfig, err)
	}

	reporter := report.New(cfg.PlayerNames(),
		report.WithOutput(cmd.OutOrStdout()),
		report.WithQuiet(cfg.Quiet),
	)

	opts := append(service.FromConfig(cfg),
		service.WithRunner(runner),
		service.WithReporter(reporter),
		service.WithLogger(log.Named("tournament")),
	)
	_, err = service.New(opts...).Run(ctx)
	return err
}

// serveMetrics exposes /metrics until the returned stop function runs.
func serveMetrics(ctx context.Context, addr string, log logger.Logger) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "serving metrics", logger.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(ctx, "metrics server failed", logger.Error(err))
		}
	}()

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error(ctx, "metrics server shutdown failed", logger.Error(err))
		}
	}
}

// execute runs the CLI and returns the process exit code.
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		if errors.Is(err, config.ErrInvalidConfig) || isFlagError(err) {
			fmt.Fprintln(stderr)
			fmt.Fprint(stderr, cmd.UsageString())
		}
		return 1
	}
	return 0
}

func isFlagError(err error) bool {
	msg := err.Error()
	return strings.HasPrefix(msg, "unknown flag") ||
		strings.HasPrefix(msg, "unknown shorthand flag") ||
		strings.HasPrefix(msg, "invalid argument")
}

func main() {
	// Initialize logging
	if err := logger.Init(); err != nil {
		// Use fmt for initialization errors since logger isn't available yet
		fmt.Fprintln(os.Stderr, "failed to initialize logging: "+err.Error())
		os.Exit(1)
	}

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	_ = logger.Sync()
	os.Exit(code)
}
