package referee

import (
	"time"

	"github.com/Telokis/cg-selfarena/pkg/logger"
)

// Option applies a configuration option to the Runner.
type Option func(*Runner)

// WithTimeout bounds each referee run. Zero means no limit.
func WithTimeout(d time.Duration) Option {
	return func(r *Runner) {
		if d >= 0 {
			r.timeout = d
		}
	}
}

// WithLogger sets a custom logger for the runner.
func WithLogger(l logger.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}
