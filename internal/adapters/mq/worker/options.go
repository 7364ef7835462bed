package worker

import (
	"time"

	"github.com/Telokis/cg-selfarena/pkg/logger"
)

// Option applies a configuration option to the Pool.
type Option func(*Pool)

// WithName sets the pool name used for logging.
func WithName(name string) Option {
	return func(p *Pool) {
		if name != "" {
			p.name = name
		}
	}
}

// WithLogger sets a custom logger for the pool.
func WithLogger(l logger.Logger) Option {
	return func(p *Pool) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithPause sets how long a worker waits after each task before claiming
// the next one. Zero disables the pause.
func WithPause(d time.Duration) Option {
	return func(p *Pool) {
		if d >= 0 {
			p.pause = d
		}
	}
}
