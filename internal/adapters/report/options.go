package report

import "io"

// Option applies a configuration option to the Text reporter.
type Option func(*Text)

// WithOutput redirects the report. Nil is ignored.
func WithOutput(w io.Writer) Option {
	return func(t *Text) {
		if w != nil {
			t.out = w
		}
	}
}

// WithQuiet suppresses per-match progress lines. The summary is always
// printed.
func WithQuiet(quiet bool) Option {
	return func(t *Text) {
		t.quiet = quiet
	}
}
