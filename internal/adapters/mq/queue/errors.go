package queue

import "errors"

// Sentinel kinds for stream errors.
var (
	ErrClosed = errors.New("results stream closed")
)
