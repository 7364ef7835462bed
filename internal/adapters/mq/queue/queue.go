// Package queue carries completed match results from the pool workers to
// the single consumer that aggregates and reports them.
//
// Results arrive in completion order, which is not task order.
package queue

import (
	"context"
	"fmt"
	"sync"

	"github.com/Telokis/cg-selfarena/internal/domain/model"
	"github.com/Telokis/cg-selfarena/pkg/metrics"
)

// Default stream configuration constants.
const (
	defaultCapacity = 1024
)

// Stream is a bounded, closable channel of match results.
type Stream struct {
	results  chan model.MatchResult
	capacity int
	mu       sync.RWMutex
	closed   bool
}

// NewStream creates a results stream with configuration options.
func NewStream(opts ...Option) *Stream {
	s := &Stream{
		capacity: defaultCapacity,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.results = make(chan model.MatchResult, s.capacity)
	return s
}

// Publish hands one result to the consumer. It blocks while the buffer
// is full, until ctx ends. Publishing after Close returns ErrClosed.
func (s *Stream) Publish(ctx context.Context, r model.MatchResult) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return fmt.Errorf("publish task %d: %w", r.TaskID, ErrClosed)
	}

	select {
	case s.results <- r:
		metrics.RecordStreamPublish(len(s.results))
		return nil
	case <-ctx.Done():
		return fmt.Errorf("publish task %d: %w", r.TaskID, ctx.Err())
	}
}

// Consume calls fn for every result until the stream is closed and
// drained. It stops early with the first error from fn or when ctx ends.
func (s *Stream) Consume(ctx context.Context, fn func(model.MatchResult) error) error {
	for {
		select {
		case r, ok := <-s.results:
			if !ok {
				return nil
			}
			metrics.RecordStreamConsume(len(s.results))
			if err := fn(r); err != nil {
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Len returns the number of buffered results.
func (s *Stream) Len() int {
	return len(s.results)
}

// Cap returns the buffer capacity.
func (s *Stream) Cap() int {
	return s.capacity
}

// Close marks the end of the stream. Buffered results remain
// consumable. Closing twice is a no-op.
func (s *Stream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	close(s.results)
	s.closed = true
	return nil
}

// IsClosed returns true if the stream has been closed.
func (s *Stream) IsClosed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed
}
