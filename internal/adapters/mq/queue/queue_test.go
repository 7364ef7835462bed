package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Telokis/cg-selfarena/internal/domain/model"
)

func TestStream_BasicOperations(t *testing.T) {
	s := NewStream(WithCapacity(2))
	ctx := context.Background()

	if l := s.Len(); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}
	if c := s.Cap(); c != 2 {
		t.Errorf("expected capacity 2, got %d", c)
	}

	if err := s.Publish(ctx, model.MatchResult{TaskID: 1}); err != nil {
		t.Fatalf("expected publish to succeed: %v", err)
	}
	if err := s.Publish(ctx, model.MatchResult{TaskID: 0}); err != nil {
		t.Fatalf("expected publish to succeed: %v", err)
	}
	if l := s.Len(); l != 2 {
		t.Errorf("expected length 2, got %d", l)
	}
	_ = s.Close()

	var got []int
	err := s.Consume(ctx, func(r model.MatchResult) error {
		got = append(got, r.TaskID)
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected consume error: %v", err)
	}
	if len(got) != 2 || got[0] != 1 || got[1] != 0 {
		t.Errorf("expected completion order [1 0], got %v", got)
	}
}

func TestStream_Close(t *testing.T) {
	s := NewStream()
	ctx := context.Background()

	if s.IsClosed() {
		t.Error("expected stream to be open")
	}
	if err := s.Close(); err != nil {
		t.Errorf("unexpected close error: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("second close should be a no-op, got %v", err)
	}
	if !s.IsClosed() {
		t.Error("expected stream to be closed")
	}

	err := s.Publish(ctx, model.MatchResult{TaskID: 3})
	if !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}
}

func TestStream_PublishRespectsContext(t *testing.T) {
	s := NewStream(WithCapacity(1))
	if err := s.Publish(context.Background(), model.MatchResult{}); err != nil {
		t.Fatalf("expected publish to succeed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := s.Publish(ctx, model.MatchResult{TaskID: 1})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline error on full stream, got %v", err)
	}
}

func TestStream_ConsumeStopsOnError(t *testing.T) {
	s := NewStream(WithCapacity(4))
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_ = s.Publish(ctx, model.MatchResult{TaskID: i})
	}
	_ = s.Close()

	boom := errors.New("boom")
	seen := 0
	err := s.Consume(ctx, func(r model.MatchResult) error {
		seen++
		return boom
	})
	if !errors.Is(err, boom) || seen != 1 {
		t.Errorf("expected to stop after first error, seen=%d err=%v", seen, err)
	}
}

func TestStream_ConsumeRespectsContext(t *testing.T) {
	s := NewStream()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := s.Consume(ctx, func(model.MatchResult) error { return nil }); !errors.Is(err, context.Canceled) {
		t.Errorf("expected canceled, got %v", err)
	}
}

func TestStream_ConcurrentPublishers(t *testing.T) {
	const total = 500
	s := NewStream(WithCapacity(16))
	ctx := context.Background()

	var wg sync.WaitGroup
	for p := 0; p < 5; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < total/5; i++ {
				if err := s.Publish(ctx, model.MatchResult{TaskID: p*(total/5) + i}); err != nil {
					t.Errorf("publish failed: %v", err)
				}
			}
		}(p)
	}
	go func() {
		wg.Wait()
		_ = s.Close()
	}()

	seen := make(map[int]bool, total)
	err := s.Consume(ctx, func(r model.MatchResult) error {
		if seen[r.TaskID] {
			t.Errorf("task %d delivered twice", r.TaskID)
		}
		seen[r.TaskID] = true
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected consume error: %v", err)
	}
	if len(seen) != total {
		t.Errorf("expected %d results, got %d", total, len(seen))
	}
}
