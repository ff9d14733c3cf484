package queue

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestScheduler_RunsImmediatelyAndOnTick(t *testing.T) {
	var runs atomic.Int32
	ticked := make(chan struct{}, 10)

	s := NewScheduler(zerolog.Nop(), Job{
		Name:     "due_scan",
		Interval: 10 * time.Millisecond,
		Run: func(context.Context, time.Time) error {
			runs.Add(1)
			select {
			case ticked <- struct{}{}:
			default:
			}
			return nil
		},
	})

	ctx, cancel := context.WithCancel(context.Background())
	s.Start(ctx)
	for i := 0; i < 2; i++ {
		select {
		case <-ticked:
		case <-time.After(2 * time.Second):
			t.Fatalf("job did not run %d times", i+1)
		}
	}
	cancel()
	s.Wait()

	if runs.Load() < 2 {
		t.Fatalf("expected at least 2 runs, got %d", runs.Load())
	}
}

func TestScheduler_FailureKeepsLoopAlive(t *testing.T) {
	ticked := make(chan struct{}, 10)
	s := NewScheduler(zerolog.Nop(), Job{
		Name:     "daily_summary",
		Interval: 5 * time.Millisecond,
		Run: func(context.Context, time.Time) error {
			select {
			case ticked <- struct{}{}:
			default:
			}
			return errors.New("boom")
		},
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s.Start(ctx)

	for i := 0; i < 3; i++ {
		select {
		case <-ticked:
		case <-time.After(2 * time.Second):
			t.Fatalf("job stopped after failure (run %d)", i+1)
		}
	}
}

func TestScheduler_AppliesJobTimeout(t *testing.T) {
	got := make(chan bool, 1)
	s := NewScheduler(zerolog.Nop(), Job{
		Name:     "due_scan",
		Interval: time.Hour,
		Timeout:  time.Second,
		Run: func(ctx context.Context, _ time.Time) error {
			_, ok := ctx.Deadline()
			got <- ok
			return nil
		},
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s.Start(ctx)

	select {
	case ok := <-got:
		if !ok {
			t.Fatal("expected job context to carry a deadline")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("job did not run")
	}
}
