package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestScheduler(t *testing.T) *Scheduler {
	t.Helper()
	return New(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestJobsRunOnInterval(t *testing.T) {
	s := newTestScheduler(t)

	var ticks atomic.Int32
	require.NoError(t, s.AddJob("ticker", time.Second, func(ctx context.Context) error {
		ticks.Add(1)
		return nil
	}))

	s.Start()
	time.Sleep(2500 * time.Millisecond)
	<-s.Stop().Done()

	assert.GreaterOrEqual(t, ticks.Load(), int32(2))
}

func TestFailingJobDoesNotAffectOthers(t *testing.T) {
	s := newTestScheduler(t)

	var healthy atomic.Int32
	require.NoError(t, s.AddJob("failing", time.Second, func(ctx context.Context) error {
		return errors.New("upstream down")
	}))
	require.NoError(t, s.AddJob("panicking", time.Second, func(ctx context.Context) error {
		panic("boom")
	}))
	require.NoError(t, s.AddJob("healthy", time.Second, func(ctx context.Context) error {
		healthy.Add(1)
		return nil
	}))

	s.Start()
	time.Sleep(2500 * time.Millisecond)
	<-s.Stop().Done()

	assert.GreaterOrEqual(t, healthy.Load(), int32(2))
}

func TestSlowJobTicksAreSkippedNotQueued(t *testing.T) {
	s := newTestScheduler(t)

	var started atomic.Int32
	require.NoError(t, s.AddJob("slow", time.Second, func(ctx context.Context) error {
		started.Add(1)
		time.Sleep(10 * time.Second)
		return nil
	}))

	s.Start()
	time.Sleep(2500 * time.Millisecond)
	s.Stop()

	// Only the first tick ran; overlapping ticks were dropped.
	assert.Equal(t, int32(1), started.Load())
}

func TestJobGetsDeadlineContext(t *testing.T) {
	s := newTestScheduler(t)

	done := make(chan struct{})
	var hasDeadline atomic.Bool
	require.NoError(t, s.AddJob("check", time.Second, func(ctx context.Context) error {
		_, ok := ctx.Deadline()
		hasDeadline.Store(ok)
		select {
		case done <- struct{}{}:
		default:
		}
		return nil
	}))

	s.Start()
	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("job never ran")
	}
	<-s.Stop().Done()

	assert.True(t, hasDeadline.Load())
}
