package workers

import (
	"context"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"workspace-chat/clock"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

type countingSweeper struct {
	calls atomic.Int32
	last  atomic.Int64
}

func (s *countingSweeper) Sweep(now time.Time) int {
	s.calls.Add(1)
	s.last.Store(now.UnixNano())
	return 0
}

func TestPresenceSweeper_Ticks_Until_Cancelled(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	sweeper := &countingSweeper{}

	// Given a 30ms timeout, the sweep runs every 10ms
	worker := NewPresenceSweeperWorker(log, sweeper, clock.Fake(now), 30*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- worker.Run(ctx) }()

	req.Eventually(func() bool { return sweeper.calls.Load() >= 3 }, time.Second, 5*time.Millisecond)
	req.Equal(now.UnixNano(), sweeper.last.Load())

	// When the context is cancelled the worker returns cleanly
	cancel()
	select {
	case err := <-done:
		req.NoError(err)
	case <-time.After(time.Second):
		req.Fail("sweeper did not stop")
	}
}
