package workers

import (
	"context"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"workspace-chat/mocks"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestSupervisor_CrashedGroupIsRestarted(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	group := mocks.NewMockWorker(ctrl)

	// Given a channel group that panics on every run
	var runs atomic.Int32
	group.EXPECT().Run(gomock.Any()).DoAndReturn(func(context.Context) error {
		runs.Add(1)
		panic("group crashed")
	}).AnyTimes()

	restarted := make(chan string, 16)
	sup := NewSupervisor(logs.GetLoggerFromLevel(slog.LevelDebug)).
		OnRestart(func(name string) {
			select {
			case restarted <- name:
			default:
			}
		})

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		sup.Add(group).Run(ctx)
	}()

	// When the supervisor has been running for a while
	select {
	case name := <-restarted:
		req.NotEmpty(name)
	case <-time.After(2 * time.Second):
		req.Fail("crashed group was never restarted")
	}

	// Then the group ran again after its crash and stops with the context
	req.Eventually(func() bool { return runs.Load() >= 2 }, 2*time.Second, 20*time.Millisecond)
	cancel()
	select {
	case <-stopped:
	case <-time.After(time.Second):
		req.Fail("supervisor ignored cancellation")
	}
}

func TestSupervisor_FinishedWorkerIsNotRestarted(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	sweeper := mocks.NewMockWorker(ctrl)

	// Given a worker whose Run returns cleanly exactly once
	sweeper.EXPECT().Run(gomock.Any()).Return(nil).Times(1)

	restarts := 0
	sup := NewSupervisor(logs.GetLoggerFromLevel(slog.LevelDebug)).
		OnRestart(func(string) { restarts++ })

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		sup.Add(sweeper).Run(context.Background())
	}()

	// Then Run returns on its own without any restart
	select {
	case <-stopped:
		req.Zero(restarts)
	case <-time.After(500 * time.Millisecond):
		req.Fail("supervisor kept running after a clean finish")
	}
}

func TestSupervisor_Start_While_Running(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctrl := gomock.NewController(t)

	blocking := mocks.NewMockWorker(ctrl)
	blocking.EXPECT().Run(gomock.Any()).DoAndReturn(func(ctx context.Context) error {
		<-ctx.Done()
		return nil
	})
	late := mocks.NewMockWorker(ctrl)
	started := make(chan struct{})
	late.EXPECT().Run(gomock.Any()).DoAndReturn(func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		return nil
	})

	sup := NewSupervisor(log)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sup.Add(blocking).Run(ctx)
		close(done)
	}()

	// When a worker joins after Run started
	sup.Start(ctx, late)
	select {
	case <-started:
	case <-time.After(time.Second):
		req.Fail("late worker never started")
	}

	// Then Stop waits for both
	sup.Stop()
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		req.Fail("supervisor did not stop")
	}
}
