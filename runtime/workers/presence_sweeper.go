package workers

import (
	"context"
	"log/slog"
	"time"

	"workspace-chat/clock"
)

type Sweeper interface {
	Sweep(now time.Time) int
}

// PresenceSweeperWorker evicts silent presence entries and expires typing
// indicators. It ticks every heartbeat timeout / 3.
type PresenceSweeperWorker struct {
	log      *slog.Logger
	sweeper  Sweeper
	clock    clock.Clock
	interval time.Duration
}

func NewPresenceSweeperWorker(log *slog.Logger, sweeper Sweeper, clk clock.Clock, heartbeatTimeout time.Duration) *PresenceSweeperWorker {
	interval := heartbeatTimeout / 3
	if interval <= 0 {
		interval = time.Second
	}
	return &PresenceSweeperWorker{log: log, sweeper: sweeper, clock: clk, interval: interval}
}

func (w *PresenceSweeperWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping presence sweeper")
			return nil
		case <-ticker.C:
			live := w.sweeper.Sweep(w.clock.Now())
			w.log.Debug("Presence swept", "live", live)
		}
	}
}
