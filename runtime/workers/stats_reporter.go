package workers

import (
	"context"
	"log/slog"
	"os"
	"time"

	"workspace-chat/observability"

	"github.com/shirou/gopsutil/process"
)

// StatsSource is what the reporter needs from the hub.
type StatsSource interface {
	Stats() observability.HubStats
}

// StatsReporterWorker samples process RSS/CPU and hub sizes on a ticker,
// logs them and pushes them to the metrics.
type StatsReporterWorker struct {
	log      *slog.Logger
	hub      StatsSource
	metrics  *observability.Metrics
	interval time.Duration
}

func NewStatsReporterWorker(log *slog.Logger, hub StatsSource, metrics *observability.Metrics, interval time.Duration) *StatsReporterWorker {
	return &StatsReporterWorker{log: log, hub: hub, metrics: metrics, interval: interval}
}

func (w *StatsReporterWorker) Run(ctx context.Context) error {
	w.log.Info("Starting stats reporter", "interval", w.interval)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			w.report(p)
		}
	}
}

func (w *StatsReporterWorker) report(p *process.Process) {
	stats := w.hub.Stats()
	rss, cpu, err := selfStats(p)
	if err != nil {
		w.log.Error("Failed to collect self stats", "error", err)
	} else {
		w.metrics.SetProcessStats(rss, cpu)
	}
	w.metrics.SetHubSize(stats.Groups, stats.Subscribers)
	w.log.Info("Stats",
		"groups", stats.Groups,
		"subscribers", stats.Subscribers,
		"published", stats.Published,
		"evicted", stats.Evicted,
		"rss_bytes", rss,
		"cpu_percent", cpu,
	)
}

// selfStats retrieves memory and CPU usage of the given process.
func selfStats(p *process.Process) (uint64, float64, error) {
	memInfo, err := p.MemoryInfo()
	if err != nil {
		return 0, 0, err
	}
	cpuPercent, err := p.CPUPercent()
	if err != nil {
		return 0, 0, err
	}
	return memInfo.RSS, cpuPercent, nil
}
