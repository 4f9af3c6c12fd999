// Package observability exposes the Prometheus collectors of the messaging core.
// A nil *Metrics is valid and records nothing.
package observability

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
)

// HubStats is a point in time view of the hub used by the stats reporter.
type HubStats struct {
	Groups      int
	Subscribers int
	Published   uint64
	Evicted     uint64
}

type Metrics struct {
	eventsPublished    *prometheus.CounterVec
	eventsDropped      prometheus.Counter
	subscribersEvicted prometheus.Counter
	hubGroups          prometheus.Gauge
	hubSubscribers     prometheus.Gauge
	sessionsOpen       prometheus.Gauge
	intents            *prometheus.CounterVec
	intentRetries      *prometheus.CounterVec
	presenceLive       prometheus.Gauge
	workerRestarts     *prometheus.CounterVec
	processRSS         prometheus.Gauge
	processCPU         prometheus.Gauge

	published atomic.Uint64
	evicted   atomic.Uint64
}

// NewMetrics creates the collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		eventsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "chat_hub_events_published_total",
			Help: "Events stamped and fanned out by channel groups.",
		}, []string{"kind"}),
		eventsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "chat_hub_events_dropped_total",
			Help: "Non blocking publishes refused because a group queue was full.",
		}),
		subscribersEvicted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "chat_hub_subscribers_evicted_total",
			Help: "Subscribers removed from a group because their outbound queue was full.",
		}),
		hubGroups: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "chat_hub_groups",
			Help: "Channel groups currently held by the hub.",
		}),
		hubSubscribers: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "chat_hub_subscribers",
			Help: "Subscriptions across all channel groups.",
		}),
		sessionsOpen: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "chat_gateway_sessions_open",
			Help: "Sessions that are not closed.",
		}),
		intents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "chat_gateway_intents_total",
			Help: "Inbound intents by operation and outcome code.",
		}, []string{"op", "code"}),
		intentRetries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "chat_gateway_intent_retries_total",
			Help: "Retries after a collaborator failure.",
		}, []string{"op"}),
		presenceLive: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "chat_presence_live_entries",
			Help: "Live presence entries after the last sweep.",
		}),
		workerRestarts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "chat_worker_restarts_total",
			Help: "Supervised worker restarts after a crash.",
		}, []string{"worker"}),
		processRSS: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "chat_process_rss_bytes",
			Help: "Resident set size sampled by the stats reporter.",
		}),
		processCPU: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "chat_process_cpu_percent",
			Help: "CPU usage sampled by the stats reporter.",
		}),
	}
	if reg != nil {
		reg.MustRegister(
			m.eventsPublished, m.eventsDropped, m.subscribersEvicted,
			m.hubGroups, m.hubSubscribers, m.sessionsOpen,
			m.intents, m.intentRetries, m.presenceLive,
			m.workerRestarts, m.processRSS, m.processCPU,
		)
	}
	return m
}

func (m *Metrics) EventPublished(kind string) {
	if m == nil {
		return
	}
	m.published.Add(1)
	m.eventsPublished.WithLabelValues(kind).Inc()
}

func (m *Metrics) EventDropped() {
	if m == nil {
		return
	}
	m.eventsDropped.Inc()
}

func (m *Metrics) SubscriberEvicted() {
	if m == nil {
		return
	}
	m.evicted.Add(1)
	m.subscribersEvicted.Inc()
}

func (m *Metrics) SetHubSize(groups, subscribers int) {
	if m == nil {
		return
	}
	m.hubGroups.Set(float64(groups))
	m.hubSubscribers.Set(float64(subscribers))
}

func (m *Metrics) SessionOpened() {
	if m == nil {
		return
	}
	m.sessionsOpen.Inc()
}

func (m *Metrics) SessionClosed() {
	if m == nil {
		return
	}
	m.sessionsOpen.Dec()
}

func (m *Metrics) IntentHandled(op, code string) {
	if m == nil {
		return
	}
	m.intents.WithLabelValues(op, code).Inc()
}

func (m *Metrics) IntentRetried(op string) {
	if m == nil {
		return
	}
	m.intentRetries.WithLabelValues(op).Inc()
}

func (m *Metrics) SetPresenceLive(n int) {
	if m == nil {
		return
	}
	m.presenceLive.Set(float64(n))
}

func (m *Metrics) WorkerRestarted(name string) {
	if m == nil {
		return
	}
	m.workerRestarts.WithLabelValues(name).Inc()
}

func (m *Metrics) SetProcessStats(rss uint64, cpu float64) {
	if m == nil {
		return
	}
	m.processRSS.Set(float64(rss))
	m.processCPU.Set(cpu)
}

// Totals returns the published and evicted counts since start.
func (m *Metrics) Totals() (published, evicted uint64) {
	if m == nil {
		return 0, 0
	}
	return m.published.Load(), m.evicted.Load()
}
