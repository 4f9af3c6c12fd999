package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"workspace-chat/clock"
	"workspace-chat/contract"
	"workspace-chat/domain/chat"
	"workspace-chat/domain/event"
	"workspace-chat/errors"
	"workspace-chat/observability"
)

const (
	DefaultGroupQueueSize = 1024
	DefaultRingSize       = 256
)

// Hub keeps one fan-out group per channel, created on first use.
// Each group runs as a supervised worker, so a crash in one channel never
// stalls another. The hub is itself a worker: groups start once it runs.
type Hub struct {
	log        *slog.Logger
	authorizer contract.Authorizer
	supervisor contract.ISupervisor
	metrics    *observability.Metrics
	clock      clock.Clock
	queueSize  int
	ringSize   int

	mu      sync.RWMutex
	groups  map[chat.ChannelID]*channelGroup
	ctx     context.Context
	pending []*channelGroup
}

var (
	_ contract.IHub   = (*Hub)(nil)
	_ contract.Worker = (*Hub)(nil)
)

func NewHub(log *slog.Logger, authorizer contract.Authorizer, supervisor contract.ISupervisor,
	metrics *observability.Metrics, clk clock.Clock, queueSize, ringSize int) *Hub {
	if queueSize <= 0 {
		queueSize = DefaultGroupQueueSize
	}
	if ringSize <= 0 {
		ringSize = DefaultRingSize
	}
	return &Hub{
		log:        log,
		authorizer: authorizer,
		supervisor: supervisor,
		metrics:    metrics,
		clock:      clk,
		queueSize:  queueSize,
		ringSize:   ringSize,
		groups:     make(map[chat.ChannelID]*channelGroup),
	}
}

func (h *Hub) GetName() contract.WorkerName { return "Hub" }

// Run starts the groups created so far and every group created later,
// until ctx is done.
func (h *Hub) Run(ctx context.Context) error {
	h.mu.Lock()
	h.ctx = ctx
	pending := h.pending
	h.pending = nil
	h.mu.Unlock()

	for _, g := range pending {
		h.supervisor.Start(ctx, g)
	}
	h.log.Info("Hub started", "groups", len(pending))

	<-ctx.Done()

	h.mu.Lock()
	h.ctx = nil
	h.mu.Unlock()
	return nil
}

// Publish queues the event on its channel group, waiting for room if needed.
// An event that never gets queued is lost for the group: its subscribers are
// evicted and replay across it reports a gap, so clients backfill.
func (h *Hub) Publish(ctx context.Context, e event.DomainEvent) error {
	g := h.group(e.Channel())
	select {
	case g.queue <- e:
		return nil
	case <-ctx.Done():
		h.metrics.EventDropped()
		g.lose(fmt.Errorf("%w: %s", errors.ErrEventLost, e.Kind()))
		return fmt.Errorf("%w: %w", errors.ErrEventLost, ctx.Err())
	}
}

// TryPublish queues the event only if its group has room right now.
func (h *Hub) TryPublish(e event.DomainEvent) bool {
	g := h.group(e.Channel())
	select {
	case g.queue <- e:
		return true
	default:
		h.metrics.EventDropped()
		return false
	}
}

// Subscribe attaches sub to the group of channelID. Membership is checked
// once here; later membership changes are not enforced on live subscriptions.
func (h *Hub) Subscribe(ctx context.Context, channelID chat.ChannelID, sub contract.Subscriber) error {
	ok, err := h.authorizer.CanAccess(ctx, sub.UserID(), channelID)
	if err != nil {
		return err
	}
	if !ok {
		return errors.ErrNotAMember
	}
	h.group(channelID).add(sub)
	h.log.Debug("Subscribed", "channel_id", channelID, "subscriber_id", sub.ID())
	h.refreshSize()
	return nil
}

func (h *Hub) Unsubscribe(channelID chat.ChannelID, subscriberID string) {
	h.mu.RLock()
	g, ok := h.groups[channelID]
	h.mu.RUnlock()
	if !ok {
		return
	}
	if g.remove(subscriberID) {
		h.log.Debug("Unsubscribed", "channel_id", channelID, "subscriber_id", subscriberID)
		h.refreshSize()
	}
}

// ReplaySince reads the ring of an existing group. A channel without a group
// has seen no event since the hub started.
func (h *Hub) ReplaySince(channelID chat.ChannelID, seq uint64) ([]event.Envelope, error) {
	g, ok := h.lookup(channelID)
	if !ok {
		if seq == 0 {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: seq %d is ahead of head 0", errors.ErrGapDetected, seq)
	}
	return g.replaySince(seq)
}

// Head returns the last seq stamped in channelID, zero before any event.
func (h *Hub) Head(channelID chat.ChannelID) uint64 {
	g, ok := h.lookup(channelID)
	if !ok {
		return 0
	}
	return g.head()
}

func (h *Hub) Stats() observability.HubStats {
	h.mu.RLock()
	stats := observability.HubStats{Groups: len(h.groups)}
	for _, g := range h.groups {
		stats.Subscribers += g.subscriberCount()
	}
	h.mu.RUnlock()
	stats.Published, stats.Evicted = h.metrics.Totals()
	return stats
}

func (h *Hub) lookup(channelID chat.ChannelID) (*channelGroup, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	g, ok := h.groups[channelID]
	return g, ok
}

func (h *Hub) group(channelID chat.ChannelID) *channelGroup {
	if g, ok := h.lookup(channelID); ok {
		return g
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	g, ok := h.groups[channelID]
	if ok {
		return g
	}
	g = newChannelGroup(channelID, h.log, h.clock, h.metrics, h.queueSize, h.ringSize)
	h.groups[channelID] = g
	if h.ctx != nil {
		h.supervisor.Start(h.ctx, g)
	} else {
		h.pending = append(h.pending, g)
	}
	return g
}

func (h *Hub) refreshSize() {
	stats := h.Stats()
	h.metrics.SetHubSize(stats.Groups, stats.Subscribers)
}
