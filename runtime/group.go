package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"

	"workspace-chat/clock"
	"workspace-chat/contract"
	"workspace-chat/domain/chat"
	"workspace-chat/domain/event"
	"workspace-chat/errors"
	"workspace-chat/observability"
)

// channelGroup owns the event stream of one channel.
// Its Run loop is the only writer of seq and of the ring, so the order in
// which events leave the queue is the order every subscriber observes.
type channelGroup struct {
	channelID chat.ChannelID
	log       *slog.Logger
	clock     clock.Clock
	metrics   *observability.Metrics
	queue     chan event.DomainEvent

	// subscribers is replaced, never mutated, so delivery iterates a snapshot
	// while Subscribe and Unsubscribe run concurrently.
	subscribers atomic.Pointer[[]contract.Subscriber]
	subMu       sync.Mutex

	mu   sync.RWMutex
	seq  uint64
	ring *ring
}

func newChannelGroup(channelID chat.ChannelID, log *slog.Logger, clk clock.Clock, metrics *observability.Metrics, queueSize, ringSize int) *channelGroup {
	g := &channelGroup{
		channelID: channelID,
		log:       log.With("channel_id", channelID),
		clock:     clk,
		metrics:   metrics,
		queue:     make(chan event.DomainEvent, queueSize),
		ring:      newRing(ringSize),
	}
	g.subscribers.Store(&[]contract.Subscriber{})
	return g
}

func (g *channelGroup) GetName() contract.WorkerName {
	return contract.WorkerName(fmt.Sprintf("ChannelGroup[%s]", g.channelID))
}

func (g *channelGroup) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			g.log.Debug("Context done, stopping channel group")
			return nil
		case evt := <-g.queue:
			g.dispatch(evt)
		}
	}
}

// dispatch stamps the event, keeps it for replay and fans it out.
// A subscriber refusing the envelope is removed and told why.
func (g *channelGroup) dispatch(evt event.DomainEvent) {
	g.mu.Lock()
	g.seq++
	envelope := event.Envelope{Seq: g.seq, At: g.clock.Now(), Event: evt}
	g.ring.push(envelope)
	g.mu.Unlock()
	g.metrics.EventPublished(string(evt.Kind()))

	for _, sub := range *g.subscribers.Load() {
		if sub.Deliver(envelope) {
			continue
		}
		g.log.Warn("Subscriber evicted on backpressure", "subscriber_id", sub.ID(), "seq", envelope.Seq)
		g.remove(sub.ID())
		g.metrics.SubscriberEvicted()
		sub.Evicted(g.channelID, errors.ErrBackpressure)
	}
}

// lose accounts for an event that never reached the queue. The seq it would
// have taken is burnt and the ring reset, so any replay across it is a gap,
// and every current subscriber is evicted with cause.
func (g *channelGroup) lose(cause error) {
	g.mu.Lock()
	g.seq++
	g.ring = newRing(len(g.ring.items))
	g.mu.Unlock()

	for _, sub := range *g.subscribers.Load() {
		if !g.remove(sub.ID()) {
			continue
		}
		g.log.Warn("Subscriber evicted after a lost event", "subscriber_id", sub.ID(), "error", cause)
		g.metrics.SubscriberEvicted()
		sub.Evicted(g.channelID, cause)
	}
}

func (g *channelGroup) add(sub contract.Subscriber) {
	g.subMu.Lock()
	defer g.subMu.Unlock()
	current := *g.subscribers.Load()
	next := slices.DeleteFunc(slices.Clone(current), func(s contract.Subscriber) bool { return s.ID() == sub.ID() })
	next = append(next, sub)
	g.subscribers.Store(&next)
}

// remove reports whether the subscriber was present.
func (g *channelGroup) remove(subscriberID string) bool {
	g.subMu.Lock()
	defer g.subMu.Unlock()
	current := *g.subscribers.Load()
	next := slices.DeleteFunc(slices.Clone(current), func(s contract.Subscriber) bool { return s.ID() == subscriberID })
	if len(next) == len(current) {
		return false
	}
	g.subscribers.Store(&next)
	return true
}

func (g *channelGroup) subscriberCount() int {
	return len(*g.subscribers.Load())
}

// replaySince returns the envelopes with a seq greater than seq.
// It fails with ErrGapDetected when some of them already left the ring, or
// when seq is ahead of the head, which happens after a server restart.
func (g *channelGroup) replaySince(seq uint64) ([]event.Envelope, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if seq > g.seq {
		return nil, fmt.Errorf("%w: seq %d is ahead of head %d", errors.ErrGapDetected, seq, g.seq)
	}
	if seq == g.seq {
		return nil, nil
	}
	oldest, ok := g.ring.oldestSeq()
	if !ok || seq+1 < oldest {
		return nil, fmt.Errorf("%w: seq %d is older than the buffer", errors.ErrGapDetected, seq)
	}
	return g.ring.since(seq), nil
}

func (g *channelGroup) head() uint64 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.seq
}

// ring is a fixed capacity buffer of the latest envelopes, oldest first.
type ring struct {
	items []event.Envelope
	start int
	size  int
}

func newRing(capacity int) *ring {
	return &ring{items: make([]event.Envelope, capacity)}
}

func (r *ring) push(e event.Envelope) {
	if len(r.items) == 0 {
		return
	}
	idx := (r.start + r.size) % len(r.items)
	r.items[idx] = e
	if r.size < len(r.items) {
		r.size++
		return
	}
	r.start = (r.start + 1) % len(r.items)
}

func (r *ring) oldestSeq() (uint64, bool) {
	if r.size == 0 {
		return 0, false
	}
	return r.items[r.start].Seq, true
}

func (r *ring) since(seq uint64) []event.Envelope {
	var out []event.Envelope
	for i := 0; i < r.size; i++ {
		e := r.items[(r.start+i)%len(r.items)]
		if e.Seq > seq {
			out = append(out, e)
		}
	}
	return out
}
