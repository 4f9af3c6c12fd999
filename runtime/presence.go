package runtime

import (
	"log/slog"
	"slices"
	"sync"
	"time"

	"workspace-chat/clock"
	"workspace-chat/contract"
	"workspace-chat/domain/chat"
	"workspace-chat/domain/event"
	"workspace-chat/observability"
)

const (
	DefaultHeartbeatTimeout = 30 * time.Second
	DefaultTypingTTL        = 4 * time.Second
	MinTypingTTL            = time.Second
	MaxTypingTTL            = 10 * time.Second
)

// PresenceTracker holds the in-memory liveness of users per channel.
// State changes are handed to the hub without blocking: an event the hub
// cannot take right now waits in its channel's pending list, flushed by the
// next sweep, and later events of that channel queue behind it so their
// order is kept. Channels never wait on each other.
type PresenceTracker struct {
	log       *slog.Logger
	publisher contract.Publisher
	clock     clock.Clock
	metrics   *observability.Metrics
	timeout   time.Duration

	mu       sync.Mutex
	channels map[chat.ChannelID]*presenceChannel
}

type presenceChannel struct {
	mu      sync.Mutex
	entries map[chat.UserID]*chat.PresenceEntry
	// pending holds events the hub refused, in emission order.
	pending []event.DomainEvent
	// removed is set once the sweep dropped the channel from the tracker.
	removed bool
}

var _ contract.IPresence = (*PresenceTracker)(nil)

func NewPresenceTracker(log *slog.Logger, publisher contract.Publisher, clk clock.Clock, metrics *observability.Metrics, timeout time.Duration) *PresenceTracker {
	if timeout <= 0 {
		timeout = DefaultHeartbeatTimeout
	}
	return &PresenceTracker{
		log:       log,
		publisher: publisher,
		clock:     clk,
		metrics:   metrics,
		timeout:   timeout,
		channels:  make(map[chat.ChannelID]*presenceChannel),
	}
}

// Timeout is the heartbeat timeout after which an entry is evicted.
func (p *PresenceTracker) Timeout() time.Duration { return p.timeout }

// Heartbeat marks userID live in channelID. Only the absent to live
// transition emits an event; a heartbeat on a known entry refreshes it.
func (p *PresenceTracker) Heartbeat(channelID chat.ChannelID, userID chat.UserID) {
	ch := p.lockChannel(channelID)
	defer ch.mu.Unlock()
	p.touch(ch, channelID, userID, p.clock.Now())
}

// Leave removes userID immediately, clearing a typing indicator first.
func (p *PresenceTracker) Leave(channelID chat.ChannelID, userID chat.UserID) {
	ch := p.lockChannel(channelID)
	defer ch.mu.Unlock()
	entry, ok := ch.entries[userID]
	if !ok {
		return
	}
	var events []event.DomainEvent
	if entry.TypingUntil != nil {
		events = append(events, event.TypingChanged{ChannelID: channelID, UserID: userID, Typing: false})
	}
	delete(ch.entries, userID)
	events = append(events, event.PresenceChanged{ChannelID: channelID, UserID: userID, Live: false, LiveCount: len(ch.entries)})
	p.emit(ch, events...)
}

// SetTyping counts as a heartbeat and shows a typing indicator until now+ttl.
// ttl is clamped to [MinTypingTTL, MaxTypingTTL], zero meaning DefaultTypingTTL.
func (p *PresenceTracker) SetTyping(channelID chat.ChannelID, userID chat.UserID, ttl time.Duration) {
	switch {
	case ttl == 0:
		ttl = DefaultTypingTTL
	case ttl < MinTypingTTL:
		ttl = MinTypingTTL
	case ttl > MaxTypingTTL:
		ttl = MaxTypingTTL
	}

	ch := p.lockChannel(channelID)
	defer ch.mu.Unlock()
	now := p.clock.Now()
	entry := p.touch(ch, channelID, userID, now)
	until := now.Add(ttl)
	entry.TypingUntil = &until
	p.emit(ch, event.TypingChanged{ChannelID: channelID, UserID: userID, Typing: true, Until: &until})
}

// StopTyping clears an active typing indicator, typically once the message is sent.
func (p *PresenceTracker) StopTyping(channelID chat.ChannelID, userID chat.UserID) {
	ch := p.lockChannel(channelID)
	defer ch.mu.Unlock()
	entry, ok := ch.entries[userID]
	if !ok || entry.TypingUntil == nil {
		return
	}
	entry.TypingUntil = nil
	p.emit(ch, event.TypingChanged{ChannelID: channelID, UserID: userID, Typing: false})
}

// Live returns the users of channelID whose last heartbeat is within the timeout, sorted.
func (p *PresenceTracker) Live(channelID chat.ChannelID) []chat.UserID {
	p.mu.Lock()
	ch, ok := p.channels[channelID]
	p.mu.Unlock()
	if !ok {
		return nil
	}
	now := p.clock.Now()
	ch.mu.Lock()
	users := make([]chat.UserID, 0, len(ch.entries))
	for id, entry := range ch.entries {
		if entry.IsLive(now, p.timeout) {
			users = append(users, id)
		}
	}
	ch.mu.Unlock()
	slices.Sort(users)
	return users
}

// Sweep expires typing indicators and evicts entries whose last heartbeat is
// at least the timeout old. It never blocks and returns the live entry count.
func (p *PresenceTracker) Sweep(now time.Time) int {
	p.mu.Lock()
	ids := make([]chat.ChannelID, 0, len(p.channels))
	for id := range p.channels {
		ids = append(ids, id)
	}
	p.mu.Unlock()
	slices.Sort(ids)

	live := 0
	for _, channelID := range ids {
		live += p.sweepChannel(channelID, now)
	}
	p.metrics.SetPresenceLive(live)
	return live
}

func (p *PresenceTracker) sweepChannel(channelID chat.ChannelID, now time.Time) int {
	p.mu.Lock()
	ch, ok := p.channels[channelID]
	p.mu.Unlock()
	if !ok {
		return 0
	}
	ch.mu.Lock()
	defer ch.mu.Unlock()
	if ch.removed {
		return 0
	}
	p.flush(ch, channelID)

	users := make([]chat.UserID, 0, len(ch.entries))
	for id := range ch.entries {
		users = append(users, id)
	}
	slices.Sort(users)

	var events []event.DomainEvent
	for _, userID := range users {
		entry := ch.entries[userID]
		live := entry.IsLive(now, p.timeout)
		if entry.TypingUntil != nil && (!live || !entry.IsTyping(now)) {
			entry.TypingUntil = nil
			events = append(events, event.TypingChanged{ChannelID: channelID, UserID: userID, Typing: false})
		}
		if !live {
			delete(ch.entries, userID)
			events = append(events, event.PresenceChanged{ChannelID: channelID, UserID: userID, Live: false, LiveCount: len(ch.entries)})
			p.log.Debug("Presence expired", "channel_id", channelID, "user_id", userID)
		}
	}
	p.emit(ch, events...)

	if len(ch.entries) == 0 && len(ch.pending) == 0 {
		p.mu.Lock()
		if p.channels[channelID] == ch {
			delete(p.channels, channelID)
			ch.removed = true
		}
		p.mu.Unlock()
	}
	return len(ch.entries)
}

// touch must be called with ch.mu held.
func (p *PresenceTracker) touch(ch *presenceChannel, channelID chat.ChannelID, userID chat.UserID, now time.Time) *chat.PresenceEntry {
	if entry, ok := ch.entries[userID]; ok {
		entry.LastHeartbeatAt = now
		return entry
	}
	entry := &chat.PresenceEntry{ChannelID: channelID, UserID: userID, LastHeartbeatAt: now}
	ch.entries[userID] = entry
	p.emit(ch, event.PresenceChanged{ChannelID: channelID, UserID: userID, Live: true, LiveCount: len(ch.entries)})
	return entry
}

// lockChannel returns the locked state of channelID, creating it if needed.
func (p *PresenceTracker) lockChannel(channelID chat.ChannelID) *presenceChannel {
	for {
		p.mu.Lock()
		ch, ok := p.channels[channelID]
		if !ok {
			ch = &presenceChannel{entries: make(map[chat.UserID]*chat.PresenceEntry)}
			p.channels[channelID] = ch
		}
		p.mu.Unlock()

		ch.mu.Lock()
		if !ch.removed {
			return ch
		}
		ch.mu.Unlock()
	}
}

// emit must be called with ch.mu held.
func (p *PresenceTracker) emit(ch *presenceChannel, events ...event.DomainEvent) {
	if len(events) == 0 {
		return
	}
	if len(ch.pending) > 0 {
		ch.pending = append(ch.pending, events...)
		return
	}
	for i, e := range events {
		if !p.publisher.TryPublish(e) {
			ch.pending = append(ch.pending, events[i:]...)
			p.log.Debug("Hub busy, presence events deferred", "channel_id", e.Channel(), "pending", len(ch.pending))
			return
		}
	}
}

// flush must be called with ch.mu held.
func (p *PresenceTracker) flush(ch *presenceChannel, channelID chat.ChannelID) {
	sent := 0
	for _, e := range ch.pending {
		if !p.publisher.TryPublish(e) {
			break
		}
		sent++
	}
	if sent == len(ch.pending) {
		ch.pending = nil
		return
	}
	ch.pending = ch.pending[sent:]
	p.log.Debug("Hub still busy", "channel_id", channelID, "pending", len(ch.pending))
}

// Pending returns the number of events waiting for the hub, all channels included.
func (p *PresenceTracker) Pending() int {
	p.mu.Lock()
	channels := make([]*presenceChannel, 0, len(p.channels))
	for _, ch := range p.channels {
		channels = append(channels, ch)
	}
	p.mu.Unlock()

	total := 0
	for _, ch := range channels {
		ch.mu.Lock()
		total += len(ch.pending)
		ch.mu.Unlock()
	}
	return total
}
