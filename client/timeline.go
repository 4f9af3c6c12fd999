// Package client holds the client side of a session: a per-channel timeline
// reconciling optimistic sends with confirmed events, and a gRPC connector.
package client

import (
	"slices"
	"sync"

	"workspace-chat/domain/event"
	"workspace-chat/gateway/wire"
)

// MaxPending bounds the events buffered behind a missing seq.
const MaxPending = 64

// Entry is one visible line of a timeline.
type Entry struct {
	Message       wire.Message
	CorrelationID string
	Pending       bool
}

// Timeline projects the event stream of one channel.
// Events are applied in seq order exactly once. A confirmed MessageCreated
// replaces the optimistic entry with the same correlation id.
type Timeline struct {
	mu          sync.Mutex
	channelID   string
	lastSeq     uint64
	started     bool
	pending     map[uint64]wire.Event
	messages    map[uint64]wire.Message
	optimistic  []Entry
	needsResync bool
}

func NewTimeline(channelID string) *Timeline {
	return &Timeline{
		channelID: channelID,
		pending:   make(map[uint64]wire.Event),
		messages:  make(map[uint64]wire.Message),
	}
}

func (t *Timeline) ChannelID() string { return t.channelID }

// AddOptimistic shows a message before the server confirms it.
func (t *Timeline) AddOptimistic(correlationID, authorID, body string, parentID *uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.optimistic = append(t.optimistic, Entry{
		Message: wire.Message{
			ChannelID: t.channelID,
			AuthorID:  authorID,
			Body:      body,
			ParentID:  parentID,
		},
		CorrelationID: correlationID,
		Pending:       true,
	})
}

// Seed loads backfilled history. Known ids are kept as they are.
func (t *Timeline) Seed(messages []wire.Message) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, m := range messages {
		if _, ok := t.messages[m.ID]; !ok {
			t.messages[m.ID] = m
		}
	}
}

// Refresh overwrites messages with a history page read from the store,
// which is newer than anything the timeline holds for those ids.
func (t *Timeline) Refresh(messages []wire.Message) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, m := range messages {
		t.messages[m.ID] = m
	}
}

// LastMessageID is the highest confirmed message id, zero when empty.
func (t *Timeline) LastMessageID() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	var last uint64
	for id := range t.messages {
		last = max(last, id)
	}
	return last
}

// Resync restarts sequencing after seq, typically once a backfill is done.
func (t *Timeline) Resync(seq uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.lastSeq = seq
	t.started = true
	t.needsResync = false
	for s := range t.pending {
		if s <= seq {
			delete(t.pending, s)
		}
	}
	t.drain()
}

// Apply takes one event of this channel. Stale seqs are dropped and early
// ones buffered until the gap closes. It reports whether the event was new.
func (t *Timeline) Apply(e wire.Event) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if e.Seq == 0 {
		return false
	}
	if !t.started {
		t.started = true
		t.lastSeq = e.Seq - 1
	}
	if e.Seq <= t.lastSeq {
		return false
	}
	if _, ok := t.pending[e.Seq]; ok {
		return false
	}
	if e.Seq > t.lastSeq+1 {
		t.pending[e.Seq] = e
		if len(t.pending) > MaxPending {
			t.needsResync = true
		}
		return true
	}
	t.apply(e)
	t.lastSeq = e.Seq
	t.drain()
	return true
}

// NeedsResync reports a gap that did not close in time.
func (t *Timeline) NeedsResync() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.needsResync
}

func (t *Timeline) LastSeq() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lastSeq
}

// Visible returns confirmed messages by id followed by pending sends.
func (t *Timeline) Visible() []Entry {
	t.mu.Lock()
	defer t.mu.Unlock()
	ids := make([]uint64, 0, len(t.messages))
	for id := range t.messages {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	entries := make([]Entry, 0, len(ids)+len(t.optimistic))
	for _, id := range ids {
		entries = append(entries, Entry{Message: t.messages[id]})
	}
	return append(entries, t.optimistic...)
}

func (t *Timeline) drain() {
	for {
		next, ok := t.pending[t.lastSeq+1]
		if !ok {
			if len(t.pending) == 0 {
				t.needsResync = false
			}
			return
		}
		delete(t.pending, next.Seq)
		t.apply(next)
		t.lastSeq = next.Seq
	}
}

func (t *Timeline) apply(e wire.Event) {
	payload, err := e.Payload()
	if err != nil {
		return
	}
	switch p := payload.(type) {
	case *wire.MessageCreated:
		if p.CorrelationID != "" {
			t.optimistic = slices.DeleteFunc(t.optimistic, func(o Entry) bool {
				return o.CorrelationID == p.CorrelationID
			})
		}
		if _, ok := t.messages[p.Message.ID]; !ok {
			t.messages[p.Message.ID] = p.Message
		}
	case *wire.MessageEdited:
		t.messages[p.Message.ID] = p.Message
	case *wire.MessageDeleted:
		if m, ok := t.messages[p.MessageID]; ok {
			m.Body = ""
			m.Attachments = nil
			m.DeletedAt = &p.DeletedAt
			t.messages[p.MessageID] = m
		}
	case *wire.ReactionChanged:
		m, ok := t.messages[p.MessageID]
		if !ok {
			return
		}
		reactions := make(map[string][]string, len(m.Reactions)+1)
		for symbol, users := range m.Reactions {
			reactions[symbol] = users
		}
		if len(p.Reactors) == 0 {
			delete(reactions, p.Symbol)
		} else {
			reactions[p.Symbol] = p.Reactors
		}
		m.Reactions = reactions
		t.messages[p.MessageID] = m
	}
}

// IsMessageEvent reports whether kind changes the message list.
func IsMessageEvent(kind string) bool {
	switch event.Kind(kind) {
	case event.MessageCreatedKind, event.MessageEditedKind, event.MessageDeletedKind, event.ReactionChangedKind:
		return true
	}
	return false
}
