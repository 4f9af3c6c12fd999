package client

import (
	"testing"
	"time"

	"workspace-chat/domain/chat"
	"workspace-chat/domain/event"
	"workspace-chat/gateway/wire"

	"github.com/stretchr/testify/require"
)

const channel = chat.ChannelID("c1")

func created(t *testing.T, seq uint64, id chat.MessageID, body, correlationID string) wire.Event {
	t.Helper()
	return envelope(t, seq, event.MessageCreated{
		Message:       chat.Message{ID: id, ChannelID: channel, AuthorID: "alice", Body: body},
		CorrelationID: correlationID,
	}, correlationID != "")
}

func envelope(t *testing.T, seq uint64, e event.DomainEvent, withCorrelation bool) wire.Event {
	t.Helper()
	ev, err := wire.FromEnvelope(event.Envelope{Seq: seq, At: time.Unix(0, 0), Event: e}, withCorrelation)
	require.NoError(t, err)
	return ev
}

func bodies(entries []Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Message.Body)
	}
	return out
}

func TestTimeline_ConfirmedSendReplacesOptimisticEntry(t *testing.T) {
	// Given a timeline with an optimistic send
	timeline := NewTimeline(string(channel))
	timeline.AddOptimistic("c1", "alice", "hello", nil)
	require.True(t, timeline.Visible()[0].Pending)

	// When the server confirms it with the same correlation id
	require.True(t, timeline.Apply(created(t, 1, 42, "hello", "c1")))

	// Then a single confirmed entry is visible
	visible := timeline.Visible()
	require.Len(t, visible, 1)
	require.False(t, visible[0].Pending)
	require.Equal(t, uint64(42), visible[0].Message.ID)
}

func TestTimeline_LaterDeliveryOfSameIDIsIgnored(t *testing.T) {
	// Given a confirmed message with id 42
	timeline := NewTimeline(string(channel))
	timeline.AddOptimistic("c1", "alice", "hello", nil)
	timeline.Apply(created(t, 1, 42, "hello", "c1"))

	// When a resync replays it under a new seq numbering
	timeline.Resync(0)
	timeline.Apply(created(t, 1, 42, "hello", ""))

	// Then it is still visible once
	require.Equal(t, []string{"hello"}, bodies(timeline.Visible()))
}

func TestTimeline_StaleSeqIsDropped(t *testing.T) {
	// Given a timeline at seq 2
	timeline := NewTimeline(string(channel))
	timeline.Apply(created(t, 1, 1, "one", ""))
	timeline.Apply(created(t, 2, 2, "two", ""))

	// When seq 1 is delivered again
	applied := timeline.Apply(created(t, 1, 1, "one", ""))

	// Then it is ignored
	require.False(t, applied)
	require.Equal(t, uint64(2), timeline.LastSeq())
	require.Len(t, timeline.Visible(), 2)
}

func TestTimeline_OutOfOrderEventsWaitForTheGap(t *testing.T) {
	// Given a timeline at seq 1
	timeline := NewTimeline(string(channel))
	timeline.Apply(created(t, 1, 1, "one", ""))

	// When seq 3 arrives before seq 2
	timeline.Apply(created(t, 3, 3, "three", ""))
	require.Equal(t, []string{"one"}, bodies(timeline.Visible()))
	timeline.Apply(created(t, 2, 2, "two", ""))

	// Then both are applied in order
	require.Equal(t, []string{"one", "two", "three"}, bodies(timeline.Visible()))
	require.Equal(t, uint64(3), timeline.LastSeq())
	require.False(t, timeline.NeedsResync())
}

func TestTimeline_GapThatNeverClosesNeedsResync(t *testing.T) {
	// Given a timeline at seq 1
	timeline := NewTimeline(string(channel))
	timeline.Apply(created(t, 1, 1, "one", ""))

	// When more than MaxPending events queue behind a missing seq 2
	for seq := uint64(3); seq <= MaxPending+3; seq++ {
		timeline.Apply(created(t, seq, chat.MessageID(seq), "x", ""))
	}

	// Then the timeline asks for a resync
	require.True(t, timeline.NeedsResync())

	// When the client resyncs past the buffered events
	timeline.Resync(MaxPending + 3)

	// Then the flag clears
	require.False(t, timeline.NeedsResync())
	require.Equal(t, uint64(MaxPending+3), timeline.LastSeq())
}

func TestTimeline_ResyncDrainsBufferedSuccessors(t *testing.T) {
	// Given seq 5 buffered behind a gap
	timeline := NewTimeline(string(channel))
	timeline.Apply(created(t, 1, 1, "one", ""))
	timeline.Apply(created(t, 5, 5, "five", ""))

	// When history is seeded and sequencing restarts at 4
	timeline.Seed([]wire.Message{{ID: 2, Body: "two"}, {ID: 3, Body: "three"}, {ID: 4, Body: "four"}})
	timeline.Resync(4)

	// Then the buffered event is applied
	require.Equal(t, []string{"one", "two", "three", "four", "five"}, bodies(timeline.Visible()))
	require.Equal(t, uint64(5), timeline.LastSeq())
}

func TestTimeline_ReplayThatClosesTheGapClearsResync(t *testing.T) {
	// Given a gap at seq 2 that overflowed the buffer
	timeline := NewTimeline(string(channel))
	timeline.Apply(created(t, 1, 1, "one", ""))
	for seq := uint64(3); seq <= MaxPending+3; seq++ {
		timeline.Apply(created(t, seq, chat.MessageID(seq), "x", ""))
	}
	require.True(t, timeline.NeedsResync())

	// When the replay delivers the missing seq
	require.True(t, timeline.Apply(created(t, 2, 2, "two", "")))

	// Then everything buffered is applied and the flag clears
	require.False(t, timeline.NeedsResync())
	require.Equal(t, uint64(MaxPending+3), timeline.LastSeq())
	require.Equal(t, uint64(MaxPending+3), timeline.LastMessageID())
}

func TestTimeline_RefreshTakesStoreState(t *testing.T) {
	// Given a message the timeline saw created
	timeline := NewTimeline(string(channel))
	timeline.Apply(created(t, 1, 1, "one", ""))
	require.Zero(t, NewTimeline(string(channel)).LastMessageID())

	// When a history page carries a later edit and a new message
	timeline.Refresh([]wire.Message{{ID: 1, Body: "one, edited"}, {ID: 2, Body: "two"}})

	// Then the page wins and the last id moves
	require.Equal(t, []string{"one, edited", "two"}, bodies(timeline.Visible()))
	require.Equal(t, uint64(2), timeline.LastMessageID())
}

func TestTimeline_EditDeleteAndReactions(t *testing.T) {
	// Given a confirmed message
	timeline := NewTimeline(string(channel))
	timeline.Apply(created(t, 1, 1, "hello", ""))

	// When it is edited, reacted to and then deleted
	timeline.Apply(envelope(t, 2, event.MessageEdited{
		Message: chat.Message{ID: 1, ChannelID: channel, AuthorID: "alice", Body: "hello!"},
	}, false))
	timeline.Apply(envelope(t, 3, event.ReactionChanged{
		ChannelID: channel, MessageID: 1, Symbol: "+1", UserID: "bob", Added: true, Reactors: []chat.UserID{"bob"},
	}, false))
	require.Equal(t, "hello!", timeline.Visible()[0].Message.Body)
	require.Equal(t, []string{"bob"}, timeline.Visible()[0].Message.Reactions["+1"])

	timeline.Apply(envelope(t, 4, event.ReactionChanged{
		ChannelID: channel, MessageID: 1, Symbol: "+1", UserID: "bob", Added: false,
	}, false))
	timeline.Apply(envelope(t, 5, event.MessageDeleted{
		ChannelID: channel, MessageID: 1, DeletedBy: "alice", DeletedAt: time.Unix(10, 0),
	}, false))

	// Then the entry is a tombstone without reactions
	entry := timeline.Visible()[0]
	require.Empty(t, entry.Message.Body)
	require.NotNil(t, entry.Message.DeletedAt)
	require.NotContains(t, entry.Message.Reactions, "+1")
}

func TestTimeline_PendingEntriesStayLast(t *testing.T) {
	// Given an optimistic send and an unrelated confirmed message
	timeline := NewTimeline(string(channel))
	timeline.AddOptimistic("c2", "alice", "mine", nil)
	timeline.Apply(created(t, 1, 1, "theirs", ""))

	// Then the pending entry is listed after confirmed ones
	visible := timeline.Visible()
	require.Equal(t, []string{"theirs", "mine"}, bodies(visible))
	require.True(t, visible[1].Pending)
	require.Equal(t, "c2", visible[1].CorrelationID)
}

func TestIsMessageEvent(t *testing.T) {
	require.True(t, IsMessageEvent(string(event.MessageCreatedKind)))
	require.False(t, IsMessageEvent(string(event.PresenceChangedKind)))
}
