package gateway

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"workspace-chat/auth"
	"workspace-chat/clock"
	"workspace-chat/domain/chat"
	"workspace-chat/domain/event"
	"workspace-chat/gateway/wire"
	"workspace-chat/moderation"
	"workspace-chat/repositories"
	"workspace-chat/runtime"
	"workspace-chat/runtime/workers"
	"workspace-chat/services"

	"github.com/dgraph-io/badger/v4"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

type stack struct {
	gateway  *Gateway
	registry *services.ChannelRegistry
	presence *runtime.PresenceTracker
	clock    *clock.FakeClock
}

// newStack wires the real components over a temporary badger store.
func newStack(t *testing.T) *stack {
	t.Helper()
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	clk := clock.Fake(start)

	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	req.NoError(err)

	channels := repositories.NewChannelRepository(db, log)
	messages := repositories.NewMessageRepository(db, log)
	markers := repositories.NewReadMarkerRepository(db, log)
	authorizer := auth.NewMembershipAuthorizer(channels, nil)
	filter, err := moderation.NewDefaultFilter('*', log)
	req.NoError(err)

	supervisor := workers.NewSupervisor(log)
	hub := runtime.NewHub(log, authorizer, supervisor, nil, clk, 0, 0)
	presence := runtime.NewPresenceTracker(log, hub, clk, nil, 30*time.Second)
	registry := services.NewChannelRegistry(log, channels, clk)

	g := New(log, Components{
		Store:      services.NewMessageStore(log, channels, messages, authorizer, hub, filter, clk, 0),
		Registry:   registry,
		Receipts:   services.NewReadReceipts(log, markers, messages, authorizer, hub, clk),
		Presence:   presence,
		Hub:        hub,
		Authorizer: authorizer,
	}, nil, clk, Config{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		supervisor.Add(hub).Run(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		g.Shutdown()
		cancel()
		<-done
		_ = db.Close()
	})
	return &stack{gateway: g, registry: registry, presence: presence, clock: clk}
}

func (st *stack) connect(t *testing.T, user chat.UserID, roles ...string) *Session {
	t.Helper()
	s, err := st.gateway.Open(context.Background(), auth.Identity{UserID: user, WorkspaceID: "w1", Roles: roles})
	require.NoError(t, err)
	require.Equal(t, wire.FrameWelcome, next(t, s).Type)
	return s
}

func Test_Scenario_Send_Read_And_Unclean_Disconnect(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	st := newStack(t)

	// Given A and B members of C1
	c1, err := st.registry.Create(ctx, chat.CreateChannelCommand{
		WorkspaceID:    "w1",
		Kind:           chat.KindOpen,
		Name:           "general",
		CreatedBy:      "A",
		InitialMembers: []chat.UserID{"B"},
	})
	req.NoError(err)
	channelID := string(c1.ID)

	a := st.connect(t, "A")
	b := st.connect(t, "B")
	req.Equal([]chat.ChannelID{c1.ID}, b.Channels())

	req.NoError(a.Handle(ctx, wire.Intent{Op: wire.OpHeartbeat, ChannelID: channelID}))
	req.NoError(b.Handle(ctx, wire.Intent{Op: wire.OpHeartbeat, ChannelID: channelID}))
	joined := payload[wire.PresenceChanged](t, waitFor(t, b, isEvent(string(event.PresenceChangedKind))))
	req.Equal(wire.PresenceChanged{UserID: "A", Live: true, LiveCount: 1}, joined)

	// When A sends "hello"
	req.NoError(a.Handle(ctx, wire.Intent{Op: wire.OpSend, Ref: "s1", ChannelID: channelID, Body: "hello", CorrelationID: "c1"}))

	// Then B receives MessageCreated{id:1, body:"hello"} without the correlation id
	created := payload[wire.MessageCreated](t, waitFor(t, b, isEvent(string(event.MessageCreatedKind))))
	req.Equal(uint64(1), created.Message.ID)
	req.Equal("hello", created.Message.Body)
	req.Empty(created.CorrelationID)

	// And A receives its own message carrying the correlation id
	own := payload[wire.MessageCreated](t, waitFor(t, a, isEvent(string(event.MessageCreatedKind))))
	req.Equal("c1", own.CorrelationID)
	req.Equal(uint64(1), own.Message.ID)

	// When B marks message 1 read
	req.NoError(b.Handle(ctx, wire.Intent{Op: wire.OpMarkRead, ChannelID: channelID, MessageID: 1}))

	// Then A receives ReadMarkerAdvanced{userId:B, messageId:1}
	read := payload[wire.ReadMarkerAdvanced](t, waitFor(t, a, isEvent(string(event.ReadMarkerAdvancedKind))))
	req.Equal(wire.ReadMarkerAdvanced{UserID: "B", MessageID: 1}, read)

	// When A goes silent and the sweep runs past the timeout while B keeps beating
	st.clock.Advance(31 * time.Second)
	req.NoError(b.Handle(ctx, wire.Intent{Op: wire.OpHeartbeat, ChannelID: channelID}))
	st.presence.Sweep(st.clock.Now())

	// Then B receives PresenceChanged{userId:A, live:false}
	left := payload[wire.PresenceChanged](t, waitFor(t, b, func(f wire.Frame) bool {
		if !isEvent(string(event.PresenceChangedKind))(f) {
			return false
		}
		p, err := f.Event.Payload()
		return err == nil && !p.(*wire.PresenceChanged).Live
	}))
	req.Equal(wire.PresenceChanged{UserID: "A", Live: false, LiveCount: 1}, left)
}

func Test_Scenario_Sequences_And_Replay(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	st := newStack(t)

	c1, err := st.registry.Create(ctx, chat.CreateChannelCommand{WorkspaceID: "w1", Kind: chat.KindOpen, CreatedBy: "A"})
	req.NoError(err)
	channelID := string(c1.ID)
	a := st.connect(t, "A")

	// Given three messages, each event frame carries the next seq
	var seqs []uint64
	for _, body := range []string{"one", "two", "three"} {
		req.NoError(a.Handle(ctx, wire.Intent{Op: wire.OpSend, ChannelID: channelID, Body: body}))
		seqs = append(seqs, waitFor(t, a, isEvent(string(event.MessageCreatedKind))).Event.Seq)
	}
	req.Equal([]uint64{1, 2, 3}, seqs)

	// When the client resyncs after seq 1
	req.NoError(a.Handle(ctx, wire.Intent{Op: wire.OpResync, Ref: "r", ChannelID: channelID, SinceSeq: 1}))

	// Then seq 2 and 3 are replayed, ids matching the store
	replayed := []uint64{
		payload[wire.MessageCreated](t, waitFor(t, a, isEvent(string(event.MessageCreatedKind)))).Message.ID,
		payload[wire.MessageCreated](t, waitFor(t, a, isEvent(string(event.MessageCreatedKind)))).Message.ID,
	}
	req.Equal([]uint64{2, 3}, replayed)

	// When the client asks for a seq the server never stamped
	req.NoError(a.Handle(ctx, wire.Intent{Op: wire.OpResync, Ref: "g", ChannelID: channelID, SinceSeq: 99}))
	gap := waitFor(t, a, func(f wire.Frame) bool { return f.Type == wire.FrameGap })
	req.Equal("g", gap.Ref)
	req.Equal(uint64(3), gap.HeadSeq)

	// And history backfills from the store
	req.NoError(a.Handle(ctx, wire.Intent{Op: wire.OpHistory, Ref: "h", ChannelID: channelID}))
	var history []wire.Message
	req.NoError(waitFor(t, a, func(f wire.Frame) bool { return f.Ref == "h" }).Decode(&history))
	req.Len(history, 3)
}

func Test_Scenario_Archived_Channel_Rejects_Send(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	st := newStack(t)

	c1, err := st.registry.Create(ctx, chat.CreateChannelCommand{WorkspaceID: "w1", Kind: chat.KindOpen, CreatedBy: "A", InitialMembers: []chat.UserID{"B"}})
	req.NoError(err)
	channelID := string(c1.ID)
	a := st.connect(t, "A")
	b := st.connect(t, "B")

	// B is not the creator and cannot archive
	req.Error(b.Handle(ctx, wire.Intent{Op: wire.OpArchive, Ref: "x", ChannelID: channelID}))
	req.Equal("forbidden", waitFor(t, b, func(f wire.Frame) bool { return f.Ref == "x" }).Error.Code)

	req.NoError(a.Handle(ctx, wire.Intent{Op: wire.OpArchive, Ref: "y", ChannelID: channelID}))
	waitFor(t, a, func(f wire.Frame) bool { return f.Ref == "y" })

	req.Error(a.Handle(ctx, wire.Intent{Op: wire.OpSend, Ref: "z", ChannelID: channelID, Body: "late"}))
	req.Equal("channel_archived", waitFor(t, a, func(f wire.Frame) bool { return f.Ref == "z" }).Error.Code)
}

func Test_Scenario_Workspace_Admin_Role_Can_Archive(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	st := newStack(t)

	// Given channels created by A in w1 and in another workspace
	own, err := st.registry.Create(ctx, chat.CreateChannelCommand{WorkspaceID: "w1", Kind: chat.KindOpen, CreatedBy: "A"})
	req.NoError(err)
	foreign, err := st.registry.Create(ctx, chat.CreateChannelCommand{WorkspaceID: "w2", Kind: chat.KindOpen, CreatedBy: "A"})
	req.NoError(err)

	// And ops, neither creator nor member, holding the admin role of w1
	ops := st.connect(t, "ops", auth.RoleAdmin)
	member := st.connect(t, "M", "member")

	// When a plain member role tries to archive
	req.Error(member.Handle(ctx, wire.Intent{Op: wire.OpArchive, Ref: "m", ChannelID: string(own.ID)}))

	// Then the admin role archives a channel of its workspace
	req.NoError(ops.Handle(ctx, wire.Intent{Op: wire.OpArchive, Ref: "a", ChannelID: string(own.ID)}))
	var archived wire.Channel
	req.NoError(waitFor(t, ops, func(f wire.Frame) bool { return f.Ref == "a" }).Decode(&archived))
	req.True(archived.Archived)

	// But not one of another workspace
	req.Error(ops.Handle(ctx, wire.Intent{Op: wire.OpArchive, Ref: "b", ChannelID: string(foreign.ID)}))
	req.Equal("forbidden", waitFor(t, ops, func(f wire.Frame) bool { return f.Ref == "b" }).Error.Code)
}

func Test_Scenario_Presence_Is_Per_User_Across_Sessions(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	st := newStack(t)

	// Given A connected twice to one channel
	c1, err := st.registry.Create(ctx, chat.CreateChannelCommand{WorkspaceID: "w1", Kind: chat.KindOpen, CreatedBy: "A"})
	req.NoError(err)
	channelID := string(c1.ID)
	first := st.connect(t, "A")
	second := st.connect(t, "A")
	req.NoError(first.Handle(ctx, wire.Intent{Op: wire.OpHeartbeat, ChannelID: channelID}))
	req.Equal([]chat.UserID{"A"}, st.presence.Live(c1.ID))

	// When the first session closes
	first.Close(nil)

	// Then A is absent until the remaining session beats again
	req.Empty(st.presence.Live(c1.ID))
	req.NoError(second.Handle(ctx, wire.Intent{Op: wire.OpHeartbeat, ChannelID: channelID}))
	req.Equal([]chat.UserID{"A"}, st.presence.Live(c1.ID))
}
