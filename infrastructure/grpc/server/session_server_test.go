package server_test

import (
	"context"
	"log/slog"
	"net"
	"testing"
	"time"

	"workspace-chat/auth"
	"workspace-chat/client"
	"workspace-chat/clock"
	"workspace-chat/domain/chat"
	"workspace-chat/domain/event"
	"workspace-chat/gateway/wire"
	"workspace-chat/internal"

	"github.com/dgraph-io/badger/v4"
	"github.com/mama165/sdk-go/logs"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

type harness struct {
	app *internal.App
	cc  *grpc.ClientConn
}

func newHarness(t *testing.T, configure ...func(*internal.Config)) *harness {
	t.Helper()
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)

	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	req.NoError(err)

	config := internal.Config{
		JWTSecret:        "test-secret",
		TokenTTL:         time.Hour,
		HeartbeatTimeout: 30 * time.Second,
		RateLimit:        1000,
		RateBurst:        1000,
		RetryBase:        time.Millisecond,
		RetryAttempts:    2,
		CharReplacement:  "*",
		Moderation:       true,
	}
	for _, fn := range configure {
		fn(&config)
	}
	app, err := internal.NewApp(log, config, db, prometheus.NewRegistry(), clock.Real())
	req.NoError(err)

	ctx, cancel := context.WithCancel(context.Background())
	appDone := make(chan struct{})
	go func() {
		app.Run(ctx)
		close(appDone)
	}()

	lis := bufconn.Listen(1 << 20)
	go func() { _ = app.GRPC.Serve(lis) }()

	cc, err := client.Dial("passthrough:///bufnet", grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
		return lis.DialContext(ctx)
	}))
	req.NoError(err)

	t.Cleanup(func() {
		_ = cc.Close()
		app.GRPC.Stop()
		cancel()
		<-appDone
		_ = db.Close()
	})
	return &harness{app: app, cc: cc}
}

func (h *harness) token(t *testing.T, user chat.UserID) string {
	t.Helper()
	token, err := h.app.Tokens.Generate(auth.Identity{UserID: user, WorkspaceID: "w1"})
	require.NoError(t, err)
	return token
}

func (h *harness) connect(t *testing.T, user chat.UserID) *client.Conn {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	conn, err := client.Connect(ctx, h.cc, h.token(t, user))
	require.NoError(t, err)
	return conn
}

// waitFrame reads frames until match accepts one.
func waitFrame(t *testing.T, conn *client.Conn, match func(wire.Frame) bool) wire.Frame {
	t.Helper()
	frames := make(chan wire.Frame)
	errs := make(chan error, 1)
	go func() {
		for {
			frame, err := conn.Recv()
			if err != nil {
				errs <- err
				return
			}
			if match(frame) {
				frames <- frame
				return
			}
		}
	}()
	select {
	case frame := <-frames:
		return frame
	case err := <-errs:
		t.Fatalf("stream ended: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("no matching frame")
	}
	return wire.Frame{}
}

func Test_Connect_Rejects_Missing_Token(t *testing.T) {
	h := newHarness(t)

	// When a stream is opened with a forged token
	_, err := client.Connect(context.Background(), h.cc, "not-a-token")

	// Then the server refuses it
	require.Error(t, err)
	require.Equal(t, codes.Unauthenticated, status.Code(err))
}

func Test_Connect_Welcome_Lists_Memberships(t *testing.T) {
	req := require.New(t)
	h := newHarness(t)

	// Given alice member of one channel
	c, err := h.app.Registry.Create(context.Background(), chat.CreateChannelCommand{
		WorkspaceID: "w1", Kind: chat.KindOpen, Name: "general", CreatedBy: "alice",
	})
	req.NoError(err)

	// When she connects
	conn := h.connect(t, "alice")

	// Then the welcome frame lists the channel
	req.Equal("alice", conn.Welcome().UserID)
	req.Equal([]string{string(c.ID)}, conn.Welcome().Channels)
	req.NotEmpty(conn.Welcome().SessionID)
}

func Test_Send_Over_Stream_Reconciles_Optimistic_Entry(t *testing.T) {
	req := require.New(t)
	h := newHarness(t)

	// Given alice and bob members of general
	c, err := h.app.Registry.Create(context.Background(), chat.CreateChannelCommand{
		WorkspaceID: "w1", Kind: chat.KindOpen, Name: "general", CreatedBy: "alice",
		InitialMembers: []chat.UserID{"bob"},
	})
	req.NoError(err)
	alice := h.connect(t, "alice")
	bob := h.connect(t, "bob")

	// When alice sends through a timeline
	timeline := client.NewTimeline(string(c.ID))
	correlationID, err := alice.SendMessage(timeline, "hello", nil)
	req.NoError(err)
	req.True(timeline.Visible()[0].Pending)

	isCreated := func(f wire.Frame) bool {
		return f.Type == wire.FrameEvent && f.Event.Kind == string(event.MessageCreatedKind)
	}

	// Then her own copy carries the correlation id and replaces the pending entry
	own := waitFrame(t, alice, isCreated)
	req.True(timeline.Apply(*own.Event))
	visible := timeline.Visible()
	req.Len(visible, 1)
	req.False(visible[0].Pending)
	req.Equal(uint64(1), visible[0].Message.ID)
	payload, err := own.Event.Payload()
	req.NoError(err)
	req.Equal(correlationID, payload.(*wire.MessageCreated).CorrelationID)

	// And bob receives the message without it
	other := waitFrame(t, bob, isCreated)
	payload, err = other.Event.Payload()
	req.NoError(err)
	req.Empty(payload.(*wire.MessageCreated).CorrelationID)
	req.Equal("hello", payload.(*wire.MessageCreated).Message.Body)
}

func Test_Gap_Backfill_Then_Resume(t *testing.T) {
	req := require.New(t)
	// Given a replay buffer of two events
	h := newHarness(t, func(c *internal.Config) { c.ReplayBufferSize = 2 })
	c, err := h.app.Registry.Create(context.Background(), chat.CreateChannelCommand{
		WorkspaceID: "w1", Kind: chat.KindOpen, Name: "general", CreatedBy: "alice",
		InitialMembers: []chat.UserID{"bob"},
	})
	req.NoError(err)
	channelID := string(c.ID)
	alice := h.connect(t, "alice")
	bob := h.connect(t, "bob")
	timeline := client.NewTimeline(channelID)

	isCreated := func(f wire.Frame) bool {
		return f.Type == wire.FrameEvent && f.Event.Kind == string(event.MessageCreatedKind)
	}
	send := func(body string) {
		_, err := alice.Send(wire.Intent{Op: wire.OpSend, ChannelID: channelID, Body: body})
		req.NoError(err)
	}

	// When bob applies seq 1, misses seq 2 and 3, then gets seq 4
	for _, body := range []string{"one", "two", "three", "four"} {
		send(body)
		frame := waitFrame(t, bob, isCreated)
		if frame.Event.Seq == 1 || frame.Event.Seq == 4 {
			req.True(timeline.Apply(*frame.Event))
		}
	}
	req.Equal(uint64(1), timeline.LastSeq())

	// Then a resync from seq 1 is answered with a gap up to the head
	ref, err := bob.Send(wire.Intent{Op: wire.OpResync, ChannelID: channelID, SinceSeq: timeline.LastSeq()})
	req.NoError(err)
	gap := waitFrame(t, bob, func(f wire.Frame) bool { return f.Ref == ref })
	req.Equal(wire.FrameGap, gap.Type)
	req.Equal(uint64(4), gap.HeadSeq)

	// When bob backfills page by page
	backfill, err := bob.StartBackfill(timeline, gap)
	req.NoError(err)
	done := false
	for page := 0; page < 5 && !done; page++ {
		frame := waitFrame(t, bob, func(f wire.Frame) bool { return f.Ref == backfill.Ref() })
		done, err = backfill.Continue(bob, frame)
		req.NoError(err)
	}
	req.True(done)

	// Then the timeline holds every message and follows the stream again
	req.Equal(uint64(4), timeline.LastSeq())
	send("five")
	five := waitFrame(t, bob, isCreated)
	req.True(timeline.Apply(*five.Event))
	req.False(timeline.NeedsResync())
	bodies := make([]string, 0, 5)
	for _, entry := range timeline.Visible() {
		bodies = append(bodies, entry.Message.Body)
	}
	req.Equal([]string{"one", "two", "three", "four", "five"}, bodies)
}

func Test_Invalid_Intent_Answers_With_Error_Frame(t *testing.T) {
	h := newHarness(t)
	conn := h.connect(t, "alice")

	// When an intent misses its channel
	ref, err := conn.Send(wire.Intent{Op: wire.OpHeartbeat})
	require.NoError(t, err)

	// Then only an error frame comes back, the stream stays open
	frame := waitFrame(t, conn, func(f wire.Frame) bool { return f.Ref == ref })
	require.Equal(t, wire.FrameError, frame.Type)
	require.Equal(t, "invalid_intent", frame.Error.Code)
	require.Equal(t, "validation", frame.Error.Kind)

	ref, err = conn.Send(wire.Intent{Op: wire.OpHistory, ChannelID: "missing"})
	require.NoError(t, err)
	frame = waitFrame(t, conn, func(f wire.Frame) bool { return f.Ref == ref })
	require.Equal(t, wire.FrameError, frame.Type)
}

func Test_Health_Is_Public(t *testing.T) {
	h := newHarness(t)

	// When the health service is called without a token
	resp, err := grpc_health_v1.NewHealthClient(h.cc).Check(context.Background(), &grpc_health_v1.HealthCheckRequest{})

	// Then it answers serving
	require.NoError(t, err)
	require.Equal(t, grpc_health_v1.HealthCheckResponse_SERVING, resp.GetStatus())
}
