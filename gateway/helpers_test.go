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
	"workspace-chat/mocks"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var start = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

type deps struct {
	store      *mocks.MockIMessageStore
	registry   *mocks.MockIChannelRegistry
	receipts   *mocks.MockIReadReceipts
	presence   *mocks.MockIPresence
	hub        *mocks.MockIHub
	authorizer *mocks.MockAuthorizer
}

func newDeps(t *testing.T) *deps {
	ctrl := gomock.NewController(t)
	return &deps{
		store:      mocks.NewMockIMessageStore(ctrl),
		registry:   mocks.NewMockIChannelRegistry(ctrl),
		receipts:   mocks.NewMockIReadReceipts(ctrl),
		presence:   mocks.NewMockIPresence(ctrl),
		hub:        mocks.NewMockIHub(ctrl),
		authorizer: mocks.NewMockAuthorizer(ctrl),
	}
}

func (d *deps) gateway(config Config) *Gateway {
	components := Components{
		Store:      d.store,
		Registry:   d.registry,
		Receipts:   d.receipts,
		Presence:   d.presence,
		Hub:        d.hub,
		Authorizer: d.authorizer,
	}
	return New(logs.GetLoggerFromLevel(slog.LevelDebug), components, nil, clock.Fake(start), config)
}

// fastRetry keeps retry tests quick.
func fastRetry() RetryPolicy {
	return RetryPolicy{Base: time.Millisecond, Factor: 2, Attempts: 4}
}

// open connects user subscribed to channels and consumes the welcome frame.
func (d *deps) open(t *testing.T, g *Gateway, user chat.UserID, channels ...chat.ChannelID) *Session {
	t.Helper()
	listed := make([]chat.Channel, 0, len(channels))
	for _, c := range channels {
		listed = append(listed, chat.Channel{ID: c, Kind: chat.KindOpen})
		d.hub.EXPECT().Subscribe(gomock.Any(), c, gomock.Any()).Return(nil)
	}
	d.registry.EXPECT().ListForUser(gomock.Any(), user, false).Return(listed, nil)

	s, err := g.Open(context.Background(), auth.Identity{UserID: user, WorkspaceID: "w1"})
	require.NoError(t, err)
	require.Equal(t, wire.FrameWelcome, next(t, s).Type)
	return s
}

// expectClose allows the teardown calls of a session subscribed to channels.
func (d *deps) expectClose(s *Session, channels ...chat.ChannelID) {
	for _, c := range channels {
		d.hub.EXPECT().Unsubscribe(c, s.ID())
		d.presence.EXPECT().Leave(c, s.UserID())
	}
}

// unknownEvent has no wire representation.
type unknownEvent struct{ channelID chat.ChannelID }

func (u unknownEvent) Channel() chat.ChannelID { return u.channelID }
func (unknownEvent) Kind() event.Kind          { return "Unknown" }

func next(t *testing.T, s *Session) wire.Frame {
	t.Helper()
	select {
	case f := <-s.Outbound():
		return f
	case <-time.After(2 * time.Second):
		t.Fatalf("session %s received nothing", s.ID())
		return wire.Frame{}
	}
}

// waitFor skips frames until match accepts one.
func waitFor(t *testing.T, s *Session, match func(wire.Frame) bool) wire.Frame {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case f := <-s.Outbound():
			if match(f) {
				return f
			}
		case <-deadline:
			t.Fatalf("session %s never received the expected frame", s.ID())
			return wire.Frame{}
		}
	}
}

func isEvent(kind string) func(wire.Frame) bool {
	return func(f wire.Frame) bool {
		return f.Type == wire.FrameEvent && f.Event.Kind == kind
	}
}

func payload[T any](t *testing.T, f wire.Frame) T {
	t.Helper()
	require.NotNil(t, f.Event)
	p, err := f.Event.Payload()
	require.NoError(t, err)
	typed, ok := p.(*T)
	require.True(t, ok, "payload is %T", p)
	return *typed
}
