package services

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"workspace-chat/clock"
	"workspace-chat/domain/chat"
	"workspace-chat/domain/event"
	"workspace-chat/mocks"
	"workspace-chat/repositories"

	"github.com/dgraph-io/badger/v4"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var start = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

// recorder captures published events in order.
type recorder struct {
	mu     sync.Mutex
	events []event.DomainEvent
}

func (r *recorder) publish(_ context.Context, e event.DomainEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recorder) all() []event.DomainEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]event.DomainEvent(nil), r.events...)
}

type fixture struct {
	log        *slog.Logger
	clock      *clock.FakeClock
	channels   repositories.ChannelRepository
	messages   repositories.MessageRepository
	markers    repositories.ReadMarkerRepository
	authorizer *mocks.MockAuthorizer
	publisher  *mocks.MockPublisher
	published  *recorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctrl := gomock.NewController(t)
	f := &fixture{
		log:        log,
		clock:      clock.Fake(start),
		channels:   repositories.NewChannelRepository(db, log),
		messages:   repositories.NewMessageRepository(db, log),
		markers:    repositories.NewReadMarkerRepository(db, log),
		authorizer: mocks.NewMockAuthorizer(ctrl),
		publisher:  mocks.NewMockPublisher(ctrl),
		published:  &recorder{},
	}
	f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).DoAndReturn(f.published.publish).AnyTimes()
	return f
}

// members grants access to every listed user and denies everybody else.
func (f *fixture) members(users ...chat.UserID) {
	allowed := make(map[chat.UserID]bool, len(users))
	for _, u := range users {
		allowed[u] = true
	}
	f.authorizer.EXPECT().CanAccess(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, userID chat.UserID, _ chat.ChannelID) (bool, error) {
			return allowed[userID], nil
		}).AnyTimes()
}

func (f *fixture) channel(t *testing.T, id chat.ChannelID, archived bool) {
	t.Helper()
	channel := chat.Channel{ID: id, WorkspaceID: "w1", Name: string(id), Kind: chat.KindOpen, CreatedBy: "alice", CreatedAt: start, Archived: archived}
	require.NoError(t, f.channels.InsertChannel(context.Background(), channel, nil))
}

func (f *fixture) store() *MessageStore {
	return NewMessageStore(f.log, f.channels, f.messages, f.authorizer, f.publisher, nil, f.clock, 2)
}
