package runtime

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
	"workspace-chat/runtime/workers"

	"github.com/mama165/sdk-go/logs"
	"go.uber.org/mock/gomock"
)

var start = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

// testSubscriber buffers up to capacity envelopes and refuses the rest.
type testSubscriber struct {
	id       string
	user     chat.UserID
	envelope chan event.Envelope

	mu      sync.Mutex
	evicted []error
}

func newTestSubscriber(id string, user chat.UserID, capacity int) *testSubscriber {
	return &testSubscriber{id: id, user: user, envelope: make(chan event.Envelope, capacity)}
}

func (s *testSubscriber) ID() string          { return s.id }
func (s *testSubscriber) UserID() chat.UserID { return s.user }

func (s *testSubscriber) Deliver(env event.Envelope) bool {
	select {
	case s.envelope <- env:
		return true
	default:
		return false
	}
}

func (s *testSubscriber) Evicted(_ chat.ChannelID, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.evicted = append(s.evicted, err)
}

func (s *testSubscriber) evictions() []error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]error(nil), s.evicted...)
}

// next waits for one envelope.
func (s *testSubscriber) next(t *testing.T) event.Envelope {
	t.Helper()
	select {
	case env := <-s.envelope:
		return env
	case <-time.After(2 * time.Second):
		t.Fatalf("subscriber %s received nothing", s.id)
		return event.Envelope{}
	}
}

func testLogger() *slog.Logger {
	return logs.GetLoggerFromLevel(slog.LevelDebug)
}

// allowAll returns an authorizer granting access to the given users.
func allowAll(t *testing.T, users ...chat.UserID) *mocks.MockAuthorizer {
	allowed := make(map[chat.UserID]bool)
	for _, u := range users {
		allowed[u] = true
	}
	authorizer := mocks.NewMockAuthorizer(gomock.NewController(t))
	authorizer.EXPECT().CanAccess(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, userID chat.UserID, _ chat.ChannelID) (bool, error) {
			return allowed[userID], nil
		}).AnyTimes()
	return authorizer
}

// runHub starts a hub under a real supervisor until the test ends.
func runHub(t *testing.T, queueSize, ringSize int, users ...chat.UserID) *Hub {
	t.Helper()
	log := testLogger()
	supervisor := workers.NewSupervisor(log)
	hub := NewHub(log, allowAll(t, users...), supervisor, nil, clock.Fake(start), queueSize, ringSize)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		supervisor.Add(hub).Run(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return hub
}
