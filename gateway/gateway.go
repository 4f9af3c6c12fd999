// Package gateway is the per-connection boundary of the messaging core.
// A Session authenticates once, subscribes to the channels of its user,
// turns inbound intents into component calls and serializes outbound events.
package gateway

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"workspace-chat/auth"
	"workspace-chat/clock"
	"workspace-chat/contract"
	"workspace-chat/domain/chat"
	"workspace-chat/errors"
	"workspace-chat/gateway/wire"
	"workspace-chat/observability"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// Components are the collaborators a session dispatches to.
type Components struct {
	Store      contract.IMessageStore
	Registry   contract.IChannelRegistry
	Receipts   contract.IReadReceipts
	Presence   contract.IPresence
	Hub        contract.IHub
	Authorizer contract.Authorizer
}

type Gateway struct {
	log        *slog.Logger
	components Components
	metrics    *observability.Metrics
	clock      clock.Clock
	config     Config
	validate   *validator.Validate

	mu       sync.Mutex
	sessions map[string]*Session
}

func New(log *slog.Logger, components Components, metrics *observability.Metrics, clk clock.Clock, config Config) *Gateway {
	return &Gateway{
		log:        log,
		components: components,
		metrics:    metrics,
		clock:      clk,
		config:     config.withDefaults(),
		validate:   validator.New(),
		sessions:   make(map[string]*Session),
	}
}

// Open starts a session for an authenticated identity: it lists the
// channels of the user and subscribes the session to each of them.
// A channel the user can no longer access is skipped.
func (g *Gateway) Open(ctx context.Context, identity auth.Identity) (*Session, error) {
	s := &Session{
		id:       uuid.NewString(),
		identity: identity,
		gateway:  g,
		log:      g.log.With("user_id", identity.UserID),
		outbound: make(chan wire.Frame, g.config.OutboundQueue),
		done:     make(chan struct{}),
		channels: make(map[chat.ChannelID]struct{}),
		limiter:  rate.NewLimiter(g.config.RateLimit, g.config.RateBurst),
		state:    StateConnecting,
	}
	s.log = s.log.With("session_id", s.id)

	if identity.UserID == "" {
		s.Close(errors.ErrUnauthenticated)
		return nil, fmt.Errorf("%w: missing user", errors.ErrUnauthenticated)
	}
	if err := s.transition(StateAuthenticated); err != nil {
		s.Close(err)
		return nil, err
	}

	channels, err := g.listChannels(ctx, identity.UserID)
	if err != nil {
		s.Close(err)
		return nil, err
	}
	g.register(s)
	for _, channelID := range channels {
		if err := s.subscribe(ctx, channelID); err != nil {
			s.log.Warn("Skipping channel at connect", "channel_id", channelID, "error", err)
		}
	}
	if err := s.transition(StateSubscribed); err != nil {
		s.Close(err)
		return nil, err
	}
	if err := s.welcome(); err != nil {
		s.Close(err)
		return nil, err
	}
	return s, nil
}

func (g *Gateway) listChannels(ctx context.Context, userID chat.UserID) ([]chat.ChannelID, error) {
	var channels []chat.Channel
	err := g.config.Retry.do(ctx, func(int, error) { g.metrics.IntentRetried("connect") }, func() error {
		var err error
		channels, err = g.components.Registry.ListForUser(ctx, userID, false)
		return err
	})
	if err != nil {
		return nil, err
	}
	ids := make([]chat.ChannelID, 0, len(channels))
	for _, c := range channels {
		ids = append(ids, c.ID)
	}
	return ids, nil
}

func (g *Gateway) register(s *Session) {
	g.mu.Lock()
	g.sessions[s.id] = s
	g.mu.Unlock()
	g.metrics.SessionOpened()
}

func (g *Gateway) unregister(s *Session) {
	g.mu.Lock()
	_, ok := g.sessions[s.id]
	delete(g.sessions, s.id)
	g.mu.Unlock()
	if ok {
		g.metrics.SessionClosed()
	}
}

// Sessions returns the ids of the open sessions, sorted.
func (g *Gateway) Sessions() []string {
	g.mu.Lock()
	ids := make([]string, 0, len(g.sessions))
	for id := range g.sessions {
		ids = append(ids, id)
	}
	g.mu.Unlock()
	slices.Sort(ids)
	return ids
}

// Shutdown closes every open session.
func (g *Gateway) Shutdown() {
	g.mu.Lock()
	sessions := make([]*Session, 0, len(g.sessions))
	for _, s := range g.sessions {
		sessions = append(sessions, s)
	}
	g.mu.Unlock()
	for _, s := range sessions {
		s.Close(nil)
	}
}
