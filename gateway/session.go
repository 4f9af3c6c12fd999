package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"workspace-chat/auth"
	"workspace-chat/contract"
	"workspace-chat/domain/chat"
	"workspace-chat/domain/event"
	"workspace-chat/errors"
	"workspace-chat/gateway/wire"

	"golang.org/x/time/rate"
)

// Session is one client connection. Transports feed it intents with Handle
// and write the frames of Outbound until Done is closed.
type Session struct {
	id       string
	identity auth.Identity
	gateway  *Gateway
	log      *slog.Logger
	outbound chan wire.Frame
	done     chan struct{}
	limiter  *rate.Limiter

	mu       sync.Mutex
	state    State
	channels map[chat.ChannelID]struct{}
	cause    error
	// Events delivered before the welcome frame wait in early.
	welcomed bool
	early    []wire.Frame
}

var _ contract.Subscriber = (*Session)(nil)

func (s *Session) ID() string                  { return s.id }
func (s *Session) UserID() chat.UserID         { return s.identity.UserID }
func (s *Session) Identity() auth.Identity     { return s.identity }
func (s *Session) Outbound() <-chan wire.Frame { return s.outbound }
func (s *Session) Done() <-chan struct{}       { return s.done }

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Err is the reason the session closed, nil for a clean close.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cause
}

// Channels returns the channels the session is subscribed to, sorted.
func (s *Session) Channels() []chat.ChannelID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sortedChannels()
}

func (s *Session) sortedChannels() []chat.ChannelID {
	ids := make([]chat.ChannelID, 0, len(s.channels))
	for id := range s.channels {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func (s *Session) transition(to State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transitionLocked(to)
}

func (s *Session) transitionLocked(to State) error {
	if err := checkTransition(s.state, to); err != nil {
		s.log.Warn("Rejected session transition", "error", err)
		return err
	}
	s.log.Debug("Session state changed", "from", s.state, "to", to)
	s.state = to
	return nil
}

// Deliver is called by channel groups and never blocks. The correlation id
// of a MessageCreated is only sent to the session that authored it.
// An event that cannot be encoded closes the session so the client resyncs.
func (s *Session) Deliver(env event.Envelope) bool {
	created, ok := env.Event.(event.MessageCreated)
	evt, err := wire.FromEnvelope(env, ok && created.Origin == s.id)
	if err != nil {
		s.log.Error("Failed to encode event", "kind", env.Kind(), "seq", env.Seq, "error", err)
		s.Close(fmt.Errorf("%w: seq %d of %s: %w", errors.ErrEventLost, env.Seq, env.Channel(), err))
		return false
	}
	frame := wire.Frame{Type: wire.FrameEvent, ChannelID: evt.ChannelID, Event: &evt}

	s.mu.Lock()
	if !s.welcomed {
		defer s.mu.Unlock()
		if s.state == StateClosed || len(s.early) >= cap(s.outbound) {
			return false
		}
		s.early = append(s.early, frame)
		return true
	}
	s.mu.Unlock()
	return s.push(frame)
}

// Evicted is called by a group that dropped the session.
func (s *Session) Evicted(channelID chat.ChannelID, err error) {
	s.log.Warn("Session evicted from channel", "channel_id", channelID, "error", err)
	s.Close(err)
}

func (s *Session) push(f wire.Frame) bool {
	select {
	case <-s.done:
		return false
	default:
	}
	select {
	case s.outbound <- f:
		return true
	default:
		return false
	}
}

// reply queues a frame for the client, closing the session when it cannot keep up.
func (s *Session) reply(f wire.Frame) {
	if !s.push(f) {
		s.Close(errors.ErrBackpressure)
	}
}

// welcome queues the welcome frame first, then the events delivered while
// the session was subscribing.
func (s *Session) welcome() error {
	s.mu.Lock()
	channels := s.sortedChannels()
	s.mu.Unlock()
	ids := make([]string, 0, len(channels))
	for _, c := range channels {
		ids = append(ids, string(c))
	}
	data, err := json.Marshal(wire.Welcome{SessionID: s.id, UserID: string(s.identity.UserID), Channels: ids})
	if err != nil {
		return err
	}

	s.mu.Lock()
	frames := append([]wire.Frame{{Type: wire.FrameWelcome, Data: data}}, s.early...)
	s.early = nil
	s.welcomed = true
	queued := true
	for _, f := range frames {
		if queued = s.push(f); !queued {
			break
		}
	}
	s.mu.Unlock()
	if !queued {
		return errors.ErrBackpressure
	}
	return nil
}

// subscribe attaches the session to the group of channelID.
func (s *Session) subscribe(ctx context.Context, channelID chat.ChannelID) error {
	if err := s.gateway.components.Hub.Subscribe(ctx, channelID, s); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateClosed {
		s.gateway.components.Hub.Unsubscribe(channelID, s.id)
		return errors.ErrSessionClosed
	}
	s.channels[channelID] = struct{}{}
	return nil
}

func (s *Session) unsubscribe(channelID chat.ChannelID) bool {
	s.mu.Lock()
	_, ok := s.channels[channelID]
	delete(s.channels, channelID)
	s.mu.Unlock()
	if !ok {
		return false
	}
	s.gateway.components.Hub.Unsubscribe(channelID, s.id)
	s.gateway.components.Presence.Leave(channelID, s.identity.UserID)
	return true
}

func (s *Session) isSubscribed(channelID chat.ChannelID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.channels[channelID]
	return ok
}

// Close detaches the session from every group, announces the user left
// those channels and moves to closed. It is safe to call more than once
// and concurrently with a publish.
func (s *Session) Close(cause error) {
	s.mu.Lock()
	if s.state == StateClosed {
		s.mu.Unlock()
		return
	}
	_ = s.transitionLocked(StateClosed)
	s.cause = cause
	channels := s.sortedChannels()
	s.channels = make(map[chat.ChannelID]struct{})
	close(s.done)
	s.mu.Unlock()

	for _, channelID := range channels {
		s.gateway.components.Hub.Unsubscribe(channelID, s.id)
		s.gateway.components.Presence.Leave(channelID, s.identity.UserID)
	}
	s.gateway.unregister(s)
	if cause != nil {
		s.log.Warn("Session closed", "channels", len(channels), "error", cause)
		return
	}
	s.log.Info("Session closed", "channels", len(channels))
}

// Handle dispatches one intent and queues its result or error frame.
// The returned error is the one reported to the client; ErrSessionClosed
// tells the transport to stop reading.
func (s *Session) Handle(ctx context.Context, intent wire.Intent) error {
	data, err := s.dispatch(ctx, intent)
	code := "ok"
	if err != nil {
		code = errors.Code(err)
	}
	op := string(intent.Op)
	if _, known := wire.Fields[intent.Op]; !known {
		op = "unknown"
	}
	s.gateway.metrics.IntentHandled(op, code)

	switch {
	case errors.Is(err, errors.ErrSessionClosed):
		return err
	case err != nil:
		s.logIntentError(intent, err)
		s.reply(errorFrame(intent.Ref, err))
		return err
	}

	if gap, ok := data.(gapDetected); ok {
		s.reply(wire.Frame{Type: wire.FrameGap, Ref: intent.Ref, ChannelID: string(gap.channelID), HeadSeq: gap.headSeq})
		return nil
	}
	frame := wire.Frame{Type: wire.FrameResult, Ref: intent.Ref}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			s.log.Error("Failed to encode result", "op", intent.Op, "error", err)
			s.reply(errorFrame(intent.Ref, err))
			return err
		}
		frame.Data = raw
	}
	s.reply(frame)
	return nil
}

// Reject reports an intent the transport could not decode.
func (s *Session) Reject(err error) {
	s.gateway.metrics.IntentHandled("unknown", errors.Code(err))
	s.log.Debug("Undecodable intent", "error", err)
	s.reply(errorFrame("", err))
}

func (s *Session) logIntentError(intent wire.Intent, err error) {
	switch errors.KindOf(err) {
	case errors.KindInternal, errors.KindUnavailable:
		s.log.Error("Intent failed", "op", intent.Op, "channel_id", intent.ChannelID, "error", err)
	default:
		s.log.Debug("Intent rejected", "op", intent.Op, "channel_id", intent.ChannelID, "error", err)
	}
}

func errorFrame(ref string, err error) wire.Frame {
	return wire.Frame{
		Type: wire.FrameError,
		Ref:  ref,
		Error: &wire.Error{
			Code:    errors.Code(err),
			Kind:    string(errors.KindOf(err)),
			Message: err.Error(),
		},
	}
}
