package gateway

import (
	"context"
	"fmt"
	"strings"
	"time"

	"workspace-chat/domain/chat"
	"workspace-chat/errors"
	"workspace-chat/gateway/wire"

	"github.com/samber/lo"
)

type handler func(s *Session, ctx context.Context, in wire.Intent) (any, error)

var handlers = map[wire.Op]handler{
	wire.OpSend:          (*Session).send,
	wire.OpEdit:          (*Session).edit,
	wire.OpDelete:        (*Session).deleteMessage,
	wire.OpReact:         (*Session).react,
	wire.OpHeartbeat:     (*Session).heartbeat,
	wire.OpTyping:        (*Session).typing,
	wire.OpMarkRead:      (*Session).markRead,
	wire.OpResync:        (*Session).resync,
	wire.OpSubscribe:     (*Session).subscribeIntent,
	wire.OpUnsubscribe:   (*Session).unsubscribeIntent,
	wire.OpHistory:       (*Session).history,
	wire.OpReaders:       (*Session).readers,
	wire.OpCreateChannel: (*Session).createChannel,
	wire.OpAddMember:     (*Session).addMember,
	wire.OpRemoveMember:  (*Session).removeMember,
	wire.OpRename:        (*Session).rename,
	wire.OpArchive:       (*Session).archive,
}

// gapDetected asks the client to backfill channelID from history, then
// resume its event stream after headSeq.
type gapDetected struct {
	channelID chat.ChannelID
	headSeq   uint64
}

func (s *Session) dispatch(ctx context.Context, in wire.Intent) (any, error) {
	if s.State() != StateSubscribed {
		return nil, errors.ErrSessionClosed
	}
	if !s.limiter.Allow() {
		return nil, errors.ErrRateLimited
	}
	if err := s.gateway.validateIntent(in); err != nil {
		return nil, err
	}
	return handlers[in.Op](s, ctx, in)
}

func (g *Gateway) validateIntent(in wire.Intent) error {
	fields, ok := wire.Fields[in.Op]
	if !ok {
		return fmt.Errorf("%w: %q", errors.ErrUnknownOp, in.Op)
	}
	switch in.Op {
	case wire.OpSend:
		if strings.TrimSpace(in.Body) == "" && len(in.Attachments) == 0 {
			return errors.ErrEmptyBody
		}
	case wire.OpEdit:
		if strings.TrimSpace(in.Body) == "" {
			return errors.ErrEmptyBody
		}
	}
	if err := g.validate.StructPartial(in, fields...); err != nil {
		return fmt.Errorf("%w: %w", errors.ErrValidation, err)
	}
	return nil
}

// call runs a component call with the gateway retry policy.
func (s *Session) call(ctx context.Context, op wire.Op, fn func() error) error {
	return s.gateway.config.Retry.do(ctx, func(attempt int, err error) {
		s.gateway.metrics.IntentRetried(string(op))
		s.log.Warn("Retrying intent", "op", op, "attempt", attempt, "error", err)
	}, fn)
}

func (s *Session) requireSubscribed(channelID chat.ChannelID) error {
	if !s.isSubscribed(channelID) {
		return fmt.Errorf("%w: %s", errors.ErrNotSubscribed, channelID)
	}
	return nil
}

// requireAdmin grants workspace admins every channel of their workspace,
// other users need the channel admin capability.
func (s *Session) requireAdmin(ctx context.Context, op wire.Op, channelID chat.ChannelID) error {
	if s.identity.IsAdmin() {
		var channel chat.Channel
		err := s.call(ctx, op, func() (err error) {
			channel, err = s.gateway.components.Registry.Get(ctx, channelID)
			return err
		})
		if err != nil {
			return err
		}
		if channel.WorkspaceID == s.identity.WorkspaceID {
			return nil
		}
	}
	var ok bool
	err := s.call(ctx, op, func() (err error) {
		ok, err = s.gateway.components.Authorizer.IsChannelAdmin(ctx, s.identity.UserID, channelID)
		return err
	})
	if err != nil {
		return err
	}
	if !ok {
		return errors.ErrForbidden
	}
	return nil
}

func (s *Session) send(ctx context.Context, in wire.Intent) (any, error) {
	cmd := chat.AppendCommand{
		ChannelID:     chat.ChannelID(in.ChannelID),
		AuthorID:      s.identity.UserID,
		Body:          in.Body,
		ParentID:      messageIDPtr(in.ParentID),
		Attachments:   in.Attachments,
		CorrelationID: in.CorrelationID,
		Origin:        s.id,
	}
	var msg chat.Message
	err := s.call(ctx, in.Op, func() (err error) {
		msg, err = s.gateway.components.Store.Append(ctx, cmd)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.gateway.components.Presence.StopTyping(cmd.ChannelID, s.identity.UserID)
	return wire.FromMessage(msg), nil
}

func (s *Session) edit(ctx context.Context, in wire.Intent) (any, error) {
	var msg chat.Message
	err := s.call(ctx, in.Op, func() (err error) {
		msg, err = s.gateway.components.Store.Edit(ctx, chat.ChannelID(in.ChannelID), chat.MessageID(in.MessageID), s.identity.UserID, in.Body)
		return err
	})
	if err != nil {
		return nil, err
	}
	return wire.FromMessage(msg), nil
}

func (s *Session) deleteMessage(ctx context.Context, in wire.Intent) (any, error) {
	var msg chat.Message
	err := s.call(ctx, in.Op, func() (err error) {
		msg, err = s.gateway.components.Store.SoftDelete(ctx, chat.ChannelID(in.ChannelID), chat.MessageID(in.MessageID), s.identity.UserID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return wire.FromMessage(msg), nil
}

func (s *Session) react(ctx context.Context, in wire.Intent) (any, error) {
	var msg chat.Message
	err := s.call(ctx, in.Op, func() (err error) {
		msg, _, err = s.gateway.components.Store.React(ctx, chat.ChannelID(in.ChannelID), chat.MessageID(in.MessageID), s.identity.UserID, in.Symbol, in.Add)
		return err
	})
	if err != nil {
		return nil, err
	}
	return wire.FromMessage(msg), nil
}

func (s *Session) heartbeat(_ context.Context, in wire.Intent) (any, error) {
	channelID := chat.ChannelID(in.ChannelID)
	if err := s.requireSubscribed(channelID); err != nil {
		return nil, err
	}
	s.gateway.components.Presence.Heartbeat(channelID, s.identity.UserID)
	return nil, nil
}

// typing with stop set clears the indicator; a zero ttl uses the default.
func (s *Session) typing(_ context.Context, in wire.Intent) (any, error) {
	channelID := chat.ChannelID(in.ChannelID)
	if err := s.requireSubscribed(channelID); err != nil {
		return nil, err
	}
	if in.Stop {
		s.gateway.components.Presence.StopTyping(channelID, s.identity.UserID)
		return nil, nil
	}
	s.gateway.components.Presence.SetTyping(channelID, s.identity.UserID, time.Duration(in.TTLMs)*time.Millisecond)
	return nil, nil
}

func (s *Session) markRead(ctx context.Context, in wire.Intent) (any, error) {
	var marker chat.ReadMarker
	var advanced bool
	err := s.call(ctx, in.Op, func() (err error) {
		marker, advanced, err = s.gateway.components.Receipts.Advance(ctx, chat.ChannelID(in.ChannelID), s.identity.UserID, chat.MessageID(in.MessageID))
		return err
	})
	if err != nil {
		return nil, err
	}
	return wire.ReadMarker{
		ChannelID: string(marker.ChannelID),
		UserID:    string(marker.UserID),
		MessageID: uint64(marker.LastReadMessageID),
		Advanced:  advanced,
	}, nil
}

// resync replays the events after SinceSeq from the hub buffer, or answers
// with a gap frame when they are gone.
func (s *Session) resync(_ context.Context, in wire.Intent) (any, error) {
	channelID := chat.ChannelID(in.ChannelID)
	if err := s.requireSubscribed(channelID); err != nil {
		return nil, err
	}
	envelopes, err := s.gateway.components.Hub.ReplaySince(channelID, in.SinceSeq)
	if errors.Is(err, errors.ErrGapDetected) {
		s.log.Info("Replay gap", "channel_id", channelID, "since_seq", in.SinceSeq, "error", err)
		return gapDetected{channelID: channelID, headSeq: s.gateway.components.Hub.Head(channelID)}, nil
	}
	if err != nil {
		return nil, err
	}
	for _, env := range envelopes {
		if !s.Deliver(env) {
			s.Close(errors.ErrBackpressure)
			return nil, errors.ErrSessionClosed
		}
	}
	return wire.Replay{ChannelID: in.ChannelID, Replayed: len(envelopes)}, nil
}

func (s *Session) subscribeIntent(ctx context.Context, in wire.Intent) (any, error) {
	channelID := chat.ChannelID(in.ChannelID)
	err := s.call(ctx, in.Op, func() error {
		return s.subscribe(ctx, channelID)
	})
	if err != nil {
		return nil, err
	}
	return nil, nil
}

func (s *Session) unsubscribeIntent(_ context.Context, in wire.Intent) (any, error) {
	if !s.unsubscribe(chat.ChannelID(in.ChannelID)) {
		return nil, fmt.Errorf("%w: %s", errors.ErrNotSubscribed, in.ChannelID)
	}
	return nil, nil
}

func (s *Session) history(ctx context.Context, in wire.Intent) (any, error) {
	limit := in.Limit
	if limit == 0 {
		limit = s.gateway.config.HistoryLimit
	}
	query := chat.ListQuery{
		ChannelID: chat.ChannelID(in.ChannelID),
		AfterID:   chat.MessageID(in.AfterID),
		Limit:     limit,
		ParentID:  messageIDPtr(in.ParentID),
		ReaderID:  s.identity.UserID,
	}
	var messages []wire.Message
	err := s.call(ctx, in.Op, func() error {
		messages = messages[:0]
		for m, err := range s.gateway.components.Store.List(ctx, query) {
			if err != nil {
				return err
			}
			messages = append(messages, wire.FromMessage(m))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return messages, nil
}

func (s *Session) readers(ctx context.Context, in wire.Intent) (any, error) {
	channelID := chat.ChannelID(in.ChannelID)
	var readers []chat.UserID
	err := s.call(ctx, in.Op, func() error {
		ok, err := s.gateway.components.Authorizer.CanAccess(ctx, s.identity.UserID, channelID)
		if err != nil {
			return err
		}
		if !ok {
			return errors.ErrNotAMember
		}
		readers, err = s.gateway.components.Receipts.ReadersOf(ctx, channelID, chat.MessageID(in.MessageID))
		return err
	})
	if err != nil {
		return nil, err
	}
	return wire.Readers{
		MessageID: in.MessageID,
		Readers:   lo.Map(readers, func(u chat.UserID, _ int) string { return string(u) }),
	}, nil
}

// createChannel subscribes the creator to the new channel. Other initial
// members pick it up on their next subscribe or connect.
func (s *Session) createChannel(ctx context.Context, in wire.Intent) (any, error) {
	kind, err := chat.ParseChannelKind(in.Kind)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrValidation, err)
	}
	cmd := chat.CreateChannelCommand{
		WorkspaceID:    s.identity.WorkspaceID,
		Kind:           kind,
		Name:           in.Name,
		CreatedBy:      s.identity.UserID,
		InitialMembers: lo.Map(in.Members, func(u string, _ int) chat.UserID { return chat.UserID(u) }),
	}
	var channel chat.Channel
	err = s.call(ctx, in.Op, func() (err error) {
		channel, err = s.gateway.components.Registry.Create(ctx, cmd)
		return err
	})
	if err != nil {
		return nil, err
	}
	if err := s.subscribe(ctx, channel.ID); err != nil {
		s.log.Warn("Created channel not subscribed", "channel_id", channel.ID, "error", err)
	}
	return wire.FromChannel(channel), nil
}

func (s *Session) addMember(ctx context.Context, in wire.Intent) (any, error) {
	channelID := chat.ChannelID(in.ChannelID)
	if err := s.requireAdmin(ctx, in.Op, channelID); err != nil {
		return nil, err
	}
	err := s.call(ctx, in.Op, func() error {
		return s.gateway.components.Registry.AddMember(ctx, channelID, chat.UserID(in.UserID))
	})
	return nil, err
}

// removeMember is allowed to admins, and to anyone removing themselves.
func (s *Session) removeMember(ctx context.Context, in wire.Intent) (any, error) {
	channelID := chat.ChannelID(in.ChannelID)
	userID := chat.UserID(in.UserID)
	if userID != s.identity.UserID {
		if err := s.requireAdmin(ctx, in.Op, channelID); err != nil {
			return nil, err
		}
	}
	err := s.call(ctx, in.Op, func() error {
		return s.gateway.components.Registry.RemoveMember(ctx, channelID, userID)
	})
	if err != nil {
		return nil, err
	}
	if userID == s.identity.UserID {
		s.unsubscribe(channelID)
	}
	return nil, nil
}

func (s *Session) rename(ctx context.Context, in wire.Intent) (any, error) {
	channelID := chat.ChannelID(in.ChannelID)
	if err := s.requireAdmin(ctx, in.Op, channelID); err != nil {
		return nil, err
	}
	var channel chat.Channel
	err := s.call(ctx, in.Op, func() (err error) {
		channel, err = s.gateway.components.Registry.Rename(ctx, channelID, in.Name)
		return err
	})
	if err != nil {
		return nil, err
	}
	return wire.FromChannel(channel), nil
}

func (s *Session) archive(ctx context.Context, in wire.Intent) (any, error) {
	channelID := chat.ChannelID(in.ChannelID)
	if err := s.requireAdmin(ctx, in.Op, channelID); err != nil {
		return nil, err
	}
	var channel chat.Channel
	err := s.call(ctx, in.Op, func() (err error) {
		channel, err = s.gateway.components.Registry.Archive(ctx, channelID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return wire.FromChannel(channel), nil
}

func messageIDPtr(id *uint64) *chat.MessageID {
	if id == nil {
		return nil
	}
	return lo.ToPtr(chat.MessageID(*id))
}
