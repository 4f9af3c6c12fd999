package services

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"strings"
	"time"

	"workspace-chat/clock"
	"workspace-chat/contract"
	"workspace-chat/domain/chat"
	"workspace-chat/domain/event"
	"workspace-chat/errors"
)

const (
	DefaultPageSize = 100
	publishTimeout  = 5 * time.Second
)

// MessageStore is the durable log of messages per channel.
// Every mutation of a channel runs under that channel's lock, from validation
// to the hand-off of its event, so event order matches id order.
type MessageStore struct {
	log        *slog.Logger
	channels   contract.ChannelRepository
	messages   contract.MessageRepository
	authorizer contract.Authorizer
	publisher  contract.Publisher
	filter     contract.ContentFilter
	clock      clock.Clock
	locks      *channelLocks
	pageSize   int
}

var _ contract.IMessageStore = (*MessageStore)(nil)

func NewMessageStore(
	log *slog.Logger,
	channels contract.ChannelRepository,
	messages contract.MessageRepository,
	authorizer contract.Authorizer,
	publisher contract.Publisher,
	filter contract.ContentFilter,
	clk clock.Clock,
	pageSize int,
) *MessageStore {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &MessageStore{
		log:        log,
		channels:   channels,
		messages:   messages,
		authorizer: authorizer,
		publisher:  publisher,
		filter:     filter,
		clock:      clk,
		locks:      newChannelLocks(),
		pageSize:   pageSize,
	}
}

func (s *MessageStore) Append(ctx context.Context, cmd chat.AppendCommand) (chat.Message, error) {
	if strings.TrimSpace(cmd.Body) == "" && len(cmd.Attachments) == 0 {
		return chat.Message{}, errors.ErrEmptyBody
	}

	unlock := s.locks.lock(cmd.ChannelID)
	defer unlock()

	channel, err := s.channels.GetChannel(ctx, cmd.ChannelID)
	if err != nil {
		return chat.Message{}, err
	}
	if channel.Archived {
		return chat.Message{}, errors.ErrChannelArchived
	}
	if err = s.requireAccess(ctx, cmd.AuthorID, cmd.ChannelID); err != nil {
		return chat.Message{}, err
	}
	if cmd.ParentID != nil {
		if err = s.checkParent(ctx, cmd.ChannelID, *cmd.ParentID); err != nil {
			return chat.Message{}, err
		}
	}

	message := chat.Message{
		ChannelID:   cmd.ChannelID,
		AuthorID:    cmd.AuthorID,
		CreatedAt:   s.clock.Now(),
		ParentID:    cmd.ParentID,
		Attachments: cmd.Attachments,
	}
	s.applyFilter(&message, cmd.Body)

	stored, err := s.messages.InsertMessage(ctx, message)
	if err != nil {
		return chat.Message{}, err
	}
	s.publish(ctx, event.MessageCreated{Message: stored, CorrelationID: cmd.CorrelationID, Origin: cmd.Origin})
	return stored, nil
}

func (s *MessageStore) Edit(ctx context.Context, channelID chat.ChannelID, messageID chat.MessageID, editorID chat.UserID, body string) (chat.Message, error) {
	if strings.TrimSpace(body) == "" {
		return chat.Message{}, errors.ErrEmptyBody
	}

	unlock := s.locks.lock(channelID)
	defer unlock()

	current, err := s.liveMessage(ctx, channelID, messageID)
	if err != nil {
		return chat.Message{}, err
	}
	if current.AuthorID != editorID {
		return chat.Message{}, errors.ErrNotAuthor
	}

	edited := current.WithEdit("", s.clock.Now())
	s.applyFilter(&edited, body)
	if err = s.messages.UpdateMessage(ctx, edited); err != nil {
		return chat.Message{}, err
	}
	s.publish(ctx, event.MessageEdited{Message: edited})
	return edited, nil
}

// SoftDelete tombstones a message. Deleting a tombstone returns it unchanged and emits nothing.
func (s *MessageStore) SoftDelete(ctx context.Context, channelID chat.ChannelID, messageID chat.MessageID, requesterID chat.UserID) (chat.Message, error) {
	unlock := s.locks.lock(channelID)
	defer unlock()

	current, err := s.messages.GetMessage(ctx, channelID, messageID)
	if err != nil {
		return chat.Message{}, err
	}
	if current.AuthorID != requesterID {
		admin, err := s.authorizer.IsChannelAdmin(ctx, requesterID, channelID)
		if err != nil {
			return chat.Message{}, err
		}
		if !admin {
			return chat.Message{}, errors.ErrNotAuthor
		}
	}
	if current.IsDeleted() {
		return current, nil
	}

	tombstone := current.Tombstone(s.clock.Now())
	if err = s.messages.UpdateMessage(ctx, tombstone); err != nil {
		return chat.Message{}, err
	}
	s.publish(ctx, event.MessageDeleted{
		ChannelID: channelID,
		MessageID: messageID,
		DeletedBy: requesterID,
		DeletedAt: *tombstone.DeletedAt,
	})
	return tombstone, nil
}

// React adds or removes userID from the reactor set of symbol.
// The boolean result is false when the set did not change; no event is emitted then.
func (s *MessageStore) React(ctx context.Context, channelID chat.ChannelID, messageID chat.MessageID, userID chat.UserID, symbol string, add bool) (chat.Message, bool, error) {
	if strings.TrimSpace(symbol) == "" {
		return chat.Message{}, false, fmt.Errorf("%w: empty reaction symbol", errors.ErrValidation)
	}

	unlock := s.locks.lock(channelID)
	defer unlock()

	if err := s.requireAccess(ctx, userID, channelID); err != nil {
		return chat.Message{}, false, err
	}
	current, err := s.liveMessage(ctx, channelID, messageID)
	if err != nil {
		return chat.Message{}, false, err
	}

	updated, changed := current.WithReaction(symbol, userID, add)
	if !changed {
		return current, false, nil
	}
	if err = s.messages.UpdateMessage(ctx, updated); err != nil {
		return chat.Message{}, false, err
	}
	s.publish(ctx, event.ReactionChanged{
		ChannelID: channelID,
		MessageID: messageID,
		Symbol:    symbol,
		UserID:    userID,
		Added:     add,
		Reactors:  updated.Reactors(symbol),
	})
	return updated, true, nil
}

// List returns a lazy sequence of messages in ascending id order.
// Pages are pulled from the repository while the caller keeps ranging, and
// every range over the returned sequence starts again from query.AfterID.
// A failure is yielded once as the last element.
func (s *MessageStore) List(ctx context.Context, query chat.ListQuery) iter.Seq2[chat.Message, error] {
	return func(yield func(chat.Message, error) bool) {
		if query.ReaderID != "" {
			if err := s.requireAccess(ctx, query.ReaderID, query.ChannelID); err != nil {
				yield(chat.Message{}, err)
				return
			}
		}

		after := query.AfterID
		yielded := 0
		for {
			size := s.pageSize
			if query.Limit > 0 {
				size = min(size, query.Limit-yielded)
			}

			var page []chat.Message
			var err error
			if query.ParentID != nil {
				page, err = s.messages.ListReplies(ctx, query.ChannelID, *query.ParentID, after, size)
			} else {
				page, err = s.messages.ListMessages(ctx, query.ChannelID, after, size)
			}
			if err != nil {
				yield(chat.Message{}, err)
				return
			}

			for _, m := range page {
				if !yield(m, nil) {
					return
				}
				after = m.ID
				yielded++
			}
			if len(page) < size || (query.Limit > 0 && yielded >= query.Limit) {
				return
			}
		}
	}
}

func (s *MessageStore) requireAccess(ctx context.Context, userID chat.UserID, channelID chat.ChannelID) error {
	ok, err := s.authorizer.CanAccess(ctx, userID, channelID)
	if err != nil {
		return err
	}
	if !ok {
		return errors.ErrNotAMember
	}
	return nil
}

// checkParent enforces one level threads: the parent must exist in the channel
// and must not be a reply. A tombstoned top level parent is still valid.
func (s *MessageStore) checkParent(ctx context.Context, channelID chat.ChannelID, parentID chat.MessageID) error {
	parent, err := s.messages.GetMessage(ctx, channelID, parentID)
	if errors.Is(err, errors.ErrNotFound) {
		return errors.ErrInvalidParent
	}
	if err != nil {
		return err
	}
	if parent.IsReply() {
		return fmt.Errorf("%w: message %d is already a reply", errors.ErrInvalidParent, parentID)
	}
	return nil
}

// liveMessage loads a message and treats tombstones as missing.
func (s *MessageStore) liveMessage(ctx context.Context, channelID chat.ChannelID, messageID chat.MessageID) (chat.Message, error) {
	m, err := s.messages.GetMessage(ctx, channelID, messageID)
	if err != nil {
		return chat.Message{}, err
	}
	if m.IsDeleted() {
		return chat.Message{}, errors.ErrMessageNotFound
	}
	return m, nil
}

func (s *MessageStore) applyFilter(m *chat.Message, body string) {
	if s.filter == nil {
		m.Body = body
		return
	}
	result := s.filter.Filter(body)
	m.Body = result.Body
	m.Lang = result.Lang
	m.Censored = result.Censored
}

// publish hands the event to the hub once the write is committed.
// The caller's cancellation does not abort it: the mutation already happened.
// On failure the hub evicts the channel's subscribers, who then backfill.
func (s *MessageStore) publish(ctx context.Context, e event.DomainEvent) {
	publishCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := s.publisher.Publish(publishCtx, e); err != nil {
		s.log.Error("Event lost, channel subscribers must backfill", "channel_id", e.Channel(), "kind", e.Kind(), "error", err)
	}
}
