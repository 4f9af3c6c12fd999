package repositories

import (
	"context"
	"log/slog"
	"strconv"

	"workspace-chat/contract"
	"workspace-chat/domain/chat"
	"workspace-chat/errors"

	"github.com/dgraph-io/badger/v4"
)

type MessageRepository struct {
	db  *badger.DB
	log *slog.Logger
}

var _ contract.MessageRepository = MessageRepository{}

func NewMessageRepository(db *badger.DB, log *slog.Logger) MessageRepository {
	return MessageRepository{db: db, log: log}
}

// InsertMessage assigns the next id of the channel and persists the message.
// The id counter, the record and the thread index are written in one transaction,
// so ids are gapless and a failed write never consumes an id.
func (m MessageRepository) InsertMessage(ctx context.Context, message chat.Message) (chat.Message, error) {
	if err := checkCtx(ctx); err != nil {
		return chat.Message{}, err
	}
	err := m.db.Update(func(txn *badger.Txn) error {
		last, err := readSequence(txn, message.ChannelID)
		if err != nil {
			return err
		}
		message.ID = last + 1
		if err = putRecord(txn, messageKey(message.ChannelID, message.ID), fromMessage(message)); err != nil {
			return err
		}
		if message.ParentID != nil {
			if err = txn.Set(replyKey(message.ChannelID, *message.ParentID, message.ID), nil); err != nil {
				return err
			}
		}
		return txn.Set(sequenceKey(message.ChannelID), encodeSequence(message.ID))
	})
	if err != nil {
		return chat.Message{}, storageErr(err)
	}
	m.log.Debug("Message stored", "channel_id", message.ChannelID, "message_id", message.ID)
	return message, nil
}

// UpdateMessage overwrites an existing message. Ids and thread position never change.
func (m MessageRepository) UpdateMessage(ctx context.Context, message chat.Message) error {
	if err := checkCtx(ctx); err != nil {
		return err
	}
	err := m.db.Update(func(txn *badger.Txn) error {
		var existing diskMessage
		found, err := getRecord(txn, messageKey(message.ChannelID, message.ID), &existing)
		if err != nil {
			return err
		}
		if !found {
			return errors.ErrMessageNotFound
		}
		return putRecord(txn, messageKey(message.ChannelID, message.ID), fromMessage(message))
	})
	if errors.Is(err, errors.ErrMessageNotFound) {
		return err
	}
	return storageErr(err)
}

func (m MessageRepository) GetMessage(ctx context.Context, channelID chat.ChannelID, messageID chat.MessageID) (chat.Message, error) {
	if err := checkCtx(ctx); err != nil {
		return chat.Message{}, err
	}
	var d diskMessage
	var found bool
	err := m.db.View(func(txn *badger.Txn) error {
		var err error
		found, err = getRecord(txn, messageKey(channelID, messageID), &d)
		return err
	})
	if err != nil {
		return chat.Message{}, storageErr(err)
	}
	if !found {
		return chat.Message{}, errors.ErrMessageNotFound
	}
	return toMessage(d), nil
}

// ListMessages returns up to limit messages with id > afterID in ascending id order,
// using a prefix scan seeked right after the cursor. A limit <= 0 means no limit.
func (m MessageRepository) ListMessages(ctx context.Context, channelID chat.ChannelID, afterID chat.MessageID, limit int) ([]chat.Message, error) {
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}
	var messages []chat.Message
	err := m.db.View(func(txn *badger.Txn) error {
		seek := messageKey(channelID, afterID+1)
		return scanPrefix(txn, messagesPrefix(channelID), seek, true, func(_, value []byte) (bool, error) {
			var d diskMessage
			if err := unmarshal(value, &d); err != nil {
				return false, err
			}
			messages = append(messages, toMessage(d))
			return limit <= 0 || len(messages) < limit, nil
		})
	})
	if err != nil {
		return nil, storageErr(err)
	}
	return messages, nil
}

// ListReplies walks the thread index of parentID and resolves each reply.
func (m MessageRepository) ListReplies(ctx context.Context, channelID chat.ChannelID, parentID, afterID chat.MessageID, limit int) ([]chat.Message, error) {
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}
	var replies []chat.Message
	err := m.db.View(func(txn *badger.Txn) error {
		prefix := repliesPrefix(channelID, parentID)
		var ids []chat.MessageID
		err := scanPrefix(txn, prefix, replyKey(channelID, parentID, afterID+1), false, func(key, _ []byte) (bool, error) {
			id, err := strconv.ParseUint(string(key[len(prefix):]), 10, 64)
			if err != nil {
				return false, err
			}
			ids = append(ids, chat.MessageID(id))
			return limit <= 0 || len(ids) < limit, nil
		})
		if err != nil {
			return err
		}
		for _, id := range ids {
			var d diskMessage
			found, err := getRecord(txn, messageKey(channelID, id), &d)
			if err != nil {
				return err
			}
			if !found {
				m.log.Warn("Dangling thread index", "channel_id", channelID, "message_id", id)
				continue
			}
			replies = append(replies, toMessage(d))
		}
		return nil
	})
	if err != nil {
		return nil, storageErr(err)
	}
	return replies, nil
}

func (m MessageRepository) LastMessageID(ctx context.Context, channelID chat.ChannelID) (chat.MessageID, error) {
	if err := checkCtx(ctx); err != nil {
		return 0, err
	}
	var last chat.MessageID
	err := m.db.View(func(txn *badger.Txn) error {
		var err error
		last, err = readSequence(txn, channelID)
		return err
	})
	return last, storageErr(err)
}

func readSequence(txn *badger.Txn, channelID chat.ChannelID) (chat.MessageID, error) {
	item, err := txn.Get(sequenceKey(channelID))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	var last chat.MessageID
	err = item.Value(func(val []byte) error {
		last = decodeSequence(val)
		return nil
	})
	return last, err
}
