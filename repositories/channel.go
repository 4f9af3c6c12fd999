package repositories

import (
	"context"
	"log/slog"

	"workspace-chat/contract"
	"workspace-chat/domain/chat"
	"workspace-chat/errors"

	"github.com/dgraph-io/badger/v4"
)

type ChannelRepository struct {
	db  *badger.DB
	log *slog.Logger
}

var _ contract.ChannelRepository = ChannelRepository{}

func NewChannelRepository(db *badger.DB, log *slog.Logger) ChannelRepository {
	return ChannelRepository{db: db, log: log}
}

// InsertChannel stores the channel and its initial memberships in one transaction.
func (r ChannelRepository) InsertChannel(ctx context.Context, channel chat.Channel, members []chat.Membership) error {
	if err := checkCtx(ctx); err != nil {
		return err
	}
	err := r.db.Update(func(txn *badger.Txn) error {
		if err := putRecord(txn, channelKey(channel.ID), fromChannel(channel)); err != nil {
			return err
		}
		for _, m := range members {
			if err := putMembership(txn, m); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return storageErr(err)
	}
	r.log.Debug("Channel stored", "channel_id", channel.ID, "members", len(members))
	return nil
}

func (r ChannelRepository) UpdateChannel(ctx context.Context, channel chat.Channel) error {
	if err := checkCtx(ctx); err != nil {
		return err
	}
	err := r.db.Update(func(txn *badger.Txn) error {
		var existing diskChannel
		found, err := getRecord(txn, channelKey(channel.ID), &existing)
		if err != nil {
			return err
		}
		if !found {
			return errors.ErrChannelNotFound
		}
		return putRecord(txn, channelKey(channel.ID), fromChannel(channel))
	})
	if errors.Is(err, errors.ErrChannelNotFound) {
		return err
	}
	return storageErr(err)
}

func (r ChannelRepository) GetChannel(ctx context.Context, channelID chat.ChannelID) (chat.Channel, error) {
	if err := checkCtx(ctx); err != nil {
		return chat.Channel{}, err
	}
	var d diskChannel
	var found bool
	err := r.db.View(func(txn *badger.Txn) error {
		var err error
		found, err = getRecord(txn, channelKey(channelID), &d)
		return err
	})
	if err != nil {
		return chat.Channel{}, storageErr(err)
	}
	if !found {
		return chat.Channel{}, errors.ErrChannelNotFound
	}
	return toChannel(d), nil
}

// AddMember is idempotent: an existing membership keeps its original JoinedAt.
func (r ChannelRepository) AddMember(ctx context.Context, membership chat.Membership) error {
	if err := checkCtx(ctx); err != nil {
		return err
	}
	err := r.db.Update(func(txn *badger.Txn) error {
		var existing diskMembership
		found, err := getRecord(txn, memberKey(membership.ChannelID, membership.UserID), &existing)
		if err != nil || found {
			return err
		}
		return putMembership(txn, membership)
	})
	return storageErr(err)
}

func (r ChannelRepository) RemoveMember(ctx context.Context, channelID chat.ChannelID, userID chat.UserID) error {
	if err := checkCtx(ctx); err != nil {
		return err
	}
	err := r.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete(memberKey(channelID, userID)); err != nil {
			return err
		}
		return txn.Delete(userMemberKey(userID, channelID))
	})
	return storageErr(err)
}

func (r ChannelRepository) IsMember(ctx context.Context, channelID chat.ChannelID, userID chat.UserID) (bool, error) {
	if err := checkCtx(ctx); err != nil {
		return false, err
	}
	var found bool
	err := r.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(memberKey(channelID, userID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		found = err == nil
		return err
	})
	return found, storageErr(err)
}

func (r ChannelRepository) ListMembers(ctx context.Context, channelID chat.ChannelID) ([]chat.Membership, error) {
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}
	var members []chat.Membership
	err := r.db.View(func(txn *badger.Txn) error {
		return scanPrefix(txn, membersPrefix(channelID), nil, true, func(_, value []byte) (bool, error) {
			var d diskMembership
			if err := unmarshal(value, &d); err != nil {
				return false, err
			}
			if d.ChannelID == string(channelID) {
				members = append(members, toMembership(d))
			}
			return true, nil
		})
	})
	if err != nil {
		return nil, storageErr(err)
	}
	return members, nil
}

// ListChannelsForUser resolves the reverse membership index, ordered by channel id.
func (r ChannelRepository) ListChannelsForUser(ctx context.Context, userID chat.UserID) ([]chat.Channel, error) {
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}
	var channels []chat.Channel
	err := r.db.View(func(txn *badger.Txn) error {
		var ids []chat.ChannelID
		err := scanPrefix(txn, userMembersPrefix(userID), nil, true, func(_, value []byte) (bool, error) {
			var d diskMembership
			if err := unmarshal(value, &d); err != nil {
				return false, err
			}
			// The prefix of user "a" also matches user "a:b".
			if d.UserID == string(userID) {
				ids = append(ids, chat.ChannelID(d.ChannelID))
			}
			return true, nil
		})
		if err != nil {
			return err
		}
		for _, id := range ids {
			var d diskChannel
			found, err := getRecord(txn, channelKey(id), &d)
			if err != nil {
				return err
			}
			if !found {
				r.log.Warn("Dangling membership index", "channel_id", id, "user_id", userID)
				continue
			}
			channels = append(channels, toChannel(d))
		}
		return nil
	})
	if err != nil {
		return nil, storageErr(err)
	}
	return channels, nil
}

func putMembership(txn *badger.Txn, m chat.Membership) error {
	d := fromMembership(m)
	if err := putRecord(txn, memberKey(m.ChannelID, m.UserID), d); err != nil {
		return err
	}
	return putRecord(txn, userMemberKey(m.UserID, m.ChannelID), d)
}
