package services

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"workspace-chat/clock"
	"workspace-chat/contract"
	"workspace-chat/domain/chat"
	"workspace-chat/errors"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// ChannelRegistry owns channel identity, kind and membership.
// Channels are never hard deleted, only archived.
type ChannelRegistry struct {
	log        *slog.Logger
	repository contract.ChannelRepository
	clock      clock.Clock
	locks      *channelLocks
}

var _ contract.IChannelRegistry = (*ChannelRegistry)(nil)

func NewChannelRegistry(log *slog.Logger, repository contract.ChannelRepository, clk clock.Clock) *ChannelRegistry {
	return &ChannelRegistry{log: log, repository: repository, clock: clk, locks: newChannelLocks()}
}

// Create stores a new channel with its initial members.
// A direct channel needs exactly two distinct members, the creator being one of them.
// Any other kind always includes its creator.
func (r *ChannelRegistry) Create(ctx context.Context, cmd chat.CreateChannelCommand) (chat.Channel, error) {
	if _, err := chat.ParseChannelKind(string(cmd.Kind)); err != nil {
		return chat.Channel{}, fmt.Errorf("%w: %v", errors.ErrValidation, err)
	}
	if cmd.CreatedBy == "" {
		return chat.Channel{}, fmt.Errorf("%w: missing creator", errors.ErrValidation)
	}

	members := lo.Uniq(lo.Filter(cmd.InitialMembers, func(u chat.UserID, _ int) bool { return u != "" }))
	name := strings.TrimSpace(cmd.Name)
	if cmd.Kind == chat.KindDirect {
		if len(members) != 2 || !slices.Contains(members, cmd.CreatedBy) {
			return chat.Channel{}, errors.ErrInvalidMembership
		}
		name = ""
	} else if !slices.Contains(members, cmd.CreatedBy) {
		members = append([]chat.UserID{cmd.CreatedBy}, members...)
	}

	now := r.clock.Now()
	channel := chat.Channel{
		ID:          chat.ChannelID(uuid.NewString()),
		WorkspaceID: cmd.WorkspaceID,
		Name:        name,
		Kind:        cmd.Kind,
		CreatedBy:   cmd.CreatedBy,
		CreatedAt:   now,
	}
	memberships := lo.Map(members, func(u chat.UserID, _ int) chat.Membership {
		return chat.Membership{ChannelID: channel.ID, UserID: u, JoinedAt: now}
	})
	if err := r.repository.InsertChannel(ctx, channel, memberships); err != nil {
		return chat.Channel{}, err
	}
	r.log.Info("Channel created", "channel_id", channel.ID, "kind", channel.Kind, "members", len(memberships))
	return channel, nil
}

func (r *ChannelRegistry) Get(ctx context.Context, channelID chat.ChannelID) (chat.Channel, error) {
	return r.repository.GetChannel(ctx, channelID)
}

// AddMember is idempotent. Direct channels are immutable.
func (r *ChannelRegistry) AddMember(ctx context.Context, channelID chat.ChannelID, userID chat.UserID) error {
	unlock := r.locks.lock(channelID)
	defer unlock()

	if _, err := r.mutable(ctx, channelID); err != nil {
		return err
	}
	return r.repository.AddMember(ctx, chat.Membership{ChannelID: channelID, UserID: userID, JoinedAt: r.clock.Now()})
}

// RemoveMember is idempotent. Direct channels are immutable.
// Live subscriptions of the removed user are not revoked: the next subscribe is refused.
func (r *ChannelRegistry) RemoveMember(ctx context.Context, channelID chat.ChannelID, userID chat.UserID) error {
	unlock := r.locks.lock(channelID)
	defer unlock()

	if _, err := r.mutable(ctx, channelID); err != nil {
		return err
	}
	return r.repository.RemoveMember(ctx, channelID, userID)
}

func (r *ChannelRegistry) Rename(ctx context.Context, channelID chat.ChannelID, name string) (chat.Channel, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return chat.Channel{}, fmt.Errorf("%w: empty channel name", errors.ErrValidation)
	}

	unlock := r.locks.lock(channelID)
	defer unlock()

	channel, err := r.mutable(ctx, channelID)
	if err != nil {
		return chat.Channel{}, err
	}
	if channel.Name == name {
		return channel, nil
	}
	channel.Name = name
	if err = r.repository.UpdateChannel(ctx, channel); err != nil {
		return chat.Channel{}, err
	}
	return channel, nil
}

// Archive sets the archived flag. Archived channels stay readable.
func (r *ChannelRegistry) Archive(ctx context.Context, channelID chat.ChannelID) (chat.Channel, error) {
	unlock := r.locks.lock(channelID)
	defer unlock()

	channel, err := r.repository.GetChannel(ctx, channelID)
	if err != nil {
		return chat.Channel{}, err
	}
	if channel.Archived {
		return channel, nil
	}
	channel.Archived = true
	if err = r.repository.UpdateChannel(ctx, channel); err != nil {
		return chat.Channel{}, err
	}
	r.log.Info("Channel archived", "channel_id", channelID)
	return channel, nil
}

// ListForUser returns the channels userID belongs to. Archived channels are
// excluded unless includeArchived is set.
func (r *ChannelRegistry) ListForUser(ctx context.Context, userID chat.UserID, includeArchived bool) ([]chat.Channel, error) {
	channels, err := r.repository.ListChannelsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if includeArchived {
		return channels, nil
	}
	return lo.Filter(channels, func(c chat.Channel, _ int) bool { return !c.Archived }), nil
}

// Members returns the member ids of a channel, sorted.
func (r *ChannelRegistry) Members(ctx context.Context, channelID chat.ChannelID) ([]chat.UserID, error) {
	if _, err := r.repository.GetChannel(ctx, channelID); err != nil {
		return nil, err
	}
	memberships, err := r.repository.ListMembers(ctx, channelID)
	if err != nil {
		return nil, err
	}
	ids := lo.Map(memberships, func(m chat.Membership, _ int) chat.UserID { return m.UserID })
	slices.Sort(ids)
	return ids, nil
}

func (r *ChannelRegistry) mutable(ctx context.Context, channelID chat.ChannelID) (chat.Channel, error) {
	channel, err := r.repository.GetChannel(ctx, channelID)
	if err != nil {
		return chat.Channel{}, err
	}
	if channel.IsDirect() {
		return chat.Channel{}, errors.ErrImmutable
	}
	return channel, nil
}
