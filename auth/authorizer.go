package auth

import (
	"context"

	"workspace-chat/contract"
	"workspace-chat/domain/chat"
	"workspace-chat/errors"
)

// MembershipAuthorizer grants access to channel members. The channel creator
// and the configured workspace admins hold the admin capability.
type MembershipAuthorizer struct {
	channels contract.ChannelRepository
	admins   map[chat.UserID]struct{}
}

var _ contract.Authorizer = (*MembershipAuthorizer)(nil)

func NewMembershipAuthorizer(channels contract.ChannelRepository, admins []chat.UserID) *MembershipAuthorizer {
	set := make(map[chat.UserID]struct{}, len(admins))
	for _, a := range admins {
		set[a] = struct{}{}
	}
	return &MembershipAuthorizer{channels: channels, admins: set}
}

func (a *MembershipAuthorizer) CanAccess(ctx context.Context, userID chat.UserID, channelID chat.ChannelID) (bool, error) {
	return a.channels.IsMember(ctx, channelID, userID)
}

func (a *MembershipAuthorizer) IsChannelAdmin(ctx context.Context, userID chat.UserID, channelID chat.ChannelID) (bool, error) {
	if _, ok := a.admins[userID]; ok {
		return true, nil
	}
	channel, err := a.channels.GetChannel(ctx, channelID)
	if errors.Is(err, errors.ErrChannelNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return channel.CreatedBy == userID, nil
}
