//go:generate go run go.uber.org/mock/mockgen -source=collaborators.go -destination=../mocks/mock_collaborators.go -package=mocks
package contract

import (
	"context"

	"workspace-chat/domain/chat"
)

// Authorizer is the external authorization collaborator.
type Authorizer interface {
	CanAccess(ctx context.Context, userID chat.UserID, channelID chat.ChannelID) (bool, error)
	IsChannelAdmin(ctx context.Context, userID chat.UserID, channelID chat.ChannelID) (bool, error)
}

// ChannelRepository persists channels and memberships.
type ChannelRepository interface {
	InsertChannel(ctx context.Context, channel chat.Channel, members []chat.Membership) error
	UpdateChannel(ctx context.Context, channel chat.Channel) error
	GetChannel(ctx context.Context, channelID chat.ChannelID) (chat.Channel, error)
	AddMember(ctx context.Context, membership chat.Membership) error
	RemoveMember(ctx context.Context, channelID chat.ChannelID, userID chat.UserID) error
	IsMember(ctx context.Context, channelID chat.ChannelID, userID chat.UserID) (bool, error)
	ListMembers(ctx context.Context, channelID chat.ChannelID) ([]chat.Membership, error)
	ListChannelsForUser(ctx context.Context, userID chat.UserID) ([]chat.Channel, error)
}

// MessageRepository persists messages. InsertMessage assigns the next
// per-channel id atomically with the write.
type MessageRepository interface {
	InsertMessage(ctx context.Context, message chat.Message) (chat.Message, error)
	UpdateMessage(ctx context.Context, message chat.Message) error
	GetMessage(ctx context.Context, channelID chat.ChannelID, messageID chat.MessageID) (chat.Message, error)
	ListMessages(ctx context.Context, channelID chat.ChannelID, afterID chat.MessageID, limit int) ([]chat.Message, error)
	ListReplies(ctx context.Context, channelID chat.ChannelID, parentID, afterID chat.MessageID, limit int) ([]chat.Message, error)
	LastMessageID(ctx context.Context, channelID chat.ChannelID) (chat.MessageID, error)
}

type ReadMarkerRepository interface {
	SaveMarker(ctx context.Context, marker chat.ReadMarker) error
	ListMarkers(ctx context.Context, channelID chat.ChannelID) ([]chat.ReadMarker, error)
}
