//go:generate go run go.uber.org/mock/mockgen -source=components.go -destination=../mocks/mock_components.go -package=mocks
package contract

import (
	"context"
	"iter"

	"workspace-chat/domain/chat"
)

type IMessageStore interface {
	Append(ctx context.Context, cmd chat.AppendCommand) (chat.Message, error)
	Edit(ctx context.Context, channelID chat.ChannelID, messageID chat.MessageID, editorID chat.UserID, body string) (chat.Message, error)
	SoftDelete(ctx context.Context, channelID chat.ChannelID, messageID chat.MessageID, requesterID chat.UserID) (chat.Message, error)
	React(ctx context.Context, channelID chat.ChannelID, messageID chat.MessageID, userID chat.UserID, symbol string, add bool) (chat.Message, bool, error)
	List(ctx context.Context, query chat.ListQuery) iter.Seq2[chat.Message, error]
}

type IChannelRegistry interface {
	Create(ctx context.Context, cmd chat.CreateChannelCommand) (chat.Channel, error)
	Get(ctx context.Context, channelID chat.ChannelID) (chat.Channel, error)
	AddMember(ctx context.Context, channelID chat.ChannelID, userID chat.UserID) error
	RemoveMember(ctx context.Context, channelID chat.ChannelID, userID chat.UserID) error
	Rename(ctx context.Context, channelID chat.ChannelID, name string) (chat.Channel, error)
	Archive(ctx context.Context, channelID chat.ChannelID) (chat.Channel, error)
	Members(ctx context.Context, channelID chat.ChannelID) ([]chat.UserID, error)
	ListForUser(ctx context.Context, userID chat.UserID, includeArchived bool) ([]chat.Channel, error)
}

type IReadReceipts interface {
	Advance(ctx context.Context, channelID chat.ChannelID, userID chat.UserID, messageID chat.MessageID) (chat.ReadMarker, bool, error)
	ReadersOf(ctx context.Context, channelID chat.ChannelID, messageID chat.MessageID) ([]chat.UserID, error)
	Marker(ctx context.Context, channelID chat.ChannelID, userID chat.UserID) (chat.ReadMarker, error)
}
