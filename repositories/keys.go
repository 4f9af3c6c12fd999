package repositories

import (
	"encoding/binary"
	"fmt"

	"workspace-chat/domain/chat"
)

// Key layout. Message ids are zero padded to 20 digits so the lexicographic
// order of badger keys matches the numeric order of ids.
//
//	chan:{channel}                      channel record
//	member:{channel}:{user}             membership record
//	umember:{user}:{channel}            reverse membership index
//	msg:{channel}:{id}                  message record
//	reply:{channel}:{parent}:{id}       thread index, empty value
//	seq:{channel}                       last assigned message id, big endian
//	marker:{channel}:{user}             read marker record
const (
	channelPrefix    = "chan:"
	memberPrefix     = "member:"
	userMemberPrefix = "umember:"
	messagePrefix    = "msg:"
	replyPrefix      = "reply:"
	sequencePrefix   = "seq:"
	markerPrefix     = "marker:"
)

func channelKey(id chat.ChannelID) []byte {
	return []byte(channelPrefix + string(id))
}

func memberKey(channelID chat.ChannelID, userID chat.UserID) []byte {
	return []byte(fmt.Sprintf("%s%s:%s", memberPrefix, channelID, userID))
}

func membersPrefix(channelID chat.ChannelID) []byte {
	return []byte(fmt.Sprintf("%s%s:", memberPrefix, channelID))
}

func userMemberKey(userID chat.UserID, channelID chat.ChannelID) []byte {
	return []byte(fmt.Sprintf("%s%s:%s", userMemberPrefix, userID, channelID))
}

func userMembersPrefix(userID chat.UserID) []byte {
	return []byte(fmt.Sprintf("%s%s:", userMemberPrefix, userID))
}

func messageKey(channelID chat.ChannelID, id chat.MessageID) []byte {
	return []byte(fmt.Sprintf("%s%s:%020d", messagePrefix, channelID, id))
}

func messagesPrefix(channelID chat.ChannelID) []byte {
	return []byte(fmt.Sprintf("%s%s:", messagePrefix, channelID))
}

func replyKey(channelID chat.ChannelID, parentID, id chat.MessageID) []byte {
	return []byte(fmt.Sprintf("%s%s:%020d:%020d", replyPrefix, channelID, parentID, id))
}

func repliesPrefix(channelID chat.ChannelID, parentID chat.MessageID) []byte {
	return []byte(fmt.Sprintf("%s%s:%020d:", replyPrefix, channelID, parentID))
}

func sequenceKey(channelID chat.ChannelID) []byte {
	return []byte(sequencePrefix + string(channelID))
}

func markerKey(channelID chat.ChannelID, userID chat.UserID) []byte {
	return []byte(fmt.Sprintf("%s%s:%s", markerPrefix, channelID, userID))
}

func markersPrefix(channelID chat.ChannelID) []byte {
	return []byte(fmt.Sprintf("%s%s:", markerPrefix, channelID))
}

func encodeSequence(id chat.MessageID) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(id))
	return b
}

func decodeSequence(b []byte) chat.MessageID {
	if len(b) != 8 {
		return 0
	}
	return chat.MessageID(binary.BigEndian.Uint64(b))
}
