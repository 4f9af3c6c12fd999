package wire

import (
	"encoding/json"
	"time"
)

type FrameType string

const (
	FrameWelcome FrameType = "welcome"
	FrameEvent   FrameType = "event"
	FrameResult  FrameType = "result"
	FrameError   FrameType = "error"
	FrameGap     FrameType = "gap"
)

// Frame is an outbound message. Event frames are written in the order the
// session received them; result and error frames answer the intent with Ref.
type Frame struct {
	Type      FrameType       `json:"type"`
	Ref       string          `json:"ref,omitempty"`
	ChannelID string          `json:"channelId,omitempty"`
	Event     *Event          `json:"event,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
	Error     *Error          `json:"error,omitempty"`
	// HeadSeq is the channel seq a client resumes from after a gap backfill.
	HeadSeq   uint64          `json:"headSeq,omitempty"`
}

type Event struct {
	Kind      string          `json:"kind"`
	ChannelID string          `json:"channelId"`
	Seq       uint64          `json:"seq"`
	At        time.Time       `json:"at"`
	Data      json.RawMessage `json:"data"`
}

type Error struct {
	Code    string `json:"code"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

type Welcome struct {
	SessionID string   `json:"sessionId"`
	UserID    string   `json:"userId"`
	Channels  []string `json:"channels"`
}

type Message struct {
	ID          uint64              `json:"id"`
	ChannelID   string              `json:"channelId"`
	AuthorID    string              `json:"authorId"`
	Body        string              `json:"body"`
	CreatedAt   time.Time           `json:"createdAt"`
	EditedAt    *time.Time          `json:"editedAt,omitempty"`
	DeletedAt   *time.Time          `json:"deletedAt,omitempty"`
	ParentID    *uint64             `json:"parentId,omitempty"`
	Reactions   map[string][]string `json:"reactions,omitempty"`
	Attachments []string            `json:"attachments,omitempty"`
	Lang        string              `json:"lang,omitempty"`
}

type Channel struct {
	ID          string    `json:"id"`
	WorkspaceID string    `json:"workspaceId"`
	Name        string    `json:"name"`
	Kind        string    `json:"kind"`
	CreatedBy   string    `json:"createdBy"`
	CreatedAt   time.Time `json:"createdAt"`
	Archived    bool      `json:"archived,omitempty"`
}

type MessageCreated struct {
	Message       Message `json:"message"`
	CorrelationID string  `json:"correlationId,omitempty"`
}

type MessageEdited struct {
	Message Message `json:"message"`
}

type MessageDeleted struct {
	MessageID uint64    `json:"messageId"`
	DeletedBy string    `json:"deletedBy"`
	DeletedAt time.Time `json:"deletedAt"`
}

type ReactionChanged struct {
	MessageID uint64   `json:"messageId"`
	Symbol    string   `json:"symbol"`
	UserID    string   `json:"userId"`
	Added     bool     `json:"added"`
	Reactors  []string `json:"reactors"`
}

type PresenceChanged struct {
	UserID    string `json:"userId"`
	Live      bool   `json:"live"`
	LiveCount int    `json:"liveCount"`
}

type TypingChanged struct {
	UserID string     `json:"userId"`
	Typing bool       `json:"typing"`
	Until  *time.Time `json:"until,omitempty"`
}

type ReadMarkerAdvanced struct {
	UserID    string `json:"userId"`
	MessageID uint64 `json:"messageId"`
}

type ReadMarker struct {
	ChannelID string `json:"channelId"`
	UserID    string `json:"userId"`
	MessageID uint64 `json:"messageId"`
	Advanced  bool   `json:"advanced"`
}

type Replay struct {
	ChannelID string `json:"channelId"`
	Replayed  int    `json:"replayed"`
}

type Readers struct {
	MessageID uint64   `json:"messageId"`
	Readers   []string `json:"readers"`
}
