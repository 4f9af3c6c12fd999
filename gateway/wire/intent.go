// Package wire holds the JSON shapes exchanged between a session and its
// client, and the gRPC plumbing that carries them.
package wire

type Op string

const (
	OpSend      Op = "send"
	OpEdit      Op = "edit"
	OpDelete    Op = "delete"
	OpReact     Op = "react"
	OpHeartbeat Op = "heartbeat"
	OpTyping    Op = "typing"
	OpMarkRead  Op = "markRead"
	OpResync    Op = "resync"

	OpSubscribe     Op = "subscribe"
	OpUnsubscribe   Op = "unsubscribe"
	OpHistory       Op = "history"
	OpReaders       Op = "readers"
	OpCreateChannel Op = "createChannel"
	OpAddMember     Op = "addMember"
	OpRemoveMember  Op = "removeMember"
	OpRename        Op = "rename"
	OpArchive       Op = "archive"
)

// Intent is an inbound client request. Only the fields of its op are read;
// Ref is echoed in the result or error frame.
type Intent struct {
	Op  Op     `json:"op" validate:"required"`
	Ref string `json:"ref,omitempty" validate:"max=64"`

	ChannelID     string   `json:"channelId,omitempty" validate:"required,max=64"`
	MessageID     uint64   `json:"messageId,omitempty" validate:"required,gt=0"`
	ParentID      *uint64  `json:"parentId,omitempty" validate:"omitempty,gt=0"`
	Body          string   `json:"body,omitempty" validate:"max=4000"`
	Attachments   []string `json:"attachments,omitempty" validate:"max=10,dive,required,max=512"`
	CorrelationID string   `json:"correlationId,omitempty" validate:"max=128"`

	Symbol string `json:"symbol,omitempty" validate:"required,max=64"`
	Add    bool   `json:"add,omitempty"`

	TTLMs int  `json:"ttlMs,omitempty" validate:"gte=0,lte=60000"`
	Stop  bool `json:"stop,omitempty"`

	SinceSeq uint64 `json:"sinceSeq,omitempty"`
	AfterID  uint64 `json:"afterId,omitempty"`
	Limit    int    `json:"limit,omitempty" validate:"gte=0,lte=500"`

	Kind            string   `json:"kind,omitempty" validate:"required,oneof=open restricted direct project-linked"`
	Name            string   `json:"name,omitempty" validate:"max=80"`
	Members         []string `json:"members,omitempty" validate:"max=256,dive,required,max=64"`
	UserID          string   `json:"userId,omitempty" validate:"required,max=64"`
	IncludeArchived bool     `json:"includeArchived,omitempty"`
}

// Fields lists, per op, the Intent fields validated before dispatch.
var Fields = map[Op][]string{
	OpSend:          {"Ref", "ChannelID", "ParentID", "Body", "Attachments", "CorrelationID"},
	OpEdit:          {"Ref", "ChannelID", "MessageID", "Body"},
	OpDelete:        {"Ref", "ChannelID", "MessageID"},
	OpReact:         {"Ref", "ChannelID", "MessageID", "Symbol"},
	OpHeartbeat:     {"Ref", "ChannelID"},
	OpTyping:        {"Ref", "ChannelID", "TTLMs"},
	OpMarkRead:      {"Ref", "ChannelID", "MessageID"},
	OpResync:        {"Ref", "ChannelID"},
	OpSubscribe:     {"Ref", "ChannelID"},
	OpUnsubscribe:   {"Ref", "ChannelID"},
	OpHistory:       {"Ref", "ChannelID", "ParentID", "Limit"},
	OpReaders:       {"Ref", "ChannelID", "MessageID"},
	OpCreateChannel: {"Ref", "Kind", "Name", "Members"},
	OpAddMember:     {"Ref", "ChannelID", "UserID"},
	OpRemoveMember:  {"Ref", "ChannelID", "UserID"},
	OpRename:        {"Ref", "ChannelID", "Name"},
	OpArchive:       {"Ref", "ChannelID"},
}
