package repositories

import (
	"time"

	"workspace-chat/domain/chat"

	"github.com/fxamacker/cbor/v2"
	"github.com/samber/lo"
)

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("repositories: CBOR encoder initialization failed: " + err.Error())
	}
	decMode, err = cbor.DecOptions{}.DecMode()
	if err != nil {
		panic("repositories: CBOR decoder initialization failed: " + err.Error())
	}
}

func marshal(v any) ([]byte, error) {
	return encMode.Marshal(v)
}

func unmarshal(data []byte, v any) error {
	return decMode.Unmarshal(data, v)
}

// Diagnose renders a stored value in CBOR diagnostic notation.
func Diagnose(data []byte) (string, error) {
	return cbor.Diagnose(data)
}

// Disk records keep timestamps as unix nanoseconds so round trips are exact.

type diskChannel struct {
	ID          string `cbor:"id"`
	WorkspaceID string `cbor:"workspace_id"`
	Name        string `cbor:"name,omitempty"`
	Kind        string `cbor:"kind"`
	CreatedBy   string `cbor:"created_by"`
	CreatedAt   int64  `cbor:"created_at"`
	Archived    bool   `cbor:"archived,omitempty"`
}

type diskMembership struct {
	ChannelID string `cbor:"channel_id"`
	UserID    string `cbor:"user_id"`
	JoinedAt  int64  `cbor:"joined_at"`
}

type diskMessage struct {
	ID          uint64              `cbor:"id"`
	ChannelID   string              `cbor:"channel_id"`
	AuthorID    string              `cbor:"author_id"`
	Body        string              `cbor:"body,omitempty"`
	CreatedAt   int64               `cbor:"created_at"`
	EditedAt    *int64              `cbor:"edited_at,omitempty"`
	DeletedAt   *int64              `cbor:"deleted_at,omitempty"`
	ParentID    *uint64             `cbor:"parent_id,omitempty"`
	Reactions   map[string][]string `cbor:"reactions,omitempty"`
	Attachments []string            `cbor:"attachments,omitempty"`
	Lang        string              `cbor:"lang,omitempty"`
	Censored    []string            `cbor:"censored,omitempty"`
}

type diskMarker struct {
	ChannelID string `cbor:"channel_id"`
	UserID    string `cbor:"user_id"`
	MessageID uint64 `cbor:"message_id"`
	UpdatedAt int64  `cbor:"updated_at"`
}

func fromChannel(c chat.Channel) diskChannel {
	return diskChannel{
		ID:          string(c.ID),
		WorkspaceID: string(c.WorkspaceID),
		Name:        c.Name,
		Kind:        string(c.Kind),
		CreatedBy:   string(c.CreatedBy),
		CreatedAt:   c.CreatedAt.UnixNano(),
		Archived:    c.Archived,
	}
}

func toChannel(d diskChannel) chat.Channel {
	return chat.Channel{
		ID:          chat.ChannelID(d.ID),
		WorkspaceID: chat.WorkspaceID(d.WorkspaceID),
		Name:        d.Name,
		Kind:        chat.ChannelKind(d.Kind),
		CreatedBy:   chat.UserID(d.CreatedBy),
		CreatedAt:   fromNanos(d.CreatedAt),
		Archived:    d.Archived,
	}
}

func fromMembership(m chat.Membership) diskMembership {
	return diskMembership{
		ChannelID: string(m.ChannelID),
		UserID:    string(m.UserID),
		JoinedAt:  m.JoinedAt.UnixNano(),
	}
}

func toMembership(d diskMembership) chat.Membership {
	return chat.Membership{
		ChannelID: chat.ChannelID(d.ChannelID),
		UserID:    chat.UserID(d.UserID),
		JoinedAt:  fromNanos(d.JoinedAt),
	}
}

func fromMessage(m chat.Message) diskMessage {
	d := diskMessage{
		ID:          uint64(m.ID),
		ChannelID:   string(m.ChannelID),
		AuthorID:    string(m.AuthorID),
		Body:        m.Body,
		CreatedAt:   m.CreatedAt.UnixNano(),
		Attachments: m.Attachments,
		Lang:        m.Lang,
		Censored:    m.Censored,
	}
	if m.EditedAt != nil {
		d.EditedAt = lo.ToPtr(m.EditedAt.UnixNano())
	}
	if m.DeletedAt != nil {
		d.DeletedAt = lo.ToPtr(m.DeletedAt.UnixNano())
	}
	if m.ParentID != nil {
		d.ParentID = lo.ToPtr(uint64(*m.ParentID))
	}
	if len(m.Reactions) > 0 {
		d.Reactions = lo.MapValues(m.Reactions, func(users []chat.UserID, _ string) []string {
			return lo.Map(users, func(u chat.UserID, _ int) string { return string(u) })
		})
	}
	return d
}

func toMessage(d diskMessage) chat.Message {
	m := chat.Message{
		ID:          chat.MessageID(d.ID),
		ChannelID:   chat.ChannelID(d.ChannelID),
		AuthorID:    chat.UserID(d.AuthorID),
		Body:        d.Body,
		CreatedAt:   fromNanos(d.CreatedAt),
		Attachments: d.Attachments,
		Lang:        d.Lang,
		Censored:    d.Censored,
	}
	if d.EditedAt != nil {
		m.EditedAt = lo.ToPtr(fromNanos(*d.EditedAt))
	}
	if d.DeletedAt != nil {
		m.DeletedAt = lo.ToPtr(fromNanos(*d.DeletedAt))
	}
	if d.ParentID != nil {
		m.ParentID = lo.ToPtr(chat.MessageID(*d.ParentID))
	}
	if len(d.Reactions) > 0 {
		m.Reactions = lo.MapValues(d.Reactions, func(users []string, _ string) []chat.UserID {
			return lo.Map(users, func(u string, _ int) chat.UserID { return chat.UserID(u) })
		})
	}
	return m
}

func fromMarker(m chat.ReadMarker) diskMarker {
	return diskMarker{
		ChannelID: string(m.ChannelID),
		UserID:    string(m.UserID),
		MessageID: uint64(m.LastReadMessageID),
		UpdatedAt: m.UpdatedAt.UnixNano(),
	}
}

func toMarker(d diskMarker) chat.ReadMarker {
	return chat.ReadMarker{
		ChannelID:         chat.ChannelID(d.ChannelID),
		UserID:            chat.UserID(d.UserID),
		LastReadMessageID: chat.MessageID(d.MessageID),
		UpdatedAt:         fromNanos(d.UpdatedAt),
	}
}

func fromNanos(n int64) time.Time {
	return time.Unix(0, n).UTC()
}
