package wire

import (
	"encoding/json"
	"fmt"

	"workspace-chat/domain/chat"
	"workspace-chat/domain/event"

	"github.com/samber/lo"
)

func FromMessage(m chat.Message) Message {
	var parent *uint64
	if m.ParentID != nil {
		parent = lo.ToPtr(uint64(*m.ParentID))
	}
	var reactions map[string][]string
	if len(m.Reactions) > 0 {
		reactions = lo.MapValues(m.Reactions, func(users []chat.UserID, _ string) []string {
			return userStrings(users)
		})
	}
	return Message{
		ID:          uint64(m.ID),
		ChannelID:   string(m.ChannelID),
		AuthorID:    string(m.AuthorID),
		Body:        m.Body,
		CreatedAt:   m.CreatedAt,
		EditedAt:    m.EditedAt,
		DeletedAt:   m.DeletedAt,
		ParentID:    parent,
		Reactions:   reactions,
		Attachments: m.Attachments,
		Lang:        m.Lang,
	}
}

func ToMessage(m Message) chat.Message {
	var parent *chat.MessageID
	if m.ParentID != nil {
		parent = lo.ToPtr(chat.MessageID(*m.ParentID))
	}
	var reactions map[string][]chat.UserID
	if len(m.Reactions) > 0 {
		reactions = lo.MapValues(m.Reactions, func(users []string, _ string) []chat.UserID {
			return userIDs(users)
		})
	}
	return chat.Message{
		ID:          chat.MessageID(m.ID),
		ChannelID:   chat.ChannelID(m.ChannelID),
		AuthorID:    chat.UserID(m.AuthorID),
		Body:        m.Body,
		CreatedAt:   m.CreatedAt,
		EditedAt:    m.EditedAt,
		DeletedAt:   m.DeletedAt,
		ParentID:    parent,
		Reactions:   reactions,
		Attachments: m.Attachments,
		Lang:        m.Lang,
	}
}

func FromChannel(c chat.Channel) Channel {
	return Channel{
		ID:          string(c.ID),
		WorkspaceID: string(c.WorkspaceID),
		Name:        c.Name,
		Kind:        string(c.Kind),
		CreatedBy:   string(c.CreatedBy),
		CreatedAt:   c.CreatedAt,
		Archived:    c.Archived,
	}
}

// FromEnvelope renders a sequenced event. The correlation id of a
// MessageCreated is kept only when withCorrelation is set.
func FromEnvelope(env event.Envelope, withCorrelation bool) (Event, error) {
	var payload any
	switch e := env.Event.(type) {
	case event.MessageCreated:
		created := MessageCreated{Message: FromMessage(e.Message)}
		if withCorrelation {
			created.CorrelationID = e.CorrelationID
		}
		payload = created
	case event.MessageEdited:
		payload = MessageEdited{Message: FromMessage(e.Message)}
	case event.MessageDeleted:
		payload = MessageDeleted{MessageID: uint64(e.MessageID), DeletedBy: string(e.DeletedBy), DeletedAt: e.DeletedAt}
	case event.ReactionChanged:
		payload = ReactionChanged{
			MessageID: uint64(e.MessageID),
			Symbol:    e.Symbol,
			UserID:    string(e.UserID),
			Added:     e.Added,
			Reactors:  userStrings(e.Reactors),
		}
	case event.PresenceChanged:
		payload = PresenceChanged{UserID: string(e.UserID), Live: e.Live, LiveCount: e.LiveCount}
	case event.TypingChanged:
		payload = TypingChanged{UserID: string(e.UserID), Typing: e.Typing, Until: e.Until}
	case event.ReadMarkerAdvanced:
		payload = ReadMarkerAdvanced{UserID: string(e.UserID), MessageID: uint64(e.MessageID)}
	default:
		return Event{}, fmt.Errorf("unsupported event %T", env.Event)
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return Event{}, err
	}
	return Event{
		Kind:      string(env.Kind()),
		ChannelID: string(env.Channel()),
		Seq:       env.Seq,
		At:        env.At,
		Data:      data,
	}, nil
}

// Payload decodes Data into the struct matching Kind.
func (e Event) Payload() (any, error) {
	var target any
	switch event.Kind(e.Kind) {
	case event.MessageCreatedKind:
		target = &MessageCreated{}
	case event.MessageEditedKind:
		target = &MessageEdited{}
	case event.MessageDeletedKind:
		target = &MessageDeleted{}
	case event.ReactionChangedKind:
		target = &ReactionChanged{}
	case event.PresenceChangedKind:
		target = &PresenceChanged{}
	case event.TypingChangedKind:
		target = &TypingChanged{}
	case event.ReadMarkerAdvancedKind:
		target = &ReadMarkerAdvanced{}
	default:
		return nil, fmt.Errorf("unknown event kind %q", e.Kind)
	}
	if err := json.Unmarshal(e.Data, target); err != nil {
		return nil, err
	}
	return target, nil
}

// Decode unmarshals the Data of a frame into target.
func (f Frame) Decode(target any) error {
	if len(f.Data) == 0 {
		return fmt.Errorf("frame %s has no data", f.Type)
	}
	return json.Unmarshal(f.Data, target)
}

func userStrings(users []chat.UserID) []string {
	return lo.Map(users, func(u chat.UserID, _ int) string { return string(u) })
}

func userIDs(users []string) []chat.UserID {
	return lo.Map(users, func(u string, _ int) chat.UserID { return chat.UserID(u) })
}
