package chat

import (
	"slices"
	"time"
)

// MessageID is assigned by the store, gapless and strictly increasing per channel.
// Its order is the canonical delivery and display order.
type MessageID uint64

// Message is a durable chat record. Deleting a message leaves a tombstone
// so thread replies keep a valid parent.
type Message struct {
	ID          MessageID
	ChannelID   ChannelID
	AuthorID    UserID
	Body        string
	CreatedAt   time.Time
	EditedAt    *time.Time
	DeletedAt   *time.Time
	ParentID    *MessageID
	Reactions   map[string][]UserID
	Attachments []string
	Lang        string
	Censored    []string
}

func (m Message) IsDeleted() bool {
	return m.DeletedAt != nil
}

func (m Message) IsReply() bool {
	return m.ParentID != nil
}

// Tombstone clears the content of the message, keeping identity and thread position.
func (m Message) Tombstone(at time.Time) Message {
	m.Body = ""
	m.Attachments = nil
	m.Reactions = nil
	m.Censored = nil
	m.DeletedAt = &at
	return m
}

// WithEdit replaces the body. EditedAt only moves forward: if the clock did not
// advance past the previous edit, the previous edit plus one microsecond is used.
func (m Message) WithEdit(body string, at time.Time) Message {
	if m.EditedAt != nil && !at.After(*m.EditedAt) {
		at = m.EditedAt.Add(time.Microsecond)
	}
	m.Body = body
	m.EditedAt = &at
	return m
}

// WithReaction toggles userID in the reactor set of symbol.
// The second return value is false when the set is unchanged.
func (m Message) WithReaction(symbol string, userID UserID, add bool) (Message, bool) {
	current := m.Reactions[symbol]
	idx, found := slices.BinarySearch(current, userID)
	if add == found {
		return m, false
	}

	reactions := make(map[string][]UserID, len(m.Reactions)+1)
	for k, v := range m.Reactions {
		reactions[k] = v
	}

	var next []UserID
	if add {
		next = slices.Insert(slices.Clone(current), idx, userID)
	} else {
		next = slices.Delete(slices.Clone(current), idx, idx+1)
	}
	if len(next) == 0 {
		delete(reactions, symbol)
	} else {
		reactions[symbol] = next
	}
	m.Reactions = reactions
	return m, true
}

// Reactors returns the current reactor set of symbol.
func (m Message) Reactors(symbol string) []UserID {
	return slices.Clone(m.Reactions[symbol])
}
