// Package event defines the broadcast events produced by the messaging core.
// Each event is owned by the component that mutates the entity it describes
// and is consumed only by the hub and, transitively, connected sessions.
package event

import (
	"time"

	"workspace-chat/domain/chat"
)

type Kind string

const (
	MessageCreatedKind     Kind = "MessageCreated"
	MessageEditedKind      Kind = "MessageEdited"
	MessageDeletedKind     Kind = "MessageDeleted"
	ReactionChangedKind    Kind = "ReactionChanged"
	PresenceChangedKind    Kind = "PresenceChanged"
	TypingChangedKind      Kind = "TypingChanged"
	ReadMarkerAdvancedKind Kind = "ReadMarkerAdvanced"
)

type DomainEvent interface {
	Channel() chat.ChannelID
	Kind() Kind
}

// Envelope is an event stamped by its channel group with a monotonic sequence number.
type Envelope struct {
	Seq   uint64
	At    time.Time
	Event DomainEvent
}

func (e Envelope) Channel() chat.ChannelID { return e.Event.Channel() }
func (e Envelope) Kind() Kind              { return e.Event.Kind() }

type MessageCreated struct {
	Message       chat.Message
	CorrelationID string
	Origin        string
}

func (m MessageCreated) Channel() chat.ChannelID { return m.Message.ChannelID }
func (m MessageCreated) Kind() Kind              { return MessageCreatedKind }

type MessageEdited struct {
	Message chat.Message
}

func (m MessageEdited) Channel() chat.ChannelID { return m.Message.ChannelID }
func (m MessageEdited) Kind() Kind              { return MessageEditedKind }

type MessageDeleted struct {
	ChannelID chat.ChannelID
	MessageID chat.MessageID
	DeletedBy chat.UserID
	DeletedAt time.Time
}

func (m MessageDeleted) Channel() chat.ChannelID { return m.ChannelID }
func (m MessageDeleted) Kind() Kind              { return MessageDeletedKind }

type ReactionChanged struct {
	ChannelID chat.ChannelID
	MessageID chat.MessageID
	Symbol    string
	UserID    chat.UserID
	Added     bool
	Reactors  []chat.UserID
}

func (r ReactionChanged) Channel() chat.ChannelID { return r.ChannelID }
func (r ReactionChanged) Kind() Kind              { return ReactionChangedKind }

// PresenceChanged carries the delta user and the new live count so observers
// can render without fetching the whole set.
type PresenceChanged struct {
	ChannelID chat.ChannelID
	UserID    chat.UserID
	Live      bool
	LiveCount int
}

func (p PresenceChanged) Channel() chat.ChannelID { return p.ChannelID }
func (p PresenceChanged) Kind() Kind              { return PresenceChangedKind }

type TypingChanged struct {
	ChannelID chat.ChannelID
	UserID    chat.UserID
	Typing    bool
	Until     *time.Time
}

func (t TypingChanged) Channel() chat.ChannelID { return t.ChannelID }
func (t TypingChanged) Kind() Kind              { return TypingChangedKind }

type ReadMarkerAdvanced struct {
	ChannelID chat.ChannelID
	UserID    chat.UserID
	MessageID chat.MessageID
}

func (r ReadMarkerAdvanced) Channel() chat.ChannelID { return r.ChannelID }
func (r ReadMarkerAdvanced) Kind() Kind              { return ReadMarkerAdvancedKind }
