// Package chat contains core concepts of the messaging core.
// This file defines Channel and Membership entities and their invariants.
// No runtime, network, or storage logic should be added here.
package chat

import (
	"fmt"
	"time"
)

type (
	UserID      string
	WorkspaceID string
	ChannelID   string
)

type ChannelKind string

const (
	KindOpen          ChannelKind = "open"
	KindRestricted    ChannelKind = "restricted"
	KindDirect        ChannelKind = "direct"
	KindProjectLinked ChannelKind = "project-linked"
)

// ParseChannelKind accepts the wire spelling of a channel kind.
func ParseChannelKind(s string) (ChannelKind, error) {
	switch k := ChannelKind(s); k {
	case KindOpen, KindRestricted, KindDirect, KindProjectLinked:
		return k, nil
	}
	return "", fmt.Errorf("unknown channel kind %q", s)
}

// Channel is a named scope for messages and presence.
// A direct channel has exactly two members and never changes name or membership.
type Channel struct {
	ID          ChannelID
	WorkspaceID WorkspaceID
	Name        string
	Kind        ChannelKind
	CreatedBy   UserID
	CreatedAt   time.Time
	Archived    bool
}

// IsDirect reports whether membership and name are frozen after creation.
func (c Channel) IsDirect() bool {
	return c.Kind == KindDirect
}

// Membership is required before a user may subscribe to a channel or read it.
type Membership struct {
	ChannelID ChannelID
	UserID    UserID
	JoinedAt  time.Time
}
