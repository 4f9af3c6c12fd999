package chat

import "time"

// PresenceEntry is ephemeral liveness of a user within a channel.
// It lives in memory only; clients re-announce on reconnect.
type PresenceEntry struct {
	ChannelID       ChannelID
	UserID          UserID
	LastHeartbeatAt time.Time
	TypingUntil     *time.Time
}

// IsLive reports whether now - LastHeartbeatAt < timeout.
func (p PresenceEntry) IsLive(now time.Time, timeout time.Duration) bool {
	return now.Sub(p.LastHeartbeatAt) < timeout
}

// IsTyping reports whether a typing indicator is still active at now.
func (p PresenceEntry) IsTyping(now time.Time) bool {
	return p.TypingUntil != nil && now.Before(*p.TypingUntil)
}

// ReadMarker is the highest message id a user acknowledged in a channel.
// It never decreases.
type ReadMarker struct {
	ChannelID         ChannelID
	UserID            UserID
	LastReadMessageID MessageID
	UpdatedAt         time.Time
}
