package services

import (
	"sync"

	"workspace-chat/domain/chat"
)

// channelLocks serializes mutations per channel. Two channels never contend.
type channelLocks struct {
	mu    sync.Mutex
	locks map[chat.ChannelID]*sync.Mutex
}

func newChannelLocks() *channelLocks {
	return &channelLocks{locks: make(map[chat.ChannelID]*sync.Mutex)}
}

// lock acquires the mutex of channelID, creating it if needed, and returns its release function.
func (c *channelLocks) lock(channelID chat.ChannelID) func() {
	c.mu.Lock()
	l, ok := c.locks[channelID]
	if !ok {
		l = &sync.Mutex{}
		c.locks[channelID] = l
	}
	c.mu.Unlock()
	l.Lock()
	return l.Unlock
}
