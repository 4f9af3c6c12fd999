package services

import (
	"cmp"
	"context"
	"log/slog"
	"slices"
	"sync"

	"workspace-chat/clock"
	"workspace-chat/contract"
	"workspace-chat/domain/chat"
	"workspace-chat/domain/event"
	"workspace-chat/errors"
)

// ReadReceipts keeps one watermark per (channel, user) and answers
// "who has read message N" from an in-memory index loaded on first use.
type ReadReceipts struct {
	log        *slog.Logger
	markers    contract.ReadMarkerRepository
	messages   contract.MessageRepository
	authorizer contract.Authorizer
	publisher  contract.Publisher
	clock      clock.Clock
	locks      *channelLocks

	mu      sync.Mutex
	indexes map[chat.ChannelID]*readIndex
}

var _ contract.IReadReceipts = (*ReadReceipts)(nil)

func NewReadReceipts(
	log *slog.Logger,
	markers contract.ReadMarkerRepository,
	messages contract.MessageRepository,
	authorizer contract.Authorizer,
	publisher contract.Publisher,
	clk clock.Clock,
) *ReadReceipts {
	return &ReadReceipts{
		log:        log,
		markers:    markers,
		messages:   messages,
		authorizer: authorizer,
		publisher:  publisher,
		clock:      clk,
		locks:      newChannelLocks(),
		indexes:    make(map[chat.ChannelID]*readIndex),
	}
}

// Advance moves the marker of userID forward to messageID.
// Concurrent advances race by id, not by time: an id at or below the stored
// marker is ignored and reported with advanced == false.
func (r *ReadReceipts) Advance(ctx context.Context, channelID chat.ChannelID, userID chat.UserID, messageID chat.MessageID) (chat.ReadMarker, bool, error) {
	ok, err := r.authorizer.CanAccess(ctx, userID, channelID)
	if err != nil {
		return chat.ReadMarker{}, false, err
	}
	if !ok {
		return chat.ReadMarker{}, false, errors.ErrNotAMember
	}

	unlock := r.locks.lock(channelID)
	defer unlock()

	index, err := r.index(ctx, channelID)
	if err != nil {
		return chat.ReadMarker{}, false, err
	}
	if current, found := index.byUser[userID]; found && messageID <= current.LastReadMessageID {
		r.log.Debug("Read marker regression ignored", "channel_id", channelID, "user_id", userID,
			"current", current.LastReadMessageID, "requested", messageID)
		return current, false, nil
	}
	if _, err = r.messages.GetMessage(ctx, channelID, messageID); err != nil {
		return chat.ReadMarker{}, false, err
	}

	marker := chat.ReadMarker{ChannelID: channelID, UserID: userID, LastReadMessageID: messageID, UpdatedAt: r.clock.Now()}
	if err = r.markers.SaveMarker(ctx, marker); err != nil {
		return chat.ReadMarker{}, false, err
	}
	index.set(marker)

	publishCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err = r.publisher.Publish(publishCtx, event.ReadMarkerAdvanced{ChannelID: channelID, UserID: userID, MessageID: messageID}); err != nil {
		r.log.Error("Event lost, channel subscribers must backfill", "channel_id", channelID, "kind", event.ReadMarkerAdvancedKind, "error", err)
	}
	return marker, true, nil
}

// ReadersOf returns the users whose marker is at or beyond messageID, sorted.
func (r *ReadReceipts) ReadersOf(ctx context.Context, channelID chat.ChannelID, messageID chat.MessageID) ([]chat.UserID, error) {
	unlock := r.locks.lock(channelID)
	defer unlock()

	index, err := r.index(ctx, channelID)
	if err != nil {
		return nil, err
	}
	return index.readersOf(messageID), nil
}

// Marker returns the current marker of userID, a zero watermark when none exists.
func (r *ReadReceipts) Marker(ctx context.Context, channelID chat.ChannelID, userID chat.UserID) (chat.ReadMarker, error) {
	unlock := r.locks.lock(channelID)
	defer unlock()

	index, err := r.index(ctx, channelID)
	if err != nil {
		return chat.ReadMarker{}, err
	}
	if marker, found := index.byUser[userID]; found {
		return marker, nil
	}
	return chat.ReadMarker{ChannelID: channelID, UserID: userID}, nil
}

// index must be called with the channel lock held.
func (r *ReadReceipts) index(ctx context.Context, channelID chat.ChannelID) (*readIndex, error) {
	r.mu.Lock()
	index, ok := r.indexes[channelID]
	r.mu.Unlock()
	if ok {
		return index, nil
	}

	markers, err := r.markers.ListMarkers(ctx, channelID)
	if err != nil {
		return nil, err
	}
	index = newReadIndex(markers)

	r.mu.Lock()
	r.indexes[channelID] = index
	r.mu.Unlock()
	r.log.Debug("Read index loaded", "channel_id", channelID, "markers", len(markers))
	return index, nil
}

// readIndex keeps the markers of one channel sorted by watermark,
// so a readers lookup is a binary search plus a copy of the tail.
type readIndex struct {
	byUser map[chat.UserID]chat.ReadMarker
	sorted []chat.ReadMarker
}

func newReadIndex(markers []chat.ReadMarker) *readIndex {
	index := &readIndex{byUser: make(map[chat.UserID]chat.ReadMarker, len(markers))}
	for _, m := range markers {
		index.byUser[m.UserID] = m
	}
	index.sorted = make([]chat.ReadMarker, 0, len(index.byUser))
	for _, m := range index.byUser {
		index.sorted = append(index.sorted, m)
	}
	slices.SortFunc(index.sorted, compareMarkers)
	return index
}

func compareMarkers(a, b chat.ReadMarker) int {
	if c := cmp.Compare(a.LastReadMessageID, b.LastReadMessageID); c != 0 {
		return c
	}
	return cmp.Compare(a.UserID, b.UserID)
}

func (x *readIndex) set(marker chat.ReadMarker) {
	if previous, found := x.byUser[marker.UserID]; found {
		if i, ok := slices.BinarySearchFunc(x.sorted, previous, compareMarkers); ok {
			x.sorted = slices.Delete(x.sorted, i, i+1)
		}
	}
	i, _ := slices.BinarySearchFunc(x.sorted, marker, compareMarkers)
	x.sorted = slices.Insert(x.sorted, i, marker)
	x.byUser[marker.UserID] = marker
}

func (x *readIndex) readersOf(messageID chat.MessageID) []chat.UserID {
	start, _ := slices.BinarySearchFunc(x.sorted, messageID, func(m chat.ReadMarker, id chat.MessageID) int {
		return cmp.Compare(m.LastReadMessageID, id)
	})
	readers := make([]chat.UserID, 0, len(x.sorted)-start)
	for _, m := range x.sorted[start:] {
		readers = append(readers, m.UserID)
	}
	slices.Sort(readers)
	return readers
}
