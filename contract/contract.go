//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"reflect"
	"time"

	"workspace-chat/domain/chat"
	"workspace-chat/domain/event"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

type WorkerName string

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker initialization
// or lifecycle events, avoiding the need for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	if named, ok := w.(interface{ GetName() WorkerName }); ok && named.GetName() != "" {
		return string(named.GetName())
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// Publisher hands events over to the broadcast hub.
// Publish blocks until the event is queued or ctx is done.
// TryPublish never blocks and reports whether the event was queued.
type Publisher interface {
	Publish(ctx context.Context, e event.DomainEvent) error
	TryPublish(e event.DomainEvent) bool
}

// Subscriber is a live connection attached to channel groups.
// Deliver must not block: it returns false when the subscriber cannot take the envelope.
type Subscriber interface {
	ID() string
	UserID() chat.UserID
	Deliver(env event.Envelope) bool
	Evicted(channelID chat.ChannelID, err error)
}

type IHub interface {
	Publisher
	Subscribe(ctx context.Context, channelID chat.ChannelID, sub Subscriber) error
	Unsubscribe(channelID chat.ChannelID, subscriberID string)
	ReplaySince(channelID chat.ChannelID, seq uint64) ([]event.Envelope, error)
	Head(channelID chat.ChannelID) uint64
}

type IPresence interface {
	Heartbeat(channelID chat.ChannelID, userID chat.UserID)
	Leave(channelID chat.ChannelID, userID chat.UserID)
	SetTyping(channelID chat.ChannelID, userID chat.UserID, ttl time.Duration)
	StopTyping(channelID chat.ChannelID, userID chat.UserID)
	Live(channelID chat.ChannelID) []chat.UserID
}

// ContentFilter sanitizes a message body before it is stored.
type ContentFilter interface {
	Filter(body string) FilterResult
}

type FilterResult struct {
	Body     string
	Lang     string
	Censored []string
}
