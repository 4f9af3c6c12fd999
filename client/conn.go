package client

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"workspace-chat/gateway/wire"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
)

// Conn is one session opened on the Connect stream.
type Conn struct {
	stream  grpc.ClientStream
	sendMu  sync.Mutex
	welcome wire.Welcome
	cc      *grpc.ClientConn
}

// Dial opens a plaintext client connection. Sessions pick the JSON codec
// per stream, other services keep protobuf.
func Dial(target string, opts ...grpc.DialOption) (*grpc.ClientConn, error) {
	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	return grpc.NewClient(target, opts...)
}

// Connect opens a session with a bearer token and waits for the welcome frame.
func Connect(ctx context.Context, cc *grpc.ClientConn, token string) (*Conn, error) {
	ctx = metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+token)
	stream, err := cc.NewStream(ctx, &wire.ConnectStream, wire.ConnectMethod, grpc.CallContentSubtype(wire.CodecName))
	if err != nil {
		return nil, fmt.Errorf("open stream: %w", err)
	}
	c := &Conn{stream: stream}
	frame, err := c.Recv()
	if err != nil {
		return nil, err
	}
	if frame.Type != wire.FrameWelcome {
		return nil, fmt.Errorf("expected welcome frame, got %s", frame.Type)
	}
	if err := frame.Decode(&c.welcome); err != nil {
		return nil, fmt.Errorf("decode welcome: %w", err)
	}
	return c, nil
}

// DialAndConnect owns the client connection it creates.
func DialAndConnect(ctx context.Context, target, token string) (*Conn, error) {
	cc, err := Dial(target)
	if err != nil {
		return nil, err
	}
	c, err := Connect(ctx, cc, token)
	if err != nil {
		_ = cc.Close()
		return nil, err
	}
	c.cc = cc
	return c, nil
}

func (c *Conn) Welcome() wire.Welcome { return c.welcome }

// Send writes an intent and returns its ref, generated when empty.
func (c *Conn) Send(intent wire.Intent) (string, error) {
	if intent.Ref == "" {
		intent.Ref = uuid.NewString()
	}
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if err := c.stream.SendMsg(&intent); err != nil {
		return "", err
	}
	return intent.Ref, nil
}

// SendMessage posts body with a fresh correlation id and shows it
// optimistically on timeline.
func (c *Conn) SendMessage(timeline *Timeline, body string, parentID *uint64) (string, error) {
	correlationID := uuid.NewString()
	timeline.AddOptimistic(correlationID, c.welcome.UserID, body, parentID)
	_, err := c.Send(wire.Intent{
		Op:            wire.OpSend,
		ChannelID:     timeline.ChannelID(),
		Body:          body,
		ParentID:      parentID,
		CorrelationID: correlationID,
	})
	return correlationID, err
}

// Recv blocks until the next frame.
func (c *Conn) Recv() (wire.Frame, error) {
	var frame wire.Frame
	if err := c.stream.RecvMsg(&frame); err != nil {
		return wire.Frame{}, err
	}
	return frame, nil
}

// Close half-closes the stream and releases a connection opened by
// DialAndConnect.
func (c *Conn) Close() error {
	err := c.stream.CloseSend()
	if c.cc != nil {
		err = c.cc.Close()
	}
	return err
}

// Result decodes the data of a result frame.
func Result[T any](frame wire.Frame) (T, error) {
	var out T
	if frame.Type == wire.FrameError && frame.Error != nil {
		return out, fmt.Errorf("%s: %s", frame.Error.Code, frame.Error.Message)
	}
	if err := json.Unmarshal(frame.Data, &out); err != nil {
		return out, err
	}
	return out, nil
}
