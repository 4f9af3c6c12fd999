package wire

import (
	"encoding/json"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/encoding"
)

// CodecName is the gRPC content-subtype under which frames travel as JSON.
const CodecName = "json"

// Codec marshals intents and frames as JSON on a gRPC stream.
type Codec struct{}

func (Codec) Name() string { return CodecName }

func (Codec) Marshal(v any) ([]byte, error) {
	switch v.(type) {
	case *Intent, *Frame, Intent, Frame:
		return json.Marshal(v)
	}
	return nil, fmt.Errorf("json codec: unsupported type %T", v)
}

func (Codec) Unmarshal(data []byte, v any) error {
	switch v.(type) {
	case *Intent, *Frame:
		return json.Unmarshal(data, v)
	}
	return fmt.Errorf("json codec: unsupported type %T", v)
}

func init() {
	encoding.RegisterCodec(Codec{})
}

const (
	ServiceName   = "chat.v1.SessionService"
	ConnectMethod = "/" + ServiceName + "/Connect"
)

// SessionServer serves one bidirectional session per Connect stream.
type SessionServer interface {
	Connect(stream grpc.ServerStream) error
}

// ConnectStream is the client and server side stream descriptor of Connect.
var ConnectStream = grpc.StreamDesc{
	StreamName:    "Connect",
	Handler:       connectHandler,
	ServerStreams: true,
	ClientStreams: true,
}

func connectHandler(srv any, stream grpc.ServerStream) error {
	return srv.(SessionServer).Connect(stream)
}

// ServiceDesc registers a SessionServer on a grpc.Server.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*SessionServer)(nil),
	Streams:     []grpc.StreamDesc{ConnectStream},
	Metadata:    "gateway/wire",
}
