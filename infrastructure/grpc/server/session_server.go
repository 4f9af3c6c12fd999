package server

import (
	"context"
	"io"
	"log/slog"

	"workspace-chat/auth"
	"workspace-chat/errors"
	"workspace-chat/gateway"
	"workspace-chat/gateway/wire"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
)

type SessionServer struct {
	log     *slog.Logger
	gateway *gateway.Gateway
}

var _ wire.SessionServer = (*SessionServer)(nil)

func NewSessionServer(log *slog.Logger, gw *gateway.Gateway) *SessionServer {
	return &SessionServer{log: log, gateway: gw}
}

// NewGRPCServer builds a server with token interceptors, the session
// service and the standard health service.
func NewGRPCServer(log *slog.Logger, tokens *auth.TokenManager, gw *gateway.Gateway, opts ...grpc.ServerOption) *grpc.Server {
	opts = append(opts,
		grpc.ChainUnaryInterceptor(tokens.UnaryInterceptor()),
		grpc.ChainStreamInterceptor(tokens.StreamInterceptor()),
	)
	s := grpc.NewServer(opts...)
	s.RegisterService(&wire.ServiceDesc, NewSessionServer(log, gw))
	grpc_health_v1.RegisterHealthServer(s, health.NewServer())
	return s
}

// Connect serves one session per stream. Intents are read and dispatched
// by a dedicated goroutine; this one writes frames in queue order.
// The stream ends with ResourceExhausted when the client could not keep up.
func (s *SessionServer) Connect(stream grpc.ServerStream) error {
	ctx := stream.Context()
	identity, ok := auth.IdentityFromContext(ctx)
	if !ok {
		return status.Error(codes.Unauthenticated, "missing identity")
	}
	session, err := s.gateway.Open(ctx, identity)
	if err != nil {
		return errors.MapToGRPCError(err)
	}
	defer session.Close(nil)

	go s.read(ctx, stream, session)

	for {
		select {
		case frame := <-session.Outbound():
			if err := stream.SendMsg(&frame); err != nil {
				s.log.Warn("Failed to push frame", "session_id", session.ID(), "error", err)
				return err
			}
		case <-session.Done():
			if err := session.Err(); err != nil {
				return errors.MapToGRPCError(err)
			}
			return s.flush(stream, session)
		case <-ctx.Done():
			s.log.Debug("Client disconnected", "session_id", session.ID(), "user_id", identity.UserID)
			return nil
		}
	}
}

func (s *SessionServer) read(ctx context.Context, stream grpc.ServerStream, session *gateway.Session) {
	for {
		var intent wire.Intent
		if err := stream.RecvMsg(&intent); err != nil {
			if err != io.EOF && status.Code(err) != codes.Canceled {
				s.log.Debug("Stream read failed", "session_id", session.ID(), "error", err)
			}
			session.Close(nil)
			return
		}
		if err := session.Handle(ctx, intent); errors.Is(err, errors.ErrSessionClosed) {
			return
		}
	}
}

// flush writes the frames queued before a clean close.
func (s *SessionServer) flush(stream grpc.ServerStream, session *gateway.Session) error {
	for {
		select {
		case frame := <-session.Outbound():
			if err := stream.SendMsg(&frame); err != nil {
				return err
			}
		default:
			return nil
		}
	}
}
