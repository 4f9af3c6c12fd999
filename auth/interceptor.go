package auth

import (
	"context"
	"slices"
	"strings"

	"workspace-chat/errors"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// Methods that do not require a token.
var publicMethods = map[string]struct{}{
	grpc_health_v1.Health_Check_FullMethodName: {},
	grpc_health_v1.Health_Watch_FullMethodName: {},
}

type contextKey string

const identityKey contextKey = "identity"

const RoleAdmin = "admin"

// WithIdentity returns a copy of ctx carrying identity.
func WithIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// IdentityFromContext returns the identity injected by the interceptors.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(identityKey).(Identity)
	return identity, ok
}

// IsAdmin reports whether identity holds the workspace admin role.
func (i Identity) IsAdmin() bool {
	return slices.Contains(i.Roles, RoleAdmin)
}

// BearerToken extracts the token of an "Authorization: Bearer <token>" value.
func BearerToken(header string) (string, error) {
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || strings.TrimSpace(token) == "" {
		return "", errors.ErrUnauthenticated
	}
	return strings.TrimSpace(token), nil
}

// authenticate reads the authorization metadata of an incoming gRPC context.
func (m *TokenManager) authenticate(ctx context.Context) (context.Context, error) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "metadata is missing")
	}
	values := md.Get("authorization")
	if len(values) == 0 {
		return nil, status.Error(codes.Unauthenticated, "authorization token is missing")
	}
	token, err := BearerToken(values[0])
	if err != nil {
		return nil, status.Error(codes.Unauthenticated, "authorization header is malformed")
	}
	identity, err := m.Validate(token)
	if err != nil {
		return nil, status.Error(codes.Unauthenticated, "invalid or expired token")
	}
	return WithIdentity(ctx, identity), nil
}

// UnaryInterceptor validates the bearer token of unary calls.
func (m *TokenManager) UnaryInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if isPublicMethod(info.FullMethod) {
			return handler(ctx, req)
		}
		newCtx, err := m.authenticate(ctx)
		if err != nil {
			return nil, err
		}
		return handler(newCtx, req)
	}
}

// StreamInterceptor validates the bearer token once, when the stream opens.
func (m *TokenManager) StreamInterceptor() grpc.StreamServerInterceptor {
	return func(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		if isPublicMethod(info.FullMethod) {
			return handler(srv, ss)
		}
		newCtx, err := m.authenticate(ss.Context())
		if err != nil {
			return err
		}
		return handler(srv, &identifiedStream{ServerStream: ss, ctx: newCtx})
	}
}

type identifiedStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (s *identifiedStream) Context() context.Context { return s.ctx }

func isPublicMethod(method string) bool {
	_, ok := publicMethods[method]
	return ok
}
