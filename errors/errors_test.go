package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind Kind
		code string
	}{
		{"empty body is validation", ErrEmptyBody, KindValidation, "empty_body"},
		{"wrapped not a member", fmt.Errorf("append: %w", ErrNotAMember), KindAuthorization, "not_a_member"},
		{"channel not found wins over generic", ErrChannelNotFound, KindNotFound, "channel_not_found"},
		{"invalid parent is not found", ErrInvalidParent, KindNotFound, "invalid_parent"},
		{"gap", ErrGapDetected, KindGap, "gap_detected"},
		{"lost event is a gap", fmt.Errorf("publish: %w", ErrEventLost), KindGap, "event_lost"},
		{"storage", fmt.Errorf("%w: badger closed", ErrStorage), KindUnavailable, "storage"},
		{"retries exhausted", fmt.Errorf("%w: %w", ErrUnavailable, ErrStorage), KindUnavailable, "unavailable"},
		{"unknown", fmt.Errorf("boom"), KindInternal, "internal"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			req.Equal(tt.kind, KindOf(tt.err))
			req.Equal(tt.code, Code(tt.err))
		})
	}
}

func TestIsRetryable(t *testing.T) {
	req := require.New(t)
	req.True(IsRetryable(fmt.Errorf("%w: conflict", ErrStorage)))
	req.False(IsRetryable(ErrNotAMember))
	req.False(IsRetryable(ErrUnavailable))
}

func TestMapToGRPCError(t *testing.T) {
	req := require.New(t)
	req.Nil(MapToGRPCError(nil))
	req.Equal(codes.PermissionDenied, status.Code(MapToGRPCError(ErrNotAuthor)))
	req.Equal(codes.NotFound, status.Code(MapToGRPCError(ErrMessageNotFound)))
	req.Equal(codes.InvalidArgument, status.Code(MapToGRPCError(ErrEmptyBody)))
	req.Equal(codes.ResourceExhausted, status.Code(MapToGRPCError(ErrBackpressure)))
	req.Equal(codes.Unauthenticated, status.Code(MapToGRPCError(ErrUnauthenticated)))
	req.Equal(codes.Unavailable, status.Code(MapToGRPCError(ErrUnavailable)))
	req.Equal(codes.OutOfRange, status.Code(MapToGRPCError(ErrEventLost)))
}
