package errors

import (
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// MapToGRPCError translates a domain error into a gRPC status.
func MapToGRPCError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok && KindOf(err) == KindInternal {
		return err
	}
	var code codes.Code
	switch {
	case Is(err, ErrUnauthenticated):
		code = codes.Unauthenticated
	case Is(err, ErrRateLimited), Is(err, ErrBackpressure):
		code = codes.ResourceExhausted
	default:
		switch KindOf(err) {
		case KindValidation:
			code = codes.InvalidArgument
		case KindAuthorization:
			code = codes.PermissionDenied
		case KindNotFound:
			code = codes.NotFound
		case KindGap:
			code = codes.OutOfRange
		case KindUnavailable:
			code = codes.Unavailable
		default:
			code = codes.Internal
		}
	}
	return status.Error(code, err.Error())
}
