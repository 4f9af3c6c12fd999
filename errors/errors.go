package errors

import (
	stderrors "errors"
	"fmt"
)

var (
	ErrWorkerPanic = fmt.Errorf("worker panic")
	ErrEmptyWords  = fmt.Errorf("no words have been found")

	// Validation: rejected at the gateway, never reaches the components.
	ErrValidation  = fmt.Errorf("validation failed")
	ErrEmptyBody   = fmt.Errorf("%w: empty body", ErrValidation)
	ErrUnknownOp   = fmt.Errorf("%w: unknown operation", ErrValidation)
	ErrRateLimited = fmt.Errorf("rate limit exceeded")

	// Authorization: rejection of a single intent.
	ErrUnauthenticated   = fmt.Errorf("unauthenticated")
	ErrNotAMember        = fmt.Errorf("not a member of the channel")
	ErrNotAuthor         = fmt.Errorf("not the author of the message")
	ErrForbidden         = fmt.Errorf("missing channel admin capability")
	ErrChannelArchived   = fmt.Errorf("channel is archived")
	ErrImmutable         = fmt.Errorf("direct channel cannot be modified")
	ErrInvalidMembership = fmt.Errorf("invalid membership")

	// NotFound
	ErrNotFound        = fmt.Errorf("not found")
	ErrChannelNotFound = fmt.Errorf("channel %w", ErrNotFound)
	ErrMessageNotFound = fmt.Errorf("message %w", ErrNotFound)
	ErrInvalidParent   = fmt.Errorf("invalid parent message")

	// Replay
	ErrGapDetected = fmt.Errorf("replay gap detected")
	ErrEventLost   = fmt.Errorf("%w: event lost before delivery", ErrGapDetected)

	// Connection level
	ErrBackpressure      = fmt.Errorf("outbound queue full")
	ErrSessionClosed     = fmt.Errorf("session closed")
	ErrInvalidTransition = fmt.Errorf("invalid session state transition")
	ErrNotSubscribed     = fmt.Errorf("not subscribed to the channel")

	// Collaborators
	ErrStorage     = fmt.Errorf("storage failure")
	ErrUnavailable = fmt.Errorf("temporarily unavailable")
)

// Is and As forward to the standard library so callers only import this package.
func Is(err, target error) bool { return stderrors.Is(err, target) }
func As(err error, target any) bool { return stderrors.As(err, target) }
func New(text string) error         { return stderrors.New(text) }
func Join(errs ...error) error      { return stderrors.Join(errs...) }
