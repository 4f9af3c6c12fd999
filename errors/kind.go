package errors

// Kind groups errors by how they are surfaced to a connection.
type Kind string

const (
	KindValidation    Kind = "validation"
	KindAuthorization Kind = "authorization"
	KindNotFound      Kind = "not_found"
	KindGap           Kind = "gap"
	KindBackpressure  Kind = "backpressure"
	KindUnavailable   Kind = "unavailable"
	KindInternal      Kind = "internal"
)

type classified struct {
	err  error
	kind Kind
	code string
}

// Order matters: the most specific sentinel comes first.
var taxonomy = []classified{
	{ErrEmptyBody, KindValidation, "empty_body"},
	{ErrUnknownOp, KindValidation, "unknown_op"},
	{ErrValidation, KindValidation, "invalid_intent"},
	{ErrRateLimited, KindValidation, "rate_limited"},
	{ErrNotSubscribed, KindValidation, "not_subscribed"},
	{ErrUnauthenticated, KindAuthorization, "unauthenticated"},
	{ErrNotAMember, KindAuthorization, "not_a_member"},
	{ErrNotAuthor, KindAuthorization, "not_author"},
	{ErrForbidden, KindAuthorization, "forbidden"},
	{ErrChannelArchived, KindAuthorization, "channel_archived"},
	{ErrImmutable, KindAuthorization, "immutable"},
	{ErrInvalidMembership, KindAuthorization, "invalid_membership"},
	{ErrInvalidParent, KindNotFound, "invalid_parent"},
	{ErrChannelNotFound, KindNotFound, "channel_not_found"},
	{ErrMessageNotFound, KindNotFound, "message_not_found"},
	{ErrNotFound, KindNotFound, "not_found"},
	{ErrEventLost, KindGap, "event_lost"},
	{ErrGapDetected, KindGap, "gap_detected"},
	{ErrBackpressure, KindBackpressure, "backpressure"},
	{ErrSessionClosed, KindBackpressure, "session_closed"},
	{ErrUnavailable, KindUnavailable, "unavailable"},
	{ErrStorage, KindUnavailable, "storage"},
}

func lookup(err error) (classified, bool) {
	for _, c := range taxonomy {
		if Is(err, c.err) {
			return c, true
		}
	}
	return classified{}, false
}

// KindOf classifies err, KindInternal when it matches no sentinel.
func KindOf(err error) Kind {
	if c, ok := lookup(err); ok {
		return c.kind
	}
	return KindInternal
}

// Code is the stable wire code of err.
func Code(err error) string {
	if c, ok := lookup(err); ok {
		return c.code
	}
	return "internal"
}

// IsRetryable reports whether the gateway may retry the intent.
func IsRetryable(err error) bool {
	return Is(err, ErrStorage)
}
