package finalization

import "errors"

// Kind classifies finalization failures. The three local kinds are produced
// before any network interaction; remote_failure wraps the order service's
// rejection or a transport error.
type Kind string

const (
	KindInvalidTransition         Kind = "invalid_transition"
	KindInsufficientPayment       Kind = "insufficient_payment"
	KindMissingCancellationReason Kind = "missing_cancellation_reason"
	KindRemoteFailure             Kind = "remote_failure"
)

// Error is a classified finalization failure.
type Error struct {
	Kind    Kind
	Message string
	Err     error // underlying cause, if any
}

func (e *Error) Error() string {
	if e.Err != nil {
		return string(e.Kind) + ": " + e.Message + ": " + e.Err.Error()
	}
	return string(e.Kind) + ": " + e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf extracts the Kind from err, or "" when err is not a finalization
// *Error.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return ""
}

// IsLocal reports whether err is a local validation failure, i.e. one that
// never reached the network and is recoverable in place.
func IsLocal(err error) bool {
	switch KindOf(err) {
	case KindInvalidTransition, KindInsufficientPayment, KindMissingCancellationReason:
		return true
	}
	return false
}

// ErrSubmissionInFlight is returned when a submit is attempted for an order
// that already has an outstanding submission.
var ErrSubmissionInFlight = errors.New("submission already in flight for this order")
