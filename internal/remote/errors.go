package remote

import (
	"errors"
	"fmt"

	"github.com/anti-elegant/Delphi-sub000/pkg/api"
)

// Kind is the closed error taxonomy the sync engine observes. All
// transport-specific failures are mapped to one of these at the adapter
// boundary; nothing above it sees an HTTP status or a net error.
type Kind int

const (
	// KindUnknown wraps any unmapped transport error; treated as
	// transient within the retry budget.
	KindUnknown Kind = iota

	// KindAccountUnavailable means the remote identity is not usable
	// (not logged in, token rejected). No retry; surfaced to the user.
	KindAccountUnavailable

	// KindPermissionDenied is a definitive authorization failure.
	KindPermissionDenied

	// KindNetworkUnavailable covers connectivity loss and server-side
	// rate limiting; the pass aborts and the scheduler retries later.
	KindNetworkUnavailable

	// KindQuotaExceeded means the remote store refused writes for
	// capacity reasons. Surfaced; no automatic retry.
	KindQuotaExceeded

	// KindRecordNotFound is benign in delete paths, fatal elsewhere.
	KindRecordNotFound

	// KindTokenInvalid means the change token expired; the caller must
	// reset it and fall back to a full sync.
	KindTokenInvalid

	// KindConflict is an optimistic concurrency failure on push.
	KindConflict

	// KindPartialFailure means some records of a batch failed; the
	// succeeded ones are accepted, the rest stay pending.
	KindPartialFailure

	// KindZoneNotFound means the target zone does not exist; the caller
	// must re-run EnsureZone.
	KindZoneNotFound
)

// String returns a stable name for the kind, used in logs and the
// user-visible error state.
func (k Kind) String() string {
	switch k {
	case KindAccountUnavailable:
		return "account_unavailable"
	case KindPermissionDenied:
		return "permission_denied"
	case KindNetworkUnavailable:
		return "network_unavailable"
	case KindQuotaExceeded:
		return "quota_exceeded"
	case KindRecordNotFound:
		return "record_not_found"
	case KindTokenInvalid:
		return "token_invalid"
	case KindConflict:
		return "conflict"
	case KindPartialFailure:
		return "partial_failure"
	case KindZoneNotFound:
		return "zone_not_found"
	default:
		return "unknown"
	}
}

// Error is a taxonomy-classified remote store failure.
type Error struct {
	Err     error
	Op      string
	Message string
	// Failed carries per-record failures for KindPartialFailure.
	Failed []api.RecordFailure
	Kind   Kind
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	return fmt.Sprintf("remote %s: %s: %s", e.Op, e.Kind, msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// newError builds a taxonomy error.
func newError(kind Kind, op, message string, err error) *Error {
	return &Error{Kind: kind, Op: op, Message: message, Err: err}
}

// KindOf extracts the taxonomy kind from any error. Unclassified errors
// report KindUnknown.
func KindOf(err error) Kind {
	var re *Error
	if errors.As(err, &re) {
		return re.Kind
	}
	return KindUnknown
}

// IsTransient reports whether the scheduler should retry the pass on
// its own (connectivity restore, next tick) rather than surface the
// failure as final.
func IsTransient(err error) bool {
	switch KindOf(err) {
	case KindNetworkUnavailable, KindUnknown:
		return true
	default:
		return false
	}
}
