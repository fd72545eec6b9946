// Package booking implements the reservation core: availability
// computation, the reservation state machine, room allocation and payment
// reconciliation.  Persistence is abstracted behind the Store interface so
// the same logic runs against MySQL in production and an in-memory store
// in tests.
package booking

import (
	"errors"
	"fmt"
)

// ErrCapacity is returned when no room of the requested type is free for
// the requested dates at allocation time.  It is deliberately distinct
// from "not found" so callers can prompt for alternate dates; retrying the
// same parameters deterministically fails again.
var ErrCapacity = errors.New("no room available for the requested dates")

// ErrOversold is returned when a payment completed but no room remained to
// satisfy it.  The intent is recorded with the OVERSOLD outcome before
// this error surfaces; the refund workflow outside this core owns the
// remediation.
var ErrOversold = errors.New("payment succeeded but no room remains")

// Not-found sentinels shared by every Store implementation.  Handlers
// translate them to 404; they are deliberately distinct from ErrCapacity.
var (
	ErrRoomNotFound        = errors.New("room not found")
	ErrReservationNotFound = errors.New("reservation not found")
	ErrIntentNotFound      = errors.New("payment intent not found")
)

// ValidationError reports malformed input: a bad date range, missing
// identity, nonsense guest counts.  It is raised before any side effect.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return "validation: " + e.Reason }

// invalidf builds a ValidationError with a formatted reason.
func invalidf(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// StateTransitionError reports an attempt to move a reservation along an
// edge the lifecycle does not define.  The reservation is left unchanged.
type StateTransitionError struct {
	From string
	To   string
}

func (e *StateTransitionError) Error() string {
	return fmt.Sprintf("illegal transition %s -> %s", e.From, e.To)
}
