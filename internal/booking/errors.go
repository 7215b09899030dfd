package booking

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateBooking means the user already holds an active booking
	// for the event.  The draft is left as it is.
	ErrDuplicateBooking = errors.New("you already have a booking for this event")
	// ErrConflict is the store rejecting a create on the one-active-booking
	// constraint.  It is treated exactly like ErrDuplicateBooking and matches
	// it under errors.Is.
	ErrConflict = fmt.Errorf("%w (rejected by store)", ErrDuplicateBooking)
	// ErrAuth means no authenticated user was supplied.
	ErrAuth = errors.New("sign in to book")
)

// TransientError wraps any other store failure.  The draft is preserved so
// the submission can be retried.
type TransientError struct {
	Op  string
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("booking: %s failed, please try again: %v", e.Op, e.Err)
}

func (e *TransientError) Unwrap() error { return e.Err }
