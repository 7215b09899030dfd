package draft

import (
	"errors"
	"fmt"
)

var (
	// ErrSeatBooked rejects selecting a seat that is already booked.
	ErrSeatBooked = errors.New("seat is already booked")
	// ErrNoEvent is returned by mutations before SetEvent was called.
	ErrNoEvent = errors.New("no event selected")
	// ErrDraftLocked is returned by mutations while a submission is in
	// flight or after the draft was submitted.
	ErrDraftLocked = errors.New("draft cannot be edited in its current state")
	// ErrStaleAttempt is returned when a submission result arrives for a
	// draft that has since been reset for another event.
	ErrStaleAttempt = errors.New("submission attempt no longer applies to this draft")
)

// ValidationError reports a missing or invalid draft field.  It is never
// sent to the backend.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// CapacityError rejects a selection that would exceed the seats still
// available for the event.
type CapacityError struct {
	Available int
	Requested int
}

func (e *CapacityError) Error() string {
	if e.Available <= 0 {
		return "event is fully booked"
	}
	return fmt.Sprintf("only %d seat(s) available, %d requested", e.Available, e.Requested)
}
