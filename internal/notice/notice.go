// Package notice maps domain errors to the single user-facing message class
// each one is shown with.
package notice

import (
	"errors"

	"github.com/iliyamo/event-seat-booking/internal/booking"
	"github.com/iliyamo/event-seat-booking/internal/draft"
	"github.com/iliyamo/event-seat-booking/internal/model"
)

// Class is how an error is presented.
type Class string

const (
	// Inline errors are shown next to the offending field or seat.
	Inline Class = "inline"
	// Notice errors are shown as a toast-level message.
	Notice Class = "notice"
	// Retry errors suggest trying the same action again.
	Retry Class = "retry"
	// Redirect errors send the user to sign in.
	Redirect Class = "redirect"
)

// Classify returns the class of err.  Errors it does not recognise are
// Retry; nil has no class.
func Classify(err error) Class {
	if err == nil {
		return ""
	}
	var (
		ve *draft.ValidationError
		ce *draft.CapacityError
	)
	switch {
	case errors.As(err, &ve), errors.As(err, &ce),
		errors.Is(err, draft.ErrSeatBooked), errors.Is(err, draft.ErrNoEvent):
		return Inline
	case errors.Is(err, booking.ErrDuplicateBooking),
		errors.Is(err, draft.ErrDraftLocked), errors.Is(err, model.ErrNotFound):
		return Notice
	case errors.Is(err, booking.ErrAuth):
		return Redirect
	}
	return Retry
}

// Field returns the draft field an Inline error refers to, if any.
func Field(err error) string {
	var ve *draft.ValidationError
	if errors.As(err, &ve) {
		return ve.Field
	}
	return ""
}

// Message returns the text shown to the user.  Internal failure details are
// not exposed.
func Message(err error) string {
	if err == nil {
		return ""
	}
	if Classify(err) == Retry {
		return "something went wrong, please try again"
	}
	// ErrConflict reads the same as ErrDuplicateBooking to the user.
	if errors.Is(err, booking.ErrDuplicateBooking) {
		return booking.ErrDuplicateBooking.Error()
	}
	return err.Error()
}
