package model

import "errors"

// ErrUniqueViolation is returned by booking stores when a create would give a
// user a second non-cancelled booking for the same event.  It is the
// authoritative "already booked" signal.
var ErrUniqueViolation = errors.New("unique constraint violation")

// ErrNotFound is returned by stores when a record does not exist.
var ErrNotFound = errors.New("not found")
