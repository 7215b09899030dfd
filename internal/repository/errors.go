// Package repository implements the booking and item stores.  Sentinel
// errors are the ones from the model package so that callers above the
// store never depend on this package:
//
//   model.ErrNotFound        – the record does not exist (or is not the
//                              caller's); handlers translate it into 404.
//   model.ErrUniqueViolation – the user already holds a non-cancelled
//                              booking for the event; handlers translate it
//                              into 409.
package repository

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"

	"github.com/iliyamo/event-seat-booking/internal/model"
)

// mysqlDuplicateEntry is ER_DUP_ENTRY.
const mysqlDuplicateEntry = 1062

// activeBookingKey is the unique index enforcing one non-cancelled booking
// per (user, event).
const activeBookingKey = "uq_bookings_active"

// mapWriteError converts driver errors of booking writes into model
// sentinels.  Duplicates on any other unique key (such as an order number
// collision) stay ordinary errors: they do not mean "already booked".
func mapWriteError(err error) error {
	var me *mysql.MySQLError
	if errors.As(err, &me) && me.Number == mysqlDuplicateEntry && strings.Contains(me.Message, activeBookingKey) {
		return model.ErrUniqueViolation
	}
	return err
}
