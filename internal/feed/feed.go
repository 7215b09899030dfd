// Package feed carries payload-free "bookings changed for event X" signals.
// A notification only means "something changed, re-derive"; consumers
// re-fetch instead of patching local state.
package feed

import "context"

// Unsubscribe detaches a handler.  It is safe to call more than once.
type Unsubscribe func()

// Feed publishes and delivers booking change notifications keyed by event id.
type Feed interface {
	// Publish announces that bookings of eventID changed.
	Publish(ctx context.Context, eventID string) error
	// Subscribe registers onChange for eventID.  onChange may run on a
	// goroutine owned by the feed and must not block for long.
	Subscribe(eventID string, onChange func()) (Unsubscribe, error)
}
