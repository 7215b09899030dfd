// Package handler implements the HTTP API.  Handlers depend on the Backend
// interface; *service.Backend is the production implementation.
package handler

import (
	"context"
	"log/slog"
	"time"

	"github.com/iliyamo/event-seat-booking/internal/availability"
	"github.com/iliyamo/event-seat-booking/internal/booking"
	"github.com/iliyamo/event-seat-booking/internal/feed"
	"github.com/iliyamo/event-seat-booking/internal/model"
	"github.com/iliyamo/event-seat-booking/internal/tickets"
)

// Backend is everything the handlers read and write.
type Backend interface {
	ListBookings(ctx context.Context, f model.BookingFilter) ([]model.Booking, error)
	CreateBooking(ctx context.Context, b model.NewBooking) (*model.Booking, error)
	UpdateBookingStatus(ctx context.Context, id string, status model.Status) (*model.Booking, error)
	ListItems(ctx context.Context, f model.ItemFilter) ([]model.Item, error)
	CountItems(ctx context.Context, f model.ItemFilter) (int64, error)
	GetItem(ctx context.Context, id string) (*model.Item, error)
	Subscribe(eventID string, onChange func()) (feed.Unsubscribe, error)
}

// Handler bundles the components behind the API.
type Handler struct {
	Backend   Backend
	Submitter *booking.Submitter
	Tickets   *tickets.Service
	Watcher   *availability.Watcher
	Now       func() time.Time
	Log       *slog.Logger
}

// New builds a Handler whose components all share b.
func New(b Backend, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	sub := booking.NewSubmitter(b)
	sub.Log = logger
	tk := tickets.NewService(b)
	tk.Log = logger
	w := availability.NewWatcher(b, b)
	w.Log = logger
	return &Handler{
		Backend:   b,
		Submitter: sub,
		Tickets:   tk,
		Watcher:   w,
		Now:       func() time.Time { return time.Now().UTC() },
		Log:       logger,
	}
}
