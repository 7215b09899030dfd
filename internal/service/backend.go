// Package service composes the stores and the change feed into the single
// backend the HTTP layer talks to.  Every successful booking write is
// followed by a change notification for its event.  Publish failures are
// logged and never fail the write: the booking is already persisted.
package service

import (
	"context"
	"log/slog"

	"github.com/iliyamo/event-seat-booking/internal/feed"
	"github.com/iliyamo/event-seat-booking/internal/model"
)

// BookingStore is the booking persistence contract.
type BookingStore interface {
	ListBookings(ctx context.Context, f model.BookingFilter) ([]model.Booking, error)
	GetBooking(ctx context.Context, id string) (*model.Booking, error)
	CreateBooking(ctx context.Context, b model.NewBooking) (*model.Booking, error)
	UpdateBookingStatus(ctx context.Context, id string, status model.Status) (*model.Booking, error)
}

// ItemStore is the item persistence contract.
type ItemStore interface {
	ListItems(ctx context.Context, f model.ItemFilter) ([]model.Item, error)
	CountItems(ctx context.Context, f model.ItemFilter) (int64, error)
	GetItem(ctx context.Context, id string) (*model.Item, error)
}

// Backend implements the booking and item contracts plus Subscribe.
type Backend struct {
	Bookings BookingStore
	Items    ItemStore
	Feed     feed.Feed
	Log      *slog.Logger
}

// NewBackend wires the stores and feed together.
func NewBackend(bookings BookingStore, items ItemStore, f feed.Feed, logger *slog.Logger) *Backend {
	if logger == nil {
		logger = slog.Default()
	}
	return &Backend{Bookings: bookings, Items: items, Feed: f, Log: logger}
}

func (b *Backend) ListBookings(ctx context.Context, f model.BookingFilter) ([]model.Booking, error) {
	return b.Bookings.ListBookings(ctx, f)
}

func (b *Backend) GetBooking(ctx context.Context, id string) (*model.Booking, error) {
	return b.Bookings.GetBooking(ctx, id)
}

// CreateBooking persists nb and notifies subscribers of its event.
func (b *Backend) CreateBooking(ctx context.Context, nb model.NewBooking) (*model.Booking, error) {
	out, err := b.Bookings.CreateBooking(ctx, nb)
	if err != nil {
		return nil, err
	}
	b.notify(ctx, out.EventID)
	return out, nil
}

// UpdateBookingStatus changes a status and notifies subscribers of the
// booking's event.
func (b *Backend) UpdateBookingStatus(ctx context.Context, id string, status model.Status) (*model.Booking, error) {
	out, err := b.Bookings.UpdateBookingStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}
	b.notify(ctx, out.EventID)
	return out, nil
}

func (b *Backend) ListItems(ctx context.Context, f model.ItemFilter) ([]model.Item, error) {
	return b.Items.ListItems(ctx, f)
}

func (b *Backend) CountItems(ctx context.Context, f model.ItemFilter) (int64, error) {
	return b.Items.CountItems(ctx, f)
}

func (b *Backend) GetItem(ctx context.Context, id string) (*model.Item, error) {
	return b.Items.GetItem(ctx, id)
}

// Subscribe registers onChange for changes to the bookings of eventID.
func (b *Backend) Subscribe(eventID string, onChange func()) (feed.Unsubscribe, error) {
	return b.Feed.Subscribe(eventID, onChange)
}

func (b *Backend) notify(ctx context.Context, eventID string) {
	if b.Feed == nil || eventID == "" {
		return
	}
	if err := b.Feed.Publish(context.WithoutCancel(ctx), eventID); err != nil {
		b.Log.Error("service: publish booking change failed", "event_id", eventID, "err", err)
	}
}
