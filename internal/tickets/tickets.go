// Package tickets joins a user's bookings with their events and meetups and
// sorts the result into display buckets.  Join, BucketOf and Partition are
// pure functions of their input and the supplied time.
package tickets

import (
	"context"
	"log/slog"
	"time"

	"github.com/iliyamo/event-seat-booking/internal/model"
)

// Ticket is a booking shown together with the item it is for.
type Ticket struct {
	Booking model.Booking `json:"booking"`
	Item    model.Item    `json:"item"`
}

// Bucket is a display group of tickets.
type Bucket string

const (
	Upcoming  Bucket = "upcoming"
	Completed Bucket = "completed"
	Cancelled Bucket = "cancelled"
)

// Buckets holds the partitioned tickets.  Each slice keeps the order of the
// source booking list.
type Buckets struct {
	Upcoming  []Ticket `json:"upcoming"`
	Completed []Ticket `json:"completed"`
	Cancelled []Ticket `json:"cancelled"`
}

// Join pairs each booking with the item whose id equals its EventID.
// Bookings without a matching item are dropped.
func Join(bookings []model.Booking, items []model.Item) []Ticket {
	byID := make(map[string]model.Item, len(items))
	for _, it := range items {
		byID[it.ID] = it
	}
	out := make([]Ticket, 0, len(bookings))
	for _, b := range bookings {
		it, ok := byID[b.EventID]
		if !ok {
			continue
		}
		out = append(out, Ticket{Booking: b, Item: it})
	}
	return out
}

// BucketOf places a ticket: cancelled bookings are Cancelled whatever the
// date, otherwise an item that started at or before now is Completed and
// anything later is Upcoming.  Refunded bookings follow the date rule.
func BucketOf(t Ticket, now time.Time) Bucket {
	if t.Booking.Status == model.StatusCancelled {
		return Cancelled
	}
	if !t.Item.StartDate.After(now) {
		return Completed
	}
	return Upcoming
}

// Partition splits tickets into buckets without reordering them.
func Partition(tickets []Ticket, now time.Time) Buckets {
	out := Buckets{Upcoming: []Ticket{}, Completed: []Ticket{}, Cancelled: []Ticket{}}
	for _, t := range tickets {
		switch BucketOf(t, now) {
		case Cancelled:
			out.Cancelled = append(out.Cancelled, t)
		case Completed:
			out.Completed = append(out.Completed, t)
		default:
			out.Upcoming = append(out.Upcoming, t)
		}
	}
	return out
}

// Store is the persistence needed to list and cancel tickets.
type Store interface {
	ListBookings(ctx context.Context, f model.BookingFilter) ([]model.Booking, error)
	UpdateBookingStatus(ctx context.Context, id string, status model.Status) (*model.Booking, error)
	ListItems(ctx context.Context, f model.ItemFilter) ([]model.Item, error)
}

// Service lists and cancels the tickets of one user.
type Service struct {
	Store Store
	Log   *slog.Logger
}

// NewService returns a Service reading from store.
func NewService(store Store) *Service {
	return &Service{Store: store, Log: slog.Default()}
}

// List returns the user's tickets partitioned at now.
func (s *Service) List(ctx context.Context, userID string, now time.Time) (Buckets, error) {
	bookings, err := s.Store.ListBookings(ctx, model.BookingFilter{UserID: userID})
	if err != nil {
		return Buckets{}, err
	}
	items, err := s.Store.ListItems(ctx, model.ItemFilter{When: "any"})
	if err != nil {
		return Buckets{}, err
	}
	joined := Join(bookings, items)
	if dropped := len(bookings) - len(joined); dropped > 0 {
		s.logger().Warn("tickets: bookings without item", "user_id", userID, "dropped", dropped)
	}
	return Partition(joined, now), nil
}

// Cancel cancels one of the user's bookings.  A booking the user does not
// own is reported as model.ErrNotFound.  Cancelling an already cancelled
// booking returns it unchanged without a write.
func (s *Service) Cancel(ctx context.Context, userID, bookingID string) (*model.Booking, error) {
	owned, err := s.Store.ListBookings(ctx, model.BookingFilter{UserID: userID})
	if err != nil {
		return nil, err
	}
	for _, b := range owned {
		if b.ID != bookingID {
			continue
		}
		if b.Status == model.StatusCancelled {
			return &b, nil
		}
		return s.Store.UpdateBookingStatus(ctx, bookingID, model.StatusCancelled)
	}
	return nil, model.ErrNotFound
}

func (s *Service) logger() *slog.Logger {
	if s.Log == nil {
		return slog.Default()
	}
	return s.Log
}
