// Package availability derives which seats of an event can still be taken.
// A View is always computed from scratch out of the booked labels fetched
// from the store; nothing here is an authoritative cache.
package availability

import (
	"sort"

	"github.com/iliyamo/event-seat-booking/internal/model"
)

// Labels is a set of seat labels.
type Labels map[string]struct{}

// NewLabels builds a set from labels.
func NewLabels(labels ...string) Labels {
	s := make(Labels, len(labels))
	for _, l := range labels {
		s[l] = struct{}{}
	}
	return s
}

// Has reports membership.
func (l Labels) Has(label string) bool {
	_, ok := l[label]
	return ok
}

// Sorted returns the labels in lexical order.
func (l Labels) Sorted() []string {
	out := make([]string, 0, len(l))
	for k := range l {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// BookedLabels collects the labels of every seat held by the given booking
// records.  Cancelled bookings have their seats cleared by the store, so
// they contribute nothing.
func BookedLabels(bookings []model.Booking) Labels {
	out := make(Labels)
	for _, b := range bookings {
		for _, s := range b.SelectedSeats {
			out[s.Label()] = struct{}{}
		}
	}
	return out
}

// View is the derived availability of one event.
type View struct {
	BookedSeats    Labels `json:"-"`
	AvailableSeats int    `json:"available_seats"`
	IsFullyBooked  bool   `json:"is_fully_booked"`
}

// Compute derives a View.  AvailableSeats may go negative when more seats
// are booked than the declared capacity.
func Compute(booked Labels, capacity int) View {
	if booked == nil {
		booked = Labels{}
	}
	available := capacity - len(booked)
	return View{
		BookedSeats:    booked,
		AvailableSeats: available,
		IsFullyBooked:  available <= 0,
	}
}

// IsBooked reports whether the position is in booked.
func IsBooked(row, col int, booked Labels) bool {
	return booked.Has(model.SeatLabel(row, col))
}

// IsSelected reports whether seats contains the position.
func IsSelected(row, col int, seats []model.Seat) bool {
	for _, s := range seats {
		if s.Row == row && s.Column == col {
			return true
		}
	}
	return false
}

// IsAvailable reports whether the position is neither booked nor selected.
func IsAvailable(row, col int, booked Labels, seats []model.Seat) bool {
	return !IsBooked(row, col, booked) && !IsSelected(row, col, seats)
}
