package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/event-seat-booking/internal/model"
)

// MemoryStore keeps bookings and items in memory with the same contract as
// BookingRepo and ItemRepo, including the one-active-booking constraint.  It
// backs STORE_DRIVER=memory and the tests.
type MemoryStore struct {
	mu       sync.Mutex
	now      func() time.Time
	bookings []model.Booking
	items    []model.Item
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{now: func() time.Time { return time.Now().UTC() }}
}

// AddItem stores an item, assigning an id when empty.  It returns the id.
func (m *MemoryStore) AddItem(it model.Item) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if it.ID == "" {
		it.ID = uuid.NewString()
	}
	if it.CreatedAt.IsZero() {
		it.CreatedAt = m.now()
	}
	m.items = append(m.items, it)
	return it.ID
}

func cloneBooking(b model.Booking) model.Booking {
	b.SelectedSeats = append([]model.Seat{}, b.SelectedSeats...)
	return b
}

// ListBookings implements the booking store contract.
func (m *MemoryStore) ListBookings(_ context.Context, f model.BookingFilter) ([]model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.Booking{}
	for _, b := range m.bookings {
		if f.UserID != "" && b.UserID != f.UserID {
			continue
		}
		if f.EventID != "" && b.EventID != f.EventID {
			continue
		}
		out = append(out, cloneBooking(b))
	}
	return out, nil
}

// GetBooking returns one booking or model.ErrNotFound.
func (m *MemoryStore) GetBooking(_ context.Context, id string) (*model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.bookings {
		if b.ID == id {
			c := cloneBooking(b)
			return &c, nil
		}
	}
	return nil, model.ErrNotFound
}

// CreateBooking implements the booking store contract.
func (m *MemoryStore) CreateBooking(_ context.Context, nb model.NewBooking) (*model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.bookings {
		if b.UserID == nb.UserID && b.EventID == nb.EventID && b.Status != model.StatusCancelled {
			return nil, model.ErrUniqueViolation
		}
		if b.OrderNumber == nb.OrderNumber {
			return nil, fmt.Errorf("duplicate order number %q", nb.OrderNumber)
		}
	}
	now := m.now()
	b := model.Booking{
		ID:               uuid.NewString(),
		UserID:           nb.UserID,
		EventID:          nb.EventID,
		OrderNumber:      nb.OrderNumber,
		TotalAmountCents: nb.TotalAmountCents,
		Status:           nb.Status,
		PaymentStatus:    nb.PaymentStatus,
		SelectedSeats:    append([]model.Seat{}, nb.SelectedSeats...),
		Attendee:         nb.Attendee,
		PromoCode:        nb.PromoCode,
		PaymentMethod:    nb.PaymentMethod,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	m.bookings = append(m.bookings, b)
	c := cloneBooking(b)
	return &c, nil
}

// UpdateBookingStatus implements the booking store contract.  Cancelling
// clears the seat snapshot.
func (m *MemoryStore) UpdateBookingStatus(_ context.Context, id string, status model.Status) (*model.Booking, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("invalid booking status %q", status)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.bookings {
		if m.bookings[i].ID != id {
			continue
		}
		m.bookings[i].Status = status
		if status == model.StatusCancelled {
			m.bookings[i].SelectedSeats = []model.Seat{}
		}
		m.bookings[i].UpdatedAt = m.now()
		c := cloneBooking(m.bookings[i])
		return &c, nil
	}
	return nil, model.ErrNotFound
}

func (m *MemoryStore) matchItems(f model.ItemFilter) []model.Item {
	now := m.now()
	q := strings.ToLower(f.Query)
	out := []model.Item{}
	for _, it := range m.items {
		if strings.ToLower(f.When) != "any" && it.StartDate.Before(now) {
			continue
		}
		if f.Type != "" && it.Type != f.Type {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(it.Title), q) && !strings.Contains(strings.ToLower(it.Location), q) {
			continue
		}
		out = append(out, it)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].StartDate.Before(out[j].StartDate) })
	return out
}

// ListItems implements the item store contract.
func (m *MemoryStore) ListItems(_ context.Context, f model.ItemFilter) ([]model.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.matchItems(f)
	if f.Page > 0 && f.PageSize > 0 {
		start := (f.Page - 1) * f.PageSize
		if start >= len(out) {
			return []model.Item{}, nil
		}
		end := start + f.PageSize
		if end > len(out) {
			end = len(out)
		}
		out = out[start:end]
	}
	return out, nil
}

// CountItems implements the item store contract.
func (m *MemoryStore) CountItems(_ context.Context, f model.ItemFilter) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.matchItems(f))), nil
}

// GetItem implements the item store contract.
func (m *MemoryStore) GetItem(_ context.Context, id string) (*model.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, it := range m.items {
		if it.ID == id {
			c := it
			return &c, nil
		}
	}
	return nil, model.ErrNotFound
}
