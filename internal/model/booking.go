package model

import "time"

// Status is the lifecycle state of a persisted booking.
type Status string

const (
    StatusPending   Status = "pending"
    StatusConfirmed Status = "confirmed"
    StatusCancelled Status = "cancelled"
    StatusCompleted Status = "completed"
    StatusRefunded  Status = "refunded"
)

// ActiveStatuses are the statuses that block a second booking by the same
// user for the same event.
var ActiveStatuses = []Status{StatusPending, StatusConfirmed}

// IsActive reports whether s is one of ActiveStatuses.
func (s Status) IsActive() bool {
    for _, a := range ActiveStatuses {
        if s == a {
            return true
        }
    }
    return false
}

// Valid reports whether s is a recognised status value.
func (s Status) Valid() bool {
    switch s {
    case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted, StatusRefunded:
        return true
    }
    return false
}

const (
    PaymentUnpaid = "unpaid"
    PaymentPaid   = "paid"
)

// Contact holds the attendee fields collected by the booking wizard.
type Contact struct {
    FirstName string `json:"first_name"`
    LastName  string `json:"last_name"`
    Gender    string `json:"gender,omitempty"`
    BirthDate string `json:"birth_date,omitempty"`
    Email     string `json:"email"`
    Phone     string `json:"phone"`
    Country   string `json:"country,omitempty"`
}

// Booking is the server-owned record of a reservation.  It is created
// exactly once per successful submission and afterwards only its status
// changes.  A cancelled booking carries no seats.
//
// Fields:
//  ID               – server-assigned identifier.
//  UserID           – user who made the booking.
//  EventID          – event or meetup being booked.
//  OrderNumber      – client-generated order reference.
//  TotalAmountCents – total price in cents for all seats.
//  Status           – see Status.
//  PaymentStatus    – payment state as reported by the payment provider.
//  SelectedSeats    – snapshot of the seats at submission time.
//  Attendee         – contact snapshot.
//  PromoCode        – optional promo code.
//  PaymentMethod    – optional payment method reference.
type Booking struct {
    ID               string    `json:"id"`
    UserID           string    `json:"user_id"`
    EventID          string    `json:"event_id"`
    OrderNumber      string    `json:"order_number"`
    TotalAmountCents int64     `json:"total_amount_cents"`
    Status           Status    `json:"status"`
    PaymentStatus    string    `json:"payment_status"`
    SelectedSeats    []Seat    `json:"selected_seats"`
    Attendee         Contact   `json:"attendee"`
    PromoCode        *string   `json:"promo_code,omitempty"`
    PaymentMethod    *string   `json:"payment_method,omitempty"`
    CreatedAt        time.Time `json:"created_at"`
    UpdatedAt        time.Time `json:"updated_at"`
}

// NewBooking is the create payload: a Booking minus the server-assigned id
// and timestamps.
type NewBooking struct {
    UserID           string
    EventID          string
    OrderNumber      string
    TotalAmountCents int64
    Status           Status
    PaymentStatus    string
    SelectedSeats    []Seat
    Attendee         Contact
    PromoCode        *string
    PaymentMethod    *string
}

// BookingFilter narrows ListBookings.  Empty fields do not filter.
type BookingFilter struct {
    UserID  string
    EventID string
}
