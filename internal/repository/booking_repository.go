package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/iliyamo/event-seat-booking/internal/model"
)

// BookingRepo provides access to the bookings table.  Selected seats and the
// attendee snapshot are stored as JSON columns.  All timestamps are UTC.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a BookingRepo bound to db.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

const bookingColumns = `id, user_id, event_id, order_number, total_amount_cents, status, payment_status,
       selected_seats, attendee, promo_code, payment_method, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(s rowScanner) (*model.Booking, error) {
	var (
		b             model.Booking
		seats, att    []byte
		promo, method sql.NullString
	)
	if err := s.Scan(&b.ID, &b.UserID, &b.EventID, &b.OrderNumber, &b.TotalAmountCents, &b.Status,
		&b.PaymentStatus, &seats, &att, &promo, &method, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	b.SelectedSeats = []model.Seat{}
	if len(seats) > 0 {
		if err := json.Unmarshal(seats, &b.SelectedSeats); err != nil {
			return nil, fmt.Errorf("decode selected_seats of %s: %w", b.ID, err)
		}
	}
	if len(att) > 0 {
		if err := json.Unmarshal(att, &b.Attendee); err != nil {
			return nil, fmt.Errorf("decode attendee of %s: %w", b.ID, err)
		}
	}
	if promo.Valid {
		v := promo.String
		b.PromoCode = &v
	}
	if method.Valid {
		v := method.String
		b.PaymentMethod = &v
	}
	return &b, nil
}

// ListBookings returns the bookings matching f in creation order.
func (r *BookingRepo) ListBookings(ctx context.Context, f model.BookingFilter) ([]model.Booking, error) {
	where := []string{}
	args := []any{}
	if f.UserID != "" {
		where = append(where, "user_id = ?")
		args = append(args, f.UserID)
	}
	if f.EventID != "" {
		where = append(where, "event_id = ?")
		args = append(args, f.EventID)
	}
	cond := "1=1"
	if len(where) > 0 {
		cond = strings.Join(where, " AND ")
	}
	q := `SELECT ` + bookingColumns + ` FROM bookings WHERE ` + cond + ` ORDER BY created_at ASC, id ASC`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetBooking returns one booking or model.ErrNotFound.
func (r *BookingRepo) GetBooking(ctx context.Context, id string) (*model.Booking, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = ?`, id)
	b, err := scanBooking(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrNotFound
	}
	return b, err
}

// CreateBooking inserts a booking with a fresh id and reads the full row
// back to pick up defaults and timestamps.  A second non-cancelled booking
// for the same (user, event) fails with model.ErrUniqueViolation.
func (r *BookingRepo) CreateBooking(ctx context.Context, nb model.NewBooking) (*model.Booking, error) {
	seats := nb.SelectedSeats
	if seats == nil {
		seats = []model.Seat{}
	}
	seatsJSON, err := json.Marshal(seats)
	if err != nil {
		return nil, err
	}
	attJSON, err := json.Marshal(nb.Attendee)
	if err != nil {
		return nil, err
	}
	id := uuid.NewString()
	const q = `INSERT INTO bookings (id, user_id, event_id, order_number, total_amount_cents, status, payment_status,
                          selected_seats, attendee, promo_code, payment_method)
               VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, q, id, nb.UserID, nb.EventID, nb.OrderNumber, nb.TotalAmountCents,
		string(nb.Status), nb.PaymentStatus, seatsJSON, attJSON, nullString(nb.PromoCode), nullString(nb.PaymentMethod)); err != nil {
		return nil, mapWriteError(err)
	}
	return r.GetBooking(ctx, id)
}

// UpdateBookingStatus sets the status of a booking.  Cancelling also clears
// the seat snapshot; it is the only path that releases seats.
func (r *BookingRepo) UpdateBookingStatus(ctx context.Context, id string, status model.Status) (*model.Booking, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("invalid booking status %q", status)
	}
	q := `UPDATE bookings SET status = ? WHERE id = ?`
	if status == model.StatusCancelled {
		q = `UPDATE bookings SET status = ?, selected_seats = JSON_ARRAY() WHERE id = ?`
	}
	if _, err := r.db.ExecContext(ctx, q, string(status), id); err != nil {
		return nil, mapWriteError(err)
	}
	return r.GetBooking(ctx, id)
}

func nullString(p *string) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *p, Valid: true}
}
