// Package booking turns a validated draft into exactly one persisted booking.
package booking

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"io"
	"log/slog"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/iliyamo/event-seat-booking/internal/draft"
	"github.com/iliyamo/event-seat-booking/internal/model"
)

// Store is the part of the persistence collaborator the submitter needs.
// CreateBooking must fail with an error matching model.ErrUniqueViolation
// when the user already has a non-cancelled booking for the event.
type Store interface {
	ListBookings(ctx context.Context, f model.BookingFilter) ([]model.Booking, error)
	CreateBooking(ctx context.Context, b model.NewBooking) (*model.Booking, error)
}

// Submitter submits drafts.  The client-side duplicate check is only a fast
// path; the store's unique constraint decides.
type Submitter struct {
	Store Store
	Now   func() time.Time
	Rand  io.Reader
	Log   *slog.Logger

	tracer trace.Tracer
}

// NewSubmitter returns a Submitter writing to store.
func NewSubmitter(store Store) *Submitter {
	return &Submitter{
		Store:  store,
		Now:    time.Now,
		Rand:   rand.Reader,
		Log:    slog.Default(),
		tracer: otel.Tracer("github.com/iliyamo/event-seat-booking/internal/booking"),
	}
}

// Submit validates d, checks for an existing active booking of userID for
// the draft's event and creates the booking.  On success the draft becomes
// Submitted with the new booking id; on any failure after validation it
// returns to Editing with all fields intact.  Nothing is retried.
//
// Errors: ErrAuth, *draft.ValidationError, ErrDuplicateBooking (found by the
// pre-check, no write issued), ErrConflict (store rejected the write),
// *TransientError.
//
// Once issued, the write is not cancelled by ctx.  If the draft was reset
// while the write was in flight the booking is returned but not recorded on
// the draft.
func (s *Submitter) Submit(ctx context.Context, userID string, d *draft.Draft) (*model.Booking, error) {
	if userID == "" {
		return nil, ErrAuth
	}
	attempt, err := d.BeginSubmit()
	if err != nil {
		return nil, err
	}

	ctx, span := s.tracerOrDefault().Start(ctx, "booking.submit", trace.WithAttributes(
		attribute.String("event.id", attempt.EventID),
		attribute.Int("booking.seats", len(attempt.Seats)),
	))
	defer span.End()

	b, err := s.submit(ctx, userID, attempt)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		_ = d.Fail(attempt)
		s.logger().Info("booking: submit rejected", "event_id", attempt.EventID, "user_id", userID, "err", err)
		return nil, err
	}
	if err := d.Complete(attempt, b.ID); err != nil {
		s.logger().Warn("booking: result for a discarded draft", "booking_id", b.ID, "event_id", attempt.EventID)
	}
	span.SetAttributes(attribute.String("booking.id", b.ID))
	s.logger().Info("booking: created", "booking_id", b.ID, "order_number", b.OrderNumber,
		"event_id", b.EventID, "user_id", userID, "total_cents", b.TotalAmountCents)
	return b, nil
}

func (s *Submitter) submit(ctx context.Context, userID string, a draft.Attempt) (*model.Booking, error) {
	existing, err := s.Store.ListBookings(ctx, model.BookingFilter{UserID: userID, EventID: a.EventID})
	if err != nil {
		return nil, &TransientError{Op: "check existing bookings", Err: err}
	}
	for _, b := range existing {
		if b.Status.IsActive() {
			return nil, ErrDuplicateBooking
		}
	}

	orderNumber, err := OrderNumber(userID, s.now(), s.rand())
	if err != nil {
		return nil, &TransientError{Op: "generate order number", Err: err}
	}
	payload := model.NewBooking{
		UserID:           userID,
		EventID:          a.EventID,
		OrderNumber:      orderNumber,
		TotalAmountCents: a.TotalPriceCents,
		Status:           model.StatusPending,
		PaymentStatus:    model.PaymentUnpaid,
		SelectedSeats:    a.Seats,
		Attendee:         a.Contact,
		PromoCode:        a.PromoCode,
		PaymentMethod:    a.PaymentMethod,
	}
	b, err := s.Store.CreateBooking(context.WithoutCancel(ctx), payload)
	if err != nil {
		if errors.Is(err, model.ErrUniqueViolation) {
			return nil, ErrConflict
		}
		return nil, &TransientError{Op: "create booking", Err: err}
	}
	return b, nil
}

// OrderNumber builds "ORD-<user id prefix>-<unix millis>-<6 hex chars>".
// It only makes collisions unlikely; uniqueness is enforced by the store.
func OrderNumber(userID string, now time.Time, r io.Reader) (string, error) {
	prefix := userID
	if len(prefix) > 8 {
		prefix = prefix[:8]
	}
	b := make([]byte, 3)
	if _, err := io.ReadFull(r, b); err != nil {
		return "", err
	}
	return "ORD-" + prefix + "-" + strconv.FormatInt(now.UnixMilli(), 10) + "-" + hex.EncodeToString(b), nil
}

func (s *Submitter) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

func (s *Submitter) rand() io.Reader {
	if s.Rand == nil {
		return rand.Reader
	}
	return s.Rand
}

func (s *Submitter) logger() *slog.Logger {
	if s.Log == nil {
		return slog.Default()
	}
	return s.Log
}

func (s *Submitter) tracerOrDefault() trace.Tracer {
	if s.tracer == nil {
		return otel.Tracer("github.com/iliyamo/event-seat-booking/internal/booking")
	}
	return s.tracer
}
