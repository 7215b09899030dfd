package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-seat-booking/internal/booking"
	"github.com/iliyamo/event-seat-booking/internal/draft"
	"github.com/iliyamo/event-seat-booking/internal/middleware"
	"github.com/iliyamo/event-seat-booking/internal/model"
	"github.com/iliyamo/event-seat-booking/internal/seatmap"
)

// bookingRequest is the final state of the booking wizard.  Seats are
// labels in selection order.
type bookingRequest struct {
	EventID       string        `json:"event_id"`
	Seats         []string      `json:"seats"`
	Contact       model.Contact `json:"contact"`
	AcceptTerms   bool          `json:"accept_terms"`
	PromoCode     *string       `json:"promo_code"`
	PaymentMethod *string       `json:"payment_method"`
}

// CreateBooking handles POST /v1/bookings.  The draft is rebuilt from the
// request against the current availability, so seats booked since the
// client last looked are rejected, then submitted.  Prices always come from
// the seat map, never from the client.
func (h *Handler) CreateBooking(c echo.Context) error {
	userID := middleware.UserID(c)
	if userID == "" {
		return h.fail(c, booking.ErrAuth)
	}
	var req bookingRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	req.EventID = strings.TrimSpace(req.EventID)
	if req.EventID == "" {
		return h.fail(c, &draft.ValidationError{Field: "event_id", Message: "is required"})
	}

	ctx := c.Request().Context()
	it, err := h.Backend.GetItem(ctx, req.EventID)
	if err != nil {
		return h.fail(c, err)
	}
	view, err := h.viewOf(ctx, it)
	if err != nil {
		return h.fail(c, err)
	}

	d := draft.New()
	d.SetEvent(it.ID)
	grid := seatmap.CapacityToGrid(it.MaxParticipants)
	pc := seatmap.ContextFor(it)
	for _, label := range req.Seats {
		row, col, ok := seatmap.ParseLabel(strings.TrimSpace(label))
		if !ok || !grid.Contains(row, col) {
			return h.fail(c, &draft.ValidationError{Field: "selected_seats", Message: fmt.Sprintf("unknown seat %q", label)})
		}
		if err := d.SelectSeat(seatmap.SeatAt(row, col, pc), view); err != nil {
			return h.fail(c, err)
		}
	}
	// The draft is Editing here, so these setters cannot fail.
	_ = d.SetContact(req.Contact)
	_ = d.SetAcceptTerms(req.AcceptTerms)
	_ = d.SetPromoCode(req.PromoCode)
	_ = d.SetPaymentMethod(req.PaymentMethod)

	b, err := h.Submitter.Submit(ctx, userID, d)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, b)
}
