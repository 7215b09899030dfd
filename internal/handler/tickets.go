package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-seat-booking/internal/booking"
	"github.com/iliyamo/event-seat-booking/internal/middleware"
)

// MyTickets handles GET /v1/my-tickets.
func (h *Handler) MyTickets(c echo.Context) error {
	userID := middleware.UserID(c)
	if userID == "" {
		return h.fail(c, booking.ErrAuth)
	}
	buckets, err := h.Tickets.List(c.Request().Context(), userID, h.Now())
	if err != nil {
		return h.fail(c, &booking.TransientError{Op: "list tickets", Err: err})
	}
	return c.JSON(http.StatusOK, buckets)
}

// CancelBooking handles POST /v1/bookings/:id/cancel.  Bookings of other
// users are reported as not found.
func (h *Handler) CancelBooking(c echo.Context) error {
	userID := middleware.UserID(c)
	if userID == "" {
		return h.fail(c, booking.ErrAuth)
	}
	b, err := h.Tickets.Cancel(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, b)
}
