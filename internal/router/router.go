// Package router registers the HTTP routes of the API.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-seat-booking/internal/handler"
	"github.com/iliyamo/event-seat-booking/internal/middleware"
)

// Options carries the middleware wrapped around specific routes.  Nil
// entries are skipped.
type Options struct {
	JWTSecret string
	// Cache wraps the public item reads.
	Cache echo.MiddlewareFunc
	// BookingLimit wraps booking submission.
	BookingLimit echo.MiddlewareFunc
}

func chain(mws ...echo.MiddlewareFunc) []echo.MiddlewareFunc {
	out := make([]echo.MiddlewareFunc, 0, len(mws))
	for _, m := range mws {
		if m != nil {
			out = append(out, m)
		}
	}
	return out
}

// Register maps every route onto e.
func Register(e *echo.Echo, h *handler.Handler, opts Options) {
	e.GET("/healthz", handler.Health)

	v1 := e.Group("/v1")
	v1.GET("/items", h.ListItems, chain(opts.Cache)...)
	v1.GET("/items/:id", h.GetItem, chain(opts.Cache)...)
	v1.GET("/events/:id/seats", h.SeatMap)
	v1.GET("/events/:id/availability/stream", h.AvailabilityStream)

	// The limiter runs after authentication so it can key on the user.
	jwt := middleware.JWTAuth(opts.JWTSecret)
	v1.POST("/bookings", h.CreateBooking, chain(jwt, opts.BookingLimit)...)
	v1.GET("/my-tickets", h.MyTickets, jwt)
	v1.POST("/bookings/:id/cancel", h.CancelBooking, jwt)
}
