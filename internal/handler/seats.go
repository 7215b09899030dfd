package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-seat-booking/internal/availability"
	"github.com/iliyamo/event-seat-booking/internal/booking"
	"github.com/iliyamo/event-seat-booking/internal/model"
	"github.com/iliyamo/event-seat-booking/internal/seatmap"
)

type seatView struct {
	Label      string        `json:"label"`
	Row        int           `json:"row"`
	Column     int           `json:"column"`
	Type       model.Tier    `json:"type"`
	PriceCents int64         `json:"price_cents"`
	State      seatmap.State `json:"state"`
}

type seatMapResponse struct {
	EventID        string       `json:"event_id"`
	Grid           seatmap.Grid `json:"grid"`
	Rows           [][]seatView `json:"rows"`
	BookedSeats    []string     `json:"booked_seats"`
	AvailableSeats int          `json:"available_seats"`
	IsFullyBooked  bool         `json:"is_fully_booked"`
}

type availabilityFrame struct {
	EventID        string   `json:"event_id"`
	BookedSeats    []string `json:"booked_seats"`
	AvailableSeats int      `json:"available_seats"`
	IsFullyBooked  bool     `json:"is_fully_booked"`
}

func frameOf(eventID string, v availability.View) availabilityFrame {
	return availabilityFrame{
		EventID:        eventID,
		BookedSeats:    v.BookedSeats.Sorted(),
		AvailableSeats: v.AvailableSeats,
		IsFullyBooked:  v.IsFullyBooked,
	}
}

// viewOf fetches the bookings of an item and derives its availability.
func (h *Handler) viewOf(ctx context.Context, it *model.Item) (availability.View, error) {
	all, err := h.Backend.ListBookings(ctx, model.BookingFilter{EventID: it.ID})
	if err != nil {
		return availability.View{}, &booking.TransientError{Op: "load bookings", Err: err}
	}
	return availability.Compute(availability.BookedLabels(all), it.Capacity()), nil
}

// parseSelected reads a comma separated list of seat labels, ignoring
// blanks and labels that do not parse.
func parseSelected(raw string) []model.Seat {
	var out []model.Seat
	for _, l := range strings.Split(raw, ",") {
		if r, c, ok := seatmap.ParseLabel(strings.TrimSpace(l)); ok {
			out = append(out, model.Seat{Row: r, Column: c})
		}
	}
	return out
}

// SeatMap handles GET /v1/events/:id/seats.  The optional selected query
// (comma separated labels) marks the caller's local selection; a selected
// seat that has been booked meanwhile is reported as booked.
func (h *Handler) SeatMap(c echo.Context) error {
	ctx := c.Request().Context()
	it, err := h.Backend.GetItem(ctx, c.Param("id"))
	if err != nil {
		return h.fail(c, err)
	}
	view, err := h.viewOf(ctx, it)
	if err != nil {
		return h.fail(c, err)
	}
	selected := parseSelected(c.QueryParam("selected"))
	grid := seatmap.CapacityToGrid(it.MaxParticipants)

	rows := make([][]seatView, 0, grid.Rows)
	for _, row := range seatmap.Layout(grid, seatmap.ContextFor(it)) {
		out := make([]seatView, 0, len(row))
		for _, s := range row {
			booked := availability.IsBooked(s.Row, s.Column, view.BookedSeats)
			out = append(out, seatView{
				Label:      s.Label(),
				Row:        s.Row,
				Column:     s.Column,
				Type:       s.Type,
				PriceCents: s.PriceCents,
				State:      seatmap.StateOf(booked, availability.IsSelected(s.Row, s.Column, selected)),
			})
		}
		rows = append(rows, out)
	}
	return c.JSON(http.StatusOK, seatMapResponse{
		EventID:        it.ID,
		Grid:           grid,
		Rows:           rows,
		BookedSeats:    view.BookedSeats.Sorted(),
		AvailableSeats: view.AvailableSeats,
		IsFullyBooked:  view.IsFullyBooked,
	})
}
