// Package seatmap maps seat positions of an event to labels, tiers, prices
// and occupancy states.  Everything here is pure: no I/O and no errors for
// valid input.
package seatmap

import (
	"strconv"
	"unicode/utf8"

	"github.com/iliyamo/event-seat-booking/internal/model"
)

const (
	// Cols is the fixed number of seats per row.
	Cols = 9
	// MaxRows caps the grid height regardless of capacity.
	MaxRows = 7
)

// Fallback tier prices in cents, used when no item pricing applies.
const (
	PriceFrontRow  int64 = 1999
	PriceMiddleRow int64 = 1299
	PriceBackRow   int64 = 1099
)

// Grid is the implicit seating grid of an event.
type Grid struct {
	Rows int `json:"rows"`
	Cols int `json:"cols"`
}

// Contains reports whether (row, col) lies inside the grid.
func (g Grid) Contains(row, col int) bool {
	return row >= 0 && col >= 0 && row < g.Rows && col < g.Cols
}

// Size returns the number of seat positions in the grid.
func (g Grid) Size() int { return g.Rows * g.Cols }

// CapacityToGrid sizes the grid for an event capacity.  A nil capacity
// means model.DefaultCapacity.  The row count never exceeds MaxRows, so
// capacities above 63 are not fully representable.
func CapacityToGrid(capacity *int) Grid {
	c := model.DefaultCapacity
	if capacity != nil {
		c = *capacity
	}
	if c <= 0 {
		return Grid{Rows: 0, Cols: Cols}
	}
	rows := (c + Cols - 1) / Cols
	if rows > MaxRows {
		rows = MaxRows
	}
	return Grid{Rows: rows, Cols: Cols}
}

// SeatLabel returns the display label for a position, e.g. "A1".
func SeatLabel(row, col int) string { return model.SeatLabel(row, col) }

// ParseLabel is the inverse of SeatLabel.
func ParseLabel(label string) (row, col int, ok bool) {
	r, size := utf8.DecodeRuneInString(label)
	if r == utf8.RuneError || r < 'A' || size == len(label) {
		return 0, 0, false
	}
	digits := label[size:]
	if digits[0] == '0' || digits[0] == '+' || digits[0] == '-' {
		return 0, 0, false
	}
	n, err := strconv.Atoi(digits)
	if err != nil || n < 1 {
		return 0, 0, false
	}
	return int(r - 'A'), n - 1, true
}

// TierFor returns VIP for the front row and Standard for every other row.
func TierFor(row int) model.Tier {
	if row == 0 {
		return model.TierVIP
	}
	return model.TierStandard
}

// PriceFor returns the price in cents of a seat in the given row.
//
// Events with a positive ticket price use that flat price for every row.
// Meetups are always free.  Anything else (no item context, or an event
// without a usable price) falls back to tiered pricing: 19.99 for row 0,
// 12.99 for rows 1 and 2, 10.99 from row 3 on.
func PriceFor(row int, eventType model.ItemType, ticketPriceCents *int64) int64 {
	if eventType == model.ItemEvent && ticketPriceCents != nil && *ticketPriceCents > 0 {
		return *ticketPriceCents
	}
	if eventType == model.ItemMeetup {
		return 0
	}
	switch {
	case row <= 0:
		return PriceFrontRow
	case row <= 2:
		return PriceMiddleRow
	default:
		return PriceBackRow
	}
}

// PricingContext carries the item attributes that affect seat pricing.
// The zero value selects fallback tiered pricing.
type PricingContext struct {
	Type             model.ItemType
	TicketPriceCents *int64
}

// ContextFor builds the pricing context of an item.  A nil item yields the
// zero context.
func ContextFor(item *model.Item) PricingContext {
	if item == nil {
		return PricingContext{}
	}
	return PricingContext{Type: item.Type, TicketPriceCents: item.TicketPriceCents}
}

// SeatAt builds the seat at a position with its tier and price.
func SeatAt(row, col int, pc PricingContext) model.Seat {
	return model.Seat{
		Row:        row,
		Column:     col,
		Type:       TierFor(row),
		PriceCents: PriceFor(row, pc.Type, pc.TicketPriceCents),
	}
}

// Layout returns every seat of the grid in row-major order.
func Layout(g Grid, pc PricingContext) [][]model.Seat {
	rows := make([][]model.Seat, 0, g.Rows)
	for r := 0; r < g.Rows; r++ {
		row := make([]model.Seat, 0, g.Cols)
		for c := 0; c < g.Cols; c++ {
			row = append(row, SeatAt(r, c, pc))
		}
		rows = append(rows, row)
	}
	return rows
}
