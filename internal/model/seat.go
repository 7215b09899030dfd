package model

import "strconv"

// Tier is the pricing class of a seat row.
type Tier string

const (
    TierVIP      Tier = "VIP"
    TierStandard Tier = "Standard"
)

// Seat describes one position in an event's seating grid together with the
// tier and price it was offered at.  Seats have no lifecycle of their own;
// the same shape is used for the in-progress selection of a draft and for
// the snapshot stored on a persisted booking.
//
// Fields:
//  Row        – zero-based row index (row 0 is the front VIP row).
//  Column     – zero-based column index.
//  Type       – tier of the row.
//  PriceCents – price in cents at selection time.
type Seat struct {
    Row        int   `json:"row"`
    Column     int   `json:"column"`
    Type       Tier  `json:"type"`
    PriceCents int64 `json:"price_cents"`
}

// Label returns the display label of the seat ("A1" for row 0, column 0).
func (s Seat) Label() string { return SeatLabel(s.Row, s.Column) }

// Key returns the "{row}-{column}" composite key used to deselect a seat.
func (s Seat) Key() string { return SeatKey(s.Row, s.Column) }

// SeatLabel renders a position as a row letter followed by the one-based
// column number.  Rows map to consecutive code points starting at 'A'.
func SeatLabel(row, column int) string {
    return string(rune('A'+row)) + strconv.Itoa(column+1)
}

// SeatKey renders the composite "{row}-{column}" key of a position.
func SeatKey(row, column int) string {
    return strconv.Itoa(row) + "-" + strconv.Itoa(column)
}
