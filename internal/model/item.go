package model

import "time"

// ItemType distinguishes paid events from free meetups.
type ItemType string

const (
    ItemEvent  ItemType = "event"
    ItemMeetup ItemType = "meetup"
)

// DefaultCapacity is assumed when an item does not declare MaxParticipants.
const DefaultCapacity = 63

// Item is an event or meetup that can be booked.
//
// Fields:
//  ID               – item identifier, referenced by Booking.EventID.
//  Type             – event or meetup.
//  Title            – display title.
//  Description      – optional long description.
//  Location         – free-form venue text.
//  StartDate        – when the item starts; drives ticket bucketing.
//  MaxParticipants  – capacity (nil means DefaultCapacity).
//  TicketPriceCents – flat ticket price for events (nil when unpriced).
//  CreatedAt        – creation timestamp.
type Item struct {
    ID               string    `json:"id"`
    Type             ItemType  `json:"type"`
    Title            string    `json:"title"`
    Description      string    `json:"description,omitempty"`
    Location         string    `json:"location,omitempty"`
    StartDate        time.Time `json:"start_date"`
    MaxParticipants  *int      `json:"max_participants,omitempty"`
    TicketPriceCents *int64    `json:"ticket_price_cents,omitempty"`
    CreatedAt        time.Time `json:"created_at"`
}

// Capacity returns MaxParticipants or DefaultCapacity when unset.
func (i Item) Capacity() int {
    if i.MaxParticipants == nil {
        return DefaultCapacity
    }
    return *i.MaxParticipants
}

// ItemFilter defines filters and pagination for listing items.  A zero
// Page or PageSize disables pagination.
type ItemFilter struct {
    Type     ItemType
    Query    string
    When     string // "upcoming" (default) or "any"
    Page     int
    PageSize int
}
