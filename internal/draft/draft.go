// Package draft holds the in-progress, not yet submitted booking of one
// editing session.  A Draft is owned by exactly one session and is passed
// explicitly between the wizard steps; it is not safe for concurrent use.
package draft

import (
	"strings"

	"github.com/iliyamo/event-seat-booking/internal/availability"
	"github.com/iliyamo/event-seat-booking/internal/model"
)

// State is the lifecycle state of a Draft.
type State int

const (
	Empty State = iota
	Editing
	Submitting
	Submitted
)

func (s State) String() string {
	switch s {
	case Empty:
		return "empty"
	case Editing:
		return "editing"
	case Submitting:
		return "submitting"
	case Submitted:
		return "submitted"
	}
	return "unknown"
}

// Draft is a booking being edited.  The zero value is an Empty draft.
type Draft struct {
	state         State
	eventID       string
	contact       model.Contact
	acceptTerms   bool
	seats         []model.Seat
	promoCode     *string
	paymentMethod *string
	bookingID     string
	// generation changes on every reset so results of older submission
	// attempts can be recognised and dropped.
	generation uint64
}

// New returns an Empty draft.
func New() *Draft { return &Draft{} }

func (d *Draft) State() State { return d.state }
func (d *Draft) EventID() string { return d.eventID }
func (d *Draft) Contact() model.Contact { return d.contact }
func (d *Draft) AcceptTerms() bool { return d.acceptTerms }
func (d *Draft) PromoCode() *string { return d.promoCode }
func (d *Draft) PaymentMethod() *string { return d.paymentMethod }
func (d *Draft) BookingID() string { return d.bookingID }

// SelectedSeats returns a copy of the selection in selection order.
func (d *Draft) SelectedSeats() []model.Seat {
	return append([]model.Seat(nil), d.seats...)
}

// TotalPriceCents is the sum of the selected seat prices.
func (d *Draft) TotalPriceCents() int64 {
	return sumPrices(d.seats)
}

func sumPrices(seats []model.Seat) int64 {
	var total int64
	for _, s := range seats {
		total += s.PriceCents
	}
	return total
}

// SetEvent targets the draft at eventID.  Switching to a different event
// resets every field and clears a previous booking id.  Re-entering with the
// same event keeps in-progress edits, so moving back and forth through the
// wizard loses nothing.  An empty id returns the draft to Empty.
func (d *Draft) SetEvent(eventID string) {
	if eventID == d.eventID && d.state != Empty {
		return
	}
	gen := d.generation + 1
	*d = Draft{eventID: eventID, generation: gen}
	if eventID != "" {
		d.state = Editing
	}
}

func (d *Draft) editable() error {
	switch d.state {
	case Empty:
		return ErrNoEvent
	case Editing:
		return nil
	}
	return ErrDraftLocked
}

func (d *Draft) indexOf(row, col int) int {
	for i, s := range d.seats {
		if s.Row == row && s.Column == col {
			return i
		}
	}
	return -1
}

// SelectSeat appends seat to the selection.  Selecting a seat that is
// already selected is a no-op.  A selection that would exceed the seats the
// view reports available fails with *CapacityError, and a seat the view
// reports booked fails with ErrSeatBooked; neither changes the draft.
func (d *Draft) SelectSeat(seat model.Seat, view availability.View) error {
	if err := d.editable(); err != nil {
		return err
	}
	if d.indexOf(seat.Row, seat.Column) >= 0 {
		return nil
	}
	if len(d.seats)+1 > view.AvailableSeats {
		return &CapacityError{Available: view.AvailableSeats, Requested: len(d.seats) + 1}
	}
	if availability.IsBooked(seat.Row, seat.Column, view.BookedSeats) {
		return ErrSeatBooked
	}
	d.seats = append(d.seats, seat)
	return nil
}

// DeselectSeat removes the seat with the "{row}-{column}" key.  Unknown keys
// are ignored.
func (d *Draft) DeselectSeat(key string) error {
	if err := d.editable(); err != nil {
		return err
	}
	for i, s := range d.seats {
		if s.Key() == key {
			d.seats = append(d.seats[:i], d.seats[i+1:]...)
			return nil
		}
	}
	return nil
}

// Reconcile evicts selected seats that view reports as booked by someone
// else and returns them.  Call it with every freshly computed view.
func (d *Draft) Reconcile(view availability.View) []model.Seat {
	if d.state != Editing {
		return nil
	}
	var evicted []model.Seat
	kept := d.seats[:0]
	for _, s := range d.seats {
		if view.BookedSeats.Has(s.Label()) {
			evicted = append(evicted, s)
			continue
		}
		kept = append(kept, s)
	}
	d.seats = kept
	return evicted
}

// SetContact replaces the attendee fields.
func (d *Draft) SetContact(c model.Contact) error {
	if err := d.editable(); err != nil {
		return err
	}
	d.contact = c
	return nil
}

// SetAcceptTerms records whether the terms were accepted.
func (d *Draft) SetAcceptTerms(v bool) error {
	if err := d.editable(); err != nil {
		return err
	}
	d.acceptTerms = v
	return nil
}

// SetPromoCode sets or clears (nil) the promo code.
func (d *Draft) SetPromoCode(code *string) error {
	if err := d.editable(); err != nil {
		return err
	}
	d.promoCode = code
	return nil
}

// SetPaymentMethod sets or clears (nil) the payment method reference.
func (d *Draft) SetPaymentMethod(ref *string) error {
	if err := d.editable(); err != nil {
		return err
	}
	d.paymentMethod = ref
	return nil
}

// RequiredContactFields lists the contact fields that must be non-blank.
var RequiredContactFields = []string{"first_name", "last_name", "email", "phone"}

func contactField(c model.Contact, name string) string {
	switch name {
	case "first_name":
		return c.FirstName
	case "last_name":
		return c.LastName
	case "gender":
		return c.Gender
	case "birth_date":
		return c.BirthDate
	case "email":
		return c.Email
	case "phone":
		return c.Phone
	case "country":
		return c.Country
	}
	return ""
}

// Validate checks the draft is ready to submit.  The first failing rule is
// reported as a *ValidationError.
func (d *Draft) Validate() error {
	if d.state == Empty {
		return ErrNoEvent
	}
	if len(d.seats) == 0 {
		return &ValidationError{Field: "selected_seats", Message: "select at least one seat"}
	}
	if !d.acceptTerms {
		return &ValidationError{Field: "accept_terms", Message: "you must accept the terms and conditions"}
	}
	for _, f := range RequiredContactFields {
		if strings.TrimSpace(contactField(d.contact, f)) == "" {
			return &ValidationError{Field: f, Message: "is required"}
		}
	}
	return nil
}
