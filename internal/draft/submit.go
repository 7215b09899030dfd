package draft

import "github.com/iliyamo/event-seat-booking/internal/model"

// Attempt is the frozen content of one submission.  It is handed to
// Complete or Fail once the write has finished.
type Attempt struct {
	generation uint64

	EventID         string
	Contact         model.Contact
	Seats           []model.Seat
	TotalPriceCents int64
	PromoCode       *string
	PaymentMethod   *string
}

// BeginSubmit validates the draft and moves it to Submitting.  While
// submitting, every mutation fails with ErrDraftLocked.
func (d *Draft) BeginSubmit() (Attempt, error) {
	if d.state != Editing {
		if d.state == Empty {
			return Attempt{}, ErrNoEvent
		}
		return Attempt{}, ErrDraftLocked
	}
	if err := d.Validate(); err != nil {
		return Attempt{}, err
	}
	d.state = Submitting
	seats := d.SelectedSeats()
	return Attempt{
		generation:      d.generation,
		EventID:         d.eventID,
		Contact:         d.contact,
		Seats:           seats,
		TotalPriceCents: sumPrices(seats),
		PromoCode:       d.promoCode,
		PaymentMethod:   d.paymentMethod,
	}, nil
}

func (d *Draft) current(a Attempt) bool {
	return d.state == Submitting && a.generation == d.generation
}

// Complete records a successful submission.  A result for a draft that was
// reset in the meantime is dropped with ErrStaleAttempt.
func (d *Draft) Complete(a Attempt, bookingID string) error {
	if !d.current(a) {
		return ErrStaleAttempt
	}
	d.state = Submitted
	d.bookingID = bookingID
	return nil
}

// Fail returns the draft to Editing with every field kept for a retry.
func (d *Draft) Fail(a Attempt) error {
	if !d.current(a) {
		return ErrStaleAttempt
	}
	d.state = Editing
	return nil
}
