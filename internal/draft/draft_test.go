package draft

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/event-seat-booking/internal/availability"
	"github.com/iliyamo/event-seat-booking/internal/model"
	"github.com/iliyamo/event-seat-booking/internal/seatmap"
)

func openView(capacity int, booked ...string) availability.View {
	return availability.Compute(availability.NewLabels(booked...), capacity)
}

func fallbackSeat(row, col int) model.Seat {
	return seatmap.SeatAt(row, col, seatmap.PricingContext{})
}

func validContact() model.Contact {
	return model.Contact{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Phone: "+44 20 0000"}
}

func TestSetEventResetLaw(t *testing.T) {
	d := New()
	assert.Equal(t, Empty, d.State())

	d.SetEvent("A")
	require.NoError(t, d.SelectSeat(fallbackSeat(0, 0), openView(63)))
	require.NoError(t, d.SetContact(validContact()))
	require.NoError(t, d.SetAcceptTerms(true))
	code := "SPRING"
	require.NoError(t, d.SetPromoCode(&code))

	d.SetEvent("A")
	assert.Equal(t, Editing, d.State())
	assert.Len(t, d.SelectedSeats(), 1)
	assert.Equal(t, "Ada", d.Contact().FirstName)
	assert.True(t, d.AcceptTerms())
	require.NotNil(t, d.PromoCode())

	d.SetEvent("B")
	assert.Equal(t, Editing, d.State())
	assert.Equal(t, "B", d.EventID())
	assert.Empty(t, d.SelectedSeats())
	assert.Equal(t, model.Contact{}, d.Contact())
	assert.False(t, d.AcceptTerms())
	assert.Nil(t, d.PromoCode())
	assert.Nil(t, d.PaymentMethod())
	assert.Equal(t, int64(0), d.TotalPriceCents())
}

func TestSetEventClearsBookingID(t *testing.T) {
	d := New()
	d.SetEvent("A")
	require.NoError(t, d.SelectSeat(fallbackSeat(0, 0), openView(63)))
	require.NoError(t, d.SetContact(validContact()))
	require.NoError(t, d.SetAcceptTerms(true))
	a, err := d.BeginSubmit()
	require.NoError(t, err)
	require.NoError(t, d.Complete(a, "bk-1"))
	assert.Equal(t, Submitted, d.State())
	assert.Equal(t, "bk-1", d.BookingID())

	d.SetEvent("A")
	assert.Equal(t, "bk-1", d.BookingID())

	d.SetEvent("B")
	assert.Equal(t, "", d.BookingID())
	assert.Equal(t, Editing, d.State())
}

func TestMutationsRequireEvent(t *testing.T) {
	d := New()
	assert.ErrorIs(t, d.SelectSeat(fallbackSeat(0, 0), openView(63)), ErrNoEvent)
	assert.ErrorIs(t, d.SetAcceptTerms(true), ErrNoEvent)
	_, err := d.BeginSubmit()
	assert.ErrorIs(t, err, ErrNoEvent)
}

func TestSelectSeatIsIdempotent(t *testing.T) {
	d := New()
	d.SetEvent("A")
	s := fallbackSeat(1, 3)
	require.NoError(t, d.SelectSeat(s, openView(63)))
	once := d.SelectedSeats()
	require.NoError(t, d.SelectSeat(s, openView(63)))
	assert.Equal(t, once, d.SelectedSeats())
}

func TestSelectSeatKeepsSelectionOrder(t *testing.T) {
	d := New()
	d.SetEvent("A")
	v := openView(63)
	for _, pos := range [][2]int{{2, 2}, {0, 1}, {1, 0}} {
		require.NoError(t, d.SelectSeat(fallbackSeat(pos[0], pos[1]), v))
	}
	var labels []string
	for _, s := range d.SelectedSeats() {
		labels = append(labels, s.Label())
	}
	assert.Equal(t, []string{"C3", "A2", "B1"}, labels)
}

func TestSelectBookedSeatIsRejected(t *testing.T) {
	d := New()
	d.SetEvent("A")
	err := d.SelectSeat(fallbackSeat(0, 0), openView(63, "A1"))
	assert.ErrorIs(t, err, ErrSeatBooked)
	assert.Empty(t, d.SelectedSeats())
}

func TestSelectSeatCapacity(t *testing.T) {
	d := New()
	d.SetEvent("A")
	v := openView(2)
	require.NoError(t, d.SelectSeat(fallbackSeat(0, 0), v))
	require.NoError(t, d.SelectSeat(fallbackSeat(0, 1), v))

	err := d.SelectSeat(fallbackSeat(0, 2), v)
	var capErr *CapacityError
	require.ErrorAs(t, err, &capErr)
	assert.Equal(t, 2, capErr.Available)
	assert.Len(t, d.SelectedSeats(), 2)

	// re-selecting an already selected seat at capacity is still a no-op
	assert.NoError(t, d.SelectSeat(fallbackSeat(0, 1), v))
}

func TestFullyBookedEventRejectsEverySeat(t *testing.T) {
	capacity := 9
	g := seatmap.CapacityToGrid(&capacity)
	var booked []string
	for c := 0; c < g.Cols; c++ {
		booked = append(booked, seatmap.SeatLabel(0, c))
	}
	v := openView(capacity, booked...)
	require.Equal(t, 0, v.AvailableSeats)
	require.True(t, v.IsFullyBooked)

	d := New()
	d.SetEvent("nine")
	for r := 0; r < g.Rows; r++ {
		for c := 0; c < g.Cols; c++ {
			var capErr *CapacityError
			assert.ErrorAs(t, d.SelectSeat(fallbackSeat(r, c), v), &capErr)
		}
	}
	assert.Empty(t, d.SelectedSeats())
}

func TestDeselectSeat(t *testing.T) {
	d := New()
	d.SetEvent("A")
	v := openView(63)
	require.NoError(t, d.SelectSeat(fallbackSeat(0, 0), v))
	require.NoError(t, d.SelectSeat(fallbackSeat(3, 4), v))

	require.NoError(t, d.DeselectSeat("3-4"))
	require.NoError(t, d.DeselectSeat("5-5"))
	assert.Len(t, d.SelectedSeats(), 1)
	assert.Equal(t, fallbackSeat(0, 0).PriceCents, d.TotalPriceCents())
}

func TestReconcileEvictsSeatsBookedElsewhere(t *testing.T) {
	d := New()
	d.SetEvent("A")
	v := openView(63)
	require.NoError(t, d.SelectSeat(fallbackSeat(0, 0), v))
	require.NoError(t, d.SelectSeat(fallbackSeat(0, 1), v))

	evicted := d.Reconcile(openView(63, "A2"))
	require.Len(t, evicted, 1)
	assert.Equal(t, "A2", evicted[0].Label())
	require.Len(t, d.SelectedSeats(), 1)
	assert.Equal(t, "A1", d.SelectedSeats()[0].Label())
}

func TestValidate(t *testing.T) {
	d := New()
	d.SetEvent("A")

	var vErr *ValidationError
	require.ErrorAs(t, d.Validate(), &vErr)
	assert.Equal(t, "selected_seats", vErr.Field)
	assert.Equal(t, "select at least one seat", vErr.Message)

	require.NoError(t, d.SelectSeat(fallbackSeat(0, 0), openView(63)))
	require.ErrorAs(t, d.Validate(), &vErr)
	assert.Equal(t, "accept_terms", vErr.Field)

	require.NoError(t, d.SetAcceptTerms(true))
	c := validContact()
	c.Email = "   "
	require.NoError(t, d.SetContact(c))
	require.ErrorAs(t, d.Validate(), &vErr)
	assert.Equal(t, "email", vErr.Field)

	require.NoError(t, d.SetContact(validContact()))
	assert.NoError(t, d.Validate())
}

func TestSubmitLifecycle(t *testing.T) {
	d := New()
	d.SetEvent("A")
	require.NoError(t, d.SelectSeat(fallbackSeat(0, 0), openView(63)))
	require.NoError(t, d.SetContact(validContact()))
	require.NoError(t, d.SetAcceptTerms(true))

	a, err := d.BeginSubmit()
	require.NoError(t, err)
	assert.Equal(t, Submitting, d.State())
	assert.Equal(t, int64(1999), a.TotalPriceCents)
	assert.ErrorIs(t, d.SelectSeat(fallbackSeat(1, 1), openView(63)), ErrDraftLocked)
	_, err = d.BeginSubmit()
	assert.ErrorIs(t, err, ErrDraftLocked)

	require.NoError(t, d.Fail(a))
	assert.Equal(t, Editing, d.State())
	assert.Len(t, d.SelectedSeats(), 1)
	assert.True(t, d.AcceptTerms())

	a, err = d.BeginSubmit()
	require.NoError(t, err)
	require.NoError(t, d.Complete(a, "bk-9"))
	assert.Equal(t, Submitted, d.State())
	assert.ErrorIs(t, d.SetAcceptTerms(false), ErrDraftLocked)
}

func TestStaleAttemptIsDropped(t *testing.T) {
	d := New()
	d.SetEvent("A")
	require.NoError(t, d.SelectSeat(fallbackSeat(0, 0), openView(63)))
	require.NoError(t, d.SetContact(validContact()))
	require.NoError(t, d.SetAcceptTerms(true))
	a, err := d.BeginSubmit()
	require.NoError(t, err)

	d.SetEvent("B")
	assert.ErrorIs(t, d.Complete(a, "bk-1"), ErrStaleAttempt)
	assert.ErrorIs(t, d.Fail(a), ErrStaleAttempt)
	assert.Equal(t, "", d.BookingID())
	assert.Equal(t, Editing, d.State())
}

type op struct {
	deselect bool
	row, col int
}

func genOp() gopter.Gen {
	return gopter.CombineGens(gen.Bool(), gen.IntRange(0, 6), gen.IntRange(0, 8)).
		Map(func(v []interface{}) op {
			return op{deselect: v[0].(bool), row: v[1].(int), col: v[2].(int)}
		})
}

func TestSelectionProperties(t *testing.T) {
	properties := gopter.NewProperties(gopter.DefaultTestParameters())
	booked := []string{"A1", "B5", "D9", "G3"}
	ticket := int64(4200)
	contexts := []seatmap.PricingContext{
		{},
		{Type: model.ItemEvent, TicketPriceCents: &ticket},
		{Type: model.ItemMeetup},
	}

	properties.Property("total equals sum of selected prices and booked seats are never selected", prop.ForAll(
		func(ops []op, ctxIdx int) bool {
			pc := contexts[ctxIdx]
			v := openView(30, booked...)
			d := New()
			d.SetEvent("evt")
			for _, o := range ops {
				if o.deselect {
					_ = d.DeselectSeat(model.SeatKey(o.row, o.col))
				} else {
					_ = d.SelectSeat(seatmap.SeatAt(o.row, o.col, pc), v)
				}
				var sum int64
				seen := map[string]bool{}
				for _, s := range d.SelectedSeats() {
					if v.BookedSeats.Has(s.Label()) || seen[s.Key()] {
						return false
					}
					seen[s.Key()] = true
					sum += s.PriceCents
				}
				if sum != d.TotalPriceCents() || len(seen) > v.AvailableSeats {
					return false
				}
			}
			return true
		},
		gen.SliceOf(genOp()),
		gen.IntRange(0, len(contexts)-1),
	))

	properties.Property("selecting twice equals selecting once", prop.ForAll(
		func(row, col int) bool {
			once, twice := New(), New()
			once.SetEvent("evt")
			twice.SetEvent("evt")
			s := fallbackSeat(row, col)
			v := openView(63)
			_ = once.SelectSeat(s, v)
			_ = twice.SelectSeat(s, v)
			_ = twice.SelectSeat(s, v)
			a, b := once.SelectedSeats(), twice.SelectedSeats()
			return len(a) == len(b) && len(a) == 1 && a[0] == b[0]
		},
		gen.IntRange(0, 6),
		gen.IntRange(0, 8),
	))

	properties.TestingRun(t)
}
