package seatmap

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/event-seat-booking/internal/model"
)

func intp(v int) *int       { return &v }
func cents(v int64) *int64 { return &v }

func TestCapacityToGrid(t *testing.T) {
	tests := []struct {
		name     string
		capacity *int
		rows     int
	}{
		{"nil defaults to 63", nil, 7},
		{"exactly one row", intp(9), 1},
		{"partial row rounds up", intp(10), 2},
		{"twenty", intp(20), 3},
		{"sixty three", intp(63), 7},
		{"capped", intp(500), 7},
		{"zero", intp(0), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := CapacityToGrid(tt.capacity)
			assert.Equal(t, tt.rows, g.Rows)
			assert.Equal(t, Cols, g.Cols)
		})
	}
}

func TestCapacityToGridProperty(t *testing.T) {
	properties := gopter.NewProperties(gopter.DefaultTestParameters())

	properties.Property("rows == min(7, ceil(capacity/9))", prop.ForAll(
		func(capacity int) bool {
			g := CapacityToGrid(&capacity)
			want := (capacity + 8) / 9
			if want > 7 {
				want = 7
			}
			return g.Rows <= MaxRows && g.Rows == want && g.Cols == 9
		},
		gen.IntRange(1, 100000),
	))

	properties.TestingRun(t)
}

func TestSeatLabel(t *testing.T) {
	assert.Equal(t, "A1", SeatLabel(0, 0))
	assert.Equal(t, "B9", SeatLabel(1, 8))
	assert.Equal(t, "G5", SeatLabel(6, 4))
}

func TestSeatLabelRoundTripProperty(t *testing.T) {
	properties := gopter.NewProperties(gopter.DefaultTestParameters())

	properties.Property("ParseLabel(SeatLabel(r, c)) == (r, c)", prop.ForAll(
		func(r, c int) bool {
			pr, pc, ok := ParseLabel(SeatLabel(r, c))
			return ok && pr == r && pc == c
		},
		gen.IntRange(0, 1000),
		gen.IntRange(0, 1000),
	))

	properties.Property("labels are injective", prop.ForAll(
		func(r1, c1, r2, c2 int) bool {
			if r1 == r2 && c1 == c2 {
				return true
			}
			return SeatLabel(r1, c1) != SeatLabel(r2, c2)
		},
		gen.IntRange(0, 50),
		gen.IntRange(0, 50),
		gen.IntRange(0, 50),
		gen.IntRange(0, 50),
	))

	properties.TestingRun(t)
}

func TestSeatLabelInjectiveOverGrid(t *testing.T) {
	g := CapacityToGrid(nil)
	seen := make(map[string]bool, g.Size())
	for r := 0; r < g.Rows; r++ {
		for c := 0; c < g.Cols; c++ {
			l := SeatLabel(r, c)
			assert.False(t, seen[l], "duplicate label %s", l)
			seen[l] = true
		}
	}
	assert.Len(t, seen, 63)
}

func TestParseLabelRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "A", "1A", "A0", "A-1", "A01", "Ax", "@1"} {
		_, _, ok := ParseLabel(in)
		assert.False(t, ok, in)
	}
}

func TestPriceFor(t *testing.T) {
	for row := 0; row < 7; row++ {
		assert.Equal(t, int64(2500), PriceFor(row, model.ItemEvent, cents(2500)), "flat event row %d", row)
		assert.Equal(t, int64(0), PriceFor(row, model.ItemMeetup, cents(2500)), "meetup row %d", row)
	}
	assert.Equal(t, int64(1999), PriceFor(0, "", nil))
	assert.Equal(t, int64(1299), PriceFor(1, "", nil))
	assert.Equal(t, int64(1299), PriceFor(2, "", nil))
	assert.Equal(t, int64(1099), PriceFor(5, "", nil))
}

func TestPriceForEventWithoutPriceFallsBack(t *testing.T) {
	assert.Equal(t, int64(1999), PriceFor(0, model.ItemEvent, nil))
	assert.Equal(t, int64(1099), PriceFor(3, model.ItemEvent, cents(0)))
	assert.Equal(t, int64(1299), PriceFor(2, model.ItemEvent, cents(-5)))
}

func TestTierFor(t *testing.T) {
	assert.Equal(t, model.TierVIP, TierFor(0))
	assert.Equal(t, model.TierStandard, TierFor(1))
	assert.Equal(t, model.TierStandard, TierFor(6))
}

func TestLayout(t *testing.T) {
	g := CapacityToGrid(intp(20))
	rows := Layout(g, ContextFor(&model.Item{Type: model.ItemEvent, TicketPriceCents: cents(5000)}))
	assert.Len(t, rows, 3)
	for _, row := range rows {
		assert.Len(t, row, 9)
	}
	assert.Equal(t, "A1", rows[0][0].Label())
	assert.Equal(t, model.TierVIP, rows[0][0].Type)
	assert.Equal(t, int64(5000), rows[2][8].PriceCents)
}

func TestStateOf(t *testing.T) {
	assert.Equal(t, StateAvailable, StateOf(false, false))
	assert.Equal(t, StateSelectedLocal, StateOf(false, true))
	assert.Equal(t, StateBooked, StateOf(true, false))
	assert.Equal(t, StateBooked, StateOf(true, true))
}
