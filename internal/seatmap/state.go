package seatmap

// State is the occupancy of a seat position as seen by one editing session.
type State string

const (
	StateAvailable     State = "available"
	StateSelectedLocal State = "selected"
	StateBooked        State = "booked"
)

// StateOf derives the state of a position.  Booked wins over a local
// selection: a seat booked by someone else is never reported as selected.
func StateOf(booked, selected bool) State {
	switch {
	case booked:
		return StateBooked
	case selected:
		return StateSelectedLocal
	default:
		return StateAvailable
	}
}
