package layout // layout holds the in-memory seating model mutated by editor commands

// Canvas dimensions in layout units. Table positions are always clamped to
// this rectangle, both on drag moves and on explicit position updates.
const (
	CanvasWidth  = 2000.0
	CanvasHeight = 1200.0
)

// Seat count bounds per table. AddSeat and RemoveSeat silently refuse to
// cross them.
const (
	MinSeats     = 1
	MaxSeats     = 14
	DefaultSeats = 10
)

// Seat is a single guest slot on a table. Angle positions the seat around
// the table circle; the guest fields are empty when the seat is free.
type Seat struct {
	Angle float64 `json:"angle"`
	Guest string  `json:"guest,omitempty"`
	Tag   string  `json:"tag,omitempty"`
	Note  string  `json:"note,omitempty"`
}

// Occupied reports whether a guest is assigned to the seat.
func (s *Seat) Occupied() bool { return s.Guest != "" }

// Table is a seating unit on the canvas. Number is the stable display key
// used by the persistence layer; ID is the backing-store row id and stays
// zero until the table has been saved once.
type Table struct {
	ID     uint64  `json:"id"`
	Number int     `json:"number"`
	Label  string  `json:"label"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Seats  []Seat  `json:"seats"`
}

// Redistribute spaces all seat angles evenly: seat i of n sits at 360*i/n.
// Guest assignments stay with their seat index.
func (t *Table) Redistribute() {
	n := len(t.Seats)
	if n == 0 {
		return
	}
	for i := range t.Seats {
		t.Seats[i].Angle = 360 * float64(i) / float64(n)
	}
}

// AddSeat appends one seat and redistributes angles. At MaxSeats it is a
// no-op and returns false.
func (t *Table) AddSeat() bool {
	if len(t.Seats) >= MaxSeats {
		return false
	}
	t.Seats = append(t.Seats, Seat{})
	t.Redistribute()
	return true
}

// RemoveSeat drops the last seat and redistributes angles. At MinSeats it
// is a no-op and returns false.
func (t *Table) RemoveSeat() bool {
	if len(t.Seats) <= MinSeats {
		return false
	}
	t.Seats = t.Seats[:len(t.Seats)-1]
	t.Redistribute()
	return true
}

// SetPosition moves the table, clamping the target point to canvas bounds.
func (t *Table) SetPosition(x, y float64) {
	t.X = clamp(x, 0, CanvasWidth)
	t.Y = clamp(y, 0, CanvasHeight)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// newSeats builds n evenly distributed empty seats.
func newSeats(n int) []Seat {
	if n < MinSeats {
		n = MinSeats
	}
	if n > MaxSeats {
		n = MaxSeats
	}
	seats := make([]Seat, n)
	for i := range seats {
		seats[i].Angle = 360 * float64(i) / float64(n)
	}
	return seats
}
