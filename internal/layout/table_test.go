package layout

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

func tableWithSeats(n int) *Table {
	return &Table{Number: 1, Seats: newSeats(n)}
}

func TestRedistributeAfterAnyCountChange(t *testing.T) {
	for from := MinSeats; from <= MaxSeats; from++ {
		for to := MinSeats; to <= MaxSeats; to++ {
			tb := tableWithSeats(from)
			for len(tb.Seats) < to {
				tb.AddSeat()
			}
			for len(tb.Seats) > to {
				tb.RemoveSeat()
			}
			if len(tb.Seats) != to {
				t.Fatalf("from=%d to=%d: got %d seats", from, to, len(tb.Seats))
			}
			for i, s := range tb.Seats {
				want := 360 * float64(i) / float64(to)
				if !almostEqual(s.Angle, want) {
					t.Fatalf("from=%d to=%d seat %d: angle=%v want %v", from, to, i, s.Angle, want)
				}
			}
		}
	}
}

func TestAddSeatAtMaxIsNoop(t *testing.T) {
	tb := tableWithSeats(MaxSeats)
	if tb.AddSeat() {
		t.Fatal("AddSeat at max should report false")
	}
	if len(tb.Seats) != MaxSeats {
		t.Fatalf("seat count changed: %d", len(tb.Seats))
	}
}

func TestRemoveSeatAtMinIsNoop(t *testing.T) {
	tb := tableWithSeats(MinSeats)
	if tb.RemoveSeat() {
		t.Fatal("RemoveSeat at min should report false")
	}
	if len(tb.Seats) != MinSeats {
		t.Fatalf("seat count changed: %d", len(tb.Seats))
	}
}

// The walkthrough from the editor: 10 seats, add one, then remove two.
func TestSeatCountWalkthrough(t *testing.T) {
	tb := tableWithSeats(10)
	for i, s := range tb.Seats {
		if !almostEqual(s.Angle, float64(36*i)) {
			t.Fatalf("seat %d: angle=%v want %v", i, s.Angle, 36*i)
		}
	}

	tb.AddSeat()
	if len(tb.Seats) != 11 {
		t.Fatalf("got %d seats after add", len(tb.Seats))
	}
	if !almostEqual(tb.Seats[1].Angle, 360.0/11) {
		t.Fatalf("seat 1 after add: angle=%v want %v", tb.Seats[1].Angle, 360.0/11)
	}
	if !almostEqual(tb.Seats[2].Angle, 720.0/11) {
		t.Fatalf("seat 2 after add: angle=%v want %v", tb.Seats[2].Angle, 720.0/11)
	}

	tb.RemoveSeat()
	tb.RemoveSeat()
	if len(tb.Seats) != 9 {
		t.Fatalf("got %d seats after removes", len(tb.Seats))
	}
	for i, s := range tb.Seats {
		if !almostEqual(s.Angle, float64(40*i)) {
			t.Fatalf("seat %d after removes: angle=%v want %v", i, s.Angle, 40*i)
		}
	}
}

func TestRemoveSeatDropsLastAndKeepsGuests(t *testing.T) {
	tb := tableWithSeats(3)
	tb.Seats[0].Guest = "Ada"
	tb.Seats[2].Guest = "Grace"
	tb.RemoveSeat()
	if len(tb.Seats) != 2 {
		t.Fatalf("got %d seats", len(tb.Seats))
	}
	if tb.Seats[0].Guest != "Ada" {
		t.Fatalf("seat 0 guest = %q", tb.Seats[0].Guest)
	}
	// the dropped seat's guest goes with it
	for _, s := range tb.Seats {
		if s.Guest == "Grace" {
			t.Fatal("guest on removed seat should be gone")
		}
	}
}

func TestSetPositionClampsToCanvas(t *testing.T) {
	cases := []struct{ x, y, wantX, wantY float64 }{
		{-50, 600, 0, 600},
		{CanvasWidth + 500, -1, CanvasWidth, 0},
		{300, CanvasHeight + 0.5, 300, CanvasHeight},
		{120.5, 340.25, 120.5, 340.25}, // in-bounds moves are exact
	}
	for _, c := range cases {
		tb := tableWithSeats(4)
		tb.SetPosition(c.x, c.y)
		if tb.X != c.wantX || tb.Y != c.wantY {
			t.Fatalf("SetPosition(%v,%v) = (%v,%v), want (%v,%v)", c.x, c.y, tb.X, tb.Y, c.wantX, c.wantY)
		}
	}
}

func TestSeatPosition(t *testing.T) {
	x, y := SeatPosition(100, 200, 0, 50)
	if !almostEqual(x, 150) || !almostEqual(y, 200) {
		t.Fatalf("angle 0: got (%v,%v)", x, y)
	}
	x, y = SeatPosition(100, 200, 90, 50)
	if !almostEqual(x, 100) || !almostEqual(y, 250) {
		t.Fatalf("angle 90: got (%v,%v)", x, y)
	}
	x, y = SeatPosition(100, 200, 180, 50)
	if !almostEqual(x, 50) || !almostEqual(y, 200) {
		t.Fatalf("angle 180: got (%v,%v)", x, y)
	}
}
