package layout

import "math"

// SeatRadius is the distance in canvas units from a table's center to the
// center of each of its seats when drawn.
const SeatRadius = 56.0

// SeatPosition projects a seat's stored angle onto canvas coordinates at a
// fixed radius around the table center. Angles are degrees measured
// counter-clockwise from the positive x axis.
func SeatPosition(cx, cy, angleDeg, radius float64) (x, y float64) {
	rad := angleDeg * math.Pi / 180
	return cx + radius*math.Cos(rad), cy + radius*math.Sin(rad)
}
