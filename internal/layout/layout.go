package layout

import (
	"math/rand"
	"strings"
)

// Layout is the full in-memory table collection. It is a plain value type;
// serialization of concurrent access is the editor session's job.
type Layout struct {
	Tables []*Table `json:"tables"`
}

// DefaultTableCount is the size of the canonical seed arrangement.
const DefaultTableCount = 12

// defaultColumns controls how the canonical arrangement wraps into rows.
const defaultColumns = 4

// DefaultLayout builds the canonical fixed arrangement: DefaultTableCount
// tables of DefaultSeats seats laid out in rows of defaultColumns, centered
// on the canvas. Used to seed an empty backing store and by reset.
func DefaultLayout() *Layout {
	const (
		spacingX = 320.0
		spacingY = 320.0
	)
	rows := (DefaultTableCount + defaultColumns - 1) / defaultColumns
	originX := (CanvasWidth - spacingX*float64(defaultColumns-1)) / 2
	originY := (CanvasHeight - spacingY*float64(rows-1)) / 2

	l := &Layout{}
	for i := 0; i < DefaultTableCount; i++ {
		col := i % defaultColumns
		row := i / defaultColumns
		t := &Table{
			Number: i + 1,
			X:      originX + spacingX*float64(col),
			Y:      originY + spacingY*float64(row),
			Seats:  newSeats(DefaultSeats),
		}
		t.SetPosition(t.X, t.Y)
		l.Tables = append(l.Tables, t)
	}
	return l
}

// Table returns the table with the given display number.
func (l *Layout) Table(number int) (*Table, bool) {
	for _, t := range l.Tables {
		if t.Number == number {
			return t, true
		}
	}
	return nil, false
}

// NextNumber returns the lowest display number not yet in use.
func (l *Layout) NextNumber() int {
	used := make(map[int]bool, len(l.Tables))
	for _, t := range l.Tables {
		used[t.Number] = true
	}
	n := 1
	for used[n] {
		n++
	}
	return n
}

// AddTable appends a table with the next unused number, the default seat
// count and a randomized in-bounds position away from the canvas edges.
func (l *Layout) AddTable() *Table {
	t := &Table{
		Number: l.NextNumber(),
		Seats:  newSeats(DefaultSeats),
	}
	// keep a margin so a fresh table never spawns half off-canvas
	const margin = 160.0
	t.SetPosition(
		margin+rand.Float64()*(CanvasWidth-2*margin),
		margin+rand.Float64()*(CanvasHeight-2*margin),
	)
	l.Tables = append(l.Tables, t)
	return t
}

// DeleteTable removes the table with the given number. Returns false when
// no such table exists.
func (l *Layout) DeleteTable(number int) bool {
	for i, t := range l.Tables {
		if t.Number == number {
			l.Tables = append(l.Tables[:i], l.Tables[i+1:]...)
			return true
		}
	}
	return false
}

// FindGuest returns the first table holding a seat whose guest name
// contains query, case-insensitively. Iteration order is table order; no
// further ranking among multiple matches.
func (l *Layout) FindGuest(query string) (*Table, bool) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil, false
	}
	for _, t := range l.Tables {
		for i := range t.Seats {
			if t.Seats[i].Occupied() && strings.Contains(strings.ToLower(t.Seats[i].Guest), q) {
				return t, true
			}
		}
	}
	return nil, false
}

// Assignment locates a guest's exact-name seat assignment across all
// tables. Matching is string equality against the guest directory snapshot,
// not a foreign key.
func (l *Layout) Assignment(guestName string) (tableNumber, seatIndex int, ok bool) {
	for _, t := range l.Tables {
		for i := range t.Seats {
			if t.Seats[i].Guest == guestName {
				return t.Number, i, true
			}
		}
	}
	return 0, 0, false
}

// Clone returns a deep copy of the layout. The editor hands copies to
// callers so persistence and rendering never alias live state.
func (l *Layout) Clone() *Layout {
	out := &Layout{Tables: make([]*Table, 0, len(l.Tables))}
	for _, t := range l.Tables {
		out.Tables = append(out.Tables, t.Clone())
	}
	return out
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	cp := *t
	cp.Seats = make([]Seat, len(t.Seats))
	copy(cp.Seats, t.Seats)
	return &cp
}
