package layout

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"strconv"
)

// ErrInvalidDocument is returned when an imported layout document cannot be
// parsed. The caller's current state must stay untouched in that case.
var ErrInvalidDocument = errors.New("invalid layout document")

// ExportJSON serializes the full table collection into the layout document
// format used for download/backup. The document round-trips through
// ImportJSON field for field.
func (l *Layout) ExportJSON() ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// ImportJSON parses a layout document into a fresh Layout. There is no
// version or schema check beyond parse-failure detection; positions are
// re-clamped and tables without seats get the minimum seat count so the
// model invariants hold even for hand-edited documents.
func ImportJSON(data []byte) (*Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return nil, ErrInvalidDocument
	}
	if l.Tables == nil {
		return nil, ErrInvalidDocument
	}
	for _, t := range l.Tables {
		if len(t.Seats) < MinSeats {
			t.Seats = newSeats(MinSeats)
		}
		if len(t.Seats) > MaxSeats {
			t.Seats = t.Seats[:MaxSeats]
			t.Redistribute()
		}
		t.SetPosition(t.X, t.Y)
	}
	return &l, nil
}

// seatingListHeader is the fixed header of the printable seating list.
var seatingListHeader = []string{"Table Number", "Table Label", "Seat Number", "Guest Name", "Tag", "Note"}

// ExportCSV flattens all occupied seats into a delimited seating list, one
// row per assigned guest. Seat numbers are 1-based.
func (l *Layout) ExportCSV() ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(seatingListHeader); err != nil {
		return nil, err
	}
	for _, t := range l.Tables {
		for i := range t.Seats {
			s := &t.Seats[i]
			if !s.Occupied() {
				continue
			}
			rec := []string{
				strconv.Itoa(t.Number),
				t.Label,
				strconv.Itoa(i + 1),
				s.Guest,
				s.Tag,
				s.Note,
			}
			if err := w.Write(rec); err != nil {
				return nil, err
			}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
