package repository // repository holds data access for the seating layout

import (
	"context"
	"database/sql"

	"github.com/iliyamo/event-seating/internal/layout"
)

// LayoutRepo persists the table/seat collection. Table rows are keyed by
// their unique display number; seat rows by (table_id, seat_index). It
// implements the editor's Store interface.
type LayoutRepo struct {
	db *sql.DB
}

// NewLayoutRepo constructs a LayoutRepo with the given DB handle.
func NewLayoutRepo(db *sql.DB) *LayoutRepo {
	return &LayoutRepo{db: db}
}

// DB exposes the underlying handle for transactional callers.
func (r *LayoutRepo) DB() *sql.DB { return r.db }

// LoadAll reads the whole persisted layout: tables ordered by number,
// seats joined by index. Seat angles come from stored values; when any
// angle is missing (or seat rows are short of seat_count) the table's
// angles are redistributed evenly.
func (r *LayoutRepo) LoadAll(ctx context.Context) ([]*layout.Table, error) {
	const qTables = `SELECT id, number, label, x, y, seat_count
	                 FROM layout_tables
	                 ORDER BY number`
	rows, err := r.db.QueryContext(ctx, qTables)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tables []*layout.Table
	byID := make(map[uint64]*layout.Table)
	counts := make(map[uint64]int)
	for rows.Next() {
		var (
			t         layout.Table
			label     sql.NullString
			seatCount int
		)
		if err := rows.Scan(&t.ID, &t.Number, &label, &t.X, &t.Y, &seatCount); err != nil {
			return nil, err
		}
		t.Label = label.String
		tab := &t
		tables = append(tables, tab)
		byID[t.ID] = tab
		counts[t.ID] = seatCount
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(tables) == 0 {
		return nil, nil
	}

	const qSeats = `SELECT table_id, seat_index, angle, guest_name, tag, note
	                FROM layout_seats
	                ORDER BY table_id, seat_index`
	seatRows, err := r.db.QueryContext(ctx, qSeats)
	if err != nil {
		return nil, err
	}
	defer seatRows.Close()

	missingAngle := make(map[uint64]bool)
	for seatRows.Next() {
		var (
			tableID uint64
			idx     int
			angle   sql.NullFloat64
			guest   sql.NullString
			tag     sql.NullString
			note    sql.NullString
		)
		if err := seatRows.Scan(&tableID, &idx, &angle, &guest, &tag, &note); err != nil {
			return nil, err
		}
		tab, ok := byID[tableID]
		if !ok {
			continue // orphan seat row, ignore
		}
		if len(tab.Seats) < idx {
			missingAngle[tableID] = true // gap in seat indexes
		}
		for len(tab.Seats) <= idx {
			tab.Seats = append(tab.Seats, layout.Seat{})
		}
		tab.Seats[idx] = layout.Seat{
			Angle: angle.Float64,
			Guest: guest.String,
			Tag:   tag.String,
			Note:  note.String,
		}
		if !angle.Valid {
			missingAngle[tableID] = true
		}
	}
	if err := seatRows.Err(); err != nil {
		return nil, err
	}

	for id, tab := range byID {
		if want := counts[id]; len(tab.Seats) < want {
			for len(tab.Seats) < want {
				tab.Seats = append(tab.Seats, layout.Seat{})
			}
			missingAngle[id] = true
		}
		if len(tab.Seats) == 0 {
			tab.Seats = append(tab.Seats, layout.Seat{})
			missingAngle[id] = true
		}
		if missingAngle[id] {
			tab.Redistribute()
		}
	}
	return tables, nil
}

// SaveTable upserts one table row by number and diffs its seat rows in a
// single transaction: existing indexes are updated in place, new indexes
// inserted, stale indexes past the seat count deleted. No full
// delete-and-rewrite, so concurrent saves of different tables cannot run
// over each other's rows.
func (r *LayoutRepo) SaveTable(ctx context.Context, t *layout.Table) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	// LAST_INSERT_ID(id) makes LastInsertId return the existing row id on
	// the update path as well.
	const qUpsert = `INSERT INTO layout_tables (number, label, x, y, seat_count)
	                 VALUES (?, ?, ?, ?, ?)
	                 ON DUPLICATE KEY UPDATE
	                   id = LAST_INSERT_ID(id),
	                   label = VALUES(label),
	                   x = VALUES(x),
	                   y = VALUES(y),
	                   seat_count = VALUES(seat_count),
	                   updated_at = CURRENT_TIMESTAMP`
	res, err := tx.ExecContext(ctx, qUpsert, t.Number, nullString(t.Label), t.X, t.Y, len(t.Seats))
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	tableID := uint64(id)

	const qSeat = `INSERT INTO layout_seats (table_id, seat_index, angle, guest_name, tag, note)
	               VALUES (?, ?, ?, ?, ?, ?)
	               ON DUPLICATE KEY UPDATE
	                 angle = VALUES(angle),
	                 guest_name = VALUES(guest_name),
	                 tag = VALUES(tag),
	                 note = VALUES(note)`
	for i := range t.Seats {
		s := &t.Seats[i]
		if _, err := tx.ExecContext(ctx, qSeat,
			tableID, i, s.Angle, nullString(s.Guest), nullString(s.Tag), nullString(s.Note)); err != nil {
			return err
		}
	}

	const qTrim = `DELETE FROM layout_seats WHERE table_id = ? AND seat_index >= ?`
	if _, err := tx.ExecContext(ctx, qTrim, tableID, len(t.Seats)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	t.ID = tableID
	return nil
}

// DeleteTable removes a table and its seats by display number. Deleting a
// number that is already gone is not an error.
func (r *LayoutRepo) DeleteTable(ctx context.Context, number int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	const qSeats = `DELETE s FROM layout_seats s
	                JOIN layout_tables t ON t.id = s.table_id
	                WHERE t.number = ?`
	if _, err := tx.ExecContext(ctx, qSeats, number); err != nil {
		return err
	}
	const qTable = `DELETE FROM layout_tables WHERE number = ?`
	if _, err := tx.ExecContext(ctx, qTable, number); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// Reset replaces the entire persisted layout inside one transaction:
// clear both tables, then insert the given arrangement with bulk seat
// inserts per table.
func (r *LayoutRepo) Reset(ctx context.Context, tables []*layout.Table) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM layout_seats`); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM layout_tables`); err != nil {
		return err
	}

	const qTable = `INSERT INTO layout_tables (number, label, x, y, seat_count) VALUES (?, ?, ?, ?, ?)`
	for _, t := range tables {
		res, err := tx.ExecContext(ctx, qTable, t.Number, nullString(t.Label), t.X, t.Y, len(t.Seats))
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		t.ID = uint64(id)

		if len(t.Seats) == 0 {
			continue
		}
		query := `INSERT INTO layout_seats (table_id, seat_index, angle, guest_name, tag, note) VALUES `
		args := make([]interface{}, 0, len(t.Seats)*6)
		for i := range t.Seats {
			if i > 0 {
				query += ","
			}
			query += "(?, ?, ?, ?, ?, ?)"
			s := &t.Seats[i]
			args = append(args, t.ID, i, s.Angle, nullString(s.Guest), nullString(s.Tag), nullString(s.Note))
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// nullString maps "" to NULL so optional text columns stay NULL instead
// of accumulating empty strings.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
