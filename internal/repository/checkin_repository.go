package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/event-seating/internal/checkin"
)

// CheckInRepo persists the append-only event-day check-in log. Rows are
// keyed by guest name plus timestamps; there is no foreign key into the
// guest directory.
type CheckInRepo struct {
	db *sql.DB
}

// NewCheckInRepo constructs a CheckInRepo with the given DB handle.
func NewCheckInRepo(db *sql.DB) *CheckInRepo {
	return &CheckInRepo{db: db}
}

// EntriesForGuest returns a guest's log rows, newest first.
func (r *CheckInRepo) EntriesForGuest(ctx context.Context, guestName string) ([]checkin.Entry, error) {
	const q = `SELECT id, guest_name, table_number, checked_in_at, checked_out_at
	           FROM check_ins
	           WHERE guest_name = ?
	           ORDER BY checked_in_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q, guestName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEntries(rows)
}

// List returns the whole log, newest first.
func (r *CheckInRepo) List(ctx context.Context) ([]checkin.Entry, error) {
	const q = `SELECT id, guest_name, table_number, checked_in_at, checked_out_at
	           FROM check_ins
	           ORDER BY checked_in_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEntries(rows)
}

// Insert appends an open check-in row and returns the created entry.
func (r *CheckInRepo) Insert(ctx context.Context, guestName string, tableNumber int) (checkin.Entry, error) {
	now := time.Now().UTC()
	const q = `INSERT INTO check_ins (guest_name, table_number, checked_in_at) VALUES (?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, guestName, tableNumber, now)
	if err != nil {
		return checkin.Entry{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return checkin.Entry{}, err
	}
	return checkin.Entry{
		ID:          uint64(id),
		GuestName:   guestName,
		TableNumber: tableNumber,
		CheckedInAt: now,
	}, nil
}

// CloseOpen stamps the guest's open check-in rows with a checkout time.
// Returns sql.ErrNoRows when the guest has no open row.
func (r *CheckInRepo) CloseOpen(ctx context.Context, guestName string) error {
	const q = `UPDATE check_ins
	           SET checked_out_at = ?
	           WHERE guest_name = ? AND checked_out_at IS NULL`
	res, err := r.db.ExecContext(ctx, q, time.Now().UTC(), guestName)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func scanEntries(rows *sql.Rows) ([]checkin.Entry, error) {
	var out []checkin.Entry
	for rows.Next() {
		var (
			e    checkin.Entry
			coAt sql.NullTime
		)
		if err := rows.Scan(&e.ID, &e.GuestName, &e.TableNumber, &e.CheckedInAt, &coAt); err != nil {
			return nil, err
		}
		if coAt.Valid {
			t := coAt.Time
			e.CheckedOutAt = &t
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
