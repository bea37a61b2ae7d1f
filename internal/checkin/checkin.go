// Package checkin holds the event-day check-in rules shared by the API
// handlers: who counts as currently checked in and who may check in at
// all.
package checkin

import (
	"errors"
	"time"
)

// Entry is one row of the append-only check-in log. CheckedOutAt is nil
// while the guest is still on site.
type Entry struct {
	ID           uint64     `json:"id"`
	GuestName    string     `json:"guest_name"`
	TableNumber  int        `json:"table_number"`
	CheckedInAt  time.Time  `json:"checked_in_at"`
	CheckedOutAt *time.Time `json:"checked_out_at,omitempty"`
}

// Rejection reasons surfaced to the UI.
var (
	ErrNoTable          = errors.New("guest has no table assignment")
	ErrAlreadyCheckedIn = errors.New("guest is already checked in")
	ErrNotCheckedIn     = errors.New("guest is not checked in")
)

// Latest returns the most recent log entry among the given ones, by
// check-in time; ok is false for an empty slice.
func Latest(entries []Entry) (Entry, bool) {
	if len(entries) == 0 {
		return Entry{}, false
	}
	latest := entries[0]
	for _, e := range entries[1:] {
		if e.CheckedInAt.After(latest.CheckedInAt) {
			latest = e
		}
	}
	return latest, true
}

// IsCheckedIn reports whether a guest's log shows them currently on site:
// the most recent entry exists and has no checkout time.
func IsCheckedIn(entries []Entry) bool {
	latest, ok := Latest(entries)
	return ok && latest.CheckedOutAt == nil
}

// CanCheckIn decides whether a new check-in may be recorded. A guest needs
// a table assignment and must not already be checked in; on rejection no
// log entry may be written.
func CanCheckIn(hasTable bool, entries []Entry) error {
	if !hasTable {
		return ErrNoTable
	}
	if IsCheckedIn(entries) {
		return ErrAlreadyCheckedIn
	}
	return nil
}

// CanCheckOut decides whether a checkout may be recorded against the log.
func CanCheckOut(entries []Entry) error {
	if !IsCheckedIn(entries) {
		return ErrNotCheckedIn
	}
	return nil
}
