// Package editor composes the in-memory layout, the drag controller and
// debounced persistence into the seating editor used by the admin API.
package editor

import (
	"context"
	"errors"
	"fmt"

	"github.com/iliyamo/event-seating/internal/layout"
)

// Store is the backing persistence for layouts. The MySQL repository is
// the production implementation; tests substitute fakes.
type Store interface {
	// LoadAll returns every persisted table ordered by number, seats joined
	// by index.
	LoadAll(ctx context.Context) ([]*layout.Table, error)
	// SaveTable upserts one table keyed by its number and diffs its seats.
	SaveTable(ctx context.Context, t *layout.Table) error
	// DeleteTable removes a table and its seats by number.
	DeleteTable(ctx context.Context, number int) error
	// Reset replaces the entire persisted layout with the given tables.
	Reset(ctx context.Context, tables []*layout.Table) error
}

// SnapshotStore mirrors the full layout document so the editor can come
// back up, with local edits intact, while the primary store is down.
type SnapshotStore interface {
	WriteSnapshot(ctx context.Context, doc []byte) error
	ReadSnapshot(ctx context.Context) ([]byte, error)
}

// Sentinel errors surfaced to handlers.
var (
	ErrTableNotFound = errors.New("table not found")
	ErrSeatNotFound  = errors.New("seat not found")
	ErrNoLayout      = errors.New("no layout available")
)

// DuplicateGuestError reports that a guest name is already assigned to
// another seat. Handlers turn it into a conflict response unless the
// caller forces the assignment.
type DuplicateGuestError struct {
	Guest       string
	TableNumber int
	SeatIndex   int
}

func (e *DuplicateGuestError) Error() string {
	return fmt.Sprintf("guest %q already seated at table %d seat %d", e.Guest, e.TableNumber, e.SeatIndex+1)
}
