package editor

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/iliyamo/event-seating/internal/layout"
	"github.com/iliyamo/event-seating/internal/retry"
)

// Zoom bounds and step. Zoom affects rendering and pointer translation
// only, never stored coordinates.
const (
	ZoomMin  = 0.5
	ZoomMax  = 2.0
	ZoomStep = 0.1
)

// Config tunes the session's persistence behavior. Zero values fall back
// to the defaults in newSaver.
type Config struct {
	SaveDebounce time.Duration
	SaveAttempts int
	SaveBackoff  time.Duration
}

// clientState is the per-admin UI state: zoom level, current selection and
// the drag gesture in progress. Layout data is shared; this is not.
type clientState struct {
	zoom     float64
	selected int // table number, 0 = none
	drag     layout.Drag
}

// Session is the authoritative seating editor. All mutations of the shared
// layout are serialized through one mutex, mirroring the single event loop
// the editor UI runs on; persistence happens asynchronously behind the
// debouncing saver.
type Session struct {
	store Store
	saver *saver

	mu      sync.Mutex
	layout  *layout.Layout
	clients map[string]*clientState
}

// NewSession wires a session to its store and optional snapshot mirror.
// Call Load before serving requests.
func NewSession(store Store, snap SnapshotStore, cfg Config) *Session {
	s := &Session{
		store:   store,
		clients: make(map[string]*clientState),
	}
	s.saver = newSaver(store, snap, cfg.SaveDebounce, cfg.SaveAttempts, cfg.SaveBackoff)
	s.saver.fetch = s.fetchTable
	s.saver.snapshot = s.ExportJSON
	return s
}

// Load reads the persisted layout. An empty store is seeded with the
// canonical default arrangement and persisted. When the store is
// unreachable the session falls back to the snapshot mirror so admins can
// keep working; if neither source is available the original error is
// returned.
func (s *Session) Load(ctx context.Context) error {
	tables, err := s.store.LoadAll(ctx)
	if err != nil {
		if l, snapErr := s.loadSnapshot(ctx); snapErr == nil {
			s.mu.Lock()
			s.layout = l
			s.mu.Unlock()
			return nil
		}
		return err
	}

	if len(tables) == 0 {
		l := layout.DefaultLayout()
		if err := retry.Do(ctx, s.saver.attempts, s.saver.backoff, func(ctx context.Context) error {
			return s.store.Reset(ctx, l.Tables)
		}); err != nil {
			return err
		}
		s.mu.Lock()
		s.layout = l
		s.mu.Unlock()
		s.saver.mirror()
		return nil
	}

	s.mu.Lock()
	s.layout = &layout.Layout{Tables: tables}
	s.mu.Unlock()
	s.saver.mirror()
	return nil
}

func (s *Session) loadSnapshot(ctx context.Context) (*layout.Layout, error) {
	if s.saver.snap == nil {
		return nil, ErrNoLayout
	}
	doc, err := s.saver.snap.ReadSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	return layout.ImportJSON(doc)
}

// fetchTable hands the saver a detached copy of one table.
func (s *Session) fetchTable(number int) (*layout.Table, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.layout == nil {
		return nil, false
	}
	t, ok := s.layout.Table(number)
	if !ok {
		return nil, false
	}
	return t.Clone(), true
}

// Tables returns a deep copy of the current layout.
func (s *Session) Tables() *layout.Layout {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.layout == nil {
		return &layout.Layout{}
	}
	return s.layout.Clone()
}

// Status reports the saver's synchronization state.
func (s *Session) Status() Status { return s.saver.status() }

// Wait blocks until every scheduled persistence write has completed.
func (s *Session) Wait() { s.saver.wait() }

// client returns (creating if needed) the state for one admin.
func (s *Session) client(id string) *clientState {
	cs, ok := s.clients[id]
	if !ok {
		cs = &clientState{zoom: 1}
		s.clients[id] = cs
	}
	return cs
}

// AddTable creates a table with the next unused number and schedules its
// persistence. Returns a copy of the new table.
func (s *Session) AddTable() *layout.Table {
	s.mu.Lock()
	t := s.layout.AddTable()
	cp := t.Clone()
	s.mu.Unlock()
	s.saver.schedule(t.Number)
	return cp
}

// DeleteTable removes the table from memory and, immediately, from the
// store. Selections and drags referencing it are cleared.
func (s *Session) DeleteTable(ctx context.Context, number int) error {
	s.mu.Lock()
	if !s.layout.DeleteTable(number) {
		s.mu.Unlock()
		return ErrTableNotFound
	}
	for _, cs := range s.clients {
		if cs.selected == number {
			cs.selected = 0
		}
		if cs.drag.TableNumber() == number {
			cs.drag.Cancel()
		}
	}
	s.mu.Unlock()
	return s.saver.deleteNow(ctx, number)
}

// AddSeat appends a seat to the table. At the seat capacity it is a
// silent no-op; changed reports whether anything happened.
func (s *Session) AddSeat(number int) (t *layout.Table, changed bool, err error) {
	s.mu.Lock()
	tab, ok := s.layout.Table(number)
	if !ok {
		s.mu.Unlock()
		return nil, false, ErrTableNotFound
	}
	changed = tab.AddSeat()
	cp := tab.Clone()
	s.mu.Unlock()
	if changed {
		s.saver.schedule(number)
	}
	return cp, changed, nil
}

// RemoveSeat drops the table's last seat, refusing silently at one seat.
func (s *Session) RemoveSeat(number int) (t *layout.Table, changed bool, err error) {
	s.mu.Lock()
	tab, ok := s.layout.Table(number)
	if !ok {
		s.mu.Unlock()
		return nil, false, ErrTableNotFound
	}
	changed = tab.RemoveSeat()
	cp := tab.Clone()
	s.mu.Unlock()
	if changed {
		s.saver.schedule(number)
	}
	return cp, changed, nil
}

// AssignSeat writes a seat's guest fields. An empty guest name clears the
// assignment. When the name is already seated elsewhere the call fails
// with DuplicateGuestError unless force is set.
func (s *Session) AssignSeat(number, seatIndex int, guest, tag, note string, force bool) error {
	guest = strings.TrimSpace(guest)
	s.mu.Lock()
	tab, ok := s.layout.Table(number)
	if !ok {
		s.mu.Unlock()
		return ErrTableNotFound
	}
	if seatIndex < 0 || seatIndex >= len(tab.Seats) {
		s.mu.Unlock()
		return ErrSeatNotFound
	}
	if guest != "" && !force {
		if tn, si, found := s.layout.Assignment(guest); found && !(tn == number && si == seatIndex) {
			s.mu.Unlock()
			return &DuplicateGuestError{Guest: guest, TableNumber: tn, SeatIndex: si}
		}
	}
	seat := &tab.Seats[seatIndex]
	if guest == "" {
		seat.Guest, seat.Tag, seat.Note = "", "", ""
	} else {
		seat.Guest, seat.Tag, seat.Note = guest, strings.TrimSpace(tag), strings.TrimSpace(note)
	}
	s.mu.Unlock()
	s.saver.schedule(number)
	return nil
}

// MoveTable sets a table position directly (non-gesture API move), clamped
// to canvas bounds, and schedules a debounced persist.
func (s *Session) MoveTable(number int, x, y float64) (*layout.Table, error) {
	s.mu.Lock()
	tab, ok := s.layout.Table(number)
	if !ok {
		s.mu.Unlock()
		return nil, ErrTableNotFound
	}
	tab.SetPosition(x, y)
	cp := tab.Clone()
	s.mu.Unlock()
	s.saver.schedule(number)
	return cp, nil
}

// PointerDown begins a drag gesture for one admin on the given table.
func (s *Session) PointerDown(clientID string, number int, px, py float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	tab, ok := s.layout.Table(number)
	if !ok {
		return ErrTableNotFound
	}
	cs := s.client(clientID)
	cs.drag.Down(tab, px, py, cs.zoom)
	return nil
}

// PointerMove feeds pointer coordinates into the admin's gesture. Position
// changes are applied to memory immediately; persistence waits for
// PointerUp.
func (s *Session) PointerMove(clientID string, px, py float64) (*layout.Table, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cs := s.client(clientID)
	x, y, moved := cs.drag.Move(px, py)
	if !moved {
		return nil, false
	}
	tab, ok := s.layout.Table(cs.drag.TableNumber())
	if !ok {
		cs.drag.Cancel()
		return nil, false
	}
	tab.SetPosition(x, y)
	return tab.Clone(), true
}

// PointerUp resolves the gesture: a click selects the table, a finished
// drag schedules the debounced persist of its final position.
func (s *Session) PointerUp(clientID string) (selected int, dragged bool) {
	s.mu.Lock()
	cs := s.client(clientID)
	table, clicked, wasDrag := cs.drag.Up()
	if clicked {
		cs.selected = table
		selected = table
	}
	s.mu.Unlock()
	if wasDrag {
		s.saver.schedule(table)
	}
	return selected, wasDrag
}

// PointerCancel aborts the gesture and snaps the table back to where the
// drag started. Nothing is persisted.
func (s *Session) PointerCancel(clientID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cs := s.client(clientID)
	table, x, y, snap := cs.drag.Cancel()
	if !snap {
		return
	}
	if tab, ok := s.layout.Table(table); ok {
		tab.SetPosition(x, y)
	}
}

// AdjustZoom steps an admin's zoom by delta increments, clamped to
// [ZoomMin, ZoomMax], and returns the new factor.
func (s *Session) AdjustZoom(clientID string, delta int) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	cs := s.client(clientID)
	z := cs.zoom + ZoomStep*float64(delta)
	if z < ZoomMin {
		z = ZoomMin
	}
	if z > ZoomMax {
		z = ZoomMax
	}
	cs.zoom = z
	return z
}

// Select sets an admin's selected table.
func (s *Session) Select(clientID string, number int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if number != 0 {
		if _, ok := s.layout.Table(number); !ok {
			return ErrTableNotFound
		}
	}
	s.client(clientID).selected = number
	return nil
}

// Selected returns an admin's current selection (0 = none).
func (s *Session) Selected(clientID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.client(clientID).selected
}

// Search selects and returns the first table seating a guest whose name
// contains query, case-insensitively. On no match the current selection is
// left untouched.
func (s *Session) Search(clientID string, query string) (*layout.Table, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.layout.FindGuest(query)
	if !ok {
		return nil, false
	}
	s.client(clientID).selected = t.Number
	return t.Clone(), true
}

// Assignment reports where a guest is seated, by exact name match.
func (s *Session) Assignment(guest string) (tableNumber int, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.layout == nil {
		return 0, false
	}
	tn, _, found := s.layout.Assignment(guest)
	return tn, found
}

// ExportJSON serializes the current layout document.
func (s *Session) ExportJSON() ([]byte, error) {
	return s.Tables().ExportJSON()
}

// ExportCSV produces the printable seating list.
func (s *Session) ExportCSV() ([]byte, error) {
	return s.Tables().ExportCSV()
}

// ImportLayout replaces the whole layout from a document and persists it.
// A parse failure leaves the current state untouched.
func (s *Session) ImportLayout(ctx context.Context, doc []byte) error {
	l, err := layout.ImportJSON(doc)
	if err != nil {
		return err
	}
	if err := retry.Do(ctx, s.saver.attempts, s.saver.backoff, func(ctx context.Context) error {
		return s.store.Reset(ctx, l.Tables)
	}); err != nil {
		return err
	}
	s.mu.Lock()
	s.layout = l
	for _, cs := range s.clients {
		cs.selected = 0
		cs.drag.Cancel()
	}
	s.mu.Unlock()
	s.saver.mirror()
	return nil
}

// ResetDefault clears the persisted layout and reseeds the canonical
// default arrangement.
func (s *Session) ResetDefault(ctx context.Context) error {
	l := layout.DefaultLayout()
	if err := retry.Do(ctx, s.saver.attempts, s.saver.backoff, func(ctx context.Context) error {
		return s.store.Reset(ctx, l.Tables)
	}); err != nil {
		return err
	}
	s.mu.Lock()
	s.layout = l
	for _, cs := range s.clients {
		cs.selected = 0
		cs.drag.Cancel()
	}
	s.mu.Unlock()
	s.saver.mirror()
	return nil
}
