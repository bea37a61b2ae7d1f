package editor

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/iliyamo/event-seating/internal/layout"
)

// fakeStore is an in-memory Store that can be told to fail.
type fakeStore struct {
	mu       sync.Mutex
	tables   map[int]*layout.Table
	saves    int
	deletes  int
	resets   int
	failNext int   // fail this many upcoming calls
	failErr  error // error used while failing
}

func newFakeStore() *fakeStore {
	return &fakeStore{tables: make(map[int]*layout.Table), failErr: errors.New("backend unavailable")}
}

func (f *fakeStore) takeFailure() error {
	if f.failNext > 0 {
		f.failNext--
		return f.failErr
	}
	return nil
}

func (f *fakeStore) LoadAll(ctx context.Context) ([]*layout.Table, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.takeFailure(); err != nil {
		return nil, err
	}
	nums := make([]int, 0, len(f.tables))
	for n := range f.tables {
		nums = append(nums, n)
	}
	sort.Ints(nums)
	out := make([]*layout.Table, 0, len(nums))
	for _, n := range nums {
		out = append(out, f.tables[n].Clone())
	}
	return out, nil
}

func (f *fakeStore) SaveTable(ctx context.Context, t *layout.Table) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saves++
	if err := f.takeFailure(); err != nil {
		return err
	}
	f.tables[t.Number] = t.Clone()
	return nil
}

func (f *fakeStore) DeleteTable(ctx context.Context, number int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes++
	if err := f.takeFailure(); err != nil {
		return err
	}
	delete(f.tables, number)
	return nil
}

func (f *fakeStore) Reset(ctx context.Context, tables []*layout.Table) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resets++
	if err := f.takeFailure(); err != nil {
		return err
	}
	f.tables = make(map[int]*layout.Table, len(tables))
	for _, t := range tables {
		f.tables[t.Number] = t.Clone()
	}
	return nil
}

func (f *fakeStore) saveCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.saves
}

func (f *fakeStore) stored(number int) (*layout.Table, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tables[number]
	if !ok {
		return nil, false
	}
	return t.Clone(), true
}

// fakeSnap is an in-memory snapshot mirror.
type fakeSnap struct {
	mu  sync.Mutex
	doc []byte
}

func (f *fakeSnap) WriteSnapshot(ctx context.Context, doc []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.doc = append([]byte(nil), doc...)
	return nil
}

func (f *fakeSnap) ReadSnapshot(ctx context.Context) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.doc == nil {
		return nil, errors.New("no snapshot")
	}
	return append([]byte(nil), f.doc...), nil
}

func fastCfg() Config {
	return Config{SaveDebounce: 10 * time.Millisecond, SaveAttempts: 3, SaveBackoff: time.Millisecond}
}

func loadedSession(t *testing.T, store Store, snap SnapshotStore) *Session {
	t.Helper()
	s := NewSession(store, snap, fastCfg())
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	return s
}

func TestLoadSeedsDefaultWhenEmpty(t *testing.T) {
	store := newFakeStore()
	s := loadedSession(t, store, nil)
	l := s.Tables()
	if len(l.Tables) != layout.DefaultTableCount {
		t.Fatalf("got %d tables", len(l.Tables))
	}
	if store.resets != 1 {
		t.Fatalf("resets = %d", store.resets)
	}
}

func TestLoadFallsBackToSnapshot(t *testing.T) {
	snap := &fakeSnap{}
	seed := layout.DefaultLayout()
	seed.Tables[0].Seats[0].Guest = "Ada"
	doc, _ := seed.ExportJSON()
	_ = snap.WriteSnapshot(context.Background(), doc)

	store := newFakeStore()
	store.failNext = 1 // LoadAll fails once
	s := NewSession(store, snap, fastCfg())
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("load should fall back, got %v", err)
	}
	if got := s.Tables().Tables[0].Seats[0].Guest; got != "Ada" {
		t.Fatalf("snapshot not restored, guest = %q", got)
	}
}

func TestLoadFailsWithoutAnySource(t *testing.T) {
	store := newFakeStore()
	store.failNext = 1
	s := NewSession(store, nil, fastCfg())
	if err := s.Load(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestAssignSeatDuplicateBlocksUnlessForced(t *testing.T) {
	s := loadedSession(t, newFakeStore(), nil)

	if err := s.AssignSeat(1, 0, "Jane Doe", "", "", false); err != nil {
		t.Fatalf("first assign: %v", err)
	}
	err := s.AssignSeat(2, 3, "Jane Doe", "", "", false)
	var dup *DuplicateGuestError
	if !errors.As(err, &dup) {
		t.Fatalf("err = %v, want DuplicateGuestError", err)
	}
	if dup.TableNumber != 1 || dup.SeatIndex != 0 {
		t.Fatalf("duplicate at (%d,%d)", dup.TableNumber, dup.SeatIndex)
	}

	// advisory mode: force goes through
	if err := s.AssignSeat(2, 3, "Jane Doe", "", "", true); err != nil {
		t.Fatalf("forced assign: %v", err)
	}

	// re-assigning the same seat is not a duplicate
	if err := s.AssignSeat(1, 0, "Jane Doe", "VIP", "", false); err != nil {
		t.Fatalf("same-seat reassign: %v", err)
	}

	// empty name clears
	if err := s.AssignSeat(1, 0, "", "", "", false); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if tab, _ := s.Tables().Table(1); tab.Seats[0].Occupied() || tab.Seats[0].Tag != "" {
		t.Fatal("assignment not cleared")
	}
}

func TestAssignSeatBounds(t *testing.T) {
	s := loadedSession(t, newFakeStore(), nil)
	if err := s.AssignSeat(99, 0, "X", "", "", false); !errors.Is(err, ErrTableNotFound) {
		t.Fatalf("err = %v", err)
	}
	if err := s.AssignSeat(1, 99, "X", "", "", false); !errors.Is(err, ErrSeatNotFound) {
		t.Fatalf("err = %v", err)
	}
}

func TestDeleteTableClearsSelection(t *testing.T) {
	store := newFakeStore()
	s := loadedSession(t, store, nil)
	if err := s.Select("admin", 4); err != nil {
		t.Fatalf("select: %v", err)
	}
	if err := s.DeleteTable(context.Background(), 4); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if got := s.Selected("admin"); got != 0 {
		t.Fatalf("selection = %d", got)
	}
	if _, ok := store.stored(4); ok {
		t.Fatal("table still in store")
	}
	if err := s.DeleteTable(context.Background(), 4); !errors.Is(err, ErrTableNotFound) {
		t.Fatalf("second delete err = %v", err)
	}
}

func TestPointerGestureMutatesAndPersists(t *testing.T) {
	store := newFakeStore()
	s := loadedSession(t, store, nil)
	start, _ := s.Tables().Table(1)

	if err := s.PointerDown("admin", 1, start.X, start.Y); err != nil {
		t.Fatalf("down: %v", err)
	}
	tab, moved := s.PointerMove("admin", start.X+120, start.Y+40)
	if !moved {
		t.Fatal("expected drag")
	}
	if tab.X != start.X+120 || tab.Y != start.Y+40 {
		t.Fatalf("moved to (%v,%v)", tab.X, tab.Y)
	}
	if _, dragged := s.PointerUp("admin"); !dragged {
		t.Fatal("up should report a drag")
	}

	s.Wait()
	stored, ok := store.stored(1)
	if !ok {
		t.Fatal("table never saved")
	}
	if stored.X != start.X+120 || stored.Y != start.Y+40 {
		t.Fatalf("stored at (%v,%v)", stored.X, stored.Y)
	}
}

func TestPointerClickSelects(t *testing.T) {
	s := loadedSession(t, newFakeStore(), nil)
	tab, _ := s.Tables().Table(2)
	_ = s.PointerDown("admin", 2, tab.X, tab.Y)
	selected, dragged := s.PointerUp("admin")
	if dragged || selected != 2 {
		t.Fatalf("Up = (%d,%v)", selected, dragged)
	}
	if s.Selected("admin") != 2 {
		t.Fatal("selection not recorded")
	}
}

func TestPointerCancelRestoresPosition(t *testing.T) {
	s := loadedSession(t, newFakeStore(), nil)
	tab, _ := s.Tables().Table(2)
	_ = s.PointerDown("admin", 2, tab.X, tab.Y)
	if _, moved := s.PointerMove("admin", tab.X+200, tab.Y); !moved {
		t.Fatal("expected drag")
	}
	s.PointerCancel("admin")
	after, _ := s.Tables().Table(2)
	if after.X != tab.X || after.Y != tab.Y {
		t.Fatalf("not snapped back: (%v,%v)", after.X, after.Y)
	}
}

func TestZoomClampsAndSteps(t *testing.T) {
	s := loadedSession(t, newFakeStore(), nil)
	if z := s.AdjustZoom("admin", 3); z < 1.29 || z > 1.31 {
		t.Fatalf("zoom = %v", z)
	}
	if z := s.AdjustZoom("admin", 100); z != ZoomMax {
		t.Fatalf("zoom = %v, want max", z)
	}
	if z := s.AdjustZoom("admin", -100); z != ZoomMin {
		t.Fatalf("zoom = %v, want min", z)
	}
}

func TestSearchNoMatchKeepsSelection(t *testing.T) {
	s := loadedSession(t, newFakeStore(), nil)
	_ = s.AssignSeat(6, 1, "Alice Smith", "", "", false)
	_ = s.Select("admin", 3)

	if _, ok := s.Search("admin", "jane"); ok {
		t.Fatal("unexpected match")
	}
	if s.Selected("admin") != 3 {
		t.Fatal("selection changed on a fruitless search")
	}

	got, ok := s.Search("admin", "alice")
	if !ok || got.Number != 6 {
		t.Fatalf("search = (%v,%v)", got, ok)
	}
	if s.Selected("admin") != 6 {
		t.Fatal("selection not moved to match")
	}
}

func TestImportReplacesStateAndPersists(t *testing.T) {
	store := newFakeStore()
	s := loadedSession(t, store, nil)

	src := &layout.Layout{}
	tb := src.AddTable()
	tb.Label = "Imported"
	doc, _ := src.ExportJSON()

	if err := s.ImportLayout(context.Background(), doc); err != nil {
		t.Fatalf("import: %v", err)
	}
	l := s.Tables()
	if len(l.Tables) != 1 || l.Tables[0].Label != "Imported" {
		t.Fatalf("layout = %+v", l.Tables)
	}
	if store.resets != 2 { // seed + import
		t.Fatalf("resets = %d", store.resets)
	}

	// malformed input leaves state untouched
	if err := s.ImportLayout(context.Background(), []byte("{oops")); !errors.Is(err, layout.ErrInvalidDocument) {
		t.Fatalf("err = %v", err)
	}
	if got := s.Tables(); len(got.Tables) != 1 {
		t.Fatal("state changed after failed import")
	}
}

func TestResetDefaultReseeds(t *testing.T) {
	store := newFakeStore()
	s := loadedSession(t, store, nil)
	_ = s.AssignSeat(1, 0, "Ada", "", "", false)
	if err := s.ResetDefault(context.Background()); err != nil {
		t.Fatalf("reset: %v", err)
	}
	l := s.Tables()
	if len(l.Tables) != layout.DefaultTableCount {
		t.Fatalf("got %d tables", len(l.Tables))
	}
	if l.Tables[0].Seats[0].Occupied() {
		t.Fatal("assignments survived reset")
	}
}
