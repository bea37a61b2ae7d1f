package editor

import (
	"context"
	"testing"
	"time"

	"github.com/iliyamo/event-seating/internal/layout"
)

func TestDebounceCoalescesBurst(t *testing.T) {
	store := newFakeStore()
	s := loadedSession(t, store, nil)
	base := store.saveCount()

	// a drag burst: many moves of the same table inside the debounce window
	for i := 0; i < 20; i++ {
		if _, err := s.MoveTable(1, float64(100+i), 200); err != nil {
			t.Fatalf("move: %v", err)
		}
	}
	s.Wait()

	if got := store.saveCount() - base; got != 1 {
		t.Fatalf("burst produced %d saves, want 1", got)
	}
	stored, _ := store.stored(1)
	if stored.X != 119 {
		t.Fatalf("final position not saved: x=%v", stored.X)
	}
}

func TestDifferentTablesFlushIndependently(t *testing.T) {
	store := newFakeStore()
	s := loadedSession(t, store, nil)
	base := store.saveCount()

	_, _ = s.MoveTable(1, 50, 50)
	_, _ = s.MoveTable(2, 60, 60)
	s.Wait()

	if got := store.saveCount() - base; got != 2 {
		t.Fatalf("saves = %d, want 2", got)
	}
}

func TestFlushRetriesTransientFailure(t *testing.T) {
	store := newFakeStore()
	s := loadedSession(t, store, nil)
	base := store.saveCount()

	store.mu.Lock()
	store.failNext = 2 // first two attempts fail, third succeeds
	store.mu.Unlock()

	_, _ = s.MoveTable(3, 400, 400)
	s.Wait()

	if got := store.saveCount() - base; got != 3 {
		t.Fatalf("attempts = %d, want 3", got)
	}
	if st := s.Status(); st.State != StateSaved {
		t.Fatalf("status = %+v", st)
	}
	stored, _ := store.stored(3)
	if stored.X != 400 {
		t.Fatalf("stored x = %v", stored.X)
	}
}

func TestExhaustedRetriesSurfaceAsError(t *testing.T) {
	store := newFakeStore()
	snap := &fakeSnap{}
	s := loadedSession(t, store, snap)

	store.mu.Lock()
	store.failNext = 3 // every attempt fails
	store.mu.Unlock()

	_, _ = s.MoveTable(5, 700, 700)
	s.Wait()

	st := s.Status()
	if st.State != StateError {
		t.Fatalf("status = %+v", st)
	}
	if len(st.Unsynced) != 1 || st.Unsynced[0] != 5 {
		t.Fatalf("unsynced = %v", st.Unsynced)
	}

	// the local edit is retained and mirrored, not rolled back
	if tab, _ := s.Tables().Table(5); tab.X != 700 {
		t.Fatalf("local edit lost: x=%v", tab.X)
	}
	doc, err := snap.ReadSnapshot(context.Background())
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	mirrored, err := layout.ImportJSON(doc)
	if err != nil {
		t.Fatalf("snapshot parse: %v", err)
	}
	if tab, _ := mirrored.Table(5); tab.X != 700 {
		t.Fatalf("mirror missed the edit: x=%v", tab.X)
	}

	// a later successful save clears the unsynced flag
	_, _ = s.MoveTable(5, 710, 700)
	s.Wait()
	if st := s.Status(); st.State != StateSaved || len(st.Unsynced) != 0 {
		t.Fatalf("status after recovery = %+v", st)
	}
}

func TestStatusReportsSavingWhilePending(t *testing.T) {
	store := newFakeStore()
	s := NewSession(store, nil, Config{SaveDebounce: 80 * time.Millisecond, SaveAttempts: 1, SaveBackoff: time.Millisecond})
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	_, _ = s.MoveTable(1, 10, 10)
	if st := s.Status(); st.State != StateSaving {
		t.Fatalf("status = %+v", st)
	}
	s.Wait()
	if st := s.Status(); st.State != StateSaved {
		t.Fatalf("status = %+v", st)
	}
}
