package editor

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/iliyamo/event-seating/internal/layout"
	"github.com/iliyamo/event-seating/internal/retry"
)

// Save states reported to the UI.
const (
	StateSaved  = "saved"
	StateSaving = "saving"
	StateError  = "error"
)

// Status describes the synchronization state between the in-memory layout
// and the backing store. Unsynced lists table numbers whose last write
// exhausted its retries; their edits live on in memory and in the snapshot
// mirror until a later write succeeds.
type Status struct {
	State       string    `json:"state"`
	Unsynced    []int     `json:"unsynced,omitempty"`
	LastError   string    `json:"last_error,omitempty"`
	LastSavedAt time.Time `json:"last_saved_at,omitempty"`
}

// saver debounces per-table writes: a burst of edits to one table (drag
// movement above all) collapses into a single flush delay after the last
// change. Edits to different tables flush independently with no ordering
// between them. Every write goes through the retry wrapper; failed writes
// are never rolled back locally.
type saver struct {
	store    Store
	snap     SnapshotStore // may be nil
	delay    time.Duration
	attempts int
	backoff  time.Duration

	// fetch returns a detached copy of a table by number, or false when it
	// no longer exists. snapshot returns the full layout document. Both are
	// provided by the session and take its lock.
	fetch    func(number int) (*layout.Table, bool)
	snapshot func() ([]byte, error)

	mu        sync.Mutex
	timers    map[int]*time.Timer
	inflight  int
	failed    map[int]string
	lastErr   string
	lastSaved time.Time
	wg        sync.WaitGroup
}

func newSaver(store Store, snap SnapshotStore, delay time.Duration, attempts int, backoff time.Duration) *saver {
	if delay <= 0 {
		delay = 750 * time.Millisecond
	}
	if attempts < 1 {
		attempts = retry.DefaultAttempts
	}
	if backoff <= 0 {
		backoff = 250 * time.Millisecond
	}
	return &saver{
		store:    store,
		snap:     snap,
		delay:    delay,
		attempts: attempts,
		backoff:  backoff,
		timers:   make(map[int]*time.Timer),
		failed:   make(map[int]string),
	}
}

// schedule arms (or re-arms) the debounce timer for a table. A pending
// flush for the same table is superseded.
func (s *saver) schedule(number int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.timers[number]; ok {
		if t.Stop() {
			s.wg.Done() // superseded before it could fire
		}
	}
	s.wg.Add(1)
	s.timers[number] = time.AfterFunc(s.delay, func() {
		defer s.wg.Done()
		s.flush(number)
	})
}

// flush writes one table through the retry wrapper and refreshes the
// snapshot mirror either way, so a failed remote write still leaves the
// local edit recoverable.
func (s *saver) flush(number int) {
	s.mu.Lock()
	delete(s.timers, number)
	s.inflight++
	s.mu.Unlock()

	tab, ok := s.fetch(number)
	var err error
	if ok {
		err = retry.Do(context.Background(), s.attempts, s.backoff, func(ctx context.Context) error {
			return s.store.SaveTable(ctx, tab)
		})
	}

	s.mu.Lock()
	s.inflight--
	if err != nil {
		s.failed[number] = err.Error()
		s.lastErr = err.Error()
	} else {
		delete(s.failed, number)
		s.lastSaved = time.Now().UTC()
	}
	s.mu.Unlock()

	s.mirror()
}

// deleteNow removes a table from the store immediately; deletes are
// structural and skip the debounce.
func (s *saver) deleteNow(ctx context.Context, number int) error {
	s.mu.Lock()
	if t, ok := s.timers[number]; ok {
		if t.Stop() {
			s.wg.Done()
		}
		delete(s.timers, number)
	}
	s.mu.Unlock()

	err := retry.Do(ctx, s.attempts, s.backoff, func(ctx context.Context) error {
		return s.store.DeleteTable(ctx, number)
	})

	s.mu.Lock()
	if err != nil {
		s.failed[number] = err.Error()
		s.lastErr = err.Error()
	} else {
		delete(s.failed, number)
		s.lastSaved = time.Now().UTC()
	}
	s.mu.Unlock()

	s.mirror()
	return err
}

// mirror pushes the current layout document to the snapshot store. Mirror
// failures only get logged into lastErr; the mirror is best-effort.
func (s *saver) mirror() {
	if s.snap == nil || s.snapshot == nil {
		return
	}
	doc, err := s.snapshot()
	if err != nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	_ = s.snap.WriteSnapshot(ctx, doc)
}

// status reports the aggregate save state.
func (s *saver) status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := Status{State: StateSaved, LastSavedAt: s.lastSaved}
	if len(s.failed) > 0 {
		st.State = StateError
		st.LastError = s.lastErr
		for n := range s.failed {
			st.Unsynced = append(st.Unsynced, n)
		}
		sort.Ints(st.Unsynced)
	}
	if s.inflight > 0 || len(s.timers) > 0 {
		st.State = StateSaving
	}
	return st
}

// wait blocks until all scheduled flushes have run. Used by shutdown and
// tests.
func (s *saver) wait() {
	s.wg.Wait()
}
