package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-seating/internal/editor"
	"github.com/iliyamo/event-seating/internal/layout"
)

// memStore is an in-memory editor.Store for handler tests. The saver
// flushes from timer goroutines, hence the mutex.
type memStore struct {
	mu     sync.Mutex
	tables map[int]*layout.Table
}

func newMemStore() *memStore { return &memStore{tables: map[int]*layout.Table{}} }

func (m *memStore) LoadAll(ctx context.Context) ([]*layout.Table, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*layout.Table, 0, len(m.tables))
	for n := 1; len(out) < len(m.tables); n++ {
		if t, ok := m.tables[n]; ok {
			out = append(out, t.Clone())
		}
	}
	return out, nil
}

func (m *memStore) SaveTable(ctx context.Context, t *layout.Table) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tables[t.Number] = t.Clone()
	return nil
}

func (m *memStore) DeleteTable(ctx context.Context, number int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tables, number)
	return nil
}

func (m *memStore) Reset(ctx context.Context, tables []*layout.Table) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tables = map[int]*layout.Table{}
	for _, t := range tables {
		m.tables[t.Number] = t.Clone()
	}
	return nil
}

func newTestEditor(t *testing.T) *EditorHandler {
	t.Helper()
	sess := editor.NewSession(newMemStore(), nil, editor.Config{
		SaveDebounce: 5 * time.Millisecond,
		SaveAttempts: 1,
		SaveBackoff:  time.Millisecond,
	})
	if err := sess.Load(context.Background()); err != nil {
		t.Fatalf("load session: %v", err)
	}
	return NewEditorHandler(sess)
}

func doJSON(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestLayoutSeedsDefault(t *testing.T) {
	h := newTestEditor(t)
	e := echo.New()
	e.GET("/layout", h.Layout)

	rec := doJSON(e, http.MethodGet, "/layout", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp struct {
		Layout struct {
			Tables []struct {
				Number int `json:"number"`
			} `json:"tables"`
		} `json:"layout"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got := len(resp.Layout.Tables); got != layout.DefaultTableCount {
		t.Fatalf("table count = %d, want %d", got, layout.DefaultTableCount)
	}
}

func TestAssignSeatDuplicateConflict(t *testing.T) {
	h := newTestEditor(t)
	e := echo.New()
	e.PUT("/tables/:number/seats/:seat", h.AssignSeat)

	rec := doJSON(e, http.MethodPut, "/tables/1/seats/0", `{"guest":"Jane Doe"}`)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("first assign status = %d, want 204", rec.Code)
	}

	rec = doJSON(e, http.MethodPut, "/tables/2/seats/0", `{"guest":"Jane Doe"}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate assign status = %d, want 409", rec.Code)
	}
	var conflict struct {
		TableNumber int `json:"table_number"`
		SeatIndex   int `json:"seat_index"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &conflict); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if conflict.TableNumber != 1 || conflict.SeatIndex != 0 {
		t.Fatalf("conflict points at table %d seat %d, want table 1 seat 0", conflict.TableNumber, conflict.SeatIndex)
	}

	// force overrides the duplicate check
	rec = doJSON(e, http.MethodPut, "/tables/2/seats/0", `{"guest":"Jane Doe","force":true}`)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("forced assign status = %d, want 204", rec.Code)
	}
}

func TestAssignSeatUnknownTable(t *testing.T) {
	h := newTestEditor(t)
	e := echo.New()
	e.PUT("/tables/:number/seats/:seat", h.AssignSeat)

	rec := doJSON(e, http.MethodPut, "/tables/99/seats/0", `{"guest":"Jane Doe"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestPointerClickSelects(t *testing.T) {
	h := newTestEditor(t)
	e := echo.New()
	e.POST("/pointer/down", h.PointerDown)
	e.POST("/pointer/up", h.PointerUp)

	rec := doJSON(e, http.MethodPost, "/pointer/down", `{"table":3,"x":100,"y":100}`)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("down status = %d, want 204", rec.Code)
	}
	rec = doJSON(e, http.MethodPost, "/pointer/up", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("up status = %d, want 200", rec.Code)
	}
	var resp struct {
		Selected int  `json:"selected"`
		Dragged  bool `json:"dragged"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Selected != 3 || resp.Dragged {
		t.Fatalf("up = (%d, %v), want (3, false)", resp.Selected, resp.Dragged)
	}
}

func TestSearchMissKeepsSelection(t *testing.T) {
	h := newTestEditor(t)
	e := echo.New()
	e.PUT("/tables/:number/seats/:seat", h.AssignSeat)
	e.POST("/select", h.Select)
	e.GET("/search", h.Search)

	doJSON(e, http.MethodPut, "/tables/4/seats/1", `{"guest":"Sam Lee"}`)
	doJSON(e, http.MethodPost, "/select", `{"table":2}`)

	rec := doJSON(e, http.MethodGet, "/search?q=nobody", "")
	var miss struct {
		Found    bool `json:"found"`
		Selected int  `json:"selected"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &miss); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if miss.Found || miss.Selected != 2 {
		t.Fatalf("miss = (%v, %d), want (false, 2)", miss.Found, miss.Selected)
	}

	rec = doJSON(e, http.MethodGet, "/search?q=sam", "")
	var hit struct {
		Found bool `json:"found"`
		Table struct {
			Number int `json:"number"`
		} `json:"table"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &hit); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !hit.Found || hit.Table.Number != 4 {
		t.Fatalf("hit = (%v, %d), want (true, 4)", hit.Found, hit.Table.Number)
	}
}

func TestZoomClamp(t *testing.T) {
	h := newTestEditor(t)
	e := echo.New()
	e.POST("/zoom", h.Zoom)

	rec := doJSON(e, http.MethodPost, "/zoom", `{"delta":100}`)
	var resp struct {
		Zoom float64 `json:"zoom"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Zoom != editor.ZoomMax {
		t.Fatalf("zoom = %v, want %v", resp.Zoom, editor.ZoomMax)
	}
}

func TestImportRejectsMalformed(t *testing.T) {
	h := newTestEditor(t)
	e := echo.New()
	e.POST("/layout/import", h.Import)

	rec := doJSON(e, http.MethodPost, "/layout/import", `{"tables": "nope"`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
