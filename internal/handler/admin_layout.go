package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-seating/internal/editor"
	"github.com/iliyamo/event-seating/internal/layout"
)

// EditorHandler exposes the seating editor: the shared table layout plus
// the per-client gesture, zoom and selection state. All state lives in
// the editor session; handlers translate HTTP to session calls and map
// its sentinel errors to status codes.
type EditorHandler struct {
	Session *editor.Session
}

func NewEditorHandler(s *editor.Session) *EditorHandler {
	if s == nil {
		panic("nil session passed to NewEditorHandler")
	}
	return &EditorHandler{Session: s}
}

// tableView is a table plus its projected seat coordinates, so the
// editor view renders without redoing the angle math.
type tableView struct {
	*layout.Table
	SeatPositions [][2]float64 `json:"seat_positions"`
}

func tableViews(l *layout.Layout) []tableView {
	out := make([]tableView, 0, len(l.Tables))
	for _, t := range l.Tables {
		tv := tableView{Table: t, SeatPositions: make([][2]float64, 0, len(t.Seats))}
		for _, s := range t.Seats {
			x, y := layout.SeatPosition(t.X, t.Y, s.Angle, layout.SeatRadius)
			tv.SeatPositions = append(tv.SeatPositions, [2]float64{x, y})
		}
		out = append(out, tv)
	}
	return out
}

// Layout returns the full layout plus the saver status and the calling
// client's selection, everything the editor view needs to render.
func (h *EditorHandler) Layout(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"layout":   echo.Map{"tables": tableViews(h.Session.Tables())},
		"status":   h.Session.Status(),
		"selected": h.Session.Selected(clientID(c)),
	})
}

// Status reports only the persistence state, polled by the editor UI to
// drive its saved/saving/unsynced indicator.
func (h *EditorHandler) Status(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Session.Status())
}

// AddTable creates a table with the next free number at a random
// position and returns it.
func (h *EditorHandler) AddTable(c echo.Context) error {
	return c.JSON(http.StatusCreated, h.Session.AddTable())
}

// DeleteTable removes a table. Unlike edits, deletion is persisted
// immediately rather than debounced.
func (h *EditorHandler) DeleteTable(c echo.Context) error {
	number, err := pathInt(c, "number")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if err := h.Session.DeleteTable(c.Request().Context(), number); err != nil {
		return editorError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// AddSeat appends a seat to a table. At the 14-seat cap the layout is
// unchanged and the response says so.
func (h *EditorHandler) AddSeat(c echo.Context) error {
	number, err := pathInt(c, "number")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	t, changed, err := h.Session.AddSeat(number)
	if err != nil {
		return editorError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"table": t, "changed": changed})
}

// RemoveSeat drops a table's last seat; a single remaining seat stays.
func (h *EditorHandler) RemoveSeat(c echo.Context) error {
	number, err := pathInt(c, "number")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	t, changed, err := h.Session.RemoveSeat(number)
	if err != nil {
		return editorError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"table": t, "changed": changed})
}

// AssignSeat sets or clears one seat's guest. Assigning a guest already
// seated elsewhere is refused with 409 unless force is set.
func (h *EditorHandler) AssignSeat(c echo.Context) error {
	number, err := pathInt(c, "number")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	seat, err := pathInt(c, "seat")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	var req struct {
		Guest string `json:"guest"`
		Tag   string `json:"tag"`
		Note  string `json:"note"`
		Force bool   `json:"force"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := h.Session.AssignSeat(number, seat, req.Guest, req.Tag, req.Note, req.Force); err != nil {
		var dup *editor.DuplicateGuestError
		if errors.As(err, &dup) {
			return c.JSON(http.StatusConflict, echo.Map{
				"error":        "guest already seated",
				"guest":        dup.Guest,
				"table_number": dup.TableNumber,
				"seat_index":   dup.SeatIndex,
			})
		}
		return editorError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// MoveTable places a table directly at canvas coordinates (keyboard
// nudge, programmatic arrange). Positions clamp to the canvas.
func (h *EditorHandler) MoveTable(c echo.Context) error {
	number, err := pathInt(c, "number")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	var req struct {
		X float64 `json:"x"`
		Y float64 `json:"y"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	t, err := h.Session.MoveTable(number, req.X, req.Y)
	if err != nil {
		return editorError(c, err)
	}
	return c.JSON(http.StatusOK, t)
}

// PointerDown starts a drag gesture on a table at screen coordinates.
func (h *EditorHandler) PointerDown(c echo.Context) error {
	var req struct {
		Table int     `json:"table"`
		X     float64 `json:"x"`
		Y     float64 `json:"y"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := h.Session.PointerDown(clientID(c), req.Table, req.X, req.Y); err != nil {
		return editorError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// PointerMove feeds gesture coordinates. Below the drag threshold the
// table has not moved and the response carries moved=false.
func (h *EditorHandler) PointerMove(c echo.Context) error {
	var req struct {
		X float64 `json:"x"`
		Y float64 `json:"y"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	t, moved := h.Session.PointerMove(clientID(c), req.X, req.Y)
	if !moved {
		return c.JSON(http.StatusOK, echo.Map{"moved": false})
	}
	return c.JSON(http.StatusOK, echo.Map{"moved": true, "table": t})
}

// PointerUp ends the gesture: a click selects, a drag persists.
func (h *EditorHandler) PointerUp(c echo.Context) error {
	selected, dragged := h.Session.PointerUp(clientID(c))
	return c.JSON(http.StatusOK, echo.Map{"selected": selected, "dragged": dragged})
}

// PointerCancel aborts the gesture and snaps the table back.
func (h *EditorHandler) PointerCancel(c echo.Context) error {
	h.Session.PointerCancel(clientID(c))
	return c.NoContent(http.StatusNoContent)
}

// Zoom steps the client's zoom factor by delta increments of 0.1.
func (h *EditorHandler) Zoom(c echo.Context) error {
	var req struct {
		Delta int `json:"delta"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	z := h.Session.AdjustZoom(clientID(c), req.Delta)
	return c.JSON(http.StatusOK, echo.Map{"zoom": z})
}

// Select sets the client's selected table; 0 clears the selection.
func (h *EditorHandler) Select(c echo.Context) error {
	var req struct {
		Table int `json:"table"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := h.Session.Select(clientID(c), req.Table); err != nil {
		return editorError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Search finds the first table seating a guest whose name contains the
// query and selects it. A miss keeps the previous selection.
func (h *EditorHandler) Search(c echo.Context) error {
	query := strings.TrimSpace(c.QueryParam("q"))
	if query == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "q required"})
	}
	t, ok := h.Session.Search(clientID(c), query)
	if !ok {
		return c.JSON(http.StatusOK, echo.Map{"found": false, "selected": h.Session.Selected(clientID(c))})
	}
	return c.JSON(http.StatusOK, echo.Map{"found": true, "table": t})
}

// editorError maps session sentinel errors to HTTP status codes.
func editorError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, editor.ErrTableNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "table not found"})
	case errors.Is(err, editor.ErrSeatNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "seat not found"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "operation failed"})
	}
}
