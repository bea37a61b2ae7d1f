package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-seating/internal/checkin"
	"github.com/iliyamo/event-seating/internal/editor"
	"github.com/iliyamo/event-seating/internal/queue"
	"github.com/iliyamo/event-seating/internal/repository"
	queue_publisher "github.com/iliyamo/event-seating/internal/service"
)

// CheckInHandler serves the door view: the guest directory, the check-in
// history and the check-in/check-out actions. Whether a guest may check
// in depends on the live seating layout, so the handler consults the
// editor session for assignments.
type CheckInHandler struct {
	Session  *editor.Session
	CheckIns *repository.CheckInRepo
	Guests   *repository.GuestRepo
}

func NewCheckInHandler(s *editor.Session, ci *repository.CheckInRepo, g *repository.GuestRepo) *CheckInHandler {
	if s == nil || ci == nil || g == nil {
		panic("nil dependency passed to NewCheckInHandler")
	}
	return &CheckInHandler{Session: s, CheckIns: ci, Guests: g}
}

// Directory lists every known guest (invitees and plus-ones) with their
// table assignment and current check-in state.
func (h *CheckInHandler) Directory(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	entries, err := h.Guests.Directory(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "directory failed"})
	}

	type row struct {
		Name        string `json:"name"`
		Email       string `json:"email,omitempty"`
		Invited     bool   `json:"invited"`
		TableNumber int    `json:"table_number,omitempty"`
		CheckedIn   bool   `json:"checked_in"`
	}
	out := make([]row, 0, len(entries))
	for _, e := range entries {
		r := row{Name: e.Name, Email: e.Email, Invited: e.Invited}
		if tn, ok := h.Session.Assignment(e.Name); ok {
			r.TableNumber = tn
		}
		hist, err := h.CheckIns.EntriesForGuest(ctx, e.Name)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "directory failed"})
		}
		r.CheckedIn = checkin.IsCheckedIn(hist)
		out = append(out, r)
	}
	return c.JSON(http.StatusOK, echo.Map{"guests": out})
}

// Entries returns the full check-in history, newest first.
func (h *CheckInHandler) Entries(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	entries, err := h.CheckIns.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"entries": entries})
}

// CheckIn records a guest's arrival. Guests without a table assignment
// and guests whose latest entry is still open are refused.
func (h *CheckInHandler) CheckIn(c echo.Context) error {
	var req struct {
		Guest string `json:"guest"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	guest := strings.TrimSpace(req.Guest)
	if guest == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "guest required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	tableNumber, hasTable := h.Session.Assignment(guest)
	hist, err := h.CheckIns.EntriesForGuest(ctx, guest)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "history failed"})
	}
	if err := checkin.CanCheckIn(hasTable, hist); err != nil {
		switch {
		case errors.Is(err, checkin.ErrNoTable):
			return c.JSON(http.StatusConflict, echo.Map{"error": "guest has no table assignment"})
		case errors.Is(err, checkin.ErrAlreadyCheckedIn):
			return c.JSON(http.StatusConflict, echo.Map{"error": "guest is already checked in"})
		default:
			return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
		}
	}

	entry, err := h.CheckIns.Insert(ctx, guest, tableNumber)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "check-in failed"})
	}

	h.publish(c, entry, "check_in")
	return c.JSON(http.StatusCreated, entry)
}

// CheckOut closes a guest's open check-in entry.
func (h *CheckInHandler) CheckOut(c echo.Context) error {
	var req struct {
		Guest string `json:"guest"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	guest := strings.TrimSpace(req.Guest)
	if guest == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "guest required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	hist, err := h.CheckIns.EntriesForGuest(ctx, guest)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "history failed"})
	}
	if err := checkin.CanCheckOut(hist); err != nil {
		return c.JSON(http.StatusConflict, echo.Map{"error": "guest is not checked in"})
	}
	if err := h.CheckIns.CloseOpen(ctx, guest); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "check-out failed"})
	}

	latest, _ := checkin.Latest(hist)
	latest.GuestName = guest
	h.publish(c, latest, "check_out")
	return c.NoContent(http.StatusNoContent)
}

// publish emits the event asynchronously; a broker outage never fails
// the door flow.
func (h *CheckInHandler) publish(c echo.Context, entry checkin.Entry, action string) {
	staffID, _ := getUserID(c)
	ev := queue.CheckInRecordedEvent{
		EntryID:     entry.ID,
		GuestName:   entry.GuestName,
		TableNumber: entry.TableNumber,
		Action:      action,
		StaffID:     staffID,
		RecordedAt:  time.Now().UTC().Format(time.RFC3339),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = queue_publisher.PublishCheckInRecorded(ctx, ev)
	}()
}
