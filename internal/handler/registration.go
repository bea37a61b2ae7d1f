package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-seating/internal/repository"
)

// RegistrationHandler serves the public registration flow (invitation
// lookup and plus-one signup) and the admin invitation management.
type RegistrationHandler struct {
	Guests *repository.GuestRepo
}

func NewRegistrationHandler(g *repository.GuestRepo) *RegistrationHandler {
	if g == nil {
		panic("nil guest repo passed to NewRegistrationHandler")
	}
	return &RegistrationHandler{Guests: g}
}

// Lookup finds an invitation by email and returns it together with the
// plus-ones registered so far and how many slots remain.
func (h *RegistrationHandler) Lookup(c echo.Context) error {
	email := strings.TrimSpace(c.QueryParam("email"))
	if email == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	inv, err := h.Guests.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrInvitationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "invitation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "lookup failed"})
	}
	plusOnes, err := h.Guests.PlusOnesFor(ctx, inv.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "lookup failed"})
	}

	remaining := inv.PartySize - 1 - len(plusOnes)
	if remaining < 0 {
		remaining = 0
	}
	return c.JSON(http.StatusOK, echo.Map{
		"invitation":      inv,
		"plus_ones":       plusOnes,
		"slots_remaining": remaining,
	})
}

// AddPlusOne registers an additional attendee under an invitation. The
// party size caps plus-ones; at the cap the request is refused.
func (h *RegistrationHandler) AddPlusOne(c echo.Context) error {
	var req struct {
		Email        string `json:"email"` // invitee email identifying the invitation
		Name         string `json:"name"`  // plus-one full name
		PlusOneEmail string `json:"plus_one_email"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Email == "" || req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email and name required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	inv, err := h.Guests.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrInvitationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "invitation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "lookup failed"})
	}

	id, err := h.Guests.CreatePlusOne(ctx, inv.ID, req.Name, req.PlusOneEmail)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "party is full"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "register failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id, "name": req.Name})
}

// CreateInvitation adds a party to the invitation list (admin only).
func (h *RegistrationHandler) CreateInvitation(c echo.Context) error {
	var req struct {
		Name      string `json:"name"`
		Email     string `json:"email"`
		PartySize int    `json:"party_size"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if req.Name == "" || req.Email == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and email required"})
	}
	if req.PartySize < 1 {
		req.PartySize = 1
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	id, err := h.Guests.CreateInvitation(ctx, req.Name, req.Email, req.PartySize)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already invited"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id})
}

// ListInvitations returns the full invitation list (admin only).
func (h *RegistrationHandler) ListInvitations(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	invs, err := h.Guests.ListInvitations(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"invitations": invs})
}
