package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-seating/internal/handler"
	"github.com/iliyamo/event-seating/internal/middleware"
)

// RegisterAdmin registers the seating editor endpoints under /v1/admin.
// All routes require a valid JWT with the ADMIN role.
func RegisterAdmin(e *echo.Echo, ed *handler.EditorHandler, reg *handler.RegistrationHandler, jwtSecret string) {
	g := e.Group(
		"/v1/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("ADMIN"),
	)

	// ---- Layout ----
	g.GET("/layout", ed.Layout)
	g.GET("/layout/status", ed.Status)
	g.POST("/layout/import", ed.Import)
	g.POST("/layout/reset", ed.Reset)
	g.GET("/layout/export.json", ed.ExportJSON)
	g.GET("/layout/export.csv", ed.ExportCSV)

	// ---- Tables and seats ----
	g.POST("/tables", ed.AddTable)
	g.DELETE("/tables/:number", ed.DeleteTable)
	g.PATCH("/tables/:number/position", ed.MoveTable)
	g.POST("/tables/:number/seats", ed.AddSeat)
	g.DELETE("/tables/:number/seats", ed.RemoveSeat)
	g.PUT("/tables/:number/seats/:seat", ed.AssignSeat)

	// ---- Pointer gestures, zoom, selection ----
	g.POST("/pointer/down", ed.PointerDown)
	g.POST("/pointer/move", ed.PointerMove)
	g.POST("/pointer/up", ed.PointerUp)
	g.POST("/pointer/cancel", ed.PointerCancel)
	g.POST("/zoom", ed.Zoom)
	g.POST("/select", ed.Select)
	g.GET("/search", ed.Search)

	// ---- Invitation list ----
	g.POST("/invitations", reg.CreateInvitation)
	g.GET("/invitations", reg.ListInvitations)
}
