package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-seating/internal/handler"
	"github.com/iliyamo/event-seating/internal/middleware"
)

// RegisterCheckIn registers the door view under /v1/checkin. STAFF run
// the door; ADMIN can step in too. cacheMW, when non-nil, caches the
// read-heavy directory endpoint.
func RegisterCheckIn(e *echo.Echo, ci *handler.CheckInHandler, jwtSecret string, cacheMW echo.MiddlewareFunc) {
	g := e.Group(
		"/v1/checkin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("ADMIN", "STAFF"),
	)

	if cacheMW != nil {
		g.GET("/directory", ci.Directory, cacheMW)
	} else {
		g.GET("/directory", ci.Directory)
	}
	g.GET("/entries", ci.Entries)
	g.POST("", ci.CheckIn)
	g.POST("/out", ci.CheckOut)
}
