package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-seating/internal/handler"
)

// RegisterPublic registers the unauthenticated registration flow:
// invitation lookup and plus-one signup. The caller supplies rate-limit
// and cache middleware so guests cannot hammer the lookup endpoint.
func RegisterPublic(e *echo.Echo, reg *handler.RegistrationHandler, mw ...echo.MiddlewareFunc) {
	g := e.Group("/v1/registration", mw...)
	g.GET("", reg.Lookup)
	g.POST("/plus-ones", reg.AddPlusOne)
}
