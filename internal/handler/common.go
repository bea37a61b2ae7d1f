package handler // handler defines the HTTP handlers

import (
	"errors"
	"strconv"

	"github.com/labstack/echo/v4"
)

// getUserID extracts the user_id claim from echo.Context as uint64.
func getUserID(c echo.Context) (uint64, error) {
	switch t := c.Get("user_id").(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// clientID identifies one editor client for per-client state (zoom,
// selection, drag gesture). Browser tabs send X-Client-ID; without it
// the authenticated user ID keys the state, so two tabs of the same
// admin share a cursor unless they identify themselves.
func clientID(c echo.Context) string {
	if id := c.Request().Header.Get("X-Client-ID"); id != "" {
		return id
	}
	if uid, err := getUserID(c); err == nil {
		return "user:" + strconv.FormatUint(uid, 10)
	}
	return "anon"
}

// pathInt parses a numeric path parameter.
func pathInt(c echo.Context, name string) (int, error) {
	n, err := strconv.Atoi(c.Param(name))
	if err != nil {
		return 0, errors.New("invalid " + name)
	}
	return n, nil
}
