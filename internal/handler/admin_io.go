package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-seating/internal/layout"
)

// importMaxBytes caps uploaded layout documents.
const importMaxBytes = 1 << 20

// ExportJSON downloads the layout as a JSON document suitable for
// re-import.
func (h *EditorHandler) ExportJSON(c echo.Context) error {
	doc, err := h.Session.ExportJSON()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "export failed"})
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="layout.json"`)
	return c.Blob(http.StatusOK, echo.MIMEApplicationJSON, doc)
}

// ExportCSV downloads the printable seating list: one row per occupied
// seat, ordered by table then seat number.
func (h *EditorHandler) ExportCSV(c echo.Context) error {
	doc, err := h.Session.ExportCSV()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "export failed"})
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="seating-list.csv"`)
	return c.Blob(http.StatusOK, "text/csv", doc)
}

// Import replaces the whole layout from an uploaded JSON document. A
// document that does not parse leaves the current layout untouched.
func (h *EditorHandler) Import(c echo.Context) error {
	doc, err := io.ReadAll(io.LimitReader(c.Request().Body, importMaxBytes))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "read body failed"})
	}
	if err := h.Session.ImportLayout(c.Request().Context(), doc); err != nil {
		if errors.Is(err, layout.ErrInvalidDocument) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid layout document"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "import failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"layout": h.Session.Tables()})
}

// Reset discards the stored layout and reseeds the default arrangement.
func (h *EditorHandler) Reset(c echo.Context) error {
	if err := h.Session.ResetDefault(c.Request().Context()); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "reset failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"layout": h.Session.Tables()})
}
