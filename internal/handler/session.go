package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-booking/internal/repository"
)

// CatalogHandler exposes the session and hall records the booking page
// is composed from.
type CatalogHandler struct {
	Catalog Catalog
}

func NewCatalogHandler(catalog Catalog) *CatalogHandler {
	if catalog == nil {
		panic("nil catalog passed to NewCatalogHandler")
	}
	return &CatalogHandler{Catalog: catalog}
}

// GetSession handles GET /v1/sessions/:id.
func (h *CatalogHandler) GetSession(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return message(c, http.StatusBadRequest, msgInvalidID)
	}
	s, ok, err := lookupSession(c, h.Catalog, id)
	if !ok {
		return err
	}
	return c.JSON(http.StatusOK, s)
}

// GetHall handles GET /v1/halls/:id.
func (h *CatalogHandler) GetHall(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return message(c, http.StatusBadRequest, msgInvalidID)
	}
	hall, err := h.Catalog.GetHall(c.Request().Context(), id)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return message(c, http.StatusNotFound, msgHallNotFound)
	case err != nil:
		return message(c, http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, hall)
}
