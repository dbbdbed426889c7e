package scholarships

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/campuskit/scholarbase/internal/apperror"
	"github.com/campuskit/scholarbase/internal/plugins/auth"
)

// Handler handles the scholarship HTTP endpoints.
type Handler struct {
	service ScholarshipService
}

// NewHandler creates a new scholarships handler with the given service.
func NewHandler(service ScholarshipService) *Handler {
	return &Handler{service: service}
}

// List returns the awards visible to the caller (GET /api/scholarships).
func (h *Handler) List(c echo.Context) error {
	who, ok := auth.GetIdentity(c)
	if !ok {
		return apperror.NewUnauthorized("You are not logged in! Please log in to get access")
	}

	records, err := h.service.ListFor(c.Request().Context(), who)
	if err != nil {
		return err
	}
	if records == nil {
		records = []Scholarship{}
	}

	return c.JSON(http.StatusOK, records)
}

// Get returns a single award (GET /api/scholarships/:id).
func (h *Handler) Get(c echo.Context) error {
	who, ok := auth.GetIdentity(c)
	if !ok {
		return apperror.NewUnauthorized("You are not logged in! Please log in to get access")
	}

	record, err := h.service.GetFor(c.Request().Context(), who, c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, record)
}
