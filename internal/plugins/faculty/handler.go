package faculty

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/campuskit/scholarbase/internal/apperror"
	"github.com/campuskit/scholarbase/internal/plugins/auth"
)

// Handler handles the faculty directory HTTP endpoints.
type Handler struct {
	service FacultyService
}

// NewHandler creates a new faculty handler with the given service.
func NewHandler(service FacultyService) *Handler {
	return &Handler{service: service}
}

// List returns the supervisors visible to the caller (GET /api/faculty).
func (h *Handler) List(c echo.Context) error {
	who, ok := auth.GetIdentity(c)
	if !ok {
		return apperror.NewUnauthorized("You are not logged in! Please log in to get access")
	}

	faculty, err := h.service.ListFor(c.Request().Context(), who)
	if err != nil {
		return err
	}
	if faculty == nil {
		faculty = []Faculty{}
	}

	return c.JSON(http.StatusOK, faculty)
}
