package students

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/campuskit/scholarbase/internal/apperror"
	"github.com/campuskit/scholarbase/internal/plugins/auth"
)

// Handler handles the student directory HTTP endpoints.
type Handler struct {
	service StudentService
}

// NewHandler creates a new students handler with the given service.
func NewHandler(service StudentService) *Handler {
	return &Handler{service: service}
}

// List returns the students visible to the caller (GET /api/students).
func (h *Handler) List(c echo.Context) error {
	who, ok := auth.GetIdentity(c)
	if !ok {
		return apperror.NewUnauthorized("You are not logged in! Please log in to get access")
	}

	students, err := h.service.ListFor(c.Request().Context(), who)
	if err != nil {
		return err
	}
	if students == nil {
		students = []Student{}
	}

	return c.JSON(http.StatusOK, students)
}

// Get returns a single student (GET /api/students/:id).
func (h *Handler) Get(c echo.Context) error {
	who, ok := auth.GetIdentity(c)
	if !ok {
		return apperror.NewUnauthorized("You are not logged in! Please log in to get access")
	}

	student, err := h.service.GetFor(c.Request().Context(), who, c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, student)
}
