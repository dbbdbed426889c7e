package students

import (
	"github.com/labstack/echo/v4"

	"github.com/campuskit/scholarbase/internal/plugins/auth"
)

// RegisterRoutes sets up the student directory routes on an authenticated
// group (mounted at /api/students). Listing is faculty-only; a student may
// still fetch their own record by ID.
func RegisterRoutes(g *echo.Group, h *Handler) {
	g.GET("", h.List, auth.RequireRoles(auth.RoleSupervisor, auth.RoleHOD, auth.RoleDean))
	g.GET("/:id", h.Get)
}
