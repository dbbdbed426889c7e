package faculty

import (
	"github.com/labstack/echo/v4"

	"github.com/campuskit/scholarbase/internal/plugins/auth"
)

// RegisterRoutes sets up the faculty directory routes on an authenticated
// group (mounted at /api/faculty). HODs and the dean only.
func RegisterRoutes(g *echo.Group, h *Handler) {
	g.GET("", h.List, auth.RequireRoles(auth.RoleHOD, auth.RoleDean))
}
