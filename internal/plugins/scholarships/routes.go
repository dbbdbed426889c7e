package scholarships

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes sets up the scholarship routes on an authenticated group
// (mounted at /api/scholarships). Every role may list; the service narrows
// the result set to the caller's scope.
func RegisterRoutes(g *echo.Group, h *Handler) {
	g.GET("", h.List)
	g.GET("/:id", h.Get)
}
