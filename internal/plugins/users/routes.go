package users

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes sets up the profile routes on an authenticated group
// (mounted at /api/users). The password change sits behind the strict rate
// limit tier since it is the most abusable operation here.
func RegisterRoutes(g *echo.Group, h *Handler, strictLimit echo.MiddlewareFunc) {
	g.GET("/me", h.Me)
	g.PUT("/me", h.UpdateMe)
	g.PUT("/me/password", h.ChangePassword, strictLimit)
}
