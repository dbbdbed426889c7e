package auth

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes sets up all auth routes on the given group (mounted at
// /api/auth). Register and login are public; verify requires a bearer token
// but is exempt from rate limit counting so session restoration on app
// start never burns the caller's auth budget.
//
// The auth-tier rate limiter is passed in rather than constructed here so
// all tiers share one Redis-backed limiter configured in app setup.
func RegisterRoutes(g *echo.Group, h *Handler, service AuthService, authLimit echo.MiddlewareFunc) {
	g.POST("/register", h.Register, authLimit)
	g.POST("/login", h.Login, authLimit)
	g.POST("/verify", h.Verify, RequireAuth(service))
}
