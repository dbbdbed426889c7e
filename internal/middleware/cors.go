package middleware

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Preflight and expose header values are constant for the whole API, so
// they are joined once here instead of per request.
const (
	corsAllowMethods = "GET, POST, PUT, PATCH, DELETE, OPTIONS"
	corsAllowHeaders = "Content-Type, Authorization, X-Requested-With"
	corsMaxAge       = "3600"

	// The SPA reads the rate limit headers to surface retry guidance
	// without parsing error bodies.
	corsExposeHeaders = "X-RateLimit-Limit, X-RateLimit-Remaining, X-RateLimit-Reset"
)

// CORSConfig holds configuration for the CORS middleware.
type CORSConfig struct {
	// AllowedOrigins lists the origins permitted to call the API
	// cross-origin, e.g. the Vite dev server in development and the
	// static host serving the SPA in production. "*" allows all.
	AllowedOrigins []string

	// AllowCredentials marks responses so the browser includes cookies
	// and auth headers on cross-origin requests.
	AllowCredentials bool
}

// CORS returns middleware that answers preflights and marks responses for
// allowed origins. Requests from unlisted origins pass through without
// CORS headers; the browser blocks them on the client side.
func CORS(cfg CORSConfig) echo.MiddlewareFunc {
	allowAll := false
	origins := make(map[string]struct{}, len(cfg.AllowedOrigins))
	for _, o := range cfg.AllowedOrigins {
		if o == "*" {
			allowAll = true
		}
		origins[o] = struct{}{}
	}

	// A wildcard origin combined with credentials would let any site make
	// authenticated calls. Keep the wildcard but refuse to send credentials.
	credentials := cfg.AllowCredentials
	if allowAll && credentials {
		slog.Warn("CORS allows all origins; disabling Access-Control-Allow-Credentials")
		credentials = false
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			origin := c.Request().Header.Get("Origin")
			if origin == "" {
				// Same-origin request.
				return next(c)
			}

			if _, ok := origins[origin]; !ok && !allowAll {
				return next(c)
			}

			h := c.Response().Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Vary", "Origin")
			if credentials {
				h.Set("Access-Control-Allow-Credentials", "true")
			}

			if c.Request().Method == http.MethodOptions {
				h.Set("Access-Control-Allow-Methods", corsAllowMethods)
				h.Set("Access-Control-Allow-Headers", corsAllowHeaders)
				h.Set("Access-Control-Max-Age", corsMaxAge)
				return c.NoContent(http.StatusNoContent)
			}

			h.Set("Access-Control-Expose-Headers", corsExposeHeaders)
			return next(c)
		}
	}
}
