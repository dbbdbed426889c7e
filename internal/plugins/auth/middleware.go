package auth

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/campuskit/scholarbase/internal/apperror"
)

// Context keys for storing the authenticated identity in the Echo context.
// Other plugins use these keys (via the exported getter functions below)
// to access the authenticated user's information.
const (
	contextKeyIdentity = "auth_identity"
	contextKeyUserID   = "auth_user_id"
)

// RequireAuth returns middleware that gates a route group on a valid bearer
// token. The request walks a fixed state machine: no token rejects with
// 401; a present token is verified (signature, expiry); the subject is
// re-validated against the credential store; the password-change staleness
// check runs against the loaded record; only then is the Identity attached
// to the context and the request passed through. The middleware never
// mutates the credential store.
//
// Must run before any RequireRoles guard on the same group.
func RequireAuth(service AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tokenStr, ok := bearerToken(c.Request().Header.Get("Authorization"))
			if !ok {
				return apperror.NewUnauthorized("No authentication token, access denied")
			}

			user, err := service.Authenticate(c.Request().Context(), tokenStr)
			if err != nil {
				return err
			}

			identity := IdentityOf(user)
			c.Set(contextKeyIdentity, identity)
			c.Set(contextKeyUserID, identity.ID)

			return next(c)
		}
	}
}

// RequireRoles returns middleware enforcing a declarative role allow-list.
// It depends on the Identity attached by RequireAuth: a missing identity is
// a wiring error and fails closed as unauthorized rather than letting the
// request through.
func RequireRoles(roles ...Role) echo.MiddlewareFunc {
	allowed := make(map[Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, ok := c.Get(contextKeyIdentity).(Identity)
			if !ok {
				return apperror.NewUnauthorized("You are not logged in! Please log in to get access")
			}

			if !allowed[identity.Role] {
				return apperror.NewForbidden("You do not have permission to perform this action")
			}

			return next(c)
		}
	}
}

// --- Exported getters for other plugins ---

// GetIdentity retrieves the authenticated identity from the Echo context.
// The second return is false if the request is not authenticated
// (middleware not applied).
func GetIdentity(c echo.Context) (Identity, bool) {
	identity, ok := c.Get(contextKeyIdentity).(Identity)
	return identity, ok
}

// GetUserID retrieves the authenticated user's ID from the Echo context.
// Returns empty string if the request is not authenticated.
func GetUserID(c echo.Context) string {
	id, ok := c.Get(contextKeyUserID).(string)
	if !ok {
		return ""
	}
	return id
}

// bearerToken extracts the token from an "Authorization: Bearer <token>"
// header value. Returns false for a missing or malformed header.
func bearerToken(value string) (string, bool) {
	const prefix = "Bearer "
	if !strings.HasPrefix(value, prefix) {
		return "", false
	}
	tok := strings.TrimSpace(value[len(prefix):])
	if tok == "" {
		return "", false
	}
	return tok, true
}
