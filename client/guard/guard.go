// Package guard decides what a frontend router should do with a navigation
// given the current session state. It is pure: no I/O, no state of its own,
// just the decision, so routers of any flavor can sit on top of it.
package guard

import (
	"github.com/campuskit/scholarbase/client/session"
	"github.com/campuskit/scholarbase/internal/plugins/auth"
)

// Requirement declares what a route needs from the session.
type Requirement struct {
	// RequireAuth gates the route behind a live session.
	RequireAuth bool

	// AllowedRoles narrows an authenticated route to the listed roles.
	// Empty means any authenticated role. Ignored when RequireAuth is false.
	AllowedRoles []auth.Role
}

// Action is what the router should do.
type Action int

const (
	// Allow renders the requested route.
	Allow Action = iota

	// Pending renders a placeholder while the session is still validating.
	// Never redirect on Pending: the session may turn out to be valid, and
	// bouncing the user to login just to bounce them back is the bug this
	// state exists to prevent.
	Pending

	// RedirectToLogin sends the user to the login page. Decision.Location
	// carries the originally requested path so login can return there.
	RedirectToLogin

	// RedirectToDashboard sends an authenticated user whose role is not
	// allowed here to their dashboard. A role mismatch is a navigation
	// error, not a security event, so it soft-fails rather than rendering
	// a forbidden page.
	RedirectToDashboard
)

// Decision is the guard's verdict for one navigation.
type Decision struct {
	Action Action

	// Location is the originally requested path, set on RedirectToLogin so
	// the login flow can navigate back after success.
	Location string
}

// Evaluate applies the requirement to the session state for a navigation
// to the given location.
func Evaluate(req Requirement, state session.State, location string) Decision {
	if !req.RequireAuth {
		return Decision{Action: Allow}
	}

	// An in-flight validation means we don't yet know who this is.
	if state.Loading {
		return Decision{Action: Pending}
	}

	if !state.IsAuthenticated || state.User == nil {
		return Decision{Action: RedirectToLogin, Location: location}
	}

	if len(req.AllowedRoles) > 0 && !roleAllowed(state.User.Role, req.AllowedRoles) {
		return Decision{Action: RedirectToDashboard}
	}

	return Decision{Action: Allow}
}

func roleAllowed(role auth.Role, allowed []auth.Role) bool {
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}
