// Package api provides the client-side authenticator used by the session
// store. The interface is pluggable: the HTTP implementation talks to a
// running Scholarbase server, the fixture implementation answers from a
// predefined credential set so frontends can develop against the SDK with
// no server at all. Which one a program gets is decided once, where the
// session store is constructed.
package api

import (
	"context"
	"fmt"

	"github.com/campuskit/scholarbase/internal/plugins/auth"
)

// Session is what a successful login or signup yields: the bearer token
// plus the identity the server attached to it.
type Session struct {
	Token string        `json:"token"`
	User  auth.Identity `json:"user"`
}

// Authenticator is the session store's view of the auth backend.
type Authenticator interface {
	// Login exchanges credentials for a session.
	Login(ctx context.Context, email, password string) (*Session, error)

	// Signup registers a new account and returns its first session.
	Signup(ctx context.Context, name, email, password string) (*Session, error)

	// Validate checks a stored token against the backend and returns the
	// current identity. Fails if the token is expired, malformed, stale
	// after a password change, or its account no longer exists.
	Validate(ctx context.Context, token string) (*auth.Identity, error)

	// Logout invalidates the session server-side where the backend supports
	// it. Token-based backends have nothing to revoke, so this may be a no-op;
	// the session store clears local state regardless of the result.
	Logout(ctx context.Context, token string) error
}

// Error is a failure reported by the auth backend, carrying the HTTP-style
// status code and the human-readable message from the response envelope.
type Error struct {
	Code    int
	Message string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("auth request failed with status %d", e.Code)
}
