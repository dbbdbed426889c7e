package api

import (
	"context"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/campuskit/scholarbase/internal/plugins/auth"
)

// FixtureAuthenticator answers from a predefined credential set without a
// server. Issued tokens are random and only valid against the same instance,
// which matches how a frontend dev session actually uses it.
type FixtureAuthenticator struct {
	mu       sync.Mutex
	accounts map[string]fixtureAccount // keyed by lowercase email
	sessions map[string]auth.Identity  // token -> identity
}

type fixtureAccount struct {
	password string
	identity auth.Identity
}

// NewFixtureAuthenticator creates a fixture backend preloaded with the
// institute's predefined accounts, all with password "password123".
func NewFixtureAuthenticator() *FixtureAuthenticator {
	a := &FixtureAuthenticator{
		accounts: make(map[string]fixtureAccount),
		sessions: make(map[string]auth.Identity),
	}
	for _, acct := range fixtureAccounts() {
		a.accounts[strings.ToLower(acct.identity.Email)] = acct
	}
	return a
}

func (a *FixtureAuthenticator) Login(ctx context.Context, email, password string) (*Session, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	acct, ok := a.accounts[strings.ToLower(strings.TrimSpace(email))]
	if !ok || acct.password != password {
		return nil, &Error{Code: http.StatusBadRequest, Message: "Invalid credentials"}
	}
	return a.issue(acct.identity), nil
}

func (a *FixtureAuthenticator) Signup(ctx context.Context, name, email, password string) (*Session, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	key := strings.ToLower(strings.TrimSpace(email))
	if _, exists := a.accounts[key]; exists {
		return nil, &Error{Code: http.StatusBadRequest, Message: "User already exists"}
	}

	acct := fixtureAccount{
		password: password,
		identity: auth.Identity{
			ID:    uuid.NewString(),
			Email: key,
			Name:  name,
			Role:  auth.RoleStudent,
		},
	}
	a.accounts[key] = acct
	return a.issue(acct.identity), nil
}

func (a *FixtureAuthenticator) Validate(ctx context.Context, token string) (*auth.Identity, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	identity, ok := a.sessions[token]
	if !ok {
		return nil, &Error{Code: http.StatusUnauthorized, Message: "Invalid token. Please log in again"}
	}
	return &identity, nil
}

func (a *FixtureAuthenticator) Logout(ctx context.Context, token string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	delete(a.sessions, token)
	return nil
}

// issue records a new session token for the identity. Caller holds a.mu.
func (a *FixtureAuthenticator) issue(identity auth.Identity) *Session {
	token := uuid.NewString()
	a.sessions[token] = identity
	return &Session{Token: token, User: identity}
}

// fixtureAccounts builds the credential set from the server's predefined
// account list so either backend accepts the same logins.
func fixtureAccounts() []fixtureAccount {
	accounts := make([]fixtureAccount, 0, len(auth.SeedAccounts))
	for _, s := range auth.SeedAccounts {
		identity := auth.Identity{
			ID:          uuid.NewString(),
			Email:       s.Email,
			Name:        s.Name,
			Role:        s.Role,
			Department:  s.Department,
			Designation: s.Designation,
		}
		accounts = append(accounts, fixtureAccount{
			password: "password123",
			identity: identity,
		})
	}
	return accounts
}
