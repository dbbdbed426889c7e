// Package session holds the client-side session state machine. One Store
// instance backs a whole frontend: it owns the current authentication
// state, drives login/logout against a pluggable backend, and persists the
// session across restarts through a Storage.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/campuskit/scholarbase/client/api"
	"github.com/campuskit/scholarbase/internal/plugins/auth"
)

// State is a snapshot of the session. Consumers receive copies; mutating a
// snapshot never affects the store.
//
// Exactly one of these shapes is ever observable:
// logged out {false, nil, false, ""}, validating {false, nil, true, ""},
// authenticated {true, user, false, ""}, failed {false, nil, false, msg}.
type State struct {
	IsAuthenticated bool
	User            *auth.Identity
	Loading         bool
	Error           string
}

// defaultValidateTimeout bounds the session-restore network call made by
// Initialize so a hung backend never leaves the app stuck on loading.
const defaultValidateTimeout = 10 * time.Second

// Authenticator is the backend the store drives. Satisfied by both
// implementations in client/api.
type Authenticator = api.Authenticator

// Store is the session state container. All operations are serialized: a
// login cannot interleave with a logout, and repeating an operation while
// it is already satisfied is a no-op. State reads never block on in-flight
// network calls.
type Store struct {
	auth    Authenticator
	storage Storage
	timeout time.Duration

	// opMu serializes the compound operations (Initialize, Login, Signup,
	// Logout), each of which does network I/O between state transitions.
	opMu sync.Mutex

	// stateMu guards state and token for readers.
	stateMu sync.RWMutex
	state   State
	token   string
}

// Option configures a Store.
type Option func(*Store)

// WithValidateTimeout overrides the session-restore timeout.
func WithValidateTimeout(d time.Duration) Option {
	return func(s *Store) { s.timeout = d }
}

// NewStore creates a logged-out store. Call Initialize to restore a
// persisted session.
func NewStore(backend Authenticator, storage Storage, opts ...Option) *Store {
	s := &Store{
		auth:    backend,
		storage: storage,
		timeout: defaultValidateTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns a snapshot of the current session state.
func (s *Store) State() State {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()

	snapshot := s.state
	if s.state.User != nil {
		u := *s.state.User
		snapshot.User = &u
	}
	return snapshot
}

// Token returns the current bearer token, or "" when logged out. Used by
// API clients to authenticate subsequent requests.
func (s *Store) Token() string {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.token
}

// Initialize restores a persisted session. No stored token leaves the
// store logged out with no error. A stored token is validated against the
// backend under the configured timeout; if the backend rejects it (expired,
// password changed, account gone) or cannot be reached in time, the stored
// session is discarded and the state reads "Session expired". Calling
// Initialize again after a session is already live revalidates it.
func (s *Store) Initialize(ctx context.Context) {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	stored, err := s.storage.Load()
	if err != nil {
		// Covers ErrNoSession and unreadable/corrupt stores alike: start
		// logged out rather than failing app startup.
		s.setLoggedOut("")
		return
	}

	s.setValidating()

	vctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	user, err := s.auth.Validate(vctx, stored.Token)
	if err != nil {
		s.storage.Clear()
		s.setLoggedOut("Session expired")
		return
	}

	s.setAuthenticated(stored.Token, user)
}

// Login authenticates with the backend and, on success, persists and
// activates the session. On failure the state carries the backend's
// message and the store remains logged out.
func (s *Store) Login(ctx context.Context, email, password string) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.setValidating()

	sess, err := s.auth.Login(ctx, email, password)
	if err != nil {
		s.setLoggedOut(err.Error())
		return err
	}

	s.storage.Save(&StoredSession{Token: sess.Token, User: sess.User})
	s.setAuthenticated(sess.Token, &sess.User)
	return nil
}

// Signup registers a new account and activates its session, with the same
// transitions as Login.
func (s *Store) Signup(ctx context.Context, name, email, password string) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.setValidating()

	sess, err := s.auth.Signup(ctx, name, email, password)
	if err != nil {
		s.setLoggedOut(err.Error())
		return err
	}

	s.storage.Save(&StoredSession{Token: sess.Token, User: sess.User})
	s.setAuthenticated(sess.Token, &sess.User)
	return nil
}

// Logout ends the session: best-effort backend revocation, then the stored
// session and in-memory state are cleared unconditionally. Logging out
// while already logged out is a no-op.
func (s *Store) Logout(ctx context.Context) {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	token := s.Token()
	if token != "" {
		// Revocation failure doesn't keep the session alive locally.
		s.auth.Logout(ctx, token)
	}

	s.storage.Clear()
	s.setLoggedOut("")
}

// ClearError drops a lingering failure message, e.g. when the login form
// resets. All other state is untouched.
func (s *Store) ClearError() {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	s.state.Error = ""
}

func (s *Store) setValidating() {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	s.state = State{Loading: true}
	s.token = ""
}

func (s *Store) setAuthenticated(token string, user *auth.Identity) {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	u := *user
	s.state = State{IsAuthenticated: true, User: &u}
	s.token = token
}

func (s *Store) setLoggedOut(errMsg string) {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	s.state = State{Error: errMsg}
	s.token = ""
}
