package session

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/campuskit/scholarbase/client/api"
	"github.com/campuskit/scholarbase/internal/plugins/auth"
)

func newTestStore(t *testing.T) (*Store, *api.FixtureAuthenticator, Storage) {
	t.Helper()
	backend := api.NewFixtureAuthenticator()
	storage := NewMemoryStorage()
	return NewStore(backend, storage), backend, storage
}

func assertLoggedOut(t *testing.T, state State, wantErr string) {
	t.Helper()
	if state.IsAuthenticated {
		t.Error("expected logged out")
	}
	if state.User != nil {
		t.Errorf("expected nil user, got %+v", state.User)
	}
	if state.Loading {
		t.Error("expected loading cleared")
	}
	if state.Error != wantErr {
		t.Errorf("expected error %q, got %q", wantErr, state.Error)
	}
}

func assertAuthenticated(t *testing.T, state State, email string) {
	t.Helper()
	if !state.IsAuthenticated {
		t.Fatal("expected authenticated")
	}
	if state.User == nil || state.User.Email != email {
		t.Fatalf("expected user %s, got %+v", email, state.User)
	}
	if state.Loading {
		t.Error("expected loading cleared")
	}
	if state.Error != "" {
		t.Errorf("expected no error, got %q", state.Error)
	}
}

func TestInitialize_NoStoredSession(t *testing.T) {
	store, _, _ := newTestStore(t)

	store.Initialize(context.Background())

	// No stored token is the quiet path: logged out, no error banner.
	assertLoggedOut(t, store.State(), "")
}

func TestLogin_Success(t *testing.T) {
	store, _, storage := newTestStore(t)

	err := store.Login(context.Background(), "dean@nitsrinagar.ac.in", "password123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertAuthenticated(t, store.State(), "dean@nitsrinagar.ac.in")
	if store.Token() == "" {
		t.Error("expected a live token")
	}

	stored, err := storage.Load()
	if err != nil {
		t.Fatalf("expected session persisted: %v", err)
	}
	if stored.Token != store.Token() {
		t.Error("expected persisted token to match live token")
	}
	if stored.User.Role != auth.RoleDean {
		t.Errorf("expected persisted dean identity, got %s", stored.User.Role)
	}
}

func TestLogin_FailureCarriesMessage(t *testing.T) {
	store, _, storage := newTestStore(t)

	err := store.Login(context.Background(), "dean@nitsrinagar.ac.in", "wrong-password")
	if err == nil {
		t.Fatal("expected login failure")
	}
	assertLoggedOut(t, store.State(), "Invalid credentials")

	if _, err := storage.Load(); !errors.Is(err, ErrNoSession) {
		t.Error("expected nothing persisted after failed login")
	}
}

func TestInitialize_RestoresPersistedSession(t *testing.T) {
	backend := api.NewFixtureAuthenticator()
	storage := NewMemoryStorage()

	first := NewStore(backend, storage)
	if err := first.Login(context.Background(), "dean@nitsrinagar.ac.in", "password123"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// A new store over the same storage simulates an app restart.
	second := NewStore(backend, storage)
	second.Initialize(context.Background())
	assertAuthenticated(t, second.State(), "dean@nitsrinagar.ac.in")
}

func TestInitialize_RejectedTokenReadsSessionExpired(t *testing.T) {
	store, _, storage := newTestStore(t)

	// A token the backend never issued (e.g. it expired server-side).
	storage.Save(&StoredSession{
		Token: "stale-token",
		User:  auth.Identity{ID: "u1", Email: "dean@nitsrinagar.ac.in", Role: auth.RoleDean},
	})

	store.Initialize(context.Background())
	assertLoggedOut(t, store.State(), "Session expired")

	// The dead session is also gone from storage.
	if _, err := storage.Load(); !errors.Is(err, ErrNoSession) {
		t.Error("expected rejected session cleared from storage")
	}
}

// slowAuthenticator blocks Validate until its context is done, standing in
// for an unreachable backend.
type slowAuthenticator struct {
	api.Authenticator
}

func (s *slowAuthenticator) Validate(ctx context.Context, token string) (*auth.Identity, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestInitialize_ValidationTimeout(t *testing.T) {
	storage := NewMemoryStorage()
	storage.Save(&StoredSession{Token: "some-token", User: auth.Identity{ID: "u1"}})

	backend := &slowAuthenticator{Authenticator: api.NewFixtureAuthenticator()}
	store := NewStore(backend, storage, WithValidateTimeout(20*time.Millisecond))

	done := make(chan struct{})
	go func() {
		store.Initialize(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Initialize did not return; timeout not applied")
	}
	assertLoggedOut(t, store.State(), "Session expired")
}

func TestLogout_ClearsEverything(t *testing.T) {
	store, backend, storage := newTestStore(t)

	if err := store.Login(context.Background(), "dean@nitsrinagar.ac.in", "password123"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	token := store.Token()

	store.Logout(context.Background())
	assertLoggedOut(t, store.State(), "")
	if store.Token() != "" {
		t.Error("expected token cleared")
	}
	if _, err := storage.Load(); !errors.Is(err, ErrNoSession) {
		t.Error("expected storage cleared")
	}
	if _, err := backend.Validate(context.Background(), token); err == nil {
		t.Error("expected fixture backend session revoked")
	}
}

func TestLogout_Idempotent(t *testing.T) {
	store, _, _ := newTestStore(t)

	if err := store.Login(context.Background(), "dean@nitsrinagar.ac.in", "password123"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	store.Logout(context.Background())
	store.Logout(context.Background())
	store.Logout(context.Background())
	assertLoggedOut(t, store.State(), "")
}

func TestClearError(t *testing.T) {
	store, _, _ := newTestStore(t)

	store.Login(context.Background(), "dean@nitsrinagar.ac.in", "wrong-password")
	if store.State().Error == "" {
		t.Fatal("expected an error to clear")
	}

	store.ClearError()
	assertLoggedOut(t, store.State(), "")

	// Clearing twice is fine.
	store.ClearError()
}

func TestSignup_ActivatesSession(t *testing.T) {
	store, _, _ := newTestStore(t)

	err := store.Signup(context.Background(), "New Scholar", "new@student.nitsrinagar.ac.in", "secret123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	state := store.State()
	assertAuthenticated(t, state, "new@student.nitsrinagar.ac.in")
	if state.User.Role != auth.RoleStudent {
		t.Errorf("expected new accounts to be students, got %s", state.User.Role)
	}
}

func TestStore_ConcurrentOperationsSettle(t *testing.T) {
	store, _, _ := newTestStore(t)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			store.Login(context.Background(), "dean@nitsrinagar.ac.in", "password123")
		}()
		go func() {
			defer wg.Done()
			store.State()
			store.ClearError()
		}()
	}
	wg.Wait()

	// All logins succeeded, so the store must settle authenticated with
	// loading cleared, never stuck mid-transition.
	assertAuthenticated(t, store.State(), "dean@nitsrinagar.ac.in")
}

func TestStateSnapshot_IsACopy(t *testing.T) {
	store, _, _ := newTestStore(t)
	if err := store.Login(context.Background(), "dean@nitsrinagar.ac.in", "password123"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	snapshot := store.State()
	snapshot.User.Name = "Mallory"

	if store.State().User.Name == "Mallory" {
		t.Error("mutating a snapshot must not affect the store")
	}
}

func TestFileStorage_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "session.json")
	fs := NewFileStorage(path)

	if _, err := fs.Load(); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession on empty store, got %v", err)
	}

	want := &StoredSession{
		Token: "token-123",
		User:  auth.Identity{ID: "u1", Email: "dean@nitsrinagar.ac.in", Name: "Dean", Role: auth.RoleDean},
	}
	if err := fs.Save(want); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := fs.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Token != want.Token || got.User.Email != want.User.Email || got.User.Role != want.User.Role {
		t.Errorf("round trip mismatch: %+v", got)
	}

	if err := fs.Clear(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := fs.Load(); !errors.Is(err, ErrNoSession) {
		t.Errorf("expected ErrNoSession after clear, got %v", err)
	}
	// Clearing again is not an error.
	if err := fs.Clear(); err != nil {
		t.Errorf("unexpected error on double clear: %v", err)
	}
}
