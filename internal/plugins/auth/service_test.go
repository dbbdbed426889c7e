package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/campuskit/scholarbase/internal/apperror"
	"github.com/campuskit/scholarbase/internal/token"
)

// --- Mock Repository ---

// mockUserRepo implements UserRepository for testing.
type mockUserRepo struct {
	createFn          func(ctx context.Context, user *User) error
	findByIDFn        func(ctx context.Context, id string) (*User, error)
	findByEmailFn     func(ctx context.Context, email string) (*User, error)
	emailExistsFn     func(ctx context.Context, email string) (bool, error)
	updateLastLoginFn func(ctx context.Context, id string) error
	updateProfileFn   func(ctx context.Context, id, name, email string) (*User, error)
	updatePasswordFn  func(ctx context.Context, id, passwordHash string) error
}

func (m *mockUserRepo) Create(ctx context.Context, user *User) error {
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	return nil
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*User, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, apperror.NewNotFound("user not found")
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*User, error) {
	if m.findByEmailFn != nil {
		return m.findByEmailFn(ctx, email)
	}
	return nil, apperror.NewNotFound("user not found")
}

func (m *mockUserRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	if m.emailExistsFn != nil {
		return m.emailExistsFn(ctx, email)
	}
	return false, nil
}

func (m *mockUserRepo) UpdateLastLogin(ctx context.Context, id string) error {
	if m.updateLastLoginFn != nil {
		return m.updateLastLoginFn(ctx, id)
	}
	return nil
}

func (m *mockUserRepo) UpdateProfile(ctx context.Context, id, name, email string) (*User, error) {
	if m.updateProfileFn != nil {
		return m.updateProfileFn(ctx, id, name, email)
	}
	return nil, apperror.NewNotFound("user not found")
}

func (m *mockUserRepo) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	if m.updatePasswordFn != nil {
		return m.updatePasswordFn(ctx, id, passwordHash)
	}
	return nil
}

// --- Test Helpers ---

func newTestTokens(t *testing.T) *token.Manager {
	t.Helper()
	m, err := token.NewManager("auth-service-test-secret-0123456789", 24*time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return m
}

func newTestAuthService(t *testing.T, repo UserRepository) AuthService {
	t.Helper()
	return NewAuthService(repo, newTestTokens(t), bcrypt.MinCost)
}

// testUser builds a user whose password is "password123".
func testUser(t *testing.T, id, email string, role Role) *User {
	t.Helper()
	hash, err := HashPassword("password123", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	now := time.Now().UTC()
	return &User{
		ID:           id,
		Email:        email,
		Name:         "Test User",
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// assertAppError checks that err is an *apperror.AppError with the expected code.
func assertAppError(t *testing.T, err error, expectedCode int) *apperror.AppError {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %d, got nil", expectedCode)
	}
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *apperror.AppError, got %T: %v", err, err)
	}
	if appErr.Code != expectedCode {
		t.Errorf("expected status %d, got %d (message: %s)", expectedCode, appErr.Code, appErr.Message)
	}
	return appErr
}

// --- Register Tests ---

func TestRegister_Success(t *testing.T) {
	var created *User
	repo := &mockUserRepo{
		createFn: func(ctx context.Context, user *User) error {
			created = user
			return nil
		},
	}

	svc := newTestAuthService(t, repo)
	resp, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Arjun Nair",
		Email:    "Arjun.Nair@student.nitsrinagar.ac.in",
		Password: "secure-password-123",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Token == "" {
		t.Error("expected a session token")
	}
	if created == nil {
		t.Fatal("expected user to be persisted")
	}
	if created.Email != "arjun.nair@student.nitsrinagar.ac.in" {
		t.Errorf("expected normalized email, got %s", created.Email)
	}
	if created.Role != RoleStudent {
		t.Errorf("expected new accounts to default to student, got %s", created.Role)
	}
	if created.PasswordHash == "secure-password-123" || created.PasswordHash == "" {
		t.Error("expected password to be hashed")
	}
	if created.ID == "" {
		t.Error("expected user ID to be generated")
	}
	if resp.User.Role != RoleStudent {
		t.Errorf("expected response role student, got %s", resp.User.Role)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	repo := &mockUserRepo{
		emailExistsFn: func(ctx context.Context, email string) (bool, error) {
			return true, nil
		},
	}

	svc := newTestAuthService(t, repo)
	_, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Someone",
		Email:    "dean@nitsrinagar.ac.in",
		Password: "secure-password-123",
	})
	appErr := assertAppError(t, err, 400)
	if appErr.Message != "User already exists" {
		t.Errorf("unexpected message: %s", appErr.Message)
	}
}

// --- Login Tests ---

func TestLogin_Success(t *testing.T) {
	user := testUser(t, "u1", "dean@nitsrinagar.ac.in", RoleDean)
	lastLoginUpdated := false
	repo := &mockUserRepo{
		findByEmailFn: func(ctx context.Context, email string) (*User, error) {
			return user, nil
		},
		updateLastLoginFn: func(ctx context.Context, id string) error {
			lastLoginUpdated = true
			return nil
		},
	}

	svc := newTestAuthService(t, repo)
	resp, err := svc.Login(context.Background(), LoginInput{
		Email:    "dean@nitsrinagar.ac.in",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Token == "" {
		t.Error("expected a session token")
	}
	if resp.User.ID != "u1" {
		t.Errorf("expected user u1, got %s", resp.User.ID)
	}
	if !lastLoginUpdated {
		t.Error("expected last login to be updated")
	}
}

func TestLogin_UnknownEmailAndWrongPassword_Indistinguishable(t *testing.T) {
	user := testUser(t, "u1", "dean@nitsrinagar.ac.in", RoleDean)
	known := &mockUserRepo{
		findByEmailFn: func(ctx context.Context, email string) (*User, error) {
			return user, nil
		},
	}
	unknown := &mockUserRepo{} // FindByEmail defaults to not found.

	svc := newTestAuthService(t, known)
	_, wrongPw := svc.Login(context.Background(), LoginInput{
		Email:    "dean@nitsrinagar.ac.in",
		Password: "wrong-password",
	})
	pwErr := assertAppError(t, wrongPw, 400)

	svc = newTestAuthService(t, unknown)
	_, noUser := svc.Login(context.Background(), LoginInput{
		Email:    "nobody@nitsrinagar.ac.in",
		Password: "password123",
	})
	userErr := assertAppError(t, noUser, 400)

	if pwErr.Message != userErr.Message {
		t.Errorf("expected identical failure messages, got %q vs %q", pwErr.Message, userErr.Message)
	}
	if pwErr.Message != "Invalid credentials" {
		t.Errorf("unexpected message: %s", pwErr.Message)
	}
}

func TestLogin_LastLoginFailureNotFatal(t *testing.T) {
	user := testUser(t, "u1", "dean@nitsrinagar.ac.in", RoleDean)
	repo := &mockUserRepo{
		findByEmailFn: func(ctx context.Context, email string) (*User, error) {
			return user, nil
		},
		updateLastLoginFn: func(ctx context.Context, id string) error {
			return errors.New("connection lost")
		},
	}

	svc := newTestAuthService(t, repo)
	if _, err := svc.Login(context.Background(), LoginInput{
		Email:    "dean@nitsrinagar.ac.in",
		Password: "password123",
	}); err != nil {
		t.Fatalf("expected login to succeed despite last-login failure, got %v", err)
	}
}

// --- Authenticate Tests ---

func TestAuthenticate_Success(t *testing.T) {
	user := testUser(t, "u1", "dean@nitsrinagar.ac.in", RoleDean)
	repo := &mockUserRepo{
		findByEmailFn: func(ctx context.Context, email string) (*User, error) {
			return user, nil
		},
		findByIDFn: func(ctx context.Context, id string) (*User, error) {
			if id != "u1" {
				t.Errorf("expected lookup of u1, got %s", id)
			}
			return user, nil
		},
	}

	svc := newTestAuthService(t, repo)
	resp, err := svc.Login(context.Background(), LoginInput{
		Email:    "dean@nitsrinagar.ac.in",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := svc.Authenticate(context.Background(), resp.Token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != "u1" {
		t.Errorf("expected user u1, got %s", got.ID)
	}
}

func TestAuthenticate_GarbageToken(t *testing.T) {
	svc := newTestAuthService(t, &mockUserRepo{})
	_, err := svc.Authenticate(context.Background(), "not-a-token")
	assertAppError(t, err, 401)
}

func TestAuthenticate_ExpiredToken(t *testing.T) {
	user := testUser(t, "u1", "dean@nitsrinagar.ac.in", RoleDean)
	repo := &mockUserRepo{
		findByIDFn: func(ctx context.Context, id string) (*User, error) {
			return user, nil
		},
	}

	// Issue with a short TTL, then authenticate after it has passed.
	tokens, err := token.NewManager("auth-service-test-secret-0123456789", time.Millisecond)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	svc := NewAuthService(repo, tokens, bcrypt.MinCost)

	tok, err := tokens.Issue("u1", string(RoleDean))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	time.Sleep(5 * time.Millisecond)

	_, authErr := svc.Authenticate(context.Background(), tok)
	appErr := assertAppError(t, authErr, 401)
	if appErr.Message != "Your token has expired! Please log in again." {
		t.Errorf("unexpected message: %s", appErr.Message)
	}
}

func TestAuthenticate_DeletedUser(t *testing.T) {
	repo := &mockUserRepo{} // FindByID defaults to not found.
	tokens := newTestTokens(t)
	svc := NewAuthService(repo, tokens, bcrypt.MinCost)

	tok, err := tokens.Issue("ghost", string(RoleStudent))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, authErr := svc.Authenticate(context.Background(), tok)
	appErr := assertAppError(t, authErr, 401)
	if appErr.Message != "The user belonging to this token no longer exists" {
		t.Errorf("unexpected message: %s", appErr.Message)
	}
}

func TestAuthenticate_StaleAfterPasswordChange(t *testing.T) {
	user := testUser(t, "u1", "dean@nitsrinagar.ac.in", RoleDean)
	repo := &mockUserRepo{
		findByIDFn: func(ctx context.Context, id string) (*User, error) {
			return user, nil
		},
	}
	tokens := newTestTokens(t)
	svc := NewAuthService(repo, tokens, bcrypt.MinCost)

	tok, err := tokens.Issue("u1", string(RoleDean))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Password changes after issuance: token becomes stale.
	changed := time.Now().Add(time.Minute)
	user.PasswordChangedAt = &changed

	_, authErr := svc.Authenticate(context.Background(), tok)
	appErr := assertAppError(t, authErr, 401)
	if appErr.Message != "User recently changed password! Please log in again" {
		t.Errorf("unexpected message: %s", appErr.Message)
	}
}

// --- Seed Tests ---

func TestSeed_LoginWithSeededDean(t *testing.T) {
	repo := NewMemoryUserRepository()
	if err := Seed(context.Background(), repo, bcrypt.MinCost); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	svc := newTestAuthService(t, repo)
	resp, err := svc.Login(context.Background(), LoginInput{
		Email:    "dean@nitsrinagar.ac.in",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.User.Role != RoleDean {
		t.Errorf("expected dean role, got %s", resp.User.Role)
	}
}

func TestSeed_Idempotent(t *testing.T) {
	repo := NewMemoryUserRepository()
	if err := Seed(context.Background(), repo, bcrypt.MinCost); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := Seed(context.Background(), repo, bcrypt.MinCost); err != nil {
		t.Fatalf("expected re-seeding to be a no-op, got %v", err)
	}
}
