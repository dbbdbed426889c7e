package users

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/campuskit/scholarbase/internal/apperror"
	"github.com/campuskit/scholarbase/internal/plugins/auth"
	"github.com/campuskit/scholarbase/internal/token"
)

// newSeededRepo creates a memory repository with one account whose password
// is "password123".
func newSeededRepo(t *testing.T) (auth.UserRepository, *auth.User) {
	t.Helper()
	repo := auth.NewMemoryUserRepository()
	hash, err := auth.HashPassword("password123", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	user := &auth.User{
		ID:           "u1",
		Email:        "arjun.nair@student.nitsrinagar.ac.in",
		Name:         "Arjun Nair",
		PasswordHash: hash,
		Role:         auth.RoleStudent,
	}
	if err := repo.Create(context.Background(), user); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return repo, user
}

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

func strPtr(s string) *string { return &s }

func TestProfile_ReturnsUser(t *testing.T) {
	repo, _ := newSeededRepo(t)
	svc := NewUserService(repo, bcrypt.MinCost)

	user, err := svc.Profile(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Email != "arjun.nair@student.nitsrinagar.ac.in" {
		t.Errorf("unexpected email: %s", user.Email)
	}
}

func TestProfile_UnknownUser(t *testing.T) {
	repo, _ := newSeededRepo(t)
	svc := NewUserService(repo, bcrypt.MinCost)

	_, err := svc.Profile(context.Background(), "ghost")
	assertAppError(t, err, 404)
}

func TestUpdateProfile_PartialUpdate(t *testing.T) {
	repo, _ := newSeededRepo(t)
	svc := NewUserService(repo, bcrypt.MinCost)

	updated, err := svc.UpdateProfile(context.Background(), "u1", UpdateProfileInput{
		Name: strPtr("Arjun K. Nair"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Name != "Arjun K. Nair" {
		t.Errorf("expected updated name, got %s", updated.Name)
	}
	if updated.Email != "arjun.nair@student.nitsrinagar.ac.in" {
		t.Errorf("expected email unchanged, got %s", updated.Email)
	}
}

func TestUpdateProfile_EmailCollision(t *testing.T) {
	repo, _ := newSeededRepo(t)
	hash, _ := auth.HashPassword("password123", bcrypt.MinCost)
	other := &auth.User{
		ID:           "u2",
		Email:        "meera.iyer@student.nitsrinagar.ac.in",
		Name:         "Meera Iyer",
		PasswordHash: hash,
		Role:         auth.RoleStudent,
	}
	if err := repo.Create(context.Background(), other); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	svc := NewUserService(repo, bcrypt.MinCost)
	_, err := svc.UpdateProfile(context.Background(), "u1", UpdateProfileInput{
		Email: strPtr("Meera.Iyer@student.nitsrinagar.ac.in"),
	})
	appErr := assertAppError(t, err, 400)
	if appErr.Message != "Email already in use" {
		t.Errorf("unexpected message: %s", appErr.Message)
	}
}

func TestUpdateProfile_SameEmailNoCollision(t *testing.T) {
	repo, _ := newSeededRepo(t)
	svc := NewUserService(repo, bcrypt.MinCost)

	// Re-submitting your own email (any casing) is not a collision.
	if _, err := svc.UpdateProfile(context.Background(), "u1", UpdateProfileInput{
		Email: strPtr("Arjun.Nair@student.nitsrinagar.ac.in"),
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestChangePassword_WrongCurrentPassword(t *testing.T) {
	repo, _ := newSeededRepo(t)
	svc := NewUserService(repo, bcrypt.MinCost)

	err := svc.ChangePassword(context.Background(), "u1", ChangePasswordInput{
		CurrentPassword: "wrong-password",
		NewPassword:     "new-password-456",
	})
	appErr := assertAppError(t, err, 401)
	if appErr.Message != "Current password is incorrect" {
		t.Errorf("unexpected message: %s", appErr.Message)
	}
}

func TestChangePassword_InvalidatesOlderTokens(t *testing.T) {
	repo, _ := newSeededRepo(t)
	userSvc := NewUserService(repo, bcrypt.MinCost)

	tokens, err := token.NewManager("users-service-test-secret-0123456789", 24*time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	authSvc := auth.NewAuthService(repo, tokens, bcrypt.MinCost)

	resp, err := authSvc.Login(context.Background(), auth.LoginInput{
		Email:    "arjun.nair@student.nitsrinagar.ac.in",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := authSvc.Authenticate(context.Background(), resp.Token); err != nil {
		t.Fatalf("expected token valid before change, got %v", err)
	}

	// The iat claim has one-second resolution, so the change must land in a
	// later second than issuance for the token to read as stale.
	time.Sleep(1100 * time.Millisecond)

	if err := userSvc.ChangePassword(context.Background(), "u1", ChangePasswordInput{
		CurrentPassword: "password123",
		NewPassword:     "new-password-456",
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = authSvc.Authenticate(context.Background(), resp.Token)
	appErr := assertAppError(t, err, 401)
	if appErr.Message != "User recently changed password! Please log in again" {
		t.Errorf("unexpected message: %s", appErr.Message)
	}

	// The new password logs in; the old one does not.
	if _, err := authSvc.Login(context.Background(), auth.LoginInput{
		Email:    "arjun.nair@student.nitsrinagar.ac.in",
		Password: "new-password-456",
	}); err != nil {
		t.Fatalf("expected login with new password, got %v", err)
	}
	if _, err := authSvc.Login(context.Background(), auth.LoginInput{
		Email:    "arjun.nair@student.nitsrinagar.ac.in",
		Password: "password123",
	}); err == nil {
		t.Fatal("expected login with old password to fail")
	}
}
