package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/campuskit/scholarbase/internal/apperror"
	"github.com/campuskit/scholarbase/internal/token"
)

// AuthService defines the business logic contract for authentication.
// Handlers call these methods -- they never touch the repository directly.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*TokenResponse, error)
	Login(ctx context.Context, input LoginInput) (*TokenResponse, error)

	// Authenticate verifies a bearer token end to end: signature, expiry,
	// subject re-validation against the credential store, and the
	// password-change staleness check. Returns the live user record.
	Authenticate(ctx context.Context, tokenStr string) (*User, error)
}

// authService implements AuthService with bcrypt hashing and stateless JWTs.
type authService struct {
	repo       UserRepository
	tokens     *token.Manager
	bcryptCost int
}

// NewAuthService creates a new auth service with the given dependencies.
func NewAuthService(repo UserRepository, tokens *token.Manager, bcryptCost int) AuthService {
	return &authService{
		repo:       repo,
		tokens:     tokens,
		bcryptCost: bcryptCost,
	}
}

// Register creates a new user account and issues a session token. It
// validates uniqueness, hashes the password with bcrypt, generates a UUID,
// and persists the user. New accounts default to the student role.
func (s *authService) Register(ctx context.Context, input RegisterInput) (*TokenResponse, error) {
	// Check if email is already taken before doing expensive hashing.
	exists, err := s.repo.EmailExists(ctx, input.Email)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("checking email: %w", err))
	}
	if exists {
		return nil, apperror.NewBadRequest("User already exists")
	}

	hash, err := HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("hashing password: %w", err))
	}

	now := time.Now().UTC()
	user := &User{
		ID:           uuid.NewString(),
		Email:        NormalizeEmail(input.Email),
		Name:         input.Name,
		PasswordHash: hash,
		Role:         RoleStudent,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("creating user: %w", err))
	}

	tokenStr, err := s.tokens.Issue(user.ID, string(user.Role))
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("issuing token: %w", err))
	}

	slog.Info("user registered",
		slog.String("user_id", user.ID),
		slog.String("email", user.Email),
	)

	return &TokenResponse{
		Token: tokenStr,
		User:  PublicUser{ID: user.ID, Name: user.Name, Email: user.Email, Role: user.Role},
	}, nil
}

// Login authenticates a user by email and password and issues a fresh
// session token. Unknown email and wrong password produce the identical
// "Invalid credentials" response so callers cannot enumerate accounts.
func (s *authService) Login(ctx context.Context, input LoginInput) (*TokenResponse, error) {
	user, err := s.repo.FindByEmail(ctx, input.Email)
	if err != nil {
		if apperror.SafeCode(err) == 404 {
			return nil, apperror.NewBadRequest("Invalid credentials")
		}
		return nil, apperror.NewInternal(fmt.Errorf("finding user: %w", err))
	}

	if !VerifyPassword(input.Password, user.PasswordHash) {
		return nil, apperror.NewBadRequest("Invalid credentials")
	}

	tokenStr, err := s.tokens.Issue(user.ID, string(user.Role))
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("issuing token: %w", err))
	}

	// Update the user's last login timestamp (fire-and-forget, non-critical).
	if err := s.repo.UpdateLastLogin(ctx, user.ID); err != nil {
		slog.Warn("failed to update last login",
			slog.String("user_id", user.ID),
			slog.Any("error", err),
		)
	}

	slog.Info("user logged in",
		slog.String("user_id", user.ID),
		slog.String("email", user.Email),
	)

	return &TokenResponse{
		Token: tokenStr,
		User:  PublicUser{ID: user.ID, Name: user.Name, Email: user.Email, Role: user.Role},
	}, nil
}

// Authenticate runs the full per-request token check. Rejection reasons are
// deliberately specific in the message (expired vs. deleted user vs. stale)
// because the client uses them to prompt re-login, but all map to 401.
func (s *authService) Authenticate(ctx context.Context, tokenStr string) (*User, error) {
	claims, err := s.tokens.Verify(tokenStr)
	if err != nil {
		switch err {
		case token.ErrExpired:
			return nil, apperror.NewUnauthorized("Your token has expired! Please log in again.")
		default:
			return nil, apperror.NewUnauthorized("Invalid token. Please log in again!")
		}
	}

	// The token may be valid while the user has since been deleted.
	user, err := s.repo.FindByID(ctx, claims.UserID())
	if err != nil {
		if apperror.SafeCode(err) == 404 {
			return nil, apperror.NewUnauthorized("The user belonging to this token no longer exists")
		}
		return nil, apperror.NewInternal(fmt.Errorf("revalidating user: %w", err))
	}

	// A password change after issuance invalidates the token even if the
	// expiry has not passed.
	if claims.StaleFor(user.PasswordChangedAt) {
		return nil, apperror.NewUnauthorized("User recently changed password! Please log in again")
	}

	return user, nil
}
