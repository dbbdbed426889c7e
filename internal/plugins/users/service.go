// Package users exposes the profile operations for the authenticated user:
// reading the profile, updating name/email, and changing the password.
// It operates on the auth plugin's user repository; profile routes sit
// behind the auth middleware.
package users

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/campuskit/scholarbase/internal/apperror"
	"github.com/campuskit/scholarbase/internal/plugins/auth"
)

// UpdateProfileInput carries the optional profile fields for PUT /users/me.
// Nil fields are left unchanged.
type UpdateProfileInput struct {
	Name  *string
	Email *string
}

// ChangePasswordInput carries the payload for PUT /users/me/password.
type ChangePasswordInput struct {
	CurrentPassword string
	NewPassword     string
}

// UserService defines the profile business logic contract.
type UserService interface {
	Profile(ctx context.Context, userID string) (*auth.User, error)
	UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*auth.User, error)
	ChangePassword(ctx context.Context, userID string, input ChangePasswordInput) error
}

type userService struct {
	repo       auth.UserRepository
	bcryptCost int
}

// NewUserService creates a profile service over the given user repository.
func NewUserService(repo auth.UserRepository, bcryptCost int) UserService {
	return &userService{repo: repo, bcryptCost: bcryptCost}
}

// Profile returns the user record for the authenticated identity. The auth
// middleware already re-validated existence, but the record can vanish
// between that check and this read, so missing maps to 404.
func (s *userService) Profile(ctx context.Context, userID string) (*auth.User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if apperror.SafeCode(err) == 404 {
			return nil, apperror.NewNotFound("User not found")
		}
		return nil, apperror.NewInternal(fmt.Errorf("loading profile: %w", err))
	}
	return user, nil
}

// UpdateProfile applies the provided subset of {name, email}. Changing the
// email to one held by another account is a 400.
func (s *userService) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*auth.User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if apperror.SafeCode(err) == 404 {
			return nil, apperror.NewNotFound("User not found")
		}
		return nil, apperror.NewInternal(fmt.Errorf("loading profile: %w", err))
	}

	name := user.Name
	if input.Name != nil {
		name = *input.Name
	}

	email := user.Email
	if input.Email != nil && auth.NormalizeEmail(*input.Email) != user.Email {
		email = auth.NormalizeEmail(*input.Email)
		taken, err := s.repo.EmailExists(ctx, email)
		if err != nil {
			return nil, apperror.NewInternal(fmt.Errorf("checking email: %w", err))
		}
		if taken {
			return nil, apperror.NewBadRequest("Email already in use")
		}
	}

	updated, err := s.repo.UpdateProfile(ctx, userID, name, email)
	if err != nil {
		if appErr, ok := err.(*apperror.AppError); ok {
			return nil, appErr
		}
		return nil, apperror.NewInternal(fmt.Errorf("updating profile: %w", err))
	}

	slog.Info("profile updated", slog.String("user_id", userID))
	return updated, nil
}

// ChangePassword verifies the current password, then stores a new bcrypt
// hash. The repository stamps password_changed_at, which invalidates every
// token issued before this instant -- including the one authorizing this
// very request, so the client must log in again.
func (s *userService) ChangePassword(ctx context.Context, userID string, input ChangePasswordInput) error {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if apperror.SafeCode(err) == 404 {
			return apperror.NewNotFound("User not found")
		}
		return apperror.NewInternal(fmt.Errorf("loading user: %w", err))
	}

	if !auth.VerifyPassword(input.CurrentPassword, user.PasswordHash) {
		return apperror.NewUnauthorized("Current password is incorrect")
	}

	hash, err := auth.HashPassword(input.NewPassword, s.bcryptCost)
	if err != nil {
		return apperror.NewInternal(fmt.Errorf("hashing password: %w", err))
	}

	if err := s.repo.UpdatePassword(ctx, userID, hash); err != nil {
		if appErr, ok := err.(*apperror.AppError); ok {
			return appErr
		}
		return apperror.NewInternal(fmt.Errorf("updating password: %w", err))
	}

	slog.Info("password changed", slog.String("user_id", userID))
	return nil
}
