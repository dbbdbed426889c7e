package auth

import (
	"context"
	"sync"
	"time"

	"github.com/campuskit/scholarbase/internal/apperror"
)

// memoryUserRepository is the in-memory UserRepository used in fixture mode
// and in tests. It honors the same contracts as the SQL implementation:
// case-insensitive email uniqueness, NotFound on missing rows, and
// password_changed_at stamping on password updates.
type memoryUserRepository struct {
	mu    sync.RWMutex
	byID  map[string]*User
	email map[string]string // normalized email -> user ID
}

// NewMemoryUserRepository creates an empty in-memory user repository.
func NewMemoryUserRepository() UserRepository {
	return &memoryUserRepository{
		byID:  make(map[string]*User),
		email: make(map[string]string),
	}
}

func (r *memoryUserRepository) Create(ctx context.Context, user *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	email := NormalizeEmail(user.Email)
	if _, taken := r.email[email]; taken {
		return apperror.NewBadRequest("User already exists")
	}

	stored := *user
	stored.Email = email
	r.byID[stored.ID] = &stored
	r.email[email] = stored.ID
	return nil
}

func (r *memoryUserRepository) FindByID(ctx context.Context, id string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.byID[id]
	if !ok {
		return nil, apperror.NewNotFound("user not found")
	}
	copied := *user
	return &copied, nil
}

func (r *memoryUserRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.email[NormalizeEmail(email)]
	if !ok {
		return nil, apperror.NewNotFound("user not found")
	}
	copied := *r.byID[id]
	return &copied, nil
}

func (r *memoryUserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.email[NormalizeEmail(email)]
	return ok, nil
}

func (r *memoryUserRepository) UpdateLastLogin(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.byID[id]
	if !ok {
		return apperror.NewNotFound("user not found")
	}
	now := time.Now().UTC()
	user.LastLoginAt = &now
	return nil
}

func (r *memoryUserRepository) UpdateProfile(ctx context.Context, id, name, email string) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.byID[id]
	if !ok {
		return nil, apperror.NewNotFound("user not found")
	}

	newEmail := NormalizeEmail(email)
	if owner, taken := r.email[newEmail]; taken && owner != id {
		return nil, apperror.NewBadRequest("Email already in use")
	}

	delete(r.email, user.Email)
	user.Email = newEmail
	user.Name = name
	user.UpdatedAt = time.Now().UTC()
	r.email[newEmail] = id

	copied := *user
	return &copied, nil
}

func (r *memoryUserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.byID[id]
	if !ok {
		return apperror.NewNotFound("user not found")
	}
	now := time.Now().UTC()
	user.PasswordHash = passwordHash
	user.PasswordChangedAt = &now
	user.UpdatedAt = now
	return nil
}
