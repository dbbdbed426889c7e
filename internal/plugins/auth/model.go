// Package auth handles user authentication and authorization for
// Scholarbase. It provides registration, login, bearer-token verification,
// the per-request auth middleware, and the role guard. Tokens are stateless
// JWTs; the credential store is the relational users table.
//
// This is a CORE plugin -- always enabled, cannot be disabled.
package auth

import (
	"time"
)

// Role is the closed set of system roles. Ordered by decreasing scope:
// the dean oversees all departments, HODs their department, supervisors
// their students.
type Role string

const (
	RoleDean       Role = "dean"
	RoleHOD        Role = "hod"
	RoleSupervisor Role = "supervisor"
	RoleStudent    Role = "student"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleDean, RoleHOD, RoleSupervisor, RoleStudent:
		return true
	}
	return false
}

// User represents a registered Scholarbase user. This is the domain model
// used throughout the application. Database scanning and JSON marshaling
// use this struct directly.
type User struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	PasswordHash string `json:"-"` // Never expose in JSON responses.
	Role         Role   `json:"role"`
	Department   string `json:"department,omitempty"`
	Designation  string `json:"designation,omitempty"`

	// Course is set for supervisors (the course they supervise) and
	// students (the course they are enrolled in).
	Course       *string    `json:"course,omitempty"`
	ProfileImage string     `json:"profile_image,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`

	// PasswordChangedAt invalidates tokens issued before a password change.
	// Nil when the password was never changed after account creation.
	PasswordChangedAt *time.Time `json:"-"`
}

// Identity is the value object attached to requests by the auth middleware
// and mirrored into the client session state. Immutable once issued for a
// session; a new login produces a new Identity.
type Identity struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	Name         string     `json:"name"`
	Role         Role       `json:"role"`
	Department   string     `json:"department,omitempty"`
	Designation  string     `json:"designation,omitempty"`
	Course       *string    `json:"course,omitempty"`
	ProfileImage string     `json:"profile_image,omitempty"`
	LastLoginAt  *time.Time `json:"last_login,omitempty"`
}

// IdentityOf builds the session Identity from a user record.
func IdentityOf(u *User) Identity {
	return Identity{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		Role:         u.Role,
		Department:   u.Department,
		Designation:  u.Designation,
		Course:       u.Course,
		ProfileImage: u.ProfileImage,
		LastLoginAt:  u.LastLoginAt,
	}
}

// --- Request DTOs (bound from HTTP requests) ---

// RegisterRequest holds the data submitted to POST /api/auth/register.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// LoginRequest holds the data submitted to POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// --- Service Input DTOs (passed from handler to service) ---

// RegisterInput is the validated input for creating a new user.
type RegisterInput struct {
	Email    string
	Password string
	Name     string
}

// LoginInput is the validated input for authenticating a user.
type LoginInput struct {
	Email    string
	Password string
}

// --- Responses ---

// PublicUser is the reduced user representation returned by the register
// and login endpoints.
type PublicUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// TokenResponse is the success body for register (201) and login (200).
type TokenResponse struct {
	Token string     `json:"token"`
	User  PublicUser `json:"user"`
}
