package users

import (
	"net/http"
	"net/mail"

	"github.com/labstack/echo/v4"

	"github.com/campuskit/scholarbase/internal/apperror"
	"github.com/campuskit/scholarbase/internal/plugins/auth"
)

// Handler handles the profile HTTP endpoints. All routes require the auth
// middleware; the subject is always the authenticated user -- there is no
// admin path for editing someone else's profile.
type Handler struct {
	service UserService
}

// NewHandler creates a new users handler with the given service.
func NewHandler(service UserService) *Handler {
	return &Handler{service: service}
}

// updateProfileRequest is the body for PUT /api/users/me. Pointer fields
// distinguish "absent" from "set to empty".
type updateProfileRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

// changePasswordRequest is the body for PUT /api/users/me/password.
type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// Me returns the authenticated user's profile sans password hash
// (GET /api/users/me).
func (h *Handler) Me(c echo.Context) error {
	user, err := h.service.Profile(c.Request().Context(), auth.GetUserID(c))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, user)
}

// UpdateMe updates the authenticated user's name and/or email
// (PUT /api/users/me).
func (h *Handler) UpdateMe(c echo.Context) error {
	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}

	fields := make(map[string]string)
	if req.Name != nil && *req.Name == "" {
		fields["name"] = "Name is required"
	}
	if req.Email != nil {
		if _, err := mail.ParseAddress(*req.Email); err != nil {
			fields["email"] = "Please enter a valid email"
		}
	}
	if len(fields) > 0 {
		return apperror.NewValidation("invalid profile data", fields)
	}

	user, err := h.service.UpdateProfile(c.Request().Context(), auth.GetUserID(c), UpdateProfileInput{
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, user)
}

// ChangePassword replaces the authenticated user's password
// (PUT /api/users/me/password). All previously issued tokens become stale.
func (h *Handler) ChangePassword(c echo.Context) error {
	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}

	if len(req.NewPassword) < 6 {
		return apperror.NewValidation("invalid password data", map[string]string{
			"new_password": "Password must be at least 6 characters long",
		})
	}

	err := h.service.ChangePassword(c.Request().Context(), auth.GetUserID(c), ChangePasswordInput{
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Password updated. Please log in again.",
	})
}
