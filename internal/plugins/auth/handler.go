package auth

import (
	"net/http"
	"net/mail"

	"github.com/labstack/echo/v4"

	"github.com/campuskit/scholarbase/internal/apperror"
)

// Handler handles HTTP requests for authentication (register, login, verify).
// Handlers are thin: they bind the request, call the service, and render the
// response. No business logic lives here.
type Handler struct {
	service AuthService
}

// NewHandler creates a new auth handler with the given service.
func NewHandler(service AuthService) *Handler {
	return &Handler{service: service}
}

// Register creates a new account (POST /api/auth/register).
// Responds 201 with a token and the public user on success, 400 with
// field-level detail on validation failure or duplicate email.
func (h *Handler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}

	if fields := validateRegisterRequest(&req); len(fields) > 0 {
		return apperror.NewValidation("invalid registration data", fields)
	}

	resp, err := h.service.Register(c.Request().Context(), RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, resp)
}

// Login authenticates an existing account (POST /api/auth/login).
// Unknown email and wrong password both respond 400 "Invalid credentials".
func (h *Handler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}

	if fields := validateLoginRequest(&req); len(fields) > 0 {
		return apperror.NewValidation("invalid login data", fields)
	}

	resp, err := h.service.Login(c.Request().Context(), LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, resp)
}

// Verify validates the bearer token and returns the live identity
// (POST /api/auth/verify). The client session initializer calls this on
// startup to restore a stored session, so the route is exempt from rate
// limit counting.
func (h *Handler) Verify(c echo.Context) error {
	identity, ok := GetIdentity(c)
	if !ok {
		return apperror.NewUnauthorized("You are not logged in! Please log in to get access")
	}

	return c.JSON(http.StatusOK, map[string]any{
		"user": identity,
	})
}

// --- Validation helpers ---

// validateRegisterRequest checks the registration payload. Returns a map of
// field name to message; empty means valid.
func validateRegisterRequest(req *RegisterRequest) map[string]string {
	fields := make(map[string]string)
	if !validEmail(req.Email) {
		fields["email"] = "Please enter a valid email"
	}
	if len(req.Password) < 6 {
		fields["password"] = "Password must be at least 6 characters long"
	}
	if req.Name == "" {
		fields["name"] = "Name is required"
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}

// validateLoginRequest checks the login payload.
func validateLoginRequest(req *LoginRequest) map[string]string {
	fields := make(map[string]string)
	if !validEmail(req.Email) {
		fields["email"] = "Please enter a valid email"
	}
	if req.Password == "" {
		fields["password"] = "Password is required"
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}

// validEmail reports whether s parses as a bare RFC 5322 address.
func validEmail(s string) bool {
	if s == "" {
		return false
	}
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}
