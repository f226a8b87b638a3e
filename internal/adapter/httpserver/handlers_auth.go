package httpserver

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"

	"github.com/labstack/echo/v4"

	"github.com/arvidhall/wellnessflow/internal/domain"
	apperrors "github.com/arvidhall/wellnessflow/internal/platform/errors"
)

const minPasswordLength = 6

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	User  userPayload `json:"user"`
	Token string      `json:"token"`
}

func (s *Server) handleRegister(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}

	if req.Name == "" || req.Email == "" || req.Password == "" {
		return apperrors.ValidationError("name, email and password are required")
	}
	if len(req.Password) < minPasswordLength {
		return apperrors.ValidationError("password must be at least 6 characters")
	}
	if !emailPattern.MatchString(req.Email) {
		return apperrors.ValidationError("invalid email format").WithField("email", req.Email)
	}

	user, token, err := s.app.Register(c.Request().Context(), req.Name, req.Email, req.Password)
	if errors.Is(err, domain.ErrEmailTaken) {
		return apperrors.ValidationError("user already exists with this email")
	}
	if err != nil {
		return apperrors.InternalError("failed to register user", err)
	}

	response := authResponse{User: toUserPayload(user), Token: token}
	if err := c.JSON(http.StatusCreated, response); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleLogin(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}

	if req.Email == "" || req.Password == "" {
		return apperrors.ValidationError("email and password are required")
	}

	user, token, err := s.app.Login(c.Request().Context(), req.Email, req.Password)
	if errors.Is(err, domain.ErrInvalidCredentials) {
		// Same message for unknown email and wrong password.
		return apperrors.AuthenticationError("invalid email or password")
	}
	if err != nil {
		return apperrors.InternalError("failed to log in", err)
	}

	response := authResponse{User: toUserPayload(user), Token: token}
	if err := c.JSON(http.StatusOK, response); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}
