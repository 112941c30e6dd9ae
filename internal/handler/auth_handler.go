package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/brightdesk/auth-gateway/internal/autherr"
	"github.com/brightdesk/auth-gateway/internal/dto"
	"github.com/brightdesk/auth-gateway/internal/entity"
	"github.com/brightdesk/auth-gateway/internal/middleware"
	"github.com/brightdesk/auth-gateway/internal/service"
	"github.com/brightdesk/auth-gateway/internal/session"
)

// AuthHandler exposes the credential endpoints.
type AuthHandler struct {
	authService *service.AuthService
	sessions    *session.Store
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(authService *service.AuthService, sessions *session.Store) *AuthHandler {
	return &AuthHandler{authService: authService, sessions: sessions}
}

// Signup handles POST /auth/signup requests.
func (h *AuthHandler) Signup(c echo.Context) error {
	var req dto.SignupRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	user, err := h.authService.Signup(c.Request().Context(), req.Name, req.Email, req.Password)
	if err != nil {
		var ve *autherr.ValidationError
		switch {
		case errors.As(err, &ve):
			return Invalid(c, ve.Field, ve.Message)
		case errors.Is(err, autherr.ErrEmailTaken):
			return Error(c, http.StatusConflict, autherr.MessageFor(err))
		default:
			return Error(c, http.StatusBadGateway, autherr.MessageFor(err))
		}
	}

	return Success(c, http.StatusCreated, "signup successful", toUserResponse(user))
}

// Login handles POST /auth/login requests.
func (h *AuthHandler) Login(c echo.Context) error {
	var req dto.LoginRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	user, sess, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, autherr.ErrMissingFields) {
			return Error(c, http.StatusBadRequest, "Email and password are required")
		}
		message := autherr.MessageFor(err)
		if message == autherr.MsgInvalidCredentials {
			return Error(c, http.StatusUnauthorized, message)
		}
		return Error(c, http.StatusBadGateway, message)
	}

	if err := h.sessions.Issue(c.Response(), sess.AccessToken); err != nil {
		log.Printf("issue session cookie: %v", err)
	}

	return Success(c, http.StatusOK, "login successful", dto.SessionResponse{
		AccessToken: sess.AccessToken,
		User:        toUserResponse(user),
	})
}

// Logout handles POST /auth/logout requests. The session cookie is cleared
// whether or not the provider sign-out succeeds.
func (h *AuthHandler) Logout(c echo.Context) error {
	token := middleware.AccessTokenFromContext(c)
	err := h.authService.Logout(c.Request().Context(), token)
	h.sessions.Clear(c.Response())
	if err != nil {
		return Error(c, http.StatusBadGateway, autherr.MessageFor(err))
	}
	return Success(c, http.StatusOK, "logout successful", nil)
}

// RequestPasswordReset handles POST /auth/recover requests.
func (h *AuthHandler) RequestPasswordReset(c echo.Context) error {
	var req dto.ResetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}
	if req.Email == "" {
		return Invalid(c, "email", "Please enter a valid email address")
	}

	if err := h.authService.RequestPasswordReset(c.Request().Context(), req.Email); err != nil {
		return Error(c, http.StatusBadGateway, autherr.MessageFor(err))
	}
	return Success(c, http.StatusOK, "password reset email sent", nil)
}

// UpdatePassword handles PUT /auth/password requests for the session owner.
func (h *AuthHandler) UpdatePassword(c echo.Context) error {
	var req dto.UpdatePasswordRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}
	if !service.ValidatePassword(req.Password) {
		return Invalid(c, "password", "Password must be at least 6 characters long")
	}

	token := middleware.AccessTokenFromContext(c)
	if err := h.authService.UpdatePassword(c.Request().Context(), token, req.Password); err != nil {
		return Error(c, http.StatusBadGateway, autherr.MessageFor(err))
	}
	return Success(c, http.StatusOK, "password updated", nil)
}

func toUserResponse(user *entity.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        user.ID.String(),
		Email:     user.Email,
		Name:      user.Name,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
	}
}
