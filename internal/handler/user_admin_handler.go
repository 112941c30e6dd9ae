package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/brightdesk/auth-gateway/internal/autherr"
	"github.com/brightdesk/auth-gateway/internal/dto"
	"github.com/brightdesk/auth-gateway/internal/middleware"
	"github.com/brightdesk/auth-gateway/internal/repository"
	"github.com/brightdesk/auth-gateway/internal/service"
)

// UserAdminHandler exposes administrative user management endpoints.
type UserAdminHandler struct {
	users *service.UserService
}

// NewUserAdminHandler constructs a handler instance.
func NewUserAdminHandler(users *service.UserService) *UserAdminHandler {
	return &UserAdminHandler{users: users}
}

// List returns all users. Non-admin sessions get an empty list.
func (h *UserAdminHandler) List(c echo.Context) error {
	role := middleware.RoleFromContext(c)
	records := h.users.ListUsers(c.Request().Context(), role)
	return Success(c, http.StatusOK, "users retrieved", records)
}

// Stats returns the dashboard counters. Non-admin sessions get zeroes.
func (h *UserAdminHandler) Stats(c echo.Context) error {
	role := middleware.RoleFromContext(c)
	stats := h.users.UserStats(c.Request().Context(), role)
	return Success(c, http.StatusOK, "stats retrieved", dto.UserStatsResponse{
		TotalUsers:  stats.TotalUsers,
		ActiveToday: stats.ActiveToday,
		NewThisWeek: stats.NewThisWeek,
	})
}

// Delete removes a user's profile row and identity.
func (h *UserAdminHandler) Delete(c echo.Context) error {
	role := middleware.RoleFromContext(c)
	id := c.Param("id")

	if err := h.users.DeleteUser(c.Request().Context(), role, id); err != nil {
		switch {
		case errors.Is(err, autherr.ErrUnauthorized):
			return Error(c, http.StatusForbidden, "insufficient permissions")
		case errors.Is(err, repository.ErrProfileNotFound):
			return Error(c, http.StatusNotFound, "user not found")
		case errors.Is(err, autherr.ErrInvalidUserID):
			return Error(c, http.StatusBadRequest, "invalid user id")
		default:
			return Error(c, http.StatusBadGateway, autherr.MessageFor(err))
		}
	}

	return Success(c, http.StatusOK, "user deleted", nil)
}
