package middleware

import "github.com/labstack/echo/v4"

// Context keys used to store session metadata.
const (
	ContextKeyUserID      = "user_id"
	ContextKeyUserEmail   = "user_email"
	ContextKeyUserRole    = "user_role"
	ContextKeyAccessToken = "access_token"
	ContextKeyRequestID   = "request_id"
)

// RoleFromContext extracts the session role, empty when absent.
func RoleFromContext(c echo.Context) string {
	if val, ok := c.Get(ContextKeyUserRole).(string); ok {
		return val
	}
	return ""
}

// AccessTokenFromContext extracts the provider access token, empty when
// absent.
func AccessTokenFromContext(c echo.Context) string {
	if val, ok := c.Get(ContextKeyAccessToken).(string); ok {
		return val
	}
	return ""
}
