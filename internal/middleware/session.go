package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	authpkg "github.com/brightdesk/auth-gateway/internal/auth"
	"github.com/brightdesk/auth-gateway/internal/session"
)

// Session resolves the caller's provider access token from the
// Authorization header or the session cookie, verifies its claims and
// stores the session metadata in the request context.
func Session(parser *authpkg.TokenParser, store *session.Store) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := bearerToken(c.Request())
			if token == "" && store != nil {
				if cached, err := store.Token(c.Request()); err == nil {
					token = cached
				}
			}
			if token == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing session"})
			}

			claims, err := parser.Parse(token)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid token"})
			}

			c.Set(ContextKeyUserID, claims.Subject)
			c.Set(ContextKeyUserEmail, claims.Email)
			c.Set(ContextKeyUserRole, claims.Role())
			c.Set(ContextKeyAccessToken, token)

			return next(c)
		}
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}
