package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	authpkg "github.com/brightdesk/auth-gateway/internal/auth"
	"github.com/brightdesk/auth-gateway/internal/config"
	"github.com/brightdesk/auth-gateway/internal/handler"
	middlewarepkg "github.com/brightdesk/auth-gateway/internal/middleware"
	"github.com/brightdesk/auth-gateway/internal/session"
)

// Handlers aggregates HTTP handlers used by the router.
type Handlers struct {
	Auth  *handler.AuthHandler
	Users *handler.UserAdminHandler
}

// Register wires all HTTP routes for the API.
func Register(e *echo.Echo, cfg *config.Config, parser *authpkg.TokenParser, sessions *session.Store, handlers Handlers) {
	e.GET("/healthz", func(c echo.Context) error {
		return handler.Success(c, http.StatusOK, "service healthy", map[string]any{"status": "ok"})
	})

	authLimiter := middlewarepkg.AuthRateLimiter(cfg.RateLimitAuth)
	e.POST("/auth/signup", handlers.Auth.Signup, authLimiter)
	e.POST("/auth/login", handlers.Auth.Login, authLimiter)
	e.POST("/auth/recover", handlers.Auth.RequestPasswordReset)

	secured := e.Group("")
	secured.Use(middlewarepkg.Session(parser, sessions))

	secured.POST("/auth/logout", handlers.Auth.Logout)
	secured.PUT("/auth/password", handlers.Auth.UpdatePassword)

	// The admin role gate lives in the user service; these routes only
	// require a valid session.
	admin := secured.Group("/admin")
	admin.GET("/users", handlers.Users.List)
	admin.GET("/users/stats", handlers.Users.Stats)
	admin.DELETE("/users/:id", handlers.Users.Delete)
}
