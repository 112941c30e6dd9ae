package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	authpkg "github.com/brightdesk/auth-gateway/internal/auth"
	"github.com/brightdesk/auth-gateway/internal/config"
	"github.com/brightdesk/auth-gateway/internal/database"
	"github.com/brightdesk/auth-gateway/internal/handler"
	middlewarepkg "github.com/brightdesk/auth-gateway/internal/middleware"
	"github.com/brightdesk/auth-gateway/internal/provider"
	"github.com/brightdesk/auth-gateway/internal/repository"
	"github.com/brightdesk/auth-gateway/internal/router"
	"github.com/brightdesk/auth-gateway/internal/service"
	"github.com/brightdesk/auth-gateway/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	defer pool.Close()

	tokenParser := authpkg.NewTokenParser(cfg.JWTSecret)
	sessions := session.NewStore(cfg.SessionSecret)
	idp := provider.NewClient(cfg.ProviderURL, cfg.ProviderAnonKey, cfg.ProviderServiceKey, nil)

	profilesRepo := repository.NewPGXProfilesRepository(pool)

	authService := service.NewAuthService(idp, profilesRepo, cfg.ResetRedirectURL)
	userService := service.NewUserService(profilesRepo, idp)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middlewarepkg.RequestID())
	e.Use(middlewarepkg.Logging())
	e.Use(echoMiddleware.Recover())

	router.Register(e, cfg, tokenParser, sessions, router.Handlers{
		Auth:  handler.NewAuthHandler(authService, sessions),
		Users: handler.NewUserAdminHandler(userService),
	})

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- e.Start(":" + cfg.Port)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
		return
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
}
