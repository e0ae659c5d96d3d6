package main

import (
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"

	"wechselplan/config"
	"wechselplan/internal/auth"
	"wechselplan/internal/handlers"
	"wechselplan/internal/middleware"
	"wechselplan/internal/routes"
)

func main() {
	cfg := config.Load()
	config.SetJwtKey(cfg.JWT.Secret)

	config.ConnectDB(cfg)
	if err := config.MigrateDB(); err != nil {
		slog.Error("Migration failed", "error", err)
		os.Exit(1)
	}
	if err := config.SeedLocalAdmin(cfg); err != nil {
		slog.Error("Failed to seed local admin", "error", err)
		os.Exit(1)
	}
	config.ConnectRedis(cfg)

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())

	authHandler := handlers.NewAuthHandler(
		auth.NewLDAPAuthenticator(cfg.Auth.LDAP),
		auth.NewAzureAuthenticator(cfg.Auth.Azure),
		cfg.JWT.TokenExpiry,
	)
	routes.RegisterAPIRoutes(router, authHandler)

	slog.Info("Starting server", "port", cfg.Server.Port)
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		slog.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}
