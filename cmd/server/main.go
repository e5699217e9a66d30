package main

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"

	"taskhive/docs"
	"taskhive/internal/auth"
	"taskhive/internal/cache"
	"taskhive/internal/config"
	"taskhive/internal/db"
	"taskhive/internal/handler"
	"taskhive/internal/repository"
	"taskhive/internal/router"
	"taskhive/internal/service"
)

// @title Taskhive API
// @version 1.0
// @description Multi-tenant task tracker with JWT authentication. Every task operation is scoped to the authenticated caller.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT token.
func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg := config.Load()
	if cfg.JWTSecret == "" {
		logger.Fatal("TASKHIVE_JWT_SECRET is required")
	}
	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = cfg.SwaggerHost
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		logger.Fatalf("database init: %v", err)
	}

	if err := db.Migrate(gormDB); err != nil {
		logger.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	userRepo := repository.NewUserRepository(gormDB)
	taskRepo := repository.NewTaskRepository(gormDB)

	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.TokenTTL)

	authService := service.NewAuthService(userRepo, jwtService)
	taskService := service.NewTaskService(taskRepo, cacheClient)

	authHandler := handler.NewAuthHandler(authService)
	taskHandler := handler.NewTaskHandler(taskService)

	router.Register(e, jwtService, userRepo, authHandler, taskHandler)

	logger.Infof("listening on :%s", cfg.ServerPort)
	if err := e.Start(":" + cfg.ServerPort); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("server start: %v", err)
	}
}
