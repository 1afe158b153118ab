package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/octobees/outreach-drafter/internal/app"
	"github.com/octobees/outreach-drafter/internal/auth"
	"github.com/octobees/outreach-drafter/internal/config"
	"github.com/octobees/outreach-drafter/internal/handler"
	"github.com/octobees/outreach-drafter/internal/logging"
	"github.com/octobees/outreach-drafter/internal/metrics"
	middlewarepkg "github.com/octobees/outreach-drafter/internal/middleware"
	"github.com/octobees/outreach-drafter/internal/router"
	"github.com/octobees/outreach-drafter/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		zap.NewExample().Fatal("failed to load config", zap.Error(err))
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFile)
	defer func() { _ = logger.Sync() }()

	metrics.Init()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	outreach, cleanup, err := app.NewOutreachService(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialise outreach service", zap.Error(err))
	}
	defer cleanup()

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
	authService := service.NewAuthService(cfg.OperatorEmail, cfg.OperatorPasswordHash, jwtManager)
	if cfg.OperatorEmail == "" || cfg.OperatorPasswordHash == "" {
		logger.Warn("OPERATOR_EMAIL or OPERATOR_PASSWORD_HASH not set, logins will be rejected")
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middlewarepkg.RequestID())
	e.Use(middlewarepkg.Logging(logger))
	e.Use(echoMiddleware.Recover())

	router.Register(e, cfg, jwtManager, router.Handlers{
		Auth:     handler.NewAuthHandler(authService, jwtManager),
		Outreach: handler.NewOutreachHandler(outreach, cfg.Draft, logger),
	})

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("api listening", zap.String("port", cfg.Port))
		serverErr <- e.Start(":" + cfg.Port)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
		return
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
