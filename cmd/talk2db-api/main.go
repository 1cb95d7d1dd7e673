package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/saketh648/talk2db/internal/agent"
	"github.com/saketh648/talk2db/internal/api"
	"github.com/saketh648/talk2db/internal/auth"
	"github.com/saketh648/talk2db/internal/config"
	"github.com/saketh648/talk2db/internal/observability"
)

func main() {
	// A missing .env is fine; the environment may already be populated.
	_ = godotenv.Load()

	cfg, err := config.LoadFromEnv("talk2db-api")
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg, os.Stdout)

	session := agent.NewSession(cfg, logger)
	defer func() { _ = session.Close() }()

	initCtx, cancelInit := context.WithTimeout(context.Background(), 30*time.Second)
	if err := session.Init(initCtx); err != nil {
		cancelInit()
		logger.Error("failed to initialize session clients", slog.Any("error", err))
		os.Exit(1)
	}
	cancelInit()

	deps := api.Dependencies{
		Logger: logger,
		Agent:  session,
		Readiness: api.CombineReadinessChecks(
			api.CheckStoreDSN(cfg),
			api.CheckIndexConfig(cfg),
			session.HealthCheck,
		),
		DependencyTimeout: time.Second,
	}
	if cfg.Auth.Required {
		validator, err := auth.NewStaticAPIKeyValidator(cfg.Auth.StaticKeys)
		if err != nil {
			logger.Error("failed to parse static auth keys", slog.Any("error", err))
			os.Exit(1)
		}
		deps.AuthMiddleware = auth.Middleware(logger, validator)
	}

	handler := api.NewHandler(cfg, deps)
	server := &http.Server{
		Addr:         cfg.HTTP.Address,
		Handler:      handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("starting api server", slog.String("addr", cfg.HTTP.Address))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("api server failed", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", slog.Any("error", err))
	}
	logger.Info("api server stopped")
}
