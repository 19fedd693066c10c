package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmorelli/guessphrase/internal/api"
	"github.com/dmorelli/guessphrase/internal/config"
	"github.com/dmorelli/guessphrase/internal/factory"
	"github.com/dmorelli/guessphrase/internal/services/auth"
	"github.com/dmorelli/guessphrase/internal/services/session"
	redisstorage "github.com/dmorelli/guessphrase/internal/storage/redis"
)

func main() {
	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Parse()
	if err != nil {
		logger.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	factoryCfg := factory.Config{
		Logger:      logger,
		StorageType: cfg.StorageType,
		DatabaseDSN: cfg.DatabaseDSN,
		SessionConfig: session.Config{
			RoundDuration: cfg.RoundDuration,
			WinReward:     cfg.WinReward,
		},
		AuthConfig: auth.Config{
			SessionDuration: cfg.SessionDuration,
			StartingCoins:   cfg.StartingCoins,
		},
	}
	if cfg.StorageType == factory.StorageTypeRedis {
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.RedisURL
		factoryCfg.RedisConfig = &redisCfg
	}

	app, err := factory.New(factoryCfg)
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() { _ = app.Close() }()

	// Re-arm expiry timers for rounds that were ongoing at the last shutdown
	resumeCtx, resumeCancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := app.TimerService.Resume(resumeCtx, app.Storage); err != nil {
		logger.Warn("could not resume round timers", slog.String("error", err.Error()))
	}
	resumeCancel()

	router := api.NewRouter(api.RouterConfig{
		Logger:            logger,
		AuthService:       app.AuthService,
		SessionController: app.SessionController,
		CatalogService:    app.CatalogService,
		Storage:           app.Storage,
		Clock:             app.Clock,
	})

	serverConfig := api.DefaultServerConfig()
	serverConfig.Host = cfg.Host
	serverConfig.Port = cfg.Port
	server := api.NewServer(router, serverConfig, logger)

	// Handle graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info("shutdown signal received")
		cancel()
	}()

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("server started", slog.String("addr", server.Addr()))

	// Wait for shutdown or error
	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	case <-ctx.Done():
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	logger.Info("server stopped")
}
